package groq

import (
	"context"
	"encoding/json"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

// Advisor turns retrieved regulation context plus document text into
// model-generated compliance advice.
type Advisor struct {
	client *Client
}

func NewAdvisor(client *Client) *Advisor {
	return &Advisor{client: client}
}

// Advise requests a structured assessment. A response that is not valid JSON
// is not an error: the raw text is preserved and the severity defaults to
// Medium so a sloppy model answer still reaches the reviewer.
func (a *Advisor) Advise(ctx context.Context, text, documentType string, passages []domain.RetrievedPassage) (*domain.ComplianceAdvice, error) {
	response, err := a.client.CompleteJSON(ctx, advisorSystemPrompt, buildAdvisoryPrompt(text, documentType, passages))
	if err != nil {
		return nil, err
	}

	var advice domain.ComplianceAdvice
	if err := json.Unmarshal([]byte(extractJSONObject(response)), &advice); err != nil {
		return &domain.ComplianceAdvice{
			Raw:      response,
			Severity: string(domain.SeverityMedium),
		}, nil
	}
	if advice.Severity == "" {
		advice.Severity = string(domain.SeverityMedium)
	}
	return &advice, nil
}

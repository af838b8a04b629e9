package groq

import (
	"fmt"
	"strings"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

// maxDocumentRunes bounds how much of the document goes into the prompt.
const maxDocumentRunes = 2000

const advisorSystemPrompt = `You are a legal compliance reviewer for Abu Dhabi Global Market (ADGM) corporate documents. Answer with a single JSON object and nothing else.`

func buildAdvisoryPrompt(text, documentType string, passages []domain.RetrievedPassage) string {
	var b strings.Builder

	if len(passages) > 0 {
		b.WriteString("ADGM Context:\n")
		for _, passage := range passages {
			b.WriteString(passage.Text)
			b.WriteString("\n\n")
		}
	}

	fmt.Fprintf(&b, "Analyze the following %s for ADGM compliance:\n\n", documentType)
	fmt.Fprintf(&b, "Document Type: %s\n", documentType)
	fmt.Fprintf(&b, "Document Content: %s\n\n", truncateRunes(text, maxDocumentRunes))

	b.WriteString(`Provide a structured analysis in JSON format with the following fields:
- compliance_issues: List of compliance problems found
- red_flags: List of red flags identified
- missing_sections: List of missing required sections
- jurisdiction_issues: List of jurisdiction-related problems
- suggestions: List of improvement suggestions
- adgm_references: List of specific ADGM regulation references
- severity: Overall severity level (Low/Medium/High)`)

	return b.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

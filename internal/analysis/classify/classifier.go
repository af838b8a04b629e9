// Package classify scores extracted text against the document-type keyword
// table and picks the best-matching type.
package classify

import (
	"strings"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/rules"
)

type Classifier struct {
	table []rules.DocumentType
}

func New(table []rules.DocumentType) *Classifier {
	return &Classifier{table: table}
}

// Classify lower-cases the text once and scores every registered type:
// confidence is the fraction of that type's keywords occurring anywhere in
// the text as substrings. The highest-confidence type wins; ties, including
// the all-zero case, resolve to the earliest table entry. A zero confidence
// is a valid classification, not an error.
func (c *Classifier) Classify(text string) domain.ClassificationResult {
	if len(c.table) == 0 {
		return domain.ClassificationResult{}
	}

	lowered := strings.ToLower(text)
	best := domain.ClassificationResult{DocumentType: c.table[0].Name}

	for _, dt := range c.table {
		matched := 0
		for _, keyword := range dt.Keywords {
			if strings.Contains(lowered, keyword) {
				matched++
			}
		}
		confidence := float64(matched) / float64(len(dt.Keywords))
		if confidence > best.Confidence {
			best = domain.ClassificationResult{
				DocumentType: dt.Name,
				Confidence:   confidence,
			}
		}
	}
	return best
}

// Package redflag runs the rule-based compliance checks over extracted text
// and aggregates the findings into a DocumentAnalysis.
package redflag

import (
	"fmt"
	"strings"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/rules"
)

const (
	refCompaniesRegulations = "ADGM Companies Regulations 2020"
	refJurisdictionArticle  = "ADGM Companies Regulations 2020, Article 6"
	refDocumentStandards    = "ADGM Document Standards"
)

type Analyzer struct {
	patterns rules.PatternLibrary
	required map[string][]string
}

func New(rs *rules.Ruleset) *Analyzer {
	return &Analyzer{
		patterns: rs.Patterns,
		required: rs.RequiredClauses,
	}
}

// Analyze runs every rule category in fixed order and aggregates the issues.
// Categories never short-circuit each other; identical inputs always produce
// an identical analysis, including issue order.
func (a *Analyzer) Analyze(text, documentType string) domain.DocumentAnalysis {
	var issues []domain.Issue
	issues = append(issues, a.jurisdictionIssues(text)...)
	issues = append(issues, a.missingClauses(text, documentType)...)
	issues = append(issues, a.ambiguousLanguage(text)...)
	issues = append(issues, a.missingSignatures(text)...)
	issues = append(issues, a.incompleteInfo(text)...)
	issues = append(issues, a.nonCompliantStructures(text)...)
	issues = append(issues, a.formattingIssues(text)...)

	return aggregate(documentType, issues)
}

func (a *Analyzer) jurisdictionIssues(text string) []domain.Issue {
	var out []domain.Issue
	for _, re := range a.patterns.Jurisdiction {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			out = append(out, domain.Issue{
				Category:    domain.CategoryJurisdiction,
				Severity:    domain.SeverityHigh,
				Description: "Reference to UAE Federal Courts instead of ADGM",
				Location:    offsetRange(loc),
				Suggestion:  "Replace with ADGM jurisdiction references",
				Reference:   refJurisdictionArticle,
			})
		}
	}
	return out
}

func (a *Analyzer) missingClauses(text, documentType string) []domain.Issue {
	clauses, ok := a.required[documentType]
	if !ok {
		// No registered requirements means no check, not a failure.
		return nil
	}

	lowered := strings.ToLower(text)
	var out []domain.Issue
	for _, clause := range clauses {
		if strings.Contains(lowered, strings.ToLower(clause)) {
			continue
		}
		out = append(out, domain.Issue{
			Category:    domain.CategoryMissingClause,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("Missing required clause: %s", clause),
			Suggestion:  fmt.Sprintf("Add %s section to comply with ADGM requirements", clause),
			Reference:   refCompaniesRegulations,
		})
	}
	return out
}

func (a *Analyzer) ambiguousLanguage(text string) []domain.Issue {
	var out []domain.Issue
	for _, re := range a.patterns.Ambiguous {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			out = append(out, domain.Issue{
				Category:    domain.CategoryAmbiguousLanguage,
				Severity:    domain.SeverityMedium,
				Description: fmt.Sprintf("Ambiguous language found: '%s'", text[loc[0]:loc[1]]),
				Location:    offsetRange(loc),
				Suggestion:  "Replace with specific, binding language",
				Reference:   refCompaniesRegulations,
			})
		}
	}
	return out
}

func (a *Analyzer) missingSignatures(text string) []domain.Issue {
	for _, re := range a.patterns.SignatureIndicators {
		if re.MatchString(text) {
			return nil
		}
	}
	// Presence check: at most one issue regardless of document length.
	return []domain.Issue{{
		Category:    domain.CategoryMissingSignatures,
		Severity:    domain.SeverityHigh,
		Description: "Missing signature section",
		Suggestion:  "Add proper signature blocks with witness signatures",
		Reference:   refCompaniesRegulations,
	}}
}

func (a *Analyzer) incompleteInfo(text string) []domain.Issue {
	var out []domain.Issue
	for _, re := range a.patterns.Incomplete {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			out = append(out, domain.Issue{
				Category:    domain.CategoryIncompleteInfo,
				Severity:    domain.SeverityMedium,
				Description: fmt.Sprintf("Incomplete information: '%s'", text[loc[0]:loc[1]]),
				Location:    offsetRange(loc),
				Suggestion:  "Complete all required information before submission",
				Reference:   refCompaniesRegulations,
			})
		}
	}
	return out
}

func (a *Analyzer) nonCompliantStructures(text string) []domain.Issue {
	var out []domain.Issue
	for _, re := range a.patterns.NonCompliant {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			out = append(out, domain.Issue{
				Category:    domain.CategoryNonCompliantStructure,
				Severity:    domain.SeverityHigh,
				Description: fmt.Sprintf("Non-compliant structure: '%s'", text[loc[0]:loc[1]]),
				Location:    offsetRange(loc),
				Suggestion:  "Review structure for ADGM compliance",
				Reference:   refCompaniesRegulations,
			})
		}
	}
	return out
}

func (a *Analyzer) formattingIssues(text string) []domain.Issue {
	var out []domain.Issue
	if len(strings.Split(text, "\n\n")) < 3 {
		out = append(out, domain.Issue{
			Category:    domain.CategoryFormatting,
			Severity:    domain.SeverityLow,
			Description: "Document appears to have insufficient structure",
			Suggestion:  "Organize document into clear sections with proper headings",
			Reference:   refDocumentStandards,
		})
	}
	if !a.patterns.ClauseNumbering.MatchString(text) {
		out = append(out, domain.Issue{
			Category:    domain.CategoryFormatting,
			Severity:    domain.SeverityLow,
			Description: "Document lacks proper clause numbering",
			Suggestion:  "Add numbered clauses for better organization",
			Reference:   refDocumentStandards,
		})
	}
	return out
}

func aggregate(documentType string, issues []domain.Issue) domain.DocumentAnalysis {
	byCategory := make(map[domain.IssueCategory][]domain.Issue)
	counts := make(map[domain.IssueCategory]int)
	maxRank := 0
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
		counts[issue.Category]++
		if r := issue.Severity.Rank(); r > maxRank {
			maxRank = r
		}
	}

	overall := domain.SeverityLow
	switch {
	case maxRank >= 3:
		overall = domain.SeverityHigh
	case maxRank >= 2:
		overall = domain.SeverityMedium
	}

	return domain.DocumentAnalysis{
		DocumentType:     documentType,
		TotalIssues:      len(issues),
		OverallSeverity:  overall,
		HasIssues:        len(issues) > 0,
		Issues:           issues,
		IssuesByCategory: byCategory,
		CategoryCounts:   counts,
	}
}

func offsetRange(loc []int) string {
	return fmt.Sprintf("Position %d-%d", loc[0], loc[1])
}

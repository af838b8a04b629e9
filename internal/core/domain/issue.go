package domain

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Rank orders severities for aggregation: Low=1, Medium=2, High=3.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

type IssueCategory string

const (
	CategoryJurisdiction          IssueCategory = "jurisdiction_issue"
	CategoryMissingClause         IssueCategory = "missing_clause"
	CategoryAmbiguousLanguage     IssueCategory = "ambiguous_language"
	CategoryMissingSignatures     IssueCategory = "missing_signatures"
	CategoryIncompleteInfo        IssueCategory = "incomplete_info"
	CategoryNonCompliantStructure IssueCategory = "non_compliant_structure"
	CategoryFormatting            IssueCategory = "formatting_issue"
)

// Categories lists every issue category in reporting order.
func Categories() []IssueCategory {
	return []IssueCategory{
		CategoryJurisdiction,
		CategoryMissingClause,
		CategoryAmbiguousLanguage,
		CategoryMissingSignatures,
		CategoryIncompleteInfo,
		CategoryNonCompliantStructure,
		CategoryFormatting,
	}
}

// Issue is a single rule-detected compliance finding. Location, when set,
// is a character-offset range in the extracted text; an empty Location means
// the finding applies to the document as a whole.
type Issue struct {
	Category    IssueCategory `json:"type"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
	Location    string        `json:"location,omitempty"`
	Suggestion  string        `json:"suggestion"`
	Reference   string        `json:"reference"`
}

// DocumentAnalysis aggregates every issue found in one document. Issues keeps
// rule-execution order. HasIssues distinguishes a clean document from one
// whose worst finding merely ranks Low; both carry OverallSeverity "Low".
type DocumentAnalysis struct {
	DocumentType     string                    `json:"document_type"`
	TotalIssues      int                       `json:"total_issues"`
	OverallSeverity  Severity                  `json:"overall_severity"`
	HasIssues        bool                      `json:"has_issues"`
	Issues           []Issue                   `json:"issues"`
	IssuesByCategory map[IssueCategory][]Issue `json:"issues_by_category"`
	CategoryCounts   map[IssueCategory]int     `json:"summary"`
}

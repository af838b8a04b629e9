package domain

// RetrievedPassage is a lexical-similarity hit from the reference corpus.
type RetrievedPassage struct {
	Source string  `json:"source"`
	Kind   string  `json:"kind"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// ComplianceAdvice is the model-generated compliance assessment. When the
// model response cannot be parsed as JSON the advice is empty except for Raw
// and a Medium severity.
type ComplianceAdvice struct {
	ComplianceIssues   []string `json:"compliance_issues"`
	RedFlags           []string `json:"red_flags"`
	MissingSections    []string `json:"missing_sections"`
	JurisdictionIssues []string `json:"jurisdiction_issues"`
	Suggestions        []string `json:"suggestions"`
	References         []string `json:"adgm_references"`
	Severity           string   `json:"severity"`
	Raw                string   `json:"raw_response,omitempty"`
}

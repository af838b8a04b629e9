package domain

// Report is the structured batch-level output: process checklist state plus
// every issue from every analyzed document, flattened in document order.
type Report struct {
	Process           string        `json:"process"`
	DocumentsUploaded int           `json:"documents_uploaded"`
	RequiredDocuments int           `json:"required_documents"`
	MissingDocument   string        `json:"missing_document"`
	IssuesFound       []ReportIssue `json:"issues_found"`
}

// ReportIssue is one flattened issue row. Section carries the issue location
// or the literal "General" when the issue has no location.
type ReportIssue struct {
	Document   string `json:"document"`
	Section    string `json:"section"`
	Issue      string `json:"issue"`
	Severity   string `json:"severity"`
	Suggestion string `json:"suggestion"`
}

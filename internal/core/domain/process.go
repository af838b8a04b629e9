package domain

// ProcessDetection names the legal process inferred from the classified
// document types of a batch, with the checklist derived from it. Missing
// preserves the order of Required.
type ProcessDetection struct {
	Process       string   `json:"process"`
	Required      []string `json:"required"`
	Missing       []string `json:"missing"`
	UploadedCount int      `json:"uploaded_count"`
	RequiredCount int      `json:"required_count"`
}

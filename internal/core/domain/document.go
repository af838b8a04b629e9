package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReviewed   DocumentStatus = "reviewed"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID           string         `json:"id"`
	Filename     string         `json:"filename"`
	MimeType     string         `json:"mime_type"`
	StoragePath  string         `json:"storage_path"`
	DocumentType string         `json:"document_type,omitempty"`
	Confidence   float64        `json:"confidence,omitempty"`
	WordCount    int            `json:"word_count,omitempty"`
	ReviewedPath string         `json:"reviewed_path,omitempty"`
	Status       DocumentStatus `json:"status"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ClassificationResult is the outcome of keyword-table classification.
// Confidence is matched keywords over total keywords for the chosen type.
type ClassificationResult struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}

// Unclassified reports that no keyword of any registered type matched.
// The result still names a document type; callers decide how to present it.
func (c ClassificationResult) Unclassified() bool {
	return c.Confidence == 0
}

// Batch groups uploaded documents that belong to one legal process.
type Batch struct {
	ID          string    `json:"id"`
	DocumentIDs []string  `json:"document_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

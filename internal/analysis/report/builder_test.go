package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

func sampleDetection() domain.ProcessDetection {
	return domain.ProcessDetection{
		Process:       "Company Incorporation",
		Required:      []string{"Articles of Association", "Memorandum of Association", "Incorporation Application"},
		Missing:       []string{"Incorporation Application"},
		UploadedCount: 2,
		RequiredCount: 3,
	}
}

func sampleDocs() []DocumentFindings {
	return []DocumentFindings{
		{
			DocumentType: "Articles of Association",
			Analysis: domain.DocumentAnalysis{Issues: []domain.Issue{
				{Severity: domain.SeverityHigh, Description: "Reference to UAE Federal Courts instead of ADGM", Location: "Position 10-28", Suggestion: "Replace with ADGM jurisdiction references"},
				{Severity: domain.SeverityHigh, Description: "Missing required clause: registered office", Suggestion: "Add registered office section to comply with ADGM requirements"},
			}},
		},
		{
			DocumentType: "Memorandum of Association",
			Analysis: domain.DocumentAnalysis{Issues: []domain.Issue{
				{Severity: domain.SeverityMedium, Description: "Ambiguous language found: 'best efforts'", Location: "Position 5-16", Suggestion: "Replace with specific, binding language"},
				{Severity: domain.SeverityLow, Description: "Document lacks proper clause numbering", Suggestion: "Add numbered clauses for better organization"},
				{Severity: domain.SeverityLow, Description: "Document appears to have insufficient structure", Suggestion: "Organize document into clear sections with proper headings"},
			}},
		},
	}
}

func TestBuildFlattensIssuesInDocumentOrder(t *testing.T) {
	got := NewBuilder().Build(sampleDetection(), sampleDocs())

	if got.Process != "Company Incorporation" {
		t.Fatalf("Process = %q", got.Process)
	}
	if got.DocumentsUploaded != 2 || got.RequiredDocuments != 3 {
		t.Fatalf("counts = %d/%d, want 2/3", got.DocumentsUploaded, got.RequiredDocuments)
	}
	if got.MissingDocument != "Incorporation Application" {
		t.Fatalf("MissingDocument = %q", got.MissingDocument)
	}
	if len(got.IssuesFound) != 5 {
		t.Fatalf("len(IssuesFound) = %d, want 5", len(got.IssuesFound))
	}
	if got.IssuesFound[0].Document != "Articles of Association" || got.IssuesFound[4].Document != "Memorandum of Association" {
		t.Fatalf("issues not in document order: %+v", got.IssuesFound)
	}
	if got.IssuesFound[0].Section != "Position 10-28" {
		t.Fatalf("Section = %q, want location carried over", got.IssuesFound[0].Section)
	}
	if got.IssuesFound[1].Section != "General" {
		t.Fatalf("Section = %q, want %q for locationless issue", got.IssuesFound[1].Section, "General")
	}
}

func TestBuildEmptyBatch(t *testing.T) {
	detection := domain.ProcessDetection{Process: "Company Incorporation", RequiredCount: 5}

	got := NewBuilder().Build(detection, nil)
	if got.Process != "Unknown" {
		t.Fatalf("Process = %q, want Unknown for empty batch", got.Process)
	}
	if got.MissingDocument != "" {
		t.Fatalf("MissingDocument = %q, want empty", got.MissingDocument)
	}
	if got.IssuesFound == nil || len(got.IssuesFound) != 0 {
		t.Fatalf("IssuesFound = %#v, want empty non-nil slice", got.IssuesFound)
	}
}

func TestBuildJSONShape(t *testing.T) {
	raw, err := json.Marshal(NewBuilder().Build(sampleDetection(), sampleDocs()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		`"process"`, `"documents_uploaded"`, `"required_documents"`,
		`"missing_document"`, `"issues_found"`, `"document"`, `"section"`,
		`"issue"`, `"severity"`, `"suggestion"`,
	} {
		if !bytes.Contains(raw, []byte(key)) {
			t.Fatalf("marshaled report missing key %s: %s", key, raw)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, NewBuilder().Build(sampleDetection(), sampleDocs())); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "process,Company Incorporation") {
		t.Fatalf("missing process preamble:\n%s", out)
	}
	if !strings.Contains(out, "document,section,issue,severity,suggestion") {
		t.Fatalf("missing header row:\n%s", out)
	}
	if !strings.Contains(out, "Articles of Association,Position 10-28,") {
		t.Fatalf("missing issue row:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// 4 preamble rows + separator + header + 5 issue rows.
	if len(lines) != 11 {
		t.Fatalf("line count = %d, want 11:\n%s", len(lines), out)
	}
}

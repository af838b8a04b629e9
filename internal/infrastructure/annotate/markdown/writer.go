// Package markdown renders the reviewed copy of an analyzed document: the
// full rule-based findings, any model advice and the extracted sections, as
// one markdown file in object storage.
package markdown

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/core/ports"
)

type Writer struct {
	storage ports.ObjectStorage
	now     func() time.Time
}

func NewWriter(storage ports.ObjectStorage) *Writer {
	return &Writer{storage: storage, now: time.Now}
}

func (w *Writer) WriteReviewed(ctx context.Context, doc *domain.Document, analysis domain.DocumentAnalysis, sections map[string]string, advice *domain.ComplianceAdvice) (string, error) {
	key := reviewedKey(analysis.DocumentType, w.now().UTC())
	body := Render(doc, analysis, sections, advice)

	if err := w.storage.Save(ctx, key, strings.NewReader(body)); err != nil {
		return "", fmt.Errorf("save reviewed copy: %w", err)
	}
	return key, nil
}

func reviewedKey(documentType string, at time.Time) string {
	name := strings.ReplaceAll(documentType, " ", "_")
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("reviewed_%s_%s.md", name, at.Format("20060102_150405"))
}

// Render produces the reviewed document body. Category order is fixed,
// section headings are sorted, so identical inputs render identically.
func Render(doc *domain.Document, analysis domain.DocumentAnalysis, sections map[string]string, advice *domain.ComplianceAdvice) string {
	var b strings.Builder

	b.WriteString("# ADGM Compliance Analysis Report\n\n")
	fmt.Fprintf(&b, "**Document:** %s\n", doc.Filename)
	fmt.Fprintf(&b, "**Document Type:** %s\n", analysis.DocumentType)
	fmt.Fprintf(&b, "**Overall Severity:** %s\n", analysis.OverallSeverity)
	fmt.Fprintf(&b, "**Total Issues Found:** %d\n", analysis.TotalIssues)

	if !analysis.HasIssues {
		b.WriteString("\nNo issues found. Document appears to be compliant with ADGM requirements.\n")
	} else {
		b.WriteString("\n## Summary\n")
		for _, category := range domain.Categories() {
			if count := analysis.CategoryCounts[category]; count > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", categoryTitle(category), count)
			}
		}

		b.WriteString("\n## Detailed Issues\n")
		for _, issue := range analysis.Issues {
			fmt.Fprintf(&b, "\n### %s\n", categoryTitle(issue.Category))
			fmt.Fprintf(&b, "- **Severity:** %s\n", issue.Severity)
			if issue.Location != "" {
				fmt.Fprintf(&b, "- **Location:** %s\n", issue.Location)
			}
			fmt.Fprintf(&b, "- **Description:** %s\n", issue.Description)
			fmt.Fprintf(&b, "- **Suggestion:** %s\n", issue.Suggestion)
			fmt.Fprintf(&b, "- **ADGM Reference:** %s\n", issue.Reference)
		}
	}

	renderAdvice(&b, advice)

	if len(sections) > 0 {
		b.WriteString("\n## Document Sections\n")
		headings := make([]string, 0, len(sections))
		for heading := range sections {
			headings = append(headings, heading)
		}
		sort.Strings(headings)
		for _, heading := range headings {
			fmt.Fprintf(&b, "\n### %s\n%s\n", heading, sections[heading])
		}
	}

	return b.String()
}

func renderAdvice(b *strings.Builder, advice *domain.ComplianceAdvice) {
	if advice == nil {
		return
	}

	b.WriteString("\n## Advisory Findings\n")
	if advice.Raw != "" {
		fmt.Fprintf(b, "\n%s\n", advice.Raw)
		return
	}

	fmt.Fprintf(b, "**Severity:** %s\n", advice.Severity)
	renderList(b, "Compliance Issues", advice.ComplianceIssues)
	renderList(b, "Red Flags", advice.RedFlags)
	renderList(b, "Missing Sections", advice.MissingSections)
	renderList(b, "Jurisdiction Issues", advice.JurisdictionIssues)
	renderList(b, "Suggestions", advice.Suggestions)
	renderList(b, "ADGM References", advice.References)
}

func renderList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func categoryTitle(category domain.IssueCategory) string {
	words := strings.Split(string(category), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

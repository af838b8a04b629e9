// Package sections splits extracted text into heading->content spans using
// heading-pattern heuristics common in legal documents.
package sections

import (
	"regexp"
	"strings"
)

// Heading heuristics, applied in order: ALL-CAPS headings optionally followed
// by CLAUSE/SECTION/ARTICLE and a number, numbered-list headings, and
// ALL-CAPS conjunction headings.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)(?:^|\n)([A-Z][A-Z\s]+(?:CLAUSE|SECTION|ARTICLE)?\s*\d*[.:]?)\s*\n`),
	regexp.MustCompile(`(?m)(?:^|\n)(\d+\.\s*[A-Z][^.\n]+)`),
	regexp.MustCompile(`(?m)(?:^|\n)([A-Z][A-Z\s]+(?:AND|OR|OF)\s+[A-Z\s]+)`),
}

type Extractor struct {
	patterns []*regexp.Regexp
}

func New() *Extractor {
	return &Extractor{patterns: headingPatterns}
}

type span struct {
	heading string
	content string
}

// ExtractSections returns a heading->content mapping. For each pattern, every
// match becomes a candidate heading whose content runs from the end of the
// match to the start of the next match of the same pattern, or end of text.
// When patterns overlap, a later pattern's heading overwrites an earlier one
// on key collision; this is a known limitation of the heuristic, kept
// deliberately rather than resolved.
func (e *Extractor) ExtractSections(text string) map[string]string {
	out := make(map[string]string)
	for _, pattern := range e.patterns {
		for _, s := range spans(pattern, text) {
			out[s.heading] = s.content
		}
	}
	return out
}

func spans(pattern *regexp.Regexp, text string) []span {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]span, 0, len(matches))
	for i, m := range matches {
		heading := strings.TrimSpace(text[m[2]:m[3]])
		contentStart := m[1]
		contentEnd := len(text)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		content := strings.TrimSpace(text[contentStart:contentEnd])
		if heading == "" || content == "" {
			continue
		}
		out = append(out, span{heading: heading, content: content})
	}
	return out
}

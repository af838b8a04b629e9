// Package rules holds the static compliance tables: document-type keywords,
// red-flag patterns, required clauses per document type and process
// checklists. Tables are parsed once at startup and never mutated afterward.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// DocumentType maps a document-type name to its classification keywords.
// Keywords are matched as lowercase substrings, no word boundaries.
type DocumentType struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Process declares which classified types vote for a process and which
// document types the process requires. Declaration order breaks vote ties.
type Process struct {
	Name     string   `yaml:"name"`
	Votes    []string `yaml:"votes"`
	Required []string `yaml:"required"`
}

// PatternLibrary holds the compiled red-flag patterns. All patterns are
// case-insensitive.
type PatternLibrary struct {
	Jurisdiction        []*regexp.Regexp
	Ambiguous           []*regexp.Regexp
	SignatureIndicators []*regexp.Regexp
	Incomplete          []*regexp.Regexp
	NonCompliant        []*regexp.Regexp
	ClauseNumbering     *regexp.Regexp
}

// Ruleset is the full immutable rule configuration.
type Ruleset struct {
	DocumentTypes   []DocumentType
	Patterns        PatternLibrary
	RequiredClauses map[string][]string
	Processes       []Process
}

type clauseRequirement struct {
	DocumentType string   `yaml:"document_type"`
	Clauses      []string `yaml:"clauses"`
}

type redFlagTables struct {
	Jurisdiction        []string `yaml:"jurisdiction"`
	Ambiguous           []string `yaml:"ambiguous_language"`
	SignatureIndicators []string `yaml:"signature_indicators"`
	Incomplete          []string `yaml:"incomplete_info"`
	NonCompliant        []string `yaml:"non_compliant_structures"`
}

type tablesFile struct {
	DocumentTypes   []DocumentType      `yaml:"document_types"`
	RedFlags        redFlagTables       `yaml:"red_flags"`
	RequiredClauses []clauseRequirement `yaml:"required_clauses"`
	Processes       []Process           `yaml:"processes"`
}

// Default parses the embedded tables.
func Default() (*Ruleset, error) {
	return parse(defaultTables)
}

// LoadFile parses an operator-supplied tables file.
func LoadFile(path string) (*Ruleset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Ruleset, error) {
	var file tablesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	if len(file.DocumentTypes) == 0 {
		return nil, fmt.Errorf("rules: no document types registered")
	}
	for i := range file.DocumentTypes {
		dt := &file.DocumentTypes[i]
		if len(dt.Keywords) == 0 {
			return nil, fmt.Errorf("rules: document type %q has no keywords", dt.Name)
		}
		for j, kw := range dt.Keywords {
			dt.Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}

	patterns, err := compilePatterns(file.RedFlags)
	if err != nil {
		return nil, err
	}

	required := make(map[string][]string, len(file.RequiredClauses))
	for _, req := range file.RequiredClauses {
		required[req.DocumentType] = req.Clauses
	}

	return &Ruleset{
		DocumentTypes:   file.DocumentTypes,
		Patterns:        patterns,
		RequiredClauses: required,
		Processes:       file.Processes,
	}, nil
}

func compilePatterns(tables redFlagTables) (PatternLibrary, error) {
	lib := PatternLibrary{
		ClauseNumbering: regexp.MustCompile(`\d+\.`),
	}
	groups := []struct {
		name string
		raw  []string
		dst  *[]*regexp.Regexp
	}{
		{"jurisdiction", tables.Jurisdiction, &lib.Jurisdiction},
		{"ambiguous_language", tables.Ambiguous, &lib.Ambiguous},
		{"signature_indicators", tables.SignatureIndicators, &lib.SignatureIndicators},
		{"incomplete_info", tables.Incomplete, &lib.Incomplete},
		{"non_compliant_structures", tables.NonCompliant, &lib.NonCompliant},
	}
	for _, group := range groups {
		compiled := make([]*regexp.Regexp, 0, len(group.raw))
		for _, pattern := range group.raw {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return PatternLibrary{}, fmt.Errorf("rules: compile %s pattern %q: %w", group.name, pattern, err)
			}
			compiled = append(compiled, re)
		}
		*group.dst = compiled
	}
	return lib, nil
}

package rules

import "testing"

func TestDefaultTablesLoad(t *testing.T) {
	rs, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if len(rs.DocumentTypes) != 12 {
		t.Fatalf("expected 12 document types, got %d", len(rs.DocumentTypes))
	}
	if rs.DocumentTypes[0].Name != "Articles of Association" {
		t.Fatalf("expected Articles of Association first, got %q", rs.DocumentTypes[0].Name)
	}
	for _, dt := range rs.DocumentTypes {
		if len(dt.Keywords) == 0 {
			t.Fatalf("document type %q has no keywords", dt.Name)
		}
	}
	if len(rs.Processes) != 4 {
		t.Fatalf("expected 4 processes, got %d", len(rs.Processes))
	}
	if rs.Processes[0].Name != "Company Incorporation" {
		t.Fatalf("expected Company Incorporation first, got %q", rs.Processes[0].Name)
	}
	if len(rs.RequiredClauses["Articles of Association"]) != 6 {
		t.Fatalf("expected 6 required clauses for Articles of Association, got %d",
			len(rs.RequiredClauses["Articles of Association"]))
	}
}

func TestDefaultPatternsCompileAndMatch(t *testing.T) {
	rs, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if len(rs.Patterns.Jurisdiction) != 6 {
		t.Fatalf("expected 6 jurisdiction patterns, got %d", len(rs.Patterns.Jurisdiction))
	}

	matched := false
	for _, re := range rs.Patterns.Jurisdiction {
		if re.MatchString("disputes are heard by the uae federal courts") {
			matched = true
			break
		}
	}
	if !matched {
		t.Fatalf("expected a jurisdiction pattern to match case-insensitively")
	}

	if !rs.Patterns.ClauseNumbering.MatchString("1. Definitions") {
		t.Fatalf("clause numbering pattern should match numbered clause")
	}
}

func TestParseRejectsEmptyKeywordList(t *testing.T) {
	raw := []byte(`
document_types:
  - name: Broken Type
    keywords: []
`)
	if _, err := parse(raw); err == nil {
		t.Fatalf("expected error for empty keyword list")
	}
}

func TestParseRejectsBadPattern(t *testing.T) {
	raw := []byte(`
document_types:
  - name: Some Type
    keywords: [something]
red_flags:
  jurisdiction:
    - '([unclosed'
`)
	if _, err := parse(raw); err == nil {
		t.Fatalf("expected error for uncompilable pattern")
	}
}

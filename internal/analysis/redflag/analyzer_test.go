package redflag

import (
	"reflect"
	"strings"
	"testing"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/rules"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	rs, err := rules.Default()
	if err != nil {
		t.Fatalf("rules.Default() error = %v", err)
	}
	return New(rs)
}

// A document that trips none of the high/medium checks.
const cleanDoc = `ARTICLES OF ASSOCIATION

1. The company operates under ADGM jurisdiction with defined company objects.

2. The share capital structure, director appointment and shareholder rights are set out below, together with the registered office.

3. This document is executed by the authorized signatory.`

func issuesOf(a domain.DocumentAnalysis, cat domain.IssueCategory) []domain.Issue {
	return a.IssuesByCategory[cat]
}

func TestAnalyzeJurisdictionIssueWithOffsets(t *testing.T) {
	a := newAnalyzer(t)
	text := "This agreement is governed by UAE Federal Courts. Signed by the parties.\n\nSecond paragraph.\n\n1. Third paragraph."

	analysis := a.Analyze(text, "Commercial Agreement")

	found := issuesOf(analysis, domain.CategoryJurisdiction)
	if len(found) == 0 {
		t.Fatalf("expected at least one jurisdiction issue")
	}
	issue := found[0]
	if issue.Severity != domain.SeverityHigh {
		t.Fatalf("expected High severity, got %s", issue.Severity)
	}
	if !strings.HasPrefix(issue.Location, "Position ") {
		t.Fatalf("expected character-offset location, got %q", issue.Location)
	}
	if analysis.OverallSeverity != domain.SeverityHigh {
		t.Fatalf("expected High overall severity, got %s", analysis.OverallSeverity)
	}
}

func TestAnalyzeMissingClausePerAbsentKeyword(t *testing.T) {
	a := newAnalyzer(t)
	text := strings.Replace(cleanDoc, "share capital structure, ", "", 1)

	analysis := a.Analyze(text, "Articles of Association")

	missing := issuesOf(analysis, domain.CategoryMissingClause)
	if len(missing) != 1 {
		t.Fatalf("expected exactly 1 missing-clause issue, got %d: %+v", len(missing), missing)
	}
	if !strings.Contains(missing[0].Description, "share capital structure") {
		t.Fatalf("expected issue to name the missing clause, got %q", missing[0].Description)
	}
}

func TestAnalyzeNoMissingClausesWhenAllPresent(t *testing.T) {
	a := newAnalyzer(t)

	analysis := a.Analyze(cleanDoc, "Articles of Association")
	if n := len(issuesOf(analysis, domain.CategoryMissingClause)); n != 0 {
		t.Fatalf("expected no missing-clause issues, got %d: %+v", n, analysis.IssuesByCategory[domain.CategoryMissingClause])
	}
}

func TestAnalyzeUnknownDocumentTypeSkipsClauseCheck(t *testing.T) {
	a := newAnalyzer(t)

	analysis := a.Analyze("short text, signed by someone\n\ntwo\n\n1. three", "Unknown Type")
	if n := len(issuesOf(analysis, domain.CategoryMissingClause)); n != 0 {
		t.Fatalf("expected clause check skipped for unregistered type, got %d issues", n)
	}
}

func TestAnalyzeMissingSignaturesPresenceCheck(t *testing.T) {
	a := newAnalyzer(t)

	withSig := a.Analyze("Agreement signed by both parties.\n\ntwo\n\n1. three", "Unknown Type")
	if n := len(issuesOf(withSig, domain.CategoryMissingSignatures)); n != 0 {
		t.Fatalf("expected zero signature issues when 'signed by' present, got %d", n)
	}

	withoutSig := a.Analyze("Agreement between the parties.\n\ntwo\n\n1. three", "Unknown Type")
	if n := len(issuesOf(withoutSig, domain.CategoryMissingSignatures)); n != 1 {
		t.Fatalf("expected exactly one missing-signature issue, got %d", n)
	}
}

func TestAnalyzePlaceholdersAndStructures(t *testing.T) {
	a := newAnalyzer(t)
	text := "Shareholder name: [TO BE FILLED]. Amount: TBD. The company issues bearer shares.\n\nSigned by all.\n\n1. Clause."

	analysis := a.Analyze(text, "Unknown Type")

	if n := len(issuesOf(analysis, domain.CategoryIncompleteInfo)); n < 2 {
		t.Fatalf("expected placeholder issues for bracket and TBD, got %d", n)
	}
	structures := issuesOf(analysis, domain.CategoryNonCompliantStructure)
	if len(structures) != 1 {
		t.Fatalf("expected one non-compliant structure issue, got %d", len(structures))
	}
	if structures[0].Severity != domain.SeverityHigh {
		t.Fatalf("expected High severity for bearer shares, got %s", structures[0].Severity)
	}
}

func TestAnalyzeFormattingChecksAreIndependent(t *testing.T) {
	a := newAnalyzer(t)

	// One paragraph, no numbered clause: both formatting issues fire.
	analysis := a.Analyze("signed by someone", "Unknown Type")
	if n := len(issuesOf(analysis, domain.CategoryFormatting)); n != 2 {
		t.Fatalf("expected 2 formatting issues, got %d", n)
	}

	// Numbered clause present, still too few paragraphs: only one fires.
	analysis = a.Analyze("1. Clause signed by someone", "Unknown Type")
	if n := len(issuesOf(analysis, domain.CategoryFormatting)); n != 1 {
		t.Fatalf("expected 1 formatting issue, got %d", n)
	}
}

func TestAnalyzeSeverityAggregation(t *testing.T) {
	a := newAnalyzer(t)

	clean := a.Analyze(cleanDoc, "Articles of Association")
	if clean.OverallSeverity != domain.SeverityLow {
		t.Fatalf("expected Low overall severity for clean doc, got %s", clean.OverallSeverity)
	}
	if clean.HasIssues {
		t.Fatalf("expected HasIssues=false for clean doc, got issues %+v", clean.Issues)
	}
	if clean.TotalIssues != 0 {
		t.Fatalf("expected zero issues, got %d", clean.TotalIssues)
	}

	// Low-only: formatting issue but nothing else.
	lowOnly := a.Analyze(strings.Replace(cleanDoc, "\n\n", "\n", -1), "Articles of Association")
	if lowOnly.OverallSeverity != domain.SeverityLow {
		t.Fatalf("expected Low overall severity, got %s", lowOnly.OverallSeverity)
	}
	if !lowOnly.HasIssues {
		t.Fatalf("expected HasIssues=true when Low issues exist")
	}

	// Medium: hedging language, no High triggers.
	medium := a.Analyze(cleanDoc+"\n\nThe parties shall use best efforts.", "Articles of Association")
	if medium.OverallSeverity != domain.SeverityMedium {
		t.Fatalf("expected Medium overall severity, got %s", medium.OverallSeverity)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := newAnalyzer(t)
	text := "Governed by UAE Federal Law. Amount TBD. May or may not apply."

	first := a.Analyze(text, "Articles of Association")
	second := a.Analyze(text, "Articles of Association")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical analyses for identical input\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyzeCategoryCountsMatchIssueList(t *testing.T) {
	a := newAnalyzer(t)
	analysis := a.Analyze("Amount TBD. Value to be determined.", "Unknown Type")

	total := 0
	for _, n := range analysis.CategoryCounts {
		total += n
	}
	if total != analysis.TotalIssues {
		t.Fatalf("category counts sum %d != total issues %d", total, analysis.TotalIssues)
	}
	for cat, list := range analysis.IssuesByCategory {
		if analysis.CategoryCounts[cat] != len(list) {
			t.Fatalf("count mismatch for %s: %d vs %d", cat, analysis.CategoryCounts[cat], len(list))
		}
	}
}

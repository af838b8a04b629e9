package process

import (
	"reflect"
	"testing"

	"github.com/corpagent/adgm-compliance/internal/rules"
)

func newDetector(t *testing.T) *Detector {
	t.Helper()
	rs, err := rules.Default()
	if err != nil {
		t.Fatalf("rules.Default() error = %v", err)
	}
	return New(rs.Processes)
}

func TestDetectIncorporationWithMissingDocuments(t *testing.T) {
	d := newDetector(t)

	got := d.Detect([]string{"Articles of Association", "Memorandum of Association"})

	if got.Process != "Company Incorporation" {
		t.Fatalf("Process = %q, want %q", got.Process, "Company Incorporation")
	}
	wantMissing := []string{
		"Incorporation Application",
		"UBO Declaration",
		"Register of Members and Directors",
	}
	if !reflect.DeepEqual(got.Missing, wantMissing) {
		t.Fatalf("Missing = %v, want %v", got.Missing, wantMissing)
	}
	if got.UploadedCount != 2 {
		t.Fatalf("UploadedCount = %d, want 2", got.UploadedCount)
	}
	if got.RequiredCount != 5 {
		t.Fatalf("RequiredCount = %d, want 5", got.RequiredCount)
	}
}

func TestDetectTieResolvesToDeclarationOrder(t *testing.T) {
	d := newDetector(t)

	// One vote each for licensing and employment: licensing is declared first.
	got := d.Detect([]string{"Licensing Application", "Employment Contract"})
	if got.Process != "Company Licensing" {
		t.Fatalf("Process = %q, want %q", got.Process, "Company Licensing")
	}
}

func TestDetectEmptyBatchFallsBackToFirstProcess(t *testing.T) {
	d := newDetector(t)

	got := d.Detect(nil)
	if got.Process != "Company Incorporation" {
		t.Fatalf("Process = %q, want first declared process", got.Process)
	}
	if got.UploadedCount != 0 {
		t.Fatalf("UploadedCount = %d, want 0", got.UploadedCount)
	}
}

func TestDetectUnlistedTypesContributeNothing(t *testing.T) {
	d := newDetector(t)

	got := d.Detect([]string{"Unknown Document", "Employment Contract"})
	if got.Process != "Employment Setup" {
		t.Fatalf("Process = %q, want %q", got.Process, "Employment Setup")
	}
	wantMissing := []string{"Board Resolution", "Compliance Policy"}
	if !reflect.DeepEqual(got.Missing, wantMissing) {
		t.Fatalf("Missing = %v, want %v", got.Missing, wantMissing)
	}
}

func TestMissingPreservesRequiredOrder(t *testing.T) {
	required := []string{"A", "B", "C", "D"}
	uploaded := []string{"C", "A"}

	got := Missing(required, uploaded)
	want := []string{"B", "D"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing(%v, %v) = %v, want %v", required, uploaded, got, want)
	}
}

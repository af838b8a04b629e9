package knowledge

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/corpagent/adgm-compliance/internal/infrastructure/chunking"
)

func newIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewDefaultIndex(nil)
	if err != nil {
		t.Fatalf("NewDefaultIndex() error = %v", err)
	}
	return idx
}

func TestRetrieveRanksRelevantPassageFirst(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Retrieve(context.Background(), "share capital requirements for articles", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected hits for share capital query")
	}
	if !strings.Contains(strings.ToLower(got[0].Text), "share capital") {
		t.Fatalf("top hit does not mention share capital: %q", got[0].Text)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("hits not sorted by score: %v then %v", got[i-1].Score, got[i].Score)
		}
	}
}

func TestRetrieveRespectsLimit(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Retrieve(context.Background(), "ADGM", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) > 2 {
		t.Fatalf("limit not respected: %d hits", len(got))
	}
}

func TestRetrieveNoMatches(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Retrieve(context.Background(), "zzzzqqq xyzabc", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no hits for nonsense query, got %d", len(got))
	}
}

func TestRetrieveIsDeterministic(t *testing.T) {
	idx := newIndex(t)

	first, err := idx.Retrieve(context.Background(), "director register requirements", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	second, err := idx.Retrieve(context.Background(), "director register requirements", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("retrieval not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNewIndexRejectsEmptyCorpus(t *testing.T) {
	if _, err := NewIndex([]byte("passages: []"), chunking.NewSplitter(1000, 200)); err == nil {
		t.Fatalf("expected error for empty corpus")
	}
}

func TestTokenizeAlphaNum(t *testing.T) {
	got := tokenizeAlphaNum("ADGM Companies Regulations 2020, Article 6!")
	want := []string{"adgm", "companies", "regulations", "2020", "article", "6"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokenizeAlphaNum() = %v, want %v", got, want)
	}
}

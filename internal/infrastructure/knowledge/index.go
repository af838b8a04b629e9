// Package knowledge answers regulation-reference queries from an embedded
// corpus using TF-IDF cosine similarity over chunked passages.
package knowledge

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/chunking"
)

//go:embed corpus.yaml
var defaultCorpus []byte

type corpusFile struct {
	Passages []struct {
		Source string `yaml:"source"`
		Kind   string `yaml:"kind"`
		Text   string `yaml:"text"`
	} `yaml:"passages"`
}

type indexedChunk struct {
	source string
	kind   string
	text   string
	tf     map[string]float64
	norm   float64
}

// Index is an immutable in-memory TF-IDF index. Chunks are scored by cosine
// similarity against the query; ties keep corpus order.
type Index struct {
	chunks []indexedChunk
	idf    map[string]float64
}

func NewDefaultIndex(splitter *chunking.Splitter) (*Index, error) {
	return NewIndex(defaultCorpus, splitter)
}

func NewIndex(raw []byte, splitter *chunking.Splitter) (*Index, error) {
	var file corpusFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse corpus yaml: %w", err)
	}
	if len(file.Passages) == 0 {
		return nil, fmt.Errorf("knowledge corpus is empty")
	}
	if splitter == nil {
		splitter = chunking.NewSplitter(1000, 200)
	}

	idx := &Index{idf: make(map[string]float64)}
	df := make(map[string]int)
	for _, passage := range file.Passages {
		for _, chunk := range splitter.Split(passage.Text) {
			tf := termFrequencies(chunk)
			if len(tf) == 0 {
				continue
			}
			idx.chunks = append(idx.chunks, indexedChunk{
				source: passage.Source,
				kind:   passage.Kind,
				text:   chunk,
				tf:     tf,
			})
			for term := range tf {
				df[term]++
			}
		}
	}
	if len(idx.chunks) == 0 {
		return nil, fmt.Errorf("knowledge corpus produced no indexable chunks")
	}

	n := float64(len(idx.chunks))
	for term, count := range df {
		idx.idf[term] = math.Log(1 + n/(1+float64(count)))
	}
	for i := range idx.chunks {
		idx.chunks[i].norm = idx.norm(idx.chunks[i].tf)
	}
	return idx, nil
}

// Retrieve returns up to limit chunks with nonzero similarity, best first.
func (idx *Index) Retrieve(_ context.Context, query string, limit int) ([]domain.RetrievedPassage, error) {
	if limit <= 0 {
		limit = 5
	}

	queryTF := termFrequencies(query)
	queryNorm := idx.norm(queryTF)
	if queryNorm == 0 {
		return nil, nil
	}

	type scored struct {
		pos   int
		score float64
	}
	hits := make([]scored, 0, len(idx.chunks))
	for i, chunk := range idx.chunks {
		score := idx.dot(queryTF, chunk.tf) / (queryNorm * chunk.norm)
		if score > 0 {
			hits = append(hits, scored{pos: i, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.RetrievedPassage, 0, len(hits))
	for _, hit := range hits {
		chunk := idx.chunks[hit.pos]
		out = append(out, domain.RetrievedPassage{
			Source: chunk.source,
			Kind:   chunk.kind,
			Text:   chunk.text,
			Score:  hit.score,
		})
	}
	return out, nil
}

func (idx *Index) dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, av := range a {
		if bv, ok := b[term]; ok {
			w := idx.idf[term]
			sum += av * w * bv * w
		}
	}
	return sum
}

func (idx *Index) norm(tf map[string]float64) float64 {
	var sum float64
	for term, v := range tf {
		w := v * idx.idf[term]
		sum += w * w
	}
	return math.Sqrt(sum)
}

func termFrequencies(text string) map[string]float64 {
	tokens := tokenizeAlphaNum(text)
	if len(tokens) == 0 {
		return nil
	}
	tf := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		tf[token]++
	}
	return tf
}

func tokenizeAlphaNum(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

// Package index implements the lexical TF-IDF vector index over the corpus.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/palmrag/internal/domain/corpus"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
	"github.com/kailas-cloud/palmrag/internal/domain/search/request"
	"github.com/kailas-cloud/palmrag/internal/domain/search/result"
)

// weight is a single non-zero component of a sparse vector.
type weight struct {
	term  int
	value float64
}

// vector is a sparse TF-IDF vector. Components are sorted by term index so
// dot products are always accumulated in the same order.
type vector struct {
	components []weight
	norm       float64
}

// Index is a read-only TF-IDF matrix built once from the corpus.
// It is safe for concurrent use without locking.
type Index struct {
	docs       []corpus.Document
	vocabulary map[string]int
	idf        []float64
	vectors    []vector
}

// Build vectorizes the documents. The vocabulary is sorted, so the result is
// a pure function of the corpus contents.
func Build(docs []corpus.Document) (*Index, error) {
	if err := corpus.Validate(docs); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		tokens := Tokenize(d.IndexText())
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	ix := &Index{
		docs:       append([]corpus.Document(nil), docs...),
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		vectors:    make([]vector, len(docs)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		ix.vocabulary[term] = i
		// Smoothed IDF
		ix.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	for i, tokens := range tokenized {
		ix.vectors[i] = ix.vectorize(tokens)
	}
	return ix, nil
}

// vectorize weighs raw term counts by corpus IDF. Unknown terms are ignored.
func (ix *Index) vectorize(tokens []string) vector {
	counts := make(map[int]int)
	for _, tok := range tokens {
		if idx, ok := ix.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	components := make([]weight, 0, len(counts))
	for idx, c := range counts {
		components = append(components, weight{term: idx, value: float64(c) * ix.idf[idx]})
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].term < components[j].term
	})

	sum := 0.0
	for _, w := range components {
		sum += w.value * w.value
	}
	return vector{components: components, norm: math.Sqrt(sum)}
}

// Search ranks documents against the query and returns exactly k snippets.
//
// k is clamped to [1, min(request.MaxK, Size())]. Documents are ordered by
// descending score; zero-score documents follow the positive ones in corpus
// order, so a query with no overlap yields the first k documents with score 0.
// An unknown mode falls back to cosine. Search never panics on any input.
func (ix *Index) Search(query string, k int, m mode.Mode) []result.Result {
	limit := ix.Size()
	if limit > request.MaxK {
		limit = request.MaxK
	}
	k = request.ClampK(k, limit)

	q := ix.vectorize(Tokenize(query))

	type scored struct {
		pos   int
		score float64
	}
	all := make([]scored, len(ix.vectors))
	for i := range ix.vectors {
		all[i] = scored{pos: i, score: score(q, ix.vectors[i], m)}
	}

	// Stable: ties keep corpus insertion order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].score > all[j].score
	})

	out := make([]result.Result, 0, k)
	for _, s := range all[:k] {
		d := ix.docs[s.pos]
		out = append(out, result.New(d.ID(), d.Title(), d.Text(), s.score))
	}
	return out
}

// score computes the similarity of two sparse vectors. Never NaN or negative.
func score(q, d vector, m mode.Mode) float64 {
	dp := dot(q, d)
	var s float64
	switch m {
	case mode.Dot:
		s = dp
	default:
		if q.norm == 0 || d.norm == 0 {
			return 0
		}
		s = dp / (q.norm * d.norm)
		if s > 1 {
			s = 1
		}
	}
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return s
}

// dot merges two term-sorted component lists.
func dot(a, b vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.components) && j < len(b.components) {
		ta, tb := a.components[i].term, b.components[j].term
		switch {
		case ta == tb:
			sum += a.components[i].value * b.components[j].value
			i++
			j++
		case ta < tb:
			i++
		default:
			j++
		}
	}
	return sum
}

// IDF returns the inverse document frequency of a normalized term.
func (ix *Index) IDF(term string) (float64, bool) {
	idx, ok := ix.vocabulary[term]
	if !ok {
		return 0, false
	}
	return ix.idf[idx], true
}

// Size returns the number of indexed documents.
func (ix *Index) Size() int { return len(ix.docs) }

// VocabularySize returns the number of distinct terms.
func (ix *Index) VocabularySize() int { return len(ix.idf) }

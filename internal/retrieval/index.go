// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/crediverify/crediverify/internal/embedding"
	"github.com/crediverify/crediverify/pkg/types"
)

// Candidate pairs a retrieval unit with its raw cosine similarity to
// the query.
type Candidate struct {
	Unit          types.RetrievalUnit
	RawSimilarity float64
}

// Index holds the embedded corpus for a single validation request.
// Vectors are L2-normalized at build time so the query reduces to a
// dot product.
type Index struct {
	units    []types.RetrievalUnit
	vectors  [][]float32
	embedder embedding.Embedder
}

// NewIndex embeds every unit's content in one pass and returns the
// populated index. An empty unit slice is an error; callers decide
// upstream whether an empty corpus is a degraded path or a failure.
func NewIndex(ctx context.Context, units []types.RetrievalUnit, embedder embedding.Embedder) (*Index, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("building index: no retrieval units")
	}
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Content
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d documents: %w", len(units), err)
	}
	if len(vectors) != len(units) {
		return nil, fmt.Errorf("embedding documents: got %d vectors for %d units", len(vectors), len(units))
	}
	for i := range vectors {
		normalize(vectors[i])
	}
	return &Index{units: units, vectors: vectors, embedder: embedder}, nil
}

// Len reports the number of indexed units.
func (ix *Index) Len() int { return len(ix.units) }

// Query embeds text and returns the top k units by cosine similarity,
// most similar first. Ties keep insertion order. If k meets or exceeds
// the corpus size every unit is returned.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]Candidate, error) {
	if k <= 0 {
		return nil, fmt.Errorf("querying index: k must be positive, got %d", k)
	}
	vec, err := ix.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	normalize(vec)

	candidates := make([]Candidate, len(ix.units))
	for i := range ix.units {
		candidates[i] = Candidate{
			Unit:          ix.units[i],
			RawSimilarity: dot(vec, ix.vectors[i]),
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].RawSimilarity > candidates[b].RawSimilarity
	})
	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

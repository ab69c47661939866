// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"sort"

	"github.com/crediverify/crediverify/pkg/types"
)

// DefaultSimilarityWeight is the fusion weight on normalized
// similarity; the remainder goes to normalized journal rank.
const DefaultSimilarityWeight = 0.8

// ScoredUnit is a retrieval unit after fusion scoring.
type ScoredUnit struct {
	Unit                 types.RetrievalUnit
	RawSimilarity        float64
	NormalizedSimilarity float64
	FinalScore           float64
}

// Rerank fuses similarity with credibility and returns the candidates
// reordered by descending final score. Similarities are min-max
// normalized over the candidate set; when all similarities are equal
// every candidate gets normalized similarity 1.0 and credibility alone
// decides the order. The result is always a permutation of the input.
func Rerank(candidates []Candidate, similarityWeight float64) []ScoredUnit {
	if len(candidates) == 0 {
		return nil
	}
	minSim, maxSim := candidates[0].RawSimilarity, candidates[0].RawSimilarity
	for _, c := range candidates[1:] {
		if c.RawSimilarity < minSim {
			minSim = c.RawSimilarity
		}
		if c.RawSimilarity > maxSim {
			maxSim = c.RawSimilarity
		}
	}
	spread := maxSim - minSim

	scored := make([]ScoredUnit, len(candidates))
	for i, c := range candidates {
		normSim := 1.0
		if spread > 0 {
			normSim = (c.RawSimilarity - minSim) / spread
		}
		scored[i] = ScoredUnit{
			Unit:                 c.Unit,
			RawSimilarity:        c.RawSimilarity,
			NormalizedSimilarity: normSim,
			FinalScore:           similarityWeight*normSim + (1-similarityWeight)*c.Unit.NormalizedRank,
		}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].FinalScore > scored[b].FinalScore
	})
	return scored
}

// Units strips scoring detail, preserving order.
func Units(scored []ScoredUnit) []types.RetrievalUnit {
	units := make([]types.RetrievalUnit, len(scored))
	for i, s := range scored {
		units[i] = s.Unit
	}
	return units
}

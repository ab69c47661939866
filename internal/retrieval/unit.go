// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval builds a per-request in-memory vector index over
// fetched literature and reranks similarity results with journal
// credibility. Documents vary from claim to claim, so nothing here
// persists: the index is built fresh for each validation request and
// discarded with it.
package retrieval

import (
	"fmt"

	"github.com/crediverify/crediverify/pkg/types"
)

// AssembleUnits converts ranked records into embeddable retrieval
// units, one per record, concatenating title, abstract, and
// conclusions under labeled sections.
func AssembleUnits(ranked []types.RankedRecord) []types.RetrievalUnit {
	units := make([]types.RetrievalUnit, 0, len(ranked))
	for _, rr := range ranked {
		units = append(units, types.RetrievalUnit{
			Content: fmt.Sprintf("Title: %s\n\nAbstract: %s\n\nConclusions: %s",
				rr.Title, rr.Abstract, rr.Conclusions),
			PMID:           rr.PMID,
			URL:            rr.URL,
			NormalizedRank: rr.NormalizedRank,
		})
	}
	return units
}

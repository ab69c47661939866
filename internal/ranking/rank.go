// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/crediverify/crediverify/pkg/types"
)

// defaultMatchFloor is the minimum fuzzy-match similarity for a journal
// to be treated as mapped. Below it the record is unranked rather than
// mismapped to an unrelated journal.
const defaultMatchFloor = 0.55

// Rank joins records against the credibility table and computes
// normalized credibility scores.
//
// Each record's journal is fuzzy-matched (Levenshtein ratio) against
// the table; ties resolve to the earlier table row. Matches below the
// floor are unranked: kept with the worst observed raw rank when
// cfg.KeepUnmatched is set, dropped otherwise. A matched journal
// without a rank value drops the record. Normalization is min-max over
// the surviving set, inverted so the most prestigious journal scores
// 1.0; a zero-range set scores 1.0 across the board instead of
// dividing by zero.
//
// Input order is preserved in the output.
func Rank(records []types.LiteratureRecord, table Table, cfg types.RankingConfig) []types.RankedRecord {
	floor := cfg.MatchFloor
	if floor <= 0 {
		floor = defaultMatchFloor
	}

	lev := metrics.NewLevenshtein()

	type candidate struct {
		record  types.RankedRecord
		matched bool
	}

	var candidates []candidate
	for _, rec := range records {
		idx, score := bestMatch(rec.Journal, table.Entries, lev)
		if idx < 0 {
			continue
		}
		entry := table.Entries[idx]

		rr := types.RankedRecord{
			LiteratureRecord: rec,
			MatchedJournal:   entry.Journal,
			MatchScore:       score,
		}

		switch {
		case score < floor:
			if !cfg.KeepUnmatched {
				continue
			}
			candidates = append(candidates, candidate{record: rr})
		case !entry.HasRank:
			// Best match exists but carries no rank: drop, matching
			// the original left-join behavior.
			continue
		default:
			rr.RawRank = entry.Rank
			candidates = append(candidates, candidate{record: rr, matched: true})
		}
	}

	// Unmatched survivors inherit the worst observed raw rank so they
	// sort behind every matched record.
	worst := 0.0
	for _, c := range candidates {
		if c.matched && c.record.RawRank > worst {
			worst = c.record.RawRank
		}
	}

	ranked := make([]types.RankedRecord, 0, len(candidates))
	for _, c := range candidates {
		rr := c.record
		if !c.matched {
			rr.RawRank = worst
		}
		ranked = append(ranked, rr)
	}

	normalizeRanks(ranked)
	return ranked
}

// bestMatch returns the table index with the highest similarity to the
// journal name, and the similarity. Comparison is case-insensitive.
// Returns -1 for an empty table.
func bestMatch(journal string, entries []Entry, lev *metrics.Levenshtein) (int, float64) {
	best, bestScore := -1, -1.0
	needle := strings.ToLower(strings.TrimSpace(journal))
	for i, entry := range entries {
		score := strutil.Similarity(needle, strings.ToLower(entry.Journal), lev)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestScore
}

// normalizeRanks applies inverted min-max normalization in place. A
// degenerate range (single record or all ranks equal) yields 1.0 for
// every record.
func normalizeRanks(ranked []types.RankedRecord) {
	if len(ranked) == 0 {
		return
	}

	min, max := ranked[0].RawRank, ranked[0].RawRank
	for _, rr := range ranked[1:] {
		if rr.RawRank < min {
			min = rr.RawRank
		}
		if rr.RawRank > max {
			max = rr.RawRank
		}
	}

	if max == min {
		for i := range ranked {
			ranked[i].NormalizedRank = 1.0
		}
		return
	}

	for i := range ranked {
		ranked[i].NormalizedRank = 1.0 - (ranked[i].RawRank-min)/(max-min)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the claim-validation
// pipeline: fetched literature records, credibility-ranked records,
// retrieval units, structured answers, and per-stage configuration.
package types

// ConclusionPlaceholder is stored on a LiteratureRecord when no free
// full-text variant exists or the full-text fetch fails. Downstream
// stages treat it as ordinary content, not as an error.
const ConclusionPlaceholder = "No PMC article available"

// Topics is the ordered keyword set derived from a claim. Each entry is
// a short phrase (at most three tokens) used to build the PubMed query.
type Topics []string

// LiteratureRecord is one article fetched from PubMed. Records are
// immutable after the fetch stage and live only for the duration of a
// single claim-validation request.
type LiteratureRecord struct {
	// PMID is the PubMed identifier, unique within a fetch run.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract. May be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Journal is the free-form journal name as PubMed reports it.
	Journal string `json:"journal" yaml:"journal"`

	// URL points at the PubMed entry for the article.
	URL string `json:"url" yaml:"url"`

	// PMCID identifies the free full-text variant on PubMed Central,
	// when one exists. Empty otherwise.
	PMCID string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`

	// Conclusions holds the text of the article's conclusion section,
	// or ConclusionPlaceholder when no full text could be fetched.
	Conclusions string `json:"conclusions" yaml:"conclusions"`
}

// RankedRecord is a LiteratureRecord joined against the journal
// credibility table.
type RankedRecord struct {
	LiteratureRecord `yaml:",inline"`

	// MatchedJournal is the credibility-table journal name the record's
	// journal was fuzzy-matched to.
	MatchedJournal string `json:"matched_journal" yaml:"matched_journal"`

	// MatchScore is the similarity of the fuzzy match, between 0 and 1.
	MatchScore float64 `json:"match_score" yaml:"match_score"`

	// RawRank is the credibility table's rank for the matched journal.
	// Lower values indicate more prestigious journals.
	RawRank float64 `json:"raw_rank" yaml:"raw_rank"`

	// NormalizedRank is the min-max normalized credibility score in
	// [0,1], where 1 is the most credible journal in the result set.
	NormalizedRank float64 `json:"normalized_rank" yaml:"normalized_rank"`
}

// RetrievalUnit is an embeddable document assembled from one ranked
// record. Units are immutable and owned by a single in-memory index for
// the duration of one request.
type RetrievalUnit struct {
	// Content concatenates title, abstract, and conclusions under
	// labeled sections.
	Content string `json:"content" yaml:"content"`

	// PMID identifies the source article.
	PMID string `json:"pmid" yaml:"pmid"`

	// URL points at the source article.
	URL string `json:"url" yaml:"url"`

	// NormalizedRank is the credibility score carried over from the
	// ranked record, in [0,1].
	NormalizedRank float64 `json:"normalized_rank" yaml:"normalized_rank"`
}

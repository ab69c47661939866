// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate orchestrates the per-claim pipeline: keyword
// extraction, literature fetch, credibility ranking, retrieval with
// credibility-aware reranking, and answer generation.
package validate

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/crediverify/crediverify/internal/answer"
	"github.com/crediverify/crediverify/internal/embedding"
	"github.com/crediverify/crediverify/internal/keywords"
	"github.com/crediverify/crediverify/internal/ranking"
	"github.com/crediverify/crediverify/internal/retrieval"
	"github.com/crediverify/crediverify/pkg/types"
)

// Stage identifies where in the pipeline a claim's processing ended.
type Stage string

const (
	StageKeywords Stage = "keywords"
	StageFetch    Stage = "fetch"
	StageRank     Stage = "rank"
	StageIndex    Stage = "index"
	StageRerank   Stage = "rerank"
	StageAnswer   Stage = "answer"
	StageDone     Stage = "done"
)

const (
	defaultTopK = 5
)

// LiteratureFetcher abstracts the PubMed fetch stage so tests can
// supply a mock.
type LiteratureFetcher interface {
	Fetch(ctx context.Context, topics types.Topics, w io.Writer) ([]types.LiteratureRecord, error)
}

// Result is the outcome of validating one claim. When Err is non-nil
// Stage names the stage that failed; otherwise Stage is StageDone.
type Result struct {
	ID        uuid.UUID
	Claim     string
	Stage     Stage
	Answer    types.Answer
	Sources   []types.RetrievalUnit
	ModelOnly bool
	Err       error
}

// Summary holds counts from a batch validation run.
type Summary struct {
	Validated int
	Failed    int
}

// Total returns the number of claims processed.
func (s Summary) Total() int { return s.Validated + s.Failed }

// HasFailures reports whether any claims failed.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Validator wires the pipeline stages together. All fields must be
// set; the credibility table is loaded once and shared across claims.
type Validator struct {
	Keywords keywords.Extractor
	Fetcher  LiteratureFetcher
	Table    ranking.Table
	Embedder embedding.Embedder
	Answerer answer.Generator
	Config   types.PipelineConfig
}

// ValidateClaim runs the full pipeline for a single claim. An empty
// corpus after fetching or ranking is not a failure: the claim is
// answered from model knowledge alone and the result is marked
// ModelOnly. A fetch error likewise degrades to the model-only path
// with a warning on w, since the claim can still be answered.
func (v *Validator) ValidateClaim(ctx context.Context, claim string, w io.Writer) Result {
	res := Result{ID: uuid.New(), Claim: claim}

	topics, err := v.Keywords.Extract(ctx, claim)
	if err != nil {
		return v.fail(res, StageKeywords, err)
	}

	records, err := v.Fetcher.Fetch(ctx, topics, w)
	if err != nil {
		fmt.Fprintf(w, "warning: literature fetch failed, answering from model knowledge: %v\n", err)
		return v.answerModelOnly(ctx, res)
	}
	if len(records) == 0 {
		return v.answerModelOnly(ctx, res)
	}

	ranked := ranking.Rank(records, v.Table, v.Config.Ranking)
	if len(ranked) == 0 {
		return v.answerModelOnly(ctx, res)
	}

	units := retrieval.AssembleUnits(ranked)
	index, err := retrieval.NewIndex(ctx, units, v.Embedder)
	if err != nil {
		return v.fail(res, StageIndex, err)
	}

	topK := v.Config.Retrieval.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	candidates, err := index.Query(ctx, claim, topK)
	if err != nil {
		return v.fail(res, StageRerank, err)
	}

	weight := v.Config.Retrieval.SimilarityWeight
	if weight <= 0 {
		weight = retrieval.DefaultSimilarityWeight
	}
	scored := retrieval.Rerank(candidates, weight)
	sources := retrieval.Units(scored)

	ans, err := v.Answerer.Generate(ctx, claim, joinSources(sources))
	if err != nil {
		return v.fail(res, StageAnswer, err)
	}

	res.Stage = StageDone
	res.Answer = ans
	res.Sources = sources
	return res
}

// ValidateAll validates claims one at a time, continuing past
// individual failures, and prints per-claim progress and a final
// summary to w.
func (v *Validator) ValidateAll(ctx context.Context, claims []string, w io.Writer) ([]Result, Summary) {
	var summary Summary
	results := make([]Result, 0, len(claims))

	for i, claim := range claims {
		fmt.Fprintf(w, "validating claim %d/%d: %s\n", i+1, len(claims), claim)

		res := v.ValidateClaim(ctx, claim, w)
		results = append(results, res)

		if res.Err != nil {
			fmt.Fprintf(w, "failed  %s stage: %v\n", res.Stage, res.Err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "validated (%s, %d sources)\n", res.Answer.Classification, len(res.Sources))
		summary.Validated++
	}

	fmt.Fprintf(w, "validated %d, failed %d (total %d)\n", summary.Validated, summary.Failed, summary.Total())
	return results, summary
}

func (v *Validator) answerModelOnly(ctx context.Context, res Result) Result {
	ans, err := v.Answerer.Generate(ctx, res.Claim, "")
	if err != nil {
		return v.fail(res, StageAnswer, err)
	}
	res.Stage = StageDone
	res.Answer = ans
	res.ModelOnly = true
	return res
}

func (v *Validator) fail(res Result, stage Stage, err error) Result {
	res.Stage = stage
	res.Err = err
	return res
}

// joinSources concatenates unit contents into the retrieval context
// passed to the answer generator, best-ranked first.
func joinSources(units []types.RetrievalUnit) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = u.Content
	}
	return strings.Join(parts, "\n\n")
}

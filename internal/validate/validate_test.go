// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/crediverify/crediverify/internal/ranking"
	"github.com/crediverify/crediverify/pkg/types"
)

type fakeExtractor struct {
	topics types.Topics
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (types.Topics, error) {
	return f.topics, f.err
}

type fakeFetcher struct {
	records []types.LiteratureRecord
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ types.Topics, _ io.Writer) ([]types.LiteratureRecord, error) {
	f.calls++
	return f.records, f.err
}

// keyedEmbedder returns canned vectors by text and counts calls so
// tests can assert the index was never built.
type keyedEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	docCalls int
}

func (k *keyedEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	k.docCalls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = k.lookup(t)
	}
	return out, nil
}

func (k *keyedEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return k.lookup(text), nil
}

func (k *keyedEmbedder) lookup(text string) []float32 {
	for key, v := range k.vectors {
		if strings.Contains(text, key) {
			return append([]float32(nil), v...)
		}
	}
	return append([]float32(nil), k.fallback...)
}

type fakeAnswerer struct {
	answer   types.Answer
	err      error
	contexts []string
}

func (f *fakeAnswerer) Generate(_ context.Context, _, evidence string) (types.Answer, error) {
	f.contexts = append(f.contexts, evidence)
	if f.err != nil {
		return types.Answer{}, f.err
	}
	return f.answer, nil
}

func record(pmid, title, journal string) types.LiteratureRecord {
	return types.LiteratureRecord{
		PMID:        pmid,
		Title:       title,
		Abstract:    "abstract",
		Journal:     journal,
		URL:         "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
		Conclusions: "conclusions",
	}
}

func testTable() ranking.Table {
	return ranking.Table{Entries: []ranking.Entry{
		{Journal: "the lancet", Rank: 5, HasRank: true},
		{Journal: "nutrition today", Rank: 50, HasRank: true},
	}}
}

func scientificAnswer() types.Answer {
	return types.Answer{
		ScientificValidationSummary: "Strong evidence.",
		Classification:              types.ClassScientific,
		ResearchSummary:             "RCTs agree.",
		ContradictoryClaims:         "None.",
	}
}

func newValidator(ex *fakeExtractor, fe *fakeFetcher, em *keyedEmbedder, an *fakeAnswerer) *Validator {
	return &Validator{
		Keywords: ex,
		Fetcher:  fe,
		Table:    testTable(),
		Embedder: em,
		Answerer: an,
		Config:   types.PipelineConfig{},
	}
}

func TestValidateClaimFullPipeline(t *testing.T) {
	em := &keyedEmbedder{
		vectors: map[string][]float32{
			"On-topic study":  {1, 0},
			"Off-topic study": {0, 1},
			"creatine claim":  {1, 0},
		},
		fallback: []float32{0, 1},
	}
	an := &fakeAnswerer{answer: scientificAnswer()}
	v := newValidator(
		&fakeExtractor{topics: types.Topics{"creatine"}},
		&fakeFetcher{records: []types.LiteratureRecord{
			record("1", "On-topic study", "The Lancet"),
			record("2", "Off-topic study", "Nutrition Today"),
		}},
		em, an,
	)

	var buf bytes.Buffer
	res := v.ValidateClaim(context.Background(), "creatine claim", &buf)
	if res.Err != nil {
		t.Fatalf("ValidateClaim: %v", res.Err)
	}
	if res.Stage != StageDone {
		t.Errorf("stage = %s, want %s", res.Stage, StageDone)
	}
	if res.ModelOnly {
		t.Error("pipeline path should not be model-only")
	}
	if res.Answer.Classification != types.ClassScientific {
		t.Errorf("classification = %q", res.Answer.Classification)
	}
	if len(res.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(res.Sources))
	}
	if res.Sources[0].PMID != "1" {
		t.Errorf("best source = %s, want 1", res.Sources[0].PMID)
	}
	if res.ID == uuid.Nil {
		t.Error("result ID not assigned")
	}
	if len(an.contexts) != 1 || !strings.Contains(an.contexts[0], "On-topic study") {
		t.Errorf("answer context missing retrieved content: %q", an.contexts)
	}
}

func TestValidateClaimEmptyCorpusAnswersModelOnly(t *testing.T) {
	em := &keyedEmbedder{fallback: []float32{1, 0}}
	an := &fakeAnswerer{answer: scientificAnswer()}
	v := newValidator(
		&fakeExtractor{topics: types.Topics{"creatine"}},
		&fakeFetcher{records: nil},
		em, an,
	)

	res := v.ValidateClaim(context.Background(), "a claim", io.Discard)
	if res.Err != nil {
		t.Fatalf("ValidateClaim: %v", res.Err)
	}
	if !res.ModelOnly {
		t.Error("expected model-only result")
	}
	if len(res.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(res.Sources))
	}
	if em.docCalls != 0 {
		t.Errorf("index should not be built on empty corpus, embedder called %d times", em.docCalls)
	}
	if len(an.contexts) != 1 || an.contexts[0] != "" {
		t.Errorf("expected empty answer context, got %q", an.contexts)
	}
}

func TestValidateClaimFetchErrorFallsBackToModelOnly(t *testing.T) {
	an := &fakeAnswerer{answer: scientificAnswer()}
	v := newValidator(
		&fakeExtractor{topics: types.Topics{"creatine"}},
		&fakeFetcher{err: errors.New("eutils unreachable")},
		&keyedEmbedder{fallback: []float32{1, 0}}, an,
	)

	var buf bytes.Buffer
	res := v.ValidateClaim(context.Background(), "a claim", &buf)
	if res.Err != nil {
		t.Fatalf("fetch failure should degrade, got error: %v", res.Err)
	}
	if !res.ModelOnly {
		t.Error("expected model-only result")
	}
	if !strings.Contains(buf.String(), "eutils unreachable") {
		t.Errorf("warning not printed: %q", buf.String())
	}
}

func TestValidateClaimAllRecordsDroppedAnswersModelOnly(t *testing.T) {
	em := &keyedEmbedder{fallback: []float32{1, 0}}
	an := &fakeAnswerer{answer: scientificAnswer()}
	v := newValidator(
		&fakeExtractor{topics: types.Topics{"creatine"}},
		&fakeFetcher{records: []types.LiteratureRecord{
			record("1", "Study", "Zzz Completely Unrelated Quarterly"),
		}},
		em, an,
	)
	v.Config.Ranking.MatchFloor = 0.9

	res := v.ValidateClaim(context.Background(), "a claim", io.Discard)
	if res.Err != nil {
		t.Fatalf("ValidateClaim: %v", res.Err)
	}
	if !res.ModelOnly {
		t.Error("expected model-only result when ranking drops everything")
	}
	if em.docCalls != 0 {
		t.Error("index should not be built when ranking drops everything")
	}
}

func TestValidateClaimKeywordsFailure(t *testing.T) {
	fe := &fakeFetcher{}
	v := newValidator(
		&fakeExtractor{err: errors.New("api down")},
		fe,
		&keyedEmbedder{fallback: []float32{1, 0}},
		&fakeAnswerer{answer: scientificAnswer()},
	)

	res := v.ValidateClaim(context.Background(), "a claim", io.Discard)
	if res.Err == nil {
		t.Fatal("expected error")
	}
	if res.Stage != StageKeywords {
		t.Errorf("stage = %s, want %s", res.Stage, StageKeywords)
	}
	if fe.calls != 0 {
		t.Error("fetch should not run after keywords failure")
	}
}

func TestValidateClaimAnswerFailure(t *testing.T) {
	v := newValidator(
		&fakeExtractor{topics: types.Topics{"creatine"}},
		&fakeFetcher{records: nil},
		&keyedEmbedder{fallback: []float32{1, 0}},
		&fakeAnswerer{err: errors.New("model refused")},
	)

	res := v.ValidateClaim(context.Background(), "a claim", io.Discard)
	if res.Err == nil {
		t.Fatal("expected error")
	}
	if res.Stage != StageAnswer {
		t.Errorf("stage = %s, want %s", res.Stage, StageAnswer)
	}
}

// failOnceExtractor fails for the first claim and succeeds afterwards.
type failOnceExtractor struct {
	calls int
}

func (f *failOnceExtractor) Extract(_ context.Context, _ string) (types.Topics, error) {
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("transient failure")
	}
	return types.Topics{"creatine"}, nil
}

func TestValidateAllContinuesPastFailures(t *testing.T) {
	v := newValidator(nil, &fakeFetcher{records: nil}, &keyedEmbedder{fallback: []float32{1, 0}}, &fakeAnswerer{answer: scientificAnswer()})
	v.Keywords = &failOnceExtractor{}

	var buf bytes.Buffer
	results, summary := v.ValidateAll(context.Background(), []string{"first claim", "second claim"}, &buf)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Err == nil || results[1].Err != nil {
		t.Errorf("expected first to fail and second to succeed: %v, %v", results[0].Err, results[1].Err)
	}
	if summary.Validated != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !summary.HasFailures() || summary.Total() != 2 {
		t.Errorf("summary helpers wrong: %+v", summary)
	}
	out := buf.String()
	if !strings.Contains(out, "validating claim 1/2") || !strings.Contains(out, "validated 1, failed 1 (total 2)") {
		t.Errorf("progress output missing: %q", out)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// localModelName is the sentence-transformer used for offline runs.
// It produces 384-dimensional embeddings.
const localModelName = "sentence-transformers/all-MiniLM-L6-v2"

// LocalEmbedder runs a sentence-transformer model in-process via hugot.
// It needs no API key and suits offline or high-volume runs.
type LocalEmbedder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewLocalEmbedder downloads the model if needed and initializes the
// feature-extraction pipeline with the pure-Go backend.
func NewLocalEmbedder(modelDir string) (*LocalEmbedder, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("creating hugot session: %w", err)
	}

	modelPath, err := hugot.DownloadModel(localModelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("downloading %s: %w", localModelName, err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "crediverify-embedder",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("creating embedding pipeline: %w", err)
	}

	return &LocalEmbedder{session: session, pipeline: pipeline}, nil
}

// Close releases the model session.
func (e *LocalEmbedder) Close() error {
	return e.session.Destroy()
}

// EmbedDocuments embeds a batch of document contents.
func (e *LocalEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	result, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("running embedding pipeline: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("pipeline returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}
	return result.Embeddings, nil
}

// EmbedQuery embeds a single query string.
func (e *LocalEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embedding maps text into fixed-dimension vectors for the
// in-memory retrieval index. Two backends exist: a remote OpenAI
// client and a local sentence-transformer pipeline. Both sit behind
// the Embedder interface so the index and tests stay backend-agnostic.
package embedding

import "context"

// Embedder turns text into fixed-length vectors. Implementations must
// return one vector per input text, all of the same dimension.
type Embedder interface {
	// EmbedDocuments embeds a batch of document contents.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "crediverify/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the literature fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the esearch result count (default 7). It also
	// bounds the number of concurrent per-article fetches.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// FetchDelay is the pacing delay between consecutive per-article
	// fetch launches, to respect NCBI rate limits (default 100ms).
	FetchDelay time.Duration `json:"fetch_delay" yaml:"fetch_delay"`

	// DateRange is the Entrez date filter appended to every query,
	// e.g. `("2000/01/01"[Date - Create] : "2024/07/31"[Date - Create])`.
	DateRange string `json:"date_range" yaml:"date_range"`

	// APIKey is the optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is sent to Entrez as the contact address, per NCBI policy.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// RankingConfig holds settings for the credibility ranking stage.
type RankingConfig struct {
	// TablePath is the journal credibility table, either a CSV file or
	// a SQLite database (selected by extension).
	TablePath string `json:"table_path" yaml:"table_path"`

	// MatchFloor is the minimum fuzzy-match similarity (0-1) for a
	// journal to be considered mapped to a table entry (default 0.55).
	MatchFloor float64 `json:"match_floor" yaml:"match_floor"`

	// KeepUnmatched keeps records whose journal falls below MatchFloor,
	// assigning them the worst observed raw rank. When false such
	// records are dropped from the ranked output.
	KeepUnmatched bool `json:"keep_unmatched" yaml:"keep_unmatched"`
}

// RetrievalConfig holds settings for the vector index and reranker.
type RetrievalConfig struct {
	// TopK is the number of candidates retrieved and reranked (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// SimilarityWeight is the weight of normalized similarity in the
	// fusion score; credibility gets the complement (default 0.8).
	SimilarityWeight float64 `json:"similarity_weight" yaml:"similarity_weight"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EmbeddingConfig holds settings for the embedding stage.
type EmbeddingConfig struct {
	AIConfig `yaml:",inline"`

	// Backend selects the embedder: "openai" or "local".
	Backend string `json:"backend" yaml:"backend"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Ranking   RankingConfig   `json:"ranking" yaml:"ranking"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Answer    AIConfig        `json:"answer" yaml:"answer"`
}

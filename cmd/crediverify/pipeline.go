// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/crediverify/crediverify/internal/chat"
	"github.com/crediverify/crediverify/internal/embedding"
	"github.com/crediverify/crediverify/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 100 * time.Millisecond
	defaultUserAgent = "crediverify/0.1"

	// Default Entrez creation-date window for literature queries.
	defaultDateFrom = "2000/01/01"
	defaultDateTo   = "2024/07/31"
)

// fetchConfigFromFlags assembles the fetch stage config from flags,
// falling back to loaded secrets for the NCBI credentials.
func fetchConfigFromFlags(cmd *cobra.Command) types.FetchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		from = defaultDateFrom
	}
	to, _ := cmd.Flags().GetString("to")
	if to == "" {
		to = defaultDateTo
	}
	apiKey, _ := cmd.Flags().GetString("pubmed-api-key")
	email, _ := cmd.Flags().GetString("email")

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults: maxResults,
		FetchDelay: delay,
		DateRange:  fmt.Sprintf(`(%q[Date - Create] : %q[Date - Create])`, from, to),
		APIKey:     secretDefault("pubmed-api-key", apiKey),
		Email:      secretDefault("entrez-email", email),
	}
}

// rankingConfigFromFlags assembles the ranking stage config.
func rankingConfigFromFlags(cmd *cobra.Command) types.RankingConfig {
	tablePath, _ := cmd.Flags().GetString("table")
	matchFloor, _ := cmd.Flags().GetFloat64("match-floor")
	keepUnmatched, _ := cmd.Flags().GetBool("keep-unmatched")

	return types.RankingConfig{
		TablePath:     tablePath,
		MatchFloor:    matchFloor,
		KeepUnmatched: keepUnmatched,
	}
}

// aiConfigFromFlags assembles the chat model config shared by the
// keyword, claim, and answer stages.
func aiConfigFromFlags(cmd *cobra.Command) types.AIConfig {
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("openai-api-key")

	return types.AIConfig{
		Model:  model,
		APIKey: secretDefault("openai-api-key", apiKey),
	}
}

// newChatClient builds the shared chat backend.
func newChatClient(cmd *cobra.Command, client *http.Client) *chat.Client {
	return chat.NewClient(aiConfigFromFlags(cmd), client)
}

// buildEmbedder selects the embedding backend: the OpenAI API by
// default, or a local MiniLM model when --embedding-backend=local.
func buildEmbedder(cmd *cobra.Command, client *http.Client) (embedding.Embedder, func(), error) {
	backend, _ := cmd.Flags().GetString("embedding-backend")
	switch backend {
	case "", "openai":
		cfg := types.EmbeddingConfig{
			AIConfig: types.AIConfig{APIKey: secretDefault("openai-api-key", "")},
			Backend:  "openai",
		}
		return embedding.NewOpenAIEmbedder(cfg, client), func() {}, nil
	case "local":
		modelDir, _ := cmd.Flags().GetString("model-dir")
		local, err := embedding.NewLocalEmbedder(modelDir)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing local embedder: %w", err)
		}
		return local, func() { local.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown embedding backend %q (want openai or local)", backend)
	}
}

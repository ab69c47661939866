// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat is a minimal OpenAI chat-completions client shared by
// the prompt-driven stages. Each stage owns its prompt and response
// parsing; this package only moves messages over the wire.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/crediverify/crediverify/internal/httputil"
	"github.com/crediverify/crediverify/pkg/types"
)

// chatCompletionsURL is the OpenAI chat completions endpoint.
// Package-level var for test substitution.
var chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

const defaultChatModel = "gpt-4o-mini"

// Completer abstracts the chat backend so stages can supply a mock in
// tests.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls the OpenAI chat completions API.
type Client struct {
	cfg    types.AIConfig
	client *http.Client
}

// NewClient returns a chat client. A nil http.Client falls back to
// http.DefaultClient.
func NewClient(cfg types.AIConfig, client *http.Client) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultChatModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{cfg: cfg, client: client}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single user prompt and returns the assistant's text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return cResp.Choices[0].Message.Content, nil
}

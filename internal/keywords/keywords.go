// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords turns a health claim into a short list of PubMed
// search topics via a chat model.
package keywords

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/crediverify/crediverify/internal/chat"
	"github.com/crediverify/crediverify/pkg/types"
)

// maxTopics caps how many search topics a single claim produces.
const maxTopics = 3

// keywordPromptTmpl instructs the model to distill a claim into at
// most three search keywords and respond with a bare JSON array.
var keywordPromptTmpl = template.Must(template.New("keywords").Parse(`You are a medical researcher who wants to check the validity of the following claim by searching for articles from PubMed.
Extract at most 3 medical/health/nutrition related keywords summarizing the claim. The keywords should be single words as much as possible.

Respond with a JSON array of keyword strings and nothing else.

Example response:
["creatine", "muscle", "strength"]

Claim:
{{.Claim}}
`))

// Extractor produces search topics for a claim. Implementations call a
// generative model; tests supply a mock.
type Extractor interface {
	Extract(ctx context.Context, claim string) (types.Topics, error)
}

// ChatExtractor extracts topics through a chat completions backend.
type ChatExtractor struct {
	Completer chat.Completer
}

// NewChatExtractor returns an Extractor backed by the given completer.
func NewChatExtractor(completer chat.Completer) *ChatExtractor {
	return &ChatExtractor{Completer: completer}
}

// Extract asks the model for keywords and parses the JSON array reply.
// The result is trimmed, stripped of empty entries, and truncated to
// three topics. An empty claim is an error; so is a reply with no
// usable topics.
func (e *ChatExtractor) Extract(ctx context.Context, claim string) (types.Topics, error) {
	if strings.TrimSpace(claim) == "" {
		return nil, fmt.Errorf("extracting keywords: empty claim")
	}

	var buf bytes.Buffer
	if err := keywordPromptTmpl.Execute(&buf, struct{ Claim string }{Claim: claim}); err != nil {
		return nil, fmt.Errorf("rendering keyword prompt: %w", err)
	}

	reply, err := e.Completer.Complete(ctx, buf.String())
	if err != nil {
		return nil, fmt.Errorf("extracting keywords: %w", err)
	}

	topics, err := parseTopics(reply)
	if err != nil {
		return nil, fmt.Errorf("extracting keywords: %w", err)
	}
	return topics, nil
}

// parseTopics decodes the model reply as a JSON string array. Models
// sometimes wrap JSON in a Markdown fence, so fences are stripped
// before decoding.
func parseTopics(reply string) (types.Topics, error) {
	cleaned := stripFence(strings.TrimSpace(reply))

	var raw []string
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parsing keyword response %q: %w", reply, err)
	}

	var topics types.Topics
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		topics = append(topics, t)
		if len(topics) == maxTopics {
			break
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("keyword response %q contained no topics", reply)
	}
	return topics, nil
}

// stripFence removes a surrounding Markdown code fence, if present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer produces the structured validation verdict for a
// claim, grounded in retrieved literature when any is available.
package answer

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

// answerPromptTmpl carries the claim, the retrieved context, and the
// response format the orchestrator expects. With no retrieved context
// the model answers from its own knowledge.
var answerPromptTmpl = template.Must(template.New("answer").Parse(`You are a medical researcher. Given the following health-related claim, generate the response based on the tasks specified in the following instructions:

claim = {{.Claim}}
context = {{.Context}}

Tasks:
1. scientific_validation_summary: Provide a scientific validation summary in less than 25 words. Conduct a thorough review of the retrieved context for studies related to the provided claim. Prioritize peer-reviewed journals, with special emphasis on systematic reviews, cohort studies, meta-analyses and randomized controlled trials (RCTs), if available in the context, as they are high quality scientific evidence. Do not consider case reports, case series, opinion pieces or observational studies and do not make up research papers. Evaluate the strength of evidence supporting the claim, as well as any contradictory or inconclusive findings. Only if no relevant content is available in the provided context, answer from reputable medical research knowledge.
2. classification: Based on the context used above, classify the claim as one of: "Scientific" (supported by substantial, high-quality scientific evidence), "Pseudo-science/Inconclusive" (not supported by strong and credible evidence, supported only by inconclusive evidence, or contradicted by substantial evidence), "Partially correct" (supported by substantial scientific evidence but with significant caveats).
3. research_summary: In less than 25 words, provide a concise summary of the research findings that support your classification.
4. contradictory_claims: In less than 25 words, identify any scientifically supported evidence that contradicts the original claim or poses health risks, and why it is valid.

Respond with a single JSON object with exactly these keys: "scientific_validation_summary", "classification", "research_summary", "contradictory_claims". Do not include any text outside the JSON object.
`))

// ParseError reports a model reply that could not be parsed into an
// Answer. Raw carries the offending reply for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing answer response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Generator produces a validation answer for a claim. The context
// string holds the reranked retrieval units; empty means answer from
// model knowledge alone.
type Generator interface {
	Generate(ctx context.Context, claim, context string) (types.Answer, error)
}

// ChatGenerator generates answers through a chat completions backend.
type ChatGenerator struct {
	Completer chat.Completer
}

// NewChatGenerator returns a Generator backed by the given completer.
func NewChatGenerator(completer chat.Completer) *ChatGenerator {
	return &ChatGenerator{Completer: completer}
}

// Generate renders the prompt, calls the model, and parses the reply
// into a validated Answer. Malformed JSON or an unknown classification
// label yields a *ParseError.
func (g *ChatGenerator) Generate(ctx context.Context, claim, evidence string) (types.Answer, error) {
	if strings.TrimSpace(claim) == "" {
		return types.Answer{}, fmt.Errorf("generating answer: empty claim")
	}

	var buf bytes.Buffer
	data := struct{ Claim, Context string }{Claim: claim, Context: evidence}
	if err := answerPromptTmpl.Execute(&buf, data); err != nil {
		return types.Answer{}, fmt.Errorf("rendering answer prompt: %w", err)
	}

	reply, err := g.Completer.Complete(ctx, buf.String())
	if err != nil {
		return types.Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	return ParseAnswer(reply)
}

// ParseAnswer decodes a model reply into an Answer, stripping a
// surrounding Markdown fence if present and validating the
// classification label.
func ParseAnswer(reply string) (types.Answer, error) {
	cleaned := stripFence(strings.TrimSpace(reply))

	var ans types.Answer
	if err := json.Unmarshal([]byte(cleaned), &ans); err != nil {
		return types.Answer{}, &ParseError{Raw: reply, Err: err}
	}
	if err := ans.Validate(); err != nil {
		return types.Answer{}, &ParseError{Raw: reply, Err: err}
	}
	return ans, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package claims distills video transcript text into discrete,
// verifiable health claims via a chat model.
package claims

import (
	"context"
	"fmt"
	"strings"

	"github.com/crediverify/crediverify/internal/chat"
)

const summaryPrompt = `You are a video summarizer. You will be taking the transcript text and summarizing the entire video and give a useful summary which gives an entire picture to the viewer about the video. Please provide the summary of the text given here: `

const claimsPrompt = `You are a claims generator for a health claims verification project. You will be provided a detailed summary of a video, especially health and fitness related content. Generate the most important health claims. The claims need to be given as single-line points separated by * and in proper order with standard medical terminology, without stop words or timing words. Structure the sentences in Subject-verb-object (SVO) format. Please provide the claims for the text given here: `

const healthCheckPrompt = "Is the following video summary related to health or fitness? Answer only with True or False.\n\nSummary: "

// Generator turns transcripts into claim lists.
type Generator struct {
	Completer chat.Completer
}

// NewGenerator returns a Generator backed by the given completer.
func NewGenerator(completer chat.Completer) *Generator {
	return &Generator{Completer: completer}
}

// FromTranscript summarizes the transcript, generates claims from the
// summary, and returns them as individual one-line statements. The
// model's reply is parsed as "* " bulleted lines; lines without the
// bullet prefix are ignored.
func (g *Generator) FromTranscript(ctx context.Context, transcript string) ([]string, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("generating claims: empty transcript")
	}

	summary, err := g.Completer.Complete(ctx, summaryPrompt+transcript)
	if err != nil {
		return nil, fmt.Errorf("summarizing transcript: %w", err)
	}

	reply, err := g.Completer.Complete(ctx, claimsPrompt+summary)
	if err != nil {
		return nil, fmt.Errorf("generating claims: %w", err)
	}

	claims := ParseBullets(reply)
	if len(claims) == 0 {
		return nil, fmt.Errorf("generating claims: no claims in response %q", reply)
	}
	return claims, nil
}

// IsHealthRelated asks the model whether the summary covers health or
// fitness content. Any reply containing the word "true" counts as yes.
func (g *Generator) IsHealthRelated(ctx context.Context, summary string) (bool, error) {
	reply, err := g.Completer.Complete(ctx, healthCheckPrompt+summary)
	if err != nil {
		return false, fmt.Errorf("checking health relevance: %w", err)
	}
	for _, word := range strings.Fields(strings.ToLower(reply)) {
		if strings.Trim(word, ".,!") == "true" {
			return true, nil
		}
	}
	return false, nil
}

// ParseBullets extracts "* " bulleted lines, stripping the bullet and
// surrounding whitespace.
func ParseBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "* ") {
			continue
		}
		claim := strings.TrimSpace(strings.TrimPrefix(line, "* "))
		if claim != "" {
			out = append(out, claim)
		}
	}
	return out
}

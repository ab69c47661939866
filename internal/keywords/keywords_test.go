// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeCompleter returns a canned reply and records the prompt it saw.
type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestExtractParsesTopics(t *testing.T) {
	fc := &fakeCompleter{reply: `["creatine", "muscle", "strength"]`}
	topics, err := NewChatExtractor(fc).Extract(context.Background(), "Creatine increases muscle strength.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"creatine", "muscle", "strength"}
	if len(topics) != len(want) {
		t.Fatalf("got %d topics, want %d", len(topics), len(want))
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topic %d = %q, want %q", i, topics[i], want[i])
		}
	}
	if !strings.Contains(fc.prompt, "Creatine increases muscle strength.") {
		t.Error("claim missing from prompt")
	}
}

func TestExtractTruncatesToThree(t *testing.T) {
	fc := &fakeCompleter{reply: `["a", "b", "c", "d", "e"]`}
	topics, err := NewChatExtractor(fc).Extract(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(topics) != 3 {
		t.Errorf("got %d topics, want 3", len(topics))
	}
}

func TestExtractSkipsEmptyEntries(t *testing.T) {
	fc := &fakeCompleter{reply: `["  vitamin d  ", "", "  "]`}
	topics, err := NewChatExtractor(fc).Extract(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(topics) != 1 || topics[0] != "vitamin d" {
		t.Errorf("got %v, want [vitamin d]", topics)
	}
}

func TestExtractStripsMarkdownFence(t *testing.T) {
	fc := &fakeCompleter{reply: "```json\n[\"sleep\", \"cortisol\"]\n```"}
	topics, err := NewChatExtractor(fc).Extract(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(topics) != 2 || topics[0] != "sleep" {
		t.Errorf("got %v, want [sleep cortisol]", topics)
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name  string
		claim string
		fc    *fakeCompleter
	}{
		{"empty claim", "  ", &fakeCompleter{reply: `["a"]`}},
		{"backend error", "claim", &fakeCompleter{err: errors.New("api down")}},
		{"non-JSON reply", "claim", &fakeCompleter{reply: "creatine, muscle"}},
		{"empty array", "claim", &fakeCompleter{reply: `[]`}},
		{"all-blank entries", "claim", &fakeCompleter{reply: `["", " "]`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChatExtractor(tt.fc).Extract(context.Background(), tt.claim); err == nil {
				t.Error("expected error")
			}
		})
	}
}

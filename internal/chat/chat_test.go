// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crediverify/crediverify/pkg/types"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(handler)
	orig := chatCompletionsURL
	chatCompletionsURL = ts.URL
	t.Cleanup(func() {
		chatCompletionsURL = orig
		ts.Close()
	})
}

func chatReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": text}},
		},
	})
	return string(b)
}

func TestCompleteReturnsAssistantText(t *testing.T) {
	var gotAuth, gotModel, gotPrompt string
	newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}
		w.Write([]byte(chatReply("hello back")))
	})

	c := NewClient(types.AIConfig{Model: "gpt-4o-mini", APIKey: "sk-test"}, nil)
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello back" {
		t.Errorf("got %q, want %q", got, "hello back")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("model = %q", gotModel)
	}
	if gotPrompt != "hello" {
		t.Errorf("prompt = %q", gotPrompt)
	}
}

func TestCompleteDefaultsModel(t *testing.T) {
	var gotModel string
	newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		w.Write([]byte(chatReply("ok")))
	})

	c := NewClient(types.AIConfig{APIKey: "sk-test"}, nil)
	if _, err := c.Complete(context.Background(), "x"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if gotModel != defaultChatModel {
		t.Errorf("model = %q, want %q", gotModel, defaultChatModel)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	})

	c := NewClient(types.AIConfig{APIKey: "bad"}, nil)
	_, err := c.Complete(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	c := NewClient(types.AIConfig{APIKey: "sk-test"}, nil)
	_, err := c.Complete(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attune-labs/attune/internal/emotion"
)

func TestOpenAIGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Glad to hear it!"}},
			},
		})
	}))
	defer server.Close()

	p := NewOpenAI("test-key", "test-model", 5*time.Second)
	p.SetTestTransport(server.URL)

	text, err := p.Generate(context.Background(), "good news", emotion.Vector{Happy: 95})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Glad to hear it!" {
		t.Errorf("expected 'Glad to hear it!', got %q", text)
	}
}

func TestOpenAIGenerate_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewOpenAI("test-key", "test-model", 5*time.Second)
	p.SetTestTransport(server.URL)

	if _, err := p.Generate(context.Background(), "hi", emotion.Vector{Happy: 10}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	p := NewOpenAI("test-key", "test-model", 5*time.Second)
	p.SetTestTransport(server.URL)

	if _, err := p.Generate(context.Background(), "hi", emotion.Vector{Happy: 10}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var payload struct {
			Model  string `json:"model"`
			System string `json:"system"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "qwen3:8b" {
			t.Fatalf("expected model qwen3:8b, got %s", payload.Model)
		}
		if !strings.Contains(payload.Prompt, "from German to English") {
			t.Fatalf("prompt missing language pair: %s", payload.Prompt)
		}
		if !strings.Contains(payload.Prompt, "Text: Guten Morgen") {
			t.Fatalf("prompt missing text: %s", payload.Prompt)
		}
		if payload.Stream {
			t.Fatal("expected streaming to be disabled")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"<think>easy</think>\"Good morning\"","done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "qwen3:8b", client: server.Client()}
	res, err := client.Translate(context.Background(), Request{Text: "Guten Morgen", SourceLang: "German", TargetLang: "English"})
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if res.Text != "Good morning" {
		t.Fatalf("unexpected translation: %q", res.Text)
	}
	if res.Untranslated {
		t.Fatal("real translation flagged as passthrough")
	}
}

func TestOllamaClientReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "missing", client: server.Client()}
	_, err := client.Translate(context.Background(), Request{Text: "Hallo", SourceLang: "German", TargetLang: "English"})
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if typed.Status != http.StatusNotFound || typed.Transient() {
		t.Fatalf("unexpected error %#v", typed)
	}
}

func TestOllamaClientRejectsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"   ","done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	if _, err := client.Translate(context.Background(), Request{Text: "Hallo", TargetLang: "English"}); err == nil {
		t.Fatal("expected empty response to fail")
	}
}

func TestOllamaClientRejectsBlankText(t *testing.T) {
	client := &ollamaClient{host: "http://127.0.0.1:1", model: "m", client: http.DefaultClient}
	if _, err := client.Translate(context.Background(), Request{Text: "  ", TargetLang: "English"}); err == nil {
		t.Fatal("expected blank text to be rejected before any request")
	}
}

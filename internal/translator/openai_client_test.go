package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClientStreamsCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if !payload.Stream || payload.Model != "gpt-test" {
			t.Fatalf("unexpected payload %#v", payload)
		}
		if len(payload.Messages) != 2 || !strings.Contains(payload.Messages[1].Content, "Guten Morgen") {
			t.Fatalf("unexpected messages %#v", payload.Messages)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"Good", " morning"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, err := newOpenAIClient("test-key", "gpt-test", server.URL+"/v1", server.Client())
	if err != nil {
		t.Fatalf("new client error = %v", err)
	}
	res, err := client.Translate(context.Background(), Request{Text: "Guten Morgen", SourceLang: "German", TargetLang: "English"})
	if err != nil {
		t.Fatalf("translate error = %v", err)
	}
	if res.Text != "Good morning" {
		t.Fatalf("unexpected translation %q", res.Text)
	}
}

func TestOpenAIClientMapsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient("bad", "gpt-test", server.URL+"/v1", server.Client())
	if err != nil {
		t.Fatalf("new client error = %v", err)
	}
	_, err = client.Translate(context.Background(), Request{Text: "Hallo", TargetLang: "English"})
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if typed.Status != http.StatusUnauthorized || typed.Transient() {
		t.Fatalf("unexpected error %#v", typed)
	}
}

package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeProxyRequest(t *testing.T, r *http.Request) Request {
	t.Helper()
	if r.URL.Path != ProxyPath {
		t.Fatalf("unexpected path: %s", r.URL.Path)
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return req
}

func TestProxyClientJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeProxyRequest(t, r)
		if req.Text != "Guten Morgen" || req.SourceLang != "German" || req.TargetLang != "English" {
			t.Fatalf("unexpected request %#v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translation":"Good morning"}`))
	}))
	defer server.Close()

	client := &proxyClient{base: server.URL, client: server.Client()}
	res, err := client.Translate(context.Background(), Request{Text: "Guten Morgen", SourceLang: "German", TargetLang: "English"})
	if err != nil {
		t.Fatalf("translate error = %v", err)
	}
	if res.Text != "Good morning" {
		t.Fatalf("unexpected translation %q", res.Text)
	}
}

func TestProxyClientStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodeProxyRequest(t, r)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Good", " mor", "ning"} {
			fmt.Fprintf(w, "data: {\"chunk\":%q}\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := &proxyClient{base: server.URL, client: server.Client()}
	res, err := client.Translate(context.Background(), Request{Text: "Guten Morgen", SourceLang: "German", TargetLang: "English"})
	if err != nil {
		t.Fatalf("translate error = %v", err)
	}
	if res.Text != "Good morning" {
		t.Fatalf("unexpected translation %q", res.Text)
	}
}

func TestProxyClientTruncatedStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"chunk\":\"Good\"}\n\n")
	}))
	defer server.Close()

	client := &proxyClient{base: server.URL, client: server.Client()}
	_, err := client.Translate(context.Background(), Request{Text: "Guten Morgen", TargetLang: "English"})
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !typed.Transient() {
		t.Fatalf("truncated stream should be retryable: %v", typed)
	}
}

func TestProxyClientErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Missing text or target language"}`))
	}))
	defer server.Close()

	client := &proxyClient{base: server.URL, client: server.Client()}
	_, err := client.Translate(context.Background(), Request{Text: "Hallo", TargetLang: "English"})
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if typed.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", typed.Status)
	}
	if typed.Message != "proxy error: Missing text or target language" {
		t.Fatalf("unexpected message %q", typed.Message)
	}
}

func TestProxyClientEmptyTranslationFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := &proxyClient{base: server.URL, client: server.Client()}
	if _, err := client.Translate(context.Background(), Request{Text: "Hallo", TargetLang: "English"}); err == nil {
		t.Fatal("expected a missing translation to fail")
	}
}

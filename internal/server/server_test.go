package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/lingonotes/internal/translator"
)

type stubClient struct {
	got translator.Request
	out string
	err error
}

func (s *stubClient) Name() string { return "Stub" }

func (s *stubClient) Translate(_ context.Context, req translator.Request) (translator.Result, error) {
	s.got = req
	if s.err != nil {
		return translator.Result{}, s.err
	}
	return translator.Result{Text: s.out}, nil
}

func post(t *testing.T, h http.Handler, body string, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, translator.ProxyPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTranslateJSON(t *testing.T) {
	client := &stubClient{out: "Good morning"}
	rec := post(t, New(client, nil, 0), `{"text":"Guten Morgen","targetLang":"English"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	var body translator.ProxyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Good morning", body.Translation)
	assert.Equal(t, "auto", client.got.SourceLang)
}

func TestTranslateStream(t *testing.T) {
	client := &stubClient{out: "Bonjour"}
	rec := post(t, New(client, nil, 0), `{"text":"Hello","sourceLang":"English","targetLang":"French"}`, "text/event-stream")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: {\"chunk\":\"Bonjour\"}\n\ndata: [DONE]\n\n", rec.Body.String())
}

func TestTranslateRoundTripThroughProxyProvider(t *testing.T) {
	srv := httptest.NewServer(New(&stubClient{out: "Danke schön"}, nil, 0))
	defer srv.Close()

	client, err := translator.New(context.Background(), translator.Config{
		Provider: translator.ProviderProxy,
		Endpoint: srv.URL,
		Retries:  -1,
	})
	require.NoError(t, err)
	res, err := client.Translate(context.Background(), translator.Request{Text: "Thank you very much", SourceLang: "English", TargetLang: "German"})
	require.NoError(t, err)
	assert.Equal(t, "Danke schön", res.Text)
}

func TestTranslateValidation(t *testing.T) {
	h := New(&stubClient{out: "x"}, nil, 0)
	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{"targetLang":"German"}`},
		{"missing target", `{"text":"hi"}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestTranslateProviderFailure(t *testing.T) {
	client := &stubClient{err: &translator.Error{Provider: "Stub", Status: 503, Message: "overloaded"}}
	rec := post(t, New(client, nil, 0), `{"text":"hi","targetLang":"German"}`, "")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body translator.ProxyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Translation failed: overloaded", body.Error)

	client.err = errors.New("plain failure")
	rec = post(t, New(client, nil, 0), `{"text":"hi","targetLang":"German"}`, "")
	assert.Contains(t, rec.Body.String(), "plain failure")
}

func TestTranslateMethods(t *testing.T) {
	h := New(&stubClient{}, nil, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, translator.ProxyPath, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, translator.ProxyPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&stubClient{}, nil, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider":"Stub"`)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, "127.0.0.1:0", New(&stubClient{}, nil, 0), nil)
	}()
	cancel()
	require.NoError(t, <-done)
}

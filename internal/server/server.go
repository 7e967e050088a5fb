// Package server exposes a translation client over HTTP using the
// /api/translate contract understood by the proxy provider.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/lingonotes/internal/translator"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 10 * time.Second
	defaultSource   = "auto"
)

// Handler serves POST /api/translate and GET /healthz.
type Handler struct {
	client  translator.Client
	logger  *zap.Logger
	timeout time.Duration
	mux     *http.ServeMux
}

// New builds the handler. timeout bounds each provider call; zero means no
// bound beyond the request context.
func New(client translator.Client, logger *zap.Logger, timeout time.Duration) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{client: client, logger: logger.Named("server"), timeout: timeout, mux: http.NewServeMux()}
	h.mux.HandleFunc(translator.ProxyPath, h.translate)
	h.mux.HandleFunc("/healthz", h.health)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.logger.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(started)))
}

func setCORS(w http.ResponseWriter) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
	header.Set("Access-Control-Max-Age", "86400")
}

func (h *Handler) translate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req translator.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, translator.ProxyResponse{Error: "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.TargetLang) == "" {
		writeJSON(w, http.StatusBadRequest, translator.ProxyResponse{Error: "Missing text or target language"})
		return
	}
	if strings.TrimSpace(req.SourceLang) == "" {
		req.SourceLang = defaultSource
	}
	if h.client == nil {
		writeJSON(w, http.StatusInternalServerError, translator.ProxyResponse{Error: "Server configuration error: no provider"})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	res, err := h.client.Translate(ctx, req)
	if err != nil {
		h.logger.Warn("translation failed",
			zap.String("provider", h.client.Name()),
			zap.String("target", req.TargetLang),
			zap.Error(err))
		writeJSON(w, http.StatusBadGateway, translator.ProxyResponse{Error: "Translation failed: " + errorMessage(err)})
		return
	}

	if wantsStream(r) {
		writeStream(w, res.Text)
		return
	}
	writeJSON(w, http.StatusOK, translator.ProxyResponse{Translation: res.Text})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	provider := ""
	if h.client != nil {
		provider = h.client.Name()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "provider": provider})
}

func wantsStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

func writeStream(w http.ResponseWriter, text string) {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	chunk, _ := json.Marshal(translator.StreamChunk{Chunk: text})
	fmt.Fprintf(w, "data: %s\n\n", chunk)
	fmt.Fprintf(w, "data: %s\n\n", translator.StreamDone)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorMessage(err error) string {
	var typed *translator.Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}
	return err.Error()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// ListenAndServe runs handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

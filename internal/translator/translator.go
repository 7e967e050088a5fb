package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaModel = "ministral-3:latest"
	defaultOllamaHost  = "http://localhost:11434"
	defaultProxyHost   = "http://localhost:8787"
)

const defaultHTTPTimeout = time.Minute

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderProxy  = "proxy"
	ProviderGoogle = "google"
)

// ErrUnknownProvider is returned by New for an unrecognised provider name.
var ErrUnknownProvider = errors.New("translator: unknown provider")

// Config describes how to build a translation client.
type Config struct {
	Provider    string
	Model       string
	Endpoint    string
	APIKey      string
	Credentials string
	HTTPClient  *http.Client

	// Retries and Backoff configure the resilient wrapper. Retries < 0
	// disables wrapping entirely.
	Retries int
	Backoff time.Duration
	Logger  *zap.Logger

	// CacheDir enables the translation memory when set. CacheTTL <= 0 keeps
	// entries forever.
	CacheDir string
	CacheTTL time.Duration
}

// Request is one line to translate. Language values are display names such
// as "German"; providers needing codes resolve them with LookupLanguage.
type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

// Result is a successful translation.
type Result struct {
	Text string
	// Untranslated marks a provider answer that is effectively the input.
	Untranslated bool
	Provider     string
}

// Client translates a single line.
type Client interface {
	Translate(ctx context.Context, req Request) (Result, error)
	Name() string
}

// Error describes a failed translation attempt.
type Error struct {
	Provider string
	// Status is the HTTP status reported by the provider, or 0 when the
	// request never produced a response.
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether repeating the request may succeed.
func (e *Error) Transient() bool {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	switch {
	case e.Status == http.StatusTooManyRequests:
		return true
	case e.Status >= 500:
		return true
	case e.Status == 0:
		return e.Err != nil
	default:
		return false
	}
}

func newError(provider string, status int, err error, format string, args ...any) *Error {
	return &Error{Provider: provider, Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

// asError coerces err into *Error, tagging it with provider when it is not
// already typed.
func asError(provider string, err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return newError(provider, 0, err, "request failed")
}

// New builds the client named by cfg.Provider, wrapped with retries and a
// circuit breaker unless cfg.Retries is negative, and with the translation
// memory when cfg.CacheDir is set. A memory that cannot be created is logged
// and skipped.
func New(ctx context.Context, cfg Config) (Client, error) {
	client, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Retries >= 0 {
		client = NewResilient(client, ResilientOptions{
			Retries: cfg.Retries,
			Backoff: cfg.Backoff,
			Logger:  cfg.Logger,
		})
	}
	if cfg.CacheDir == "" {
		return client, nil
	}
	cached, err := NewCached(client, cfg.CacheDir, cfg.CacheTTL, cfg.Logger)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("translation cache disabled", zap.String("dir", cfg.CacheDir), zap.Error(err))
		}
		return client, nil
	}
	return cached, nil
}

func newProvider(ctx context.Context, cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", ProviderGemini:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
		return newGeminiClient(ctx, key, firstNonEmpty(cfg.Model, defaultGeminiModel), cfg.Endpoint, cfg.HTTPClient)
	case ProviderOpenAI:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
		return newOpenAIClient(key, firstNonEmpty(cfg.Model, defaultOpenAIModel), cfg.Endpoint, pickHTTPClient(cfg.HTTPClient))
	case ProviderOllama:
		host := firstNonEmpty(cfg.Endpoint, os.Getenv("OLLAMA_HOST"), defaultOllamaHost)
		model := firstNonEmpty(cfg.Model, os.Getenv("OLLAMA_MODEL"), defaultOllamaModel)
		return &ollamaClient{
			host:   strings.TrimRight(host, "/"),
			model:  model,
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case ProviderProxy:
		return &proxyClient{
			base:   strings.TrimRight(firstNonEmpty(cfg.Endpoint, defaultProxyHost), "/"),
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case ProviderGoogle:
		return newGoogleClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, cfg.Provider)
	}
}

// Providers lists the provider names New accepts.
func Providers() []string {
	return []string{ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderProxy, ProviderGoogle}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func validate(provider string, req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return newError(provider, 0, nil, "text is empty")
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return newError(provider, 0, nil, "target language is empty")
	}
	return nil
}

// finish turns raw provider output into a Result. Empty output after cleanup
// is a failure; output matching the input is flagged as untranslated.
func finish(provider string, req Request, raw string) (Result, error) {
	text := Clean(raw)
	if text == "" {
		return Result{}, newError(provider, 0, nil, "empty translation returned")
	}
	return Result{
		Text:         text,
		Untranslated: DetectPassthrough(req.Text, text, req.SourceLang, req.TargetLang),
		Provider:     provider,
	}, nil
}

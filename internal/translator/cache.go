package translator

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	cacheSubdir     = "lingonotes/translations"
	DefaultCacheTTL = 7 * 24 * time.Hour
	partialSuffix   = ".part"
	entrySuffix     = ".json"
)

// DefaultCacheDir is the translation memory location under the user cache
// directory, falling back to the temp dir.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "lingonotes-cache", "translations")
	}
	return filepath.Join(base, cacheSubdir)
}

// Cached serves repeated requests from an on-disk translation memory. Only
// successful results are stored.
type Cached struct {
	next   Client
	dir    string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

type cacheEntry struct {
	Provider     string    `json:"provider"`
	SourceLang   string    `json:"sourceLang"`
	TargetLang   string    `json:"targetLang"`
	Text         string    `json:"text"`
	Translation  string    `json:"translation"`
	Untranslated bool      `json:"untranslated"`
	CachedAt     time.Time `json:"cachedAt"`
}

// NewCached wraps next with a memory stored in dir. A non-positive ttl keeps
// entries forever.
func NewCached(next Client, dir string, ttl time.Duration, logger *zap.Logger) (*Cached, error) {
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, dir: dir, ttl: ttl, logger: logger, now: time.Now}, nil
}

func (c *Cached) Name() string {
	return c.next.Name()
}

// Translate answers from a fresh entry when one exists. When the provider
// fails, a stale entry is still preferred over the error.
func (c *Cached) Translate(ctx context.Context, req Request) (Result, error) {
	if err := validate(c.Name(), req); err != nil {
		return Result{}, err
	}
	key := c.key(req)
	entryPath := c.pathFor(key)

	stale, readErr := readEntry(entryPath)
	if readErr == nil && c.fresh(stale) {
		c.logger.Debug("translation cache hit", zap.String("key", key))
		return stale.result(), nil
	}

	res, err := c.next.Translate(ctx, req)
	if err != nil {
		if readErr == nil && stale.Translation != "" {
			c.logger.Warn("serving stale cached translation", zap.String("key", key), zap.Error(err))
			return stale.result(), nil
		}
		return Result{}, err
	}

	entry := cacheEntry{
		Provider:     res.Provider,
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		Text:         strings.TrimSpace(req.Text),
		Translation:  res.Text,
		Untranslated: res.Untranslated,
		CachedAt:     c.now().UTC(),
	}
	if err := writeEntry(entryPath, entry); err != nil {
		c.logger.Warn("translation cache write failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

func (c *Cached) fresh(e cacheEntry) bool {
	if e.Translation == "" {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(e.CachedAt) < c.ttl
}

func (c *Cached) pathFor(key string) string {
	return filepath.Join(c.dir, key+entrySuffix)
}

// key covers the provider and both languages so switching either never
// returns another pair's translation.
func (c *Cached) key(req Request) string {
	parts := []string{
		c.Name(),
		strings.ToLower(strings.TrimSpace(req.SourceLang)),
		strings.ToLower(strings.TrimSpace(req.TargetLang)),
		strings.TrimSpace(req.Text),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

func (e cacheEntry) result() Result {
	return Result{Text: e.Translation, Untranslated: e.Untranslated, Provider: e.Provider}
}

func readEntry(path string) (cacheEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheEntry{}, err
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, err
	}
	return entry, nil
}

// writeEntry replaces path atomically so concurrent readers never see a
// partial entry.
func writeEntry(path string, entry cacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*"+partialSuffix)
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

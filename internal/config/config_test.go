package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/lingonotes/internal/notes"
	"github.com/csheth/lingonotes/internal/settings"
	"github.com/csheth/lingonotes/internal/translator"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, notes.BackendJSON, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "lingonotes", notes.DefaultFileName), cfg.Store.Path)
	assert.Equal(t, translator.ProviderGemini, cfg.Translate.Provider)
	assert.Equal(t, 30*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Translate.Backoff)
	assert.Equal(t, 2, cfg.Translate.Retries)
	assert.Equal(t, settings.Default(), cfg.EditorSettings())
	assert.Equal(t, "127.0.0.1:8787", cfg.Serve.Addr)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "lingonotes.yaml")
	content := `store:
  backend: sqlite
translate:
  provider: Ollama
  model: llama3
  timeout: 10s
editor:
  target_lang: French
  font: serif
  font_size: 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("LINGONOTES_TRANSLATE_MODEL", "mistral")
	t.Setenv("LINGONOTES_LOG_LEVEL", "debug")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, notes.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "data", "lingonotes", "lingonotes.db"), cfg.Store.Path)
	assert.Equal(t, translator.ProviderOllama, cfg.Translate.Provider)
	assert.Equal(t, "mistral", cfg.Translate.Model)
	assert.Equal(t, 10*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	editor := cfg.EditorSettings()
	assert.Equal(t, "French", editor.TargetLang)
	assert.Equal(t, settings.FontSerif, editor.FontFamily)
	assert.Equal(t, settings.MaxFontSize, editor.FontSize)
}

func TestLoadDefaultConfigDir(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(dir, "config", "lingonotes")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("export:\n  dir: /tmp/out\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.Export.Dir)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(New(), filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("LINGONOTES_STORE_BACKEND", "redis")
	_, err := Load(New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestTranslatorConfig(t *testing.T) {
	isolate(t)
	t.Setenv("LINGONOTES_GOOGLE_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("LINGONOTES_TRANSLATE_PROVIDER", "google")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	tc := cfg.TranslatorConfig(nil)
	assert.Equal(t, translator.ProviderGoogle, tc.Provider)
	assert.Equal(t, "/secrets/sa.json", tc.Credentials)
	assert.Equal(t, 2, tc.Retries)
}

func TestTranslatorConfigCache(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	tc := cfg.TranslatorConfig(nil)
	assert.Equal(t, translator.DefaultCacheDir(), tc.CacheDir)
	assert.Equal(t, translator.DefaultCacheTTL, tc.CacheTTL)

	t.Setenv("LINGONOTES_TRANSLATE_CACHE_DIR", filepath.Join(dir, "memo"))
	t.Setenv("LINGONOTES_TRANSLATE_CACHE_TTL", "1h")
	cfg, err = Load(New(), "")
	require.NoError(t, err)
	tc = cfg.TranslatorConfig(nil)
	assert.Equal(t, filepath.Join(dir, "memo"), tc.CacheDir)
	assert.Equal(t, time.Hour, tc.CacheTTL)

	t.Setenv("LINGONOTES_TRANSLATE_CACHE", "false")
	cfg, err = Load(New(), "")
	require.NoError(t, err)
	assert.Empty(t, cfg.TranslatorConfig(nil).CacheDir)
}

// Package config loads LingoNotes settings from defaults, an optional YAML
// file and LINGONOTES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/csheth/lingonotes/internal/notes"
	"github.com/csheth/lingonotes/internal/settings"
	"github.com/csheth/lingonotes/internal/translator"
)

// EnvPrefix namespaces environment overrides, e.g. LINGONOTES_STORE_PATH.
const EnvPrefix = "LINGONOTES"

// Config holds application configuration.
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Translate TranslateConfig `mapstructure:"translate"`
	Google    GoogleConfig    `mapstructure:"google"`
	Editor    EditorConfig    `mapstructure:"editor"`
	Export    ExportConfig    `mapstructure:"export"`
	Log       LogConfig       `mapstructure:"log"`
	Serve     ServeConfig     `mapstructure:"serve"`
}

// StoreConfig selects the history backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// TranslateConfig holds provider settings.
type TranslateConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	Backoff  time.Duration `mapstructure:"backoff"`
	Cache    bool          `mapstructure:"cache"`
	CacheDir string        `mapstructure:"cache_dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
}

// EditorConfig seeds the session's display preferences.
type EditorConfig struct {
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`
	Font       string `mapstructure:"font"`
	FontSize   int    `mapstructure:"font_size"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// New returns a viper instance with defaults and environment overrides
// applied. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	dataDir := DataDir()

	v.SetDefault("store.backend", notes.BackendJSON)
	v.SetDefault("store.path", "")
	v.SetDefault("translate.provider", translator.ProviderGemini)
	v.SetDefault("translate.model", "")
	v.SetDefault("translate.endpoint", "")
	v.SetDefault("translate.api_key", "")
	v.SetDefault("translate.timeout", "30s")
	v.SetDefault("translate.retries", 2)
	v.SetDefault("translate.backoff", "500ms")
	v.SetDefault("translate.cache", true)
	v.SetDefault("translate.cache_dir", "")
	v.SetDefault("translate.cache_ttl", translator.DefaultCacheTTL.String())
	v.SetDefault("google.credentials", "")
	v.SetDefault("editor.source_lang", settings.DefaultSourceLang)
	v.SetDefault("editor.target_lang", settings.DefaultTargetLang)
	v.SetDefault("editor.font", string(settings.FontSans))
	v.SetDefault("editor.font_size", settings.DefaultFontSize)
	v.SetDefault("export.dir", ".")
	v.SetDefault("log.file", filepath.Join(dataDir, "lingonotes.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("serve.addr", "127.0.0.1:8787")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile (or the default location when empty) into a Config.
// A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if v == nil {
		v = New()
	}
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case notes.BackendJSON, notes.BackendSQLite:
	default:
		return fmt.Errorf("config: store.backend must be %q or %q, got %q", notes.BackendJSON, notes.BackendSQLite, c.Store.Backend)
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath(c.Store.Backend)
	}
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Timeout <= 0 {
		return fmt.Errorf("config: translate.timeout must be positive, got %s", c.Translate.Timeout)
	}
	return nil
}

// ConfigDir is where config.yaml is looked up.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lingonotes")
	}
	return "."
}

// DataDir holds the history and the log file.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "lingonotes")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "lingonotes")
	}
	return "."
}

// DefaultStorePath returns the history location for backend.
func DefaultStorePath(backend string) string {
	if backend == notes.BackendSQLite {
		return filepath.Join(DataDir(), "lingonotes.db")
	}
	return filepath.Join(DataDir(), notes.DefaultFileName)
}

// TranslatorConfig maps the translate section onto a client config.
func (c Config) TranslatorConfig(logger *zap.Logger) translator.Config {
	tc := translator.Config{
		Provider:    c.Translate.Provider,
		Model:       c.Translate.Model,
		Endpoint:    c.Translate.Endpoint,
		APIKey:      c.Translate.APIKey,
		Credentials: c.Google.Credentials,
		Retries:     c.Translate.Retries,
		Backoff:     c.Translate.Backoff,
		Logger:      logger,
	}
	if c.Translate.Cache {
		tc.CacheDir = c.Translate.CacheDir
		if tc.CacheDir == "" {
			tc.CacheDir = translator.DefaultCacheDir()
		}
		tc.CacheTTL = c.Translate.CacheTTL
	}
	return tc
}

// EditorSettings returns the initial display preferences. Unknown fonts and
// out-of-range sizes fall back to defaults.
func (c Config) EditorSettings() settings.Editor {
	e := settings.Editor{
		FontSize:   c.Editor.FontSize,
		SourceLang: c.Editor.SourceLang,
		TargetLang: c.Editor.TargetLang,
	}
	if f, err := settings.ParseFontFamily(c.Editor.Font); err == nil {
		e.FontFamily = f
	}
	return e.Normalize()
}

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/blockext/internal/extapi"
	"github.com/five82/blockext/internal/extension"
	"github.com/five82/blockext/internal/push"
)

// Config captures everything blockext needs to reach the extension service.
type Config struct {
	APIBase           string
	PushURL           string
	PushTopic         string
	QuietPeriod       time.Duration
	ReconnectDelay    time.Duration
	RequestTimeout    time.Duration
	ResyncOnReconnect bool
	DropNetZero       bool
	Fixed             []string
	LogFile           string
	LogLevel          slog.Level
}

const (
	defaultConfigPath     = "~/.config/blockext/config.toml"
	defaultAPIBase        = "http://127.0.0.1:8080"
	defaultLogFile        = "~/.local/state/blockext/blockext.log"
	defaultQuietPeriod    = 300 * time.Millisecond
	defaultRequestTimeout = 5 * time.Second

	envAPIBase  = "BLOCKEXT_API_BASE"
	envPushURL  = "BLOCKEXT_PUSH_URL"
	envLogLevel = "BLOCKEXT_LOG_LEVEL"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	base, _ := extapi.ParseBaseURL(defaultAPIBase)
	return Config{
		APIBase:           defaultAPIBase,
		PushURL:           push.URLFromAPIBase(base),
		PushTopic:         push.DefaultTopic,
		QuietPeriod:       defaultQuietPeriod,
		ReconnectDelay:    push.DefaultBackoff,
		RequestTimeout:    defaultRequestTimeout,
		ResyncOnReconnect: true,
		DropNetZero:       true,
		Fixed:             extension.NewCatalog(nil).Names(),
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          slog.LevelInfo,
	}
}

type rawConfig struct {
	APIBase           string   `toml:"api_base"`
	PushURL           string   `toml:"push_url"`
	PushTopic         string   `toml:"push_topic"`
	QuietPeriod       string   `toml:"quiet_period"`
	ReconnectDelay    string   `toml:"reconnect_delay"`
	RequestTimeout    string   `toml:"request_timeout"`
	ResyncOnReconnect *bool    `toml:"resync_on_reconnect"`
	DropNetZero       *bool    `toml:"drop_net_zero"`
	Fixed             []string `toml:"fixed"`
	LogFile           string   `toml:"log_file"`
	LogLevel          string   `toml:"log_level"`
}

// Load locates and parses the blockext config, falling back to defaults when
// the file is missing. Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(envAPIBase)); v != "" {
		raw.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(envPushURL)); v != "" {
		raw.PushURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		raw.LogLevel = v
	}

	return raw.resolve()
}

func (raw rawConfig) resolve() (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	base, err := extapi.ParseBaseURL(cfg.APIBase)
	if err != nil {
		return Config{}, err
	}

	cfg.PushURL = strings.TrimSpace(raw.PushURL)
	if cfg.PushURL == "" {
		cfg.PushURL = push.URLFromAPIBase(base)
	} else if err := checkPushURL(cfg.PushURL); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(raw.PushTopic); v != "" {
		cfg.PushTopic = v
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"quiet_period", raw.QuietPeriod, &cfg.QuietPeriod},
		{"reconnect_delay", raw.ReconnectDelay, &cfg.ReconnectDelay},
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.raw)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %s", d.key, v)
		}
		*d.dst = parsed
	}

	if raw.ResyncOnReconnect != nil {
		cfg.ResyncOnReconnect = *raw.ResyncOnReconnect
	}
	if raw.DropNetZero != nil {
		cfg.DropNetZero = *raw.DropNetZero
	}

	if len(raw.Fixed) > 0 {
		cfg.Fixed = extension.NewCatalog(raw.Fixed).Names()
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		expanded, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("log_file: %w", err)
		}
		cfg.LogFile = expanded
	}

	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("log_level: %w", err)
		}
	}

	return cfg, nil
}

// Catalog returns the configured fixed extensions as a catalog.
func (c Config) Catalog() extension.Catalog {
	return extension.NewCatalog(c.Fixed)
}

func checkPushURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("push_url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("push_url %q: scheme must be ws or wss", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("push_url %q: missing host", raw)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// Package config loads runtime configuration from the environment with an
// optional .env file for local development.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultBackendTO    = 8 * time.Second
	defaultQuiescence   = 500 * time.Millisecond
	defaultContentDir   = "content"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Search  SearchConfig
	Content ContentConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// BackendConfig locates the remote storefront API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds cookie codec keys. The hash key is required in
// production; when absent the caller may substitute an ephemeral one.
type SessionConfig struct {
	HashKey      string
	BlockKey     string
	CookieSecure bool
}

// SearchConfig tunes the search debounce window.
type SearchConfig struct {
	Quiescence time.Duration
}

// ContentConfig locates local markdown content pages.
type ContentConfig struct {
	Dir string
}

// ErrMissingBackendURL indicates STOREFRONT_BACKEND_URL was not provided.
var ErrMissingBackendURL = errors.New("config: STOREFRONT_BACKEND_URL is required")

type options struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// Option customises configuration loading.
type Option func(*options)

// WithEnvFile overrides the .env path consulted before the process env.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithEnvMap supplies values that take precedence over files and system env.
func WithEnvMap(values map[string]string) Option {
	return func(o *options) { o.envMap = values }
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided
// maps and .env files. Used by tests.
func WithoutSystemEnv() Option {
	return func(o *options) { o.useSystemEnv = false }
}

// Load reads, defaults, and validates the configuration.
func Load(opts ...Option) (Config, error) {
	o := options{envFile: defaultEnvFile, useSystemEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	fileValues, err := loadDotEnv(o.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := o.envMap[key]; ok {
			return v, true
		}
		if v, ok := fileValues[key]; ok {
			return v, true
		}
		if o.useSystemEnv {
			if v, ok := os.LookupEnv(key); ok {
				return v, true
			}
		}
		return "", false
	}

	port := stringWithDefault(lookup, "STOREFRONT_PORT", "")
	if port == "" {
		// Cloud Run style fallback.
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  durationWithDefault(lookup, "STOREFRONT_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "STOREFRONT_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "STOREFRONT_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Backend: BackendConfig{
			BaseURL: stringWithDefault(lookup, "STOREFRONT_BACKEND_URL", ""),
			Timeout: durationWithDefault(lookup, "STOREFRONT_BACKEND_TIMEOUT", defaultBackendTO),
		},
		Session: SessionConfig{
			HashKey:      stringWithDefault(lookup, "STOREFRONT_SESSION_HASH_KEY", ""),
			BlockKey:     stringWithDefault(lookup, "STOREFRONT_SESSION_BLOCK_KEY", ""),
			CookieSecure: strings.EqualFold(stringWithDefault(lookup, "STOREFRONT_ENV", ""), "prod"),
		},
		Search: SearchConfig{
			Quiescence: durationWithDefault(lookup, "STOREFRONT_SEARCH_DEBOUNCE", defaultQuiescence),
		},
		Content: ContentConfig{
			Dir: stringWithDefault(lookup, "STOREFRONT_CONTENT_DIR", defaultContentDir),
		},
	}

	if cfg.Backend.BaseURL == "" {
		return Config{}, ErrMissingBackendURL
	}
	return cfg, nil
}

// loadDotEnv reads KEY=VALUE lines, ignoring comments and blanks. A missing
// file is not an error.
func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if key != "" {
			values[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
		return d
	}
	// Accept plain milliseconds as well.
	if ms, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

// Package config provides the configuration loader for bundl.
package config

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"

	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "BUNDL_CONFIG"
	// EnvRegistryURL overrides registry.url.
	EnvRegistryURL = "BUNDL_REGISTRY_URL"
)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	// Required makes a missing file an error instead of falling back to defaults.
	Required bool
}

// Load reads the configuration file at path and applies defaults and environment overrides.
func (l *FileConfigLoader) Load(path string) (*domain.Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !l.Required && errors.Is(err, fs.ErrNotExist) {
		cfg = domain.DefaultConfig()
		applyEnv(cfg)
		return cfg, validate(cfg)
	}
	return nil, err
}

// Load reads a configuration file from the given path and returns a domain.Config.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(errors.Join(domain.ErrConfigNotFound, err), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Bundlfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	cfg := merge(domain.DefaultConfig(), &file)
	applyEnv(cfg)
	if err := validate(cfg); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// merge overlays every field set in the file onto the defaults.
func merge(cfg *domain.Config, f *Bundlfile) *domain.Config {
	setString(&cfg.Registry.URL, f.Registry.URL)

	if f.Cache.Backend != "" {
		cfg.Cache.Backend = domain.CacheBackend(f.Cache.Backend)
	}
	setString(&cfg.Cache.Name, f.Cache.Name)
	setString(&cfg.Cache.Dir, f.Cache.Dir)
	setString(&cfg.Cache.RedisURL, f.Cache.RedisURL)

	if f.Fetch.Timeout > 0 {
		cfg.Fetch.Timeout = f.Fetch.Timeout
	}
	if f.Fetch.MaxAttempts > 0 {
		cfg.Fetch.MaxAttempts = f.Fetch.MaxAttempts
	}
	if f.Fetch.RateLimit > 0 {
		cfg.Fetch.RateLimit = f.Fetch.RateLimit
	}
	if f.Fetch.MaxBodyBytes > 0 {
		cfg.Fetch.MaxBodyBytes = f.Fetch.MaxBodyBytes
	}
	if f.Fetch.Concurrency > 0 {
		cfg.Fetch.Concurrency = f.Fetch.Concurrency
	}

	if f.Build.Minify != nil {
		cfg.Build.Minify = *f.Build.Minify
	}
	if f.Sandbox.Timeout > 0 {
		cfg.Sandbox.Timeout = f.Sandbox.Timeout
	}
	setString(&cfg.Server.Addr, f.Server.Addr)
	setString(&cfg.Log.Level, f.Log.Level)
	setString(&cfg.Log.Format, f.Log.Format)
	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyEnv(cfg *domain.Config) {
	if v := os.Getenv(EnvRegistryURL); v != "" {
		cfg.Registry.URL = v
	}
}

func validate(cfg *domain.Config) error {
	u, err := url.Parse(cfg.Registry.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return zerr.With(domain.ErrInvalidRegistryURL, "url", cfg.Registry.URL)
	}

	switch cfg.Cache.Backend {
	case domain.CacheBackendMemory, domain.CacheBackendFile:
	case domain.CacheBackendRedis:
		if cfg.Cache.RedisURL == "" {
			return zerr.With(domain.ErrConfigInvalid, "field", "cache.redis_url")
		}
	default:
		return zerr.With(domain.ErrCacheBackendUnknown, "backend", string(cfg.Cache.Backend))
	}
	return nil
}

type pathKey struct{}

// WithPath returns a context that makes the config node load the given file.
// An explicit path must exist.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// PathFromContext returns the configuration path stored by WithPath.
func PathFromContext(ctx context.Context) string {
	p, _ := ctx.Value(pathKey{}).(string)
	return p
}

package domain

import (
	"runtime"
	"time"
)

// Config is the resolved runtime configuration.
type Config struct {
	Registry RegistryConfig
	Cache    CacheConfig
	Fetch    FetchConfig
	Build    BuildConfig
	Sandbox  SandboxConfig
	Server   ServerConfig
	Log      LogConfig
}

// RegistryConfig names the package registry root.
type RegistryConfig struct {
	URL string
}

// CacheBackend selects the module cache implementation.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendFile   CacheBackend = "file"
	CacheBackendRedis  CacheBackend = "redis"
)

// CacheConfig configures the module cache.
type CacheConfig struct {
	Backend CacheBackend
	// Name scopes the cache instance; backends use it as a namespace.
	Name     string
	Dir      string
	RedisURL string
}

// FetchConfig configures registry requests.
type FetchConfig struct {
	Timeout      time.Duration
	MaxAttempts  int
	RateLimit    float64
	MaxBodyBytes int64
	// Concurrency bounds cache warming fan-out. Zero means one worker per CPU.
	Concurrency int
}

// Workers returns the effective warming concurrency.
func (f FetchConfig) Workers() int {
	if f.Concurrency > 0 {
		return f.Concurrency
	}
	return runtime.NumCPU()
}

// BuildConfig configures the build engine.
type BuildConfig struct {
	Minify bool
}

// SandboxConfig configures script execution.
type SandboxConfig struct {
	Timeout time.Duration
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{URL: DefaultRegistryURL},
		Cache: CacheConfig{
			Backend: CacheBackendMemory,
			Name:    DefaultCacheName,
			Dir:     DefaultCachePath(),
		},
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			MaxAttempts:  3,
			MaxBodyBytes: 10 << 20,
		},
		Build:   BuildConfig{Minify: true},
		Sandbox: SandboxConfig{Timeout: 5 * time.Second},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

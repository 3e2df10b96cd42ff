package config

import "time"

// Bundlfile represents the structure of the bundl.yaml configuration file.
// Pointer fields distinguish an explicit zero from an omitted value.
type Bundlfile struct {
	Registry RegistryDTO `yaml:"registry"`
	Cache    CacheDTO    `yaml:"cache"`
	Fetch    FetchDTO    `yaml:"fetch"`
	Build    BuildDTO    `yaml:"build"`
	Sandbox  SandboxDTO  `yaml:"sandbox"`
	Server   ServerDTO   `yaml:"server"`
	Log      LogDTO      `yaml:"log"`
}

// RegistryDTO represents the registry section.
type RegistryDTO struct {
	URL string `yaml:"url"`
}

// CacheDTO represents the cache section.
type CacheDTO struct {
	Backend  string `yaml:"backend"`
	Name     string `yaml:"name"`
	Dir      string `yaml:"dir"`
	RedisURL string `yaml:"redis_url"`
}

// FetchDTO represents the fetch section.
type FetchDTO struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RateLimit    float64       `yaml:"rate_limit"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	Concurrency  int           `yaml:"concurrency"`
}

// BuildDTO represents the build section.
type BuildDTO struct {
	Minify *bool `yaml:"minify"`
}

// SandboxDTO represents the sandbox section.
type SandboxDTO struct {
	Timeout time.Duration `yaml:"timeout"`
}

// ServerDTO represents the server section.
type ServerDTO struct {
	Addr string `yaml:"addr"`
}

// LogDTO represents the log section.
type LogDTO struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

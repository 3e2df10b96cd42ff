package domain

import "go.trai.ch/zerr"

var (
	// ErrModuleNotFound is returned when the registry answers 404 for a module URL.
	ErrModuleNotFound = zerr.New("module not found in registry")

	// ErrRegistryStatus is returned when the registry answers with an unexpected status code.
	ErrRegistryStatus = zerr.New("registry returned unexpected status")

	// ErrRegistryRequestFailed is returned when a registry request could not be completed.
	ErrRegistryRequestFailed = zerr.New("registry request failed")

	// ErrRegistryBodyTooLarge is returned when a registry response exceeds the configured size limit.
	ErrRegistryBodyTooLarge = zerr.New("registry response too large")

	// ErrInvalidRegistryURL is returned when the configured registry root is not an absolute URL.
	ErrInvalidRegistryURL = zerr.New("invalid registry url")

	// ErrCacheReadFailed is returned when a cache entry could not be read or decoded.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheWriteFailed is returned when a cache entry could not be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrCacheClearFailed is returned when the cache could not be cleared.
	ErrCacheClearFailed = zerr.New("failed to clear cache")

	// ErrCacheBackendUnknown is returned when the configured cache backend is not supported.
	ErrCacheBackendUnknown = zerr.New("unknown cache backend")

	// ErrCacheConnectFailed is returned when a remote cache backend is unreachable.
	ErrCacheConnectFailed = zerr.New("failed to connect to cache backend")

	// ErrEngineInitFailed is returned when the build engine could not be initialized.
	ErrEngineInitFailed = zerr.New("build engine initialization failed")

	// ErrBuildFailed is returned when the build engine reports errors.
	ErrBuildFailed = zerr.New("build failed")

	// ErrNoOutput is returned when a successful build produced no output file.
	ErrNoOutput = zerr.New("build produced no output")

	// ErrScriptTimeout is returned when a sandboxed script exceeds its deadline.
	ErrScriptTimeout = zerr.New("script execution timed out")

	// ErrScriptFailed is returned when a sandboxed script throws.
	ErrScriptFailed = zerr.New("script execution failed")

	// ErrConfigNotFound is returned when an explicitly requested configuration file does not exist.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read configuration file")

	// ErrConfigParseFailed is returned when the configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse configuration file")

	// ErrConfigInvalid is returned when a configuration value is out of range.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrEmptySource is returned when a compile request carries no source code.
	ErrEmptySource = zerr.New("no source code provided")
)

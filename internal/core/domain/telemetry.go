package domain

import "strings"

// LoadSource records where the contents of a loaded module came from.
type LoadSource string

const (
	// LoadSourceVirtual is the entry module, served from the request.
	LoadSourceVirtual LoadSource = "virtual"
	// LoadSourceCache is a cache hit.
	LoadSourceCache LoadSource = "cache"
	// LoadSourceNetwork is a fresh registry fetch.
	LoadSourceNetwork LoadSource = "network"
	// LoadSourceShared is a load that joined a fetch already in flight.
	LoadSourceShared LoadSource = "shared"
)

// IsCached reports whether the load avoided the network.
func (s LoadSource) IsCached() bool {
	return s == LoadSourceCache || s == LoadSourceVirtual
}

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel converts a configuration string to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

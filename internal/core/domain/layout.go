package domain

import "path/filepath"

const (
	// BundlDirName is the name of the local state directory.
	BundlDirName = ".bundl"

	// CacheDirName is the name of the module cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "bundl.yaml"

	// DefaultCacheName names the process-scoped cache instance.
	DefaultCacheName = "fileCache"

	// DefaultRegistryURL is the public package registry used when none is configured.
	DefaultRegistryURL = "https://unpkg.com"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default directory of the file cache backend.
// It joins .bundl and cache.
func DefaultCachePath() string {
	return filepath.Join(BundlDirName, CacheDirName)
}

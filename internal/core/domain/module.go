// Package domain contains the core domain models for module resolution and loading.
package domain

import (
	"net/url"
	"path"
	"strings"
)

// ImportKind describes how a module was referenced.
type ImportKind string

const (
	// ImportKindEntryPoint marks the synthetic entry module of a build.
	ImportKindEntryPoint ImportKind = "entry-point"
	// ImportKindStatement marks any import edge discovered while parsing a module.
	ImportKindStatement ImportKind = "import-statement"
)

// Namespace partitions module identities.
type Namespace string

const (
	// NamespaceVirtual holds the entry module, whose contents come from the request.
	NamespaceVirtual Namespace = "virtual"
	// NamespaceRegistry holds every module fetched from the package registry.
	NamespaceRegistry Namespace = "registry"
)

// ResolutionContext is the information available when resolving a specifier.
type ResolutionContext struct {
	Kind ImportKind
	// ResolveDir is the directory of the importing module. Empty for the entry point.
	ResolveDir string
	// Importer is the path of the importing module, if any.
	Importer string
}

// ResolvedIdentity is the canonical identity of a module.
// Two specifiers resolving to the same Path are the same module.
type ResolvedIdentity struct {
	Namespace Namespace `json:"namespace"`
	Path      string    `json:"path"`
}

// IsEntry reports whether the identity refers to the synthetic entry module.
func (id ResolvedIdentity) IsEntry() bool {
	return id.Namespace == NamespaceVirtual
}

// String returns "namespace:path".
func (id ResolvedIdentity) String() string {
	return string(id.Namespace) + ":" + id.Path
}

// Ext returns the lowercase extension of the identity path, ignoring any query or fragment.
func (id ResolvedIdentity) Ext() string {
	p := id.Path
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(path.Ext(p))
}

// LoaderKind selects how the build engine parses loaded contents.
type LoaderKind string

const (
	LoaderTSX  LoaderKind = "tsx"
	LoaderTS   LoaderKind = "ts"
	LoaderJSX  LoaderKind = "jsx"
	LoaderJS   LoaderKind = "js"
	LoaderCSS  LoaderKind = "css"
	LoaderJSON LoaderKind = "json"
	LoaderText LoaderKind = "text"
)

// LoadResult is the outcome of loading one module.
type LoadResult struct {
	Loader   LoaderKind `json:"loader"`
	Contents string     `json:"contents"`
	// ResolveDir anchors relative imports found inside Contents.
	ResolveDir string `json:"resolveDir,omitzero"`
}

// FetchedModule is a registry response after redirects were followed.
type FetchedModule struct {
	Contents string
	FinalURL string
}

// Dir returns the directory portion of the final URL's path.
func (f *FetchedModule) Dir() string {
	u, err := url.Parse(f.FinalURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return path.Dir(u.Path)
}

// Package resolver maps import specifiers to module identities.
package resolver

import (
	"net/url"
	"strings"

	"go.trai.ch/bundl/internal/core/domain"
)

// Rule is one entry of the resolution table. The first rule whose Match
// returns true decides the identity.
type Rule struct {
	Name    string
	Match   func(specifier string, rc domain.ResolutionContext) bool
	Resolve func(specifier string, rc domain.ResolutionContext) domain.ResolvedIdentity
}

// Resolver implements ports.PathResolver against a registry root URL.
type Resolver struct {
	root  string
	rules []Rule
}

// New creates a Resolver for the given registry root, e.g. "https://unpkg.com".
func New(registryRoot string) *Resolver {
	r := &Resolver{root: strings.TrimRight(registryRoot, "/")}
	r.rules = []Rule{
		{Name: "entry-point", Match: isEntry, Resolve: r.resolveEntry},
		{Name: "relative", Match: isRelative, Resolve: r.resolveRelative},
		{Name: "absolute-url", Match: isAbsoluteURL, Resolve: r.resolveAbsolute},
		{Name: "root-relative", Match: isRootRelative, Resolve: r.resolveRootRelative},
		{Name: "bare", Match: matchAll, Resolve: r.resolveBare},
	}
	return r
}

// Root returns the registry root without a trailing slash.
func (r *Resolver) Root() string {
	return r.root
}

// Rules returns the resolution table in precedence order.
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Resolve returns the identity of the module named by specifier.
func (r *Resolver) Resolve(specifier string, rc domain.ResolutionContext) domain.ResolvedIdentity {
	id, _ := r.ResolveWithRule(specifier, rc)
	return id
}

// ResolveWithRule resolves the specifier and reports which rule matched.
func (r *Resolver) ResolveWithRule(specifier string, rc domain.ResolutionContext) (domain.ResolvedIdentity, string) {
	for _, rule := range r.rules {
		if rule.Match(specifier, rc) {
			return rule.Resolve(specifier, rc), rule.Name
		}
	}
	// Unreachable: the bare rule matches everything.
	return r.resolveBare(specifier, rc), "bare"
}

func isEntry(_ string, rc domain.ResolutionContext) bool {
	return rc.Kind == domain.ImportKindEntryPoint
}

func isRelative(specifier string, _ domain.ResolutionContext) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func isAbsoluteURL(specifier string, _ domain.ResolutionContext) bool {
	return strings.HasPrefix(specifier, "https://") || strings.HasPrefix(specifier, "http://")
}

func isRootRelative(specifier string, _ domain.ResolutionContext) bool {
	return strings.HasPrefix(specifier, "/")
}

func matchAll(string, domain.ResolutionContext) bool {
	return true
}

func (r *Resolver) resolveEntry(specifier string, _ domain.ResolutionContext) domain.ResolvedIdentity {
	return domain.ResolvedIdentity{Namespace: domain.NamespaceVirtual, Path: specifier}
}

func (r *Resolver) resolveRelative(specifier string, rc domain.ResolutionContext) domain.ResolvedIdentity {
	dir := strings.TrimSuffix(rc.ResolveDir, "/")
	if dir != "" && !strings.HasPrefix(dir, "/") {
		dir = "/" + dir
	}
	origin := r.root
	if o, ok := foreignOrigin(rc.Importer, r.root); ok {
		if dir == "" {
			return registry(joinURL(rc.Importer, specifier))
		}
		origin = o
	}
	return registry(joinURL(origin+dir+"/", specifier))
}

// foreignOrigin returns scheme://host of importer when it is an absolute URL
// on a different host than root.
func foreignOrigin(importer, root string) (string, bool) {
	if !isAbsoluteURL(importer, domain.ResolutionContext{}) {
		return "", false
	}
	u, err := url.Parse(importer)
	if err != nil || u.Host == "" {
		return "", false
	}
	if ru, err := url.Parse(root); err == nil && strings.EqualFold(ru.Host, u.Host) {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}

func (r *Resolver) resolveAbsolute(specifier string, _ domain.ResolutionContext) domain.ResolvedIdentity {
	return registry(specifier)
}

func (r *Resolver) resolveRootRelative(specifier string, _ domain.ResolutionContext) domain.ResolvedIdentity {
	return registry(r.root + specifier)
}

func (r *Resolver) resolveBare(specifier string, _ domain.ResolutionContext) domain.ResolvedIdentity {
	return registry(r.root + "/" + specifier)
}

func registry(p string) domain.ResolvedIdentity {
	return domain.ResolvedIdentity{Namespace: domain.NamespaceRegistry, Path: p}
}

// joinURL resolves ref against base per RFC 3986, falling back to concatenation.
func joinURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return base + ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return base + ref
	}
	return b.ResolveReference(r).String()
}

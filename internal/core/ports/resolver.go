package ports

import "go.trai.ch/bundl/internal/core/domain"

// PathResolver maps an import specifier to the identity of the module it names.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type PathResolver interface {
	// Resolve never fails; every specifier maps to exactly one identity.
	Resolve(specifier string, rc domain.ResolutionContext) domain.ResolvedIdentity
}

package car

import (
	"context"

	"github.com/xmartin/vehicle-registry/internal/domain/brand"
)

// BrandDirectory is the remote-lookup capability the car registry uses to
// resolve brand references against the brand service. Implementations answer
// shared.ErrBrandNotFound when the remote replied that no such brand exists
// and shared.ErrRemoteUnavailable when no answer was obtained; the two are
// never collapsed so callers can tell a dangling reference from an outage.
type BrandDirectory interface {
	// ResolveByID resolves a brand by its identifier
	ResolveByID(ctx context.Context, id int) (*brand.Brand, error)

	// ResolveByName resolves a brand by name, case-insensitively
	ResolveByName(ctx context.Context, name string) (*brand.Brand, error)

	// ResolveAll returns the full brand set, fetched once so batch and paged
	// reads can join locally instead of resolving row by row
	ResolveAll(ctx context.Context) ([]brand.Brand, error)
}

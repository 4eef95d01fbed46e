package brand

import "context"

// Repository defines the interface for brand persistence
type Repository interface {
	// FindByID finds a brand by its ID
	FindByID(ctx context.Context, id int) (*Brand, error)

	// FindByNameIgnoreCase finds a brand by name, case-insensitively
	FindByNameIgnoreCase(ctx context.Context, name string) (*Brand, error)

	// ExistsByNameIgnoreCase checks whether a brand with the given name exists
	ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error)

	// FindAll returns all brands
	FindAll(ctx context.Context) ([]Brand, error)

	// Save creates or updates a brand, assigning the ID on creation
	Save(ctx context.Context, b *Brand) error

	// SaveBatch creates all brands in a single transaction; either every
	// brand is persisted or none is
	SaveBatch(ctx context.Context, brands []*Brand) error

	// Delete deletes a brand by ID
	Delete(ctx context.Context, id int) error
}

package car

import (
	"context"

	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// Repository defines the interface for car persistence
type Repository interface {
	// FindByID finds a car by its ID
	FindByID(ctx context.Context, id int) (*Car, error)

	// FindPage returns one page of cars plus the total row count
	FindPage(ctx context.Context, filter shared.Filter) ([]Car, int64, error)

	// FindAll returns all cars
	FindAll(ctx context.Context) ([]Car, error)

	// Save creates or updates a car, assigning the ID on creation
	Save(ctx context.Context, c *Car) error

	// SaveBatch creates all cars in a single transaction; either every car
	// is persisted or none is
	SaveBatch(ctx context.Context, cars []*Car) error

	// Delete deletes a car by ID
	Delete(ctx context.Context, id int) error

	// DeleteByBrandID deletes every car referencing the brand and reports
	// how many rows were removed; zero is not an error
	DeleteByBrandID(ctx context.Context, brandID int) (int64, error)
}

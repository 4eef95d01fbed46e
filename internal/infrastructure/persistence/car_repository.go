package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/xmartin/vehicle-registry/internal/domain/car"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// GormCarRepository implements car.Repository using GORM
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// FindByID finds a car by its ID
func (r *GormCarRepository) FindByID(ctx context.Context, id int) (*car.Car, error) {
	var c car.Car
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindPage returns one page of cars plus the total row count
func (r *GormCarRepository) FindPage(ctx context.Context, filter shared.Filter) ([]car.Car, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&car.Car{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "id asc"
	if filter.OrderBy != "" {
		dir := filter.OrderDir
		if dir != "desc" {
			dir = "asc"
		}
		order = fmt.Sprintf("%s %s", filter.OrderBy, dir)
	}

	var cars []car.Car
	if err := r.db.WithContext(ctx).
		Order(order).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&cars).Error; err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

// FindAll returns all cars ordered by ID
func (r *GormCarRepository) FindAll(ctx context.Context) ([]car.Car, error) {
	var cars []car.Car
	if err := r.db.WithContext(ctx).Order("id asc").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Save creates or updates a car
func (r *GormCarRepository) Save(ctx context.Context, c *car.Car) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SaveBatch creates all cars in one transaction
func (r *GormCarRepository) SaveBatch(ctx context.Context, cars []*car.Car) error {
	if len(cars) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(cars).Error
	})
}

// Delete deletes a car by ID
func (r *GormCarRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&car.Car{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByBrandID deletes every car referencing the brand. Zero affected
// rows is success, matching the idempotent cascade contract.
func (r *GormCarRepository) DeleteByBrandID(ctx context.Context, brandID int) (int64, error) {
	result := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Delete(&car.Car{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

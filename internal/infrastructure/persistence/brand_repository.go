package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xmartin/vehicle-registry/internal/domain/brand"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// GormBrandRepository implements brand.Repository using GORM. The unique
// index on the case-folded name column is the storage-level backstop for
// the service's check-then-act uniqueness validation.
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a brand by its ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id int) (*brand.Brand, error) {
	var b brand.Brand
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByNameIgnoreCase finds a brand by its case-folded name
func (r *GormBrandRepository) FindByNameIgnoreCase(ctx context.Context, name string) (*brand.Brand, error) {
	var b brand.Brand
	if err := r.db.WithContext(ctx).
		Where("name_key = ?", brand.NormalizeName(name)).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ExistsByNameIgnoreCase checks whether a brand with the given name exists
func (r *GormBrandRepository) ExistsByNameIgnoreCase(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&brand.Brand{}).
		Where("name_key = ?", brand.NormalizeName(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns all brands ordered by ID
func (r *GormBrandRepository) FindAll(ctx context.Context) ([]brand.Brand, error) {
	var brands []brand.Brand
	if err := r.db.WithContext(ctx).Order("id asc").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// Save creates or updates a brand. A unique-constraint violation surfaces
// as a CONFLICT error in case a concurrent writer won the check-then-act
// race.
func (r *GormBrandRepository) Save(ctx context.Context, b *brand.Brand) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}

// SaveBatch creates all brands in one transaction
func (r *GormBrandRepository) SaveBatch(ctx context.Context, brands []*brand.Brand) error {
	if len(brands) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(brands).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrConflict
			}
			return err
		}
		return nil
	})
}

// Delete deletes a brand by ID
func (r *GormBrandRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&brand.Brand{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

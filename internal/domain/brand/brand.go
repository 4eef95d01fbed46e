package brand

import (
	"strings"

	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// Brand represents a vehicle manufacturer record.
// It is the aggregate root for brand-related operations; the brand catalog is
// the sole authority for brand identity, other services only read copies.
type Brand struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	// NameKey is the case-folded name backing the storage-level unique index,
	// so the service-level uniqueness check is an optimization, not the only
	// guarantee under concurrent writers
	NameKey  string `gorm:"type:varchar(100);not null;uniqueIndex:idx_brand_name_key" json:"-"`
	Warranty int    `gorm:"not null;default:0" json:"warranty"`
	Country  string `gorm:"type:varchar(100)" json:"country"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NormalizeName returns the case-insensitive comparison key for a brand name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New creates a new brand
func New(name string, warranty int, country string) (*Brand, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if warranty < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warranty cannot be negative")
	}

	return &Brand{
		Name:     strings.TrimSpace(name),
		NameKey:  NormalizeName(name),
		Warranty: warranty,
		Country:  country,
	}, nil
}

// Update overwrites the brand's fields
func (b *Brand) Update(name string, warranty int, country string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if warranty < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Warranty cannot be negative")
	}

	b.Name = strings.TrimSpace(name)
	b.NameKey = NormalizeName(name)
	b.Warranty = warranty
	b.Country = country
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Brand name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Brand name cannot exceed 100 characters")
	}
	return nil
}

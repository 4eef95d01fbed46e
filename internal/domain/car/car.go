package car

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xmartin/vehicle-registry/internal/domain/brand"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// Car represents a vehicle record owned by the car registry. Only the brand
// ID is persisted; the full Brand is resolved through the directory at read
// time and attached to outgoing views, never stored redundantly.
type Car struct {
	ID          int             `gorm:"primaryKey;autoIncrement" json:"id"`
	BrandID     int             `gorm:"column:brand_id;not null;index" json:"-"`
	Model       string          `gorm:"type:varchar(100);not null" json:"model"`
	Mileage     int             `gorm:"not null;default:0" json:"mileage"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
	Year        int             `gorm:"not null" json:"year"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Colour      string          `gorm:"type:varchar(50)" json:"colour"`
	FuelType    string          `gorm:"column:fuel_type;type:varchar(50)" json:"fuel_type"`
	NumDoors    int             `gorm:"column:num_doors;not null;default:0" json:"num_doors"`

	// Brand is the copy resolved from the brand service, attached at read
	// time only
	Brand *brand.Brand `gorm:"-" json:"brand,omitempty"`
}

// TableName returns the table name for GORM
func (Car) TableName() string {
	return "cars"
}

// New creates a new car referencing the given brand ID. Brand existence is
// the application layer's concern; this only enforces field invariants.
func New(brandID int, model string, mileage int, price decimal.Decimal, year int,
	description, colour, fuelType string, numDoors int) (*Car, error) {

	c := &Car{
		BrandID:     brandID,
		Model:       strings.TrimSpace(model),
		Mileage:     mileage,
		Price:       price,
		Year:        year,
		Description: description,
		Colour:      colour,
		FuelType:    fuelType,
		NumDoors:    numDoors,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Car) validate() error {
	if c.Model == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Car model cannot be empty")
	}
	if c.Mileage < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Mileage cannot be negative")
	}
	if c.NumDoors < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Door count cannot be negative")
	}
	if c.Price.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Price cannot be negative")
	}
	return nil
}

// AttachBrand sets the resolved brand copy and aligns the persisted reference
func (c *Car) AttachBrand(b *brand.Brand) {
	c.Brand = b
	if b != nil {
		c.BrandID = b.ID
	}
}

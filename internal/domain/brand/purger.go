package brand

import "context"

// CarPurger is the capability the brand catalog uses to cascade a brand
// delete into the car registry. The purge must succeed before the local
// brand row may be removed; implementations live at the infrastructure edge.
type CarPurger interface {
	// DeleteCarsForBrand removes every car referencing the brand. Deleting
	// zero matches is success.
	DeleteCarsForBrand(ctx context.Context, brandID int) error
}

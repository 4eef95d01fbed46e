package carapp

import (
	"github.com/xmartin/vehicle-registry/internal/domain/brand"
	"github.com/xmartin/vehicle-registry/internal/domain/car"
)

// indexByID builds the id-keyed brand lookup table used by batch and paged
// reads. Built once per call, never once per row.
func indexByID(brands []brand.Brand) map[int]brand.Brand {
	table := make(map[int]brand.Brand, len(brands))
	for _, b := range brands {
		table[b.ID] = b
	}
	return table
}

// indexByName builds the name-keyed lookup table, case-insensitively
func indexByName(brands []brand.Brand) map[string]brand.Brand {
	table := make(map[string]brand.Brand, len(brands))
	for _, b := range brands {
		table[brand.NormalizeName(b.Name)] = b
	}
	return table
}

// attachFromTable joins resolved brands onto cars in place. A car whose
// brand is absent from the table keeps a nil Brand; paged reads tolerate
// references going dangling between the page read and the brand fetch.
func attachFromTable(cars []car.Car, table map[int]brand.Brand) {
	for i := range cars {
		if b, ok := table[cars[i].BrandID]; ok {
			resolved := b
			cars[i].Brand = &resolved
		}
	}
}

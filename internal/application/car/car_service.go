// Package carapp contains the car registry's service logic. Every mutating
// call resolves its brand reference through the remote directory before the
// store write, and every batch or paged path resolves the full brand set
// once and joins locally instead of calling the directory once per row.
package carapp

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xmartin/vehicle-registry/internal/domain/brand"
	"github.com/xmartin/vehicle-registry/internal/domain/car"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/bulkcsv"
)

// CSVFields is the fixed field order of the car bulk format. The brand
// column carries the brand name and is resolved through the directory.
var CSVFields = []string{"brand", "model", "description", "colour", "fuel_type",
	"mileage", "num_doors", "price", "year"}

// BrandKey selects how a caller references brands: some call sites key by
// identifier, others by name. One key mode applies to a whole batch.
type BrandKey string

const (
	BrandKeyID   BrandKey = "id"
	BrandKeyName BrandKey = "name"
)

// Input carries the caller-supplied car fields for create and update. The
// brand reference is read through BrandID or BrandName depending on the
// BrandKey the call site uses.
type Input struct {
	BrandID     int
	BrandName   string
	Model       string
	Mileage     int
	Price       decimal.Decimal
	Year        int
	Description string
	Colour      string
	FuelType    string
	NumDoors    int
}

// ListResult is the outcome of an asynchronous paged read
type ListResult struct {
	Page shared.Paginated[car.Car]
	Err  error
}

// Service handles car registry operations
type Service struct {
	repo      car.Repository
	directory car.BrandDirectory
}

// NewService creates a new car registry service
func NewService(repo car.Repository, directory car.BrandDirectory) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
	}
}

// Add creates a new car. The brand reference is resolved remotely before
// anything is written; an unresolved reference fails with BRAND_NOT_FOUND
// and nothing is persisted. The returned car carries the resolved brand.
func (s *Service) Add(ctx context.Context, in Input, key BrandKey) (*car.Car, error) {
	b, err := s.resolveBrand(ctx, in, key)
	if err != nil {
		return nil, err
	}

	c, err := newCar(b.ID, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	c.AttachBrand(b)
	return c, nil
}

// GetByID returns a car with its brand re-resolved remotely at read time.
// Resolution is never cached, so a reference left dangling by an out-of-band
// brand removal surfaces here as BRAND_NOT_FOUND.
func (s *Service) GetByID(ctx context.Context, id int) (*car.Car, error) {
	c, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b, err := s.directory.ResolveByID(ctx, c.BrandID)
	if err != nil {
		return nil, err
	}
	c.AttachBrand(b)
	return c, nil
}

// Update overwrites a car's fields after resolving the new brand reference
func (s *Service) Update(ctx context.Context, id int, in Input, key BrandKey) (*car.Car, error) {
	if _, err := s.findByID(ctx, id); err != nil {
		return nil, err
	}

	b, err := s.resolveBrand(ctx, in, key)
	if err != nil {
		return nil, err
	}

	c, err := newCar(b.ID, in)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	c.AttachBrand(b)
	return c, nil
}

// Delete removes a car. There is no brand-side effect.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DeleteAllByBrandID removes every car referencing the brand. This is the
// cascade target invoked by the brand catalog before it deletes its own
// row; deleting zero matches is success, so the operation is idempotent.
func (s *Service) DeleteAllByBrandID(ctx context.Context, brandID int) (int64, error) {
	return s.repo.DeleteByBrandID(ctx, brandID)
}

// List returns one page of cars with brands attached. The whole brand set
// is fetched exactly once and joined locally through an id-keyed table; the
// directory is never called once per car.
func (s *Service) List(ctx context.Context, page, pageSize int) (shared.Paginated[car.Car], error) {
	filter := shared.Filter{Page: page, PageSize: pageSize, OrderBy: "id", OrderDir: "asc"}
	cars, total, err := s.repo.FindPage(ctx, filter)
	if err != nil {
		return shared.Paginated[car.Car]{}, err
	}

	brands, err := s.directory.ResolveAll(ctx)
	if err != nil {
		return shared.Paginated[car.Car]{}, err
	}
	attachFromTable(cars, indexByID(brands))

	return shared.NewPaginated(cars, total, filter.Page, filter.Limit()), nil
}

// ListAsync runs List off the caller's goroutine and delivers exactly one
// result on the returned channel
func (s *Service) ListAsync(ctx context.Context, page, pageSize int) <-chan ListResult {
	out := make(chan ListResult, 1)
	go func() {
		defer close(out)
		result, err := s.List(ctx, page, pageSize)
		out <- ListResult{Page: result, Err: err}
	}()
	return out
}

// AddBatch persists a batch of cars. The brand set is resolved once into a
// lookup table keyed by the caller's chosen key; if any car's reference is
// absent from the table the whole batch fails with BRAND_NOT_FOUND before a
// single row is written.
func (s *Service) AddBatch(ctx context.Context, inputs []Input, key BrandKey) ([]car.Car, error) {
	brands, err := s.directory.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := indexByID(brands)
	byName := indexByName(brands)

	candidates := make([]*car.Car, 0, len(inputs))
	resolved := make([]*brand.Brand, 0, len(inputs))
	for _, in := range inputs {
		var b *brand.Brand
		switch key {
		case BrandKeyID:
			if found, ok := byID[in.BrandID]; ok {
				b = &found
			}
		case BrandKeyName:
			if found, ok := byName[brand.NormalizeName(in.BrandName)]; ok {
				b = &found
			}
		default:
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Unsupported brand key %q", key)
		}
		if b == nil {
			return nil, s.unresolved(in, key)
		}

		c, err := newCar(b.ID, in)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
		resolved = append(resolved, b)
	}

	if err := s.repo.SaveBatch(ctx, candidates); err != nil {
		return nil, err
	}

	cars := make([]car.Car, len(candidates))
	for i, c := range candidates {
		c.AttachBrand(resolved[i])
		cars[i] = *c
	}
	return cars, nil
}

// BulkImport parses CSV text into cars and persists them. Brand references
// are resolved by name against a single pre-resolved table; an unresolved
// row fails the whole import with BRAND_NOT_FOUND and malformed numeric
// values fail it with an import error, before anything is written.
func (s *Service) BulkImport(ctx context.Context, text string) ([]car.Car, error) {
	rows, err := bulkcsv.Decode(text, CSVFields)
	if err != nil {
		return nil, err
	}

	brands, err := s.directory.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := indexByName(brands)

	candidates := make([]*car.Car, 0, len(rows))
	resolved := make([]*brand.Brand, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // data starts after the header line

		b, ok := byName[brand.NormalizeName(row.Get("brand"))]
		if !ok {
			return nil, shared.NewDomainErrorf(shared.CodeBrandNotFound,
				"Brand with name %s was not found", row.Get("brand"))
		}

		mileage, err := strconv.Atoi(row.Get("mileage"))
		if err != nil {
			return nil, bulkcsv.ParseError(line, "mileage", row.Get("mileage"), "integer")
		}
		numDoors, err := strconv.Atoi(row.Get("num_doors"))
		if err != nil {
			return nil, bulkcsv.ParseError(line, "num_doors", row.Get("num_doors"), "integer")
		}
		year, err := strconv.Atoi(row.Get("year"))
		if err != nil {
			return nil, bulkcsv.ParseError(line, "year", row.Get("year"), "integer")
		}
		price, err := decimal.NewFromString(row.Get("price"))
		if err != nil {
			return nil, bulkcsv.ParseError(line, "price", row.Get("price"), "decimal")
		}

		c, err := car.New(b.ID, row.Get("model"), mileage, price, year,
			row.Get("description"), row.Get("colour"), row.Get("fuel_type"), numDoors)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
		resolvedBrand := b
		resolved = append(resolved, &resolvedBrand)
	}

	if err := s.repo.SaveBatch(ctx, candidates); err != nil {
		return nil, err
	}

	cars := make([]car.Car, len(candidates))
	for i, c := range candidates {
		c.AttachBrand(resolved[i])
		cars[i] = *c
	}
	return cars, nil
}

// BulkExport serializes all cars in the shared field order. Brand names are
// taken from one ResolveAll call; a car whose brand is no longer resolvable
// fails the export with BRAND_NOT_FOUND rather than writing a dangling
// reference.
func (s *Service) BulkExport(ctx context.Context) (string, error) {
	cars, err := s.repo.FindAll(ctx)
	if err != nil {
		return "", err
	}

	brands, err := s.directory.ResolveAll(ctx)
	if err != nil {
		return "", err
	}
	byID := indexByID(brands)

	rows := make([]bulkcsv.Row, len(cars))
	for i, c := range cars {
		b, ok := byID[c.BrandID]
		if !ok {
			return "", shared.NewDomainErrorf(shared.CodeBrandNotFound,
				"Brand with ID %d was not found", c.BrandID)
		}
		rows[i] = bulkcsv.Row{
			"brand":       b.Name,
			"model":       c.Model,
			"description": c.Description,
			"colour":      c.Colour,
			"fuel_type":   c.FuelType,
			"mileage":     strconv.Itoa(c.Mileage),
			"num_doors":   strconv.Itoa(c.NumDoors),
			"price":       c.Price.String(),
			"year":        strconv.Itoa(c.Year),
		}
	}
	return bulkcsv.Encode(rows, CSVFields), nil
}

// resolveBrand performs the single-row remote resolution that gates every
// mutating call. Directory errors pass through unchanged so callers can
// distinguish an absent brand from an unreachable directory.
func (s *Service) resolveBrand(ctx context.Context, in Input, key BrandKey) (*brand.Brand, error) {
	switch key {
	case BrandKeyID:
		return s.directory.ResolveByID(ctx, in.BrandID)
	case BrandKeyName:
		return s.directory.ResolveByName(ctx, in.BrandName)
	default:
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Unsupported brand key %q", key)
	}
}

func (s *Service) unresolved(in Input, key BrandKey) error {
	if key == BrandKeyName {
		return shared.NewDomainErrorf(shared.CodeBrandNotFound, "Brand with name %s was not found", in.BrandName)
	}
	return shared.NewDomainErrorf(shared.CodeBrandNotFound, "Brand with ID %d was not found", in.BrandID)
}

func (s *Service) findByID(ctx context.Context, id int) (*car.Car, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf(shared.CodeCarNotFound, "Car with ID %d was not found", id)
		}
		return nil, err
	}
	return c, nil
}

func newCar(brandID int, in Input) (*car.Car, error) {
	return car.New(brandID, in.Model, in.Mileage, in.Price, in.Year,
		in.Description, in.Colour, in.FuelType, in.NumDoors)
}

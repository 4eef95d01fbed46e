// Package brandapp contains the brand catalog's service logic: CRUD with
// case-insensitive name uniqueness, the two-step cascade delete into the car
// registry, and CSV bulk import/export.
package brandapp

import (
	"context"
	"errors"
	"strconv"

	"github.com/xmartin/vehicle-registry/internal/domain/brand"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/bulkcsv"
)

// CSVFields is the fixed field order of the brand bulk format
var CSVFields = []string{"name", "warranty", "country"}

// Input carries the caller-supplied brand fields for create and update
type Input struct {
	Name     string
	Warranty int
	Country  string
}

// ListResult is the outcome of an asynchronous list read
type ListResult struct {
	Brands []brand.Brand
	Err    error
}

// Service handles brand catalog operations
type Service struct {
	repo brand.Repository
	cars brand.CarPurger
}

// NewService creates a new brand catalog service
func NewService(repo brand.Repository, cars brand.CarPurger) *Service {
	return &Service{
		repo: repo,
		cars: cars,
	}
}

// Add creates a new brand. Fails with a CONFLICT error if a brand with the
// same name already exists, comparing case-insensitively.
func (s *Service) Add(ctx context.Context, in Input) (*brand.Brand, error) {
	exists, err := s.repo.ExistsByNameIgnoreCase(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict(in.Name)
	}

	b, err := brand.New(in.Name, in.Warranty, in.Country)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update overwrites a brand's fields. The name uniqueness invariant is
// re-checked against all brands other than the one being updated.
func (s *Service) Update(ctx context.Context, id int, in Input) (*brand.Brand, error) {
	b, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	other, err := s.repo.FindByNameIgnoreCase(ctx, in.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err == nil && other.ID != id {
		return nil, conflict(in.Name)
	}

	if err := b.Update(in.Name, in.Warranty, in.Country); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a brand after cascading the delete into the car registry.
// The remote purge runs first; if it fails the local row is left untouched
// and a CASCADE_FAILED error is returned, so the system is never left
// partially cascaded.
func (s *Service) Delete(ctx context.Context, id int) error {
	b, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.cars.DeleteCarsForBrand(ctx, b.ID); err != nil {
		return shared.NewDomainErrorf(shared.CodeCascadeFailed,
			"Delete of brand %d aborted, dependent car purge failed: %v", id, err)
	}

	return s.repo.Delete(ctx, b.ID)
}

// GetByID returns a brand by its ID
func (s *Service) GetByID(ctx context.Context, id int) (*brand.Brand, error) {
	return s.findByID(ctx, id)
}

// GetByName returns a brand by name, case-insensitively
func (s *Service) GetByName(ctx context.Context, name string) (*brand.Brand, error) {
	b, err := s.repo.FindByNameIgnoreCase(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf(shared.CodeNotFound, "Brand with name %s was not found", name)
		}
		return nil, err
	}
	return b, nil
}

// List returns all brands
func (s *Service) List(ctx context.Context) ([]brand.Brand, error) {
	return s.repo.FindAll(ctx)
}

// ListAsync runs the full scan off the caller's goroutine and delivers the
// result on the returned channel. The scan may be large; callers keep their
// request thread free and receive exactly one result.
func (s *Service) ListAsync(ctx context.Context) <-chan ListResult {
	out := make(chan ListResult, 1)
	go func() {
		defer close(out)
		brands, err := s.repo.FindAll(ctx)
		out <- ListResult{Brands: brands, Err: err}
	}()
	return out
}

// BulkImport parses CSV text into brands and persists them. The whole unit
// of work is validated before the first save: a name colliding with the
// store or with an earlier row fails with CONFLICT, a non-integer warranty
// fails with an import error, and in every failure case nothing is
// persisted.
func (s *Service) BulkImport(ctx context.Context, text string) ([]brand.Brand, error) {
	rows, err := bulkcsv.Decode(text, CSVFields)
	if err != nil {
		return nil, err
	}

	candidates := make([]*brand.Brand, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		line := i + 2 // data starts after the header line

		name := row.Get("name")
		warranty, err := strconv.Atoi(row.Get("warranty"))
		if err != nil {
			return nil, bulkcsv.ParseError(line, "warranty", row.Get("warranty"), "integer")
		}

		key := brand.NormalizeName(name)
		if seen[key] {
			return nil, conflict(name)
		}
		exists, err := s.repo.ExistsByNameIgnoreCase(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflict(name)
		}
		seen[key] = true

		b, err := brand.New(name, warranty, row.Get("country"))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, b)
	}

	if err := s.repo.SaveBatch(ctx, candidates); err != nil {
		return nil, err
	}

	brands := make([]brand.Brand, len(candidates))
	for i, b := range candidates {
		brands[i] = *b
	}
	return brands, nil
}

// BulkExport serializes all brands in the shared field order
func (s *Service) BulkExport(ctx context.Context) (string, error) {
	brands, err := s.repo.FindAll(ctx)
	if err != nil {
		return "", err
	}

	rows := make([]bulkcsv.Row, len(brands))
	for i, b := range brands {
		rows[i] = bulkcsv.Row{
			"name":     b.Name,
			"warranty": strconv.Itoa(b.Warranty),
			"country":  b.Country,
		}
	}
	return bulkcsv.Encode(rows, CSVFields), nil
}

func (s *Service) findByID(ctx context.Context, id int) (*brand.Brand, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf(shared.CodeNotFound, "Brand with ID %d was not found", id)
		}
		return nil, err
	}
	return b, nil
}

func conflict(name string) error {
	return shared.NewDomainErrorf(shared.CodeConflict, "Brand with name %s already exists", name)
}

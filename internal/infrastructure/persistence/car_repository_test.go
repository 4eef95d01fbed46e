package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmartin/vehicle-registry/internal/domain/car"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

func mustCar(t *testing.T, brandID int, model string) *car.Car {
	t.Helper()
	c, err := car.New(brandID, model, 42000, decimal.NewFromInt(15000), 2018,
		"", "blue", "petrol", 5)
	require.NoError(t, err)
	return c
}

func TestGormCarRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))
	ctx := context.Background()

	c := mustCar(t, 1, "Corolla")
	require.NoError(t, repo.Save(ctx, c))
	require.NotZero(t, c.ID)

	found, err := repo.FindByID(ctx, c.ID)

	require.NoError(t, err)
	assert.Equal(t, "Corolla", found.Model)
	assert.Equal(t, 1, found.BrandID)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(15000)))
	assert.Nil(t, found.Brand)
}

func TestGormCarRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))

	found, err := repo.FindByID(context.Background(), 42)

	assert.Nil(t, found)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCarRepository_FindPage(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))
	ctx := context.Background()

	for _, model := range []string{"Corolla", "Yaris", "Ibiza", "Golf", "Leon"} {
		require.NoError(t, repo.Save(ctx, mustCar(t, 1, model)))
	}

	cars, total, err := repo.FindPage(ctx, shared.Filter{Page: 1, PageSize: 2, OrderBy: "id", OrderDir: "asc"})

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, cars, 2)
	assert.Equal(t, "Corolla", cars[0].Model)
	assert.Equal(t, "Yaris", cars[1].Model)

	cars, total, err = repo.FindPage(ctx, shared.Filter{Page: 3, PageSize: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, cars, 1)
	assert.Equal(t, "Leon", cars[0].Model)
}

func TestGormCarRepository_FindPage_EmptyStore(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))

	cars, total, err := repo.FindPage(context.Background(), shared.DefaultFilter())

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, cars)
}

func TestGormCarRepository_SaveBatch(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))
	ctx := context.Background()

	err := repo.SaveBatch(ctx, []*car.Car{
		mustCar(t, 1, "Corolla"),
		mustCar(t, 2, "Ibiza"),
	})

	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormCarRepository_Delete(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))
	ctx := context.Background()

	c := mustCar(t, 1, "Corolla")
	require.NoError(t, repo.Save(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), shared.ErrNotFound)
}

func TestGormCarRepository_DeleteByBrandID(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustCar(t, 1, "Corolla")))
	require.NoError(t, repo.Save(ctx, mustCar(t, 1, "Yaris")))
	require.NoError(t, repo.Save(ctx, mustCar(t, 2, "Ibiza")))

	deleted, err := repo.DeleteByBrandID(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ibiza", all[0].Model)
}

func TestGormCarRepository_DeleteByBrandID_NoMatches(t *testing.T) {
	repo := NewGormCarRepository(newTestDB(t, &car.Car{}))

	deleted, err := repo.DeleteByBrandID(context.Background(), 9)

	require.NoError(t, err)
	assert.Zero(t, deleted)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	carapp "github.com/xmartin/vehicle-registry/internal/application/car"
	"github.com/xmartin/vehicle-registry/internal/domain/brand"
	"github.com/xmartin/vehicle-registry/internal/domain/car"
	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// MockCarRepository implements car.Repository for testing
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) FindByID(ctx context.Context, id int) (*car.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*car.Car), args.Error(1)
}

func (m *MockCarRepository) FindPage(ctx context.Context, filter shared.Filter) ([]car.Car, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]car.Car), args.Get(1).(int64), args.Error(2)
}

func (m *MockCarRepository) FindAll(ctx context.Context) ([]car.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]car.Car), args.Error(1)
}

func (m *MockCarRepository) Save(ctx context.Context, c *car.Car) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCarRepository) SaveBatch(ctx context.Context, cars []*car.Car) error {
	args := m.Called(ctx, cars)
	return args.Error(0)
}

func (m *MockCarRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCarRepository) DeleteByBrandID(ctx context.Context, brandID int) (int64, error) {
	args := m.Called(ctx, brandID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBrandDirectory implements car.BrandDirectory for testing
type MockBrandDirectory struct {
	mock.Mock
}

func (m *MockBrandDirectory) ResolveByID(ctx context.Context, id int) (*brand.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brand.Brand), args.Error(1)
}

func (m *MockBrandDirectory) ResolveByName(ctx context.Context, name string) (*brand.Brand, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brand.Brand), args.Error(1)
}

func (m *MockBrandDirectory) ResolveAll(ctx context.Context) ([]brand.Brand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]brand.Brand), args.Error(1)
}

func setupCarHandler(repo *MockCarRepository, directory *MockBrandDirectory) *CarHandler {
	return NewCarHandler(carapp.NewService(repo, directory))
}

func testCar(id, brandID int, model string) *car.Car {
	c, _ := car.New(brandID, model, 42000, decimal.NewFromInt(15000), 2018,
		"", "blue", "petrol", 5)
	c.ID = id
	return c
}

func corollaRequest() CarRequest {
	return CarRequest{
		Brand:    "Toyota",
		Model:    "Corolla",
		Mileage:  42000,
		Price:    decimal.NewFromInt(15000),
		Year:     2018,
		Colour:   "blue",
		FuelType: "petrol",
		NumDoors: 5,
	}
}

func TestCarHandler_Create_Success(t *testing.T) {
	repo := new(MockCarRepository)
	directory := new(MockBrandDirectory)
	handler := setupCarHandler(repo, directory)

	directory.On("ResolveByName", mock.Anything, "Toyota").Return(testBrand(1, "Toyota"), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*car.Car")).Return(nil)

	router := setupTestRouter()
	router.POST("/cars", handler.Create)

	body, _ := json.Marshal(corollaRequest())
	req := httptest.NewRequest(http.MethodPost, "/cars", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Toyota")
	repo.AssertExpectations(t)
	directory.AssertExpectations(t)
}

func TestCarHandler_Create_UnknownBrandMapsToNotFound(t *testing.T) {
	repo := new(MockCarRepository)
	directory := new(MockBrandDirectory)
	handler := setupCarHandler(repo, directory)

	directory.On("ResolveByName", mock.Anything, "Toyota").Return(nil, shared.ErrBrandNotFound)

	router := setupTestRouter()
	router.POST("/cars", handler.Create)

	body, _ := json.Marshal(corollaRequest())
	req := httptest.NewRequest(http.MethodPost, "/cars", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodeBrandNotFound, resp.Error.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCarHandler_Create_DirectoryDownMapsToBadGateway(t *testing.T) {
	repo := new(MockCarRepository)
	directory := new(MockBrandDirectory)
	handler := setupCarHandler(repo, directory)

	directory.On("ResolveByName", mock.Anything, "Toyota").Return(nil, shared.ErrRemoteUnavailable)

	router := setupTestRouter()
	router.POST("/cars", handler.Create)

	body, _ := json.Marshal(corollaRequest())
	req := httptest.NewRequest(http.MethodPost, "/cars", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCarHandler_Create_MissingBrandReference(t *testing.T) {
	handler := setupCarHandler(new(MockCarRepository), new(MockBrandDirectory))

	router := setupTestRouter()
	router.POST("/cars", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/cars", bytes.NewBufferString(`{"model":"Corolla"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCarHandler_GetByID(t *testing.T) {
	t.Run("returns the car with its brand attached", func(t *testing.T) {
		repo := new(MockCarRepository)
		directory := new(MockBrandDirectory)
		handler := setupCarHandler(repo, directory)

		repo.On("FindByID", mock.Anything, 10).Return(testCar(10, 1, "Corolla"), nil)
		directory.On("ResolveByID", mock.Anything, 1).Return(testBrand(1, "Toyota"), nil)

		router := setupTestRouter()
		router.GET("/cars/:id", handler.GetByID)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cars/10", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Toyota")
	})

	t.Run("missing car maps to 404", func(t *testing.T) {
		repo := new(MockCarRepository)
		handler := setupCarHandler(repo, new(MockBrandDirectory))

		repo.On("FindByID", mock.Anything, 99).Return(nil, shared.ErrNotFound)

		router := setupTestRouter()
		router.GET("/cars/:id", handler.GetByID)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cars/99", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, shared.CodeCarNotFound, resp.Error.Code)
	})
}

func TestCarHandler_DeleteByBrand(t *testing.T) {
	repo := new(MockCarRepository)
	handler := setupCarHandler(repo, new(MockBrandDirectory))

	repo.On("DeleteByBrandID", mock.Anything, 3).Return(int64(2), nil)

	router := setupTestRouter()
	router.DELETE("/cars/brand/:brandId", handler.DeleteByBrand)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cars/brand/3", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":2`)
	repo.AssertExpectations(t)
}

func TestCarHandler_List_PaginatesWithMeta(t *testing.T) {
	repo := new(MockCarRepository)
	directory := new(MockBrandDirectory)
	handler := setupCarHandler(repo, directory)

	repo.On("FindPage", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return([]car.Car{*testCar(10, 1, "Corolla")}, int64(41), nil)
	directory.On("ResolveAll", mock.Anything).Return([]brand.Brand{*testBrand(1, "Toyota")}, nil)

	router := setupTestRouter()
	router.GET("/cars", handler.List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cars?page=2&page_size=20", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestCarHandler_CreateBatch(t *testing.T) {
	t.Run("persists the whole batch", func(t *testing.T) {
		repo := new(MockCarRepository)
		directory := new(MockBrandDirectory)
		handler := setupCarHandler(repo, directory)

		directory.On("ResolveAll", mock.Anything).Return([]brand.Brand{*testBrand(1, "Toyota")}, nil)
		repo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*car.Car")).Return(nil)

		router := setupTestRouter()
		router.POST("/cars/batch", handler.CreateBatch)

		body, _ := json.Marshal(BatchRequest{BrandKey: "name", Cars: []CarRequest{corollaRequest()}})
		req := httptest.NewRequest(http.MethodPost, "/cars/batch", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("unknown brand fails the whole batch", func(t *testing.T) {
		repo := new(MockCarRepository)
		directory := new(MockBrandDirectory)
		handler := setupCarHandler(repo, directory)

		directory.On("ResolveAll", mock.Anything).Return([]brand.Brand{*testBrand(1, "Seat")}, nil)

		router := setupTestRouter()
		router.POST("/cars/batch", handler.CreateBatch)

		body, _ := json.Marshal(BatchRequest{BrandKey: "name", Cars: []CarRequest{corollaRequest()}})
		req := httptest.NewRequest(http.MethodPost, "/cars/batch", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		repo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unsupported brand key", func(t *testing.T) {
		handler := setupCarHandler(new(MockCarRepository), new(MockBrandDirectory))

		router := setupTestRouter()
		router.POST("/cars/batch", handler.CreateBatch)

		body, _ := json.Marshal(map[string]any{"brand_key": "vin", "cars": []CarRequest{corollaRequest()}})
		req := httptest.NewRequest(http.MethodPost, "/cars/batch", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCarHandler_Upload(t *testing.T) {
	repo := new(MockCarRepository)
	directory := new(MockBrandDirectory)
	handler := setupCarHandler(repo, directory)

	directory.On("ResolveAll", mock.Anything).Return([]brand.Brand{*testBrand(1, "Toyota")}, nil)
	repo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*car.Car")).Return(nil)

	router := setupTestRouter()
	router.POST("/cars/upload", handler.Upload)

	content := "brand,model,description,colour,fuel_type,mileage,num_doors,price,year\n" +
		"Toyota,Corolla,,blue,petrol,42000,5,15000,2018\n"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "/cars/upload", content))

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestCarHandler_Download(t *testing.T) {
	repo := new(MockCarRepository)
	directory := new(MockBrandDirectory)
	handler := setupCarHandler(repo, directory)

	repo.On("FindAll", mock.Anything).Return([]car.Car{*testCar(10, 1, "Corolla")}, nil)
	directory.On("ResolveAll", mock.Anything).Return([]brand.Brand{*testBrand(1, "Toyota")}, nil)

	router := setupTestRouter()
	router.GET("/cars/download", handler.Download)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cars/download", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cars.csv")
	assert.Contains(t, w.Body.String(), "Toyota,Corolla")
}

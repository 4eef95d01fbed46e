package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	carapp "github.com/xmartin/vehicle-registry/internal/application/car"
)

// CarHandler handles car registry API endpoints
type CarHandler struct {
	BaseHandler
	cars *carapp.Service
}

// NewCarHandler creates a new CarHandler
func NewCarHandler(cars *carapp.Service) *CarHandler {
	return &CarHandler{cars: cars}
}

// CarRequest is the request body for creating or updating a car. The brand
// reference is given either by id or by name; exactly one must be set.
type CarRequest struct {
	BrandID     int             `json:"brand_id" binding:"omitempty,min=1"`
	Brand       string          `json:"brand" binding:"omitempty,max=100"`
	Model       string          `json:"model" binding:"required,min=1,max=100"`
	Mileage     int             `json:"mileage" binding:"min=0"`
	Price       decimal.Decimal `json:"price"`
	Year        int             `json:"year"`
	Description string          `json:"description"`
	Colour      string          `json:"colour" binding:"max=50"`
	FuelType    string          `json:"fuel_type" binding:"max=50"`
	NumDoors    int             `json:"num_doors" binding:"min=0"`
}

func (r CarRequest) toInput() (carapp.Input, carapp.BrandKey, bool) {
	in := carapp.Input{
		BrandID:     r.BrandID,
		BrandName:   r.Brand,
		Model:       r.Model,
		Mileage:     r.Mileage,
		Price:       r.Price,
		Year:        r.Year,
		Description: r.Description,
		Colour:      r.Colour,
		FuelType:    r.FuelType,
		NumDoors:    r.NumDoors,
	}
	switch {
	case r.Brand != "":
		return in, carapp.BrandKeyName, true
	case r.BrandID > 0:
		return in, carapp.BrandKeyID, true
	default:
		return in, "", false
	}
}

// BatchRequest is the request body for batch car creation. All cars in one
// batch reference brands through the same key.
type BatchRequest struct {
	BrandKey string       `json:"brand_key" binding:"required,oneof=id name"`
	Cars     []CarRequest `json:"cars" binding:"required,min=1,dive"`
}

// Create handles POST /cars
func (h *CarHandler) Create(c *gin.Context) {
	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	in, key, ok := req.toInput()
	if !ok {
		h.BadRequest(c, "Either brand_id or brand must be set")
		return
	}

	created, err := h.cars.Add(c.Request.Context(), in, key)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, created)
}

// GetByID handles GET /cars/:id
func (h *CarHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid car ID")
		return
	}

	found, err := h.cars.GetByID(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, found)
}

// Update handles PUT /cars/:id
func (h *CarHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid car ID")
		return
	}

	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	in, key, ok := req.toInput()
	if !ok {
		h.BadRequest(c, "Either brand_id or brand must be set")
		return
	}

	updated, err := h.cars.Update(c.Request.Context(), id, in, key)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete handles DELETE /cars/:id
func (h *CarHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid car ID")
		return
	}

	if err := h.cars.Delete(c.Request.Context(), id); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteByBrand handles DELETE /cars/brand/:brandId, the purge endpoint the
// brand service calls before deleting a brand
func (h *CarHandler) DeleteByBrand(c *gin.Context) {
	brandID, err := strconv.Atoi(c.Param("brandId"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	deleted, err := h.cars.DeleteAllByBrandID(c.Request.Context(), brandID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": deleted})
}

// List handles GET /cars?page=&page_size=. The paged read runs off the
// request goroutine; the handler waits on the service's result channel.
func (h *CarHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result := <-h.cars.ListAsync(c.Request.Context(), page, pageSize)
	if result.Err != nil {
		h.DomainError(c, result.Err)
		return
	}
	h.SuccessWithMeta(c, result.Page.Items, result.Page.Total, result.Page.Page, result.Page.PageSize)
}

// CreateBatch handles POST /cars/batch
func (h *CarHandler) CreateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	key := carapp.BrandKey(req.BrandKey)
	inputs := make([]carapp.Input, len(req.Cars))
	for i, r := range req.Cars {
		in, _, _ := r.toInput()
		inputs[i] = in
	}

	created, err := h.cars.AddBatch(c.Request.Context(), inputs, key)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, created)
}

// Upload handles POST /cars/upload with a multipart CSV file
func (h *CarHandler) Upload(c *gin.Context) {
	text, ok := readUpload(c, &h.BaseHandler)
	if !ok {
		return
	}

	cars, err := h.cars.BulkImport(c.Request.Context(), text)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, cars)
}

// Download handles GET /cars/download, returning the registry as CSV text
func (h *CarHandler) Download(c *gin.Context) {
	text, err := h.cars.BulkExport(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cars.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(text))
}

package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	brandapp "github.com/xmartin/vehicle-registry/internal/application/brand"
)

// BrandHandler handles brand catalog API endpoints
type BrandHandler struct {
	BaseHandler
	brands *brandapp.Service
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brands *brandapp.Service) *BrandHandler {
	return &BrandHandler{brands: brands}
}

// BrandRequest is the request body for creating or updating a brand
type BrandRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Warranty int    `json:"warranty" binding:"min=0"`
	Country  string `json:"country" binding:"max=100"`
}

func (r BrandRequest) toInput() brandapp.Input {
	return brandapp.Input{
		Name:     r.Name,
		Warranty: r.Warranty,
		Country:  r.Country,
	}
}

// Create handles POST /brands
func (h *BrandHandler) Create(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	b, err := h.brands.Add(c.Request.Context(), req.toInput())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, b)
}

// Update handles PUT /brands/:id
func (h *BrandHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	b, err := h.brands.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, b)
}

// Delete handles DELETE /brands/:id
func (h *BrandHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	if err := h.brands.Delete(c.Request.Context(), id); err != nil {
		h.DomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByID handles GET /brands/:id
func (h *BrandHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID")
		return
	}

	b, err := h.brands.GetByID(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, b)
}

// GetByName handles GET /brands/name/:name
func (h *BrandHandler) GetByName(c *gin.Context) {
	b, err := h.brands.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, b)
}

// List handles GET /brands. The scan runs off the request goroutine; the
// handler waits on the service's result channel.
func (h *BrandHandler) List(c *gin.Context) {
	result := <-h.brands.ListAsync(c.Request.Context())
	if result.Err != nil {
		h.DomainError(c, result.Err)
		return
	}
	h.Success(c, result.Brands)
}

// Upload handles POST /brands/upload with a multipart CSV file
func (h *BrandHandler) Upload(c *gin.Context) {
	text, ok := readUpload(c, &h.BaseHandler)
	if !ok {
		return
	}

	brands, err := h.brands.BulkImport(c.Request.Context(), text)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, brands)
}

// Download handles GET /brands/download, returning the catalog as CSV text
func (h *BrandHandler) Download(c *gin.Context) {
	text, err := h.brands.BulkExport(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="brands.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(text))
}

// readUpload extracts the CSV text from the multipart "file" field
func readUpload(c *gin.Context, h *BaseHandler) (string, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Failed to read file upload")
		return "", false
	}
	return string(data), true
}

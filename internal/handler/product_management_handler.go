package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/replaygear/replay_api/internal/repository"
	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

// ProductManagementHandler handles admin catalog CRUD endpoints.
type ProductManagementHandler struct {
	catalog *service.CatalogService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(catalog *service.CatalogService) *ProductManagementHandler {
	return &ProductManagementHandler{catalog: catalog}
}

// List handles GET /v1/admin/products
func (h *ProductManagementHandler) List(c *gin.Context) {
	filter := &repository.AdminProductFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if v := c.Query("isAvailable"); v != "" {
		available := v == "true"
		filter.IsAvailable = &available
	}

	result, err := h.catalog.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved", gin.H{
		"products": result.Products,
	}, result.Page, result.Limit, result.TotalItems)
}

// Create handles POST /v1/admin/products
func (h *ProductManagementHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), &req)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to create product")
		return
	}

	utils.Success(c, 201, "Product created successfully", product)
}

// Get handles GET /v1/admin/products/:id
func (h *ProductManagementHandler) Get(c *gin.Context) {
	product, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve product")
		return
	}

	utils.Success(c, 200, "Product retrieved", product)
}

// Update handles PUT /v1/admin/products/:id
func (h *ProductManagementHandler) Update(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeCatalogError(c, err, "Failed to update product")
		return
	}

	utils.Success(c, 200, "Product updated successfully", product)
}

// Delete handles DELETE /v1/admin/products/:id
func (h *ProductManagementHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}

	utils.Success(c, 200, "Product deleted successfully", nil)
}

func (h *ProductManagementHandler) writeCatalogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrInvalidType):
		utils.Error(c, 400, "INVALID_TYPE", "Type must be 'new' or 'preowned'")
	case errors.Is(err, utils.ErrInvalidGrade):
		utils.Error(c, 400, "INVALID_GRADE", "Grade must be A, B, C, or D")
	case errors.Is(err, utils.ErrInvalidPrice):
		utils.Error(c, 400, "INVALID_PRICE", "Price must be positive")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", fallback)
	}
}

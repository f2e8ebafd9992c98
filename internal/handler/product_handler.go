package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

// ProductHandler handles the public catalog endpoints.
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /v1/products
func (h *ProductHandler) List(c *gin.Context) {
	productType := c.Query("type")
	category := c.Query("category")
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, total, err := h.catalog.ListPublic(c.Request.Context(), productType, category, search, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved", gin.H{
		"products": products,
	}, page, limit, total)
}

// Get handles GET /v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
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

// Categories handles GET /v1/products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve categories")
		return
	}

	utils.Success(c, 200, "Categories retrieved", gin.H{
		"categories": categories,
	})
}

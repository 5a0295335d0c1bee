package handler

import (
	"strconv"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves read-only access to canonical products
type ProductHandler struct {
	BaseHandler
	products commerce.ProductRepository
}

// NewProductHandler creates a new product handler
func NewProductHandler(products commerce.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers product routes on the API group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/:id", h.Get)
	}
}

// List returns products with optional filtering and pagination.
// Query parameters: platform, min_price, max_price, min_quantity, search,
// page, per_page.
func (h *ProductHandler) List(c *gin.Context) {
	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = pagination(c)
	filter.Search = c.Query("search")

	if p := c.Query("platform"); p != "" {
		platform, err := commerce.ParsePlatform(p)
		if err != nil {
			h.BadRequest(c, "unknown platform: "+p)
			return
		}
		filter.Filters["platform"] = platform
	}
	if v := c.Query("min_price"); v != "" {
		minPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.BadRequest(c, "min_price must be a number")
			return
		}
		filter.Filters["min_price"] = minPrice
	}
	if v := c.Query("max_price"); v != "" {
		maxPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.BadRequest(c, "max_price must be a number")
			return
		}
		filter.Filters["max_price"] = maxPrice
	}
	if v := c.Query("min_quantity"); v != "" {
		minQty, err := strconv.Atoi(v)
		if err != nil {
			h.BadRequest(c, "min_quantity must be an integer")
			return
		}
		filter.Filters["min_quantity"] = minQty
	}

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Get returns a single product by its surrogate id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "id must be an integer")
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

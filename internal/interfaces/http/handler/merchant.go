package handler

import (
	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// MerchantHandler serves read-only access to merchant metrics
type MerchantHandler struct {
	BaseHandler
	metrics commerce.MerchantMetricRepository
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(metrics commerce.MerchantMetricRepository) *MerchantHandler {
	return &MerchantHandler{metrics: metrics}
}

// RegisterRoutes registers merchant routes on the API group
func (h *MerchantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	merchants := rg.Group("/merchants")
	{
		merchants.GET("", h.List)
	}
}

// List returns merchant metrics with optional filtering and pagination.
// Query parameters: platform, search, page, per_page.
func (h *MerchantHandler) List(c *gin.Context) {
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

	metrics, total, err := h.metrics.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, metrics, total, filter.Page, filter.PageSize)
}

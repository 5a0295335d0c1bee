package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/ecomsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, perPage int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, perPage))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ERR_BAD_REQUEST", message))
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse("ERR_NOT_FOUND", message))
}

// HandleError maps domain errors to HTTP status codes
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		h.NotFound(c, shared.ErrNotFound.Message)
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("ERR_INTERNAL", "Internal server error"))
}

// pagination extracts page/per_page query parameters with bounds applied
func pagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}
	return page, perPage
}

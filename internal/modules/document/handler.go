package document

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel/internal/domain"
	"hotel/internal/middleware"
	"hotel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id/documents/:type", h.Download)
	rg.DELETE("/bookings/:id/documents/:type", middleware.AdminOnly(), h.Delete)
}

// Download streams the PDF as an attachment named after its type.
func (h *Handler) Download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}
	docType := domain.DocumentType(c.Param("type"))

	content, err := h.service.Download(c.Request.Context(), c.GetInt64("user_id"), middleware.CurrentRole(c), id, docType)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
			return
		}
		response.AppError(c, err, "Failed to load document")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+string(docType)+`"`)
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, domain.DocumentType(c.Param("type"))); err != nil {
		response.AppError(c, err, "Failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

package guest

import (
	"errors"
	"net/http"

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
	guests := rg.Group("/guests")
	{
		guests.GET("", middleware.AdminOnly(), h.List)
		guests.GET("/search", middleware.AdminOnly(), h.Search)
		guests.POST("", middleware.AdminOnly(), h.Create)
		guests.GET("/:email", middleware.RequireRole(domain.RoleAdmin, domain.RoleGuest), h.Get)
		guests.PUT("/:email", middleware.AdminOnly(), h.Update)
		guests.DELETE("/:email", middleware.AdminOnly(), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "page and size must be integers")
		return
	}
	q.FirstName, q.LastName, q.Email = "", "", ""
	h.search(c, q)
}

// Search godoc
// @Summary Search guests by name and email
// @Tags guests
// @Produce json
// @Param first_name query string false "First name fragment"
// @Param last_name query string false "Last name fragment"
// @Param email query string false "Email fragment"
// @Param page query int false "Zero based page"
// @Param size query int false "Page size"
// @Success 200 {object} PagedGuests
// @Router /guests/search [get]
func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters")
		return
	}
	h.search(c, q)
}

func (h *Handler) search(c *gin.Context, q SearchQuery) {
	out, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		response.AppError(c, err, "Failed to load guests")
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Get lets admins read any guest and guests only their own account.
func (h *Handler) Get(c *gin.Context) {
	out, err := h.service.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.AppError(c, err, "Failed to load guest")
		return
	}
	if middleware.CurrentRole(c) == domain.RoleGuest && out.ID != c.GetInt64("user_id") {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Guest not found")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Create(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	out, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create guest")
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) Update(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	out, err := h.service.Update(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		h.writeError(c, err, "Failed to update guest")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("email")); err != nil {
		response.AppError(c, err, "Failed to delete guest")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrEmailAlreadyExists) {
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		return
	}
	response.AppError(c, err, fallback)
}

package room

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel/internal/middleware"
	"hotel/internal/pkg/response"
	"hotel/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rooms := rg.Group("/rooms")
	{
		rooms.GET("", h.List)
		rooms.GET("/free", h.SearchFree)
		rooms.GET("/cleaning", middleware.EmployeesOnly(), h.ListForCleaning)
		rooms.GET("/:id", h.Get)
		rooms.POST("", middleware.AdminOnly(), h.Create)
		rooms.PUT("/:id", middleware.AdminOnly(), h.Update)
		rooms.DELETE("/:id", middleware.AdminOnly(), h.Delete)
		rooms.POST("/:id/cleaned", middleware.EmployeesOnly(), h.MarkCleaned)
		rooms.PUT("/:id/cleaning-time", h.RequestCleaning)
		rooms.DELETE("/:id/cleaning-time", h.ClearCleaning)
	}
}

func (h *Handler) List(c *gin.Context) {
	rooms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.AppError(c, err, "Failed to load rooms")
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.AppError(c, err, "Failed to load room")
		return
	}
	response.Success(c, http.StatusOK, room)
}

// SearchFree godoc
// @Summary Rooms free for a stay
// @Tags rooms
// @Param start_date query string true "First night (YYYY-MM-DD)"
// @Param end_date query string true "Departure (YYYY-MM-DD)"
// @Param persons query int false "Guests"
// @Router /rooms/free [get]
func (h *Handler) SearchFree(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if errs := validator.Validate(&q); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search parameters", errs)
		return
	}

	rooms, err := h.service.SearchFree(c.Request.Context(), q)
	if err != nil {
		response.AppError(c, err, "Failed to search rooms")
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) Create(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	room, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.AppError(c, err, "Failed to create room")
		return
	}
	response.Success(c, http.StatusCreated, room)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	room, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.AppError(c, err, "Failed to update room")
		return
	}
	response.Success(c, http.StatusOK, room)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.AppError(c, err, "Failed to delete room")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListForCleaning(c *gin.Context) {
	rooms, err := h.service.ListForCleaning(c.Request.Context())
	if err != nil {
		response.AppError(c, err, "Failed to load rooms")
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) MarkCleaned(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	if err := h.service.MarkCleaned(c.Request.Context(), id); err != nil {
		response.AppError(c, err, "Failed to mark room as cleaned")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RequestCleaning(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var req CleaningWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid cleaning window", errs)
		return
	}

	err := h.service.RequestCleaning(c.Request.Context(), c.GetInt64("user_id"), middleware.CurrentRole(c), id, req)
	if err != nil {
		fail(c, err, "Failed to set cleaning time")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearCleaning(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	if err := h.service.ClearCleaning(c.Request.Context(), c.GetInt64("user_id"), middleware.CurrentRole(c), id); err != nil {
		fail(c, err, "Failed to clear cleaning time")
		return
	}
	c.Status(http.StatusNoContent)
}

func fail(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrForbidden) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
		return
	}
	response.AppError(c, err, fallback)
}

func roomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return 0, false
	}
	return id, true
}

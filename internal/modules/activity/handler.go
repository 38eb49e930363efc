package activity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	activities := rg.Group("/activities")
	{
		activities.GET("", h.List)
		activities.GET("/:id", h.Get)
		activities.GET("/:id/slots", h.Slots)
		activities.POST("", middleware.AdminOnly(), h.Create)
		activities.PUT("/:id", middleware.AdminOnly(), h.Update)
		activities.DELETE("/:id", middleware.AdminOnly(), h.Delete)
	}

	bookings := rg.Group("/activity-bookings")
	{
		bookings.POST("", h.Book)
		bookings.GET("/my", h.MyBookings)
		bookings.GET("/:id/payment-status", h.PaymentStatus)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.AppError(c, err, "Failed to load activities")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c, "Invalid activity ID")
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.AppError(c, err, "Failed to load activity")
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Slots godoc
// @Summary Upcoming slots of an activity
// @Tags activities
// @Param id path int true "Activity ID"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Param participants query int false "Minimum free seats"
// @Router /activities/{id}/slots [get]
func (h *Handler) Slots(c *gin.Context) {
	id, ok := pathID(c, "Invalid activity ID")
	if !ok {
		return
	}
	participants := 0
	if raw := c.Query("participants"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "participants must be an integer")
			return
		}
		participants = n
	}

	slots, err := h.service.Slots(c.Request.Context(), id, c.Query("date"), participants)
	if err != nil {
		response.AppError(c, err, "Failed to load slots")
		return
	}
	response.Success(c, http.StatusOK, slots)
}

func (h *Handler) Create(c *gin.Context) {
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	a, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.AppError(c, err, "Failed to create activity")
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c, "Invalid activity ID")
	if !ok {
		return
	}
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	a, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.AppError(c, err, "Failed to update activity")
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c, "Invalid activity ID")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.AppError(c, err, "Failed to delete activity")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Book(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	details, err := h.service.Book(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.AppError(c, err, "Failed to book activity")
		return
	}
	response.Success(c, http.StatusCreated, details)
}

func (h *Handler) MyBookings(c *gin.Context) {
	list, err := h.service.MyBookings(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.AppError(c, err, "Failed to load activity bookings")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) PaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "Invalid activity booking ID")
	if !ok {
		return
	}
	paid, err := h.service.SyncPayment(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
			return
		}
		response.AppError(c, err, "Failed to check payment status")
		return
	}
	response.Success(c, http.StatusOK, PaymentStatusResponse{Paid: paid})
}

func pathID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}

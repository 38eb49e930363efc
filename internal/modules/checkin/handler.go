package checkin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel/internal/domain"
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
	rg.POST("/check-in", h.CheckIn)
	rg.GET("/check-in/rooms/:id/occupancy", middleware.EmployeesOnly(), h.Occupancy)
	rg.POST("/check-out/auto", middleware.AdminOnly(), h.AutoCheckOut)
	rg.POST("/check-out/:id", h.CheckOut)

	desk := rg.Group("/manual-checkin", middleware.RequireRole(domain.RoleAdmin, domain.RoleReceptionist))
	{
		desk.POST("/checkout", h.DeskCheckOut)
		desk.GET("/checkin-status/:email", h.Status)
		desk.GET("/all-guests/:id", h.Guests)
		desk.POST("/:email", h.ManualCheckIn)
		desk.DELETE("/:bookingId/:email", h.RemoveGuest)
	}
}

// CheckIn godoc
// @Summary Check the current guest into a booked room
// @Tags check-in
// @Accept json
// @Produce json
// @Param request body CheckInRequest true "Booking and passport"
// @Success 201 {object} CheckInResponse
// @Router /check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid check-in request", errs)
		return
	}

	out, err := h.service.CheckIn(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.AppError(c, err, "Failed to check in")
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	out, err := h.service.CheckOut(c.Request.Context(), c.GetInt64("user_id"), middleware.CurrentRole(c), id)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Checkout can only be completed by the guest who made the booking")
			return
		}
		response.AppError(c, err, "Failed to check out")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Occupancy(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.service.Occupancy(c.Request.Context(), id)
	if err != nil {
		response.AppError(c, err, "Failed to load occupancy")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) AutoCheckOut(c *gin.Context) {
	out, err := h.service.PerformAutoCheckOut(c.Request.Context())
	if err != nil {
		response.AppError(c, err, "Automatic check-out failed")
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ManualCheckIn godoc
// @Summary Check a guest in at the front desk
// @Tags check-in
// @Accept json
// @Produce json
// @Param email path string true "Guest email"
// @Param request body CheckInRequest true "Booking and passport"
// @Success 201 {object} CheckInResponse
// @Router /manual-checkin/{email} [post]
func (h *Handler) ManualCheckIn(c *gin.Context) {
	var req CheckInRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.service.ManualCheckIn(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		response.AppError(c, err, "Failed to check in")
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) DeskCheckOut(c *gin.Context) {
	var req CheckOutRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.service.CheckOut(c.Request.Context(), c.GetInt64("user_id"), middleware.CurrentRole(c), req.BookingID)
	if err != nil {
		response.AppError(c, err, "Failed to check out")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Status(c *gin.Context) {
	out, err := h.service.Status(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.AppError(c, err, "Failed to load check-in status")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Guests(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.service.Guests(c.Request.Context(), id)
	if err != nil {
		response.AppError(c, err, "Failed to load guests")
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) RemoveGuest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	if err := h.service.RemoveGuest(c.Request.Context(), id, c.Param("email")); err != nil {
		response.AppError(c, err, "Failed to remove guest")
		return
	}
	response.Success(c, http.StatusOK, nil)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

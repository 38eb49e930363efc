package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel/internal/middleware"
	"hotel/internal/pkg/apperror"
	"hotel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("/my", h.ListMine)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.GET("/:id/payment-status", h.PaymentStatus)
		bookings.GET("", middleware.EmployeesOnly(), h.ListPaged)
		bookings.POST("/:id/mark-paid", middleware.AdminOnly(), h.MarkPaid)
	}
}

// Create godoc
// @Summary Book a room
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Stay"
// @Success 201 {object} BookingDetails
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	details, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.fail(c, details, err, "Failed to create booking")
		return
	}
	response.Success(c, http.StatusCreated, details)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	details, err := h.service.GetBooking(c.Request.Context(), c.GetInt64("user_id"), middleware.CurrentRole(c), id)
	if err != nil {
		h.fail(c, nil, err, "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.AppError(c, err, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) ListPaged(c *gin.Context) {
	page, err1 := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, err2 := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "page and size must be integers")
		return
	}
	paged, err := h.service.ListPaged(c.Request.Context(), page, size)
	if err != nil {
		response.AppError(c, err, "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, paged)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	details, err := h.service.CancelBooking(c.Request.Context(), c.GetInt64("user_id"), middleware.CurrentRole(c), id)
	if err != nil {
		h.fail(c, details, err, "Failed to cancel booking")
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	details, err := h.service.MarkAsPaidManually(c.Request.Context(), id)
	if err != nil {
		response.AppError(c, err, "Failed to mark booking as paid")
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) PaymentStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	paid, err := h.service.SyncPayment(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.fail(c, nil, err, "Failed to check payment status")
		return
	}
	response.Success(c, http.StatusOK, PaymentStatusResponse{Paid: paid})
}

// fail keeps the booking in the body when it was committed but a follow-up
// step went wrong.
func (h *Handler) fail(c *gin.Context, details *BookingDetails, err error, fallback string) {
	switch {
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case details != nil && errors.Is(err, apperror.ErrDocumentDelivery):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "DOCUMENT_DELIVERY_FAILED", err.Error(), details)
	case details != nil && apperror.IsConflict(err):
		response.ErrorWithDetails(c, http.StatusConflict, "CONFLICT", err.Error(), details)
	default:
		response.AppError(c, err, fallback)
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/checkout", h.CreateRoomCheckout)
	rg.POST("/payments/activity-checkout", h.CreateActivityCheckout)
}

// CreateRoomCheckout godoc
// @Summary      Create checkout session for a room booking
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body RoomCheckoutRequest true "Booking to pay"
// @Success      200 {object} CheckoutSession
// @Router       /payments/checkout [post]
func (h *Handler) CreateRoomCheckout(c *gin.Context) {
	var req RoomCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	session, err := h.service.CreateRoomCheckout(c.Request.Context(), c.GetInt64("user_id"), req.BookingID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// CreateActivityCheckout godoc
// @Summary      Create checkout session for an activity booking
// @Tags         Payments
// @Security     BearerAuth
// @Router       /payments/activity-checkout [post]
func (h *Handler) CreateActivityCheckout(c *gin.Context) {
	var req ActivityCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	session, err := h.service.CreateActivityCheckout(c.Request.Context(), c.GetInt64("user_id"), req.ActivityBookingID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Booking belongs to another user")
	case errors.Is(err, ErrNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, "PAYMENT_UNAVAILABLE", "Online payment is not available")
	default:
		response.AppError(c, err, "Failed to create checkout session")
	}
}

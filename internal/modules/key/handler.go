package key

import (
	"errors"
	"net/http"
	"strconv"

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
	key := rg.Group("/key")
	{
		key.GET("/:id", h.Status)
		key.POST("/unlock/:id", h.Unlock)
	}
}

func (h *Handler) Status(c *gin.Context) {
	roomID, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.service.Status(c.Request.Context(), c.GetInt64("user_id"), roomID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Unlock godoc
// @Summary Open the door of the room the guest is checked into
// @Tags key
// @Param id path int true "Room ID"
// @Router /key/unlock/{id} [post]
func (h *Handler) Unlock(c *gin.Context) {
	roomID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Unlock(c.Request.Context(), c.GetInt64("user_id"), roomID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unlocked": true})
}

func fail(c *gin.Context, err error) {
	var verr *VendorError
	switch {
	case errors.Is(err, ErrUnavailable):
		response.Error(c, http.StatusConflict, "LOCK_UNAVAILABLE", "Smart lock is currently unavailable")
	case errors.Is(err, ErrNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, "LOCK_NOT_CONFIGURED", "Digital keys are not enabled")
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadGateway, "LOCK_VENDOR_ERROR", "There were problems opening the door, please try again later")
	default:
		response.AppError(c, err, "Digital key request failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return 0, false
	}
	return id, true
}

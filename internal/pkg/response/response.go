package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel/internal/pkg/apperror"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// AbortError writes the error envelope and stops the handler chain.
func AbortError(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// AppError maps the shared error taxonomy onto HTTP statuses. Anything it
// does not recognise becomes a 500 with fallback as message.
func AppError(c *gin.Context, err error, fallback string) {
	var verr *apperror.ValidationError
	var cerr *apperror.ConflictError
	switch {
	case errors.As(err, &verr):
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message, verr.Errors)
	case errors.As(err, &cerr):
		ErrorWithDetails(c, http.StatusConflict, "CONFLICT", cerr.Message, cerr.Errors)
	case errors.Is(err, apperror.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, apperror.ErrDocumentDelivery):
		Error(c, http.StatusUnprocessableEntity, "DOCUMENT_DELIVERY_FAILED", err.Error())
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

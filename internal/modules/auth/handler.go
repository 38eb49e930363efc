package auth

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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateProfile)
	}

	employees := protected.Group("/employees", middleware.AdminOnly())
	{
		employees.GET("", h.ListEmployees)
		employees.POST("", h.CreateEmployee)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}
}

// bind decodes the JSON body into req and runs the struct validation. It
// writes the error response itself and reports whether to continue.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed for one or more fields", errs)
		return false
	}
	return true
}

// Register godoc
// @Summary Register a guest account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Guest data"
// @Success 201 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.AppError(c, err, "Failed to register")
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 423 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrAccountLocked):
			response.Error(c, http.StatusLocked, "ACCOUNT_LOCKED", "Too many failed attempts, try again later")
		default:
			response.AppError(c, err, "Failed to login")
		}
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.AppError(c, err, "Failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, me)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bind(c, &req) {
		return
	}
	me, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.AppError(c, err, "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, me)
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.service.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.AppError(c, err, "Failed to create employee")
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) ListEmployees(c *gin.Context) {
	list, err := h.service.ListEmployees(c.Request.Context())
	if err != nil {
		response.AppError(c, err, "Failed to load employees")
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	u, err := h.service.GetEmployee(c.Request.Context(), id)
	if err != nil {
		response.AppError(c, err, "Failed to load employee")
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	var req UpdateEmployeeRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.service.UpdateEmployee(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.AppError(c, err, "Failed to update employee")
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		response.AppError(c, err, "Failed to delete employee")
		return
	}
	c.Status(http.StatusNoContent)
}

func employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid employee id")
		return 0, false
	}
	return id, true
}

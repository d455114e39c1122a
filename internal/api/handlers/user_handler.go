package handlers

import (
	"errors"
	"strconv"

	"github.com/edushare/edushare-backend/internal/api/response"
	"github.com/edushare/edushare-backend/internal/models"
	"github.com/edushare/edushare-backend/internal/repository"
	"github.com/edushare/edushare-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// CreateUserRequest is the payload accepted when registering a user
type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Create handles POST /api/users
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validator.ValidateEmail(req.Email); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user := &models.User{
		Email:    req.Email,
		FullName: validator.SanitizeString(req.FullName, 255),
		Phone:    validator.SanitizeString(req.Phone, 50),
		Location: validator.SanitizeString(req.Location, 255),
		Bio:      req.Bio,
	}

	if err := h.userRepo.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return response.Conflict(c, "user already exists")
		}
		return response.InternalError(c, "failed to create user")
	}

	return response.Created(c, user)
}

// Get handles GET /api/users/:email
func (h *UserHandler) Get(c echo.Context) error {
	email := c.Param("email")
	if err := validator.ValidateEmail(email); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userRepo.GetByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.InternalError(c, "failed to get user")
	}

	return response.Success(c, user)
}

// List handles GET /api/users
func (h *UserHandler) List(c echo.Context) error {
	limit, offset := paginationParams(c)

	users, total, err := h.userRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list users")
	}

	return response.Paginated(c, users, total, limit, offset)
}

// UpdateProfile handles PATCH /api/users/:email
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	email := c.Param("email")
	if err := validator.ValidateEmail(email); err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	profile := &models.User{
		FullName: validator.SanitizeString(req.FullName, 255),
		Phone:    validator.SanitizeString(req.Phone, 50),
		Location: validator.SanitizeString(req.Location, 255),
		Bio:      req.Bio,
	}

	if err := h.userRepo.UpdateProfile(c.Request().Context(), email, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "user not found")
		}
		return response.InternalError(c, "failed to update profile")
	}

	user, err := h.userRepo.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return response.InternalError(c, "failed to get user")
	}

	return response.Success(c, user)
}

// paginationParams reads limit/offset query params, clamped to the
// repository defaults.
func paginationParams(c echo.Context) (int, int) {
	limit := 0
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil {
			offset = parsed
		}
	}
	return validator.ValidatePagination(limit, offset)
}

package handlers

import (
	"errors"

	"github.com/edushare/edushare-backend/internal/api/response"
	"github.com/edushare/edushare-backend/internal/models"
	"github.com/edushare/edushare-backend/internal/repository"
	"github.com/edushare/edushare-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// ItemHandler handles marketplace item HTTP requests
type ItemHandler struct {
	itemRepo repository.ItemRepository
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemRepo repository.ItemRepository) *ItemHandler {
	return &ItemHandler{itemRepo: itemRepo}
}

// CreateItemRequest is the payload accepted when listing an item
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Condition   string `json:"condition,omitempty"`
	CreatedBy   string `json:"created_by"`
}

// UpdateStatusRequest is the payload for item status transitions
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ApproveRequest is the payload for moderation approval
type ApproveRequest struct {
	Approved bool `json:"approved"`
}

// Create handles POST /api/items
func (h *ItemHandler) Create(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "name is required")
	}
	if err := validator.ValidateEmail(req.CreatedBy); err != nil {
		return response.BadRequest(c, "invalid created_by: "+err.Error())
	}

	item := &models.Item{
		Name:        validator.SanitizeString(req.Name, 255),
		Description: req.Description,
		Category:    validator.SanitizeString(req.Category, 100),
		Condition:   validator.SanitizeString(req.Condition, 50),
		CreatedBy:   req.CreatedBy,
	}

	if err := h.itemRepo.Create(c.Request().Context(), item); err != nil {
		return response.InternalError(c, "failed to create item")
	}

	return response.Created(c, item)
}

// Get handles GET /api/items/:id
func (h *ItemHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.BadRequest(c, "invalid item ID")
	}

	item, err := h.itemRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "item not found")
		}
		return response.InternalError(c, "failed to get item")
	}

	return response.Success(c, item)
}

// List handles GET /api/items
func (h *ItemHandler) List(c echo.Context) error {
	limit, offset := paginationParams(c)

	filter := repository.ItemFilter{
		Status:    c.QueryParam("status"),
		Category:  c.QueryParam("category"),
		CreatedBy: c.QueryParam("created_by"),
	}

	items, total, err := h.itemRepo.List(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list items")
	}

	return response.Paginated(c, items, total, limit, offset)
}

// UpdateStatus handles PATCH /api/items/:id/status
func (h *ItemHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.BadRequest(c, "invalid item ID")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	switch req.Status {
	case models.ItemStatusAvailable, models.ItemStatusReserved, models.ItemStatusGiven:
	default:
		return response.BadRequest(c, "invalid status")
	}

	if err := h.itemRepo.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "item not found")
		}
		return response.InternalError(c, "failed to update item status")
	}

	return response.SuccessWithMessage(c, nil, "item status updated")
}

// Approve handles PATCH /api/items/:id/approve
func (h *ItemHandler) Approve(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.BadRequest(c, "invalid item ID")
	}

	var req ApproveRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.itemRepo.SetApproved(c.Request().Context(), id, req.Approved); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "item not found")
		}
		return response.InternalError(c, "failed to update item approval")
	}

	return response.SuccessWithMessage(c, nil, "item approval updated")
}

// Delete handles DELETE /api/items/:id
func (h *ItemHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.BadRequest(c, "invalid item ID")
	}

	if err := h.itemRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "item not found")
		}
		return response.InternalError(c, "failed to delete item")
	}

	return response.NoContent(c)
}

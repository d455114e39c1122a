package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/edushare/edushare-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemFilter narrows item listings. Zero values match everything.
type ItemFilter struct {
	Status    string
	Category  string
	CreatedBy string
}

// ItemRepository defines the interface for marketplace item data access
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	List(ctx context.Context, filter ItemFilter, limit, offset int) ([]models.Item, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetApproved(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
}

// itemRepository implements ItemRepository using GORM
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new ItemRepository instance
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new item listing, assigning a UUID if none is set
func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.ItemStatusAvailable
	}
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create item: %w", result.Error)
	}
	return nil
}

// GetByID retrieves an item by its ID
func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", result.Error)
	}
	return &item, nil
}

// List retrieves items matching the filter with pagination, newest first
func (r *itemRepository) List(ctx context.Context, filter ItemFilter, limit, offset int) ([]models.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Item{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.CreatedBy != "" {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	var items []models.Item
	result := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", result.Error)
	}

	return items, total, nil
}

// UpdateStatus updates the lifecycle status of an item
func (r *itemRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update item status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetApproved sets the moderation approval of an item. Idempotent: setting
// the current value is a successful no-op.
func (r *itemRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	result := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Update("approved", approved)
	if result.Error != nil {
		return fmt.Errorf("failed to update item approval: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update item approval: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// Delete deletes an item by its ID
func (r *itemRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/edushare/edushare-backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user profile data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetOrCreate(ctx context.Context, email string) (*models.User, bool, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	UpdateProfile(ctx context.Context, email string, profile *models.User) error
}

// userRepository implements UserRepository using GORM
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user profile
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("user with email '%s' already exists: %w", user.Email, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", result.Error)
	}
	return nil
}

// GetByEmail retrieves a user by email address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", result.Error)
	}
	return &user, nil
}

// GetOrCreate retrieves a user by email or creates a bare profile for it.
// Returns the user, a boolean indicating if it was created, and any error.
func (r *userRepository) GetOrCreate(ctx context.Context, email string) (*models.User, bool, error) {
	user, err := r.GetByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	user = &models.User{Email: email, Role: "user"}
	if err := r.Create(ctx, user); err != nil {
		// Handle race condition - another request might have created it
		if errors.Is(err, ErrDuplicateEntry) {
			user, err = r.GetByEmail(ctx, email)
			if err != nil {
				return nil, false, err
			}
			return user, false, nil
		}
		return nil, false, err
	}

	return user, true, nil
}

// List retrieves user profiles with pagination, newest first
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", result.Error)
	}

	return users, total, nil
}

// UpdateProfile updates the editable profile fields of a user
func (r *userRepository) UpdateProfile(ctx context.Context, email string, profile *models.User) error {
	updates := map[string]interface{}{
		"full_name": profile.FullName,
		"phone":     profile.Phone,
		"location":  profile.Location,
		"bio":       profile.Bio,
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

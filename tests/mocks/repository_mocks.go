package mocks

import (
	"context"

	"github.com/edushare/edushare-backend/internal/models"
	"github.com/edushare/edushare-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockMessageRepository implements repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Create persists a new message
func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// GetByID retrieves a message by its ID
func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// ListVisibleTo retrieves all messages the viewer participates in
func (m *MockMessageRepository) ListVisibleTo(ctx context.Context, viewer string) ([]models.Message, error) {
	args := m.Called(ctx, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// ListByConversation retrieves the viewer's messages in one conversation
func (m *MockMessageRepository) ListByConversation(ctx context.Context, conversationID, viewer string) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// MarkRead marks a message as read
func (m *MockMessageRepository) MarkRead(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MarkConversationRead marks the receiver's unread messages in a conversation as read
func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, conversationID, receiver string) (int64, error) {
	args := m.Called(ctx, conversationID, receiver)
	return args.Get(0).(int64), args.Error(1)
}

// SetFlagged sets or clears the moderation flag on a message
func (m *MockMessageRepository) SetFlagged(ctx context.Context, id uint, flagged bool) error {
	args := m.Called(ctx, id, flagged)
	return args.Error(0)
}

// CountUnread counts unread messages addressed to the receiver
func (m *MockMessageRepository) CountUnread(ctx context.Context, receiver string) (int64, error) {
	args := m.Called(ctx, receiver)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

// Create persists a new user
func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// GetOrCreate retrieves a user by email, creating a bare record when missing
func (m *MockUserRepository) GetOrCreate(ctx context.Context, email string) (*models.User, bool, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

// List retrieves users with pagination
func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// UpdateProfile updates a user's profile fields
func (m *MockUserRepository) UpdateProfile(ctx context.Context, email string, profile *models.User) error {
	args := m.Called(ctx, email, profile)
	return args.Error(0)
}

// MockItemRepository implements repository.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

// Create persists a new item listing
func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// GetByID retrieves an item by its ID
func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

// List retrieves items matching a filter, with pagination
func (m *MockItemRepository) List(ctx context.Context, filter repository.ItemFilter, limit, offset int) ([]models.Item, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Item), args.Get(1).(int64), args.Error(2)
}

// UpdateStatus transitions an item's status
func (m *MockItemRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// SetApproved sets an item's moderation approval
func (m *MockItemRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	args := m.Called(ctx, id, approved)
	return args.Error(0)
}

// Delete removes an item listing
func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

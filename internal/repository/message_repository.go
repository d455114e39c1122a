package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/edushare/edushare-backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ListVisibleTo(ctx context.Context, viewer string) ([]models.Message, error)
	ListByConversation(ctx context.Context, conversationID, viewer string) ([]models.Message, error)
	MarkRead(ctx context.Context, id uint) error
	MarkConversationRead(ctx context.Context, conversationID, receiver string) (int64, error)
	SetFlagged(ctx context.Context, id uint, flagged bool) error
	CountUnread(ctx context.Context, receiver string) (int64, error)
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create appends a new message. The store assigns ID and CreatedAt;
// Read and Flagged default to false.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		return fmt.Errorf("failed to create message: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a message by its ID
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", result.Error)
	}
	return &message, nil
}

// ListVisibleTo retrieves every message the viewer participates in,
// newest first. The ordering is advisory: the aggregator re-sorts by
// creation time and does not rely on store order.
func (r *messageRepository) ListVisibleTo(ctx context.Context, viewer string) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.WithContext(ctx).
		Where("sender_email = ? OR receiver_email = ?", viewer, viewer).
		Order("created_at DESC").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list messages: %w", result.Error)
	}
	return messages, nil
}

// ListByConversation retrieves the viewer's messages in one conversation,
// oldest first for thread rendering.
func (r *messageRepository) ListByConversation(ctx context.Context, conversationID, viewer string) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.WithContext(ctx).
		Where("conversation_id = ? AND (sender_email = ? OR receiver_email = ?)", conversationID, viewer, viewer).
		Order("created_at ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", result.Error)
	}
	return messages, nil
}

// MarkRead marks a message as read. Marking an already-read message is a
// no-op that still succeeds, so retried mutations are safe.
func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark message as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from an already-read one.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to mark message as read: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// MarkConversationRead marks every unread message addressed to the
// receiver within a conversation as read. Returns the number of messages
// that changed state; zero is not an error.
func (r *messageRepository) MarkConversationRead(ctx context.Context, conversationID, receiver string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_email = ? AND read = ?", conversationID, receiver, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark conversation as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SetFlagged sets or clears the moderation flag on a message. Setting the
// field to its current value succeeds without effect.
func (r *messageRepository) SetFlagged(ctx context.Context, id uint, flagged bool) error {
	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("flagged", flagged)
	if result.Error != nil {
		return fmt.Errorf("failed to update message flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update message flag: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// CountUnread counts unread messages addressed to the receiver
func (r *messageRepository) CountUnread(ctx context.Context, receiver string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_email = ? AND read = ?", receiver, false).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}
	return count, nil
}

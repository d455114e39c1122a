package models

import (
	"time"
)

// Message represents a single message inside a two-party conversation
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"not null;size:512;index" json:"conversation_id"`
	SenderEmail    string    `gorm:"not null;size:255;index" json:"sender_email"`
	ReceiverEmail  string    `gorm:"not null;size:255;index" json:"receiver_email"`
	Body           string    `gorm:"not null" json:"body"`
	ItemID         *string   `gorm:"size:36" json:"item_id,omitempty"`
	Read           bool      `gorm:"default:false" json:"read"`
	Flagged        bool      `gorm:"default:false" json:"flagged"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// Involves reports whether the given identity is a participant of the message.
func (m Message) Involves(email string) bool {
	return m.SenderEmail == email || m.ReceiverEmail == email
}

// Counterpart returns the participant other than the given identity.
// If the identity is neither participant, the sender is returned.
func (m Message) Counterpart(email string) string {
	if m.SenderEmail == email {
		return m.ReceiverEmail
	}
	return m.SenderEmail
}

// CreateMessageRequest is the payload accepted when sending a message
type CreateMessageRequest struct {
	ConversationID string  `json:"conversation_id"`
	SenderEmail    string  `json:"sender_email"`
	ReceiverEmail  string  `json:"receiver_email"`
	Body           string  `json:"body"`
	ItemID         *string `json:"item_id,omitempty"`
}

// MessagePatch is a partial update for a message. Nil fields are left
// untouched; setting a field to its current value is a no-op.
type MessagePatch struct {
	Read    *bool `json:"read,omitempty"`
	Flagged *bool `json:"flagged,omitempty"`
}

package fixtures

import (
	"time"

	"github.com/edushare/edushare-backend/internal/conversation"
	"github.com/edushare/edushare-backend/internal/models"
)

// MessageBuilder creates test Message instances with fluent API
type MessageBuilder struct {
	message models.Message
}

// NewMessageBuilder creates a new MessageBuilder with sensible defaults
func NewMessageBuilder() *MessageBuilder {
	sender := "alice@example.com"
	receiver := "bob@example.com"
	return &MessageBuilder{
		message: models.Message{
			ID:             1,
			ConversationID: conversation.Key(sender, receiver),
			SenderEmail:    sender,
			ReceiverEmail:  receiver,
			Body:           "Is the geometry set still available?",
			CreatedAt:      time.Now(),
		},
	}
}

// WithID sets the message ID
func (b *MessageBuilder) WithID(id uint) *MessageBuilder {
	b.message.ID = id
	return b
}

// WithParticipants sets sender and receiver and rederives the conversation key
func (b *MessageBuilder) WithParticipants(sender, receiver string) *MessageBuilder {
	b.message.SenderEmail = sender
	b.message.ReceiverEmail = receiver
	b.message.ConversationID = conversation.Key(sender, receiver)
	return b
}

// WithConversationID overrides the conversation key
func (b *MessageBuilder) WithConversationID(id string) *MessageBuilder {
	b.message.ConversationID = id
	return b
}

// WithBody sets the message body
func (b *MessageBuilder) WithBody(body string) *MessageBuilder {
	b.message.Body = body
	return b
}

// WithItemID attaches an item reference
func (b *MessageBuilder) WithItemID(itemID string) *MessageBuilder {
	b.message.ItemID = &itemID
	return b
}

// WithRead sets the read state
func (b *MessageBuilder) WithRead(read bool) *MessageBuilder {
	b.message.Read = read
	return b
}

// WithFlagged sets the moderation flag
func (b *MessageBuilder) WithFlagged(flagged bool) *MessageBuilder {
	b.message.Flagged = flagged
	return b
}

// WithCreatedAt sets the created timestamp
func (b *MessageBuilder) WithCreatedAt(t time.Time) *MessageBuilder {
	b.message.CreatedAt = t
	return b
}

// Build returns the constructed Message
func (b *MessageBuilder) Build() *models.Message {
	return &b.message
}

// BuildValue returns the constructed Message as a value (not pointer)
func (b *MessageBuilder) BuildValue() models.Message {
	return b.message
}

// UserBuilder creates test User instances with fluent API
type UserBuilder struct {
	user models.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: models.User{
			ID:        1,
			Email:     "alice@example.com",
			FullName:  "Alice Wong",
			Role:      "user",
			CreatedAt: time.Now(),
		},
	}
}

// WithID sets the user ID
func (b *UserBuilder) WithID(id uint) *UserBuilder {
	b.user.ID = id
	return b
}

// WithEmail sets the email address
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithFullName sets the display name
func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.user.FullName = name
	return b
}

// WithRole sets the user role
func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.user.Role = role
	return b
}

// WithLocation sets the location
func (b *UserBuilder) WithLocation(location string) *UserBuilder {
	b.user.Location = location
	return b
}

// Build returns the constructed User
func (b *UserBuilder) Build() *models.User {
	return &b.user
}

// BuildValue returns the constructed User as a value (not pointer)
func (b *UserBuilder) BuildValue() models.User {
	return b.user
}

// ItemBuilder creates test Item instances with fluent API
type ItemBuilder struct {
	item models.Item
}

// NewItemBuilder creates a new ItemBuilder with sensible defaults
func NewItemBuilder() *ItemBuilder {
	now := time.Now()
	return &ItemBuilder{
		item: models.Item{
			ID:        "11111111-1111-1111-1111-111111111111",
			Name:      "Geometry set",
			Category:  "supplies",
			Condition: "good",
			Status:    models.ItemStatusAvailable,
			Approved:  true,
			CreatedBy: "alice@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the item ID
func (b *ItemBuilder) WithID(id string) *ItemBuilder {
	b.item.ID = id
	return b
}

// WithName sets the item name
func (b *ItemBuilder) WithName(name string) *ItemBuilder {
	b.item.Name = name
	return b
}

// WithCategory sets the category
func (b *ItemBuilder) WithCategory(category string) *ItemBuilder {
	b.item.Category = category
	return b
}

// WithStatus sets the lifecycle status
func (b *ItemBuilder) WithStatus(status string) *ItemBuilder {
	b.item.Status = status
	return b
}

// WithApproved sets the moderation approval
func (b *ItemBuilder) WithApproved(approved bool) *ItemBuilder {
	b.item.Approved = approved
	return b
}

// WithCreatedBy sets the listing owner
func (b *ItemBuilder) WithCreatedBy(email string) *ItemBuilder {
	b.item.CreatedBy = email
	return b
}

// Build returns the constructed Item
func (b *ItemBuilder) Build() *models.Item {
	return &b.item
}

// BuildValue returns the constructed Item as a value (not pointer)
func (b *ItemBuilder) BuildValue() models.Item {
	return b.item
}

// ConversationFixture builds a two-party thread of messages between the
// viewer and a counterpart, alternating direction, oldest first.
func ConversationFixture(viewer, counterpart string, bodies []string, start time.Time) []models.Message {
	key := conversation.Key(viewer, counterpart)
	messages := make([]models.Message, 0, len(bodies))
	for i, body := range bodies {
		sender, receiver := counterpart, viewer
		if i%2 == 1 {
			sender, receiver = viewer, counterpart
		}
		messages = append(messages, models.Message{
			ID:             uint(i + 1),
			ConversationID: key,
			SenderEmail:    sender,
			ReceiverEmail:  receiver,
			Body:           body,
			CreatedAt:      start.Add(time.Duration(i) * time.Minute),
		})
	}
	return messages
}

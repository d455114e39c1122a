package mocks

import (
	"sync"

	"github.com/edushare/edushare-backend/internal/websocket"
)

// NotificationRecord records a notification sent through the mock hub
type NotificationRecord struct {
	ConversationID string
	Payload        *websocket.NewMessagePayload
}

// MockBroadcaster records broadcast notifications instead of delivering
// them. It satisfies the handlers.Broadcaster interface.
type MockBroadcaster struct {
	mu            sync.Mutex
	Notifications []NotificationRecord
}

// NewMockBroadcaster creates a new MockBroadcaster instance
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{
		Notifications: make([]NotificationRecord, 0),
	}
}

// BroadcastNewMessage records a new message notification
func (m *MockBroadcaster) BroadcastNewMessage(conversationID string, payload *websocket.NewMessagePayload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, NotificationRecord{
		ConversationID: conversationID,
		Payload:        payload,
	})
}

// GetNotifications returns all recorded notifications
func (m *MockBroadcaster) GetNotifications() []NotificationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NotificationRecord(nil), m.Notifications...)
}

// ClearNotifications clears all recorded notifications
func (m *MockBroadcaster) ClearNotifications() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = make([]NotificationRecord, 0)
}

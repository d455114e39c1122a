package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypeNewMessage  MessageType = "new_message"
	MessageTypeError       MessageType = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type           MessageType `json:"type"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Message        interface{} `json:"message,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// NewMessagePayload represents the payload for new message notifications
type NewMessagePayload struct {
	ID            uint   `json:"id"`
	SenderEmail   string `json:"sender_email"`
	ReceiverEmail string `json:"receiver_email"`
	Body          string `json:"body,omitempty"`
	ItemID        string `json:"item_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Conversation subscriptions: conversation key -> set of clients
	subscriptions map[string]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Subscribe to conversation
	subscribe chan *subscriptionRequest

	// Unsubscribe from conversation
	unsubscribeConv chan *subscriptionRequest

	// Broadcast to conversation subscribers
	broadcast chan *broadcastMessage

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Logger
	logger *slog.Logger
}

type subscriptionRequest struct {
	client         *Client
	conversationID string
}

type broadcastMessage struct {
	conversationID string
	message        []byte
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		subscriptions:   make(map[string]map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		subscribe:       make(chan *subscriptionRequest),
		unsubscribeConv: make(chan *subscriptionRequest),
		broadcast:       make(chan *broadcastMessage, 256),
		logger:          logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered")
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				// Remove from all subscriptions
				for conversationID, subscribers := range h.subscriptions {
					delete(subscribers, client)
					if len(subscribers) == 0 {
						delete(h.subscriptions, conversationID)
					}
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unregistered")
			}

		case req := <-h.subscribe:
			h.mu.Lock()
			if h.subscriptions[req.conversationID] == nil {
				h.subscriptions[req.conversationID] = make(map[*Client]bool)
			}
			h.subscriptions[req.conversationID][req.client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client subscribed to conversation", slog.String("conversation_id", req.conversationID))
			}

		case req := <-h.unsubscribeConv:
			h.mu.Lock()
			if subscribers, ok := h.subscriptions[req.conversationID]; ok {
				delete(subscribers, req.client)
				if len(subscribers) == 0 {
					delete(h.subscriptions, req.conversationID)
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unsubscribed from conversation", slog.String("conversation_id", req.conversationID))
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			subscribers := h.subscriptions[msg.conversationID]
			for client := range subscribers {
				select {
				case client.send <- msg.message:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe subscribes a client to a conversation
func (h *Hub) Subscribe(client *Client, conversationID string) {
	h.subscribe <- &subscriptionRequest{client: client, conversationID: conversationID}
}

// Unsubscribe unsubscribes a client from a conversation
func (h *Hub) Unsubscribe(client *Client, conversationID string) {
	h.unsubscribeConv <- &subscriptionRequest{client: client, conversationID: conversationID}
}

// BroadcastNewMessage broadcasts a new message notification to conversation subscribers
func (h *Hub) BroadcastNewMessage(conversationID string, payload *NewMessagePayload) {
	msg := WSMessage{
		Type:           MessageTypeNewMessage,
		ConversationID: conversationID,
		Message:        payload,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal broadcast message", slog.Any("error", err))
		}
		return
	}

	h.broadcast <- &broadcastMessage{
		conversationID: conversationID,
		message:        data,
	}
}

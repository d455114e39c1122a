// Package edushare provides a Go client for the EduShare messaging API,
// including the refresh machinery an interactive frontend needs: a
// query cache, a polling subscription, and a read-state reconciler.
package edushare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every API request.
const DefaultTimeout = 30 * time.Second

// DefaultCacheTTL is how long cached query results stay fresh. It
// matches the poll interval so a polling subscription always refetches.
const DefaultCacheTTL = DefaultPollInterval

// Message is a message record as returned by the API.
type Message struct {
	ID             uint      `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderEmail    string    `json:"sender_email"`
	ReceiverEmail  string    `json:"receiver_email"`
	Body           string    `json:"body"`
	ItemID         *string   `json:"item_id,omitempty"`
	Read           bool      `json:"read"`
	Flagged        bool      `json:"flagged"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is one aggregated conversation in the viewer's list.
type Conversation struct {
	ID               string    `json:"id"`
	CounterpartEmail string    `json:"counterpart_email"`
	Messages         []Message `json:"messages"`
	LastMessage      Message   `json:"last_message"`
	UnreadCount      int       `json:"unread_count"`
}

// ConversationList is the aggregated conversation view for one viewer.
type ConversationList struct {
	Conversations []Conversation `json:"conversations"`
	TotalUnread   int64          `json:"total_unread"`
}

// Thread is one conversation's messages, oldest first.
type Thread struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
	MarkedRead     int64     `json:"marked_read"`
}

// SendMessageRequest is the payload for sending a message. The
// conversation key is derived server-side when left empty.
type SendMessageRequest struct {
	ConversationID string  `json:"conversation_id,omitempty"`
	SenderEmail    string  `json:"sender_email"`
	ReceiverEmail  string  `json:"receiver_email"`
	Body           string  `json:"body"`
	ItemID         *string `json:"item_id,omitempty"`
}

type messagePatch struct {
	Flagged *bool `json:"flagged,omitempty"`
}

// Client is an EduShare API client. Query results are served through
// Cache; every mutation invalidates the affected cached queries so the
// next read refetches.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Cache      *Cache
}

// NewClient creates a new Client for the given base URL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Cache:      NewCache(DefaultCacheTTL),
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// doRequest performs an HTTP request and decodes the response envelope.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Code,
			Message:    env.Error,
		}
	}

	return &env, nil
}

const conversationsKeyPrefix = "conversations:"

func conversationsKey(viewer, query string) string {
	return conversationsKeyPrefix + viewer + ":" + query
}

// invalidateViewer drops every cached conversation view for one
// participant, forcing the next read to refetch.
func (c *Client) invalidateViewer(viewer string) {
	if c.Cache != nil {
		c.Cache.InvalidatePrefix(conversationsKeyPrefix + viewer)
	}
}

// Conversations retrieves the viewer's conversation list, optionally
// filtered by a search query. Results are cached per viewer and query
// until a mutation invalidates them or the cache TTL passes.
func (c *Client) Conversations(ctx context.Context, viewer, query string) (*ConversationList, error) {
	key := conversationsKey(viewer, query)
	if c.Cache != nil {
		if cached, ok := c.Cache.Get(key); ok {
			return cached.(*ConversationList), nil
		}
	}

	path := "/api/conversations?viewer=" + url.QueryEscape(viewer)
	if query != "" {
		path += "&q=" + url.QueryEscape(query)
	}

	env, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list ConversationList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	if c.Cache != nil {
		c.Cache.Set(key, &list)
	}
	return &list, nil
}

// Thread retrieves one conversation's messages for the viewer. Opening a
// thread marks its unread messages as read on the server, so the
// viewer's cached conversation list is invalidated. The thread itself
// is never cached.
func (c *Client) Thread(ctx context.Context, conversationID, viewer string) (*Thread, error) {
	path := "/api/conversations/" + url.PathEscape(conversationID) + "/messages?viewer=" + url.QueryEscape(viewer)

	env, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var thread Thread
	if err := json.Unmarshal(env.Data, &thread); err != nil {
		return nil, fmt.Errorf("decode thread: %w", err)
	}
	if thread.MarkedRead > 0 {
		c.invalidateViewer(viewer)
	}
	return &thread, nil
}

// SendMessage sends a new message and invalidates both participants'
// cached conversation views.
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*Message, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	env, err := c.doRequest(ctx, http.MethodPost, "/api/messages", body)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	c.invalidateViewer(req.SenderEmail)
	c.invalidateViewer(req.ReceiverEmail)
	return &msg, nil
}

// MarkRead marks a single message as read. Marking an already-read
// message succeeds without effect. Unread counts change, so all cached
// queries are dropped; the message carries no viewer to scope it to.
func (c *Client) MarkRead(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/messages/%d/read", id)
	if _, err := c.doRequest(ctx, http.MethodPatch, path, nil); err != nil {
		return err
	}
	if c.Cache != nil {
		c.Cache.Clear()
	}
	return nil
}

// Flag sets or clears the moderation flag on a message.
func (c *Client) Flag(ctx context.Context, id uint, flagged bool) error {
	body, err := json.Marshal(messagePatch{Flagged: &flagged})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/messages/%d/flag", id)
	if _, err := c.doRequest(ctx, http.MethodPatch, path, body); err != nil {
		return err
	}
	if c.Cache != nil {
		c.Cache.Clear()
	}
	return nil
}

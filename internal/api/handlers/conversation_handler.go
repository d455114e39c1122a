package handlers

import (
	"errors"

	"github.com/edushare/edushare-backend/internal/api/response"
	"github.com/edushare/edushare-backend/internal/conversation"
	"github.com/edushare/edushare-backend/internal/models"
	"github.com/edushare/edushare-backend/internal/repository"
	"github.com/edushare/edushare-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// ConversationHandler serves the derived conversation views. Conversations
// are never stored; each request rebuilds them from the viewer's messages.
type ConversationHandler struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *ConversationHandler {
	return &ConversationHandler{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// ConversationListResponse is the payload for the conversation list view.
type ConversationListResponse struct {
	Conversations []conversation.Conversation `json:"conversations"`
	TotalUnread   int64                       `json:"total_unread"`
}

// ThreadResponse is the payload for a single conversation thread.
type ThreadResponse struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []models.Message `json:"messages"`
	MarkedRead     int64            `json:"marked_read"`
}

// List handles GET /api/conversations?viewer=&q=
func (h *ConversationHandler) List(c echo.Context) error {
	viewer := c.QueryParam("viewer")
	if err := validator.ValidateEmail(viewer); err != nil {
		return response.BadRequest(c, "invalid viewer: "+err.Error())
	}

	ctx := c.Request().Context()

	messages, err := h.messageRepo.ListVisibleTo(ctx, viewer)
	if err != nil {
		return response.InternalError(c, "failed to list messages")
	}

	convs := conversation.Aggregate(messages, viewer)

	if query := c.QueryParam("q"); query != "" {
		// Display names resolve lazily per counterpart; unknown
		// counterparts fall back to their email address.
		names := make(map[string]string)
		resolve := func(email string) string {
			if name, ok := names[email]; ok {
				return name
			}
			name := email
			if user, err := h.userRepo.GetByEmail(ctx, email); err == nil && user.FullName != "" {
				name = user.FullName
			}
			names[email] = name
			return name
		}
		convs = conversation.Filter(convs, query, resolve)
	}

	totalUnread, err := h.messageRepo.CountUnread(ctx, viewer)
	if err != nil {
		return response.InternalError(c, "failed to count unread messages")
	}

	if convs == nil {
		convs = []conversation.Conversation{}
	}

	return response.Success(c, ConversationListResponse{
		Conversations: convs,
		TotalUnread:   totalUnread,
	})
}

// Messages handles GET /api/conversations/:id/messages?viewer=
//
// Opening a thread marks every message addressed to the viewer in that
// conversation as read, mirroring how the inbox clears its badge the
// moment the thread is displayed.
func (h *ConversationHandler) Messages(c echo.Context) error {
	conversationID := c.Param("id")
	if err := validator.ValidateConversationID(conversationID); err != nil {
		return response.BadRequest(c, err.Error())
	}

	viewer := c.QueryParam("viewer")
	if err := validator.ValidateEmail(viewer); err != nil {
		return response.BadRequest(c, "invalid viewer: "+err.Error())
	}

	ctx := c.Request().Context()

	messages, err := h.messageRepo.ListByConversation(ctx, conversationID, viewer)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "conversation not found")
		}
		return response.InternalError(c, "failed to list conversation messages")
	}

	marked, err := h.messageRepo.MarkConversationRead(ctx, conversationID, viewer)
	if err != nil {
		return response.InternalError(c, "failed to mark conversation as read")
	}

	// Reflect the mark-read in the returned thread so the client does not
	// need a second fetch to see consistent state.
	if marked > 0 {
		for i := range messages {
			if messages[i].ReceiverEmail == viewer {
				messages[i].Read = true
			}
		}
	}

	return response.Success(c, ThreadResponse{
		ConversationID: conversationID,
		Messages:       messages,
		MarkedRead:     marked,
	})
}

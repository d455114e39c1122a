package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/edushare/edushare-backend/internal/api/response"
	"github.com/edushare/edushare-backend/internal/conversation"
	"github.com/edushare/edushare-backend/internal/models"
	"github.com/edushare/edushare-backend/internal/repository"
	"github.com/edushare/edushare-backend/internal/validator"
	ws "github.com/edushare/edushare-backend/internal/websocket"
	"github.com/labstack/echo/v4"
)

// Broadcaster pushes new-message notifications to subscribed clients.
type Broadcaster interface {
	BroadcastNewMessage(conversationID string, payload *ws.NewMessagePayload)
}

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageRepo     repository.MessageRepository
	userRepo        repository.UserRepository
	hub             Broadcaster
	autoCreateUsers bool
}

// NewMessageHandler creates a new MessageHandler. The hub may be nil when
// real-time notifications are disabled.
func NewMessageHandler(messageRepo repository.MessageRepository, userRepo repository.UserRepository, hub Broadcaster, autoCreateUsers bool) *MessageHandler {
	return &MessageHandler{
		messageRepo:     messageRepo,
		userRepo:        userRepo,
		hub:             hub,
		autoCreateUsers: autoCreateUsers,
	}
}

// List handles GET /api/messages?viewer=
func (h *MessageHandler) List(c echo.Context) error {
	viewer := c.QueryParam("viewer")
	if err := validator.ValidateEmail(viewer); err != nil {
		return response.BadRequest(c, "invalid viewer: "+err.Error())
	}

	messages, err := h.messageRepo.ListVisibleTo(c.Request().Context(), viewer)
	if err != nil {
		return response.InternalError(c, "failed to list messages")
	}

	return response.Success(c, messages)
}

// Get handles GET /api/messages/:id
func (h *MessageHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	message, err := h.messageRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "message not found")
		}
		return response.InternalError(c, "failed to get message")
	}

	return response.Success(c, message)
}

// Create handles POST /api/messages
func (h *MessageHandler) Create(c echo.Context) error {
	var req models.CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validator.ValidateParticipants(req.SenderEmail, req.ReceiverEmail); err != nil {
		return response.BadRequest(c, err.Error())
	}
	if err := validator.ValidateMessageBody(req.Body); err != nil {
		return response.BadRequest(c, err.Error())
	}

	// The conversation key is derived server-side when the client omits it.
	// A client-supplied key is kept as-is: keys are opaque identifiers.
	if req.ConversationID == "" {
		req.ConversationID = conversation.Key(req.SenderEmail, req.ReceiverEmail)
	} else if err := validator.ValidateConversationID(req.ConversationID); err != nil {
		return response.BadRequest(c, err.Error())
	}

	ctx := c.Request().Context()

	if h.autoCreateUsers {
		if _, _, err := h.userRepo.GetOrCreate(ctx, req.SenderEmail); err != nil {
			return response.InternalError(c, "failed to resolve sender")
		}
		if _, _, err := h.userRepo.GetOrCreate(ctx, req.ReceiverEmail); err != nil {
			return response.InternalError(c, "failed to resolve receiver")
		}
	}

	message := &models.Message{
		ConversationID: req.ConversationID,
		SenderEmail:    req.SenderEmail,
		ReceiverEmail:  req.ReceiverEmail,
		Body:           req.Body,
		ItemID:         req.ItemID,
	}

	if err := h.messageRepo.Create(ctx, message); err != nil {
		return response.InternalError(c, "failed to create message")
	}

	if h.hub != nil {
		payload := &ws.NewMessagePayload{
			ID:            message.ID,
			SenderEmail:   message.SenderEmail,
			ReceiverEmail: message.ReceiverEmail,
			Body:          message.Body,
			CreatedAt:     message.CreatedAt.Format(time.RFC3339),
		}
		if message.ItemID != nil {
			payload.ItemID = *message.ItemID
		}
		h.hub.BroadcastNewMessage(message.ConversationID, payload)
	}

	return response.Created(c, message)
}

// MarkRead handles PATCH /api/messages/:id/read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	if err := h.messageRepo.MarkRead(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "message not found")
		}
		return response.InternalError(c, "failed to mark message as read")
	}

	return response.SuccessWithMessage(c, nil, "message marked as read")
}

// Flag handles PATCH /api/messages/:id/flag
func (h *MessageHandler) Flag(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	var patch models.MessagePatch
	if err := c.Bind(&patch); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	flagged := true
	if patch.Flagged != nil {
		flagged = *patch.Flagged
	}

	if err := h.messageRepo.SetFlagged(c.Request().Context(), uint(id), flagged); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "message not found")
		}
		return response.InternalError(c, "failed to update message flag")
	}

	return response.SuccessWithMessage(c, nil, "message flag updated")
}

// Package handler provides the HTTP handlers for the chat relay.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_backend/internal/feature/chat"
	"social_backend/internal/feature/user/domain/entity"
	userusecase "social_backend/internal/feature/user/usecase"
	"social_backend/internal/platform/token"
)

// Relay is the pub/sub pairing the transport layer drives.
type Relay interface {
	Publish(ctx context.Context, msg chat.Message) error
	Subscribe(ctx context.Context, a, b string) (<-chan chat.Message, func(), error)
}

// UserSource resolves chat participants.
type UserSource interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// sendReq is the body of a published chat message.
type sendReq struct {
	Body string `json:"body" binding:"required"`
}

// ChatHandler relays messages between an authenticated user and a named
// peer. Messages are not persisted; the stream only carries what is
// published while it is open.
type ChatHandler struct {
	relay Relay
	users UserSource
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(relay Relay, users UserSource) *ChatHandler {
	return &ChatHandler{relay: relay, users: users}
}

// participants resolves the authenticated sender and the named peer.
func (h *ChatHandler) participants(c *gin.Context) (self *entity.User, peer *entity.User, ok bool) {
	self, err := h.users.FindByID(c.Request.Context(), token.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return nil, nil, false
	}
	peer, err = h.users.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, userusecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "other user does not exist"})
		} else {
			slog.Error("failed to resolve chat peer", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return nil, nil, false
	}
	return self, peer, true
}

// Send handles POST /chat/:username/messages.
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	self, peer, ok := h.participants(c)
	if !ok {
		return
	}

	msg := chat.Message{From: self.Username, To: peer.Username, Body: req.Body}
	if err := h.relay.Publish(c.Request.Context(), msg); err != nil {
		if errors.Is(err, chat.ErrRelayUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is unavailable"})
			return
		}
		slog.Error("failed to publish chat message", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sent", "jwt": token.Rotated(c)})
}

// Stream handles GET /chat/:username/stream. It subscribes to the pair's
// channel and forwards messages as server-sent events until the client
// disconnects.
func (h *ChatHandler) Stream(c *gin.Context) {
	self, peer, ok := h.participants(c)
	if !ok {
		return
	}

	msgs, closeFn, err := h.relay.Subscribe(c.Request.Context(), self.Username, peer.Username)
	if err != nil {
		if errors.Is(err, chat.ErrRelayUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is unavailable"})
			return
		}
		slog.Error("failed to subscribe to chat", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer closeFn()

	slog.Info("chat stream opened", "room", chat.RoomID(self.Username, peer.Username))

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-msgs:
			if !open {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Package handler provides the HTTP handlers for the friend feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_backend/internal/feature/friend/usecase"
	"social_backend/internal/feature/user/domain/entity"
	"social_backend/internal/platform/token"
)

// FriendUsecase defines the relationship state machine operations the
// transport layer invokes. The interface is defined by the consumer.
type FriendUsecase interface {
	Request(ctx context.Context, selfID, otherUsername string) error
	Accept(ctx context.Context, selfID, otherUsername string) error
	Reject(ctx context.Context, selfID, otherUsername string) error
	Unfriend(ctx context.Context, selfID, otherUsername string) error
	Friends(ctx context.Context, selfID string) (entity.IDList, error)
	Requested(ctx context.Context, selfID string) (entity.IDList, error)
	Received(ctx context.Context, selfID string) (entity.IDList, error)
}

// FriendHandler handles HTTP requests for the friend-request lifecycle.
// All routes sit behind the session middleware: the acting user comes
// from the verified token, the other user from the path parameter.
type FriendHandler struct {
	friends FriendUsecase
}

// NewFriendHandler creates a new FriendHandler instance.
func NewFriendHandler(friends FriendUsecase) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// respondError maps state machine errors to HTTP status codes:
// unknown users are 404, guard violations are 409, the rest 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrSelfRelation),
		errors.Is(err, usecase.ErrAlreadyRequested),
		errors.Is(err, usecase.ErrAlreadyFriends),
		errors.Is(err, usecase.ErrNoPendingRequest),
		errors.Is(err, usecase.ErrNotFriends):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("friend operation failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Request handles POST /friends/add/:username.
func (h *FriendHandler) Request(c *gin.Context) {
	other := c.Param("username")
	if err := h.friends.Request(c.Request.Context(), token.UserID(c), other); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("friend request sent", "from", token.UserID(c), "to", other)
	c.JSON(http.StatusOK, gin.H{
		"message": "Friend request sent successfully",
		"jwt":     token.Rotated(c),
	})
}

// Accept handles PUT /friends/accept/:username.
func (h *FriendHandler) Accept(c *gin.Context) {
	other := c.Param("username")
	if err := h.friends.Accept(c.Request.Context(), token.UserID(c), other); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("friend request accepted", "by", token.UserID(c), "from", other)
	c.JSON(http.StatusOK, gin.H{
		"message": "Friend request accepted successfully",
		"jwt":     token.Rotated(c),
	})
}

// Reject handles DELETE /friends/reject/:username.
func (h *FriendHandler) Reject(c *gin.Context) {
	other := c.Param("username")
	if err := h.friends.Reject(c.Request.Context(), token.UserID(c), other); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("friend request rejected", "by", token.UserID(c), "from", other)
	c.JSON(http.StatusOK, gin.H{
		"message": "Friend request rejected successfully",
		"jwt":     token.Rotated(c),
	})
}

// Unfriend handles DELETE /friends/:username.
func (h *FriendHandler) Unfriend(c *gin.Context) {
	other := c.Param("username")
	if err := h.friends.Unfriend(c.Request.Context(), token.UserID(c), other); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("friend removed", "by", token.UserID(c), "friend", other)
	c.JSON(http.StatusOK, gin.H{
		"message": "Friend deleted successfully",
		"jwt":     token.Rotated(c),
	})
}

// Friends handles GET /friends/.
func (h *FriendHandler) Friends(c *gin.Context) {
	list, err := h.friends.Friends(c.Request.Context(), token.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = entity.IDList{}
	}
	c.JSON(http.StatusOK, gin.H{"friends": list, "jwt": token.Rotated(c)})
}

// Requested handles GET /friends/requested.
func (h *FriendHandler) Requested(c *gin.Context) {
	list, err := h.friends.Requested(c.Request.Context(), token.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = entity.IDList{}
	}
	c.JSON(http.StatusOK, gin.H{"requestedFriends": list, "jwt": token.Rotated(c)})
}

// Received handles GET /friends/received.
func (h *FriendHandler) Received(c *gin.Context) {
	list, err := h.friends.Received(c.Request.Context(), token.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = entity.IDList{}
	}
	c.JSON(http.StatusOK, gin.H{"receivedFriends": list, "jwt": token.Rotated(c)})
}

package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"operator/models"
	"operator/repository"
)

type AdminMessagesHandler struct {
	chats repository.ChatRepository
}

func NewAdminMessagesHandler(repos *repository.Repositories) *AdminMessagesHandler {
	return &AdminMessagesHandler{chats: repos.Chats}
}

// flatMessage is a message denormalized out of its parent chat for the
// admin view.
type flatMessage struct {
	models.Message
	ChatTitle string    `json:"chat_title"`
	UserID    uuid.UUID `json:"user_id"`
}

type adminUpdateMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Role    string `json:"role"`
	Status  string `json:"status"`
}

// List flattens every chat's messages into one collection, annotated with
// the parent chat and owning user, newest first. Supports ?role= and
// ?search= filters.
func (h *AdminMessagesHandler) List(c *gin.Context) {
	roleFilter := c.Query("role")
	search := strings.ToLower(c.Query("search"))

	chats, err := h.chats.ListAllWithMessages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	flat := make([]flatMessage, 0)
	for _, chat := range chats {
		for _, msg := range chat.Messages {
			if roleFilter != "" && roleFilter != "all" && msg.Role != roleFilter {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(msg.Content), search) {
				continue
			}
			flat = append(flat, flatMessage{
				Message:   msg,
				ChatTitle: chat.Title,
				UserID:    chat.UserID,
			})
		}
	}

	sort.Slice(flat, func(i, j int) bool {
		return flat[i].CreatedAt.After(flat[j].CreatedAt)
	})

	c.JSON(http.StatusOK, flat)
}

// Update edits a message in place; the change lands back inside the
// parent chat's message list.
func (h *AdminMessagesHandler) Update(c *gin.Context) {
	msgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}

	var req adminUpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	msg, err := h.chats.GetMessage(msgID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	msg.Content = req.Content
	switch req.Role {
	case models.RoleMessageUser, models.RoleMessageAssistant, models.RoleMessageSystem:
		msg.Role = req.Role
	}
	switch req.Status {
	case models.StatusExecuting, models.StatusComplete, models.StatusDenied:
		msg.Status = req.Status
	}

	if err := h.chats.UpdateMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message"})
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (h *AdminMessagesHandler) Delete(c *gin.Context) {
	msgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}

	if _, err := h.chats.GetMessage(msgID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if err := h.chats.DeleteMessage(msgID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

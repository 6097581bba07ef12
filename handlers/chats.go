package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"operator/config"
	"operator/models"
	"operator/repository"
	"operator/services"
)

type ChatHandler struct {
	cfg       *config.Config
	chats     repository.ChatRepository
	settings  repository.SettingsRepository
	responder *services.Responder
	publisher *services.Publisher
}

func NewChatHandler(cfg *config.Config, repos *repository.Repositories, responder *services.Responder, publisher *services.Publisher) *ChatHandler {
	return &ChatHandler{
		cfg:       cfg,
		chats:     repos.Chats,
		settings:  repos.Settings,
		responder: responder,
		publisher: publisher,
	}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// List returns the user's chats, most recently created first.
func (h *ChatHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	chats, err := h.chats.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chats"})
		return
	}

	var currentChatID *uuid.UUID
	if s, err := h.settings.Get(userID); err == nil {
		currentChatID = s.CurrentChatID
	}

	c.JSON(http.StatusOK, gin.H{
		"chats":           chats,
		"current_chat_id": currentChatID,
	})
}

// Create starts a fresh "New chat" and makes it the user's current chat.
func (h *ChatHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	chat, err := h.newCurrentChat(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}

	h.publisher.Publish(userID, "chat", "created", chat.ID.String())
	c.JSON(http.StatusCreated, chat)
}

// Get loads a chat with its messages in insertion order and marks it as
// the current chat.
func (h *ChatHandler) Get(c *gin.Context) {
	userID := currentUserID(c)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat id"})
		return
	}

	chat, err := h.chats.Get(chatID, userID)
	if err != nil {
		// Unknown chat: the client falls back to an empty message list.
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		return
	}

	if s, err := h.settings.Get(userID); err == nil && (s.CurrentChatID == nil || *s.CurrentChatID != chat.ID) {
		s.CurrentChatID = &chat.ID
		h.settings.Save(s)
	}

	c.JSON(http.StatusOK, chat)
}

// Delete removes a chat. Deleting the current chat immediately creates and
// activates a replacement so the client is never left without one.
func (h *ChatHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat id"})
		return
	}

	deleted, err := h.chats.Delete(chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chat"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		return
	}

	h.publisher.Publish(userID, "chat", "deleted", chatID.String())

	s, err := h.settings.Get(userID)
	if err == nil && s.CurrentChatID != nil && *s.CurrentChatID == chatID {
		replacement, err := h.newCurrentChat(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
			return
		}
		h.publisher.Publish(userID, "chat", "created", replacement.ID.String())
		c.JSON(http.StatusOK, gin.H{
			"message":      "Chat deleted",
			"current_chat": replacement,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted"})
}

// SendMessage appends the user message, runs the simulated model call and
// appends its reply. The simulated call is tied to the request context:
// when the client goes away the pending reply is dropped.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := currentUserID(c)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat id"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s, err := h.settings.Get(userID)
	if err != nil || s.APIKey == "" {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Please set your API key in API Settings to start chatting."})
		return
	}

	chat, err := h.chats.Get(chatID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		return
	}

	userMsg := models.Message{
		Content: req.Content,
		Role:    models.RoleMessageUser,
	}
	if err := h.chats.AppendMessage(chat.ID, &userMsg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	reply, err := h.responder.Respond(c.Request.Context(), req.Content)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away mid-wait; nothing more to write.
			return
		}
		errMsg := models.Message{
			Content: services.ErrorReplyContent,
			Role:    models.RoleMessageSystem,
		}
		if err := h.chats.AppendMessage(chat.ID, &errMsg); err != nil {
			log.Printf("[Chat] Failed to save error message: %v", err)
		}
		h.publisher.Publish(userID, "chat", "updated", chat.ID.String())
		c.JSON(http.StatusOK, gin.H{
			"messages": []models.Message{userMsg, errMsg},
			"chat":     gin.H{"id": chat.ID, "title": chat.Title},
		})
		return
	}

	replyMsg := models.Message{
		Content:     reply.Content,
		Role:        models.RoleMessageAssistant,
		ShowPreview: reply.ShowPreview,
	}
	if reply.CodeBlocks != nil {
		raw, _ := json.Marshal(reply.CodeBlocks)
		replyMsg.CodeBlocks = datatypes.JSON(raw)
	}
	if err := h.chats.AppendMessage(chat.ID, &replyMsg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	// Auto-title from the first user message, once, when the first reply
	// lands.
	title := chat.Title
	if title == models.DefaultChatTitle {
		title = truncateTitle(req.Content)
		if err := h.chats.SetTitle(chat.ID, title); err != nil {
			log.Printf("[Chat] Failed to update title: %v", err)
			title = chat.Title
		}
	}

	h.publisher.Publish(userID, "chat", "updated", chat.ID.String())

	c.JSON(http.StatusOK, gin.H{
		"messages": []models.Message{userMsg, replyMsg},
		"chat":     gin.H{"id": chat.ID, "title": title},
	})
}

func (h *ChatHandler) newCurrentChat(userID uuid.UUID) (*models.Chat, error) {
	chat := models.Chat{
		UserID: userID,
		Title:  models.DefaultChatTitle,
	}
	if err := h.chats.Create(&chat); err != nil {
		return nil, err
	}

	s, err := h.settings.Get(userID)
	if err != nil {
		return nil, err
	}
	s.CurrentChatID = &chat.ID
	if err := h.settings.Save(s); err != nil {
		return nil, err
	}

	return &chat, nil
}

// truncateTitle keeps the first 30 characters of the message, appending an
// ellipsis when the content is longer.
func truncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= 30 {
		return content
	}
	return string(runes[:30]) + "..."
}

func currentUserID(c *gin.Context) uuid.UUID {
	userID, _ := c.Get("user_id")
	return userID.(uuid.UUID)
}

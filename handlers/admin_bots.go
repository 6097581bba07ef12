package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"operator/models"
	"operator/repository"
)

type AdminBotsHandler struct {
	bots repository.BotRepository
}

func NewAdminBotsHandler(repos *repository.Repositories) *AdminBotsHandler {
	return &AdminBotsHandler{bots: repos.Bots}
}

type botRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Model        string `json:"model" binding:"required"`
	SystemPrompt string `json:"system_prompt" binding:"required"`
	IsActive     *bool  `json:"is_active"`
}

func (h *AdminBotsHandler) List(c *gin.Context) {
	bots, err := h.bots.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bots"})
		return
	}
	c.JSON(http.StatusOK, bots)
}

func (h *AdminBotsHandler) Create(c *gin.Context) {
	var req botRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, model and system prompt are required"})
		return
	}

	bot := models.Bot{
		Name:         req.Name,
		Description:  req.Description,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		IsActive:     true,
	}
	if req.IsActive != nil {
		bot.IsActive = *req.IsActive
	}

	if err := h.bots.Create(&bot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bot"})
		return
	}

	c.JSON(http.StatusCreated, bot)
}

func (h *AdminBotsHandler) Update(c *gin.Context) {
	botID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot id"})
		return
	}

	var req botRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, model and system prompt are required"})
		return
	}

	bot, err := h.bots.Get(botID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		return
	}

	bot.Name = req.Name
	bot.Description = req.Description
	bot.Model = req.Model
	bot.SystemPrompt = req.SystemPrompt
	if req.IsActive != nil {
		bot.IsActive = *req.IsActive
	}

	if err := h.bots.Update(bot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bot"})
		return
	}

	c.JSON(http.StatusOK, bot)
}

func (h *AdminBotsHandler) Delete(c *gin.Context) {
	botID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot id"})
		return
	}

	deleted, err := h.bots.Delete(botID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bot"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bot deleted"})
}

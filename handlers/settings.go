package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"operator/config"
	"operator/repository"
	"operator/services"
)

type SettingsHandler struct {
	cfg       *config.Config
	settings  repository.SettingsRepository
	publisher *services.Publisher
}

func NewSettingsHandler(cfg *config.Config, repos *repository.Repositories, publisher *services.Publisher) *SettingsHandler {
	return &SettingsHandler{cfg: cfg, settings: repos.Settings, publisher: publisher}
}

type updateSettingsRequest struct {
	APIKey string `json:"api_key" binding:"required"`
	APIURL string `json:"api_url"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID := currentUserID(c)

	s, err := h.settings.Get(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	apiURL := s.APIURL
	if apiURL == "" {
		apiURL = h.cfg.DefaultAPIURL
	}

	c.JSON(http.StatusOK, gin.H{
		"api_key":         s.APIKey,
		"api_url":         apiURL,
		"selected_model":  s.SelectedModel,
		"current_chat_id": s.CurrentChatID,
	})
}

// Update stores the active key/url pair for the session.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := currentUserID(c)

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "API key is required"})
		return
	}

	s, err := h.settings.Get(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	s.APIKey = req.APIKey
	s.APIURL = req.APIURL
	if s.APIURL == "" {
		s.APIURL = h.cfg.DefaultAPIURL
	}
	if err := h.settings.Save(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	h.publisher.Publish(userID, "settings", "updated", userID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}

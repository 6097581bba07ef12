package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"operator/models"
	"operator/repository"
	"operator/services"
)

type ModelsHandler struct {
	registry  *services.ModelRegistry
	custom    repository.ModelRepository
	settings  repository.SettingsRepository
	publisher *services.Publisher
}

func NewModelsHandler(registry *services.ModelRegistry, repos *repository.Repositories, publisher *services.Publisher) *ModelsHandler {
	return &ModelsHandler{
		registry:  registry,
		custom:    repos.Models,
		settings:  repos.Settings,
		publisher: publisher,
	}
}

type addModelRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type selectModelRequest struct {
	ID string `json:"id" binding:"required"`
}

// List returns the combined fetched + custom pools and the current
// selection. When nothing is selected and the combined list is non-empty,
// the first entry is selected automatically.
func (h *ModelsHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	combined, err := h.combined(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load models"})
		return
	}

	s, err := h.settings.Get(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load models"})
		return
	}

	if s.SelectedModel == "" && len(combined) > 0 {
		s.SelectedModel = combined[0].ID
		h.settings.Save(s)
	}

	custom, err := h.custom.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load models"})
		return
	}
	customOut := make([]models.Model, 0, len(custom))
	for _, m := range custom {
		customOut = append(customOut, m.Descriptor())
	}

	c.JSON(http.StatusOK, gin.H{
		"fetched":  h.registry.Fetched(),
		"custom":   customOut,
		"selected": s.SelectedModel,
	})
}

// Refresh simulates fetching the provider model list. An API key must be
// configured even though no request leaves the process.
func (h *ModelsHandler) Refresh(c *gin.Context) {
	userID := currentUserID(c)

	s, err := h.settings.Get(userID)
	if err != nil || s.APIKey == "" || s.APIURL == "" {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Failed to fetch models. Please check your API key and URL."})
		return
	}

	fetched, err := h.registry.Refresh(c.Request.Context())
	if err != nil {
		// Cancelled mid-delay; the client is gone.
		return
	}

	if s.SelectedModel == "" && len(fetched) > 0 {
		s.SelectedModel = fetched[0].ID
		h.settings.Save(s)
	}

	c.JSON(http.StatusOK, gin.H{"fetched": fetched, "selected": s.SelectedModel})
}

// AddCustom appends a model to the user's persisted custom pool.
func (h *ModelsHandler) AddCustom(c *gin.Context) {
	userID := currentUserID(c)

	var req addModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model ID and name are required"})
		return
	}

	exists, err := h.custom.Exists(req.ID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add model"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Model already exists"})
		return
	}

	description := req.Description
	if description == "" {
		description = "Custom model"
	}

	m := models.CustomModel{
		ModelID:     req.ID,
		UserID:      userID,
		Name:        req.Name,
		Description: description,
	}
	if err := h.custom.Create(&m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add model"})
		return
	}

	h.publisher.Publish(userID, "custom_models", "created", m.ModelID)
	c.JSON(http.StatusCreated, m.Descriptor())
}

// RemoveCustom deletes a custom model. When the removed model was
// selected, selection falls back to the first remaining entry across both
// pools, or is cleared when none remain.
func (h *ModelsHandler) RemoveCustom(c *gin.Context) {
	userID := currentUserID(c)
	modelID := c.Param("id")

	removed, err := h.custom.Delete(modelID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove model"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}

	selected := ""
	if s, err := h.settings.Get(userID); err == nil {
		if s.SelectedModel == modelID {
			remaining, err := h.combined(userID)
			if err == nil && len(remaining) > 0 {
				s.SelectedModel = remaining[0].ID
			} else {
				s.SelectedModel = ""
			}
			h.settings.Save(s)
		}
		selected = s.SelectedModel
	}

	h.publisher.Publish(userID, "custom_models", "deleted", modelID)
	c.JSON(http.StatusOK, gin.H{"message": "Model removed", "selected": selected})
}

func (h *ModelsHandler) Select(c *gin.Context) {
	userID := currentUserID(c)

	var req selectModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s, err := h.settings.Get(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save selection"})
		return
	}

	s.SelectedModel = req.ID
	if err := h.settings.Save(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save selection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"selected": s.SelectedModel})
}

// combined returns fetched then custom models, the order the selector
// shows them in.
func (h *ModelsHandler) combined(userID uuid.UUID) ([]models.Model, error) {
	custom, err := h.custom.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	out := h.registry.Fetched()
	for _, m := range custom {
		out = append(out, m.Descriptor())
	}
	return out, nil
}

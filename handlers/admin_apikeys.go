package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"operator/models"
	"operator/repository"
)

type AdminAPIKeysHandler struct {
	keys repository.APIKeyRepository
}

func NewAdminAPIKeysHandler(repos *repository.Repositories) *AdminAPIKeysHandler {
	return &AdminAPIKeysHandler{keys: repos.APIKeys}
}

type apiKeyRequest struct {
	Name     string `json:"name" binding:"required"`
	Key      string `json:"key" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

type apiKeyUpdateRequest struct {
	Name     string `json:"name" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

func (h *AdminAPIKeysHandler) List(c *gin.Context) {
	keys, err := h.keys.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load API keys"})
		return
	}
	c.JSON(http.StatusOK, keys)
}

func (h *AdminAPIKeysHandler) Create(c *gin.Context) {
	var req apiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, key and provider are required"})
		return
	}

	key := models.APIKey{
		Name:     req.Name,
		Key:      req.Key,
		Provider: req.Provider,
	}
	if err := h.keys.Create(&key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	c.JSON(http.StatusCreated, key)
}

// Update renames a key record or moves it to another provider; the key
// material itself is immutable once stored.
func (h *AdminAPIKeysHandler) Update(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key id"})
		return
	}

	var req apiKeyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and provider are required"})
		return
	}

	key, err := h.keys.Get(keyID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	key.Name = req.Name
	key.Provider = req.Provider

	if err := h.keys.Update(key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update API key"})
		return
	}

	c.JSON(http.StatusOK, key)
}

func (h *AdminAPIKeysHandler) Delete(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key id"})
		return
	}

	deleted, err := h.keys.Delete(keyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key deleted"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"operator/repository"
)

type AdminStatsHandler struct {
	users repository.UserRepository
	chats repository.ChatRepository
	bots  repository.BotRepository
	keys  repository.APIKeyRepository
}

func NewAdminStatsHandler(repos *repository.Repositories) *AdminStatsHandler {
	return &AdminStatsHandler{
		users: repos.Users,
		chats: repos.Chats,
		bots:  repos.Bots,
		keys:  repos.APIKeys,
	}
}

// Stats backs the dashboard cards. Counts are real; the call metrics are
// placeholders since no API is ever actually called.
func (h *AdminStatsHandler) Stats(c *gin.Context) {
	totalUsers, _ := h.users.Count()
	totalChats, _ := h.chats.CountChats()
	totalMessages, _ := h.chats.CountMessages()
	totalBots, _ := h.bots.Count()
	totalKeys, _ := h.keys.Count()

	c.JSON(http.StatusOK, gin.H{
		"total_users":    totalUsers,
		"total_chats":    totalChats,
		"total_messages": totalMessages,
		"total_bots":     totalBots,
		"total_apis":     totalKeys,
		"api_calls":      0, // placeholder, nothing is ever called
	})
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsDefaults(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "", body["api_key"])
	assert.Equal(t, env.cfg.DefaultAPIURL, body["api_url"])
	assert.Equal(t, "", body["selected_model"])
	assert.Nil(t, body["current_chat_id"])
}

func TestUpdateSettings(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPut, "/api/settings", token, gin.H{
		"api_key": "sk-live",
		"api_url": "https://example.com/v1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/settings", token, nil)
	body := decode(t, w)
	assert.Equal(t, "sk-live", body["api_key"])
	assert.Equal(t, "https://example.com/v1", body["api_url"])
}

func TestUpdateSettingsRequiresKey(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPut, "/api/settings", token, gin.H{"api_url": "https://example.com/v1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "API key is required", decode(t, w)["error"])
}

func TestUpdateSettingsFallsBackToDefaultURL(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPut, "/api/settings", token, gin.H{"api_key": "sk-live"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/settings", token, nil)
	assert.Equal(t, env.cfg.DefaultAPIURL, decode(t, w)["api_url"])
}

func TestSettingsAreScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	w := env.do(t, http.MethodPut, "/api/settings", alice, gin.H{"api_key": "sk-alice"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/settings", bob, nil)
	assert.Equal(t, "", decode(t, w)["api_key"])
}

func TestSettingsTrackCurrentChat(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice")

	w := env.do(t, http.MethodPost, "/api/chats", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	chatID := decode(t, w)["id"].(string)

	w = env.do(t, http.MethodGet, "/api/settings", token, nil)
	assert.Equal(t, chatID, decode(t, w)["current_chat_id"])
}

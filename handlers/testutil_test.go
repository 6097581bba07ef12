package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"operator/config"
	"operator/database"
	"operator/middleware"
	"operator/models"
	"operator/repository"
	"operator/services"
)

// testEnv wires the full API against an in-memory database with zero
// simulated delays and no redis.
type testEnv struct {
	router *gin.Engine
	repos  *repository.Repositories
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.Migrate(db)

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTExpiry:        time.Minute,
		JWTRefreshExpiry: time.Hour,
		DefaultAPIURL:    "https://api.yescale.io/v1",
		AdminUsername:    "Admin",
		AdminEmail:       "admin@operator.local",
	}

	repos := repository.New(db)

	lockout := services.NewLoginLockout(nil)
	responder := services.NewResponder(0)
	registry := services.NewModelRegistry(0)
	publisher := services.NewPublisher(nil)

	authHandler := NewAuthHandler(cfg, repos, lockout)
	chatHandler := NewChatHandler(cfg, repos, responder, publisher)
	modelsHandler := NewModelsHandler(registry, repos, publisher)
	settingsHandler := NewSettingsHandler(cfg, repos, publisher)
	adminUsers := NewAdminUsersHandler(cfg, repos)
	adminBots := NewAdminBotsHandler(repos)
	adminKeys := NewAdminAPIKeysHandler(repos)
	adminMessages := NewAdminMessagesHandler(repos)
	adminStats := NewAdminStatsHandler(repos)

	r := gin.New()

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := r.Group("/api")
	protected.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/chats", chatHandler.List)
		protected.POST("/chats", chatHandler.Create)
		protected.GET("/chats/:id", chatHandler.Get)
		protected.DELETE("/chats/:id", chatHandler.Delete)
		protected.POST("/chats/:id/messages", chatHandler.SendMessage)

		protected.GET("/models", modelsHandler.List)
		protected.POST("/models/refresh", modelsHandler.Refresh)
		protected.POST("/models/custom", modelsHandler.AddCustom)
		protected.DELETE("/models/custom/:id", modelsHandler.RemoveCustom)
		protected.PUT("/models/select", modelsHandler.Select)

		protected.GET("/settings", settingsHandler.Get)
		protected.PUT("/settings", settingsHandler.Update)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.AdminRequired())
	{
		admin.GET("/stats", adminStats.Stats)

		admin.GET("/users", adminUsers.List)
		admin.POST("/users", adminUsers.Create)
		admin.PUT("/users/:id", adminUsers.Update)
		admin.DELETE("/users/:id", adminUsers.Delete)

		admin.GET("/bots", adminBots.List)
		admin.POST("/bots", adminBots.Create)
		admin.PUT("/bots/:id", adminBots.Update)
		admin.DELETE("/bots/:id", adminBots.Delete)

		admin.GET("/api-keys", adminKeys.List)
		admin.POST("/api-keys", adminKeys.Create)
		admin.PUT("/api-keys/:id", adminKeys.Update)
		admin.DELETE("/api-keys/:id", adminKeys.Delete)

		admin.GET("/messages", adminMessages.List)
		admin.PUT("/messages/:id", adminMessages.Update)
		admin.DELETE("/messages/:id", adminMessages.Delete)
	}

	return &testEnv{router: r, repos: repos, cfg: cfg}
}

// do issues a request with an optional bearer token and JSON body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON body into a generic map.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// register creates an account through the API and returns an access token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": username,
		"password":   "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decode(t, w)["access_token"].(string)
	require.True(t, ok)
	return token
}

// registerAdmin seeds the protected admin account directly and logs in.
func (e *testEnv) registerAdmin(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("adminpass123"), bcrypt.MinCost)
	require.NoError(t, err)

	admin := models.User{
		Username:     e.cfg.AdminUsername,
		Email:        e.cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	require.NoError(t, e.repos.Users.Create(&admin))

	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": e.cfg.AdminUsername,
		"password":   "adminpass123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decode(t, w)["access_token"].(string)
	require.True(t, ok)
	return token
}

// setAPIKey configures the user's key so chatting is unlocked.
func (e *testEnv) setAPIKey(t *testing.T, token string) {
	t.Helper()

	w := e.do(t, http.MethodPut, "/api/settings", token, gin.H{"api_key": "sk-test"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

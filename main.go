package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"operator/config"
	"operator/database"
	"operator/handlers"
	"operator/middleware"
	"operator/models"
	"operator/repository"
	"operator/services"
)

func main() {
	cfg := config.Load()

	// Database
	db := database.Connect(cfg)
	database.Migrate(db)
	rdb := database.ConnectRedis(cfg)

	repos := repository.New(db)

	// Seed data
	seedAdminUser(cfg, repos)
	seedDefaultBots(repos)

	// Services
	lockout := services.NewLoginLockout(rdb)
	responder := services.NewResponder(cfg.ResponderDelay)
	registry := services.NewModelRegistry(cfg.ModelFetchDelay)
	publisher := services.NewPublisher(rdb)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, repos, lockout)
	chatHandler := handlers.NewChatHandler(cfg, repos, responder, publisher)
	modelsHandler := handlers.NewModelsHandler(registry, repos, publisher)
	settingsHandler := handlers.NewSettingsHandler(cfg, repos, publisher)
	adminUsers := handlers.NewAdminUsersHandler(cfg, repos)
	adminBots := handlers.NewAdminBotsHandler(repos)
	adminKeys := handlers.NewAdminAPIKeysHandler(repos)
	adminMessages := handlers.NewAdminMessagesHandler(repos)
	adminStats := handlers.NewAdminStatsHandler(repos)
	syncHandler := handlers.NewSyncHandler(cfg, rdb)

	// Router
	r := gin.Default()
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.SecurityHeaders())

	// Rate limiter for auth endpoints
	authLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes
	auth := r.Group("/api/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)

		// Chats
		protected.GET("/chats", chatHandler.List)
		protected.POST("/chats", chatHandler.Create)
		protected.GET("/chats/:id", chatHandler.Get)
		protected.DELETE("/chats/:id", chatHandler.Delete)
		protected.POST("/chats/:id/messages", chatHandler.SendMessage)

		// Models
		protected.GET("/models", modelsHandler.List)
		protected.POST("/models/refresh", modelsHandler.Refresh)
		protected.POST("/models/custom", modelsHandler.AddCustom)
		protected.DELETE("/models/custom/:id", modelsHandler.RemoveCustom)
		protected.PUT("/models/select", modelsHandler.Select)

		// Settings (active API key/url)
		protected.GET("/settings", settingsHandler.Get)
		protected.PUT("/settings", settingsHandler.Update)
	}

	// Admin routes
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

	// WebSocket change feed (auth via query param)
	r.GET("/ws/sync", syncHandler.HandleWebSocket)

	// Serve frontend static files
	r.Static("/assets", "./static/assets")
	r.StaticFile("/favicon.svg", "./static/favicon.svg")
	r.StaticFile("/", "./static/index.html")
	r.NoRoute(func(c *gin.Context) {
		c.File("./static/index.html")
	})

	fmt.Printf("Server starting on :%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAdminUser creates the admin account from env config on first boot.
// The credential pair is never hardcoded; without ADMIN_PASSWORD no admin
// is created.
func seedAdminUser(cfg *config.Config, repos *repository.Repositories) {
	if cfg.AdminPassword == "" {
		return
	}

	count, err := repos.Users.Count()
	if err != nil || count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	user := models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := repos.Users.Create(&user); err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return
	}

	fmt.Printf("Admin user '%s' created\n", cfg.AdminUsername)
}

// seedDefaultBots fills an empty bot collection with the three starter
// configurations.
func seedDefaultBots(repos *repository.Repositories) {
	count, err := repos.Bots.Count()
	if err != nil || count > 0 {
		return
	}

	defaults := []models.Bot{
		{
			Name:         "Web Browser",
			Description:  "A bot that can browse the web and extract information",
			Model:        "yescale/llama-3-70b-instruct",
			SystemPrompt: "You are a helpful web browsing assistant. You can navigate websites and extract information for the user.",
			IsActive:     true,
		},
		{
			Name:         "Code Assistant",
			Description:  "A bot specialized in writing and explaining code",
			Model:        "yescale/llama-3-70b-instruct",
			SystemPrompt: "You are a coding assistant. Help users write, debug, and understand code in various programming languages.",
			IsActive:     true,
		},
		{
			Name:         "Research Helper",
			Description:  "A bot that helps with research and summarization",
			Model:        "yescale/mixtral-8x7b-instruct",
			SystemPrompt: "You are a research assistant. Help users find information, summarize content, and organize research materials.",
			IsActive:     false,
		},
	}

	for i := range defaults {
		if err := repos.Bots.Create(&defaults[i]); err != nil {
			log.Printf("Failed to seed bot %q: %v", defaults[i].Name, err)
		}
	}
}

package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// DBDriver selects the storage backend: "sqlite" (embedded file,
	// default) or "postgres".
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret        string
	JWTExpiry        time.Duration
	JWTRefreshExpiry time.Duration

	// ResponderDelay is the artificial latency of the mock model call.
	ResponderDelay time.Duration
	// ModelFetchDelay is the artificial latency of the mock model listing.
	ModelFetchDelay time.Duration

	DefaultAPIURL string

	RedisURL       string
	AllowedOrigins []string

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	godotenv.Load()
	godotenv.Load("../.env")

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "operator.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "operator"),
		DBPassword: getEnv("DB_PASSWORD", "operator"),
		DBName:     getEnv("DB_NAME", "operator"),

		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:        parseDuration(getEnv("JWT_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		ResponderDelay:  parseDuration(getEnv("RESPONDER_DELAY", "1500ms"), 1500*time.Millisecond),
		ModelFetchDelay: parseDuration(getEnv("MODEL_FETCH_DELAY", "1s"), time.Second),

		DefaultAPIURL: getEnv("DEFAULT_API_URL", "https://api.yescale.io/v1"),

		RedisURL:       getEnv("REDIS_URL", ""),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", defaultOrigins())),

		AdminUsername: getEnv("ADMIN_USERNAME", "Admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@operator.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func defaultOrigins() string {
	if os.Getenv("GIN_MODE") != "release" {
		return "http://localhost:5173,http://localhost:8080"
	}
	return "http://localhost:8080"
}

func parseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

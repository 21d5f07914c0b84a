package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Generator GeneratorConfig
	Log       LogConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type AuthConfig struct {
	JWTSecret      string
	JWTTTL         string
	BcryptCost     string
	CookieName     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   string
	CookieSameSite string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// GeneratorConfig configures the external text-generation endpoint used by
// auto-created resources. An empty APIKey disables generation.
type GeneratorConfig struct {
	Provider        string
	APIKey          string
	BaseURL         string
	Model           string
	MaxTokens       string
	Timeout         string
	BreakerFailures string
	BreakerTimeout  string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads a .env file when present and builds the configuration from the
// process environment. Values are validated by the components that use them.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Addr:            getenv("SERVER_ADDR", ":8080"),
			ShutdownTimeout: getenv("SERVER_SHUTDOWN_TIMEOUT", "10s"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			JWTTTL:         getenv("JWT_TTL", "1h"),
			BcryptCost:     os.Getenv("BCRYPT_COST"),
			CookieName:     getenv("AUTH_COOKIE_NAME", "challenge_hub_session"),
			CookiePath:     getenv("AUTH_COOKIE_PATH", "/"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: os.Getenv("AUTH_COOKIE_SAMESITE"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
			AllowCredentials: strings.EqualFold(os.Getenv("CORS_ALLOW_CREDENTIALS"), "true"),
		},
		Generator: GeneratorConfig{
			Provider:        getenv("GENERATOR_PROVIDER", "openai"),
			APIKey:          getenv("GENERATOR_API_KEY", os.Getenv("GPT_API_KEY")),
			BaseURL:         os.Getenv("GENERATOR_BASE_URL"),
			Model:           os.Getenv("GENERATOR_MODEL"),
			MaxTokens:       getenv("GENERATOR_MAX_TOKENS", "50"),
			Timeout:         getenv("GENERATOR_TIMEOUT", "10s"),
			BreakerFailures: getenv("GENERATOR_BREAKER_FAILURES", "5"),
			BreakerTimeout:  getenv("GENERATOR_BREAKER_TIMEOUT", "30s"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

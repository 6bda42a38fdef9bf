package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	Env            string // dev|prod
	LogLevel       string
	DatabaseType   string // sqlite|postgres|mysql
	DatabasePath   string // sqlite only
	DatabaseURL    string // postgres/mysql
	MigrationsPath string

	SessionDuration time.Duration
	JWTSecret       string

	// Game tuning
	QuestionsPerGame    int
	StudyMinutesPerGame int

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	// Invitation email (AWS SES)
	SESRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// Load reads configuration from the environment, falling back to a .env file
// and sensible defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./cerdas.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SessionDuration: getEnvDuration("SESSION_DURATION", 24*time.Hour),
		JWTSecret:       getEnv("JWT_SECRET", "cerdas-dev-secret"),

		QuestionsPerGame:    getEnvInt("QUESTIONS_PER_GAME", 5),
		StudyMinutesPerGame: getEnvInt("STUDY_MINUTES_PER_GAME", 5),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		OAuthRedirectBase:  getEnv("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080"),

		SESRegion:    getEnv("SES_REGION", "eu-west-1"),
		SESFromEmail: os.Getenv("SES_FROM_EMAIL"),
		SESFromName:  getEnv("SES_FROM_NAME", "Cerdas"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads a positive integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid value for %s, using default %s", key, defaultValue)
	}
	return defaultValue
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var AppEnv Config

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	SessionTTL     time.Duration
	SuperAdminID   string
	AdminUID       string
	AllowedOrigins []string
	TrustedProxies []string
	RateLimitRPS   int
	RateLimitBurst int
	LogLevel       string
	LogFormat      string
	Firebase       FirebaseCredentials
}

var ErrMissingEnv = errors.New("required environment variable is not set")

// Load reads .env (when present) and the process environment into AppEnv.
func Load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	AppEnv = cfg
	return nil
}

// FromEnv builds a Config from the current environment without touching AppEnv.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getEnvOrDefault("PORT", "5000"),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "BookInventory"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		SessionTTL:     getDurationEnv("SESSION_TTL_MINUTES", 60, time.Minute),
		SuperAdminID:   getEnvOrDefault("SUPER_ADMIN_ID", ""),
		AdminUID:       getEnvOrDefault("ADMIN_UID", ""),
		AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies: getListEnv("TRUSTED_PROXIES", nil),
		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),
		LogLevel:       strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
		Firebase:       firebaseFromEnv(),
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI: %w", ErrMissingEnv)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET: %w", ErrMissingEnv)
	}
	return cfg, nil
}

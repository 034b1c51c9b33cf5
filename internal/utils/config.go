package utils

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSecretMissing   = errors.New("config: JWT_SECRET is required")
	ErrMongoURIMissing = errors.New("config: MONGO_URI is required")
)

type Config struct {
	ServerPort string
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	Mongo      MongoConfig
	Logging    LoggingConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

// LoadConfig builds the process configuration from the environment.
// The signing secret and the Mongo connection string have no
// defaults: refusing to start beats running with a guessable secret.
func LoadConfig() (*Config, error) {
	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		return nil, ErrSecretMissing
	}

	mongoURI := strings.TrimSpace(os.Getenv("MONGO_URI"))
	if mongoURI == "" {
		return nil, ErrMongoURIMissing
	}

	logging := LoggingConfig{
		Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
		Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
		EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
		ServiceName:  envOrDefault("SERVICE_NAME", "todovault"),
	}

	cfg := &Config{
		ServerPort: envOrDefault("PORT", "3000"),
		JWTSecret:  jwtSecret,
		TokenTTL:   parseDuration(envOrDefault("TOKEN_TTL", "720h"), 720*time.Hour),
		BcryptCost: parseInt(envOrDefault("BCRYPT_COST", "10"), 10),
		Mongo: MongoConfig{
			URI:            mongoURI,
			Database:       envOrDefault("MONGO_DATABASE", "todovault"),
			ConnectTimeout: parseDuration(envOrDefault("MONGO_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Logging: logging,
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(value string, fallback int) int {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func parseBool(value string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}

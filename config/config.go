package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the service.
type Config struct {
	DatabaseURL  string
	ServerPort   int
	JWTSecretKey string
	JWTValidity  time.Duration

	MasterLogin        string
	MasterPasswordHash string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads the configuration from environment variables, optionally
// seeded from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	masterLogin := os.Getenv("MASTER_LOGIN")
	if masterLogin == "" {
		return nil, fmt.Errorf("MASTER_LOGIN environment variable is not set")
	}
	masterPasswordHash := os.Getenv("MASTER_PASSWORD_HASH")
	if masterPasswordHash == "" {
		return nil, fmt.Errorf("MASTER_PASSWORD_HASH environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	validity := time.Hour
	if validityStr := os.Getenv("JWT_VALIDITY"); validityStr != "" {
		validity, err = time.ParseDuration(validityStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_VALIDITY environment variable: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		JWTSecretKey:       jwtKey,
		JWTValidity:        validity,
		MasterLogin:        masterLogin,
		MasterPasswordHash: masterPasswordHash,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// PicturesEnabled reports whether the R2 storage is fully configured.
// Player picture uploads are an optional feature.
func (c *Config) PicturesEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

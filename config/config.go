package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	MongoURI      string
	MongoDatabase string
	JWTSecretKey  string
	ServerPort    int

	// OpenTournamentManagement leaves tournament create/update/delete/image
	// endpoints unauthenticated. Defaults to false (admin-gated).
	OpenTournamentManagement bool

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from environment variables. A .env file is
// loaded first if present; its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is not set")
	}

	mongoDB := os.Getenv("MONGO_DATABASE")
	if mongoDB == "" {
		mongoDB = "nexusarena"
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
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

	openManagement := false
	if v := os.Getenv("OPEN_TOURNAMENT_MANAGEMENT"); v != "" {
		openManagement, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid OPEN_TOURNAMENT_MANAGEMENT environment variable: %w", err)
		}
	}

	cfg := &Config{
		MongoURI:                 mongoURI,
		MongoDatabase:            mongoDB,
		JWTSecretKey:             jwtKey,
		ServerPort:               port,
		OpenTournamentManagement: openManagement,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

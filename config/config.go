package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Reconcile ReconcileConfig
	App       AppConfig
}

type ServerConfig struct {
	Port       string
	CORSOrigin string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// StorageConfig selects the object storage provider and carries the
// per-provider settings. Only the block matching Provider is consulted.
type StorageConfig struct {
	Provider string

	AWSRegion string
	AWSBucket string

	GCPProjectID string
	GCPBucket    string
	GCPKeyFile   string
}

// ReconcileConfig controls the storage cleanup sweeper. An empty Schedule
// disables it.
type ReconcileConfig struct {
	Schedule  string
	BatchSize int
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "3001"),
			CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "sceneforge"),
		},
		Storage: StorageConfig{
			Provider:     getEnv("STORAGE_PROVIDER", "aws"),
			AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
			AWSBucket:    getEnv("AWS_S3_BUCKET", ""),
			GCPProjectID: getEnv("GCP_PROJECT_ID", ""),
			GCPBucket:    getEnv("GCP_STORAGE_BUCKET", ""),
			GCPKeyFile:   getEnv("GCP_KEY_FILE", ""),
		},
		Reconcile: ReconcileConfig{
			Schedule:  getEnv("RECONCILE_SCHEDULE", ""),
			BatchSize: getEnvAsInt("RECONCILE_BATCH_SIZE", 50),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Storage.Provider == "" {
		return fmt.Errorf("STORAGE_PROVIDER is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

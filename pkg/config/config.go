package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all pipeline configuration
type Config struct {
	// App
	Env string

	// Build inputs
	DataDir      string // directory containing the flat source tables
	RegistryPath string // YAML population configs; empty = built-in defaults
	SchemaPath   string // YAML schema resource; empty = built-in vocabulary

	// Export
	OutputDir      string
	ArrayDelimiter string // joins multi-valued cells in the output tables

	// Pipeline
	Workers int // concurrent source populations per phase

	// MySQL (AOPDB source; optional)
	MySQLHost     string
	MySQLPort     string
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string

	// Neo4j (optional bulk loader)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "development"),
		DataDir:        getEnv("ALZKB_DATA_DIR", "data/raw"),
		RegistryPath:   getEnv("ALZKB_REGISTRY_PATH", ""),
		SchemaPath:     getEnv("ALZKB_SCHEMA_PATH", ""),
		OutputDir:      getEnv("ALZKB_OUTPUT_DIR", "data/processed"),
		ArrayDelimiter: getEnv("ALZKB_ARRAY_DELIMITER", "|"),
		Workers:        getEnvInt("ALZKB_WORKERS", 4),
		MySQLHost:      getEnv("MYSQL_HOST", ""),
		MySQLPort:      getEnv("MYSQL_PORT", "3306"),
		MySQLUser:      getEnv("MYSQL_USER", "root"),
		MySQLPassword:  getEnv("MYSQL_PASSWORD", ""),
		MySQLDatabase:  getEnv("MYSQL_DATABASE", "aopdb"),
		Neo4jURI:       getEnv("NEO4J_URI", ""),
		Neo4jUser:      getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("ALZKB_DATA_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("ALZKB_OUTPUT_DIR is required")
	}
	if c.ArrayDelimiter == "" {
		return fmt.Errorf("ALZKB_ARRAY_DELIMITER must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("ALZKB_WORKERS must be at least 1")
	}
	// MySQL and Neo4j settings are optional; the sources and the loader
	// that need them are skipped when they are absent.
	return nil
}

// MySQLEnabled reports whether a MySQL-backed source can be queried
func (c *Config) MySQLEnabled() bool {
	return c.MySQLHost != ""
}

// Neo4jEnabled reports whether the bulk loader has a target database
func (c *Config) Neo4jEnabled() bool {
	return c.Neo4jURI != ""
}

// MySQLDSN builds the driver connection string for the AOPDB database
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

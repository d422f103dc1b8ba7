package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Simulation SimulationConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port        string
	Environment string
	ServiceName string
	CORSOrigins string // Comma-separated list of allowed origins
}

// AuthConfig holds mock-session token configuration
type AuthConfig struct {
	JWTSecret  string
	Expiration int // in hours
}

// SimulationConfig holds the live vehicle movement simulation settings
type SimulationConfig struct {
	Enabled  bool
	Interval int // seconds between coordinate updates
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			ServiceName: serviceName,
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "demo-secret-not-for-production"),
			Expiration: getEnvAsInt("JWT_EXPIRATION", 24),
		},
		Simulation: SimulationConfig{
			Enabled:  getEnvAsBool("SIMULATION_ENABLED", true),
			Interval: getEnvAsInt("SIMULATION_INTERVAL", 3),
		},
	}

	return cfg, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

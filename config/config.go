// Package config provides configuration management for the blog backend.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: every problem found during loading is reported
// at once instead of failing on the first one.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// JWTSecret signs session tokens. Its compromise invalidates every
	// token-integrity guarantee system-wide, so it is required.
	JWTSecret string
	// BcryptCost is the bcrypt work factor used when hashing passwords.
	BcryptCost int
}

// UploadConfig holds configuration for image uploads.
type UploadConfig struct {
	Dir     string // Directory where uploaded files are written
	MaxSize int64  // Maximum accepted upload size in bytes
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port       string // Port for the HTTP server
	CORSOrigin string // Allowed browser origin (credentials mode)
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB      *PoolConfig
	Auth    *AuthConfig
	Uploads *UploadConfig
	Server  *ServerConfig
}

// getRequiredEnv reads a required environment variable, appending to the
// errors slice when it is missing.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt reads an optional environment variable parsed as an int.
// Uses defaultValue if not set; appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvInt64 reads an optional environment variable parsed as int64.
func getOptionalEnvInt64(key string, defaultValue int64, errors *[]string) int64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)
	poolSize := getOptionalEnvInt("DB_POOL_SIZE", 10, &errors)
	if poolSize < 1 {
		errors = append(errors, fmt.Sprintf("DB_POOL_SIZE must be at least 1, got %d", poolSize))
		poolSize = 1
	}

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	// Auth configuration
	jwtSecret := getRequiredEnv("JWT_SECRET", &errors)
	bcryptCost := getOptionalEnvInt("BCRYPT_COST", 10, &errors)
	if bcryptCost < 10 {
		// A cost below 10 weakens stored hashes beyond what this service accepts.
		errors = append(errors, fmt.Sprintf("BCRYPT_COST must be at least 10, got %d", bcryptCost))
		bcryptCost = 10
	}

	authConfig := &AuthConfig{
		JWTSecret:  jwtSecret,
		BcryptCost: bcryptCost,
	}

	// Upload configuration
	uploadConfig := &UploadConfig{
		Dir:     getOptionalEnv("UPLOAD_DIR", "uploads"),
		MaxSize: getOptionalEnvInt64("UPLOAD_MAX_SIZE", 10<<20, &errors), // 10 MiB
	}

	// Server configuration
	serverConfig := &ServerConfig{
		Port:       getOptionalEnv("PORT", "4000"),
		CORSOrigin: getOptionalEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:      dbConfig,
		Auth:    authConfig,
		Uploads: uploadConfig,
		Server:  serverConfig,
	}, nil
}

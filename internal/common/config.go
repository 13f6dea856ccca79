package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	OCR      OCRConfig
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
}

// AuthConfig holds token-issuance configuration.
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// StorageConfig selects and configures the file-storage backend.
type StorageConfig struct {
	Backend   string // "disk" | "minio"
	UploadDir string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// OCRConfig holds OCR-related configuration.
type OCRConfig struct {
	Tesseract   string
	Language    string
	TessdataDir string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimitRPS:    getEnvAsInt("RATE_LIMIT_RPS", 20),
			RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenExpiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", "disk"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "gerenciadoc"),
			MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Language:    getEnv("TESSERACT_LANG", "por"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
	}
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Auth.JWTSecret == "" {
		return NewAppError("CONFIG_ERROR", "JWT_SECRET is required", ErrInvalidInput)
	}
	if c.Storage.Backend == "minio" && c.Storage.MinioEndpoint == "" {
		return NewAppError("CONFIG_ERROR", "MINIO_ENDPOINT is required for the minio backend", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

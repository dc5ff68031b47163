package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string
	JWTSecretKey  string
	ServerPort    int
	RunMigrations bool

	Storage StorageConfig

	RedisURL string
	CacheTTL time.Duration

	CORSAllowedOrigins []string

	// Первый администратор, создаётся при старте, если задан.
	AdminEmail    string
	AdminPassword string
}

// StorageConfig описывает S3-совместимое хранилище картинок.
// Ключи доступа живут только на сервере.
type StorageConfig struct {
	Endpoint        string
	AccountID       string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	BucketPrefix    string
}

// Enabled reports whether enough is set to talk to the object store and
// to build public URLs for uploaded objects.
func (s StorageConfig) Enabled() bool {
	return (s.Endpoint != "" || s.AccountID != "") && s.AccessKeyID != "" && s.SecretAccessKey != "" &&
		s.PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := getEnv("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	runMigrations, err := strconv.ParseBool(getEnv("RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_MIGRATIONS environment variable: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL environment variable: %w", err)
	}
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cacheTTL)
	}

	cfg := &Config{
		DatabaseURL:   dbURL,
		JWTSecretKey:  jwtKey,
		ServerPort:    port,
		RunMigrations: runMigrations,
		Storage: StorageConfig{
			Endpoint:        os.Getenv("STORAGE_ENDPOINT"),
			AccountID:       os.Getenv("STORAGE_ACCOUNT_ID"),
			Region:          getEnv("STORAGE_REGION", "auto"),
			AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			PublicBaseURL:   strings.TrimSuffix(os.Getenv("STORAGE_PUBLIC_BASE_URL"), "/"),
			BucketPrefix:    os.Getenv("STORAGE_BUCKET_PREFIX"),
		},
		RedisURL:           os.Getenv("REDIS_URL"),
		CacheTTL:           cacheTTL,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminEmail:         strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

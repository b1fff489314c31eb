package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort        string        `yaml:"http_port"`
	PostgresDSN     string        `yaml:"postgres_dsn"`
	RedisURL        string        `yaml:"redis_url"`
	JWTSecret       string        `yaml:"jwt_secret"`
	AssistantAPIURL string        `yaml:"assistant_api_url"`
	AssistantAPIKey string        `yaml:"assistant_api_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	ResetTokenTTL   time.Duration `yaml:"reset_token_ttl"`
	DBMaxOpenConns  int           `yaml:"db_max_open_conns"`
	DBMaxIdleConns  int           `yaml:"db_max_idle_conns"`
	DBConnMaxIdle   time.Duration `yaml:"db_conn_max_idle"`
	DBConnMaxLife   time.Duration `yaml:"db_conn_max_life"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	LogLevel        string        `yaml:"log_level"`
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:        "8080",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
		DBMaxOpenConns:  25,
		DBMaxIdleConns:  10,
		DBConnMaxIdle:   5 * time.Minute,
		DBConnMaxLife:   30 * time.Minute,
		RequestTimeout:  10 * time.Second,
		LogLevel:        "info",
	}

	if path := os.Getenv("SKILLBRIDGE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			log.Fatalf("failed to load config file: %v", err)
		}
	}

	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.PostgresDSN = getEnv("DATABASE_URL", cfg.PostgresDSN)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AssistantAPIURL = getEnv("ASSISTANT_API_URL", cfg.AssistantAPIURL)
	cfg.AssistantAPIKey = getEnv("ASSISTANT_API_KEY", cfg.AssistantAPIKey)
	cfg.AccessTokenTTL = getDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.RefreshTokenTTL = getDuration("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL)
	cfg.ResetTokenTTL = getDuration("RESET_TOKEN_TTL", cfg.ResetTokenTTL)
	cfg.DBMaxOpenConns = getInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = getInt("DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)
	cfg.DBConnMaxIdle = getDuration("DB_CONN_MAX_IDLE", cfg.DBConnMaxIdle)
	cfg.DBConnMaxLife = getDuration("DB_CONN_MAX_LIFE", cfg.DBConnMaxLife)
	cfg.RequestTimeout = getDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if cfg.PostgresDSN == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

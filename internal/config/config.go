// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go-staffhub/internal/shared/clock"
	"go-staffhub/internal/shared/connection"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DB       connection.DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Telegram TelegramConfig

	Location *time.Location
	// MaxRetries bounds the connection attempts made at startup.
	MaxRetries int
}

type RedisConfig struct {
	Addr string
	// DirectoryTTL is how long employee identities stay cached.
	DirectoryTTL time.Duration
}

type KafkaConfig struct {
	Broker        string
	ConsumerGroup string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type TelegramConfig struct {
	BotToken string
	HRChatID int64
	Enabled  bool
}

// Load reads the environment. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadWithoutAuth is Load for processes that never issue or verify tokens:
// the worker, the consumer and staffctl.
func LoadWithoutAuth() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(false)
}

func FromEnv() (*Config, error) {
	return fromEnv(true)
}

func fromEnv(requireSecret bool) (*Config, error) {
	loc, err := clock.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port: getEnv("PORT", "3000"),
		DB: connection.DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "staffhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			DirectoryTTL: getEnvAsDuration("DIRECTORY_CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Broker:        getEnv("KAFKA_BROKER", "localhost:9092"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "staffhub-notifications"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			HRChatID: getEnvAsInt("TELEGRAM_HR_CHAT_ID", 0),
		},
		Location:   loc,
		MaxRetries: int(getEnvAsInt("CONNECT_MAX_RETRIES", 5)),
	}
	cfg.Telegram.Enabled = cfg.Telegram.BotToken != "" && cfg.Telegram.HRChatID != 0

	if requireSecret && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	if val, err := strconv.ParseInt(getEnv(name, ""), 10, 64); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	if val, err := time.ParseDuration(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

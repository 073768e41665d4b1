package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`

	FirebaseProject            string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseServiceAccountPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	FirebaseServiceAccountJSON string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	StorageBucket              string `mapstructure:"STORAGE_BUCKET"`

	// StoreDriver selects the document store: "firestore" or "memory".
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	AuthEnabled bool   `mapstructure:"AUTH_ENABLED"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	DefaultPageSize int `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `mapstructure:"MAX_PAGE_SIZE"`

	ChatMaxMessageLength int           `mapstructure:"CHAT_MAX_MESSAGE_LENGTH"`
	ChatTimeout          time.Duration `mapstructure:"-"`
	ChatRetryAttempts    int           `mapstructure:"CHAT_RETRY_ATTEMPTS"`
	ChatRetryDelay       time.Duration `mapstructure:"-"`
	MessagesPerMinute    int           `mapstructure:"RATE_LIMIT_MESSAGES_PER_MINUTE"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_PATH", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_JSON", "")
	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("STORE_DRIVER", "firestore")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("CHAT_MAX_MESSAGE_LENGTH", 1000)
	v.SetDefault("CHAT_TIMEOUT_SECONDS", 15)
	v.SetDefault("CHAT_RETRY_ATTEMPTS", 3)
	v.SetDefault("CHAT_RETRY_DELAY_MS", 500)
	v.SetDefault("RATE_LIMIT_MESSAGES_PER_MINUTE", 30)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	cfg.ChatTimeout = time.Duration(v.GetInt("CHAT_TIMEOUT_SECONDS")) * time.Second
	cfg.ChatRetryDelay = time.Duration(v.GetInt("CHAT_RETRY_DELAY_MS")) * time.Millisecond

	if cfg.StoreDriver != "firestore" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == "firestore" && cfg.FirebaseProject == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required when STORE_DRIVER=firestore")
	}

	return &cfg, nil
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Anthropic AnthropicConfig
	Storage   StorageConfig
	Templates TemplatesConfig
	OCR       OCRConfig
	Analytics AnalyticsConfig
	Janitor   JanitorConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type AnthropicConfig struct {
	APIKey         string
	Model          string
	MaxTokens      int64
	Temperature    float64
	RequestTimeout time.Duration
	RepairTimeout  time.Duration
	MaxAttempts    int
}

type StorageConfig struct {
	TempPath    string
	MaxFileSize int64
}

type TemplatesConfig struct {
	Path string
}

type OCRConfig struct {
	Languages string
	DPI       int
}

type AnalyticsConfig struct {
	WebhookURL string
	Token      string
}

type JanitorConfig struct {
	Interval time.Duration
	MatchTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Anthropic: AnthropicConfig{
			APIKey:         getEnv("ANTHROPIC_API_KEY", ""),
			Model:          getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens:      getEnvAsInt64("ANTHROPIC_MAX_TOKENS", 8192),
			Temperature:    getEnvAsFloat("ANTHROPIC_TEMPERATURE", 0.2),
			RequestTimeout: getEnvAsDuration("MODEL_REQUEST_TIMEOUT", "15m"),
			RepairTimeout:  getEnvAsDuration("MODEL_REPAIR_TIMEOUT", "5m"),
			MaxAttempts:    getEnvAsInt("MODEL_MAX_ATTEMPTS", 2),
		},
		Storage: StorageConfig{
			TempPath:    getEnv("TEMP_PATH", "./tmp"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 20971520),
		},
		Templates: TemplatesConfig{
			Path: getEnv("TEMPLATES_PATH", "./templates"),
		},
		OCR: OCRConfig{
			Languages: getEnv("OCR_LANGUAGES", "eng+fra"),
			DPI:       getEnvAsInt("OCR_DPI", 300),
		},
		Analytics: AnalyticsConfig{
			WebhookURL: getEnv("ANALYTICS_WEBHOOK_URL", ""),
			Token:      getEnv("ANALYTICS_TOKEN", ""),
		},
		Janitor: JanitorConfig{
			Interval: getEnvAsDuration("JANITOR_INTERVAL", "10m"),
			MatchTTL: getEnvAsDuration("MATCH_TTL", "2h"),
		},
	}
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

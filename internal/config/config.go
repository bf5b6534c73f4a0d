package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort       string
	AppProfile       string
	TelegramBotToken string
	TelegramChatID   string
	RedisURL         string
	ThrottleTTL      int
	DefaultCity      string
	DeliveryMinOrder float64
	DeliveryFreeFrom float64
	DeliveryFee      float64
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	// Credentials are selected by an explicit profile name, never by
	// probing the host: TELEGRAM_BOT_TOKEN_STAGING wins over
	// TELEGRAM_BOT_TOKEN when APP_PROFILE=staging.
	profile := getEnv("APP_PROFILE", "production")

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "2222"),
		AppProfile:       profile,
		TelegramBotToken: getProfileEnv(profile, "TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   getProfileEnv(profile, "TELEGRAM_CHAT_ID"),
		RedisURL:         getEnv("REDIS_URL", ""),
		ThrottleTTL:      getEnvAsInt("THROTTLE_TTL", 30),
		DefaultCity:      getEnv("DEFAULT_CITY", "Новополоцк"),
		DeliveryMinOrder: getEnvAsFloat("DELIVERY_MIN_ORDER", 20),
		DeliveryFreeFrom: getEnvAsFloat("DELIVERY_FREE_FROM", 40),
		DeliveryFee:      getEnvAsFloat("DELIVERY_FEE", 8),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getProfileEnv(profile, key string) string {
	qualified := key + "_" + strings.ToUpper(profile)
	if value := os.Getenv(qualified); value != "" {
		return value
	}
	return getEnv(key, "")
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	LogLevel     string
	HoldingsPath string
	DBPath       string

	CacheTTLSeconds    int
	FeedTimeoutSeconds int

	// BenchmarkRate is the annualized rate of the fixed reference curve shown
	// against portfolio growth (simple daily accrual, non-compounding).
	BenchmarkRate float64

	// TFSALimit is the annual contribution limit shown on the dashboard.
	TFSALimit float64

	// Optional integrations. Empty values disable the feature.
	TelegramToken  string
	TelegramChatID int64
	OpenAIKey      string
}

func Load() Config {
	// Load .env variables into the process environment when present.
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using system environment")
	}

	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)

	return Config{
		Port:               getEnv("PORT", "9095"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HoldingsPath:       getEnv("HOLDINGS_PATH", "portfolio.csv"),
		DBPath:             getEnv("DB_PATH", "data/portfolio.db"),
		CacheTTLSeconds:    getEnvAsInt("CACHE_TTL_SECONDS", 10),
		FeedTimeoutSeconds: getEnvAsInt("FEED_TIMEOUT_SECONDS", 10),
		BenchmarkRate:      getEnvAsFloat64("BENCHMARK_RATE", 5.0),
		TFSALimit:          getEnvAsFloat64("TFSA_LIMIT", 7000),
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:     chatID,
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	val, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("config: invalid int %q for %s, using default %d", valueStr, key, fallback)
		return fallback
	}
	return val
}

func getEnvAsFloat64(key string, fallback float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	val, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("config: invalid float %q for %s, using default %f", valueStr, key, fallback)
		return fallback
	}
	return val
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	AI      AIConfig
	Rhyme   RhymeConfig
	Assist  AssistConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	CorsOrigins string
	SentryDSN   string
}

type StorageConfig struct {
	Driver           string // "file" or "redis"
	Dir              string
	RedisURL         string
	Key              string
	AutosaveDebounce time.Duration
}

type AIConfig struct {
	Provider       string // "ollama" or "openai"
	BaseURL        string
	Model          string
	APIKey         string
	RequestTimeout time.Duration
}

type RhymeConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

type AssistConfig struct {
	SuggestionDebounce time.Duration
	RhymeDebounce      time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "songsmith.log"),
			CorsOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			SentryDSN:   getEnv("SENTRY_DSN", ""),
		},
		Storage: StorageConfig{
			Driver:           getEnv("STORAGE_DRIVER", "file"),
			Dir:              getEnv("STORAGE_DIR", "./songdata"),
			RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
			Key:              getEnv("STORAGE_KEY", "songs"),
			AutosaveDebounce: getEnvAsDuration("AUTOSAVE_DEBOUNCE", 2*time.Second),
		},
		AI: AIConfig{
			Provider:       getEnv("AI_PROVIDER", "ollama"),
			BaseURL:        getEnv("AI_BASE_URL", "http://localhost:11434"),
			Model:          getEnv("AI_MODEL", "llama2"),
			APIKey:         getEnv("AI_API_KEY", ""),
			RequestTimeout: getEnvAsDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
		},
		Rhyme: RhymeConfig{
			BaseURL:  getEnv("RHYME_BASE_URL", "https://api.datamuse.com/words"),
			CacheTTL: getEnvAsDuration("RHYME_CACHE_TTL", 10*time.Minute),
		},
		Assist: AssistConfig{
			SuggestionDebounce: getEnvAsDuration("SUGGESTION_DEBOUNCE", 1500*time.Millisecond),
			RhymeDebounce:      getEnvAsDuration("RHYME_DEBOUNCE", 800*time.Millisecond),
		},
	}
}

// IsProduction reports whether GO_ENV selects production logging.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("1.5s") or bare milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if ms := getEnvAsInt(key, -1); ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	EmbeddingModel    string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string // e.g. "llama3.2:3b"
	GoogleGeminiKey   string
	HuggingFaceKey    string
}

type ChatConfig struct {
	SessionTTL          time.Duration // inactivity window before a session is evicted
	SweepInterval       time.Duration
	RetryBudget         int // extra retrieval attempts after the first
	RetrievalTopK       int
	RetrievalScoreFloor float64
	TranscriptTopic     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3.2:3b"),
			GoogleGeminiKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFaceKey:    getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Chat: ChatConfig{
			SessionTTL:          getEnvAsDuration("SESSION_TTL", time.Hour),
			SweepInterval:       getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
			RetryBudget:         getEnvAsInt("RETRIEVAL_RETRY_BUDGET", 1),
			RetrievalTopK:       getEnvAsInt("RETRIEVAL_TOP_K", 5),
			RetrievalScoreFloor: getEnvAsFloat("RETRIEVAL_SCORE_FLOOR", 0.35),
			TranscriptTopic:     getEnv("CHAT_TRANSCRIPT_TOPIC_NAME", "CHAT_TRANSCRIPT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Workflow WorkflowConfig
	Session  SessionConfig
	Ingest   IngestConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OllamaBaseURL     string
	EmbeddingProvider string
	EmbeddingModel    string
}

// WorkflowConfig holds the routing tunables. Thresholds live here, not as
// constants buried in the router.
type WorkflowConfig struct {
	SufficiencyThreshold float64       // top candidate score needed to answer directly
	OverlapThreshold     float64       // keyword-overlap fraction for extended search relevance
	MaxScrapeSources     int           // cap on auxiliary pages consulted per escalation
	RunTimeout           time.Duration // end-to-end budget per query
	RetrievalTopK        int
	HistoryLimit         int // interactions fed to the responder as context
	SupportEmail         string
	SearchURLs           []string
}

type SessionConfig struct {
	CacheCapacity int // max session entries held in memory
	CacheWindow   int // max interactions cached per session
	RetentionDays int
}

type IngestConfig struct {
	Topic        string
	ChunkSize    int
	FaqSourceURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "FAQ Support"),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Workflow: WorkflowConfig{
			SufficiencyThreshold: getEnvAsFloat("SUFFICIENCY_THRESHOLD", 0.70),
			OverlapThreshold:     getEnvAsFloat("OVERLAP_THRESHOLD", 0.30),
			MaxScrapeSources:     getEnvAsInt("MAX_SCRAPE_SOURCES", 3),
			RunTimeout:           getEnvAsDuration("RUN_TIMEOUT", 30*time.Second),
			RetrievalTopK:        getEnvAsInt("RETRIEVAL_TOP_K", 3),
			HistoryLimit:         getEnvAsInt("HISTORY_LIMIT", 5),
			SupportEmail:         getEnv("SUPPORT_EMAIL", "support@your-website.com"),
			SearchURLs: getEnvAsList("FAQ_SEARCH_URLS",
				"https://your-website.com/faq,https://your-website.com/help,https://your-website.com/support"),
		},
		Session: SessionConfig{
			CacheCapacity: getEnvAsInt("SESSION_CACHE_CAPACITY", 1000),
			CacheWindow:   getEnvAsInt("SESSION_CACHE_WINDOW", 50),
			RetentionDays: getEnvAsInt("SESSION_RETENTION_DAYS", 30),
		},
		Ingest: IngestConfig{
			Topic:        getEnv("INGEST_FAQ_TOPIC_NAME", "INGEST_FAQ_CONTENT"),
			ChunkSize:    getEnvAsInt("INGEST_CHUNK_SIZE", 1000),
			FaqSourceURL: getEnv("FAQ_SOURCE_URL", "https://your-website.com/faq"),
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

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Query    QueryConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection         string
	MaxIdleConns       int
	MaxOpenConns       int
	ConnMaxLifetimeMin int
}

type APIKeys struct {
	GoogleGemini string
	Dappier      string
	OpenAI       string
	EmbedTopic   string // Document embedding topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string // e.g. "llama3.2", "gpt-3.5-turbo"
	DappierModelId    string
}

type QueryConfig struct {
	DefaultThreshold float64 // used when neither request nor session carries one
	SessionThreshold float64 // seeded into new chat sessions
	RecencyCutoff    float64
	RelevanceCutoff  float64
	TopK             int
	WebTimeoutSec    int
}

type UploadConfig struct {
	MaxFileSizeMB int
	MaxTextLength int
	ChunkSize     int
	ChunkOverlap  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection:         getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns:       getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:       getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetimeMin: getEnvAsInt("DB_CONN_MAX_LIFETIME_MIN", 60),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Dappier:      getEnv("DAPPIER_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			EmbedTopic:   getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3.2"),
			DappierModelId:    getEnv("DAPPIER_MODEL_ID", ""),
		},
		Query: QueryConfig{
			DefaultThreshold: getEnvAsFloat("DEFAULT_THRESHOLD", 0.3),
			SessionThreshold: getEnvAsFloat("SESSION_THRESHOLD", 0.5),
			RecencyCutoff:    getEnvAsFloat("RECENCY_CUTOFF", 0.8),
			RelevanceCutoff:  getEnvAsFloat("RELEVANCE_CUTOFF", 0.7),
			TopK:             getEnvAsInt("RETRIEVAL_TOP_K", 5),
			WebTimeoutSec:    getEnvAsInt("WEB_SEARCH_TIMEOUT_SEC", 20),
		},
		Upload: UploadConfig{
			MaxFileSizeMB: getEnvAsInt("MAX_FILE_SIZE_MB", 10),
			MaxTextLength: getEnvAsInt("MAX_TEXT_LENGTH", 500000),
			ChunkSize:     getEnvAsInt("CHUNK_SIZE", 1500),
			ChunkOverlap:  getEnvAsInt("CHUNK_OVERLAP", 200),
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

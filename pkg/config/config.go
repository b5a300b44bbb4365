package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Ledger    LedgerConfig
	Inference InferenceConfig
	Embedding EmbeddingConfig
	Pipeline  PipelineConfig
	OCR       OCRConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LedgerConfig points at the remote transaction/category API.
type LedgerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// InferenceConfig points at the anomaly reconstruction model server.
type InferenceConfig struct {
	BaseURL string
	Timeout time.Duration
}

type EmbeddingConfig struct {
	// Path to a fastText .vec word-vector file.
	Path string
}

type PipelineConfig struct {
	// Reconstruction error at or below which an image counts as a normal slip.
	AnomalyThreshold float64
	// Cosine similarity a category must strictly exceed to be assigned.
	CategoryThreshold float64
	// When true the categorizer walks whole memo tokens instead of the
	// characters of the first token.
	CategorizeAllTokens bool
}

type OCRConfig struct {
	// Tesseract language codes, comma separated.
	Languages []string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	ledgerTimeout, _ := strconv.Atoi(getEnv("LEDGER_API_TIMEOUT", "10"))
	inferenceTimeout, _ := strconv.Atoi(getEnv("INFERENCE_TIMEOUT", "30"))

	anomalyThreshold, err := strconv.ParseFloat(getEnv("ANOMALY_THRESHOLD", "0.015093279607587579"), 64)
	if err != nil {
		anomalyThreshold = 0.015093279607587579
	}
	categoryThreshold, err := strconv.ParseFloat(getEnv("CATEGORY_THRESHOLD", "0.4"), 64)
	if err != nil {
		categoryThreshold = 0.4
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Ledger: LedgerConfig{
			BaseURL: getEnv("LEDGER_API_BASE_URL", "http://localhost:8090"),
			Timeout: time.Duration(ledgerTimeout) * time.Second,
		},
		Inference: InferenceConfig{
			BaseURL: getEnv("INFERENCE_BASE_URL", "http://localhost:8501"),
			Timeout: time.Duration(inferenceTimeout) * time.Second,
		},
		Embedding: EmbeddingConfig{
			Path: getEnv("EMBEDDING_PATH", "models/word_embedding.vec"),
		},
		Pipeline: PipelineConfig{
			AnomalyThreshold:    anomalyThreshold,
			CategoryThreshold:   categoryThreshold,
			CategorizeAllTokens: getEnv("CATEGORIZE_ALL_TOKENS", "false") == "true",
		},
		OCR: OCRConfig{
			Languages: splitList(getEnv("OCR_LANGUAGES", "eng,tha")),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

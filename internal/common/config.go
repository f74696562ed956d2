package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Extractor strategy names accepted in EXTRACTOR.
const (
	ExtractorHeuristic = "heuristic"
	ExtractorVision    = "vision"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Recognizer RecognizerConfig
	Vision     VisionConfig
	Filing     FilingConfig
	Pipeline   PipelineConfig

	// Extractor selects the field-extraction strategy: "heuristic" (default)
	// or "vision".
	Extractor string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// RecognizerConfig holds text-recognition configuration
type RecognizerConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
}

// VisionConfig holds vision-extractor configuration
type VisionConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  uint
}

// FilingConfig holds filing-destination configuration
type FilingConfig struct {
	Root       string
	StagingDir string
	InboxDirs  []string
	Debounce   time.Duration
}

// PipelineConfig holds worker-pool configuration
type PipelineConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        getEnv("DB_PATH", "docsorter.db"),
			BusyTimeout: getEnvAsDuration("DB_BUSY_TIMEOUT", 5*time.Second),
		},
		Recognizer: RecognizerConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("RECOGNIZER_DPI", 300),
			MaxPages:      getEnvAsInt("RECOGNIZER_MAX_PAGES", 0),
		},
		Vision: VisionConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxRetries:  uint(getEnvAsInt("OPENAI_MAX_RETRIES", 2)),
		},
		Filing: FilingConfig{
			Root:       getEnv("FILING_ROOT", "./filed"),
			StagingDir: getEnv("STAGING_DIR", "./staging"),
			InboxDirs:  splitNonEmpty(getEnv("INBOX_DIRS", "./inbox")),
			Debounce:   getEnvAsDuration("INBOX_DEBOUNCE", 500*time.Millisecond),
		},
		Pipeline: PipelineConfig{
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 4),
			QueueSize:      getEnvAsInt("PIPELINE_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PIPELINE_PROCESS_TIMEOUT", 3*time.Minute),
		},
		Extractor: getEnv("EXTRACTOR", ExtractorHeuristic),
	}
}

// Validate catches configuration that cannot work before anything starts.
func (c *Config) Validate() error {
	switch c.Extractor {
	case ExtractorHeuristic:
	case ExtractorVision:
		if c.Vision.APIKey == "" {
			return fmt.Errorf("EXTRACTOR=vision requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown EXTRACTOR %q (want %s or %s)", c.Extractor, ExtractorHeuristic, ExtractorVision)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("PIPELINE_WORKERS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

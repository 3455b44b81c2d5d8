package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// AIConfig selects the vision engine and models used for extraction.
type AIConfig struct {
	Engine         string // "gemini"|"openai"
	GeminiModel    string
	OpenAIModel    string
	RequestTimeout time.Duration
}

// ExtractConfig defines the retry budget and backoff bases for model calls.
type ExtractConfig struct {
	MaxAttempts    int
	RateLimitDelay time.Duration // base for rate-limit backoff (delay * 2^attempt)
	TransientDelay time.Duration // base for transient backoff
	TransientCap   time.Duration // ceiling for transient backoff
}

// RenderConfig defines PDF rasterization parameters.
type RenderConfig struct {
	DPI         int
	JPEGQuality int
	ColorMode   string // "rgb"|"gray"
	MaxPages    int
}

// BatchConfig defines directory processing behavior.
type BatchConfig struct {
	CallInterval      time.Duration // minimum spacing between model calls
	ResultsFile       string
	MaxFilenameLength int
}

// ArchiveConfig enables optional S3 upload of the results file.
type ArchiveConfig struct {
	Bucket string
	Prefix string
}

// Config is the top-level configuration.
type Config struct {
	Logging     LoggingConfig
	Axiom       AxiomConfig
	AI          AIConfig
	Extract     ExtractConfig
	Render      RenderConfig
	Batch       BatchConfig
	Archive     ArchiveConfig
	MetricsAddr string
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/pdfmeta.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_pdfmeta",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.AI = AIConfig{
		Engine:         strings.ToLower(getEnv("AI_ENGINE", "gemini")),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o"),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "120s"), 120*time.Second),
	}

	cfg.Extract = ExtractConfig{
		MaxAttempts:    parseInt(getEnv("EXTRACT_MAX_ATTEMPTS", "3"), 3),
		RateLimitDelay: parseDuration(getEnv("EXTRACT_RATE_LIMIT_DELAY", "60s"), 60*time.Second),
		TransientDelay: parseDuration(getEnv("EXTRACT_TRANSIENT_DELAY", "5s"), 5*time.Second),
		TransientCap:   parseDuration(getEnv("EXTRACT_TRANSIENT_CAP", "60s"), 60*time.Second),
	}

	cfg.Render = RenderConfig{
		DPI:         parseInt(getEnv("RENDER_DPI", "200"), 200),
		JPEGQuality: parseInt(getEnv("RENDER_JPEG_QUALITY", "85"), 85),
		ColorMode:   getEnv("RENDER_COLOR_MODE", "rgb"),
		MaxPages:    parseInt(getEnv("MAX_PAGES", "2"), 2),
	}

	cfg.Batch = BatchConfig{
		CallInterval:      parseDuration(getEnv("CALL_INTERVAL", "6s"), 6*time.Second),
		ResultsFile:       getEnv("RESULTS_FILE", "pdf_metadata_results.json"),
		MaxFilenameLength: parseInt(getEnv("MAX_FILENAME_LENGTH", "100"), 100),
	}

	cfg.Archive = ArchiveConfig{
		Bucket: getEnv("ARCHIVE_S3_BUCKET", ""),
		Prefix: getEnv("ARCHIVE_S3_PREFIX", "pdfmeta"),
	}

	cfg.MetricsAddr = getEnv("METRICS_ADDR", "")

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}

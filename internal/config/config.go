package config

import (
	"os"
	"strconv"

	"docid-ocr-corrector/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string
	LogLevel        string
	MaxFileSize     int64
	RulesFile       string
	GrammarFile     string
	PageConcurrency int
	InputDir        string
	OutputDir       string
	SupabaseURL     string
	SupabaseKey     string
	ReportsTable    string
}

var _ domain.Config = (*AppConfig)(nil)

// NewConfig creates a new configuration instance from the environment
func NewConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:      getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		MaxFileSize:     getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		RulesFile:       getEnvOrDefault("RULES_FILE", ""),
		GrammarFile:     getEnvOrDefault("GRAMMAR_FILE", ""),
		PageConcurrency: getEnvPositiveIntOrDefault("PAGE_CONCURRENCY", 4),
		InputDir:        getEnvOrDefault("INPUT_DIR", "./input"),
		OutputDir:       getEnvOrDefault("OUTPUT_DIR", "./output"),
		SupabaseURL:     getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:     getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		ReportsTable:    getEnvOrDefault("REPORTS_TABLE", "correction_reports"),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetRulesFile returns the path of a JSON rule table, empty for the defaults
func (c *AppConfig) GetRulesFile() string {
	return c.RulesFile
}

// GetGrammarFile returns the path of a JSON grammar, empty for the default
func (c *AppConfig) GetGrammarFile() string {
	return c.GrammarFile
}

func (c *AppConfig) GetPageConcurrency() int {
	return c.PageConcurrency
}

func (c *AppConfig) GetInputDir() string {
	return c.InputDir
}

func (c *AppConfig) GetOutputDir() string {
	return c.OutputDir
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetReportsTable returns the table correction reports are stored in
func (c *AppConfig) GetReportsTable() string {
	return c.ReportsTable
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvPositiveIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

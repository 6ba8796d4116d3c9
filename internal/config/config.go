package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the application
type Config struct {
	// File paths
	DBPath string

	// Server settings
	ServerHost string
	ServerPort int
	APIKey     string
	ReadOnly   bool

	// Ingestion settings
	Interval     time.Duration
	Country      string
	PageSize     int
	FeedURLs     []string
	SummaryLimit int

	// Collaborator credentials
	NewsAPIKey  string
	OpenAIKey   string
	OpenAIModel string

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration from hardcoded defaults and
// the environment. A .env file next to the binary is honored when present.
func DefaultConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	defaultLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		DBPath:       GetEnvString("DAYBOOK_DB_PATH", DefaultDBPath),
		ServerHost:   DefaultServerHost,
		ServerPort:   DefaultServerPort,
		APIKey:       GetEnvString("DAYBOOK_API_KEY", ""),
		Interval:     GetEnvDuration("DAYBOOK_INTERVAL", time.Duration(DefaultInterval)*time.Minute),
		Country:      DefaultCountry,
		PageSize:     DefaultPageSize,
		SummaryLimit: DefaultSummaryLimit,
		NewsAPIKey:   GetEnvString("NEWS_API_KEY", ""),
		OpenAIKey:    GetEnvString("OPENAI_API_KEY", ""),
		OpenAIModel:  GetEnvString("OPENAI_MODEL", ""),
		LogLevel:     GetEnvLogLevel("DAYBOOK_LOG_LEVEL", defaultLevel),
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

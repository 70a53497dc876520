package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Server holds the settings for cmd/server. Values come from the environment
// (optionally seeded from a .env file by godotenv in main).
type Server struct {
	PostgresDSN string   // POSTGRES_DSN (required)
	HTTPAddr    string   // HTTP_ADDR (default ":8080")
	ElasticURL  string   // ELASTIC_URL (optional, empty = no search sync)
	CORSOrigins []string // CORS_ORIGINS (comma separated)
	LogLevel    string   // LOG_LEVEL (default "info")
	LogFormat   string   // LOG_FORMAT (default "text")
	Seed        bool     // SEED (default true)
	PDFFont     string   // PDF_FONT_FILE (optional TrueType font for PDF exports)
}

func Load() (*Server, error) {
	c := &Server{
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		HTTPAddr:    envOrDefault("HTTP_ADDR", ":8080"),
		ElasticURL:  os.Getenv("ELASTIC_URL"),
		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
		PDFFont:     os.Getenv("PDF_FONT_FILE"),
		Seed:        true,
	}
	if c.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	if v := os.Getenv("SEED"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SEED: %w", err)
		}
		c.Seed = seed
	}
	return c, nil
}

// SyncEnabled reports whether the Elasticsearch sync worker should run.
func (c *Server) SyncEnabled() bool {
	return c.ElasticURL != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

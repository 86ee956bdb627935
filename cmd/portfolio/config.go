package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration.
type Config struct {
	Server ServerConfig
	GitHub GitHubConfig
	PDF    PDFConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type GitHubConfig struct {
	Token string
}

type PDFConfig struct {
	ChromiumPath string
	Headless     bool
	Timeout      time.Duration
	Args         []string
}

type LogConfig struct {
	Level string
	File  string
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: "8080"},
		PDF:    PDFConfig{Headless: true, Timeout: 45 * time.Second},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults plus environment overrides. A
// .env file in the working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Defaults()
	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if path := os.Getenv("PDF_CHROMIUM_PATH"); path != "" {
		cfg.PDF.ChromiumPath = path
	}
	if headless := os.Getenv("PDF_HEADLESS"); headless != "" {
		if parsed, err := strconv.ParseBool(headless); err == nil {
			cfg.PDF.Headless = parsed
		}
	}
	if timeout := os.Getenv("PDF_TIMEOUT_SECONDS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			cfg.PDF.Timeout = time.Duration(parsed) * time.Second
		}
	}
	if args := os.Getenv("PDF_CHROMIUM_ARGS"); args != "" {
		cfg.PDF.Args = splitCSV(args)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
	return cfg
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

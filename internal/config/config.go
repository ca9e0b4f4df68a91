package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is loaded once at startup and
// injected into the services that need it; nothing reads the environment
// after Load returns.
type Config struct {
	// Server settings
	ListenAddr string
	Debug      bool

	// Data and asset paths
	CSVFile            string
	TemplatesDirectory string
	StaticDirectory    string
	StyleFile          string
	LogoFile           string

	// Assistant settings
	AIBaseURL string
	AIModel   string
	AIKey     string
	AITimeout time.Duration
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:         ":8080",
		Debug:              false,
		CSVFile:            filepath.Join(wd, "data", "transactions.csv"),
		TemplatesDirectory: filepath.Join(wd, "web", "templates"),
		StaticDirectory:    filepath.Join(wd, "web", "static"),
		StyleFile:          filepath.Join(wd, "web", "static", "style.css"),
		LogoFile:           filepath.Join(wd, "web", "static", "logo.svg"),
		AIBaseURL:          "https://openrouter.ai/api/v1",
		AIModel:            "deepseek-chat",
		AITimeout:          60 * time.Second,
	}
}

// Load loads configuration from a .env file (if present) and environment
// variables, applying defaults for anything unset.
func Load() *Config {
	// Optional; a missing .env just means plain environment variables
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg := DefaultConfig()

	if addr := os.Getenv("TXVIEW_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("TXVIEW_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if csvFile := os.Getenv("TXVIEW_CSV_FILE"); csvFile != "" {
		cfg.CSVFile = csvFile
	}
	if templatesDir := os.Getenv("TXVIEW_TEMPLATES_DIR"); templatesDir != "" {
		cfg.TemplatesDirectory = templatesDir
	}
	if staticDir := os.Getenv("TXVIEW_STATIC_DIR"); staticDir != "" {
		cfg.StaticDirectory = staticDir
		cfg.StyleFile = filepath.Join(staticDir, "style.css")
		cfg.LogoFile = filepath.Join(staticDir, "logo.svg")
	}
	if styleFile := os.Getenv("TXVIEW_STYLE_FILE"); styleFile != "" {
		cfg.StyleFile = styleFile
	}
	if logoFile := os.Getenv("TXVIEW_LOGO_FILE"); logoFile != "" {
		cfg.LogoFile = logoFile
	}

	if baseURL := os.Getenv("TXVIEW_AI_BASE_URL"); baseURL != "" {
		cfg.AIBaseURL = baseURL
	}
	if model := os.Getenv("TXVIEW_AI_MODEL"); model != "" {
		cfg.AIModel = model
	}
	if timeout := os.Getenv("TXVIEW_AI_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.AITimeout = d
		} else {
			log.Printf("Warning: invalid TXVIEW_AI_TIMEOUT %q: %v", timeout, err)
		}
	}
	cfg.AIKey = os.Getenv("DEEPSEEK_API_KEY")

	return cfg
}

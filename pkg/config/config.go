package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// API is the proxy route that fronts the scraping backend.
	API struct {
		Port int    `toml:"port"`
		Host string `toml:"host"`
		// BackendOrigin is server-side only; the client never sees it.
		BackendOrigin string `toml:"backend_origin"`
	} `toml:"api"`

	// CLI
	CLI struct {
		BaseURL         string `toml:"base_url"`       // Client-visible base URL used to reach the proxy
		SubmitTimeout   int    `toml:"submit_timeout"` // Timeout for job submissions in seconds
		DefaultMaxPages int    `toml:"default_max_pages"`
	} `toml:"cli"`

	// Engine is the scraping backend service.
	Engine struct {
		Port              int     `toml:"port"`
		Host              string  `toml:"host"`
		DefaultPageLimit  int     `toml:"default_page_limit"`
		MaxPageLimit      int     `toml:"max_page_limit"`
		HTTPTimeout       int     `toml:"http_timeout"` // Per-page fetch timeout in seconds
		RequestsPerSecond float64 `toml:"requests_per_second"`
		MaxConcurrent     int     `toml:"max_concurrent"`
		// OpenAIAPIKey enables LLM intent analysis; when empty (and
		// OPENAI_API_KEY is unset) the engine plans heuristically.
		OpenAIAPIKey string `toml:"openai_api_key"`
		OpenAIModel  string `toml:"openai_model"`
	} `toml:"engine"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.API.Port = 8080
	cfg.API.Host = "0.0.0.0"
	cfg.API.BackendOrigin = "http://localhost:8000"
	cfg.CLI.BaseURL = "http://localhost:8080"
	cfg.CLI.SubmitTimeout = 120 // scrapes can be slow; the transport bounds latency
	cfg.CLI.DefaultMaxPages = 0 // 0 means "let the backend decide"
	cfg.Engine.Port = 8000
	cfg.Engine.Host = "0.0.0.0"
	cfg.Engine.DefaultPageLimit = 1
	cfg.Engine.MaxPageLimit = 5
	cfg.Engine.HTTPTimeout = 20
	cfg.Engine.RequestsPerSecond = 4
	cfg.Engine.MaxConcurrent = 2
	cfg.Engine.OpenAIAPIKey = ""
	cfg.Engine.OpenAIModel = "gpt-4o-mini"
	return cfg
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "prompt-scrape")
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads configuration from ~/.config/prompt-scrape/config.toml
// Creates the file with defaults if it doesn't exist
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnv(cfg)
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge with defaults for any missing values
	defaultCfg := DefaultConfig()
	if cfg.API.Port == 0 {
		cfg.API.Port = defaultCfg.API.Port
	}
	if cfg.API.Host == "" {
		cfg.API.Host = defaultCfg.API.Host
	}
	if cfg.API.BackendOrigin == "" {
		cfg.API.BackendOrigin = defaultCfg.API.BackendOrigin
	}
	if cfg.CLI.BaseURL == "" {
		cfg.CLI.BaseURL = defaultCfg.CLI.BaseURL
	}
	if cfg.CLI.SubmitTimeout == 0 {
		cfg.CLI.SubmitTimeout = defaultCfg.CLI.SubmitTimeout
	}
	if cfg.Engine.Port == 0 {
		cfg.Engine.Port = defaultCfg.Engine.Port
	}
	if cfg.Engine.Host == "" {
		cfg.Engine.Host = defaultCfg.Engine.Host
	}
	if cfg.Engine.DefaultPageLimit == 0 {
		cfg.Engine.DefaultPageLimit = defaultCfg.Engine.DefaultPageLimit
	}
	if cfg.Engine.MaxPageLimit == 0 {
		cfg.Engine.MaxPageLimit = defaultCfg.Engine.MaxPageLimit
	}
	if cfg.Engine.HTTPTimeout == 0 {
		cfg.Engine.HTTPTimeout = defaultCfg.Engine.HTTPTimeout
	}
	if cfg.Engine.RequestsPerSecond == 0 {
		cfg.Engine.RequestsPerSecond = defaultCfg.Engine.RequestsPerSecond
	}
	if cfg.Engine.MaxConcurrent == 0 {
		cfg.Engine.MaxConcurrent = defaultCfg.Engine.MaxConcurrent
	}
	if cfg.Engine.OpenAIModel == "" {
		cfg.Engine.OpenAIModel = defaultCfg.Engine.OpenAIModel
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv overrides selected values from environment variables (useful for Docker)
func applyEnv(cfg *Config) {
	if origin := os.Getenv("BACKEND_ORIGIN"); origin != "" {
		cfg.API.BackendOrigin = origin
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.CLI.BaseURL = baseURL
	}
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

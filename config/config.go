package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	APIKey          string   `json:"api_key"`
	BaseURL         string   `json:"base_url"`
	ChatModel       string   `json:"chat_model"`
	TranscribeModel string   `json:"transcribe_model"`
	EmbeddingModel  string   `json:"embedding_model"`
	DatabaseURL     string   `json:"database_url"`
	Addr            string   `json:"addr"`
	AllowedOrigins  []string `json:"allowed_origins"`
}

var globalConfig *Config

// Load reads config.json when present and overrides each field with
// environment variables. Without a file it falls back to env only.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config := defaultConfig()
	if data, err := os.ReadFile("config.json"); err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config.json: %w", err)
		}
		fillDefaults(config)
	}
	applyEnv(config)

	globalConfig = config
	return globalConfig, nil
}

// Reset clears the cached config so tests can reload it.
func Reset() {
	globalConfig = nil
}

func defaultConfig() *Config {
	return &Config{
		BaseURL:         "https://api.openai.com/v1",
		ChatModel:       "gpt-3.5-turbo",
		TranscribeModel: "whisper-1",
		EmbeddingModel:  "text-embedding-ada-002",
		Addr:            ":8000",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:3001",
		},
	}
}

func fillDefaults(c *Config) {
	d := defaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.ChatModel == "" {
		c.ChatModel = d.ChatModel
	}
	if c.TranscribeModel == "" {
		c.TranscribeModel = d.TranscribeModel
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = d.EmbeddingModel
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = d.AllowedOrigins
	}
}

func applyEnv(c *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" {
		c.APIKey = key
	}
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		c.BaseURL = url
	}
	if model := os.Getenv("CHAT_MODEL"); model != "" {
		c.ChatModel = model
	}
	if model := os.Getenv("TRANSCRIBE_MODEL"); model != "" {
		c.TranscribeModel = model
	}
	if model := os.Getenv("EMBEDDING_MODEL"); model != "" {
		c.EmbeddingModel = model
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.DatabaseURL = url
	}
	if addr := os.Getenv("ADDR"); addr != "" {
		c.Addr = addr
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		c.AllowedOrigins = c.AllowedOrigins[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, p)
			}
		}
	}
}

func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.APIKey) == "" {
		errors = append(errors, "API key is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		errors = append(errors, "base URL is required")
	}
	if strings.TrimSpace(c.ChatModel) == "" {
		errors = append(errors, "chat model is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

func (c *Config) HasValidAPI() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.BaseURL) != ""
}

func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

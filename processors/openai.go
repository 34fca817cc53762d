package processors

import (
	"os"

	openai "github.com/sashabaranov/go-openai"

	"studybuddy/config"
)

// openaiClient builds a client from the loaded config, falling back to
// the raw environment when config loading fails.
func openaiClient() *openai.Client {
	cfg, err := config.Load()
	if err != nil {
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"))
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

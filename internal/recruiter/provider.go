package recruiter

import (
	"context"
	"fmt"

	"github.com/spigell/blacktable/internal/ai"
	"github.com/spigell/blacktable/internal/ai/gemini"
	"github.com/spigell/blacktable/internal/ai/openrouter"
	"github.com/spigell/blacktable/internal/config"
	"github.com/spigell/blacktable/internal/secrets"

	"go.uber.org/zap"
)

// NewProvider builds the backend named by cfg.Provider. A key that cannot be
// resolved is a MissingCredentials failure.
func NewProvider(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (ai.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Value: cfg.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		provider, err := gemini.New(ctx, apiKey, cfg.Gemini.Model, log)
		if err != nil {
			return nil, err
		}
		return provider, nil

	case config.ProviderOpenRouter:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openrouter api key",
			File:  cfg.OpenRouter.APIKeyFile,
			Value: cfg.OpenRouter.APIKey,
			Env:   "OPENROUTER_API_KEY",
		})
		if err != nil {
			return nil, err
		}
		provider, err := openrouter.New(openrouter.Config{
			APIKey:  apiKey,
			BaseURL: cfg.OpenRouter.BaseURL,
			Model:   cfg.OpenRouter.Model,
			Timeout: cfg.OpenRouter.Timeout,
			Title:   config.Name,
		}, log)
		if err != nil {
			return nil, err
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

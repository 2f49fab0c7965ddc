// Package config loads blacktable settings from a YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	Name      = "blacktable"
	envPrefix = "BLACKTABLE"

	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	AI        AIConfig        `mapstructure:"ai"`
	Server    ServerConfig    `mapstructure:"server"`
	Questions QuestionsConfig `mapstructure:"questions"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

type AIConfig struct {
	Provider     string           `mapstructure:"provider"`
	Temperature  float64          `mapstructure:"temperature"`
	MaxTokens    int              `mapstructure:"max-tokens"`
	MaxLogLength int              `mapstructure:"max-log-length"`
	Gemini       GeminiConfig     `mapstructure:"gemini"`
	OpenRouter   OpenRouterConfig `mapstructure:"openrouter"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenRouterConfig struct {
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base-url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	BodyLimitMB int           `mapstructure:"body-limit-mb"`
	RateLimit   int           `mapstructure:"rate-limit"`
	RateWindow  time.Duration `mapstructure:"rate-window"`
}

type QuestionsConfig struct {
	Count             int     `mapstructure:"count"`
	PersonalizedRatio float64 `mapstructure:"personalized-ratio"`
}

// SetDefaults registers every known key so that environment overrides are
// picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.max-tokens", 4000)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.openrouter.api-key", "")
	v.SetDefault("ai.openrouter.api-key-file", "")
	v.SetDefault("ai.openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("ai.openrouter.base-url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.openrouter.timeout", 90*time.Second)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.body-limit-mb", 10)
	v.SetDefault("server.rate-limit", 50)
	v.SetDefault("server.rate-window", time.Minute)

	v.SetDefault("questions.count", 10)
	v.SetDefault("questions.personalized-ratio", 0.3)
}

// Load reads .env (if present), the config file and the environment into v and
// returns the validated result. An empty file means blacktable.yaml in the
// working directory, which may be absent; an explicit file must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("ai.gemini.api-key", envPrefix+"_AI_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("ai.openrouter.api-key", envPrefix+"_AI_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind OPENROUTER_API_KEY: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the pipelines cannot work with.
func (c *Config) Validate() error {
	var errs []error

	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		errs = append(errs, fmt.Errorf("ai.provider %q is not supported (use %s or %s)", c.AI.Provider, ProviderGemini, ProviderOpenRouter))
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("ai.temperature %v is outside [0, 2]", c.AI.Temperature))
	}
	if c.AI.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("ai.max-tokens must be positive, got %d", c.AI.MaxTokens))
	}
	if c.Questions.PersonalizedRatio < 0 || c.Questions.PersonalizedRatio > 1 {
		errs = append(errs, fmt.Errorf("questions.personalized-ratio %v is outside [0, 1]", c.Questions.PersonalizedRatio))
	}
	if c.Questions.Count < 0 {
		errs = append(errs, fmt.Errorf("questions.count must not be negative, got %d", c.Questions.Count))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate-limit must not be negative, got %d", c.Server.RateLimit))
	}

	return errors.Join(errs...)
}

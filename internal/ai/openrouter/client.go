// Package openrouter talks to OpenAI-compatible chat completion endpoints such as OpenRouter.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/blacktable/internal/ai"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/logger"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	ProviderName   = "openrouter"
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-4o-mini"
	defaultTimeout = 90 * time.Second
)

// Config configures the chat completions client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// Referer and Title are sent as OpenRouter attribution headers when set.
	Referer string
	Title   string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// Provider sends prompts to /chat/completions. It is read-only after construction.
type Provider struct {
	http   *resty.Client
	model  string
	logger *zap.Logger
}

// New builds a Provider from cfg.
func New(cfg Config, log *zap.Logger) (*Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, failure.New(failure.MissingCredentials, "openrouter api key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	if cfg.Referer != "" {
		client.SetHeader("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		client.SetHeader("X-Title", cfg.Title)
	}

	return &Provider{
		http:   client,
		model:  model,
		logger: logger.ForProvider(log, ProviderName, model),
	}, nil
}

// CompleteJSON requests a json_object response.
func (p *Provider) CompleteJSON(ctx context.Context, system, prompt string, opts ai.Options) (string, error) {
	return p.complete(ctx, system, prompt, opts, &responseFormat{Type: "json_object"})
}

// CompleteText requests a plain text response.
func (p *Provider) CompleteText(ctx context.Context, system, prompt string, opts ai.Options) (string, error) {
	return p.complete(ctx, system, prompt, opts, nil)
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Model() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *Provider) complete(ctx context.Context, system, prompt string, opts ai.Options, format *responseFormat) (string, error) {
	if p == nil || p.http == nil {
		return "", errors.New("openrouter provider is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	opts = opts.WithDefaults()

	messages := make([]message, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, message{Role: "system", Content: system})
	}
	messages = append(messages, message{Role: "user", Content: prompt})

	body := chatRequest{
		Model:          p.model,
		Messages:       messages,
		Temperature:    opts.Temperature,
		MaxTokens:      opts.MaxTokens,
		ResponseFormat: format,
	}

	p.logger.Debug("openrouter chat completion request", zap.Int("prompt_length", utf8.RuneCountInString(prompt)))

	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}

	payload := resp.String()
	if resp.IsError() {
		msg := gjson.Get(payload, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(payload)
		}
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode(), msg)
	}

	if !gjson.Valid(payload) {
		return "", errors.New("chat completion returned invalid json")
	}

	if msg := gjson.Get(payload, "error.message"); msg.Exists() {
		return "", fmt.Errorf("chat completion failed: %s", msg.String())
	}

	output := strings.TrimSpace(gjson.Get(payload, "choices.0.message.content").String())
	if output == "" {
		return "", errors.New("chat completion returned empty response")
	}

	p.logger.Debug("openrouter chat completion response",
		zap.Int("status", resp.StatusCode()),
		zap.Int("response_length", utf8.RuneCountInString(output)),
	)

	return output, nil
}

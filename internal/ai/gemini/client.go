package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/blacktable/internal/ai"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ProviderName = "gemini"
	defaultModel = "gemini-2.5-flash"
)

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider wraps the Google GenAI client. It is read-only after construction.
type Provider struct {
	models    contentModels
	modelName string
	logger    *zap.Logger
}

// New creates a Provider configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, log *zap.Logger) (*Provider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, failure.New(failure.MissingCredentials, "gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, failure.Wrap(failure.ProviderUnavailable, err, "create genai client")
	}

	return newProvider(client.Models, model, log), nil
}

func newProvider(models contentModels, model string, log *zap.Logger) *Provider {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Provider{
		models:    models,
		modelName: model,
		logger:    logger.ForProvider(log, ProviderName, model),
	}
}

// CompleteJSON requests an application/json response.
func (p *Provider) CompleteJSON(ctx context.Context, system, prompt string, opts ai.Options) (string, error) {
	cfg := p.config(system, opts)
	cfg.ResponseMIMEType = "application/json"
	return p.generateContent(ctx, prompt, cfg)
}

// CompleteText requests a plain text response.
func (p *Provider) CompleteText(ctx context.Context, system, prompt string, opts ai.Options) (string, error) {
	return p.generateContent(ctx, prompt, p.config(system, opts))
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Model() string {
	if p == nil {
		return ""
	}
	return p.modelName
}

func (p *Provider) config(system string, opts ai.Options) *genai.GenerateContentConfig {
	opts = opts.WithDefaults()

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.MaxTokens),
	}

	if system = strings.TrimSpace(system); system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	return cfg
}

func (p *Provider) generateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if p == nil || p.models == nil {
		return "", errors.New("gemini provider is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	p.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("response_mime_type", config.ResponseMIMEType),
	)

	resp, err := p.models.GenerateContent(ctx, p.modelName, genai.Text(prompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			p.logger.Debug("gemini api error", zap.Int("code", apiErr.Code), zap.String("status", apiErr.Status))
		}
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini api returned nil response")
	}

	return answerText(resp)
}

// answerText joins the text parts of the first candidate, leaving out thought
// summaries. Blocked prompts and empty or truncated answers are errors.
func answerText(resp *genai.GenerateContentResponse) (string, error) {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked the prompt: %s %s", fb.BlockReason, fb.BlockReasonMessage)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", errors.New("gemini api returned no candidates")
	}

	candidate := resp.Candidates[0]
	var b strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
	}

	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", fmt.Errorf("gemini api returned an empty answer (finish reason %q)", candidate.FinishReason)
	}
	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return "", fmt.Errorf("gemini answer was cut at the output token limit after %d characters", len(answer))
	}
	return answer, nil
}

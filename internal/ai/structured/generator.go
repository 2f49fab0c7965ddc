// Package structured turns free-form model output into typed values.
package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/blacktable/internal/ai"
	"github.com/spigell/blacktable/internal/ai/schema"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/logger"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

// Request is a single structured generation.
type Request struct {
	System string
	Prompt string
	Schema schema.Schema
}

// Generator sends schema-annotated prompts to a provider and decodes validated answers.
// It holds no per-request state.
type Generator struct {
	provider  ai.Provider
	opts      ai.Options
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerator(provider ai.Provider, opts ai.Options, log *zap.Logger, maxLogLength int) *Generator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	var name, model string
	if provider != nil {
		name, model = provider.Name(), provider.Model()
	}

	return &Generator{
		provider:  provider,
		opts:      opts.WithDefaults(),
		logger:    logger.ForProvider(log, name, model),
		maxLogLen: maxLogLength,
	}
}

// Generate fills out, a pointer to a struct with json tags, from the model answer.
// Provider errors are reported as ProviderUnavailable; anything that does not
// satisfy req.Schema is reported as SchemaMismatch. Nothing is retried.
func (g *Generator) Generate(ctx context.Context, req Request, out any) error {
	if g == nil || g.provider == nil {
		return failure.New(failure.ProviderUnavailable, "no provider configured")
	}

	prompt := schema.Prompt(req.Schema, req.Prompt)

	log := logger.Scoped(g.logger, logger.Scope{Schema: req.Schema.Name})
	log.Debug("structured generation request", logger.Preview("prompt", req.Prompt, g.maxLogLen)...)

	raw, err := g.provider.CompleteJSON(ctx, req.System, prompt, g.opts)
	if err != nil {
		return asProviderFailure(err, req.Schema.Name)
	}

	log.Debug("structured generation response", logger.Preview("response", raw, g.maxLogLen)...)

	if err := Decode(raw, req.Schema, out); err != nil {
		log.Debug("structured generation rejected", zap.Error(err))
		return err
	}

	return nil
}

// Text returns a free-form answer.
func (g *Generator) Text(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.provider == nil {
		return "", failure.New(failure.ProviderUnavailable, "no provider configured")
	}

	raw, err := g.provider.CompleteText(ctx, system, prompt, g.opts)
	if err != nil {
		return "", asProviderFailure(err, "text")
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return "", failure.New(failure.ProviderUnavailable, "provider returned empty text")
	}
	return text, nil
}

// Decode validates raw against s and decodes it into out.
func Decode(raw string, s schema.Schema, out any) error {
	doc, err := answerObject(raw)
	if err != nil {
		return failure.Wrap(failure.SchemaMismatch, err, "%s", s.Name)
	}

	normalised, err := s.Validate(doc.Value())
	if err != nil {
		return failure.Wrap(failure.SchemaMismatch, err, "%s", s.Name)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: false,
	})
	if err != nil {
		return failure.Wrap(failure.SchemaMismatch, err, "%s: prepare decoder", s.Name)
	}

	if err := decoder.Decode(normalised); err != nil {
		return failure.Wrap(failure.SchemaMismatch, err, "%s: decode into result", s.Name)
	}

	return nil
}

func asProviderFailure(err error, what string) error {
	var f *failure.Error
	if errors.As(err, &f) {
		return err
	}
	return failure.Wrap(failure.ProviderUnavailable, err, "%s", what)
}

// answerObject finds the JSON object in a model answer. Models wrap it in a
// markdown fence or put a sentence before it often enough that both are accepted.
func answerObject(raw string) (gjson.Result, error) {
	body := unfence(strings.TrimSpace(raw))
	if body == "" {
		return gjson.Result{}, errors.New("response is empty")
	}

	if !gjson.Valid(body) {
		start, end := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}')
		if start == -1 || end <= start || !gjson.Valid(body[start:end+1]) {
			return gjson.Result{}, errors.New("response is not valid json")
		}
		body = body[start : end+1]
	}

	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("response is a json %s, not an object", doc.Type)
	}
	return doc, nil
}

// unfence returns the body of the first markdown code block in s, or s itself.
func unfence(s string) string {
	open := strings.Index(s, "```")
	if open == -1 {
		return s
	}
	body := s[open+3:]
	// info string such as "json"
	body = strings.TrimLeft(body, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

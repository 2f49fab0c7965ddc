// Package ai describes the language-model capability the pipelines depend on.
package ai

import "context"

const (
	// DefaultMaxTokens bounds the length of a single completion.
	DefaultMaxTokens = 4000
	// DefaultTemperature keeps structured output close to deterministic.
	DefaultTemperature = 0.1
)

// Options tune a single completion request.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// WithDefaults fills zero values with the package defaults.
func (o Options) WithDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature < 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}

// Provider is an LLM backend. Implementations must be safe for concurrent use
// once constructed.
type Provider interface {
	// CompleteJSON asks the model for a JSON document and returns the raw text.
	CompleteJSON(ctx context.Context, system, prompt string, opts Options) (string, error)
	// CompleteText asks the model for free-form text.
	CompleteText(ctx context.Context, system, prompt string, opts Options) (string, error)
	Name() string
	Model() string
}

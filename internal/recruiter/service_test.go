package recruiter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spigell/blacktable/internal/ai"
	"github.com/spigell/blacktable/internal/application"
	"github.com/spigell/blacktable/internal/config"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/fitscore"
	"github.com/spigell/blacktable/internal/questions"
)

// queueProvider answers calls in order from a fixed list of replies.
type queueProvider struct {
	replies []string
	calls   int
	opts    []ai.Options
}

func (q *queueProvider) next(opts ai.Options) (string, error) {
	q.opts = append(q.opts, opts)
	if q.calls >= len(q.replies) {
		return "", errors.New("no more replies")
	}
	reply := q.replies[q.calls]
	q.calls++
	return reply, nil
}

func (q *queueProvider) CompleteJSON(_ context.Context, _, _ string, opts ai.Options) (string, error) {
	return q.next(opts)
}

func (q *queueProvider) CompleteText(_ context.Context, _, _ string, opts ai.Options) (string, error) {
	return q.next(opts)
}

func (q *queueProvider) Name() string  { return "queue" }
func (q *queueProvider) Model() string { return "queue-1" }

func testConfig() *config.Config {
	return &config.Config{
		AI:        config.AIConfig{Provider: config.ProviderGemini, Temperature: 0.2, MaxTokens: 1000},
		Questions: config.QuestionsConfig{Count: 6, PersonalizedRatio: 0.5},
	}
}

const (
	resumeJSON       = `{"about": {"name": "Jane Doe", "total_work_experience": "4"}, "skills": ["Go", "SQL"], "work_experience": [{"title": "Engineer", "company": "Acme", "description": ["Built billing in Go"]}]}`
	requirementsJSON = `{"title": "Go Engineer", "required_skills": ["Go"], "experience_requirements": ["billing"], "seniority_level": "mid"}`
	overallJSON      = `{"score": 88, "category": "excellent", "confidence": 0.9, "potential_score": 92, "summary": "Great", "hiring_recommendation": "strongly_recommend"}`
)

func TestServiceParseAndFit(t *testing.T) {
	t.Parallel()

	provider := &queueProvider{replies: []string{resumeJSON, requirementsJSON, overallJSON, "Strong candidate."}}
	svc := NewWithProvider(provider, testConfig(), nil)

	profile, err := svc.ParseResume(context.Background(), "Jane Doe, Go engineer")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if profile.Name() != "Jane Doe" || profile.Years() != 4 || profile.Projects == nil {
		t.Fatalf("unexpected profile %+v", profile)
	}

	result, err := svc.CalculateFit(context.Background(), profile, "Go Engineer wanted")
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if result.Source != fitscore.SourceLLM || result.Score != 88 || result.SkillScore != 90 {
		t.Fatalf("unexpected fit %+v", result)
	}

	if err := svc.AssessFit(context.Background(), profile, result); err != nil {
		t.Fatalf("assess: %v", err)
	}
	if result.Assessment != "Strong candidate." {
		t.Fatalf("unexpected assessment %q", result.Assessment)
	}

	for _, opts := range provider.opts {
		if opts.MaxTokens != 1000 || opts.Temperature != 0.2 {
			t.Fatalf("expected configured options, got %+v", opts)
		}
	}
}

func TestServiceRejectsUnsupportedDocumentBeforeCallingProvider(t *testing.T) {
	t.Parallel()

	provider := &queueProvider{replies: []string{resumeJSON}}
	svc := NewWithProvider(provider, testConfig(), nil)

	_, err := svc.ParseResumeFile(context.Background(), filepath.Join(t.TempDir(), "resume.xyz"))
	if !errors.Is(err, failure.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", provider.calls)
	}
}

func TestServiceAnalyzeApplicationFailure(t *testing.T) {
	t.Parallel()

	provider := &queueProvider{replies: []string{`{"ai_score": "high"}`}}
	svc := NewWithProvider(provider, testConfig(), nil)

	evaluation, err := svc.AnalyzeApplication(context.Background(),
		application.JobPosting{Title: "Go Engineer", Description: "Go"},
		application.Application{},
	)
	if evaluation != nil || !errors.Is(err, failure.ErrAnalysisFailed) {
		t.Fatalf("expected analysis failure, got %+v, %v", evaluation, err)
	}
}

func TestServiceQuestions(t *testing.T) {
	t.Parallel()

	provider := &queueProvider{}
	svc := NewWithProvider(provider, testConfig(), nil)

	if d := svc.QuestionDefaults(); d.Count != 6 || d.PersonalizedRatio != 0.5 {
		t.Fatalf("unexpected defaults %+v", d)
	}

	_, err := svc.GenerateQuestions(context.Background(), questions.StandardRequest{JobDescription: "job", Round: "lunch", Count: 3})
	if !errors.Is(err, failure.ErrUnknownRound) {
		t.Fatalf("expected unknown round, got %v", err)
	}
	if provider.calls != 0 || len(provider.opts) != 0 {
		t.Fatalf("expected no provider calls")
	}
}

func TestNewProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	tests := []struct {
		name    string
		cfg     config.AIConfig
		want    string
		wantErr error
	}{
		{name: "gemini without key", cfg: config.AIConfig{Provider: config.ProviderGemini}, wantErr: failure.ErrMissingCredentials},
		{name: "openrouter without key", cfg: config.AIConfig{Provider: config.ProviderOpenRouter}, wantErr: failure.ErrMissingCredentials},
		{name: "gemini", cfg: config.AIConfig{Provider: config.ProviderGemini, Gemini: config.GeminiConfig{APIKey: "key", Model: "gemini-2.5-pro"}}, want: "gemini/gemini-2.5-pro"},
		{name: "openrouter", cfg: config.AIConfig{Provider: config.ProviderOpenRouter, OpenRouter: config.OpenRouterConfig{APIKey: "key"}}, want: "openrouter/openai/gpt-4o-mini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.cfg, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || provider != nil {
					t.Fatalf("expected %v, got %v, %v", tt.wantErr, provider, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := provider.Name() + "/" + provider.Model(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("openrouter key from environment", func(t *testing.T) {
		t.Setenv("OPENROUTER_API_KEY", "env-key")
		if _, err := NewProvider(context.Background(), config.AIConfig{Provider: config.ProviderOpenRouter}, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if _, err := NewProvider(context.Background(), config.AIConfig{Provider: "bard"}, nil); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}

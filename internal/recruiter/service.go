// Package recruiter wires the provider, the document converter and the
// pipelines into a single entry point used by the CLI and the HTTP server.
package recruiter

import (
	"context"
	"io"

	"github.com/spigell/blacktable/internal/ai"
	"github.com/spigell/blacktable/internal/ai/structured"
	"github.com/spigell/blacktable/internal/application"
	"github.com/spigell/blacktable/internal/config"
	"github.com/spigell/blacktable/internal/document"
	"github.com/spigell/blacktable/internal/fitscore"
	"github.com/spigell/blacktable/internal/questions"
	"github.com/spigell/blacktable/internal/resume"

	"go.uber.org/zap"
)

// Service exposes the caller-facing operations. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	provider  ai.Provider
	parser    *resume.Parser
	matcher   *fitscore.Matcher
	analyzer  *application.Analyzer
	questions *questions.Synthesizer
	defaults  config.QuestionsConfig
	logger    *zap.Logger
}

// New builds the provider selected in cfg and the pipelines on top of it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Service, error) {
	provider, err := NewProvider(ctx, cfg.AI, log)
	if err != nil {
		return nil, err
	}
	return NewWithProvider(provider, cfg, log), nil
}

// NewWithProvider builds the pipelines on top of an existing provider.
func NewWithProvider(provider ai.Provider, cfg *config.Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	gen := structured.NewGenerator(provider, ai.Options{
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	}, log, cfg.AI.MaxLogLength)

	matcher := fitscore.NewMatcher(gen, log)

	log.Debug("recruiter service ready",
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()),
	)

	return &Service{
		provider:  provider,
		parser:    resume.NewParser(gen, document.NewConverter(log), log),
		matcher:   matcher,
		analyzer:  application.NewAnalyzer(gen, matcher, log),
		questions: questions.NewSynthesizer(gen, log),
		defaults:  cfg.Questions,
		logger:    log,
	}
}

// Provider reports the backend in use.
func (s *Service) Provider() ai.Provider {
	return s.provider
}

// QuestionDefaults are the configured question count and personalized ratio.
func (s *Service) QuestionDefaults() config.QuestionsConfig {
	return s.defaults
}

func (s *Service) ParseResume(ctx context.Context, text string) (*resume.Profile, error) {
	return s.parser.ParseText(ctx, text)
}

func (s *Service) ParseResumeFile(ctx context.Context, path string) (*resume.Profile, error) {
	return s.parser.ParseFile(ctx, path)
}

// ParseResumeUpload parses an uploaded document; name supplies the extension.
func (s *Service) ParseResumeUpload(ctx context.Context, name string, r io.Reader) (*resume.Profile, error) {
	return s.parser.Parse(ctx, name, r)
}

func (s *Service) CalculateFit(ctx context.Context, profile *resume.Profile, jobDescription string) (*fitscore.Result, error) {
	return s.matcher.Calculate(ctx, profile, jobDescription)
}

// AssessFit adds the narrative assessment to result.
func (s *Service) AssessFit(ctx context.Context, profile *resume.Profile, result *fitscore.Result) error {
	text, err := s.matcher.Assess(ctx, profile, result)
	if err != nil {
		return err
	}
	result.Assessment = text
	return nil
}

func (s *Service) AnalyzeApplication(ctx context.Context, job application.JobPosting, app application.Application) (*application.Evaluation, error) {
	return s.analyzer.Analyze(ctx, job, app)
}

func (s *Service) GenerateQuestions(ctx context.Context, req questions.StandardRequest) ([]questions.Question, error) {
	return s.questions.Standard(ctx, req)
}

func (s *Service) GeneratePersonalizedQuestions(ctx context.Context, req questions.PersonalizedRequest) ([]questions.Question, error) {
	return s.questions.Personalized(ctx, req)
}

func (s *Service) GenerateMixedQuestions(ctx context.Context, req questions.MixedRequest) (*questions.Set, error) {
	return s.questions.Mixed(ctx, req)
}

// Package server exposes the recruitment pipelines over HTTP.
package server

import (
	"context"
	"io"

	"github.com/spigell/blacktable/internal/application"
	"github.com/spigell/blacktable/internal/config"
	"github.com/spigell/blacktable/internal/fitscore"
	"github.com/spigell/blacktable/internal/logger"
	"github.com/spigell/blacktable/internal/questions"
	"github.com/spigell/blacktable/internal/resume"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Service is the set of operations the server calls into.
type Service interface {
	ParseResumeUpload(ctx context.Context, name string, r io.Reader) (*resume.Profile, error)
	CalculateFit(ctx context.Context, profile *resume.Profile, jobDescription string) (*fitscore.Result, error)
	AssessFit(ctx context.Context, profile *resume.Profile, result *fitscore.Result) error
	AnalyzeApplication(ctx context.Context, job application.JobPosting, app application.Application) (*application.Evaluation, error)
	GenerateQuestions(ctx context.Context, req questions.StandardRequest) ([]questions.Question, error)
	GeneratePersonalizedQuestions(ctx context.Context, req questions.PersonalizedRequest) ([]questions.Question, error)
	GenerateMixedQuestions(ctx context.Context, req questions.MixedRequest) (*questions.Set, error)
	QuestionDefaults() config.QuestionsConfig
}

type Server struct {
	app    *fiber.App
	svc    Service
	addr   string
	logger *zap.Logger
}

func New(svc Service, cfg config.ServerConfig, log *zap.Logger) *Server {
	s := &Server{
		svc:    svc,
		addr:   cfg.Addr,
		logger: logger.ForOperation(log, "http"),
	}

	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}

	s.app = fiber.New(fiber.Config{
		AppName:               config.Name,
		BodyLimit:             bodyLimit * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
	s.app.Use(healthcheck.New(healthcheck.Config{LivenessEndpoint: "/health"}))
	s.app.Use(requestLogger(s.logger))

	api := s.app.Group("/api/v1", RateLimiter(cfg.RateLimit, cfg.RateWindow))
	api.Post("/resume/parse", s.parseResume)
	api.Post("/fit-score", s.fitScore)
	api.Post("/questions/generate", s.generateQuestions)
	api.Post("/questions/personalized", s.personalizedQuestions)
	api.Post("/questions/mixed", s.mixedQuestions)
	api.Post("/applications/analyze", s.analyzeApplication)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until ctx is done or the listener fails.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.addr))
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", zap.String("reason", ctx.Err().Error()))
		return s.app.Shutdown()
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spigell/blacktable/internal/application"
	"github.com/spigell/blacktable/internal/config"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/fitscore"
	"github.com/spigell/blacktable/internal/questions"
	"github.com/spigell/blacktable/internal/resume"
)

type stubService struct {
	uploads      int
	uploadedName string
	uploaded     string
	assessed     bool
	assessErr    error
	standard     questions.StandardRequest
	mixed        questions.MixedRequest
	job          application.JobPosting
	application  application.Application
	analyzeErr   error
}

func (s *stubService) ParseResumeUpload(_ context.Context, name string, r io.Reader) (*resume.Profile, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.uploads++
	s.uploadedName = name
	s.uploaded = string(body)
	if !strings.HasSuffix(name, ".txt") {
		return nil, failure.New(failure.UnsupportedFormat, "unsupported file format %q", name)
	}
	return &resume.Profile{Skills: []string{"Go"}}, nil
}

func (s *stubService) CalculateFit(_ context.Context, _ *resume.Profile, _ string) (*fitscore.Result, error) {
	return &fitscore.Result{Score: 81, Category: fitscore.CategoryExcellent, Source: fitscore.SourceLLM}, nil
}

func (s *stubService) AssessFit(_ context.Context, _ *resume.Profile, result *fitscore.Result) error {
	s.assessed = true
	if s.assessErr != nil {
		return s.assessErr
	}
	result.Assessment = "solid"
	return nil
}

func (s *stubService) AnalyzeApplication(_ context.Context, job application.JobPosting, app application.Application) (*application.Evaluation, error) {
	s.job = job
	s.application = app
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return &application.Evaluation{AIScore: 70, ExecutiveSummary: job.Title}, nil
}

func (s *stubService) GenerateQuestions(_ context.Context, req questions.StandardRequest) ([]questions.Question, error) {
	s.standard = req
	out := make([]questions.Question, req.Count)
	for i := range out {
		out[i] = questions.Question{ID: i + 1, Text: "q"}
	}
	return out, nil
}

func (s *stubService) GeneratePersonalizedQuestions(_ context.Context, req questions.PersonalizedRequest) ([]questions.Question, error) {
	return []questions.Question{{ID: 1, Text: "p", Personalized: true}}, nil
}

func (s *stubService) GenerateMixedQuestions(_ context.Context, req questions.MixedRequest) (*questions.Set, error) {
	s.mixed = req
	return &questions.Set{Total: req.Total}, nil
}

func (s *stubService) QuestionDefaults() config.QuestionsConfig {
	return config.QuestionsConfig{Count: 4, PersonalizedRatio: 0.25}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(svc Service, rateLimit int) *Server {
	return New(svc, config.ServerConfig{RateLimit: rateLimit, RateWindow: time.Minute}, nil)
}

func do(t *testing.T, s *Server, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	body, _ := io.ReadAll(resp.Body)
	if len(body) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode body %q: %v", body, err)
		}
	}
	return resp.StatusCode, env
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, path string, file string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if file != "" {
		part, err := w.CreateFormFile("resume", file)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("Jane Doe, Go engineer")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubService{}, 0)
	status, _ := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestGenerateQuestions(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	s := newTestServer(svc, 0)

	status, env := do(t, s, jsonRequest("/api/v1/questions/generate",
		`{"job_description": "Go engineer", "interview_round": "Technical", "difficulty_levels": ["hard"]}`))
	if status != http.StatusOK || !env.Success {
		t.Fatalf("expected success, got %d %+v", status, env)
	}
	if svc.standard.Count != 4 {
		t.Fatalf("expected default count 4, got %d", svc.standard.Count)
	}
	if len(svc.standard.Difficulties) != 1 || svc.standard.Difficulties[0] != questions.DifficultyHard {
		t.Fatalf("unexpected difficulties %v", svc.standard.Difficulties)
	}

	var data struct {
		Questions []questions.Question `json:"questions"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(data.Questions))
	}
}

func TestErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		svc        *stubService
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantKind   failure.Kind
	}{
		{
			name: "unknown round",
			svc:  &stubService{},
			req: func(*testing.T) *http.Request {
				return jsonRequest("/api/v1/questions/generate", `{"job_description": "Go", "interview_round": "lunch", "question_count": 2}`)
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.UnknownRound,
		},
		{
			name: "missing job description",
			svc:  &stubService{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/v1/fit-score", "cv.txt", nil)
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.InvalidInput,
		},
		{
			name: "missing resume",
			svc:  &stubService{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/v1/resume/parse", "", nil)
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.InvalidInput,
		},
		{
			name: "unsupported format",
			svc:  &stubService{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/v1/resume/parse", "cv.xyz", nil)
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.UnsupportedFormat,
		},
		{
			name: "bad ratio",
			svc:  &stubService{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/v1/questions/mixed", "cv.txt", map[string]string{"personalized_ratio": "half"})
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.InvalidInput,
		},
		{
			name: "unknown difficulty",
			svc:  &stubService{},
			req: func(*testing.T) *http.Request {
				return jsonRequest("/api/v1/questions/generate", `{"job_description": "Go", "interview_round": "technical", "difficulty_levels": ["brutal"]}`)
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.InvalidInput,
		},
		{
			name: "analyze form without title",
			svc:  &stubService{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/v1/applications/analyze", "cv.txt", map[string]string{"job_description": "Go"})
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.InvalidInput,
		},
		{
			name: "analyze form with broken responses",
			svc:  &stubService{},
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/api/v1/applications/analyze", "", map[string]string{
					"job_title":              "Go",
					"job_description":        "Go",
					"prescreening_responses": `{"Why us?": `,
				})
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   failure.InvalidInput,
		},
		{
			name: "analysis failed",
			svc:  &stubService{analyzeErr: failure.New(failure.AnalysisFailed, "model answer did not match")},
			req: func(*testing.T) *http.Request {
				return jsonRequest("/api/v1/applications/analyze", `{"job": {"job_title": "Go", "job_description": "Go"}, "application": {}}`)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   failure.AnalysisFailed,
		},
		{
			name: "provider unavailable",
			svc:  &stubService{analyzeErr: failure.New(failure.ProviderUnavailable, "timeout")},
			req: func(*testing.T) *http.Request {
				return jsonRequest("/api/v1/applications/analyze", `{"job": {"job_title": "Go", "job_description": "Go"}}`)
			},
			wantStatus: http.StatusFailedDependency,
			wantKind:   failure.ProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(tt.svc, 0)
			status, env := do(t, s, tt.req(t))
			if status != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%+v)", tt.wantStatus, status, env)
			}
			if env.Success || env.Kind != string(tt.wantKind) {
				t.Fatalf("expected kind %s, got %+v", tt.wantKind, env)
			}
		})
	}
}

func TestStatusForTypedFailures(t *testing.T) {
	t.Parallel()

	kinds := []failure.Kind{
		failure.SchemaMismatch,
		failure.ProviderUnavailable,
		failure.RequirementExtractionFailed,
		failure.AnalysisFailed,
		failure.UnsupportedFormat,
		failure.FileNotFound,
		failure.ConversionFailed,
		failure.UnknownRound,
		failure.MissingCredentials,
		failure.InvalidInput,
	}
	for _, kind := range kinds {
		if status := StatusFor(kind); status < 400 || status > 499 {
			t.Fatalf("expected a 4xx for %s, got %d", kind, status)
		}
	}
	if status := StatusFor(""); status != http.StatusInternalServerError {
		t.Fatalf("expected 500 for an untyped error, got %d", status)
	}
}

func TestUnknownRoundRejectedBeforeUpload(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/api/v1/questions/personalized", "/api/v1/questions/mixed"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			svc := &stubService{}
			s := newTestServer(svc, 0)

			status, env := do(t, s, multipartRequest(t, path, "cv.txt", map[string]string{
				"job_description": "Go engineer",
				"interview_round": "bogus",
			}))
			if status != http.StatusBadRequest || env.Kind != string(failure.UnknownRound) {
				t.Fatalf("expected 400 unknown_round, got %d %+v", status, env)
			}
			if svc.uploads != 0 {
				t.Fatalf("expected the resume to stay unparsed, got %d uploads", svc.uploads)
			}
		})
	}
}

func TestFitScoreWithAssessment(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	s := newTestServer(svc, 0)

	status, env := do(t, s, multipartRequest(t, "/api/v1/fit-score", "cv.txt", map[string]string{
		"job_description": "Go engineer",
		"assess":          "true",
	}))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	if !svc.assessed || svc.uploadedName != "cv.txt" || svc.uploaded != "Jane Doe, Go engineer" {
		t.Fatalf("unexpected service state %+v", svc)
	}

	var result fitscore.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.Score != 81 || result.Assessment != "solid" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestFitScoreKeepsScoreWhenAssessmentFails(t *testing.T) {
	t.Parallel()

	svc := &stubService{assessErr: failure.New(failure.ProviderUnavailable, "timeout")}
	s := newTestServer(svc, 0)

	status, env := do(t, s, multipartRequest(t, "/api/v1/fit-score", "cv.txt", map[string]string{
		"job_description": "Go engineer",
		"assess":          "true",
	}))
	if status != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}

	var result fitscore.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.Score != 81 || result.Assessment != "" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestAnalyzeApplicationForm(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	s := newTestServer(svc, 0)

	status, env := do(t, s, multipartRequest(t, "/api/v1/applications/analyze", "cv.txt", map[string]string{
		"job_title":              "Backend Engineer",
		"job_description":        "Go services",
		"salary_range":           "100k-120k",
		"notice_period":          " ",
		"prescreening_questions": `["Why us?", "", "Start date?"]`,
		"prescreening_responses": `{"Why us?": "Go", "Start date?": "June"}`,
	}))
	if status != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	if svc.uploads != 1 || svc.application.Profile == nil {
		t.Fatalf("expected the uploaded resume on the application, got %+v", svc.application)
	}
	if svc.job.Title != "Backend Engineer" || svc.job.SalaryRange == nil || *svc.job.SalaryRange != "100k-120k" {
		t.Fatalf("unexpected job %+v", svc.job)
	}
	if len(svc.job.PrescreeningQuestions) != 2 {
		t.Fatalf("expected blank questions dropped, got %q", svc.job.PrescreeningQuestions)
	}
	if svc.application.NoticePeriod != nil {
		t.Fatalf("expected blank notice period to be unset, got %q", *svc.application.NoticePeriod)
	}
	want := []application.Response{{Question: "Why us?", Answer: "Go"}, {Question: "Start date?", Answer: "June"}}
	if len(svc.application.Responses) != len(want) {
		t.Fatalf("expected %d responses, got %+v", len(want), svc.application.Responses)
	}
	for i := range want {
		if svc.application.Responses[i] != want[i] {
			t.Fatalf("response %d: expected %+v, got %+v", i, want[i], svc.application.Responses[i])
		}
	}
}

func TestMixedQuestionsWithoutResume(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	s := newTestServer(svc, 0)

	status, env := do(t, s, multipartRequest(t, "/api/v1/questions/mixed", "", map[string]string{
		"job_description":    "Go engineer",
		"personalized_ratio": "0",
	}))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	if svc.uploads != 0 || svc.mixed.Profile != nil {
		t.Fatalf("expected no resume, got %+v", svc.mixed)
	}
}

func TestMixedQuestionsDefaults(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	s := newTestServer(svc, 0)

	status, _ := do(t, s, multipartRequest(t, "/api/v1/questions/mixed", "cv.txt", map[string]string{
		"job_description": "Go engineer",
		"interview_round": "technical",
	}))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if svc.mixed.Total != 4 || svc.mixed.Ratio != 0.25 || svc.mixed.Profile == nil {
		t.Fatalf("expected configured defaults, got %+v", svc.mixed)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubService{}, 1)
	body := `{"job_description": "Go", "interview_round": "hr", "question_count": 1}`

	if status, _ := do(t, s, jsonRequest("/api/v1/questions/generate", body)); status != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", status)
	}
	status, env := do(t, s, jsonRequest("/api/v1/questions/generate", body))
	if status != http.StatusTooManyRequests || env.Success {
		t.Fatalf("expected 429, got %d %+v", status, env)
	}
}

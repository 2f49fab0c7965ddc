package fitscore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/blacktable/internal/ai/structured"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/resume"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// scriptedGenerator answers by schema name and decodes through the real validation path.
type scriptedGenerator struct {
	responses map[string]string
	errs      map[string]error
	text      string
	textErr   error

	calls   []string
	prompts map[string]string
}

func (s *scriptedGenerator) Generate(_ context.Context, req structured.Request, out any) error {
	s.calls = append(s.calls, req.Schema.Name)
	if s.prompts == nil {
		s.prompts = map[string]string{}
	}
	s.prompts[req.Schema.Name] = req.Prompt
	if err := s.errs[req.Schema.Name]; err != nil {
		return err
	}
	raw, ok := s.responses[req.Schema.Name]
	if !ok {
		return failure.New(failure.ProviderUnavailable, "no scripted response for %s", req.Schema.Name)
	}
	return structured.Decode(raw, req.Schema, out)
}

func (s *scriptedGenerator) Text(_ context.Context, _, prompt string) (string, error) {
	s.calls = append(s.calls, "text")
	if s.prompts == nil {
		s.prompts = map[string]string{}
	}
	s.prompts["text"] = prompt
	return s.text, s.textErr
}

const requirementsJSON = `{
  "title": "Senior Go Engineer",
  "required_skills": ["Go", "Kafka"],
  "preferred_skills": ["PostgreSQL"],
  "experience_requirements": ["payment systems"],
  "education_requirements": "Bachelor's in Computer Science",
  "key_responsibilities": ["Own billing services"],
  "seniority_level": "Senior"
}`

func candidate() *resume.Profile {
	p := &resume.Profile{
		About:  resume.About{Name: resume.Ptr("Jane Doe"), TotalWorkExperience: resume.Ptr(6)},
		Skills: []string{"Go", "PostgreSQL"},
		WorkExperience: []resume.WorkExperience{
			{Title: resume.Ptr("Backend Engineer"), Company: resume.Ptr("Acme"), Description: []string{"Built payment systems"}},
		},
		Education: []resume.Education{
			{Degree: resume.Ptr("Master"), Course: resume.Ptr("Computer Science"), College: resume.Ptr("TU Berlin")},
		},
	}
	p.Normalize()
	return p
}

func TestCalculateUsesModelVerdict(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{responses: map[string]string{
		"JobRequirements": requirementsJSON,
		"OverallScore":    `{"score": 82, "category": "good", "confidence": 0.85, "potential_score": 90, "summary": "Strong backend fit", "hiring_recommendation": "recommend"}`,
	}}

	result, err := NewMatcher(gen, zap.NewNop()).Calculate(context.Background(), candidate(), "We are hiring a Senior Go Engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source != SourceLLM || result.Score != 82 || result.Category != CategoryGood || result.Summary != "Strong backend fit" {
		t.Fatalf("unexpected overall verdict %+v", result)
	}
	if result.Requirements.SeniorityLevel != SenioritySenior {
		t.Fatalf("expected normalised seniority, got %q", result.Requirements.SeniorityLevel)
	}
	if !almostEqual(result.SkillScore, 45) {
		t.Fatalf("expected skill score 45, got %v", result.SkillScore)
	}
	if !almostEqual(result.ExperienceScore, 100) {
		t.Fatalf("expected experience score 100, got %v", result.ExperienceScore)
	}
	if !almostEqual(result.EducationScore, 100) {
		t.Fatalf("expected education score 100, got %v", result.EducationScore)
	}
	if len(result.Analysis.SkillMatches) != 3 || result.Analysis.MatchedSkills() != 2 {
		t.Fatalf("unexpected skill matches %+v", result.Analysis.SkillMatches)
	}
	if len(result.Gaps) != 1 || result.Gaps[0].Description != "Missing required skills: Kafka" {
		t.Fatalf("unexpected gaps %+v", result.Gaps)
	}
	if len(result.Recommendations) == 0 || result.Recommendations[0] != "Consider training for missing skills: Kafka" {
		t.Fatalf("unexpected recommendations %v", result.Recommendations)
	}

	if strings.Join(gen.calls, ",") != "JobRequirements,OverallScore" {
		t.Fatalf("unexpected call order %v", gen.calls)
	}
	prompt := gen.prompts["OverallScore"]
	for _, want := range []string{"Job: Senior Go Engineer", "Candidate: Jane Doe", "- Skills: 45.0/100", "Skill Matches: 2 matched out of 3"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected %q in overall prompt:\n%s", want, prompt)
		}
	}
}

func TestCalculateFallsBackWhenVerdictFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		gen  *scriptedGenerator
	}{
		{
			name: "provider unavailable",
			gen: &scriptedGenerator{
				responses: map[string]string{"JobRequirements": requirementsJSON},
				errs:      map[string]error{"OverallScore": failure.New(failure.ProviderUnavailable, "timeout")},
			},
		},
		{
			name: "schema mismatch",
			gen: &scriptedGenerator{responses: map[string]string{
				"JobRequirements": requirementsJSON,
				"OverallScore":    `{"score": 140, "category": "stellar"}`,
			}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			result, err := NewMatcher(tt.gen, zap.New(core)).Calculate(context.Background(), candidate(), "job")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := Fallback(Components{Skill: result.SkillScore, Experience: result.ExperienceScore, Education: result.EducationScore})
			if result.Source != SourceFallback || result.Score != want.Score || result.Summary != want.Summary {
				t.Fatalf("expected fallback verdict %+v, got %+v", want, result)
			}
			// 0.4*45 + 0.4*100 + 0.2*100
			if !almostEqual(result.Score, 78) || result.Category != CategoryGood || result.HiringRecommendation != Recommend {
				t.Fatalf("unexpected fallback values %+v", result)
			}
			if logs.FilterMessage("overall fit score unavailable, using weighted component score").Len() != 1 {
				t.Fatalf("expected a warning about the fallback")
			}
		})
	}
}

func TestCalculateFailsWhenRequirementsCannotBeExtracted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		gen   *scriptedGenerator
		cause error
	}{
		{
			name:  "provider unavailable",
			gen:   &scriptedGenerator{errs: map[string]error{"JobRequirements": failure.New(failure.ProviderUnavailable, "down")}},
			cause: failure.ErrProviderUnavailable,
		},
		{
			name:  "schema mismatch",
			gen:   &scriptedGenerator{responses: map[string]string{"JobRequirements": `{"required_skills": "Go"}`}},
			cause: failure.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := NewMatcher(tt.gen, nil).Calculate(context.Background(), candidate(), "job")
			if result != nil {
				t.Fatalf("expected no result, got %+v", result)
			}
			if !errors.Is(err, failure.ErrRequirementExtractionFailed) {
				t.Fatalf("expected requirement extraction failure, got %v", err)
			}
			if failure.KindOf(err) != failure.RequirementExtractionFailed {
				t.Fatalf("expected outer kind to be requirement extraction, got %q", failure.KindOf(err))
			}
			if !errors.Is(err, tt.cause) {
				t.Fatalf("expected cause %v to be preserved, got %v", tt.cause, err)
			}
			if len(tt.gen.calls) != 1 {
				t.Fatalf("expected no further calls after extraction failed, got %v", tt.gen.calls)
			}
		})
	}
}

func TestCalculateValidatesInput(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{}
	m := NewMatcher(gen, nil)

	if _, err := m.Calculate(context.Background(), nil, "job"); !errors.Is(err, failure.ErrInvalidInput) {
		t.Fatalf("expected invalid input for nil profile, got %v", err)
	}
	if _, err := m.Calculate(context.Background(), candidate(), "  "); !errors.Is(err, failure.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank job, got %v", err)
	}
	if len(gen.calls) != 0 {
		t.Fatalf("expected no generator calls, got %v", gen.calls)
	}
}

func TestAssess(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{
		responses: map[string]string{
			"JobRequirements": requirementsJSON,
			"OverallScore":    `{"score": 70, "category": "good", "confidence": 0.6, "potential_score": 80, "summary": "ok", "hiring_recommendation": "consider"}`,
		},
		text: "Jane brings strong Go experience.",
	}
	m := NewMatcher(gen, nil)
	profile := candidate()

	result, err := m.Calculate(context.Background(), profile, "job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := m.Assess(context.Background(), profile, result)
	if err != nil || text != "Jane brings strong Go experience." {
		t.Fatalf("unexpected assessment %q, %v", text, err)
	}
	prompt := gen.prompts["text"]
	for _, want := range []string{"Candidate: Jane Doe (6 years experience)", "Required skills coverage: 1/2", "Experience relevance: 1.0", "Education fit: 1.0"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected %q in assessment prompt:\n%s", want, prompt)
		}
	}

	gen.textErr = failure.New(failure.ProviderUnavailable, "down")
	if _, err := m.Assess(context.Background(), profile, result); !errors.Is(err, failure.ErrProviderUnavailable) {
		t.Fatalf("expected assessment failure to propagate, got %v", err)
	}
}

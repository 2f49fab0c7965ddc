package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/questions"
	"github.com/spigell/blacktable/internal/resume"
)

const applicationYAML = `
job:
  job_title: Backend Engineer
  job_description: Go services and PostgreSQL
  salary_range: 40-50 LPA
application:
  current_ctc: "30"
  expected_ctc: 45 LPA
  prescreening_responses:
    - question: Years of Go?
      answer: "5"
    - question: Remote?
      answer: "Yes"
  additional_fields:
    portfolio: https://example.com
  resume:
    about:
      name: Jane Doe
    skills: [Go, SQL]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAnalysisFile(t *testing.T) {
	t.Parallel()

	file, err := loadAnalysisFile(writeFile(t, "app.yaml", applicationYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.Job.Title != "Backend Engineer" || resume.Str(file.Job.SalaryRange) != "40-50 LPA" {
		t.Fatalf("unexpected job %+v", file.Job)
	}

	got := file.Application
	if resume.Str(got.CurrentCTC) != "30" || resume.Str(got.ExpectedCTC) != "45 LPA" || got.NoticePeriod != nil {
		t.Fatalf("unexpected compensation fields %+v", got)
	}
	if len(got.Responses) != 2 || got.Responses[0].Question != "Years of Go?" || got.Responses[1].Answer != "Yes" {
		t.Fatalf("unexpected responses %+v", got.Responses)
	}
	if got.AdditionalFields["portfolio"] != "https://example.com" {
		t.Fatalf("unexpected additional fields %v", got.AdditionalFields)
	}
	if got.Profile.Name() != "Jane Doe" || len(got.Profile.Skills) != 2 || got.Profile.Projects == nil {
		t.Fatalf("unexpected profile %+v", got.Profile)
	}
}

func TestLoadAnalysisFileMissing(t *testing.T) {
	t.Parallel()

	_, err := loadAnalysisFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, failure.ErrFileNotFound) {
		t.Fatalf("expected file not found, got %v", err)
	}
}

func TestReadText(t *testing.T) {
	t.Parallel()

	text, err := readText(writeFile(t, "job.txt", "  Go engineer\n"), nil)
	if err != nil || text != "Go engineer" {
		t.Fatalf("unexpected result %q, %v", text, err)
	}

	text, err = readText("-", strings.NewReader("from stdin"))
	if err != nil || text != "from stdin" {
		t.Fatalf("unexpected stdin result %q, %v", text, err)
	}

	if _, err := readText(writeFile(t, "empty.txt", " \n"), nil); !errors.Is(err, failure.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestParseDifficulties(t *testing.T) {
	t.Parallel()

	got, err := parseDifficulties([]string{"Easy", "hard"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != questions.DifficultyEasy || got[1] != questions.DifficultyHard {
		t.Fatalf("unexpected difficulties %v", got)
	}

	if _, err := parseDifficulties([]string{"brutal"}); !errors.Is(err, failure.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCheckMixedRequest(t *testing.T) {
	t.Parallel()

	valid := questions.MixedRequest{JobDescription: "Go engineer", Round: "technical", Total: 4, Ratio: 0.5}

	tests := []struct {
		name         string
		round        string
		difficulties []questions.Difficulty
		want         error
	}{
		{name: "valid", round: "technical"},
		{name: "unknown round", round: "bogus", want: failure.ErrUnknownRound},
		{name: "difficulty with resume", round: "technical", difficulties: []questions.Difficulty{questions.DifficultyHard}, want: failure.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := valid
			req.Round = tt.round
			err := checkMixedRequest(req, tt.difficulties)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

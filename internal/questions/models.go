// Package questions generates interview questions, either for a job in general or
// tailored to a candidate's resume.
package questions

import (
	"strings"

	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/resume"
)

// Round is an interview stage.
type Round string

const (
	RoundScreening  Round = "screening"
	RoundTechnical  Round = "technical"
	RoundBehavioral Round = "behavioral"
	RoundFinal      Round = "final"
	RoundHR         Round = "hr"
)

// Rounds lists every supported round in interview order.
func Rounds() []Round {
	return []Round{RoundScreening, RoundTechnical, RoundBehavioral, RoundFinal, RoundHR}
}

// ParseRound accepts a round name in any case.
func ParseRound(s string) (Round, error) {
	normalized := Round(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range Rounds() {
		if r == normalized {
			return r, nil
		}
	}
	return "", failure.New(failure.UnknownRound, "unknown interview round %q", s)
}

type Type string

const (
	TypeTechnical   Type = "technical"
	TypeBehavioral  Type = "behavioral"
	TypeExperience  Type = "experience"
	TypeProject     Type = "project"
	TypeSituational Type = "situational"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", failure.New(failure.InvalidInput, "unknown difficulty %q", s)
	}
}

type Question struct {
	ID                   int        `json:"id"`
	Text                 string     `json:"text"`
	Type                 Type       `json:"type"`
	Difficulty           Difficulty `json:"difficulty"`
	FocusArea            string     `json:"focus_area"`
	ExpectedAnswerPoints []string   `json:"expected_answer_points"`
	FollowUps            []string   `json:"follow_up_questions"`
	Personalized         bool       `json:"is_personalized"`
	SourceContext        *string    `json:"source_context,omitempty"`
}

// Set is a mixed batch of standard and personalized questions.
type Set struct {
	JobTitle          string     `json:"job_title"`
	Round             Round      `json:"interview_round"`
	FocusArea         string     `json:"focus_area"`
	Questions         []Question `json:"questions"`
	Total             int        `json:"total_questions"`
	StandardCount     int        `json:"standard_questions_count"`
	PersonalizedCount int        `json:"personalized_questions_count"`
}

type StandardRequest struct {
	JobDescription string       `json:"job_description"`
	Round          string       `json:"interview_round"`
	FocusArea      string       `json:"focus_area"`
	Count          int          `json:"question_count"`
	Difficulties   []Difficulty `json:"difficulty_levels"`
}

type PersonalizedRequest struct {
	Profile        *resume.Profile
	JobDescription string
	Round          string
	Count          int
}

type MixedRequest struct {
	Profile        *resume.Profile
	JobDescription string
	Round          string
	FocusArea      string
	Total          int
	Ratio          float64
}

// Package application evaluates a complete job application: pre-screening
// answers, compensation fields and, when a parsed resume is attached, a FIT score.
package application

import (
	"github.com/spigell/blacktable/internal/fitscore"
	"github.com/spigell/blacktable/internal/resume"
)

// Confidence of the analyst in its own verdict.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type JobPosting struct {
	Title                 string   `json:"job_title"`
	Description           string   `json:"job_description"`
	SalaryRange           *string  `json:"salary_range,omitempty"`
	PrescreeningQuestions []string `json:"prescreening_questions"`
}

// Response is one answered pre-screening question.
type Response struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Application struct {
	CurrentCTC       *string           `json:"current_ctc,omitempty"`
	ExpectedCTC      *string           `json:"expected_ctc,omitempty"`
	NoticePeriod     *string           `json:"notice_period,omitempty"`
	Responses        []Response        `json:"prescreening_responses"`
	AdditionalFields map[string]string `json:"additional_fields,omitempty"`
	Profile          *resume.Profile   `json:"resume,omitempty"`
}

type WhyMatch struct {
	SkillMatches      []string `json:"skill_matches"`
	ExperienceMatches []string `json:"experience_matches"`
	CulturalFit       []string `json:"cultural_fit"`
	GrowthPotential   []string `json:"growth_potential"`
	OtherPositives    []string `json:"other_positives"`
}

type WhyNotMatch struct {
	SkillGaps         []string `json:"skill_gaps"`
	ExperienceGaps    []string `json:"experience_gaps"`
	Overqualification []string `json:"overqualification"`
	SalaryMismatch    []string `json:"salary_mismatch"`
	OtherConcerns     []string `json:"other_concerns"`
}

// CandidateProfile is the analyst's summary of the candidate, inferred from the
// whole application rather than parsed from the resume.
type CandidateProfile struct {
	Experience   []string       `json:"experience"`
	About        string         `json:"about"`
	Skills       []string       `json:"skills"`
	PreviousJobs []string       `json:"previous_jobs"`
	College      []string       `json:"college"`
	OtherDetails map[string]any `json:"other_details"`
}

// Evaluation is the outcome of an application analysis. Fit is set when a FIT
// score could be computed and was used as context.
type Evaluation struct {
	AIScore             float64                 `json:"ai_score"`
	WhyMatch            WhyMatch                `json:"why_match"`
	WhyNotMatch         WhyNotMatch             `json:"why_not_match"`
	CandidateProfile    CandidateProfile        `json:"candidate_profile"`
	Recommendation      fitscore.Recommendation `json:"overall_recommendation"`
	Confidence          Confidence              `json:"confidence_level"`
	ExecutiveSummary    string                  `json:"executive_summary"`
	KeyHighlights       []string                `json:"key_highlights"`
	NextSteps           []string                `json:"next_steps"`
	InterviewFocusAreas []string                `json:"interview_focus_areas"`

	Fit *fitscore.Result `json:"fit_score,omitempty"`
}

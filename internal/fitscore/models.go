// Package fitscore computes a weighted FIT score between a candidate profile and a job description.
package fitscore

// Seniority of a position.
type Seniority string

const (
	SeniorityEntry     Seniority = "entry"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityExecutive Seniority = "executive"
)

// Category buckets an overall score.
type Category string

const (
	CategoryExcellent Category = "excellent"
	CategoryGood      Category = "good"
	CategoryFair      Category = "fair"
	CategoryPoor      Category = "poor"
)

// Relevance of the best matching job for an experience requirement.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
)

// Severity of a gap.
type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityImportant Severity = "important"
	SeverityMinor     Severity = "minor"
)

// Recommendation is a hiring tag.
type Recommendation string

const (
	StronglyRecommend Recommendation = "strongly_recommend"
	Recommend         Recommendation = "recommend"
	Consider          Recommendation = "consider"
	NotRecommend      Recommendation = "not_recommend"
)

// Source tells whether the overall score came from the model or the deterministic formula.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Requirements are extracted from a job description.
type Requirements struct {
	Title                  string    `json:"title"`
	RequiredSkills         []string  `json:"required_skills"`
	PreferredSkills        []string  `json:"preferred_skills"`
	ExperienceRequirements []string  `json:"experience_requirements"`
	EducationRequirement   *string   `json:"education_requirements,omitempty"`
	KeyResponsibilities    []string  `json:"key_responsibilities"`
	CompanyType            *string   `json:"company_type,omitempty"`
	SeniorityLevel         Seniority `json:"seniority_level"`
}

type SkillMatch struct {
	Skill        string  `json:"skill"`
	Required     bool    `json:"required"`
	CandidateHas bool    `json:"candidate_has"`
	Confidence   float64 `json:"confidence"`
}

type ExperienceMatch struct {
	Requirement         string    `json:"requirement"`
	CandidateExperience string    `json:"candidate_experience"`
	Score               float64   `json:"score"`
	Relevance           Relevance `json:"relevance"`
}

type EducationMatch struct {
	Requirement        *string `json:"requirement,omitempty"`
	CandidateEducation string  `json:"candidate_education"`
	Score              float64 `json:"score"`
	Sufficient         bool    `json:"sufficient"`
}

type Strength struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
	Relevance   float64  `json:"relevance"`
}

type Gap struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Mitigations []string `json:"mitigations"`
}

// Analysis is the per-dimension breakdown behind a Result.
type Analysis struct {
	SkillMatches      []SkillMatch      `json:"skill_matches"`
	ExperienceMatches []ExperienceMatch `json:"experience_matches"`
	EducationMatch    EducationMatch    `json:"education_match"`
	Strengths         []Strength        `json:"strengths"`
	Gaps              []Gap             `json:"gaps"`
}

// Components are the three dimension scores, each in [0, 100].
type Components struct {
	Skill      float64 `json:"skill_score"`
	Experience float64 `json:"experience_score"`
	Education  float64 `json:"education_score"`
}

// Overall is the blended verdict.
type Overall struct {
	Score                float64        `json:"score"`
	Category             Category       `json:"category"`
	Confidence           float64        `json:"confidence"`
	PotentialScore       float64        `json:"potential_score"`
	Summary              string         `json:"summary"`
	HiringRecommendation Recommendation `json:"hiring_recommendation"`
}

// Result is the outcome of a FIT evaluation.
type Result struct {
	Score                float64        `json:"score"`
	Category             Category       `json:"category"`
	Confidence           float64        `json:"confidence"`
	SkillScore           float64        `json:"skill_score"`
	ExperienceScore      float64        `json:"experience_score"`
	EducationScore       float64        `json:"education_score"`
	PotentialScore       float64        `json:"potential_score"`
	Strengths            []Strength     `json:"strengths"`
	Gaps                 []Gap          `json:"gaps"`
	Recommendations      []string       `json:"recommendations"`
	Summary              string         `json:"summary"`
	HiringRecommendation Recommendation `json:"hiring_recommendation"`
	Source               Source         `json:"source"`
	Requirements         Requirements   `json:"requirements"`
	Analysis             Analysis       `json:"detailed_analysis"`
	Assessment           string         `json:"assessment,omitempty"`
}

// MatchedSkills counts skills the candidate has.
func (a Analysis) MatchedSkills() int {
	n := 0
	for _, m := range a.SkillMatches {
		if m.CandidateHas {
			n++
		}
	}
	return n
}

package fitscore

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/blacktable/internal/ai/schema"
	"github.com/spigell/blacktable/internal/ai/structured"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/logger"
	"github.com/spigell/blacktable/internal/resume"

	"go.uber.org/zap"
)

// Generator produces schema-validated values and free text.
type Generator interface {
	Generate(ctx context.Context, req structured.Request, out any) error
	Text(ctx context.Context, system, prompt string) (string, error)
}

var requirementsSchema = schema.New("JobRequirements",
	schema.String("title").Req(),
	schema.Strings("required_skills").Desc("Required technical and soft skills"),
	schema.Strings("preferred_skills").Desc("Preferred or nice-to-have skills"),
	schema.Strings("experience_requirements").Desc("Years, type and domains of experience"),
	schema.String("education_requirements"),
	schema.Strings("key_responsibilities"),
	schema.String("company_type"),
	schema.String("seniority_level").Req().OneOf(
		string(SeniorityEntry), string(SeniorityMid), string(SenioritySenior), string(SeniorityExecutive),
	),
)

var overallSchema = schema.New("OverallScore",
	schema.Number("score").Req().Range(0, 100),
	schema.String("category").Req().OneOf(
		string(CategoryExcellent), string(CategoryGood), string(CategoryFair), string(CategoryPoor),
	),
	schema.Number("confidence").Req().Range(0, 1),
	schema.Number("potential_score").Req().Range(0, 100),
	schema.String("summary").Req(),
	schema.String("hiring_recommendation").Req().OneOf(
		string(StronglyRecommend), string(Recommend), string(Consider), string(NotRecommend),
	),
)

const requirementsSystem = `You are an expert at analyzing job descriptions and extracting structured requirements.
Extract all relevant information including required skills, preferred skills, experience requirements,
education requirements, and other key details.`

const overallSystem = `You are an expert recruiter calculating a comprehensive FIT score between a candidate and job position.
Consider all aspects: skills, experience, education, cultural fit, and growth potential.
Provide a score from 0-100 and detailed reasoning.`

const assessmentSystem = "You are an expert recruiter providing concise assessment of candidate fit."

// Matcher runs the FIT evaluation: requirement extraction, deterministic
// matching, strengths and gaps, an overall verdict and recommendations.
type Matcher struct {
	gen    Generator
	logger *zap.Logger
}

func NewMatcher(gen Generator, log *zap.Logger) *Matcher {
	return &Matcher{gen: gen, logger: logger.ForOperation(log, "calculate_fit")}
}

// Calculate evaluates profile against jobDescription. A failed requirement
// extraction aborts with RequirementExtractionFailed; a failed overall verdict
// falls back to the weighted component formula.
func (m *Matcher) Calculate(ctx context.Context, profile *resume.Profile, jobDescription string) (*Result, error) {
	if profile == nil {
		return nil, failure.New(failure.InvalidInput, "candidate profile is required")
	}
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, failure.New(failure.InvalidInput, "job description is empty")
	}

	reqs, err := m.ExtractRequirements(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	analysis := Analysis{
		SkillMatches:      MatchSkills(profile.Skills, reqs.RequiredSkills, reqs.PreferredSkills),
		ExperienceMatches: MatchExperience(profile.WorkExperience, reqs.ExperienceRequirements),
		EducationMatch:    MatchEducation(profile.Education, reqs.EducationRequirement),
	}
	analysis.Strengths = Strengths(profile, analysis.SkillMatches)
	analysis.Gaps = Gaps(analysis.SkillMatches, analysis.ExperienceMatches)

	components := AggregateScores(analysis.SkillMatches, analysis.ExperienceMatches, analysis.EducationMatch)

	overall, source := m.overall(ctx, profile, reqs, analysis, components)

	result := &Result{
		Score:                overall.Score,
		Category:             overall.Category,
		Confidence:           overall.Confidence,
		SkillScore:           components.Skill,
		ExperienceScore:      components.Experience,
		EducationScore:       components.Education,
		PotentialScore:       overall.PotentialScore,
		Strengths:            analysis.Strengths,
		Gaps:                 analysis.Gaps,
		Recommendations:      Recommendations(analysis),
		Summary:              overall.Summary,
		HiringRecommendation: overall.HiringRecommendation,
		Source:               source,
		Requirements:         *reqs,
		Analysis:             analysis,
	}

	m.logger.Info("fit score calculated",
		zap.String("job_title", reqs.Title),
		zap.Float64("score", result.Score),
		zap.String("category", string(result.Category)),
		zap.String("source", string(source)),
	)

	return result, nil
}

// ExtractRequirements asks the model for the structured requirements of a job.
func (m *Matcher) ExtractRequirements(ctx context.Context, jobDescription string) (*Requirements, error) {
	prompt := fmt.Sprintf(`Analyze the following job description and extract structured requirements:

Job Description:
%s

Extract:
1. Job title
2. Required technical and soft skills
3. Preferred/nice-to-have skills
4. Experience requirements (years, type, specific domains)
5. Education requirements
6. Key responsibilities
7. Company type/industry if mentioned
8. Seniority level (entry/mid/senior/executive)

Be thorough and accurate in extraction.`, jobDescription)

	var reqs Requirements
	if err := m.gen.Generate(ctx, structured.Request{System: requirementsSystem, Prompt: prompt, Schema: requirementsSchema}, &reqs); err != nil {
		return nil, failure.Wrap(failure.RequirementExtractionFailed, err, "extract job requirements")
	}
	return &reqs, nil
}

func (m *Matcher) overall(ctx context.Context, profile *resume.Profile, reqs *Requirements, analysis Analysis, c Components) (Overall, Source) {
	prompt := fmt.Sprintf(`Calculate the overall FIT score for this candidate-job match:

Job: %s
Candidate: %s

Component Scores:
- Skills: %.1f/100
- Experience: %.1f/100
- Education: %.1f/100

Detailed Analysis:
- Skill Matches: %d matched out of %d
- Strengths: %d identified
- Gaps: %d identified

Provide:
1. Overall FIT score (0-100)
2. Score category (excellent: 85+, good: 70-84, fair: 50-69, poor: <50)
3. Confidence level (0.0-1.0)
4. Potential score (considering growth potential)
5. Brief summary
6. Hiring recommendation (strongly_recommend/recommend/consider/not_recommend)

Consider both current fit and future potential.`,
		reqs.Title, profile.Name(),
		c.Skill, c.Experience, c.Education,
		analysis.MatchedSkills(), len(analysis.SkillMatches),
		len(analysis.Strengths), len(analysis.Gaps),
	)

	var overall Overall
	err := m.gen.Generate(ctx, structured.Request{System: overallSystem, Prompt: prompt, Schema: overallSchema}, &overall)
	if err != nil {
		fallback := Fallback(c)
		m.logger.Warn("overall fit score unavailable, using weighted component score",
			zap.Error(err),
			zap.Float64("score", fallback.Score),
		)
		return fallback, SourceFallback
	}

	return overall, SourceLLM
}

// Assess asks the model for a short narrative about a computed result. Errors
// are returned to the caller.
func (m *Matcher) Assess(ctx context.Context, profile *resume.Profile, result *Result) (string, error) {
	if profile == nil || result == nil {
		return "", failure.New(failure.InvalidInput, "profile and fit result are required")
	}

	requiredTotal, requiredHas := 0, 0
	for _, s := range result.Analysis.SkillMatches {
		if s.Required {
			requiredTotal++
			if s.CandidateHas {
				requiredHas++
			}
		}
	}

	relevance := 0.0
	if n := len(result.Analysis.ExperienceMatches); n > 0 {
		for _, e := range result.Analysis.ExperienceMatches {
			relevance += e.Score
		}
		relevance /= float64(n)
	}

	prompt := fmt.Sprintf(`Provide a brief overall assessment of this candidate for the position:

Position: %s
Candidate: %s (%d years experience)

Key Points:
- Required skills coverage: %d/%d
- Experience relevance: %.1f
- Education fit: %.1f

Provide a 2-3 sentence assessment focusing on key strengths and any notable concerns.`,
		result.Requirements.Title, profile.Name(), profile.Years(),
		requiredHas, requiredTotal, relevance, result.Analysis.EducationMatch.Score,
	)

	text, err := m.gen.Text(ctx, assessmentSystem, prompt)
	if err != nil {
		return "", err
	}
	return text, nil
}

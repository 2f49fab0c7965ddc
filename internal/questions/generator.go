package questions

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/blacktable/internal/ai/schema"
	"github.com/spigell/blacktable/internal/ai/structured"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/logger"
	"github.com/spigell/blacktable/internal/resume"

	"go.uber.org/zap"
)

const (
	notSpecified    = "Not specified"
	unknownPosition = "Unknown Position"

	maxContextSkills   = 10
	maxContextProjects = 3
	maxProjectSkills   = 3
	titleSearchLines   = 5
)

var titleKeywords = []string{"position", "role", "job title", "we are looking for"}

// Generator produces schema-validated values.
type Generator interface {
	Generate(ctx context.Context, req structured.Request, out any) error
}

func listSchema(name string) schema.Schema {
	return schema.New(name,
		schema.Array("questions", schema.Object("question",
			schema.Integer("id").Req(),
			schema.String("text").Req(),
			schema.String("type").Req().OneOf(
				string(TypeTechnical), string(TypeBehavioral), string(TypeExperience), string(TypeProject), string(TypeSituational),
			),
			schema.String("difficulty").Req().OneOf(string(DifficultyEasy), string(DifficultyMedium), string(DifficultyHard)),
			schema.String("focus_area").Req(),
			schema.Strings("expected_answer_points").Req(),
			schema.Strings("follow_up_questions"),
			schema.Boolean("is_personalized"),
			schema.String("source_context").Desc("Resume detail the question refers to"),
		)).Req(),
	)
}

var (
	standardSchema     = listSchema("QuestionList")
	personalizedSchema = listSchema("PersonalizedQuestionList")
)

type questionList struct {
	Questions []Question `json:"questions"`
}

// Synthesizer builds standard, personalized and mixed question sets.
type Synthesizer struct {
	gen    Generator
	logger *zap.Logger
}

func NewSynthesizer(gen Generator, log *zap.Logger) *Synthesizer {
	return &Synthesizer{gen: gen, logger: logger.ForOperation(log, "generate_questions")}
}

// Standard generates questions for a job and round. The round and difficulty
// levels are checked before the model is called; a non-positive count yields no
// questions.
func (s *Synthesizer) Standard(ctx context.Context, req StandardRequest) ([]Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	round, _ := ParseRound(req.Round)
	levels, _ := req.levels()

	if req.Count <= 0 {
		return []Question{}, nil
	}

	system, err := systemPrompt(round)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Generate %d interview questions for the following job:

Job Description:
%s

Requirements:
- Interview Round: %s
- Focus Area: %s
- Difficulty Levels: %s
- Generate diverse question types appropriate for this round
- Include expected answer points for each question
- Suggest follow-up questions where relevant`,
		req.Count, req.JobDescription, round, req.FocusArea, strings.Join(levels, ", "))

	var list questionList
	if err := s.gen.Generate(ctx, structured.Request{System: system, Prompt: prompt, Schema: standardSchema}, &list); err != nil {
		return nil, err
	}

	questions := head(list.Questions, req.Count)
	for i := range questions {
		questions[i].Personalized = false
		questions[i].FollowUps = nonNil(questions[i].FollowUps)
	}

	s.logger.Info("standard questions generated",
		zap.String("round", string(round)),
		zap.Int("requested", req.Count),
		zap.Int("generated", len(questions)),
	)

	return questions, nil
}

// Personalized generates questions grounded in the candidate's resume. Every
// returned question is marked as personalized.
func (s *Synthesizer) Personalized(ctx context.Context, req PersonalizedRequest) ([]Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	round, _ := ParseRound(req.Round)
	if req.Profile == nil {
		return nil, failure.New(failure.InvalidInput, "candidate profile is required")
	}
	if req.Count <= 0 {
		return []Question{}, nil
	}

	c := candidateContext(req.Profile)
	prompt := fmt.Sprintf(`Generate %d personalized interview questions based on the candidate's resume and the job requirements.

Job Description:
%s

Candidate Background:
- Name: %s
- Total Experience: %s
- Current/Recent Role: %s
- Key Skills: %s
- Recent Projects: %s
- Education: %s

Create questions that:
1. Probe specific experiences mentioned in their resume
2. Assess depth of knowledge in their claimed skills
3. Explore their project work and technical decisions
4. Understand their growth and learning from past roles
5. Connect their background to the job requirements

Each question should reference specific elements from their resume and be tailored to their experience level.`,
		req.Count, req.JobDescription,
		c.name, c.experience, c.recentRole, strings.Join(c.skills, ", "), strings.Join(c.projects, "; "), c.education)

	var list questionList
	if err := s.gen.Generate(ctx, structured.Request{System: personalizedSystemPrompt(round), Prompt: prompt, Schema: personalizedSchema}, &list); err != nil {
		return nil, err
	}

	questions := head(list.Questions, req.Count)
	for i := range questions {
		questions[i].Personalized = true
		questions[i].FollowUps = nonNil(questions[i].FollowUps)
	}

	s.logger.Info("personalized questions generated",
		zap.String("round", string(round)),
		zap.Int("requested", req.Count),
		zap.Int("generated", len(questions)),
	)

	return questions, nil
}

// Mixed splits Total between standard and personalized questions by Ratio,
// standard first, and renumbers the combined list from 1.
func (s *Synthesizer) Mixed(ctx context.Context, req MixedRequest) (*Set, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	round, _ := ParseRound(req.Round)

	personalizedCount := int(math.Floor(float64(req.Total) * req.Ratio))
	standardCount := req.Total - personalizedCount
	if personalizedCount > 0 && req.Profile == nil {
		return nil, failure.New(failure.InvalidInput, "candidate profile is required for %d personalized questions", personalizedCount)
	}

	standard, err := s.Standard(ctx, StandardRequest{
		JobDescription: req.JobDescription,
		Round:          string(round),
		FocusArea:      req.FocusArea,
		Count:          standardCount,
	})
	if err != nil {
		return nil, err
	}

	personalized := []Question{}
	if personalizedCount > 0 {
		personalized, err = s.Personalized(ctx, PersonalizedRequest{
			Profile:        req.Profile,
			JobDescription: req.JobDescription,
			Round:          string(round),
			Count:          personalizedCount,
		})
		if err != nil {
			return nil, err
		}
	}

	all := make([]Question, 0, len(standard)+len(personalized))
	all = append(all, standard...)
	all = append(all, personalized...)
	for i := range all {
		all[i].ID = i + 1
	}

	return &Set{
		JobTitle:          JobTitle(req.JobDescription),
		Round:             round,
		FocusArea:         req.FocusArea,
		Questions:         all,
		Total:             len(all),
		StandardCount:     len(standard),
		PersonalizedCount: len(personalized),
	}, nil
}

func (r StandardRequest) Validate() error {
	if _, err := ParseRound(r.Round); err != nil {
		return err
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return failure.New(failure.InvalidInput, "job description is empty")
	}
	_, err := r.levels()
	return err
}

// levels normalises the requested difficulties, defaulting to medium.
func (r StandardRequest) levels() ([]string, error) {
	levels := make([]string, 0, len(r.Difficulties))
	for _, d := range r.Difficulties {
		level, err := ParseDifficulty(string(d))
		if err != nil {
			return nil, err
		}
		levels = append(levels, string(level))
	}
	if len(levels) == 0 {
		levels = []string{string(DifficultyMedium)}
	}
	return levels, nil
}

// Validate checks everything except the profile, so a request can be rejected
// before the resume is parsed.
func (r PersonalizedRequest) Validate() error {
	if _, err := ParseRound(r.Round); err != nil {
		return err
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return failure.New(failure.InvalidInput, "job description is empty")
	}
	return nil
}

// Validate checks everything except the profile, so a request can be rejected
// before the resume is parsed.
func (r MixedRequest) Validate() error {
	if _, err := ParseRound(r.Round); err != nil {
		return err
	}
	if r.Ratio < 0 || r.Ratio > 1 || math.IsNaN(r.Ratio) {
		return failure.New(failure.InvalidInput, "personalized ratio %v is outside [0, 1]", r.Ratio)
	}
	if r.Total < 0 {
		return failure.New(failure.InvalidInput, "question count %d is negative", r.Total)
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return failure.New(failure.InvalidInput, "job description is empty")
	}
	return nil
}

// JobTitle guesses a title from the first lines of a job description.
func JobTitle(jobDescription string) string {
	lines := strings.Split(jobDescription, "\n")
	for _, line := range head(lines, titleSearchLines) {
		lower := strings.ToLower(line)
		for _, k := range titleKeywords {
			if strings.Contains(lower, k) {
				return strings.TrimSpace(line)
			}
		}
	}
	return unknownPosition
}

type candidate struct {
	name       string
	experience string
	recentRole string
	skills     []string
	projects   []string
	education  string
}

func candidateContext(p *resume.Profile) candidate {
	c := candidate{
		name:       resume.Or(p.About.Name, notSpecified),
		experience: notSpecified,
		recentRole: notSpecified,
		skills:     head(p.Skills, maxContextSkills),
		education:  notSpecified,
	}
	if p.About.TotalWorkExperience != nil {
		c.experience = fmt.Sprintf("%d years", *p.About.TotalWorkExperience)
	}
	if len(p.WorkExperience) > 0 {
		c.recentRole = p.WorkExperience[0].Role()
	}
	for _, project := range head(p.Projects, maxContextProjects) {
		c.projects = append(c.projects, fmt.Sprintf("%s (%s)", resume.Str(project.Title), strings.Join(head(project.Skills, maxProjectSkills), ", ")))
	}
	if len(p.Education) > 0 {
		c.education = p.Education[0].Summary()
	}
	return c
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

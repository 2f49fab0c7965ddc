package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/blacktable/internal/ai/schema"
	"github.com/spigell/blacktable/internal/ai/structured"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/fitscore"
	"github.com/spigell/blacktable/internal/logger"
	"github.com/spigell/blacktable/internal/resume"

	"go.uber.org/zap"
)

// Generator produces schema-validated values.
type Generator interface {
	Generate(ctx context.Context, req structured.Request, out any) error
}

// FitCalculator scores a profile against a job description.
type FitCalculator interface {
	Calculate(ctx context.Context, profile *resume.Profile, jobDescription string) (*fitscore.Result, error)
}

var evaluationSchema = schema.New("ApplicationAnalysis",
	schema.Number("ai_score").Req().Range(0, 100).Desc("AI-generated fit score"),
	schema.Object("why_match",
		schema.Strings("skill_matches"),
		schema.Strings("experience_matches"),
		schema.Strings("cultural_fit"),
		schema.Strings("growth_potential"),
		schema.Strings("other_positives"),
	).Req(),
	schema.Object("why_not_match",
		schema.Strings("skill_gaps"),
		schema.Strings("experience_gaps"),
		schema.Strings("overqualification"),
		schema.Strings("salary_mismatch"),
		schema.Strings("other_concerns"),
	).Req(),
	schema.Object("candidate_profile",
		schema.Strings("experience"),
		schema.String("about"),
		schema.Strings("skills"),
		schema.Strings("previous_jobs"),
		schema.Strings("college"),
		schema.Map("other_details"),
	).Req(),
	schema.String("overall_recommendation").Req().OneOf(
		string(fitscore.StronglyRecommend), string(fitscore.Recommend), string(fitscore.Consider), string(fitscore.NotRecommend),
	),
	schema.String("confidence_level").Req().OneOf(string(ConfidenceHigh), string(ConfidenceMedium), string(ConfidenceLow)),
	schema.String("executive_summary").Req().Desc("Brief executive summary for hiring managers"),
	schema.Strings("key_highlights").Desc("Top 3-5 key highlights"),
	schema.Strings("next_steps"),
	schema.Strings("interview_focus_areas"),
)

const systemPrompt = `You are an expert AI recruitment analyst with deep expertise in talent assessment,
job matching, and candidate evaluation. Your role is to provide comprehensive,
objective, and actionable analysis of job applications.

You will receive job application data along with detailed FIT Score analysis that provides
technical skill matching, experience relevance, and detailed gap analysis. Use this
FIT Score data to enhance your assessment and provide more accurate analysis.

Analyze the provided job application data against the job requirements and provide:
1. A precise AI fit score (0-100) - consider and incorporate the FIT Score analysis
2. Detailed reasons why the candidate matches
3. Detailed reasons for concerns or gaps
4. Extracted candidate profile information
5. Strategic hiring recommendations

Be thorough, objective, and provide actionable insights for hiring managers.
Focus on both hard skills and soft skills, cultural fit, growth potential, and overall suitability.
Use the FIT Score analysis to inform your technical assessment while adding your own insights
on communication, cultural fit, and overall potential.`

// Analyzer runs the application evaluation. The FIT score is best effort; the
// final analysis call is not.
type Analyzer struct {
	gen    Generator
	fit    FitCalculator
	logger *zap.Logger
}

// NewAnalyzer returns an Analyzer. fit may be nil, in which case no FIT score is attempted.
func NewAnalyzer(gen Generator, fit FitCalculator, log *zap.Logger) *Analyzer {
	return &Analyzer{gen: gen, fit: fit, logger: logger.ForOperation(log, "analyze_application")}
}

// Analyze evaluates app against job. A failed analysis call is reported as
// AnalysisFailed and any FIT score computed on the way is discarded.
func (a *Analyzer) Analyze(ctx context.Context, job JobPosting, app Application) (*Evaluation, error) {
	if strings.TrimSpace(job.Title) == "" {
		return nil, failure.New(failure.InvalidInput, "job title is empty")
	}
	if strings.TrimSpace(job.Description) == "" {
		return nil, failure.New(failure.InvalidInput, "job description is empty")
	}

	var fit *fitscore.Result
	if app.Profile != nil && a.fit != nil {
		result, err := a.fit.Calculate(ctx, app.Profile, job.Description)
		if err != nil {
			a.logger.Warn("fit score unavailable, continuing without it",
				zap.String("job_title", job.Title),
				zap.Error(err),
			)
		} else {
			fit = result
		}
	}

	var evaluation Evaluation
	req := structured.Request{System: systemPrompt, Prompt: Prompt(job, app, fit), Schema: evaluationSchema}
	if err := a.gen.Generate(ctx, req, &evaluation); err != nil {
		return nil, failure.Wrap(failure.AnalysisFailed, err, "analyze application for %q", job.Title)
	}
	evaluation.Fit = fit

	a.logger.Info("application analyzed",
		zap.String("job_title", job.Title),
		zap.Float64("ai_score", evaluation.AIScore),
		zap.String("recommendation", string(evaluation.Recommendation)),
		zap.Bool("with_fit_score", fit != nil),
	)

	return &evaluation, nil
}

// Prompt renders the analysis request. fit may be nil.
func Prompt(job JobPosting, app Application, fit *fitscore.Result) string {
	var b strings.Builder

	b.WriteString("Analyze this job application comprehensively:\n\n")
	section(&b, "JOB REQUIREMENTS")
	fmt.Fprintf(&b, "Job Title: %s\nJob Description: %s\n", job.Title, job.Description)
	if s := resume.Str(job.SalaryRange); s != "" {
		fmt.Fprintf(&b, "Salary Range: %s\n", s)
	}
	if len(job.PrescreeningQuestions) > 0 {
		fmt.Fprintf(&b, "Pre-screening Questions: %s\n", strings.Join(job.PrescreeningQuestions, ", "))
	}

	b.WriteString("\n")
	section(&b, "CANDIDATE APPLICATION")
	optional(&b, "Current CTC", app.CurrentCTC)
	optional(&b, "Expected CTC", app.ExpectedCTC)
	optional(&b, "Notice Period", app.NoticePeriod)

	if len(app.Responses) > 0 {
		b.WriteString("\nPre-screening Responses:\n")
		for _, r := range app.Responses {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", r.Question, r.Answer)
		}
	}

	if len(app.AdditionalFields) > 0 {
		b.WriteString("\nAdditional Information:\n")
		keys := make([]string, 0, len(app.AdditionalFields))
		for k := range app.AdditionalFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, app.AdditionalFields[k])
		}
	}

	if app.Profile != nil {
		b.WriteString("\n")
		writeResume(&b, app.Profile)
	}

	if fit != nil {
		b.WriteString("\n")
		writeFit(&b, fit)
	}

	b.WriteString("\n")
	section(&b, "ANALYSIS REQUIREMENTS")
	b.WriteString(analysisRequirements)

	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s:\n%s\n", title, strings.Repeat("=", len(title)+1))
}

func optional(b *strings.Builder, label string, value *string) {
	if v := resume.Str(value); v != "" {
		fmt.Fprintf(b, "%s: %s\n", label, v)
	}
}

func writeResume(b *strings.Builder, p *resume.Profile) {
	section(b, "RESUME DATA")

	fmt.Fprintf(b, "Candidate Name: %s\n", resume.Or(p.About.Name, "Not provided"))
	fmt.Fprintf(b, "Email: %s\n", resume.Or(p.About.Email, "Not provided"))
	fmt.Fprintf(b, "Mobile: %s\n", resume.Or(p.About.Mobile, "Not provided"))
	fmt.Fprintf(b, "LinkedIn: %s\n", resume.Or(p.About.LinkedIn, "Not provided"))
	fmt.Fprintf(b, "About: %s\n", resume.Or(p.About.Summary, "Not provided"))
	fmt.Fprintf(b, "Total Work Experience: %d years\n\n", p.Years())

	if len(p.WorkExperience) > 0 {
		b.WriteString("Work Experience:\n")
		for _, job := range p.WorkExperience {
			fmt.Fprintf(b, "- %s at %s\n", resume.Or(job.Title, "Unknown Title"), resume.Or(job.Company, "Unknown Company"))
			duration(b, job.Timeline)
			if len(job.Skills) > 0 {
				fmt.Fprintf(b, "  Skills: %s\n", strings.Join(job.Skills, ", "))
			}
			if len(job.Description) > 0 {
				fmt.Fprintf(b, "  Description: %s\n", strings.Join(head(job.Description, 2), " "))
			}
		}
		b.WriteString("\n")
	}

	if len(p.Education) > 0 {
		b.WriteString("Education:\n")
		for _, edu := range p.Education {
			fmt.Fprintf(b, "- %s in %s\n", resume.Or(edu.Degree, "Unknown Degree"), resume.Or(edu.Course, "Unknown Course"))
			fmt.Fprintf(b, "  Institution: %s\n", resume.Or(edu.College, "Unknown College"))
			duration(b, edu.Timeline)
			if edu.CGPA != nil {
				fmt.Fprintf(b, "  CGPA: %v\n", *edu.CGPA)
			}
		}
		b.WriteString("\n")
	}

	if len(p.Projects) > 0 {
		b.WriteString("Projects:\n")
		for _, project := range head(p.Projects, 3) {
			fmt.Fprintf(b, "- %s\n", resume.Or(project.Title, "Unknown Project"))
			if len(project.Skills) > 0 {
				fmt.Fprintf(b, "  Technologies: %s\n", strings.Join(project.Skills, ", "))
			}
			if len(project.Description) > 0 {
				fmt.Fprintf(b, "  Description: %s\n", project.Description[0])
			}
		}
		b.WriteString("\n")
	}

	if len(p.Skills) > 0 {
		fmt.Fprintf(b, "Overall Skills: %s\n", strings.Join(p.Skills, ", "))
	}
	if len(p.Achievements) > 0 {
		fmt.Fprintf(b, "Achievements: %s\n", strings.Join(p.Achievements, ", "))
	}
}

func duration(b *strings.Builder, t *resume.Timeline) {
	if t == nil {
		return
	}
	fmt.Fprintf(b, "  Duration: %s to %s\n", resume.Or(t.Start, "N/A"), resume.Or(t.End, "N/A"))
}

func writeFit(b *strings.Builder, fit *fitscore.Result) {
	section(b, "FIT SCORE ANALYSIS")

	fmt.Fprintf(b, "Technical FIT Score: %.1f/100 (%s)\n", fit.Score, fit.Category)
	fmt.Fprintf(b, "Confidence Level: %.2f\n\n", fit.Confidence)

	b.WriteString("Component Scores:\n")
	fmt.Fprintf(b, "- Skills Match: %.1f/100\n", fit.SkillScore)
	fmt.Fprintf(b, "- Experience Match: %.1f/100\n", fit.ExperienceScore)
	fmt.Fprintf(b, "- Education Match: %.1f/100\n", fit.EducationScore)
	fmt.Fprintf(b, "- Growth Potential: %.1f/100\n\n", fit.PotentialScore)

	strengths := make([]string, len(fit.Strengths))
	for i, s := range fit.Strengths {
		strengths[i] = s.Description
	}
	gaps := make([]string, len(fit.Gaps))
	for i, g := range fit.Gaps {
		gaps[i] = fmt.Sprintf("%s (%s)", g.Description, g.Severity)
	}

	bullets(b, "Strengths Identified", strengths)
	bullets(b, "Gaps Identified", gaps)
	bullets(b, "FIT Score Recommendations", fit.Recommendations)

	fmt.Fprintf(b, "FIT Score Summary: %s\n", fit.Summary)
	fmt.Fprintf(b, "FIT Score Hiring Recommendation: %s\n\n", fit.HiringRecommendation)

	b.WriteString("Detailed Technical Analysis:\n")
	fmt.Fprintf(b, "- Total Skills Analyzed: %d\n", len(fit.Analysis.SkillMatches))
	fmt.Fprintf(b, "- Skills Matched: %d\n", fit.Analysis.MatchedSkills())
	fmt.Fprintf(b, "- Experience Areas Evaluated: %d\n", len(fit.Analysis.ExperienceMatches))
	fmt.Fprintf(b, "- Education Assessment: %s\n", fit.Analysis.EducationMatch.CandidateEducation)
}

func bullets(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

const analysisRequirements = `Please provide a comprehensive analysis including:

1. AI Score (0-100): Calculate based on overall fit considering:
   - Technical skills match (use FIT Score analysis as primary reference)
   - Experience relevance
   - Cultural fit indicators
   - Growth potential
   - Salary expectations alignment
   - Communication quality in responses
   - Overall FIT Score assessment and recommendations

2. Why Match: Identify specific reasons why this candidate is a good fit:
   - Skill matches with job requirements (reference FIT Score detailed analysis)
   - Relevant experience indicators (use FIT Score experience matches)
   - Cultural fit signals
   - Growth potential evidence (consider FIT Score potential score)
   - Communication quality from responses
   - Other positive indicators from FIT Score strengths

3. Why Not Match: Identify potential concerns or gaps:
   - Missing or weak skills (reference FIT Score gaps analysis)
   - Experience gaps (use FIT Score experience analysis)
   - Overqualification risks
   - Salary mismatch concerns
   - Communication or response quality issues
   - Other concerns from FIT Score analysis

4. Candidate Profile: Extract and infer:
   - Experience list (work history indicators)
   - About summary (professional summary)
   - Skills list (technical and soft skills)
   - Previous jobs (job titles and companies)
   - College information (education background)
   - Other relevant details

5. Recommendations: Provide strategic hiring advice including:
   - Overall recommendation level (consider FIT Score hiring recommendation)
   - Confidence in assessment (factor in FIT Score confidence)
   - Executive summary (incorporate FIT Score insights)
   - Key highlights (include both technical and soft skill assessments)
   - Next steps (consider FIT Score recommendations)
   - Interview focus areas (target both technical gaps and cultural fit)

Be thorough, objective, and provide actionable insights for hiring decisions.
When FIT Score analysis is available, use it as the foundation for technical assessment
while adding your insights on communication skills, cultural fit, and overall candidate potential.
If FIT Score analysis is not available, perform your own technical assessment.
`

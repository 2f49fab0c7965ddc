package server

import (
	"strconv"
	"strings"

	"github.com/spigell/blacktable/internal/application"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/questions"
	"github.com/spigell/blacktable/internal/resume"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const resumeField = "resume"

type analyzeRequest struct {
	Job         application.JobPosting  `json:"job"`
	Application application.Application `json:"application"`
}

func (s *Server) parseResume(c *fiber.Ctx) error {
	profile, err := s.uploadedProfile(c)
	if err != nil {
		return err
	}
	return success(c, "resume parsed", profile)
}

func (s *Server) fitScore(c *fiber.Ctx) error {
	jobDescription := c.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		return failure.New(failure.InvalidInput, "job_description is required")
	}

	profile, err := s.uploadedProfile(c)
	if err != nil {
		return err
	}

	result, err := s.svc.CalculateFit(c.UserContext(), profile, jobDescription)
	if err != nil {
		return err
	}

	if assess, _ := strconv.ParseBool(c.FormValue("assess")); assess {
		if err := s.svc.AssessFit(c.UserContext(), profile, result); err != nil {
			s.logger.Warn("returning fit score without written assessment", zap.Error(err))
		}
	}

	return success(c, "fit score calculated", result)
}

func (s *Server) generateQuestions(c *fiber.Ctx) error {
	var req questions.StandardRequest
	if err := c.BodyParser(&req); err != nil {
		return failure.Wrap(failure.InvalidInput, err, "decode request body")
	}
	if req.Count == 0 {
		req.Count = s.svc.QuestionDefaults().Count
	}
	if err := req.Validate(); err != nil {
		return err
	}

	generated, err := s.svc.GenerateQuestions(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, "questions generated", fiber.Map{"questions": generated})
}

func (s *Server) personalizedQuestions(c *fiber.Ctx) error {
	count, err := formInt(c, "question_count", s.svc.QuestionDefaults().Count)
	if err != nil {
		return err
	}

	req := questions.PersonalizedRequest{
		JobDescription: c.FormValue("job_description"),
		Round:          c.FormValue("interview_round"),
		Count:          count,
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Profile, err = s.uploadedProfile(c); err != nil {
		return err
	}

	generated, err := s.svc.GeneratePersonalizedQuestions(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, "personalized questions generated", fiber.Map{"questions": generated})
}

func (s *Server) mixedQuestions(c *fiber.Ctx) error {
	defaults := s.svc.QuestionDefaults()

	total, err := formInt(c, "total_questions", defaults.Count)
	if err != nil {
		return err
	}
	ratio, err := formFloat(c, "personalized_ratio", defaults.PersonalizedRatio)
	if err != nil {
		return err
	}

	req := questions.MixedRequest{
		JobDescription: c.FormValue("job_description"),
		Round:          c.FormValue("interview_round"),
		FocusArea:      c.FormValue("focus_area"),
		Total:          total,
		Ratio:          ratio,
	}
	if err := req.Validate(); err != nil {
		return err
	}
	// A set without a personalized share needs no resume.
	if req.Profile, err = s.optionalProfile(c); err != nil {
		return err
	}

	set, err := s.svc.GenerateMixedQuestions(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, "question set generated", set)
}

// analyzeApplication accepts either a JSON body or the multipart form used by
// the browser client, where the resume travels as an upload.
func (s *Server) analyzeApplication(c *fiber.Ctx) error {
	var (
		req analyzeRequest
		err error
	)
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		req, err = s.analyzeForm(c)
		if err != nil {
			return err
		}
	} else if err := c.BodyParser(&req); err != nil {
		return failure.Wrap(failure.InvalidInput, err, "decode request body")
	}
	req.Application.Profile.Normalize()

	evaluation, err := s.svc.AnalyzeApplication(c.UserContext(), req.Job, req.Application)
	if err != nil {
		return err
	}
	return success(c, "application analyzed", evaluation)
}

func (s *Server) analyzeForm(c *fiber.Ctx) (analyzeRequest, error) {
	req := analyzeRequest{
		Job: application.JobPosting{
			Title:       c.FormValue("job_title"),
			Description: c.FormValue("job_description"),
			SalaryRange: optionalForm(c, "salary_range"),
		},
		Application: application.Application{
			CurrentCTC:   optionalForm(c, "current_ctc"),
			ExpectedCTC:  optionalForm(c, "expected_ctc"),
			NoticePeriod: optionalForm(c, "notice_period"),
		},
	}
	if strings.TrimSpace(req.Job.Title) == "" {
		return req, failure.New(failure.InvalidInput, "job_title is required")
	}
	if strings.TrimSpace(req.Job.Description) == "" {
		return req, failure.New(failure.InvalidInput, "job_description is required")
	}

	var err error
	if req.Job.PrescreeningQuestions, err = formQuestions(c, "prescreening_questions"); err != nil {
		return req, err
	}
	if req.Application.Responses, err = formResponses(c, "prescreening_responses"); err != nil {
		return req, err
	}
	if req.Application.Profile, err = s.optionalProfile(c); err != nil {
		return req, err
	}
	return req, nil
}

// uploadedProfile parses the resume document sent in the multipart form.
func (s *Server) uploadedProfile(c *fiber.Ctx) (*resume.Profile, error) {
	header, err := c.FormFile(resumeField)
	if err != nil {
		return nil, failure.Wrap(failure.InvalidInput, err, "%s file is required", resumeField)
	}

	file, err := header.Open()
	if err != nil {
		return nil, failure.Wrap(failure.InvalidInput, err, "open uploaded %s", resumeField)
	}
	defer file.Close()

	return s.svc.ParseResumeUpload(c.UserContext(), header.Filename, file)
}

// optionalProfile is uploadedProfile for forms where the resume may be left out.
func (s *Server) optionalProfile(c *fiber.Ctx) (*resume.Profile, error) {
	if _, err := c.FormFile(resumeField); err != nil {
		return nil, nil
	}
	return s.uploadedProfile(c)
}

func optionalForm(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// formQuestions reads a JSON array of question strings from a form field.
func formQuestions(c *fiber.Ctx, key string) ([]string, error) {
	doc, err := formJSON(c, key)
	if err != nil || !doc.Exists() {
		return []string{}, err
	}
	if !doc.IsArray() {
		return nil, failure.New(failure.InvalidInput, "%s must be a json array", key)
	}
	out := []string{}
	for _, q := range doc.Array() {
		if text := strings.TrimSpace(q.String()); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

// formResponses reads a JSON object of question to answer pairs from a form
// field, keeping the order the client sent them in.
func formResponses(c *fiber.Ctx, key string) ([]application.Response, error) {
	doc, err := formJSON(c, key)
	if err != nil || !doc.Exists() {
		return []application.Response{}, err
	}
	if !doc.IsObject() {
		return nil, failure.New(failure.InvalidInput, "%s must be a json object", key)
	}
	out := []application.Response{}
	doc.ForEach(func(q, a gjson.Result) bool {
		out = append(out, application.Response{Question: q.String(), Answer: a.String()})
		return true
	})
	return out, nil
}

func formJSON(c *fiber.Ctx, key string) (gjson.Result, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return gjson.Result{}, nil
	}
	if !gjson.Valid(raw) {
		return gjson.Result{}, failure.New(failure.InvalidInput, "%s is not valid json", key)
	}
	return gjson.Parse(raw), nil
}

func formInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.Wrap(failure.InvalidInput, err, "%s must be an integer", key)
	}
	return v, nil
}

func formFloat(c *fiber.Ctx, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, failure.Wrap(failure.InvalidInput, err, "%s must be a number", key)
	}
	return v, nil
}

package resume

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/blacktable/internal/ai/structured"
	"github.com/spigell/blacktable/internal/failure"
	"github.com/spigell/blacktable/internal/logger"

	"go.uber.org/zap"
)

const systemPrompt = `You are an expert resume parser. Extract all relevant information from the resume and structure it according to the provided JSON schema.

Guidelines:
- Extract all information accurately
- If information is not present, use null or empty arrays as appropriate
- For work experience, assign sequential IDs starting from 1
- For projects and education, also use sequential IDs
- Parse dates in a readable format (e.g., "October 2023", "June 2023")
- Extract skills from throughout the resume
- Calculate total work experience in years
- Be thorough in extracting descriptions and achievements`

// Generator produces schema-validated values.
type Generator interface {
	Generate(ctx context.Context, req structured.Request, out any) error
}

// Converter turns documents into text.
type Converter interface {
	ConvertFile(path string) (string, error)
	Convert(name string, r io.Reader) (string, error)
}

// Parser builds Profiles from resume text or documents.
type Parser struct {
	gen       Generator
	converter Converter
	logger    *zap.Logger
}

func NewParser(gen Generator, converter Converter, log *zap.Logger) *Parser {
	return &Parser{
		gen:       gen,
		converter: converter,
		logger:    logger.ForOperation(log, "parse_resume"),
	}
}

// ParseText extracts a Profile from plain resume text.
func (p *Parser) ParseText(ctx context.Context, text string) (*Profile, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, failure.New(failure.InvalidInput, "resume text is empty")
	}

	prompt := fmt.Sprintf(`Please parse the following resume content and extract all information according to the JSON schema:

Resume Content:
%s

Extract all personal information, work experience, projects, education, skills, achievements, and any other relevant details. Ensure all data is properly structured and accurate.`, text)

	var profile Profile
	if err := p.gen.Generate(ctx, structured.Request{System: systemPrompt, Prompt: prompt, Schema: Schema}, &profile); err != nil {
		return nil, err
	}
	profile.Normalize()

	p.logger.Info("resume parsed",
		zap.Int("jobs", len(profile.WorkExperience)),
		zap.Int("projects", len(profile.Projects)),
		zap.Int("skills", len(profile.Skills)),
	)

	return &profile, nil
}

// ParseFile converts the document at path and parses it. Format and existence
// are checked before the model is called.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Profile, error) {
	text, err := p.converter.ConvertFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseText(ctx, text)
}

// Parse converts an uploaded document and parses it.
func (p *Parser) Parse(ctx context.Context, name string, r io.Reader) (*Profile, error) {
	text, err := p.converter.Convert(name, r)
	if err != nil {
		return nil, err
	}
	return p.ParseText(ctx, text)
}

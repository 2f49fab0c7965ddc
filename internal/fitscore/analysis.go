package fitscore

import (
	"fmt"
	"strings"

	"github.com/spigell/blacktable/internal/resume"
)

const maxRecommendations = 5

// Strengths lists what speaks for the candidate.
func Strengths(profile *resume.Profile, skills []SkillMatch) []Strength {
	strengths := []Strength{}

	var matched []string
	for _, s := range skills {
		if s.CandidateHas && s.Confidence > 0.7 {
			matched = append(matched, s.Skill)
		}
	}
	if len(matched) > 0 {
		evidence := make([]string, 0, 3)
		for _, s := range head(matched, 3) {
			evidence = append(evidence, "Demonstrated experience with "+s)
		}
		strengths = append(strengths, Strength{
			Category:    "skills",
			Description: "Strong technical skills in " + strings.Join(head(matched, 5), ", "),
			Evidence:    evidence,
			Relevance:   0.9,
		})
	}

	if years := profile.Years(); years >= 3 {
		strengths = append(strengths, Strength{
			Category:    "experience",
			Description: fmt.Sprintf("Solid professional experience (%d years)", years),
			Evidence:    []string{fmt.Sprintf("Total work experience: %d years", years)},
			Relevance:   0.8,
		})
	}

	if profile != nil && len(profile.Projects) > 0 {
		evidence := make([]string, 0, 3)
		for _, p := range head(profile.Projects, 3) {
			evidence = append(evidence, "Project: "+resume.Str(p.Title))
		}
		strengths = append(strengths, Strength{
			Category:    "projects",
			Description: fmt.Sprintf("Diverse project portfolio (%d projects)", len(profile.Projects)),
			Evidence:    evidence,
			Relevance:   0.7,
		})
	}

	return strengths
}

// Gaps lists missing required skills and weakly covered experience requirements.
func Gaps(skills []SkillMatch, experience []ExperienceMatch) []Gap {
	gaps := []Gap{}

	missing := missingRequired(skills)
	if len(missing) > 0 {
		severity := SeverityImportant
		if len(missing) > 3 {
			severity = SeverityCritical
		}
		gaps = append(gaps, Gap{
			Category:    "skills",
			Description: "Missing required skills: " + strings.Join(missing, ", "),
			Severity:    severity,
			Mitigations: []string{
				"Consider training programs or certifications",
				"Look for transferable skills from related technologies",
				"Assess learning potential and adaptability",
			},
		})
	}

	if hasWeakExperience(experience) {
		gaps = append(gaps, Gap{
			Category:    "experience",
			Description: "Limited relevant experience in some required areas",
			Severity:    SeverityImportant,
			Mitigations: []string{
				"Evaluate transferable experience",
				"Consider mentoring and on-the-job training",
				"Assess growth potential and learning ability",
			},
		})
	}

	return gaps
}

// Recommendations derives at most five hiring actions from the analysis.
func Recommendations(a Analysis) []string {
	recs := []string{}

	if missing := missingRequired(a.SkillMatches); len(missing) > 0 {
		recs = append(recs, "Consider training for missing skills: "+strings.Join(head(missing, 3), ", "))
	}
	if hasWeakExperience(a.ExperienceMatches) {
		recs = append(recs, "Provide mentoring for areas with limited experience")
	}
	if len(a.Strengths) > 0 {
		recs = append(recs, "Leverage candidate's strength in "+a.Strengths[0].Category)
	}
	for _, g := range a.Gaps {
		if len(g.Mitigations) > 0 {
			recs = append(recs, g.Mitigations[0])
		}
	}

	return head(recs, maxRecommendations)
}

func missingRequired(skills []SkillMatch) []string {
	var missing []string
	for _, s := range skills {
		if s.Required && !s.CandidateHas {
			missing = append(missing, s.Skill)
		}
	}
	return missing
}

func hasWeakExperience(experience []ExperienceMatch) bool {
	for _, e := range experience {
		if e.Score < 0.5 {
			return true
		}
	}
	return false
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

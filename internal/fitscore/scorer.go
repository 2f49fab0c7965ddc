package fitscore

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/blacktable/internal/resume"
)

const (
	confidenceHas     = 0.9
	confidenceMissing = 0.1

	noExperience = "No relevant experience found"
	noEducation  = "No education information"

	weightSkill      = 0.4
	weightExperience = 0.4
	weightEducation  = 0.2

	fallbackConfidence = 0.7
)

var (
	degreeLevels    = []string{"bachelor", "master", "phd", "doctorate"}
	technicalFields = []string{"computer", "engineering", "science", "technology"}
)

// MatchSkills checks every required and preferred skill against the candidate's
// skills. Required skills come first; exact duplicates are reported once and
// blank names are skipped.
func MatchSkills(candidate, required, preferred []string) []SkillMatch {
	isRequired := make(map[string]bool, len(required))
	for _, s := range required {
		isRequired[s] = true
	}

	lowered := make([]string, 0, len(candidate))
	for _, c := range candidate {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			lowered = append(lowered, c)
		}
	}

	seen := make(map[string]bool, len(required)+len(preferred))
	matches := make([]SkillMatch, 0, len(required)+len(preferred))
	for _, skill := range append(append([]string{}, required...), preferred...) {
		if seen[skill] || strings.TrimSpace(skill) == "" {
			continue
		}
		seen[skill] = true

		has := hasSkill(lowered, strings.ToLower(skill))
		confidence := confidenceMissing
		if has {
			confidence = confidenceHas
		}

		matches = append(matches, SkillMatch{
			Skill:        skill,
			Required:     isRequired[skill],
			CandidateHas: has,
			Confidence:   confidence,
		})
	}

	return matches
}

func hasSkill(candidate []string, skill string) bool {
	for _, c := range candidate {
		if strings.Contains(c, skill) || strings.Contains(skill, c) {
			return true
		}
	}
	return false
}

// MatchExperience scores each requirement by the share of its words found in the
// best single job.
func MatchExperience(jobs []resume.WorkExperience, requirements []string) []ExperienceMatch {
	texts := make([]string, len(jobs))
	for i, job := range jobs {
		texts[i] = strings.ToLower(fmt.Sprintf("%s %s %s", resume.Str(job.Title), resume.Str(job.Company), strings.Join(job.Description, " ")))
	}

	matches := make([]ExperienceMatch, 0, len(requirements))
	for _, req := range requirements {
		tokens := strings.Fields(strings.ToLower(req))

		best := 0.0
		bestJob := noExperience
		for i, text := range texts {
			score := 0.0
			if len(tokens) > 0 {
				found := 0
				for _, token := range tokens {
					if strings.Contains(text, token) {
						found++
					}
				}
				score = float64(found) / float64(len(tokens))
			}
			if score > best {
				best = score
				bestJob = jobs[i].Role()
			}
		}

		matches = append(matches, ExperienceMatch{
			Requirement:         req,
			CandidateExperience: bestJob,
			Score:               best,
			Relevance:           RelevanceFor(best),
		})
	}

	return matches
}

// RelevanceFor maps an experience score to a tier.
func RelevanceFor(score float64) Relevance {
	switch {
	case score > 0.7:
		return RelevanceHigh
	case score > 0.3:
		return RelevanceMedium
	default:
		return RelevanceLow
	}
}

// MatchEducation compares the first education record with the requirement.
func MatchEducation(records []resume.Education, requirement *string) EducationMatch {
	match := EducationMatch{
		Requirement:        requirement,
		CandidateEducation: noEducation,
		Score:              0.5,
		Sufficient:         true,
	}
	if len(records) == 0 {
		return match
	}

	match.CandidateEducation = records[0].Summary()

	req := strings.ToLower(strings.TrimSpace(resume.Str(requirement)))
	if req == "" {
		return match
	}

	edu := strings.ToLower(match.CandidateEducation)
	if containsAny(req, degreeLevels) {
		if containsAny(edu, degreeLevels) {
			match.Score = 0.8
		} else {
			match.Score = 0.4
			match.Sufficient = false
		}
	}
	if containsAny(edu, technicalFields) {
		match.Score = math.Min(1, match.Score+0.2)
	}

	return match
}

// AggregateScores reduces the matches to three component scores in [0, 100].
func AggregateScores(skills []SkillMatch, experience []ExperienceMatch, education EducationMatch) Components {
	var c Components

	switch {
	case len(skills) == 0:
		c.Skill = 50
	default:
		required, sum := 0, 0.0
		for _, s := range skills {
			if !s.Required {
				continue
			}
			required++
			if s.CandidateHas {
				sum += s.Confidence
			}
		}
		if required == 0 {
			c.Skill = 70
		} else {
			c.Skill = sum / float64(required) * 100
		}
	}

	if len(experience) == 0 {
		c.Experience = 60
	} else {
		sum := 0.0
		for _, e := range experience {
			sum += e.Score
		}
		c.Experience = sum / float64(len(experience)) * 100
	}

	c.Education = education.Score * 100

	return c
}

// CategoryFor buckets a score.
func CategoryFor(score float64) Category {
	switch {
	case score >= 85:
		return CategoryExcellent
	case score >= 70:
		return CategoryGood
	case score >= 50:
		return CategoryFair
	default:
		return CategoryPoor
	}
}

// Weighted combines the components 40/40/20.
func (c Components) Weighted() float64 {
	return weightSkill*c.Skill + weightExperience*c.Experience + weightEducation*c.Education
}

// Fallback computes the overall verdict from the components alone.
func Fallback(c Components) Overall {
	score := c.Weighted()

	recommendation := Consider
	if score >= 70 {
		recommendation = Recommend
	}

	return Overall{
		Score:                score,
		Category:             CategoryFor(score),
		Confidence:           fallbackConfidence,
		PotentialScore:       math.Min(100, score+10),
		Summary:              fmt.Sprintf("Calculated FIT score of %.1f based on component analysis", score),
		HiringRecommendation: recommendation,
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

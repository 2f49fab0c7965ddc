// Package resume holds the structured candidate profile and turns resume text into it.
package resume

import (
	"fmt"
	"strings"
)

// Profile is the structured form of a resume. Lists are never nil once a profile
// has been parsed or normalised; unknown scalars are nil.
type Profile struct {
	About          About            `json:"about"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Projects       []Project        `json:"projects"`
	Education      []Education      `json:"education"`
	Skills         []string         `json:"skills"`
	Achievements   []string         `json:"achievements"`
	Publications   []string         `json:"publications"`
	Weblinks       []Weblink        `json:"weblinks"`

	LookingFor       *string `json:"looking_for,omitempty"`
	Certificates     *string `json:"certificates,omitempty"`
	Awards           *string `json:"awards,omitempty"`
	Hobbies          *string `json:"hobbies,omitempty"`
	Extracurriculars *string `json:"extracurriculars,omitempty"`
}

type About struct {
	Name                *string `json:"name,omitempty"`
	Email               *string `json:"email,omitempty"`
	Mobile              *string `json:"mobile,omitempty"`
	LinkedIn            *string `json:"linkedin,omitempty"`
	Summary             *string `json:"summary,omitempty"`
	TotalWorkExperience *int    `json:"total_work_experience,omitempty"`
}

type Location struct {
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
}

type Timeline struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

type WorkExperience struct {
	ID          *int      `json:"id,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Timeline    *Timeline `json:"timeline,omitempty"`
	Skills      []string  `json:"skills"`
	Description []string  `json:"description"`
}

type Project struct {
	ID          *int      `json:"id,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Client      *string   `json:"client,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Role        *string   `json:"role,omitempty"`
	Timeline    *Timeline `json:"timeline,omitempty"`
	Skills      []string  `json:"skills"`
	Description []string  `json:"description"`
}

type Education struct {
	ID       *int      `json:"id,omitempty"`
	College  *string   `json:"college,omitempty"`
	Degree   *string   `json:"degree,omitempty"`
	Course   *string   `json:"course,omitempty"`
	Timeline *Timeline `json:"timeline,omitempty"`
	CGPA     *float64  `json:"cgpa,omitempty"`
}

type Weblink struct {
	Platform *string `json:"platform,omitempty"`
	Link     *string `json:"link,omitempty"`
}

// Normalize replaces nil lists with empty ones, recursively.
func (p *Profile) Normalize() {
	if p == nil {
		return
	}
	p.WorkExperience = nonNil(p.WorkExperience)
	p.Projects = nonNil(p.Projects)
	p.Education = nonNil(p.Education)
	p.Skills = nonNil(p.Skills)
	p.Achievements = nonNil(p.Achievements)
	p.Publications = nonNil(p.Publications)
	p.Weblinks = nonNil(p.Weblinks)

	for i := range p.WorkExperience {
		p.WorkExperience[i].Skills = nonNil(p.WorkExperience[i].Skills)
		p.WorkExperience[i].Description = nonNil(p.WorkExperience[i].Description)
	}
	for i := range p.Projects {
		p.Projects[i].Skills = nonNil(p.Projects[i].Skills)
		p.Projects[i].Description = nonNil(p.Projects[i].Description)
	}
}

// Name returns the candidate name or an empty string.
func (p *Profile) Name() string {
	if p == nil {
		return ""
	}
	return Str(p.About.Name)
}

// Years returns the total work experience or 0 when unknown.
func (p *Profile) Years() int {
	if p == nil || p.About.TotalWorkExperience == nil {
		return 0
	}
	return *p.About.TotalWorkExperience
}

// Role renders a job as "Title at Company".
func (w WorkExperience) Role() string {
	return fmt.Sprintf("%s at %s", Str(w.Title), Str(w.Company))
}

// Summary renders an education record as "Degree in Course from College".
func (e Education) Summary() string {
	return fmt.Sprintf("%s in %s from %s", Str(e.Degree), Str(e.Course), Str(e.College))
}

// Str dereferences an optional string.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Or dereferences an optional string, substituting fallback for nil or blank values.
func Or(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

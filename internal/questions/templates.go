package questions

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var templateFS embed.FS

var roundTypes = map[Round][]Type{
	RoundScreening:  {TypeBehavioral, TypeExperience},
	RoundTechnical:  {TypeTechnical, TypeSituational},
	RoundBehavioral: {TypeBehavioral, TypeSituational},
	RoundFinal:      {TypeBehavioral, TypeSituational},
	RoundHR:         {TypeBehavioral},
}

// systemPrompt returns the interviewer persona for a round followed by the
// generic guidance shared by all rounds.
func systemPrompt(round Round) (string, error) {
	persona, err := templateFS.ReadFile("templates/" + string(round) + ".md")
	if err != nil {
		return "", fmt.Errorf("load template for round %s: %w", round, err)
	}

	types := make([]string, 0, len(roundTypes[round]))
	for _, t := range roundTypes[round] {
		types = append(types, string(t))
	}

	return fmt.Sprintf(`%s
Generate questions that are:
- Appropriate for %s round
- Focus on the specified area
- Include multiple difficulty levels
- Have clear evaluation criteria
- Include suggested follow-up questions

Question types to focus on: %s`, strings.TrimSpace(string(persona))+"\n", round, strings.Join(types, ", ")), nil
}

func personalizedSystemPrompt(round Round) string {
	return fmt.Sprintf(`You are an expert interviewer creating personalized questions based on the candidate's specific background.
Focus on their actual experience, projects, and skills to create targeted questions that reveal depth of knowledge and experience.

Interview Round: %s`, round)
}

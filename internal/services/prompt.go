package services

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

const bioExcerptLength = 600

var (
	//go:embed prompts/match_system.tmpl
	matchSystemPromptRaw string

	//go:embed prompts/match_user.tmpl
	matchUserPromptRaw string

	matchSystemTemplate = template.Must(template.New("match_system").Parse(matchSystemPromptRaw))
	matchUserTemplate   = template.Must(template.New("match_user").Parse(matchUserPromptRaw))
)

type Prompt struct {
	System string
	User   string
}

// BuildMatchPrompt renders the system segment (rules, coach context, output
// schema) and the user segment (the request and the number of matches wanted).
func BuildMatchPrompt(coaches []models.Coach, requestText string, count int) (Prompt, error) {
	if count < 1 {
		return Prompt{}, ErrInvalidMatchCount
	}

	var system strings.Builder
	if err := matchSystemTemplate.Execute(&system, struct {
		CoachContext string
		Count        int
	}{
		CoachContext: FormatCoachContext(coaches),
		Count:        count,
	}); err != nil {
		return Prompt{}, fmt.Errorf("render system prompt: %w", err)
	}

	var user strings.Builder
	if err := matchUserTemplate.Execute(&user, struct {
		RequestText string
		Count       int
	}{
		RequestText: requestText,
		Count:       count,
	}); err != nil {
		return Prompt{}, fmt.Errorf("render user prompt: %w", err)
	}

	return Prompt{
		System: strings.TrimSpace(system.String()),
		User:   strings.TrimSpace(user.String()),
	}, nil
}

// FormatCoachContext renders one block per coach for injection into the
// system prompt. Blocks are separated by "---" lines.
func FormatCoachContext(coaches []models.Coach) string {
	blocks := make([]string, 0, len(coaches))
	for _, coach := range coaches {
		blocks = append(blocks, formatCoach(coach))
	}
	return strings.Join(blocks, "\n")
}

func formatCoach(c models.Coach) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** [id: %s] | %s | Seniority: %d/8 | %s | %s\n",
		c.Name, c.ID, c.Gender, c.SeniorityScore, orDefault(stringValue(c.ICFLevel), "N/A"), orDefault(c.Timezone, "N/A"))
	fmt.Fprintf(&b, "Type: %s | Industries: %s | Companies: %s\n",
		orDefault(stringValue(c.PractitionerType), "Unknown"), joinOrNA(c.Industries), joinOrNA(c.Companies))
	fmt.Fprintf(&b, "Products: %s\n", orDefault(strings.Join(c.ProductLines(), ", "), "None specified"))
	fmt.Fprintf(&b, "Specialties: %s\n", orDefault(c.SpecialServices, "N/A"))
	fmt.Fprintf(&b, "Headline: %s\n", orDefault(stringValue(c.Headline), "N/A"))
	fmt.Fprintf(&b, "Bio excerpt: %s\n", bioExcerpt(c.Bio))
	b.WriteString("---")
	return b.String()
}

func bioExcerpt(bio string) string {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return "N/A"
	}
	if utf8.RuneCountInString(bio) <= bioExcerptLength {
		return bio
	}
	runes := []rune(bio)
	return string(runes[:bioExcerptLength]) + "..."
}

func joinOrNA(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

package models

type ParsedRequirements struct {
	SeniorityLevel   string   `json:"seniority_level"`
	Industry         *string  `json:"industry"`
	GenderPreference *string  `json:"gender_preference"`
	KeyFocusAreas    []string `json:"key_focus_areas"`
	OtherNotes       *string  `json:"other_notes"`
}

type Recommendation struct {
	CoachID           string        `json:"coach_id"`
	Name              string        `json:"name"`
	MatchScore        float64       `json:"match_score"`
	Rationale         string        `json:"rationale"`
	KeyStrengths      []string      `json:"key_strengths"`
	PotentialConcerns *string       `json:"potential_concerns"`
	Coach             *CoachSummary `json:"coach"`
}

type MatchResult struct {
	ParsedRequirements ParsedRequirements `json:"parsed_requirements"`
	Recommendations    []Recommendation   `json:"recommendations"`
}

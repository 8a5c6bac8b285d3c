package models

import (
	"time"

	"github.com/google/uuid"
)

// SharedCoach is a frozen copy of one recommended coach as it looked when the
// share link was created. Later dataset changes do not alter it.
type SharedCoach struct {
	CoachID          string   `json:"coach_id"`
	Name             string   `json:"name"`
	FirstName        string   `json:"first_name"`
	PhotoURL         string   `json:"photo_url"`
	Headline         *string  `json:"headline"`
	Email            string   `json:"email"`
	Bio              string   `json:"bio"`
	ICFLevel         *string  `json:"icf_level"`
	PractitionerType *string  `json:"practitioner_type"`
	Timezone         string   `json:"timezone"`
	Rationale        string   `json:"rationale"`
	KeyStrengths     []string `json:"key_strengths"`
}

type SharedRecommendation struct {
	ID              uuid.UUID     `json:"id"`
	Slug            string        `json:"slug"`
	Recommendations []SharedCoach `json:"recommendations"`
	RequestSummary  *string       `json:"request_summary"`
	CreatedAt       time.Time     `json:"created_at"`
}

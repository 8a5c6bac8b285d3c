package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Coach struct {
	ID                   string     `json:"id"`
	SalesforceID         *string    `json:"salesforce_id"`
	Name                 string     `json:"name"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Email                string     `json:"email"`
	Gender               string     `json:"gender"`
	Timezone             string     `json:"timezone"`
	IsScaleCoach         bool       `json:"is_scale_coach"`
	IsGrowCoach          bool       `json:"is_grow_coach"`
	IsExecCoach          bool       `json:"is_exec_coach"`
	IsComplimentaryPilot bool       `json:"is_complimentary_pilot"`
	IsPaidPilot          bool       `json:"is_paid_pilot"`
	ICFLevel             *string    `json:"icf_level"`
	ActiveClientCount    int        `json:"active_client_count"`
	SpecialServices      string     `json:"special_services"`
	Specialties          *string    `json:"specialties"`
	Industries           StringList `json:"industries"`
	Companies            StringList `json:"companies"`
	SeniorityScore       int        `json:"seniority_score"`
	IsActive             bool       `json:"is_active"`
	PhotoURL             string     `json:"photo_url"`
	PractitionerType     *string    `json:"practitioner_type"`
	Bio                  string     `json:"bio"`
	NotableCredentials   *string    `json:"notable_credentials"`
	Headline             *string    `json:"headline"`
}

// CoachSummary is the display-safe projection attached to recommendations.
type CoachSummary struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	PhotoURL         string  `json:"photo_url"`
	Headline         *string `json:"headline"`
	Gender           string  `json:"gender"`
	SeniorityScore   int     `json:"seniority_score"`
	ICFLevel         *string `json:"icf_level"`
	PractitionerType *string `json:"practitioner_type"`
	Timezone         string  `json:"timezone"`
	Email            string  `json:"email"`
	Bio              string  `json:"bio"`
}

func (c Coach) Summary() CoachSummary {
	return CoachSummary{
		ID:               c.ID,
		Name:             c.Name,
		PhotoURL:         c.PhotoURL,
		Headline:         c.Headline,
		Gender:           c.Gender,
		SeniorityScore:   c.SeniorityScore,
		ICFLevel:         c.ICFLevel,
		PractitionerType: c.PractitionerType,
		Timezone:         c.Timezone,
		Email:            c.Email,
		Bio:              c.Bio,
	}
}

// ProductLines returns the labels of the product lines the coach is enabled for.
func (c Coach) ProductLines() []string {
	products := make([]string, 0, 3)
	if c.IsScaleCoach {
		products = append(products, "SCALE")
	}
	if c.IsGrowCoach {
		products = append(products, "GROW")
	}
	if c.IsExecCoach {
		products = append(products, "EXEC")
	}
	return products
}

// StringList decodes list fields that the coach export stores as JSON-encoded
// text (`"[\"Finance\",\"Tech\"]"`). Plain JSON arrays and null are accepted too.
// A string that is not a valid encoded list is an error, never an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
		*l = values
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("decode list: expected string or array: %w", err)
	}
	if strings.TrimSpace(encoded) == "" {
		*l = nil
		return nil
	}

	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return fmt.Errorf("malformed encoded list %q: %w", encoded, err)
	}
	*l = values
	return nil
}

package models

type CoachListResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	PhotoURL         string   `json:"photo_url"`
	Headline         *string  `json:"headline"`
	Gender           string   `json:"gender"`
	SeniorityScore   int      `json:"seniority_score"`
	ICFLevel         *string  `json:"icf_level"`
	PractitionerType *string  `json:"practitioner_type"`
	Timezone         string   `json:"timezone"`
	Products         []string `json:"products"`
	IsActive         bool     `json:"is_active"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

var codeFencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

var outputValidator = newOutputValidator()

func newOutputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type matchPayload struct {
	ParsedRequirements *parsedRequirementsPayload `json:"parsed_requirements" validate:"required"`
	Recommendations    []recommendationPayload    `json:"recommendations" validate:"required,min=1,dive"`
}

type parsedRequirementsPayload struct {
	SeniorityLevel   string   `json:"seniority_level" validate:"required"`
	Industry         *string  `json:"industry"`
	GenderPreference *string  `json:"gender_preference"`
	KeyFocusAreas    []string `json:"key_focus_areas" validate:"required"`
	OtherNotes       *string  `json:"other_notes"`
}

type recommendationPayload struct {
	CoachID           string   `json:"coach_id" validate:"required"`
	Name              string   `json:"name" validate:"required"`
	MatchScore        *float64 `json:"match_score" validate:"required,gte=0,lte=100"`
	Rationale         string   `json:"rationale" validate:"required"`
	KeyStrengths      []string `json:"key_strengths" validate:"required"`
	PotentialConcerns *string  `json:"potential_concerns"`
}

// ParseMatchResponse decodes a model completion into a MatchResult. The text
// may be wrapped in one markdown code fence; anything that is not a single,
// schema-valid JSON object is rejected with ErrInvalidModelOutput.
func ParseMatchResponse(raw string) (*models.MatchResult, error) {
	payload, err := decodeMatchPayload(stripCodeFence(raw))
	if err != nil {
		return nil, err
	}

	if err := outputValidator.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModelOutput, describeValidationError(err))
	}

	return payload.toResult(), nil
}

// stripCodeFence returns the body of the first fenced block, or the input
// unchanged when there is no complete fence.
func stripCodeFence(raw string) string {
	if match := codeFencePattern.FindStringSubmatch(raw); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(raw)
}

func decodeMatchPayload(body string) (*matchPayload, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidModelOutput)
	}

	decoder := json.NewDecoder(strings.NewReader(body))
	var payload matchPayload
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidModelOutput, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidModelOutput)
	}
	return &payload, nil
}

func describeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field := fieldErr.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, fmt.Sprintf("%s must have at least %s item(s)", field, fieldErr.Param()))
		case "gte", "lte":
			messages = append(messages, fmt.Sprintf("%s must be between 0 and 100", field))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s", field, fieldErr.Tag()))
		}
	}
	return strings.Join(messages, "; ")
}

func (p *matchPayload) toResult() *models.MatchResult {
	requirements := p.ParsedRequirements
	result := &models.MatchResult{
		ParsedRequirements: models.ParsedRequirements{
			SeniorityLevel:   requirements.SeniorityLevel,
			Industry:         requirements.Industry,
			GenderPreference: requirements.GenderPreference,
			KeyFocusAreas:    requirements.KeyFocusAreas,
			OtherNotes:       requirements.OtherNotes,
		},
		Recommendations: make([]models.Recommendation, 0, len(p.Recommendations)),
	}

	for _, rec := range p.Recommendations {
		result.Recommendations = append(result.Recommendations, models.Recommendation{
			CoachID:           strings.TrimSpace(rec.CoachID),
			Name:              rec.Name,
			MatchScore:        *rec.MatchScore,
			Rationale:         rec.Rationale,
			KeyStrengths:      rec.KeyStrengths,
			PotentialConcerns: rec.PotentialConcerns,
		})
	}
	return result
}

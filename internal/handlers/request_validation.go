package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/asimmons-coder/internal-coach-matching/internal/services"
)

const maxRequestSummaryLength = 2000

func validateMatchRequest(req matchRequest) string {
	if strings.TrimSpace(req.RequestText) == "" {
		return "requestText is required"
	}
	if req.NumMatches != nil && (*req.NumMatches < services.MinMatchCount || *req.NumMatches > services.MaxMatchCount) {
		return fmt.Sprintf("numMatches must be between %d and %d", services.MinMatchCount, services.MaxMatchCount)
	}
	return ""
}

func validateShareRequest(req shareRequest) string {
	if len(req.CoachIDs) == 0 && len(req.Recommendations) == 0 {
		return "At least one coach must be selected"
	}
	if len(req.Recommendations) == 0 {
		for _, id := range req.CoachIDs {
			if strings.TrimSpace(id) == "" {
				return "coachIds must not contain empty values"
			}
		}
	}
	for _, rec := range req.Recommendations {
		if strings.TrimSpace(rec.CoachID) == "" || strings.TrimSpace(rec.Name) == "" {
			return "recommendations must include coach_id and name"
		}
	}
	if req.RequestSummary != nil && utf8.RuneCountInString(*req.RequestSummary) > maxRequestSummaryLength {
		return fmt.Sprintf("requestSummary must be at most %d characters", maxRequestSummaryLength)
	}
	return ""
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/asimmons-coder/internal-coach-matching/internal/dataset"
	"github.com/asimmons-coder/internal-coach-matching/internal/llm"
	"github.com/asimmons-coder/internal-coach-matching/internal/logger"
	"github.com/asimmons-coder/internal-coach-matching/internal/models"
)

const (
	DefaultMatchCount = 4
	MinMatchCount     = 1
	MaxMatchCount     = 8
)

type CoachFilterer interface {
	Filter(opts dataset.FilterOptions) []models.Coach
}

type MatchmakingService struct {
	coaches   CoachFilterer
	completer llm.Completer
	log       *logger.Logger
}

func NewMatchmakingService(coaches CoachFilterer, completer llm.Completer, log *logger.Logger) *MatchmakingService {
	return &MatchmakingService{
		coaches:   coaches,
		completer: completer,
		log:       log.With("service", "MatchmakingService"),
	}
}

type MatchInput struct {
	RequestText string
	ActiveOnly  bool
	NumMatches  int
}

// GetMatchedCoaches runs the full pipeline: filter, prompt, complete, parse,
// enrich. NumMatches is capped at the number of coaches that survive the filter.
func (s *MatchmakingService) GetMatchedCoaches(ctx context.Context, input MatchInput) (*models.MatchResult, error) {
	requestText := strings.TrimSpace(input.RequestText)
	if requestText == "" {
		return nil, ErrEmptyRequest
	}
	if input.NumMatches < MinMatchCount || input.NumMatches > MaxMatchCount {
		return nil, ErrInvalidMatchCount
	}

	coaches := s.coaches.Filter(dataset.FilterOptions{ActiveOnly: input.ActiveOnly})
	if len(coaches) == 0 {
		return nil, ErrNoCoachesAvailable
	}

	count := input.NumMatches
	if count > len(coaches) {
		count = len(coaches)
	}

	prompt, err := BuildMatchPrompt(coaches, requestText, count)
	if err != nil {
		return nil, err
	}

	raw, err := s.completer.Complete(ctx, llm.CompletionRequest{System: prompt.System, User: prompt.User})
	if err != nil {
		return nil, fmt.Errorf("request recommendations: %w", err)
	}

	result, err := ParseMatchResponse(raw)
	if err != nil {
		s.log.Warn("model output rejected", "error", err, "response_bytes", len(raw))
		return nil, err
	}

	if len(result.Recommendations) > count {
		s.log.Warn("model returned extra recommendations", "requested", count, "returned", len(result.Recommendations))
		result.Recommendations = result.Recommendations[:count]
	}
	result.Recommendations = EnrichRecommendations(result.Recommendations, coaches)

	unresolved := 0
	for _, rec := range result.Recommendations {
		if rec.Coach == nil {
			unresolved++
		}
	}
	if unresolved > 0 {
		s.log.Info("recommendations without a dataset match", "count", unresolved)
	}

	return result, nil
}

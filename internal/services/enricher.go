package services

import "github.com/asimmons-coder/internal-coach-matching/internal/models"

// EnrichRecommendations attaches the display projection of each recommended
// coach. Coaches are resolved by id; a name is used only when the id is unknown
// and exactly one coach in the set carries that name. Unresolved
// recommendations keep a nil Coach. The input slice is not modified.
func EnrichRecommendations(recs []models.Recommendation, coaches []models.Coach) []models.Recommendation {
	byID := make(map[string]int, len(coaches))
	byName := make(map[string]int, len(coaches))
	nameCount := make(map[string]int, len(coaches))
	for i, coach := range coaches {
		byID[coach.ID] = i
		byName[coach.Name] = i
		nameCount[coach.Name]++
	}

	enriched := make([]models.Recommendation, 0, len(recs))
	for _, rec := range recs {
		rec.Coach = nil

		idx, ok := byID[rec.CoachID]
		if !ok && nameCount[rec.Name] == 1 {
			idx, ok = byName[rec.Name]
		}
		if ok {
			summary := coaches[idx].Summary()
			rec.Coach = &summary
		}

		enriched = append(enriched, rec)
	}
	return enriched
}

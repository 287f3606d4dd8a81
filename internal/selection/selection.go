package selection

import "IdeaOasis/internal/domain"

// Select picks the winner from a ranked, deduplicated candidate list. The
// input must already be sorted by quality score descending with a stable
// sort, so ties keep their collection order.
//
// A candidate from the primary curated source always pre-empts ranking, even
// when another source scored strictly higher. Otherwise the first candidate
// wins. The second result is false only for an empty input.
func Select(candidates []domain.ScoredIdea) (domain.ScoredIdea, bool) {
	if len(candidates) == 0 {
		return domain.ScoredIdea{}, false
	}

	for _, candidate := range candidates {
		if candidate.SourceType == domain.SourceIdeaBrowser {
			return candidate, true
		}
	}

	return candidates[0], true
}

// Package scoring computes article credibility scores from source priors.
package scoring

import (
	"math"

	"skywatch/internal/models"
)

// DefaultPrior is the base credibility used when the source is unknown
const DefaultPrior = 0.5

// Score derives an article's credibility from its source prior and topic
// category. Scientific discoveries and debunking coverage get a small boost,
// speculation is discounted; everything else passes through unchanged.
// The result is rounded half-up to two decimals and always lies in [0,1].
func Score(prior float64, category models.Category) float64 {
	base := prior
	switch category {
	case models.CategoryScientificDiscovery:
		base = math.Min(base*1.10, 1.0)
	case models.CategorySpeculation:
		base = math.Max(base*0.70, 0.10)
	case models.CategoryDebunking:
		base = math.Min(base*1.05, 1.0)
	}

	// math.Round rounds half away from zero, which is half-up for the
	// non-negative values handled here.
	score := math.Round(base*100) / 100

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

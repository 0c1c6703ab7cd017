// Package readiness decides whether a team's feedback history is good enough
// to graduate from rule-based classification to a learned model. Decision
// only; no model training happens here.
package readiness

import (
	"fmt"

	"signalsort/internal/domain"
)

const (
	minRecords       = 100
	minAccuracy      = 0.70
	maxCategoryShare = 0.60
)

// Evaluate checks volume, quality and balance of a team's feedback. All
// three rules must hold for Ready; every failing rule contributes a reason
// so the caller can show what's missing.
func Evaluate(team string, stats domain.FeedbackStats) domain.ReadinessReport {
	var reasons []string

	if stats.TotalRecords < minRecords {
		reasons = append(reasons, fmt.Sprintf(
			"need at least %d feedback records, have %d", minRecords, stats.TotalRecords))
	}
	if stats.Accuracy < minAccuracy {
		reasons = append(reasons, fmt.Sprintf(
			"overall accuracy %.2f is below the %.2f floor", stats.Accuracy, minAccuracy))
	}
	if category, share, ok := dominantCategory(stats); ok {
		reasons = append(reasons, fmt.Sprintf(
			"category %q holds %.0f%% of records, above the %.0f%% balance limit",
			category, share*100, maxCategoryShare*100))
	}

	if len(reasons) > 0 {
		return domain.ReadinessReport{Ready: false, Reasons: reasons}
	}
	return domain.ReadinessReport{
		Ready:   true,
		Reasons: []string{fmt.Sprintf("team %s meets volume, accuracy and balance requirements", team)},
	}
}

func dominantCategory(stats domain.FeedbackStats) (string, float64, bool) {
	if stats.TotalRecords == 0 {
		return "", 0, false
	}
	for category, count := range stats.CountByCategory {
		share := float64(count) / float64(stats.TotalRecords)
		if share > maxCategoryShare {
			return category, share, true
		}
	}
	return "", 0, false
}

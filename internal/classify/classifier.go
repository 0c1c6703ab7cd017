package classify

import (
	"fmt"
	"math"
	"sort"

	"signalsort/internal/domain"
)

// Classifier runs the scorer across every active category of a team and
// resolves the winner deterministically. Stateless per call; safe for
// concurrent use across independent signals.
type Classifier struct {
	Scorer *Scorer
}

func NewClassifier(scorer *Scorer) *Classifier {
	if scorer == nil {
		scorer = &Scorer{}
	}
	return &Classifier{Scorer: scorer}
}

// Classify scores sig against every active category in team and picks a
// winner. It never fails: missing config, empty content and zero-score
// boards all produce an unmatched result with confidence 0.
func (c *Classifier) Classify(sig domain.SupportSignal, team domain.TeamConfiguration, hist History) domain.CategorizationResult {
	content := Normalize(sig)
	if content == "" {
		return domain.CategorizationResult{Reasoning: []string{"empty content"}}
	}

	active := team.ActiveCategories()
	if len(active) == 0 {
		return domain.CategorizationResult{Reasoning: []string{"no active categories"}}
	}

	scores := make(map[string]float64, len(active))
	var candidates []domain.CategoryScore
	for _, cat := range active {
		if !cat.HasEvidence() {
			continue
		}
		raw, trace := c.Scorer.Score(sig, content, cat, hist)
		scores[cat.Name] = raw
		if raw > 0 {
			candidates = append(candidates, domain.CategoryScore{Name: cat.Name, RawScore: raw, Trace: trace})
		}
	}

	if len(candidates) == 0 {
		return domain.CategorizationResult{
			PerCategoryScores: scores,
			Reasoning:         []string{"no category matched"},
		}
	}

	// Highest score first; identical scores break by name ascending so the
	// outcome is a total order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RawScore != candidates[j].RawScore {
			return candidates[i].RawScore > candidates[j].RawScore
		}
		return candidates[i].Name < candidates[j].Name
	})

	best, second := candidates[0], domain.CategoryScore{}
	hasSecond := len(candidates) > 1
	if hasSecond {
		second = candidates[1]
	}

	winner := best
	var rationale string
	if hasSecond {
		// Priority categories win whenever there is ambiguity: the first
		// priorityOrder entry present among the candidates takes the signal,
		// overriding pure score ranking.
		if prio, ok := firstPriorityCandidate(team.PriorityOrder, candidates); ok {
			if prio.Name != best.Name {
				rationale = fmt.Sprintf("priority override: %s > %s", prio.Name, best.Name)
			} else {
				rationale = fmt.Sprintf("priority order confirmed %s", prio.Name)
			}
			winner = prio
		} else {
			rationale = fmt.Sprintf("highest score: %s over %s", best.Name, second.Name)
		}
	}

	confidence := best.RawScore
	if hasSecond {
		confidence = best.RawScore * (1 - math.Exp(-(best.RawScore - second.RawScore)))
	}
	confidence = clamp01(confidence)

	reasoning := append([]string{}, winner.Trace...)
	if rationale != "" {
		reasoning = append(reasoning, rationale)
	}

	return domain.CategorizationResult{
		Category:          winner.Name,
		Confidence:        confidence,
		PerCategoryScores: scores,
		Reasoning:         reasoning,
	}
}

func firstPriorityCandidate(order []string, candidates []domain.CategoryScore) (domain.CategoryScore, bool) {
	for _, name := range order {
		for _, c := range candidates {
			if c.Name == name {
				return c, true
			}
		}
	}
	return domain.CategoryScore{}, false
}

// Package suggest mines the feedback log for misclassification clusters and
// proposes new keywords per category.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"signalsort/internal/classify"
	"signalsort/internal/domain"
)

// minSupport is how many distinct misclassified signals must contain a token
// before it becomes a suggestion.
const minSupport = 2

// FeedbackSource is the read side of the feedback store.
type FeedbackSource interface {
	RecordsForTeam(team string) ([]domain.FeedbackRecord, error)
}

// SignalLookup resolves a feedback record's signal id back to its signal.
// Raw signal persistence belongs to an ingestion collaborator, so the engine
// only depends on this lookup.
type SignalLookup interface {
	SignalByID(id string) (domain.SupportSignal, bool)
}

type Engine struct {
	Feedback FeedbackSource
	Signals  SignalLookup
}

// Suggest proposes keywords for team's categories from its misclassified
// feedback. Pure read: calling it twice with no new feedback yields the same
// list. Sparse or partially-resolvable history degrades to fewer (or no)
// suggestions, never to a failure.
func (e *Engine) Suggest(team domain.TeamConfiguration) ([]domain.KeywordSuggestion, error) {
	records, err := e.Feedback.RecordsForTeam(team.TeamName)
	if err != nil {
		return nil, fmt.Errorf("suggest keywords: %w", err)
	}

	// token -> distinct signal ids, grouped by the category the human chose.
	type tokenHits map[string]map[string]bool
	byCategory := make(map[string]tokenHits)

	for _, fb := range records {
		if fb.Correct() || fb.ActualCategory == "" {
			continue
		}
		sig, ok := e.Signals.SignalByID(fb.SignalID)
		if !ok {
			continue
		}
		content := classify.Normalize(sig)
		if content == "" {
			continue
		}
		hits := byCategory[fb.ActualCategory]
		if hits == nil {
			hits = make(tokenHits)
			byCategory[fb.ActualCategory] = hits
		}
		for _, tok := range classify.Tokenize(content) {
			if hits[tok] == nil {
				hits[tok] = make(map[string]bool)
			}
			hits[tok][fb.SignalID] = true
		}
	}

	var out []domain.KeywordSuggestion
	for category, hits := range byCategory {
		cat, ok := team.Category(category)
		if !ok {
			continue
		}
		for tok, signalIDs := range hits {
			if len(signalIDs) < minSupport {
				continue
			}
			if hasKeyword(cat.Keywords, tok) {
				continue
			}
			if keywordElsewhere(team, category, tok) {
				continue
			}
			ids := make([]string, 0, len(signalIDs))
			for id := range signalIDs {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			out = append(out, domain.KeywordSuggestion{
				Category:         category,
				ProposedKeyword:  tok,
				SupportCount:     len(signalIDs),
				ExampleSignalIDs: ids,
			})
		}
	}

	// Support desc, then category/keyword asc so the output is stable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].SupportCount != out[j].SupportCount {
			return out[i].SupportCount > out[j].SupportCount
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ProposedKeyword < out[j].ProposedKeyword
	})
	return out, nil
}

func hasKeyword(keywords []string, tok string) bool {
	for _, kw := range keywords {
		if strings.EqualFold(kw, tok) {
			return true
		}
	}
	return false
}

// keywordElsewhere reports whether tok is already a keyword of another
// active category, which would make it ambiguous.
func keywordElsewhere(team domain.TeamConfiguration, category, tok string) bool {
	for _, cat := range team.ActiveCategories() {
		if cat.Name == category {
			continue
		}
		if hasKeyword(cat.Keywords, tok) {
			return true
		}
	}
	return false
}

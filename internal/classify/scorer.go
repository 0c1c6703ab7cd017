package classify

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"signalsort/internal/domain"
)

// Sub-signal weights. They sum to 1.0 so a raw score stays in [0,1].
const (
	weightExact      = 0.35
	weightFuzzy      = 0.15
	weightPattern    = 0.20
	weightHistory    = 0.10
	weightContextual = 0.05
	weightSemantic   = 0.15
)

// fuzzyThreshold is the minimum token similarity for a near-miss keyword to
// count at all.
const fuzzyThreshold = 0.8

// neutralRate is used when a sub-signal has no evidence either way.
const neutralRate = 0.5

// History exposes a team's rolling per-category accuracy. Implementations
// return correct/total over all feedback for the category, or 0.5 when no
// feedback exists.
type History interface {
	AccuracyFor(category string) float64
}

// ContextualScorer rates a signal's source/recency fit for a category,
// in [0,1].
type ContextualScorer interface {
	ContextScore(sig domain.SupportSignal, category string) float64
}

// SemanticScorer rates semantic similarity between content and a category,
// in [0,1]. The shipped default contributes nothing; the slot exists so an
// embedding- or LLM-backed implementation can be plugged in.
type SemanticScorer interface {
	SemanticScore(content, category string) float64
}

// Scorer computes the weighted multi-signal score for one
// (signal, category) pair. The zero value scores with neutral history, a
// neutral contextual term and a zero semantic term.
type Scorer struct {
	Contextual ContextualScorer
	Semantic   SemanticScorer
}

// Score returns the weighted raw score in [0,1] for content against one
// category, plus the per-term trace. hist may be nil, in which case the
// historical term is neutral.
func (s *Scorer) Score(sig domain.SupportSignal, content string, cat domain.CategoryConfig, hist History) (float64, []string) {
	if !cat.HasEvidence() {
		return 0, nil
	}

	exact, unmatched := exactKeywordScore(content, cat.Keywords)
	fuzzy := fuzzyKeywordScore(content, unmatched, len(cat.Keywords))
	pattern := patternScore(content, cat.Name, cat.Patterns)

	history := neutralRate
	if hist != nil {
		history = clamp01(hist.AccuracyFor(cat.Name))
	}

	contextual := neutralRate
	if s.Contextual != nil {
		contextual = clamp01(s.Contextual.ContextScore(sig, cat.Name))
	}

	semantic := 0.0
	if s.Semantic != nil {
		semantic = clamp01(s.Semantic.SemanticScore(content, cat.Name))
	}

	// History and context only modulate real evidence. A category that
	// matched nothing textually or semantically scores 0 outright, so it can
	// never win on its feedback history alone.
	if exact == 0 && fuzzy == 0 && pattern == 0 && semantic == 0 {
		return 0, []string{"no matching evidence"}
	}

	trace := []string{
		traceLine("exact", exact, weightExact),
		traceLine("fuzzy", fuzzy, weightFuzzy),
		traceLine("pattern", pattern, weightPattern),
		traceLine("history", history, weightHistory),
		traceLine("contextual", contextual, weightContextual),
		traceLine("semantic", semantic, weightSemantic),
	}

	raw := exact*weightExact +
		fuzzy*weightFuzzy +
		pattern*weightPattern +
		history*weightHistory +
		contextual*weightContextual +
		semantic*weightSemantic
	return clamp01(raw), trace
}

func traceLine(name string, value, weight float64) string {
	return fmt.Sprintf("%s: %.2f×%.2f=%.2f", name, value, weight, value*weight)
}

// exactKeywordScore is the fraction of keywords found as substrings of
// content. It also returns the keywords that did not match, for the fuzzy
// pass.
func exactKeywordScore(content string, keywords []string) (float64, []string) {
	if len(keywords) == 0 {
		return 0, nil
	}
	matched := 0
	var unmatched []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(content, strings.ToLower(kw)) {
			matched++
		} else {
			unmatched = append(unmatched, kw)
		}
	}
	return float64(matched) / float64(len(keywords)), unmatched
}

// fuzzyKeywordScore averages the best token similarity of each unmatched
// keyword over the full keyword count. Keywords whose best similarity falls
// below the threshold contribute 0.
func fuzzyKeywordScore(content string, unmatched []string, total int) float64 {
	if len(unmatched) == 0 || total == 0 {
		return 0
	}
	tokens := Tokenize(content)
	if len(tokens) == 0 {
		return 0
	}
	var sum float64
	for _, kw := range unmatched {
		kw = strings.ToLower(kw)
		best := 0.0
		for _, tok := range tokens {
			if sim := tokenSimilarity(kw, tok); sim > best {
				best = sim
			}
		}
		if best >= fuzzyThreshold {
			sum += best
		}
	}
	return sum / float64(total)
}

// patternScore is the fraction of compilable patterns matching content.
// A pattern that fails to compile is logged and skipped, not fatal.
func patternScore(content, category string, patterns []string) float64 {
	if len(patterns) == 0 {
		return 0
	}
	valid, matched := 0, 0
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			log.Printf("Skipping invalid pattern %q for category %s: %v", p, category, err)
			continue
		}
		valid++
		if re.MatchString(content) {
			matched++
		}
	}
	if valid == 0 {
		return 0
	}
	return float64(matched) / float64(valid)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

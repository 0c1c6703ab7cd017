// Package bootstrap proposes an initial category set for a brand-new team
// from a sample corpus, plus a ranked list of similar existing teams.
// Everything here is advisory; existing configurations are never touched.
package bootstrap

import (
	"sort"
	"strings"

	"signalsort/internal/classify"
	"signalsort/internal/domain"
)

const (
	// A phrase must appear in at least this many distinct sample signals to
	// seed a category.
	minPhraseSupport = 2

	// Cap on proposed categories.
	maxSuggestions = 8

	// A keyword joins a seed phrase's category when it co-occurs in at
	// least this fraction of the phrase's signals.
	coOccurRatio = 0.6

	// Raw scores at or above this count as "captured" when validating a
	// candidate against the corpus. The scorer returns 0 without textual
	// evidence, so any positive score already saw a keyword hit; this floor
	// just filters out fuzzy-only grazes.
	captureThreshold = 0.1

	// Existing teams below this Jaccard similarity are not reported.
	similarityThreshold = 0.3
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "not": true, "of": true, "on": true, "or": true, "our": true,
	"the": true, "to": true, "was": true, "we": true, "when": true,
	"will": true, "with": true,
}

type Analyzer struct {
	Scorer *classify.Scorer
}

// AnalyzeNewTeam proposes categories for proposedTeamName from sampleSignals
// and ranks existing teams by keyword overlap. A sparse or empty corpus
// degrades to empty proposals rather than failing.
func (a *Analyzer) AnalyzeNewTeam(
	proposedTeamName string,
	sampleSignals []domain.SupportSignal,
	existingTeamConfigs []domain.TeamConfiguration,
) ([]domain.CategorySuggestion, []domain.SimilarTeamMatch) {
	contents := make([]string, 0, len(sampleSignals))
	for _, sig := range sampleSignals {
		if c := classify.Normalize(sig); c != "" {
			contents = append(contents, c)
		}
	}
	if len(contents) == 0 {
		return nil, nil
	}

	suggestions := a.proposeCategories(sampleSignals, contents)
	similar := similarTeams(keywordUniverse(suggestions), existingTeamConfigs)
	return suggestions, similar
}

// proposeCategories extracts frequent phrases as category seeds, attaches
// co-occurring tokens as keywords, then validates each candidate against the
// corpus with the scorer.
func (a *Analyzer) proposeCategories(signals []domain.SupportSignal, contents []string) []domain.CategorySuggestion {
	// Document frequency for unigrams and adjacent bigrams, plus the set of
	// documents each phrase occurs in.
	docsByPhrase := make(map[string]map[int]bool)
	addHit := func(phrase string, doc int) {
		if docsByPhrase[phrase] == nil {
			docsByPhrase[phrase] = make(map[int]bool)
		}
		docsByPhrase[phrase][doc] = true
	}
	for i, content := range contents {
		tokens := contentTokens(content)
		for j, tok := range tokens {
			addHit(tok, i)
			if j+1 < len(tokens) {
				addHit(tok+" "+tokens[j+1], i)
			}
		}
	}

	type seed struct {
		phrase string
		docs   map[int]bool
	}
	var seeds []seed
	for phrase, docs := range docsByPhrase {
		if len(docs) >= minPhraseSupport {
			seeds = append(seeds, seed{phrase, docs})
		}
	}
	// Frequency desc; longer phrases beat their own unigrams at equal
	// support; name asc keeps the output stable.
	sort.Slice(seeds, func(i, j int) bool {
		if len(seeds[i].docs) != len(seeds[j].docs) {
			return len(seeds[i].docs) > len(seeds[j].docs)
		}
		li, lj := len(strings.Fields(seeds[i].phrase)), len(strings.Fields(seeds[j].phrase))
		if li != lj {
			return li > lj
		}
		return seeds[i].phrase < seeds[j].phrase
	})

	scorer := a.Scorer
	if scorer == nil {
		scorer = &classify.Scorer{}
	}

	var out []domain.CategorySuggestion
	claimed := make(map[string]bool)
	for _, s := range seeds {
		if len(out) >= maxSuggestions {
			break
		}
		if covered(claimed, s.phrase) {
			continue
		}

		keywords := append([]string{s.phrase}, coOccurring(s.docs, docsByPhrase, s.phrase)...)
		for _, kw := range keywords {
			claimed[kw] = true
			for _, f := range strings.Fields(kw) {
				claimed[f] = true
			}
		}

		cat := domain.CategoryConfig{Name: categoryName(s.phrase), Keywords: keywords, IsActive: true}
		hits := 0
		for i, sig := range signals {
			if i >= len(contents) {
				break
			}
			if raw, _ := scorer.Score(sig, contents[i], cat, nil); raw >= captureThreshold {
				hits++
			}
		}
		out = append(out, domain.CategorySuggestion{
			Name:       cat.Name,
			Keywords:   keywords,
			Confidence: float64(hits) / float64(len(contents)),
			SampleHits: hits,
		})
	}
	return out
}

// covered reports whether every token of phrase is already claimed by an
// earlier, stronger seed.
func covered(claimed map[string]bool, phrase string) bool {
	if claimed[phrase] {
		return true
	}
	fields := strings.Fields(phrase)
	for _, f := range fields {
		if !claimed[f] {
			return false
		}
	}
	return true
}

// coOccurring returns single tokens that appear alongside the seed phrase in
// most of its documents, strongest first.
func coOccurring(seedDocs map[int]bool, docsByPhrase map[string]map[int]bool, seedPhrase string) []string {
	type cand struct {
		token string
		count int
	}
	var cands []cand
	for phrase, docs := range docsByPhrase {
		if phrase == seedPhrase || strings.Contains(phrase, " ") || strings.Contains(seedPhrase, phrase) {
			continue
		}
		shared := 0
		for doc := range docs {
			if seedDocs[doc] {
				shared++
			}
		}
		if float64(shared) >= coOccurRatio*float64(len(seedDocs)) {
			cands = append(cands, cand{phrase, shared})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].count != cands[j].count {
			return cands[i].count > cands[j].count
		}
		return cands[i].token < cands[j].token
	})
	if len(cands) > 4 {
		cands = cands[:4]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.token
	}
	return out
}

func contentTokens(content string) []string {
	var out []string
	for _, tok := range classify.Tokenize(content) {
		if len(tok) < 3 || stopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func categoryName(phrase string) string {
	fields := strings.Fields(phrase)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}

// similarTeams ranks existing teams by Jaccard similarity between keyword
// universes.
func similarTeams(candidate map[string]bool, existing []domain.TeamConfiguration) []domain.SimilarTeamMatch {
	if len(candidate) == 0 {
		return nil
	}
	var out []domain.SimilarTeamMatch
	for _, team := range existing {
		universe := teamKeywords(team)
		if len(universe) == 0 {
			continue
		}
		var overlap []string
		union := len(universe)
		for kw := range candidate {
			if universe[kw] {
				overlap = append(overlap, kw)
			} else {
				union++
			}
		}
		score := float64(len(overlap)) / float64(union)
		if score < similarityThreshold {
			continue
		}
		sort.Strings(overlap)
		out = append(out, domain.SimilarTeamMatch{
			TeamName:            team.TeamName,
			SimilarityScore:     score,
			OverlappingKeywords: overlap,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SimilarityScore != out[j].SimilarityScore {
			return out[i].SimilarityScore > out[j].SimilarityScore
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out
}

func keywordUniverse(suggestions []domain.CategorySuggestion) map[string]bool {
	out := make(map[string]bool)
	for _, s := range suggestions {
		for _, kw := range s.Keywords {
			out[strings.ToLower(kw)] = true
		}
	}
	return out
}

func teamKeywords(team domain.TeamConfiguration) map[string]bool {
	out := make(map[string]bool)
	for _, cat := range team.ActiveCategories() {
		for _, kw := range cat.Keywords {
			out[strings.ToLower(kw)] = true
		}
	}
	return out
}

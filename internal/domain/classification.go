package domain

import "time"

// CategoryScore is one category's raw score plus the per-term trace that
// produced it.
type CategoryScore struct {
	Name     string
	RawScore float64
	Trace    []string
}

// CategorizationResult is the immutable outcome of classifying one signal.
// Category is empty when nothing matched.
type CategorizationResult struct {
	Category          string
	Confidence        float64
	PerCategoryScores map[string]float64
	Reasoning         []string
}

// Matched reports whether a category was assigned.
func (r CategorizationResult) Matched() bool {
	return r.Category != ""
}

// FeedbackRecord is one predicted-vs-actual outcome. Append-only: once
// written it is never mutated or deleted.
type FeedbackRecord struct {
	ID                     int64
	TeamName               string
	SignalID               string
	PredictedCategory      string
	ActualCategory         string
	ConfidenceAtPrediction float64
	Timestamp              time.Time
}

// Correct reports whether the prediction matched the human's category.
func (f FeedbackRecord) Correct() bool {
	return f.PredictedCategory == f.ActualCategory
}

type KeywordSuggestion struct {
	Category         string
	ProposedKeyword  string
	SupportCount     int
	ExampleSignalIDs []string
}

type SimilarTeamMatch struct {
	TeamName            string
	SimilarityScore     float64
	OverlappingKeywords []string
}

// CategorySuggestion is a bootstrapped category proposal for a new team.
type CategorySuggestion struct {
	Name       string
	Keywords   []string
	Confidence float64
	SampleHits int
}

type ReadinessReport struct {
	Ready   bool
	Reasons []string
}

// FeedbackStats summarizes a team's feedback history.
type FeedbackStats struct {
	TotalRecords    int
	CorrectRecords  int
	Accuracy        float64
	CountByCategory map[string]int
}

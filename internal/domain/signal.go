package domain

import "time"

// SupportSignal is a single support ticket/message to be categorized.
// Category and Confidence are written by the classifier; ManualCategory and
// ManualScore are written later by human triage.
type SupportSignal struct {
	ID             string
	Title          string
	Description    string
	Source         string
	Timestamp      time.Time
	Resolved       time.Time
	Category       string
	Confidence     float64
	ReviewFlag     bool
	ManualCategory string
	ManualScore    float64
}

type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Patterns []string `yaml:"patterns"`
	Priority int      `yaml:"priority"`
	IsActive bool     `yaml:"is_active"`
}

// HasEvidence reports whether the category has anything to match against.
// A category with no keywords and no patterns can never win.
func (c CategoryConfig) HasEvidence() bool {
	return len(c.Keywords) > 0 || len(c.Patterns) > 0
}

type TeamConfiguration struct {
	TeamName      string           `yaml:"team_name"`
	Categories    []CategoryConfig `yaml:"categories"`
	PriorityOrder []string         `yaml:"priority_order"`
}

// ActiveCategories returns the categories eligible for classification.
func (t TeamConfiguration) ActiveCategories() []CategoryConfig {
	var out []CategoryConfig
	for _, c := range t.Categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// Category looks up a category by name, active or not.
func (t TeamConfiguration) Category(name string) (CategoryConfig, bool) {
	for _, c := range t.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryConfig{}, false
}

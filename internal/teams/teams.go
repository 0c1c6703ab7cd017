// Package teams loads and validates team configurations. The engine treats
// them as read-only: classification never mutates a team's categories.
package teams

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"signalsort/internal/domain"
)

type File struct {
	Teams []domain.TeamConfiguration `yaml:"teams"`
}

// Load reads team configurations from a yaml file and validates each one.
func Load(path string) ([]domain.TeamConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read teams file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse teams yaml: %w", err)
	}

	seen := make(map[string]bool)
	for _, team := range f.Teams {
		if team.TeamName == "" {
			return nil, fmt.Errorf("team with empty team_name")
		}
		if seen[team.TeamName] {
			return nil, fmt.Errorf("duplicate team %q", team.TeamName)
		}
		seen[team.TeamName] = true
		if err := Validate(team); err != nil {
			return nil, fmt.Errorf("team %q: %w", team.TeamName, err)
		}
	}
	return f.Teams, nil
}

// Validate enforces the configuration invariants: category names unique per
// team, every active category has at least one keyword or pattern, and
// priority_order only names categories that exist.
func Validate(team domain.TeamConfiguration) error {
	names := make(map[string]bool, len(team.Categories))
	for _, cat := range team.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if names[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		names[cat.Name] = true
		if cat.IsActive && !cat.HasEvidence() {
			return fmt.Errorf("active category %q has no keywords and no patterns", cat.Name)
		}
	}
	for _, name := range team.PriorityOrder {
		if !names[name] {
			return fmt.Errorf("priority_order references unknown category %q", name)
		}
	}
	return nil
}

// ByName indexes a team list for lookup.
func ByName(list []domain.TeamConfiguration) map[string]domain.TeamConfiguration {
	out := make(map[string]domain.TeamConfiguration, len(list))
	for _, team := range list {
		out[team.TeamName] = team
	}
	return out
}

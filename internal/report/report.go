// Package report computes per-category summary stats over a categorized
// batch and renders them as a plain-text digest.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"signalsort/internal/domain"
)

type CategoryStat struct {
	Category string
	Total    int
	Flagged  int
	Resolved int
}

type Summary struct {
	TeamName     string
	TotalSignals int
	Flagged      int
	Resolved     int
	Categories   []CategoryStat
	// Timeline buckets signals by creation month ("2026-01"), ascending.
	Timeline []TimelineBucket
}

type TimelineBucket struct {
	Month string
	Count int
}

// Summarize computes the dashboard metrics for one team's categorized batch.
func Summarize(teamName string, signals []domain.SupportSignal) Summary {
	s := Summary{TeamName: teamName, TotalSignals: len(signals)}

	byCategory := make(map[string]*CategoryStat)
	byMonth := make(map[string]int)
	for _, sig := range signals {
		category := sig.Category
		if category == "" {
			category = "Uncategorized"
		}
		stat := byCategory[category]
		if stat == nil {
			stat = &CategoryStat{Category: category}
			byCategory[category] = stat
		}
		stat.Total++
		if sig.ReviewFlag {
			stat.Flagged++
			s.Flagged++
		}
		if !sig.Resolved.IsZero() {
			stat.Resolved++
			s.Resolved++
		}
		if !sig.Timestamp.IsZero() {
			byMonth[sig.Timestamp.Format("2006-01")]++
		}
	}

	for _, stat := range byCategory {
		s.Categories = append(s.Categories, *stat)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].Total != s.Categories[j].Total {
			return s.Categories[i].Total > s.Categories[j].Total
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	for month, count := range byMonth {
		s.Timeline = append(s.Timeline, TimelineBucket{Month: month, Count: count})
	}
	sort.Slice(s.Timeline, func(i, j int) bool { return s.Timeline[i].Month < s.Timeline[j].Month })

	return s
}

// Render formats a summary as a plain-text digest.
func Render(s Summary) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Support signal summary for %s\n", s.TeamName)
	fmt.Fprintf(&out, "Total: %d | Flagged for review: %d (%s) | Resolved: %d (%s)\n",
		s.TotalSignals, s.Flagged, pct(s.Flagged, s.TotalSignals),
		s.Resolved, pct(s.Resolved, s.TotalSignals))

	if len(s.Categories) > 0 {
		out.WriteString("\nBy category:\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&out, "  %-24s %4d total, %d flagged, %d resolved\n",
				c.Category, c.Total, c.Flagged, c.Resolved)
		}
	}
	if len(s.Timeline) > 0 {
		out.WriteString("\nCreated by month:\n")
		for _, b := range s.Timeline {
			fmt.Fprintf(&out, "  %s  %d\n", b.Month, b.Count)
		}
	}
	return out.String()
}

// RenderSuggestions formats keyword suggestions for the digest.
func RenderSuggestions(teamName string, suggestions []domain.KeywordSuggestion) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("No keyword suggestions for %s (not enough misclassification feedback yet)", teamName)
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Keyword suggestions for %s:\n", teamName)
	for _, sug := range suggestions {
		fmt.Fprintf(&out, "  %s: %q (seen in %d misclassified signals: %s)\n",
			sug.Category, sug.ProposedKeyword, sug.SupportCount, strings.Join(sug.ExampleSignalIDs, ", "))
	}
	return out.String()
}

// RenderReadiness formats an ML-readiness report for the digest.
func RenderReadiness(teamName string, rep domain.ReadinessReport) string {
	status := "NOT READY"
	if rep.Ready {
		status = "READY"
	}
	var out strings.Builder
	fmt.Fprintf(&out, "ML readiness for %s: %s\n", teamName, status)
	for _, reason := range rep.Reasons {
		fmt.Fprintf(&out, "  - %s\n", reason)
	}
	return out.String()
}

// WriteReportFile writes a digest under outputDir, named by team and date.
func WriteReportFile(content, outputDir string, reportDate time.Time, teamName string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.txt", sanitizeFilename(teamName), reportDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "_")
	return replacer.Replace(s)
}

func pct(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

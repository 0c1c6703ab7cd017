// Package ingest adapts Jira-style CSV exports into support signals.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"signalsort/internal/domain"
)

// Jira exports timestamps as day-first.
const csvTimeLayout = "02/01/2006 15:04"

// ReadSignalsFile loads a Jira-style CSV export from path.
func ReadSignalsFile(path string) ([]domain.SupportSignal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signals csv: %w", err)
	}
	defer f.Close()
	return ReadSignals(f)
}

// ReadSignals parses a CSV export into signals. The header row drives column
// lookup, so column order and extra columns don't matter. Rows with missing
// or unparseable fields degrade (empty strings, zero times) instead of
// failing the whole file; only a missing Summary column is fatal.
func ReadSignals(r io.Reader) ([]domain.SupportSignal, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["summary"]; !ok {
		return nil, fmt.Errorf("csv has no Summary column")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []domain.SupportSignal
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		id := field(row, "issue key")
		if id == "" {
			id = fmt.Sprintf("row-%d", line)
		}
		sig := domain.SupportSignal{
			ID:          id,
			Title:       field(row, "summary"),
			Description: field(row, "description"),
			Source:      "jira-csv",
			Timestamp:   parseTime(field(row, "created")),
			Resolved:    parseTime(field(row, "resolved")),
			Category:    field(row, "category"),
			ReviewFlag:  strings.EqualFold(field(row, "review_flag"), "yes"),
		}
		out = append(out, sig)
	}
	return out, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(csvTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// WriteCategorizedCSV writes signals back out with their assigned category,
// confidence and review flag, the artifact the reporting surface consumes.
func WriteCategorizedCSV(path string, signals []domain.SupportSignal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create categorized csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Issue key", "Summary", "Description", "Created", "Category", "Confidence", "Review_Flag"}); err != nil {
		return err
	}
	for _, sig := range signals {
		created := ""
		if !sig.Timestamp.IsZero() {
			created = sig.Timestamp.Format(csvTimeLayout)
		}
		flag := "NO"
		if sig.ReviewFlag {
			flag = "YES"
		}
		row := []string{
			sig.ID, sig.Title, sig.Description, created,
			sig.Category, fmt.Sprintf("%.2f", sig.Confidence), flag,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write categorized csv: %w", err)
	}
	return nil
}

// SignalIndex is an in-memory id lookup over an ingested batch, used by the
// suggestion engine to resolve feedback records back to signal content.
type SignalIndex map[string]domain.SupportSignal

func NewSignalIndex(signals []domain.SupportSignal) SignalIndex {
	idx := make(SignalIndex, len(signals))
	for _, sig := range signals {
		idx[sig.ID] = sig
	}
	return idx
}

func (idx SignalIndex) SignalByID(id string) (domain.SupportSignal, bool) {
	sig, ok := idx[id]
	return sig, ok
}

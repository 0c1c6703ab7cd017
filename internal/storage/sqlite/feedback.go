// Package sqlite holds the feedback store, the only durable state the engine
// owns. Records are append-only: nothing here updates or deletes a row.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"signalsort/internal/domain"
)

type FeedbackStore struct {
	db *sql.DB

	mu    sync.Mutex
	teams map[string]*sync.Mutex
}

// Open opens (creating if needed) the feedback database at path.
func Open(path string) (*FeedbackStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS feedback_records (
		id                       INTEGER PRIMARY KEY AUTOINCREMENT,
		team_name                TEXT NOT NULL,
		signal_id                TEXT NOT NULL,
		predicted_category       TEXT DEFAULT '',
		actual_category          TEXT NOT NULL,
		confidence_at_prediction REAL NOT NULL DEFAULT 0,
		created_at               DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_team ON feedback_records(team_name);
	CREATE INDEX IF NOT EXISTS idx_feedback_team_actual ON feedback_records(team_name, actual_category);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &FeedbackStore{db: db, teams: make(map[string]*sync.Mutex)}, nil
}

func (s *FeedbackStore) Close() error {
	return s.db.Close()
}

// teamLock returns the per-team write lock, creating it on first use.
// Writes are serialized per team; reads run lock-free against sqlite and
// tolerate an eventually-consistent snapshot.
func (s *FeedbackStore) teamLock(team string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.teams[team]
	if !ok {
		l = &sync.Mutex{}
		s.teams[team] = l
	}
	return l
}

// Record appends one feedback record. The append is atomic per record;
// failures are returned to the caller, never swallowed.
func (s *FeedbackStore) Record(fb domain.FeedbackRecord) error {
	if fb.TeamName == "" {
		return fmt.Errorf("record feedback: team name is required")
	}
	if fb.SignalID == "" {
		return fmt.Errorf("record feedback: signal id is required")
	}
	if fb.ActualCategory == "" {
		return fmt.Errorf("record feedback: actual category is required")
	}
	ts := fb.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	l := s.teamLock(fb.TeamName)
	l.Lock()
	defer l.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO feedback_records (team_name, signal_id, predicted_category, actual_category, confidence_at_prediction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fb.TeamName, fb.SignalID, fb.PredictedCategory, fb.ActualCategory, fb.ConfidenceAtPrediction, ts,
	)
	if err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	return nil
}

// Accuracy returns correct/total over all records for (team, category), or
// 0.5 when no records exist.
func (s *FeedbackStore) Accuracy(team, category string) (float64, error) {
	var total, correct int
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN predicted_category = actual_category THEN 1 ELSE 0 END), 0)
		 FROM feedback_records WHERE team_name = ? AND actual_category = ?`,
		team, category,
	).Scan(&total, &correct)
	if err != nil {
		return 0, fmt.Errorf("feedback accuracy: %w", err)
	}
	if total == 0 {
		return 0.5, nil
	}
	return float64(correct) / float64(total), nil
}

// RecordsForTeam returns every record for a team, oldest first.
func (s *FeedbackStore) RecordsForTeam(team string) ([]domain.FeedbackRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, team_name, signal_id, predicted_category, actual_category, confidence_at_prediction, created_at
		 FROM feedback_records WHERE team_name = ? ORDER BY id ASC`,
		team,
	)
	if err != nil {
		return nil, fmt.Errorf("feedback records: %w", err)
	}
	defer rows.Close()

	var out []domain.FeedbackRecord
	for rows.Next() {
		var fb domain.FeedbackRecord
		if err := rows.Scan(&fb.ID, &fb.TeamName, &fb.SignalID, &fb.PredictedCategory, &fb.ActualCategory, &fb.ConfidenceAtPrediction, &fb.Timestamp); err != nil {
			return nil, fmt.Errorf("feedback records: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

// Stats summarizes a team's feedback history for the readiness evaluator.
func (s *FeedbackStore) Stats(team string) (domain.FeedbackStats, error) {
	stats := domain.FeedbackStats{CountByCategory: make(map[string]int)}

	rows, err := s.db.Query(
		`SELECT actual_category, COUNT(*), SUM(CASE WHEN predicted_category = actual_category THEN 1 ELSE 0 END)
		 FROM feedback_records WHERE team_name = ? GROUP BY actual_category`,
		team,
	)
	if err != nil {
		return stats, fmt.Errorf("feedback stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count, correct int
		if err := rows.Scan(&category, &count, &correct); err != nil {
			return stats, fmt.Errorf("feedback stats: %w", err)
		}
		stats.CountByCategory[category] = count
		stats.TotalRecords += count
		stats.CorrectRecords += correct
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}
	if stats.TotalRecords > 0 {
		stats.Accuracy = float64(stats.CorrectRecords) / float64(stats.TotalRecords)
	}
	return stats, nil
}

// TeamHistory binds the store to one team for the scorer's historical term.
func (s *FeedbackStore) TeamHistory(team string) *TeamHistory {
	return &TeamHistory{store: s, team: team}
}

type TeamHistory struct {
	store *FeedbackStore
	team  string
}

// AccuracyFor satisfies the classifier's History contract. A read failure
// degrades to the neutral rate rather than surfacing mid-classification.
func (h *TeamHistory) AccuracyFor(category string) float64 {
	acc, err := h.store.Accuracy(h.team, category)
	if err != nil {
		return 0.5
	}
	return acc
}

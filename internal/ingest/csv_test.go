package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestReadSignals(t *testing.T) {
	csv := `Issue key,Summary,Description,Created,Resolved,Category,Review_Flag
BOLT-1,Certificate expiring soon,TLS cert needs renewal,05/01/2026 09:30,07/01/2026 11:00,Certificate,NO
BOLT-2,API endpoint returns 500,,12/01/2026 14:15,,,YES
BOLT-3,Login broken,cannot sign in,not-a-date,,,
`
	signals, err := ReadSignals(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadSignals failed: %v", err)
	}
	if len(signals) != 3 {
		t.Fatalf("signals = %d, want 3", len(signals))
	}

	first := signals[0]
	if first.ID != "BOLT-1" || first.Title != "Certificate expiring soon" {
		t.Fatalf("first = %+v", first)
	}
	if first.Description != "TLS cert needs renewal" || first.Category != "Certificate" {
		t.Fatalf("first = %+v", first)
	}
	want := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Fatalf("created = %s, want %s", first.Timestamp, want)
	}
	if first.Resolved.IsZero() || first.ReviewFlag {
		t.Fatalf("first = %+v", first)
	}

	second := signals[1]
	if !second.ReviewFlag {
		t.Fatalf("YES flag not parsed: %+v", second)
	}
	if !second.Resolved.IsZero() {
		t.Fatalf("empty resolved should stay zero: %+v", second)
	}

	// Unparseable dates degrade to zero time, not an error.
	if !signals[2].Timestamp.IsZero() {
		t.Fatalf("bad date should be zero time: %+v", signals[2])
	}
}

func TestReadSignalsGeneratesRowIDs(t *testing.T) {
	csv := "Summary,Description\nsomething broke,details\n"
	signals, err := ReadSignals(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadSignals failed: %v", err)
	}
	if signals[0].ID != "row-2" {
		t.Fatalf("id = %q, want row-2", signals[0].ID)
	}
	if signals[0].Source != "jira-csv" {
		t.Fatalf("source = %q", signals[0].Source)
	}
}

func TestReadSignalsRequiresSummaryColumn(t *testing.T) {
	csv := "Issue key,Description\nBOLT-1,details\n"
	if _, err := ReadSignals(strings.NewReader(csv)); err == nil {
		t.Fatalf("expected error for missing Summary column")
	}
}

func TestReadSignalsHandlesRaggedRows(t *testing.T) {
	csv := "Summary,Description,Category\nonly a summary\nfull row,desc,API\n"
	signals, err := ReadSignals(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadSignals failed: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("signals = %d, want 2", len(signals))
	}
	if signals[0].Description != "" || signals[1].Category != "API" {
		t.Fatalf("signals = %+v", signals)
	}
}

func TestSignalIndex(t *testing.T) {
	signals, err := ReadSignals(strings.NewReader("Issue key,Summary\nBOLT-1,hello\nBOLT-2,world\n"))
	if err != nil {
		t.Fatalf("ReadSignals failed: %v", err)
	}
	idx := NewSignalIndex(signals)

	sig, ok := idx.SignalByID("BOLT-2")
	if !ok || sig.Title != "world" {
		t.Fatalf("lookup = %+v %v", sig, ok)
	}
	if _, ok := idx.SignalByID("BOLT-9"); ok {
		t.Fatalf("unexpected hit for unknown id")
	}
}

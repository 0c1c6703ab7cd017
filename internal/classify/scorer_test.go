package classify

import (
	"strings"
	"testing"

	"signalsort/internal/domain"
)

type fixedHistory float64

func (h fixedHistory) AccuracyFor(string) float64 { return float64(h) }

func TestScoreNoEvidenceCategory(t *testing.T) {
	scorer := &Scorer{}
	raw, trace := scorer.Score(domain.SupportSignal{}, "anything at all", domain.CategoryConfig{Name: "Empty"}, nil)
	if raw != 0 {
		t.Fatalf("no-evidence category raw = %f, want 0", raw)
	}
	if trace != nil {
		t.Fatalf("no-evidence category trace = %v, want nil", trace)
	}
}

func TestScoreNoTextualMatchScoresZero(t *testing.T) {
	scorer := &Scorer{}
	cat := domain.CategoryConfig{Name: "API", Keywords: []string{"api", "endpoint"}, IsActive: true}
	raw, _ := scorer.Score(domain.SupportSignal{}, "certificate expiring soon tls cert needs renewal", cat, fixedHistory(0.9))
	if raw != 0 {
		t.Fatalf("history alone should not produce a score, got %f", raw)
	}
}

func TestScoreExactKeywordFraction(t *testing.T) {
	scorer := &Scorer{}
	cat := domain.CategoryConfig{
		Name:     "Certificate",
		Keywords: []string{"certificate", "expiry", "tls"},
		IsActive: true,
	}
	content := "certificate expiring soon tls cert needs renewal"
	raw, trace := scorer.Score(domain.SupportSignal{}, content, cat, nil)

	// certificate and tls match, expiry does not: 2/3 exact, neutral
	// history and contextual terms, no fuzzy (expiry vs expiring is below
	// the 0.8 threshold).
	want := (2.0/3.0)*0.35 + 0.5*0.10 + 0.5*0.05
	if diff := raw - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("raw = %f, want %f", raw, want)
	}
	if len(trace) != 6 {
		t.Fatalf("trace has %d lines, want 6: %v", len(trace), trace)
	}
	if !strings.HasPrefix(trace[0], "exact: 0.67×0.35") {
		t.Fatalf("exact trace = %q", trace[0])
	}
}

func TestScoreFuzzyKeyword(t *testing.T) {
	scorer := &Scorer{}
	cat := domain.CategoryConfig{Name: "Certificate", Keywords: []string{"certifcate"}, IsActive: true}
	raw, _ := scorer.Score(domain.SupportSignal{}, "certificate expired yesterday", cat, nil)

	sim := 1 - 1.0/11.0 // one edit against "certificate"
	want := sim*0.15 + 0.5*0.10 + 0.5*0.05
	if diff := raw - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("raw = %f, want %f", raw, want)
	}
}

func TestScoreFuzzyBelowThresholdContributesNothing(t *testing.T) {
	scorer := &Scorer{}
	cat := domain.CategoryConfig{Name: "Billing", Keywords: []string{"invoice"}, IsActive: true}
	raw, _ := scorer.Score(domain.SupportSignal{}, "totally unrelated words here", cat, nil)
	if raw != 0 {
		t.Fatalf("below-threshold fuzzy raw = %f, want 0", raw)
	}
}

func TestScorePatternFraction(t *testing.T) {
	scorer := &Scorer{}
	cat := domain.CategoryConfig{
		Name:     "Errors",
		Patterns: []string{`error \d+`, `timeout`},
		IsActive: true,
	}
	raw, _ := scorer.Score(domain.SupportSignal{}, "service returned error 500", cat, nil)
	want := 0.5*0.20 + 0.5*0.10 + 0.5*0.05
	if diff := raw - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("raw = %f, want %f", raw, want)
	}
}

func TestScoreInvalidPatternSkipped(t *testing.T) {
	scorer := &Scorer{}
	cat := domain.CategoryConfig{
		Name:     "Errors",
		Patterns: []string{`[`, `error \d+`},
		IsActive: true,
	}
	raw, _ := scorer.Score(domain.SupportSignal{}, "service returned error 500", cat, nil)
	// The broken pattern is skipped; the remaining one matches, so the
	// pattern term is 1/1.
	want := 1.0*0.20 + 0.5*0.10 + 0.5*0.05
	if diff := raw - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("raw = %f, want %f", raw, want)
	}
}

func TestScoreUsesHistory(t *testing.T) {
	scorer := &Scorer{}
	cat := domain.CategoryConfig{Name: "API", Keywords: []string{"api"}, IsActive: true}
	content := "api is down"

	low, _ := scorer.Score(domain.SupportSignal{}, content, cat, fixedHistory(0.0))
	high, _ := scorer.Score(domain.SupportSignal{}, content, cat, fixedHistory(1.0))
	if high-low < 0.0999 || high-low > 0.1001 {
		t.Fatalf("history swing = %f, want 0.10 weight span", high-low)
	}
}

type fixedSemantic float64

func (s fixedSemantic) SemanticScore(content, category string) float64 { return float64(s) }

func TestScoreSemanticSlot(t *testing.T) {
	base := &Scorer{}
	cat := domain.CategoryConfig{Name: "API", Keywords: []string{"api"}, IsActive: true}
	content := "api is down"

	withoutSlot, _ := base.Score(domain.SupportSignal{}, content, cat, nil)
	withSlot, _ := (&Scorer{Semantic: fixedSemantic(1.0)}).Score(domain.SupportSignal{}, content, cat, nil)
	if diff := (withSlot - withoutSlot) - 0.15; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("semantic swing = %f, want 0.15", withSlot-withoutSlot)
	}
}

func TestScoreBounds(t *testing.T) {
	scorer := &Scorer{Semantic: fixedSemantic(1.0)}
	cat := domain.CategoryConfig{
		Name:     "Everything",
		Keywords: []string{"api"},
		Patterns: []string{`api`},
		IsActive: true,
	}
	raw, _ := scorer.Score(domain.SupportSignal{}, "api api api", cat, fixedHistory(1.0))
	if raw < 0 || raw > 1 {
		t.Fatalf("raw = %f, out of [0,1]", raw)
	}
}

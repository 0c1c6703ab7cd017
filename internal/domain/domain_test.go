package domain

import "testing"

func TestHasEvidence(t *testing.T) {
	if (CategoryConfig{Name: "Bare"}).HasEvidence() {
		t.Fatalf("empty category has evidence")
	}
	if !(CategoryConfig{Name: "K", Keywords: []string{"api"}}).HasEvidence() {
		t.Fatalf("keyword category lacks evidence")
	}
	if !(CategoryConfig{Name: "P", Patterns: []string{`\d+`}}).HasEvidence() {
		t.Fatalf("pattern category lacks evidence")
	}
}

func TestActiveCategories(t *testing.T) {
	team := TeamConfiguration{
		TeamName: "t",
		Categories: []CategoryConfig{
			{Name: "On", Keywords: []string{"x"}, IsActive: true},
			{Name: "Off", Keywords: []string{"y"}},
		},
	}
	active := team.ActiveCategories()
	if len(active) != 1 || active[0].Name != "On" {
		t.Fatalf("active = %v", active)
	}

	if _, ok := team.Category("Off"); !ok {
		t.Fatalf("lookup should see inactive categories")
	}
	if _, ok := team.Category("Missing"); ok {
		t.Fatalf("unexpected category hit")
	}
}

func TestFeedbackRecordCorrect(t *testing.T) {
	fb := FeedbackRecord{PredictedCategory: "API", ActualCategory: "API"}
	if !fb.Correct() {
		t.Fatalf("matching prediction not correct")
	}
	fb.ActualCategory = "Billing"
	if fb.Correct() {
		t.Fatalf("mismatch reported correct")
	}
}

func TestResultMatched(t *testing.T) {
	if (CategorizationResult{}).Matched() {
		t.Fatalf("empty result matched")
	}
	if !(CategorizationResult{Category: "API"}).Matched() {
		t.Fatalf("categorized result not matched")
	}
}

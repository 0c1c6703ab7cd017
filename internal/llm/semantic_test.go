package llm

import "testing"

func TestParseScore(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0.7", 0.7, false},
		{" 0.25\n", 0.25, false},
		{"1.4", 1.0, false},
		{"-0.2", 0.0, false},
		{"very similar", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseScore(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseScore(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseScore(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parseScore(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestSemanticScoreCachesPerContentCategory(t *testing.T) {
	s := NewSemanticScorer("test-key", "")
	s.cache["API\x00some ticket"] = 0.9

	if got := s.SemanticScore("some ticket", "API"); got != 0.9 {
		t.Fatalf("cached score = %f, want 0.9", got)
	}
}

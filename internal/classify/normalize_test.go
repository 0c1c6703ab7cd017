package classify

import (
	"reflect"
	"testing"

	"signalsort/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		desc  string
		want  string
	}{
		{"lowercases and joins", "Certificate Expiring", "TLS cert needs renewal", "certificate expiring tls cert needs renewal"},
		{"collapses whitespace", "  API   down ", "\tmany\n\nerrors  ", "api down many errors"},
		{"empty signal", "", "", ""},
		{"whitespace only", "   ", " \t\n", ""},
		{"title only", "Login broken", "", "login broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(domain.SupportSignal{Title: tt.title, Description: tt.desc})
			if got != tt.want {
				t.Fatalf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	sig := domain.SupportSignal{Title: "Payment  Failed", Description: "card declined twice"}
	first := Normalize(sig)
	for i := 0; i < 5; i++ {
		if got := Normalize(sig); got != first {
			t.Fatalf("Normalize not deterministic: %q vs %q", got, first)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("API endpoint returns 500! (again)")
	want := []string{"api", "endpoint", "returns", "500", "again"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize("  ...  "); got != nil {
		t.Fatalf("Tokenize of punctuation = %v, want nil", got)
	}
}

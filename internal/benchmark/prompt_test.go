package benchmark

import (
	"strings"
	"testing"
)

func TestSyntheticPromptScaling(t *testing.T) {
	small := SyntheticPrompt(50)
	large := SyntheticPrompt(100)

	// doubling the token count doubles the separator count
	if got, want := strings.Count(large, " "), 2*strings.Count(small, " "); got != want {
		t.Errorf("separator count = %d, want %d", got, want)
	}
	if len(large) != 2*len(small) {
		t.Errorf("length = %d, want %d", len(large), 2*len(small))
	}
}

func TestSyntheticPromptEmpty(t *testing.T) {
	if got := SyntheticPrompt(0); got != "" {
		t.Errorf("expected empty prompt, got %q", got)
	}
	if got := SyntheticPrompt(-1); got != "" {
		t.Errorf("expected empty prompt, got %q", got)
	}
}

package summarize

import (
	"strings"
	"testing"
)

func TestNaive_ShortTextUnchanged(t *testing.T) {
	got := Naive("Hello world.", 400)
	if got != "Hello world." {
		t.Errorf("Naive = %q, want input unchanged", got)
	}
}

func TestNaive_TrimsWhitespace(t *testing.T) {
	got := Naive("  trimmed text  ", 400)
	if got != "trimmed text" {
		t.Errorf("Naive = %q, want %q", got, "trimmed text")
	}
}

func TestNaive_KeepsLeadingSentences(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence is rather long and keeps going on."
	got := Naive(text, 50)
	want := "First sentence here. Second sentence here."
	if got != want {
		t.Errorf("Naive = %q, want %q", got, want)
	}
}

func TestNaive_CutsAtWordBoundary(t *testing.T) {
	text := "Supercalifragilistic expialidocious antidisestablishmentarianism onward"
	got := Naive(text, 30)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("Naive = %q, want ellipsis suffix", got)
	}
	if got != "Supercalifragilistic..." {
		t.Errorf("Naive = %q, want cut at word boundary", got)
	}
}

func TestNaive_ZeroLimitUsesDefault(t *testing.T) {
	text := strings.Repeat("word ", 50) // 250 chars, under the default limit
	got := Naive(text, 0)
	if got != strings.TrimSpace(text) {
		t.Errorf("Naive with zero limit changed text within default bounds")
	}
}

package ident

import "testing"

func TestNormalizeProducesNFC(t *testing.T) {
	// "e" + combining acute accent (U+0065 U+0301, NFD) should normalize to
	// the single precomposed code point (U+00E9, NFC).
	decomposed := string([]rune{0x0065, 0x0301}) + "lem"
	precomposed := string([]rune{0x00E9}) + "lem"
	if Normalize(decomposed) != precomposed {
		t.Errorf("Normalize(%q) = %q, want %q", decomposed, Normalize(decomposed), precomposed)
	}
}

func TestFoldKeyIsCaseInsensitive(t *testing.T) {
	if FoldKey("Foo") != FoldKey("foo") {
		t.Errorf("FoldKey should ignore case: FoldKey(Foo)=%q FoldKey(foo)=%q", FoldKey("Foo"), FoldKey("foo"))
	}
}

func TestSuggestFindsClosestWithinDistance(t *testing.T) {
	known := []string{"length", "lenght", "count"}
	got := Suggest("lenght", known, 2)
	if got != "lenght" {
		t.Errorf("Suggest exact match = %q, want %q", got, "lenght")
	}
	got = Suggest("lengtt", known, 2)
	if got == "" {
		t.Error("expected a suggestion within edit distance 2 of a near-miss")
	}
}

func TestSuggestReturnsEmptyBeyondMaxDistance(t *testing.T) {
	known := []string{"completely_different_name"}
	if got := Suggest("x", known, 1); got != "" {
		t.Errorf("Suggest beyond max distance = %q, want empty", got)
	}
}

func TestSuggestIsCaseInsensitive(t *testing.T) {
	known := []string{"MyFunction"}
	if got := Suggest("myfunction", known, 0); got != "MyFunction" {
		t.Errorf("Suggest(%q) = %q, want case-insensitive match %q", "myfunction", got, "MyFunction")
	}
}

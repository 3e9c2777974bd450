package catalog_test

import (
	"testing"

	"execdesk/internal/catalog"
	"execdesk/internal/testutil"
)

func TestLanguagesAreUniqueAndNonEmpty(t *testing.T) {
	langs := catalog.Languages()
	testutil.AssertEqual(t, len(langs), 53)

	seen := make(map[string]bool, len(langs))
	for _, lang := range langs {
		if lang == "" {
			t.Fatal("empty entry in catalog")
		}
		if seen[lang] {
			t.Fatalf("duplicate entry %q", lang)
		}
		seen[lang] = true
	}
}

func TestLanguagesReturnsCopy(t *testing.T) {
	langs := catalog.Languages()
	langs[0] = "mutated"
	testutil.AssertEqual(t, catalog.Languages()[0], "Python (3.8.1)")
}

func TestContains(t *testing.T) {
	testutil.AssertTrue(t, catalog.Contains("Python (3.11.2)"), "python 3.11.2 is listed")
	testutil.AssertFalse(t, catalog.Contains(""), "placeholder is never valid")
	testutil.AssertFalse(t, catalog.Contains("python (3.11.2)"), "Contains is exact")
}

func TestResolve(t *testing.T) {
	tests := []struct {
		choice string
		want   string
		ok     bool
	}{
		{"1", "Python (3.8.1)", true},
		{"53", "Visual Basic.Net (vbnc 0.0.0.5943)", true},
		{" go (1.18.5) ", "Go (1.18.5)", true},
		{"0", "", false},
		{"54", "", false},
		{"", "", false},
		{"Brainfuck", "", false},
	}
	for _, tt := range tests {
		got, ok := catalog.Resolve(tt.choice)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.choice, got, ok, tt.want, tt.ok)
		}
	}
}

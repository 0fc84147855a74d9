package rules

import "testing"

func TestNormalizeStripsCaseAndWhitespace(t *testing.T) {
	if got := Normalize("Foo  Bar"); got != "foobar" {
		t.Fatalf("expected foobar, got %q", got)
	}
	if Normalize("Foo  Bar") != Normalize("foobar") {
		t.Fatalf("expected case/whitespace-insensitive equality")
	}
}

func TestNormalizeHandlesFullWidthSpace(t *testing.T) {
	if got := Normalize("　riichi　"); got != "riichi" {
		t.Fatalf("expected full-width spaces removed, got %q", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"", "  FRITEN ", "Foo　Bar", "already-normal"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeWhitespaceOnlyIsEmpty(t *testing.T) {
	if got := Normalize("   　 "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestNormalizeLabelPreservesCaseAndUnifiesDashes(t *testing.T) {
	if got := NormalizeLabel("High — Low"); got != "High-Low" {
		t.Fatalf("expected High-Low, got %q", got)
	}
	for _, in := range []string{"win－hand", "win―hand", "win—hand", "win–hand"} {
		if got := NormalizeLabel(in); got != "win-hand" {
			t.Fatalf("expected win-hand for %q, got %q", in, got)
		}
	}
}

func TestNormalizeLabelIsIdempotent(t *testing.T) {
	once := NormalizeLabel(" Points — Table ")
	if twice := NormalizeLabel(once); twice != once {
		t.Fatalf("normalizeLabel not idempotent: %q vs %q", once, twice)
	}
}

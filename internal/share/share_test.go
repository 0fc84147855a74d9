package share

import (
	"errors"
	"strings"
	"testing"

	"github.com/ruledex/ruledex/internal/rules"
)

func testLibrary(t *testing.T) *rules.Library {
	t.Helper()
	return rules.New(rules.Document{
		Games: []rules.Game{{
			ID: "mahjong", Name: "Mahjong",
			Categories: []rules.Category{{ID: "basic", Name: "Basics"}},
		}},
		Rules: []rules.Rule{{
			ID: "mj-001", GameID: "mahjong", CategoryID: "basic",
			Title:       "Furiten",
			Description: "You cannot declare ron on a discarded tile.",
			Penalty:     "Ron is blocked.",
			Tags:        []string{"riichi", "ron"},
		}},
	})
}

func TestTextSkipsAbsentFields(t *testing.T) {
	lib := testLibrary(t)
	r, _ := lib.Rule("mj-001")
	got := Text(lib, r)
	want := strings.Join([]string{
		"Furiten",
		"Mahjong / Basics",
		"You cannot declare ron on a discarded tile.",
		"Ron is blocked.",
		"#riichi #ron",
	}, "\n")
	if got != want {
		t.Fatalf("expected\n%q\ngot\n%q", want, got)
	}
	if strings.Contains(got, "\n\n") {
		t.Fatalf("expected no blank lines for absent fields")
	}
}

func TestTextDegradesDanglingScopeToRawIDs(t *testing.T) {
	lib := testLibrary(t)
	got := Text(lib, rules.Rule{Title: "Orphan", GameID: "chess", CategoryID: "endgame"})
	if !strings.Contains(got, "chess / endgame") {
		t.Fatalf("expected raw ids in scope line, got %q", got)
	}
}

func TestShareFallsBackToManualCopy(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(string) error { return errors.New("no clipboard") }

	lib := testLibrary(t)
	r, _ := lib.Rule("mj-001")
	text, outcome := Share(lib, r)
	if outcome != OutcomeManual {
		t.Fatalf("expected manual-copy outcome, got %v", outcome)
	}
	if text != Text(lib, r) {
		t.Fatalf("expected fallback to carry the full share text")
	}
}

func TestShareUsesClipboardWhenAvailable(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var captured string
	writeClipboard = func(s string) error { captured = s; return nil }

	lib := testLibrary(t)
	r, _ := lib.Rule("mj-001")
	text, outcome := Share(lib, r)
	if outcome != OutcomeClipboard {
		t.Fatalf("expected clipboard outcome, got %v", outcome)
	}
	if captured != text {
		t.Fatalf("expected clipboard to receive the share text")
	}
}

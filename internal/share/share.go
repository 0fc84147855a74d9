// Package share renders rules as plain text and hands them to the
// clipboard, with a manual-copy fallback when no clipboard is available.
package share

import (
	"strings"

	"github.com/atotto/clipboard"

	"github.com/ruledex/ruledex/internal/rules"
)

// writeClipboard is swappable in tests and on headless systems.
var writeClipboard = clipboard.WriteAll

// Outcome says how the share text reached the user.
type Outcome int

const (
	// OutcomeClipboard means the text landed on the system clipboard.
	OutcomeClipboard Outcome = iota
	// OutcomeManual means the clipboard was unavailable and the caller
	// should display the text for manual copying.
	OutcomeManual
)

// Text renders a rule for sharing: title, scope, then each populated body
// field, then tags, joined by newlines. Absent fields are skipped so the
// output never has blank sections.
func Text(lib *rules.Library, r rules.Rule) string {
	var lines []string
	lines = append(lines, r.Title)

	scope := lib.GameLabel(r.GameID)
	if r.CategoryID != "" {
		scope += " / " + lib.CategoryLabel(r.GameID, r.CategoryID)
	}
	if scope != "" {
		lines = append(lines, scope)
	}

	for _, f := range []string{r.Description, r.Detail, r.Procedure, r.Penalty} {
		if f != "" {
			lines = append(lines, f)
		}
	}
	if len(r.Tags) > 0 {
		lines = append(lines, "#"+strings.Join(r.Tags, " #"))
	}
	return strings.Join(lines, "\n")
}

// Share renders the rule and tries the clipboard. It always succeeds from
// the caller's point of view: a clipboard failure falls back to the
// manual-copy outcome with the same text.
func Share(lib *rules.Library, r rules.Rule) (string, Outcome) {
	text := Text(lib, r)
	if err := writeClipboard(text); err != nil {
		return text, OutcomeManual
	}
	return text, OutcomeClipboard
}

// Package tui implements the Bubbletea terminal UI for Ruledex.
//
// Conventions:
// - Screen constants as iota
// - Single Model struct holds ALL state
// - Update() with type switch
// - Per-screen key handlers returning (tea.Model, tea.Cmd)
// - Vim keys (j/k) for navigation
// - PrevScreen for back navigation
//
// All filter state lives in the session; the model only carries cursors,
// screen routing, and the last snapshot. Every mutation goes through a
// session method and is immediately followed by a snapshot recompute.
package tui

import (
	"github.com/ruledex/ruledex/internal/rules"
	"github.com/ruledex/ruledex/internal/session"
	"github.com/ruledex/ruledex/internal/share"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ─── Screens ─────────────────────────────────────────────────────────────────

type Screen int

const (
	ScreenHome Screen = iota
	ScreenBrowse
	ScreenDetail
	ScreenFavorites
)

// ─── Browse panes ────────────────────────────────────────────────────────────

type Pane int

const (
	PaneGames Pane = iota
	PaneCategories
	PaneTags
	PaneRules
)

// ─── Custom Messages ─────────────────────────────────────────────────────────

type libraryLoadedMsg struct {
	lib *rules.Library
}

type shareDoneMsg struct {
	outcome share.Outcome
}

// ─── Model ───────────────────────────────────────────────────────────────────

type Model struct {
	session     *session.Session
	loadLibrary func() *rules.Library
	Version     string

	Screen     Screen
	PrevScreen Screen
	Width      int
	Height     int

	// Last recomputed view. Never read filter state elsewhere.
	Snap session.Snapshot

	// Home
	HomeCursor int

	// Browse
	Pane           Pane
	GameCursor     int
	CategoryCursor int
	TagCursor      int
	RuleCursor     int
	RuleScroll     int
	SearchInput    textinput.Model

	// Detail
	SelectedRule *rules.Rule
	DetailScroll int

	// Favorites
	FavCursor int

	// Transient one-line feedback (share outcome, favorite toggles)
	Notice string
}

// New creates a TUI model over the given session. loadLibrary is invoked
// once from Init; the screens render a loading state until its message
// arrives.
func New(sess *session.Session, loadLibrary func() *rules.Library, version string) Model {
	ti := textinput.New()
	ti.Placeholder = "Search rules..."
	ti.CharLimit = 256
	ti.Width = 48
	ti.SetValue(sess.State().Query)

	m := Model{
		session:     sess,
		Version:     version,
		Screen:      ScreenHome,
		SearchInput: ti,
		loadLibrary: loadLibrary,
	}
	m.Snap = sess.Snapshot()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadLibraryCmd(m.loadLibrary),
		tea.EnterAltScreen,
	)
}

// ─── Commands ────────────────────────────────────────────────────────────────

func loadLibraryCmd(load func() *rules.Library) tea.Cmd {
	return func() tea.Msg {
		return libraryLoadedMsg{lib: load()}
	}
}

func shareRule(lib *rules.Library, r rules.Rule) tea.Cmd {
	return func() tea.Msg {
		_, outcome := shareFn(lib, r)
		return shareDoneMsg{outcome: outcome}
	}
}

var shareFn = share.Share

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruledex/ruledex/internal/rules"
	"github.com/ruledex/ruledex/internal/share"
)

// ─── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit — always works
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// If the search input is focused, let it handle most keys
		if m.Screen == ScreenBrowse && m.SearchInput.Focused() {
			return m.handleSearchInputKeys(msg)
		}
		return m.handleKeyPress(msg.String())

	// ─── Data loaded messages ────────────────────────────────────────────
	case libraryLoadedMsg:
		m.session.SetLibrary(msg.lib)
		m.refresh()
		return m, nil

	case shareDoneMsg:
		if msg.outcome == share.OutcomeClipboard {
			m.Notice = "Copied to clipboard"
		} else {
			m.Notice = "Clipboard unavailable — text shown below for manual copy"
		}
		return m, nil
	}

	return m, nil
}

// refresh recomputes the snapshot and clamps every cursor to the new
// derived lists. This is the single mutate-then-redraw choke point.
func (m *Model) refresh() {
	m.Snap = m.session.Snapshot()
	m.GameCursor = clamp(m.GameCursor, len(m.Snap.Games))
	m.CategoryCursor = clamp(m.CategoryCursor, len(m.Snap.Categories))
	m.TagCursor = clamp(m.TagCursor, len(m.Snap.Tags))
	m.RuleCursor = clamp(m.RuleCursor, len(m.Snap.Rules))
	if m.RuleScroll > m.RuleCursor {
		m.RuleScroll = m.RuleCursor
	}
	m.FavCursor = clamp(m.FavCursor, len(m.favoriteRules()))
}

func clamp(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func (m Model) favoriteRules() []rules.Rule {
	var out []rules.Rule
	for _, r := range m.session.Library().Rules() {
		if m.session.IsFavorite(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// ─── Key Press Router ────────────────────────────────────────────────────────

func (m Model) handleKeyPress(key string) (tea.Model, tea.Cmd) {
	// Clear the transient notice on any keypress
	m.Notice = ""

	switch m.Screen {
	case ScreenHome:
		return m.handleHomeKeys(key)
	case ScreenBrowse:
		return m.handleBrowseKeys(key)
	case ScreenDetail:
		return m.handleDetailKeys(key)
	case ScreenFavorites:
		return m.handleFavoritesKeys(key)
	}
	return m, nil
}

// ─── Home ────────────────────────────────────────────────────────────────────

var homeMenuItems = []string{
	"Browse rules",
	"Favorites",
	"Quit",
}

func (m Model) handleHomeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.HomeCursor > 0 {
			m.HomeCursor--
		}
	case "down", "j":
		if m.HomeCursor < len(homeMenuItems)-1 {
			m.HomeCursor++
		}
	case "enter", " ":
		return m.handleHomeSelection()
	case "b", "/":
		m.PrevScreen = ScreenHome
		m.Screen = ScreenBrowse
		m.refresh()
		if key == "/" {
			m.SearchInput.Focus()
		}
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleHomeSelection() (tea.Model, tea.Cmd) {
	switch m.HomeCursor {
	case 0: // Browse
		m.PrevScreen = ScreenHome
		m.Screen = ScreenBrowse
		m.refresh()
		return m, nil
	case 1: // Favorites
		m.PrevScreen = ScreenHome
		m.Screen = ScreenFavorites
		m.FavCursor = 0
		m.refresh()
		return m, nil
	case 2: // Quit
		return m, tea.Quit
	}
	return m, nil
}

// ─── Search Input ────────────────────────────────────────────────────────────

func (m Model) handleSearchInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.SearchInput.Blur()
		m.Pane = PaneRules
		return m, nil
	case "esc":
		m.SearchInput.Blur()
		return m, nil
	}

	// Let the text input component handle everything else, then push the
	// new query into the session so the list follows each keystroke.
	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	m.session.SetQuery(m.SearchInput.Value())
	m.refresh()
	return m, cmd
}

// ─── Browse ──────────────────────────────────────────────────────────────────

func (m Model) handleBrowseKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab":
		m.Pane = (m.Pane + 1) % 4
		return m, nil
	case "shift+tab":
		m.Pane = (m.Pane + 3) % 4
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter", " ":
		return m.handleBrowseSelection()
	case "/", "i":
		m.SearchInput.Focus()
		return m, nil
	case "c":
		m.session.ClearQuery()
		m.SearchInput.SetValue("")
		m.refresh()
		return m, nil
	case "F":
		m.session.SetFavOnly(!m.Snap.State.FavOnly)
		m.refresh()
		return m, nil
	case "f":
		if r, ok := m.highlightedRule(); ok {
			if m.session.ToggleFavorite(r.ID) {
				m.Notice = "Added to favorites: " + r.Title
			} else {
				m.Notice = "Removed from favorites: " + r.Title
			}
			m.refresh()
		}
		return m, nil
	case "y":
		if r, ok := m.highlightedRule(); ok {
			return m, shareRule(m.session.Library(), r)
		}
		return m, nil
	case "r":
		m.session.Reset()
		m.SearchInput.SetValue("")
		m.Pane = PaneGames
		m.GameCursor, m.CategoryCursor, m.TagCursor, m.RuleCursor, m.RuleScroll = 0, 0, 0, 0, 0
		m.refresh()
		return m, nil
	case "esc", "q":
		m.Screen = ScreenHome
		m.HomeCursor = 0
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.Pane {
	case PaneGames:
		m.GameCursor = clamp(m.GameCursor+delta, len(m.Snap.Games))
	case PaneCategories:
		m.CategoryCursor = clamp(m.CategoryCursor+delta, len(m.Snap.Categories))
	case PaneTags:
		m.TagCursor = clamp(m.TagCursor+delta, len(m.Snap.Tags))
	case PaneRules:
		m.RuleCursor = clamp(m.RuleCursor+delta, len(m.Snap.Rules))
		visible := m.visibleRuleRows()
		if m.RuleCursor < m.RuleScroll {
			m.RuleScroll = m.RuleCursor
		}
		if m.RuleCursor >= m.RuleScroll+visible {
			m.RuleScroll = m.RuleCursor - visible + 1
		}
	}
}

func (m Model) visibleRuleRows() int {
	rows := (m.Height - 16) / 2 // 2 lines per rule row
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m Model) handleBrowseSelection() (tea.Model, tea.Cmd) {
	switch m.Pane {
	case PaneGames:
		if m.GameCursor < len(m.Snap.Games) {
			// Re-selecting the active game clears the selection. This is
			// a key-handler affordance; the session itself is a plain
			// setter.
			entry := m.Snap.Games[m.GameCursor]
			id := entry.Game.ID
			if entry.Active {
				id = ""
			}
			m.session.SelectGame(id)
			m.CategoryCursor, m.TagCursor, m.RuleCursor, m.RuleScroll = 0, 0, 0, 0
			m.refresh()
		}
	case PaneCategories:
		if m.CategoryCursor < len(m.Snap.Categories) {
			entry := m.Snap.Categories[m.CategoryCursor]
			id := entry.Category.ID
			if entry.Active {
				id = ""
			}
			m.session.SelectCategory(id)
			m.TagCursor, m.RuleCursor, m.RuleScroll = 0, 0, 0
			m.refresh()
		}
	case PaneTags:
		if m.TagCursor < len(m.Snap.Tags) {
			m.session.ToggleTag(m.Snap.Tags[m.TagCursor].Tag)
			m.RuleCursor, m.RuleScroll = 0, 0
			m.refresh()
		}
	case PaneRules:
		if r, ok := m.highlightedRule(); ok {
			m.SelectedRule = &r
			m.PrevScreen = ScreenBrowse
			m.Screen = ScreenDetail
			m.DetailScroll = 0
		}
	}
	return m, nil
}

func (m Model) highlightedRule() (rules.Rule, bool) {
	if len(m.Snap.Rules) == 0 || m.RuleCursor >= len(m.Snap.Rules) {
		return rules.Rule{}, false
	}
	return m.Snap.Rules[m.RuleCursor], true
}

// ─── Detail ──────────────────────────────────────────────────────────────────

func (m Model) handleDetailKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.DetailScroll > 0 {
			m.DetailScroll--
		}
	case "down", "j":
		m.DetailScroll++
	case "f":
		if m.SelectedRule != nil {
			if m.session.ToggleFavorite(m.SelectedRule.ID) {
				m.Notice = "Added to favorites"
			} else {
				m.Notice = "Removed from favorites"
			}
			m.refresh()
		}
	case "y":
		if m.SelectedRule != nil {
			return m, shareRule(m.session.Library(), *m.SelectedRule)
		}
	case "esc", "q":
		m.Screen = m.PrevScreen
		m.DetailScroll = 0
		m.refresh()
	}
	return m, nil
}

// ─── Favorites ───────────────────────────────────────────────────────────────

func (m Model) handleFavoritesKeys(key string) (tea.Model, tea.Cmd) {
	favs := m.favoriteRules()

	switch key {
	case "up", "k":
		if m.FavCursor > 0 {
			m.FavCursor--
		}
	case "down", "j":
		if m.FavCursor < len(favs)-1 {
			m.FavCursor++
		}
	case "enter", " ":
		if len(favs) > 0 && m.FavCursor < len(favs) {
			r := favs[m.FavCursor]
			m.SelectedRule = &r
			m.PrevScreen = ScreenFavorites
			m.Screen = ScreenDetail
			m.DetailScroll = 0
		}
	case "f":
		if len(favs) > 0 && m.FavCursor < len(favs) {
			m.session.ToggleFavorite(favs[m.FavCursor].ID)
			m.refresh()
		}
	case "y":
		if len(favs) > 0 && m.FavCursor < len(favs) {
			return m, shareRule(m.session.Library(), favs[m.FavCursor])
		}
	case "esc", "q":
		m.Screen = ScreenHome
		m.HomeCursor = 0
	}
	return m, nil
}

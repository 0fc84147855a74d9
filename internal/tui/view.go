package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ruledex/ruledex/internal/session"
)

// ─── Logo ────────────────────────────────────────────────────────────────────

func renderLogo() string {
	logoText := []string{
		`    ____                __              __            `,
		`   / __ \  __  __      / /  ___   ____/ / ___  _  __  `,
		`  / /_/ / / / / /     / /  / _ \ / __  / / _ \| |/_/  `,
		` / _, _/ / /_/ /     / /  /  __// /_/ / /  __/>  <    `,
		`/_/ |_|  \__,_/     /_/   \___/ \__,_/  \___/_/|_|    `,
	}

	frameStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorOverlay).
		Padding(0, 1).
		MarginBottom(1)

	textStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)
	taglineStyle := lipgloss.NewStyle().Foreground(colorSubtext).Italic(true)

	var b strings.Builder
	for _, line := range logoText {
		b.WriteString(" " + textStyle.Render(line) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(taglineStyle.Render(" > ruledex — table rules, settled before the argument"))

	return frameStyle.Render(b.String()) + "\n"
}

// ─── View (main router) ─────────────────────────────────────────────────────

func (m Model) View() string {
	var content string

	switch m.Screen {
	case ScreenHome:
		content = m.viewHome()
	case ScreenBrowse:
		content = m.viewBrowse()
	case ScreenDetail:
		content = m.viewDetail()
	case ScreenFavorites:
		content = m.viewFavorites()
	default:
		content = "Unknown screen"
	}

	if m.Notice != "" {
		content += "\n" + noticeStyle.Render(m.Notice)
	}

	return appStyle.Render(content)
}

// ─── Home ────────────────────────────────────────────────────────────────────

func (m Model) viewHome() string {
	var b strings.Builder

	b.WriteString(renderLogo())
	b.WriteString("\n")

	if m.Snap.Status == session.StatusLoading {
		b.WriteString(statCardStyle.Render("Loading rule library..."))
		b.WriteString("\n")
	} else {
		lib := m.session.Library()
		stats := fmt.Sprintf(
			"%s %s\n%s %s\n%s %s",
			statNumberStyle.Render(fmt.Sprintf("%d", lib.Len())),
			statLabelStyle.Render("rules"),
			statNumberStyle.Render(fmt.Sprintf("%d", len(lib.Games()))),
			statLabelStyle.Render("games"),
			statNumberStyle.Render(fmt.Sprintf("%d", len(m.favoriteRules()))),
			statLabelStyle.Render("favorites"),
		)
		b.WriteString(statCardStyle.Render(stats))
		b.WriteString("\n")

		if len(lib.Games()) > 0 {
			b.WriteString(titleStyle.Render("  Games"))
			b.WriteString("\n")
			for _, g := range lib.Games() {
				label := g.Name
				if g.Icon != "" {
					label = g.Icon + " " + label
				}
				b.WriteString(listItemStyle.Render("• "+label) +
					countStyle.Render(fmt.Sprintf("  (%d rules)", lib.CountByGame(g.ID))))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(titleStyle.Render("  Actions"))
	b.WriteString("\n")
	for i, item := range homeMenuItems {
		if i == m.HomeCursor {
			b.WriteString(menuSelectedStyle.Render("▸ " + item))
		} else {
			b.WriteString(menuItemStyle.Render("  " + item))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("\n  j/k navigate • enter select • b browse • / search • q quit"))

	return b.String()
}

// ─── Browse ──────────────────────────────────────────────────────────────────

func (m Model) viewBrowse() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("  Browse Rules"))
	b.WriteString("\n")

	b.WriteString(searchInputStyle.Render(m.SearchInput.View()))
	b.WriteString("\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.viewGamePane(),
		m.viewCategoryPane(),
		m.viewTagPane(),
	)
	right := m.viewRulePane()

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(30).Render(left),
		right,
	))

	b.WriteString(helpStyle.Render("\n  tab panes • enter select • / search • f fav • F favs-only • y share • c clear • r reset • esc back"))

	return b.String()
}

func (m Model) paneTitle(title string, pane Pane) string {
	if m.Pane == pane && !m.SearchInput.Focused() {
		return paneFocusedTitleStyle.Render("▸ " + title)
	}
	return paneTitleStyle.Render("  " + title)
}

func (m Model) viewGamePane() string {
	var b strings.Builder
	b.WriteString(m.paneTitle("Games", PaneGames))
	b.WriteString("\n")
	for i, g := range m.Snap.Games {
		label := fmt.Sprintf("%s %s", g.Game.Name, countStyle.Render(fmt.Sprintf("(%d)", g.Count)))
		if g.Active {
			label = tagChipActiveStyle.Render(g.Game.Name) + " " + countStyle.Render(fmt.Sprintf("(%d)", g.Count))
		}
		if m.Pane == PaneGames && i == m.GameCursor {
			b.WriteString(listSelectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(listItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	if len(m.Snap.Games) == 0 {
		b.WriteString(statusStyle.Render("  (no games)"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewCategoryPane() string {
	var b strings.Builder
	b.WriteString(m.paneTitle("Categories", PaneCategories))
	b.WriteString("\n")
	if len(m.Snap.Categories) == 0 {
		b.WriteString(statusStyle.Render("  (select a game)"))
		b.WriteString("\n")
		return b.String()
	}
	for i, c := range m.Snap.Categories {
		label := c.Category.Name
		if c.Active {
			label = tagChipActiveStyle.Render(label)
		}
		if m.Pane == PaneCategories && i == m.CategoryCursor {
			b.WriteString(listSelectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(listItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewTagPane() string {
	var b strings.Builder
	b.WriteString(m.paneTitle("Tags", PaneTags))
	b.WriteString("\n")
	if len(m.Snap.Tags) == 0 {
		b.WriteString(statusStyle.Render("  (no tags in scope)"))
		b.WriteString("\n")
		return b.String()
	}
	for i, tag := range m.Snap.Tags {
		label := tagChipStyle.Render("#" + tag.Tag)
		if tag.Active {
			label = tagChipActiveStyle.Render("#" + tag.Tag)
			if !tag.Visible {
				label += statusStyle.Render(" (out of scope)")
			}
		}
		if m.Pane == PaneTags && i == m.TagCursor {
			b.WriteString(listSelectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(listItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewRulePane() string {
	var b strings.Builder
	b.WriteString(m.paneTitle(m.ruleListHeading(), PaneRules))
	b.WriteString("\n")

	switch m.Snap.Status {
	case session.StatusLoading:
		b.WriteString(statusStyle.Render("  Loading rules..."))
		b.WriteString("\n")
		return b.String()
	case session.StatusNoResults:
		if m.session.Library().Len() == 0 {
			b.WriteString(emptyStyle.Render("  0 rules — the rule library is empty or failed to load."))
		} else {
			b.WriteString(emptyStyle.Render("  No rules match the current filters."))
		}
		b.WriteString("\n")
		return b.String()
	}

	visible := m.visibleRuleRows()
	end := m.RuleScroll + visible
	if end > len(m.Snap.Rules) {
		end = len(m.Snap.Rules)
	}

	lib := m.session.Library()
	for i := m.RuleScroll; i < end; i++ {
		r := m.Snap.Rules[i]
		mark := "  "
		if m.session.IsFavorite(r.ID) {
			mark = favMarkStyle.Render("★ ")
		}
		line := mark + r.Title
		scope := countStyle.Render(fmt.Sprintf("  %s · %s",
			lib.GameLabel(r.GameID), lib.CategoryLabel(r.GameID, r.CategoryID)))

		if m.Pane == PaneRules && i == m.RuleCursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listItemStyle.Render(line))
		}
		b.WriteString(scope)
		b.WriteString("\n")
		if r.Description != "" {
			b.WriteString(statusStyle.Render("      " + truncate(r.Description, 64)))
			b.WriteString("\n")
		}
	}

	if end < len(m.Snap.Rules) {
		b.WriteString(countStyle.Render(fmt.Sprintf("  ...%d more", len(m.Snap.Rules)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) ruleListHeading() string {
	switch m.Snap.Status {
	case session.StatusLoading:
		return "Rules"
	case session.StatusNoSelection:
		return fmt.Sprintf("All rules (%d)", len(m.Snap.Rules))
	default:
		heading := fmt.Sprintf("Rules (%d)", len(m.Snap.Rules))
		if m.Snap.State.FavOnly {
			heading += " ★ favorites only"
		}
		return heading
	}
}

// ─── Detail ──────────────────────────────────────────────────────────────────

func (m Model) viewDetail() string {
	if m.SelectedRule == nil {
		return emptyStyle.Render("Rule not found.")
	}
	r := *m.SelectedRule
	lib := m.session.Library()

	var b strings.Builder
	title := r.Title
	if m.session.IsFavorite(r.ID) {
		title = "★ " + title
	}
	b.WriteString(detailTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(detailScopeStyle.Render(
		lib.GameLabel(r.GameID) + " / " + lib.CategoryLabel(r.GameID, r.CategoryID)))
	b.WriteString("\n")

	sections := []struct {
		name string
		body string
	}{
		{"Summary", r.Description},
		{"Detail", r.Detail},
		{"Procedure", r.Procedure},
	}
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		b.WriteString(detailSectionStyle.Render(s.name))
		b.WriteString("\n")
		b.WriteString(detailBodyStyle.Render(wrap(s.body, m.contentWidth())))
		b.WriteString("\n")
	}
	if r.Penalty != "" {
		b.WriteString(detailSectionStyle.Render("Penalty"))
		b.WriteString("\n")
		b.WriteString(penaltyStyle.Render(wrap(r.Penalty, m.contentWidth())))
		b.WriteString("\n")
	}
	if len(r.Tags) > 0 {
		b.WriteString("\n")
		chips := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			chips[i] = tagChipStyle.Render("#" + t)
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}

	content := scrollLines(b.String(), m.DetailScroll, m.Height-8)
	return content + helpStyle.Render("\n  j/k scroll • f favorite • y share • esc back")
}

// ─── Favorites ───────────────────────────────────────────────────────────────

func (m Model) viewFavorites() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("  Favorites"))
	b.WriteString("\n")

	favs := m.favoriteRules()
	if len(favs) == 0 {
		b.WriteString(statusStyle.Render("  No favorites yet. Press f on a rule to add one."))
		b.WriteString("\n")
	}

	lib := m.session.Library()
	for i, r := range favs {
		line := "★ " + r.Title +
			countStyle.Render(fmt.Sprintf("  %s · %s",
				lib.GameLabel(r.GameID), lib.CategoryLabel(r.GameID, r.CategoryID)))
		if i == m.FavCursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("\n  j/k navigate • enter open • f remove • y share • esc back"))
	return b.String()
}

// ─── Text helpers ────────────────────────────────────────────────────────────

func (m Model) contentWidth() int {
	w := m.Width - 8
	if w < 40 {
		w = 40
	}
	return w
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func wrap(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}

func scrollLines(s string, offset, height int) string {
	if height < 5 {
		height = 5
	}
	lines := strings.Split(s, "\n")
	if offset >= len(lines) {
		offset = len(lines) - 1
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}

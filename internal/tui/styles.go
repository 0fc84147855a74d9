package tui

import "github.com/charmbracelet/lipgloss"

// ─── Colors (Ruledex felt-table palette) ─────────────────────────────────────

var (
	colorText    = lipgloss.Color("#e8e6e3") // Off-white text
	colorSubtext = lipgloss.Color("#8a9199") // Dim slate
	colorOverlay = lipgloss.Color("#565f6b") // Muted borders
	colorGreen   = lipgloss.Color("#7fb069") // Felt green accent
	colorGold    = lipgloss.Color("#e6b450") // Chip gold
	colorRed     = lipgloss.Color("#e05561") // Soft red
	colorBlue    = lipgloss.Color("#59a8d8") // Card blue
	colorIvory   = lipgloss.Color("#f2e9d8") // Tile ivory
)

// ─── Layout Styles ───────────────────────────────────────────────────────────

var (
	// App frame
	appStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(1, 2)

	// Header bar
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorOverlay).
			PaddingBottom(1).
			MarginBottom(1)

	// Footer / help bar
	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			MarginTop(1)

	// Transient notice (share result, favorite toggled)
	noticeStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Padding(0, 1)
)

// ─── Home Styles ─────────────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorIvory).
			MarginBottom(1)

	statNumberStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen).
			Width(6).
			Align(lipgloss.Right)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	statCardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorOverlay).
			Padding(1, 2).
			MarginBottom(1)

	menuItemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	menuSelectedStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true).
				PaddingLeft(1)
)

// ─── Browse Styles ───────────────────────────────────────────────────────────

var (
	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSubtext)

	paneFocusedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGreen)

	listItemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	listSelectedStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true).
				PaddingLeft(1)

	tagChipStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	tagChipActiveStyle = lipgloss.NewStyle().
				Foreground(colorGold).
				Bold(true).
				Underline(true)

	favMarkStyle = lipgloss.NewStyle().
			Foreground(colorGold)

	countStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	searchInputStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorOverlay).
				Padding(0, 1).
				MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Italic(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Italic(true)
)

// ─── Detail Styles ───────────────────────────────────────────────────────────

var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorIvory)

	detailScopeStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	detailSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSubtext).
				MarginTop(1)

	detailBodyStyle = lipgloss.NewStyle().
			Foreground(colorText)

	penaltyStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// PlanHub terminal palette
var (
	ColorBackground = lipgloss.Color("#101014")
	ColorBorder     = lipgloss.Color("#2a2a32")
	ColorAccent     = lipgloss.Color("#4f8cff")
	ColorSuccess    = lipgloss.Color("#30d158")
	ColorWarning    = lipgloss.Color("#ffd60a")
	ColorError      = lipgloss.Color("#ff453a")

	ColorTextPrimary   = lipgloss.Color("#ffffff")
	ColorTextSecondary = lipgloss.Color("#c8c8d0")
	ColorTextMuted     = lipgloss.Color("#74747e")
)

// Theme contains the styled components of the board view.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Column      lipgloss.Style
	ColumnFocus lipgloss.Style
	ColumnTitle lipgloss.Style
	ColumnCount lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardPicked   lipgloss.Style
	CardMeta     lipgloss.Style

	PriorityHigh   lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityLow    lipgloss.Style

	ErrorLine lipgloss.Style
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
}

// DefaultTheme is the theme used by the board.
var DefaultTheme = NewTheme()

// NewTheme creates the default theme.
func NewTheme() *Theme {
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	card := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Padding(0, 1)

	return &Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(ColorTextPrimary),
		Subtitle:    lipgloss.NewStyle().Foreground(ColorTextMuted),
		Column:      column,
		ColumnFocus: column.BorderForeground(ColorAccent),
		ColumnTitle: lipgloss.NewStyle().Bold(true).Foreground(ColorTextPrimary),
		ColumnCount: lipgloss.NewStyle().Foreground(ColorTextMuted),

		Card:         card,
		CardSelected: card.Foreground(ColorTextPrimary).Background(lipgloss.Color("#1e2a45")),
		CardPicked:   card.Foreground(ColorBackground).Background(ColorAccent).Bold(true),
		CardMeta:     lipgloss.NewStyle().Foreground(ColorTextMuted),

		PriorityHigh:   lipgloss.NewStyle().Foreground(ColorError),
		PriorityMedium: lipgloss.NewStyle().Foreground(ColorWarning),
		PriorityLow:    lipgloss.NewStyle().Foreground(ColorSuccess),

		ErrorLine: lipgloss.NewStyle().Foreground(ColorError),
		Footer:    lipgloss.NewStyle().Foreground(ColorTextMuted),
		FooterKey: lipgloss.NewStyle().Foreground(ColorTextSecondary).Bold(true),
	}
}

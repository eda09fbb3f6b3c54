// Package tui renders the kanban board. Picking a card up and dropping it
// in another column drives kanban.Board.Move; while the server confirms,
// the card already sits in its new column, and it snaps back if the
// update is rejected.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planhub/planhub-cli/internal/api"
	"github.com/planhub/planhub-cli/internal/kanban"
)

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Pick   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Left:   key.NewBinding(key.WithKeys("left", "h")),
	Right:  key.NewBinding(key.WithKeys("right", "l")),
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Pick:   key.NewBinding(key.WithKeys("enter", " ")),
	Reload: key.NewBinding(key.WithKeys("r")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// tasksLoadedMsg is sent when the initial or reloaded task fetch finishes.
type tasksLoadedMsg struct {
	err error
}

// moveDoneMsg is sent when a move has been confirmed or rolled back.
type moveDoneMsg struct {
	err error
}

// Board is the bubbletea model for the kanban view.
type Board struct {
	board     *kanban.Board
	projectID int64
	theme     *Theme

	spinner spinner.Model
	loading bool
	pending int // moves awaiting server confirmation

	col    int // focused column
	row    int // selected card within the column
	picked *api.Task

	errMsg string
	width  int
	height int
}

// NewBoard creates the board view for one project.
func NewBoard(b *kanban.Board, projectID int64) *Board {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return &Board{
		board:     b,
		projectID: projectID,
		theme:     DefaultTheme,
		spinner:   sp,
		loading:   true,
	}
}

func (m *Board) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m *Board) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return tasksLoadedMsg{err: m.board.Load(context.Background(), m.projectID)}
	}
}

func (m *Board) moveCmd(taskID int64, target api.Status) tea.Cmd {
	return func() tea.Msg {
		return moveDoneMsg{err: m.board.Move(context.Background(), taskID, target)}
	}
}

func (m *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		m.clampCursor()
		return m, nil

	case moveDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			// The controller has already rolled the card back.
			m.errMsg = msg.err.Error()
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Left):
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}

	case key.Matches(msg, keys.Right):
		if m.col < len(api.Statuses())-1 {
			m.col++
			m.clampCursor()
		}

	case key.Matches(msg, keys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, keys.Down):
		if m.row < len(m.column())-1 {
			m.row++
		}

	case key.Matches(msg, keys.Reload):
		if !m.loading {
			m.loading = true
			m.picked = nil
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}

	case key.Matches(msg, keys.Pick):
		return m.pickOrDrop()
	}

	return m, nil
}

// pickOrDrop lifts the selected card, or drops the lifted card into the
// focused column. Dropping into the card's own column is a no-op.
func (m *Board) pickOrDrop() (tea.Model, tea.Cmd) {
	if m.picked == nil {
		col := m.column()
		if len(col) == 0 {
			return m, nil
		}
		t := col[m.row]
		m.picked = &t
		return m, nil
	}

	task := *m.picked
	m.picked = nil
	target := api.Statuses()[m.col]
	if task.Status == target {
		return m, nil
	}

	m.errMsg = ""
	m.pending++
	return m, tea.Batch(m.spinner.Tick, m.moveCmd(task.ID, target))
}

func (m *Board) column() []api.Task {
	return m.board.Column(api.Statuses()[m.col])
}

func (m *Board) clampCursor() {
	if n := len(m.column()); m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *Board) View() string {
	var b strings.Builder

	title := m.theme.Title.Render(fmt.Sprintf("PlanHub · Board · project %d", m.projectID))
	if m.loading {
		title += "  " + m.spinner.View() + m.theme.Subtitle.Render(" loading…")
	} else if m.pending > 0 {
		title += "  " + m.spinner.View() + m.theme.Subtitle.Render(" syncing…")
	}
	b.WriteString(title + "\n\n")

	if !m.loading {
		b.WriteString(m.renderColumns() + "\n")
	}

	if m.errMsg != "" {
		b.WriteString(m.theme.ErrorLine.Render("✗ "+m.errMsg) + "\n")
	}

	b.WriteString(m.renderFooter())
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *Board) renderColumns() string {
	statuses := api.Statuses()
	colWidth := 30
	if m.width > 0 {
		if w := m.width/len(statuses) - 4; w > 20 {
			colWidth = w
		}
	}

	rendered := make([]string, len(statuses))
	for i, status := range statuses {
		rendered[i] = m.renderColumn(i, status, colWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Board) renderColumn(idx int, status api.Status, width int) string {
	tasks := m.board.Column(status)

	header := m.theme.ColumnTitle.Render(string(status)) +
		m.theme.ColumnCount.Render(fmt.Sprintf(" (%d)", len(tasks)))

	lines := []string{header, ""}
	for row, t := range tasks {
		lines = append(lines, m.renderCard(t, idx == m.col && row == m.row, width-4)...)
	}
	if len(tasks) == 0 {
		lines = append(lines, m.theme.CardMeta.Render("  (empty)"))
	}

	style := m.theme.Column
	if idx == m.col {
		style = m.theme.ColumnFocus
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Board) renderCard(t api.Task, selected bool, width int) []string {
	style := m.theme.Card
	if m.picked != nil && m.picked.ID == t.ID {
		style = m.theme.CardPicked
	} else if selected {
		style = m.theme.CardSelected
	}

	title := truncate(t.Title, width)
	meta := m.priorityBadge(t.Priority)
	if t.DueDate != "" {
		meta += m.theme.CardMeta.Render(" · due " + t.DueDate)
	}
	return []string{style.Render(title), "  " + meta}
}

func (m *Board) priorityBadge(p api.Priority) string {
	switch p {
	case api.PriorityHigh:
		return m.theme.PriorityHigh.Render("▲ high")
	case api.PriorityMedium:
		return m.theme.PriorityMedium.Render("■ med")
	default:
		return m.theme.PriorityLow.Render("▽ low")
	}
}

func (m *Board) renderFooter() string {
	k := m.theme.FooterKey
	f := m.theme.Footer

	action := "pick up"
	if m.picked != nil {
		action = "drop " + truncate(m.picked.Title, 20)
	}

	return f.Render("  ") +
		k.Render("←→") + f.Render(" column  ") +
		k.Render("↑↓") + f.Render(" card  ") +
		k.Render("enter") + f.Render(" "+action+"  ") +
		k.Render("r") + f.Render(" reload  ") +
		k.Render("q") + f.Render(" quit")
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

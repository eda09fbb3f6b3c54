package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/planhub/planhub-cli/internal/kanban"
	"github.com/planhub/planhub-cli/internal/tui"
)

var boardProject int64

var BoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive kanban board",
	Long: `Open the kanban board for a project.

Move between columns and cards with the arrow keys (or h/j/k/l), pick a
card up with enter, move to another column, and drop it with enter again.
Moves apply immediately and are rolled back if the server rejects them.`,
	RunE: runBoard,
}

func init() {
	BoardCmd.Flags().Int64Var(&boardProject, "project", 0, "Project id (defaults to the configured default project)")
}

func runBoard(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	projectID, err := projectIDOrDefault(boardProject, cfg)
	if err != nil {
		return err
	}

	board := kanban.NewBoard(client)
	p := tea.NewProgram(tui.NewBoard(board, projectID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board exited with error: %w", err)
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from PlanHub",
	Long:  `Clear the stored session. The server is notified best-effort; local credentials are removed either way.`,
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	mgr, _, err := newManager()
	if err != nil {
		return err
	}

	hadSession := mgr.CurrentUser() != nil
	if err := mgr.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	if hadSession {
		fmt.Println("✅ Logged out.")
	} else {
		fmt.Println("✅ Logged out (no session was active).")
	}
	return nil
}

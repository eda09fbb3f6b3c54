package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planhub/planhub-cli/internal/config"
	"github.com/planhub/planhub-cli/internal/updater"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and configuration status",
	Long:  `Display the current session, server, and configuration of the PlanHub client.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr, cfg, err := newManager()
	if err != nil {
		return err
	}

	fmt.Println("📊 PlanHub Status")
	fmt.Println()

	user := mgr.CurrentUser()
	switch {
	case user != nil && mgr.IsAuthenticated():
		fmt.Println("🔐 Session: ✅ Active")
		fmt.Printf("   User: %s (%s)\n", user.Name, user.Email)
		fmt.Printf("   Role: %s\n", user.Role)
	case user != nil:
		fmt.Println("🔐 Session: 🟡 Access token expired (refreshes on next call)")
		fmt.Printf("   User: %s (%s)\n", user.Name, user.Email)
	default:
		fmt.Println("🔐 Session: ❌ Not logged in")
		fmt.Println("   Run 'planhub login' to authenticate")
	}
	fmt.Println()

	fmt.Printf("🌐 Server: %s\n", cfg.ServerURL)
	if cfg.DefaultProject > 0 {
		fmt.Printf("📌 Default project: %d\n", cfg.DefaultProject)
	}
	fmt.Printf("📁 Config file: %s\n", config.GetConfigPath())
	fmt.Printf("🏷️  Version: %s\n", AppVersion)

	if latest, err := updater.CheckLatestVersion(cmd.Context()); err == nil && updater.IsNewer(AppVersion, latest) {
		fmt.Println()
		fmt.Printf("⬆️  Update available: v%s\n", latest)
	}

	return nil
}

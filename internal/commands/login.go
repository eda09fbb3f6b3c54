package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/planhub/planhub-cli/internal/config"
)

var (
	loginEmail    string
	loginPassword string
	loginServer   string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with PlanHub",
	Long: `Authenticate with your PlanHub account.

Tokens are stored in the config file and refreshed automatically; you only
need to log in again when the refresh token itself expires.`,
	RunE: runLogin,
}

func init() {
	LoginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted if omitted)")
	LoginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted if omitted)")
	LoginCmd.Flags().StringVar(&loginServer, "server", "", "API base URL (persisted for later commands)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if loginServer != "" {
		cfg.ServerURL = strings.TrimSuffix(loginServer, "/")
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save server URL: %w", err)
		}
	}

	email := loginEmail
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}

	password := loginPassword
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	mgr, _, err := newManager()
	if err != nil {
		return err
	}

	if err := mgr.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := mgr.CurrentUser()
	fmt.Println()
	fmt.Printf("✅ Logged in as %s (%s)\n", user.Name, user.Email)
	fmt.Printf("   Role: %s\n", user.Role)
	if len(user.Permissions) > 0 {
		fmt.Printf("   Modules: %d\n", len(user.Permissions))
	}
	fmt.Println()
	fmt.Println("Next: planhub projects, planhub board, or planhub status")
	return nil
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

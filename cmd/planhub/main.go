package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planhub/planhub-cli/internal/commands"
	"github.com/planhub/planhub-cli/internal/config"
	"github.com/planhub/planhub-cli/internal/logging"
)

var (
	// Version is set at build time via -ldflags "-X main.Version=X.Y.Z"
	Version    = "0.0.0-dev"
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "planhub",
	Short: "PlanHub - project management from the terminal",
	Long: `PlanHub is a terminal client for the PlanHub project-management API.

Quick Start:
  planhub login                   Authenticate (first time)
  planhub projects                List your projects
  planhub projects use <id>       Pick a default project
  planhub board                   Open the interactive kanban board

Commands:
  login / logout / status    Session management
  recover send/verify/reset  Password recovery
  projects                   List and manage projects
  tasks                      List, create and move tasks
  team                       Manage a project's team
  users                      Manage user accounts (admin)
  board                      Interactive kanban board

Config: ~/.planhub/config.yaml
Logs:   ~/.planhub/logs/planhub.log`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			config.SetConfigPath(configFile)
		}
		return logging.Init(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")

	rootCmd.AddCommand(commands.LoginCmd)
	rootCmd.AddCommand(commands.LogoutCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.RecoverCmd)
	rootCmd.AddCommand(commands.ProjectsCmd)
	rootCmd.AddCommand(commands.TasksCmd)
	rootCmd.AddCommand(commands.TeamCmd)
	rootCmd.AddCommand(commands.UsersCmd)
	rootCmd.AddCommand(commands.BoardCmd)
}

func main() {
	commands.AppVersion = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

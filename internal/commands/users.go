package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planhub/planhub-cli/internal/api"
	"github.com/planhub/planhub-cli/internal/auth"
)

var (
	usersPage int
	usersSize int

	userCreateName string
	userCreateRole string

	userUpdateName   string
	userUpdateEmail  string
	userUpdateRole   string
	userUpdateActive string
)

var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts (admin)",
	RunE:  runUsersList,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersCreate,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

func init() {
	UsersCmd.Flags().IntVar(&usersPage, "page", 0, "Page number (0-indexed)")
	UsersCmd.Flags().IntVar(&usersSize, "size", 10, "Page size")

	usersCreateCmd.Flags().StringVar(&userCreateName, "name", "", "Display name")
	usersCreateCmd.Flags().StringVar(&userCreateRole, "role", auth.RoleDeveloper, "Role (ADMIN, PROJECT_MANAGER, DEVELOPER)")

	usersUpdateCmd.Flags().StringVar(&userUpdateName, "name", "", "New display name")
	usersUpdateCmd.Flags().StringVar(&userUpdateEmail, "email", "", "New email")
	usersUpdateCmd.Flags().StringVar(&userUpdateRole, "role", "", "New role")
	usersUpdateCmd.Flags().StringVar(&userUpdateActive, "active", "", "Activate or deactivate (true/false)")

	UsersCmd.AddCommand(usersCreateCmd)
	UsersCmd.AddCommand(usersUpdateCmd)
	UsersCmd.AddCommand(usersDeleteCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("USERS", auth.ActionView) {
		return fmt.Errorf("your role may not view user accounts")
	}

	page, err := client.Accounts(cmd.Context(), usersPage, usersSize)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		fmt.Println("👤 No users")
		return nil
	}

	fmt.Println("👤 Users:")
	for _, u := range page.Content {
		state := "active"
		if !u.Active {
			state = "inactive"
		}
		fmt.Printf("  %d. %s <%s> · %s · %s\n", u.ID, u.Name, u.Email, u.Role, state)
	}
	fmt.Printf("\nPage %d/%d · %d users total\n", page.Page+1, page.TotalPages, page.TotalElements)
	return nil
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("USERS", auth.ActionCreate) {
		return fmt.Errorf("your role may not create user accounts")
	}

	password, err := promptPassword("Initial password: ")
	if err != nil {
		return err
	}

	u, err := client.CreateAccount(cmd.Context(), api.CreateAccountRequest{
		Name:     userCreateName,
		Email:    args[0],
		Password: password,
		Role:     userCreateRole,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created user %d: %s (%s)\n", u.ID, u.Email, u.Role)
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("USERS", auth.ActionUpdate) {
		return fmt.Errorf("your role may not update user accounts")
	}

	req := api.UpdateAccountRequest{
		Name:  userUpdateName,
		Email: userUpdateEmail,
		Role:  userUpdateRole,
	}
	switch userUpdateActive {
	case "":
	case "true", "false":
		active := userUpdateActive == "true"
		req.Active = &active
	default:
		return fmt.Errorf("invalid --active value %q (want true or false)", userUpdateActive)
	}
	if req.Name == "" && req.Email == "" && req.Role == "" && req.Active == nil {
		return fmt.Errorf("nothing to update: pass at least one of --name, --email, --role, --active")
	}

	u, err := client.UpdateAccount(cmd.Context(), userID, req)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Updated user %d: %s (%s)\n", u.ID, u.Email, u.Role)
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("USERS", auth.ActionDelete) {
		return fmt.Errorf("your role may not delete user accounts")
	}
	if err := client.DeleteAccount(cmd.Context(), userID); err != nil {
		return err
	}
	fmt.Printf("✅ Deleted user %d\n", userID)
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planhub/planhub-cli/internal/api"
	"github.com/planhub/planhub-cli/internal/auth"
)

var (
	teamProject  int64
	teamPage     int
	teamSize     int
	teamWorkload bool

	teamAddSpecialization int64
)

var TeamCmd = &cobra.Command{
	Use:   "team",
	Short: "List and manage a project's team",
	RunE:  runTeamList,
}

var teamAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Add a user to the project team",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamAdd,
}

var teamRemoveCmd = &cobra.Command{
	Use:   "remove <member-id>",
	Short: "Remove a member from the project team",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamRemove,
}

var teamCandidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List users who can be added to the project",
	Args:  cobra.NoArgs,
	RunE:  runTeamCandidates,
}

func init() {
	TeamCmd.PersistentFlags().Int64Var(&teamProject, "project", 0, "Project id (defaults to the configured default project)")
	TeamCmd.PersistentFlags().IntVar(&teamPage, "page", 0, "Page number (0-indexed)")
	TeamCmd.PersistentFlags().IntVar(&teamSize, "size", 10, "Page size")
	TeamCmd.Flags().BoolVar(&teamWorkload, "workload", false, "Include open-task counts")

	teamAddCmd.Flags().Int64Var(&teamAddSpecialization, "specialization", 0, "Specialization id")

	TeamCmd.AddCommand(teamAddCmd)
	TeamCmd.AddCommand(teamRemoveCmd)
	TeamCmd.AddCommand(teamCandidatesCmd)
}

func runTeamList(cmd *cobra.Command, args []string) error {
	client, mgr, cfg, err := newClient()
	if err != nil {
		return err
	}
	projectID, err := projectIDOrDefault(teamProject, cfg)
	if err != nil {
		return err
	}

	if teamWorkload {
		page, err := client.MembersWithWorkload(cmd.Context(), projectID, teamPage, teamSize)
		if err != nil {
			return err
		}
		if len(page.Content) == 0 {
			fmt.Println("👥 No team members")
			return nil
		}
		fmt.Println("👥 Team (with workload):")
		for _, m := range page.Content {
			fmt.Printf("  %d. %s <%s> · %s · %d open tasks\n",
				m.ID, m.Name, m.Email, m.Specialization, m.Workload)
		}
		fmt.Printf("\nPage %d/%d · %d members total\n", page.Page+1, page.TotalPages, page.TotalElements)
		return nil
	}

	// Developers see their own team view; managers see the full member list.
	var page api.Page[api.TeamMember]
	if user := mgr.CurrentUser(); user != nil && user.Role == auth.RoleDeveloper {
		page, err = client.MyTeam(cmd.Context(), projectID, teamPage, teamSize)
	} else {
		page, err = client.ProjectMembers(cmd.Context(), projectID, teamPage, teamSize)
	}
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		fmt.Println("👥 No team members")
		return nil
	}
	fmt.Println("👥 Team:")
	for _, m := range page.Content {
		fmt.Printf("  %d. %s <%s> · %s\n", m.ID, m.Name, m.Email, m.Specialization)
	}
	fmt.Printf("\nPage %d/%d · %d members total\n", page.Page+1, page.TotalPages, page.TotalElements)
	return nil
}

func runTeamAdd(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, mgr, cfg, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("TEAM", auth.ActionCreate) {
		return fmt.Errorf("your role may not manage team members")
	}
	projectID, err := projectIDOrDefault(teamProject, cfg)
	if err != nil {
		return err
	}

	err = client.AddTeamMember(cmd.Context(), projectID, api.AddMemberRequest{
		UserID:           userID,
		SpecializationID: teamAddSpecialization,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✅ User %d added to project %d\n", userID, projectID)
	return nil
}

func runTeamRemove(cmd *cobra.Command, args []string) error {
	memberID, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("TEAM", auth.ActionDelete) {
		return fmt.Errorf("your role may not manage team members")
	}
	if err := client.RemoveTeamMember(cmd.Context(), memberID); err != nil {
		return err
	}
	fmt.Printf("✅ Member %d removed\n", memberID)
	return nil
}

func runTeamCandidates(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	projectID, err := projectIDOrDefault(teamProject, cfg)
	if err != nil {
		return err
	}

	page, err := client.SelectableMembers(cmd.Context(), projectID, teamPage, teamSize)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		fmt.Println("👥 Nobody left to add")
		return nil
	}

	// Specializations are a best-effort decoration; the candidate list is
	// still useful without them.
	specs := map[int64]string{}
	if list, err := client.Specializations(cmd.Context()); err == nil {
		for _, s := range list {
			specs[s.ID] = s.Name
		}
	}

	fmt.Println("👥 Candidates:")
	for _, m := range page.Content {
		fmt.Printf("  %d. %s <%s> · %s\n", m.ID, m.Name, m.Email, m.Role)
	}
	if len(specs) > 0 {
		fmt.Println()
		fmt.Println("Specializations:")
		for id, name := range specs {
			fmt.Printf("  %d. %s\n", id, name)
		}
	}
	return nil
}

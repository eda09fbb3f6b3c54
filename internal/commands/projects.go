package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/planhub/planhub-cli/internal/api"
	"github.com/planhub/planhub-cli/internal/auth"
	"github.com/planhub/planhub-cli/internal/config"
)

var (
	projectsAll    bool
	projectsPage   int
	projectsSize   int
	projectsName   string
	projectsStatus string

	projectCreateDesc  string
	projectCreateStart string
	projectCreateEnd   string

	projectUpdateName   string
	projectUpdateDesc   string
	projectUpdateStart  string
	projectUpdateEnd    string
	projectUpdateStatus string
)

var ProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and manage projects",
	Long: `List your projects, or manage them with the subcommands.

Without flags this shows the projects you are a member of; --all shows
every project (project-manager view).`,
	RunE: runProjectsList,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsCreate,
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's details and team",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsShow,
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Update a project's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsUpdate,
}

var projectsArchiveCmd = &cobra.Command{
	Use:   "archive <project-id>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsArchive,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

var projectsUseCmd = &cobra.Command{
	Use:   "use [project-id]",
	Short: "Set the default project for tasks and board",
	Long: `Set the default project for tasks and board.

Without an id this lists the projects available to you.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjectsUse,
}

func init() {
	ProjectsCmd.Flags().BoolVar(&projectsAll, "all", false, "Show all projects, not just yours")
	ProjectsCmd.Flags().IntVar(&projectsPage, "page", 0, "Page number (0-indexed)")
	ProjectsCmd.Flags().IntVar(&projectsSize, "size", 10, "Page size")
	ProjectsCmd.Flags().StringVar(&projectsName, "name", "", "Filter by name")
	ProjectsCmd.Flags().StringVar(&projectsStatus, "status", "", "Filter by status")

	projectsCreateCmd.Flags().StringVar(&projectCreateDesc, "description", "", "Project description")
	projectsCreateCmd.Flags().StringVar(&projectCreateStart, "start", "", "Start date (YYYY-MM-DD)")
	projectsCreateCmd.Flags().StringVar(&projectCreateEnd, "end", "", "End date (YYYY-MM-DD)")

	projectsUpdateCmd.Flags().StringVar(&projectUpdateName, "name", "", "New name")
	projectsUpdateCmd.Flags().StringVar(&projectUpdateDesc, "description", "", "New description")
	projectsUpdateCmd.Flags().StringVar(&projectUpdateStart, "start", "", "New start date (YYYY-MM-DD)")
	projectsUpdateCmd.Flags().StringVar(&projectUpdateEnd, "end", "", "New end date (YYYY-MM-DD)")
	projectsUpdateCmd.Flags().StringVar(&projectUpdateStatus, "status", "", "New status")

	ProjectsCmd.AddCommand(projectsCreateCmd)
	ProjectsCmd.AddCommand(projectsShowCmd)
	ProjectsCmd.AddCommand(projectsUpdateCmd)
	ProjectsCmd.AddCommand(projectsArchiveCmd)
	ProjectsCmd.AddCommand(projectsDeleteCmd)
	ProjectsCmd.AddCommand(projectsUseCmd)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}

	q := api.ProjectQuery{
		Name:   projectsName,
		Status: projectsStatus,
		Page:   projectsPage,
		Size:   projectsSize,
	}

	var page api.Page[api.Project]
	if projectsAll {
		page, err = client.Projects(cmd.Context(), q)
	} else {
		page, err = client.MyProjects(cmd.Context(), q)
	}
	if err != nil {
		return err
	}

	if len(page.Content) == 0 {
		fmt.Println("📋 No projects found")
		return nil
	}

	fmt.Println("📋 Projects:")
	fmt.Println()
	for _, p := range page.Content {
		marker := " "
		if p.ID == cfg.DefaultProject {
			marker = "📌"
		}
		fmt.Printf("%s %d. %s [%s]\n", marker, p.ID, p.Name, p.Status)
		if p.Description != "" {
			fmt.Printf("     %s\n", p.Description)
		}
		fmt.Printf("     %d members · %d tasks · %s → %s\n",
			p.TeamMembersCount, p.TasksCount, p.StartDate, orDash(p.EndDate))
	}
	fmt.Println()
	fmt.Printf("Page %d/%d · %d projects total\n", page.Page+1, page.TotalPages, page.TotalElements)
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("PROJECTS", auth.ActionCreate) {
		return fmt.Errorf("your role may not create projects")
	}

	p, err := client.CreateProject(cmd.Context(), api.CreateProjectRequest{
		Name:        args[0],
		Description: projectCreateDesc,
		StartDate:   projectCreateStart,
		EndDate:     projectCreateEnd,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created project %d: %s\n", p.ID, p.Name)
	return nil
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	p, err := client.ProjectDetail(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("📋 %s [%s]\n", p.Name, p.Status)
	if p.Description != "" {
		fmt.Printf("   %s\n", p.Description)
	}
	fmt.Printf("   %s → %s\n", p.StartDate, orDash(p.EndDate))
	fmt.Println()
	if len(p.TeamMembers) == 0 {
		fmt.Println("👥 No team members")
		return nil
	}
	fmt.Println("👥 Team:")
	for _, m := range p.TeamMembers {
		fmt.Printf("   %d. %s (%s) · %s\n", m.ID, m.Name, m.Email, orDash(m.Specialization))
	}
	return nil
}

func runProjectsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("PROJECTS", auth.ActionUpdate) {
		return fmt.Errorf("your role may not update projects")
	}

	req := api.UpdateProjectRequest{
		Name:        projectUpdateName,
		Description: projectUpdateDesc,
		StartDate:   projectUpdateStart,
		EndDate:     projectUpdateEnd,
		Status:      projectUpdateStatus,
	}
	if req == (api.UpdateProjectRequest{}) {
		return fmt.Errorf("nothing to update: pass at least one of --name, --description, --start, --end, --status")
	}

	p, err := client.UpdateProject(cmd.Context(), id, req)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Updated project %d: %s\n", p.ID, p.Name)
	return nil
}

func runProjectsArchive(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	if err := client.ArchiveProject(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("✅ Archived project %d\n", id)
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, mgr, _, err := newClient()
	if err != nil {
		return err
	}
	if !mgr.HasPermission("PROJECTS", auth.ActionDelete) {
		return fmt.Errorf("your role may not delete projects")
	}
	if err := client.DeleteProject(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("✅ Deleted project %d\n", id)
	return nil
}

func runProjectsUse(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		client, _, cfg, err := newClient()
		if err != nil {
			return err
		}
		options, err := client.ProjectsDropdown(cmd.Context(), "")
		if err != nil {
			return err
		}
		if len(options) == 0 {
			fmt.Println("📋 No projects available")
			return nil
		}
		fmt.Println("📋 Available projects:")
		for _, o := range options {
			marker := " "
			if o.ID == cfg.DefaultProject {
				marker = "📌"
			}
			fmt.Printf("%s %d. %s\n", marker, o.ID, o.Name)
		}
		fmt.Println()
		fmt.Println("Run 'planhub projects use <id>' to pick one")
		return nil
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.DefaultProject = id
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("📌 Default project set to %d\n", id)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

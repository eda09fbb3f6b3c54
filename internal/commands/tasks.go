package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planhub/planhub-cli/internal/api"
)

var (
	tasksProject int64
	tasksPage    int
	tasksSize    int
	tasksMine    bool
	tasksMember  int64

	taskCreateDesc     string
	taskCreateStart    string
	taskCreateDue      string
	taskCreatePriority string
	taskCreateAssignee int64
)

var TasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage tasks",
	Long: `List a project's tasks, or manage them with the subcommands.

--mine shows only your own tasks in kanban order; the default view pages
through every task of the project.`,
	RunE: runTasksList,
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task in a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksCreate,
}

var tasksMoveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Move a task to another column (todo, in_progress, completed)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTasksMove,
}

var tasksUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show your tasks nearing their due date",
	Args:  cobra.NoArgs,
	RunE:  runTasksUpcoming,
}

var tasksHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent task activity",
	Args:  cobra.NoArgs,
	RunE:  runTasksHistory,
}

func init() {
	TasksCmd.PersistentFlags().Int64Var(&tasksProject, "project", 0, "Project id (defaults to the configured default project)")
	TasksCmd.Flags().IntVar(&tasksPage, "page", 0, "Page number (0-indexed)")
	TasksCmd.Flags().IntVar(&tasksSize, "size", 10, "Page size")
	TasksCmd.Flags().BoolVar(&tasksMine, "mine", false, "Show only your tasks, grouped by column")
	TasksCmd.Flags().Int64Var(&tasksMember, "member", 0, "Show one team member's tasks, grouped by column")

	tasksCreateCmd.Flags().StringVar(&taskCreateDesc, "description", "", "Task description")
	tasksCreateCmd.Flags().StringVar(&taskCreateStart, "start", "", "Start date (YYYY-MM-DD)")
	tasksCreateCmd.Flags().StringVar(&taskCreateDue, "due", "", "Due date (YYYY-MM-DD)")
	tasksCreateCmd.Flags().StringVar(&taskCreatePriority, "priority", "medium", "Priority (low, medium, high)")
	tasksCreateCmd.Flags().Int64Var(&taskCreateAssignee, "assignee", 0, "Assignee user id")

	TasksCmd.AddCommand(tasksCreateCmd)
	TasksCmd.AddCommand(tasksMoveCmd)
	TasksCmd.AddCommand(tasksUpcomingCmd)
	TasksCmd.AddCommand(tasksHistoryCmd)
}

func runTasksList(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	projectID, err := projectIDOrDefault(tasksProject, cfg)
	if err != nil {
		return err
	}

	if tasksMine || tasksMember > 0 {
		var tasks []api.Task
		if tasksMember > 0 {
			tasks, err = client.MemberTasks(cmd.Context(), projectID, tasksMember)
		} else {
			tasks, err = client.MyTasks(cmd.Context(), projectID)
		}
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("📋 No tasks assigned in this project")
			return nil
		}
		for _, status := range api.Statuses() {
			fmt.Printf("%s\n", status)
			for _, t := range tasks {
				if t.Status != status {
					continue
				}
				fmt.Printf("  %d. %s [%s] due %s\n", t.ID, t.Title, t.Priority, orDash(t.DueDate))
			}
			fmt.Println()
		}
		return nil
	}

	page, err := client.AllProjectTasks(cmd.Context(), projectID, tasksPage, tasksSize)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		fmt.Println("📋 No tasks in this project")
		return nil
	}

	fmt.Println("📋 Tasks:")
	fmt.Println()
	for _, t := range page.Content {
		assignee := "unassigned"
		if t.AssignedTo != nil {
			assignee = *t.AssignedTo
		}
		fmt.Printf("%d. %s [%s/%s]\n", t.ID, t.Title, t.Status, t.Priority)
		fmt.Printf("   %s · %s → %s\n", assignee, t.StartDate, orDash(t.DueDate))
	}
	fmt.Println()
	fmt.Printf("Page %d/%d · %d tasks total\n", page.Page+1, page.TotalPages, page.TotalElements)
	return nil
}

func runTasksCreate(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	projectID, err := projectIDOrDefault(tasksProject, cfg)
	if err != nil {
		return err
	}
	priority, err := api.ParsePriority(taskCreatePriority)
	if err != nil {
		return err
	}

	t, err := client.CreateTask(cmd.Context(), projectID, api.CreateTaskRequest{
		Title:       args[0],
		Description: taskCreateDesc,
		StartDate:   taskCreateStart,
		DueDate:     taskCreateDue,
		Priority:    priority,
		AssigneeID:  taskCreateAssignee,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created task %d: %s\n", t.ID, t.Title)
	return nil
}

func runTasksMove(cmd *cobra.Command, args []string) error {
	taskID, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := api.ParseStatus(args[1])
	if err != nil {
		return err
	}

	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}
	projectID, err := projectIDOrDefault(tasksProject, cfg)
	if err != nil {
		return err
	}

	if err := client.UpdateTaskStatus(cmd.Context(), taskID, projectID, status); err != nil {
		return err
	}
	fmt.Printf("✅ Task %d moved to %s\n", taskID, status)
	return nil
}

func runTasksUpcoming(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	tasks, err := client.UpcomingDueTasks(cmd.Context())
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("🎉 Nothing due soon")
		return nil
	}
	fmt.Println("⏰ Upcoming due tasks:")
	for _, t := range tasks {
		fmt.Printf("  %d. %s [%s] due %s\n", t.ID, t.Title, t.Priority, t.DueDate)
	}
	return nil
}

func runTasksHistory(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}
	items, err := client.TaskHistory(cmd.Context())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("📋 No recent activity")
		return nil
	}
	fmt.Println("🕘 Recent activity:")
	for _, it := range items {
		fmt.Printf("  %s  %s\n", it.ChangedAt, it.Message)
	}
	return nil
}

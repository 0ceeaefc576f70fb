package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChrisZHHG/taskdeck/internal/model"
	"github.com/ChrisZHHG/taskdeck/internal/remind"
	"github.com/ChrisZHHG/taskdeck/internal/store"
	"github.com/ChrisZHHG/taskdeck/internal/tui"
)

var (
	flagJSON   bool
	flagConfig string
	flagData   string

	createDescription string
	createCategory    string
	createPriority    int
	createDuration    string
	createDue         string
	createPlace       string
	createAssignee    string
	createCollabs     []string
	createTags        []string

	listStatuses   []string
	listCategory   string
	listPriorities []int
	listTags       []string
	listAll        bool

	updateTitle       string
	updateDescription string
	updateCategory    string
	updatePriority    int
	updateDuration    string
	updateDue         string
	updatePlace       string
	updateAssignee    string
	updateCollabs     []string
	updateTags        []string

	purgeExpired bool
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		fields := store.CreateFields{
			Title:         strings.Join(args, " "),
			Description:   createDescription,
			Category:      createCategory,
			Priority:      model.Priority(createPriority),
			Place:         createPlace,
			Assignee:      createAssignee,
			Collaborators: createCollabs,
			Tags:          createTags,
		}
		if createDuration != "" {
			d, err := parseDurationClass(createDuration)
			if err != nil {
				return err
			}
			fields.Duration = d
		}
		if createDue != "" {
			due, err := parseDue(createDue)
			if err != nil {
				return err
			}
			fields.Due = &due
		}

		t, err := env.store.Create(fields)
		if err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("Created %s: %s (%s, due %s)\n",
			t.ID, t.Title, t.Category, t.DueAt.Format(dueDateLayout))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in canonical order",
	Long: `List tasks ordered by status (active first), then priority, then due date.
Deleted tasks are hidden unless asked for with --status deleted or --all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		filter, err := buildListFilter()
		if err != nil {
			return err
		}

		tasks := env.store.List(filter)
		now := time.Now().UTC()

		if flagJSON {
			out := make([]TaskListJSON, 0, len(tasks))
			for _, t := range tasks {
				out = append(out, taskListJSON(t, now))
			}
			printJSON(out)
			return nil
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks")
			return nil
		}
		for _, t := range tasks {
			fmt.Println(taskLine(t, now))
		}
		return nil
	},
}

// buildListFilter translates the list flags into a store filter.
func buildListFilter() (store.Filter, error) {
	var f store.Filter
	if listAll {
		f.Statuses = []model.Status{
			model.StatusPending, model.StatusPostponed,
			model.StatusCompleted, model.StatusDeleted,
		}
	}
	for _, s := range listStatuses {
		status, err := parseStatus(s)
		if err != nil {
			return store.Filter{}, err
		}
		f.Statuses = append(f.Statuses, status)
	}
	f.Category = listCategory
	for _, p := range listPriorities {
		f.Priorities = append(f.Priorities, model.Priority(p))
	}
	f.Tags = listTags
	return f, nil
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		t, err := env.store.Get(args[0])
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if flagJSON {
			printJSON(taskShowJSON(*t, now))
			return nil
		}
		fmt.Print(taskDetail(*t, now))
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit fields of an active task",
	Long: `Edit fields of a pending or postponed task. Only the flags given change;
everything else is left as it was. Changing the duration class without an
explicit due date recomputes the due date from the task's creation time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		flags := cmd.Flags()
		var fields store.UpdateFields
		if flags.Changed("title") {
			fields.Title = &updateTitle
		}
		if flags.Changed("description") {
			fields.Description = &updateDescription
		}
		if flags.Changed("category") {
			fields.Category = &updateCategory
		}
		if flags.Changed("priority") {
			p := model.Priority(updatePriority)
			fields.Priority = &p
		}
		if flags.Changed("duration") {
			d, err := parseDurationClass(updateDuration)
			if err != nil {
				return err
			}
			fields.Duration = &d
		}
		if flags.Changed("due") {
			due, err := parseDue(updateDue)
			if err != nil {
				return err
			}
			fields.Due = &due
		}
		if flags.Changed("place") {
			fields.Place = &updatePlace
		}
		if flags.Changed("assignee") {
			fields.Assignee = &updateAssignee
		}
		if flags.Changed("collab") {
			fields.Collaborators = &updateCollabs
		}
		if flags.Changed("tag") {
			fields.Tags = &updateTags
		}

		t, err := env.store.Update(args[0], fields)
		if err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("Updated %s: %s\n", t.ID, t.Title)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a pending task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		t, err := env.store.Complete(args[0])
		if err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("Completed %s: %s\n", t.ID, t.Title)
		return nil
	},
}

var postponeCmd = &cobra.Command{
	Use:   "postpone <id> <due>",
	Short: "Push a task's due date later",
	Long: `Push a task's due date to a later date (YYYY-MM-DD or RFC3339). The
replaced due date is kept in the task's history. A postponed task goes back
to pending with 'taskdeck restore'.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		due, err := parseDue(args[1])
		if err != nil {
			return err
		}
		t, err := env.store.Postpone(args[0], due)
		if err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("Postponed %s to %s\n", t.ID, t.DueAt.Format(dueDateLayout))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Bring a postponed task back to pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		t, err := env.store.Restore(args[0])
		if err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("Restored %s: %s\n", t.ID, t.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Soft-delete a task",
	Long: `Mark a task deleted. Deleted tasks are hidden from listings but kept on
file until purged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.store.Delete(args[0]); err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge [id]",
	Short: "Permanently remove deleted tasks",
	Long: `Permanently remove a deleted task, or with --expired every task whose
deletion predates the backup retention window.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case purgeExpired && len(args) > 0:
			return fmt.Errorf("purge takes a task id or --expired, not both")
		case !purgeExpired && len(args) == 0:
			return fmt.Errorf("purge requires a task id or --expired")
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if purgeExpired {
			n := env.store.PurgeExpired(env.cfg.Retention())
			if err := env.save(); err != nil {
				return err
			}
			fmt.Printf("Purged %d expired task(s)\n", n)
			return nil
		}

		if err := env.store.Purge(args[0]); err != nil {
			return err
		}
		if err := env.save(); err != nil {
			return err
		}

		fmt.Printf("Purged %s\n", args[0])
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List known categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		cats := env.store.Categories().All()
		if flagJSON {
			out := make([]CategoryJSON, 0, len(cats))
			for _, c := range cats {
				out = append(out, CategoryJSON{Name: c.Name, Predefined: c.Predefined})
			}
			printJSON(out)
			return nil
		}

		for _, c := range cats {
			if c.Predefined {
				fmt.Printf("%-20s (predefined)\n", c.Name)
			} else {
				fmt.Println(c.Name)
			}
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a deck status overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		report := env.store.Report(env.cfg.Reminders.DueSoonDays)
		now := time.Now().UTC()
		if flagJSON {
			printJSON(reportJSON(report, now))
			return nil
		}
		fmt.Print(reportText(report, now))
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a timestamped backup now",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		handle, err := env.files.Backup()
		if err != nil {
			return err
		}
		if handle == nil {
			fmt.Println("Nothing to back up yet")
			return nil
		}
		fmt.Printf("Backed up to %s\n", handle.TasksPath)
		return nil
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Watch pending tasks and print due-soon and overdue alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		sched := remind.New(env.store,
			remind.WithInterval(env.cfg.Reminders.Interval.Duration),
			remind.WithDueSoonDays(env.cfg.Reminders.DueSoonDays),
			remind.WithLogger(env.log))

		go func() {
			for ev := range sched.Events() {
				fmt.Println(reminderLine(ev))
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched.Scan()
		sched.Run(ctx)
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// No logger on the scheduler here: stderr output would tear the
		// alt screen.
		sched := remind.New(env.store,
			remind.WithInterval(env.cfg.Reminders.Interval.Duration),
			remind.WithDueSoonDays(env.cfg.Reminders.DueSoonDays))
		sched.Scan()
		go sched.Run(ctx)

		return tui.Run(tui.Deps{
			Store:  env.store,
			Save:   env.save,
			Events: sched.Events(),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/taskdeck/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "data directory (default ~/.taskdeck)")

	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "longer description")
	createCmd.Flags().StringVarP(&createCategory, "category", "c", "", "category, predefined or custom")
	createCmd.Flags().IntVarP(&createPriority, "priority", "p", 0, "Eisenhower rank 1-4 (default 4)")
	createCmd.Flags().StringVar(&createDuration, "duration", "", "duration class: short, mid, or long term (default short)")
	createCmd.Flags().StringVar(&createDue, "due", "", "explicit due date (YYYY-MM-DD or RFC3339)")
	createCmd.Flags().StringVar(&createPlace, "place", "", "where the task happens")
	createCmd.Flags().StringVar(&createAssignee, "assignee", "", "who owns the task")
	createCmd.Flags().StringSliceVar(&createCollabs, "collab", nil, "collaborator (repeatable)")
	createCmd.Flags().StringSliceVar(&createTags, "tag", nil, "tag (repeatable)")

	listCmd.Flags().StringSliceVar(&listStatuses, "status", nil, "filter by status (repeatable)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "filter by category")
	listCmd.Flags().IntSliceVarP(&listPriorities, "priority", "p", nil, "filter by priority rank (repeatable)")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "require tag (repeatable)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include deleted tasks")
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "output JSON")

	showCmd.Flags().BoolVar(&flagJSON, "json", false, "output JSON")

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "new category")
	updateCmd.Flags().IntVarP(&updatePriority, "priority", "p", 0, "new priority rank 1-4")
	updateCmd.Flags().StringVar(&updateDuration, "duration", "", "new duration class")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD or RFC3339)")
	updateCmd.Flags().StringVar(&updatePlace, "place", "", "new place")
	updateCmd.Flags().StringVar(&updateAssignee, "assignee", "", "new assignee")
	updateCmd.Flags().StringSliceVar(&updateCollabs, "collab", nil, "replace collaborators (repeatable)")
	updateCmd.Flags().StringSliceVar(&updateTags, "tag", nil, "replace tags (repeatable)")

	purgeCmd.Flags().BoolVar(&purgeExpired, "expired", false, "purge every task deleted before the retention window")

	categoriesCmd.Flags().BoolVar(&flagJSON, "json", false, "output JSON")
	statusCmd.Flags().BoolVar(&flagJSON, "json", false, "output JSON")
}

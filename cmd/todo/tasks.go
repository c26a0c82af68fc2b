package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/shell"
	"github.com/fastygo/todo/internal/validate"
)

func (c *cli) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and change your tasks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd, args); err != nil {
				return err
			}
			if err := c.requireSession(); err != nil {
				return err
			}
			return c.app.Tasks.List(cmd.Context())
		},
	}
	cmd.AddCommand(
		c.taskListCmd(),
		c.taskAddCmd(),
		c.taskEditCmd(),
		c.taskRemoveCmd(),
		c.taskToggleCmd(),
	)
	return cmd
}

func (c *cli) taskListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" && status != "pending" && status != "completed" {
				return domain.NewError(domain.ErrCodeValidation, "Status must be 'pending' or 'completed'")
			}
			shell.RenderTasks(cmd.OutOrStdout(), shell.FilterTasks(c.app.Tasks.Items(), status))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (pending or completed)")
	return cmd
}

func (c *cli) taskAddCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			if errs := validate.Task(title, description); !errs.Valid() {
				return validationError(errs, validate.FieldTitle, validate.FieldDescription)
			}
			created, err := c.app.Tasks.Create(cmd.Context(), title, description)
			if err != nil {
				return err
			}
			c.app.Notifier.Success("Task created successfully!")
			fmt.Fprintf(cmd.OutOrStdout(), "Task '%s' added with ID %d\n", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	return cmd
}

func (c *cli) taskEditCmd() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or description of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, ok := c.app.Tasks.Find(id)
			if !ok {
				return domain.ErrTaskNotFoundLocal
			}
			if !cmd.Flags().Changed("title") {
				title = current.Title
			}
			if !cmd.Flags().Changed("description") {
				description = current.Description
			}
			if errs := validate.Task(title, description); !errs.Valid() {
				return validationError(errs, validate.FieldTitle, validate.FieldDescription)
			}
			if _, err := c.app.Tasks.Update(cmd.Context(), id, title, description); err != nil {
				return err
			}
			c.app.Notifier.Success("Task updated successfully!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func (c *cli) taskRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Task deleted successfully")
			return nil
		},
	}
}

func (c *cli) taskToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed or pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := c.app.Tasks.ToggleCompletion(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", updated.ID, updated.Status())
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewError(domain.ErrCodeValidation, fmt.Sprintf("invalid task id %q", raw))
	}
	return id, nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

func newTaskCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks and subtasks",
	}
	cmd.AddCommand(
		newTaskListCmd(e),
		newTaskUngroupedCmd(e),
		newTaskGetCmd(e),
		newTaskCreateCmd(e),
		newTaskUpdateCmd(e),
		newTaskDeleteCmd(e),
		newTaskStateCmd(e, "complete", "Complete a task and its subtasks"),
		newTaskStateCmd(e, "reopen", "Reopen a task, and its parent if completed"),
		newTaskAssignCmd(e),
		newTaskMoveCmd(e),
		newSubtaskCreateCmd(e),
		newSubtaskListCmd(e),
	)
	return cmd
}

func newTaskListCmd(e *env) *cobra.Command {
	var (
		page      types.Page
		completed bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List top-level tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			res, err := app.Tasks.List(cmd.Context(), page, completed)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return taskTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	cmd.Flags().BoolVar(&completed, "completed", false, "list completed tasks instead of open ones")
	return cmd
}

func newTaskUngroupedCmd(e *env) *cobra.Command {
	var page types.Page
	cmd := &cobra.Command{
		Use:   "ungrouped",
		Short: "List tasks that belong to no project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			res, err := app.Tasks.ListUngrouped(cmd.Context(), page)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return taskTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newTaskGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("task %d: %w", id, types.ErrNotFound)
			}
			return e.out.print(t, single(*t, taskTable))
		},
	}
}

func newTaskCreateCmd(e *env) *cobra.Command {
	var (
		req       types.CreateTaskRequest
		projectID int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task, optionally inside a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("project") {
				req.ProjectID = types.Ref(projectID)
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			t, err := app.Tasks.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return e.out.print(t, single(t, taskTable))
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "task name")
	cmd.Flags().StringVar(&req.Description, "description", "", "task description")
	cmd.Flags().Int64Var(&projectID, "project", 0, "project ID (default: ungrouped)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskUpdateCmd(e *env) *cobra.Command {
	var req types.UpdateTaskRequest
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Rename a task and rewrite its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			t, err := app.Tasks.Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return e.out.print(t, single(t, taskTable))
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "task name")
	cmd.Flags().StringVar(&req.Description, "description", "", "task description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			ok, err := app.Tasks.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.done(ok, "task %d deleted", id)
		},
	}
}

func newTaskStateCmd(e *env, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:     verb + " <task-id>",
		Short:   short,
		Aliases: stateAliases(verb),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			op := app.Tasks.Complete
			if verb == "reopen" {
				op = app.Tasks.Reopen
			}
			ok, err := op(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.done(ok, "task %d %s", id, pastTense(verb))
		},
	}
}

func stateAliases(verb string) []string {
	if verb == "reopen" {
		return []string{"reset"}
	}
	return nil
}

func newTaskAssignCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <project-id>",
		Short: "Group a task under a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			projectID, err := parseID(args[1])
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			ok, err := app.Tasks.Assign(cmd.Context(), taskID, projectID)
			if err != nil {
				return err
			}
			return e.done(ok, "task %d assigned to project %d", taskID, projectID)
		},
	}
}

func newTaskMoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> [project-id]",
		Short: "Move a task to a project, or ungroup it when no project is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var projectID *int64
			if len(args) == 2 {
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				projectID = &id
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			ok, err := app.Tasks.Move(cmd.Context(), taskID, projectID)
			if err != nil {
				return err
			}
			if projectID == nil {
				return e.done(ok, "task %d ungrouped", taskID)
			}
			return e.done(ok, "task %d moved to project %d", taskID, *projectID)
		},
	}
}

func newSubtaskCreateCmd(e *env) *cobra.Command {
	var req types.CreateSubtaskRequest
	cmd := &cobra.Command{
		Use:   "subtask <parent-task-id>",
		Short: "Create a subtask under a top-level task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseID(args[0])
			if err != nil {
				return err
			}
			req.ParentTaskID = parentID
			app, err := e.open()
			if err != nil {
				return err
			}
			t, err := app.Tasks.CreateSubtask(cmd.Context(), req)
			if err != nil {
				return err
			}
			return e.out.print(t, single(t, taskTable))
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "subtask name")
	cmd.Flags().StringVar(&req.Description, "description", "", "subtask description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSubtaskListCmd(e *env) *cobra.Command {
	var page types.Page
	cmd := &cobra.Command{
		Use:   "subtasks <parent-task-id>",
		Short: "List the subtasks of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			res, err := app.Tasks.ListSubtasks(cmd.Context(), parentID, page)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return taskTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	return cmd
}

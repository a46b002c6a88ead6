package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

func newProjectCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectListCmd(e),
		newProjectCountCmd(e),
		newProjectGetCmd(e),
		newProjectCreateCmd(e),
		newProjectUpdateCmd(e),
		newProjectDeleteCmd(e),
		newProjectStateCmd(e, "complete", "Mark a project completed"),
		newProjectStateCmd(e, "reset", "Mark a project not completed"),
		newProjectTasksCmd(e),
	)
	return cmd
}

func newProjectListCmd(e *env) *cobra.Command {
	var page types.Page
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			res, err := app.Projects.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return projectTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newProjectCountCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			n, err := app.Projects.Count(cmd.Context())
			if err != nil {
				return err
			}
			return e.out.print(map[string]int{"count": n}, func() table {
				return table{header: []string{"PROJECTS"}, rows: [][]string{{fmt.Sprint(n)}}}
			})
		},
	}
}

func newProjectGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show one project",
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
			p, err := app.Projects.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("project %d: %w", id, types.ErrNotFound)
			}
			return e.out.print(p, single(*p, projectTable))
		},
	}
}

func newProjectCreateCmd(e *env) *cobra.Command {
	var req types.CreateProjectRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project under a mission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			p, err := app.Projects.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return e.out.print(p, single(p, projectTable))
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "project name")
	cmd.Flags().StringVar(&req.Description, "description", "", "project description")
	cmd.Flags().Int64Var(&req.MissionID, "mission", 0, "owning mission ID")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("mission")
	return cmd
}

func newProjectUpdateCmd(e *env) *cobra.Command {
	var req types.UpdateProjectRequest
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Rename a project and rewrite its description",
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
			p, err := app.Projects.Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return e.out.print(p, single(p, projectTable))
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "project name")
	cmd.Flags().StringVar(&req.Description, "description", "", "project description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project; its tasks become ungrouped",
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
			ok, err := app.Projects.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.done(ok, "project %d deleted", id)
		},
	}
}

func newProjectStateCmd(e *env, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <project-id>",
		Short: short,
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
			op := app.Projects.Complete
			if verb == "reset" {
				op = app.Projects.Reset
			}
			ok, err := op(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.done(ok, "project %d %s", id, pastTense(verb))
		},
	}
}

func newProjectTasksCmd(e *env) *cobra.Command {
	var (
		page  types.Page
		state string
	)
	cmd := &cobra.Command{
		Use:   "tasks <project-id>",
		Short: "List the tasks of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			completed, err := parseState(state)
			if err != nil {
				return err
			}
			app, err := e.open()
			if err != nil {
				return err
			}
			res, err := app.Projects.ListTasks(cmd.Context(), id, page, completed)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return taskTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&state, "state", "any", "task state: any, open, or completed")
	return cmd
}

// parseState maps a --state value to the completed filter.
func parseState(s string) (*bool, error) {
	switch s {
	case "", "any":
		return nil, nil
	case "open":
		v := false
		return &v, nil
	case "completed", "done":
		v := true
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: unknown state %q (want any, open, or completed)", errUsage, s)
	}
}

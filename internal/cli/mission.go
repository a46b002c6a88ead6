package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

func newMissionCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mission",
		Aliases: []string{"missions", "m"},
		Short:   "Manage missions",
	}
	cmd.AddCommand(
		newMissionListCmd(e),
		newMissionGetCmd(e),
		newMissionCreateCmd(e),
		newMissionUpdateCmd(e),
		newMissionDeleteCmd(e),
		newMissionStateCmd(e, "complete", "Mark a mission completed"),
		newMissionStateCmd(e, "reset", "Mark a mission not completed"),
		newMissionProjectsCmd(e),
		newMissionEligibleCmd(e),
		newMissionTasksCmd(e),
		newMissionMoveProjectCmd(e),
	)
	return cmd
}

func newMissionListCmd(e *env) *cobra.Command {
	var page types.Page
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List missions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			res, err := app.Missions.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return missionTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newMissionGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <mission-id>",
		Short: "Show one mission",
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
			m, err := app.Missions.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("mission %d: %w", id, types.ErrNotFound)
			}
			return e.out.print(m, single(*m, missionTable))
		},
	}
}

func newMissionCreateCmd(e *env) *cobra.Command {
	var req types.CreateMissionRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a mission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			m, err := app.Missions.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return e.out.print(m, single(m, missionTable))
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "mission title")
	cmd.Flags().StringVar(&req.Description, "description", "", "mission description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMissionUpdateCmd(e *env) *cobra.Command {
	var req types.UpdateMissionRequest
	cmd := &cobra.Command{
		Use:   "update <mission-id>",
		Short: "Rename a mission and rewrite its description",
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
			m, err := app.Missions.Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return e.out.print(m, single(m, missionTable))
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "mission title")
	cmd.Flags().StringVar(&req.Description, "description", "", "mission description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMissionDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <mission-id>",
		Short: "Delete a mission that owns no projects",
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
			ok, err := app.Missions.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: mission %d was not deleted; it does not exist or still owns projects", errNotPerformed, id)
			}
			return e.out.message("mission %d deleted", id)
		},
	}
}

// newMissionStateCmd builds the complete and reset commands.
func newMissionStateCmd(e *env, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <mission-id>",
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
			op := app.Missions.Complete
			if verb == "reset" {
				op = app.Missions.Reset
			}
			ok, err := op(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.done(ok, "mission %d %s", id, pastTense(verb))
		},
	}
}

func newMissionProjectsCmd(e *env) *cobra.Command {
	var page types.Page
	cmd := &cobra.Command{
		Use:   "projects <mission-id>",
		Short: "List the projects of a mission",
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
			res, err := app.Missions.ListProjects(cmd.Context(), id, page)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return projectTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newMissionEligibleCmd(e *env) *cobra.Command {
	var page types.Page
	cmd := &cobra.Command{
		Use:   "eligible <mission-id>",
		Short: "List projects of other missions that could move into this one",
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
			res, err := app.Missions.ListEligibleProjects(cmd.Context(), id, page)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return eligibleTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newMissionTasksCmd(e *env) *cobra.Command {
	var page types.Page
	cmd := &cobra.Command{
		Use:   "tasks <mission-id>",
		Short: "List the tasks under a mission's projects",
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
			res, err := app.Missions.ListTasks(cmd.Context(), id, page)
			if err != nil {
				return err
			}
			return e.out.print(res, func() table { return taskTable(page, res) })
		},
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newMissionMoveProjectCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "move-project <mission-id> <project-id>",
		Short: "Move a project into a mission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			missionID, err := parseID(args[0])
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
			ok, err := app.Missions.MoveProject(cmd.Context(), missionID, projectID)
			if err != nil {
				return err
			}
			return e.done(ok, "project %d moved to mission %d", projectID, missionID)
		},
	}
}

func pastTense(verb string) string {
	switch verb {
	case "complete":
		return "completed"
	case "reset":
		return "reset"
	case "reopen":
		return "reopened"
	default:
		return verb + "d"
	}
}

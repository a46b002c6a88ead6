package cli

import (
	"github.com/spf13/cobra"
)

func newSchemaCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create any missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.open()
			if err != nil {
				return err
			}
			if err := app.InitSchema(cmd.Context()); err != nil {
				return err
			}
			return e.out.message("schema ready at %s", app.Endpoint())
		},
	})
	return cmd
}

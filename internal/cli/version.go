package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nextlevel/pkg/nextlevel"
)

const modulePath = "github.com/mesh-intelligence/nextlevel"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nextlevel version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "nextlevel v%s\nmodule: %s\n", nextlevel.Version, modulePath)
			return nil
		},
	}
}

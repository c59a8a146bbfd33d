package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cvrpsolve/engine/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cvrpsolve version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.AppName, version.Current)

		return err
	},
}

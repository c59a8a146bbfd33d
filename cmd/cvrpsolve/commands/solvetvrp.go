package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cvrpsolve/engine/ioformat"
	"github.com/cvrpsolve/engine/solution"
	"github.com/cvrpsolve/engine/tvrp"
)

var solveTVRPCmd = &cobra.Command{
	Use:   "solve-tvrp <instance-file>",
	Short: "Solve a TVRP instance (SKILL_SECTION/TECHNICIAN_SECTION) and print the resulting routes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		in, err := ioformat.ParseTVRPInstance(f, nil)
		if err != nil {
			return err
		}

		base, err := affectationSolver()
		if err != nil {
			return err
		}

		agg := tvrp.AggregateSolver{Inner: base}
		raw, err := agg.Solve(cmd.Context(), in)
		if err != nil {
			return err
		}
		sol := solution.New(raw.Routes())

		return ioformat.WriteSolutionWithRunID(cmd.OutOrStdout(), in.Instance, sol, "")
	},
}

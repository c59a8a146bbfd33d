package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cvrpsolve/engine/ioformat"
)

var exportPlotCmd = &cobra.Command{
	Use:   "export-plot <instance-file> <solution-file> <csv-path>",
	Short: "Render a solved route set to a CSV the configured plotting command can consume",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		instanceFile, solutionFile, csvPath := args[0], args[1], args[2]

		inFile, err := os.Open(instanceFile)
		if err != nil {
			return err
		}
		defer inFile.Close()

		in, err := ioformat.ParseInstance(inFile, nil)
		if err != nil {
			return err
		}

		solFile, err := os.Open(solutionFile)
		if err != nil {
			return err
		}
		defer solFile.Close()

		sol, err := ioformat.ReadSolution(solFile)
		if err != nil {
			return err
		}

		return ioformat.ExportPlot(cmd.Context(), csvPath, in, sol, ioformat.PlotOptions{Command: solved.PlotCommand})
	},
}

// Package commands implements the cvrpsolve cobra CLI: a root command
// plus solve, solve-tvrp, export-plot, and version subcommands wiring
// the library packages into the pipeline load -> affectation -> TSP ->
// optional descent -> write, or load -> exact MIP solve -> write when an
// exact formulation is configured.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cvrpsolve/engine/internal/config"
	"github.com/cvrpsolve/engine/internal/logging"
	"github.com/cvrpsolve/engine/pkg/version"
)

var (
	v      = viper.New()
	solved config.Solve
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     version.AppName,
	Short:   "Capacitated vehicle routing solver",
	Version: version.Current,
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.BindFlags(rootCmd, v)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		solved = loaded

		l, err := logging.New(solved.LogLevel)
		if err != nil {
			return err
		}
		logger = l

		return nil
	}

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(solveTVRPCmd)
	rootCmd.AddCommand(exportPlotCmd)
	rootCmd.AddCommand(versionCmd)
}

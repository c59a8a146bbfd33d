package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cvrpsolve/engine/affect"
	"github.com/cvrpsolve/engine/cvrpmip"
	"github.com/cvrpsolve/engine/descent"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/ioformat"
	"github.com/cvrpsolve/engine/solution"
	"github.com/cvrpsolve/engine/twostep"
)

var solveCmd = &cobra.Command{
	Use:   "solve <instance-file>",
	Short: "Solve a CVRP instance and print the resulting routes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		in, err := ioformat.ParseInstance(f, nil)
		if err != nil {
			return err
		}

		sol, runID, err := runPipeline(cmd.Context(), in)
		if err != nil {
			return err
		}

		return ioformat.WriteSolutionWithRunID(cmd.OutOrStdout(), in, sol, runID)
	},
}

// runPipeline implements the load -> affectation -> TSP -> optional
// descent -> optional exact refine chain bound by the current config.
// When an exact formulation is configured the constructive and descent
// stages are skipped entirely: refineExact re-solves in from scratch
// and their result would only be thrown away. The returned runID is
// empty unless an exact refine ran.
func runPipeline(ctx context.Context, in *instance.Instance) (solution.Solution, string, error) {
	if solved.Exact != "" {
		refined, diag, err := refineExact(in)

		return refined, diag.RunID, err
	}

	base, err := affectationSolver()
	if err != nil {
		return solution.Solution{}, "", err
	}

	var solver instance.Solver = base
	if solved.DescentSteps > 0 {
		d, err := descent.New(
			base,
			solved.DescentSteps,
			[]descent.Neighbourhood{descent.OnePointExchange{}},
			descent.WithLogger(logger),
			descent.WithEvaluator(solution.NewEvaluator(solved.SearchPenalty)),
		)
		if err != nil {
			return solution.Solution{}, "", err
		}
		solver = d
	}

	raw, err := solver.Solve(ctx, in)
	if err != nil {
		return solution.Solution{}, "", err
	}

	return solution.New(raw.Routes()), "", nil
}

func affectationSolver() (instance.Solver, error) {
	switch solved.Affectation {
	case "", "sweep":
		return twostep.New(twostep.SweepAffectation), nil
	case "ffd":
		return twostep.New(twostep.PackerAffectation(affect.FFDPacker{})), nil
	case "mip":
		limit := time.Duration(solved.MIPTimeLimit * float64(time.Second))

		return twostep.New(twostep.PackerAffectation(affect.MIPPacker{TimeLimit: limit})), nil
	default:
		return nil, fmt.Errorf("commands: unknown affectation strategy %q", solved.Affectation)
	}
}

// refineExact solves the instance from scratch against the requested
// exact formulation; it never sees the constructive/descent solution,
// so runPipeline skips that work entirely when an exact formulation is
// configured.
func refineExact(in *instance.Instance) (solution.Solution, cvrpmip.Diagnostics, error) {
	opts := cvrpmip.DefaultSolveOptions()
	opts.TimeLimitSeconds = solved.MIPTimeLimit
	opts.MIPGapRelative = solved.MIPGapRelative
	opts.Logger = logger

	switch solved.Exact {
	case "mtz":
		formulation := cvrpmip.NewMTZFormulation(in)
		separators := []cvrpmip.CutSeparator{
			cvrpmip.ConnectivityCutSeparator{Directed: true},
			cvrpmip.RoundedCapacityCutSeparator{Directed: true},
		}

		return cvrpmip.Solve(in, formulation, separators, opts)
	case "twoindex":
		formulation := cvrpmip.NewTwoIndexFormulation(in)
		separators := []cvrpmip.CutSeparator{
			cvrpmip.ConnectivityCutSeparator{Directed: false},
			cvrpmip.RoundedCapacityCutSeparator{Directed: false},
		}

		return cvrpmip.Solve(in, formulation, separators, opts)
	default:
		return solution.Solution{}, cvrpmip.Diagnostics{}, fmt.Errorf("commands: unknown exact formulation %q", solved.Exact)
	}
}

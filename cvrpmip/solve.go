package cvrpmip

import (
	"time"

	"github.com/google/uuid"
	"github.com/nextmv-io/sdk/mip"
	"go.uber.org/zap"

	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
)

// greedyIncumbentTolerance bounds how far above the current
// relaxation's objective the greedy incumbent's cost may sit and still
// count as an early-stop match.
const greedyIncumbentTolerance = 1e-6

// Formulation is the shared build/extract/trace contract both the MTZ
// and two-index models implement, letting Solve drive either through
// one outer cutting-plane loop.
type Formulation interface {
	Build(cuts []Cut) (mip.Model, error)
	Values(sol mip.Solution) map[[2]int]float64
	Trace(values map[[2]int]float64) [][]int
}

// Solve runs the outer cutting-plane loop against formulation: solve to
// an integer incumbent, separate cuts against it, and resolve with the
// accumulated cuts until a round fires no new cut or the round budget
// is exhausted.
func Solve(in *instance.Instance, formulation Formulation, separators []CutSeparator, opts SolveOptions) (solution.Solution, Diagnostics, error) {
	runID := uuid.New().String()
	log := opts.logger().With(zap.String("run_id", runID))
	var cuts []Cut
	diag := Diagnostics{RunID: runID}

	maxRounds := opts.MaxCutRounds
	if maxRounds <= 0 {
		maxRounds = 1
	}

	for round := 0; round < maxRounds; round++ {
		diag.CutRounds = round + 1

		m, err := formulation.Build(cuts)
		if err != nil {
			return solution.Solution{}, diag, err
		}

		solveOpts := mip.NewSolveOptions()
		if opts.TimeLimitSeconds > 0 {
			if err = solveOpts.SetMaximumDuration(time.Duration(opts.TimeLimitSeconds * float64(time.Second))); err != nil {
				return solution.Solution{}, diag, err
			}
		}
		if err = solveOpts.SetMIPGapRelative(opts.MIPGapRelative); err != nil {
			return solution.Solution{}, diag, err
		}
		solveOpts.SetVerbosity(mip.Off)

		solved, err := solveModel(m, solveOpts)
		if err != nil {
			return solution.Solution{}, diag, err
		}
		if solved == nil || !solved.HasValues() {
			return solution.Solution{}, diag, ErrOptimisationFailed
		}

		diag.ObjectiveCost = solved.ObjectiveValue()
		values := formulation.Values(solved)

		if routes, complete := GreedyIncumbent(in, values); complete {
			if cost := solution.Strict.Cost(in, solution.New(routes)); cost <= diag.ObjectiveCost+greedyIncumbentTolerance {
				log.Debug("cvrpmip: greedy incumbent matches relaxation, stopping early",
					zap.Float64("incumbent_cost", cost),
				)

				return solution.New(routes), diag, nil
			}
		}

		var newCuts []Cut
		for _, sep := range separators {
			fired := sep.Separate(in, values)
			for _, c := range fired {
				log.Debug("cvrpmip: cut emitted",
					zap.Int("round", round+1),
					zap.Float64("rhs", c.RHS),
					zap.Int("terms", len(c.Terms)),
				)
			}
			newCuts = append(newCuts, fired...)
		}

		log.Debug("cvrpmip: solve round",
			zap.Int("round", round+1),
			zap.Float64("objective", diag.ObjectiveCost),
			zap.Int("cuts_fired", len(newCuts)),
		)

		if len(newCuts) == 0 {
			routes := formulation.Trace(values)

			return solution.New(routes), diag, nil
		}

		diag.CutsEmitted += len(newCuts)
		cuts = append(cuts, newCuts...)
	}

	return solution.Solution{}, diag, ErrCutRoundsExceeded
}

// solveModel builds a solver for m using the "highs" provider and runs
// it with solveOpts.
func solveModel(m mip.Model, solveOpts mip.SolveOptions) (mip.Solution, error) {
	solver, err := mip.NewSolver("highs", m)
	if err != nil {
		return nil, err
	}

	return solver.Solve(solveOpts)
}

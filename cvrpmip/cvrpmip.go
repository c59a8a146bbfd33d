// Package cvrpmip builds and solves the exact CVRP formulations named in
// the specification — the MTZ-based directed model and the two-index
// symmetric model — against a third-party MIP solver binding, driving
// cut separation (package-internal, grounded on package mincut) and a
// greedy primal-heuristic incumbent through an outer cutting-plane loop
// rather than in-solver branch-and-bound callbacks: the available
// solver binding exposes solve-to-completion, not per-node hooks, so
// each round solves the current model to an integer incumbent,
// separates cuts against that incumbent, and resolves with the
// accumulated cuts until none fire.
//
// Errors:
//
//	ErrOptimisationFailed - the solver found no feasible integer solution.
//	ErrCutRoundsExceeded  - the cutting-plane loop did not converge within
//	                        the configured round budget.
package cvrpmip

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/internal/logging"
)

// Sentinel errors surfaced by Solve.
var (
	ErrOptimisationFailed = errors.New("cvrpmip: solver reported no feasible solution")
	ErrCutRoundsExceeded  = errors.New("cvrpmip: cutting-plane loop did not converge")
)

// SolveOptions tunes both formulation builders and the outer
// cutting-plane loop.
type SolveOptions struct {
	// MaxCutRounds bounds the number of solve/separate/rebuild
	// iterations. If the loop never runs dry, Solve returns an empty
	// Solution with ErrCutRoundsExceeded.
	MaxCutRounds int

	// TimeLimitSeconds bounds each individual solver invocation; zero
	// means the solver's own default.
	TimeLimitSeconds float64

	// MIPGapRelative is forwarded to the solver's relative optimality
	// gap setting.
	MIPGapRelative float64

	// Logger receives one structured event per solve round and per
	// emitted cut. A nil Logger is replaced with zap.NewNop().
	Logger *zap.Logger
}

// DefaultSolveOptions returns conservative defaults suitable for the
// small instances this module's tests exercise.
func DefaultSolveOptions() SolveOptions {
	return SolveOptions{
		MaxCutRounds:     25,
		TimeLimitSeconds: 10,
		MIPGapRelative:   0,
	}
}

func (o SolveOptions) logger() *zap.Logger {
	return logging.OrNop(o.Logger)
}

// Diagnostics reports extra detail about how a Solve call converged,
// beyond the returned Solution and error.
type Diagnostics struct {
	// RunID correlates this call's log lines with its returned
	// Diagnostics and, if the caller propagates it, the solution
	// file's Time trailer context.
	RunID         string
	CutRounds     int
	CutsEmitted   int
	ObjectiveCost float64
}

// Cut is a single linear inequality over arc or edge variables,
// expressed generically enough to serve both the directed MTZ model and
// the undirected two-index model: Terms maps an (i, j) pair (in
// whichever indexing the owning formulation uses) to its coefficient.
type Cut struct {
	Terms map[[2]int]float64
	RHS   float64
}

// CutSeparator inspects a formulation's current arc/edge values (keyed
// the same way as the formulation's Terms) and returns any violated
// cuts it finds. An empty slice means "no cut fired this round".
type CutSeparator interface {
	Separate(in *instance.Instance, values map[[2]int]float64) []Cut
}

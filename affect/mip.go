package affect

import (
	"context"
	"time"

	"github.com/nextmv-io/sdk/mip"
)

// MIPPacker implements Packer by building an exact bin-packing model:
// minimise a dummy objective subject to each item being placed exactly
// once and each bin's capacity being respected. Infeasibility (no item
// placement satisfies every constraint) is reported as solvable=false
// rather than an error.
type MIPPacker struct {
	// TimeLimit bounds the solver's wall-clock budget; zero means the
	// solver's own default.
	TimeLimit time.Duration
}

// Pack implements Packer.
func (p MIPPacker) Pack(_ context.Context, items []int, binCapacity int, numBins int) ([][]int, bool, error) {
	if len(items) == 0 {
		return make([][]int, numBins), true, nil
	}

	m := mip.NewModel()
	m.Objective().SetMinimize()

	x := make([][]mip.Bool, len(items))
	for i := range items {
		x[i] = make([]mip.Bool, numBins)
		for j := 0; j < numBins; j++ {
			x[i][j] = m.NewBool()
		}
	}

	for i, size := range items {
		placement := m.NewConstraint(mip.Equal, 1.0)
		for j := 0; j < numBins; j++ {
			placement.NewTerm(1.0, x[i][j])
			// Dummy objective term: every unit of placement costs
			// nothing, so the solver optimises purely for feasibility.
			m.Objective().NewTerm(0.0, x[i][j])
		}
		_ = size
	}

	for j := 0; j < numBins; j++ {
		capacity := m.NewConstraint(mip.LessThanOrEqual, float64(binCapacity))
		for i, size := range items {
			capacity.NewTerm(float64(size), x[i][j])
		}
	}

	solver, err := mip.NewSolver("highs", m)
	if err != nil {
		return nil, false, err
	}

	solveOpts := mip.NewSolveOptions()
	if p.TimeLimit > 0 {
		if err = solveOpts.SetMaximumDuration(p.TimeLimit); err != nil {
			return nil, false, err
		}
	}
	solveOpts.SetVerbosity(mip.Off)

	sol, err := solver.Solve(solveOpts)
	if err != nil {
		return nil, false, err
	}
	if sol == nil || !sol.HasValues() {
		return make([][]int, numBins), false, nil
	}

	bins := make([][]int, numBins)
	for i := range items {
		for j := 0; j < numBins; j++ {
			if sol.Value(x[i][j]) > 0.5 {
				bins[j] = append(bins[j], i)
				break
			}
		}
	}

	return bins, true, nil
}

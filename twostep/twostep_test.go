package twostep_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
	"github.com/cvrpsolve/engine/twostep"
)

func TestTwoStepTinyMatchesOptimalCost(t *testing.T) {
	coords := []geo.Coordinate{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
	}
	in, err := instance.New(coords, []int{0, 10, 10, 10}, instance.Fleet{VehicleCount: 1, Capacity: 100})
	require.NoError(t, err)

	solver := twostep.New(twostep.SweepAffectation)
	sol, err := solver.Solve(context.Background(), in)
	require.NoError(t, err)

	want := 3 + math.Sqrt2
	assert.InDelta(t, want, solution.Strict.Cost(in, asSolution(sol)), 1e-6)
}

func TestTwoStepCoverage(t *testing.T) {
	coords := []geo.Coordinate{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 0},
		{X: 0, Y: 1},
		{X: 0, Y: 2},
	}
	in, err := instance.New(coords, []int{0, 6, 6, 6, 6}, instance.Fleet{VehicleCount: 2, Capacity: 10})
	require.NoError(t, err)

	solver := twostep.New(twostep.SweepAffectation)
	sol, err := solver.Solve(context.Background(), in)
	require.NoError(t, err)

	seen := map[int]int{}
	for _, route := range sol.Routes() {
		for _, node := range route {
			seen[node]++
		}
	}
	for _, node := range in.Customers() {
		assert.Equal(t, 1, seen[node])
	}
}

func TestTwoStepPropagatesInfeasibleAffectation(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	in, err := instance.New(coords, []int{0, 6, 6}, instance.Fleet{VehicleCount: 1, Capacity: 5})
	require.NoError(t, err)

	solver := twostep.New(twostep.SweepAffectation)
	_, err = solver.Solve(context.Background(), in)
	require.Error(t, err)
}

func asSolution(s instance.Solution) solution.Solution {
	return solution.New(s.Routes())
}

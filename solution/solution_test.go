package solution_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
)

func tinyInstance(t *testing.T) *instance.Instance {
	t.Helper()
	coords := []geo.Coordinate{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
	}
	in, err := instance.New(coords, []int{0, 10, 10, 10}, instance.Fleet{VehicleCount: 1, Capacity: 100})
	require.NoError(t, err)

	return in
}

func TestEmptyRouteCostsZero(t *testing.T) {
	in := tinyInstance(t)
	s := solution.New([][]int{{}})
	assert.InDelta(t, 0, solution.Strict.Cost(in, s), 1e-9)
}

func TestSingleNodeRouteCostsDoubleLeg(t *testing.T) {
	in := tinyInstance(t)
	s := solution.New([][]int{{1}})
	assert.InDelta(t, 2*in.Cost(instance.Depot, 1), solution.Strict.Cost(in, s), 1e-9)
}

func TestTinyTourCost(t *testing.T) {
	in := tinyInstance(t)
	s := solution.New([][]int{{1, 2, 3}})
	want := 3 + math.Sqrt2
	assert.InDelta(t, want, solution.Strict.Cost(in, s), 1e-6)
}

func TestFeasibilityLaw(t *testing.T) {
	in := tinyInstance(t)
	feasible := solution.New([][]int{{1, 2, 3}})
	require.True(t, solution.Search.Feasible(in, feasible))
	assert.InDelta(t, solution.Strict.Cost(in, feasible), solution.Search.Cost(in, feasible), 1e-9)
}

func TestPenaltyDominance(t *testing.T) {
	in := tinyInstance(t)
	tight, err := instance.New(
		[]geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		[]int{0, 10, 10},
		instance.Fleet{VehicleCount: 1, Capacity: 15},
	)
	require.NoError(t, err)
	_ = in

	overCap := solution.New([][]int{{1, 2}})
	require.False(t, solution.Search.Feasible(tight, overCap))
	assert.Greater(t, solution.Search.Cost(tight, overCap), solution.SearchPenalty)
}

func TestFeasibleRespectsVehicleCount(t *testing.T) {
	in := tinyInstance(t)
	tooManyRoutes := solution.New([][]int{{1}, {2}, {3}})
	assert.False(t, solution.Search.Feasible(in, tooManyRoutes))
}

func TestRoutesReturnsOwnedCopy(t *testing.T) {
	input := [][]int{{1, 2}}
	s := solution.New(input)
	input[0][0] = 999
	assert.Equal(t, 1, s.Routes()[0][0])
}

func TestNewEvaluatorUsesGivenPenalty(t *testing.T) {
	tight, err := instance.New(
		[]geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		[]int{0, 10, 10},
		instance.Fleet{VehicleCount: 1, Capacity: 15},
	)
	require.NoError(t, err)

	overCap := solution.New([][]int{{1, 2}})
	light := solution.NewEvaluator(1)
	heavy := solution.NewEvaluator(1000)

	assert.Less(t, light.Cost(tight, overCap), heavy.Cost(tight, overCap))
}

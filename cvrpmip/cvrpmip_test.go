package cvrpmip_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/cvrpmip"
	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
)

func tinyTriangle(t *testing.T) *instance.Instance {
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

func TestMTZTinyEuclideanOptimalCost(t *testing.T) {
	in := tinyTriangle(t)
	f := cvrpmip.NewMTZFormulation(in)
	sep := []cvrpmip.CutSeparator{cvrpmip.ConnectivityCutSeparator{Directed: true}}

	sol, diag, err := cvrpmip.Solve(in, f, sep, cvrpmip.DefaultSolveOptions())
	require.NoError(t, err)

	want := 3 + math.Sqrt2
	assert.InDelta(t, want, solution.Strict.Cost(in, sol), 1e-6)
	assert.GreaterOrEqual(t, diag.CutRounds, 1)
}

func TestMTZInfeasibleReturnsOptimisationFailed(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	in, err := instance.New(coords, []int{0, 6, 6}, instance.Fleet{VehicleCount: 1, Capacity: 5})
	require.NoError(t, err)

	f := cvrpmip.NewMTZFormulation(in)
	_, _, err = cvrpmip.Solve(in, f, nil, cvrpmip.DefaultSolveOptions())
	require.ErrorIs(t, err, cvrpmip.ErrOptimisationFailed)
}

func TestRoundedCapacityCutFiresOnOverCapacityComponent(t *testing.T) {
	coords := []geo.Coordinate{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 0},
		{X: 3, Y: 0},
		{X: 4, Y: 0},
	}
	in, err := instance.New(coords, []int{0, 6, 6, 6, 6}, instance.Fleet{VehicleCount: 2, Capacity: 10})
	require.NoError(t, err)

	// Fabricate a 3-customer subtour {1,2,3} with no depot edges: demand
	// 18 > Q=10, so it must be flagged invalid. Customer 4 stays outside
	// it, so the component is not the whole customer set (which the
	// separator skips).
	values := map[[2]int]float64{
		{1, 2}: 1, {2, 3}: 1, {1, 3}: 1,
	}

	sep := cvrpmip.RoundedCapacityCutSeparator{}
	cuts := sep.Separate(in, values)
	require.NotEmpty(t, cuts)
	assert.GreaterOrEqual(t, cuts[0].RHS, 2*math.Ceil(18.0/10.0))
}

func TestRoundedCapacityCutDirectedCountsBothDepotArcDirections(t *testing.T) {
	coords := []geo.Coordinate{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0},
	}
	in, err := instance.New(coords, []int{0, 3, 3, 3, 2}, instance.Fleet{VehicleCount: 2, Capacity: 10})
	require.NoError(t, err)

	// Two feasible directed routes: 0->1->2->3->0 and 0->4->0. Each
	// component's depot degree is 2 (one outbound, one inbound arc), but
	// split across two distinct directed keys.
	values := map[[2]int]float64{
		{0, 1}: 1, {1, 2}: 1, {2, 3}: 1, {3, 0}: 1,
		{0, 4}: 1, {4, 0}: 1,
	}

	directed := cvrpmip.RoundedCapacityCutSeparator{Directed: true}
	assert.Empty(t, directed.Separate(in, values))

	undirected := cvrpmip.RoundedCapacityCutSeparator{}
	cuts := undirected.Separate(in, values)
	require.NotEmpty(t, cuts, "undirected reading only sees the {0,node} half of each directed depot pair")
}

func TestTwoIndexTinyEuclideanOptimalCost(t *testing.T) {
	in := tinyTriangle(t)
	f := cvrpmip.NewTwoIndexFormulation(in)
	sep := []cvrpmip.CutSeparator{cvrpmip.ConnectivityCutSeparator{Directed: false}}

	sol, diag, err := cvrpmip.Solve(in, f, sep, cvrpmip.DefaultSolveOptions())
	require.NoError(t, err)

	want := 3 + math.Sqrt2
	assert.InDelta(t, want, solution.Strict.Cost(in, sol), 1e-6)
	assert.GreaterOrEqual(t, diag.CutRounds, 1)
}

func TestGreedyIncumbentPlacesEveryCustomer(t *testing.T) {
	in := tinyTriangle(t)
	values := map[[2]int]float64{
		{0, 1}: 1, {1, 2}: 1, {2, 3}: 1, {3, 0}: 1,
	}
	routes, complete := cvrpmip.GreedyIncumbent(in, values)
	require.True(t, complete)
	total := 0
	for _, r := range routes {
		for _, n := range r {
			total++
			_ = n
		}
	}
	assert.Equal(t, 3, total)
}

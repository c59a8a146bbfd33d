package tvrp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/twostep"
	"github.com/cvrpsolve/engine/tvrp"
)

func TestNewRejectsSkillMismatch(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}}
	_, err := tvrp.New(coords, []int{0, 5}, instance.Fleet{VehicleCount: 2, Capacity: 10}, []uint64{0}, []uint64{1})
	require.ErrorIs(t, err, tvrp.ErrSkillMatrixMismatch)
}

func TestCanServeRequiresAllBits(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	in, err := tvrp.New(
		coords,
		[]int{0, 5, 5},
		instance.Fleet{VehicleCount: 2, Capacity: 10},
		[]uint64{0, 0b01, 0b10},
		[]uint64{0b01, 0b10},
	)
	require.NoError(t, err)

	assert.True(t, in.CanServe(0, 1))
	assert.False(t, in.CanServe(0, 2))
	assert.True(t, in.CanServe(1, 2))
	assert.False(t, in.CanServe(1, 1))
}

func TestAggregateSolverSplitsByComplementarySkill(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	in, err := tvrp.New(
		coords,
		[]int{0, 5, 5},
		instance.Fleet{VehicleCount: 2, Capacity: 10},
		[]uint64{0, 0b01, 0b10},
		[]uint64{0b01, 0b10},
	)
	require.NoError(t, err)

	agg := tvrp.AggregateSolver{Inner: twostep.New(twostep.SweepAffectation)}
	sol, err := agg.Solve(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, sol.Routes(), 2)
	for _, route := range sol.Routes() {
		assert.Len(t, route, 1)
	}
}

func TestAggregateSolverAssignsOverlappingSkillsOnce(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	in, err := tvrp.New(
		coords,
		[]int{0, 5, 5},
		instance.Fleet{VehicleCount: 2, Capacity: 10},
		[]uint64{0, 0b01, 0b01},
		[]uint64{0b01, 0b01},
	)
	require.NoError(t, err)

	agg := tvrp.AggregateSolver{Inner: twostep.New(twostep.SweepAffectation)}
	sol, err := agg.Solve(context.Background(), in)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, route := range sol.Routes() {
		for _, node := range route {
			require.False(t, seen[node], "node %d routed more than once", node)
			seen[node] = true
		}
	}
	assert.True(t, seen[1])
	assert.True(t, seen[2])
}

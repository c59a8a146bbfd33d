package tspkit_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/tspkit"
)

func squareCost(points [][2]float64) tspkit.CostFunc {
	return func(i, j int) float64 {
		dx := points[i][0] - points[j][0]
		dy := points[i][1] - points[j][1]

		return math.Sqrt(dx*dx + dy*dy)
	}
}

func tourCost(tour []int, cost tspkit.CostFunc) float64 {
	total := 0.0
	for i := range tour {
		total += cost(tour[i], tour[(i+1)%len(tour)])
	}

	return total
}

func TestSolveSingleNode(t *testing.T) {
	tour, err := tspkit.Solve(context.Background(), 1, func(i, j int) float64 { return 0 }, tspkit.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0}, tour)
}

func TestSolveRejectsEmpty(t *testing.T) {
	_, err := tspkit.Solve(context.Background(), 0, nil, tspkit.DefaultOptions())
	require.ErrorIs(t, err, tspkit.ErrTooFewNodes)
}

func TestSolveUnitSquareFindsPerimeter(t *testing.T) {
	points := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	cost := squareCost(points)

	tour, err := tspkit.Solve(context.Background(), 4, cost, tspkit.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tour, 4)
	assert.InDelta(t, 4.0, tourCost(tour, cost), 1e-6)
}

func TestSolveStartsAtZero(t *testing.T) {
	points := [][2]float64{{0, 0}, {5, 5}, {1, 0}, {0, 1}}
	cost := squareCost(points)
	tour, err := tspkit.Solve(context.Background(), 4, cost, tspkit.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, tour[0])
}

package instance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
)

func tinyCoords() []geo.Coordinate {
	return []geo.Coordinate{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
	}
}

func TestNewRejectsNonZeroDepotDemand(t *testing.T) {
	_, err := instance.New(tinyCoords(), []int{1, 10, 10, 10}, instance.Fleet{VehicleCount: 1, Capacity: 100})
	require.ErrorIs(t, err, instance.ErrInvalidDepot)
}

func TestNewRejectsDemandMismatch(t *testing.T) {
	_, err := instance.New(tinyCoords(), []int{0, 10}, instance.Fleet{VehicleCount: 1, Capacity: 100})
	require.ErrorIs(t, err, instance.ErrDemandMismatch)
}

func TestNewRejectsBadFleet(t *testing.T) {
	_, err := instance.New(tinyCoords(), []int{0, 10, 10, 10}, instance.Fleet{VehicleCount: 0, Capacity: 100})
	require.ErrorIs(t, err, instance.ErrInvalidFleet)
}

func TestNewBuildsFrozenInstance(t *testing.T) {
	in, err := instance.New(tinyCoords(), []int{0, 10, 10, 10}, instance.Fleet{VehicleCount: 1, Capacity: 100}, instance.WithName("tiny"))
	require.NoError(t, err)

	assert.Equal(t, "tiny", in.Name())
	assert.Equal(t, 4, in.N())
	assert.Equal(t, []int{1, 2, 3}, in.Customers())
	assert.Equal(t, 0, in.Demand(instance.Depot))
	assert.InDelta(t, in.Cost(0, 1), in.Cost(1, 0), 1e-12)
}

func TestNewDefaultsToEuclideanMetric(t *testing.T) {
	in, err := instance.New(tinyCoords(), []int{0, 10, 10, 10}, instance.Fleet{VehicleCount: 1, Capacity: 100})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, in.Metric()(geo.Coordinate{X: 0, Y: 0}, geo.Coordinate{X: 1, Y: 0}), 1e-12)
}

func TestWithMetricOverridesCostMatrixAndIsRecoverable(t *testing.T) {
	manhattan := func(a, b geo.Coordinate) float64 {
		dx := a.X - b.X
		dy := a.Y - b.Y
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}

		return dx + dy
	}

	in, err := instance.New(tinyCoords(), []int{0, 10, 10, 10}, instance.Fleet{VehicleCount: 1, Capacity: 100}, instance.WithMetric(manhattan))
	require.NoError(t, err)

	// (0,0) to (0,1) to (-1,0): Manhattan distances are 1 and 2, not the
	// Euclidean 1 and sqrt(2) — the cost matrix used the overridden metric.
	assert.InDelta(t, 1.0, in.Cost(0, 2), 1e-12)
	assert.InDelta(t, 2.0, in.Cost(2, 3), 1e-12)
	assert.InDelta(t, 2.0, in.Metric()(geo.Coordinate{X: 0, Y: 0}, geo.Coordinate{X: 0, Y: 2}), 1e-12)
}

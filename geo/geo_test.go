package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/geo"
)

func TestEuclideanMetricSymmetric(t *testing.T) {
	a := geo.Coordinate{X: 1, Y: 0}
	b := geo.Coordinate{X: 0, Y: 1}
	assert.InDelta(t, geo.EuclideanMetric(a, b), geo.EuclideanMetric(b, a), 1e-12)
	assert.InDelta(t, 0, geo.EuclideanMetric(a, a), 1e-12)
}

func TestNewCostMatrixEmpty(t *testing.T) {
	_, err := geo.NewCostMatrix(nil, geo.EuclideanMetric)
	require.ErrorIs(t, err, geo.ErrEmptyCoords)
}

func TestNewCostMatrixSymmetricAndZeroDiagonal(t *testing.T) {
	coords := []geo.Coordinate{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
	}
	cm, err := geo.NewCostMatrix(coords, geo.EuclideanMetric)
	require.NoError(t, err)
	require.Equal(t, 4, cm.N())

	for i := 0; i < cm.N(); i++ {
		assert.InDelta(t, 0, cm.At(i, i), 1e-12)
		for j := 0; j < cm.N(); j++ {
			assert.InDelta(t, cm.At(i, j), cm.At(j, i), 1e-12)
		}
	}
	assert.InDelta(t, 1.0, cm.At(0, 1), 1e-12)
	assert.InDelta(t, math.Sqrt2, cm.At(1, 2), 1e-12)
}

func TestRegistryLookup(t *testing.T) {
	r := geo.NewRegistry()
	m, err := r.Lookup("EUC_2D")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, m(geo.Coordinate{}, geo.Coordinate{X: 3, Y: 4}), 1e-12)

	_, err = r.Lookup("MANHATTAN")
	require.ErrorIs(t, err, geo.ErrUnknownMetric)
}

package ioformat_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/ioformat"
	"github.com/cvrpsolve/engine/solution"
)

func TestExportWritesCSVWithoutCommand(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}}
	in, err := instance.New(coords, []int{0, 5}, instance.Fleet{VehicleCount: 1, Capacity: 10})
	require.NoError(t, err)

	s := solution.New([][]int{{1}})
	path := filepath.Join(t.TempDir(), "plot.csv")

	err = ioformat.ExportPlot(context.Background(), path, in, s, ioformat.PlotOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "route,sequence,node,x,y")
	assert.Contains(t, string(data), "0,1,1,")
}

func TestExportIgnoresFailingCommand(t *testing.T) {
	coords := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}}
	in, err := instance.New(coords, []int{0, 5}, instance.Fleet{VehicleCount: 1, Capacity: 10})
	require.NoError(t, err)

	s := solution.New([][]int{{1}})
	path := filepath.Join(t.TempDir(), "plot.csv")

	err = ioformat.ExportPlot(context.Background(), path, in, s, ioformat.PlotOptions{Command: "/bin/does-not-exist"})
	require.NoError(t, err)
}

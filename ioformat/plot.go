package ioformat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
)

// PlotOptions configures the side-channel plot export. Command names
// an external plotting program (the CLI passes its --plot-command
// value, gnuplot by default); it is run with Args followed by the
// exported CSV path. If Command is empty, ExportPlot only writes the
// CSV and skips the shell-out.
type PlotOptions struct {
	Command string
	Args    []string
}

// ExportPlot writes the solution's routes as a CSV of
// "route,sequence,node,x,y" rows to csvPath, then — if opts.Command is
// set — invokes the configured external plotting command against that
// file. The command's exit status is not treated as fatal: a plotting
// tool failing (or being absent) must not fail the solve it is
// reporting on, so ExportPlot logs nothing and returns nil in that case.
func ExportPlot(ctx context.Context, csvPath string, in *instance.Instance, s solution.Solution, opts PlotOptions) error {
	f, err := os.Create(csvPath)
	if err != nil {
		return &IOError{Op: "create plot csv", Err: err}
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "route,sequence,node,x,y"); err != nil {
		return &IOError{Op: "write plot csv header", Err: err}
	}

	for routeIdx, route := range s.Routes() {
		full := append([]int{instance.Depot}, route...)
		full = append(full, instance.Depot)
		for seq, node := range full {
			c := in.Coordinate(node)
			if _, err := fmt.Fprintf(f, "%d,%d,%d,%s,%s\n",
				routeIdx, seq, node,
				strconv.FormatFloat(c.X, 'f', -1, 64),
				strconv.FormatFloat(c.Y, 'f', -1, 64),
			); err != nil {
				return &IOError{Op: "write plot csv row", Err: err}
			}
		}
	}

	if err := f.Close(); err != nil {
		return &IOError{Op: "close plot csv", Err: err}
	}

	if opts.Command == "" {
		return nil
	}

	args := append(append([]string(nil), opts.Args...), csvPath)
	cmd := exec.CommandContext(ctx, opts.Command, args...)
	_ = cmd.Run()

	return nil
}

package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
)

// WriteSolution writes one "Route #<k>: <ids...>" line per non-empty
// route (1-based ids, depot omitted), followed by a "Cost <value>"
// trailer computed under the strict evaluator.
func WriteSolution(w io.Writer, in *instance.Instance, s solution.Solution) error {
	return WriteSolutionWithRunID(w, in, s, "")
}

// WriteSolutionWithRunID is WriteSolution plus, when runID is
// non-empty, a trailing "Time RunID=<runID>" line carrying the
// correlation id a cvrpmip.Diagnostics attached to this solve.
func WriteSolutionWithRunID(w io.Writer, in *instance.Instance, s solution.Solution, runID string) error {
	bw := bufio.NewWriter(w)

	k := 0
	for _, route := range s.Routes() {
		if len(route) == 0 {
			continue
		}
		k++
		ids := make([]string, len(route))
		for i, v := range route {
			ids[i] = strconv.Itoa(v + 1)
		}
		if _, err := fmt.Fprintf(bw, "Route #%d: %s\n", k, strings.Join(ids, " ")); err != nil {
			return &IOError{Op: "write solution route", Err: err}
		}
	}

	cost := solution.Strict.Cost(in, s)
	if _, err := fmt.Fprintf(bw, "Cost %.6f\n", cost); err != nil {
		return &IOError{Op: "write solution cost", Err: err}
	}

	if runID != "" {
		if _, err := fmt.Fprintf(bw, "Time RunID=%s\n", runID); err != nil {
			return &IOError{Op: "write solution run id", Err: err}
		}
	}

	if err := bw.Flush(); err != nil {
		return &IOError{Op: "flush solution", Err: err}
	}

	return nil
}

// ReadSolution parses the format WriteSolution produces. Trailing
// "Cost"/"Time" lines are accepted and ignored; ids are converted from
// 1-based to 0-based.
func ReadSolution(r io.Reader) (solution.Solution, error) {
	var routes [][]int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Cost") || strings.HasPrefix(line, "Time") {
			continue
		}
		if !strings.HasPrefix(line, "Route") {
			return solution.Solution{}, &ParseError{Line: lineNo, Detail: "expected a 'Route #k:' line"}
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			return solution.Solution{}, &ParseError{Line: lineNo, Detail: "missing ':' in route line"}
		}

		fields := strings.Fields(line[idx+1:])
		route := make([]int, len(fields))
		for i, tok := range fields {
			v, err := strconv.Atoi(tok)
			if err != nil || v < 1 {
				return solution.Solution{}, &ParseError{Line: lineNo, Detail: "route ids are 1-based positive integers"}
			}
			route[i] = v - 1
		}
		routes = append(routes, route)
	}
	if err := scanner.Err(); err != nil {
		return solution.Solution{}, &IOError{Op: "read solution", Err: err}
	}

	return solution.New(routes), nil
}

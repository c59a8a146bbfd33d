// Package tspkit is the narrow external metric-TSP adapter the two-step
// constructive solver consumes: nearest-neighbour construction followed
// by first-improvement 2-opt local search, operating over an induced
// subgraph's cost lookup rather than any shared global instance type.
//
// Contract: Solve returns a Hamiltonian cycle starting at node 0 of the
// given cost map, as a slice of node indices including node 0 exactly
// once at position 0 (the caller strips it to obtain a route).
package tspkit

import (
	"context"
	"errors"
)

// ErrTooFewNodes is returned when Solve is asked to tour fewer than one
// node.
var ErrTooFewNodes = errors.New("tspkit: at least one node required")

// CostFunc looks up the cost between two node indices in the caller's
// induced subgraph numbering (0 is always the subgraph's depot row).
type CostFunc func(i, j int) float64

// Options configures the adapter. The zero value is usable: it runs
// nearest-neighbour construction with unlimited 2-opt passes.
type Options struct {
	// MaxPasses bounds the number of full 2-opt sweeps; 0 means run
	// until no improving move is found.
	MaxPasses int

	// Epsilon is the minimum cost improvement a 2-opt move must yield
	// to be accepted, guarding against floating-point noise.
	Epsilon float64
}

// DefaultOptions returns the adapter's default tuning.
func DefaultOptions() Options {
	return Options{MaxPasses: 0, Epsilon: 1e-9}
}

// Solve returns a Hamiltonian cycle over {0, ..., n-1} under cost,
// starting and implicitly returning to node 0. n counts the subgraph's
// nodes, including its depot row at index 0.
func Solve(ctx context.Context, n int, cost CostFunc, opts Options) ([]int, error) {
	if n < 1 {
		return nil, ErrTooFewNodes
	}
	if n == 1 {
		return []int{0}, nil
	}

	tour := nearestNeighbourTour(n, cost)
	tour = twoOpt(ctx, tour, cost, opts)

	return tour, nil
}

// nearestNeighbourTour greedily extends a tour from node 0, always
// stepping to the closest unvisited node.
func nearestNeighbourTour(n int, cost CostFunc) []int {
	visited := make([]bool, n)
	tour := make([]int, 0, n)
	tour = append(tour, 0)
	visited[0] = true

	for len(tour) < n {
		last := tour[len(tour)-1]
		best := -1
		bestCost := 0.0
		for v := 0; v < n; v++ {
			if visited[v] {
				continue
			}
			c := cost(last, v)
			if best == -1 || c < bestCost {
				best = v
				bestCost = c
			}
		}
		tour = append(tour, best)
		visited[best] = true
	}

	return tour
}

// round1e9 stabilizes a cost delta against floating-point noise before
// comparing it to Epsilon, matching the rounding discipline a
// first-improvement 2-opt search needs to terminate on nearly-equal
// candidate moves.
func round1e9(x float64) float64 {
	const scale = 1e9
	if x >= 0 {
		return float64(int64(x*scale+0.5)) / scale
	}

	return float64(int64(x*scale-0.5)) / scale
}

// twoOpt runs first-improvement 2-opt sweeps over tour (a cycle stored
// as a node sequence starting at 0, implicitly closing back to 0) until
// a full sweep finds no improving move, opts.MaxPasses is reached, or
// ctx is cancelled.
func twoOpt(ctx context.Context, tour []int, cost CostFunc, opts Options) []int {
	n := len(tour)
	if n < 4 {
		return tour
	}

	eps := opts.Epsilon
	if eps == 0 {
		eps = 1e-9
	}

	pass := 0
	for {
		if ctx.Err() != nil {
			return tour
		}
		if opts.MaxPasses > 0 && pass >= opts.MaxPasses {
			return tour
		}
		pass++

		improved := false
		for i := 0; i < n-1; i++ {
			a, b := tour[i], tour[(i+1)%n]
			for j := i + 2; j < n; j++ {
				if i == 0 && j == n-1 {
					continue
				}
				c, d := tour[j], tour[(j+1)%n]
				delta := round1e9((cost(a, c) + cost(b, d)) - (cost(a, b) + cost(c, d)))
				if delta < -eps {
					reverse(tour, i+1, j)
					improved = true
					b = tour[(i+1)%n]
				}
			}
		}
		if !improved {
			return tour
		}
	}
}

func reverse(s []int, i, j int) {
	for i < j {
		s[i], s[j] = s[j], s[i]
		i++
		j--
	}
}

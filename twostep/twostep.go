// Package twostep pipes an affectation (sweep or bin-packing) through a
// per-cluster TSP to produce a full routing: component G of the
// cluster-first/route-second constructive pipeline.
package twostep

import (
	"context"
	"errors"

	"github.com/cvrpsolve/engine/affect"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
	"github.com/cvrpsolve/engine/sweep"
	"github.com/cvrpsolve/engine/tspkit"
)

// ErrAffectationInfeasible is returned when the underlying affectation
// could not place every customer.
var ErrAffectationInfeasible = errors.New("twostep: affectation could not place every customer")

// Affectation abstracts over the two constructive strategies so Solver
// can be built from either sweep.Affect or an affect.Packer without
// twostep depending on both concretely.
type Affectation func(ctx context.Context, in *instance.Instance) (affect.RouteAffectation, error)

// SweepAffectation adapts sweep.Affect (which has no error path) to the
// Affectation signature.
func SweepAffectation(_ context.Context, in *instance.Instance) (affect.RouteAffectation, error) {
	return sweep.Affect(in), nil
}

// PackerAffectation adapts a bin-packing Packer to the Affectation
// signature via affect.Affect.
func PackerAffectation(p affect.Packer) Affectation {
	return func(ctx context.Context, in *instance.Instance) (affect.RouteAffectation, error) {
		return affect.Affect(ctx, in, p)
	}
}

// Solver implements instance.Solver by running an Affectation to obtain
// clusters, then a metric-TSP pass over each cluster's induced
// subgraph, concatenating the resulting routes in cluster order.
type Solver struct {
	Affectation Affectation
	TSPOptions  tspkit.Options
}

// New builds a Solver from an affectation strategy, using tspkit's
// default tuning.
func New(a Affectation) Solver {
	return Solver{Affectation: a, TSPOptions: tspkit.DefaultOptions()}
}

// Solve implements instance.Solver.
func (s Solver) Solve(ctx context.Context, in *instance.Instance) (instance.Solution, error) {
	aff, err := s.Affectation(ctx, in)
	if err != nil {
		return nil, err
	}
	if !aff.Solvable {
		return nil, ErrAffectationInfeasible
	}

	routes := make([][]int, 0, len(aff.Clusters))
	for _, cluster := range aff.Clusters {
		route, err := routeCluster(ctx, in, cluster, s.TSPOptions)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	sol := solution.New(routes)

	return sol, nil
}

// routeCluster builds the induced subgraph on {depot} u cluster, solves
// it with tspkit, and strips the depot from the returned cycle.
func routeCluster(ctx context.Context, in *instance.Instance, cluster []int, opts tspkit.Options) ([]int, error) {
	if len(cluster) == 0 {
		return nil, nil
	}

	// subNodes[0] is the depot; subNodes[1:] mirrors cluster.
	subNodes := make([]int, 0, len(cluster)+1)
	subNodes = append(subNodes, instance.Depot)
	subNodes = append(subNodes, cluster...)

	cost := func(i, j int) float64 {
		return in.Cost(subNodes[i], subNodes[j])
	}

	tour, err := tspkit.Solve(ctx, len(subNodes), cost, opts)
	if err != nil {
		return nil, err
	}

	route := make([]int, 0, len(cluster))
	for _, localIdx := range tour {
		if localIdx == 0 {
			continue
		}
		route = append(route, subNodes[localIdx])
	}

	return route, nil
}

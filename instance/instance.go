// Package instance defines the frozen problem description every solver in
// this module consumes and the one-method Solver capability every
// constructive/exact/metaheuristic implementation shares. The TVRP
// skill-matrix refinement lives in package tvrp.
//
// Errors:
//
//	ErrInvalidDepot    - node 0 carries a non-zero demand.
//	ErrNoNodes         - an instance was built with fewer than one node.
//	ErrInvalidFleet    - vehicle count or capacity is below one.
//	ErrDemandMismatch  - demand slice length does not match node count.
package instance

import (
	"context"
	"errors"

	"github.com/cvrpsolve/engine/geo"
)

// Sentinel errors for instance construction.
var (
	ErrInvalidDepot   = errors.New("instance: depot demand must be zero")
	ErrNoNodes        = errors.New("instance: at least one node is required")
	ErrInvalidFleet   = errors.New("instance: vehicle count and capacity must be >= 1")
	ErrDemandMismatch = errors.New("instance: demand slice length mismatch")
)

// Depot is the fixed node index of the depot. Every route begins and
// ends here implicitly; routes never list it.
const Depot = 0

// Fleet describes a homogeneous vehicle fleet: K identical vehicles of
// capacity Q.
type Fleet struct {
	VehicleCount int
	Capacity     int
}

// Instance is the complete undirected graph on N nodes, frozen after
// construction: no method mutates coords, demand, or the cost matrix.
// Node 0 is the depot by convention.
type Instance struct {
	name   string
	coords []geo.Coordinate
	demand []int
	fleet  Fleet
	costs  *geo.CostMatrix
	metric geo.Metric
}

// Option configures an Instance at construction time.
type Option func(*buildConfig)

type buildConfig struct {
	name   string
	metric geo.Metric
}

// WithName sets the instance's identifier string.
func WithName(name string) Option {
	return func(c *buildConfig) { c.name = name }
}

// WithMetric overrides the default Euclidean metric used to derive the
// cost matrix from coordinates.
func WithMetric(m geo.Metric) Option {
	return func(c *buildConfig) { c.metric = m }
}

// New builds a frozen Instance from per-node coordinates and demands plus
// a fleet descriptor. coords[0] and demand[0] describe the depot;
// demand[0] must be zero.
func New(coords []geo.Coordinate, demand []int, fleet Fleet, opts ...Option) (*Instance, error) {
	if len(coords) == 0 {
		return nil, ErrNoNodes
	}
	if len(demand) != len(coords) {
		return nil, ErrDemandMismatch
	}
	if demand[Depot] != 0 {
		return nil, ErrInvalidDepot
	}
	if fleet.VehicleCount < 1 || fleet.Capacity < 1 {
		return nil, ErrInvalidFleet
	}

	cfg := buildConfig{metric: geo.EuclideanMetric}
	for _, opt := range opts {
		opt(&cfg)
	}

	costs, err := geo.NewCostMatrix(coords, cfg.metric)
	if err != nil {
		return nil, err
	}

	frozenCoords := make([]geo.Coordinate, len(coords))
	copy(frozenCoords, coords)
	frozenDemand := make([]int, len(demand))
	copy(frozenDemand, demand)

	return &Instance{
		name:   cfg.name,
		coords: frozenCoords,
		demand: frozenDemand,
		fleet:  fleet,
		costs:  costs,
		metric: cfg.metric,
	}, nil
}

// Name returns the instance identifier.
func (in *Instance) Name() string { return in.name }

// Metric returns the coordinate distance function the instance's cost
// matrix was built from, so derived instances (e.g. a TVRP
// per-technician sub-instance) can reproduce the same costs.
func (in *Instance) Metric() geo.Metric { return in.metric }

// N returns the number of nodes, including the depot.
func (in *Instance) N() int { return len(in.coords) }

// Fleet returns the vehicle count and per-vehicle capacity.
func (in *Instance) Fleet() Fleet { return in.fleet }

// Coordinate returns the 2-D position of node i.
func (in *Instance) Coordinate(i int) geo.Coordinate { return in.coords[i] }

// Demand returns the demand of node i. Demand(Depot) is always zero.
func (in *Instance) Demand(i int) int { return in.demand[i] }

// Cost returns the symmetric travel cost between nodes i and j.
func (in *Instance) Cost(i, j int) float64 { return in.costs.At(i, j) }

// Customers returns the node indices 1..N-1, i.e. every node but the
// depot, in ascending order.
func (in *Instance) Customers() []int {
	out := make([]int, 0, in.N()-1)
	for i := 1; i < in.N(); i++ {
		out = append(out, i)
	}

	return out
}

// Solver is the single capability shared by every constructive, exact,
// and metaheuristic solver: given a context and an instance, produce a
// solution. The stochastic-descent solver and the TVRP aggregate solver
// hold an inner Solver by value and forward to it; the two-step solver
// composes an affectation function with the TSP adapter instead.
type Solver interface {
	Solve(ctx context.Context, in *Instance) (Solution, error)
}

// Solution is the narrow view a Solver returns: an ordered list of
// routes, each route an ordered list of customer node indices with the
// depot omitted. The concrete type lives in package solution; Solver is
// defined here, over this interface, to avoid an import cycle between
// instance and solution.
type Solution interface {
	Routes() [][]int
}

// Package tvrp extends the core instance model with a per-technician
// skill matrix and a per-node required-skill mask, and provides the
// aggregate solver that reduces TVRP to one single-technician solve per
// technician.
//
// Errors:
//
//	ErrSkillMatrixMismatch - the skill matrix's row count does not match
//	                         the technician count, or a column count does
//	                         not match the node count.
package tvrp

import (
	"context"
	"errors"

	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/solution"
)

// ErrSkillMatrixMismatch is returned when the skill matrix's dimensions
// disagree with the technician or node counts.
var ErrSkillMatrixMismatch = errors.New("tvrp: skill matrix dimension mismatch")

// Instance embeds the CVRP instance and augments it with per-node
// required-skill masks and a per-technician skill matrix. A technician
// t can serve node v iff every skill bit set on v is also set on t.
type Instance struct {
	*instance.Instance

	// RequiredSkills[v] is the bitmask of skills node v requires.
	RequiredSkills []uint64

	// TechnicianSkills[t] is the bitmask of skills technician t has.
	TechnicianSkills []uint64
}

// New builds a TVRP instance. coords/demand/fleet feed the embedded
// CVRP instance exactly as instance.New does; requiredSkills must have
// one entry per node and technicianSkills one entry per technician
// (fleet.VehicleCount, reinterpreted here as the technician count).
func New(coords []geo.Coordinate, demand []int, fleet instance.Fleet, requiredSkills, technicianSkills []uint64, opts ...instance.Option) (*Instance, error) {
	base, err := instance.New(coords, demand, fleet, opts...)
	if err != nil {
		return nil, err
	}
	if len(requiredSkills) != base.N() || len(technicianSkills) != fleet.VehicleCount {
		return nil, ErrSkillMatrixMismatch
	}

	return &Instance{
		Instance:         base,
		RequiredSkills:   requiredSkills,
		TechnicianSkills: technicianSkills,
	}, nil
}

// CanServe reports whether technician t can serve node v: every skill
// bit required by v must be set in t's skill mask.
func (in *Instance) CanServe(t, v int) bool {
	required := in.RequiredSkills[v]

	return required&in.TechnicianSkills[t] == required
}

// TechnicianCount returns the number of technicians (the fleet's
// vehicle count, under the TVRP refinement).
func (in *Instance) TechnicianCount() int {
	return len(in.TechnicianSkills)
}

// AggregateSolver reduces TVRP to repeated single-technician solves: for
// each technician t, it builds a relaxed single-vehicle instance whose
// arc-permission predicate is narrowed to CanServe(t, ·) — modelled by
// excluding nodes t cannot serve from that technician's customer set —
// runs Inner against it, and concatenates the resulting routes across
// technicians. It does not itself implement instance.Solver: its input
// carries the skill matrix instance.Solver's signature has no room for.
type AggregateSolver struct {
	Inner instance.Solver
}

// Solve runs the per-technician reduction described on AggregateSolver.
// Each customer is assigned to exactly one technician: the
// lowest-indexed technician able to serve it, so overlapping skill
// masks never route the same customer twice.
func (s AggregateSolver) Solve(ctx context.Context, in *Instance) (instance.Solution, error) {
	assigned := make([]bool, in.N())
	var routes [][]int
	for t := 0; t < in.TechnicianCount(); t++ {
		servable := servableNodes(in, t, assigned)
		if len(servable) == 0 {
			continue
		}
		for _, v := range servable {
			assigned[v] = true
		}

		sub, nodeMap, err := buildSubInstance(in, servable)
		if err != nil {
			return nil, err
		}

		sol, err := s.Inner.Solve(ctx, sub)
		if err != nil {
			return nil, err
		}

		for _, route := range sol.Routes() {
			mapped := make([]int, len(route))
			for i, localNode := range route {
				mapped[i] = nodeMap[localNode]
			}
			routes = append(routes, mapped)
		}
	}

	return solution.New(routes), nil
}

// servableNodes returns the customer node indices technician t can serve
// that no earlier technician has already claimed.
func servableNodes(in *Instance, t int, assigned []bool) []int {
	var out []int
	for _, v := range in.Customers() {
		if !assigned[v] && in.CanServe(t, v) {
			out = append(out, v)
		}
	}

	return out
}

// buildSubInstance constructs a single-vehicle instance over the depot
// plus servable, returning the new instance and a map from its local
// node indices back to the original instance's node indices.
func buildSubInstance(in *Instance, servable []int) (*instance.Instance, []int, error) {
	nodeMap := make([]int, 0, len(servable)+1)
	nodeMap = append(nodeMap, instance.Depot)
	nodeMap = append(nodeMap, servable...)

	coords := make([]geo.Coordinate, len(nodeMap))
	demand := make([]int, len(nodeMap))
	for i, orig := range nodeMap {
		coords[i] = in.Coordinate(orig)
		demand[i] = in.Demand(orig)
	}

	sub, err := instance.New(
		coords, demand, instance.Fleet{VehicleCount: 1, Capacity: in.Fleet().Capacity},
		instance.WithMetric(in.Metric()),
	)
	if err != nil {
		return nil, nil, err
	}

	return sub, nodeMap, nil
}

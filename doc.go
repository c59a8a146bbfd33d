// Package engine is a capacitated vehicle routing solver: build an
// Instance, hand it to a Solver, get back a feasible set of routes.
//
// What's inside
//
//	geo/       — coordinates, distance metrics, frozen cost matrices
//	instance/  — the problem model: nodes, demand, fleet, Solver contract
//	solution/  — route sets, cost evaluation, feasibility checks
//	sweep/     — angular-sweep clustering (cluster-first, route-second)
//	affect/    — bin-packing clustering, exact (MIP) or heuristic (FFD)
//	tspkit/    — nearest-neighbour + 2-opt metric TSP
//	twostep/   — wires an affectation and tspkit into one instance.Solver
//	descent/   — stochastic-descent local search over pluggable moves
//	mincut/    — Dinic max-flow and global minimum cut, used by cvrpmip
//	cvrpmip/   — exact MTZ and two-index MIP formulations with cut separation
//	tvrp/      — technician skill matrix and the per-technician aggregate solver
//	ioformat/  — instance/solution file format, CSV plot export
//
// The cvrpsolve command under cmd/ strings these together behind a
// small cobra CLI: load an instance, then either build a constructive
// route set and optionally polish it with descent, or, when an exact
// formulation is configured, solve the instance from scratch with
// cvrpmip instead, and write the result.
//
//	go get github.com/cvrpsolve/engine
package engine

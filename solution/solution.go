// Package solution defines the route-list data structure every solver
// produces, and the cost evaluator whose capacity-penalty term defines
// what "feasibility" means to the search.
//
// Two evaluators exist by design, per the fixed penalty the search
// relies on: Search (penalty >= 1e3, the metaheuristic's default) and
// Strict (penalty 0, used for the MIP's incumbent comparison and for
// reporting the raw, unpenalised cost). Both are pure functions of an
// instance and a Solution; neither mutates its arguments nor panics on
// malformed route data (repeated nodes, out-of-range indices beyond
// slice bounds are the caller's contract, not checked here).
package solution

import "github.com/cvrpsolve/engine/instance"

// SearchPenalty is the per-unit-of-excess-demand penalty the search
// evaluator applies. The specification requires a single large penalty
// (>= 1e3) superseding the two historical values (100 and 1000); this
// module fixes it at 1000, documented in DESIGN.md.
const SearchPenalty = 1000.0

// Solution is an ordered list of routes; each route is an ordered list
// of customer node indices with the depot omitted. Solution owns its
// route data; it does not alias the instance it was built against.
type Solution struct {
	routes [][]int
}

// New copies routes into a freshly owned Solution. Callers may reuse or
// mutate their routes slice afterward without affecting the Solution.
func New(routes [][]int) Solution {
	owned := make([][]int, len(routes))
	for i, r := range routes {
		owned[i] = append([]int(nil), r...)
	}

	return Solution{routes: owned}
}

// Routes returns the solution's routes. The returned slices must not be
// mutated by the caller; neighbourhood operators that want to modify a
// route must copy it first, per package descent's contract.
func (s Solution) Routes() [][]int { return s.routes }

// RouteDemand sums the demand of every node in route.
func RouteDemand(in *instance.Instance, route []int) int {
	total := 0
	for _, node := range route {
		total += in.Demand(node)
	}

	return total
}

// routeCost is the depot-to-first + inter-stop + last-to-depot cost of a
// single route. An empty route costs zero; a single-node route costs
// 2*cost(depot, node).
func routeCost(in *instance.Instance, route []int) float64 {
	if len(route) == 0 {
		return 0
	}

	total := in.Cost(instance.Depot, route[0])
	for i := 1; i < len(route); i++ {
		total += in.Cost(route[i-1], route[i])
	}
	total += in.Cost(route[len(route)-1], instance.Depot)

	return total
}

// Evaluator computes a penalised cost over a Solution. It never panics
// on arbitrary node orderings or repeated nodes: it is driven inside the
// random search, which routinely visits infeasible intermediate states.
type Evaluator struct {
	penalty float64
}

// Search is the evaluator the metaheuristic uses by default: a
// capacity violation is penalised at SearchPenalty per unit of excess
// demand, strictly dominating any feasible neighbour within the
// reachable set.
var Search = Evaluator{penalty: SearchPenalty}

// Strict is the reporting evaluator: its penalty is zero, so Cost
// returns the raw travelled distance regardless of capacity violations.
// Feasible reports the same feasibility predicate as Search.
var Strict = Evaluator{penalty: 0}

// NewEvaluator builds an Evaluator with a caller-chosen penalty, for
// callers (the CLI's --search-penalty flag) that need a value other
// than Search's fixed SearchPenalty.
func NewEvaluator(penalty float64) Evaluator {
	return Evaluator{penalty: penalty}
}

// Cost returns the total travelled cost across every route in s, plus
// e's penalty times the total capacity excess across all routes.
func (e Evaluator) Cost(in *instance.Instance, s Solution) float64 {
	total := 0.0
	q := in.Fleet().Capacity
	for _, route := range s.routes {
		total += routeCost(in, route)
		if excess := RouteDemand(in, route) - q; excess > 0 {
			total += float64(excess) * e.penalty
		}
	}

	return total
}

// Feasible reports whether every route respects the vehicle capacity and
// the number of non-empty routes does not exceed the fleet's vehicle
// count. It does not check that every customer appears exactly once;
// that invariant is a property of how routes were constructed, not
// something the evaluator enforces.
func (e Evaluator) Feasible(in *instance.Instance, s Solution) bool {
	q := in.Fleet().Capacity
	nonEmpty := 0
	for _, route := range s.routes {
		if len(route) == 0 {
			continue
		}
		nonEmpty++
		if RouteDemand(in, route) > q {
			return false
		}
	}

	return nonEmpty <= in.Fleet().VehicleCount
}

package cvrpmip

import "github.com/cvrpsolve/engine/instance"

// GreedyIncumbent builds a feasible incumbent by the primal heuristic's
// greedy trace (J): starting from the depot, repeatedly pick the
// unvisited customer with the highest arc value from the current node
// whose addition would not exceed capacity; if none exists, close the
// current route and open a new one. It stops once every customer is
// placed or K vehicles have been used.
//
// The retrieved solver binding exposes no warm-start/MIP-start setter,
// so this incumbent is not injected back into the solver as the
// specification's source does; instead Solve calls it each round as an
// early-stop check: if this greedy incumbent places every customer and
// its cost is within tolerance of the current relaxation's objective,
// Solve returns it directly instead of running another cutting-plane
// round.
func GreedyIncumbent(in *instance.Instance, values map[[2]int]float64) (routes [][]int, complete bool) {
	n := in.N()
	q := in.Fleet().Capacity
	k := in.Fleet().VehicleCount

	placed := make([]bool, n)
	placed[instance.Depot] = true
	remaining := n - 1

	for len(routes) < k && remaining > 0 {
		var route []int
		load := 0
		cur := instance.Depot
		for {
			best := -1
			bestValue := -1.0
			for j := 1; j < n; j++ {
				if placed[j] {
					continue
				}
				if load+in.Demand(j) > q {
					continue
				}
				v := arcValue(values, cur, j)
				if v > bestValue {
					bestValue = v
					best = j
				}
			}
			if best == -1 {
				break
			}
			placed[best] = true
			remaining--
			load += in.Demand(best)
			route = append(route, best)
			cur = best
		}
		if len(route) == 0 {
			break
		}
		routes = append(routes, route)
	}

	return routes, remaining == 0
}

// arcValue looks up the value for the directed pair (i, j), falling back
// to the reversed key: the MTZ formulation keys every direction
// separately, but the two-index formulation only stores the normalised
// (min, max) key for customer-customer edges, so a direct lookup on the
// un-normalised pair silently misses under that formulation.
func arcValue(values map[[2]int]float64, i, j int) float64 {
	if v, ok := values[[2]int{i, j}]; ok {
		return v
	}

	return values[[2]int{j, i}]
}

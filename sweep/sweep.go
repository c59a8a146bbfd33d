// Package sweep implements the angular-sweep constructive affectation:
// customers are clustered by polar angle around the depot, filling each
// cluster up to vehicle capacity before opening the next, with a repair
// pass if sweeping alone opens more clusters than the fleet has
// vehicles.
package sweep

import (
	"math"
	"sort"

	"github.com/cvrpsolve/engine/affect"
	"github.com/cvrpsolve/engine/instance"
)

// Affect runs the sweep heuristic over in and returns the resulting
// clustering. Every non-depot node appears in exactly one cluster
// (sweep completeness), regardless of whether Solvable ends up true:
// an unrepairable surplus cluster is still returned, just flagged.
func Affect(in *instance.Instance) affect.RouteAffectation {
	customers := in.Customers()
	if len(customers) == 0 {
		return affect.RouteAffectation{Solvable: true}
	}

	angles := sweepAngles(in, customers)
	order := make([]int, len(customers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return angles[order[a]] < angles[order[b]]
	})

	q := in.Fleet().Capacity
	var clusters [][]int
	var current []int
	currentDemand := 0
	for _, idx := range order {
		node := customers[idx]
		d := in.Demand(node)
		if len(current) > 0 && currentDemand+d > q {
			clusters = append(clusters, current)
			current = nil
			currentDemand = 0
		}
		current = append(current, node)
		currentDemand += d
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}

	solvable := true
	k := in.Fleet().VehicleCount
	if len(clusters) > k {
		clusters, solvable = repair(in, clusters, q, k)
	}

	return affect.RouteAffectation{Clusters: clusters, Solvable: solvable}
}

// sweepAngles computes, for each customer (by index into customers),
// the signed angle relative to the depot and the reference node
// customers[0], normalised into [0, 2*pi), using atan2 on the
// cross/dot product of the depot-relative vectors — a numerically
// stable half-angle-free formulation equivalent to the one the
// specification describes.
func sweepAngles(in *instance.Instance, customers []int) []float64 {
	depot := in.Coordinate(instance.Depot)
	ref := in.Coordinate(customers[0])
	refDx, refDy := ref.X-depot.X, ref.Y-depot.Y

	angles := make([]float64, len(customers))
	for i, node := range customers {
		c := in.Coordinate(node)
		dx, dy := c.X-depot.X, c.Y-depot.Y
		cross := refDx*dy - refDy*dx
		dot := refDx*dx + refDy*dy
		theta := math.Atan2(cross, dot)
		if theta < 0 {
			theta += 2 * math.Pi
		}
		angles[i] = theta
	}

	return angles
}

// repair attempts to move nodes out of surplus clusters (those beyond
// the k-th) into any earlier cluster with residual capacity. A surplus
// node that fits nowhere is put into a new cluster of its own and
// solvable is false.
func repair(in *instance.Instance, clusters [][]int, q, k int) ([][]int, bool) {
	kept := append([][]int(nil), clusters[:k]...)
	surplus := clusters[k:]

	demand := func(c []int) int {
		total := 0
		for _, n := range c {
			total += in.Demand(n)
		}

		return total
	}

	solvable := true
	for _, cluster := range surplus {
		for _, node := range cluster {
			d := in.Demand(node)
			placed := false
			for i := range kept {
				if demand(kept[i])+d <= q {
					kept[i] = append(kept[i], node)
					placed = true
					break
				}
			}
			if !placed {
				solvable = false
				kept = append(kept, []int{node})
			}
		}
	}

	return kept, solvable
}

package cvrpmip

import (
	"context"
	"math"

	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/mincut"
)

// ConnectivityCutSeparator implements the symmetric and asymmetric
// connectivity-cut family (I.1): it scales fractional/integer arc or
// edge values into an integer capacity map, runs a global minimum cut
// from the depot, and — if the cut value falls short of 1 — emits a
// cut forcing at least one arc from the depot's side into the other
// side (directed) or one edge across the cut (undirected).
type ConnectivityCutSeparator struct {
	// Directed selects the asymmetric variant (MTZ arc values, read
	// as-is) versus the symmetric variant (two-index edge values,
	// mirrored onto both directions before min-cut).
	Directed bool

	// ScaleFactor converts fractional values into the integer
	// capacities mincut.Graph requires; zero defaults to 1e6.
	ScaleFactor int64

	// Epsilon is the tolerance below which a value is clamped to zero
	// and above which a cut value is considered satisfied; zero
	// defaults to 1e-6.
	Epsilon float64
}

func (s ConnectivityCutSeparator) scale() int64 {
	if s.ScaleFactor > 0 {
		return s.ScaleFactor
	}

	return 1_000_000
}

func (s ConnectivityCutSeparator) epsilon() float64 {
	if s.Epsilon > 0 {
		return s.Epsilon
	}

	return 1e-6
}

// Separate implements CutSeparator.
func (s ConnectivityCutSeparator) Separate(in *instance.Instance, values map[[2]int]float64) []Cut {
	n := in.N()
	scale := s.scale()
	eps := s.epsilon()

	g := mincut.NewGraph(n)
	for key, v := range values {
		if v <= eps {
			continue
		}
		capacity := int64(v*float64(scale) + 0.5)
		if s.Directed {
			_ = g.AddArc(key[0], key[1], capacity)
		} else {
			_ = g.AddArc(key[0], key[1], capacity)
			_ = g.AddArc(key[1], key[0], capacity)
		}
	}

	cut, err := g.GlobalMinCut(context.Background(), instance.Depot)
	if err != nil {
		return nil
	}

	lambda := float64(cut.Value) / float64(scale)
	if lambda >= 1-eps {
		return nil
	}

	// S is the node side NOT containing the depot: the complement of
	// the min-cut's source-reachable side.
	var sNodes []int
	for i := 0; i < n; i++ {
		if !cut.Side[i] {
			sNodes = append(sNodes, i)
		}
	}
	if len(sNodes) == 0 {
		return nil
	}
	inS := make(map[int]bool, len(sNodes))
	for _, node := range sNodes {
		inS[node] = true
	}

	terms := make(map[[2]int]float64)
	if s.Directed {
		for i := 0; i < n; i++ {
			if inS[i] {
				continue
			}
			for j := 0; j < n; j++ {
				if i == j || !inS[j] {
					continue
				}
				terms[[2]int{i, j}] = 1
			}
		}
	} else {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if inS[i] != inS[j] {
					terms[edgeKey(i, j)] = 1
				}
			}
		}
	}
	if len(terms) == 0 {
		return nil
	}

	return []Cut{{Terms: terms, RHS: 1}}
}

// RoundedCapacityCutSeparator implements the rounded-capacity lazy-cut
// family (I.2): it finds connected components of the customer-only
// support graph, flags any component that is not depot-closed (total
// depot-incident value of exactly two) or whose demand exceeds
// capacity, and emits the rounded-capacity inequality for each.
type RoundedCapacityCutSeparator struct {
	// Directed selects the asymmetric variant (MTZ arc values: every
	// crossing arc in both directions counts separately, and a
	// component's depot adjacency sums both the depot-outbound and the
	// depot-inbound arc) versus the symmetric variant (two-index edge
	// values, read through the normalised (min, max) key).
	Directed bool
}

// Separate implements CutSeparator.
func (s RoundedCapacityCutSeparator) Separate(in *instance.Instance, values map[[2]int]float64) []Cut {
	n := in.N()
	q := in.Fleet().Capacity

	adj := make([][]int, n)
	for key, v := range values {
		if key[0] == instance.Depot || key[1] == instance.Depot {
			continue
		}
		if v+0.5 >= 1 {
			adj[key[0]] = append(adj[key[0]], key[1])
			adj[key[1]] = append(adj[key[1]], key[0])
		}
	}

	visited := make([]bool, n)
	var cuts []Cut
	for start := 1; start < n; start++ {
		if visited[start] {
			continue
		}
		var comp []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			comp = append(comp, u)
			for _, v := range adj[u] {
				if !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			}
		}
		if len(comp) == n-1 {
			// T = V \ {0}: skip, per the specification.
			continue
		}

		demand := 0
		depotAdjacency := 0.0
		inT := make(map[int]bool, len(comp))
		for _, node := range comp {
			demand += in.Demand(node)
			if s.Directed {
				depotAdjacency += values[[2]int{instance.Depot, node}] + values[[2]int{node, instance.Depot}]
			} else {
				depotAdjacency += values[edgeKey(instance.Depot, node)]
			}
			inT[node] = true
		}

		depotClosed := math.Abs(depotAdjacency-2) < 0.5
		if depotClosed && demand <= q {
			continue
		}

		rhs := 2 * math.Ceil(float64(demand)/float64(q))
		terms := make(map[[2]int]float64)
		for u := 0; u < n; u++ {
			if inT[u] {
				continue
			}
			for _, node := range comp {
				if s.Directed {
					terms[[2]int{u, node}] = 1
					terms[[2]int{node, u}] = 1
				} else {
					terms[edgeKey(u, node)] = 1
				}
			}
		}
		cuts = append(cuts, Cut{Terms: terms, RHS: rhs})
	}

	return cuts
}

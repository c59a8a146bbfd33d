package cvrpmip

import (
	"github.com/nextmv-io/sdk/mip"

	"github.com/cvrpsolve/engine/instance"
)

// TwoIndexFormulation builds the symmetric two-index alternative: edge
// indicators y_ij (i < j) with depot-adjacent edges allowed a value in
// {0, 1, 2} (two visits), edge-degree-2 constraints per customer, a
// total-depot-degree bound of 2K, and rounded-capacity cuts applied as
// lazy constraints via the outer cutting-plane loop.
//
// The retrieved solver binding exposes only mip.Bool and mip.Float
// decision variables (no bounded-integer constructor), so each
// depot-adjacent edge's {0,1,2} range is modelled as the sum of two
// Boolean variables z1_j + z2_j with the symmetry-breaking constraint
// z1_j >= z2_j, rather than a single bounded integer — see DESIGN.md.
type TwoIndexFormulation struct {
	in   *instance.Instance
	vars *twoIndexVars
}

// NewTwoIndexFormulation returns a Formulation bound to in.
func NewTwoIndexFormulation(in *instance.Instance) *TwoIndexFormulation {
	return &TwoIndexFormulation{in: in}
}

type twoIndexVars struct {
	// customer-customer edges, key (i, j) with i < j, both >= 1.
	edge map[[2]int]mip.Bool
	// depot edges, key (0, j): z1 is "edge used at least once", z2 is
	// "edge used a second time".
	depotZ1 map[[2]int]mip.Bool
	depotZ2 map[[2]int]mip.Bool
}

// Build constructs a fresh model including any accumulated cuts.
func (f *TwoIndexFormulation) Build(cuts []Cut) (mip.Model, error) {
	n := f.in.N()
	k := f.in.Fleet().VehicleCount

	m := mip.NewModel()
	m.Objective().SetMinimize()

	vars := &twoIndexVars{
		edge:    make(map[[2]int]mip.Bool),
		depotZ1: make(map[[2]int]mip.Bool),
		depotZ2: make(map[[2]int]mip.Bool),
	}

	for j := 1; j < n; j++ {
		key := [2]int{instance.Depot, j}
		z1 := m.NewBool()
		z2 := m.NewBool()
		vars.depotZ1[key] = z1
		vars.depotZ2[key] = z2

		cost := f.in.Cost(instance.Depot, j)
		m.Objective().NewTerm(cost, z1)
		m.Objective().NewTerm(cost, z2)

		symmetryBreak := m.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		symmetryBreak.NewTerm(1.0, z1)
		symmetryBreak.NewTerm(-1.0, z2)
	}
	for i := 1; i < n; i++ {
		for j := i + 1; j < n; j++ {
			key := [2]int{i, j}
			e := m.NewBool()
			vars.edge[key] = e
			m.Objective().NewTerm(f.in.Cost(i, j), e)
		}
	}

	// Edge-degree 2 per customer.
	for i := 1; i < n; i++ {
		degree := m.NewConstraint(mip.Equal, 2.0)
		if z1, ok := vars.depotZ1[edgeKey(instance.Depot, i)]; ok {
			degree.NewTerm(1.0, z1)
			degree.NewTerm(1.0, vars.depotZ2[edgeKey(instance.Depot, i)])
		}
		for j := 1; j < n; j++ {
			if j == i {
				continue
			}
			if e, ok := vars.edge[edgeKey(i, j)]; ok {
				degree.NewTerm(1.0, e)
			}
		}
	}

	// Total depot degree <= 2K.
	depotDegree := m.NewConstraint(mip.LessThanOrEqual, float64(2*k))
	for j := 1; j < n; j++ {
		key := edgeKey(instance.Depot, j)
		depotDegree.NewTerm(1.0, vars.depotZ1[key])
		depotDegree.NewTerm(1.0, vars.depotZ2[key])
	}

	applyTwoIndexCuts(m, vars, cuts)
	f.vars = vars

	return m, nil
}

// edgeKey normalises an edge (i, j) to (min, max) so both endpoints hash
// to the same map key regardless of call order.
func edgeKey(i, j int) [2]int {
	if i < j {
		return [2]int{i, j}
	}

	return [2]int{j, i}
}

// Values reads edge values off a solved mip.Solution, combining each
// depot edge's two Booleans into its {0,1,2} value.
func (f *TwoIndexFormulation) Values(sol mip.Solution) map[[2]int]float64 {
	vars := f.vars
	values := make(map[[2]int]float64, len(vars.edge)+len(vars.depotZ1))
	for key, z1 := range vars.depotZ1 {
		values[key] = sol.Value(z1) + sol.Value(vars.depotZ2[key])
	}
	for key, e := range vars.edge {
		values[key] = sol.Value(e)
	}

	return values
}

// Trace extracts routes from the rounded (threshold 0.5 on each unit of
// a depot edge's possible double count) support graph: each component
// touching the depot with residual degree 2 becomes one route, visited
// via a simple walk that tolerates a broken continuation by accepting
// the partial route and moving to the next unvisited depot edge.
func (f *TwoIndexFormulation) Trace(values map[[2]int]float64) [][]int {
	n := f.in.N()
	visited := make([]bool, n)
	visited[instance.Depot] = true

	adj := make([][]int, n)
	for key, v := range values {
		units := int(v + 0.5)
		for u := 0; u < units; u++ {
			adj[key[0]] = append(adj[key[0]], key[1])
			adj[key[1]] = append(adj[key[1]], key[0])
		}
	}

	var routes [][]int
	usedDepotEdge := make(map[int]int) // how many times node j's depot edge has been consumed
	for _, start := range adj[instance.Depot] {
		if visited[start] && usedDepotEdge[start] >= depotEdgeCapacity(values, start) {
			continue
		}
		usedDepotEdge[start]++
		route := []int{}
		prev := instance.Depot
		cur := start
		for cur != instance.Depot {
			if visited[cur] {
				break
			}
			visited[cur] = true
			route = append(route, cur)
			next := -1
			for _, cand := range adj[cur] {
				if cand == prev {
					continue
				}
				if cand == instance.Depot || !visited[cand] {
					next = cand
					break
				}
			}
			if next == -1 {
				break
			}
			prev, cur = cur, next
		}
		if len(route) > 0 {
			routes = append(routes, route)
		}
	}

	return routes
}

func depotEdgeCapacity(values map[[2]int]float64, node int) int {
	return int(values[edgeKey(instance.Depot, node)] + 0.5)
}

func applyTwoIndexCuts(m mip.Model, vars *twoIndexVars, cuts []Cut) {
	for _, cut := range cuts {
		c := m.NewConstraint(mip.GreaterThanOrEqual, cut.RHS)
		for key, coef := range cut.Terms {
			if key[0] == instance.Depot {
				c.NewTerm(coef, vars.depotZ1[key])
				c.NewTerm(coef, vars.depotZ2[key])

				continue
			}
			if e, ok := vars.edge[key]; ok {
				c.NewTerm(coef, e)
			}
		}
	}
}

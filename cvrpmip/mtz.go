package cvrpmip

import (
	"github.com/nextmv-io/sdk/mip"

	"github.com/cvrpsolve/engine/instance"
)

// MTZFormulation builds the Miller-Tucker-Zemlin directed formulation:
// arc variables x_ij over the complete directed arc set, node-potential
// variables w_i carrying cumulative route demand, degree and
// depot-degree constraints, and MTZ ordering/capacity constraints. It is
// the primary exact method this package supports.
type MTZFormulation struct {
	in *instance.Instance
	x  map[[2]int]mip.Bool
}

// NewMTZFormulation returns a Formulation bound to in.
func NewMTZFormulation(in *instance.Instance) *MTZFormulation {
	return &MTZFormulation{in: in}
}

// Build constructs a fresh model, including any previously accumulated
// cuts, per the outer cutting-plane loop's rebuild-and-resolve design.
func (f *MTZFormulation) Build(cuts []Cut) (mip.Model, error) {
	n := f.in.N()
	q := f.in.Fleet().Capacity
	k := f.in.Fleet().VehicleCount

	m := mip.NewModel()
	m.Objective().SetMinimize()

	x := make(map[[2]int]mip.Bool, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := m.NewBool()
			x[[2]int{i, j}] = v
			m.Objective().NewTerm(f.in.Cost(i, j), v)
		}
	}

	// w_i in [0, Q] for every node, including the depot; the MTZ
	// ordering constraints below are written for i >= 1, so w_0 appears
	// only as the w_j term of the constraints for arcs i -> 0.
	w := make([]mip.Float, n)
	for i := 0; i < n; i++ {
		w[i] = m.NewFloat(0, float64(q))
	}

	// Degree: each customer has exactly one outgoing and one incoming
	// arc.
	for i := 1; i < n; i++ {
		out := m.NewConstraint(mip.Equal, 1.0)
		in := m.NewConstraint(mip.Equal, 1.0)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			out.NewTerm(1.0, x[[2]int{i, j}])
			in.NewTerm(1.0, x[[2]int{j, i}])
		}
	}

	// Depot degree: at most K vehicles leave, at most K return.
	depotOut := m.NewConstraint(mip.LessThanOrEqual, float64(k))
	depotIn := m.NewConstraint(mip.LessThanOrEqual, float64(k))
	for j := 1; j < n; j++ {
		depotOut.NewTerm(1.0, x[[2]int{instance.Depot, j}])
		depotIn.NewTerm(1.0, x[[2]int{j, instance.Depot}])
	}

	// MTZ ordering/capacity: for i >= 1, j != i,
	//   w_i - w_j - (Q + d_i) * x_ij >= d_i - (Q + d_i)
	// The redundant bound x_ii >= 0 from the source formulation is
	// dropped, per the specification's design notes.
	for i := 1; i < n; i++ {
		di := float64(f.in.Demand(i))
		bigM := float64(q) + di
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			c := m.NewConstraint(mip.GreaterThanOrEqual, di-bigM)
			c.NewTerm(1.0, w[i])
			c.NewTerm(-1.0, w[j])
			c.NewTerm(-bigM, x[[2]int{i, j}])
		}
	}

	applyCuts(m, x, cuts)
	f.x = x

	return m, nil
}

// Values reads arc indicator values off a solved mip.Solution.
func (f *MTZFormulation) Values(sol mip.Solution) map[[2]int]float64 {
	values := make(map[[2]int]float64, len(f.x))
	for arc, v := range f.x {
		values[arc] = sol.Value(v)
	}

	return values
}

// Trace extracts routes by following arcs with value > 0.5 starting
// from each depot-outgoing arc, per the specification's route
// extraction contract: robust to disconnected or ill-formed integer
// values, a broken trace yields a partial route and the tracer moves on
// to the next unvisited depot-outgoing arc.
func (f *MTZFormulation) Trace(values map[[2]int]float64) [][]int {
	n := f.in.N()
	visited := make([]bool, n)
	visited[instance.Depot] = true

	arcOn := func(i, j int) bool {
		v, ok := values[[2]int{i, j}]

		return ok && v > 0.5
	}

	var routes [][]int
	for first := 1; first < n; first++ {
		if visited[first] || !arcOn(instance.Depot, first) {
			continue
		}
		route := []int{}
		cur := first
		for !visited[cur] {
			visited[cur] = true
			route = append(route, cur)
			next := -1
			for j := 0; j < n; j++ {
				if j != cur && !visited[j] && arcOn(cur, j) {
					next = j
					break
				}
			}
			if next == -1 {
				break
			}
			cur = next
		}
		routes = append(routes, route)
	}

	return routes
}

// applyCuts adds every accumulated Cut as a new constraint against the
// arc variable map x; Cut.Terms keys must match x's [2]int arc keys.
func applyCuts(m mip.Model, x map[[2]int]mip.Bool, cuts []Cut) {
	for _, cut := range cuts {
		c := m.NewConstraint(mip.GreaterThanOrEqual, cut.RHS)
		for arc, coef := range cut.Terms {
			if v, ok := x[arc]; ok {
				c.NewTerm(coef, v)
			}
		}
	}
}

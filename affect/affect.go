// Package affect turns per-customer demands into route clusters via
// bin-packing: a First-Fit-Decreasing heuristic and a MIP-exact variant
// share one Packer contract, and RouteAffectation maps bin contents back
// onto customer node indices.
package affect

import (
	"context"
	"sort"

	"github.com/cvrpsolve/engine/instance"
)

// Packer places weighted items into bins of uniform capacity.
type Packer interface {
	// Pack returns, for each bin, the indices into items placed there.
	// solvable is false if some item could not be placed in any bin;
	// in that case the returned bins are a partial, non-authoritative
	// best effort and callers must not treat them as a solution.
	Pack(ctx context.Context, items []int, binCapacity int, numBins int) (bins [][]int, solvable bool, err error)
}

// RouteAffectation is a clustering of customer node indices into
// route-sized groups, one group per vehicle, each respecting capacity.
type RouteAffectation struct {
	Clusters [][]int
	Solvable bool
}

// Affect wraps a Packer to place an instance's customers into K bins of
// capacity Q, and translates bin contents (item indices into the
// customer slice) back into node ids.
func Affect(ctx context.Context, in *instance.Instance, p Packer) (RouteAffectation, error) {
	customers := in.Customers()
	items := make([]int, len(customers))
	for i, node := range customers {
		items[i] = in.Demand(node)
	}

	fleet := in.Fleet()
	bins, solvable, err := p.Pack(ctx, items, fleet.Capacity, fleet.VehicleCount)
	if err != nil {
		return RouteAffectation{}, err
	}

	clusters := make([][]int, len(bins))
	for b, itemIdxs := range bins {
		cluster := make([]int, len(itemIdxs))
		for k, idx := range itemIdxs {
			cluster[k] = customers[idx]
		}
		clusters[b] = cluster
	}

	return RouteAffectation{Clusters: clusters, Solvable: solvable}, nil
}

// FFDPacker implements Packer via First-Fit-Decreasing: items are sorted
// by descending size, then each is placed into the lowest-index bin
// with sufficient remaining capacity.
type FFDPacker struct{}

// Pack implements Packer.
func (FFDPacker) Pack(_ context.Context, items []int, binCapacity int, numBins int) ([][]int, bool, error) {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]] > items[order[b]]
	})

	remaining := make([]int, numBins)
	for i := range remaining {
		remaining[i] = binCapacity
	}
	bins := make([][]int, numBins)

	solvable := true
	for _, idx := range order {
		size := items[idx]
		placed := false
		for b := 0; b < numBins; b++ {
			if remaining[b] >= size {
				bins[b] = append(bins[b], idx)
				remaining[b] -= size
				placed = true
				break
			}
		}
		if !placed {
			solvable = false
		}
	}

	return bins, solvable, nil
}

package descent

import (
	"math/rand/v2"

	"github.com/cvrpsolve/engine/solution"
)

// OnePointExchange removes one node from a random non-empty route and
// reinserts it at a random position in a random route (possibly the
// same one). If the solution has zero non-empty routes, it returns the
// input unchanged.
type OnePointExchange struct{}

// RandomNeighbour implements Neighbourhood.
func (OnePointExchange) RandomNeighbour(rng *rand.Rand, s solution.Solution) solution.Solution {
	routes := s.Routes()

	var nonEmpty []int
	for i, r := range routes {
		if len(r) > 0 {
			nonEmpty = append(nonEmpty, i)
		}
	}
	if len(nonEmpty) == 0 {
		return s
	}

	owned := make([][]int, len(routes))
	for i, r := range routes {
		owned[i] = append([]int(nil), r...)
	}

	srcIdx := nonEmpty[rng.IntN(len(nonEmpty))]
	src := owned[srcIdx]
	nodePos := rng.IntN(len(src))
	node := src[nodePos]
	owned[srcIdx] = append(src[:nodePos], src[nodePos+1:]...)

	destIdx := rng.IntN(len(owned))
	dest := owned[destIdx]
	insertPos := rng.IntN(len(dest) + 1)
	newDest := make([]int, 0, len(dest)+1)
	newDest = append(newDest, dest[:insertPos]...)
	newDest = append(newDest, node)
	newDest = append(newDest, dest[insertPos:]...)
	owned[destIdx] = newDest

	return solution.New(owned)
}

// Package descent implements the stochastic-descent metaheuristic: a
// first-improvement random walk over a pluggable family of
// neighbourhood operators, seeded from a nondeterministic source by
// default but overridable for reproducible tests.
package descent

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/internal/logging"
	"github.com/cvrpsolve/engine/solution"
)

// ErrNoNeighbourhoods is returned when a Solver is built with zero
// neighbourhood operators.
var ErrNoNeighbourhoods = errors.New("descent: at least one neighbourhood is required")

// Neighbourhood produces one randomly-chosen modified copy of a
// solution's route data; implementations never mutate their input.
type Neighbourhood interface {
	RandomNeighbour(rng *rand.Rand, s solution.Solution) solution.Solution
}

// Option configures a Solver at construction time.
type Option func(*Solver)

// WithRand overrides the random source; primarily for deterministic
// tests. The default source is seeded from a nondeterministic device.
func WithRand(r *rand.Rand) Option {
	return func(s *Solver) { s.rng = r }
}

// WithLogger attaches a structured logger that receives one Debug
// event per accepted improving move. A nil or omitted Logger is
// replaced with zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// WithEvaluator overrides the penalised evaluator used to compare
// candidates; the default is solution.Search.
func WithEvaluator(e solution.Evaluator) Option {
	return func(s *Solver) { s.evaluator = e }
}

// Solver implements instance.Solver: it constructs a base solution via
// an inner solver, then performs Steps first-improvement random-walk
// iterations over Neighbourhoods, comparing candidates with the
// penalised search evaluator.
type Solver struct {
	Base           instance.Solver
	Steps          int
	Neighbourhoods []Neighbourhood
	rng            *rand.Rand
	logger         *zap.Logger
	evaluator      solution.Evaluator
}

// New builds a Solver. base constructs the initial solution; steps is
// the iteration count S; neighbourhoods must be non-empty.
func New(base instance.Solver, steps int, neighbourhoods []Neighbourhood, opts ...Option) (*Solver, error) {
	if len(neighbourhoods) == 0 {
		return nil, ErrNoNeighbourhoods
	}

	s := &Solver{Base: base, Steps: steps, Neighbourhoods: neighbourhoods, evaluator: solution.Search}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = newSeededRand()
	}

	return s, nil
}

// Solve implements instance.Solver.
func (s *Solver) Solve(ctx context.Context, in *instance.Instance) (instance.Solution, error) {
	baseSol, err := s.Base.Solve(ctx, in)
	if err != nil {
		return nil, err
	}

	best := solution.New(baseSol.Routes())
	bestCost := s.evaluator.Cost(in, best)
	log := logging.OrNop(s.logger)

	for i := 0; i < s.Steps; i++ {
		if ctx.Err() != nil {
			break
		}

		k := s.rng.IntN(len(s.Neighbourhoods))
		candidate := s.Neighbourhoods[k].RandomNeighbour(s.rng, best)
		candidateCost := s.evaluator.Cost(in, candidate)
		if candidateCost < bestCost {
			log.Debug("descent: improving move accepted", zap.Int("step", i), zap.Float64("cost", candidateCost))
			best = candidate
			bestCost = candidateCost
		}
	}

	return best, nil
}

// newSeededRand seeds a PCG source from a nondeterministic device,
// mirroring the std::random_device seeding the source metaheuristic
// uses.
func newSeededRand() *rand.Rand {
	var seed [16]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		// crypto/rand.Read failing is effectively unreachable on any
		// supported platform; fall back to a fixed seed rather than
		// panic inside a constructor.
		return rand.New(rand.NewPCG(1, 1))
	}

	s1 := binary.LittleEndian.Uint64(seed[:8])
	s2 := binary.LittleEndian.Uint64(seed[8:])

	return rand.New(rand.NewPCG(s1, s2))
}

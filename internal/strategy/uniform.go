// Package strategy holds the solving strategies shipped with qaco.
package strategy

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/roach88/qaco/internal/ir"
)

// Config is the cfg understood by the bundled strategies.
type Config struct {
	// Seed fixes the random source for one call.
	Seed *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Uniform picks a candidate service uniformly at random for every task.
// It ignores constraints and the optimization model.
//
// Uniform is safe for concurrent use.
type Uniform struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniform creates a Uniform strategy drawing from rng.
// A nil rng is seeded from the wall clock.
func NewUniform(rng *rand.Rand) *Uniform {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return &Uniform{rng: rng}
}

// Name returns "uniform".
func (u *Uniform) Name() string { return "uniform" }

// Solve returns a single binding mapping every task to a random candidate.
func (u *Uniform) Solve(ctx context.Context, problem *ir.QACOProblem, cfg any) ([]ir.Binding, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	seed, err := seedFrom(cfg)
	if err != nil {
		return nil, false, err
	}

	cws := problem.CompositeWebService
	if len(cws.CandidateServices) == 0 {
		return nil, false, nil
	}

	pick := u.picker(seed)
	binding := ir.Binding{BindingMappings: make([]ir.BindingMapping, 0, len(cws.Tasks))}
	for _, task := range cws.Tasks {
		c := cws.CandidateServices[pick(len(cws.CandidateServices))]
		binding.BindingMappings = append(binding.BindingMappings, ir.Mapping(task, c))
	}
	return []ir.Binding{binding}, true, nil
}

// BindingSpace returns one binding per task, holding a mapping from that task
// to every candidate service, in declaration order.
func (u *Uniform) BindingSpace(ctx context.Context, cws *ir.CompositeWebService, cfg any) (*ir.BindingSpace, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if _, err := seedFrom(cfg); err != nil {
		return nil, false, err
	}
	if len(cws.CandidateServices) == 0 {
		return nil, false, nil
	}

	space := &ir.BindingSpace{Bindings: make([]ir.Binding, 0, len(cws.Tasks))}
	for _, task := range cws.Tasks {
		b := ir.Binding{BindingMappings: make([]ir.BindingMapping, 0, len(cws.CandidateServices))}
		for _, c := range cws.CandidateServices {
			b.BindingMappings = append(b.BindingMappings, ir.Mapping(task, c))
		}
		space.Bindings = append(space.Bindings, b)
	}
	return space, true, nil
}

// picker returns a function drawing ints in [0, n). With a seed the draws
// come from a fresh source; otherwise from the shared one under lock.
func (u *Uniform) picker(seed *int64) func(n int) int {
	if seed != nil {
		s := uint64(*seed)
		rng := rand.New(rand.NewPCG(s, s))
		return rng.IntN
	}
	return func(n int) int {
		u.mu.Lock()
		defer u.mu.Unlock()
		return u.rng.IntN(n)
	}
}

func seedFrom(cfg any) (*int64, error) {
	switch c := cfg.(type) {
	case nil:
		return nil, nil
	case Config:
		return c.Seed, nil
	case *Config:
		if c == nil {
			return nil, nil
		}
		return c.Seed, nil
	default:
		return nil, fmt.Errorf("unsupported strategy config %T", cfg)
	}
}

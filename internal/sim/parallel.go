package sim

import (
	"context"
	"fmt"
	"sync"
)

// Factory builds a fresh Simulator for one member of an ensemble.
type Factory func(seed int64) (*Simulator, error)

// Ensemble runs independent copies of a simulation concurrently, one per
// seed. Each member owns its own System.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run runs every member to completion. The results keep one slot per
// member, left nil for members that could not be built or started; members
// interrupted by ctx still report what they ran. The error is the first
// member error in seed order.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sim, err := e.factory(cfgCopy.Seed)
			if err != nil {
				errs[idx] = fmt.Errorf("ensemble member %d: %w", idx, err)
				return
			}
			results[idx], errs[idx] = sim.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

package sim

import (
	"context"
	"sync"
)

// Factory builds an independent session and clock for one ensemble member.
type Factory func(seed int64) (*Session, Clock, error)

// Ensemble runs several seeded sessions in parallel, one goroutine each.
type Ensemble struct {
	numRuns   int
	seedStart int64
	frames    int
}

func NewEnsemble(numRuns int, seedStart int64, frames int) *Ensemble {
	return &Ensemble{numRuns: numRuns, seedStart: seedStart, frames: frames}
}

func (e *Ensemble) Run(ctx context.Context, factory Factory) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, clock, err := factory(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = NewDriver(s, clock).Run(ctx, e.frames)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

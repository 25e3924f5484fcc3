package sim

import (
	"context"
	"sync"
)

// Sweep runs one orchestrator per config concurrently and collects the
// results in config order. Each run gets its own plant, so runs never
// share state.
type Sweep struct {
	configs []Config
}

func NewSweep(configs []Config) *Sweep {
	return &Sweep{configs: configs}
}

func (s *Sweep) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(s.configs))
	errs := make([]error, len(s.configs))

	var wg sync.WaitGroup
	for i := range s.configs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			orch, err := New(s.configs[idx])
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = orch.Run(ctx)
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

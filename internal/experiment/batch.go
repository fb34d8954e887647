package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/itersolve/internal/config"
	"github.com/san-kum/itersolve/internal/driver"
)

// Batch runs several configured solves concurrently. Each solve gets
// its own cursor and driver; results come back in input order.
type Batch struct {
	configs []*config.Config
}

func NewBatch(configs []*config.Config) *Batch {
	return &Batch{configs: configs}
}

func (b *Batch) Run(ctx context.Context) ([]*driver.Result, error) {
	results := make([]*driver.Result, len(b.configs))
	errs := make([]error, len(b.configs))

	var wg sync.WaitGroup
	for i, cfg := range b.configs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()

			exp := New(cfg)
			if err := exp.Setup(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i, cfg)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

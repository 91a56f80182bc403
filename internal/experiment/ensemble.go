package experiment

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ropecoil/internal/config"
)

// RunEnsemble runs one experiment per config concurrently, at most limit
// at a time (unbounded when limit <= 0). Each run owns its simulator.
// Results keep the order of cfgs; the first failure cancels the rest.
func RunEnsemble(ctx context.Context, cfgs []*config.Config, limit int, opts ...Option) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			e := New(cfg, opts...)
			if err := e.Setup(); err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			res, err := e.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package asyncx

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// All runs fn for every item on its own goroutine and collects the results
// in item order. The first failure cancels the remaining work and is
// returned.
func All[T any, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]R, len(items))

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			result, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

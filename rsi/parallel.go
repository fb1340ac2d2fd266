package rsi

import (
	"golang.org/x/sync/errgroup"
)

// forEachState runs fn for every index in [0, n), at most parallelism at a
// time. Every index is processed; the returned error is the one of the lowest
// failing index, so the result does not depend on scheduling.
func forEachState(n, parallelism int, fn func(i int) error) error {
	if parallelism < 1 {
		parallelism = 1
	}
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			errs[i] = fn(i)
			return nil
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

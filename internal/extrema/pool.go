package extrema

import (
	"context"

	"golang.org/x/sync/errgroup"

	"posbound/internal/rational"
)

// bounds is an exact (lower, upper) position candidate.
type bounds struct {
	lo, hi rational.Num
}

// seed is the identity of merge for positions inside the lawn.
var seed = bounds{lo: rational.FromInt(1000), hi: rational.Zero}

// merge takes the elementwise min/max. It is associative and commutative, so
// partial results can be combined in any grouping or order.
func (b bounds) merge(o bounds) bounds {
	return bounds{lo: rational.Min(b.lo, o.lo), hi: rational.Max(b.hi, o.hi)}
}

// cancelCheckEvery is how many intervals a worker evaluates between context checks.
const cancelCheckEvery = 64

// reduceIntervals evaluates eval on every adjacent pair of points and merges
// the results. Intervals are split into contiguous chunks, one per worker;
// each worker folds its chunk into a private accumulator.
func reduceIntervals(ctx context.Context, workers int, points []rational.Num, eval func(l, r rational.Num) bounds) (bounds, error) {
	intervals := len(points) - 1
	if intervals <= 0 {
		return seed, nil
	}
	workers = max(1, min(workers, intervals))
	chunk := (intervals + workers - 1) / workers
	partial := make([]bounds, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := range workers {
		start, end := w*chunk, min((w+1)*chunk, intervals)
		g.Go(func() error {
			acc := seed
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				acc = acc.merge(eval(points[i], points[i+1]))
			}
			partial[w] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return bounds{}, err
	}

	acc := seed
	for _, p := range partial {
		acc = acc.merge(p)
	}
	return acc, nil
}

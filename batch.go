package quadtree

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SearchBatch runs one search per box using up to workers goroutines, and
// returns the results in the same order as boxes. A non-positive workers uses
// GOMAXPROCS.
//
// s must not be modified while the batch runs, unless it does its own
// locking (as Locked does).
func SearchBatch(ctx context.Context, s Searcher, boxes []BBox, workers int) ([][]Point, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([][]Point, len(boxes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, bb := range boxes {
		if gctx.Err() != nil {
			break
		}
		i, bb := i, bb
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Search(bb)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

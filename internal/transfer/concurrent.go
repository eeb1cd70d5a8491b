package transfer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"xcmScope/internal/model"
)

// ExtractConcurrent splits blocks into contiguous chunks, extracts each chunk
// on its own worker and merges the partial results in input order. Zero
// workers means GOMAXPROCS.
func (e *Extractor) ExtractConcurrent(ctx context.Context, blocks []model.Block, workers int) (Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || len(blocks) <= 1 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return e.Extract(blocks), nil
	}
	if workers > len(blocks) {
		workers = len(blocks)
	}

	chunkSize := (len(blocks) + workers - 1) / workers
	chunks := make([][]model.Block, 0, workers)
	for start := 0; start < len(blocks); start += chunkSize {
		end := min(start+chunkSize, len(blocks))
		chunks = append(chunks, blocks[start:end])
	}

	partials := make([]Result, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[i] = e.Extract(chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	merged := Result{}
	for _, partial := range partials {
		merged.Transfers = append(merged.Transfers, partial.Transfers...)
		merged.Failures = append(merged.Failures, partial.Failures...)
		merged.Skipped += partial.Skipped
	}
	return merged, nil
}

package pkg

import (
	"context"
	"fmt"
	"sync"
)

// SweepOptions selects the hypercubic dimensions of a batch run
type SweepOptions struct {
	Start, End, Step int
	// Jobs is the number of instances solved concurrently; 1 solves them in order
	Jobs int
}

// DefaultSweepOptions returns the reference sweep 200, 225, ..., 975
func DefaultSweepOptions() SweepOptions {
	return SweepOptions{Start: 200, End: 975, Step: 25, Jobs: 1}
}

// Dimensions expands the options into the list of dimensions, End included
func (o SweepOptions) Dimensions() ([]int, error) {
	if o.Step <= 0 {
		return nil, fmt.Errorf("%w: sweep step %d must be positive", ErrInvalidParameter, o.Step)
	}
	if o.Start < MinDimension || o.End < o.Start {
		return nil, fmt.Errorf("%w: sweep range [%d, %d] is empty or below %d", ErrInvalidParameter, o.Start, o.End, MinDimension)
	}
	dims := make([]int, 0, (o.End-o.Start)/o.Step+1)
	for d := o.Start; d <= o.End; d += o.Step {
		dims = append(dims, d)
	}
	return dims, nil
}

// SweepRow is the outcome for one hypercubic dimension
type SweepRow struct {
	Dimension  int
	Comparison Comparison
}

// Sweep compares single-target and dimension-target blocksizes of the hypercubic
// lattices selected by opts. Rows are returned in dimension order. ctx is only
// checked between instances.
func (e *Estimator) Sweep(ctx context.Context, opts SweepOptions) ([]SweepRow, error) {
	dims, err := opts.Dimensions()
	if err != nil {
		return nil, err
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs > len(dims) {
		jobs = len(dims)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := make([]SweepRow, len(dims))
	indices := make(chan int)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if ctx.Err() != nil {
					continue
				}
				cmp, err := e.Compare(HypercubicParameters(dims[i], 1))
				if err != nil {
					fail(fmt.Errorf("sweep dimension %d: %w", dims[i], err))
					continue
				}
				rows[i] = SweepRow{Dimension: dims[i], Comparison: cmp}
				e.logger.Info("sweep instance solved",
					"dimension", dims[i],
					"single", cmp.Single.BlocksizeFloat64(),
					"multi", cmp.Multi.BlocksizeFloat64(),
				)
			}
		}()
	}

feed:
	for i := range dims {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

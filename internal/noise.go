package internal

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidSimulation indicates simulation parameters outside their domain
var ErrInvalidSimulation = errors.New("invalid simulation parameters")

// Summary describes the empirical distribution of the minimal squared projection
type Summary struct {
	Trials  int
	Median  float64
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	// Samples holds every trial outcome in increasing order
	Samples []float64
}

// SimulateMinProjection draws trials independent experiments. Each experiment samples
// targets uniform unit vectors of dimension dim and records the smallest squared norm
// of their projections onto the first projDim coordinates.
//
// A uniform unit vector is a normalised standard Gaussian vector, so the squared
// projection is the share of the first projDim squared coordinates in the total.
func SimulateMinProjection(dim, projDim, targets, trials int, src rand.Source) (Summary, error) {
	switch {
	case dim < 2:
		return Summary{}, fmt.Errorf("%w: dimension %d must be at least 2", ErrInvalidSimulation, dim)
	case projDim < 1 || projDim > dim:
		return Summary{}, fmt.Errorf("%w: projection dimension %d outside [1, %d]", ErrInvalidSimulation, projDim, dim)
	case targets < 1:
		return Summary{}, fmt.Errorf("%w: target count %d must be at least 1", ErrInvalidSimulation, targets)
	case trials < 1:
		return Summary{}, fmt.Errorf("%w: trial count %d must be at least 1", ErrInvalidSimulation, trials)
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	samples := make([]float64, trials)
	for i := range samples {
		best := math.Inf(1)
		for j := 0; j < targets; j++ {
			var head, tail float64
			for k := 0; k < dim; k++ {
				x := normal.Rand()
				if k < projDim {
					head += x * x
				} else {
					tail += x * x
				}
			}
			if sq := head / (head + tail); sq < best {
				best = sq
			}
		}
		samples[i] = best
	}

	sort.Float64s(samples)
	mean, std := stat.MeanStdDev(samples, nil)
	if trials == 1 {
		std = 0
	}
	return Summary{
		Trials:  trials,
		Median:  stat.Quantile(0.5, stat.Empirical, samples, nil),
		Mean:    mean,
		StdDev:  std,
		Min:     samples[0],
		Max:     samples[trials-1],
		Samples: samples,
	}, nil
}

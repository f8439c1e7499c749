// Package report renders blocksize estimates as terminal tables, JSON lines and HTML charts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
)

// Record is the JSON form of one estimate
type Record struct {
	Name        string  `json:"name"`
	Dimension   int     `json:"dimension"`
	Targets     int     `json:"targets"`
	Log2Volume  float64 `json:"log2_volume"`
	SquaredNorm float64 `json:"squared_norm"`
	Blocksize   float64 `json:"blocksize"`
	// Exact is the blocksize with every digit of the working precision
	Exact      string   `json:"blocksize_exact"`
	Iterations int      `json:"iterations"`
	Warnings   []string `json:"warnings,omitempty"`
}

// NewRecord flattens an estimate
func NewRecord(est pkg.Estimate) Record {
	exact := ""
	if est.Blocksize != nil {
		exact = est.Blocksize.Text('g', -1)
	}
	var sq float64
	if est.Parameters.SquaredTargetNorm != nil {
		sq, _ = est.Parameters.SquaredTargetNorm.Float64()
	}
	return Record{
		Name:        est.Parameters.Name,
		Dimension:   est.Parameters.Dimension,
		Targets:     est.Parameters.TargetCount,
		Log2Volume:  log2(est.Parameters.Volume),
		SquaredNorm: sq,
		Blocksize:   est.BlocksizeFloat64(),
		Exact:       exact,
		Iterations:  est.Iterations,
		Warnings:    est.Warnings,
	}
}

// WriteJSON writes one JSON object per estimate
func WriteJSON(w io.Writer, ests []pkg.Estimate) error {
	enc := json.NewEncoder(w)
	for _, est := range ests {
		if err := enc.Encode(NewRecord(est)); err != nil {
			return fmt.Errorf("encoding %s: %w", est.Parameters.Name, err)
		}
	}
	return nil
}

// SweepEstimates lists the estimates of a sweep, single target first for each dimension
func SweepEstimates(rows []pkg.SweepRow) []pkg.Estimate {
	ests := make([]pkg.Estimate, 0, 2*len(rows))
	for _, row := range rows {
		ests = append(ests, row.Comparison.Single, row.Comparison.Multi)
	}
	return ests
}

// log2 returns log2 x to float64 accuracy, for x of any magnitude
func log2(x *big.Float) float64 {
	if x == nil || x.Sign() <= 0 {
		return 0
	}
	mant := new(big.Float)
	exp := x.MantExp(mant)
	m, _ := mant.Float64()
	return float64(exp) + math.Log2(m)
}

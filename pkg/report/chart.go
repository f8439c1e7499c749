package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
)

// WriteSweepChart writes an HTML page plotting blocksize against dimension for
// the single-target and the dimension-target series of a sweep
func WriteSweepChart(w io.Writer, rows []pkg.SweepRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no sweep rows to plot")
	}
	dims := make([]int, len(rows))
	single := make([]opts.LineData, len(rows))
	multi := make([]opts.LineData, len(rows))
	for i, row := range rows {
		dims[i] = row.Dimension
		single[i] = opts.LineData{Value: round2(row.Comparison.Single.BlocksizeFloat64())}
		multi[i] = opts.LineData{Value: round2(row.Comparison.Multi.BlocksizeFloat64())}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Primal attack blocksize on Z^d",
			Subtitle: fmt.Sprintf("d = %d..%d, unit volume, unit target norm", dims[0], dims[len(dims)-1]),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Hypercubic sweep", Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "dimension"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "blocksize", Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(dims).
		AddSeries("single target", single).
		AddSeries("dimension targets", multi)

	page := components.NewPage().SetPageTitle("Hypercubic sweep")
	page.AddCharts(line)
	return page.Render(w)
}

// WriteHistogram writes an HTML histogram of samples with the given number of bins.
// reference is shown in the subtitle, typically the analytic estimate.
func WriteHistogram(w io.Writer, title string, samples []float64, bins int, reference float64) error {
	if len(samples) == 0 || bins < 1 {
		return fmt.Errorf("histogram needs samples and at least one bin")
	}
	centres, counts := histogram(samples, bins)

	labels := make([]string, bins)
	items := make([]opts.BarData, bins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.4f", centres[i])
		items[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d samples, analytic median %.6f", len(samples), reference)}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	bar.SetXAxis(labels).
		AddSeries("count", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))

	page := components.NewPage().SetPageTitle(title)
	page.AddCharts(bar)
	return page.Render(w)
}

// histogram buckets samples into bins of equal width over [min, max]
func histogram(samples []float64, bins int) ([]float64, []int) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}

	counts := make([]int, bins)
	for _, s := range samples {
		i := int((s - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	centres := make([]float64, bins)
	for i := range centres {
		centres[i] = lo + (float64(i)+0.5)*width
	}
	return centres, counts
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

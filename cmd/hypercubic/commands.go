package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/pflag"

	"github.com/htmb-bot/NTRU-and-Hypercubic/internal"
	"github.com/htmb-bot/NTRU-and-Hypercubic/internal/config"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/report"
)

// smallDimensionCaveat is printed instead of an estimate for dimensions where the model breaks down
const smallDimensionCaveat = "Dimension %d is below %d: the GSA model behind this estimate is unreliable there " +
	"and no estimate is computed. Use a dimension of at least %d."

func addFormatFlag(fs *pflag.FlagSet, cfg *config.Config) *string {
	return fs.String("format", cfg.Output.Format, "output format: table or json")
}

func checkFormat(format string) error {
	if format != "table" && format != "json" {
		return usagef("--format must be table or json, got %q", format)
	}
	return nil
}

// printEstimates writes estimates in the selected format
func (e *env) printEstimates(format string, ests []pkg.Estimate) error {
	if format == "json" {
		return report.WriteJSON(e.stdout, ests)
	}
	_, err := fmt.Fprintln(e.stdout, report.EstimateTable(ests))
	return err
}

// solve estimates params with its own target count, and with the two reference
// counts when compare is set
func (e *env) solve(params pkg.Parameters, compare bool) ([]pkg.Estimate, error) {
	e.logger.Debug("solving", "parameters", pretty.Sprint(params))
	if !compare {
		est, err := e.est.Blocksize(params)
		if err != nil {
			return nil, err
		}
		return []pkg.Estimate{est}, nil
	}
	cmp, err := e.est.Compare(params)
	if err != nil {
		return nil, err
	}
	return []pkg.Estimate{cmp.Single, cmp.Multi}, nil
}

func runSweep(ctx context.Context, e *env, args []string) error {
	opts := e.cfg.SweepOptions()
	fs := e.subFlags("sweep", "[--start D] [--end D] [--step S] [--jobs N] [--format table|json] [--html FILE]")
	fs.IntVar(&opts.Start, "start", opts.Start, "first dimension")
	fs.IntVar(&opts.End, "end", opts.End, "last dimension, included")
	fs.IntVar(&opts.Step, "step", opts.Step, "dimension increment")
	fs.IntVar(&opts.Jobs, "jobs", opts.Jobs, "dimensions solved concurrently")
	format := addFormatFlag(fs, e.cfg)
	html := fs.String("html", e.cfg.Output.HTML, "write an HTML chart of the sweep to this file")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("sweep: unexpected argument %q", fs.Arg(0))
	}

	rows, err := e.est.Sweep(ctx, opts)
	if err != nil {
		return err
	}

	if *format == "json" {
		if err := report.WriteJSON(e.stdout, report.SweepEstimates(rows)); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(e.stdout, report.SweepTable(rows)); err != nil {
		return err
	}

	if *html != "" {
		if err := writeFile(*html, func(f *os.File) error { return report.WriteSweepChart(f, rows) }); err != nil {
			return err
		}
		e.logger.Info("sweep chart written", "path", *html)
	}
	return nil
}

func runManual(_ context.Context, e *env, args []string) error {
	fs := e.subFlags("manual", "--dimension D --volume V (--norm R | --squared-norm S) [--targets N] [--compare]")
	dimension := fs.Int("dimension", 0, "lattice dimension")
	volume := fs.String("volume", "1", "lattice volume: decimal, scientific or b^e")
	norm := fs.String("norm", "", "norm of the target vectors")
	squared := fs.String("squared-norm", "", "squared norm of the target vectors")
	targets := fs.Int("targets", 1, "number of equally short targets")
	compare := fs.Bool("compare", false, "solve with 1 target and with dimension targets instead")
	name := fs.String("name", "manual", "name shown in the report")
	format := addFormatFlag(fs, e.cfg)
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}
	if !fs.Changed("dimension") {
		return usagef("manual: --dimension is required")
	}
	if *norm == "" && *squared == "" {
		return usagef("manual: one of --norm or --squared-norm is required")
	}

	if *dimension < pkg.MinAccurateDimension {
		fmt.Fprintln(e.stdout, report.Caveat(fmt.Sprintf(smallDimensionCaveat,
			*dimension, pkg.MinAccurateDimension, pkg.MinAccurateDimension)))
		return nil
	}

	prec := e.est.Precision().Prec
	vol, err := internal.ParseReal(*volume, prec)
	if err != nil {
		return usagef("manual: --volume: %v", err)
	}
	sq, err := config.SquaredNorm(*norm, *squared, prec)
	if err != nil {
		return usagef("manual: %v", err)
	}
	params := pkg.Parameters{
		Name:              *name,
		Dimension:         *dimension,
		Volume:            vol,
		SquaredTargetNorm: sq,
		TargetCount:       *targets,
	}
	if err := params.Validate(); err != nil {
		return usagef("manual: %v", err)
	}

	ests, err := e.solve(params, *compare)
	if err != nil {
		return err
	}
	return e.printEstimates(*format, ests)
}

func runPreset(_ context.Context, e *env, args []string) error {
	fs := e.subFlags("preset", "NAME... [--targets N] [--compare] [--format table|json]")
	targets := fs.Int("targets", 0, "override the number of targets of every preset")
	compare := fs.Bool("compare", false, "solve with 1 target and with dimension targets instead")
	format := addFormatFlag(fs, e.cfg)
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}

	names := fs.Args()
	if len(names) == 0 {
		names = []string{pkg.GetDefaultParameterSet().Name}
	}
	var ests []pkg.Estimate
	for _, name := range names {
		params, err := pkg.GetParameterSet(name)
		if err != nil {
			return usagef("preset: %v (see `hypercubic presets`)", err)
		}
		if *targets > 0 {
			params = params.WithTargetCount(*targets)
		}
		got, err := e.solve(params, *compare)
		if err != nil {
			return err
		}
		ests = append(ests, got...)
	}
	return e.printEstimates(*format, ests)
}

func runPresets(_ context.Context, e *env, args []string) error {
	fs := e.subFlags("presets", "")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	var params []pkg.Parameters
	for _, name := range pkg.ListParameterSets() {
		p, err := pkg.GetParameterSet(name)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	_, err := fmt.Fprintln(e.stdout, report.PresetList(params))
	return err
}

func runFalconLike(_ context.Context, e *env, args []string) error {
	fs := e.subFlags("falcon-like", "--degree N --log-q K [--targets N] [--compare]")
	degree := fs.Int("degree", 512, "ring degree, a power of two")
	logQ := fs.Int("log-q", 14, "the modulus is the largest NTT-friendly prime below 2^log-q")
	targets := fs.Int("targets", 0, "override the number of targets (default: the degree)")
	compare := fs.Bool("compare", false, "solve with 1 target and with dimension targets instead")
	format := addFormatFlag(fs, e.cfg)
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}

	params, err := pkg.FalconLikeParameters(*degree, *logQ)
	if err != nil {
		return usagef("falcon-like: %v", err)
	}
	if *targets > 0 {
		params = params.WithTargetCount(*targets)
	}
	ests, err := e.solve(params, *compare)
	if err != nil {
		return err
	}
	return e.printEstimates(*format, ests)
}

func runModuli(_ context.Context, e *env, args []string) error {
	fs := e.subFlags("moduli", "--degree N --log-q K [--count C]")
	degree := fs.Int("degree", 512, "ring degree n; moduli satisfy q = 1 mod 2n")
	logQ := fs.Int("log-q", 14, "moduli are searched below 2^log-q")
	count := fs.Int("count", 5, "number of moduli to list")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	gen, err := pkg.NewModulusGenerator(*degree, *logQ)
	if err != nil {
		return usagef("moduli: %v", err)
	}
	moduli, err := gen.BelowN(*count)
	for _, q := range moduli {
		fmt.Fprintf(e.stdout, "%s\t%d bits\n", q, q.BitLen())
	}
	if err != nil {
		e.logger.Warn("fewer moduli than requested", "found", len(moduli), "error", err)
	}
	return nil
}

func runSimulate(_ context.Context, e *env, args []string) error {
	fs := e.subFlags("simulate", "--dimension D --proj P [--targets N] [--trials T] [--seed S] [--html FILE]")
	dimension := fs.Int("dimension", 200, "dimension of the unit vectors")
	proj := fs.Int("proj", 100, "dimension of the projection")
	targets := fs.Int("targets", 1, "number of vectors per trial")
	trials := fs.Int("trials", 1000, "number of trials")
	seed := fs.String("seed", "hypercubic", "seed of the deterministic sampler")
	html := fs.String("html", "", "write an HTML histogram of the trials to this file")
	bins := fs.Int("bins", 40, "histogram bins")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	sum, err := internal.SimulateMinProjection(*dimension, *proj, *targets, *trials, internal.NewSeededSource(*seed))
	if err != nil {
		return usagef("simulate: %v", err)
	}
	analytic, err := e.est.ExpectedMinSquaredProjection(*dimension, e.est.Precision().Float(*proj), *targets)
	if err != nil {
		return err
	}
	want, _ := analytic.Float64()

	fmt.Fprintln(e.stdout, report.SimulationTable(*dimension, *proj, *targets,
		sum.Median, sum.Mean, sum.StdDev, want, sum.Trials))

	if *html != "" {
		title := fmt.Sprintf("Minimal squared projection, d=%d, k=%d, N=%d", *dimension, *proj, *targets)
		if err := writeFile(*html, func(f *os.File) error {
			return report.WriteHistogram(f, title, sum.Samples, *bins, want)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

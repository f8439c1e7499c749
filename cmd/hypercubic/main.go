// hypercubic estimates the BKZ blocksize needed by the primal attack to recover
// one of several equally short vectors, for hypercubic lattices Z^d and for NTRU
// and Falcon key-recovery lattices.
//
// Global flags come before the sub-command:
//
//	hypercubic [--config FILE] [--precision BITS] [--guard BITS] [--eps EPS] [--max-iter N] [--log-level LEVEL] COMMAND [flags]
//
// Commands:
//
//	sweep        blocksizes of Z^d over a range of dimensions, 1 target and d targets
//	manual       blocksize of a single instance given by dimension, volume and norm
//	preset       blocksize of registered parameter sets
//	presets      list registered parameter sets
//	falcon-like  blocksize of a Falcon-shaped instance with an NTT-friendly modulus
//	moduli       list NTT-friendly moduli near a power of two
//	simulate     Monte Carlo check of the minimal projection estimate
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/kr/pretty"
	"github.com/spf13/pflag"

	"github.com/htmb-bot/NTRU-and-Hypercubic/internal/config"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		code := exitCode(err)
		if code == 1 {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		stop()
		os.Exit(code)
	}
}

// exitCode returns the status carried by err or any error it wraps, 1 by default
func exitCode(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// usageError reports a malformed command line; it exits with status 2
type usageError struct {
	msg string
}

func (e usageError) Error() string { return "usage: " + e.msg }

func (e usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// env is shared by the sub-commands
type env struct {
	cfg    *config.Config
	est    *pkg.Estimator
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"sweep":       {"blocksizes of Z^d over a range of dimensions", runSweep},
	"manual":      {"blocksize of a single instance", runManual},
	"preset":      {"blocksize of registered parameter sets", runPreset},
	"presets":     {"list registered parameter sets", runPresets},
	"falcon-like": {"blocksize of a Falcon-shaped instance with an NTT-friendly modulus", runFalconLike},
	"moduli":      {"list NTT-friendly moduli near a power of two", runModuli},
	"simulate":    {"Monte Carlo check of the minimal projection estimate", runSimulate},
}

var commandOrder = []string{"sweep", "manual", "preset", "presets", "falcon-like", "moduli", "simulate"}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		configPath  string
		precision   uint
		guard       uint
		eps         float64
		maxIter     int
		logLevel    string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("hypercubic", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file (default: $"+config.EnvVar+")")
	flagSet.UintVar(&precision, "precision", 0, "working precision in bits (default 100)")
	flagSet.UintVar(&guard, "guard", 0, "extra bits carried inside special functions (default 32)")
	flagSet.Float64Var(&eps, "eps", 0, "bisection tolerance (default 1e-10)")
	flagSet.IntVar(&maxIter, "max-iter", 0, "iteration cap of bisections and continued fractions (default 10000)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default warn)")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usagef("%v", err)
	}
	if showVersion {
		fmt.Fprintf(stdout, "hypercubic %s\n", version)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return usagef("missing command")
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return usagef("unknown command %q", rest[0])
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if flagSet.Changed("precision") {
		cfg.Precision.Bits = precision
	}
	if flagSet.Changed("guard") {
		cfg.Precision.Guard = guard
	}
	if flagSet.Changed("eps") {
		cfg.Precision.Eps = eps
	}
	if flagSet.Changed("max-iter") {
		cfg.Precision.MaxIterations = maxIter
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if err := cfg.RegisterInstances(); err != nil {
		return err
	}
	logger.Debug("configuration resolved", "config", pretty.Sprint(cfg))

	est, err := pkg.NewEstimator(cfg.PrecisionContext(), logger)
	if err != nil {
		return err
	}

	e := &env{cfg: cfg, est: est, logger: logger, stdout: stdout, stderr: stderr}
	return cmd.run(ctx, e, rest[1:])
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `hypercubic estimates the BKZ blocksize of the primal attack when several
equally short vectors are sought at once.

Usage:
  hypercubic [global flags] COMMAND [flags]

Commands:
`)
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nGlobal flags:\n")
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}

// subFlags returns the flag set of a sub-command, with help going to stderr
func (e *env) subFlags(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage:\n  hypercubic %s %s\n\nFlags:\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses a sub-command's flags; help is not an error
func parse(fs *pflag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, usagef("%s: %v", fs.Name(), err)
	}
	return true, nil
}

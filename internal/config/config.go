// Package config loads the YAML configuration of the hypercubic estimator.
//
// A configuration file is optional. When present it is named by the --config
// flag or the HYPERCUBIC_CONFIG environment variable and is decoded on top of
// [Default], so a file only needs the keys it changes. Command-line flags are
// applied by the caller after loading and take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/htmb-bot/NTRU-and-Hypercubic/internal"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/arithmetic"
)

// EnvVar names the environment variable consulted by Load
const EnvVar = "HYPERCUBIC_CONFIG"

// Config is the estimator configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Precision configures the arbitrary-precision domain of every solve.
	Precision PrecisionConfig `yaml:"precision"`

	// Sweep configures the automated hypercubic sweep.
	Sweep SweepConfig `yaml:"sweep"`

	// Output configures how results are rendered.
	Output OutputConfig `yaml:"output"`

	// Instances are extra named parameter sets, registered next to the presets.
	Instances []InstanceConfig `yaml:"instances"`
}

// PrecisionConfig configures arithmetic.Precision.
type PrecisionConfig struct {
	// Bits is the working precision.
	// Default: 100
	Bits uint `yaml:"bits"`

	// Guard is the number of extra bits carried inside special functions.
	// Default: 32
	Guard uint `yaml:"guard"`

	// Eps is the absolute bisection tolerance.
	// Default: 1e-10
	Eps float64 `yaml:"eps"`

	// MaxIterations caps bisections and continued fractions.
	// Default: 10000
	MaxIterations int `yaml:"max_iterations"`
}

// SweepConfig configures pkg.SweepOptions.
type SweepConfig struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
	Step  int `yaml:"step"`
	// Jobs is the number of dimensions solved concurrently.
	Jobs int `yaml:"jobs"`
}

// OutputConfig configures result rendering.
type OutputConfig struct {
	// Format is table or json.
	Format string `yaml:"format"`

	// HTML, when set, is the path of the chart written after a sweep.
	HTML string `yaml:"html"`
}

// InstanceConfig describes a user parameter set. Volume and norms accept
// decimal, scientific or b^e notation. Exactly one of Norm and SquaredNorm is set.
type InstanceConfig struct {
	Name        string `yaml:"name"`
	Dimension   int    `yaml:"dimension"`
	Volume      string `yaml:"volume"`
	Norm        string `yaml:"norm,omitempty"`
	SquaredNorm string `yaml:"squared_norm,omitempty"`
	Targets     int    `yaml:"targets"`
}

// Default returns the default configuration.
func Default() *Config {
	sweep := pkg.DefaultSweepOptions()
	return &Config{
		LogLevel: "warn",
		Precision: PrecisionConfig{
			Bits:          arithmetic.DefaultPrec,
			Guard:         arithmetic.DefaultGuard,
			Eps:           arithmetic.DefaultEps,
			MaxIterations: arithmetic.DefaultMaxIter,
		},
		Sweep: SweepConfig{
			Start: sweep.Start,
			End:   sweep.End,
			Step:  sweep.Step,
			Jobs:  sweep.Jobs,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Load loads the file named by HYPERCUBIC_CONFIG, or returns Default when it is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes the file at path on top of Default. Unknown keys are errors;
// an empty file yields Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if err := c.PrecisionContext().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("precision: %w", err))
	}

	if _, err := c.SweepOptions().Dimensions(); err != nil {
		errs = append(errs, fmt.Errorf("sweep: %w", err))
	}
	if c.Sweep.Jobs < 1 {
		errs = append(errs, fmt.Errorf("sweep.jobs must be at least 1"))
	}

	formats := []string{"table", "json"}
	if !contains(formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of: %v", formats))
	}

	seen := make(map[string]bool)
	for i, inst := range c.Instances {
		if inst.Name == "" {
			errs = append(errs, fmt.Errorf("instances[%d].name is required", i))
		} else if seen[inst.Name] {
			errs = append(errs, fmt.Errorf("instances[%d]: duplicate name %s", i, inst.Name))
		}
		seen[inst.Name] = true
		if _, err := inst.Parameters(c.Precision.Bits); err != nil {
			errs = append(errs, fmt.Errorf("instances[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q must be one of: debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}

// PrecisionContext builds the precision domain described by c.
func (c *Config) PrecisionContext() arithmetic.Precision {
	p := arithmetic.NewPrecision(c.Precision.Bits).
		WithEps(c.Precision.Eps).
		WithMaxIter(c.Precision.MaxIterations)
	p.Guard = c.Precision.Guard
	return p
}

// SweepOptions returns the configured sweep.
func (c *Config) SweepOptions() pkg.SweepOptions {
	return pkg.SweepOptions{
		Start: c.Sweep.Start,
		End:   c.Sweep.End,
		Step:  c.Sweep.Step,
		Jobs:  c.Sweep.Jobs,
	}
}

// RegisterInstances adds every configured instance to the parameter registry.
func (c *Config) RegisterInstances() error {
	for _, inst := range c.Instances {
		params, err := inst.Parameters(c.Precision.Bits)
		if err != nil {
			return fmt.Errorf("instance %s: %w", inst.Name, err)
		}
		pkg.RegisterParameterSet(params)
	}
	return nil
}

// Parameters converts the instance into lattice parameters, parsing numbers at prec bits.
func (inst InstanceConfig) Parameters(prec uint) (pkg.Parameters, error) {
	vol, err := internal.ParseReal(inst.Volume, prec)
	if err != nil {
		return pkg.Parameters{}, fmt.Errorf("volume: %w", err)
	}
	sq, err := SquaredNorm(inst.Norm, inst.SquaredNorm, prec)
	if err != nil {
		return pkg.Parameters{}, err
	}
	params := pkg.Parameters{
		Name:              inst.Name,
		Dimension:         inst.Dimension,
		Volume:            vol,
		SquaredTargetNorm: sq,
		TargetCount:       inst.Targets,
	}
	return params, params.Validate()
}

// SquaredNorm resolves a target given either as a norm or as a squared norm.
func SquaredNorm(norm, squared string, prec uint) (*big.Float, error) {
	switch {
	case norm != "" && squared != "":
		return nil, fmt.Errorf("norm and squared_norm are mutually exclusive")
	case squared != "":
		sq, err := internal.ParseReal(squared, prec)
		if err != nil {
			return nil, fmt.Errorf("squared_norm: %w", err)
		}
		return sq, nil
	case norm != "":
		r, err := internal.ParseReal(norm, prec)
		if err != nil {
			return nil, fmt.Errorf("norm: %w", err)
		}
		return r.Mul(r, r), nil
	default:
		return nil, fmt.Errorf("one of norm or squared_norm is required")
	}
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

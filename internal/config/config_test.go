package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg/arithmetic"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hypercubic.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Precision.Bits != 100 {
		t.Errorf("expected precision.bits=100, got %d", cfg.Precision.Bits)
	}
	if cfg.Sweep.Start != 200 || cfg.Sweep.End != 975 || cfg.Sweep.Step != 25 {
		t.Errorf("unexpected default sweep: %+v", cfg.Sweep)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelWarn {
		t.Errorf("expected warn level, got %v (%v)", level, err)
	}
}

func TestLoadWithoutEnvironment(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
precision:
  bits: 160
  eps: 1e-20
sweep:
  start: 300
  end: 400
  jobs: 4
output:
  format: json
  html: sweep.html
instances:
  - name: toy-ntru
    dimension: 400
    volume: "257^200"
    squared_norm: "400"
    targets: 200
  - name: toy-lwe
    dimension: 300
    volume: "1e60"
    norm: "3.5"
    targets: 1
`)
	t.Setenv(EnvVar, path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	p := cfg.PrecisionContext()
	if p.Prec != 160 || p.Guard != arithmetic.DefaultGuard || p.MaxIter != arithmetic.DefaultMaxIter {
		t.Errorf("unexpected precision context %+v", p)
	}
	if eps, _ := p.Eps.Float64(); eps != 1e-20 {
		t.Errorf("expected eps=1e-20, got %v", eps)
	}

	opts := cfg.SweepOptions()
	if opts.Start != 300 || opts.End != 400 || opts.Step != 25 || opts.Jobs != 4 {
		t.Errorf("file values not merged over defaults: %+v", opts)
	}

	if err := cfg.RegisterInstances(); err != nil {
		t.Fatalf("RegisterInstances() failed: %v", err)
	}
	lwe, err := pkg.GetParameterSet("toy-lwe")
	if err != nil {
		t.Fatalf("instance not registered: %v", err)
	}
	if sq, _ := lwe.SquaredTargetNorm.Float64(); sq != 12.25 {
		t.Errorf("expected squared norm 12.25, got %v", sq)
	}
	ntru, err := pkg.GetParameterSet("toy-ntru")
	if err != nil {
		t.Fatalf("instance not registered: %v", err)
	}
	if !ntru.Volume.IsInt() || ntru.TargetCount != 200 {
		t.Errorf("unexpected toy-ntru parameters %s", ntru)
	}
}

func TestLoadFileEmpty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Precision.Bits != arithmetic.DefaultPrec {
		t.Errorf("expected defaults, got %+v", cfg.Precision)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if _, err := LoadFile(writeConfig(t, "precision:\n  digits: 30\n")); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.Precision.Bits = 16
	cfg.Sweep.Step = 0
	cfg.Output.Format = "xml"
	cfg.Instances = []InstanceConfig{
		{Name: "a", Dimension: 300, Volume: "1", Norm: "1", SquaredNorm: "1", Targets: 1},
		{Name: "a", Dimension: 300, Volume: "1", Norm: "1", Targets: 1},
		{Dimension: 300, Volume: "-1", Norm: "1", Targets: 1},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"log_level", "precision", "sweep", "output.format", "mutually exclusive", "duplicate name", "instances[2].name is required", "volume"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
	if !errors.Is(err, arithmetic.ErrInvalidPrecision) {
		t.Errorf("expected ErrInvalidPrecision in %v", err)
	}
}

func TestSquaredNorm(t *testing.T) {
	sq, err := SquaredNorm("1.17", "", 100)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := sq.Float64(); f < 1.3688 || f > 1.3690 {
		t.Errorf("expected 1.3689, got %v", f)
	}
	if _, err := SquaredNorm("", "", 100); err == nil {
		t.Error("expected an error without a norm")
	}
}

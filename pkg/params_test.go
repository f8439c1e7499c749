package pkg

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/kr/pretty"
)

func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Parameters
		wantErr bool
	}{
		{"hypercubic", HypercubicParameters(300, 1), false},
		{"many targets", HypercubicParameters(300, 300), false},
		{"dimension too small", HypercubicParameters(1, 1), true},
		{"bracket below blocksize 1", HypercubicParameters(5, 1), true},
		{"smallest dimension", HypercubicParameters(MinDimension, 1), false},
		{"nan volume", NewParameters("nan", 300, math.NaN(), 1, 1), true},
		{"nan norm", NewParameters("nan", 300, 1, math.NaN(), 1), true},
		{"no targets", HypercubicParameters(300, 0), true},
		{"zero volume", NewParameters("z", 300, 0, 1, 1), true},
		{"negative norm", NewParameters("n", 300, 1, -1, 1), true},
		{"nil volume", Parameters{Name: "nil", Dimension: 300, SquaredTargetNorm: big.NewFloat(1), TargetCount: 1}, true},
		{"infinite volume", Parameters{Name: "inf", Dimension: 300, Volume: new(big.Float).SetInf(false), SquaredTargetNorm: big.NewFloat(1), TargetCount: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Validate() error %v does not wrap ErrInvalidParameter", err)
			}
		})
	}
}

func TestWithTargetCountCopies(t *testing.T) {
	base := HypercubicParameters(400, 1)
	multi := base.WithTargetCount(400)
	if base.TargetCount != 1 || multi.TargetCount != 400 {
		t.Fatalf("WithTargetCount modified the receiver: base=%d multi=%d", base.TargetCount, multi.TargetCount)
	}
	if multi.Name != "hypercubic-400" {
		t.Fatalf("unexpected name %q", multi.Name)
	}
}

func TestParameterRegistry(t *testing.T) {
	names := ListParameterSets()
	for _, want := range []string{"hypercubic-500", "ntruhps2048509", "ntruhrss701", "falcon512", "falcon1024"} {
		params, err := GetParameterSet(want)
		if err != nil {
			t.Fatalf("GetParameterSet(%q) failed: %v (registered: %v)", want, err, names)
		}
		if err := params.Validate(); err != nil {
			t.Fatalf("preset %s is invalid: %v", want, err)
		}
		t.Log(pretty.Sprint(params))
	}

	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("ListParameterSets not sorted: %v", names)
		}
	}

	if _, err := GetParameterSet("kyber768"); !errors.Is(err, ErrUnknownParameterSet) {
		t.Fatalf("expected ErrUnknownParameterSet, got %v", err)
	}
	if err := SetDefaultParameterSet("kyber768"); !errors.Is(err, ErrUnknownParameterSet) {
		t.Fatalf("expected ErrUnknownParameterSet, got %v", err)
	}
}

func TestDefaultParameterSet(t *testing.T) {
	def := GetDefaultParameterSet()
	if def.Name != "hypercubic-500" || def.Dimension != 500 || def.TargetCount != 1 {
		t.Fatalf("unexpected default parameter set %s", def)
	}

	RegisterParameterSet(HypercubicParameters(250, 250))
	if err := SetDefaultParameterSet("hypercubic-250"); err != nil {
		t.Fatalf("SetDefaultParameterSet failed: %v", err)
	}
	defer func() {
		if err := SetDefaultParameterSet("hypercubic-500"); err != nil {
			t.Fatalf("restoring default failed: %v", err)
		}
	}()
	if got := GetDefaultParameterSet(); got.Dimension != 250 || got.TargetCount != 250 {
		t.Fatalf("default not switched: %s", got)
	}
}

func TestParametersString(t *testing.T) {
	got := HypercubicParameters(200, 3).String()
	want := "hypercubic-200(dim=200, vol=1, |t|^2=1, targets=3)"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

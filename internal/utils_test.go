package internal

import (
	"errors"
	"math/big"
	"testing"

	"github.com/tuneinsight/lattigo/v6/utils/bignum"
)

func TestParseReal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"593", 593},
		{" 1.5e3 ", 1500},
		{"2^10", 1024},
		{"1.5^2", 2.25},
		{"1.5^3", 3.375},
		{"0.5^10", 0.0009765625},
		{"2^-2", 0.25},
		{"4^0.5", 2},
		{"12289", 12289},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReal(tt.in, 100)
			if err != nil {
				t.Fatalf("ParseReal(%q) failed: %v", tt.in, err)
			}
			f, _ := got.Float64()
			if d := f - tt.want; d > 1e-12 || d < -1e-12 {
				t.Fatalf("ParseReal(%q) = %v, want %v", tt.in, f, tt.want)
			}
		})
	}
}

func TestParseRealExactPower(t *testing.T) {
	got, err := ParseReal("2048^509", 100)
	if err != nil {
		t.Fatalf("ParseReal failed: %v", err)
	}
	want := new(big.Int).Exp(bignum.NewInt(2048), bignum.NewInt(509), nil)
	vol, acc := got.Int(nil)
	if acc != big.Exact || vol.Cmp(want) != 0 {
		t.Fatalf("2048^509 not exact: acc=%v", acc)
	}

	// 12289^512 does not fit in 100 bits and is rounded
	got, err = ParseReal("12289^512", 100)
	if err != nil {
		t.Fatalf("ParseReal failed: %v", err)
	}
	if got.Prec() != 100 || got.MantExp(nil) < 6900 {
		t.Fatalf("unexpected rounding: prec=%d exp=%d", got.Prec(), got.MantExp(nil))
	}
}

func TestParseRealRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-4", "Inf", "0^3", "-2^4", "2^x", "1e30x"} {
		if _, err := ParseReal(in, 100); !errors.Is(err, ErrMalformedNumber) {
			t.Errorf("ParseReal(%q) error = %v, want ErrMalformedNumber", in, err)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := FormatFloat(big.NewFloat(215.27401), 2); got != "215.27" {
		t.Errorf("FormatFloat = %q", got)
	}
	if got := FormatFloat(nil, 2); got != "-" {
		t.Errorf("FormatFloat(nil) = %q", got)
	}
	if got := FormatMagnitude(big.NewFloat(12289)); got != "12289" {
		t.Errorf("FormatMagnitude = %q", got)
	}
	huge := new(big.Float).SetMantExp(big.NewFloat(1), 5599)
	if got := FormatMagnitude(huge); got != "2^5599.00" {
		t.Errorf("FormatMagnitude(2^5599) = %q", got)
	}
}

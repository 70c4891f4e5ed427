package domain

import (
	"math"
	"testing"
)

func TestTerminalPayoffKernels(t *testing.T) {
	if got := CallPayoff(110, 100); got != 10 {
		t.Errorf("call payoff = %v, want 10", got)
	}
	if got := CallPayoff(90, 100); got != 0 {
		t.Errorf("call payoff = %v, want 0", got)
	}
	if got := PutPayoff(90, 100); got != 10 {
		t.Errorf("put payoff = %v, want 10", got)
	}
}

func TestAsianArithmeticPayoffAveragesSamples(t *testing.T) {
	// Flat path: average equals the flat value regardless of sampling.
	path := make([]float64, 13)
	for i := range path {
		path[i] = 100
	}
	got := AsianArithmeticPayoff(Call, path, 100, 12)
	if got != 0 {
		t.Errorf("flat path ATM Asian call = %v, want 0", got)
	}
}

func TestBarrierPayoffKnockOutVsKnockIn(t *testing.T) {
	path := []float64{100, 110, 120, 135, 125} // crosses 130
	out := BarrierPayoff(Call, path, 100, 130, UpAndOut, 0)
	in := BarrierPayoff(Call, path, 100, 130, UpAndIn, 0)
	if out != 0 {
		t.Errorf("up-and-out should be rebated to 0 on a hit, got %v", out)
	}
	if in != CallPayoff(125, 100) {
		t.Errorf("up-and-in should pay the terminal kernel on a hit, got %v want %v", in, CallPayoff(125, 100))
	}
}

func TestBarrierPayoffNoHit(t *testing.T) {
	path := []float64{100, 105, 102, 108, 104}
	out := BarrierPayoff(Call, path, 100, 130, UpAndOut, 5)
	if out != CallPayoff(104, 100) {
		t.Errorf("no-hit up-and-out should pay terminal kernel, got %v", out)
	}
	in := BarrierPayoff(Call, path, 100, 130, UpAndIn, 5)
	if in != 5 {
		t.Errorf("no-hit up-and-in should pay rebate, got %v", in)
	}
}

func TestLookbackFloatingIsNonNegative(t *testing.T) {
	path := []float64{100, 95, 110, 90, 105}
	call := LookbackPayoff(Call, path, 0, false)
	put := LookbackPayoff(Put, path, 0, false)
	if call < 0 || put < 0 {
		t.Errorf("floating-strike lookback payoffs must be non-negative, got call=%v put=%v", call, put)
	}
}

func TestLookbackFixedStrike(t *testing.T) {
	path := []float64{100, 95, 110, 90, 105}
	call := LookbackPayoff(Call, path, 100, true)
	if call != math.Max(110-100, 0) {
		t.Errorf("fixed-strike lookback call = %v, want %v", call, math.Max(110-100, 0))
	}
}

func TestBarrierVariantFromCode(t *testing.T) {
	cases := map[int]BarrierVariant{0: UpAndOut, 1: UpAndIn, 2: DownAndOut, 3: DownAndIn}
	for code, want := range cases {
		got, ok := BarrierVariantFromCode(code)
		if !ok || got != want {
			t.Errorf("code %d => %v,%v want %v,true", code, got, ok, want)
		}
	}
	if _, ok := BarrierVariantFromCode(4); ok {
		t.Error("code 4 should be rejected")
	}
}

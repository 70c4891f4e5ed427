package domain

import (
	"math"
	"testing"
)

func TestAmericanExerciseTimesSpacing(t *testing.T) {
	times := AmericanExerciseTimes(1.0, 4)
	want := []float64{0.25, 0.5, 0.75, 1.0}
	for i, w := range want {
		if math.Abs(times[i]-w) > 1e-12 {
			t.Errorf("times[%d] = %v, want %v", i, times[i], w)
		}
	}
}

func TestBermudanExerciseTimesCollapsesDuplicatesAndRejectsUnordered(t *testing.T) {
	if _, err := BermudanExerciseTimes(nil); err == nil {
		t.Error("expected error for empty date list")
	}
	if _, err := BermudanExerciseTimes([]float64{0.5, 0.5}); err != nil {
		t.Fatalf("duplicate dates should collapse, not error: %v", err)
	}
	times, err := BermudanExerciseTimes([]float64{0.25, 0.25, 0.5, 0.75})
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 3 {
		t.Errorf("expected duplicates collapsed to 3 entries, got %d (%v)", len(times), times)
	}
	if _, err := BermudanExerciseTimes([]float64{0.5, 0.25}); err == nil {
		t.Error("expected error for non-increasing dates")
	}
}

func TestPriceLSMAmericanPutAboveEuropean(t *testing.T) {
	rng := NewRNG(12345)
	res, err := PriceLSM(rng, LSMParams{
		S0: 100, K: 100, R: 0.05, Sigma: 0.20, Kind: Put,
		ExerciseTimes: AmericanExerciseTimes(1.0, 50),
		Paths:         20000,
	})
	if err != nil {
		t.Fatal(err)
	}
	european := BlackScholesPrice(Put, 100, 100, 0.05, 0.20, 1.0)
	if res.Price < european-0.5 {
		t.Errorf("LSM American put %v should be >= European %v (within MC noise)", res.Price, european)
	}
	if res.Price < 0 {
		t.Error("price must be non-negative")
	}
	if res.ExercisedEarlyFraction < 0 || res.ExercisedEarlyFraction > 1 {
		t.Errorf("exercised-early fraction out of [0,1]: %v", res.ExercisedEarlyFraction)
	}
}

func TestPriceLSMDeepITMPut(t *testing.T) {
	rng := NewRNG(999)
	res, err := PriceLSM(rng, LSMParams{
		S0: 80, K: 100, R: 0.05, Sigma: 0.20, Kind: Put,
		ExerciseTimes: AmericanExerciseTimes(1.0, 50),
		Paths:         20000,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Exercise points are uniformly spaced in (0,T], so the earliest exercise
	// is at T/50, not at time 0. Exercising every path there is worth at least
	// K·exp(-r·T/50) - S0 (about 19.90), just under the time-0 intrinsic 20.
	firstExercise := 100*math.Exp(-0.05*1.0/50) - 80
	if res.Price < firstExercise-1e-6 {
		t.Errorf("deep-ITM American put %v should be >= first-exercise value %v", res.Price, firstExercise)
	}
}

func TestSolveGaussianPartialPivotExactFit(t *testing.T) {
	// Exact cubic beta = [1,2,3,4]: y = 1 + 2x + 3x^2 + 4x^3 at six sample
	// points fully determines the normal equations with no noise.
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	want := [4]float64{1, 2, 3, 4}
	for i, x := range xs {
		ys[i] = want[0] + want[1]*x + want[2]*x*x + want[3]*x*x*x
	}
	beta := fitCubicByNormalEquations(xs, ys)
	for i := range want {
		if math.Abs(beta[i]-want[i]) > 1e-6 {
			t.Errorf("beta[%d] = %v, want %v", i, beta[i], want[i])
		}
	}
}

func TestSolveGaussianPartialPivotDegenerateFallsBackToZero(t *testing.T) {
	// All x identical: the design matrix is rank-deficient, normal matrix is
	// singular, and the documented fallback is an all-zero beta.
	xs := []float64{5, 5, 5, 5, 5}
	ys := []float64{1, 2, 3, 4, 5}
	beta := fitCubicByNormalEquations(xs, ys)
	for i, b := range beta {
		if b != 0 {
			t.Errorf("beta[%d] = %v, want 0 for a degenerate fit", i, b)
		}
	}
}

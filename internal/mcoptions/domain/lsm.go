package domain

import (
	"math"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/domain/mcerrors"
)

// singularPivotThreshold is the numerical-zero threshold below which a
// Gaussian-elimination pivot is treated as singular, yielding an all-zero
// coefficient vector rather than a division by a near-zero number.
const singularPivotThreshold = 1e-10

// deepITMFraction is the deep-in-the-money fallback threshold: a path is
// exercised whenever its intrinsic value exceeds this fraction of the
// strike and fewer than four in-the-money paths are available to regress.
const deepITMFraction = 0.20

// minRegressionPaths is the minimum number of in-the-money paths required
// to fit the cubic continuation-value regression; below it the deep-ITM
// fallback rule applies instead.
const minRegressionPaths = 4

// LSMParams bundles the market and engine parameters for a single
// Longstaff-Schwartz pricing call. ExerciseTimes is a strictly increasing
// sequence of times in (0,T], with the last entry equal to the explicit
// maturity T (Open Question 3 of the original design: maturity is never
// derived from the exercise schedule).
type LSMParams struct {
	S0            float64
	K             float64
	R             float64
	Sigma         float64
	Kind          OptionKind
	ExerciseTimes []float64
	Paths         int
}

// LSMResult carries the price plus the diagnostic outputs the original
// specification names: mean exercise time and the fraction of paths
// exercised before maturity.
type LSMResult struct {
	Price                  float64
	MeanExerciseTime       float64
	ExercisedEarlyFraction float64
}

// AmericanExerciseTimes returns n uniformly spaced exercise points in (0,T],
// the admissible-exercise schedule for a vanilla American option.
func AmericanExerciseTimes(T float64, n int) []float64 {
	times := make([]float64, n)
	for i := 1; i <= n; i++ {
		times[i-1] = T * float64(i) / float64(n)
	}
	return times
}

// BermudanExerciseTimes turns caller-supplied exercise dates into the
// strictly increasing schedule LSM consumes. Dates are used as given (they
// are not snapped to a step grid); repeated equal dates collapse into one
// exercise opportunity, and a date earlier than its predecessor is rejected.
func BermudanExerciseTimes(dates []float64) ([]float64, error) {
	if len(dates) == 0 {
		return nil, mcerrors.Invalid("exercise_dates", "must be non-empty")
	}
	out := make([]float64, 0, len(dates))
	var prev float64
	for i, d := range dates {
		if i > 0 && d < dates[i-1] {
			return nil, mcerrors.Invalid("exercise_dates", "must be non-decreasing")
		}
		if i == 0 || d > prev {
			out = append(out, d)
			prev = d
		}
	}
	return out, nil
}

// PriceLSM prices an American/Bermudan option by Longstaff-Schwartz
// regression-based dynamic programming: a bank of N forward paths sampled at
// the exercise schedule, backward induction from maturity with a degree-3
// continuation-value regression on the in-the-money subsample at each step.
func PriceLSM(rng *RNG, p LSMParams) (LSMResult, error) {
	if p.S0 <= 0 {
		return LSMResult{}, mcerrors.Invalid("S0", "spot must be positive")
	}
	if p.K <= 0 {
		return LSMResult{}, mcerrors.Invalid("K", "strike must be positive")
	}
	if p.Sigma < 0 {
		return LSMResult{}, mcerrors.Invalid("sigma", "volatility must be non-negative")
	}
	if len(p.ExerciseTimes) == 0 {
		return LSMResult{}, mcerrors.Invalid("exercise_times", "must be non-empty")
	}
	if p.Paths <= 0 {
		return LSMResult{}, mcerrors.Invalid("paths", "must be positive")
	}

	K := len(p.ExerciseTimes) // number of exercise dates; node K is maturity
	N := p.Paths

	// --- path bank: N paths, K+1 nodes each, owned once and reused ---
	bank := make([][]float64, N)
	for path := range N {
		nodes := make([]float64, K+1)
		nodes[0] = p.S0
		prevT := 0.0
		s := p.S0
		for step := 0; step < K; step++ {
			dt := p.ExerciseTimes[step] - prevT
			prevT = p.ExerciseTimes[step]
			drift := (p.R - 0.5*p.Sigma*p.Sigma) * dt
			diff := p.Sigma * math.Sqrt(dt)
			z := rng.NormalSamples(1)[0]
			s = s * math.Exp(drift+diff*z)
			nodes[step+1] = s
		}
		bank[path] = nodes
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return LSMResult{}, mcerrors.Numeric("path simulation produced a non-finite value")
		}
	}

	// --- initialization: cash-flow at maturity ---
	cashflow := make([]float64, N)
	exerciseStep := make([]int, N) // K means "at maturity", set below
	for path := range N {
		cashflow[path] = TerminalPayoff(p.Kind, bank[path][K], p.K)
		exerciseStep[path] = K
	}

	// --- backward induction, t = K-1 down to 1 ---
	for t := K - 1; t >= 1; t-- {
		dtEx := p.ExerciseTimes[t] - p.ExerciseTimes[t-1]
		disc := math.Exp(-p.R * dtEx)
		for path := range N {
			cashflow[path] *= disc
		}

		itm := make([]int, 0, N)
		for path := range N {
			intrinsic := TerminalPayoff(p.Kind, bank[path][t], p.K)
			if intrinsic > 0 {
				itm = append(itm, path)
			}
		}

		if len(itm) >= minRegressionPaths {
			x := make([]float64, len(itm))
			y := make([]float64, len(itm))
			for i, path := range itm {
				x[i] = bank[path][t]
				y[i] = cashflow[path]
			}
			beta := fitCubicByNormalEquations(x, y)

			for _, path := range itm {
				s := bank[path][t]
				intrinsic := TerminalPayoff(p.Kind, s, p.K)
				continuation := beta[0] + beta[1]*s + beta[2]*s*s + beta[3]*s*s*s
				if intrinsic > continuation {
					cashflow[path] = intrinsic
					exerciseStep[path] = t
				}
			}
		} else {
			for _, path := range itm {
				intrinsic := TerminalPayoff(p.Kind, bank[path][t], p.K)
				if intrinsic > deepITMFraction*p.K {
					cashflow[path] = intrinsic
					exerciseStep[path] = t
				}
			}
		}
	}

	// --- final discount, step 1 to step 0 ---
	discFinal := math.Exp(-p.R * p.ExerciseTimes[0])
	var sum float64
	var exercisedEarly int
	var sumExerciseTime float64
	for path := range N {
		cashflow[path] *= discFinal
		sum += cashflow[path]
		et := p.ExerciseTimes[exerciseStep[path]-1]
		sumExerciseTime += et
		if exerciseStep[path] < K {
			exercisedEarly++
		}
	}

	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return LSMResult{}, mcerrors.Numeric("LSM accumulator overflowed")
	}

	return LSMResult{
		Price:                  sum / float64(N),
		MeanExerciseTime:       sumExerciseTime / float64(N),
		ExercisedEarlyFraction: float64(exercisedEarly) / float64(N),
	}, nil
}

// fitCubicByNormalEquations fits C(S) = β0 + β1 S + β2 S² + β3 S³ by forming
// the 4x4 normal equations (XᵀX)β = XᵀY and solving with Gaussian
// elimination and partial pivoting. A pivot whose magnitude falls below
// singularPivotThreshold yields an all-zero β rather than dividing by a
// near-zero number — the documented silent degeneracy fallback, not an
// error.
func fitCubicByNormalEquations(x, y []float64) [4]float64 {
	var xtx [4][4]float64
	var xty [4]float64

	for i := range x {
		powers := [4]float64{1, x[i], x[i] * x[i], x[i] * x[i] * x[i]}
		for a := range 4 {
			xty[a] += powers[a] * y[i]
			for b := range 4 {
				xtx[a][b] += powers[a] * powers[b]
			}
		}
	}

	beta, ok := solveGaussianPartialPivot(xtx, xty)
	if !ok {
		return [4]float64{}
	}
	return beta
}

// solveGaussianPartialPivot solves the 4x4 system a·beta = b by Gaussian
// elimination with partial pivoting. It returns ok=false (signaling the
// caller to use an all-zero coefficient vector) the moment any pivot's
// magnitude falls below singularPivotThreshold.
func solveGaussianPartialPivot(a [4][4]float64, b [4]float64) ([4]float64, bool) {
	const n = 4
	var m [n][n + 1]float64
	for i := range n {
		for j := range n {
			m[i][j] = a[i][j]
		}
		m[i][n] = b[i]
	}

	for col := range n {
		pivotRow := col
		pivotVal := math.Abs(m[col][col])
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > pivotVal {
				pivotRow = r
				pivotVal = math.Abs(m[r][col])
			}
		}
		if pivotVal < singularPivotThreshold {
			return [4]float64{}, false
		}
		if pivotRow != col {
			m[col], m[pivotRow] = m[pivotRow], m[col]
		}

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	var beta [4]float64
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * beta[j]
		}
		beta[i] = sum / m[i][i]
	}
	return beta, true
}

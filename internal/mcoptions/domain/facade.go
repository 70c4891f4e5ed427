package domain

import (
	"math"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/domain/mcerrors"
)

// PriceResult is the outcome of a single façade call: the discounted price
// plus diagnostics describing which requested toggles were actually
// applied, so the application layer can log what the kernel silently
// adjusted.
type PriceResult struct {
	Price             float64
	StratifiedIgnored bool // requested but ignored: payoff is path-dependent
}

func validateCommon(s0, k, r, sigma, T float64) error {
	if s0 <= 0 {
		return mcerrors.Invalid("S", "spot must be positive")
	}
	if k <= 0 {
		return mcerrors.Invalid("K", "strike must be positive")
	}
	if sigma < 0 {
		return mcerrors.Invalid("sigma", "volatility must be non-negative")
	}
	if T <= 0 {
		return mcerrors.Invalid("T", "time to maturity must be positive")
	}
	return nil
}

// runMonteCarlo implements the pricing façade's dispatch rules (§4.7):
// antithetic pairing halves the outer loop and evaluates +Z/-Z together;
// control variates accumulate the European terminal payoff from the same
// draws and adjust by the closed-form delta at the end; stratified sampling
// replaces the per-path normal draw but is gated to terminalOnly payoffs, as
// a path-dependent correlation structure would otherwise be biased;
// importance-sampling weights apply to both a primary draw and its
// antithetic twin; discounting by exp(-rT) happens exactly once, at the end.
func runMonteCarlo(
	cfg *Configuration,
	s0, r, sigma, T float64,
	L int,
	kind OptionKind,
	k float64,
	terminalOnly bool,
	payoff func(path []float64) float64,
) (PriceResult, error) {
	if cfg.Model == SABRFuture {
		return PriceResult{}, mcerrors.NotImplementedErr("SABR-future model has no path simulator")
	}
	if err := cfg.Validate(); err != nil {
		return PriceResult{}, err
	}

	step := NewGBMStep(r, sigma, T, L)
	rng := cfg.RNG()

	stratifiedIgnored := cfg.StratifiedSampling && !terminalOnly
	useStratified := cfg.StratifiedSampling && terminalOnly
	useControlVariate := cfg.ControlVariates

	primaryDraws := int(cfg.NumSimulations)
	if cfg.Antithetic {
		primaryDraws = primaryDraws / 2
	}

	var sumX, sumY float64
	evalOne := func(z []float64) (x, y float64) {
		lr := ImportanceLikelihoodRatio(z, cfg.DriftShift)
		path := SimulatePath(s0, step, z, cfg.DriftShift)
		x = payoff(path) * lr
		if useControlVariate {
			y = EuropeanPayoff(kind, path, k) * lr
		}
		return
	}

	for range primaryDraws {
		var z []float64
		var err error
		if useStratified {
			z, err = rng.StratifiedNormalSamples(L)
			if err != nil {
				return PriceResult{}, err
			}
		} else {
			z = rng.NormalSamples(L)
		}

		x, y := evalOne(z)
		sumX += x
		sumY += y

		if cfg.Antithetic {
			zNeg := make([]float64, len(z))
			for i, zi := range z {
				zNeg[i] = -zi
			}
			xNeg, yNeg := evalOne(zNeg)
			sumX += xNeg
			sumY += yNeg
		}
	}

	totalDraws := primaryDraws
	if cfg.Antithetic {
		totalDraws *= 2
	}
	if totalDraws == 0 {
		return PriceResult{}, mcerrors.Invalid("num_simulations", "must yield at least one evaluated draw")
	}

	meanX := sumX / float64(totalDraws)
	raw := meanX
	if useControlVariate {
		meanY := sumY / float64(totalDraws)
		// BlackScholesPrice returns a discounted price; meanX/meanY are
		// undiscounted payoff means, so undo the discount before combining
		// them and let the single discount below apply to the whole sum.
		undiscountedClosedForm := BlackScholesPrice(kind, s0, k, r, sigma, T) * math.Exp(r*T)
		raw = ControlVariateAdjust(meanX, meanY, undiscountedClosedForm)
	}

	discounted := raw * math.Exp(-r*T)
	if math.IsNaN(discounted) || math.IsInf(discounted, 0) {
		return PriceResult{}, mcerrors.Numeric("pricing accumulator overflowed")
	}

	return PriceResult{Price: discounted, StratifiedIgnored: stratifiedIgnored}, nil
}

// PriceEuropean prices a vanilla European call/put by Monte Carlo.
func PriceEuropean(cfg *Configuration, s0, k, r, sigma, T float64, kind OptionKind) (PriceResult, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return PriceResult{}, err
	}
	return runMonteCarlo(cfg, s0, r, sigma, T, int(cfg.NumSteps), kind, k, true,
		func(path []float64) float64 { return EuropeanPayoff(kind, path, k) })
}

// PriceAsianArithmetic prices an arithmetic-average Asian call/put with m
// equally-spaced averaging observations.
func PriceAsianArithmetic(cfg *Configuration, s0, k, r, sigma, T float64, kind OptionKind, m int) (PriceResult, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return PriceResult{}, err
	}
	if m < 1 {
		return PriceResult{}, mcerrors.Invalid("m", "averaging observation count must be at least 1")
	}
	return runMonteCarlo(cfg, s0, r, sigma, T, int(cfg.NumSteps), kind, k, false,
		func(path []float64) float64 { return AsianArithmeticPayoff(kind, path, k, m) })
}

// PriceBarrier prices a barrier call/put of the given variant with rebate R.
func PriceBarrier(cfg *Configuration, s0, k, r, sigma, T, b, rebate float64, kind OptionKind, variant BarrierVariant) (PriceResult, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return PriceResult{}, err
	}
	if b <= 0 {
		return PriceResult{}, mcerrors.Invalid("B", "barrier level must be positive")
	}
	if rebate < 0 {
		return PriceResult{}, mcerrors.Invalid("R", "rebate must be non-negative")
	}
	return runMonteCarlo(cfg, s0, r, sigma, T, int(cfg.NumSteps), kind, k, false,
		func(path []float64) float64 { return BarrierPayoff(kind, path, k, b, variant, rebate) })
}

// PriceLookback prices a fixed- or floating-strike lookback call/put.
func PriceLookback(cfg *Configuration, s0, k, r, sigma, T float64, kind OptionKind, fixedStrike bool) (PriceResult, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return PriceResult{}, err
	}
	return runMonteCarlo(cfg, s0, r, sigma, T, int(cfg.NumSteps), kind, k, false,
		func(path []float64) float64 { return LookbackPayoff(kind, path, k, fixedStrike) })
}

// PriceAmericanBinomial prices an American call/put on an M-step CRR tree,
// the reference engine for American options (Open Question 4).
func PriceAmericanBinomial(s0, k, r, sigma, T float64, kind OptionKind, M int) (float64, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return 0, err
	}
	return PriceCRR(CRRParams{S0: s0, K: k, R: r, Sigma: sigma, T: T, M: M, Kind: kind, American: true})
}

// PriceEuropeanBinomial prices a European call/put on an M-step CRR tree,
// used as a convergence benchmark against the closed-form Black-Scholes
// price.
func PriceEuropeanBinomial(s0, k, r, sigma, T float64, kind OptionKind, M int) (float64, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return 0, err
	}
	return PriceCRR(CRRParams{S0: s0, K: k, R: r, Sigma: sigma, T: T, M: M, Kind: kind, American: false})
}

// PriceAmericanLSM prices an American call/put by Longstaff-Schwartz with n
// uniformly-spaced admissible exercise points, offered as an alternative
// engine to the binomial reference for consistency with Monte-Carlo-only
// builds.
func PriceAmericanLSM(cfg *Configuration, s0, k, r, sigma, T float64, kind OptionKind, n int) (LSMResult, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return LSMResult{}, err
	}
	if n < 1 {
		return LSMResult{}, mcerrors.Invalid("n", "exercise point count must be at least 1")
	}
	if cfg.Model == SABRFuture {
		return LSMResult{}, mcerrors.NotImplementedErr("SABR-future model has no path simulator")
	}
	if err := cfg.Validate(); err != nil {
		return LSMResult{}, err
	}
	return PriceLSM(cfg.RNG(), LSMParams{
		S0: s0, K: k, R: r, Sigma: sigma, Kind: kind,
		ExerciseTimes: AmericanExerciseTimes(T, n),
		Paths:         int(cfg.NumSimulations),
	})
}

// PriceBermudan prices a Bermudan call/put by Longstaff-Schwartz with a
// caller-supplied, non-decreasing sequence of exercise dates in (0,T];
// repeated equal dates count as one exercise opportunity.
// The explicit T parameter is the maturity used for discounting; it is
// never derived from the last exercise date (Open Question 3).
func PriceBermudan(cfg *Configuration, s0, k, r, sigma, T float64, kind OptionKind, dates []float64) (LSMResult, error) {
	if err := validateCommon(s0, k, r, sigma, T); err != nil {
		return LSMResult{}, err
	}
	if cfg.Model == SABRFuture {
		return LSMResult{}, mcerrors.NotImplementedErr("SABR-future model has no path simulator")
	}
	if err := cfg.Validate(); err != nil {
		return LSMResult{}, err
	}
	times, err := BermudanExerciseTimes(dates)
	if err != nil {
		return LSMResult{}, err
	}
	if times[len(times)-1] > T {
		return LSMResult{}, mcerrors.Invalid("exercise_dates", "last exercise date must not exceed maturity T")
	}
	if times[len(times)-1] < T {
		times = append(times, T)
	}
	return PriceLSM(cfg.RNG(), LSMParams{
		S0: s0, K: k, R: r, Sigma: sigma, Kind: kind,
		ExerciseTimes: times,
		Paths:         int(cfg.NumSimulations),
	})
}

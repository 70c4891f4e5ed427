package domain

import "math"

// GBMStep holds the derived per-step quantities of a geometric Brownian
// motion discretization over L steps of maturity T.
type GBMStep struct {
	Dt    float64 // Δt = T/L
	Drift float64 // μ = (r - ½σ²)Δt, the per-step log-drift
	Diff  float64 // σ√Δt, the per-step diffusion coefficient
}

// NewGBMStep computes the derived step quantities for an L-step
// discretization of maturity T under rate r and volatility sigma.
func NewGBMStep(r, sigma, T float64, L int) GBMStep {
	dt := T / float64(L)
	return GBMStep{
		Dt:    dt,
		Drift: (r - 0.5*sigma*sigma) * dt,
		Diff:  sigma * math.Sqrt(dt),
	}
}

// SimulatePath produces an (L+1)-node GBM path from s0 and L standard normal
// draws z. The function is pure: identical inputs produce identical output.
// driftShift (δ) shifts every Z draw by δ under the importance measure, so
// the per-step exponent moves by δ·Diff (= δσ√Δt); pass 0 to disable it.
// This must match the exponent shift ImportanceLikelihoodRatio assumes when
// computing the Radon-Nikodym derivative for the same δ.
func SimulatePath(s0 float64, step GBMStep, z []float64, driftShift float64) []float64 {
	path := make([]float64, len(z)+1)
	path[0] = s0
	for i, zi := range z {
		path[i+1] = path[i] * math.Exp(step.Drift+driftShift*step.Diff+step.Diff*zi)
	}
	return path
}

// ImportanceLikelihoodRatio computes the Radon-Nikodym derivative needed to
// debias an estimator whose path was simulated under a standard-normal shift
// δ (i.e. Z drawn as Z+δ instead of Z): exp(-δ·ΣZ - ½δ²L). Pass
// driftShift=0 to get a ratio of 1 (no correction).
func ImportanceLikelihoodRatio(z []float64, driftShift float64) float64 {
	if driftShift == 0 {
		return 1
	}
	var sumZ float64
	for _, zi := range z {
		sumZ += zi
	}
	L := float64(len(z))
	return math.Exp(-driftShift*sumZ - 0.5*driftShift*driftShift*L)
}

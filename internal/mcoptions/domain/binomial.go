package domain

import (
	"math"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/domain/mcerrors"
)

// CRRParams bundles the inputs to a Cox-Ross-Rubinstein binomial tree call.
type CRRParams struct {
	S0, K, R, Sigma, T float64
	M                  int
	Kind               OptionKind
	American           bool
}

// CRRDerived holds the quantities derived once from CRRParams: the time
// step, up/down factors, risk-neutral probability and per-step discount.
type CRRDerived struct {
	Dt   float64
	U    float64
	D    float64
	P    float64
	Disc float64
}

// DeriveCRR computes Δt=T/M, u=exp(σ√Δt), d=1/u,
// p=(exp(rΔt)-d)/(u-d), disc=exp(-rΔt).
func DeriveCRR(r, sigma, T float64, M int) CRRDerived {
	dt := T / float64(M)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp(r*dt) - d) / (u - d)
	return CRRDerived{Dt: dt, U: u, D: d, P: p, Disc: math.Exp(-r * dt)}
}

// PriceCRR prices an option by CRR backward induction on a recombining
// lattice. It rejects with InconsistentModel when the derived risk-neutral
// probability falls outside [0,1], the well-posedness condition for the
// tree. Time complexity is O(M²), space O(M).
func PriceCRR(p CRRParams) (float64, error) {
	if p.S0 <= 0 {
		return 0, mcerrors.Invalid("S0", "spot must be positive")
	}
	if p.K <= 0 {
		return 0, mcerrors.Invalid("K", "strike must be positive")
	}
	if p.Sigma < 0 {
		return 0, mcerrors.Invalid("sigma", "volatility must be non-negative")
	}
	if p.T <= 0 {
		return 0, mcerrors.Invalid("T", "time to maturity must be positive")
	}
	if p.M <= 0 {
		return 0, mcerrors.Invalid("M", "step count must be positive")
	}

	d := DeriveCRR(p.R, p.Sigma, p.T, p.M)
	if d.P < 0 || d.P > 1 {
		return 0, mcerrors.Inconsistent("p", "risk-neutral probability outside [0,1]")
	}

	M := p.M
	cur := make([]float64, M+1)
	next := make([]float64, M+1)
	for j := 0; j <= M; j++ {
		s := p.S0 * math.Pow(d.U, float64(j)) * math.Pow(d.D, float64(M-j))
		cur[j] = TerminalPayoff(p.Kind, s, p.K)
	}

	for t := M - 1; t >= 0; t-- {
		cur, next = next, cur
		for j := 0; j <= t; j++ {
			cur[j] = d.Disc * (d.P*next[j+1] + (1-d.P)*next[j])
			if p.American {
				s := p.S0 * math.Pow(d.U, float64(j)) * math.Pow(d.D, float64(t-j))
				cur[j] = math.Max(cur[j], TerminalPayoff(p.Kind, s, p.K))
			}
		}
	}

	price := cur[0]
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, mcerrors.Numeric("binomial accumulator overflowed")
	}
	return price, nil
}

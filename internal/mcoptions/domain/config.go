package domain

import "github.com/wyfcoding/mcoptions/internal/mcoptions/domain/mcerrors"

// ModelSelector is a tagged variant over the simulators a Configuration may
// drive. GBM is implemented; SABRFuture is reserved (see Price dispatch).
type ModelSelector uint8

const (
	GBM ModelSelector = iota
	SABRFuture
)

// Configuration is a mutable container the caller builds up before a pricing
// call and that is then held immutably for the duration of that call. It is
// not safe to share across concurrent calls: each call exclusively owns the
// Configuration's RNG, the single-writer discipline the kernel relies on for
// determinism.
type Configuration struct {
	Seed               uint64
	NumSimulations     uint64
	NumSteps           uint64
	BinomialSteps      uint64
	Antithetic         bool
	ControlVariates    bool
	StratifiedSampling bool
	ImportanceSampling bool
	DriftShift         float64
	Model              ModelSelector

	rng *RNG
}

// NewDefaultConfiguration returns a Configuration with the defaults named at
// the kernel's procedural boundary: seed=12345, N=100000, L=252, M=100,
// antithetic=true, every other toggle false, δ=0, model=GBM.
func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		Seed:           12345,
		NumSimulations: 100000,
		NumSteps:       252,
		BinomialSteps:  100,
		Antithetic:     true,
		Model:          GBM,
	}
}

// RNG returns the Configuration's exclusively owned generator, freshly
// seeded from Seed. Each pricing call obtains it once, so every call starts
// from the state implied by Seed. Callers must not retain the returned
// pointer beyond the call.
func (c *Configuration) RNG() *RNG {
	c.rng = NewRNG(c.Seed)
	return c.rng
}

// ResetRNG forces the next RNG() call to reseed from Seed, the Go-native
// rendering of "reseeding resets the generator to the exact state implied by
// the seed".
func (c *Configuration) ResetRNG() {
	c.rng = nil
}

// Validate checks the toggle/count fields that are independent of any
// particular instrument's market parameters. Instrument-specific validation
// (spot, strike, etc.) happens in the façade per call.
func (c *Configuration) Validate() error {
	if c.NumSimulations == 0 {
		return mcerrors.Invalid("num_simulations", "must be positive")
	}
	if c.NumSteps == 0 {
		return mcerrors.Invalid("num_steps", "must be positive")
	}
	if c.BinomialSteps == 0 {
		return mcerrors.Invalid("binomial_steps", "must be positive")
	}
	return nil
}

// Clone returns an independent copy of the Configuration with its own RNG
// slot, suitable for request-level parallelism: each concurrent pricing
// request should hold its own Configuration (and therefore its own RNG).
func (c *Configuration) Clone() *Configuration {
	clone := *c
	clone.rng = nil
	return &clone
}

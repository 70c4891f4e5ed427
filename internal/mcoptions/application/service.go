// Package application wraps the pricing kernel with logging, persistence,
// caching and event publishing, following the layering of
// internal/derivatives/application and internal/pricing/application.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/domain"
	"github.com/wyfcoding/mcoptions/internal/mcoptions/domain/mcerrors"
	"github.com/wyfcoding/pkg/logging"
)

// PricingRecord is the persisted row for one pricing call: enough to audit
// and replay a request without re-running the simulation.
type PricingRecord struct {
	Instrument string
	Engine     string
	Symbol     string
	Spot       float64
	Strike     float64
	Rate       float64
	Vol        float64
	Maturity   float64
	Price      decimal.Decimal
	ComputedAt time.Time
}

// Repository persists PricingRecords. Grounded on
// internal/pricing/domain/pricing_repository.go's Save/GetLatest shape.
type Repository interface {
	Save(ctx context.Context, rec *PricingRecord) error
}

// EventPublisher publishes pricing domain events. Grounded on
// internal/pricing/domain/event_publisher.go's EventPublisher interface.
type EventPublisher interface {
	PublishPriceComputed(ctx context.Context, evt PriceComputedEvent) error
	PublishPricingError(ctx context.Context, evt PricingErrorEvent) error
}

// ResultCache caches a computed price by an idempotency key built from the
// full parameter tuple, config and engine.
type ResultCache interface {
	Get(ctx context.Context, key string) (decimal.Decimal, bool)
	Set(ctx context.Context, key string, price decimal.Decimal)
}

// Service is the mcoptions application service: it validates requests,
// drives the domain façade, persists and caches the result, and publishes a
// domain event, logging one line per call in the style of
// internal/derivatives/application/service.go.
type Service struct {
	repo   Repository
	events EventPublisher
	cache  ResultCache
	logger *logging.Logger
}

// NewService constructs a Service. cache may be nil to disable caching.
func NewService(repo Repository, events EventPublisher, cache ResultCache, logger *logging.Logger) *Service {
	return &Service{repo: repo, events: events, cache: cache, logger: logger}
}

// EuropeanRequest bundles the market parameters for a European pricing call.
type EuropeanRequest struct {
	Symbol            string
	S, K, R, Sigma, T float64
	Kind              domain.OptionKind
	Config            *domain.Configuration
}

func cacheKey(instrument, engine string, params ...float64) string {
	key := instrument + "/" + engine
	for _, p := range params {
		key += fmt.Sprintf("/%g", p)
	}
	return key
}

func (s *Service) persistAndPublish(ctx context.Context, instrument, engine string, req EuropeanRequest, price float64) {
	dec := decimal.NewFromFloat(price)
	rec := &PricingRecord{
		Instrument: instrument, Engine: engine, Symbol: req.Symbol,
		Spot: req.S, Strike: req.K, Rate: req.R, Vol: req.Sigma, Maturity: req.T,
		Price: dec, ComputedAt: time.Now(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist pricing result", "instrument", instrument, "error", err)
	}
	if err := s.events.PublishPriceComputed(ctx, PriceComputedEvent{
		Instrument: instrument, Engine: engine, Symbol: req.Symbol, Price: dec, OccurredOn: rec.ComputedAt,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish price-computed event", "instrument", instrument, "error", err)
	}
}

// PriceEuropean prices a vanilla European option, caching on the full
// parameter tuple and publishing a PriceComputedEvent on success.
func (s *Service) PriceEuropean(ctx context.Context, req EuropeanRequest) (float64, error) {
	cfg := req.Config
	key := cacheKey("european", "mc", req.S, req.K, req.R, req.Sigma, req.T, float64(req.Kind)) +
		fmt.Sprintf("/%d/%d/%d/%t/%t/%t/%t/%g/%d", cfg.Seed, cfg.NumSimulations, cfg.NumSteps,
			cfg.Antithetic, cfg.ControlVariates, cfg.StratifiedSampling, cfg.ImportanceSampling, cfg.DriftShift, cfg.Model)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			price, _ := cached.Float64()
			return price, nil
		}
	}

	start := time.Now()
	res, err := domain.PriceEuropean(req.Config, req.S, req.K, req.R, req.Sigma, req.T, req.Kind)
	if err != nil {
		s.logFailure(ctx, "european", err)
		return 0, err
	}
	s.logger.InfoContext(ctx, "priced european option",
		"symbol", req.Symbol, "price", res.Price, "duration", time.Since(start))

	if s.cache != nil {
		s.cache.Set(ctx, key, decimal.NewFromFloat(res.Price))
	}
	s.persistAndPublish(ctx, "european", "monte-carlo", req, res.Price)
	return res.Price, nil
}

// AsianRequest bundles the parameters for an arithmetic Asian pricing call.
type AsianRequest struct {
	EuropeanRequest
	M int
}

// PriceAsian prices an arithmetic-average Asian option.
func (s *Service) PriceAsian(ctx context.Context, req AsianRequest) (float64, error) {
	res, err := domain.PriceAsianArithmetic(req.Config, req.S, req.K, req.R, req.Sigma, req.T, req.Kind, req.M)
	if err != nil {
		s.logFailure(ctx, "asian", err)
		return 0, err
	}
	s.warnIfStratifiedIgnored(ctx, "asian", res.StratifiedIgnored)
	s.logger.InfoContext(ctx, "priced asian option", "symbol", req.Symbol, "price", res.Price)
	s.persistAndPublish(ctx, "asian", "monte-carlo", req.EuropeanRequest, res.Price)
	return res.Price, nil
}

// BarrierRequest bundles the parameters for a barrier pricing call.
type BarrierRequest struct {
	EuropeanRequest
	B, Rebate float64
	Variant   domain.BarrierVariant
}

// PriceBarrier prices a barrier option.
func (s *Service) PriceBarrier(ctx context.Context, req BarrierRequest) (float64, error) {
	res, err := domain.PriceBarrier(req.Config, req.S, req.K, req.R, req.Sigma, req.T, req.B, req.Rebate, req.Kind, req.Variant)
	if err != nil {
		s.logFailure(ctx, "barrier", err)
		return 0, err
	}
	s.warnIfStratifiedIgnored(ctx, "barrier", res.StratifiedIgnored)
	s.logger.InfoContext(ctx, "priced barrier option", "symbol", req.Symbol, "price", res.Price)
	s.persistAndPublish(ctx, "barrier", "monte-carlo", req.EuropeanRequest, res.Price)
	return res.Price, nil
}

// LookbackRequest bundles the parameters for a lookback pricing call.
type LookbackRequest struct {
	EuropeanRequest
	FixedStrike bool
}

// PriceLookback prices a fixed- or floating-strike lookback option.
func (s *Service) PriceLookback(ctx context.Context, req LookbackRequest) (float64, error) {
	res, err := domain.PriceLookback(req.Config, req.S, req.K, req.R, req.Sigma, req.T, req.Kind, req.FixedStrike)
	if err != nil {
		s.logFailure(ctx, "lookback", err)
		return 0, err
	}
	s.warnIfStratifiedIgnored(ctx, "lookback", res.StratifiedIgnored)
	s.logger.InfoContext(ctx, "priced lookback option", "symbol", req.Symbol, "price", res.Price)
	s.persistAndPublish(ctx, "lookback", "monte-carlo", req.EuropeanRequest, res.Price)
	return res.Price, nil
}

// AmericanBinomialRequest bundles the parameters for a CRR American call.
type AmericanBinomialRequest struct {
	Symbol            string
	S, K, R, Sigma, T float64
	Kind              domain.OptionKind
	M                 int
}

// PriceAmericanBinomial prices an American option on a CRR tree, the
// reference engine per Open Question 4.
func (s *Service) PriceAmericanBinomial(ctx context.Context, req AmericanBinomialRequest) (float64, error) {
	price, err := domain.PriceAmericanBinomial(req.S, req.K, req.R, req.Sigma, req.T, req.Kind, req.M)
	if err != nil {
		s.logFailure(ctx, "american-binomial", err)
		return 0, err
	}
	s.logger.InfoContext(ctx, "priced american option (binomial)", "symbol", req.Symbol, "price", price)
	s.persistAndPublish(ctx, "american", "binomial",
		EuropeanRequest{Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: req.Kind}, price)
	return price, nil
}

// AmericanLSMRequest bundles the parameters for an LSM American call.
type AmericanLSMRequest struct {
	Symbol            string
	S, K, R, Sigma, T float64
	Kind              domain.OptionKind
	NumExercise       int
	Config            *domain.Configuration
}

// PriceAmericanLSM prices an American option via Longstaff-Schwartz,
// offered as an alternative engine to the binomial reference.
func (s *Service) PriceAmericanLSM(ctx context.Context, req AmericanLSMRequest) (domain.LSMResult, error) {
	res, err := domain.PriceAmericanLSM(req.Config, req.S, req.K, req.R, req.Sigma, req.T, req.Kind, req.NumExercise)
	if err != nil {
		s.logFailure(ctx, "american-lsm", err)
		return domain.LSMResult{}, err
	}
	s.logger.InfoContext(ctx, "priced american option (lsm)", "symbol", req.Symbol, "price", res.Price,
		"exercised_early_fraction", res.ExercisedEarlyFraction, "mean_exercise_time", res.MeanExerciseTime)
	s.persistAndPublish(ctx, "american", "lsm",
		EuropeanRequest{Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: req.Kind}, res.Price)
	return res, nil
}

// BermudanRequest bundles the parameters for a Bermudan LSM call.
type BermudanRequest struct {
	Symbol            string
	S, K, R, Sigma, T float64
	Kind              domain.OptionKind
	Dates             []float64
	Config            *domain.Configuration
}

// PriceBermudan prices a Bermudan option via Longstaff-Schwartz.
func (s *Service) PriceBermudan(ctx context.Context, req BermudanRequest) (domain.LSMResult, error) {
	res, err := domain.PriceBermudan(req.Config, req.S, req.K, req.R, req.Sigma, req.T, req.Kind, req.Dates)
	if err != nil {
		s.logFailure(ctx, "bermudan", err)
		return domain.LSMResult{}, err
	}
	s.logger.InfoContext(ctx, "priced bermudan option", "symbol", req.Symbol, "price", res.Price)
	s.persistAndPublish(ctx, "bermudan", "lsm",
		EuropeanRequest{Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: req.Kind}, res.Price)
	return res, nil
}

func (s *Service) logFailure(ctx context.Context, instrument string, err error) {
	s.logger.ErrorContext(ctx, "pricing call failed", "instrument", instrument, "error", err)
	if pubErr := s.events.PublishPricingError(ctx, PricingErrorEvent{
		Instrument: instrument, Reason: err.Error(), OccurredOn: time.Now(),
	}); pubErr != nil {
		s.logger.WarnContext(ctx, "failed to publish pricing-error event", "error", pubErr)
	}
}

func (s *Service) warnIfStratifiedIgnored(ctx context.Context, instrument string, ignored bool) {
	if ignored {
		s.logger.WarnContext(ctx, "stratified sampling ignored for path-dependent payoff", "instrument", instrument)
	}
}

// KernelError extracts the kernel's closed error taxonomy from err, if any.
func KernelError(err error) (*mcerrors.Error, bool) {
	kerr, ok := err.(*mcerrors.Error)
	return kerr, ok
}

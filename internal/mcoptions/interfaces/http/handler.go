// Package http exposes the mcoptions pricing service over gin, following
// internal/quant/interfaces/http/handler.go's RegisterRoutes convention.
// This is the sole external transport: see SPEC_FULL.md §10 for why no
// gRPC interface is built alongside it.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/application"
	"github.com/wyfcoding/mcoptions/internal/mcoptions/domain"
	"github.com/wyfcoding/mcoptions/internal/mcoptions/domain/mcerrors"
)

// Handler serves the pricing HTTP surface, one route per instrument family,
// mirroring the procedural entry points of the kernel's external interface.
type Handler struct {
	service *application.Service
}

// NewHandler wraps an application.Service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes binds pricing endpoints under /v1/mcoptions.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/mcoptions")
	{
		api.POST("/european", h.priceEuropean)
		api.POST("/asian", h.priceAsian)
		api.POST("/barrier", h.priceBarrier)
		api.POST("/lookback", h.priceLookback)
		api.POST("/american/binomial", h.priceAmericanBinomial)
		api.POST("/american/lsm", h.priceAmericanLSM)
		api.POST("/bermudan", h.priceBermudan)
	}
}

// configRequest carries the subset of Configuration toggles a caller may
// set per request; unset numeric fields fall back to the compiled-in
// kernel defaults (seed=12345, N=100000, L=252, antithetic=true).
type configRequest struct {
	Seed               *uint64 `json:"seed"`
	NumSimulations     *uint64 `json:"num_simulations"`
	NumSteps           *uint64 `json:"num_steps"`
	Antithetic         *bool   `json:"antithetic"`
	ControlVariates    bool    `json:"control_variates"`
	StratifiedSampling bool    `json:"stratified_sampling"`
	ImportanceSampling bool    `json:"importance_sampling"`
	DriftShift         float64 `json:"drift_shift"`
}

func (r configRequest) toConfiguration() *domain.Configuration {
	cfg := domain.NewDefaultConfiguration()
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	if r.NumSimulations != nil {
		cfg.NumSimulations = *r.NumSimulations
	}
	if r.NumSteps != nil {
		cfg.NumSteps = *r.NumSteps
	}
	if r.Antithetic != nil {
		cfg.Antithetic = *r.Antithetic
	}
	cfg.ControlVariates = r.ControlVariates
	cfg.StratifiedSampling = r.StratifiedSampling
	if r.ImportanceSampling {
		cfg.DriftShift = r.DriftShift
	}
	return cfg
}

func parseKind(kind string) (domain.OptionKind, bool) {
	switch kind {
	case "call":
		return domain.Call, true
	case "put":
		return domain.Put, true
	default:
		return 0, false
	}
}

// kernelErrorStatus maps the kernel's closed error taxonomy onto HTTP
// status codes.
func kernelErrorStatus(err error) int {
	if kerr, ok := application.KernelError(err); ok {
		switch kerr.Kind {
		case mcerrors.InvalidParameter:
			return http.StatusBadRequest
		case mcerrors.InconsistentModel:
			return http.StatusUnprocessableEntity
		case mcerrors.NumericError:
			return http.StatusInternalServerError
		case mcerrors.NotImplemented:
			return http.StatusNotImplemented
		}
	}
	return http.StatusInternalServerError
}

type europeanRequest struct {
	Symbol string        `json:"symbol"`
	S      float64       `json:"s" binding:"required"`
	K      float64       `json:"k" binding:"required"`
	R      float64       `json:"r"`
	Sigma  float64       `json:"sigma" binding:"required"`
	T      float64       `json:"t" binding:"required"`
	Kind   string        `json:"kind" binding:"required"`
	Config configRequest `json:"config"`
}

func (h *Handler) priceEuropean(c *gin.Context) {
	var req europeanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "kind must be call or put", "")
		return
	}

	price, err := h.service.PriceEuropean(c.Request.Context(), application.EuropeanRequest{
		Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: kind,
		Config: req.Config.toConfiguration(),
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price european option", "error", err)
		response.ErrorWithStatus(c, kernelErrorStatus(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"price": price})
}

type asianRequest struct {
	europeanRequest
	M int `json:"m" binding:"required"`
}

func (h *Handler) priceAsian(c *gin.Context) {
	var req asianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "kind must be call or put", "")
		return
	}

	price, err := h.service.PriceAsian(c.Request.Context(), application.AsianRequest{
		EuropeanRequest: application.EuropeanRequest{
			Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: kind,
			Config: req.Config.toConfiguration(),
		},
		M: req.M,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price asian option", "error", err)
		response.ErrorWithStatus(c, kernelErrorStatus(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"price": price})
}

type barrierRequest struct {
	europeanRequest
	B       float64 `json:"b" binding:"required"`
	Rebate  float64 `json:"rebate"`
	Variant int     `json:"variant"`
}

func (h *Handler) priceBarrier(c *gin.Context) {
	var req barrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "kind must be call or put", "")
		return
	}
	variant, ok := domain.BarrierVariantFromCode(req.Variant)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "unrecognized barrier variant code", "")
		return
	}

	price, err := h.service.PriceBarrier(c.Request.Context(), application.BarrierRequest{
		EuropeanRequest: application.EuropeanRequest{
			Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: kind,
			Config: req.Config.toConfiguration(),
		},
		B: req.B, Rebate: req.Rebate, Variant: variant,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price barrier option", "error", err)
		response.ErrorWithStatus(c, kernelErrorStatus(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"price": price})
}

type lookbackRequest struct {
	europeanRequest
	FixedStrike bool `json:"fixed_strike"`
}

func (h *Handler) priceLookback(c *gin.Context) {
	var req lookbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "kind must be call or put", "")
		return
	}

	price, err := h.service.PriceLookback(c.Request.Context(), application.LookbackRequest{
		EuropeanRequest: application.EuropeanRequest{
			Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: kind,
			Config: req.Config.toConfiguration(),
		},
		FixedStrike: req.FixedStrike,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price lookback option", "error", err)
		response.ErrorWithStatus(c, kernelErrorStatus(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"price": price})
}

type americanBinomialRequest struct {
	Symbol string  `json:"symbol"`
	S      float64 `json:"s" binding:"required"`
	K      float64 `json:"k" binding:"required"`
	R      float64 `json:"r"`
	Sigma  float64 `json:"sigma" binding:"required"`
	T      float64 `json:"t" binding:"required"`
	Kind   string  `json:"kind" binding:"required"`
	M      int     `json:"m" binding:"required"`
}

func (h *Handler) priceAmericanBinomial(c *gin.Context) {
	var req americanBinomialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "kind must be call or put", "")
		return
	}

	price, err := h.service.PriceAmericanBinomial(c.Request.Context(), application.AmericanBinomialRequest{
		Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: kind, M: req.M,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price american option (binomial)", "error", err)
		response.ErrorWithStatus(c, kernelErrorStatus(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{"price": price})
}

type americanLSMRequest struct {
	europeanRequest
	NumExercise int `json:"num_exercise" binding:"required"`
}

func (h *Handler) priceAmericanLSM(c *gin.Context) {
	var req americanLSMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "kind must be call or put", "")
		return
	}

	res, err := h.service.PriceAmericanLSM(c.Request.Context(), application.AmericanLSMRequest{
		Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: kind,
		NumExercise: req.NumExercise, Config: req.Config.toConfiguration(),
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price american option (lsm)", "error", err)
		response.ErrorWithStatus(c, kernelErrorStatus(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{
		"price":                    res.Price,
		"mean_exercise_time":       res.MeanExerciseTime,
		"exercised_early_fraction": res.ExercisedEarlyFraction,
	})
}

type bermudanRequest struct {
	europeanRequest
	Dates []float64 `json:"dates" binding:"required"`
}

func (h *Handler) priceBermudan(c *gin.Context) {
	var req bermudanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		response.ErrorWithStatus(c, http.StatusBadRequest, "kind must be call or put", "")
		return
	}

	res, err := h.service.PriceBermudan(c.Request.Context(), application.BermudanRequest{
		Symbol: req.Symbol, S: req.S, K: req.K, R: req.R, Sigma: req.Sigma, T: req.T, Kind: kind,
		Dates: req.Dates, Config: req.Config.toConfiguration(),
	})
	if err != nil {
		logging.Error(c.Request.Context(), "failed to price bermudan option", "error", err)
		response.ErrorWithStatus(c, kernelErrorStatus(err), err.Error(), "")
		return
	}
	response.Success(c, gin.H{
		"price":                    res.Price,
		"mean_exercise_time":       res.MeanExerciseTime,
		"exercised_early_fraction": res.ExercisedEarlyFraction,
	})
}

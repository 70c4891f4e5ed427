package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/mcoptions/internal/mcoptions/application"
)

// Repository is the GORM/MySQL implementation of application.Repository.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a Repository over an already-connected *gorm.DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs the auto-migration for the pricing-result table, following
// the AutoMigrate convention used by cmd/derivatives/main.go.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&PricingResultModel{})
}

// Save persists one PricingRecord as a PricingResultModel row.
func (r *Repository) Save(ctx context.Context, rec *application.PricingRecord) error {
	model := &PricingResultModel{
		Instrument: rec.Instrument,
		Engine:     rec.Engine,
		Symbol:     rec.Symbol,
		Spot:       rec.Spot,
		Strike:     rec.Strike,
		Rate:       rec.Rate,
		Vol:        rec.Vol,
		Maturity:   rec.Maturity,
		Price:      rec.Price,
		ComputedAt: rec.ComputedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Package persistence stores computed prices for audit and replay, grounded
// on internal/pricing/infrastructure/persistence/mysql's GORM model/repository
// pair and internal/derivatives/domain/contract.go's gorm.Model convention.
package persistence

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingResultModel is the GORM row for one pricing call.
type PricingResultModel struct {
	gorm.Model
	Instrument string          `gorm:"column:instrument;type:varchar(32);index;not null"`
	Engine     string          `gorm:"column:engine;type:varchar(32);not null"`
	Symbol     string          `gorm:"column:symbol;type:varchar(32);index"`
	Spot       float64         `gorm:"column:spot"`
	Strike     float64         `gorm:"column:strike"`
	Rate       float64         `gorm:"column:rate"`
	Vol        float64         `gorm:"column:vol"`
	Maturity   float64         `gorm:"column:maturity"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(20,8);not null"`
	ComputedAt time.Time       `gorm:"column:computed_at;index;not null"`
}

func (PricingResultModel) TableName() string { return "mcoptions_pricing_results" }

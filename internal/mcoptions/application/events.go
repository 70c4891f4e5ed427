package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceComputedEvent is published once per pricing call, the mcoptions
// analogue of internal/pricing/domain/events.go's OptionPricedEvent.
type PriceComputedEvent struct {
	Instrument string          `json:"instrument"`
	Engine     string          `json:"engine"`
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	OccurredOn time.Time       `json:"occurred_on"`
}

// PricingErrorEvent is published when a pricing call fails, mirroring
// internal/pricing/domain/events.go's PricingErrorEvent shape.
type PricingErrorEvent struct {
	Instrument string    `json:"instrument"`
	Reason     string    `json:"reason"`
	OccurredOn time.Time `json:"occurred_on"`
}

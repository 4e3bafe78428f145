package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeTransaction is a matched order execution recorded on chain.
// Type-specific decimal adjustment happens at the storage layer; the
// values here are already display amounts.
type ExchangeTransaction struct {
	ID          string          `json:"id"`
	Height      int64           `json:"height"`
	Timestamp   time.Time       `json:"timestamp"`
	Sender      string          `json:"sender"`
	AmountAsset string          `json:"amountAsset"`
	PriceAsset  string          `json:"priceAsset"`
	Amount      decimal.Decimal `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	Matcher     string          `json:"matcher"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is an OHLC aggregate over a single time interval for a pair.
type Candle struct {
	AmountAsset string          `json:"amountAsset"`
	PriceAsset  string          `json:"priceAsset"`
	Time        time.Time       `json:"time"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      decimal.Decimal `json:"volume"`
	QuoteVolume decimal.Decimal `json:"quoteVolume"`
	TxsCount    int64           `json:"txsCount"`
}

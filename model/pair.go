package model

import (
	"github.com/shopspring/decimal"
)

// PairInfo holds aggregated market data for a trading pair as stored
// by the data service. VolumeWaves is the pair's trading volume
// expressed in the reference asset.
type PairInfo struct {
	AmountAsset string          `json:"amountAsset"`
	PriceAsset  string          `json:"priceAsset"`
	FirstPrice  decimal.Decimal `json:"firstPrice"`
	LastPrice   decimal.Decimal `json:"lastPrice"`
	Volume      decimal.Decimal `json:"volume"`
	QuoteVolume decimal.Decimal `json:"quoteVolume"`
	VolumeWaves decimal.Decimal `json:"volumeWaves"`
	TxsCount    int64           `json:"txsCount"`
}

package model

import (
	"github.com/shopspring/decimal"
)

// RateWithPairIDs is the boundary representation of a resolved rate:
// pair members are raw asset ids rather than resolved Asset objects.
// The matcher returns rates in this shape and the HTTP layer serializes it.
type RateWithPairIDs struct {
	AmountAsset string          `json:"amountAsset"`
	PriceAsset  string          `json:"priceAsset"`
	Rate        decimal.Decimal `json:"rate"`
}

// VolumeAwareRateInfo is the internal representation of a computed rate:
// resolved assets plus the pair's trading volume expressed in the
// reference asset, which drives the acceptance policy.
type VolumeAwareRateInfo struct {
	AmountAsset Asset
	PriceAsset  Asset
	Rate        decimal.Decimal
	VolumeWaves decimal.Decimal
}

// Pair returns the resolved pair this rate belongs to.
func (r VolumeAwareRateInfo) Pair() AssetPair {
	return AssetPair{AmountAsset: r.AmountAsset, PriceAsset: r.PriceAsset}
}

// WithPairIDs converts back to the boundary representation.
func (r VolumeAwareRateInfo) WithPairIDs() RateWithPairIDs {
	return RateWithPairIDs{
		AmountAsset: r.AmountAsset.ID,
		PriceAsset:  r.PriceAsset.ID,
		Rate:        r.Rate,
	}
}

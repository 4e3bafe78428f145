package model

// Asset holds chain-level metadata for a single asset.
type Asset struct {
	ID       string // Asset identifier (base58 for issued assets)
	Name     string // Human readable name
	Decimals int    // Decimal precision used to scale raw amounts
}

// AssetPair is an ordered (amount, price) pair of resolved assets.
// No implicit reordering happens here; canonicalization, if any,
// is applied before a pair reaches the rate subsystem.
type AssetPair struct {
	AmountAsset Asset
	PriceAsset  Asset
}

// IDs strips the pair down to its boundary representation.
func (p AssetPair) IDs() IDPair {
	return IDPair{
		AmountAsset: p.AmountAsset.ID,
		PriceAsset:  p.PriceAsset.ID,
	}
}

// IDPair identifies a trading pair by raw asset ids. This is the
// representation used at system boundaries (HTTP, matcher, cache keys).
type IDPair struct {
	AmountAsset string `json:"amountAsset" validate:"required"`
	PriceAsset  string `json:"priceAsset" validate:"required"`
}

// Flipped returns the pair with amount and price sides swapped.
func (p IDPair) Flipped() IDPair {
	return IDPair{AmountAsset: p.PriceAsset, PriceAsset: p.AmountAsset}
}

func (p IDPair) String() string {
	return p.AmountAsset + "/" + p.PriceAsset
}

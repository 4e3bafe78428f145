package pairs

// Orderer canonicalizes trading pairs using the matcher's price-asset
// priority list: the listed asset with the smallest index becomes the
// price asset. Rate cache keys are sensitive to amount/price ordering,
// so canonicalization is applied at the HTTP boundary, before pairs
// reach the rate subsystem.
type Orderer struct {
	priority map[string]int
}

// NewOrderer builds an Orderer from the priority list, most prioritized
// price asset first. A nil or empty list disables reordering.
func NewOrderer(priceAssets []string) *Orderer {
	priority := make(map[string]int, len(priceAssets))
	for i, id := range priceAssets {
		if _, ok := priority[id]; !ok {
			priority[id] = i
		}
	}
	return &Orderer{priority: priority}
}

// Order returns the canonical (amountAsset, priceAsset) ordering of
// the two assets. When both are listed the one with the smaller index
// wins the price side; when one is listed it is the price asset; when
// neither is listed the input ordering is kept.
func (o *Orderer) Order(a, b string) (amountAsset, priceAsset string) {
	ai, aListed := o.priority[a]
	bi, bListed := o.priority[b]

	switch {
	case aListed && bListed:
		if ai < bi {
			return b, a
		}
		return a, b
	case aListed:
		return b, a
	case bListed:
		return a, b
	default:
		return a, b
	}
}

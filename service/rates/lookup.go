package rates

import (
	"github.com/shopspring/decimal"

	"github.com/ordanov/datasvc/model"
)

// InfoLookup answers "what is the best-known rate for pair X" over a
// fixed set of computed rate records, applying the volume acceptance
// policy. It is a pure function of its constructed record set:
// identical inputs always yield identical answers.
type InfoLookup struct {
	table     map[model.IDPair]model.VolumeAwareRateInfo
	threshold decimal.Decimal
	reference model.Asset
}

// NewInfoLookup indexes the given records by pair. When the same pair
// occurs more than once, the first record wins; callers put freshly
// fetched records ahead of cached ones.
func NewInfoLookup(
	records []model.VolumeAwareRateInfo,
	acceptanceVolumeThreshold decimal.Decimal,
	referenceAsset model.Asset,
) *InfoLookup {
	table := make(map[model.IDPair]model.VolumeAwareRateInfo, len(records))
	for _, rec := range records {
		ids := rec.Pair().IDs()
		if _, ok := table[ids]; !ok {
			table[ids] = rec
		}
	}
	return &InfoLookup{
		table:     table,
		threshold: acceptanceVolumeThreshold,
		reference: referenceAsset,
	}
}

// Get resolves the rate for a pair. A direct record is served when the
// pair involves the reference asset or its volume meets the threshold;
// otherwise a rate is synthesized by triangulating both sides through
// the reference asset. Returns nil when neither path produces an
// acceptable rate.
func (l *InfoLookup) Get(pair model.AssetPair) *model.VolumeAwareRateInfo {
	if direct, ok := l.find(pair); ok && l.accepts(direct) {
		return &direct
	}
	if derived, ok := l.triangulate(pair); ok {
		return &derived
	}
	return nil
}

// find locates a record for the pair in either stored orientation.
// A record stored for the flipped pair is served with the reciprocal
// rate; volume in reference units is direction-independent.
func (l *InfoLookup) find(pair model.AssetPair) (model.VolumeAwareRateInfo, bool) {
	ids := pair.IDs()
	if rec, ok := l.table[ids]; ok {
		return rec, true
	}
	rec, ok := l.table[ids.Flipped()]
	if !ok || rec.Rate.IsZero() {
		return model.VolumeAwareRateInfo{}, false
	}
	return model.VolumeAwareRateInfo{
		AmountAsset: pair.AmountAsset,
		PriceAsset:  pair.PriceAsset,
		Rate:        decimal.NewFromInt(1).Div(rec.Rate),
		VolumeWaves: rec.VolumeWaves,
	}, true
}

// accepts is the trust policy: a rate is served directly when its pair
// involves the reference asset or its volume meets the threshold.
func (l *InfoLookup) accepts(rec model.VolumeAwareRateInfo) bool {
	if rec.AmountAsset.ID == l.reference.ID || rec.PriceAsset.ID == l.reference.ID {
		return true
	}
	return rec.VolumeWaves.GreaterThanOrEqual(l.threshold)
}

// triangulate synthesizes a rate through the reference asset. Both
// legs must be known and individually pass the acceptance bar. The
// derived volume is the smaller of the two legs' volumes.
func (l *InfoLookup) triangulate(pair model.AssetPair) (model.VolumeAwareRateInfo, bool) {
	amountLeg, ok := l.find(model.AssetPair{
		AmountAsset: pair.AmountAsset,
		PriceAsset:  l.reference,
	})
	if !ok || !l.accepts(amountLeg) {
		return model.VolumeAwareRateInfo{}, false
	}

	priceLeg, ok := l.find(model.AssetPair{
		AmountAsset: pair.PriceAsset,
		PriceAsset:  l.reference,
	})
	if !ok || !l.accepts(priceLeg) || priceLeg.Rate.IsZero() {
		return model.VolumeAwareRateInfo{}, false
	}

	volume := amountLeg.VolumeWaves
	if priceLeg.VolumeWaves.LessThan(volume) {
		volume = priceLeg.VolumeWaves
	}

	return model.VolumeAwareRateInfo{
		AmountAsset: pair.AmountAsset,
		PriceAsset:  pair.PriceAsset,
		Rate:        amountLeg.Rate.Div(priceLeg.Rate),
		VolumeWaves: volume,
	}, true
}

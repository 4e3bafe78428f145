package rates

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
)

// Slot pairs a requested pair with its resolved rate, nil when the
// rate could not be established. Request order and duplicates are
// preserved: the n-th slot always answers the n-th requested pair.
type Slot struct {
	Req model.IDPair           `json:"req"`
	Res *model.RateWithPairIDs `json:"res"`
}

// Estimator resolves current or historical exchange rates for
// arbitrary asset pairs by combining the local cache, the remote rate
// source and trading-pair volume data.
type Estimator struct {
	cache            Cache
	source           service.RateSource
	pairs            service.Pairs
	assets           service.Assets
	volumeThreshold  decimal.Decimal
	referenceAssetID string
}

// NewEstimator wires an Estimator. referenceAssetID is the fixed
// settlement asset used as triangulation pivot and acceptance anchor;
// volumeThreshold is the minimum pair volume (in reference units) for
// a rate to be trusted directly.
func NewEstimator(
	cache Cache,
	source service.RateSource,
	pairs service.Pairs,
	assets service.Assets,
	volumeThreshold decimal.Decimal,
	referenceAssetID string,
) *Estimator {
	return &Estimator{
		cache:            cache,
		source:           source,
		pairs:            pairs,
		assets:           assets,
		volumeThreshold:  volumeThreshold,
		referenceAssetID: referenceAssetID,
	}
}

// Mget resolves rates for every requested pair. The whole call fails
// if the reference asset or any requested asset cannot be resolved, or
// if the remote source fails; an individually unresolvable pair is not
// an error and yields a nil slot instead.
func (e *Estimator) Mget(ctx context.Context, request service.RateMgetRequest) ([]Slot, error) {
	shouldCache := request.Timestamp == nil

	reference, err := e.assets.Get(ctx, e.referenceAssetID)
	if err != nil {
		return nil, err
	}
	if reference == nil {
		return nil, service.NewResolutionError("reference asset %s not found", e.referenceAssetID)
	}

	pairsWithAssets, assetsByID, err := e.resolvePairs(ctx, request.Pairs)
	if err != nil {
		return nil, err
	}

	preComputed, toBeRequested := partitionByCached(
		e.cache, pairsWithAssets, request.Matcher, shouldCache,
	)

	log.Debug().
		Str("matcher", request.Matcher).
		Int("cached", len(preComputed)).
		Int("requested", len(toBeRequested)).
		Bool("historical", !shouldCache).
		Msg("estimating rates")

	var fresh []model.VolumeAwareRateInfo
	if len(toBeRequested) > 0 {
		fresh, err = e.fetchFresh(ctx, toBeRequested, assetsByID, request)
		if err != nil {
			return nil, err
		}
		if shouldCache {
			for _, rec := range fresh {
				e.cacheUnlessCached(rec, request.Matcher)
			}
		}
	}

	lookup := NewInfoLookup(
		append(fresh, preComputed...),
		e.volumeThreshold,
		*reference,
	)

	results := make([]Slot, 0, len(pairsWithAssets))
	for _, pair := range pairsWithAssets {
		slot := Slot{Req: pair.IDs()}
		if res := lookup.Get(pair); res != nil {
			if shouldCache {
				// covers records synthesized by the lookup,
				// not just directly fetched ones
				e.cacheUnlessCached(*res, request.Matcher)
			}
			boundary := res.WithPairIDs()
			slot.Res = &boundary
		}
		results = append(results, slot)
	}
	return results, nil
}

// resolvePairs batch-resolves every distinct asset referenced by the
// requested pairs and rebuilds the pair list with resolved assets,
// preserving request order and duplicates. Any unknown asset fails the
// whole request.
func (e *Estimator) resolvePairs(
	ctx context.Context,
	pairs []model.IDPair,
) ([]model.AssetPair, map[string]model.Asset, error) {
	var ids []string
	seen := make(map[string]struct{}, 2*len(pairs))
	for _, pair := range pairs {
		for _, id := range []string{pair.AmountAsset, pair.PriceAsset} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	resolved, err := e.assets.Mget(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	assetsByID := make(map[string]model.Asset, len(ids))
	for i, asset := range resolved {
		if asset == nil {
			return nil, nil, service.NewResolutionError(
				"some assets of specified pairs not found: %s", ids[i],
			)
		}
		assetsByID[asset.ID] = *asset
	}

	pairsWithAssets := make([]model.AssetPair, 0, len(pairs))
	for _, pair := range pairs {
		pairsWithAssets = append(pairsWithAssets, model.AssetPair{
			AmountAsset: assetsByID[pair.AmountAsset],
			PriceAsset:  assetsByID[pair.PriceAsset],
		})
	}
	return pairsWithAssets, assetsByID, nil
}

// fetchFresh asks the remote source for the missing pairs and enriches
// each returned rate with the pair's trading volume. A pair with no
// recorded market data is treated as zero-volume, not as an error.
func (e *Estimator) fetchFresh(
	ctx context.Context,
	toBeRequested []model.AssetPair,
	assetsByID map[string]model.Asset,
	request service.RateMgetRequest,
) ([]model.VolumeAwareRateInfo, error) {
	idPairs := make([]model.IDPair, 0, len(toBeRequested))
	for _, pair := range toBeRequested {
		idPairs = append(idPairs, pair.IDs())
	}

	ratesWithIDs, err := e.source.Mget(ctx, service.RateMgetRequest{
		Pairs:     idPairs,
		Matcher:   request.Matcher,
		Timestamp: request.Timestamp,
	})
	if err != nil {
		return nil, err
	}
	if len(ratesWithIDs) != len(idPairs) {
		return nil, fmt.Errorf("rate source returned %d records for %d pairs",
			len(ratesWithIDs), len(idPairs))
	}

	ratePairs := make([]model.IDPair, 0, len(ratesWithIDs))
	for _, r := range ratesWithIDs {
		ratePairs = append(ratePairs, model.IDPair{
			AmountAsset: r.AmountAsset,
			PriceAsset:  r.PriceAsset,
		})
	}

	infos, err := e.pairs.Mget(ctx, ratePairs, request.Matcher)
	if err != nil {
		return nil, err
	}

	fresh := make([]model.VolumeAwareRateInfo, 0, len(ratesWithIDs))
	for i, r := range ratesWithIDs {
		volume := decimal.Zero
		if i < len(infos) && infos[i] != nil {
			volume = infos[i].VolumeWaves
		}
		fresh = append(fresh, model.VolumeAwareRateInfo{
			AmountAsset: assetsByID[r.AmountAsset],
			PriceAsset:  assetsByID[r.PriceAsset],
			Rate:        r.Rate,
			VolumeWaves: volume,
		})
	}
	return fresh, nil
}

// cacheUnlessCached back-fills the cache; first writer wins, an
// existing entry is never overwritten.
func (e *Estimator) cacheUnlessCached(rec model.VolumeAwareRateInfo, matcher string) {
	key := KeyFor(rec.Pair(), matcher)
	if !e.cache.Has(key) {
		e.cache.Set(key, rec)
	}
}

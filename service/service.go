package service

import (
	"context"
	"time"

	"github.com/ordanov/datasvc/model"
)

// RateMgetRequest is a batch rate query. A nil Timestamp means "current
// rates" and makes the results eligible for caching; a set Timestamp
// asks for historical rates, which are never cached.
type RateMgetRequest struct {
	Pairs     []model.IDPair
	Matcher   string
	Timestamp *time.Time
}

// Assets interface describes methods
// for resolving asset metadata
type Assets interface {
	// Get resolves a single asset by id;
	// returns nil when the asset is unknown
	Get(ctx context.Context, id string) (*model.Asset, error)

	// Mget resolves a batch of assets;
	// one slot per input id, in order, nil for unknown ids
	Mget(ctx context.Context, ids []string) ([]*model.Asset, error)
}

// Pairs interface describes methods
// for resolving trading pair market data
type Pairs interface {
	// Get returns market data for a single pair;
	// nil when the pair has no recorded data
	Get(ctx context.Context, pair model.IDPair, matcher string) (*model.PairInfo, error)

	// Mget returns market data for a batch of pairs;
	// one slot per input pair, in order, nil for unknown pairs
	Mget(ctx context.Context, pairs []model.IDPair, matcher string) ([]*model.PairInfo, error)

	// Search returns pairs matching the request, most traded first
	Search(ctx context.Context, req PairsSearchRequest) ([]model.PairInfo, error)
}

// PairsSearchRequest narrows a pair search to pairs involving the
// given assets. Empty SearchByAssets means "all pairs".
type PairsSearchRequest struct {
	Matcher        string
	SearchByAssets []string
	Limit          int
}

// RateSource interface describes the remote matcher-backed rate
// provider. Mget returns exactly one record per requested pair, in
// request order, or fails entirely - no partial result arrays.
type RateSource interface {
	Mget(ctx context.Context, req RateMgetRequest) ([]model.RateWithPairIDs, error)
}

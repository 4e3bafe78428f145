package storage

import (
	"context"
	"time"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
)

// CandlesRequest bounds a candle query to a pair, time range and
// interval.
type CandlesRequest struct {
	Pair     model.IDPair
	Matcher  string
	From     time.Time
	To       time.Time
	Interval time.Duration
}

// TransactionsRequest filters exchange transactions.
type TransactionsRequest struct {
	Pair      *model.IDPair
	Matcher   string
	Sender    string
	TimeStart time.Time
	TimeEnd   time.Time
	Limit     int
}

// Storage interface describes methods of
// the persistence layer
type Storage interface {
	// Asset loads one asset by id, nil when unknown
	Asset(ctx context.Context, id string) (*model.Asset, error)

	// Assets loads a batch of assets; order of the result is
	// unspecified, absent ids are simply missing from it
	Assets(ctx context.Context, ids []string) ([]*model.Asset, error)

	// Pair loads market data for one pair, nil when unknown
	Pair(ctx context.Context, pair model.IDPair, matcher string) (*model.PairInfo, error)

	// Pairs loads market data for a batch of pairs;
	// one slot per input pair, in order, nil for unknown pairs
	Pairs(ctx context.Context, pairs []model.IDPair, matcher string) ([]*model.PairInfo, error)

	// SearchPairs lists pairs matching the request, most traded first
	SearchPairs(ctx context.Context, req service.PairsSearchRequest) ([]model.PairInfo, error)

	// Candles aggregates OHLC data for the requested range
	Candles(ctx context.Context, req CandlesRequest) ([]model.Candle, error)

	// ExchangeTransactions lists matched executions, newest first
	ExchangeTransactions(ctx context.Context, req TransactionsRequest) ([]model.ExchangeTransaction, error)
}

package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
	"github.com/ordanov/datasvc/storage"
)

type Persistence struct {
	dbConn *sql.DB
}

func New(dbConn *sql.DB) storage.Storage {
	return &Persistence{
		dbConn: dbConn,
	}
}

// Asset implements storage.Storage.
func (p *Persistence) Asset(ctx context.Context, id string) (*model.Asset, error) {
	assets, err := p.Assets(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, nil
	}
	return assets[0], nil
}

// Assets implements storage.Storage.
func (p *Persistence) Assets(ctx context.Context, ids []string) ([]*model.Asset, error) {
	assetsQuery := `SELECT asset_id, asset_name, decimals
				 FROM assets
				 WHERE asset_id = ANY($1)`

	rows, err := p.dbConn.QueryContext(ctx, assetsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*model.Asset
	for rows.Next() {
		a := model.Asset{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Decimals); err != nil {
			return nil, err
		}
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

// Pair implements storage.Storage.
func (p *Persistence) Pair(ctx context.Context, pair model.IDPair, matcher string) (*model.PairInfo, error) {
	infos, err := p.Pairs(ctx, []model.IDPair{pair}, matcher)
	if err != nil {
		return nil, err
	}
	return infos[0], nil
}

// Pairs implements storage.Storage.
func (p *Persistence) Pairs(ctx context.Context, pairs []model.IDPair, matcher string) ([]*model.PairInfo, error) {
	pairsQuery := `SELECT amount_asset_id, price_asset_id,
					first_price, last_price, volume, quote_volume, volume_waves, txs_count
				 FROM pairs
				 WHERE matcher_address = $1
				   AND amount_asset_id = ANY($2)
				   AND price_asset_id = ANY($3)`

	amountIDs := make([]string, 0, len(pairs))
	priceIDs := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		amountIDs = append(amountIDs, pair.AmountAsset)
		priceIDs = append(priceIDs, pair.PriceAsset)
	}

	rows, err := p.dbConn.QueryContext(ctx, pairsQuery, matcher, pq.Array(amountIDs), pq.Array(priceIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[model.IDPair]model.PairInfo)
	for rows.Next() {
		info, err := scanPairInfo(rows)
		if err != nil {
			return nil, err
		}
		found[model.IDPair{AmountAsset: info.AmountAsset, PriceAsset: info.PriceAsset}] = info
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// the cross product matched by the query is filtered back down to
	// the requested pairs, one slot per input pair
	results := make([]*model.PairInfo, len(pairs))
	for i, pair := range pairs {
		if info, ok := found[pair]; ok {
			v := info
			results[i] = &v
		}
	}
	return results, nil
}

// SearchPairs implements storage.Storage.
func (p *Persistence) SearchPairs(ctx context.Context, req service.PairsSearchRequest) ([]model.PairInfo, error) {
	searchQuery := `SELECT amount_asset_id, price_asset_id,
					first_price, last_price, volume, quote_volume, volume_waves, txs_count
				 FROM pairs
				 WHERE matcher_address = $1
				   AND (cardinality($2::text[]) = 0
						OR amount_asset_id = ANY($2)
						OR price_asset_id = ANY($2))
				 ORDER BY volume_waves DESC
				 LIMIT $3`

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	assets := req.SearchByAssets
	if assets == nil {
		assets = []string{}
	}

	rows, err := p.dbConn.QueryContext(ctx, searchQuery, req.Matcher, pq.Array(assets), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.PairInfo
	for rows.Next() {
		info, err := scanPairInfo(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, info)
	}
	return results, rows.Err()
}

// Candles implements storage.Storage.
func (p *Persistence) Candles(ctx context.Context, req storage.CandlesRequest) ([]model.Candle, error) {
	candlesQuery := `SELECT to_timestamp((EXTRACT(EPOCH FROM time_start)::bigint / $6) * $6) AS bucket,
					(array_agg(open ORDER BY time_start))[1],
					MAX(high), MIN(low),
					(array_agg(close ORDER BY time_start DESC))[1],
					SUM(volume), SUM(quote_volume), SUM(txs_count)
				 FROM candles
				 WHERE amount_asset_id = $1
				   AND price_asset_id = $2
				   AND matcher_address = $3
				   AND time_start >= $4
				   AND time_start < $5
				 GROUP BY bucket
				 ORDER BY bucket`

	rows, err := p.dbConn.QueryContext(ctx, candlesQuery,
		req.Pair.AmountAsset,
		req.Pair.PriceAsset,
		req.Matcher,
		req.From,
		req.To,
		int64(req.Interval/time.Second),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		c := model.Candle{
			AmountAsset: req.Pair.AmountAsset,
			PriceAsset:  req.Pair.PriceAsset,
		}
		var open, high, low, closing, volume, quoteVolume string
		if err := rows.Scan(&c.Time, &open, &high, &low, &closing, &volume, &quoteVolume, &c.TxsCount); err != nil {
			return nil, err
		}
		if c.Open, err = decimal.NewFromString(open); err != nil {
			return nil, err
		}
		if c.High, err = decimal.NewFromString(high); err != nil {
			return nil, err
		}
		if c.Low, err = decimal.NewFromString(low); err != nil {
			return nil, err
		}
		if c.Close, err = decimal.NewFromString(closing); err != nil {
			return nil, err
		}
		if c.Volume, err = decimal.NewFromString(volume); err != nil {
			return nil, err
		}
		if c.QuoteVolume, err = decimal.NewFromString(quoteVolume); err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// ExchangeTransactions implements storage.Storage.
func (p *Persistence) ExchangeTransactions(ctx context.Context, req storage.TransactionsRequest) ([]model.ExchangeTransaction, error) {
	txQuery := `SELECT id, height, time_stamp, sender,
					amount_asset_id, price_asset_id, amount, price, matcher_address
				 FROM txs_exchange
				 WHERE matcher_address = $1
				   AND ($2 = '' OR sender = $2)
				   AND ($3 = '' OR amount_asset_id = $3)
				   AND ($4 = '' OR price_asset_id = $4)
				   AND time_stamp >= $5
				   AND time_stamp <= $6
				 ORDER BY time_stamp DESC
				 LIMIT $7`

	var amountAsset, priceAsset string
	if req.Pair != nil {
		amountAsset = req.Pair.AmountAsset
		priceAsset = req.Pair.PriceAsset
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := p.dbConn.QueryContext(ctx, txQuery,
		req.Matcher, req.Sender, amountAsset, priceAsset,
		req.TimeStart, req.TimeEnd, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []model.ExchangeTransaction
	for rows.Next() {
		t := model.ExchangeTransaction{}
		var amount, price string
		if err := rows.Scan(&t.ID, &t.Height, &t.Timestamp, &t.Sender,
			&t.AmountAsset, &t.PriceAsset, &amount, &price, &t.Matcher); err != nil {
			return nil, err
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanPairInfo(rows *sql.Rows) (model.PairInfo, error) {
	info := model.PairInfo{}
	var firstPrice, lastPrice, volume, quoteVolume, volumeWaves string
	err := rows.Scan(&info.AmountAsset, &info.PriceAsset,
		&firstPrice, &lastPrice, &volume, &quoteVolume, &volumeWaves, &info.TxsCount)
	if err != nil {
		return info, err
	}
	if info.FirstPrice, err = decimal.NewFromString(firstPrice); err != nil {
		return info, err
	}
	if info.LastPrice, err = decimal.NewFromString(lastPrice); err != nil {
		return info, err
	}
	if info.Volume, err = decimal.NewFromString(volume); err != nil {
		return info, err
	}
	if info.QuoteVolume, err = decimal.NewFromString(quoteVolume); err != nil {
		return info, err
	}
	if info.VolumeWaves, err = decimal.NewFromString(volumeWaves); err != nil {
		return info, err
	}
	return info, nil
}

package pairs

import (
	"context"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
	"github.com/ordanov/datasvc/storage"
)

// Service serves trading pair market data from storage.
type Service struct {
	db storage.Storage
}

func New(db storage.Storage) *Service {
	return &Service{db: db}
}

// Get implements service.Pairs.
func (s *Service) Get(ctx context.Context, pair model.IDPair, matcher string) (*model.PairInfo, error) {
	return s.db.Pair(ctx, pair, matcher)
}

// Mget implements service.Pairs.
func (s *Service) Mget(ctx context.Context, pairs []model.IDPair, matcher string) ([]*model.PairInfo, error) {
	return s.db.Pairs(ctx, pairs, matcher)
}

// Search implements service.Pairs.
func (s *Service) Search(ctx context.Context, req service.PairsSearchRequest) ([]model.PairInfo, error) {
	return s.db.SearchPairs(ctx, req)
}

var _ service.Pairs = (*Service)(nil)

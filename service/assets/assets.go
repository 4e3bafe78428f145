package assets

import (
	"context"
	"sync"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
	"github.com/ordanov/datasvc/storage"
)

// Service resolves asset metadata from storage. Assets are immutable
// once issued, so resolved assets are kept in memory indefinitely and
// storage is only hit for ids not seen before.
type Service struct {
	lock  sync.RWMutex // rw lock guards known
	known map[string]model.Asset
	db    storage.Storage
}

func New(db storage.Storage) *Service {
	return &Service{
		known: make(map[string]model.Asset),
		db:    db,
	}
}

// Get implements service.Assets.
func (s *Service) Get(ctx context.Context, id string) (*model.Asset, error) {
	resolved, err := s.Mget(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return resolved[0], nil
}

// Mget implements service.Assets. One slot per input id, in order,
// nil for unknown ids; unknown ids are not an error here, callers
// decide whether an unresolved asset is fatal.
func (s *Service) Mget(ctx context.Context, ids []string) ([]*model.Asset, error) {
	results := make([]*model.Asset, len(ids))

	var missing []string
	s.lock.RLock()
	for i, id := range ids {
		if asset, ok := s.known[id]; ok {
			a := asset
			results[i] = &a
			continue
		}
		missing = append(missing, ids[i])
	}
	s.lock.RUnlock()

	if len(missing) == 0 {
		return results, nil
	}

	loaded, err := s.db.Assets(ctx, missing)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Asset, len(loaded))
	s.lock.Lock()
	for _, asset := range loaded {
		if asset == nil {
			continue
		}
		s.known[asset.ID] = *asset
		byID[asset.ID] = *asset
	}
	s.lock.Unlock()

	for i, id := range ids {
		if results[i] != nil {
			continue
		}
		if asset, ok := byID[id]; ok {
			a := asset
			results[i] = &a
		}
	}
	return results, nil
}

var _ service.Assets = (*Service)(nil)

package games

import (
	"context"
	"fmt"

	"gamespace/internal/shared/constants"
	"gamespace/pkg/cache"
)

type Service interface {
	ListGames(ctx context.Context, query ListQuery) ([]Card, error)
	// Import stores games and drops the cached inventory
	Import(ctx context.Context, games []Game) error
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService takes a nil repo when no database is configured; every call
// then fails with ErrInventoryUnavailable
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) ListGames(ctx context.Context, query ListQuery) ([]Card, error) {
	if s.repo == nil {
		return nil, ErrInventoryUnavailable
	}

	var all []Game
	if query.Search != "" {
		found, err := s.repo.List(ctx, query.Search)
		if err != nil {
			return nil, fmt.Errorf("search games: %w", err)
		}
		all = found
	} else {
		err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_GAMES_LIST, constants.TTL_GAMES_LIST,
			func() (interface{}, error) {
				return s.repo.List(ctx, "")
			}, &all)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
	}

	filtered := make([]Game, 0, len(all))
	for _, g := range all {
		if query.Category != "" && !g.HasCategory(query.Category) {
			continue
		}
		if query.Players > 0 && !g.Fits(query.Players) {
			continue
		}
		filtered = append(filtered, g)
	}
	return NewCards(filtered), nil
}

func (s *service) Import(ctx context.Context, games []Game) error {
	if s.repo == nil {
		return ErrInventoryUnavailable
	}
	if err := s.repo.Upsert(ctx, games); err != nil {
		return fmt.Errorf("import games: %w", err)
	}
	return s.cache.Delete(ctx, constants.CACHE_KEY_GAMES_LIST)
}

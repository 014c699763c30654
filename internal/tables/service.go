package tables

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"gamespace/internal/shared/constants"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/cache"
)

// Layout sources
const (
	SourceStatic = "static"
	SourceAPI    = "api"
)

// Service interface defines the table operations the UI needs
type Service interface {
	// ListByRoom returns a room's tables from the configured layout source
	ListByRoom(ctx context.Context, roomID string) ([]Table, error)
	GetTable(ctx context.Context, tableID string) (*Table, error)
	GetTableSeats(ctx context.Context, tableID string) ([]Seat, error)
	FindAvailable(ctx context.Context, query AvailableTablesQuery) ([]Table, error)
	Source() string
}

// Client is the slice of apiclient.Client the service uses
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest interface{}) error
}

type service struct {
	client Client
	cache  cache.Service
	source string
}

func NewService(client Client, cacheService cache.Service, source string) Service {
	if source != SourceAPI {
		source = SourceStatic
	}
	return &service{client: client, cache: cacheService, source: source}
}

func (s *service) Source() string {
	return s.source
}

func (s *service) ListByRoom(ctx context.Context, roomID string) ([]Table, error) {
	if s.source == SourceStatic {
		return StaticLayout(roomID), nil
	}

	var out []Table
	err := s.cache.GetOrSet(ctx, constants.BuildTablesByRoomKey(roomID), constants.TTL_TABLES_BY_ROOM,
		func() (interface{}, error) {
			var records []Record
			if err := s.client.Get(ctx, "/rooms/"+url.PathEscape(roomID)+"/tables", nil, &records); err != nil {
				return nil, err
			}
			return AdaptAll(records, roomID), nil
		}, &out)
	if err != nil {
		return nil, fmt.Errorf("list tables for room %s: %w", roomID, err)
	}
	return out, nil
}

func (s *service) GetTable(ctx context.Context, tableID string) (*Table, error) {
	var out Table
	err := s.cache.GetOrSet(ctx, constants.BuildTableDetailKey(tableID), constants.TTL_TABLE_DETAIL,
		func() (interface{}, error) {
			var rec Record
			if err := s.client.Get(ctx, "/tables/"+url.PathEscape(tableID), nil, &rec); err != nil {
				if apiclient.IsNotFound(err) {
					return nil, ErrTableNotFound
				}
				return nil, err
			}
			return rec.Adapt(0)
		}, &out)
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", tableID, err)
	}
	return &out, nil
}

func (s *service) GetTableSeats(ctx context.Context, tableID string) ([]Seat, error) {
	var records []SeatRecord
	if err := s.client.Get(ctx, "/tables/"+url.PathEscape(tableID)+"/seats", nil, &records); err != nil {
		if apiclient.IsNotFound(err) {
			return nil, fmt.Errorf("get seats for table %s: %w", tableID, ErrTableNotFound)
		}
		return nil, fmt.Errorf("get seats for table %s: %w", tableID, err)
	}

	seats := make([]Seat, 0, len(records))
	for i, rec := range records {
		seats = append(seats, rec.Adapt(i))
	}
	return seats, nil
}

func (s *service) FindAvailable(ctx context.Context, query AvailableTablesQuery) ([]Table, error) {
	params := url.Values{}
	if query.GameType != "" {
		params.Set("gameType", query.GameType)
	}
	if query.MinCapacity > 0 {
		params.Set("minCapacity", strconv.Itoa(query.MinCapacity))
	}

	var records []Record
	if err := s.client.Get(ctx, "/tables/available", params, &records); err != nil {
		return nil, fmt.Errorf("find available tables: %w", err)
	}
	return AdaptAll(records, ""), nil
}

package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"gamespace/internal/shared/constants"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/cache"
)

const DateLayout = "2006-01-02"

// Service interface defines the room operations of the web app
type Service interface {
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	// GetAvailability returns the per-room availability for date (YYYY-MM-DD)
	GetAvailability(ctx context.Context, date string) ([]Availability, error)
	// RefreshAvailability bypasses the cache and stores the fresh snapshot
	RefreshAvailability(ctx context.Context, date string) ([]Availability, error)
	InvalidateAvailability(ctx context.Context) error
}

// Client is the slice of apiclient.Client the service uses
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest interface{}) error
}

type service struct {
	client Client
	cache  cache.Service
}

func NewService(client Client, cacheService cache.Service) Service {
	return &service{client: client, cache: cacheService}
}

func (s *service) ListRooms(ctx context.Context) ([]Room, error) {
	var out []Room
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_ROOMS_LIST, constants.TTL_ROOMS_LIST,
		func() (interface{}, error) {
			var records []record
			if err := s.client.Get(ctx, "/rooms", nil, &records); err != nil {
				return nil, err
			}
			rooms := make([]Room, 0, len(records))
			for _, rec := range records {
				rooms = append(rooms, rec.adapt())
			}
			return rooms, nil
		}, &out)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return out, nil
}

func (s *service) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	var out Room
	err := s.cache.GetOrSet(ctx, constants.BuildRoomDetailKey(roomID), constants.TTL_ROOM_DETAIL,
		func() (interface{}, error) {
			var rec record
			if err := s.client.Get(ctx, "/rooms/"+url.PathEscape(roomID), nil, &rec); err != nil {
				if apiclient.IsNotFound(err) {
					return nil, ErrRoomNotFound
				}
				return nil, err
			}
			return rec.adapt(), nil
		}, &out)
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	return &out, nil
}

func (s *service) GetAvailability(ctx context.Context, date string) ([]Availability, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	var out []Availability
	err := s.cache.GetOrSet(ctx, constants.BuildRoomAvailabilityKey(date), constants.TTL_ROOM_AVAILABILITY,
		func() (interface{}, error) {
			return s.fetchAvailability(ctx, date)
		}, &out)
	if err != nil {
		return nil, fmt.Errorf("get availability for %s: %w", date, err)
	}
	return out, nil
}

func (s *service) RefreshAvailability(ctx context.Context, date string) ([]Availability, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	out, err := s.fetchAvailability(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("refresh availability for %s: %w", date, err)
	}
	if err := s.cache.Set(ctx, constants.BuildRoomAvailabilityKey(date), out, constants.TTL_ROOM_AVAILABILITY); err != nil {
		return out, fmt.Errorf("cache availability for %s: %w", date, err)
	}
	return out, nil
}

func (s *service) InvalidateAvailability(ctx context.Context) error {
	return s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_AVAILABILITY)
}

func (s *service) fetchAvailability(ctx context.Context, date string) ([]Availability, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/rooms/availability", url.Values{"date": {date}}, &raw); err != nil {
		return nil, err
	}
	return decodeAvailability(raw)
}

// decodeAvailability accepts both the bare array and the dated envelope
func decodeAvailability(raw json.RawMessage) ([]Availability, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Availability{}, nil
	}

	if trimmed[0] == '{' {
		var env availabilityEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode availability envelope: %w", err)
		}
		if env.Rooms == nil {
			return []Availability{}, nil
		}
		return env.Rooms, nil
	}

	var list []Availability
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return list, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// Today is the local calendar date the selector and live feed use
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

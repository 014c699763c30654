package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gamespace/internal/shared/constants"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/cache"
	"gamespace/pkg/logger"
)

// Service interface defines the booking operations of the web app; the
// REST API owns the records
type Service interface {
	CreateBooking(ctx context.Context, username string, req CreateBookingRequest) (*Booking, error)
	GetUserBookings(ctx context.Context) ([]Booking, error)
	GetBookingByID(ctx context.Context, bookingID string) (*Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, req UpdateBookingRequest) (*Booking, error)
	CancelBooking(ctx context.Context, username, bookingID string) error
	GetAvailableSlots(ctx context.Context, tableID, date string) ([]TimeSlot, error)
	// InvalidateTable drops cached availability after a booking made elsewhere
	InvalidateTable(ctx context.Context, tableID string)
}

// Client is the slice of apiclient.Client the service uses
type Client interface {
	Get(ctx context.Context, path string, query url.Values, dest interface{}) error
	Post(ctx context.Context, path string, body, dest interface{}) error
	Put(ctx context.Context, path string, body, dest interface{}) error
	Delete(ctx context.Context, path string, dest interface{}) error
}

// Notifier is told about every booking the API confirmed
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking Booking, username string) error
}

type service struct {
	client   Client
	cache    cache.Service
	notifier Notifier
	envelope string
}

func NewService(client Client, cacheService cache.Service, notifier Notifier, envelope string) Service {
	if envelope != EnvelopeArray {
		envelope = EnvelopeObject
	}
	return &service{
		client:   client,
		cache:    cacheService,
		notifier: notifier,
		envelope: envelope,
	}
}

func (s *service) CreateBooking(ctx context.Context, username string, req CreateBookingRequest) (*Booking, error) {
	var rec record
	if err := s.client.Post(ctx, "/bookings", req, &rec); err != nil {
		logger.GetDefault().LogBookingRejected(ctx, req.TableID, apiclient.MessageOf(err, err.Error()))
		return nil, fmt.Errorf("create booking: %w", err)
	}

	booking := rec.adapt()
	if booking.TableID == "" {
		booking.TableID = req.TableID
	}
	logger.GetDefault().LogBookingCreated(ctx, booking.ID, booking.TableID, username)

	s.invalidate(ctx, booking.TableID)
	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, booking, username); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "Failed to publish booking confirmation", err, map[string]interface{}{
				"booking_id": booking.ID,
			})
		}
	}
	return &booking, nil
}

func (s *service) GetUserBookings(ctx context.Context) ([]Booking, error) {
	var records []record
	if err := s.client.Get(ctx, "/bookings", nil, &records); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]Booking, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.adapt())
	}
	return out, nil
}

func (s *service) GetBookingByID(ctx context.Context, bookingID string) (*Booking, error) {
	var rec record
	if err := s.client.Get(ctx, "/bookings/"+url.PathEscape(bookingID), nil, &rec); err != nil {
		if apiclient.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	b := rec.adapt()
	return &b, nil
}

func (s *service) UpdateBooking(ctx context.Context, bookingID string, req UpdateBookingRequest) (*Booking, error) {
	var rec record
	if err := s.client.Put(ctx, "/bookings/"+url.PathEscape(bookingID), req, &rec); err != nil {
		if apiclient.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("update booking %s: %w", bookingID, err)
	}
	b := rec.adapt()
	s.invalidate(ctx, b.TableID)
	return &b, nil
}

func (s *service) CancelBooking(ctx context.Context, username, bookingID string) error {
	if err := s.client.Delete(ctx, "/bookings/"+url.PathEscape(bookingID), nil); err != nil {
		if apiclient.IsNotFound(err) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	logger.GetDefault().LogBookingCancelled(ctx, bookingID, username)
	s.invalidate(ctx, "")
	return nil
}

func (s *service) GetAvailableSlots(ctx context.Context, tableID, date string) ([]TimeSlot, error) {
	var out []TimeSlot
	err := s.cache.GetOrSet(ctx, constants.BuildTableSlotsKey(tableID, date), constants.TTL_TABLE_SLOTS,
		func() (interface{}, error) {
			var raw json.RawMessage
			query := url.Values{"tableId": {tableID}, "date": {date}}
			if err := s.client.Get(ctx, "/bookings/available-slots", query, &raw); err != nil {
				return nil, err
			}
			return decodeSlots(raw, s.envelope)
		}, &out)
	if err != nil {
		return nil, fmt.Errorf("available slots for %s on %s: %w", tableID, date, err)
	}
	if out == nil {
		out = []TimeSlot{}
	}
	return out, nil
}

func (s *service) InvalidateTable(ctx context.Context, tableID string) {
	s.invalidate(ctx, tableID)
}

// invalidate drops cached availability after a booking changed; an empty
// tableID drops every table's slots
func (s *service) invalidate(ctx context.Context, tableID string) {
	slots := constants.PATTERN_INVALIDATE_SLOTS
	if tableID != "" {
		slots = constants.BuildTableSlotsPattern(tableID)
	}
	for _, pattern := range []string{constants.PATTERN_INVALIDATE_AVAILABILITY, slots} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "Failed to invalidate cache", err, map[string]interface{}{
				"pattern": pattern,
			})
		}
	}
}

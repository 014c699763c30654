package notifications

import (
	"encoding/json"
	"errors"
	"time"

	"gamespace/internal/bookings"
)

type EventType string

const (
	EventBookingConfirmed EventType = "BOOKING_CONFIRMED"
)

// BookingEvent is the message published for every confirmed booking
type BookingEvent struct {
	Type       EventType `json:"type"`
	BookingID  string    `json:"bookingId"`
	TableID    string    `json:"tableId"`
	SeatID     string    `json:"seatId,omitempty"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Players    int       `json:"players"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewBookingConfirmed(b bookings.Booking, username string, now time.Time) *BookingEvent {
	return &BookingEvent{
		Type:       EventBookingConfirmed,
		BookingID:  b.ID,
		TableID:    b.TableID,
		SeatID:     b.SeatID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Players:    b.NumberOfPlayers,
		Username:   username,
		OccurredAt: now.UTC(),
	}
}

// PartitionKey keeps every event of one table on one partition, in order
func (e *BookingEvent) PartitionKey() string {
	return e.TableID
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *BookingEvent) Validate() error {
	if e.Type == "" {
		return ErrMissingType
	}
	if e.TableID == "" {
		return ErrMissingTable
	}
	return nil
}

func ParseBookingEvent(raw []byte) (*BookingEvent, error) {
	var e BookingEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

var (
	ErrMissingType  = errors.New("booking event has no type")
	ErrMissingTable = errors.New("booking event has no table id")
)

package bookings

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Booking is the server's record of a reservation
type Booking struct {
	ID              string    `json:"id"`
	TableID         string    `json:"tableId"`
	SeatID          string    `json:"seatId,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	NumberOfPlayers int       `json:"numberOfPlayers"`
	Status          Status    `json:"status"`
	TotalPrice      float64   `json:"totalPrice"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TimeRange renders "Jan 10, 2025 9:00 AM - 11:00 AM"
func (b Booking) TimeRange() string {
	return FormatRange(b.StartTime, b.EndTime)
}

// record is a booking as the REST API sends it; the id comes as _id or id
// and the table and seat may be populated objects
type record struct {
	ID              string    `json:"id"`
	MongoID         string    `json:"_id"`
	TableID         ref       `json:"tableId"`
	SeatID          ref       `json:"seatId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	NumberOfPlayers int       `json:"numberOfPlayers"`
	Status          string    `json:"status"`
	TotalPrice      float64   `json:"totalPrice"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (r record) adapt() Booking {
	id := r.ID
	if id == "" {
		id = r.MongoID
	}
	status := ParseStatus(r.Status)
	if r.Status == "" {
		status = StatusConfirmed
	}
	return Booking{
		ID:              id,
		TableID:         string(r.TableID),
		SeatID:          string(r.SeatID),
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		NumberOfPlayers: r.NumberOfPlayers,
		Status:          status,
		TotalPrice:      r.TotalPrice,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// TimeSlot is one bookable interval for a table on a date
type TimeSlot struct {
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	IsAvailable bool      `json:"isAvailable"`
}

// Key identifies a slot within a day's list
func (s TimeSlot) Key() string {
	return s.StartTime.UTC().Format(time.RFC3339)
}

// Label renders "9:00 AM - 11:00 AM"
func (s TimeSlot) Label() string {
	return s.StartTime.Format(clockLayout) + " - " + s.EndTime.Format(clockLayout)
}

const (
	clockLayout = "3:04 PM"
	dayLayout   = "Jan 2, 2006"
)

func FormatRange(start, end time.Time) string {
	return fmt.Sprintf("%s %s - %s", start.Format(dayLayout), start.Format(clockLayout), end.Format(clockLayout))
}

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidDraft       = errors.New("draft must name a seat or the full table, not both")
	ErrUnexpectedEnvelope = errors.New("unexpected available slots envelope")
)

// ref is an id that the API sends either bare or as a populated document
type ref string

func (r *ref) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ref(id)
		return nil
	}

	var doc struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode reference: %w", err)
	}
	if doc.ID != "" {
		*r = ref(doc.ID)
	} else {
		*r = ref(doc.MongoID)
	}
	return nil
}

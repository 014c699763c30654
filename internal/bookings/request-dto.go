package bookings

import "time"

// CreateBookingRequest is the body POST /bookings expects
type CreateBookingRequest struct {
	TableID         string    `json:"tableId" validate:"required"`
	StartTime       time.Time `json:"startTime" validate:"required"`
	EndTime         time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	NumberOfPlayers int       `json:"numberOfPlayers" validate:"required,min=1,max=6"`
	SeatID          string    `json:"seatId,omitempty"`
}

// UpdateBookingRequest carries the fields a booking owner may change
type UpdateBookingRequest struct {
	StartTime       *time.Time `json:"startTime,omitempty"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	NumberOfPlayers *int       `json:"numberOfPlayers,omitempty" validate:"omitempty,min=1,max=6"`
}

type SlotsQuery struct {
	TableID string `form:"tableId" validate:"required"`
	Date    string `form:"date" validate:"required,datetime=2006-01-02"`
}

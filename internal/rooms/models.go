package rooms

import (
	"errors"

	"gamespace/internal/tables"
)

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusMaintenance Status = "MAINTENANCE"
	StatusInactive    Status = "INACTIVE"
)

// Label renders ACTIVE as "Active"
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusMaintenance:
		return "Maintenance"
	case StatusInactive:
		return "Inactive"
	default:
		return string(s)
	}
}

type Room struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Capacity    int            `json:"capacity"`
	OpeningTime string         `json:"openingTime"`
	ClosingTime string         `json:"closingTime"`
	Amenities   []string       `json:"amenities"`
	Status      Status         `json:"status"`
	Tables      []tables.Table `json:"tables"`
}

// Hours is the "10:00 - 23:00" string shown on cards
func (r Room) Hours() string {
	return r.OpeningTime + " - " + r.ClosingTime
}

// record is the room as the REST API sends it
type record struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Capacity    int             `json:"capacity"`
	OpeningTime string          `json:"openingTime"`
	ClosingTime string          `json:"closingTime"`
	Amenities   []string        `json:"amenities"`
	Status      Status          `json:"status"`
	Tables      []tables.Record `json:"tables"`
}

func (r record) adapt() Room {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return Room{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Capacity:    r.Capacity,
		OpeningTime: r.OpeningTime,
		ClosingTime: r.ClosingTime,
		Amenities:   amenities,
		Status:      r.Status,
		Tables:      tables.AdaptAll(r.Tables, r.ID),
	}
}

// Availability is one room's same-day availability record
type Availability struct {
	RoomID                 string  `json:"roomId"`
	Name                   string  `json:"name"`
	TotalTables            int     `json:"totalTables"`
	AvailableTables        int     `json:"availableTables"`
	AvailabilityPercentage float64 `json:"availabilityPercentage"`
	OpeningTime            string  `json:"openingTime"`
	ClosingTime            string  `json:"closingTime"`
}

// availabilityEnvelope is the dated shape some API versions answer with
type availabilityEnvelope struct {
	Date                string         `json:"date"`
	TotalAvailableSeats int            `json:"totalAvailableSeats"`
	Rooms               []Availability `json:"rooms"`
}

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
)

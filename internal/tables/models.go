package tables

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of table shapes the floor plan knows how to draw
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindSquare    Kind = "square"
	KindCircle    Kind = "circle"
	KindHexagon   Kind = "hexagon"
	KindPentagon  Kind = "pentagon"
)

// Kinds lists every table kind in display order
var Kinds = []Kind{KindRectangle, KindSquare, KindCircle, KindHexagon, KindPentagon}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRectangle:
		return KindRectangle, nil
	case KindSquare:
		return KindSquare, nil
	case KindCircle:
		return KindCircle, nil
	case KindHexagon:
		return KindHexagon, nil
	case KindPentagon:
		return KindPentagon, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// KindForSeats picks a shape for records that carry no usable shape tag
func KindForSeats(seats int) Kind {
	switch {
	case seats == 5:
		return KindPentagon
	case seats >= 6:
		return KindHexagon
	default:
		return KindSquare
	}
}

// DefaultSeats is the seat count a kind gets when the record has none
func (k Kind) DefaultSeats() int {
	switch k {
	case KindRectangle, KindSquare:
		return 4
	case KindCircle, KindHexagon:
		return 6
	case KindPentagon:
		return 5
	}
	panic(fmt.Sprintf("tables: unhandled kind %q", string(k)))
}

func (k Kind) Icon() string {
	switch k {
	case KindRectangle:
		return "⬜"
	case KindSquare:
		return "🟦"
	case KindCircle:
		return "🟢"
	case KindHexagon:
		return "⬡"
	case KindPentagon:
		return "⬟"
	}
	panic(fmt.Sprintf("tables: unhandled kind %q", string(k)))
}

// Status is the display state of a table, inherited by its seats
type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusCurrent   Status = "current"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAvailable:
		return StatusAvailable, true
	case StatusBooked:
		return StatusBooked, true
	case StatusCurrent, "in_session", "occupied":
		return StatusCurrent, true
	default:
		return "", false
	}
}

func (s Status) Label() string {
	switch s {
	case StatusBooked:
		return "Booked"
	case StatusCurrent:
		return "In Session"
	default:
		return "Available"
	}
}

func (s Status) IsAvailable() bool {
	return s == StatusAvailable
}

type GridPosition struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type WorldPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Table is the one table shape used past the service boundary
type Table struct {
	ID         string        `json:"id"`
	RoomID     string        `json:"roomId,omitempty"`
	Name       string        `json:"name"`
	Kind       Kind          `json:"kind"`
	GameType   string        `json:"gameType,omitempty"`
	SeatCount  int           `json:"seats"`
	Status     Status        `json:"status"`
	Grid       GridPosition  `json:"grid"`
	World      WorldPosition `json:"world"`
	HourlyRate *float64      `json:"hourlyRate,omitempty"`
}

// Seat is derived from a table; it is never stored
type Seat struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Status Status `json:"status"`
}

func SeatID(number int) string {
	return fmt.Sprintf("seat-%d", number)
}

// Seats enumerates seat 1..SeatCount, each carrying the table status
func (t Table) Seats() []Seat {
	seats := make([]Seat, 0, t.SeatCount)
	for n := 1; n <= t.SeatCount; n++ {
		seats = append(seats, Seat{ID: SeatID(n), Number: n, Status: t.Status})
	}
	return seats
}

var (
	ErrUnknownKind   = errors.New("unknown table kind")
	ErrTableNotFound = errors.New("table not found")
	ErrMissingID     = errors.New("table record has no id")
)

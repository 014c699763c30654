package tables

import (
	"strconv"
	"strings"
)

// gridColumns is how many tables share a row when the API gives no grid slot
const gridColumns = 3

// Record is a table as the REST API sends it. Field names differ between
// API versions (seats/capacity, type/gameType, status/isAvailable), so every
// variant is optional here and resolved once in Adapt.
type Record struct {
	ID          string   `json:"id"`
	MongoID     string   `json:"_id"`
	RoomID      string   `json:"roomId"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	GameType    string   `json:"gameType"`
	Seats       *int     `json:"seats"`
	Capacity    *int     `json:"capacity"`
	Status      string   `json:"status"`
	IsAvailable *bool    `json:"isAvailable"`
	HourlyRate  *float64 `json:"hourlyRate"`
	PositionX   *float64 `json:"positionX"`
	PositionY   *float64 `json:"positionY"`
	PositionZ   *float64 `json:"positionZ"`
	Row         *int     `json:"row"`
	Col         *int     `json:"col"`
}

// Adapt converts one API record to the canonical Table. index is the
// record's position in its list and places it on the grid when the record
// has no row/col of its own.
func (r Record) Adapt(index int) (Table, error) {
	id := r.ID
	if id == "" {
		id = r.MongoID
	}
	if id == "" {
		return Table{}, ErrMissingID
	}

	seats := 0
	switch {
	case r.Seats != nil && *r.Seats > 0:
		seats = *r.Seats
	case r.Capacity != nil && *r.Capacity > 0:
		seats = *r.Capacity
	}

	kind, err := ParseKind(r.Type)
	if err != nil {
		// gameType sometimes doubles as the shape tag
		if k, gErr := ParseKind(r.GameType); gErr == nil {
			kind = k
		} else {
			kind = KindForSeats(seats)
		}
	}
	if seats == 0 {
		seats = kind.DefaultSeats()
	}

	status, ok := ParseStatus(r.Status)
	if !ok {
		status = StatusAvailable
		if r.IsAvailable != nil && !*r.IsAvailable {
			status = StatusBooked
		}
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "Table " + strconv.Itoa(index+1)
	}

	grid := GridPosition{Row: index / gridColumns, Col: index % gridColumns}
	if r.Row != nil && r.Col != nil {
		grid = GridPosition{Row: *r.Row, Col: *r.Col}
	}

	world := worldFromGrid(grid)
	if r.PositionX != nil || r.PositionZ != nil {
		world = WorldPosition{X: deref(r.PositionX), Y: deref(r.PositionY), Z: deref(r.PositionZ)}
	}

	gameType := r.GameType
	if _, err := ParseKind(gameType); err == nil {
		gameType = ""
	}

	return Table{
		ID:         id,
		RoomID:     r.RoomID,
		Name:       name,
		Kind:       kind,
		GameType:   gameType,
		SeatCount:  seats,
		Status:     status,
		Grid:       grid,
		World:      world,
		HourlyRate: r.HourlyRate,
	}, nil
}

// AdaptAll converts a list, skipping records without an id
func AdaptAll(records []Record, roomID string) []Table {
	out := make([]Table, 0, len(records))
	for _, rec := range records {
		t, err := rec.Adapt(len(out))
		if err != nil {
			continue
		}
		if t.RoomID == "" {
			t.RoomID = roomID
		}
		out = append(out, t)
	}
	return out
}

// worldFromGrid spreads grid cells 4 units apart on x and 3 on z, centred on the origin column
func worldFromGrid(g GridPosition) WorldPosition {
	return WorldPosition{
		X: float64(g.Col-1) * 4,
		Y: 0,
		Z: float64(g.Row-1) * 3,
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// SeatRecord is a seat as returned by GET /tables/{id}/seats
type SeatRecord struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	Number      int    `json:"number"`
	SeatNumber  int    `json:"seatNumber"`
	Status      string `json:"status"`
	IsAvailable *bool  `json:"isAvailable"`
}

func (r SeatRecord) Adapt(index int) Seat {
	number := r.Number
	if number == 0 {
		number = r.SeatNumber
	}
	if number == 0 {
		number = index + 1
	}

	id := r.ID
	if id == "" {
		id = r.MongoID
	}
	if id == "" {
		id = SeatID(number)
	}

	status, ok := ParseStatus(r.Status)
	if !ok {
		status = StatusAvailable
		if r.IsAvailable != nil && !*r.IsAvailable {
			status = StatusBooked
		}
	}

	return Seat{ID: id, Number: number, Status: status}
}

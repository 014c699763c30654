package scene

import (
	"gamespace/internal/tables"
)

// Material is everything that changes when an element is hovered
type Material struct {
	Color             string  `json:"color"`
	Emissive          string  `json:"emissive"`
	EmissiveIntensity float64 `json:"emissiveIntensity"`
	Scale             float64 `json:"scale"`
	Lift              float64 `json:"lift"`
}

const hoverScale = 1.15

func SeatStyle(status tables.Status, hovered bool) Material {
	m := Material{Emissive: "#000000", Scale: 1}
	switch status {
	case tables.StatusAvailable:
		m.Color = "#1a73e8"
		if hovered {
			m.Color = "#00d4ff"
			m.Emissive = "#0099cc"
		}
	case tables.StatusBooked:
		m.Color = "#ff4757"
	case tables.StatusCurrent:
		m.Color = "#ffa726"
		m.Emissive = "#ff6b35"
		m.EmissiveIntensity = 0.1
	}
	if hovered {
		m.Scale = hoverScale
		m.EmissiveIntensity = 0.3
	}
	return m
}

func TableStyle(status tables.Status, hovered bool) Material {
	m := Material{Emissive: "#000000", Scale: 1}
	switch status {
	case tables.StatusAvailable:
		m.Color = "#27ae60"
		if hovered {
			m.Color = "#2ecc71"
		}
	case tables.StatusBooked:
		m.Color = "#e74c3c"
	case tables.StatusCurrent:
		m.Color = "#f39c12"
	}

	switch {
	case status == tables.StatusCurrent:
		m.Emissive = "#f39c12"
		m.EmissiveIntensity = 0.2
	case hovered:
		m.Emissive = m.Color
		m.EmissiveIntensity = 0.15
	}
	if hovered {
		m.Lift = 0.03
	}
	return m
}

type SeatElement struct {
	ID     string        `json:"id"`
	Number int           `json:"number"`
	Status tables.Status `json:"status"`
	Offset Vec3          `json:"offset"`
	Idle   Material      `json:"idle"`
	Hover  Material      `json:"hover"`
}

// Style is the seat's look for the given hover state
func (s SeatElement) Style(hovered bool) Material {
	if hovered {
		return s.Hover
	}
	return s.Idle
}

type TableElement struct {
	TableID     string        `json:"tableId"`
	Name        string        `json:"name"`
	Kind        tables.Kind   `json:"kind"`
	Icon        string        `json:"icon"`
	Status      tables.Status `json:"status"`
	StatusLabel string        `json:"statusLabel"`
	Position    Vec3          `json:"position"`
	Surface     Geometry      `json:"surface"`
	Seats       []SeatElement `json:"seats"`
	Idle        Material      `json:"idle"`
	Hover       Material      `json:"hover"`
}

func (e TableElement) Style(hovered bool) Material {
	if hovered {
		return e.Hover
	}
	return e.Idle
}

// SeatSelection is emitted by a click on an available seat
type SeatSelection struct {
	TableID    string `json:"tableId"`
	SeatID     string `json:"seatId"`
	TableName  string `json:"tableName"`
	SeatNumber int    `json:"seatNumber"`
}

// TableSelection is emitted by any click on a table surface
type TableSelection struct {
	TableID   string `json:"tableId"`
	TableName string `json:"tableName"`
}

func NewTableElement(t tables.Table) TableElement {
	offsets := SeatOffsets(t.Kind, t.SeatCount)
	seats := make([]SeatElement, 0, len(offsets))
	for i, offset := range offsets {
		n := i + 1
		seats = append(seats, SeatElement{
			ID:     tables.SeatID(n),
			Number: n,
			Status: t.Status,
			Offset: offset,
			Idle:   SeatStyle(t.Status, false),
			Hover:  SeatStyle(t.Status, true),
		})
	}

	return TableElement{
		TableID:     t.ID,
		Name:        t.Name,
		Kind:        t.Kind,
		Icon:        t.Kind.Icon(),
		Status:      t.Status,
		StatusLabel: t.Status.Label(),
		Position:    Vec3{X: t.World.X, Y: t.World.Y, Z: t.World.Z},
		Surface:     SurfaceGeometry(t.Kind),
		Seats:       seats,
		Idle:        TableStyle(t.Status, false),
		Hover:       TableStyle(t.Status, true),
	}
}

// SeatClick reports the selection for seat n; clicks on missing or
// unavailable seats select nothing.
func (e TableElement) SeatClick(n int) (SeatSelection, bool) {
	if n < 1 || n > len(e.Seats) {
		return SeatSelection{}, false
	}
	seat := e.Seats[n-1]
	if !seat.Status.IsAvailable() {
		return SeatSelection{}, false
	}
	return SeatSelection{
		TableID:    e.TableID,
		SeatID:     seat.ID,
		TableName:  e.Name,
		SeatNumber: seat.Number,
	}, true
}

// TableClick always selects the table; availability is the caller's call
func (e TableElement) TableClick() TableSelection {
	return TableSelection{TableID: e.TableID, TableName: e.Name}
}

package bookings

import (
	"strconv"

	"gamespace/internal/tables"
)

// Draft is the unsaved selection a booking modal is opened with. Build one
// with NewSeatDraft or NewTableDraft.
type Draft struct {
	TableID     string `json:"tableId"`
	SeatID      string `json:"seatId,omitempty"`
	TableName   string `json:"tableName"`
	SeatNumber  int    `json:"seatNumber,omitempty"`
	IsFullTable bool   `json:"isFullTable"`
}

func NewSeatDraft(tableID, tableName string, seatNumber int) Draft {
	return Draft{
		TableID:    tableID,
		SeatID:     tables.SeatID(seatNumber),
		TableName:  tableName,
		SeatNumber: seatNumber,
	}
}

func NewTableDraft(tableID, tableName string) Draft {
	return Draft{TableID: tableID, TableName: tableName, IsFullTable: true}
}

// Validate enforces that exactly one of seat or full table is set
func (d Draft) Validate() error {
	if d.TableID == "" {
		return ErrInvalidDraft
	}
	hasSeat := d.SeatID != ""
	if hasSeat == d.IsFullTable {
		return ErrInvalidDraft
	}
	if hasSeat && d.SeatNumber < 1 {
		return ErrInvalidDraft
	}
	return nil
}

func (d Draft) Title() string {
	if d.IsFullTable {
		return "Book Entire Table"
	}
	return "Book Seat"
}

func (d Draft) Description() string {
	if d.IsFullTable {
		return "Reserve the entire " + d.TableName + " for your gaming session"
	}
	return "Reserve seat " + strconv.Itoa(d.SeatNumber) + " at " + d.TableName
}

func (d Draft) SubmitLabel() string {
	if d.IsFullTable {
		return "Reserve Table"
	}
	return "Reserve Seat"
}

// PlayerOptions lists the selectable player counts
func (d Draft) PlayerOptions() []string {
	if d.IsFullTable {
		return []string{"2", "3", "4", "5", "6"}
	}
	return []string{"1"}
}

// DefaultPlayers is the preselected player count, empty when none is
func (d Draft) DefaultPlayers() string {
	if d.IsFullTable {
		return ""
	}
	return "1"
}

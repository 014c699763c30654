package scene

import (
	"strings"

	"gamespace/internal/tables"
	"gamespace/pkg/logger"
)

type Mode string

const (
	Mode2D Mode = "2d"
	Mode3D Mode = "3d"
)

// ParseMode defaults to the 2D grid
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(Mode3D)) {
		return Mode3D
	}
	return Mode2D
}

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateEmpty   State = "empty"
	StateError   State = "error"
)

const (
	MessageLoading  = "Loading room layout..."
	MessageNoTables = "No tables in this room"
)

type SeatButton struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Disabled bool   `json:"disabled"`
}

// GridCard is one occupied grid cell in the 2D view
type GridCard struct {
	TableID      string        `json:"tableId"`
	Name         string        `json:"name"`
	Kind         tables.Kind   `json:"kind"`
	Icon         string        `json:"icon"`
	Status       tables.Status `json:"status"`
	StatusLabel  string        `json:"statusLabel"`
	SeatCount    int           `json:"seatCount"`
	Seats        []SeatButton  `json:"seats"`
	BookDisabled bool          `json:"bookDisabled"`
}

// Cell is a grid slot; Table is nil for an empty slot
type Cell struct {
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	Table *GridCard `json:"table"`
}

type Stats struct {
	TotalTables     int `json:"totalTables"`
	AvailableTables int `json:"availableTables"`
	ActiveTables    int `json:"activeTables"`
	AvailableSeats  int `json:"availableSeats"`
}

type RoomView struct {
	RoomID  string         `json:"roomId"`
	Mode    Mode           `json:"mode"`
	State   State          `json:"state"`
	Message string         `json:"message,omitempty"`
	Rows    int            `json:"rows,omitempty"`
	Cols    int            `json:"cols,omitempty"`
	Grid    [][]Cell       `json:"grid,omitempty"`
	Tables  []TableElement `json:"tables,omitempty"`
	Stats   Stats          `json:"stats"`
}

func Loading(roomID string, mode Mode) RoomView {
	return RoomView{RoomID: roomID, Mode: mode, State: StateLoading, Message: MessageLoading}
}

func Failed(roomID string, mode Mode, message string) RoomView {
	return RoomView{RoomID: roomID, Mode: mode, State: StateError, Message: message}
}

// Build lays out ts for the requested mode. Both modes carry the table
// elements so clicks can be resolved whatever the browser is showing.
func Build(roomID string, mode Mode, ts []tables.Table) RoomView {
	view := RoomView{RoomID: roomID, Mode: mode}
	if len(ts) == 0 {
		view.State = StateEmpty
		view.Message = MessageNoTables
		return view
	}

	view.State = StateReady
	view.Tables = make([]TableElement, 0, len(ts))
	for _, t := range ts {
		view.Tables = append(view.Tables, NewTableElement(t))
	}
	view.Stats = ComputeStats(ts)

	if mode == Mode2D {
		view.Rows, view.Cols, view.Grid = buildGrid(roomID, ts)
	}
	return view
}

// buildGrid places every table at its grid position. A table whose cell is
// taken or whose position is negative goes to the next free cell, row by
// row, so no table is hidden from the grid.
func buildGrid(roomID string, ts []tables.Table) (int, int, [][]Cell) {
	rows, cols := 0, 0
	for _, t := range ts {
		if t.Grid.Row < 0 || t.Grid.Col < 0 {
			continue
		}
		if t.Grid.Row+1 > rows {
			rows = t.Grid.Row + 1
		}
		if t.Grid.Col+1 > cols {
			cols = t.Grid.Col + 1
		}
	}
	if cols == 0 {
		cols = 1
	}

	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = newGridRow(r, cols)
	}

	var displaced []tables.Table
	for _, t := range ts {
		if t.Grid.Row < 0 || t.Grid.Col < 0 || grid[t.Grid.Row][t.Grid.Col].Table != nil {
			displaced = append(displaced, t)
			continue
		}
		card := newGridCard(t)
		grid[t.Grid.Row][t.Grid.Col].Table = &card
	}

	for _, t := range displaced {
		r, c := freeCell(grid)
		if r == len(grid) {
			grid = append(grid, newGridRow(r, cols))
		}
		card := newGridCard(t)
		grid[r][c].Table = &card
		logger.GetDefault().WithFields(map[string]interface{}{
			"room_id":  roomID,
			"table_id": t.ID,
			"row":      t.Grid.Row,
			"col":      t.Grid.Col,
		}).Warn("Table grid position unusable, moved to a free cell",
			"placed_row", r,
			"placed_col", c,
		)
	}
	return len(grid), cols, grid
}

func newGridRow(r, cols int) []Cell {
	row := make([]Cell, cols)
	for c := range row {
		row[c] = Cell{Row: r, Col: c}
	}
	return row
}

// freeCell returns the first empty cell, or the first cell of a new row
func freeCell(grid [][]Cell) (int, int) {
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c].Table == nil {
				return r, c
			}
		}
	}
	return len(grid), 0
}

func newGridCard(t tables.Table) GridCard {
	disabled := !t.Status.IsAvailable()
	seats := make([]SeatButton, 0, t.SeatCount)
	for _, s := range t.Seats() {
		seats = append(seats, SeatButton{ID: s.ID, Number: s.Number, Disabled: disabled})
	}
	return GridCard{
		TableID:      t.ID,
		Name:         t.Name,
		Kind:         t.Kind,
		Icon:         t.Kind.Icon(),
		Status:       t.Status,
		StatusLabel:  t.Status.Label(),
		SeatCount:    t.SeatCount,
		Seats:        seats,
		BookDisabled: disabled,
	}
}

func ComputeStats(ts []tables.Table) Stats {
	var st Stats
	st.TotalTables = len(ts)
	for _, t := range ts {
		if t.Status.IsAvailable() {
			st.AvailableTables++
			st.AvailableSeats += t.SeatCount
		} else {
			st.ActiveTables++
		}
	}
	return st
}

func (v RoomView) table(tableID string) (TableElement, bool) {
	for _, e := range v.Tables {
		if e.TableID == tableID {
			return e, true
		}
	}
	return TableElement{}, false
}

// SeatClick forwards a seat click to the table element it belongs to
func (v RoomView) SeatClick(tableID string, seatNumber int) (SeatSelection, bool) {
	e, ok := v.table(tableID)
	if !ok {
		return SeatSelection{}, false
	}
	return e.SeatClick(seatNumber)
}

// TableClick forwards a table click; ok is false only for an unknown table
func (v RoomView) TableClick(tableID string) (TableSelection, tables.Status, bool) {
	e, ok := v.table(tableID)
	if !ok {
		return TableSelection{}, "", false
	}
	return e.TableClick(), e.Status, true
}

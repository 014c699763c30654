package tables

// Built-in floor plans for the three rooms of the flagship venue. Each table
// carries both its 2D grid slot and its 3D world position.

type layoutEntry struct {
	id     string
	kind   Kind
	seats  int
	status Status
	row    int
	col    int
	x, z   float64
}

var staticLayouts = map[string][]layoutEntry{
	"room-a": {
		{"table-1", KindRectangle, 4, StatusAvailable, 0, 0, -4, -2},
		{"table-2", KindRectangle, 4, StatusBooked, 0, 1, -4, 2},
		{"table-3", KindSquare, 4, StatusAvailable, 0, 2, 0, -2},
		{"table-4", KindSquare, 4, StatusCurrent, 1, 0, 0, 2},
		{"table-5", KindRectangle, 4, StatusAvailable, 1, 1, 4, -2},
		{"table-6", KindRectangle, 4, StatusAvailable, 1, 2, 4, 2},
		{"table-7", KindSquare, 4, StatusBooked, 2, 0, -2, 0},
		{"table-8", KindSquare, 4, StatusAvailable, 2, 1, 2, 0},
	},
	"room-b": {
		{"table-1", KindCircle, 6, StatusAvailable, 0, 0, -3, -3},
		{"table-2", KindCircle, 6, StatusBooked, 0, 1, 3, -3},
		{"table-3", KindCircle, 4, StatusCurrent, 1, 0, -3, 0},
		{"table-4", KindCircle, 4, StatusAvailable, 1, 1, 3, 0},
		{"table-5", KindCircle, 6, StatusAvailable, 2, 0, -3, 3},
		{"table-6", KindCircle, 6, StatusAvailable, 2, 1, 3, 3},
	},
	"room-c": {
		{"table-1", KindHexagon, 6, StatusAvailable, 0, 0, -4, -3},
		{"table-2", KindHexagon, 6, StatusBooked, 0, 1, 0, -3},
		{"table-3", KindHexagon, 6, StatusCurrent, 0, 2, 4, -3},
		{"table-4", KindPentagon, 5, StatusAvailable, 1, 0, -2, 0},
		{"table-5", KindPentagon, 5, StatusAvailable, 1, 1, 2, 0},
		{"table-6", KindHexagon, 6, StatusAvailable, 1, 2, -4, 3},
		{"table-7", KindHexagon, 6, StatusBooked, 2, 0, 0, 3},
		{"table-8", KindHexagon, 6, StatusAvailable, 2, 1, 4, 3},
		{"table-9", KindPentagon, 5, StatusAvailable, 2, 2, -6, 0},
		{"table-10", KindPentagon, 5, StatusAvailable, 3, 1, 6, 0},
	},
}

// StaticLayout returns the built-in tables for roomID, or nil when the room has no plan
func StaticLayout(roomID string) []Table {
	entries, ok := staticLayouts[roomID]
	if !ok {
		return nil
	}

	out := make([]Table, 0, len(entries))
	for _, e := range entries {
		out = append(out, Table{
			ID:        e.id,
			RoomID:    roomID,
			Name:      "Table " + e.id[len("table-"):],
			Kind:      e.kind,
			SeatCount: e.seats,
			Status:    e.status,
			Grid:      GridPosition{Row: e.row, Col: e.col},
			World:     WorldPosition{X: e.x, Y: 0, Z: e.z},
		})
	}
	return out
}

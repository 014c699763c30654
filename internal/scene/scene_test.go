package scene

import (
	"context"
	"math"
	"testing"

	"gamespace/internal/tables"
	"gamespace/pkg/apiclient"
)

func TestSeatOffsetsPerKind(t *testing.T) {
	cases := []struct {
		kind  tables.Kind
		seats int
		want  int
	}{
		{tables.KindRectangle, 4, 4},
		{tables.KindRectangle, 2, 2},
		{tables.KindRectangle, 6, 6},
		{tables.KindSquare, 4, 4},
		{tables.KindCircle, 6, 6},
		{tables.KindHexagon, 6, 6},
		{tables.KindHexagon, 4, 4},
		{tables.KindPentagon, 5, 5},
		{tables.KindPentagon, 0, 0},
	}
	for _, tc := range cases {
		got := SeatOffsets(tc.kind, tc.seats)
		if len(got) != tc.want {
			t.Errorf("%s/%d: %d offsets, want %d", tc.kind, tc.seats, len(got), tc.want)
		}
		for _, o := range got {
			if o.Y != seatHeight {
				t.Errorf("%s: seat y = %v", tc.kind, o.Y)
			}
		}
	}

	hex := SeatOffsets(tables.KindHexagon, 6)
	if math.Abs(hex[0].X-1.2) > 1e-9 || math.Abs(hex[0].Z) > 1e-9 {
		t.Errorf("first hexagon seat = %+v", hex[0])
	}
	rect := SeatOffsets(tables.KindRectangle, 4)
	if rect[0] != (Vec3{X: -0.8, Y: 0.3, Z: 0}) {
		t.Errorf("rectangle left seat = %+v", rect[0])
	}
}

func TestSurfaceGeometry(t *testing.T) {
	for _, k := range tables.Kinds {
		g := SurfaceGeometry(k)
		switch g.Shape {
		case ShapeBox:
			if g.Size == nil {
				t.Errorf("%s: box without size", k)
			}
		case ShapeCylinder:
			if g.Radius == 0 || g.Segments == 0 {
				t.Errorf("%s: cylinder %+v", k, g)
			}
		default:
			t.Errorf("%s: shape %q", k, g.Shape)
		}
	}
	if SurfaceGeometry(tables.KindPentagon).Segments != 5 {
		t.Error("pentagon should have 5 segments")
	}
}

func TestSeatClickOnlyFiresForAvailableSeats(t *testing.T) {
	for _, status := range []tables.Status{tables.StatusBooked, tables.StatusCurrent} {
		e := NewTableElement(tables.Table{ID: "table-2", Name: "Table 2", Kind: tables.KindRectangle, SeatCount: 4, Status: status})
		for n := 1; n <= 4; n++ {
			if _, ok := e.SeatClick(n); ok {
				t.Errorf("%s seat %d emitted a selection", status, n)
			}
		}
		// table clicks fire regardless of status
		if sel := e.TableClick(); sel.TableID != "table-2" || sel.TableName != "Table 2" {
			t.Errorf("table click = %+v", sel)
		}
	}
}

func TestSeatThreeOfTableTwo(t *testing.T) {
	e := NewTableElement(tables.Table{ID: "table-2", Name: "Table 2", Kind: tables.KindRectangle, SeatCount: 4, Status: tables.StatusAvailable})
	sel, ok := e.SeatClick(3)
	if !ok {
		t.Fatal("available seat did not emit")
	}
	want := SeatSelection{TableID: "table-2", SeatID: "seat-3", TableName: "Table 2", SeatNumber: 3}
	if sel != want {
		t.Errorf("selection = %+v, want %+v", sel, want)
	}
	if _, ok := e.SeatClick(5); ok {
		t.Error("seat beyond the table emitted")
	}
}

func TestHoverStyleIsPureLookup(t *testing.T) {
	e := NewTableElement(tables.Table{ID: "t", Kind: tables.KindCircle, SeatCount: 4, Status: tables.StatusAvailable})
	seat := e.Seats[0]
	if seat.Style(false).Color != "#1a73e8" || seat.Style(true).Color != "#00d4ff" {
		t.Errorf("seat colors idle=%s hover=%s", seat.Style(false).Color, seat.Style(true).Color)
	}
	if seat.Style(true).Scale != 1.15 || seat.Style(true).Emissive != "#0099cc" {
		t.Errorf("hover material = %+v", seat.Style(true))
	}
	if e.Style(true).Color != "#2ecc71" || e.Style(false).Color != "#27ae60" {
		t.Errorf("table colors = %+v / %+v", e.Style(false), e.Style(true))
	}
	if TableStyle(tables.StatusCurrent, false).EmissiveIntensity != 0.2 {
		t.Error("current tables glow")
	}
}

func TestBuildGridWithEmptyCells(t *testing.T) {
	view := Build("room-c", Mode2D, tables.StaticLayout("room-c"))
	if view.State != StateReady {
		t.Fatalf("state = %s", view.State)
	}
	if view.Rows != 4 || view.Cols != 3 {
		t.Fatalf("grid = %dx%d", view.Rows, view.Cols)
	}
	if view.Grid[3][0].Table != nil || view.Grid[3][2].Table != nil {
		t.Error("row 3 should only hold table-10 in the middle")
	}
	if card := view.Grid[3][1].Table; card == nil || card.TableID != "table-10" {
		t.Errorf("row 3 col 1 = %+v", card)
	}
	booked := view.Grid[0][1].Table
	if !booked.BookDisabled || !booked.Seats[0].Disabled || booked.StatusLabel != "Booked" {
		t.Errorf("booked card = %+v", booked)
	}
	if view.Stats.TotalTables != 10 || view.Stats.AvailableTables != 7 || view.Stats.AvailableSeats != 38 {
		t.Errorf("stats = %+v", view.Stats)
	}
}

func TestBuildGridMovesCollidingTables(t *testing.T) {
	table := func(id string, row, col int) tables.Table {
		return tables.Table{ID: id, Name: id, Kind: tables.KindSquare, SeatCount: 4,
			Status: tables.StatusAvailable, Grid: tables.GridPosition{Row: row, Col: col}}
	}
	view := Build("room-x", Mode2D, []tables.Table{
		table("a", 0, 0),
		table("b", 0, 1),
		table("c", 0, 0),
		table("d", -1, 2),
		table("e", 0, 1),
	})
	if view.Rows != 3 || view.Cols != 2 {
		t.Fatalf("grid = %dx%d", view.Rows, view.Cols)
	}

	want := [][]string{{"a", "b"}, {"c", "d"}, {"e", ""}}
	for r, row := range want {
		for c, id := range row {
			card := view.Grid[r][c].Table
			switch {
			case id == "" && card != nil:
				t.Errorf("cell %d,%d = %s, want empty", r, c, card.TableID)
			case id != "" && (card == nil || card.TableID != id):
				t.Errorf("cell %d,%d = %+v, want %s", r, c, card, id)
			}
			if view.Grid[r][c].Row != r || view.Grid[r][c].Col != c {
				t.Errorf("cell %d,%d labelled %d,%d", r, c, view.Grid[r][c].Row, view.Grid[r][c].Col)
			}
		}
	}
	if len(view.Tables) != 5 {
		t.Errorf("tables = %d", len(view.Tables))
	}
}

func TestBuild3DHasNoGrid(t *testing.T) {
	view := Build("room-a", Mode3D, tables.StaticLayout("room-a"))
	if view.Grid != nil || len(view.Tables) != 8 {
		t.Fatalf("view = %+v", view)
	}
	if view.Tables[6].Position != (Vec3{X: -2, Y: 0, Z: 0}) {
		t.Errorf("table-7 position = %+v", view.Tables[6].Position)
	}
}

func TestBuildEmpty(t *testing.T) {
	view := Build("room-z", Mode2D, nil)
	if view.State != StateEmpty || view.Message != MessageNoTables {
		t.Fatalf("view = %+v", view)
	}
}

func TestRoomViewForwardsClicks(t *testing.T) {
	view := Build("room-a", Mode2D, tables.StaticLayout("room-a"))

	if _, ok := view.SeatClick("table-2", 1); ok {
		t.Error("table-2 in room-a is booked")
	}
	sel, ok := view.SeatClick("table-1", 2)
	if !ok || sel.SeatID != "seat-2" {
		t.Errorf("seat click = %+v %v", sel, ok)
	}
	if _, status, ok := view.TableClick("table-4"); !ok || status != tables.StatusCurrent {
		t.Errorf("table-4 click status = %s %v", status, ok)
	}
	if _, _, ok := view.TableClick("table-99"); ok {
		t.Error("unknown table should not resolve")
	}
}

type failingTables struct{ tables.Service }

func (failingTables) ListByRoom(context.Context, string) ([]tables.Table, error) {
	return nil, &apiclient.APIError{StatusCode: 500, Message: "database offline"}
}

func (failingTables) Source() string { return tables.SourceAPI }

func TestLayoutSurfacesFetchError(t *testing.T) {
	view := NewService(failingTables{}).Layout(context.Background(), "room-a", Mode3D)
	if view.State != StateError || view.Message != "database offline" {
		t.Fatalf("view = %+v", view)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("3D") != Mode3D || ParseMode("") != Mode2D || ParseMode("grid") != Mode2D {
		t.Error("ParseMode")
	}
}

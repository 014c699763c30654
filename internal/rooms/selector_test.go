package rooms

import (
	"context"
	"errors"
	"testing"

	"gamespace/internal/tables"
)

func sampleRooms() []Room {
	return []Room{
		{ID: "r1", Name: "Strategy Hall", OpeningTime: "10:00", ClosingTime: "23:00", Capacity: 40,
			Status: StatusActive, Tables: make([]tables.Table, 8)},
		{ID: "r2", Name: "Party Lounge", OpeningTime: "12:00", ClosingTime: "02:00", Capacity: 24,
			Status: StatusActive, Tables: make([]tables.Table, 6)},
		{ID: "r3", Name: "Quiet Room", Capacity: 12, Status: StatusMaintenance, Tables: make([]tables.Table, 4)},
	}
}

func TestSelectorAvailabilityRule(t *testing.T) {
	avail := []Availability{
		{RoomID: "r1", TotalTables: 8, AvailableTables: 3, AvailabilityPercentage: 37.5},
		{RoomID: "r2", TotalTables: 6, AvailableTables: 0, AvailabilityPercentage: 0},
	}
	sel := BuildSelector("2025-01-10", sampleRooms(), avail)

	cases := []struct {
		idx       int
		available bool
		label     string
		action    string
	}{
		{0, true, "3/8 available", "Enter Room"},
		{1, false, "0/6 available", "Not Available"},
		{2, false, NoData, "Not Available"},
	}
	for _, tc := range cases {
		card := sel.Cards[tc.idx]
		if card.Available != tc.available || card.Disabled == tc.available {
			t.Errorf("%s: available=%v disabled=%v", card.RoomID, card.Available, card.Disabled)
		}
		if card.TablesLabel != tc.label || card.ActionLabel != tc.action {
			t.Errorf("%s: label=%q action=%q", card.RoomID, card.TablesLabel, card.ActionLabel)
		}
	}

	// unmatched rooms fall back to their own table count
	if sel.Cards[2].TotalTables != 4 || sel.Cards[2].AvailableTables != 0 {
		t.Errorf("unmatched card = %+v", sel.Cards[2])
	}
	if sel.Cards[0].Hours != "10:00 - 23:00" {
		t.Errorf("hours = %q", sel.Cards[0].Hours)
	}
}

func TestSelectorStatsAndLiveBands(t *testing.T) {
	avail := []Availability{
		{RoomID: "r1", TotalTables: 8, AvailableTables: 6, AvailabilityPercentage: 75},
		{RoomID: "r2", TotalTables: 6, AvailableTables: 3, AvailabilityPercentage: 50},
	}
	sel := BuildSelector("2025-01-10", sampleRooms(), avail)

	if sel.Stats.Rooms != 3 || sel.Stats.Tables != 18 {
		t.Errorf("stats = %+v", sel.Stats)
	}
	if sel.Live[0].Band != BandHigh || sel.Live[0].Badge != "75% available" || sel.Live[0].Tables != "6/8" {
		t.Errorf("live r1 = %+v", sel.Live[0])
	}
	if sel.Live[1].Band != BandMedium {
		t.Errorf("live r2 band = %s", sel.Live[1].Band)
	}
	if sel.Live[2].Band != BandNone || sel.Live[2].Badge != NoData || sel.Live[2].Tables != "-/-" {
		t.Errorf("live r3 = %+v", sel.Live[2])
	}
}

func TestBandFor(t *testing.T) {
	cases := map[float64]Band{100: BandHigh, 70: BandHigh, 69.9: BandMedium, 40: BandMedium, 39: BandLow, 0: BandLow}
	for pct, want := range cases {
		if got := BandFor(pct); got != want {
			t.Errorf("BandFor(%v) = %s, want %s", pct, got, want)
		}
	}
}

type stubService struct {
	Service
	rooms    []Room
	avail    []Availability
	roomsErr error
	availErr error
}

func (s stubService) ListRooms(context.Context) ([]Room, error) { return s.rooms, s.roomsErr }

func (s stubService) GetAvailability(context.Context, string) ([]Availability, error) {
	return s.avail, s.availErr
}

func TestLoadSelectorToleratesMissingAvailability(t *testing.T) {
	svc := stubService{rooms: sampleRooms(), availErr: errors.New("boom")}
	sel := LoadSelector(context.Background(), svc, "2025-01-10")

	if len(sel.Cards) != 3 {
		t.Fatalf("cards = %d", len(sel.Cards))
	}
	for _, card := range sel.Cards {
		if card.Available {
			t.Errorf("%s available without availability data", card.RoomID)
		}
	}
	if sel.AvailabilityError == "" || sel.RoomsError != "" {
		t.Errorf("errors = %q / %q", sel.RoomsError, sel.AvailabilityError)
	}
}

package rooms

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gamespace/pkg/apiclient"
	"gamespace/pkg/logger"
)

const NoData = "No data"

// Card is one entry of the room selector
type Card struct {
	RoomID          string   `json:"roomId"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Hours           string   `json:"hours"`
	Capacity        int      `json:"capacity"`
	Amenities       []string `json:"amenities"`
	Status          Status   `json:"status"`
	StatusLabel     string   `json:"statusLabel"`
	AvailableTables int      `json:"availableTables"`
	TotalTables     int      `json:"totalTables"`
	TablesLabel     string   `json:"tablesLabel"`
	Available       bool     `json:"available"`
	Disabled        bool     `json:"disabled"`
	ActionLabel     string   `json:"actionLabel"`
}

type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
	BandNone   Band = "none"
)

// BandFor buckets an availability percentage for the live status badge
func BandFor(percentage float64) Band {
	switch {
	case percentage >= 70:
		return BandHigh
	case percentage >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

// LiveStatus is one room row of the home page "Live Status" panel
type LiveStatus struct {
	RoomID     string  `json:"roomId"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Band       Band    `json:"band"`
	Badge      string  `json:"badge"`
	Tables     string  `json:"tables"`
	Hours      string  `json:"hours"`
	Capacity   string  `json:"capacity"`
}

type HomeStats struct {
	Rooms  int `json:"rooms"`
	Tables int `json:"tables"`
}

// Selector is everything the home page needs about rooms for one date
type Selector struct {
	Date              string       `json:"date"`
	Cards             []Card       `json:"cards"`
	Live              []LiveStatus `json:"live"`
	Stats             HomeStats    `json:"stats"`
	RoomsError        string       `json:"roomsError,omitempty"`
	AvailabilityError string       `json:"availabilityError,omitempty"`
}

// LoadSelector fetches the room list and the date's availability
// concurrently. Either half may fail on its own; the selector then renders
// what it has and carries the error message.
func LoadSelector(ctx context.Context, service Service, date string) Selector {
	var (
		wg       sync.WaitGroup
		rooms    []Room
		avail    []Availability
		roomsErr error
		availErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rooms, roomsErr = service.ListRooms(ctx)
	}()
	go func() {
		defer wg.Done()
		avail, availErr = service.GetAvailability(ctx, date)
	}()
	wg.Wait()

	sel := BuildSelector(date, rooms, avail)
	if roomsErr != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to load rooms", roomsErr, nil)
		sel.RoomsError = apiclient.MessageOf(roomsErr, "Failed to load rooms")
	}
	if availErr != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to load room availability", availErr, map[string]interface{}{
			"date": date,
		})
		sel.AvailabilityError = apiclient.MessageOf(availErr, "Failed to load availability")
	}
	return sel
}

// BuildSelector merges rooms with availability by room id
func BuildSelector(date string, rooms []Room, avail []Availability) Selector {
	byRoom := make(map[string]Availability, len(avail))
	for _, a := range avail {
		byRoom[a.RoomID] = a
	}

	sel := Selector{
		Date:  date,
		Cards: make([]Card, 0, len(rooms)),
		Live:  make([]LiveStatus, 0, len(rooms)),
		Stats: HomeStats{Rooms: len(rooms)},
	}
	for _, room := range rooms {
		a, matched := byRoom[room.ID]
		sel.Cards = append(sel.Cards, newCard(room, a, matched))
		sel.Live = append(sel.Live, newLiveStatus(room, a, matched))
		sel.Stats.Tables += len(room.Tables)
	}
	return sel
}

func newCard(room Room, a Availability, matched bool) Card {
	available := 0
	total := len(room.Tables)
	if matched {
		available = a.AvailableTables
		total = a.TotalTables
	}
	isAvailable := matched && available > 0

	card := Card{
		RoomID:          room.ID,
		Name:            room.Name,
		Description:     room.Description,
		Hours:           room.Hours(),
		Capacity:        room.Capacity,
		Amenities:       room.Amenities,
		Status:          room.Status,
		StatusLabel:     room.Status.Label(),
		AvailableTables: available,
		TotalTables:     total,
		TablesLabel:     fmt.Sprintf("%d/%d available", available, total),
		Available:       isAvailable,
		Disabled:        !isAvailable,
		ActionLabel:     "Enter Room",
	}
	if !isAvailable {
		card.ActionLabel = "Not Available"
	}
	if !matched {
		card.TablesLabel = NoData
	}
	return card
}

func newLiveStatus(room Room, a Availability, matched bool) LiveStatus {
	ls := LiveStatus{
		RoomID:   room.ID,
		Name:     room.Name,
		Band:     BandNone,
		Badge:    NoData,
		Tables:   "-/-",
		Hours:    room.Hours(),
		Capacity: strconv.Itoa(room.Capacity) + " people",
	}
	if !matched {
		return ls
	}
	ls.Percentage = a.AvailabilityPercentage
	ls.Band = BandFor(a.AvailabilityPercentage)
	ls.Badge = strconv.FormatFloat(a.AvailabilityPercentage, 'f', -1, 64) + "% available"
	ls.Tables = fmt.Sprintf("%d/%d", a.AvailableTables, a.TotalTables)
	return ls
}

package rooms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gamespace/internal/shared/constants"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/cache"
)

func newAPI(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{BaseURL: srv.URL})
}

func TestListRoomsAdaptsWireRecords(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"r1","name":"Strategy Hall","status":"ACTIVE",
			"tables":[{"_id":"t1","type":"circle","seats":6},{"_id":"t2","type":"square","seats":4}]}]`))
	})
	svc := NewService(client, cache.NewMemoryService())

	rooms, err := svc.ListRooms(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0].ID != "r1" || len(rooms[0].Tables) != 2 {
		t.Fatalf("rooms = %+v", rooms)
	}
	if rooms[0].Tables[0].RoomID != "r1" || rooms[0].Amenities == nil {
		t.Errorf("room = %+v", rooms[0])
	}
}

func TestGetAvailabilityDecodesBothShapes(t *testing.T) {
	bodies := map[string]string{
		"array":    `[{"roomId":"r1","totalTables":8,"availableTables":2}]`,
		"envelope": `{"date":"2025-01-10","totalAvailableSeats":12,"rooms":[{"roomId":"r1","totalTables":8,"availableTables":2}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/rooms/availability" || r.URL.Query().Get("date") != "2025-01-10" {
					t.Errorf("request = %s", r.URL)
				}
				_, _ = w.Write([]byte(body))
			})
			got, err := NewService(client, cache.NewMemoryService()).GetAvailability(context.Background(), "2025-01-10")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 || got[0].AvailableTables != 2 {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestGetAvailabilityRejectsBadDate(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no call expected")
	})
	_, err := NewService(client, cache.NewMemoryService()).GetAvailability(context.Background(), "10/01/2025")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v", err)
	}
}

func TestInvalidateAvailabilityForcesRefetch(t *testing.T) {
	var calls int32
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`[]`))
	})
	mem := cache.NewMemoryService()
	svc := NewService(client, mem)
	ctx := context.Background()

	_, _ = svc.GetAvailability(ctx, "2025-01-10")
	_, _ = svc.GetAvailability(ctx, "2025-01-10")
	if calls != 1 {
		t.Fatalf("calls before invalidate = %d", calls)
	}
	if err := svc.InvalidateAvailability(ctx); err != nil {
		t.Fatal(err)
	}
	var cached []Availability
	if err := mem.Get(ctx, constants.BuildRoomAvailabilityKey("2025-01-10"), &cached); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("cache still populated: %v", err)
	}
	_, _ = svc.GetAvailability(ctx, "2025-01-10")
	if calls != 2 {
		t.Errorf("calls after invalidate = %d", calls)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Room not found"}`))
	})
	_, err := NewService(client, cache.NewMemoryService()).GetRoom(context.Background(), "missing")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v", err)
	}
}

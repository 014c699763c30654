package tables

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gamespace/pkg/apiclient"
	"gamespace/pkg/cache"
)

func newAPI(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{BaseURL: srv.URL})
}

func TestListByRoomStaticSourceMakesNoCalls(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s", r.URL.Path)
	})
	svc := NewService(client, cache.NewMemoryService(), SourceStatic)

	got, err := svc.ListByRoom(context.Background(), "room-b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 6 || got[0].Kind != KindCircle {
		t.Fatalf("got %+v", got)
	}
}

func TestListByRoomAPISourceAdaptsAndCaches(t *testing.T) {
	var calls int32
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/rooms/room-a/tables" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"_id":"t1","capacity":4,"type":"square","isAvailable":true}]`))
	})
	svc := NewService(client, cache.NewMemoryService(), SourceAPI)

	for i := 0; i < 2; i++ {
		got, err := svc.ListByRoom(context.Background(), "room-a")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Kind != KindSquare || got[0].RoomID != "room-a" || got[0].Status != StatusAvailable {
			t.Fatalf("got %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1", calls)
	}
}

func TestGetTableNotFound(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Table not found"}`))
	})
	svc := NewService(client, cache.NewMemoryService(), SourceAPI)

	_, err := svc.GetTable(context.Background(), "nope")
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestFindAvailablePassesFilters(t *testing.T) {
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("gameType") != "poker" || q.Get("minCapacity") != "4" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`[{"id":"t9","seats":6,"gameType":"poker"}]`))
	})
	svc := NewService(client, cache.NewMemoryService(), SourceAPI)

	got, err := svc.FindAvailable(context.Background(), AvailableTablesQuery{GameType: "poker", MinCapacity: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SeatCount != 6 {
		t.Fatalf("got %+v", got)
	}
}

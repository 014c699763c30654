package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gamespace/internal/bookings"
	"gamespace/internal/rooms"
	"gamespace/internal/scene"
	"gamespace/internal/session"
	"gamespace/internal/shared/middleware"
	"gamespace/internal/tables"
	"gamespace/pkg/apiclient"
	"gamespace/pkg/cache"

	"github.com/gin-gonic/gin"
)

const (
	slotKey    = "2025-01-10T09:00:00Z"
	cookieName = "gs_session"
)

// fakeAPI serves one room with table-1 booked and table-2 available
type fakeAPI struct {
	slots    string
	reject   string
	mu       sync.Mutex
	posted   []bookings.CreateBookingRequest
	bookings int32
	// when set, POST /bookings signals arrived and waits for hold
	arrived chan struct{}
	hold    chan struct{}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/rooms/room-1":
		_, _ = w.Write([]byte(`{"_id":"room-1","name":"Main Hall","capacity":10,"status":"ACTIVE"}`))
	case r.URL.Path == "/rooms/availability":
		_, _ = w.Write([]byte(`[]`))
	case r.URL.Path == "/rooms/room-1/tables":
		_, _ = w.Write([]byte(`[
			{"_id":"table-1","name":"Table 1","type":"rectangle","seats":4,"status":"booked"},
			{"_id":"table-2","name":"Table 2","type":"rectangle","seats":4,"status":"available"}
		]`))
	case r.URL.Path == "/bookings/available-slots":
		_, _ = w.Write([]byte(f.slots))
	case r.URL.Path == "/bookings" && r.Method == http.MethodPost:
		atomic.AddInt32(&f.bookings, 1)
		if f.hold != nil {
			f.arrived <- struct{}{}
			<-f.hold
		}
		var req bookings.CreateBookingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.posted = append(f.posted, req)
		f.mu.Unlock()
		if f.reject != "" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"` + f.reject + `"}`))
			return
		}
		_, _ = w.Write([]byte(`{"_id":"b1","tableId":"table-2","seatId":"seat-3",
			"startTime":"2025-01-10T09:00:00Z","endTime":"2025-01-10T11:00:00Z","numberOfPlayers":1}`))
	default:
		http.NotFound(w, r)
	}
}

const availableSlots = `{"availableSlots":[
	{"startTime":"2025-01-10T09:00:00Z","endTime":"2025-01-10T11:00:00Z","isAvailable":true},
	{"startTime":"2025-01-10T11:00:00Z","endTime":"2025-01-10T13:00:00Z","isAvailable":false}
]}`

type fixture struct {
	api      *fakeAPI
	sessions *session.Manager
	svc      Service
}

func newFixture(t *testing.T, api *fakeAPI) *fixture {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	sessions := session.NewManager(session.NewMemoryStore(), session.Config{})
	svc := NewService(
		rooms.NewService(client, cache.NewMemoryService()),
		scene.NewService(tables.NewService(client, cache.NewMemoryService(), tables.SourceAPI)),
		bookings.NewService(client, cache.NewMemoryService(), nil, bookings.EnvelopeObject),
		sessions,
		Config{MaxDaysAhead: 30, Pricing: bookings.Pricing{Mode: bookings.PricingFlat, SeatPrice: 10, FullTableFlat: 35}},
	)
	svc.(*service).now = func() time.Time { return time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local) }
	return &fixture{api: api, sessions: sessions, svc: svc}
}

func (f *fixture) loggedIn(t *testing.T) *session.Session {
	t.Helper()
	ctx := context.Background()
	s := f.sessions.Hydrate(ctx, "")
	if err := f.sessions.Login(ctx, s, "tok", &session.User{ID: "u1", Username: "meeple"}); err != nil {
		t.Fatal(err)
	}
	return s
}

func (f *fixture) enter(t *testing.T, s *session.Session) {
	t.Helper()
	if _, err := f.svc.EnterRoom(context.Background(), s, "room-1", scene.Mode2D); err != nil {
		t.Fatalf("enter room: %v", err)
	}
}

func TestSeatClickOpensSeatModal(t *testing.T) {
	f := newFixture(t, &fakeAPI{slots: availableSlots})
	s := f.loggedIn(t)
	f.enter(t, s)

	view, err := f.svc.SeatClick(context.Background(), s, "table-2", 3)
	if err != nil {
		t.Fatal(err)
	}
	if view.Title != "Book Seat" || view.Description != "Reserve seat 3 at Table 2" {
		t.Errorf("header = %q / %q", view.Title, view.Description)
	}
	if view.Draft.SeatID != "seat-3" || view.Draft.IsFullTable {
		t.Errorf("draft = %+v", view.Draft)
	}
	if len(view.PlayerOptions) != 1 || view.PlayerOptions[0] != "1" || view.Players != "1" {
		t.Errorf("players = %v / %q", view.PlayerOptions, view.Players)
	}
	if view.Date != "2025-01-10" || view.Phase != bookings.PhaseSlotsLoaded || len(view.Slots) != 2 {
		t.Errorf("slots = %s %s %+v", view.Date, view.Phase, view.Slots)
	}
	if !view.Slots[1].Disabled {
		t.Error("unavailable slot should be disabled")
	}

	snap, err := f.svc.Snapshot(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Draft == nil || snap.Draft.TableID != "table-2" || snap.Room == nil || snap.Room.Room.Name != "Main Hall" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestClicksOnUnavailableTables(t *testing.T) {
	f := newFixture(t, &fakeAPI{slots: availableSlots})
	s := f.loggedIn(t)
	ctx := context.Background()

	if _, err := f.svc.SeatClick(ctx, s, "table-2", 1); !errors.Is(err, ErrNoRoom) {
		t.Errorf("before entering a room: %v", err)
	}
	f.enter(t, s)

	if _, err := f.svc.SeatClick(ctx, s, "table-1", 1); !errors.Is(err, ErrSeatUnavailable) {
		t.Errorf("booked seat: %v", err)
	}
	if _, err := f.svc.TableClick(ctx, s, "table-1"); !errors.Is(err, ErrTableUnavailable) {
		t.Errorf("booked table: %v", err)
	}
	if _, err := f.svc.SeatClick(ctx, s, "table-9", 1); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("unknown table: %v", err)
	}
	if _, err := f.svc.Modal(ctx, s); !errors.Is(err, ErrNoModal) {
		t.Errorf("no modal should be open: %v", err)
	}
}

func TestTableClickReplacesSeatModal(t *testing.T) {
	f := newFixture(t, &fakeAPI{slots: availableSlots})
	s := f.loggedIn(t)
	f.enter(t, s)
	ctx := context.Background()

	if _, err := f.svc.SeatClick(ctx, s, "table-2", 3); err != nil {
		t.Fatal(err)
	}
	view, err := f.svc.TableClick(ctx, s, "table-2")
	if err != nil {
		t.Fatal(err)
	}
	if !view.Draft.IsFullTable || view.Draft.SeatID != "" || view.Players != "" {
		t.Errorf("table draft = %+v players=%q", view.Draft, view.Players)
	}
	if len(view.PlayerOptions) != 5 || view.SubmitLabel != "Reserve Table" {
		t.Errorf("options = %v label=%q", view.PlayerOptions, view.SubmitLabel)
	}
}

func TestSubmitConfirmsOnceAndClearsDraft(t *testing.T) {
	api := &fakeAPI{slots: availableSlots}
	f := newFixture(t, api)
	s := f.loggedIn(t)
	f.enter(t, s)
	ctx := context.Background()

	if _, err := f.svc.SeatClick(ctx, s, "table-2", 3); err != nil {
		t.Fatal(err)
	}
	view, err := f.svc.SelectSlot(ctx, s, slotKey)
	if err != nil {
		t.Fatal(err)
	}
	if !view.CanSubmit {
		t.Fatalf("form should be complete: %+v", view)
	}

	result, err := f.svc.Submit(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Confirmed || result.Booking.ID != "b1" {
		t.Errorf("result = %+v", result)
	}
	if !strings.HasPrefix(result.Notice, "Booking confirmed for Jan 10, 2025") {
		t.Errorf("notice = %q", result.Notice)
	}
	api.mu.Lock()
	got := api.posted[0]
	api.mu.Unlock()
	if got.TableID != "table-2" || got.SeatID != "seat-3" || got.NumberOfPlayers != 1 {
		t.Errorf("posted = %+v", got)
	}

	snap, err := f.svc.Snapshot(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Draft != nil || snap.Modal != nil || snap.LastBooking == nil {
		t.Errorf("after confirm: draft=%v modal=%v last=%v", snap.Draft, snap.Modal, snap.LastBooking)
	}

	// the modal is gone, so a second submit cannot post again
	if _, err := f.svc.Submit(ctx, s); !errors.Is(err, ErrNoModal) {
		t.Errorf("second submit: %v", err)
	}
	if n := atomic.LoadInt32(&api.bookings); n != 1 {
		t.Errorf("bookings posted = %d", n)
	}
}

func TestSubmitRejectedKeepsModalOpen(t *testing.T) {
	api := &fakeAPI{slots: availableSlots, reject: "Table already booked"}
	f := newFixture(t, api)
	s := f.loggedIn(t)
	f.enter(t, s)
	ctx := context.Background()

	if _, err := f.svc.SeatClick(ctx, s, "table-2", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SelectSlot(ctx, s, slotKey); err != nil {
		t.Fatal(err)
	}

	result, err := f.svc.Submit(ctx, s)
	if err == nil || apiclient.StatusOf(err) != http.StatusConflict {
		t.Fatalf("err = %v", err)
	}
	if result.Confirmed || result.Modal == nil || result.Modal.Error != "Table already booked" {
		t.Fatalf("result = %+v", result)
	}
	if result.Modal.Submitting || !result.Modal.CanSubmit {
		t.Errorf("modal should allow a retry: %+v", result.Modal)
	}

	view, err := f.svc.Modal(ctx, s)
	if err != nil || view.Draft.SeatID != "seat-3" {
		t.Errorf("modal after rejection = %+v, %v", view, err)
	}
}

func TestEmptySlotListKeepsSubmitDisabled(t *testing.T) {
	f := newFixture(t, &fakeAPI{slots: `{"availableSlots":[]}`})
	s := f.loggedIn(t)
	f.enter(t, s)
	ctx := context.Background()

	view, err := f.svc.SeatClick(ctx, s, "table-2", 3)
	if err != nil {
		t.Fatal(err)
	}
	if view.SlotPlaceholder != bookings.NoSlotsLabel || view.CanSubmit {
		t.Errorf("view = %+v", view)
	}
	if _, err := f.svc.Submit(ctx, s); !errors.Is(err, bookings.ErrFormIncomplete) {
		t.Errorf("submit: %v", err)
	}
	if _, err := f.svc.SelectDate(ctx, s, "2025-03-01"); !errors.Is(err, bookings.ErrDateOutOfRange) {
		t.Errorf("out of window date: %v", err)
	}
}

func TestSubmitHeldLockIsRejected(t *testing.T) {
	f := newFixture(t, &fakeAPI{slots: availableSlots})
	s := f.loggedIn(t)
	f.enter(t, s)
	ctx := context.Background()

	if _, err := f.svc.SeatClick(ctx, s, "table-2", 3); err != nil {
		t.Fatal(err)
	}
	release, err := f.sessions.TryLock(ctx, s, viewerLock)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	if _, err := f.svc.Submit(ctx, s); !errors.Is(err, session.ErrLocked) {
		t.Errorf("concurrent submit: %v", err)
	}
}

// readyToSubmit opens a seat modal with a slot chosen
func (f *fixture) readyToSubmit(t *testing.T) *session.Session {
	t.Helper()
	s := f.loggedIn(t)
	f.enter(t, s)
	ctx := context.Background()
	if _, err := f.svc.SeatClick(ctx, s, "table-2", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SelectSlot(ctx, s, slotKey); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSubmitFromStaleCopiesPostsOnce(t *testing.T) {
	api := &fakeAPI{slots: availableSlots}
	f := newFixture(t, api)
	s := f.readyToSubmit(t)
	ctx := context.Background()

	// a double click: both requests hydrate before either submits
	first := f.sessions.Hydrate(ctx, s.ID)
	second := f.sessions.Hydrate(ctx, s.ID)

	result, err := f.svc.Submit(ctx, first)
	if err != nil || !result.Confirmed {
		t.Fatalf("first submit = %+v, %v", result, err)
	}
	if _, err := f.svc.Submit(ctx, second); !errors.Is(err, ErrNoModal) {
		t.Errorf("second submit: %v", err)
	}
	if n := atomic.LoadInt32(&api.bookings); n != 1 {
		t.Errorf("bookings posted = %d", n)
	}
}

func TestSubmitWhileAnotherIsInFlight(t *testing.T) {
	api := &fakeAPI{slots: availableSlots, arrived: make(chan struct{}, 2), hold: make(chan struct{})}
	f := newFixture(t, api)
	s := f.readyToSubmit(t)
	ctx := context.Background()

	first := f.sessions.Hydrate(ctx, s.ID)
	second := f.sessions.Hydrate(ctx, s.ID)
	third := f.sessions.Hydrate(ctx, s.ID)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, first)
		done <- err
	}()
	<-api.arrived

	if _, err := f.svc.Submit(ctx, second); !errors.Is(err, session.ErrLocked) {
		t.Errorf("overlapping submit: %v", err)
	}
	if _, err := f.svc.SelectSlot(ctx, third, slotKey); !errors.Is(err, session.ErrLocked) {
		t.Errorf("slot change during submit: %v", err)
	}

	close(api.hold)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// the late request sees the confirmed booking instead of its own copy
	if _, err := f.svc.SelectSlot(ctx, third, slotKey); !errors.Is(err, ErrNoModal) {
		t.Errorf("slot change after submit: %v", err)
	}
	snap, err := f.svc.Snapshot(ctx, f.sessions.Hydrate(ctx, s.ID))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Modal != nil || snap.LastBooking == nil || snap.LastBooking.ID != "b1" {
		t.Errorf("after submit: modal=%v last=%v", snap.Modal, snap.LastBooking)
	}
	if n := atomic.LoadInt32(&api.bookings); n != 1 {
		t.Errorf("bookings posted = %d", n)
	}
}

func TestAbandonedSubmissionExpires(t *testing.T) {
	api := &fakeAPI{slots: availableSlots}
	f := newFixture(t, api)
	s := f.readyToSubmit(t)
	ctx := context.Background()
	svc := f.svc.(*service)
	start := svc.now()

	// leave a submission flagged in flight, as a process dying mid POST would
	st, err := svc.load(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Modal.BeginSubmit(); err != nil {
		t.Fatal(err)
	}
	st.SubmitStartedAt = start
	if err := svc.save(ctx, s, st); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Submit(ctx, s); !errors.Is(err, bookings.ErrSubmitInFlight) {
		t.Errorf("submit during flight: %v", err)
	}
	if err := f.svc.CloseModal(ctx, s); !errors.Is(err, bookings.ErrSubmitInFlight) {
		t.Errorf("close during flight: %v", err)
	}
	if n := atomic.LoadInt32(&api.bookings); n != 0 {
		t.Fatalf("bookings posted = %d", n)
	}

	svc.now = func() time.Time { return start.Add(f.sessions.LockTTL()) }
	view, err := f.svc.Modal(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Submitting {
		t.Fatalf("reads should not clear the flag: %+v", view)
	}
	if _, err := f.svc.SelectSlot(ctx, s, slotKey); err != nil {
		t.Fatalf("select after expiry: %v", err)
	}
	result, err := f.svc.Submit(ctx, s)
	if err != nil || !result.Confirmed {
		t.Fatalf("retry = %+v, %v", result, err)
	}
	if n := atomic.LoadInt32(&api.bookings); n != 1 {
		t.Errorf("bookings posted = %d", n)
	}
}

func TestViewerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t, &fakeAPI{slots: availableSlots})
	r := gin.New()
	r.Use(middleware.Session(f.sessions, middleware.CookieConfig{Name: cookieName}))
	SetupViewerRoutes(r.Group("/api/v1"), NewController(f.svc))

	anon := f.sessions.Hydrate(context.Background(), "")
	if err := f.sessions.Save(context.Background(), anon); err != nil {
		t.Fatal(err)
	}
	cookie := &http.Cookie{Name: cookieName, Value: anon.ID}

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodPost, "/api/v1/viewer/room", `{"roomId":"room-1","view":"3d"}`); w.Code != http.StatusOK {
		t.Fatalf("enter room = %d %s", w.Code, w.Body)
	}
	if w := do(http.MethodPost, "/api/v1/viewer/seat-click", `{"tableId":"table-1","seatNumber":2}`); w.Code != http.StatusConflict {
		t.Errorf("booked seat = %d", w.Code)
	}
	if w := do(http.MethodPost, "/api/v1/viewer/seat-click", `{"tableId":"table-2","seatNumber":0}`); w.Code != http.StatusBadRequest {
		t.Errorf("seat 0 = %d", w.Code)
	}
	if w := do(http.MethodPost, "/api/v1/viewer/seat-click", `{"tableId":"table-2","seatNumber":3}`); w.Code != http.StatusOK {
		t.Fatalf("seat click = %d %s", w.Code, w.Body)
	}
	if w := do(http.MethodPut, "/api/v1/viewer/modal/players", `{"players":"4"}`); w.Code != http.StatusBadRequest {
		t.Errorf("4 players on a seat = %d", w.Code)
	}
	// anonymous sessions may browse but not book
	if w := do(http.MethodPost, "/api/v1/viewer/modal/submit", ``); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous submit = %d", w.Code)
	}
	if w := do(http.MethodDelete, "/api/v1/viewer/modal", ``); w.Code != http.StatusOK {
		t.Errorf("close modal = %d", w.Code)
	}
	if w := do(http.MethodGet, "/api/v1/viewer/modal", ``); w.Code != http.StatusNotFound {
		t.Errorf("modal after close = %d", w.Code)
	}
}

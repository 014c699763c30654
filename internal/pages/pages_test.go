package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gamespace/internal/games"
	"gamespace/internal/rooms"
	"gamespace/internal/session"
	"gamespace/internal/shared/middleware"
	"gamespace/pkg/cache"

	"github.com/gin-gonic/gin"
)

type stubRooms struct {
	rooms.Service
}

func (stubRooms) ListRooms(context.Context) ([]rooms.Room, error) {
	return []rooms.Room{
		{ID: "room-a", Name: "Strategy Hall", OpeningTime: "10:00", ClosingTime: "22:00", Capacity: 32, Status: rooms.StatusActive},
		{ID: "room-b", Name: "Party Lounge", OpeningTime: "12:00", ClosingTime: "23:00", Capacity: 24, Status: rooms.StatusActive},
	}, nil
}

func (stubRooms) GetAvailability(context.Context, string) ([]rooms.Availability, error) {
	return []rooms.Availability{{RoomID: "room-a", TotalTables: 8, AvailableTables: 6, AvailabilityPercentage: 75}}, nil
}

type starterRepo struct{ games.Repository }

func (starterRepo) List(context.Context, string) ([]games.Game, error) {
	return games.Starter()[:1], nil
}

func newRouter(t *testing.T, gameService games.Service) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager(session.NewMemoryStore(), session.Config{})
	r := gin.New()
	r.Use(middleware.Session(sessions, middleware.CookieConfig{Name: "gs_session"}))
	c := NewController(stubRooms{}, gameService)
	c.now = func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.Local) }
	if err := SetupPageRoutes(r, c); err != nil {
		t.Fatal(err)
	}
	return r, sessions
}

func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHomeRendersSelector(t *testing.T) {
	r, _ := newRouter(t, games.NewService(nil, cache.NewMemoryService()))
	w := get(r, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Strategy Hall", "6/8 available", "75% available", "Enter Room", "Not Available", "No data", "Log in"} {
		if !strings.Contains(body, want) {
			t.Errorf("home page lacks %q", want)
		}
	}
}

func TestLoggedInUserIsGreetedAndRedirected(t *testing.T) {
	r, sessions := newRouter(t, games.NewService(nil, cache.NewMemoryService()))
	ctx := context.Background()
	s := sessions.Hydrate(ctx, "")
	if err := sessions.Login(ctx, s, "tok", &session.User{Username: "meeple"}); err != nil {
		t.Fatal(err)
	}
	cookie := &http.Cookie{Name: "gs_session", Value: s.ID}

	if w := get(r, "/", cookie); !strings.Contains(w.Body.String(), "Signed in as meeple") {
		t.Error("user not shown")
	}
	if w := get(r, "/login", cookie); w.Code != http.StatusSeeOther {
		t.Errorf("login page for a signed in user = %d", w.Code)
	}
}

func TestGamesPage(t *testing.T) {
	r, _ := newRouter(t, games.NewService(starterRepo{}, cache.NewMemoryService()))
	w := get(r, "/games", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Catan") || !strings.Contains(w.Body.String(), "BGG: 7.1 (#517)") {
		t.Errorf("games page = %d %s", w.Code, w.Body)
	}

	r, _ = newRouter(t, games.NewService(nil, cache.NewMemoryService()))
	if w := get(r, "/games", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("games page without a database = %d", w.Code)
	}
}

func TestNotFound(t *testing.T) {
	r, _ := newRouter(t, games.NewService(nil, cache.NewMemoryService()))

	w := get(r, "/no/such/page", nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Oops! Page not found") {
		t.Errorf("page 404 = %d %s", w.Code, w.Body)
	}

	w = get(r, "/api/v1/nothing", nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Errorf("api 404 = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestUserFromToken(t *testing.T) {
	now := time.Now()
	token := signedToken(t, jwt.MapClaims{"id": "u1", "username": "meeple", "exp": now.Add(time.Hour).Unix()})

	user, err := UserFromToken(token, now)
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != "u1" || user.Username != "meeple" {
		t.Errorf("user = %+v", user)
	}

	for name, bad := range map[string]string{
		"garbage": "not.a.jwt",
		"expired": signedToken(t, jwt.MapClaims{"username": "meeple", "exp": now.Add(-time.Minute).Unix()}),
		"no name": signedToken(t, jwt.MapClaims{"id": "u1"}),
	} {
		if _, err := UserFromToken(bad, now); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestMustFromContextPanicsWithoutMiddleware(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustFromContext(context.Background())
}

func TestHydrateFreshForUnknownIDs(t *testing.T) {
	m := NewManager(NewMemoryStore(), Config{})
	ctx := context.Background()

	s := m.Hydrate(ctx, "")
	if _, err := uuid.Parse(s.ID); err != nil || s.IsAuthenticated() {
		t.Fatalf("fresh session = %+v", s)
	}

	id := uuid.NewString()
	if got := m.Hydrate(ctx, id); got.ID != id {
		t.Errorf("unknown but well formed id replaced: %s", got.ID)
	}
	if got := m.Hydrate(ctx, "../../etc"); got.ID == "../../etc" {
		t.Error("malformed cookie id kept")
	}
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	m := NewManager(NewMemoryStore(), Config{TTL: time.Hour})
	ctx := context.Background()
	token := signedToken(t, jwt.MapClaims{"username": "meeple", "email": "m@example.com"})

	s := m.Hydrate(ctx, "")
	if err := m.Login(ctx, s, token, nil); err != nil {
		t.Fatal(err)
	}
	_ = s.Put("viewer", map[string]string{"roomId": "room-a"})
	if err := m.Save(ctx, s); err != nil {
		t.Fatal(err)
	}

	again := m.Hydrate(ctx, s.ID)
	if !again.IsAuthenticated() || again.Username() != "meeple" {
		t.Fatalf("hydrated = %+v", again)
	}
	var st map[string]string
	if ok, err := again.Load("viewer", &st); !ok || err != nil || st["roomId"] != "room-a" {
		t.Errorf("state = %v %v %v", st, ok, err)
	}

	if err := m.Logout(ctx, again); err != nil {
		t.Fatal(err)
	}
	if m.Hydrate(ctx, s.ID).IsAuthenticated() {
		t.Error("session survived logout")
	}
}

func TestHydrateDropsUnreadableToken(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Config{})
	ctx := context.Background()

	id := uuid.NewString()
	_ = store.Save(ctx, &Session{ID: id, Token: "garbage", User: &User{Username: "ghost"}}, time.Hour)

	s := m.Hydrate(ctx, id)
	if s.IsAuthenticated() || s.User != nil {
		t.Errorf("malformed token kept user %+v", s.User)
	}
}

func TestTryLockIsExclusive(t *testing.T) {
	m := NewManager(NewMemoryStore(), Config{})
	ctx := context.Background()
	s := m.Hydrate(ctx, "")

	release, err := m.TryLock(ctx, s, "submit")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.TryLock(ctx, s, "submit"); !errors.Is(err, ErrLocked) {
		t.Errorf("second lock err = %v", err)
	}
	release()
	if _, err := m.TryLock(ctx, s, "submit"); err != nil {
		t.Errorf("lock after release: %v", err)
	}
}

func TestReloadPicksUpLaterSaves(t *testing.T) {
	m := NewManager(NewMemoryStore(), Config{})
	ctx := context.Background()

	first := m.Hydrate(ctx, "")
	if err := m.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	stale := m.Hydrate(ctx, first.ID)

	_ = first.Put("viewer", map[string]string{"roomId": "room-b"})
	if err := m.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	if ok, _ := stale.Load("viewer", &map[string]string{}); ok {
		t.Fatal("stale copy already sees the later save")
	}
	if err := m.Reload(ctx, stale); err != nil {
		t.Fatal(err)
	}
	var st map[string]string
	if ok, err := stale.Load("viewer", &st); !ok || err != nil || st["roomId"] != "room-b" {
		t.Errorf("reloaded state = %v %v %v", st, ok, err)
	}

	// a session that was never saved keeps its in-memory contents
	unsaved := m.Hydrate(ctx, "")
	_ = unsaved.Put("viewer", map[string]string{"roomId": "room-c"})
	if err := m.Reload(ctx, unsaved); err != nil {
		t.Fatal(err)
	}
	if ok, _ := unsaved.Load("viewer", &st); !ok || st["roomId"] != "room-c" {
		t.Errorf("unsaved session lost its state: %v", st)
	}
}

package games

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"gamespace/pkg/cache"

	"github.com/gin-gonic/gin"
)

type memoryRepo struct {
	games []Game
	lists int
}

func (m *memoryRepo) List(_ context.Context, search string) ([]Game, error) {
	m.lists++
	return m.games, nil
}

func (m *memoryRepo) Upsert(_ context.Context, games []Game) error {
	m.games = append(m.games, games...)
	return nil
}

func (m *memoryRepo) Count(context.Context) (int64, error) { return int64(len(m.games)), nil }

func (m *memoryRepo) DeleteAll(context.Context) error {
	m.games = nil
	return nil
}

func TestCardLabels(t *testing.T) {
	catan := NewCard(Starter()[0])
	if catan.Players != "3-4" || catan.PlayTime != "90 mins" || catan.Age != "10+" || catan.BGG != "7.1 (#517)" {
		t.Errorf("catan = %+v", catan)
	}

	bare := NewCard(Game{Game: "House Chess Set", PlayersMin: intp(2)})
	if bare.Players != NotAvailable || bare.PlayTime != "N/A mins" || bare.Age != "N/A+" || bare.BGG != "" {
		t.Errorf("bare = %+v", bare)
	}
	if bare.Categories == nil || bare.Mechanisms == nil {
		t.Error("empty lists should render as []")
	}

	dixit := NewCard(Game{Game: "Dixit", BGGRating: floatp(7.2)})
	if dixit.BGG != "7.2" {
		t.Errorf("rating without rank = %q", dixit.BGG)
	}
}

func TestCardDropsBlankMechanisms(t *testing.T) {
	card := NewCard(Game{Mechanisms: []string{"Cooperative Game", "", "  ", "Action Points"}})
	if want := []string{"Cooperative Game", "Action Points"}; !reflect.DeepEqual(card.Mechanisms, want) {
		t.Errorf("mechanisms = %v", card.Mechanisms)
	}
}

func TestListGamesFiltersAndCaches(t *testing.T) {
	repo := &memoryRepo{games: Starter()}
	svc := NewService(repo, cache.NewMemoryService())
	ctx := context.Background()

	party, err := svc.ListGames(ctx, ListQuery{Category: "party game"})
	if err != nil {
		t.Fatal(err)
	}
	if len(party) != 2 {
		t.Errorf("party games = %d", len(party))
	}

	six, err := svc.ListGames(ctx, ListQuery{Players: 6})
	if err != nil {
		t.Fatal(err)
	}
	// Codenames, Dixit and the chess set with unknown bounds
	if len(six) != 3 {
		t.Errorf("six player games = %d", len(six))
	}
	if repo.lists != 1 {
		t.Errorf("repository hit %d times, want 1", repo.lists)
	}

	if err := svc.Import(ctx, []Game{{Game: "Root"}}); err != nil {
		t.Fatal(err)
	}
	all, _ := svc.ListGames(ctx, ListQuery{})
	if len(all) != len(Starter())+1 || repo.lists != 2 {
		t.Errorf("after import: %d games, %d lists", len(all), repo.lists)
	}
}

func TestListGamesWithoutDatabase(t *testing.T) {
	svc := NewService(nil, cache.NewMemoryService())
	if _, err := svc.ListGames(context.Background(), ListQuery{}); !errors.Is(err, ErrInventoryUnavailable) {
		t.Errorf("err = %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupGameRoutes(r.Group("/api/v1"), NewController(svc))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", w.Code)
	}
}

func TestListGamesEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupGameRoutes(r.Group("/api/v1"), NewController(NewService(&memoryRepo{games: Starter()}, cache.NewMemoryService())))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/games?players=0", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("players=0 means no filter, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/games?players=50", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("players=50 status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/games?category=Trains", nil))
	var body struct {
		Data []Card `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 1 || body.Data[0].Title != "Ticket to Ride" {
		t.Errorf("trains = %+v", body.Data)
	}
}

package rooms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamespace/pkg/cache"

	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T, api http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := NewController(NewService(newAPI(t, api), cache.NewMemoryService()))
	ctrl.now = func() time.Time { return time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC) }

	r := gin.New()
	SetupRoomRoutes(r.Group("/api/v1"), ctrl)
	return r
}

func TestListRoomsDefaultsToToday(t *testing.T) {
	r := newRouter(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/rooms":
			_, _ = w.Write([]byte(`[{"_id":"r1","name":"Strategy Hall"}]`))
		case "/rooms/availability":
			if req.URL.Query().Get("date") != "2025-01-10" {
				t.Errorf("date = %s", req.URL.Query().Get("date"))
			}
			_, _ = w.Write([]byte(`[{"roomId":"r1","totalTables":4,"availableTables":1}]`))
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}

	var body struct {
		Data Selector `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Date != "2025-01-10" || len(body.Data.Cards) != 1 || !body.Data.Cards[0].Available {
		t.Errorf("selector = %+v", body.Data)
	}
}

func TestListRoomsRejectsBadDate(t *testing.T) {
	r := newRouter(t, func(w http.ResponseWriter, req *http.Request) {})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms?date=tomorrow", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestGetRoomMissingAvailabilityShowsNoData(t *testing.T) {
	r := newRouter(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/rooms/r1":
			_, _ = w.Write([]byte(`{"_id":"r1","name":"Strategy Hall","status":"MAINTENANCE"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/r1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data DetailResponse `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Availability != nil || body.Data.TablesLabel != NoData || body.Data.StatusLabel != "Maintenance" {
		t.Errorf("detail = %+v", body.Data)
	}
}

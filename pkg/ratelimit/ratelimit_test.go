package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testConfig() *Config {
	return &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 5,
		PublicRequests:  3,
		AuthRequests:    2,
		BookingRequests: 1,
		HealthRequests:  100,
		WhitelistedIPs:  []string{"10.0.0.1"},
	}
}

func TestRateLimitType(t *testing.T) {
	cases := map[string]RateLimitType{
		"/health":                          RateLimitTypeHealth,
		"/status":                          RateLimitTypeHealth,
		"/api/v1/auth/login":               RateLimitTypeAuth,
		"/api/v1/bookings/available-slots": RateLimitTypeBooking,
		"/api/v1/viewer/modal/submit":      RateLimitTypeBooking,
		"/api/v1/rooms/room-a":             RateLimitTypePublic,
		"/api/v1/games":                    RateLimitTypePublic,
		"/ws/availability":                 RateLimitTypePublic,
		"/api/v1/viewer":                   RateLimitTypeDefault,
		"/":                                RateLimitTypeDefault,
	}
	for path, want := range cases {
		if got := getRateLimitType(path); got != want {
			t.Errorf("%s: %s, want %s", path, got, want)
		}
	}
}

func TestLocalLimiterExhaustsBudget(t *testing.T) {
	l := NewLocalLimiter(testConfig())
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, _ := l.IsAllowed(ctx, "1.2.3.4", RateLimitTypeAuth)
		if !res.Allowed {
			t.Fatalf("request %d rejected", i+1)
		}
	}
	res, _ := l.IsAllowed(ctx, "1.2.3.4", RateLimitTypeAuth)
	if res.Allowed || res.Remaining != 0 || res.Limit != 2 {
		t.Errorf("third auth request = %+v", res)
	}

	// budgets are per client and per type
	if res, _ := l.IsAllowed(ctx, "5.6.7.8", RateLimitTypeAuth); !res.Allowed {
		t.Error("other client rejected")
	}
	if res, _ := l.IsAllowed(ctx, "1.2.3.4", RateLimitTypePublic); !res.Allowed {
		t.Error("public budget shared with auth")
	}

	// one token comes back every half minute
	now = now.Add(31 * time.Second)
	if res, _ := l.IsAllowed(ctx, "1.2.3.4", RateLimitTypeAuth); !res.Allowed {
		t.Error("budget did not refill")
	}
}

func TestWhitelistAndDisabled(t *testing.T) {
	cfg := testConfig()
	l := NewLocalLimiter(cfg)
	for i := 0; i < 10; i++ {
		if res, _ := l.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeBooking); !res.Allowed {
			t.Fatal("whitelisted ip limited")
		}
	}

	cfg.Enabled = false
	for i := 0; i < 10; i++ {
		if res, _ := l.IsAllowed(context.Background(), "1.2.3.4", RateLimitTypeBooking); !res.Allowed {
			t.Fatal("disabled limiter limited")
		}
	}
}

type failingLimiter struct{}

func (failingLimiter) IsAllowed(context.Context, string, RateLimitType) (*Result, error) {
	return nil, errors.New("redis down")
}

func newEngine(limiter Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(limiter))
	r.GET("/api/v1/bookings/available-slots", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestMiddleware(t *testing.T) {
	r := newEngine(NewLocalLimiter(testConfig()))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/available-slots", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("first = %d limit %q", w.Code, w.Header().Get("X-RateLimit-Limit"))
	}
	if w := do(); w.Code != http.StatusTooManyRequests {
		t.Errorf("second = %d", w.Code)
	}
}

func TestMiddlewareFailsOpen(t *testing.T) {
	r := newEngine(failingLimiter{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/available-slots", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

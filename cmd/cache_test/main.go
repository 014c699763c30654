package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"gamespace/internal/rooms"
	"gamespace/internal/shared/config"
	"gamespace/internal/shared/constants"
	"gamespace/pkg/cache"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type CacheTestResult struct {
	Name       string        `json:"name"`
	Endpoint   string        `json:"endpoint"`
	Key        string        `json:"key"`
	Cached     bool          `json:"cached"`
	FirstTime  time.Duration `json:"first_time"`
	SecondTime time.Duration `json:"second_time"`
	DataSize   int           `json:"data_size"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

type CacheTestSuite struct {
	BaseURL string
	Redis   *redis.Client
	HTTP    *http.Client
	Results []CacheTestResult
}

// cache_test requests each cached endpoint of a running server twice and
// checks that the first request left its key in Redis
func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "server API base URL")
	roomID := flag.String("room", "room-a", "room to check")
	tableID := flag.String("table", "table-1", "table to check")
	out := flag.String("out", "cache_test_results.json", "where to write the JSON report")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	fmt.Println("🧪 Starting GameSpace cache check...")
	rc := cfg.Redis
	client, err := cache.NewRedisClient(context.Background(), cache.NewConfig(rc.Addr, rc.Host, rc.Port, rc.Password, rc.DB))
	if err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	fmt.Println("✅ Redis connection: OK")

	suite := &CacheTestSuite{
		BaseURL: *baseURL,
		Redis:   client,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
	defer suite.Redis.Close()

	today := rooms.Today(time.Now())
	testCases := []struct {
		name     string
		endpoint string
		key      string
	}{
		{"Room List", "/rooms", constants.CACHE_KEY_ROOMS_LIST},
		{"Room Detail", "/rooms/" + *roomID, constants.BuildRoomDetailKey(*roomID)},
		{"Room Availability", "/rooms?date=" + today, constants.BuildRoomAvailabilityKey(today)},
		{"Table Detail", "/tables/" + *tableID, constants.BuildTableDetailKey(*tableID)},
		{"Time Slots", "/bookings/available-slots?tableId=" + *tableID + "&date=" + today, constants.BuildTableSlotsKey(*tableID, today)},
		{"Games Inventory", "/games", constants.CACHE_KEY_GAMES_LIST},
	}

	for _, tc := range testCases {
		fmt.Printf("\n🔍 Testing: %s\n", tc.name)
		result := suite.check(tc.name, tc.endpoint, tc.key)
		suite.Results = append(suite.Results, result)
	}

	suite.generateReport(*out)
	fmt.Println("\n🎉 Cache check complete!")
}

func (s *CacheTestSuite) check(name, endpoint, key string) CacheTestResult {
	ctx := context.Background()
	result := CacheTestResult{Name: name, Endpoint: endpoint, Key: key}

	// start from a cold key so the first request is a miss
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		result.Error = err.Error()
		return result
	}

	first, size, err := s.get(endpoint)
	if err != nil {
		result.Error = err.Error()
		fmt.Printf("   ❌ %v\n", err)
		return result
	}
	result.FirstTime = first
	result.DataSize = size

	n, err := s.Redis.Exists(ctx, key).Result()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Cached = n == 1

	second, _, err := s.get(endpoint)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.SecondTime = second
	result.Success = result.Cached

	icon := "🔥"
	if !result.Cached {
		icon = "❓"
	}
	fmt.Printf("   %s key %s cached=%v (%v -> %v, %d bytes)\n", icon, key, result.Cached, first, second, size)
	return result
}

func (s *CacheTestSuite) get(endpoint string) (time.Duration, int, error) {
	start := time.Now()
	resp, err := s.HTTP.Get(s.BaseURL + endpoint)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, err
	}
	if resp.StatusCode >= 400 {
		return time.Since(start), len(body), fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return time.Since(start), len(body), nil
}

func (s *CacheTestSuite) generateReport(path string) {
	fmt.Println("\n📊 CACHE REPORT")
	fmt.Println("===============")

	cached := 0
	for _, r := range s.Results {
		if r.Cached {
			cached++
		}
	}
	fmt.Printf("Endpoints: %d\n", len(s.Results))
	fmt.Printf("Cached:    %d\n", cached)

	reportData, err := json.MarshalIndent(map[string]interface{}{
		"summary": map[string]interface{}{
			"endpoints": len(s.Results),
			"cached":    cached,
		},
		"results": s.Results,
	}, "", "  ")
	if err != nil {
		log.Printf("failed to encode report: %v", err)
		return
	}
	if err := os.WriteFile(path, reportData, 0o644); err != nil {
		log.Printf("failed to write report: %v", err)
		return
	}
	fmt.Printf("\n💾 Detailed results saved to %s\n", path)
}

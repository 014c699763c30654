package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RateLimitType string

const (
	RateLimitTypeDefault RateLimitType = "default"
	RateLimitTypePublic  RateLimitType = "public"
	RateLimitTypeAuth    RateLimitType = "auth"
	RateLimitTypeBooking RateLimitType = "booking"
	RateLimitTypeHealth  RateLimitType = "health"
)

const keyPrefix = "gamespace:ratelimit"

type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// Limiter decides whether one more request from clientIP fits its budget
type Limiter interface {
	IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error)
}

// RateLimiter counts requests in a Redis sliding window so every instance
// shares one budget per client
type RateLimiter struct {
	client    *redis.Client
	config    *Config
	whitelist map[string]struct{}
	now       func() time.Time
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client:    client,
		config:    config,
		whitelist: whitelistOf(config.WhitelistedIPs),
		now:       time.Now,
	}
}

// IsAllowed checks if request is allowed
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.config.limitFor(limitType)
	if !r.config.Enabled || isWhitelisted(r.whitelist, clientIP) {
		return r.config.unlimited(limit, r.now()), nil
	}

	key := fmt.Sprintf("%s:%s:%s", keyPrefix, clientIP, limitType)
	return r.checkLimit(ctx, key, limit)
}

// Scores are unix nanoseconds so two requests in the same second are
// separate members of the window.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current_count = redis.call('ZCARD', key)
	if current_count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {current_count + 1, 0}
	end

	redis.call('ZADD', key, now, now)
	redis.call('PEXPIRE', key, window_ms)
	return {current_count + 1, limit - current_count - 1}
`)

// checkLimit performs the actual rate limit check using sliding window
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := r.now()
	windowStart := now.Add(-r.config.WindowDuration)

	result, err := slidingWindow.Run(ctx, r.client, []string{key},
		windowStart.UnixNano(),
		now.UnixNano(),
		limit,
		r.config.WindowDuration.Milliseconds()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response %v", result)
	}

	currentCount, _ := strconv.Atoi(fmt.Sprint(values[0]))
	remaining, _ := strconv.Atoi(fmt.Sprint(values[1]))

	return &Result{
		Allowed:   currentCount <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

// LocalLimiter is the single instance fallback when Redis is disabled.
// Each client and limit type gets a token bucket refilled at
// limit per window, with the whole limit as burst.
type LocalLimiter struct {
	config    *Config
	whitelist map[string]struct{}
	now       func() time.Time

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewLocalLimiter(config *Config) *LocalLimiter {
	return &LocalLimiter{
		config:    config,
		whitelist: whitelistOf(config.WhitelistedIPs),
		now:       time.Now,
		buckets:   make(map[string]*rate.Limiter),
	}
}

func (l *LocalLimiter) IsAllowed(_ context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := l.config.limitFor(limitType)
	now := l.now()
	if !l.config.Enabled || isWhitelisted(l.whitelist, clientIP) {
		return l.config.unlimited(limit, now), nil
	}

	bucket := l.bucket(clientIP+":"+string(limitType), limit)
	allowed := bucket.AllowN(now, 1)
	remaining := int(bucket.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(l.config.WindowDuration).Unix(),
	}, nil
}

func (l *LocalLimiter) bucket(key string, limit int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		every := l.config.WindowDuration / time.Duration(max(limit, 1))
		b = rate.NewLimiter(rate.Every(every), limit)
		l.buckets[key] = b
	}
	return b
}

func (c *Config) limitFor(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return c.PublicRequests
	case RateLimitTypeAuth:
		return c.AuthRequests
	case RateLimitTypeBooking:
		return c.BookingRequests
	case RateLimitTypeHealth:
		return c.HealthRequests
	default:
		return c.DefaultRequests
	}
}

func (c *Config) unlimited(limit int, now time.Time) *Result {
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit,
		ResetTime: now.Add(c.WindowDuration).Unix(),
	}
}

func whitelistOf(ips []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		m[ip] = struct{}{}
	}
	return m
}

func isWhitelisted(whitelist map[string]struct{}, ip string) bool {
	_, ok := whitelist[ip]
	return ok
}

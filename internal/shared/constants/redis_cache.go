package constants

import (
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis keys and TTL values for the GameSpace web app
// Pattern: gamespace:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // games inventory
	TTL_STATIC_SHORT = 6 * time.Hour
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // room catalogue
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // table layouts
)

// Dynamic Data (Short TTL: changes with every booking)
const (
	TTL_DYNAMIC_QUICK   = 2 * time.Minute  // room availability snapshot
	TTL_REALTIME_SHORT  = 30 * time.Second // time slots for one table and date
	TTL_REALTIME_MEDIUM = 1 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "gamespace"
)

// ================== ROOMS MODULE ==================

const (
	CACHE_KEY_ROOMS_LIST        = CACHE_PREFIX + ":rooms:list"
	CACHE_KEY_ROOM_DETAIL       = CACHE_PREFIX + ":rooms:detail:id:"         // + room-id
	CACHE_KEY_ROOM_AVAILABILITY = CACHE_PREFIX + ":rooms:availability:date:" // + YYYY-MM-DD
)

const (
	TTL_ROOMS_LIST        = TTL_SEMI_STATIC_SHORT
	TTL_ROOM_DETAIL       = TTL_SEMI_STATIC_SHORT
	TTL_ROOM_AVAILABILITY = TTL_DYNAMIC_QUICK
)

// ================== TABLES MODULE ==================

const (
	CACHE_KEY_TABLES_BY_ROOM = CACHE_PREFIX + ":tables:room:id:"   // + room-id
	CACHE_KEY_TABLE_DETAIL   = CACHE_PREFIX + ":tables:detail:id:" // + table-id
)

const (
	TTL_TABLES_BY_ROOM = TTL_SEMI_STATIC_QUICK
	TTL_TABLE_DETAIL   = TTL_SEMI_STATIC_QUICK
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_TABLE_SLOTS = CACHE_PREFIX + ":bookings:slots:table:" // + table-id:date:YYYY-MM-DD
)

const (
	TTL_TABLE_SLOTS = TTL_REALTIME_SHORT
)

// ================== GAMES MODULE ==================

const (
	CACHE_KEY_GAMES_LIST = CACHE_PREFIX + ":games:list"
)

const (
	TTL_GAMES_LIST = TTL_STATIC_LONG
)

// ================== SESSIONS ==================

const (
	SESSION_KEY_PREFIX      = CACHE_PREFIX + ":session:"      // + session-id
	SESSION_LOCK_KEY_PREFIX = CACHE_PREFIX + ":session:lock:" // + session-id:operation
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_AVAILABILITY = CACHE_PREFIX + ":rooms:availability:*"
	PATTERN_INVALIDATE_SLOTS        = CACHE_PREFIX + ":bookings:slots:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildRoomDetailKey(roomID string) string {
	return CACHE_KEY_ROOM_DETAIL + roomID
}

func BuildRoomAvailabilityKey(date string) string {
	return CACHE_KEY_ROOM_AVAILABILITY + date
}

func BuildTablesByRoomKey(roomID string) string {
	return CACHE_KEY_TABLES_BY_ROOM + roomID
}

func BuildTableDetailKey(tableID string) string {
	return CACHE_KEY_TABLE_DETAIL + tableID
}

// BuildTableSlotsKey -> "gamespace:bookings:slots:table:table-2:date:2025-01-10"
func BuildTableSlotsKey(tableID, date string) string {
	return CACHE_KEY_TABLE_SLOTS + tableID + ":date:" + date
}

func BuildTableSlotsPattern(tableID string) string {
	return CACHE_KEY_TABLE_SLOTS + tableID + ":*"
}

func BuildSessionKey(sessionID string) string {
	return SESSION_KEY_PREFIX + sessionID
}

func BuildSessionLockKey(sessionID, operation string) string {
	return SESSION_LOCK_KEY_PREFIX + sessionID + ":" + operation
}

package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "llm-router:rl:"

// LimitResult is the outcome of a rate limit check.
type LimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter performs sliding-window rate limiting backed by Redis sorted sets.
// It fails open: without Redis, or when Redis errors, every check passes.
type Limiter struct {
	rdb *redis.Client
}

// NewLimiter creates a new rate limiter. rdb may be nil.
func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

// slidingWindowScript atomically drops expired entries, counts the rest and
// records the current request when there is room.
// KEYS[1] = sorted set key
// ARGV[1] = window start (unix micro)
// ARGV[2] = now (unix micro)
// ARGV[3] = limit
// ARGV[4] = TTL seconds for the key
// Returns: [current_count, 1=allowed/0=denied, oldest_score]
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)
local allowed = 0

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    count = count + 1
    allowed = 1
end
redis.call('EXPIRE', key, ttl)

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldest_score = now
if oldest[2] then
    oldest_score = tonumber(oldest[2])
end
return {count, allowed, oldest_score}
`)

// Check counts one request against key, allowing at most limit requests in
// any window-long period.
func (l *Limiter) Check(ctx context.Context, key string, limit int64, window time.Duration) (LimitResult, error) {
	now := time.Now()
	if l.rdb == nil {
		return LimitResult{Allowed: true, Remaining: limit - 1, ResetAt: now.Add(window)}, nil
	}

	ttlSecs := int64(window.Seconds()) + 1
	result, err := slidingWindowScript.Run(ctx, l.rdb, []string{keyPrefix + key},
		now.Add(-window).UnixMicro(), now.UnixMicro(), limit, ttlSecs,
	).Int64Slice()
	if err != nil || len(result) != 3 {
		slog.Debug("rate limit check skipped", "key", key, "error", err)
		return LimitResult{Allowed: true, Remaining: limit, ResetAt: now.Add(window)}, nil
	}

	count, allowed := result[0], result[1] == 1
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	// The window frees a slot when its oldest entry expires.
	resetAt := time.UnixMicro(result[2]).Add(window)
	lr := LimitResult{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !allowed {
		lr.RetryAfter = resetAt.Sub(now)
		if lr.RetryAfter < time.Second {
			lr.RetryAfter = time.Second
		}
	}
	return lr, nil
}

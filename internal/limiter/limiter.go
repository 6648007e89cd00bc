package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimitExceeded indicates the bucket for the key is empty.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// luaScript implements the token bucket atomically in Redis.
// KEYS[1] = rate limit key
// ARGV[1] = capacity (burst size)
// ARGV[2] = refill rate (tokens per second)
// ARGV[3] = current timestamp (unix seconds)
// ARGV[4] = requested tokens
// Returns: [allowed (1/0), remaining_tokens]
const luaScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local info = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(info[1])
local last_refill = tonumber(info[2])

if not tokens then
	tokens = capacity
	last_refill = now
end

local delta = math.max(0, now - last_refill)
local filled = tokens + (delta * rate)

if filled > capacity then
	filled = capacity
end

local allowed = 0
if filled >= requested then
	allowed = 1
	filled = filled - requested
end

redis.call("HMSET", key, "tokens", filled, "last_refill", now)
redis.call("EXPIRE", key, 60)

return {allowed, math.floor(filled)}
`

// TokenBucketLimiter is a Redis-backed token bucket, shared across
// instances so limits hold under horizontal scaling.
type TokenBucketLimiter struct {
	client *redis.Client
}

// NewTokenBucketLimiter constructs a limiter on the given client.
func NewTokenBucketLimiter(client *redis.Client) *TokenBucketLimiter {
	return &TokenBucketLimiter{client: client}
}

// Allow consumes one token from the bucket for key. rate is tokens per
// second, burst the bucket capacity. Returns whether the request may
// proceed and the remaining token count.
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string, rate float64, burst int) (bool, float64, error) {
	now := time.Now().Unix()

	cmd := l.client.Eval(ctx, luaScript, []string{key}, burst, rate, now, 1)
	result, err := cmd.Result()
	if err != nil {
		return false, 0, err
	}

	resSlice, ok := result.([]interface{})
	if !ok || len(resSlice) != 2 {
		return false, 0, errors.New("unexpected limiter script reply")
	}

	allowed, _ := resSlice[0].(int64)
	remaining, _ := resSlice[1].(int64)

	if allowed != 1 {
		return false, float64(remaining), ErrRateLimitExceeded
	}
	return true, float64(remaining), nil
}

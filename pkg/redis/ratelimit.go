package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewsRateLimit guards the newsdata.io quota (free tier: 30 calls / 15 min).
// Shared by every replica when Redis is enabled.
var NewsRateLimit = RateLimitConfig{
	Key:    "newsdata",
	Limit:  2,
	Window: time.Minute,
}

// RateLimitConfig defines a sliding window: at most Limit calls per Window
type RateLimitConfig struct {
	Key    string
	Limit  int
	Window time.Duration
}

// Every is the average spacing between calls (for an in-process limiter)
func (c RateLimitConfig) Every() time.Duration {
	if c.Limit <= 0 {
		return c.Window
	}
	return c.Window / time.Duration(c.Limit)
}

// slidingWindow returns {allowed, remaining, retry_after_ms}.
// Members carry a per-process sequence so two calls in the same millisecond both count.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_ms = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window_ms)
	local count = redis.call('ZCARD', key)

	if count < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local wait = window_ms
	if oldest[2] then
		wait = tonumber(oldest[2]) + window_ms - now
	end
	return {0, 0, wait}
`)

// RateLimiter is a sliding window limiter stored in a Redis sorted set
// ⭐ SSOT: 외부 API 호출 한도는 여기서만 (Redis 비활성 시 항상 허용)
type RateLimiter struct {
	client *Client
	prefix string
	seq    atomic.Uint64
	now    func() time.Time
}

// NewRateLimiter creates a limiter whose keys are "<prefix>:ratelimit:<cfg.Key>"
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// Reserve records a call if the window has room
func (r *RateLimiter) Reserve(ctx context.Context, cfg RateLimitConfig) (Decision, error) {
	if !r.client.Enabled() {
		return Decision{Allowed: true, Remaining: cfg.Limit}, nil
	}

	now := r.now().UnixMilli()
	member := strconv.FormatInt(now, 10) + "-" + strconv.FormatUint(r.seq.Add(1), 10)

	res, err := slidingWindow.Run(ctx, r.client.Redis(), []string{r.key(cfg)},
		now, cfg.Window.Milliseconds(), cfg.Limit, member).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", cfg.Key, err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit %s: unexpected reply %v", cfg.Key, res)
	}

	return Decision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// Allow checks if a request is allowed under the rate limit
// Returns (allowed, remaining, error)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	d, err := r.Reserve(ctx, cfg)
	return d.Allowed, d.Remaining, err
}

// Wait blocks until a call is admitted or ctx is done.
// It sleeps until the oldest call leaves the window instead of polling.
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	for {
		d, err := r.Reserve(ctx, cfg)
		if err != nil {
			return err
		}
		if d.Allowed {
			return nil
		}

		wait := d.RetryAfter
		if wait <= 0 {
			wait = 100 * time.Millisecond
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RateLimiter) key(cfg RateLimitConfig) string {
	return fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
}

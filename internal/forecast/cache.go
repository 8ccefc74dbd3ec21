package forecast

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/metrics"
)

// ComputeFunc 캐시 미스 시 번들 생성
type ComputeFunc func(ctx context.Context) (*contracts.ForecastBundle, error)

// CacheStats 캐시 시점 스냅샷
type CacheStats struct {
	Entries      int      `json:"entries"`
	Hits         int64    `json:"hits"`
	Misses       int64    `json:"misses"`
	Computations int64    `json:"computations"`
	Symbols      []string `json:"symbols"`
}

// Cache 프로세스 수명 동안 종목당 번들 하나 보관.
// ⭐ SSOT: 프로세스 내 예측 결과는 여기서만 보관
//
// 키는 종목뿐: steps 가 달라도 저장된 번들을 반환한다. 종목당 계산은
// 최대 하나만 진행되고 동시 호출자는 모두 같은 번들을 받는다.
// 실패는 저장하지 않는다. 만료나 TTL 은 없다.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*contracts.ForecastBundle
	flight  singleflight.Group

	hits         atomic.Int64
	misses       atomic.Int64
	computations atomic.Int64

	metrics *metrics.Recorder
	log     zerolog.Logger
}

// NewCache 빈 캐시 생성
func NewCache(rec *metrics.Recorder, log zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*contracts.ForecastBundle),
		metrics: rec,
		log:     log.With().Str("component", "forecast.cache").Logger(),
	}
}

// Get symbol 의 저장된 번들 조회
func (c *Cache) Get(symbol string) (*contracts.ForecastBundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[symbol]
	return b, ok
}

// GetOrCompute 캐시된 번들 반환, 없으면 symbol 당 한 번만 compute 실행.
// ctx 가 끝난 호출자는 대기를 멈추지만 계산은 다른 대기자를 위해
// 계속되고 성공하면 저장된다.
func (c *Cache) GetOrCompute(ctx context.Context, symbol string, steps int, compute ComputeFunc) (*contracts.ForecastBundle, error) {
	if b, ok := c.Get(symbol); ok {
		c.hit(symbol, steps, b)
		return b, nil
	}

	c.misses.Add(1)
	c.metrics.CacheMiss()

	ch := c.flight.DoChan(symbol, func() (interface{}, error) {
		// Another flight may have stored it between our Get and DoChan
		if b, ok := c.Get(symbol); ok {
			return b, nil
		}

		c.computations.Add(1)
		// Detached: one caller leaving must not fail the others
		b, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[symbol] = b
		n := len(c.entries)
		c.mu.Unlock()

		c.metrics.SetCacheEntries(n)
		c.log.Info().
			Str("symbol", symbol).
			Int("steps", b.Steps).
			Int("entries", n).
			Msg("forecast bundle cached")
		return b, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*contracts.ForecastBundle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) hit(symbol string, steps int, b *contracts.ForecastBundle) {
	c.hits.Add(1)
	c.metrics.CacheHit()
	if steps != b.Steps {
		c.log.Debug().
			Str("symbol", symbol).
			Int("requested_steps", steps).
			Int("cached_steps", b.Steps).
			Msg("cache hit with different steps, returning cached bundle")
	}
}

// Stats 카운터와 캐시된 종목 (정렬)
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	symbols := make([]string, 0, len(c.entries))
	for s := range c.entries {
		symbols = append(symbols, s)
	}
	c.mu.RUnlock()
	sort.Strings(symbols)

	return CacheStats{
		Entries:      len(symbols),
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Computations: c.computations.Load(),
		Symbols:      symbols,
	}
}

package sentiment

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/metrics"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/redis"
)

// Thresholds 평균 극성을 라벨로 나눔: score > Positive 는 POSITIVE,
// score < Negative 는 NEGATIVE, 나머지는 NEUTRAL.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds 기본 임계값 ±0.1
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.1, Negative: -0.1}
}

// Label score 분류
func (t Thresholds) Label(score float64) contracts.SentimentLabel {
	switch {
	case score > t.Positive:
		return contracts.SentimentPositive
	case score < t.Negative:
		return contracts.SentimentNegative
	default:
		return contracts.SentimentNeutral
	}
}

// Options Provider 설정
type Options struct {
	Thresholds Thresholds
	Keywords   map[string]string // clean symbol → news query (company name)
	CacheTTL   time.Duration
}

// Provider 뉴스 기반 contracts.SentimentProvider 구현
// ⭐ SSOT: 종목 감성 판정은 여기서만
type Provider struct {
	news    NewsSearcher
	scorer  *Scorer
	cache   *redis.Cache
	opts    Options
	metrics *metrics.Recorder
	log     zerolog.Logger
}

// NewProvider 제공자 생성 (cache 는 비활성 클라이언트를 감쌀 수 있음)
func NewProvider(news NewsSearcher, scorer *Scorer, cache *redis.Cache, opts Options, rec *metrics.Recorder, log zerolog.Logger) *Provider {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = redis.TTLMedium
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	return &Provider{
		news:    news,
		scorer:  scorer,
		cache:   cache,
		opts:    opts,
		metrics: rec,
		log:     log.With().Str("component", "sentiment.provider").Logger(),
	}
}

// Keyword symbol 의 뉴스 검색어: 마지막 '_' 뒤 부분에 설정된 회사명,
// 없으면 그 부분 그대로.
func (p *Provider) Keyword(symbol string) string {
	clean := strings.ToUpper(symbol[strings.LastIndex(symbol, "_")+1:])
	if name, ok := p.opts.Keywords[clean]; ok && name != "" {
		return name
	}
	return clean
}

// Verdict contracts.SentimentProvider 구현. 실패하지 않음: 키 없음,
// 업스트림 에러, 빈 결과는 모두 중립 판정.
func (p *Provider) Verdict(ctx context.Context, symbol string) contracts.SentimentVerdict {
	key := redis.SentimentKey(symbol)
	if p.cache != nil {
		var cached contracts.SentimentVerdict
		if found, err := p.cache.Get(ctx, key, &cached); err == nil && found {
			p.metrics.SentimentVerdict("cache")
			return cached
		} else if err != nil {
			p.log.Warn().Err(err).Str("symbol", symbol).Msg("sentiment cache read failed")
		}
	}

	keyword := p.Keyword(symbol)
	items, err := p.news.Search(ctx, keyword)
	if err != nil {
		p.metrics.SentimentVerdict("fallback")
		p.log.Warn().Err(err).Str("symbol", symbol).Str("keyword", keyword).Msg("news unavailable, neutral verdict")
		v := contracts.NeutralVerdict(symbol)
		v.Keyword = keyword
		return v
	}

	v := p.score(symbol, keyword, items)
	p.metrics.SentimentVerdict("news")

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, v, p.opts.CacheTTL); err != nil {
			p.log.Warn().Err(err).Str("symbol", symbol).Msg("sentiment cache write failed")
		}
	}

	p.log.Info().
		Str("symbol", symbol).
		Str("keyword", keyword).
		Int("articles", len(items)).
		Float64("score", v.Score).
		Str("label", string(v.Label)).
		Msg("sentiment scored")
	return v
}

// score averages the polarity of title + description over every article
func (p *Provider) score(symbol, keyword string, items []contracts.NewsItem) contracts.SentimentVerdict {
	v := contracts.NeutralVerdict(symbol)
	v.Keyword = keyword
	if len(items) == 0 {
		return v
	}

	sum := 0.0
	news := make([]contracts.NewsItem, len(items))
	for i, it := range items {
		polarity := p.scorer.Score(strings.TrimSpace(it.Title + " " + it.Description))
		sum += polarity
		it.Polarity = round3(polarity)
		news[i] = it
	}
	avg := sum / float64(len(items))

	v.Score = round3(avg)
	v.Label = p.opts.Thresholds.Label(avg)
	v.News = news
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

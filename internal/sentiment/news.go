// Package sentiment scores recent news headlines for a symbol.
package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/breaker"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/config"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/httputil"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/redis"
)

// NewsSearcher 검색어와 일치하는 최근 기사 반환
type NewsSearcher interface {
	Search(ctx context.Context, query string) ([]contracts.NewsItem, error)
}

// ErrNoAPIKey 뉴스 API 키 미설정
var ErrNoAPIKey = errors.New("news api key not configured")

// pubDateLayout newsdata.io timestamp format (UTC)
const pubDateLayout = "2006-01-02 15:04:05"

// NewsClient newsdata.io latest-news 엔드포인트 호출
// ⭐ SSOT: 뉴스 API 호출은 이 클라이언트에서만
type NewsClient struct {
	http    *httputil.Client
	breaker *breaker.Breaker
	local   *rate.Limiter // in-process limit; nil = none
	cache   *redis.Cache  // raw results per query; nil = none
	cfg     config.NewsConfig
	log     zerolog.Logger
}

// NewNewsClient 클라이언트 생성. 공유 Redis 리미터가 httpClient 에
// 붙어 있으면 local 은 nil 가능.
func NewNewsClient(httpClient *httputil.Client, cfg config.NewsConfig, local *rate.Limiter, log zerolog.Logger) *NewsClient {
	l := log.With().Str("component", "sentiment.news").Logger()
	return &NewsClient{
		http:    httpClient,
		breaker: breaker.New(breaker.DefaultSettings("newsdata"), l),
		local:   local,
		cfg:     cfg,
		log:     l,
	}
}

// WithCache 쿼리별 원본 기사 캐시 (TTLShort)
func (c *NewsClient) WithCache(cache *redis.Cache) *NewsClient {
	c.cache = cache
	return c
}

type newsResponse struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Results      json.RawMessage `json:"results"`
}

type newsArticle struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Link        string   `json:"link"`
	SourceID    string   `json:"source_id"`
	PubDate     string   `json:"pubDate"`
	Keywords    []string `json:"keywords"`
}

type newsError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Search NewsSearcher 구현. 전송, 상태 코드, 디코딩 실패는
// ErrUpstreamUnavailable 로 감쌈. 실패는 캐시하지 않음.
func (c *NewsClient) Search(ctx context.Context, query string) ([]contracts.NewsItem, error) {
	if c.cache == nil {
		return c.fetch(ctx, query)
	}

	var items []contracts.NewsItem
	err := c.cache.GetOrSet(ctx, redis.NewsKey(query), &items, redis.TTLShort, func() (interface{}, error) {
		return c.fetch(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []contracts.NewsItem{}
	}
	return items, nil
}

// fetch 뉴스 API 한 번 호출 (한도 대기 → circuit breaker → 디코딩)
func (c *NewsClient) fetch(ctx context.Context, query string) ([]contracts.NewsItem, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %w", contracts.ErrUpstreamUnavailable, ErrNoAPIKey)
	}
	if c.local != nil {
		if err := c.local.Wait(ctx); err != nil {
			return nil, fmt.Errorf("news rate limit: %w", err)
		}
	}

	params := url.Values{}
	params.Set("apikey", c.cfg.APIKey)
	params.Set("q", query)
	if c.cfg.Language != "" {
		params.Set("language", c.cfg.Language)
	}
	if c.cfg.Country != "" {
		params.Set("country", c.cfg.Country)
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/news?" + params.Encode()

	v, err := c.breaker.Execute(func() (any, error) {
		var resp newsResponse
		if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("news search %q: %v: %w", query, err, contracts.ErrUpstreamUnavailable)
	}
	resp := v.(*newsResponse)

	if resp.Status != "success" {
		var ne newsError
		_ = json.Unmarshal(resp.Results, &ne)
		return nil, fmt.Errorf("news search %q: status %q %s: %w", query, resp.Status, ne.Message, contracts.ErrUpstreamUnavailable)
	}

	var articles []newsArticle
	if len(resp.Results) > 0 && string(resp.Results) != "null" {
		if err := json.Unmarshal(resp.Results, &articles); err != nil {
			return nil, fmt.Errorf("news search %q: decode results: %v: %w", query, err, contracts.ErrUpstreamUnavailable)
		}
	}

	items := make([]contracts.NewsItem, 0, len(articles))
	for _, a := range articles {
		item := contracts.NewsItem{
			Title:  plainText(a.Title),
			Link:   a.Link,
			Source: a.SourceID,
		}
		if a.Description != nil {
			item.Description = plainText(*a.Description)
		}
		if t, err := time.Parse(pubDateLayout, a.PubDate); err == nil {
			item.PublishedAt = t.UTC()
		}
		items = append(items, item)
	}

	c.log.Debug().
		Str("query", query).
		Int("articles", len(items)).
		Int("total", resp.TotalResults).
		Msg("news fetched")
	return items, nil
}

// plainText strips markup from feed text and collapses whitespace
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

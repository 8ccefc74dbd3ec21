package contracts

import (
	"strings"
	"time"
)

// SentimentLabel 뉴스 감성 라벨
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// ParseSentimentLabel 알 수 없거나 빈 라벨은 NEUTRAL
func ParseSentimentLabel(s string) SentimentLabel {
	switch SentimentLabel(strings.ToUpper(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// NewsItem 점수가 매겨진 헤드라인 하나
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Link        string    `json:"link,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Polarity    float64   `json:"polarity"`
}

// SentimentVerdict 한 종목에 대한 감성 판정
type SentimentVerdict struct {
	Symbol  string         `json:"symbol"`
	Keyword string         `json:"keyword,omitempty"`
	Score   float64        `json:"score"`
	Label   SentimentLabel `json:"label"`
	News    []NewsItem     `json:"news"`
}

// NeutralVerdict 감성을 판단할 수 없을 때 반환
func NeutralVerdict(symbol string) SentimentVerdict {
	return SentimentVerdict{
		Symbol: symbol,
		Score:  0.0,
		Label:  SentimentNeutral,
		News:   []NewsItem{},
	}
}

// HeadlineSentiment 한 종목의 헤드라인 평균 감성
type HeadlineSentiment struct {
	Symbol        string         `json:"symbol"`
	HeadlineCount int            `json:"headline_count"`
	AvgSentiment  float64        `json:"avg_sentiment"`
	Label         SentimentLabel `json:"sentiment_label"`
	Headlines     []string       `json:"headlines,omitempty"` // 최대 10개
}

// HeadlineReport 헤드라인 CSV 전체 분석 결과 (종목 오름차순)
type HeadlineReport struct {
	AnalysisType string              `json:"analysis_type"`
	Results      []HeadlineSentiment `json:"results"`
	TotalSymbols int                 `json:"total_symbols"`
}

package decision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
	"github.com/Keshavmittal8178/data-science-in-financial-market/pkg/metrics"
)

// DefaultHistoryDays 판단에 싣는 최근 가격 수
const DefaultHistoryDays = 800

// Service 예측 엔진, 감성 제공자, 가격 이력으로 판단 생성
type Service struct {
	forecaster  contracts.Forecaster
	sentiment   contracts.SentimentProvider
	prices      contracts.PriceProvider
	historyDays int
	metrics     *metrics.Recorder
	log         zerolog.Logger
}

// NewService 판단 서비스 생성 (historyDays <= 0 이면 DefaultHistoryDays)
func NewService(
	forecaster contracts.Forecaster,
	sentiment contracts.SentimentProvider,
	prices contracts.PriceProvider,
	historyDays int,
	rec *metrics.Recorder,
	log zerolog.Logger,
) *Service {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Service{
		forecaster:  forecaster,
		sentiment:   sentiment,
		prices:      prices,
		historyDays: historyDays,
		metrics:     rec,
		log:         log.With().Str("component", "decision.service").Logger(),
	}
}

// Decide symbol 의 신호 반환.
// 추세 방향 없는 번들은 ErrNoForecast, 감성은 실패하지 않음.
func (s *Service) Decide(ctx context.Context, symbol string) (*contracts.Decision, error) {
	bundle, err := s.forecaster.Forecast(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	if !bundle.HasDirection() {
		return nil, fmt.Errorf("%s: trend model failed, no direction: %w", symbol, contracts.ErrNoForecast)
	}
	direction := *bundle.Direction

	verdict := s.sentiment.Verdict(ctx, symbol)
	label := contracts.ParseSentimentLabel(string(verdict.Label))

	history, err := s.history(ctx, symbol)
	if err != nil {
		return nil, err
	}

	signal := Fuse(direction, label)
	s.metrics.Decision(string(signal))

	s.log.Info().
		Str("symbol", symbol).
		Str("direction", string(direction)).
		Str("sentiment", string(label)).
		Float64("score", verdict.Score).
		Str("signal", string(signal)).
		Msg("decision made")

	news := verdict.News
	if news == nil {
		news = []contracts.NewsItem{}
	}

	return &contracts.Decision{
		Symbol:         symbol,
		Signal:         signal,
		Direction:      direction,
		SentimentLabel: label,
		SentimentScore: verdict.Score,
		News:           news,
		Forecast:       bundle,
		History:        history,
	}, nil
}

// history is the trailing historyDays of the cleaned series
func (s *Service) history(ctx context.Context, symbol string) ([]contracts.PricePoint, error) {
	raw, err := s.prices.Series(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: load history: %w", symbol, err)
	}
	clean, err := series.Normalize(symbol, raw.Points)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("history unavailable")
		return []contracts.PricePoint{}, nil
	}
	return clean.Tail(s.historyDays), nil
}

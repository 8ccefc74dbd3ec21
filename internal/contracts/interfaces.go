package contracts

import "context"

// PriceProvider 날짜 정렬, 결측 보간된 가격 데이터 제공
// ⭐ SSOT: 가격 데이터 제공 인터페이스 (CSV / PostgreSQL)
type PriceProvider interface {
	// Series returns the stored history for symbol or ErrSymbolNotFound
	Series(ctx context.Context, symbol string) (PriceSeries, error)
	// Table returns the full wide table
	Table(ctx context.Context) (*PriceTable, error)
}

// SentimentProvider 종목별 감성 판정 제공.
// 에러 경로 없음: 실패 시 NeutralVerdict 반환.
type SentimentProvider interface {
	Verdict(ctx context.Context, symbol string) SentimentVerdict
}

// Forecaster (캐시될 수 있는) 예측 번들 생성
// ⭐ SSOT: 예측 엔진 인터페이스
type Forecaster interface {
	Forecast(ctx context.Context, symbol string, steps int) (*ForecastBundle, error)
}

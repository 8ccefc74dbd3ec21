package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// 예측 파이프라인과 경계 계층이 공유하는 에러 분류.
// fmt.Errorf("...: %w", Err...) 로 감싸고 errors.Is 로 판별.
var (
	// ErrDataInsufficient fewer than 2 valid prices or an empty return series
	ErrDataInsufficient = errors.New("insufficient data")

	// ErrModelFit order search or parameter fit did not converge / numerical failure
	ErrModelFit = errors.New("model fit failed")

	// ErrUpstreamUnavailable external collaborator unreachable or malformed response
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrSymbolNotFound the symbol has no price column
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoForecast no usable forecast for a known symbol
	ErrNoForecast = errors.New("no forecast")
)

// HeadlineFormatError 헤드라인 CSV 에 symbol / headline 컬럼이 없음
type HeadlineFormatError struct {
	Columns []string // 실제 헤더
}

func (e *HeadlineFormatError) Error() string {
	return fmt.Sprintf("headline csv must have 'symbol' and 'headline' columns, got [%s]", strings.Join(e.Columns, ", "))
}

package marketdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// Resolve 사용자 입력 종목의 저장 컬럼 찾기:
// 정확히 일치, 대소문자 무시, 구분자 제거 후 포함 또는 접미사,
// 마지막으로 원문 접미사 일치 ("ASIANPAINT" → "CDUR_ASIANPAINT").
func Resolve(symbol string, columns []string) (string, bool) {
	if symbol == "" {
		return "", false
	}
	for _, c := range columns {
		if c == symbol {
			return c, true
		}
	}

	upper := strings.ToUpper(symbol)
	for _, c := range columns {
		if strings.ToUpper(c) == upper {
			return c, true
		}
	}

	clean := stripSeparators(symbol)
	if clean != "" {
		for _, c := range columns {
			cc := stripSeparators(c)
			if strings.Contains(cc, clean) || strings.HasSuffix(cc, clean) {
				return c, true
			}
		}
	}

	for _, c := range columns {
		if strings.HasSuffix(c, symbol) || strings.HasSuffix(c, "_"+symbol) || strings.HasSuffix(c, "-"+symbol) {
			return c, true
		}
	}
	return "", false
}

// ResolveSymbol 제공자의 현재 컬럼으로 symbol 해석
func ResolveSymbol(ctx context.Context, p contracts.PriceProvider, symbol string) (string, error) {
	t, err := p.Table(ctx)
	if err != nil {
		return "", err
	}
	col, ok := Resolve(symbol, t.Symbols)
	if !ok {
		return "", fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
	}
	return col, nil
}

// DisplayName 마지막 '_' 뒤, 그다음 마지막 '-' 뒤 부분
func DisplayName(symbol string) string {
	s := symbol[strings.LastIndex(symbol, "_")+1:]
	return s[strings.LastIndex(s, "-")+1:]
}

func stripSeparators(s string) string {
	return strings.ToUpper(strings.NewReplacer("_", "", "-", "").Replace(s))
}

package analytics

import (
	"context"
	"errors"
	"sort"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// MoversLimit 상승/하락 상위 목록 길이
const MoversLimit = 10

// Move 한 종목의 마지막 행 변화
type Move struct {
	Symbol    string  `json:"symbol"`
	LTP       float64 `json:"ltp"`
	PctChange float64 `json:"pct_change"`
}

// Movers 마지막 행 기준 상승/하락 상위 종목
type Movers struct {
	Date    string `json:"date,omitempty"`
	Gainers []Move `json:"gainers"`
	Losers  []Move `json:"losers"`
}

// MostBought "가장 많이 산" 종목 대용: 상승 1위
type MostBought struct {
	Date      string  `json:"date,omitempty"`
	Symbol    string  `json:"symbol"`
	LTP       float64 `json:"ltp"`
	PctChange float64 `json:"pct_change"`
}

// moves is every symbol's last-row change, skipping missing or zero bases
func moves(t *contracts.PriceTable) []Move {
	out := make([]Move, 0, len(t.Symbols))
	for _, sym := range t.Symbols {
		last, prev := lastTwo(t.Columns[sym])
		if !finite(last) || !finite(prev) || prev == 0 {
			continue
		}
		out = append(out, Move{Symbol: sym, LTP: last, PctChange: round2(pctChange(last, prev))})
	}
	return out
}

// Movers 상승/하락 상위 MoversLimit 개 (빈 테이블은 빈 목록)
func (s *Service) Movers(ctx context.Context) (*Movers, error) {
	t, err := s.table(ctx)
	if errors.Is(err, contracts.ErrDataInsufficient) {
		return &Movers{Gainers: []Move{}, Losers: []Move{}}, nil
	}
	if err != nil {
		return nil, err
	}

	all := moves(t)
	gainers := append([]Move(nil), all...)
	sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].PctChange > gainers[j].PctChange })
	losers := append([]Move(nil), all...)
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].PctChange < losers[j].PctChange })

	return &Movers{
		Date:    lastDate(t),
		Gainers: head(gainers, MoversLimit),
		Losers:  head(losers, MoversLimit),
	}, nil
}

// MostBought 상승 1위 종목, 없으면 nil
func (s *Service) MostBought(ctx context.Context) (*MostBought, error) {
	t, err := s.table(ctx)
	if errors.Is(err, contracts.ErrDataInsufficient) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	all := moves(t)
	if len(all) == 0 {
		return nil, nil
	}
	best := all[0]
	for _, m := range all[1:] {
		if m.PctChange > best.PctChange {
			best = m
		}
	}
	return &MostBought{Date: lastDate(t), Symbol: best.Symbol, LTP: best.LTP, PctChange: best.PctChange}, nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	if s == nil {
		return []T{}
	}
	return s
}

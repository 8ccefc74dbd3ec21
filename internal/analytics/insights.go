package analytics

import (
	"context"
	"sort"
	"strings"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// 모멘텀 윈도우와 목록 길이
const (
	MomentumShortDays = 5
	MomentumLongDays  = 20
	MomentumLimit     = 10
	OtherSector       = "OTHER"
)

// Breadth 마지막 행의 상승/하락 종목 수.
// 하락 종목이 없으면 AdvDeclRatio 는 nil.
type Breadth struct {
	Advancers    int      `json:"advancers"`
	Decliners    int      `json:"decliners"`
	Unchanged    int      `json:"unchanged"`
	AdvDeclRatio *float64 `json:"adv_decl_ratio"`
}

// SectorStat 종목 접두어별 등락 집계
type SectorStat struct {
	Sector    string  `json:"sector"`
	Advancers int     `json:"advancers"`
	Decliners int     `json:"decliners"`
	Unchanged int     `json:"unchanged"`
	AvgMove   float64 `json:"avg_move"`
}

// MomentumRow 점수 = 2·pct5d + pct20d
type MomentumRow struct {
	Symbol        string  `json:"symbol"`
	Pct5D         float64 `json:"pct_5d"`
	Pct20D        float64 `json:"pct_20d"`
	MomentumScore float64 `json:"momentum_score"`
}

// Insights 시장 인사이트 응답
type Insights struct {
	Date     string        `json:"date"`
	Breadth  Breadth       `json:"breadth"`
	Sectors  []SectorStat  `json:"sectors"`
	Momentum []MomentumRow `json:"momentum"`
}

// SectorOf 첫 '_' 앞부분, 없으면 OTHER
func SectorOf(symbol string) string {
	if i := strings.Index(symbol, "_"); i >= 0 {
		return symbol[:i]
	}
	return OtherSector
}

// Insights 등락, 섹터 변화, 모멘텀 상위 종목 계산
func (s *Service) Insights(ctx context.Context) (*Insights, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	out := &Insights{Date: lastDate(t)}

	type acc struct {
		SectorStat
		sum   float64
		count int
	}
	sectors := make(map[string]*acc)
	var order []string

	for _, sym := range t.Symbols {
		last, prev := lastTwo(t.Columns[sym])
		if !finite(last) || !finite(prev) {
			continue
		}
		change := last - prev
		pct := 0.0
		if prev != 0 {
			pct = change / prev * 100
		}

		switch {
		case change > 0:
			out.Breadth.Advancers++
		case change < 0:
			out.Breadth.Decliners++
		default:
			out.Breadth.Unchanged++
		}

		name := SectorOf(sym)
		a, ok := sectors[name]
		if !ok {
			a = &acc{SectorStat: SectorStat{Sector: name}}
			sectors[name] = a
			order = append(order, name)
		}
		switch {
		case pct > 0:
			a.Advancers++
		case pct < 0:
			a.Decliners++
		default:
			a.Unchanged++
		}
		a.sum += pct
		a.count++
	}

	if out.Breadth.Decliners != 0 {
		r := float64(out.Breadth.Advancers) / float64(out.Breadth.Decliners)
		out.Breadth.AdvDeclRatio = &r
	}

	out.Sectors = make([]SectorStat, 0, len(order))
	for _, name := range order {
		a := sectors[name]
		a.AvgMove = round2(a.sum / float64(a.count))
		out.Sectors = append(out.Sectors, a.SectorStat)
	}

	out.Momentum = momentum(t)
	return out, nil
}

func momentum(t *contracts.PriceTable) []MomentumRow {
	rows := make([]MomentumRow, 0, len(t.Symbols))
	for _, sym := range t.Symbols {
		col := prices(t, sym)
		p5, ok5 := pctOver(col, MomentumShortDays)
		p20, ok20 := pctOver(col, MomentumLongDays)
		if !ok5 || !ok20 {
			continue
		}
		rows = append(rows, MomentumRow{
			Symbol:        sym,
			Pct5D:         round2(p5),
			Pct20D:        round2(p20),
			MomentumScore: round2(2*p5 + p20),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MomentumScore > rows[j].MomentumScore })
	return head(rows, MomentumLimit)
}

// pctOver is the percent change across the last `days` observations
func pctOver(prices []float64, days int) (float64, bool) {
	if len(prices) <= days {
		return 0, false
	}
	latest := prices[len(prices)-1]
	past := prices[len(prices)-1-days]
	if past == 0 {
		return 0, false
	}
	return (latest - past) / past * 100, true
}

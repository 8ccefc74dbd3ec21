// Package marketdata loads the wide date x symbol price table and serves it
// as a contracts.PriceProvider, from a CSV file or from PostgreSQL.
package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
)

// DateColumn 날짜 컬럼의 필수 헤더
const DateColumn = "Date"

// ErrNoDateColumn 헤더에 Date 컬럼이 없음
var ErrNoDateColumn = errors.New("csv header has no Date column")

// dateLayouts accepted for the Date column, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseDate 허용된 형식 중 하나로 Date 셀 파싱
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return series.CalendarDay(t), true
		}
	}
	return time.Time{}, false
}

type row struct {
	date   time.Time
	prices []float64
}

// LoadWideCSV "Date,SYM1,SYM2,..." 행을 PriceTable 로 읽음.
// 날짜를 파싱할 수 없거나 가격이 하나도 없는 행은 버리고, 날짜순 정렬 후
// 컬럼마다 앞으로 채우고 뒤로 채움.
func LoadWideCSV(r io.Reader) (*contracts.PriceTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoDateColumn
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx := -1
	var symbols []string
	var symbolIdx []int
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == DateColumn && dateIdx < 0 {
			dateIdx = i
			continue
		}
		if h == "" {
			continue
		}
		symbols = append(symbols, h)
		symbolIdx = append(symbolIdx, i)
	}
	if dateIdx < 0 {
		return nil, ErrNoDateColumn
	}

	var rows []row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if dateIdx >= len(rec) {
			continue
		}
		date, ok := ParseDate(rec[dateIdx])
		if !ok {
			continue
		}

		prices := make([]float64, len(symbols))
		hasPrice := false
		for j, idx := range symbolIdx {
			prices[j] = math.NaN()
			if idx >= len(rec) {
				continue
			}
			if v, ok := parsePrice(rec[idx]); ok {
				prices[j] = v
				hasPrice = true
			}
		}
		if !hasPrice {
			continue
		}
		rows = append(rows, row{date: date, prices: prices})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date.Before(rows[j].date)
	})

	t := &contracts.PriceTable{
		Dates:   make([]time.Time, len(rows)),
		Symbols: symbols,
		Columns: make(map[string][]float64, len(symbols)),
	}
	for i, r := range rows {
		t.Dates[i] = r.date
	}
	for j, sym := range symbols {
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = r.prices[j]
		}
		series.FillColumn(col)
		t.Columns[sym] = col
	}
	return t, nil
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

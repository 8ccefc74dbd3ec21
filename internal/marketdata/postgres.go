package marketdata

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/series"
)

// PostgresStore data.daily_prices 에서 종가 조회
// ⭐ SSOT: DB 가격 조회는 여기서만
type PostgresStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgresStore pool 위의 저장소 생성
func NewPostgresStore(pool *pgxpool.Pool, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		log:  log.With().Str("component", "marketdata.postgres").Logger(),
	}
}

// Series contracts.PriceProvider 구현
func (s *PostgresStore) Series(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	query := `
		SELECT trade_date, close_price::float8
		FROM data.daily_prices
		WHERE stock_code = $1 AND close_price IS NOT NULL
		ORDER BY trade_date ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("query prices %s: %v: %w", symbol, err, contracts.ErrUpstreamUnavailable)
	}
	defer rows.Close()

	var points []contracts.PricePoint
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Date, &p.Price); err != nil {
			return contracts.PriceSeries{}, fmt.Errorf("scan price %s: %w", symbol, err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("read prices %s: %v: %w", symbol, err, contracts.ErrUpstreamUnavailable)
	}

	if len(points) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
	}
	return contracts.PriceSeries{Symbol: symbol, Points: points}, nil
}

// Table 저장된 모든 종가를 피벗하여 contracts.PriceProvider 구현
func (s *PostgresStore) Table(ctx context.Context) (*contracts.PriceTable, error) {
	query := `
		SELECT stock_code, trade_date, close_price::float8
		FROM data.daily_prices
		WHERE close_price IS NOT NULL
		ORDER BY trade_date ASC, stock_code ASC
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query price table: %v: %w", err, contracts.ErrUpstreamUnavailable)
	}
	defer rows.Close()

	var cells []cell
	for rows.Next() {
		var c cell
		if err := rows.Scan(&c.symbol, &c.date, &c.price); err != nil {
			return nil, fmt.Errorf("scan price table: %w", err)
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read price table: %v: %w", err, contracts.ErrUpstreamUnavailable)
	}

	t := pivot(cells)
	s.log.Debug().
		Int("rows", t.Len()).
		Int("symbols", len(t.Symbols)).
		Dur("duration", time.Since(start)).
		Msg("price table loaded")
	return t, nil
}

// cell is one (symbol, date, close) row
type cell struct {
	symbol string
	date   time.Time
	price  float64
}

// pivot builds the wide table: dates ascending, symbols sorted, gaps filled
func pivot(cells []cell) *contracts.PriceTable {
	dateIdx := make(map[time.Time]int)
	symSet := make(map[string]struct{})
	var dates []time.Time
	for _, c := range cells {
		d := series.CalendarDay(c.date)
		if _, ok := dateIdx[d]; !ok {
			dateIdx[d] = len(dates)
			dates = append(dates, d)
		}
		symSet[c.symbol] = struct{}{}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for i, d := range dates {
		dateIdx[d] = i
	}

	symbols := make([]string, 0, len(symSet))
	for s := range symSet {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	t := &contracts.PriceTable{
		Dates:   dates,
		Symbols: symbols,
		Columns: make(map[string][]float64, len(symbols)),
	}
	for _, s := range symbols {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		t.Columns[s] = col
	}
	for _, c := range cells {
		t.Columns[c.symbol][dateIdx[series.CalendarDay(c.date)]] = c.price
	}
	for _, col := range t.Columns {
		series.FillColumn(col)
	}
	return t
}

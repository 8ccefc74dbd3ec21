package marketdata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// CSVStore 와이드 CSV 파일 제공, 수정 시각이 바뀌면 다시 읽음.
// 파일이 없으면 빈 테이블.
type CSVStore struct {
	path string
	log  zerolog.Logger

	mu      sync.Mutex
	table   *contracts.PriceTable
	modTime time.Time
	loaded  bool
}

// NewCSVStore path 저장소 생성 (파일은 지연 로딩)
func NewCSVStore(path string, log zerolog.Logger) *CSVStore {
	return &CSVStore{
		path: path,
		log:  log.With().Str("component", "marketdata.csv").Logger(),
	}
}

// Table contracts.PriceProvider 구현
func (s *CSVStore) Table(ctx context.Context) (*contracts.PriceTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if !s.loaded || s.table.Len() > 0 {
			s.log.Warn().Str("path", s.path).Msg("price file not found, serving empty table")
		}
		s.table, s.modTime, s.loaded = emptyTable(), time.Time{}, true
		return s.table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %v: %w", s.path, err, contracts.ErrUpstreamUnavailable)
	}

	if s.loaded && info.ModTime().Equal(s.modTime) {
		return s.table, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", s.path, err, contracts.ErrUpstreamUnavailable)
	}
	defer f.Close()

	start := time.Now()
	t, err := LoadWideCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	s.table, s.modTime, s.loaded = t, info.ModTime(), true
	s.log.Info().
		Str("path", s.path).
		Int("rows", t.Len()).
		Int("symbols", len(t.Symbols)).
		Dur("duration", time.Since(start)).
		Msg("price table loaded")
	return t, nil
}

// Series contracts.PriceProvider 구현
func (s *CSVStore) Series(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return contracts.PriceSeries{}, err
	}
	ps, ok := t.Series(symbol)
	if !ok {
		return contracts.PriceSeries{}, fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
	}
	return ps, nil
}

func emptyTable() *contracts.PriceTable {
	return &contracts.PriceTable{Columns: map[string][]float64{}}
}

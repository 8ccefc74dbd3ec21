package sentiment

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// HeadlineAnalysisType 헤드라인 리포트의 analysis_type
const HeadlineAnalysisType = "VADER"

// maxHeadlines 응답에 싣는 헤드라인 수, 종목별 점수 계산에 쓰는 헤드라인 수
const maxHeadlines = 10

// ErrNoHeadlines 해당 종목과 일치하는 헤드라인이 없음
var ErrNoHeadlines = fmt.Errorf("no headlines for symbol: %w", contracts.ErrDataInsufficient)

// HeadlineAnalyzer symbol,headline CSV 샘플을 종목별로 점수화
// ⭐ SSOT: 헤드라인 CSV 읽기는 여기서만
type HeadlineAnalyzer struct {
	path   string
	scorer *Scorer
	th     Thresholds
	log    zerolog.Logger
}

// NewHeadlineAnalyzer 분석기 생성 (임계값이 0 이면 ±0.1)
func NewHeadlineAnalyzer(path string, scorer *Scorer, th Thresholds, log zerolog.Logger) *HeadlineAnalyzer {
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}
	return &HeadlineAnalyzer{
		path:   path,
		scorer: scorer,
		th:     th,
		log:    log.With().Str("component", "sentiment.headlines").Logger(),
	}
}

type headlineRow struct {
	symbol   string
	headline string
}

// Analyze 종목별 평균 감성 (종목 오름차순, 빈 헤드라인 제외).
// 파일이 없거나 비었거나 유효한 헤드라인이 없으면 ErrDataInsufficient,
// 컬럼이 없으면 *contracts.HeadlineFormatError.
func (a *HeadlineAnalyzer) Analyze(ctx context.Context) (*contracts.HeadlineReport, error) {
	rows, err := a.load()
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]string)
	for _, r := range rows {
		if r.symbol == "" || r.headline == "" {
			continue
		}
		groups[r.symbol] = append(groups[r.symbol], r.headline)
	}

	symbols := make([]string, 0, len(groups))
	for s := range groups {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	results := make([]contracts.HeadlineSentiment, 0, len(symbols))
	for _, s := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		headlines := groups[s]
		avg := a.mean(headlines)
		results = append(results, contracts.HeadlineSentiment{
			Symbol:        s,
			HeadlineCount: len(headlines),
			AvgSentiment:  round3(avg),
			Label:         a.th.Label(avg),
			Headlines:     head(headlines, maxHeadlines),
		})
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%s: all headlines empty: %w", a.path, contracts.ErrDataInsufficient)
	}

	a.log.Debug().Int("symbols", len(results)).Int("rows", len(rows)).Msg("headlines scored")
	return &contracts.HeadlineReport{
		AnalysisType: HeadlineAnalysisType,
		Results:      results,
		TotalSymbols: len(results),
	}, nil
}

// ForSymbol 첫 번째로 일치하는 변형의 헤드라인 감성.
// 변형 순서: symbol, '_' 제거 대문자, variants. CSV symbol 이 변형을 포함하면
// 일치 (대소문자 무시). 점수는 앞 10개 헤드라인 평균, HeadlineCount 는 전체 수.
func (a *HeadlineAnalyzer) ForSymbol(ctx context.Context, symbol string, variants ...string) (*contracts.HeadlineSentiment, error) {
	rows, err := a.load()
	if err != nil {
		return nil, err
	}

	candidates := append([]string{symbol, strings.ToUpper(strings.ReplaceAll(symbol, "_", ""))}, variants...)
	for _, v := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		needle := strings.ToLower(strings.TrimSpace(v))
		if needle == "" {
			continue
		}

		var headlines []string
		for _, r := range rows {
			if r.headline != "" && strings.Contains(strings.ToLower(r.symbol), needle) {
				headlines = append(headlines, r.headline)
			}
		}
		if len(headlines) == 0 {
			continue
		}

		avg := a.mean(head(headlines, maxHeadlines))
		return &contracts.HeadlineSentiment{
			Symbol:        symbol,
			HeadlineCount: len(headlines),
			AvgSentiment:  round3(avg),
			Label:         a.th.Label(avg),
		}, nil
	}
	return nil, fmt.Errorf("%s: %w", symbol, ErrNoHeadlines)
}

func (a *HeadlineAnalyzer) mean(headlines []string) float64 {
	if len(headlines) == 0 {
		return 0
	}
	sum := 0.0
	for _, h := range headlines {
		sum += a.scorer.Score(h)
	}
	return sum / float64(len(headlines))
}

// load reads every data row; short rows are skipped
func (a *HeadlineAnalyzer) load() ([]headlineRow, error) {
	f, err := os.Open(a.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", a.path, contracts.ErrDataInsufficient)
	}
	if err != nil {
		return nil, fmt.Errorf("open headlines: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file: %w", a.path, contracts.ErrDataInsufficient)
	}
	if err != nil {
		return nil, fmt.Errorf("read headlines header: %w", err)
	}

	symCol, headCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "symbol":
			symCol = i
		case "headline":
			headCol = i
		}
	}

	var rows []headlineRow
	n := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read headlines: %w", err)
		}
		n++
		if symCol < 0 || headCol < 0 || symCol >= len(rec) || headCol >= len(rec) {
			continue
		}
		rows = append(rows, headlineRow{
			symbol:   strings.TrimSpace(rec[symCol]),
			headline: strings.TrimSpace(rec[headCol]),
		})
	}

	if n == 0 {
		return nil, fmt.Errorf("%s: no rows: %w", a.path, contracts.ErrDataInsufficient)
	}
	if symCol < 0 || headCol < 0 {
		return nil, &contracts.HeadlineFormatError{Columns: header}
	}
	return rows, nil
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

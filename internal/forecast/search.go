package forecast

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

// OrderSearcher 수익률 시계열의 모델 차수 선택.
// 구현체는 ctx 를 따른다: ctx 가 끝나면 에러 대신 지금까지 최선의 차수
// (없으면 백색잡음 기본값) 를 반환.
type OrderSearcher interface {
	Search(ctx context.Context, returns contracts.ReturnSeries) (Order, error)
}

// SearchConfig 후보 공간 한도
type SearchConfig struct {
	MaxP     int
	MaxQ     int
	MaxSP    int // seasonal P
	MaxSQ    int // seasonal Q
	MaxOrder int // p+q+P+Q bound, 0 = unbounded
	MaxD     int
	MaxSteps int // stepwise only

	// Period > 1 enables seasonal terms
	Period int

	Criterion Criterion
	Fit       FitOptions
}

// DefaultSearchConfig 비계절 기본값
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxP:      5,
		MaxQ:      5,
		MaxSP:     2,
		MaxSQ:     2,
		MaxOrder:  5,
		MaxD:      2,
		MaxSteps:  100,
		Criterion: CriterionAIC,
		Fit:       DefaultFitOptions(),
	}
}

// DefaultSeasonalSearchConfig 계절 기본값 (주기 12)
func DefaultSeasonalSearchConfig() SearchConfig {
	cfg := DefaultSearchConfig()
	cfg.Period = 12
	return cfg
}

// candidate is one evaluated order
type candidate struct {
	order Order
	ic    float64
}

// searchState carries what both strategies share: the fixed differencing order,
// whether seasonal terms and the constant are admissible, and the fits done so far.
type searchState struct {
	cfg      SearchConfig
	y        []float64
	d        int
	seasonal bool
	constOK  bool
	visited  map[Order]float64
	best     *candidate
	fits     int
	log      zerolog.Logger
}

func newSearchState(cfg SearchConfig, y []float64, log zerolog.Logger) *searchState {
	s := &searchState{
		cfg:     cfg,
		y:       y,
		d:       NDiffs(y, cfg.MaxD),
		visited: make(map[Order]float64),
		log:     log,
	}
	// 계절 항은 최소 3주기 이상의 데이터가 있을 때만
	s.seasonal = cfg.Period > 1 && len(y) >= 3*cfg.Period && (cfg.MaxSP > 0 || cfg.MaxSQ > 0)
	s.constOK = s.d < 2
	return s
}

// fallback is the white-noise order without constant
func (s *searchState) fallback() Order {
	return Order{D: s.d}
}

func (s *searchState) order(p, q, sp, sq int, constant bool) Order {
	o := Order{P: p, D: s.d, Q: q, Constant: constant && s.constOK}
	if s.seasonal {
		o.SP, o.SQ, o.Period = sp, sq, s.cfg.Period
	}
	return o
}

func (s *searchState) inBounds(o Order) bool {
	if o.P < 0 || o.Q < 0 || o.SP < 0 || o.SQ < 0 {
		return false
	}
	if o.P > s.cfg.MaxP || o.Q > s.cfg.MaxQ || o.SP > s.cfg.MaxSP || o.SQ > s.cfg.MaxSQ {
		return false
	}
	if s.cfg.MaxOrder > 0 && o.P+o.Q+o.SP+o.SQ > s.cfg.MaxOrder {
		return false
	}
	return true
}

// try fits o once; it reports whether o became the new best
func (s *searchState) try(o Order) bool {
	if !s.inBounds(o) {
		return false
	}
	if _, seen := s.visited[o]; seen {
		return false
	}

	s.fits++
	fit, err := FitARIMA(s.y, o, s.cfg.Fit)
	if err != nil {
		s.visited[o] = math.Inf(1)
		s.log.Debug().Err(err).Str("order", o.String()).Msg("candidate rejected")
		return false
	}

	ic := fit.Criterion(s.cfg.Criterion)
	s.visited[o] = ic
	if math.IsNaN(ic) || math.IsInf(ic, 1) {
		return false
	}
	if s.best == nil || ic < s.best.ic {
		s.best = &candidate{order: o, ic: ic}
		return true
	}
	return false
}

func (s *searchState) result() Order {
	if s.best == nil {
		return s.fallback()
	}
	return s.best.order
}

// StepwiseSearch Hyndman-Khandakar 이웃 탐색
type StepwiseSearch struct {
	cfg SearchConfig
	log zerolog.Logger
}

// NewStepwiseSearch 기본 탐색기 생성
func NewStepwiseSearch(cfg SearchConfig, log zerolog.Logger) *StepwiseSearch {
	return &StepwiseSearch{
		cfg: cfg,
		log: log.With().Str("component", "forecast.stepwise").Logger(),
	}
}

// Search OrderSearcher 구현
func (ss *StepwiseSearch) Search(ctx context.Context, returns contracts.ReturnSeries) (Order, error) {
	if len(returns) == 0 {
		return Order{}, contracts.ErrDataInsufficient
	}
	s := newSearchState(ss.cfg, returns, ss.log)
	if isConstant(differenced(returns, s.d)) {
		return s.order(0, 0, 0, 0, true), nil
	}

	constant := s.constOK
	starts := []Order{
		s.order(min(2, ss.cfg.MaxP), min(2, ss.cfg.MaxQ), min(1, ss.cfg.MaxSP), min(1, ss.cfg.MaxSQ), constant),
		s.order(0, 0, 0, 0, constant),
		s.order(min(1, ss.cfg.MaxP), 0, min(1, ss.cfg.MaxSP), 0, constant),
		s.order(0, min(1, ss.cfg.MaxQ), 0, min(1, ss.cfg.MaxSQ), constant),
	}
	if constant {
		starts = append(starts, s.order(0, 0, 0, 0, false))
	}
	for _, o := range starts {
		if ctx.Err() != nil {
			return ss.timedOut(s), nil
		}
		s.try(o)
	}

	for step := 0; step < ss.cfg.MaxSteps && s.best != nil; step++ {
		improved := false
		for _, o := range neighbours(s, s.best.order) {
			if ctx.Err() != nil {
				return ss.timedOut(s), nil
			}
			if s.try(o) {
				improved = true
				break
			}
		}
		if !improved {
			break
		}
	}

	best := s.result()
	ss.log.Debug().
		Str("order", best.String()).
		Int("fits", s.fits).
		Int("d", s.d).
		Msg("stepwise search finished")
	return best, nil
}

func (ss *StepwiseSearch) timedOut(s *searchState) Order {
	best := s.result()
	ss.log.Warn().
		Str("order", best.String()).
		Int("fits", s.fits).
		Msg("order search deadline reached, using best candidate so far")
	return best
}

// neighbours lists the stepwise moves from o, seasonal moves first
func neighbours(s *searchState, o Order) []Order {
	var out []Order
	mk := func(p, q, sp, sq int, c bool) {
		out = append(out, s.order(p, q, sp, sq, c))
	}
	c := o.Constant
	if s.seasonal {
		mk(o.P, o.Q, o.SP-1, o.SQ, c)
		mk(o.P, o.Q, o.SP+1, o.SQ, c)
		mk(o.P, o.Q, o.SP, o.SQ-1, c)
		mk(o.P, o.Q, o.SP, o.SQ+1, c)
		mk(o.P, o.Q, o.SP-1, o.SQ-1, c)
		mk(o.P, o.Q, o.SP+1, o.SQ+1, c)
		mk(o.P, o.Q, o.SP-1, o.SQ+1, c)
		mk(o.P, o.Q, o.SP+1, o.SQ-1, c)
	}
	mk(o.P-1, o.Q, o.SP, o.SQ, c)
	mk(o.P+1, o.Q, o.SP, o.SQ, c)
	mk(o.P, o.Q-1, o.SP, o.SQ, c)
	mk(o.P, o.Q+1, o.SP, o.SQ, c)
	mk(o.P-1, o.Q-1, o.SP, o.SQ, c)
	mk(o.P+1, o.Q+1, o.SP, o.SQ, c)
	mk(o.P-1, o.Q+1, o.SP, o.SQ, c)
	mk(o.P+1, o.Q-1, o.SP, o.SQ, c)
	if s.constOK {
		mk(o.P, o.Q, o.SP, o.SQ, !c)
	}
	return out
}

// GridSearch 한도 내 모든 차수 평가
type GridSearch struct {
	cfg SearchConfig
	log zerolog.Logger
}

// NewGridSearch 전수 탐색기 생성
func NewGridSearch(cfg SearchConfig, log zerolog.Logger) *GridSearch {
	return &GridSearch{
		cfg: cfg,
		log: log.With().Str("component", "forecast.grid").Logger(),
	}
}

// Search OrderSearcher 구현
func (gs *GridSearch) Search(ctx context.Context, returns contracts.ReturnSeries) (Order, error) {
	if len(returns) == 0 {
		return Order{}, contracts.ErrDataInsufficient
	}
	s := newSearchState(gs.cfg, returns, gs.log)
	if isConstant(differenced(returns, s.d)) {
		return s.order(0, 0, 0, 0, true), nil
	}

	maxSP, maxSQ := 0, 0
	if s.seasonal {
		maxSP, maxSQ = gs.cfg.MaxSP, gs.cfg.MaxSQ
	}
	constants := []bool{false}
	if s.constOK {
		constants = []bool{true, false}
	}

	for p := 0; p <= gs.cfg.MaxP; p++ {
		for q := 0; q <= gs.cfg.MaxQ; q++ {
			for sp := 0; sp <= maxSP; sp++ {
				for sq := 0; sq <= maxSQ; sq++ {
					for _, c := range constants {
						if ctx.Err() != nil {
							best := s.result()
							gs.log.Warn().Str("order", best.String()).Int("fits", s.fits).
								Msg("order search deadline reached, using best candidate so far")
							return best, nil
						}
						s.try(s.order(p, q, sp, sq, c))
					}
				}
			}
		}
	}

	best := s.result()
	gs.log.Debug().Str("order", best.String()).Int("fits", s.fits).Msg("grid search finished")
	return best, nil
}

func differenced(y []float64, d int) []float64 {
	for i := 0; i < d; i++ {
		y = diff(y, 1)
	}
	return y
}

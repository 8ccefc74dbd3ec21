package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Scorer 헤드라인 감성 점수기 (VADER compound, [-1, 1])
// 감성 단어가 없는 텍스트는 0
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer VADER 사전을 적재한 점수기 생성 (동시 호출 안전, 읽기 전용)
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score text 의 compound 점수
func (s *Scorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return s.analyzer.PolarityScores(text).Compound
}

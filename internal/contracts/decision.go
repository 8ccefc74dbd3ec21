package contracts

// Signal 매매 신호 (저장하지 않음, 요청마다 재계산)
type Signal string

const (
	SignalBuy   Signal = "BUY"
	SignalWait  Signal = "WAIT"
	SignalAvoid Signal = "AVOID"
	SignalHold  Signal = "HOLD"
)

// AllSignals 모든 신호 값
func AllSignals() []Signal {
	return []Signal{SignalBuy, SignalWait, SignalAvoid, SignalHold}
}

// Decision 한 종목에 대한 융합 판단
type Decision struct {
	Symbol         string          `json:"symbol"`
	Signal         Signal          `json:"signal"`
	Direction      Direction       `json:"direction"`
	SentimentLabel SentimentLabel  `json:"sentiment"`
	SentimentScore float64         `json:"sentiment_score"`
	News           []NewsItem      `json:"news"`
	Forecast       *ForecastBundle `json:"forecast"`
	History        []PricePoint    `json:"history"`
}

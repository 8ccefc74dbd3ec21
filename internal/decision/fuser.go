// Package decision fuses the forecast direction and the news sentiment into a trading signal.
package decision

import (
	"github.com/Keshavmittal8178/data-science-in-financial-market/internal/contracts"
)

type key struct {
	direction contracts.Direction
	sentiment contracts.SentimentLabel
}

// rules 방향 × 감성 → 신호
// ⭐ SSOT: 매매 신호 규칙은 이 테이블에서만
var rules = map[key]contracts.Signal{
	{contracts.DirectionUp, contracts.SentimentPositive}:   contracts.SignalBuy,
	{contracts.DirectionUp, contracts.SentimentNegative}:   contracts.SignalWait,
	{contracts.DirectionUp, contracts.SentimentNeutral}:    contracts.SignalHold,
	{contracts.DirectionDown, contracts.SentimentPositive}: contracts.SignalHold,
	{contracts.DirectionDown, contracts.SentimentNegative}: contracts.SignalAvoid,
	{contracts.DirectionDown, contracts.SentimentNeutral}:  contracts.SignalHold,
}

// Fuse 방향과 감성 라벨을 신호로 변환.
// 알 수 없는 라벨은 NEUTRAL, 알 수 없는 방향은 HOLD.
func Fuse(direction contracts.Direction, label contracts.SentimentLabel) contracts.Signal {
	label = contracts.ParseSentimentLabel(string(label))
	if s, ok := rules[key{direction, label}]; ok {
		return s
	}
	return contracts.SignalHold
}

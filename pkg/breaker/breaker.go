package breaker

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	cb "github.com/sony/gobreaker"
)

// ErrOpen is returned when the breaker rejects a call without executing it
var ErrOpen = errors.New("circuit breaker open")

// Settings tunes when a breaker trips and how long it stays open
type Settings struct {
	Name                string
	Interval            time.Duration // counts reset period while closed
	Timeout             time.Duration // open -> half-open
	ConsecutiveFailures uint32
	MinRequests         uint32
	FailureRatio        float64
}

// DefaultSettings for upstream HTTP APIs
func DefaultSettings(name string) Settings {
	return Settings{
		Name:                name,
		Interval:            60 * time.Second,
		Timeout:             60 * time.Second,
		ConsecutiveFailures: 3,
		MinRequests:         20,
		FailureRatio:        0.5,
	}
}

// Breaker wraps gobreaker with logging of state transitions
// ⭐ SSOT: 외부 API 서킷 브레이커는 여기서만 생성
type Breaker struct {
	cb *cb.CircuitBreaker
}

// New creates a breaker
func New(s Settings, log zerolog.Logger) *Breaker {
	st := cb.Settings{
		Name:     s.Name,
		Interval: s.Interval,
		Timeout:  s.Timeout,
	}
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if s.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= s.ConsecutiveFailures {
			return true
		}
		if counts.Requests < s.MinRequests || counts.Requests == 0 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > s.FailureRatio
	}
	st.OnStateChange = func(name string, from, to cb.State) {
		log.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("circuit breaker state changed")
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

// Execute runs fn unless the breaker is open. Open and half-open
// rejections are reported as ErrOpen.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, cb.ErrOpenState) || errors.Is(err, cb.ErrTooManyRequests) {
		return nil, ErrOpen
	}
	return v, err
}

// State returns "closed", "half-open" or "open"
func (b *Breaker) State() string {
	return b.cb.State().String()
}

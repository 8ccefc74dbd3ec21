package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Sign(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		text string
		sign int
	}{
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"no sentiment words", "Infosys announces board meeting date", 0},
		{"positive", "Infosys posts strong results, investors optimistic", 1},
		{"upbeat headline", "Record profit lifts Reliance, analysts see great growth", 1},
		{"negative", "Shares hit by fraud allegations and weak demand", -1},
		{"loss headline", "Company reports huge loss amid crisis", -1},
		{"negation flips", "Results were not good", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.Score(tt.text)
			switch tt.sign {
			case 0:
				assert.Equal(t, 0.0, v)
			case 1:
				assert.Greater(t, v, 0.1)
			default:
				assert.Less(t, v, -0.1)
			}
		})
	}
}

func TestScorer_IntensifierRaisesMagnitude(t *testing.T) {
	s := NewScorer()
	assert.Greater(t, s.Score("very good quarter"), s.Score("good quarter"))
	assert.Greater(t, s.Score("GOOD quarter!!!"), s.Score("good quarter"))
}

func TestScorer_Range(t *testing.T) {
	s := NewScorer()
	for _, text := range []string{
		"worst worst worst crash disaster fraud",
		"hugely extremely very excellent best great",
		"not not not bad",
	} {
		v := s.Score(text)
		assert.GreaterOrEqual(t, v, -1.0, text)
		assert.LessOrEqual(t, v, 1.0, text)
	}
}

package common

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreColors(t *testing.T) {
	for score := 1; score <= 8; score++ {
		_, ok := ScoreColors[score]
		assert.True(t, ok, "score %d should have a colour", score)
	}

	seen := make(map[color.Color]int)
	for score, c := range ScoreColors {
		if other, dup := seen[c]; dup {
			t.Errorf("scores %d and %d share a colour", other, score)
		}
		seen[c] = score
	}
}

func TestGetScoreColor(t *testing.T) {
	assert.Equal(t, ScoreColors[1], GetScoreColor(1))
	assert.Equal(t, ScoreColors[8], GetScoreColor(8))
	assert.Equal(t, color.Black, GetScoreColor(0))
	assert.Equal(t, color.Black, GetScoreColor(9))
}

func TestRGBToColor(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]int
		expected color.RGBA
	}{
		{"in range", [3]int{192, 192, 192}, color.RGBA{192, 192, 192, 255}},
		{"clamps high", [3]int{300, 0, 0}, color.RGBA{255, 0, 0, 255}},
		{"clamps low", [3]int{-5, 10, 20}, color.RGBA{0, 10, 20, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RGBToColor(tt.input))
		})
	}
}

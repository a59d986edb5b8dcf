package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCoordinate(t *testing.T) {
	c := NewCoordinate(3, 5)
	assert.Equal(t, 3, c.Row)
	assert.Equal(t, 5, c.Col)
	assert.Equal(t, "(3,5)", c.String())
}

func TestCoordinate_IndexRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		width    int
		expected Coordinate
	}{
		{"TopLeft", 0, 10, Coordinate{0, 0}},
		{"TopRight", 9, 10, Coordinate{0, 9}},
		{"SecondRow", 10, 10, Coordinate{1, 0}},
		{"Middle", 55, 10, Coordinate{5, 5}},
		{"NarrowBoard", 7, 4, Coordinate{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromIndex(tt.index, tt.width)
			assert.Equal(t, tt.expected, c)
			assert.Equal(t, tt.index, c.Row*tt.width+c.Col)
		})
	}
}

func TestCoordinate_Neighbourhood(t *testing.T) {
	center := Coordinate{Row: 4, Col: 4}

	t.Run("moore offsets are at distance one", func(t *testing.T) {
		seen := map[Coordinate]bool{}
		for _, off := range MooreOffsets {
			n := Coordinate{Row: center.Row + off.Row, Col: center.Col + off.Col}
			assert.Equal(t, 1, n.ChebyshevDistance(center), "%s", n)
			assert.Equal(t, 1, center.ChebyshevDistance(n), "distance is symmetric")
			seen[n] = true
		}
		assert.Len(t, seen, 8)
		assert.False(t, seen[center])
	})

	t.Run("exclusion square", func(t *testing.T) {
		assert.True(t, center.Within(center, 0))
		assert.True(t, Coordinate{3, 5}.Within(center, 1))
		assert.False(t, Coordinate{2, 4}.Within(center, 1))
		assert.False(t, Coordinate{4, 6}.Within(center, 1))
		assert.True(t, Coordinate{2, 6}.Within(center, 2))
		assert.False(t, Coordinate{3, 4}.Within(center, 0))
	})

	t.Run("distance", func(t *testing.T) {
		assert.Equal(t, 0, center.ChebyshevDistance(center))
		assert.Equal(t, 3, Coordinate{1, 2}.ChebyshevDistance(center))
		assert.Equal(t, 4, Coordinate{8, 0}.ChebyshevDistance(center))
	})
}

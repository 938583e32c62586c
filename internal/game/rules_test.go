package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridOf builds a board from explicit cells, ignoring gravity. HasWon only
// reads cells, so this is enough to exercise every line position.
func gridOf(color Color, cells ...[2]int) *Board {
	b := NewBoard()
	for _, c := range cells {
		b.grid[c[0]][c[1]] = color
	}
	return b
}

func TestHasWonOrientations(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		cells [][2]int
	}{
		{name: "horizontal bottom left", color: Red, cells: [][2]int{{5, 0}, {5, 1}, {5, 2}, {5, 3}}},
		{name: "horizontal top right", color: Yellow, cells: [][2]int{{0, 3}, {0, 4}, {0, 5}, {0, 6}}},
		{name: "vertical", color: Red, cells: [][2]int{{2, 0}, {3, 0}, {4, 0}, {5, 0}}},
		{name: "vertical top", color: Yellow, cells: [][2]int{{0, 6}, {1, 6}, {2, 6}, {3, 6}}},
		{name: "down-right from corner", color: Red, cells: [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{name: "down-right to corner", color: Yellow, cells: [][2]int{{2, 3}, {3, 4}, {4, 5}, {5, 6}}},
		{name: "down-left from corner", color: Red, cells: [][2]int{{0, 6}, {1, 5}, {2, 4}, {3, 3}}},
		{name: "up-right from bottom left", color: Yellow, cells: [][2]int{{5, 0}, {4, 1}, {3, 2}, {2, 3}}},
		{name: "down-left to bottom", color: Red, cells: [][2]int{{2, 3}, {3, 2}, {4, 1}, {5, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := gridOf(tt.color, tt.cells...)
			won, err := HasWon(b, tt.color)
			require.NoError(t, err)
			assert.True(t, won)

			won, err = HasWon(b, tt.color.Opponent())
			require.NoError(t, err)
			assert.False(t, won)
		})
	}
}

func TestHasWonNeedsFour(t *testing.T) {
	tests := []struct {
		name  string
		cells [][2]int
	}{
		{name: "empty board"},
		{name: "three horizontal", cells: [][2]int{{5, 0}, {5, 1}, {5, 2}}},
		{name: "gap in row", cells: [][2]int{{5, 0}, {5, 1}, {5, 3}, {5, 4}}},
		{name: "three diagonal", cells: [][2]int{{3, 3}, {4, 4}, {5, 5}}},
		{name: "wraps around rows", cells: [][2]int{{4, 5}, {4, 6}, {5, 0}, {5, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := gridOf(Red, tt.cells...)
			won, err := HasWon(b, Red)
			require.NoError(t, err)
			assert.False(t, won)
		})
	}
}

func TestHasWonMixedLine(t *testing.T) {
	b := gridOf(Red, [2]int{5, 0}, [2]int{5, 1}, [2]int{5, 3})
	b.grid[5][2] = Yellow
	for _, c := range []Color{Red, Yellow} {
		won, err := HasWon(b, c)
		require.NoError(t, err)
		assert.False(t, won)
	}
}

func TestHasWonInvalidColor(t *testing.T) {
	b := gridOf(Red, [2]int{5, 0}, [2]int{5, 1}, [2]int{5, 2}, [2]int{5, 3})
	for _, c := range []Color{Empty, Color(3)} {
		won, err := HasWon(b, c)
		assert.ErrorIs(t, err, ErrInvalidColor)
		assert.False(t, won)
	}
}

func TestRedWinsAlongBottomRow(t *testing.T) {
	b := NewBoard()
	for i, col := range []int{0, 1, 2, 3} {
		_, ok, err := b.Drop(Red, col)
		require.NoError(t, err)
		require.True(t, ok)

		won, err := HasWon(b, Red)
		require.NoError(t, err)
		assert.Equal(t, i == 3, won, "after drop %d", i+1)

		won, err = HasWon(b, Yellow)
		require.NoError(t, err)
		assert.False(t, won)
	}
}

func TestFullBoardWithoutWinner(t *testing.T) {
	// Bottom-up column patterns A = R,R,Y,Y,R,R and B = Y,Y,R,R,Y,Y laid out
	// A B A B A B A: rows alternate colour and every diagonal breaks.
	b := NewBoard()
	a := []Color{Red, Red, Yellow, Yellow, Red, Red}
	bb := []Color{Yellow, Yellow, Red, Red, Yellow, Yellow}
	layout := [][]Color{a, bb, a, bb, a, bb, a}
	for c, col := range layout {
		for _, color := range col {
			_, ok, err := b.Drop(color, c)
			require.NoError(t, err)
			require.True(t, ok)
		}
	}

	assert.True(t, b.IsFull())
	gravityHolds(t, b)
	for _, c := range []Color{Red, Yellow} {
		won, err := HasWon(b, c)
		require.NoError(t, err)
		assert.False(t, won, "%s should not win", c)
	}
}

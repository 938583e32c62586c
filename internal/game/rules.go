package game

import "github.com/pkg/errors"

// directions a line can run in from its first cell: right, down,
// down-right and down-left. Down-left from (r, c) is the same line as
// up-right from its far end, so these four cover every orientation.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// HasWon reports whether color owns four consecutive cells in any
// orientation. Every cell is tried as a line start on every call.
func HasWon(v View, color Color) (bool, error) {
	if !color.Valid() {
		return false, errors.Wrapf(ErrInvalidColor, "color %s", color)
	}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			for _, d := range directions {
				if lineOf(v, r, c, d[0], d[1], color) {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func lineOf(v View, row, col, dr, dc int, color Color) bool {
	endRow, endCol := row+dr*(ToWin-1), col+dc*(ToWin-1)
	if endRow < 0 || endRow >= Rows || endCol < 0 || endCol >= Columns {
		return false
	}
	for i := 0; i < ToWin; i++ {
		if v.CellAt(row+dr*i, col+dc*i) != color {
			return false
		}
	}
	return true
}

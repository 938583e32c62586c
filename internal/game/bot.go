package game

import "github.com/pkg/errors"

// Rand is the slice of math/rand the bots and the controller need.
type Rand interface {
	Intn(n int) int
}

// Preferred is the centre-out order used once there is nothing to win or block.
var Preferred = [Columns]int{3, 2, 4, 1, 5, 0, 6}

// ChooseColumn tries to win, then to block, then favours centre columns.
// The board is probed in place and is left exactly as it was found.
func ChooseColumn(b *Board, own Color, rnd Rand) (int, error) {
	if !own.Valid() {
		return -1, errors.Wrapf(ErrInvalidColor, "color %s", own)
	}
	legal := b.LegalColumns()
	if len(legal) == 0 {
		return -1, ErrNoLegalMove
	}

	// 1. Take winning move if available.
	if col, ok, err := findImmediate(b, legal, own); err != nil || ok {
		return col, err
	}
	// 2. Block opponent winning move.
	if col, ok, err := findImmediate(b, legal, own.Opponent()); err != nil || ok {
		return col, err
	}
	// 3. Prefer center columns.
	for _, col := range Preferred {
		if b.CanDrop(col) {
			return col, nil
		}
	}
	// 4. Fallback.
	return legal[rnd.Intn(len(legal))], nil
}

func findImmediate(b *Board, legal []int, color Color) (int, bool, error) {
	wins := func(v View) bool {
		won, _ := HasWon(v, color)
		return won
	}
	for _, col := range legal {
		won, err := b.Probe(color, col, wins)
		if err != nil {
			return -1, false, err
		}
		if won {
			return col, true, nil
		}
	}
	return -1, false, nil
}

// RandomColumn picks any of the seven columns, full or not. The controller
// asks again when the pick lands on a full column.
func RandomColumn(rnd Rand) int {
	return rnd.Intn(Columns)
}

package game

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	Columns = 7
	Rows    = 6
	ToWin   = 4
)

// Color is both the state of a cell and the colour a player drops.
type Color uint8

const (
	Empty Color = iota
	Red
	Yellow
)

var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrInvalidColor  = errors.New("invalid color")
	// ErrColumnFull is only ever used as a rejection reason; Drop reports a
	// full column through its ok result.
	ErrColumnFull  = errors.New("column is full")
	ErrNoLegalMove = errors.New("no legal move")
)

func (c Color) Valid() bool {
	return c == Red || c == Yellow
}

// Opponent returns the other playing colour. Empty and unknown values map to Empty.
func (c Color) Opponent() Color {
	switch c {
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

func (c Color) MarshalText() ([]byte, error) {
	if c != Empty && !c.Valid() {
		return nil, errors.Wrapf(ErrInvalidColor, "marshal %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty":
		*c = Empty
	case "red":
		*c = Red
	case "yellow":
		*c = Yellow
	default:
		return errors.Wrapf(ErrInvalidColor, "unmarshal %q", text)
	}
	return nil
}

// Grid is a value copy of the board, row 0 at the top.
type Grid [Rows][Columns]Color

// View is the read-only side of a board.
type View interface {
	CellAt(row, col int) Color
	IsFull() bool
}

type Board struct {
	grid Grid
}

func NewBoard() *Board {
	return &Board{}
}

// Drop places a disc in the lowest empty row of column. A full column is
// reported with ok == false and a nil error; out-of-range columns and
// unknown colours are errors and leave the board untouched.
func (b *Board) Drop(color Color, column int) (row int, ok bool, err error) {
	if column < 0 || column >= Columns {
		return -1, false, errors.Wrapf(ErrInvalidColumn, "column %d", column)
	}
	if !color.Valid() {
		return -1, false, errors.Wrapf(ErrInvalidColor, "color %s", color)
	}
	for row := Rows - 1; row >= 0; row-- {
		if b.grid[row][column] == Empty {
			b.grid[row][column] = color
			return row, true, nil
		}
	}
	return -1, false, nil
}

// Probe drops a hypothetical disc, evaluates fn against the resulting
// position and takes the disc back out before returning, even if fn panics.
// A full column yields false without calling fn.
func (b *Board) Probe(color Color, column int, fn func(View) bool) (bool, error) {
	row, ok, err := b.Drop(color, column)
	if err != nil || !ok {
		return false, err
	}
	defer func() { b.grid[row][column] = Empty }()
	return fn(b), nil
}

// IsFull only looks at the top row; gravity keeps the rest filled.
func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b.grid[0][c] == Empty {
			return false
		}
	}
	return true
}

func (b *Board) CanDrop(column int) bool {
	return column >= 0 && column < Columns && b.grid[0][column] == Empty
}

// LegalColumns lists the columns that still take a disc, left to right.
func (b *Board) LegalColumns() []int {
	cols := make([]int, 0, Columns)
	for c := 0; c < Columns; c++ {
		if b.CanDrop(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// CellAt returns Empty for coordinates outside the grid.
func (b *Board) CellAt(row, col int) Color {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return Empty
	}
	return b.grid[row][col]
}

func (b *Board) Discs() int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b.grid[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

func (b *Board) Snapshot() Grid {
	return b.grid
}

func (b *Board) Reset() {
	b.grid = Grid{}
}

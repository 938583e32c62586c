package console

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Martin-Matzer/connect-4/internal/game"
	"github.com/Martin-Matzer/connect-4/internal/storage"
)

const (
	discRed    = "🔴"
	discYellow = "🟡"
)

// Renderer prints a match to a terminal as it happens.
type Renderer struct {
	w     io.Writer
	pause time.Duration
	sleep func(time.Duration)
}

// NewRenderer writes to w and waits pause after every bot move so a human
// can follow along.
func NewRenderer(w io.Writer, pause time.Duration) *Renderer {
	return &Renderer{w: w, pause: pause, sleep: time.Sleep}
}

// WriteBoard prints the grid with column numbers on top and row numbers on the left.
func WriteBoard(w io.Writer, g game.Grid) {
	var sb strings.Builder
	sb.WriteString("\n    ")
	for c := 0; c < game.Columns; c++ {
		fmt.Fprintf(&sb, " %d   ", c)
	}
	sep := "   +" + strings.Repeat("----+", game.Columns) + "\n"
	sb.WriteString("\n")
	for r := 0; r < game.Rows; r++ {
		sb.WriteString(sep)
		fmt.Fprintf(&sb, "%d  |", r)
		for c := 0; c < game.Columns; c++ {
			switch g[r][c] {
			case game.Red:
				sb.WriteString(" " + discRed + " |")
			case game.Yellow:
				sb.WriteString(" " + discYellow + " |")
			default:
				sb.WriteString("    |")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString(sep)
	_, _ = io.WriteString(w, sb.String())
}

func (r *Renderer) MatchStarted(m game.MatchInfo) {
	fmt.Fprintf(r.w, "\n%s begins!\n", m.Starter.Name)
	WriteBoard(r.w, m.Board)
}

func (r *Renderer) MovePlayed(m game.MoveEvent) {
	if m.Player.Kind.IsBot() {
		fmt.Fprintf(r.w, "%s plays column %d\n", m.Player.Name, m.Column)
	}
	WriteBoard(r.w, m.Board)
	if m.Player.Kind.IsBot() && m.Next != nil && r.pause > 0 {
		r.sleep(r.pause)
	}
}

func (r *Renderer) MoveRejected(rej game.Rejection) {
	if rej.Player.Kind.IsBot() && errors.Is(rej.Reason, game.ErrColumnFull) {
		return
	}
	switch {
	case errors.Is(rej.Reason, game.ErrColumnFull):
		fmt.Fprintf(r.w, "Column %d is full. Please enter a valid column.\n", rej.Column)
	case errors.Is(rej.Reason, game.ErrInvalidColumn):
		fmt.Fprintln(r.w, "Error, invalid column! Please enter a valid column.")
	case errors.Is(rej.Reason, game.ErrInvalidColor):
		fmt.Fprintln(r.w, "Error, invalid color!")
	default:
		fmt.Fprintf(r.w, "The last turn was not valid: %v\n", rej.Reason)
	}
}

func (r *Renderer) MatchFinished(res game.MatchResult) {
	fmt.Fprintln(r.w, OutcomeMessage(res.Outcome))
}

// OutcomeMessage is the line announcing how a match ended.
func OutcomeMessage(o game.Outcome) string {
	switch o.Status {
	case game.StatusWon:
		return fmt.Sprintf("%s has won the game!", o.Winner.Name)
	case game.StatusDraw:
		return "Game has ended with a draw."
	case game.StatusSurrendered:
		return fmt.Sprintf("%s has won the game! %s surrendered.", o.Winner.Name, o.Surrendered.Name)
	}
	return "The game is still running."
}

func (r *Renderer) WriteStandings(rows []storage.Standing) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(r.w, "\nStandings:")
	for _, s := range rows {
		fmt.Fprintf(r.w, "  %-12s W %d  L %d  D %d\n", s.Player, s.Wins, s.Losses, s.Draws)
	}
}

package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type State int

const (
	StateAwaitingMove State = iota
	StateApplyingMove
	StateCheckingOutcome
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateAwaitingMove:
		return "awaiting_move"
	case StateApplyingMove:
		return "applying_move"
	case StateCheckingOutcome:
		return "checking_outcome"
	case StateTerminal:
		return "terminal"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Options struct {
	Observer Observer
	Logger   logrus.FieldLogger
	// NewID names each match; defaults to uuid.NewString.
	NewID func() string
	Now   func() time.Time
}

// Controller runs matches between two players on one board. It is not safe
// for concurrent use; observers get snapshots, never the board itself.
type Controller struct {
	board   *Board
	players [2]*Player
	rnd     Rand

	observer Observer
	log      logrus.FieldLogger
	newID    func() string
	now      func() time.Time

	matchID   string
	matches   int
	active    int
	state     State
	outcome   Outcome
	plies     int
	startedAt time.Time
	endedAt   time.Time
}

func NewController(board *Board, p1, p2 *Player, rnd Rand, opts Options) (*Controller, error) {
	if board == nil {
		return nil, errors.New("nil board")
	}
	if p1 == nil || p2 == nil {
		return nil, errors.New("two players required")
	}
	if !p1.Color.Valid() || !p2.Color.Valid() {
		return nil, errors.Wrapf(ErrInvalidColor, "players %s and %s", p1, p2)
	}
	c := &Controller{
		board:    board,
		players:  [2]*Player{p1, p2},
		rnd:      rnd,
		observer: opts.Observer,
		log:      opts.Logger,
		newID:    opts.NewID,
		now:      opts.Now,
		outcome:  InProgress(),
	}
	if c.observer == nil {
		c.observer = Observers(nil)
	}
	if c.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		c.log = l
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

func (c *Controller) Board() *Board { return c.board }
func (c *Controller) Players() [2]*Player { return c.players }
func (c *Controller) State() State { return c.state }
func (c *Controller) Outcome() Outcome { return c.outcome }
func (c *Controller) MatchID() string { return c.matchID }
func (c *Controller) Plies() int { return c.plies }
func (c *Controller) Active() *Player { return c.players[c.active] }
func (c *Controller) opponent() *Player { return c.players[1-c.active] }

// Timing reports when the last match started and ended; ok is false until
// it has finished.
func (c *Controller) Timing() (start, end time.Time, ok bool) {
	return c.startedAt, c.endedAt, !c.endedAt.IsZero()
}

// Reset clears the board for the next match. Players keep their identity.
func (c *Controller) Reset() {
	c.board.Reset()
	c.state = StateAwaitingMove
	c.outcome = InProgress()
	c.plies = 0
}

// Play runs one match from a random starter to a terminal outcome. The
// board is expected to be empty; call Reset between matches.
func (c *Controller) Play(ctx context.Context) (Outcome, error) {
	if c.board.IsFull() {
		return c.outcome, errors.Wrap(ErrNoLegalMove, "board is full, reset before playing")
	}
	c.matches++
	c.matchID = c.newID()
	c.active = c.rnd.Intn(2)
	c.state = StateAwaitingMove
	c.outcome = InProgress()
	c.plies = 0
	c.startedAt = c.now()
	c.endedAt = time.Time{}

	log := c.log.WithField("match", c.matchID)
	log.WithField("starter", c.Active().Name).Info("match started")
	c.observer.MatchStarted(MatchInfo{
		ID:        c.matchID,
		Number:    c.matches,
		Players:   c.players,
		Starter:   c.Active(),
		Board:     c.board.Snapshot(),
		StartedAt: c.startedAt,
	})

	for !c.outcome.Terminal() {
		if err := ctx.Err(); err != nil {
			return c.outcome, err
		}
		if err := c.step(ctx, log); err != nil {
			return c.outcome, err
		}
	}

	c.endedAt = c.now()
	c.observer.MatchFinished(MatchResult{
		MatchID:   c.matchID,
		Number:    c.matches,
		Players:   c.players,
		Outcome:   c.outcome,
		Plies:     c.plies,
		Board:     c.board.Snapshot(),
		StartedAt: c.startedAt,
		EndedAt:   c.endedAt,
	})
	log.WithFields(logrus.Fields{
		"status": c.outcome.Status,
		"winner": c.outcome.WinnerName(),
		"plies":  c.plies,
	}).Info("match finished")
	return c.outcome, nil
}

// step is one half-move: it keeps asking the active player until a disc
// lands or the player surrenders.
func (c *Controller) step(ctx context.Context, log logrus.FieldLogger) error {
	player := c.Active()
	log = log.WithField("player", player.Name)

	for {
		c.state = StateAwaitingMove
		move, err := player.ChooseMove(ctx, c.board)
		if err != nil {
			return errors.Wrapf(err, "move from %s", player.Name)
		}
		if move.Surrender {
			log.Info("player surrendered")
			c.state = StateTerminal
			c.outcome = SurrenderedBy(player, c.opponent())
			return nil
		}

		c.state = StateApplyingMove
		row, ok, err := c.board.Drop(player.Color, move.Column)
		if err != nil {
			log.WithError(err).WithField("column", move.Column).Warn("move rejected")
			c.observer.MoveRejected(Rejection{MatchID: c.matchID, Player: player, Column: move.Column, Reason: err})
			if player.Kind.IsBot() {
				return errors.Wrapf(err, "%s", player.Name)
			}
			continue
		}
		if !ok {
			log.WithField("column", move.Column).Debug("column full")
			c.observer.MoveRejected(Rejection{MatchID: c.matchID, Player: player, Column: move.Column, Reason: ErrColumnFull})
			continue
		}

		c.plies++
		c.state = StateCheckingOutcome
		won, err := HasWon(c.board, player.Color)
		if err != nil {
			return err
		}
		switch {
		case won:
			c.state = StateTerminal
			c.outcome = WonBy(player)
		case c.board.IsFull():
			c.state = StateTerminal
			c.outcome = Draw()
		default:
			c.active = 1 - c.active
			c.state = StateAwaitingMove
		}

		ev := MoveEvent{
			MatchID: c.matchID,
			Ply:     c.plies,
			Player:  player,
			Row:     row,
			Column:  move.Column,
			Board:   c.board.Snapshot(),
		}
		if !c.outcome.Terminal() {
			ev.Next = c.Active()
		}
		log.WithFields(logrus.Fields{"row": row, "column": move.Column}).Debug("disc dropped")
		c.observer.MovePlayed(ev)
		return nil
	}
}

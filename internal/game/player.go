package game

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindHuman Kind = iota
	KindRandomBot
	KindHeuristicBot
)

func (k Kind) String() string {
	switch k {
	case KindHuman:
		return "human"
	case KindRandomBot:
		return "random-bot"
	case KindHeuristicBot:
		return "heuristic-bot"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) IsBot() bool {
	return k == KindRandomBot || k == KindHeuristicBot
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for _, candidate := range []Kind{KindHuman, KindRandomBot, KindHeuristicBot} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return errors.Errorf("unknown player kind %q", text)
}

// Move is a column or a surrender. The column is not range checked here;
// the board does that.
type Move struct {
	Column    int
	Surrender bool
}

func ColumnMove(col int) Move {
	return Move{Column: col}
}

func SurrenderMove() Move {
	return Move{Column: -1, Surrender: true}
}

// MoveReader supplies moves for human players.
type MoveReader interface {
	ReadMove(ctx context.Context, p *Player, v View) (Move, error)
}

type Player struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Color  Color  `json:"color"`
	Kind   Kind   `json:"kind"`

	input MoveReader
	rnd   Rand
}

func (p *Player) String() string {
	return fmt.Sprintf("Player%d: %s", p.Number, p.Color)
}

// ChooseMove asks the player for its next move on b. Bots probe b in place
// and leave it unchanged.
func (p *Player) ChooseMove(ctx context.Context, b *Board) (Move, error) {
	switch p.Kind {
	case KindHuman:
		if p.input == nil {
			return Move{}, errors.Errorf("player %s has no input", p.Name)
		}
		return p.input.ReadMove(ctx, p, b)
	case KindRandomBot:
		return ColumnMove(RandomColumn(p.rnd)), nil
	case KindHeuristicBot:
		col, err := ChooseColumn(b, p.Color, p.rnd)
		if err != nil {
			return Move{}, err
		}
		return ColumnMove(col), nil
	}
	return Move{}, errors.Errorf("unknown player kind %s", p.Kind)
}

// Roster hands out player numbers and colours for one session. The first
// player created is red, everyone after is yellow.
type Roster struct {
	next int
}

func NewRoster() *Roster {
	return &Roster{next: 1}
}

func (r *Roster) NewHuman(name string, input MoveReader) *Player {
	p := r.newPlayer(name, KindHuman)
	p.input = input
	return p
}

func (r *Roster) NewRandomBot(name string, rnd Rand) *Player {
	p := r.newPlayer(name, KindRandomBot)
	p.rnd = rnd
	return p
}

func (r *Roster) NewHeuristicBot(name string, rnd Rand) *Player {
	p := r.newPlayer(name, KindHeuristicBot)
	p.rnd = rnd
	return p
}

func (r *Roster) newPlayer(name string, kind Kind) *Player {
	if r.next == 0 {
		r.next = 1
	}
	p := &Player{Number: r.next, Name: name, Kind: kind, Color: Yellow}
	if p.Number == 1 {
		p.Color = Red
	}
	r.next++
	return p
}

package session

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Martin-Matzer/connect-4/internal/game"
	"github.com/Martin-Matzer/connect-4/internal/storage"
)

const (
	RandomBotName    = "Hansi"
	HeuristicBotName = "SuperHansi"
)

// SetupPrompter collects the choices needed before the first match.
type SetupPrompter interface {
	ChoosePlayers(ctx context.Context) (int, error)
	ChooseBotDifficulty(ctx context.Context, easy, hard string) (int, error)
}

type Replayer interface {
	PlayAgain(ctx context.Context) (bool, error)
}

type StandingsWriter interface {
	WriteStandings(rows []storage.Standing)
}

// NewPlayers creates the session's two players: one or two humans reading
// from input, topped up with a bot of the chosen difficulty.
func NewPlayers(ctx context.Context, prompt SetupPrompter, input game.MoveReader, rnd game.Rand) (*game.Player, *game.Player, error) {
	humans, err := prompt.ChoosePlayers(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "choose players")
	}
	roster := game.NewRoster()
	switch humans {
	case 2:
		return roster.NewHuman("Player1", input), roster.NewHuman("Player2", input), nil
	case 1:
		p1 := roster.NewHuman("Player1", input)
		difficulty, err := prompt.ChooseBotDifficulty(ctx, RandomBotName, HeuristicBotName)
		if err != nil {
			return nil, nil, errors.Wrap(err, "choose bot difficulty")
		}
		if difficulty == 0 {
			return p1, roster.NewRandomBot(RandomBotName, rnd), nil
		}
		return p1, roster.NewHeuristicBot(HeuristicBotName, rnd), nil
	}
	return nil, nil, errors.Errorf("unsupported number of players: %d", humans)
}

type Session struct {
	ctrl      *game.Controller
	store     storage.Store
	replay    Replayer
	standings StandingsWriter
	log       logrus.FieldLogger
}

func New(ctrl *game.Controller, store storage.Store, replay Replayer, standings StandingsWriter, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{ctrl: ctrl, store: store, replay: replay, standings: standings, log: log}
}

// Run plays matches until the replayer declines or input runs out. The
// same players are kept for every match; only the board is cleared in
// between. It returns the number of matches that reached an outcome.
func (s *Session) Run(ctx context.Context) (int, error) {
	played := 0
	for {
		outcome, err := s.ctrl.Play(ctx)
		if errors.Is(err, io.EOF) {
			s.log.Info("input closed during match")
			return played, nil
		}
		if err != nil {
			return played, errors.Wrap(err, "play match")
		}
		played++
		s.record(ctx, outcome)

		again, err := s.replay.PlayAgain(ctx)
		if errors.Is(err, io.EOF) {
			return played, nil
		}
		if err != nil {
			return played, errors.Wrap(err, "play again")
		}
		if !again {
			return played, nil
		}
		s.ctrl.Reset()
	}
}

func (s *Session) record(ctx context.Context, outcome game.Outcome) {
	if s.store == nil {
		return
	}
	players := s.ctrl.Players()
	match := storage.CompletedMatch{
		ID:      s.ctrl.MatchID(),
		Players: []string{players[0].Name, players[1].Name},
		Winner:  outcome.WinnerName(),
		Status:  outcome.Status.String(),
		Plies:   s.ctrl.Plies(),
	}
	if outcome.Surrendered != nil {
		match.Surrendered = outcome.Surrendered.Name
	}
	if start, end, ok := s.ctrl.Timing(); ok {
		match.StartedAt, match.EndedAt = start, end
	}
	if err := s.store.SaveMatch(ctx, match); err != nil {
		s.log.WithError(err).WithField("match", match.ID).Warn("failed to save match")
		return
	}
	if s.standings == nil {
		return
	}
	rows, err := s.store.Standings(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load standings")
		return
	}
	s.standings.WriteStandings(rows)
}

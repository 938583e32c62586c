package game

import "time"

type MatchInfo struct {
	ID        string
	Number    int
	Players   [2]*Player
	Starter   *Player
	Board     Grid
	StartedAt time.Time
}

type MoveEvent struct {
	MatchID string
	Ply     int
	Player  *Player
	Row     int
	Column  int
	Board   Grid
	Next    *Player
}

type Rejection struct {
	MatchID string
	Player  *Player
	Column  int
	Reason  error
}

type MatchResult struct {
	MatchID   string
	Number    int
	Players   [2]*Player
	Outcome   Outcome
	Plies     int
	Board     Grid
	StartedAt time.Time
	EndedAt   time.Time
}

// Observer is told about every step of a match. Calls happen on the
// goroutine running the controller, so implementations that share state
// with other goroutines do their own locking.
type Observer interface {
	MatchStarted(MatchInfo)
	MovePlayed(MoveEvent)
	MoveRejected(Rejection)
	MatchFinished(MatchResult)
}

// Observers fans every event out in order; nil entries are skipped.
type Observers []Observer

func (obs Observers) MatchStarted(m MatchInfo) {
	for _, o := range obs {
		if o != nil {
			o.MatchStarted(m)
		}
	}
}

func (obs Observers) MovePlayed(m MoveEvent) {
	for _, o := range obs {
		if o != nil {
			o.MovePlayed(m)
		}
	}
}

func (obs Observers) MoveRejected(r Rejection) {
	for _, o := range obs {
		if o != nil {
			o.MoveRejected(r)
		}
	}
}

func (obs Observers) MatchFinished(r MatchResult) {
	for _, o := range obs {
		if o != nil {
			o.MatchFinished(r)
		}
	}
}

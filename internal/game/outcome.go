package game

import "fmt"

type Status int

const (
	StatusInProgress Status = iota
	StatusWon
	StatusDraw
	StatusSurrendered
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusWon:
		return "won"
	case StatusDraw:
		return "draw"
	case StatusSurrendered:
		return "surrendered"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusInProgress, StatusWon, StatusDraw, StatusSurrendered} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Outcome of a match. Winner is set for a win and for a forfeit;
// Surrendered only for a forfeit.
type Outcome struct {
	Status      Status  `json:"status"`
	Winner      *Player `json:"winner,omitempty"`
	Surrendered *Player `json:"surrendered,omitempty"`
}

func InProgress() Outcome {
	return Outcome{Status: StatusInProgress}
}

func WonBy(p *Player) Outcome {
	return Outcome{Status: StatusWon, Winner: p}
}

func Draw() Outcome {
	return Outcome{Status: StatusDraw}
}

func SurrenderedBy(p, opponent *Player) Outcome {
	return Outcome{Status: StatusSurrendered, Winner: opponent, Surrendered: p}
}

func (o Outcome) Terminal() bool {
	return o.Status != StatusInProgress
}

// WinningColor is Empty for draws and unfinished matches.
func (o Outcome) WinningColor() Color {
	if o.Winner == nil {
		return Empty
	}
	return o.Winner.Color
}

func (o Outcome) WinnerName() string {
	if o.Winner == nil {
		return ""
	}
	return o.Winner.Name
}

package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// CompletedMatch is one finished match as kept on the session scoreboard.
type CompletedMatch struct {
	ID          string    `json:"id"`
	Players     []string  `json:"players"`
	Winner      string    `json:"winner,omitempty"`
	Surrendered string    `json:"surrendered,omitempty"`
	Status      string    `json:"status"`
	Plies       int       `json:"plies"`
	StartedAt   time.Time `json:"startedAt"`
	EndedAt     time.Time `json:"endedAt"`
}

type Standing struct {
	Player string `json:"player"`
	Played int    `json:"played"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

type Store interface {
	SaveMatch(ctx context.Context, match CompletedMatch) error
	Matches(ctx context.Context) ([]CompletedMatch, error)
	Standings(ctx context.Context) ([]Standing, error)
}

// MemoryStore keeps results for the lifetime of the process only. It is
// safe for concurrent use so the spectator server can read while a match
// is being recorded.
type MemoryStore struct {
	mu      sync.RWMutex
	matches []CompletedMatch
	seen    map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (m *MemoryStore) SaveMatch(ctx context.Context, match CompletedMatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if match.ID == "" {
		return errors.New("match id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.seen[match.ID]; dup {
		return nil
	}
	m.seen[match.ID] = struct{}{}
	match.Players = append([]string(nil), match.Players...)
	m.matches = append(m.matches, match)
	return nil
}

func (m *MemoryStore) Matches(ctx context.Context) ([]CompletedMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CompletedMatch, len(m.matches))
	copy(out, m.matches)
	return out, nil
}

// Standings orders players by wins, then fewer losses, then name.
func (m *MemoryStore) Standings(ctx context.Context) ([]Standing, error) {
	matches, err := m.Matches(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*Standing)
	get := func(name string) *Standing {
		s, ok := byName[name]
		if !ok {
			s = &Standing{Player: name}
			byName[name] = s
		}
		return s
	}
	for _, g := range matches {
		for _, p := range g.Players {
			s := get(p)
			s.Played++
			switch {
			case g.Winner == "":
				s.Draws++
			case g.Winner == p:
				s.Wins++
			default:
				s.Losses++
			}
		}
	}

	res := make([]Standing, 0, len(byName))
	for _, s := range byName {
		res = append(res, *s)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Wins != res[j].Wins {
			return res[i].Wins > res[j].Wins
		}
		if res[i].Losses != res[j].Losses {
			return res[i].Losses < res[j].Losses
		}
		return res[i].Player < res[j].Player
	})
	return res, nil
}

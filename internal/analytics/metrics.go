package analytics

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates finished matches read back from the event topic.
type Metrics struct {
	mu sync.Mutex

	matches      int
	draws        int
	surrenders   int
	winsByPlayer map[string]int
	winsByColor  map[string]int
	played       map[string]int
	perDay       map[string]int
	plies        []float64
	durations    []float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		winsByPlayer: make(map[string]int),
		winsByColor:  make(map[string]int),
		played:       make(map[string]int),
		perDay:       make(map[string]int),
	}
}

// Record folds one event in. Only match_finished events count; the
// return value says whether the event was used.
func (m *Metrics) Record(e Event) bool {
	if e.Event != EventMatchFinished {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matches++
	switch status, _ := e.Payload["status"].(string); status {
	case "draw":
		m.draws++
	case "surrendered":
		m.surrenders++
	}
	if winner, ok := e.Payload["winner"].(string); ok && winner != "" {
		m.winsByPlayer[winner]++
	}
	if color, ok := e.Payload["color"].(string); ok && color != "" && color != "empty" {
		m.winsByColor[color]++
	}
	if players, ok := e.Payload["players"].([]any); ok {
		for _, p := range players {
			if name, ok := p.(string); ok {
				m.played[name]++
			}
		}
	}
	if plies, ok := e.Payload["plies"].(float64); ok {
		m.plies = append(m.plies, plies)
	}
	if d, ok := e.Payload["duration"].(float64); ok {
		m.durations = append(m.durations, d)
	}
	m.perDay[e.Timestamp.Format("2006-01-02")]++
	return true
}

type Summary struct {
	Matches        int
	Draws          int
	Surrenders     int
	WinsByPlayer   map[string]int
	WinsByColor    map[string]int
	MatchesPlayed  map[string]int
	MatchesPerDay  map[string]int
	AveragePlies   float64
	AverageSeconds float64
}

func (m *Metrics) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{
		Matches:        m.matches,
		Draws:          m.draws,
		Surrenders:     m.surrenders,
		WinsByPlayer:   copyCounts(m.winsByPlayer),
		WinsByColor:    copyCounts(m.winsByColor),
		MatchesPlayed:  copyCounts(m.played),
		MatchesPerDay:  copyCounts(m.perDay),
		AveragePlies:   average(m.plies),
		AverageSeconds: average(m.durations),
	}
}

func (m *Metrics) Log(log logrus.FieldLogger) {
	s := m.Summary()
	log.WithFields(logrus.Fields{
		"matches":       s.Matches,
		"draws":         s.Draws,
		"surrenders":    s.Surrenders,
		"avgPlies":      s.AveragePlies,
		"avgDuration":   time.Duration(s.AverageSeconds * float64(time.Second)).Round(time.Millisecond).String(),
		"winsByPlayer":  s.WinsByPlayer,
		"winsByColor":   s.WinsByColor,
		"matchesPlayed": s.MatchesPlayed,
		"matchesPerDay": s.MatchesPerDay,
	}).Info("analytics summary")
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Martin-Matzer/connect-4/internal/game"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func decode(t *testing.T, msg kafka.Message) Event {
	t.Helper()
	var e Event
	require.NoError(t, json.Unmarshal(msg.Value, &e))
	return e
}

func TestProducerPublishesMatchEvents(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, quietLogger())
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	roster := game.NewRoster()
	human := roster.NewHuman("Player1", nil)
	bot := roster.NewHeuristicBot("SuperHansi", nil)
	ps := [2]*game.Player{human, bot}

	p.MatchStarted(game.MatchInfo{ID: "m-1", Number: 1, Players: ps, Starter: bot, StartedAt: fixed})
	p.MovePlayed(game.MoveEvent{MatchID: "m-1", Ply: 1, Player: bot, Row: 5, Column: 3})
	p.MoveRejected(game.Rejection{MatchID: "m-1", Player: human, Column: 3, Reason: game.ErrColumnFull})
	p.MatchFinished(game.MatchResult{
		MatchID: "m-1", Players: ps, Outcome: game.SurrenderedBy(human, bot), Plies: 1,
		StartedAt: fixed, EndedAt: fixed.Add(90 * time.Second),
	})

	require.Len(t, w.msgs, 3)
	for _, m := range w.msgs {
		assert.Equal(t, "m-1", string(m.Key))
	}

	started := decode(t, w.msgs[0])
	assert.Equal(t, EventMatchStarted, started.Event)
	assert.Equal(t, "SuperHansi", started.Payload["starter"])
	assert.True(t, fixed.Equal(started.Timestamp))

	move := decode(t, w.msgs[1])
	assert.Equal(t, EventMovePlayed, move.Event)
	assert.Equal(t, "yellow", move.Payload["color"])
	assert.EqualValues(t, 3, move.Payload["column"])

	finished := decode(t, w.msgs[2])
	assert.Equal(t, EventMatchFinished, finished.Event)
	assert.Equal(t, "surrendered", finished.Payload["status"])
	assert.Equal(t, "SuperHansi", finished.Payload["winner"])
	assert.Equal(t, "Player1", finished.Payload["surrendered"])
	assert.EqualValues(t, 90, finished.Payload["duration"])

	p.Close()
	assert.True(t, w.closed)
}

func TestProducerSwallowsWriteErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, quietLogger())
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), EventMovePlayed, "k", map[string]any{"x": 1})
	})
	assert.Len(t, w.msgs, 1)
}

func TestNilProducerIsNoop(t *testing.T) {
	var p *Producer
	assert.Nil(t, NewProducer(nil, "topic", nil))
	assert.Nil(t, NewProducer([]string{"localhost:9092"}, "", nil))
	assert.NotPanics(t, func() {
		p.MatchFinished(game.MatchResult{})
		p.Close()
	})
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	day := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	// events go through JSON as they would when read from kafka
	events := []Event{
		{Event: EventMatchFinished, Timestamp: day, Payload: map[string]any{
			"status": "won", "winner": "Player1", "color": "red", "players": []string{"Player1", "Hansi"}, "plies": 7, "duration": 30.0,
		}},
		{Event: EventMatchFinished, Timestamp: day, Payload: map[string]any{
			"status": "draw", "winner": "", "color": "empty", "players": []string{"Player1", "Hansi"}, "plies": 42, "duration": 90.0,
		}},
		{Event: EventMatchFinished, Timestamp: day.Add(24 * time.Hour), Payload: map[string]any{
			"status": "surrendered", "winner": "Hansi", "color": "yellow", "players": []string{"Player1", "Hansi"}, "plies": 2, "duration": 0.0,
		}},
		{Event: EventMovePlayed, Timestamp: day, Payload: map[string]any{"ply": 1}},
	}
	used := 0
	for _, e := range events {
		data, err := json.Marshal(e)
		require.NoError(t, err)
		var decoded Event
		require.NoError(t, json.Unmarshal(data, &decoded))
		if m.Record(decoded) {
			used++
		}
	}
	assert.Equal(t, 3, used)

	s := m.Summary()
	assert.Equal(t, 3, s.Matches)
	assert.Equal(t, 1, s.Draws)
	assert.Equal(t, 1, s.Surrenders)
	assert.Equal(t, map[string]int{"Player1": 1, "Hansi": 1}, s.WinsByPlayer)
	assert.Equal(t, map[string]int{"red": 1, "yellow": 1}, s.WinsByColor)
	assert.Equal(t, map[string]int{"Player1": 3, "Hansi": 3}, s.MatchesPlayed)
	assert.Equal(t, map[string]int{"2026-10-17": 2, "2026-10-18": 1}, s.MatchesPerDay)
	assert.InDelta(t, 17.0, s.AveragePlies, 1e-9)
	assert.InDelta(t, 40.0, s.AverageSeconds, 1e-9)

	assert.NotPanics(t, func() { m.Log(quietLogger()) })
}

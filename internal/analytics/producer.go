package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Martin-Matzer/connect-4/internal/game"
)

const (
	EventMatchStarted  = "match_started"
	EventMovePlayed    = "move_played"
	EventMatchFinished = "match_finished"
)

// Event is the envelope written to the topic.
type Event struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes match events. A nil *Producer is valid and drops
// everything, so callers need not check whether Kafka is configured.
type Producer struct {
	writer  messageWriter
	log     logrus.FieldLogger
	timeout time.Duration
	now     func() time.Time
}

func NewProducer(brokers []string, topic string, log logrus.FieldLogger) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil && log != nil {
				log.WithError(err).WithField("messages", len(messages)).Warn("kafka publish failed")
			}
		},
	}
	return newProducer(writer, log)
}

func newProducer(w messageWriter, log logrus.FieldLogger) *Producer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Producer{writer: w, log: log, timeout: 2 * time.Second, now: time.Now}
}

func (p *Producer) Publish(ctx context.Context, event, key string, payload map[string]any) {
	if p == nil || p.writer == nil {
		return
	}
	data, err := json.Marshal(Event{Event: event, Payload: payload, Timestamp: p.now().UTC()})
	if err != nil {
		p.log.WithError(err).WithField("event", event).Warn("event encode failed")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data}); err != nil {
		p.log.WithError(err).WithField("event", event).Warn("kafka publish failed")
	}
}

func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}
	_ = p.writer.Close()
}

func playerNames(ps [2]*game.Player) []string {
	return []string{ps[0].Name, ps[1].Name}
}

func (p *Producer) MatchStarted(m game.MatchInfo) {
	if p == nil {
		return
	}
	p.Publish(context.Background(), EventMatchStarted, m.ID, map[string]any{
		"matchId":   m.ID,
		"match":     m.Number,
		"players":   playerNames(m.Players),
		"starter":   m.Starter.Name,
		"startedAt": m.StartedAt,
	})
}

func (p *Producer) MovePlayed(m game.MoveEvent) {
	if p == nil {
		return
	}
	p.Publish(context.Background(), EventMovePlayed, m.MatchID, map[string]any{
		"matchId": m.MatchID,
		"ply":     m.Ply,
		"player":  m.Player.Name,
		"color":   m.Player.Color,
		"row":     m.Row,
		"column":  m.Column,
	})
}

// MoveRejected is not published; rejections are local input noise.
func (p *Producer) MoveRejected(game.Rejection) {}

func (p *Producer) MatchFinished(r game.MatchResult) {
	if p == nil {
		return
	}
	payload := map[string]any{
		"matchId":   r.MatchID,
		"players":   playerNames(r.Players),
		"status":    r.Outcome.Status,
		"winner":    r.Outcome.WinnerName(),
		"color":     r.Outcome.WinningColor(),
		"plies":     r.Plies,
		"duration":  r.EndedAt.Sub(r.StartedAt).Seconds(),
		"startedAt": r.StartedAt,
		"endedAt":   r.EndedAt,
	}
	if r.Outcome.Surrendered != nil {
		payload["surrendered"] = r.Outcome.Surrendered.Name
	}
	p.Publish(context.Background(), EventMatchFinished, r.MatchID, payload)
}

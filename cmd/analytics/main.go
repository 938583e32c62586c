package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Martin-Matzer/connect-4/internal/analytics"
	"github.com/Martin-Matzer/connect-4/internal/config"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	if log.GetLevel() < logrus.InfoLevel {
		// the consumer exists to print summaries
		log.SetLevel(logrus.InfoLevel)
	}

	brokers := cfg.KafkaBrokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}
	groupID := config.GetEnv("KAFKA_GROUP_ID", "connect4-analytics")
	interval := config.GetEnvAsDuration("SUMMARY_INTERVAL_S", 30*time.Second, time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   cfg.KafkaTopic,
		GroupID: groupID,
	})
	defer reader.Close()

	log.WithFields(logrus.Fields{"brokers": brokers, "topic": cfg.KafkaTopic, "group": groupID}).Info("analytics consumer listening")

	metrics := analytics.NewMetrics()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.Log(log)
			}
		}
	}()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.WithError(err).Fatal("read error")
		}
		var e analytics.Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			log.WithError(err).Warn("failed to unmarshal event")
			continue
		}
		metrics.Record(e)
		log.WithFields(logrus.Fields{
			"event":  e.Event,
			"match":  e.Payload["matchId"],
			"winner": e.Payload["winner"],
		}).Debug("event received")
	}

	metrics.Log(log)
}

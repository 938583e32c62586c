package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Martin-Matzer/connect-4/internal/analytics"
	"github.com/Martin-Matzer/connect-4/internal/config"
	"github.com/Martin-Matzer/connect-4/internal/console"
	"github.com/Martin-Matzer/connect-4/internal/game"
	"github.com/Martin-Matzer/connect-4/internal/server"
	"github.com/Martin-Matzer/connect-4/internal/session"
	"github.com/Martin-Matzer/connect-4/internal/storage"
)

const welcome = `Welcome to Connect-4!

    Rules:
    Players take turns dropping one disc into any column.
    The disc falls to the lowest empty space in that column.
    The goal is to connect four of your discs in a row (horizontal, vertical, or diagonal).
    The first player to connect four wins.
    If the grid fills and no one connects four, the game is a draw.
    -------------
    To surrender the game please enter %q on your turn.

Let's begin!

`

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finished := make(chan struct{})
	go func() {
		select {
		case <-finished:
		case <-ctx.Done():
			// a pending stdin read cannot be cancelled
			fmt.Println()
			log.Warn("interrupted")
			os.Exit(130)
		}
	}()

	err := run(ctx, cfg, log)
	close(finished)
	if err != nil {
		log.WithError(err).Error("connect4 stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	log.WithField("seed", seed).Debug("random source ready")

	store := storage.NewMemoryStore()
	prompt := console.NewPrompter(os.Stdin, os.Stdout)
	renderer := console.NewRenderer(os.Stdout, cfg.BotPause)
	observers := game.Observers{renderer}

	if cfg.WatchAddr != "" {
		srv := server.New(server.Config{Store: store, Logger: log.WithField("component", "spectator")})
		observers = append(observers, srv)
		go func() {
			if err := srv.Serve(ctx, cfg.WatchAddr); err != nil {
				log.WithError(err).Warn("spectator server stopped")
			}
		}()
	}

	if producer := analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log.WithField("component", "analytics")); producer != nil {
		defer producer.Close()
		observers = append(observers, producer)
		log.WithFields(logrus.Fields{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic}).Info("publishing match events")
	}

	fmt.Printf(welcome, console.SurrenderPhrase)

	p1, p2, err := session.NewPlayers(ctx, prompt, prompt, rnd)
	if err != nil {
		return err
	}
	ctrl, err := game.NewController(game.NewBoard(), p1, p2, rnd, game.Options{
		Observer: observers,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	played, err := session.New(ctrl, store, prompt, renderer, log).Run(ctx)
	log.WithField("matches", played).Info("session over")
	if err != nil {
		return err
	}
	fmt.Println("Thanks for playing!")
	return nil
}

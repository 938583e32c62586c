package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	LogLevel     logrus.Level
	WatchAddr    string
	KafkaBrokers []string
	KafkaTopic   string
	BotPause     time.Duration
	Seed         int64
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment variables")
	}

	level, err := logrus.ParseLevel(GetEnv("LOG_LEVEL", "warn"))
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL, using warn: %v", err)
		level = logrus.WarnLevel
	}

	var brokers []string
	for _, b := range strings.Split(GetEnv("KAFKA_BROKERS", ""), ",") {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}

	return Config{
		LogLevel:     level,
		WatchAddr:    GetEnv("WATCH_ADDR", ""),
		KafkaBrokers: brokers,
		KafkaTopic:   GetEnv("KAFKA_TOPIC", "connect4-events"),
		BotPause:     GetEnvAsDuration("BOT_PAUSE_MS", 400*time.Millisecond, time.Millisecond),
		Seed:         GetEnvAsInt64("RANDOM_SEED", 0),
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	return int(GetEnvAsInt64(key, int64(fallback)))
}

func GetEnvAsInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logrus.Warnf("invalid integer value for %s: %s, using default: %d", key, v, fallback)
		return fallback
	}
	return parsed
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, fallback, unit time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid duration value for %s: %s, using default: %s", key, v, fallback)
		return fallback
	}
	return time.Duration(parsed) * unit
}

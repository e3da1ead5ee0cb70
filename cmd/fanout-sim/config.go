package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type config struct {
	BucketCapacity int           `env:"BUCKET_CAPACITY" envDefault:"20"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"30s"`
	AutoEnrollAll  bool          `env:"AUTO_ENROLL_ALL" envDefault:"true"`
	Scope          string        `env:"SCOPE" envDefault:"world"`
	EventKind      string        `env:"EVENT_KIND" envDefault:"damage"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`

	StatsEnabled       bool          `env:"STATS_ENABLED" envDefault:"false"`
	StatsRedisAddr     string        `env:"STATS_REDIS_ADDR"`
	StatsRedisPassword string        `env:"STATS_REDIS_PASSWORD"`
	StatsRedisDB       int           `env:"STATS_REDIS_DB" envDefault:"0"`
	StatsPrefix        string        `env:"STATS_PREFIX" envDefault:"bucketpool:stats"`
	StatsTTL           time.Duration `env:"STATS_TTL" envDefault:"24h"`
	StatsBucket        string        `env:"STATS_BUCKET" envDefault:"minute"`
	StatsTrackBuckets  bool          `env:"STATS_TRACK_BUCKETS" envDefault:"false"`
	StatsQueue         int           `env:"STATS_QUEUE" envDefault:"1024"`

	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

func readConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}

	// capacidade e intervalo inválidos são erro fatal de configuração, nunca de execução
	if cfg.BucketCapacity < 1 {
		return config{}, errors.New("BUCKET_CAPACITY must be >= 1")
	}
	if cfg.SweepInterval <= 0 {
		return config{}, errors.New("SWEEP_INTERVAL must be > 0")
	}
	if cfg.StatsEnabled && strings.TrimSpace(cfg.StatsRedisAddr) == "" {
		return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	if cfg.StatsQueue < 1 {
		return config{}, errors.New("STATS_QUEUE must be >= 1")
	}
	return cfg, nil
}

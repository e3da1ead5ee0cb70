package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-fanout/internal/logging"
	"event-fanout/listener/bucketpool"
	"event-fanout/listener/bucketpool/domain"
	"event-fanout/listener/bucketpool/infra"

	"github.com/caarlos0/env/v11"
)

type hostConfig struct {
	FrameRate     int           `env:"FRAME_RATE" envDefault:"30"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"2s"`
	Entities      int           `env:"ENTITIES" envDefault:"50"`
}

func main() {
	// Exemplo: embutindo o pool num host com loop de frames próprio (sem goroutine de sweep)
	logger := logging.New("info")

	var cfg hostConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 30
	}

	world := infra.NewWorld()
	hub := infra.NewHub()
	gate := infra.NewTickGate()

	opts := bucketpool.DefaultOptions()
	opts.SweepInterval = cfg.SweepInterval
	opts.AutoEnrollAll = true
	opts.Scope = "arena"
	opts.Resources = hub
	opts.Liveness = world
	opts.Directory = world
	opts.Scheduler = gate
	opts.Logger = logger

	engine, err := bucketpool.New(opts)
	if err != nil {
		logger.Error("bucket pool error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	engine.AddHandler(func(f domain.Firing) {
		if f.Magnitude >= 50 {
			world.Kill(f.Member)
			world.Spawn("arena")
		}
	})

	for i := 0; i < cfg.Entities; i++ {
		world.Spawn("arena")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	t := time.NewTicker(time.Second / time.Duration(cfg.FrameRate))
	defer t.Stop()

	logger.Info("example host running", slog.Int("frame_rate", cfg.FrameRate), slog.Int("entities", cfg.Entities))
	var frame int
	for {
		select {
		case <-ctx.Done():
			logger.Info("example host stopped", slog.Int("frames", frame), slog.Int("buckets", engine.Len()))
			return
		case <-t.C:
			frame++
			// um acerto por frame, alternando entre dano leve e letal
			targets := world.Enumerate("arena")
			if len(targets) > 0 {
				hub.Fire(domain.EventDamage, targets[frame%len(targets)], 0, float64(frame%100))
			}
			gate.Tick()
		}
	}
}

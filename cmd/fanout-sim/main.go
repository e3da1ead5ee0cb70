package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-fanout/internal/logging"
	"event-fanout/listener/bucketpool"
	"event-fanout/listener/bucketpool/domain"
	"event-fanout/listener/bucketpool/infra"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var runFor, reportEvery time.Duration
	var scenarioPath string

	flagSet := pflag.NewFlagSet("fanout-sim", pflag.ContinueOnError)
	flagSet.DurationVar(&runFor, "duration", 0, "stop after this long (0 = until SIGINT/SIGTERM)")
	flagSet.DurationVar(&reportEvery, "report-every", 5*time.Second, "interval between pool reports (0 disables)")
	flagSet.StringVar(&scenarioPath, "scenario", "", "YAML scenario file (population, spawn and damage rates)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := readConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	sc, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if runFor > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, runFor)
		defer stop()
	}

	shutdownTracing, err := setupTracing(ctx, "fanout-sim", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", slog.String("err", err.Error()))
		}
	}()

	memStats := infra.NewMemoryStatsStore()
	stats := statsFanout{memStats}
	if cfg.StatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.StatsRedisAddr,
			Password: cfg.StatsRedisPassword,
			DB:       cfg.StatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			return fmt.Errorf("redis stats ping error: %w", err)
		}

		redisStats := infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.StatsPrefix),
			infra.WithStatsTTL(cfg.StatsTTL),
			infra.WithStatsBucket(cfg.StatsBucket),
			infra.WithStatsTrackBuckets(cfg.StatsTrackBuckets),
		)
		async := infra.NewAsyncStats(redisStats, cfg.StatsQueue, infra.WithAsyncLogger(logger))
		go async.Run(ctx)
		stats = append(stats, async)
	}

	world := infra.NewWorld()
	hub := infra.NewHub()
	scope := domain.Scope(cfg.Scope)
	kind := domain.EventKind(cfg.EventKind)

	sim := newSimulator(sc, scope, kind, world, hub, nil, memStats, logger)
	sim.populate(time.Now())

	engine, err := bucketpool.New(bucketpool.Options{
		BucketCapacity: cfg.BucketCapacity,
		SweepInterval:  cfg.SweepInterval,
		AutoEnrollAll:  cfg.AutoEnrollAll,
		Scope:          scope,
		EventKind:      kind,
		Resources:      hub,
		Liveness:       world,
		Directory:      world,
		Scheduler:      infra.NewJanitor(ctx, infra.WithJanitorLogger(logger)),
		Stats:          stats,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	sim.engine = engine
	if !cfg.AutoEnrollAll {
		sim.manual = true
		sim.enrollTracked()
	}
	sim.installHandlers()

	logger.Info("simulation started",
		slog.Int("initial_population", sc.InitialPopulation),
		slog.Float64("spawn_per_second", sc.SpawnPerSecond),
		slog.Float64("damage_per_second", sc.DamagePerSecond),
		slog.Duration("lifetime", sc.Lifetime),
		slog.Bool("redis_stats", cfg.StatsEnabled),
	)
	sim.run(ctx, reportEvery)
	return nil
}

// statsFanout grava o mesmo evento em vários stores; o primeiro erro é devolvido.
type statsFanout []domain.StatsStore

func (f statsFanout) Record(ctx context.Context, ev domain.StatsEvent) error {
	var first error
	for _, s := range f {
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

package main

// Validação de carga: várias goroutines criam, ferem e matam entidades enquanto o sweep
// roda em paralelo. No fim confere os invariantes do pool e sai com código 1 se algum falhar.

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"event-fanout/internal/logging"
	"event-fanout/listener/bucketpool"
	"event-fanout/listener/bucketpool/domain"
	"event-fanout/listener/bucketpool/infra"

	"github.com/spf13/pflag"
)

func main() {
	var workers, rounds, capacity, handlers int
	var sweepEvery time.Duration
	var killRatio float64

	flagSet := pflag.NewFlagSet("churn", pflag.ExitOnError)
	flagSet.IntVar(&workers, "workers", 8, "concurrent spawn/fire goroutines")
	flagSet.IntVar(&rounds, "rounds", 5000, "entities spawned per worker")
	flagSet.IntVar(&capacity, "capacity", 20, "bucket capacity")
	flagSet.IntVar(&handlers, "handlers", 3, "handlers registered before the run")
	flagSet.DurationVar(&sweepEvery, "sweep-every", 5*time.Millisecond, "sweep interval")
	flagSet.Float64Var(&killRatio, "kill-ratio", 0.9, "fraction of entities killed right after being hit")
	_ = flagSet.Parse(os.Args[1:])

	logger := logging.New("info")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	world := infra.NewWorld()
	hub := infra.NewHub()
	engine, err := bucketpool.New(bucketpool.Options{
		BucketCapacity: capacity,
		SweepInterval:  sweepEvery,
		AutoEnrollAll:  true,
		Scope:          "churn",
		Resources:      hub,
		Liveness:       world,
		Directory:      world,
		Scheduler:      infra.NewJanitor(ctx),
		Logger:         logger,
	})
	if err != nil {
		logger.Error("bucket pool error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	var calls atomic.Int64
	for i := 0; i < handlers; i++ {
		engine.AddHandler(func(domain.Firing) { calls.Add(1) })
	}

	start := time.Now()
	var fires atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < rounds; i++ {
				m := world.Spawn("churn")
				hub.Fire(domain.EventDamage, m, 0, rng.Float64())
				fires.Add(1)
				if rng.Float64() < killRatio {
					world.Kill(m)
				}
			}
		}(int64(w) + 1)
	}
	wg.Wait()
	cancel()
	elapsed := time.Since(start)
	// espera o janitor sair para as contagens abaixo não mudarem no meio
	time.Sleep(2 * sweepEvery)

	engine.Sweep()

	var failures []string
	if want := fires.Load() * int64(handlers); calls.Load() != want {
		failures = append(failures, fmt.Sprintf("handler calls = %d, want %d", calls.Load(), want))
	}
	for _, b := range engine.Snapshot() {
		if b.Current {
			continue
		}
		alive := false
		for _, m := range b.Members {
			if world.IsAlive(m) {
				alive = true
				break
			}
		}
		if !alive {
			failures = append(failures, fmt.Sprintf("bucket %s has no live member after sweep", b.ID))
		}
	}
	if st := hub.Stats(); st.Live != engine.Len() {
		failures = append(failures, fmt.Sprintf("live resources = %d, live buckets = %d", st.Live, engine.Len()))
	}

	st := hub.Stats()
	logger.Info("churn finished",
		slog.Duration("elapsed", elapsed),
		slog.Int64("fires", fires.Load()),
		slog.Int64("handler_calls", calls.Load()),
		slog.Int("population", world.Population()),
		slog.Int("buckets", engine.Len()),
		slog.Int("resources_created", st.Created),
		slog.Int("resources_destroyed", st.Destroyed),
	)
	if len(failures) > 0 {
		for _, f := range failures {
			logger.Error("invariant violated", slog.String("detail", f))
		}
		os.Exit(1)
	}
	logger.Info("all invariants hold")
}

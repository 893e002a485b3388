// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"perf_exporter/internal/config"
	"perf_exporter/internal/logger"
	"perf_exporter/internal/perfevents"
	"perf_exporter/internal/profileevents"
	"perf_exporter/internal/workload"
)

var (
	version = "0.1.0"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		if errors.Is(err, config.ErrConfigGenerated) {
			fmt.Println("Example config file generated")
			return
		}
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.ConfigureLogging(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure loggers: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("version", version).
		Bool("profiler_enabled", cfg.Profiler.Enabled).
		Int("workers", cfg.Workers.Count).
		Str("listen_address", cfg.Server.ListenAddress).
		Str("metrics_path", cfg.Server.MetricsPath).
		Msg("Starting perf exporter")

	if cfg.Server.PprofEnabled {
		go func() {
			log.Info().Msg("Starting pprof HTTP server on :6060")
			http.ListenAndServe("localhost:6060", nil)
		}()
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Expose the process-wide profile event counters
	prometheus.MustRegister(profileevents.NewCollector(profileevents.Global))
	log.Debug().Msg("- Profile events collector registered")

	profiler := perfevents.NewProfiler()
	log.Debug().Msg("- Profiler created")

	// Start the measured worker pool
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers.Count; i++ {
		wg.Add(1)
		go runWorker(ctx, &wg, i, profiler, cfg)
	}
	log.Info().Int("count", cfg.Workers.Count).Msg("Worker pool started")

	// Set up HTTP server for Prometheus metrics
	http.Handle(cfg.Server.MetricsPath, promhttp.Handler())
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>
            <head><title>Perf Exporter</title></head>
            <body>
            <h1>Perf Exporter v` + version + ` </h1>
            <p><a href="` + cfg.Server.MetricsPath + `">Metrics</a></p>
            </body>
            </html>`))
	})

	log.Info().Str("address", cfg.Server.ListenAddress).Msg("Starting HTTP server")
	srv := &http.Server{Addr: cfg.Server.ListenAddress}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Msg("Perf exporter is ready and measuring...")

	// Wait for context cancellation
	<-ctx.Done()
	log.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	}

	// Workers release their thread descriptors on the way out
	wg.Wait()
	log.Info().Msg("Perf exporter stopped gracefully")
}

// runWorker executes measured work units until the context is cancelled. The
// goroutine stays locked to its OS thread for its whole life so the thread's
// perf descriptors always belong to it, and releases them before exiting.
func runWorker(ctx context.Context, wg *sync.WaitGroup, id int, profiler *perfevents.Profiler, cfg *config.AppConfig) {
	defer wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer profiler.ReleaseThread()

	wlog := logger.NewLoggerWithContext("worker")
	unit := workload.NewUnit(cfg.Workers.WorkSizeKB)
	interval := time.Duration(cfg.Workers.IntervalMs) * time.Millisecond
	var counters perfevents.Counters

	wlog.Debug().Int("worker", id).Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			wlog.Debug().Int("worker", id).Msg("Worker stopping")
			return
		default:
		}

		if cfg.Profiler.Enabled {
			profiler.Begin(&counters)
			unit.Run()
			profiler.End(&counters, profileevents.Global)
		} else {
			unit.Run()
		}

		if interval > 0 {
			select {
			case <-ctx.Done():
				wlog.Debug().Int("worker", id).Msg("Worker stopping")
				return
			case <-time.After(interval):
			}
		}
	}
}

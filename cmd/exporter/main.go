package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/maritime-simulator/core"
	"github.com/signalsfoundry/maritime-simulator/internal/logging"
	"github.com/signalsfoundry/maritime-simulator/internal/observability"
	"github.com/signalsfoundry/maritime-simulator/kb"
	"github.com/signalsfoundry/maritime-simulator/timectrl"
)

func main() {
	metricsAddr := flag.String("metrics-addr", ":8000", "HTTP address for Prometheus /metrics")
	tick := flag.Duration("tick", timectrl.DefaultInterval, "simulation tick interval")
	cooldown := flag.Duration("cooldown", timectrl.DefaultCooldown, "pause after a failed tick before retrying")
	vessels := flag.Int("vessels", 0, "fleet size (0 = scenario or built-in default)")
	scenarioPath := flag.String("scenario", "", "optional YAML scenario overriding the port table and fleet size")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewMaritimeCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		os.Exit(1)
	}
	engineMetrics, err := observability.NewEngineCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise engine metrics", logging.Err(err))
		os.Exit(1)
	}

	scenario, err := core.LoadScenario(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.Err(err))
		os.Exit(1)
	}
	if *vessels > 0 {
		scenario.VesselCount = *vessels
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	now := time.Now().UTC()
	store := kb.NewKnowledgeBase()
	if err := core.InitializePorts(store, rng, scenario.Ports); err != nil {
		log.Error(ctx, "failed to initialise ports", logging.Err(err))
		os.Exit(1)
	}
	if err := core.InitializeFleet(store, rng, scenario.VesselCount, now); err != nil {
		log.Error(ctx, "failed to initialise fleet", logging.Err(err))
		os.Exit(1)
	}

	vesselCount, portCount := store.Counts()
	engineMetrics.SetPopulation(vesselCount, portCount)
	log.Info(ctx, "maritime exporter initialised",
		logging.Int("vessels", vesselCount),
		logging.Int("ports", portCount),
		logging.Any("seed", *seed),
	)

	engine := core.NewSimulationEngine(store, collector, log, rng)

	// Backfill the 24h trend before the first scrape can arrive.
	core.NewHistoryBootstrapper(engine, log).Backfill(ctx, now)

	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	scheduler := timectrl.NewScheduler(*tick, *cooldown, engine.Step, log,
		timectrl.WithTickObserver(engineMetrics.ObserveTick),
	)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info(ctx, "starting simulation scheduler",
		logging.String("interval", tick.String()),
		logging.String("cooldown", cooldown.String()),
	)
	scheduler.Run(runCtx)

	log.Info(ctx, "shutting down maritime exporter")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func serveMetrics(addr string, collector *observability.MaritimeCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

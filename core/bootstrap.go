package core

import (
	"context"
	"time"

	"github.com/signalsfoundry/maritime-simulator/internal/logging"
)

// History backfill: 144 ticks at 10-minute spacing cover the 24 hours
// preceding process start.
const (
	HistoryTicks    = 144
	HistoryInterval = 10 * time.Minute
)

// HistoryBootstrapper replays the full per-tick update with historical
// timestamps so the first scrape already shows a populated 24h trend. It is
// a pure replay: the same code path as a live tick, no real-time delay.
type HistoryBootstrapper struct {
	engine *SimulationEngine
	log    logging.Logger
}

// NewHistoryBootstrapper wires a bootstrapper over the engine.
func NewHistoryBootstrapper(engine *SimulationEngine, log logging.Logger) *HistoryBootstrapper {
	if log == nil {
		log = logging.Noop()
	}
	return &HistoryBootstrapper{engine: engine, log: log}
}

// Backfill runs HistoryTicks full simulation steps ending just before now.
// A tick that fails is logged and skipped; the remaining history still
// runs. It returns the number of ticks executed (failed or not), which is
// always HistoryTicks.
func (b *HistoryBootstrapper) Backfill(ctx context.Context, now time.Time) int {
	start := now.Add(-time.Duration(HistoryTicks) * HistoryInterval)

	b.log.Info(ctx, "backfilling history",
		logging.Int("ticks", HistoryTicks),
		logging.String("from", start.Format(time.RFC3339)),
	)

	ran := 0
	for i := 0; i < HistoryTicks; i++ {
		ts := start.Add(time.Duration(i+1) * HistoryInterval)
		if err := b.engine.Step(ctx, ts, HistoryInterval); err != nil {
			b.log.Warn(ctx, "historical tick failed", logging.Int("tick", i), logging.Err(err))
		}
		ran++
	}

	b.log.Info(ctx, "history backfill complete", logging.Int("ticks", ran))
	return ran
}

package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/maritime-simulator/core"
)

var _ core.MetricsRecorder = (*MaritimeCollector)(nil)

// EngineCollector exposes the simulation loop's own health metrics,
// separate from the simulated feed.
type EngineCollector struct {
	TickDuration prometheus.Histogram
	TicksTotal   prometheus.Counter
	TickFailures prometheus.Counter
	FleetVessels prometheus.Gauge
	TrackedPorts prometheus.Gauge
}

// NewEngineCollector registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_tick_duration_seconds",
		Help:    "Duration of one full simulation tick.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	duration, err := registerHistogram(reg, duration, "simulation_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	ticks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_ticks_total",
		Help: "Cumulative number of attempted simulation ticks.",
	})
	ticks, err = registerCounter(reg, ticks, "simulation_ticks_total")
	if err != nil {
		return nil, err
	}

	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_tick_failures_total",
		Help: "Cumulative number of simulation ticks that returned an error.",
	})
	failures, err = registerCounter(reg, failures, "simulation_tick_failures_total")
	if err != nil {
		return nil, err
	}

	vessels := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_fleet_vessels",
		Help: "Number of vessels in the simulated fleet.",
	})
	vessels, err = registerGauge(reg, vessels, "simulation_fleet_vessels")
	if err != nil {
		return nil, err
	}

	ports := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_tracked_ports",
		Help: "Number of ports in the simulated world.",
	})
	ports, err = registerGauge(reg, ports, "simulation_tracked_ports")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		TickDuration: duration,
		TicksTotal:   ticks,
		TickFailures: failures,
		FleetVessels: vessels,
		TrackedPorts: ports,
	}, nil
}

// ObserveTick records one tick attempt; wired to the scheduler's observer
// hook.
func (c *EngineCollector) ObserveTick(d time.Duration, err error) {
	if c == nil {
		return
	}
	if c.TickDuration != nil {
		c.TickDuration.Observe(d.Seconds())
	}
	if c.TicksTotal != nil {
		c.TicksTotal.Inc()
	}
	if err != nil && c.TickFailures != nil {
		c.TickFailures.Inc()
	}
}

// SetPopulation records the current entity counts.
func (c *EngineCollector) SetPopulation(vessels, ports int) {
	if c == nil {
		return
	}
	if c.FleetVessels != nil {
		c.FleetVessels.Set(float64(vessels))
	}
	if c.TrackedPorts != nil {
		c.TrackedPorts.Set(float64(ports))
	}
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

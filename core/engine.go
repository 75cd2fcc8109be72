package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/maritime-simulator/internal/logging"
	"github.com/signalsfoundry/maritime-simulator/kb"
	"github.com/signalsfoundry/maritime-simulator/model"
)

// ErrMalformedValue indicates a derived indicator came out non-finite.
// The scheduler treats it as transient: skip the tick, retry after cooldown.
var ErrMalformedValue = errors.New("malformed derived value")

// MetricsRecorder is the engine's one-way boundary to the metrics sink.
// Gauge-backed methods are invoked exactly once per tick per label tuple;
// the two Add methods feed the cumulative trade counters and are the only
// monotonic families. Implementations must make each call atomic with
// respect to concurrent scrapes.
type MetricsRecorder interface {
	SetVesselTelemetry(v *model.Vessel)
	SetVesselETADelay(v *model.Vessel, hours float64)
	SetVesselEconomics(v *model.Vessel, consumptionMTPerDay, efficiencyKmPerMT, revenueUSD float64)
	SetVesselStatus(v *model.Vessel, indicator float64)
	SetFleetUtilization(operator string, vesselType model.VesselType, percent float64)

	SetPortState(p *model.Port, berthsOccupied int, congestionIndex float64)
	SetPortTurnaround(p *model.Port, vesselType model.VesselType, hours float64)
	SetPortThroughput(p *model.Port, teuPerHour float64)
	SetPortVesselCount(p *model.Port, status string, count int)

	AddCargoVolume(portCode, cargoType, originCountry, destinationCountry string, teu float64)
	AddTradeRouteVolume(originPort, destinationPort, cargoType string, teu float64)
	SetCargoDistribution(portCode, cargoType string, percent float64)
	SetCountryTradeBalance(country, cargoType string, balanceTEU float64)

	SetSpeedViolation(v *model.Vessel, zone string, limitKnots int, violated bool)
	SetAISQuality(v *model.Vessel)
	SetComplianceScore(v *model.Vessel, score float64)
	SetInspectionRate(portCode, flagCountry string, percent float64)
}

// Turnaround gauges are published for the classes with dedicated baselines.
var turnaroundClasses = []model.VesselType{
	model.VesselTypeContainer,
	model.VesselTypeBulk,
	model.VesselTypeTanker,
}

// portActivityStatuses are the label values of the per-port vessel-count
// gauge. "waiting" tracks the queue; the other two are fresh draws.
var portActivityStatuses = []string{"docked", "waiting", "departing"}

// cargoMovementProbability gates the per-tick cumulative counter updates.
const cargoMovementProbability = 0.3

// SimulationEngine drives one full per-tick update across the fleet, the
// ports, and the derived compliance/trade indicators, publishing the
// results through the MetricsRecorder. It holds no entity state of its
// own; the KnowledgeBase owns the records.
type SimulationEngine struct {
	store  *kb.KnowledgeBase
	rec    MetricsRecorder
	rng    *rand.Rand
	log    logging.Logger
	tracer trace.Tracer
}

// NewSimulationEngine constructs an engine over the given store. A nil
// recorder or logger is replaced with a no-op.
func NewSimulationEngine(store *kb.KnowledgeBase, rec MetricsRecorder, log logging.Logger, rng *rand.Rand) *SimulationEngine {
	if rec == nil {
		rec = noopRecorder{}
	}
	if log == nil {
		log = logging.Noop()
	}
	return &SimulationEngine{
		store:  store,
		rec:    rec,
		rng:    rng,
		log:    log,
		tracer: otel.Tracer("github.com/signalsfoundry/maritime-simulator/core"),
	}
}

// Step runs one complete simulation tick at the given timestamp. interval
// is the wall-clock span the tick represents (10 minutes during backfill,
// the scheduler interval live). Every mutation is clamped field by field,
// so a failed tick leaves the store valid and safe to retry.
func (e *SimulationEngine) Step(ctx context.Context, now time.Time, interval time.Duration) error {
	vesselCount, portCount := e.store.Counts()
	ctx, span := e.tracer.Start(ctx, "simulation.tick", trace.WithAttributes(
		attribute.Int("vessels", vesselCount),
		attribute.Int("ports", portCount),
		attribute.String("tick_time", now.Format(time.RFC3339)),
	))
	defer span.End()

	vessels := e.store.ListVessels()
	ports := e.store.ListPorts()

	if err := e.stepVessels(vessels, now, interval); err != nil {
		return err
	}
	if err := e.stepPorts(ports); err != nil {
		return err
	}
	e.stepComplianceAndTrade(ctx, vessels, ports)
	return nil
}

// stepVessels runs the movement/fuel model and publishes the fleet-operator
// indicator set.
func (e *SimulationEngine) stepVessels(vessels []*model.Vessel, now time.Time, interval time.Duration) error {
	for _, v := range vessels {
		UpdateVessel(v, e.rng, now, interval)

		e.rec.SetVesselTelemetry(v)
		e.rec.SetVesselStatus(v, StatusIndicator(v.Status))

		if v.Status == model.StatusInPort {
			if delay, ok := v.ETADelayHours(); ok {
				e.rec.SetVesselETADelay(v, delay)
			}
		}

		consumption := SampleFuelConsumption(v, e.rng)
		efficiency := FuelEfficiencyKmPerMT(v.SpeedKnots, consumption)
		revenue := v.DailyRevenueUSD * RevenueModifier(v.Status)
		if !finite(consumption, efficiency, revenue) {
			return fmt.Errorf("%w: vessel %s economics", ErrMalformedValue, v.ID)
		}
		e.rec.SetVesselEconomics(v, consumption, efficiency, revenue)
	}

	e.publishFleetUtilization(vessels)
	return nil
}

// publishFleetUtilization emits the share of active vessels for every
// (operator, class) pairing present in the fleet.
func (e *SimulationEngine) publishFleetUtilization(vessels []*model.Vessel) {
	type group struct {
		operator string
		class    model.VesselType
	}
	total := make(map[group]int)
	active := make(map[group]int)
	for _, v := range vessels {
		g := group{v.Operator, v.Type}
		total[g]++
		if utilizationActive(v.Status) {
			active[g]++
		}
	}
	for g, n := range total {
		e.rec.SetFleetUtilization(g.operator, g.class, float64(active[g])/float64(n)*100)
	}
}

func (e *SimulationEngine) stepPorts(ports []*model.Port) error {
	for _, p := range ports {
		UpdatePort(p, e.rng)

		congestion := CongestionIndex(p.OccupancyPercent, p.QueueLength, p.BerthCapacity)
		if !finite(congestion) {
			return fmt.Errorf("%w: port %s congestion", ErrMalformedValue, p.Code)
		}
		e.rec.SetPortState(p, p.BerthsOccupied(), congestion)

		for _, class := range turnaroundClasses {
			e.rec.SetPortTurnaround(p, class, TurnaroundHours(p.TurnaroundBaselineHours(class), congestion))
		}
		e.rec.SetPortThroughput(p, EffectiveThroughput(p.BaseThroughputTEUPerHour, congestion))

		for _, status := range portActivityStatuses {
			count := p.QueueLength
			if status != "waiting" {
				count = e.rng.Intn(16)
			}
			e.rec.SetPortVesselCount(p, status, count)
		}
	}
	return nil
}

func (e *SimulationEngine) stepComplianceAndTrade(ctx context.Context, vessels []*model.Vessel, ports []*model.Port) {
	e.recordCargoMovement(ports)
	e.publishTradeSnapshots(ports)

	for _, v := range vessels {
		zone, limit := SampleSpeedCheck(e.rng)
		violated := v.SpeedKnots > float64(limit)
		e.rec.SetSpeedViolation(v, zone, limit, violated)

		UpdateAISQuality(v, e.rng)
		e.rec.SetAISQuality(v)

		score := ComplianceScore(violated, v.AISSignalQuality, v.ComplianceViolations)
		if !finite(score) {
			// Compliance inputs are all clamped; treat this as a skipped
			// vessel rather than a failed tick.
			e.log.Warn(ctx, "skipping non-finite compliance score", logging.String("vessel_id", v.ID))
			continue
		}
		e.rec.SetComplianceScore(v, score)
	}

	for _, p := range ports {
		for _, idx := range e.rng.Perm(len(TradeCountries))[:min(5, len(TradeCountries))] {
			rate := p.InspectionRatePercent * (0.8 + e.rng.Float64()*0.4)
			e.rec.SetInspectionRate(p.Code, TradeCountries[idx], rate)
		}
	}
}

// recordCargoMovement feeds the two cumulative counters. These are the only
// monotonic families; everything else is a last-write-wins gauge.
func (e *SimulationEngine) recordCargoMovement(ports []*model.Port) {
	if len(ports) < 2 || e.rng.Float64() >= cargoMovementProbability {
		return
	}

	port := ports[e.rng.Intn(len(ports))]
	cargoType := CargoTypes[e.rng.Intn(len(CargoTypes))]
	origin := TradeCountries[e.rng.Intn(len(TradeCountries))]
	destination := origin
	for destination == origin {
		destination = TradeCountries[e.rng.Intn(len(TradeCountries))]
	}
	volume := float64(50 + e.rng.Intn(451))
	e.rec.AddCargoVolume(port.Code, cargoType, origin, destination, volume)

	originPort := ports[e.rng.Intn(len(ports))]
	destinationPort := originPort
	for destinationPort == originPort {
		destinationPort = ports[e.rng.Intn(len(ports))]
	}
	e.rec.AddTradeRouteVolume(originPort.Code, destinationPort.Code, cargoType, volume)
}

// publishTradeSnapshots emits the per-tick sampled distribution and balance
// gauges. These are intentionally fresh draws, not aggregations of the
// cumulative counters; the feed has always shipped them that way.
func (e *SimulationEngine) publishTradeSnapshots(ports []*model.Port) {
	for _, p := range ports {
		total := 0.0
		for range CargoTypes {
			total += float64(1000 + e.rng.Intn(4001))
		}
		for _, cargoType := range CargoTypes {
			amount := float64(100 + e.rng.Intn(1401))
			e.rec.SetCargoDistribution(p.Code, cargoType, amount/total*100)
		}
	}

	for _, country := range TradeCountries {
		for _, cargoType := range CargoTypes {
			balance := float64(e.rng.Intn(20001) - 10000)
			e.rec.SetCountryTradeBalance(country, cargoType, balance)
		}
	}
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// noopRecorder discards every publish; used when the engine runs without a
// sink (tests, dry runs).
type noopRecorder struct{}

func (noopRecorder) SetVesselTelemetry(*model.Vessel)                            {}
func (noopRecorder) SetVesselETADelay(*model.Vessel, float64)                    {}
func (noopRecorder) SetVesselEconomics(*model.Vessel, float64, float64, float64) {}
func (noopRecorder) SetVesselStatus(*model.Vessel, float64)                      {}
func (noopRecorder) SetFleetUtilization(string, model.VesselType, float64)       {}
func (noopRecorder) SetPortState(*model.Port, int, float64)                      {}
func (noopRecorder) SetPortTurnaround(*model.Port, model.VesselType, float64)    {}
func (noopRecorder) SetPortThroughput(*model.Port, float64)                      {}
func (noopRecorder) SetPortVesselCount(*model.Port, string, int)                 {}
func (noopRecorder) AddCargoVolume(string, string, string, string, float64)      {}
func (noopRecorder) AddTradeRouteVolume(string, string, string, float64)         {}
func (noopRecorder) SetCargoDistribution(string, string, float64)                {}
func (noopRecorder) SetCountryTradeBalance(string, string, float64)              {}
func (noopRecorder) SetSpeedViolation(*model.Vessel, string, int, bool)          {}
func (noopRecorder) SetAISQuality(*model.Vessel)                                 {}
func (noopRecorder) SetComplianceScore(*model.Vessel, float64)                   {}
func (noopRecorder) SetInspectionRate(string, string, float64)                   {}

package observability

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/maritime-simulator/model"
)

// MaritimeCollector is the strongly-typed table of every metric family the
// simulation publishes. Keeping the families as struct fields (instead of a
// name-keyed map) catches label-set drift at compile time. Gauge writes and
// counter increments are atomic per series, which is all the scrape path
// needs: a scrape may mix values from a tick in progress with the previous
// tick's, but never observes a torn value.
type MaritimeCollector struct {
	gatherer prometheus.Gatherer

	// Fleet-operator families.
	VesselLatitude        *prometheus.GaugeVec
	VesselLongitude       *prometheus.GaugeVec
	VesselSpeed           *prometheus.GaugeVec
	VesselETADelay        *prometheus.GaugeVec
	VesselFuelConsumption *prometheus.GaugeVec
	VesselFuelEfficiency  *prometheus.GaugeVec
	VesselRevenue         *prometheus.GaugeVec
	VesselStatusIndicator *prometheus.GaugeVec
	FleetUtilization      *prometheus.GaugeVec

	// Port-authority families.
	PortOccupancy      *prometheus.GaugeVec
	PortBerthCapacity  *prometheus.GaugeVec
	PortBerthsOccupied *prometheus.GaugeVec
	PortQueueLength    *prometheus.GaugeVec
	PortCongestion     *prometheus.GaugeVec
	PortTurnaround     *prometheus.GaugeVec
	PortVesselCount    *prometheus.GaugeVec
	PortThroughput     *prometheus.GaugeVec

	// Customs / trade-intelligence families. The two CounterVecs are the
	// only cumulative series; everything else is last-write-wins.
	CargoVolume         *prometheus.CounterVec
	CargoDistribution   *prometheus.GaugeVec
	TradeRouteVolume    *prometheus.CounterVec
	CountryTradeBalance *prometheus.GaugeVec
	SpeedViolation      *prometheus.GaugeVec
	AISQuality          *prometheus.GaugeVec
	ComplianceScore     *prometheus.GaugeVec
	InspectionRate      *prometheus.GaugeVec
}

// NewMaritimeCollector registers the maritime metric families against the
// provided registerer, defaulting to the global Prometheus registry when
// nil. Families already registered with a compatible type are reused.
func NewMaritimeCollector(reg prometheus.Registerer) (*MaritimeCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	b := &collectorBuilder{reg: reg}
	c := &MaritimeCollector{
		gatherer: gatherer,

		VesselLatitude: b.gaugeVec("vessel_latitude",
			"Vessel latitude position.",
			"vessel_id", "vessel_name", "vessel_type", "flag"),
		VesselLongitude: b.gaugeVec("vessel_longitude",
			"Vessel longitude position.",
			"vessel_id", "vessel_name", "vessel_type", "flag"),
		VesselSpeed: b.gaugeVec("vessel_speed_knots",
			"Vessel speed in knots.",
			"vessel_id", "vessel_name", "vessel_type", "flag"),
		VesselETADelay: b.gaugeVec("vessel_eta_delay_hours",
			"Hours difference between ETA and actual arrival (negative = early).",
			"vessel_id", "vessel_name", "vessel_type", "operator", "route"),
		VesselFuelConsumption: b.gaugeVec("vessel_fuel_consumption_mt_per_day",
			"Fuel consumption in metric tons per day.",
			"vessel_id", "vessel_name", "vessel_type", "operator"),
		VesselFuelEfficiency: b.gaugeVec("vessel_fuel_efficiency_km_per_mt",
			"Kilometers per metric ton of fuel.",
			"vessel_id", "vessel_name", "vessel_type", "operator"),
		VesselRevenue: b.gaugeVec("vessel_revenue_per_day_usd",
			"Estimated daily revenue in USD.",
			"vessel_id", "vessel_name", "vessel_type", "operator"),
		VesselStatusIndicator: b.gaugeVec("vessel_status_indicator",
			"Vessel activity indicator (1=underway, 0.8=in port, 0.7=anchored, 0.5=waiting).",
			"vessel_id", "vessel_name", "operator", "status"),
		FleetUtilization: b.gaugeVec("fleet_utilization_percent",
			"Fleet utilization percentage by operator and vessel type.",
			"operator", "vessel_type"),

		PortOccupancy: b.gaugeVec("port_berth_occupancy_percent",
			"Port berth occupancy percentage.",
			"port_code", "port_name", "country", "terminal"),
		PortBerthCapacity: b.gaugeVec("port_berth_capacity_total",
			"Total berth capacity.",
			"port_code", "port_name", "country"),
		PortBerthsOccupied: b.gaugeVec("port_berths_occupied",
			"Number of occupied berths.",
			"port_code", "port_name", "country"),
		PortQueueLength: b.gaugeVec("port_queue_length",
			"Number of vessels waiting for berth.",
			"port_code", "port_name", "country"),
		PortCongestion: b.gaugeVec("port_congestion_index",
			"Port congestion index (0-100, higher = more congested).",
			"port_code", "port_name", "country"),
		PortTurnaround: b.gaugeVec("port_avg_turnaround_hours",
			"Average vessel turnaround time in hours.",
			"port_code", "port_name", "country", "vessel_type"),
		PortVesselCount: b.gaugeVec("port_vessel_count_by_status",
			"Count of vessels by status at port.",
			"port_code", "port_name", "status"),
		PortThroughput: b.gaugeVec("port_throughput_teu_per_hour",
			"Port throughput in TEU per hour.",
			"port_code", "port_name", "country"),

		CargoVolume: b.counterVec("cargo_volume_by_type_teu_total",
			"Total cargo volume by type in TEU.",
			"port_code", "cargo_type", "origin_country", "destination_country"),
		CargoDistribution: b.gaugeVec("cargo_type_distribution_percent",
			"Percentage distribution of cargo types.",
			"port_code", "cargo_type"),
		TradeRouteVolume: b.counterVec("trade_route_volume_teu_total",
			"Total cargo volume by trade route.",
			"origin_port", "destination_port", "cargo_type"),
		CountryTradeBalance: b.gaugeVec("country_trade_balance_teu",
			"Trade balance in TEU (exports - imports).",
			"country", "cargo_type"),
		SpeedViolation: b.gaugeVec("vessel_speed_violation",
			"1 if vessel exceeds speed limit, 0 otherwise.",
			"vessel_id", "vessel_name", "zone", "speed_limit"),
		AISQuality: b.gaugeVec("vessel_ais_signal_quality_percent",
			"AIS signal quality percentage.",
			"vessel_id", "vessel_name", "flag"),
		ComplianceScore: b.gaugeVec("vessel_compliance_score",
			"Overall compliance score (0-100).",
			"vessel_id", "vessel_name", "flag", "operator"),
		InspectionRate: b.gaugeVec("customs_inspection_rate_percent",
			"Percentage of vessels inspected.",
			"port_code", "flag_country"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *MaritimeCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ---- core.MetricsRecorder implementation ----

// SetVesselTelemetry publishes position and speed for one vessel.
func (c *MaritimeCollector) SetVesselTelemetry(v *model.Vessel) {
	if c == nil || v == nil {
		return
	}
	c.VesselLatitude.WithLabelValues(v.ID, v.Name, string(v.Type), v.Flag).Set(v.Latitude)
	c.VesselLongitude.WithLabelValues(v.ID, v.Name, string(v.Type), v.Flag).Set(v.Longitude)
	c.VesselSpeed.WithLabelValues(v.ID, v.Name, string(v.Type), v.Flag).Set(v.SpeedKnots)
}

// SetVesselETADelay publishes the signed ETA delay for an arrived vessel.
func (c *MaritimeCollector) SetVesselETADelay(v *model.Vessel, hours float64) {
	if c == nil || v == nil {
		return
	}
	c.VesselETADelay.WithLabelValues(v.ID, v.Name, string(v.Type), v.Operator, v.CurrentRoute).Set(hours)
}

// SetVesselEconomics publishes the fuel and revenue indicator set.
func (c *MaritimeCollector) SetVesselEconomics(v *model.Vessel, consumptionMTPerDay, efficiencyKmPerMT, revenueUSD float64) {
	if c == nil || v == nil {
		return
	}
	c.VesselFuelConsumption.WithLabelValues(v.ID, v.Name, string(v.Type), v.Operator).Set(consumptionMTPerDay)
	c.VesselFuelEfficiency.WithLabelValues(v.ID, v.Name, string(v.Type), v.Operator).Set(efficiencyKmPerMT)
	c.VesselRevenue.WithLabelValues(v.ID, v.Name, string(v.Type), v.Operator).Set(revenueUSD)
}

// SetVesselStatus publishes the activity indicator under the vessel's
// current status label.
func (c *MaritimeCollector) SetVesselStatus(v *model.Vessel, indicator float64) {
	if c == nil || v == nil {
		return
	}
	c.VesselStatusIndicator.WithLabelValues(v.ID, v.Name, v.Operator, string(v.Status)).Set(indicator)
}

// SetFleetUtilization publishes the active share for an operator/class pair.
func (c *MaritimeCollector) SetFleetUtilization(operator string, vesselType model.VesselType, percent float64) {
	if c == nil {
		return
	}
	c.FleetUtilization.WithLabelValues(operator, string(vesselType)).Set(percent)
}

// SetPortState publishes the occupancy/queue/congestion gauge set.
func (c *MaritimeCollector) SetPortState(p *model.Port, berthsOccupied int, congestionIndex float64) {
	if c == nil || p == nil {
		return
	}
	c.PortOccupancy.WithLabelValues(p.Code, p.Name, p.Country, "All_Terminals").Set(p.OccupancyPercent)
	c.PortBerthCapacity.WithLabelValues(p.Code, p.Name, p.Country).Set(float64(p.BerthCapacity))
	c.PortBerthsOccupied.WithLabelValues(p.Code, p.Name, p.Country).Set(float64(berthsOccupied))
	c.PortQueueLength.WithLabelValues(p.Code, p.Name, p.Country).Set(float64(p.QueueLength))
	c.PortCongestion.WithLabelValues(p.Code, p.Name, p.Country).Set(congestionIndex)
}

// SetPortTurnaround publishes the congestion-adjusted turnaround for one
// vessel class.
func (c *MaritimeCollector) SetPortTurnaround(p *model.Port, vesselType model.VesselType, hours float64) {
	if c == nil || p == nil {
		return
	}
	c.PortTurnaround.WithLabelValues(p.Code, p.Name, p.Country, string(vesselType)).Set(hours)
}

// SetPortThroughput publishes the congestion-degraded handling rate.
func (c *MaritimeCollector) SetPortThroughput(p *model.Port, teuPerHour float64) {
	if c == nil || p == nil {
		return
	}
	c.PortThroughput.WithLabelValues(p.Code, p.Name, p.Country).Set(teuPerHour)
}

// SetPortVesselCount publishes a per-status vessel count at the port.
func (c *MaritimeCollector) SetPortVesselCount(p *model.Port, status string, count int) {
	if c == nil || p == nil {
		return
	}
	c.PortVesselCount.WithLabelValues(p.Code, p.Name, status).Set(float64(count))
}

// AddCargoVolume increments the cumulative cargo counter.
func (c *MaritimeCollector) AddCargoVolume(portCode, cargoType, originCountry, destinationCountry string, teu float64) {
	if c == nil {
		return
	}
	c.CargoVolume.WithLabelValues(portCode, cargoType, originCountry, destinationCountry).Add(teu)
}

// AddTradeRouteVolume increments the cumulative trade-route counter.
func (c *MaritimeCollector) AddTradeRouteVolume(originPort, destinationPort, cargoType string, teu float64) {
	if c == nil {
		return
	}
	c.TradeRouteVolume.WithLabelValues(originPort, destinationPort, cargoType).Add(teu)
}

// SetCargoDistribution publishes a per-tick cargo-mix percentage.
func (c *MaritimeCollector) SetCargoDistribution(portCode, cargoType string, percent float64) {
	if c == nil {
		return
	}
	c.CargoDistribution.WithLabelValues(portCode, cargoType).Set(percent)
}

// SetCountryTradeBalance publishes a per-tick trade-balance sample.
func (c *MaritimeCollector) SetCountryTradeBalance(country, cargoType string, balanceTEU float64) {
	if c == nil {
		return
	}
	c.CountryTradeBalance.WithLabelValues(country, cargoType).Set(balanceTEU)
}

// SetSpeedViolation publishes the per-tick speed check outcome.
func (c *MaritimeCollector) SetSpeedViolation(v *model.Vessel, zone string, limitKnots int, violated bool) {
	if c == nil || v == nil {
		return
	}
	flag := 0.0
	if violated {
		flag = 1.0
	}
	c.SpeedViolation.WithLabelValues(v.ID, v.Name, zone, strconv.Itoa(limitKnots)).Set(flag)
}

// SetAISQuality publishes the vessel's current transponder quality.
func (c *MaritimeCollector) SetAISQuality(v *model.Vessel) {
	if c == nil || v == nil {
		return
	}
	c.AISQuality.WithLabelValues(v.ID, v.Name, v.Flag).Set(v.AISSignalQuality)
}

// SetComplianceScore publishes the freshly computed compliance score.
func (c *MaritimeCollector) SetComplianceScore(v *model.Vessel, score float64) {
	if c == nil || v == nil {
		return
	}
	c.ComplianceScore.WithLabelValues(v.ID, v.Name, v.Flag, v.Operator).Set(score)
}

// SetInspectionRate publishes a customs inspection-rate sample.
func (c *MaritimeCollector) SetInspectionRate(portCode, flagCountry string, percent float64) {
	if c == nil {
		return
	}
	c.InspectionRate.WithLabelValues(portCode, flagCountry).Set(percent)
}

// collectorBuilder registers vectors one by one, remembering the first
// error so construction reads linearly.
type collectorBuilder struct {
	reg prometheus.Registerer
	err error
}

func (b *collectorBuilder) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	if b.err != nil {
		return vec
	}
	if err := b.reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing
			}
			b.err = fmt.Errorf("collector %s already registered with incompatible type", name)
			return vec
		}
		b.err = err
	}
	return vec
}

func (b *collectorBuilder) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	if b.err != nil {
		return vec
	}
	if err := b.reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
			b.err = fmt.Errorf("collector %s already registered with incompatible type", name)
			return vec
		}
		b.err = err
	}
	return vec
}

package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/signalsfoundry/maritime-simulator/model"
)

func sampleVessel() *model.Vessel {
	return &model.Vessel{
		ID:               "V0001",
		Name:             "Star Navigator",
		Type:             model.VesselTypeContainer,
		Flag:             "SG",
		Operator:         "MSC",
		CurrentRoute:     "Route_7",
		Latitude:         1.25,
		Longitude:        103.9,
		SpeedKnots:       17.5,
		Status:           model.StatusUnderway,
		AISSignalQuality: 92,
	}
}

func samplePort() *model.Port {
	return &model.Port{
		Code:             "SGSIN",
		Name:             "Singapore",
		Country:          "Singapore",
		BerthCapacity:    180,
		OccupancyPercent: 74,
		QueueLength:      6,
	}
}

func TestRecorderSetsLabeledGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewMaritimeCollector(reg)
	if err != nil {
		t.Fatalf("NewMaritimeCollector: %v", err)
	}

	v := sampleVessel()
	c.SetVesselTelemetry(v)
	if got := testutil.ToFloat64(c.VesselSpeed.WithLabelValues("V0001", "Star Navigator", "CONTAINER", "SG")); got != 17.5 {
		t.Fatalf("vessel_speed_knots = %v, want 17.5", got)
	}

	p := samplePort()
	c.SetPortState(p, 133, 74)
	if got := testutil.ToFloat64(c.PortCongestion.WithLabelValues("SGSIN", "Singapore", "Singapore")); got != 74 {
		t.Fatalf("port_congestion_index = %v, want 74", got)
	}
	if got := testutil.ToFloat64(c.PortBerthsOccupied.WithLabelValues("SGSIN", "Singapore", "Singapore")); got != 133 {
		t.Fatalf("port_berths_occupied = %v, want 133", got)
	}

	c.SetSpeedViolation(v, "coastal", 15, true)
	if got := testutil.ToFloat64(c.SpeedViolation.WithLabelValues("V0001", "Star Navigator", "coastal", "15")); got != 1 {
		t.Fatalf("vessel_speed_violation = %v, want 1", got)
	}

	// Gauges are last-write-wins: a second set replaces, not accumulates.
	c.SetComplianceScore(v, 93.3)
	c.SetComplianceScore(v, 88.8)
	if got := testutil.ToFloat64(c.ComplianceScore.WithLabelValues("V0001", "Star Navigator", "SG", "MSC")); got != 88.8 {
		t.Fatalf("vessel_compliance_score = %v, want 88.8", got)
	}
}

func TestCargoCountersAccumulate(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewMaritimeCollector(reg)
	if err != nil {
		t.Fatalf("NewMaritimeCollector: %v", err)
	}

	c.AddCargoVolume("SGSIN", "containers", "CN", "US", 120)
	c.AddCargoVolume("SGSIN", "containers", "CN", "US", 80)
	if got := testutil.ToFloat64(c.CargoVolume.WithLabelValues("SGSIN", "containers", "CN", "US")); got != 200 {
		t.Fatalf("cargo_volume_by_type_teu_total = %v, want 200", got)
	}

	c.AddTradeRouteVolume("SGSIN", "NLRTM", "containers", 300)
	c.AddTradeRouteVolume("SGSIN", "NLRTM", "containers", 50)
	if got := testutil.ToFloat64(c.TradeRouteVolume.WithLabelValues("SGSIN", "NLRTM", "containers")); got != 350 {
		t.Fatalf("trade_route_volume_teu_total = %v, want 350", got)
	}
}

func TestMetricsHandlerExposesFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewMaritimeCollector(reg)
	if err != nil {
		t.Fatalf("NewMaritimeCollector: %v", err)
	}

	v := sampleVessel()
	c.SetVesselTelemetry(v)
	c.SetAISQuality(v)
	c.SetPortState(samplePort(), 133, 74)
	c.AddCargoVolume("SGSIN", "containers", "CN", "US", 100)
	c.SetFleetUtilization("MSC", model.VesselTypeContainer, 80)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"vessel_latitude",
		"vessel_longitude",
		"vessel_speed_knots",
		"vessel_ais_signal_quality_percent",
		"port_berth_occupancy_percent",
		"port_congestion_index",
		"cargo_volume_by_type_teu_total",
		"fleet_utilization_percent",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestCollectorReregistrationReusesFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMaritimeCollector(reg)
	if err != nil {
		t.Fatalf("first NewMaritimeCollector: %v", err)
	}
	second, err := NewMaritimeCollector(reg)
	if err != nil {
		t.Fatalf("second NewMaritimeCollector: %v", err)
	}

	first.AddCargoVolume("SGSIN", "containers", "CN", "US", 40)
	second.AddCargoVolume("SGSIN", "containers", "CN", "US", 60)
	if got := testutil.ToFloat64(first.CargoVolume.WithLabelValues("SGSIN", "containers", "CN", "US")); got != 100 {
		t.Fatalf("shared counter = %v, want 100", got)
	}
}

func TestEngineCollectorObservesTicks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	c.ObserveTick(20*time.Millisecond, nil)
	c.ObserveTick(30*time.Millisecond, errTest)
	c.SetPopulation(75, 15)

	if got := testutil.ToFloat64(c.TicksTotal); got != 2 {
		t.Fatalf("simulation_ticks_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.TickFailures); got != 1 {
		t.Fatalf("simulation_tick_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.FleetVessels); got != 75 {
		t.Fatalf("simulation_fleet_vessels = %v, want 75", got)
	}
	if got := testutil.ToFloat64(c.TrackedPorts); got != 15 {
		t.Fatalf("simulation_tracked_ports = %v, want 15", got)
	}
	if count := histogramSampleCount(t, reg, "simulation_tick_duration_seconds"); count != 2 {
		t.Fatalf("simulation_tick_duration_seconds sample_count = %d, want 2", count)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		var m *dto.Metric
		for _, candidate := range mf.Metric {
			if candidate.GetHistogram() != nil {
				m = candidate
				break
			}
		}
		if m != nil {
			return m.GetHistogram().GetSampleCount()
		}
	}
	return 0
}

var errTest = &tickError{}

type tickError struct{}

func (*tickError) Error() string { return "tick failed" }

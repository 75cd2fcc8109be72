package core

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/signalsfoundry/maritime-simulator/kb"
	"github.com/signalsfoundry/maritime-simulator/model"
)

// vesselClassSpec bounds the randomized attributes of a vessel class.
type vesselClassSpec struct {
	Type       model.VesselType
	MinTEU     int
	MaxTEU     int
	MinSpeed   float64
	MaxSpeed   float64
	MinRevenue float64
	MaxRevenue float64
}

var vesselClassSpecs = []vesselClassSpec{
	{model.VesselTypeContainer, 2000, 8000, 15, 25, 80000, 150000},
	{model.VesselTypeBulk, 1000, 4000, 12, 18, 40000, 80000},
	{model.VesselTypeTanker, 500, 2000, 10, 16, 60000, 120000},
	{model.VesselTypeGeneral, 200, 1000, 8, 14, 20000, 50000},
	{model.VesselTypeRoRo, 300, 1500, 12, 20, 30000, 70000},
}

var (
	vesselFlags = []string{"MH", "LR", "PA", "SG", "MT", "CY", "GB", "NO", "DK", "NL", "CN", "KR", "JP"}

	vesselOperators = []string{
		"Maersk", "MSC", "COSCO", "CMA CGM", "Hapag-Lloyd",
		"ONE", "Yang Ming", "Evergreen", "PIL", "Zim",
	}

	vesselNamePrefixes = []string{"Star", "Ocean", "Global", "Pacific", "Atlantic", "Northern", "Eastern", "Western"}
	vesselNameSuffixes = []string{"Trader", "Pioneer", "Voyager", "Navigator", "Explorer", "Leader", "Champion", "Victory"}
)

// CargoTypes lists the cargo classes tracked by the trade derivation.
var CargoTypes = []string{"containers", "bulk_dry", "bulk_liquid", "general_cargo", "vehicles"}

// TradeCountries lists the country codes sampled for trade flows.
var TradeCountries = []string{"CN", "SG", "US", "NL", "DE", "KR", "JP", "AE", "GB", "MY", "TH", "VN"}

// DefaultVesselCount is the fleet size used when no scenario overrides it.
const DefaultVesselCount = 75

// NewVessel synthesizes one plausible vessel. The index only feeds the
// stable V%04d identifier; everything else is drawn from the class tables.
func NewVessel(rng *rand.Rand, index int, now time.Time) *model.Vessel {
	spec := vesselClassSpecs[rng.Intn(len(vesselClassSpecs))]

	maxSpeed := spec.MinSpeed + rng.Float64()*(spec.MaxSpeed-spec.MinSpeed)
	status := model.VesselStatuses[rng.Intn(len(model.VesselStatuses))]

	v := &model.Vessel{
		ID:       fmt.Sprintf("V%04d", index+1),
		Name:     vesselNamePrefixes[rng.Intn(len(vesselNamePrefixes))] + " " + vesselNameSuffixes[rng.Intn(len(vesselNameSuffixes))],
		Type:     spec.Type,
		Flag:     vesselFlags[rng.Intn(len(vesselFlags))],
		Operator: vesselOperators[rng.Intn(len(vesselOperators))],

		CapacityTEU: spec.MinTEU + rng.Intn(spec.MaxTEU-spec.MinTEU+1),

		FuelLevelPercent:       30 + rng.Float64()*65,
		DailyFuelConsumptionMT: 50 + rng.Float64()*250,
		MaxSpeedKnots:          maxSpeed,
		DailyRevenueUSD:        spec.MinRevenue + rng.Float64()*(spec.MaxRevenue-spec.MinRevenue),

		Latitude:   -60 + rng.Float64()*130,
		Longitude:  -180 + rng.Float64()*360,
		SpeedKnots: rng.Float64() * maxSpeed,
		HeadingDeg: rng.Float64() * 360,
		Status:     status,

		ETA:               now.Add(time.Duration(1+rng.Intn(168)) * time.Hour),
		LastPortDeparture: now.Add(-time.Duration(1+rng.Intn(72)) * time.Hour),
		CurrentRoute:      fmt.Sprintf("Route_%d", 1+rng.Intn(20)),

		AISSignalQuality:     85 + rng.Float64()*15,
		LastInspection:       now.Add(-time.Duration(1+rng.Intn(365)) * 24 * time.Hour),
		ComplianceViolations: rng.Intn(4),
	}

	// Ships on the move carry a load; berthed ones are mid-exchange.
	if status == model.StatusUnderway || status == model.StatusAtAnchor {
		lo := int(float64(v.CapacityTEU) * 0.3)
		hi := int(float64(v.CapacityTEU) * 0.95)
		if hi > lo {
			v.CurrentCargoTEU = lo + rng.Intn(hi-lo+1)
		} else {
			v.CurrentCargoTEU = lo
		}
	}

	return v
}

// InitializeFleet populates the store with n freshly synthesized vessels.
func InitializeFleet(store *kb.KnowledgeBase, rng *rand.Rand, n int, now time.Time) error {
	for i := 0; i < n; i++ {
		if err := store.AddVessel(NewVessel(rng, i, now)); err != nil {
			return fmt.Errorf("initialize fleet: %w", err)
		}
	}
	return nil
}

// InitializePorts populates the store from the port specs, randomizing the
// operational fields within their plausible ranges.
func InitializePorts(store *kb.KnowledgeBase, rng *rand.Rand, specs []PortSpec) error {
	for _, spec := range specs {
		if err := store.AddPort(newPort(rng, spec)); err != nil {
			return fmt.Errorf("initialize ports: %w", err)
		}
	}
	return nil
}

func newPort(rng *rand.Rand, spec PortSpec) *model.Port {
	terminals := make([]string, spec.Terminals)
	for i := range terminals {
		terminals[i] = fmt.Sprintf("Terminal_%c", 'A'+i)
	}

	occupancy := 40 + rng.Float64()*55
	queue := rng.Intn(21)
	if queue > spec.BerthCapacity {
		queue = spec.BerthCapacity
	}

	return &model.Port{
		Code:        spec.Code,
		Name:        spec.Name,
		Country:     spec.Country,
		CountryCode: spec.CountryCode,

		Latitude:  spec.Latitude,
		Longitude: spec.Longitude,

		BerthCapacity: spec.BerthCapacity,
		Terminals:     terminals,

		OccupancyPercent: clamp(occupancy, 20, 100),
		QueueLength:      queue,

		TurnaroundContainerHours: 8 + rng.Float64()*40,
		TurnaroundBulkHours:      24 + rng.Float64()*72,
		TurnaroundTankerHours:    12 + rng.Float64()*48,

		BaseThroughputTEUPerHour: 50 + rng.Float64()*250,
		InspectionRatePercent:    10 + rng.Float64()*30,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package core

import (
	"math"
	"math/rand"
	"time"

	"github.com/signalsfoundry/maritime-simulator/model"
)

// Transition probabilities per tick. Checks are mutually exclusive: a vessel
// takes at most one transition per tick.
const (
	arrivalProbability   = 0.02 // UNDERWAY -> IN_PORT | WAITING_BERTH
	berthingProbability  = 0.10 // WAITING_BERTH -> IN_PORT
	departureProbability = 0.05 // IN_PORT -> UNDERWAY
)

const (
	knotsToMetersPerSecond = 0.514444
	metersPerDegree        = 111000.0
	nauticalMileKm         = 1.852

	// Fuel drawdown per tick: a hotel-load floor plus a term that scales
	// with how hard the vessel is being driven.
	fuelBaseDrawPerTick     = 0.001
	fuelSpeedDrawPerTick    = 0.01
	departureMinSpeedKnots  = 8.0
	arrivalMaxSpeedKnots    = 3.0
	waitingMaxSpeedKnots    = 2.0
	departureETAMinOffsetHr = -72
	departureETAMaxOffsetHr = 168
)

// UpdateVessel advances one vessel by a single tick: status transition,
// speed walk, fuel draw, and dead-reckoning position integration. now is
// the tick's timestamp (historical during backfill) and interval the
// wall-clock span the tick represents.
func UpdateVessel(v *model.Vessel, rng *rand.Rand, now time.Time, interval time.Duration) {
	switch v.Status {
	case model.StatusUnderway:
		// Random-walk the cruising speed within [0,max].
		v.SpeedKnots = clamp(v.SpeedKnots+rng.Float64()*2-1, 0, v.MaxSpeedKnots)

		if rng.Float64() < arrivalProbability {
			if rng.Intn(2) == 0 {
				v.Status = model.StatusInPort
			} else {
				v.Status = model.StatusWaitingBerth
			}
			arrived := now
			v.ActualArrival = &arrived
			v.SpeedKnots = rng.Float64() * arrivalMaxSpeedKnots
		}

	case model.StatusWaitingBerth:
		v.SpeedKnots = rng.Float64() * waitingMaxSpeedKnots
		if rng.Float64() < berthingProbability {
			v.Status = model.StatusInPort
		}

	case model.StatusInPort:
		v.SpeedKnots = 0
		if rng.Float64() < departureProbability {
			v.Status = model.StatusUnderway
			offset := departureETAMinOffsetHr + rng.Float64()*(departureETAMaxOffsetHr-departureETAMinOffsetHr)
			v.ETA = now.Add(time.Duration(offset * float64(time.Hour)))
			v.LastPortDeparture = now
			v.ActualArrival = nil
			v.SpeedKnots = departureMinSpeedKnots + rng.Float64()*(v.MaxSpeedKnots-departureMinSpeedKnots)
		}

	case model.StatusAtAnchor:
		// Holding state; vessels only leave it via re-initialization.
	}

	burnFuel(v)
	integratePosition(v, interval)
}

func burnFuel(v *model.Vessel) {
	draw := fuelBaseDrawPerTick
	if v.MaxSpeedKnots > 0 {
		draw += v.SpeedKnots / v.MaxSpeedKnots * fuelSpeedDrawPerTick
	}
	v.FuelLevelPercent = clamp(v.FuelLevelPercent-draw, 0, 100)
}

// integratePosition dead-reckons the vessel along its heading for the tick
// interval, treating one degree as a fixed 111 km. Coordinates are clamped
// rather than wrapped at the boundaries.
func integratePosition(v *model.Vessel, interval time.Duration) {
	if v.Status != model.StatusUnderway || v.SpeedKnots <= 0 {
		return
	}

	speedMS := v.SpeedKnots * knotsToMetersPerSecond
	distanceDeg := speedMS * interval.Seconds() / metersPerDegree

	headingRad := v.HeadingDeg * math.Pi / 180
	v.Latitude = clamp(v.Latitude+distanceDeg*math.Cos(headingRad), -90, 90)
	v.Longitude = clamp(v.Longitude+distanceDeg*math.Sin(headingRad), -180, 180)
}

// SampleFuelConsumption jitters the vessel's baseline burn rate by ±10%.
func SampleFuelConsumption(v *model.Vessel, rng *rand.Rand) float64 {
	return v.DailyFuelConsumptionMT * (1 + (rng.Float64()*0.2 - 0.1))
}

// FuelEfficiencyKmPerMT is the distance covered per day divided by the
// day's fuel burn. Zero consumption yields zero rather than dividing.
func FuelEfficiencyKmPerMT(speedKnots, consumptionMTPerDay float64) float64 {
	if consumptionMTPerDay <= 0 {
		return 0
	}
	return speedKnots * 24 * nauticalMileKm / consumptionMTPerDay
}

// RevenueModifier discounts a vessel's baseline daily revenue by status:
// berthed ships earn less, ships stuck in the queue earn almost nothing.
func RevenueModifier(status model.VesselStatus) float64 {
	switch status {
	case model.StatusInPort:
		return 0.8
	case model.StatusWaitingBerth:
		return 0.3
	default:
		return 1.0
	}
}

// StatusIndicator maps a status onto the dashboard's activity scale.
func StatusIndicator(status model.VesselStatus) float64 {
	switch status {
	case model.StatusUnderway:
		return 1.0
	case model.StatusInPort:
		return 0.8
	case model.StatusAtAnchor:
		return 0.7
	case model.StatusWaitingBerth:
		return 0.5
	default:
		return 0
	}
}

// utilizationActive reports whether a vessel counts toward fleet
// utilization.
func utilizationActive(status model.VesselStatus) bool {
	return status == model.StatusUnderway || status == model.StatusInPort
}

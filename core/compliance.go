package core

import (
	"math/rand"

	"github.com/signalsfoundry/maritime-simulator/model"
)

// SpeedZones are the enforcement zones a vessel can be checked against.
var SpeedZones = []string{"port_approach", "coastal", "open_sea"}

// ZoneSpeedLimits are the candidate limits in knots.
var ZoneSpeedLimits = []int{12, 15, 20, 25}

// SampleSpeedCheck draws this tick's zone assignment and speed limit for a
// vessel. Assignments are re-sampled every tick; they are not sticky.
func SampleSpeedCheck(rng *rand.Rand) (zone string, limitKnots int) {
	return SpeedZones[rng.Intn(len(SpeedZones))], ZoneSpeedLimits[rng.Intn(len(ZoneSpeedLimits))]
}

// UpdateAISQuality random-walks the transponder quality, biased to decay
// slightly faster than it recovers, clamped to [60,100].
func UpdateAISQuality(v *model.Vessel, rng *rand.Rand) {
	v.AISSignalQuality = clamp(v.AISSignalQuality+(rng.Float64()*3-2), 60, 100)
}

// ComplianceScore is the arithmetic mean of three factors: the speed check
// (100 clean, 70 violated), the current AIS quality, and a history penalty
// of 90 minus 10 per recorded violation floored at 60. It is recomputed
// fresh each tick, never smoothed.
func ComplianceScore(speedViolated bool, aisQuality float64, recordedViolations int) float64 {
	speedFactor := 100.0
	if speedViolated {
		speedFactor = 70.0
	}

	historyFactor := 90.0 - 10.0*float64(recordedViolations)
	if historyFactor < 60 {
		historyFactor = 60
	}

	return (speedFactor + aisQuality + historyFactor) / 3
}

package core

import (
	"math/rand"

	"github.com/signalsfoundry/maritime-simulator/model"
)

// Congestion weighting: occupancy dominates, queue pressure tops it up.
const (
	congestionOccupancyWeight = 70.0
	congestionQueueWeight     = 30.0

	turnaroundCongestionFactor = 0.5 // up to +50% at full congestion
	throughputBaseFactor       = 1.2
	throughputCongestionFactor = 0.4
)

// UpdatePort advances one port by a single tick: the occupancy and queue
// random walks, clamped to their invariant ranges.
func UpdatePort(p *model.Port, rng *rand.Rand) {
	p.OccupancyPercent = clamp(p.OccupancyPercent+(rng.Float64()*6-3), 20, 100)
	p.QueueLength = clampInt(p.QueueLength+rng.Intn(6)-2, 0, p.BerthCapacity)
}

// CongestionIndex is the single authoritative congestion formula. All
// downstream effects (turnaround, throughput) must derive from this value.
func CongestionIndex(occupancyPercent float64, queueLength, berthCapacity int) float64 {
	if berthCapacity <= 0 {
		return 0
	}
	index := congestionOccupancyWeight*(occupancyPercent/100) +
		congestionQueueWeight*(float64(queueLength)/float64(berthCapacity))
	if index > 100 {
		index = 100
	}
	return index
}

// TurnaroundHours inflates a baseline turnaround by the port's congestion.
func TurnaroundHours(baselineHours, congestionIndex float64) float64 {
	return baselineHours * (1 + congestionIndex/100*turnaroundCongestionFactor)
}

// EffectiveThroughput degrades the base handling rate as congestion rises.
// Floored at zero even though the base values keep it positive in practice.
func EffectiveThroughput(baseTEUPerHour, congestionIndex float64) float64 {
	throughput := baseTEUPerHour * (throughputBaseFactor - congestionIndex/100*throughputCongestionFactor)
	if throughput < 0 {
		return 0
	}
	return throughput
}

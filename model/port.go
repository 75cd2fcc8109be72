package model

import "math"

// Port is a simulated port terminal complex. Code, Name, Country,
// CountryCode, coordinates, BerthCapacity, Terminals and the turnaround
// baselines are fixed at creation; occupancy and queue evolve tick by tick.
type Port struct {
	Code        string
	Name        string
	Country     string
	CountryCode string

	Latitude  float64
	Longitude float64

	BerthCapacity int
	Terminals     []string

	// OccupancyPercent is the share of berths in use, held in [20,100].
	OccupancyPercent float64
	// QueueLength is the number of vessels waiting for a berth, held in
	// [0,BerthCapacity].
	QueueLength int

	// Turnaround baselines in hours per vessel class, before congestion
	// inflation.
	TurnaroundContainerHours float64
	TurnaroundBulkHours      float64
	TurnaroundTankerHours    float64

	// BaseThroughputTEUPerHour is the uncongested handling rate.
	BaseThroughputTEUPerHour float64
	// InspectionRatePercent is the customs inspection baseline.
	InspectionRatePercent float64
}

// TurnaroundBaselineHours returns the uncongested turnaround baseline for a
// vessel class. Classes without a dedicated baseline fall back to the
// general-cargo (container) figure.
func (p *Port) TurnaroundBaselineHours(t VesselType) float64 {
	switch t {
	case VesselTypeBulk:
		return p.TurnaroundBulkHours
	case VesselTypeTanker:
		return p.TurnaroundTankerHours
	default:
		return p.TurnaroundContainerHours
	}
}

// BerthsOccupied converts the occupancy percentage into a whole berth count.
// The result never exceeds BerthCapacity.
func (p *Port) BerthsOccupied() int {
	occupied := int(math.Floor(p.OccupancyPercent / 100 * float64(p.BerthCapacity)))
	if occupied > p.BerthCapacity {
		occupied = p.BerthCapacity
	}
	if occupied < 0 {
		occupied = 0
	}
	return occupied
}

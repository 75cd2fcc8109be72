package model

import "time"

// VesselType classifies a hull by the service it runs.
type VesselType string

const (
	VesselTypeContainer VesselType = "CONTAINER"
	VesselTypeBulk      VesselType = "BULK"
	VesselTypeTanker    VesselType = "TANKER"
	VesselTypeGeneral   VesselType = "GENERAL"
	VesselTypeRoRo      VesselType = "RORO"
)

// VesselTypes lists all known vessel types in a stable order.
var VesselTypes = []VesselType{
	VesselTypeContainer,
	VesselTypeBulk,
	VesselTypeTanker,
	VesselTypeGeneral,
	VesselTypeRoRo,
}

// VesselStatus is the navigational status reported for a vessel.
type VesselStatus string

const (
	StatusUnderway     VesselStatus = "underway"
	StatusAtAnchor     VesselStatus = "at_anchor"
	StatusWaitingBerth VesselStatus = "waiting_berth"
	StatusInPort       VesselStatus = "in_port"
)

// VesselStatuses lists all navigational statuses in a stable order.
var VesselStatuses = []VesselStatus{
	StatusUnderway,
	StatusAtAnchor,
	StatusWaitingBerth,
	StatusInPort,
}

// Vessel is a single simulated ship. ID, Name, Type, Flag, Operator,
// CapacityTEU, MaxSpeedKnots, DailyRevenueUSD and ComplianceViolations are
// fixed at creation; the remaining fields are mutated tick by tick.
type Vessel struct {
	ID       string
	Name     string
	Type     VesselType
	Flag     string
	Operator string

	CapacityTEU     int
	CurrentCargoTEU int

	// FuelLevelPercent is the remaining bunker fuel in [0,100].
	FuelLevelPercent float64
	// DailyFuelConsumptionMT is the baseline burn rate in metric tons per day.
	DailyFuelConsumptionMT float64

	MaxSpeedKnots   float64
	DailyRevenueUSD float64

	Latitude   float64
	Longitude  float64
	SpeedKnots float64
	HeadingDeg float64

	Status VesselStatus

	ETA time.Time
	// ActualArrival is set when the vessel reaches a port; nil while no
	// arrival has been recorded for the current voyage.
	ActualArrival     *time.Time
	LastPortDeparture time.Time
	CurrentRoute      string

	// AISSignalQuality is the transponder signal quality in [60,100].
	AISSignalQuality float64
	LastInspection   time.Time
	// ComplianceViolations is the number of recorded violations on file.
	// Set at creation and never mutated by the simulation.
	ComplianceViolations int
}

// ETADelayHours reports the signed difference between the recorded arrival
// and the promised ETA, in hours. It returns false when no arrival is on
// record.
func (v *Vessel) ETADelayHours() (float64, bool) {
	if v.ActualArrival == nil {
		return 0, false
	}
	return v.ActualArrival.Sub(v.ETA).Hours(), true
}

package kb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/maritime-simulator/model"
)

var (
	// ErrVesselExists indicates a vessel with the same ID is already stored.
	ErrVesselExists = errors.New("vessel already exists")
	// ErrVesselNotFound indicates a requested vessel was not found.
	ErrVesselNotFound = errors.New("vessel not found")
	// ErrVesselInvalid indicates a vessel failed bounds validation.
	ErrVesselInvalid = errors.New("invalid vessel")
	// ErrPortExists indicates a port with the same code is already stored.
	ErrPortExists = errors.New("port already exists")
	// ErrPortNotFound indicates a requested port was not found.
	ErrPortNotFound = errors.New("port not found")
	// ErrPortInvalid indicates a port failed bounds validation.
	ErrPortInvalid = errors.New("invalid port")
)

// KnowledgeBase is an in-memory, thread-safe store for the simulated fleet
// and port set. It owns the records; the dynamics packages mutate them in
// place through the pointers it hands out. The simulation has a single
// writer, so the lock only matters for concurrent readers.
type KnowledgeBase struct {
	mu sync.RWMutex

	vessels map[string]*model.Vessel
	ports   map[string]*model.Port
}

// NewKnowledgeBase constructs an empty store.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		vessels: make(map[string]*model.Vessel),
		ports:   make(map[string]*model.Port),
	}
}

// AddVessel validates and stores a new vessel. It returns ErrVesselExists
// for duplicate IDs and ErrVesselInvalid when a bounded field is out of
// range.
func (kb *KnowledgeBase) AddVessel(v *model.Vessel) error {
	if err := validateVessel(v); err != nil {
		return err
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.vessels[v.ID]; exists {
		return fmt.Errorf("%w: %s", ErrVesselExists, v.ID)
	}
	// store the pointer so dynamics can update fields in place
	kb.vessels[v.ID] = v
	return nil
}

// AddPort validates and stores a new port.
func (kb *KnowledgeBase) AddPort(p *model.Port) error {
	if err := validatePort(p); err != nil {
		return err
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.ports[p.Code]; exists {
		return fmt.Errorf("%w: %s", ErrPortExists, p.Code)
	}
	kb.ports[p.Code] = p
	return nil
}

// GetVessel returns the vessel with the given ID.
func (kb *KnowledgeBase) GetVessel(id string) (*model.Vessel, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	v, ok := kb.vessels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVesselNotFound, id)
	}
	return v, nil
}

// GetPort returns the port with the given code.
func (kb *KnowledgeBase) GetPort(code string) (*model.Port, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	p, ok := kb.ports[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortNotFound, code)
	}
	return p, nil
}

// ListVessels returns all vessels ordered by ID. The slice is fresh; the
// pointed-to records are the live ones.
func (kb *KnowledgeBase) ListVessels() []*model.Vessel {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	res := make([]*model.Vessel, 0, len(kb.vessels))
	for _, v := range kb.vessels {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// ListPorts returns all ports ordered by code.
func (kb *KnowledgeBase) ListPorts() []*model.Port {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	res := make([]*model.Port, 0, len(kb.ports))
	for _, p := range kb.ports {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Code < res[j].Code })
	return res
}

// Counts reports the current population sizes.
func (kb *KnowledgeBase) Counts() (vessels, ports int) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.vessels), len(kb.ports)
}

func validateVessel(v *model.Vessel) error {
	if v == nil || v.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrVesselInvalid)
	}
	if v.CapacityTEU <= 0 {
		return fmt.Errorf("%w: %s: capacity must be positive", ErrVesselInvalid, v.ID)
	}
	if v.CurrentCargoTEU < 0 || v.CurrentCargoTEU > v.CapacityTEU {
		return fmt.Errorf("%w: %s: cargo outside [0,capacity]", ErrVesselInvalid, v.ID)
	}
	if v.Latitude < -90 || v.Latitude > 90 {
		return fmt.Errorf("%w: %s: latitude outside [-90,90]", ErrVesselInvalid, v.ID)
	}
	if v.Longitude < -180 || v.Longitude > 180 {
		return fmt.Errorf("%w: %s: longitude outside [-180,180]", ErrVesselInvalid, v.ID)
	}
	if v.MaxSpeedKnots <= 0 {
		return fmt.Errorf("%w: %s: max speed must be positive", ErrVesselInvalid, v.ID)
	}
	if v.SpeedKnots < 0 || v.SpeedKnots > v.MaxSpeedKnots {
		return fmt.Errorf("%w: %s: speed outside [0,max]", ErrVesselInvalid, v.ID)
	}
	if v.HeadingDeg < 0 || v.HeadingDeg >= 360 {
		return fmt.Errorf("%w: %s: heading outside [0,360)", ErrVesselInvalid, v.ID)
	}
	if v.FuelLevelPercent < 0 || v.FuelLevelPercent > 100 {
		return fmt.Errorf("%w: %s: fuel level outside [0,100]", ErrVesselInvalid, v.ID)
	}
	if v.AISSignalQuality < 60 || v.AISSignalQuality > 100 {
		return fmt.Errorf("%w: %s: AIS quality outside [60,100]", ErrVesselInvalid, v.ID)
	}
	if v.ComplianceViolations < 0 {
		return fmt.Errorf("%w: %s: negative violation count", ErrVesselInvalid, v.ID)
	}
	return nil
}

func validatePort(p *model.Port) error {
	if p == nil || p.Code == "" {
		return fmt.Errorf("%w: missing code", ErrPortInvalid)
	}
	if p.BerthCapacity <= 0 {
		return fmt.Errorf("%w: %s: berth capacity must be positive", ErrPortInvalid, p.Code)
	}
	if p.OccupancyPercent < 20 || p.OccupancyPercent > 100 {
		return fmt.Errorf("%w: %s: occupancy outside [20,100]", ErrPortInvalid, p.Code)
	}
	if p.QueueLength < 0 || p.QueueLength > p.BerthCapacity {
		return fmt.Errorf("%w: %s: queue outside [0,berth capacity]", ErrPortInvalid, p.Code)
	}
	return nil
}

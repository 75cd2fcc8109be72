package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PortSpec describes the immutable identity of a port in a scenario file.
// The operational fields (occupancy, queue, baselines) are randomized at
// initialization.
type PortSpec struct {
	Code          string  `yaml:"code"`
	Name          string  `yaml:"name"`
	Country       string  `yaml:"country"`
	CountryCode   string  `yaml:"country_code"`
	Latitude      float64 `yaml:"latitude"`
	Longitude     float64 `yaml:"longitude"`
	BerthCapacity int     `yaml:"berth_capacity"`
	Terminals     int     `yaml:"terminals"`
}

// Scenario configures the simulated world. Zero values fall back to the
// built-in defaults.
type Scenario struct {
	VesselCount int        `yaml:"vessel_count"`
	Ports       []PortSpec `yaml:"ports,omitempty"`
}

// DefaultPortSpecs mirrors the major container ports tracked by the feed.
func DefaultPortSpecs() []PortSpec {
	return []PortSpec{
		{"SGSIN", "Singapore", "Singapore", "SG", 1.290, 103.851, 180, 4},
		{"CNSHA", "Shanghai", "China", "CN", 31.230, 121.474, 250, 6},
		{"NLRTM", "Rotterdam", "Netherlands", "NL", 51.924, 4.477, 150, 5},
		{"CNNGB", "Ningbo", "China", "CN", 29.868, 121.544, 120, 3},
		{"CNSZX", "Shenzhen", "China", "CN", 22.543, 114.057, 100, 4},
		{"KRPUS", "Busan", "South Korea", "KR", 35.104, 129.042, 90, 3},
		{"HKHKG", "Hong Kong", "Hong Kong", "HK", 22.302, 114.177, 95, 4},
		{"DEHAM", "Hamburg", "Germany", "DE", 53.551, 9.994, 80, 4},
		{"USNYC", "New York", "United States", "US", 40.693, -74.044, 130, 6},
		{"USLAX", "Los Angeles", "United States", "US", 33.742, -118.266, 160, 8},
		{"AEDXB", "Dubai", "UAE", "AE", 25.276, 55.296, 110, 4},
		{"LKCMB", "Colombo", "Sri Lanka", "LK", 6.932, 79.857, 70, 3},
		{"MYPKG", "Port Klang", "Malaysia", "MY", 3.006, 101.399, 85, 4},
		{"VNVUT", "Vung Tau", "Vietnam", "VN", 10.346, 107.084, 55, 2},
		{"THBKK", "Laem Chabang", "Thailand", "TH", 13.086, 100.883, 65, 3},
	}
}

// LoadScenario reads a scenario overlay from a YAML file. An empty path
// yields the built-in defaults.
func LoadScenario(path string) (Scenario, error) {
	s := Scenario{}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("load scenario: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse scenario %s: %w", path, err)
		}
	}
	s.normalize()
	return s, s.validate()
}

func (s *Scenario) normalize() {
	if s.VesselCount <= 0 {
		s.VesselCount = DefaultVesselCount
	}
	if len(s.Ports) == 0 {
		s.Ports = DefaultPortSpecs()
	}
	for i := range s.Ports {
		if s.Ports[i].Terminals <= 0 {
			s.Ports[i].Terminals = 1
		}
	}
}

func (s *Scenario) validate() error {
	seen := make(map[string]struct{}, len(s.Ports))
	for _, p := range s.Ports {
		if p.Code == "" {
			return fmt.Errorf("scenario: port with empty code")
		}
		if _, dup := seen[p.Code]; dup {
			return fmt.Errorf("scenario: duplicate port code %s", p.Code)
		}
		seen[p.Code] = struct{}{}
		if p.BerthCapacity <= 0 {
			return fmt.Errorf("scenario: port %s: berth_capacity must be positive", p.Code)
		}
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return fmt.Errorf("scenario: port %s: coordinates out of range", p.Code)
		}
	}
	return nil
}

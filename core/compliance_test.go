package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/signalsfoundry/maritime-simulator/model"
)

func TestComplianceScore(t *testing.T) {
	// (100 + 90 + 90) / 3 = 93.33…
	got := ComplianceScore(false, 90, 0)
	if math.Abs(got-(100+90+90)/3.0) > 1e-9 {
		t.Fatalf("clean score = %v, want %v", got, (100+90+90)/3.0)
	}

	// Violation swaps the 100 for a 70.
	got = ComplianceScore(true, 90, 0)
	if math.Abs(got-(70+90+90)/3.0) > 1e-9 {
		t.Fatalf("violated score = %v, want %v", got, (70+90+90)/3.0)
	}

	// History penalty floors at 60: 90 - 10×5 would be 40.
	got = ComplianceScore(false, 80, 5)
	if math.Abs(got-(100+80+60)/3.0) > 1e-9 {
		t.Fatalf("penalised score = %v, want %v", got, (100+80+60)/3.0)
	}
}

func TestSampleSpeedCheckDrawsFromFixedSets(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	zones := map[string]bool{}
	limits := map[int]bool{}
	for i := 0; i < 1000; i++ {
		zone, limit := SampleSpeedCheck(rng)
		zones[zone] = true
		limits[limit] = true
	}

	for _, zone := range SpeedZones {
		if !zones[zone] {
			t.Fatalf("zone %s never sampled", zone)
		}
	}
	for _, limit := range ZoneSpeedLimits {
		if !limits[limit] {
			t.Fatalf("limit %d never sampled", limit)
		}
	}
	if len(zones) != len(SpeedZones) || len(limits) != len(ZoneSpeedLimits) {
		t.Fatalf("sampled outside the fixed sets: zones=%v limits=%v", zones, limits)
	}
}

func TestAISQualityWalkStaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	v := &model.Vessel{AISSignalQuality: 80}

	for tick := 0; tick < 5000; tick++ {
		UpdateAISQuality(v, rng)
		if v.AISSignalQuality < 60 || v.AISSignalQuality > 100 {
			t.Fatalf("tick %d: AIS quality %v out of [60,100]", tick, v.AISSignalQuality)
		}
	}
}

func TestAISQualityDecaysOnAverage(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// The step is uniform in [-2,+1]; starting from the ceiling, a long
	// walk should settle well below it.
	v := &model.Vessel{AISSignalQuality: 100}
	sum := 0.0
	const ticks = 10000
	for i := 0; i < ticks; i++ {
		UpdateAISQuality(v, rng)
		sum += v.AISSignalQuality
	}
	if mean := sum / ticks; mean > 90 {
		t.Fatalf("mean AIS quality = %v, want decay pressure below 90", mean)
	}
}

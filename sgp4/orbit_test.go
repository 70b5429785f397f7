package sgp4

import (
	"errors"
	"math"
	"testing"
)

func TestOrbitFromKozaiElements_ISS(t *testing.T) {
	// ISS TLE elements, degrees/rev-per-day converted to radians
	// and rad/min by the caller (package tle normally does this).
	const revPerDayToRadPerMin = 2.0 * math.Pi / (24.0 * 60.0)
	orbit, err := OrbitFromKozaiElements(
		WGS72,
		51.6416*math.Pi/180,
		247.4627*math.Pi/180,
		0.0006703,
		130.5360*math.Pi/180,
		325.0288*math.Pi/180,
		15.72125391*revPerDayToRadPerMin,
	)
	if err != nil {
		t.Fatalf("OrbitFromKozaiElements: %v", err)
	}
	if orbit.Eccentricity != 0.0006703 {
		t.Errorf("Eccentricity = %v, want 0.0006703", orbit.Eccentricity)
	}
	// Brouwer mean motion is slightly less than Kozai for a near-circular
	// low-inclination-correction orbit; it must stay positive and close.
	kozaiMeanMotion := 15.72125391 * revPerDayToRadPerMin
	if orbit.MeanMotion <= 0 {
		t.Fatalf("MeanMotion = %v, want > 0", orbit.MeanMotion)
	}
	if math.Abs(orbit.MeanMotion-kozaiMeanMotion)/kozaiMeanMotion > 0.01 {
		t.Errorf("MeanMotion = %v diverges too far from Kozai input %v", orbit.MeanMotion, kozaiMeanMotion)
	}
}

func TestOrbitFromKozaiElements_InvalidEccentricity(t *testing.T) {
	for _, e := range []float64{-0.1, 1.0, 1.5} {
		_, err := OrbitFromKozaiElements(WGS72, 0, 0, e, 0, 0, 0.01)
		if err == nil {
			t.Errorf("e=%v: expected error", e)
			continue
		}
		if !errors.Is(err, ErrInvalidEccentricity) {
			t.Errorf("e=%v: error = %v, want ErrInvalidEccentricity", e, err)
		}
	}
}

func TestOrbitFromKozaiElements_InvalidMeanMotion(t *testing.T) {
	for _, n := range []float64{0, -0.01} {
		_, err := OrbitFromKozaiElements(WGS72, 0, 0, 0.001, 0, 0, n)
		if err == nil {
			t.Errorf("n=%v: expected error", n)
			continue
		}
		if !errors.Is(err, ErrInvalidMeanMotion) {
			t.Errorf("n=%v: error = %v, want ErrInvalidMeanMotion", n, err)
		}
	}
}

func TestOrbitFromKozaiElements_PreservesAngles(t *testing.T) {
	orbit, err := OrbitFromKozaiElements(WGS72, 0.9, 1.1, 0.01, 2.2, 3.3, 0.01)
	if err != nil {
		t.Fatalf("OrbitFromKozaiElements: %v", err)
	}
	if orbit.InclinationRad != 0.9 || orbit.RightAscensionRad != 1.1 ||
		orbit.ArgPerigeeRad != 2.2 || orbit.MeanAnomalyRad != 3.3 {
		t.Errorf("angles not preserved: %+v", orbit)
	}
}

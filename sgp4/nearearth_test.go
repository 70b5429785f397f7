package sgp4

import (
	"math"
	"testing"
)

func TestNearEarthOrbitalElements_ISS(t *testing.T) {
	orbit0 := issBrouwerOrbit(t)
	pc, err := Build(WGS72, orbit0, -0.11606e-4, 1.0, 8.72)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pc.Method.IsDeepSpace {
		t.Fatal("expected near-Earth method")
	}

	for _, tm := range []float64{0, 1, 10, 360, 1440} {
		p21 := pc.Orbit0.RightAscensionRad + pc.RightAscensionDot*tm
		p22 := pc.Orbit0.ArgPerigeeRad + pc.ArgPerigeeDot*tm
		orbit, a, l, _, _, _, _, _, err := pc.nearEarthOrbitalElements(tm, p21, p22)
		if err != nil {
			t.Fatalf("t=%v: nearEarthOrbitalElements: %v", tm, err)
		}
		if a <= 0 {
			t.Errorf("t=%v: semi-major axis a = %v, want > 0", tm, a)
		}
		if orbit.Eccentricity < 0 || orbit.Eccentricity >= 1 {
			t.Errorf("t=%v: eccentricity = %v, out of range", tm, orbit.Eccentricity)
		}
		if math.IsNaN(l) {
			t.Errorf("t=%v: l is NaN", tm)
		}
	}
}

func TestNearEarthOrbitalElements_DivergingEccentricity(t *testing.T) {
	orbit0 := issBrouwerOrbit(t)
	pc, err := Build(WGS72, orbit0, 10.0, 1.0, 8.72) // absurdly large drag term
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Over a long enough time span, runaway drag must surface as an error
	// rather than a silently garbage eccentricity.
	_, _, _, _, _, _, _, _, err = pc.nearEarthOrbitalElements(1e6, 0, 0)
	if err == nil {
		t.Fatal("expected a diverging-eccentricity error for runaway drag over 1e6 minutes")
	}
	var eccErr *EccentricityError
	if ee, ok := err.(*EccentricityError); ok {
		eccErr = ee
	}
	if eccErr == nil {
		t.Fatalf("error = %v (%T), want *EccentricityError", err, err)
	}
}

func TestNearEarthOrbitalElements_HighAltitudeVsSimple(t *testing.T) {
	orbit0 := issBrouwerOrbit(t)
	pcHigh, err := Build(WGS72, orbit0, -0.11606e-4, 1.0, 8.72)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !pcHigh.Method.NearEarth.HighAltitude.Present {
		t.Fatal("expected HighAltitude.Present for ISS")
	}

	// A near-circular orbit with an artificially lowered perigee should take
	// the simple (non-high-altitude) branch. We can't easily force that
	// through Build's public orbit shape, so just confirm the high-altitude
	// coefficients it did compute are all finite.
	ha := pcHigh.Method.NearEarth.HighAltitude
	for name, v := range map[string]float64{"C5": ha.C5, "D2": ha.D2, "D3": ha.D3, "D4": ha.D4, "K7": ha.K7, "K8": ha.K8, "K9": ha.K9, "K10": ha.K10, "K11": ha.K11} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("HighAltitude.%s = %v, want finite", name, v)
		}
	}
}

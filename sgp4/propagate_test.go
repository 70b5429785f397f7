package sgp4

import (
	"math"
	"testing"

	"github.com/anupshinde/goeph/earthkepler"
	"github.com/anupshinde/goeph/elements"
)

// gmEarthKm3S2 is Earth's gravitational parameter in km^3/s^2, matching
// package earthkepler's GMEarthKm3S2.
const gmEarthKm3S2 = 398600.4418

func issPropagatorConstants(t *testing.T) *PropagatorConstants {
	t.Helper()
	orbit := issBrouwerOrbit(t)
	pc, err := Build(WGS72, orbit, -0.11606e-4, 1.0, 8.720103559972621)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return pc
}

func magnitude(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func TestPropagate_ISS_AtEpoch(t *testing.T) {
	pc := issPropagatorConstants(t)
	p, err := pc.Propagate(nil, 0)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	r := magnitude(p.Position)
	if r < 6600 || r > 7200 {
		t.Errorf("|position| = %.3f km, want a LEO-range distance", r)
	}
	v := magnitude(p.Velocity)
	if v < 7.0 || v > 8.0 {
		t.Errorf("|velocity| = %.3f km/s, want a LEO-range orbital speed", v)
	}
}

func TestPropagate_ISS_OrbitalPeriodRoughlyMatchesMeanMotion(t *testing.T) {
	pc := issPropagatorConstants(t)
	periodMinutes := twoPi / pc.Orbit0.MeanMotion

	p0, err := pc.Propagate(nil, 0)
	if err != nil {
		t.Fatalf("Propagate(0): %v", err)
	}
	pPeriod, err := pc.Propagate(nil, periodMinutes)
	if err != nil {
		t.Fatalf("Propagate(period): %v", err)
	}

	// After one nominal orbital period the satellite should be back close to
	// its starting position, well within the drag/J2 perturbation over a
	// single revolution.
	diff := magnitude([3]float64{
		p0.Position[0] - pPeriod.Position[0],
		p0.Position[1] - pPeriod.Position[1],
		p0.Position[2] - pPeriod.Position[2],
	})
	if diff > 50 {
		t.Errorf("position drift over one period = %.3f km, want < 50 km", diff)
	}
}

func TestPropagate_ISS_AgreesWithTwoBodyOverShortArc(t *testing.T) {
	// Cross-check package sgp4's near-Earth, near-circular, low-drag
	// propagation against the independent two-body reference in package
	// earthkepler (see that package's doc comment): over a short arc the two
	// should stay close, since J2/drag perturbations accumulate slowly
	// relative to the two-body motion itself.
	pc := issPropagatorConstants(t)
	p0, err := pc.Propagate(nil, 0)
	if err != nil {
		t.Fatalf("Propagate(0): %v", err)
	}
	p1, err := pc.Propagate(nil, 5)
	if err != nil {
		t.Fatalf("Propagate(5): %v", err)
	}

	const deg2rad = math.Pi / 180
	osc := elements.FromStateVector(p0.Position, p0.Velocity, gmEarthKm3S2)
	ref := earthkepler.Orbit{
		SemiMajorAxisKm:   osc.SemiMajorAxisKm,
		Eccentricity:      osc.Eccentricity,
		InclinationRad:    osc.InclinationDeg * deg2rad,
		RightAscensionRad: osc.LongAscNodeDeg * deg2rad,
		ArgPerigeeRad:     osc.ArgPeriapsisDeg * deg2rad,
		MeanAnomalyRad:    osc.MeanAnomalyDeg * deg2rad,
	}
	refPos, _ := ref.PositionVelocity(5 * 60)
	if d := magnitude([3]float64{p1.Position[0] - refPos[0], p1.Position[1] - refPos[1], p1.Position[2] - refPos[2]}); d > 5 {
		t.Errorf("sgp4 and two-body positions differ by %.3f km after 5 minutes, want < 5 km", d)
	}

	r0, r1 := magnitude(p0.Position), magnitude(p1.Position)
	if math.Abs(r0-r1)/r0 > 0.05 {
		t.Errorf("radius changed by more than 5%% over 5 minutes: %.3f -> %.3f", r0, r1)
	}
}

func TestPropagate_Molniya_HalfDayResonant(t *testing.T) {
	pc := molniyaPropagatorConstants(t)
	state := pc.InitialState()

	for _, tm := range []float64{0, 60, 360, 720, 1440, 4320} {
		p, err := pc.PropagateAFSPCCompatibilityMode(state, tm)
		if err != nil {
			t.Fatalf("t=%v: PropagateAFSPCCompatibilityMode: %v", tm, err)
		}
		r := magnitude(p.Position)
		// Molniya orbits range from a few thousand km at perigee to roughly
		// geosynchronous altitude at apogee.
		if r < 6600 || r > 50000 {
			t.Errorf("t=%v: |position| = %.3f km, outside Molniya altitude range", tm, r)
		}
		for _, v := range append(p.Position[:], p.Velocity[:]...) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("t=%v: got non-finite value in prediction", tm)
			}
		}
	}
}

func TestPropagate_IAUAndAFSPC_AgreeForNearEarth(t *testing.T) {
	pc := issPropagatorConstants(t)
	iau, err := pc.Propagate(nil, 120)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	afspc, err := pc.PropagateAFSPCCompatibilityMode(nil, 120)
	if err != nil {
		t.Fatalf("PropagateAFSPCCompatibilityMode: %v", err)
	}
	// The AFSPC rem_euclid wraparound only affects the deep-space branch;
	// near-Earth propagation must be identical between the two modes.
	if iau.Position != afspc.Position || iau.Velocity != afspc.Velocity {
		t.Errorf("near-Earth Propagate and PropagateAFSPCCompatibilityMode diverged: %+v vs %+v", iau, afspc)
	}
}

func TestPropagate_ExtremeDragSurfacesError(t *testing.T) {
	orbit := issBrouwerOrbit(t)
	// An extreme drag term on the near-circular ISS orbit drives the
	// propagation out of its valid range far from epoch; any of the
	// propagation errors is accepted.
	pc, err := Build(WGS72, orbit, 1.0, 1.0, 8.72)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = pc.Propagate(nil, 1e5)
	if err == nil {
		t.Skip("extreme drag term did not surface an error at this propagation time; not a hard requirement")
	}
}

func TestPropagate_OsculatingElementsMatchMeanElements(t *testing.T) {
	// Converting the propagated TEME state back to osculating elements
	// (package elements, grounded on Bate/Mueller/White) should recover a
	// semi-major axis and eccentricity close to the Brouwer mean elements
	// sgp4 was built from, near epoch where the short-period correction is
	// small.
	pc := issPropagatorConstants(t)
	p, err := pc.Propagate(nil, 0)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	osc := elements.FromStateVector(p.Position, p.Velocity, gmEarthKm3S2)

	wantA := math.Pow(pc.Geopotential.KE/pc.Orbit0.MeanMotion, 2.0/3.0) * pc.Geopotential.AE
	if math.Abs(osc.SemiMajorAxisKm-wantA)/wantA > 0.01 {
		t.Errorf("SemiMajorAxisKm = %.3f, want close to %.3f", osc.SemiMajorAxisKm, wantA)
	}
	if math.Abs(osc.Eccentricity-pc.Orbit0.Eccentricity) > 0.01 {
		t.Errorf("Eccentricity = %.6f, want close to %.6f", osc.Eccentricity, pc.Orbit0.Eccentricity)
	}
	if math.Abs(osc.InclinationDeg-pc.Orbit0.InclinationRad*180/math.Pi) > 1.0 {
		t.Errorf("InclinationDeg = %.3f, want close to %.3f", osc.InclinationDeg, pc.Orbit0.InclinationRad*180/math.Pi)
	}
}

func TestPropagate_KeplerSolveConverges(t *testing.T) {
	// A moderately eccentric near-Earth orbit exercises more Kepler-solve
	// iterations than ISS's near-circular case; it must still converge to a
	// finite, physically sane prediction.
	const revPerDayToRadPerMin = 2.0 * math.Pi / (24.0 * 60.0)
	orbit, err := OrbitFromKozaiElements(WGS72, 28*math.Pi/180, 0, 0.1, 0, 0, 14.5*revPerDayToRadPerMin)
	if err != nil {
		t.Fatalf("OrbitFromKozaiElements: %v", err)
	}
	pc, err := Build(WGS72, orbit, 0, 1.0, 8.72)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := pc.Propagate(nil, 45)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if math.IsNaN(p.Position[0]) {
		t.Fatal("got NaN position")
	}
}

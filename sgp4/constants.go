package sgp4

import "math"

// periodThreshold is the Brouwer mean motion, in radians/minute, above which
// an orbit's period is under 225 minutes and it is propagated with the
// near-Earth (SGP4) branch; at or below it, the deep-space (SDP4) branch
// applies instead.
const periodThreshold = 2.0 * math.Pi / 225.0

// Elliptic carries the two additional secular-rate coefficients computed
// only when a near-Earth orbit's eccentricity exceeds 1e-4.
type Elliptic struct {
	Present bool
	K12     float64
	K13     float64
}

// HighAltitude carries the drag and secular-rate coefficients computed only
// for near-Earth orbits whose perigee is at or above 220 km.
type HighAltitude struct {
	Present  bool
	C5       float64
	D2       float64
	D3       float64
	D4       float64
	Eta      float64
	K7       float64
	K8       float64
	K9       float64
	K10      float64
	K11      float64
	Elliptic Elliptic
}

// NearEarthMethod holds the coefficients the near-Earth propagation branch
// needs beyond the shared epoch-initialization scalars.
type NearEarthMethod struct {
	A0                 float64
	K2, K3, K4         float64
	K5, K6             float64
	HighAltitude       HighAltitude
}

// ResonanceKind distinguishes the non-resonant, one-day-resonant, and
// half-day-resonant deep-space orbit families.
type ResonanceKind int

const (
	NonResonant ResonanceKind = iota
	OneDayResonant
	HalfDayResonant
)

// Resonance carries the secular-rate coefficients specific to a resonant
// deep-space orbit: either the one-day (geosynchronous) or half-day
// (Molniya-class, 12-hour) resonance family.
type Resonance struct {
	Kind ResonanceKind

	DR1, DR2, DR3 float64 // one-day

	// half-day
	D2201, D2211, D3210, D3222, D4410, D4422, D5220, D5232, D5421, D5433 float64
	K14                                                                  float64
}

// Resonant carries, for a deep-space orbit, the starting state needed to run
// the resonance integrator (Hoots & Roehrich, Spacetrack Report #3, 1980)
// when the orbit is resonant.
type Resonant struct {
	IsResonant    bool
	A0            float64 // valid when !IsResonant
	Lambda0       float64
	LambdaDot0    float64
	SiderealTime0 float64
	Resonance     Resonance
}

// DeepSpaceMethod holds the coefficients the deep-space (SDP4) propagation
// branch needs beyond the shared epoch-initialization scalars: the secular
// rates contributed by solar and lunar third-body perturbation, and the
// resonance classification/state.
type DeepSpaceMethod struct {
	EccentricityDot float64
	InclinationDot  float64
	Solar           Perturbations
	Lunar           Perturbations
	Resonant        Resonant
}

// Method distinguishes the near-Earth and deep-space propagation branches. A
// PropagatorConstants carries exactly one, tagged by IsDeepSpace.
type Method struct {
	IsDeepSpace bool
	NearEarth   NearEarthMethod
	DeepSpace   DeepSpaceMethod
}

// PropagatorConstants holds everything Propagate needs that depends only on
// the orbit at epoch, not on the propagation time t: the shared
// epoch-initialization scalars, the secular rates, and the near-Earth/
// deep-space method coefficients. A *PropagatorConstants is
// immutable after Build returns and is safe to share across any number of
// concurrent Propagate calls; only the caller-owned ResonanceState (see
// resonance.go) carries mutable state.
type PropagatorConstants struct {
	Geopotential Geopotential
	Orbit0       BrouwerOrbit
	DragTerm     float64 // B*, earth radii⁻¹

	RightAscensionDot float64
	ArgPerigeeDot     float64
	MeanAnomalyDot    float64
	C1                float64
	C4                float64
	K0                float64
	K1                float64

	Method Method
}

// Build runs SGP4/SDP4 epoch initialization (Hoots & Roehrich, Spacetrack
// Report #3, 1980; Vallado et al., "Revisiting Spacetrack Report #3", AIAA
// 2006-6753) on a Brouwer orbit and TLE drag term, choosing the near-Earth
// or deep-space branch by the orbit's Brouwer mean motion, and returns the
// resulting PropagatorConstants.
//
// siderealTime0 is the Greenwich mean sidereal time at epoch, in radians
// (IAUEpochToSiderealTime or AFSPCEpochToSiderealTime); t0 is the epoch
// expressed as years since UTC 2000-01-01 12:00. Both are used only by the
// deep-space branch: t0 by the third-body geometry, siderealTime0 by the
// resonance phase.
func Build(geo Geopotential, orbit0 BrouwerOrbit, dragTerm, siderealTime0, t0 float64) (*PropagatorConstants, error) {
	if orbit0.Eccentricity < 0 || orbit0.Eccentricity >= 1 {
		return nil, &EccentricityError{Err: ErrInvalidEccentricity, Eccentricity: orbit0.Eccentricity}
	}

	p1 := math.Cos(orbit0.InclinationRad)
	p2 := 1 - orbit0.Eccentricity*orbit0.Eccentricity
	k6 := 3*p1*p1 - 1
	a0 := math.Pow(geo.KE/orbit0.MeanMotion, 2.0/3.0)
	p3 := a0 * (1 - orbit0.Eccentricity)
	perigee := geo.AE * (p3 - 1)

	var p4 float64
	switch {
	case perigee < 98:
		p4 = 20.0
	case perigee < 156:
		p4 = perigee - 78.0
	default:
		p4 = 78.0
	}
	s := p4/geo.AE + 1
	p5 := math.Pow((120.0-p4)/geo.AE, 4)

	xi := 1 / (a0 - s)
	p6 := p5 * math.Pow(xi, 4)
	eta := a0 * orbit0.Eccentricity * xi
	p7 := math.Abs(1 - eta*eta)
	p8 := p6 / math.Pow(p7, 3.5)

	c1 := dragTerm * (p8 * orbit0.MeanMotion * (a0*(1+1.5*eta*eta+orbit0.Eccentricity*eta*(4+eta*eta)) +
		0.375*geo.J2*xi/p7*k6*(8+3*eta*eta*(8+eta*eta))))

	p9 := 1 / math.Pow(a0*p2, 2)
	b0 := math.Sqrt(p2)
	p10 := 1.5 * geo.J2 * p9 * orbit0.MeanMotion
	p11 := 0.5 * p10 * geo.J2 * p9
	p12 := -0.46875 * geo.J4 * p9 * p9 * orbit0.MeanMotion

	p13 := -p10*p1 + (0.5*p11*(4-19*p1*p1)+2*p12*(3-7*p1*p1))*p1
	k14 := -0.5*p10*(1-5*p1*p1) + 0.0625*p11*(7-114*p1*p1+395*math.Pow(p1, 4)) + p12*(3-36*p1*p1+49*math.Pow(p1, 4))
	p14 := orbit0.MeanMotion + 0.5*p10*b0*k6 + 0.0625*p11*b0*(13-78*p1*p1+137*math.Pow(p1, 4))

	c4 := 2 * orbit0.MeanMotion * p8 * a0 * p2 * (eta*(2+0.5*eta*eta) +
		orbit0.Eccentricity*(0.5+2*eta*eta) -
		geo.J2*xi/(a0*p7)*(-3*k6*(1-2*orbit0.Eccentricity*eta+eta*eta*(1.5-0.5*orbit0.Eccentricity*eta))+
			0.75*(1-p1*p1)*(2*eta*eta-orbit0.Eccentricity*eta*(1+eta*eta))*math.Cos(2*orbit0.ArgPerigeeRad)))

	k0 := 3.5 * p2 * (-p10 * p1) * c1
	k1 := 1.5 * c1

	pc := &PropagatorConstants{
		Geopotential: geo,
		Orbit0:       orbit0,
		DragTerm:     dragTerm,
		C1:           c1,
		C4:           c4,
		K0:           k0,
		K1:           k1,
	}

	if orbit0.MeanMotion > periodThreshold {
		method, raDot, argDot, maDot, err := buildNearEarth(geo, dragTerm, orbit0, p1, a0, s, xi, eta, c1, k1, k6, k14, p3, p6, p8, p13, p14)
		if err != nil {
			return nil, err
		}
		pc.Method = Method{NearEarth: method}
		pc.RightAscensionDot, pc.ArgPerigeeDot, pc.MeanAnomalyDot = raDot, argDot, maDot
		return pc, nil
	}

	method, raDot, argDot, maDot, err := buildDeepSpace(geo, siderealTime0, t0, orbit0, p1, a0, c1, b0, c4, k0, k1, k14, p2, p13, p14)
	if err != nil {
		return nil, err
	}
	pc.Method = Method{IsDeepSpace: true, DeepSpace: method}
	pc.RightAscensionDot, pc.ArgPerigeeDot, pc.MeanAnomalyDot = raDot, argDot, maDot
	return pc, nil
}

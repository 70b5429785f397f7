package sgp4

import "math"

// Prediction is the TEME position and velocity an SGP4/SDP4 propagation
// returns: position in kilometers, velocity in kilometers per second.
type Prediction struct {
	Position [3]float64
	Velocity [3]float64
}

const (
	keplerMaxIterations = 10
	keplerTolerance      = 1.0e-12
	keplerMaxDeltaClamp  = 0.95
)

// Propagate advances the orbit pc was built from by t minutes since epoch
// and returns the resulting TEME state, using Go's signed math.Mod for the
// deep-space Lyddane-branch wraparound. Use PropagateAFSPCCompatibilityMode
// for the AFSPC/Vallado reference-vector convention instead. The sidereal
// time convention is fixed by the siderealTime0 that Build was given.
//
// state must be nil unless pc is a resonant deep-space propagator, in which
// case it must be the *ResonanceState InitialState returned, and repeated
// calls must request monotonically increasing |t| of the same sign (see
// ResonanceState).
func (pc *PropagatorConstants) Propagate(state *ResonanceState, t float64) (Prediction, error) {
	return pc.propagate(state, t, false)
}

// PropagateAFSPCCompatibilityMode is Propagate with the AFSPC/Vallado
// reference implementation's rem_euclid wraparound in the deep-space
// Lyddane branch instead of Go's signed math.Mod.
// The two conventions agree everywhere except a vanishingly small set of
// near-equatorial, low-inclination deep-space orbits; use this mode only
// when bit-matching AFSPC/Vallado reference vectors.
func (pc *PropagatorConstants) PropagateAFSPCCompatibilityMode(state *ResonanceState, t float64) (Prediction, error) {
	return pc.propagate(state, t, true)
}

// InitialState returns the starting *ResonanceState for pc, or nil if pc is
// not a resonant deep-space propagator. Pass the result to Propagate /
// PropagateAFSPCCompatibilityMode on every call for this propagator.
func (pc *PropagatorConstants) InitialState() *ResonanceState {
	if !pc.Method.IsDeepSpace || !pc.Method.DeepSpace.Resonant.IsResonant {
		return nil
	}
	r := pc.Method.DeepSpace.Resonant
	return NewResonanceState(pc.Orbit0.MeanMotion, r.Lambda0)
}

// propagate runs the branch-specific mean-element update (near-Earth or
// deep-space), the Kepler equation solve for eccentric-longitude (E+ω),
// and the short-period J2 correction that assembles the final TEME
// position/velocity (Hoots & Roehrich, Spacetrack Report #3, 1980).
func (pc *PropagatorConstants) propagate(state *ResonanceState, t float64, afspcCompatibility bool) (Prediction, error) {
	p21 := pc.Orbit0.RightAscensionRad + pc.RightAscensionDot*t + pc.K0*t*t
	p22 := pc.Orbit0.ArgPerigeeRad + pc.ArgPerigeeDot*t

	var (
		orbit                         BrouwerOrbit
		a, l, p30, p31, p32, p33, p34 float64
		err                           error
	)
	if pc.Method.IsDeepSpace {
		orbit, a, l, p30, p31, p32, p33, p34, err = pc.deepSpaceOrbitalElements(state, t, p21, p22, afspcCompatibility)
	} else {
		orbit, a, l, p30, p31, p32, p33, p34, err = pc.nearEarthOrbitalElements(t, p21, p22)
	}
	if err != nil {
		return Prediction{}, err
	}

	p35 := 1 / (a * (1 - orbit.Eccentricity*orbit.Eccentricity))
	axn := orbit.Eccentricity * math.Cos(orbit.ArgPerigeeRad)
	ayn := orbit.Eccentricity*math.Sin(orbit.ArgPerigeeRad) + p35*p30

	p36 := math.Mod(l+orbit.ArgPerigeeRad+p35*p33*axn, twoPi)

	ew := p36
	for i := 0; i < keplerMaxIterations; i++ {
		sinEW, cosEW := math.Sin(ew), math.Cos(ew)
		delta := (p36 - ayn*cosEW + axn*sinEW - ew) / (1 - cosEW*axn - sinEW*ayn)
		if math.Abs(delta) < keplerTolerance {
			break
		}
		switch {
		case delta < -keplerMaxDeltaClamp:
			delta = -keplerMaxDeltaClamp
		case delta > keplerMaxDeltaClamp:
			delta = keplerMaxDeltaClamp
		}
		ew += delta
	}

	p37 := axn*axn + ayn*ayn
	pl := a * (1 - p37)
	if pl < 0 {
		return Prediction{}, &SemiLatusRectumError{Err: ErrNegativeSemiLatusRectum, SemiLatusRectum: pl, MinutesSinceEpoch: t}
	}

	sinEW, cosEW := math.Sin(ew), math.Cos(ew)
	p38 := axn*cosEW + ayn*sinEW
	p39 := axn*sinEW - ayn*cosEW

	r := a * (1 - p38)
	rDot := math.Sqrt(a) * p39 / r
	b := math.Sqrt(1 - p37)

	p40 := p39 / (1 + b)
	p41 := a / r * (sinEW - ayn - axn*p40)
	p42 := a / r * (cosEW - axn + ayn*p40)

	u := math.Atan2(p41, p42)
	p43 := 2 * p42 * p41
	p44 := 1 - 2*p41*p41
	p45 := 0.5 * pc.Geopotential.J2 / pl / pl
	halfJ2OverPl := 0.5 * pc.Geopotential.J2 / pl

	rk := r*(1-1.5*p45*b*p34) + 0.5*halfJ2OverPl*p31*p44
	uk := u - 0.25*p45*p32*p43
	cosI, sinI := math.Cos(orbit.InclinationRad), math.Sin(orbit.InclinationRad)
	rightAscensionK := orbit.RightAscensionRad + 1.5*p45*cosI*p43
	inclinationK := orbit.InclinationRad + 1.5*p45*cosI*sinI*p44

	rkDot := rDot - orbit.MeanMotion*halfJ2OverPl*p31*p43/pc.Geopotential.KE
	rfkDot := math.Sqrt(pl)/r + orbit.MeanMotion*halfJ2OverPl*(p31*p44+1.5*p34)/pc.Geopotential.KE

	sinRAK, cosRAK := math.Sin(rightAscensionK), math.Cos(rightAscensionK)
	sinIK, cosIK := math.Sin(inclinationK), math.Cos(inclinationK)
	sinUK, cosUK := math.Sin(uk), math.Cos(uk)

	u0 := -sinRAK*cosIK*sinUK + cosRAK*cosUK
	u1 := cosRAK*cosIK*sinUK + sinRAK*cosUK
	u2 := sinIK * sinUK

	scale := pc.Geopotential.AE * pc.Geopotential.KE / 60.0

	return Prediction{
		Position: [3]float64{
			rk * u0 * pc.Geopotential.AE,
			rk * u1 * pc.Geopotential.AE,
			rk * u2 * pc.Geopotential.AE,
		},
		Velocity: [3]float64{
			(rkDot*u0 + rfkDot*(-sinRAK*cosIK*cosUK-cosRAK*sinUK)) * scale,
			(rkDot*u1 + rfkDot*(cosRAK*cosIK*cosUK-sinRAK*sinUK)) * scale,
			(rkDot*u2 + rfkDot*(sinIK*cosUK)) * scale,
		},
	}, nil
}

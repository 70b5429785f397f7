package sgp4

import "math"

const (
	solarEccentricity = 0.01675
	lunarEccentricity = 0.05490
	solarMeanMotion   = 1.19459e-5
	lunarMeanMotion   = 1.5835218e-4
	solarCoefficient  = 2.9864797e-6
	lunarCoefficient  = 4.7968065e-7
)

// buildDeepSpace computes the deep-space (SDP4) method coefficients, the
// solar/lunar third-body perturbation tables, the resonance classification,
// and the three secular rates, given the shared epoch-initialization
// scalars Build has already computed. siderealTime0/t0 are used only to
// evaluate the third-body geometry and (for resonant orbits) the initial
// resonance phase.
func buildDeepSpace(geo Geopotential, siderealTime0, t0 float64, orbit0 BrouwerOrbit, cosI0, a0, c1, b0, c4, k0, k1, k14, p2, p13, p14 float64) (DeepSpaceMethod, float64, float64, float64, error) {
	d1900 := (t0 + 100.0) * 365.25

	sinI0 := math.Sin(orbit0.InclinationRad)

	ms0 := math.Mod(6.2565837+0.017201977*d1900, twoPi)
	solarPert, solarDots := perturbationsAndDots(
		orbit0.InclinationRad, orbit0.Eccentricity, orbit0.ArgPerigeeRad, orbit0.MeanMotion,
		0.39785416, 0.91744867,
		math.Sin(orbit0.RightAscensionRad), math.Cos(orbit0.RightAscensionRad),
		solarEccentricity, -0.98088458, 0.1945905,
		solarCoefficient, solarMeanMotion, ms0,
		p2, b0,
	)

	lunarRAEpsilon := math.Mod(4.5236020-9.2422029e-4*d1900, twoPi)
	lunarCosI := 0.91375164 - 0.03568096*math.Cos(lunarRAEpsilon)
	lunarSinI := math.Sqrt(1 - lunarCosI*lunarCosI)
	lunarSinRA := 0.089683511 * math.Sin(lunarRAEpsilon) / lunarSinI
	lunarCosRA := math.Sqrt(1 - lunarSinRA*lunarSinRA)
	lunarArgPerigee := 5.8351514 + 0.001944368*d1900 +
		math.Atan2(0.39785416*math.Sin(lunarRAEpsilon)/lunarSinI,
			lunarCosRA*math.Cos(lunarRAEpsilon)+0.91744867*lunarSinRA*math.Sin(lunarRAEpsilon)) -
		lunarRAEpsilon

	ml0 := math.Mod(-1.1151842+0.228027132*d1900, twoPi)
	lunarPert, lunarDots := perturbationsAndDots(
		orbit0.InclinationRad, orbit0.Eccentricity, orbit0.ArgPerigeeRad, orbit0.MeanMotion,
		lunarSinI, lunarCosI,
		math.Sin(orbit0.RightAscensionRad)*lunarCosRA-math.Cos(orbit0.RightAscensionRad)*lunarSinRA,
		lunarCosRA*math.Cos(orbit0.RightAscensionRad)+lunarSinRA*math.Sin(orbit0.RightAscensionRad),
		lunarEccentricity, math.Sin(lunarArgPerigee), math.Cos(lunarArgPerigee),
		lunarCoefficient, lunarMeanMotion, ml0,
		p2, b0,
	)

	raDot := p13 + (solarDots.RightAscension + lunarDots.RightAscension)
	argDot := k14 + (solarDots.ArgPerigee + lunarDots.ArgPerigee)
	maDot := p14 + (solarDots.MeanAnomaly + lunarDots.MeanAnomaly)

	method := DeepSpaceMethod{
		EccentricityDot: solarDots.Eccentricity + lunarDots.Eccentricity,
		InclinationDot:  solarDots.Inclination + lunarDots.Inclination,
		Solar:           solarPert,
		Lunar:           lunarPert,
	}

	n0 := orbit0.MeanMotion
	oneDay := n0 < 0.0052359877 && n0 > 0.0034906585
	halfDay := n0 >= 8.26e-3 && n0 <= 9.24e-3 && orbit0.Eccentricity >= 0.5

	if !oneDay && !halfDay {
		method.Resonant = Resonant{IsResonant: false, A0: a0}
		return method, raDot, argDot, maDot, nil
	}

	var resonant Resonant
	resonant.IsResonant = true
	resonant.SiderealTime0 = siderealTime0

	if oneDay {
		resonant.Lambda0 = math.Mod(orbit0.MeanAnomalyRad+orbit0.RightAscensionRad+orbit0.ArgPerigeeRad-siderealTime0, twoPi)
		resonant.LambdaDot0 = p14 + (k14 + p13) - siderealSpeed +
			(solarDots.MeanAnomaly + lunarDots.MeanAnomaly) +
			(solarDots.ArgPerigee + lunarDots.ArgPerigee) +
			(solarDots.RightAscension + lunarDots.RightAscension) - n0

		p17 := 3 * math.Pow(n0/a0, 2)
		e2 := orbit0.Eccentricity * orbit0.Eccentricity
		resonant.Resonance = Resonance{
			Kind: OneDayResonant,
			DR1: p17 * (0.9375*sinI0*sinI0*(1+3*cosI0) - 0.75*(1+cosI0)) *
				(1 + 2*e2) * 2.1460748e-6 / a0,
			DR2: 2 * p17 * (0.75 * (1 + cosI0) * (1 + cosI0)) *
				(1 + e2*(-2.5+0.8125*e2)) * 1.7891679e-6,
			DR3: 3 * p17 * (1.875 * math.Pow(1+cosI0, 3)) *
				(1 + e2*(-6+6.60937*e2)) * 2.2123015e-7 / a0,
		}
	} else {
		resonant.Lambda0 = math.Mod(orbit0.MeanAnomalyRad+2*orbit0.RightAscensionRad-2*siderealTime0, twoPi)
		resonant.LambdaDot0 = p14 + (solarDots.MeanAnomaly + lunarDots.MeanAnomaly) +
			2*(p13+(solarDots.RightAscension+lunarDots.RightAscension)-siderealSpeed) - n0

		e := orbit0.Eccentricity
		p18 := 3 * n0 * n0 / (a0 * a0)
		p19 := p18 / a0
		p20 := p19 / a0
		p21 := p20 / a0
		f220 := 0.75 * (1 + 2*cosI0 + cosI0*cosI0)

		var g211, g310, g322, g410, g422 float64
		if e <= 0.65 {
			g211 = 3.616 - 13.247*e + 16.29*e*e
			g310 = -19.302 + 117.39*e - 228.419*e*e + 156.591*e*e*e
			g322 = -18.9068 + 109.7927*e - 214.6334*e*e + 146.5816*e*e*e
			g410 = -41.122 + 242.694*e - 471.094*e*e + 313.953*e*e*e
			g422 = -146.407 + 841.88*e - 1629.014*e*e + 1083.435*e*e*e
		} else {
			g211 = -72.099 + 331.819*e - 508.738*e*e + 266.724*e*e*e
			g310 = -346.844 + 1582.851*e - 2415.925*e*e + 1246.113*e*e*e
			g322 = -342.585 + 1554.908*e - 2366.899*e*e + 1215.972*e*e*e
			g410 = -1052.797 + 4758.686*e - 7193.992*e*e + 3651.957*e*e*e
			g422 = -3581.69 + 16178.11*e - 24462.77*e*e + 12422.52*e*e*e
		}

		var g520 float64
		switch {
		case e <= 0.65:
			g520 = -532.114 + 3017.977*e - 5740.032*e*e + 3708.276*e*e*e
		case e < 0.715:
			g520 = 1464.74 - 4664.75*e + 3763.64*e*e
		default:
			g520 = -5149.66 + 29936.92*e - 54087.36*e*e + 31324.56*e*e*e
		}

		var g532, g521, g533 float64
		if e < 0.7 {
			g532 = -853.666 + 4690.25*e - 8624.77*e*e + 5341.4*e*e*e
			g521 = -822.71072 + 4568.6173*e - 8491.4146*e*e + 5337.524*e*e*e
			g533 = -919.2277 + 4988.61*e - 9064.77*e*e + 5542.21*e*e*e
		} else {
			g532 = -40023.88 + 170470.89*e - 242699.48*e*e + 115605.82*e*e*e
			g521 = -51752.104 + 218913.95*e - 309468.16*e*e + 146349.42*e*e*e
			g533 = -37995.78 + 161616.52*e - 229838.2*e*e + 109377.94*e*e*e
		}

		resonant.Resonance = Resonance{
			Kind: HalfDayResonant,
			D2201: p18 * 1.7891679e-6 * f220 * (-0.306 - (e-0.64)*0.44),
			D2211: p18 * 1.7891679e-6 * (1.5 * sinI0 * sinI0) * g211,
			D3210: p19 * 3.7393792e-7 * (1.875 * sinI0 * (1 - 2*cosI0 - 3*cosI0*cosI0)) * g310,
			D3222: p19 * 3.7393792e-7 * (-1.875 * sinI0 * (1 + 2*cosI0 - 3*cosI0*cosI0)) * g322,
			D4410: 2 * p20 * 7.3636953e-9 * (35 * sinI0 * sinI0 * f220) * g410,
			D4422: 2 * p20 * 7.3636953e-9 * (39.375 * math.Pow(sinI0, 4)) * g422,
			D5220: p21 * 1.1428639e-7 * (9.84375 * sinI0 * (sinI0*sinI0*(1-2*cosI0-5*cosI0*cosI0) + 0.33333333*(-2+4*cosI0+6*cosI0*cosI0))) * g520,
			D5232: p21 * 1.1428639e-7 * (sinI0 * (4.92187512*sinI0*sinI0*(-2-4*cosI0+10*cosI0*cosI0) + 6.56250012*(1+2*cosI0-3*cosI0*cosI0))) * g532,
			D5421: 2 * p21 * 2.1765803e-9 * (29.53125 * sinI0 * (2 - 8*cosI0 + cosI0*cosI0*(-12+8*cosI0+10*cosI0*cosI0))) * g521,
			D5433: 2 * p21 * 2.1765803e-9 * (29.53125 * sinI0 * (-2 - 8*cosI0 + cosI0*cosI0*(12+8*cosI0-10*cosI0*cosI0))) * g533,
			K14:   k14,
		}
	}

	method.Resonant = resonant
	return method, raDot, argDot, maDot, nil
}

// deepSpaceOrbitalElements runs the deep-space (SDP4) mean-motion/anomaly
// update (Hoots & Roehrich, Spacetrack Report #3, 1980), dispatching to the
// resonance integrator when resonant, the inclination/right-ascension/
// argument-of-perigee third-body update, and the eccentricity finalization.
//
// It returns the same eight values as nearEarthOrbitalElements, in the same
// roles, so propagate.go can drive the short-period correction and Kepler
// solve identically regardless of branch: orbit, the perturbed semi-major
// axis a, the mean-longitude term l, and the five k2..k6-like scalars
// (p30..p34) that depend on inclination. Deep space has no high-altitude/
// elliptic split, so l is simply the orbit's mean anomaly, and the k2..k6
// analogs are recomputed from the current (third-body-perturbed)
// inclination rather than held fixed at epoch.
func (pc *PropagatorConstants) deepSpaceOrbitalElements(state *ResonanceState, t, p21, p22 float64, afspcCompatibility bool) (orbit BrouwerOrbit, a, l, p30, p31, p32, p33, p34 float64, err error) {
	m := pc.Method.DeepSpace
	p23 := pc.Orbit0.MeanAnomalyRad + pc.MeanAnomalyDot*t

	var semiMajor0, meanAnomaly0 float64
	if !m.Resonant.IsResonant {
		if state != nil {
			panic("sgp4: state must be nil with a non-resonant deep-space propagator")
		}
		semiMajor0 = m.Resonant.A0
		meanAnomaly0 = p23
	} else {
		if state == nil {
			panic("sgp4: state cannot be nil with a resonant deep-space propagator")
		}
		semiMajor0, meanAnomaly0 = state.integrate(pc.Geopotential, pc.Orbit0.ArgPerigeeRad, m.Resonant.LambdaDot0, m.Resonant.Resonance, m.Resonant.SiderealTime0, t, p21, p22)
	}

	solarDE, solarDI, solarDM, ps4, ps5 := m.Solar.longPeriodPeriodicEffects(solarEccentricity, solarMeanMotion, t)
	lunarDE, lunarDI, lunarDM, pl4, pl5 := m.Lunar.longPeriodPeriodicEffects(lunarEccentricity, lunarMeanMotion, t)

	inclination := pc.Orbit0.InclinationRad + m.InclinationDot*t + (solarDI + lunarDI)

	var rightAscension, argPerigee float64
	sinI, cosI := math.Sin(inclination), math.Cos(inclination)
	if inclination >= 0.2 {
		rightAscension = p21 + (ps5+pl5)/sinI
		argPerigee = p22 + (ps4+pl4) - cosI*((ps5+pl5)/sinI)
	} else {
		raArg := math.Atan2(
			sinI*math.Sin(p21)+((ps5+pl5)*math.Cos(p21)+(solarDI+lunarDI)*cosI*math.Sin(p21)),
			sinI*math.Cos(p21)+(-(ps5+pl5)*math.Sin(p21)+(solarDI+lunarDI)*cosI*math.Cos(p21)),
		)
		p21Mod := math.Mod(p21, twoPi)
		switch {
		case raArg < p21Mod-math.Pi:
			rightAscension = raArg + twoPi
		case raArg > p21Mod+math.Pi:
			rightAscension = raArg - twoPi
		default:
			rightAscension = raArg
		}

		var p21Wrapped float64
		if afspcCompatibility {
			p21Wrapped = remEuclid(p21, twoPi)
		} else {
			p21Wrapped = math.Mod(p21, twoPi)
		}
		argPerigee = p22 + (ps4+pl4) + cosI*(p21Mod-rightAscension) - (solarDI+lunarDI)*p21Wrapped*sinI
	}

	eccentricityPreBound := pc.Orbit0.Eccentricity + m.EccentricityDot*t - pc.DragTerm*pc.C4*t
	if eccentricityPreBound < -0.001 || eccentricityPreBound >= 1.0 {
		return BrouwerOrbit{}, 0, 0, 0, 0, 0, 0, 0, &EccentricityError{Err: ErrDivergingEccentricity, Eccentricity: eccentricityPreBound, MinutesSinceEpoch: t}
	}
	eccentricity := math.Max(eccentricityPreBound, 1e-6) + (solarDE + lunarDE)
	if eccentricity < 0 || eccentricity > 1 {
		return BrouwerOrbit{}, 0, 0, 0, 0, 0, 0, 0, &EccentricityError{Err: ErrDivergingPerturbedEccentricity, Eccentricity: eccentricity, MinutesSinceEpoch: t}
	}

	a = semiMajor0 * (1 - pc.C1*t) * (1 - pc.C1*t)
	meanAnomaly := meanAnomaly0 + (solarDM + lunarDM) + pc.Orbit0.MeanMotion*pc.K1*t*t

	orbit = BrouwerOrbit{
		InclinationRad:    inclination,
		RightAscensionRad: rightAscension,
		Eccentricity:      eccentricity,
		ArgPerigeeRad:     argPerigee,
		MeanAnomalyRad:    meanAnomaly,
		MeanMotion:        pc.Geopotential.KE / math.Pow(a, 1.5),
	}
	l = meanAnomaly

	p30 = -0.5 * (pc.Geopotential.J3 / pc.Geopotential.J2) * sinI
	p31 = 1 - cosI*cosI
	p32 = 7*cosI*cosI - 1
	denom := 1 + cosI
	if math.Abs(denom) <= k5Guard {
		denom = k5Guard
	}
	p33 = -0.25 * (pc.Geopotential.J3 / pc.Geopotential.J2) * sinI * (3 + 5*cosI) / denom
	p34 = 3*cosI*cosI - 1

	return orbit, a, l, p30, p31, p32, p33, p34, nil
}

package sgp4

import "math"

// k5Guard is the divisor substituted for |1 + cos I0| when that quantity is
// too close to zero for k5's formula to be numerically stable.
const k5Guard = 1.5e-12

// buildNearEarth computes the near-Earth (SGP4) method coefficients and the
// three secular rates (right ascension, argument of perigee, mean anomaly),
// given the shared epoch-initialization scalars Build has already computed.
func buildNearEarth(geo Geopotential, dragTerm float64, orbit0 BrouwerOrbit, cosI0, a0, s, xi, eta, c1, k1, k6, k14, p3, p6, p8, p13, p14 float64) (NearEarthMethod, float64, float64, float64, error) {
	sinI0 := math.Sin(orbit0.InclinationRad)
	p2 := 1 - orbit0.Eccentricity*orbit0.Eccentricity

	k2 := -0.5 * (geo.J3 / geo.J2) * sinI0
	k3 := 1 - cosI0*cosI0
	k4 := 7*cosI0*cosI0 - 1

	denom := 1 + cosI0
	if math.Abs(denom) <= k5Guard {
		denom = k5Guard
	}
	k5 := -0.25 * (geo.J3 / geo.J2) * sinI0 * (3 + 5*cosI0) / denom

	method := NearEarthMethod{A0: a0, K2: k2, K3: k3, K4: k4, K5: k5, K6: k6}

	if p3 >= 220.0/geo.AE+1.0 {
		d2 := 4 * a0 * xi * c1 * c1
		p15 := d2 * xi * c1 / 3.0
		d3 := (17*a0 + s) * p15
		d4 := 0.5 * p15 * a0 * xi * (221*a0 + 31*s) * c1

		ha := HighAltitude{
			Present: true,
			C5: 2 * p8 * a0 * p2 * (1 + 2.75*(eta*eta+eta*orbit0.Eccentricity) +
				eta * orbit0.Eccentricity * eta * eta),
			D2:  d2,
			D3:  d3,
			D4:  d4,
			Eta: eta,
			K7:  math.Pow(1+eta*math.Cos(orbit0.MeanAnomalyRad), 3),
			K8:  math.Sin(orbit0.MeanAnomalyRad),
			K9:  d2 + 2*c1*c1,
			K10: 0.25 * (3*d3 + c1*(12*d2+10*c1*c1)),
			K11: 0.2 * (3*d4 + 12*c1*d3 + 6*d2*d2 + 15*c1*c1*(2*d2+c1*c1)),
		}

		if orbit0.Eccentricity > 1e-4 {
			ha.Elliptic = Elliptic{
				Present: true,
				K12: dragTerm * (-2 * p6 * xi * (geo.J3 / geo.J2) * orbit0.MeanMotion * sinI0 /
					orbit0.Eccentricity) * math.Cos(orbit0.ArgPerigeeRad),
				K13: -2.0 / 3.0 * p6 * dragTerm / (orbit0.Eccentricity * eta),
			}
		}

		method.HighAltitude = ha
	}

	return method, p13, k14, p14, nil
}

// nearEarthOrbitalElements runs the near-Earth (SGP4) mean-motion/anomaly
// update (Hoots & Roehrich, Spacetrack Report #3, 1980) and returns the
// Brouwer orbit at time t along with the intermediate scalars (a, L, and
// the k2..k6 passthroughs renamed p30..p34) the rest of propagation needs.
func (pc *PropagatorConstants) nearEarthOrbitalElements(t, p21, p22 float64) (orbit BrouwerOrbit, a, l, p30, p31, p32, p33, p34 float64, err error) {
	m := pc.Method.NearEarth
	p23 := pc.Orbit0.MeanAnomalyRad + pc.MeanAnomalyDot*t

	var argPerigee, meanAnomaly, p25 float64

	if !m.HighAltitude.Present {
		argPerigee = p22
		meanAnomaly = p23
		a = m.A0 * (1 - pc.C1*t) * (1 - pc.C1*t)
		l = p23 + pc.Orbit0.MeanMotion*pc.K1*t*t
		p25 = pc.Orbit0.Eccentricity - pc.DragTerm*pc.C4*t
	} else {
		ha := m.HighAltitude
		argPerigee = p22
		meanAnomaly = p23
		if ha.Elliptic.Present {
			p24 := ha.Elliptic.K13*(math.Pow(1+ha.Eta*math.Cos(p23), 3)-ha.K7) + ha.Elliptic.K12*t
			argPerigee = p22 - p24
			meanAnomaly = p23 + p24
		}
		t2, t3, t4 := t*t, t*t*t, t*t*t*t
		base := 1 - pc.C1*t - ha.D2*t2 - ha.D3*t3 - ha.D4*t4
		a = m.A0 * base * base
		l = meanAnomaly + pc.Orbit0.MeanMotion*(pc.K1*t2+ha.K9*t3+t4*(ha.K10+t*ha.K11))
		p25 = pc.Orbit0.Eccentricity - (pc.DragTerm*pc.C4*t + pc.DragTerm*ha.C5*(math.Sin(meanAnomaly)-ha.K8))
	}

	if p25 >= 1.0 || p25 < -0.001 {
		return BrouwerOrbit{}, 0, 0, 0, 0, 0, 0, 0, &EccentricityError{Err: ErrDivergingEccentricity, Eccentricity: p25, MinutesSinceEpoch: t}
	}
	eccentricity := math.Max(p25, 1e-6)

	orbit = BrouwerOrbit{
		InclinationRad:    pc.Orbit0.InclinationRad,
		RightAscensionRad: p21,
		Eccentricity:      eccentricity,
		ArgPerigeeRad:     argPerigee,
		MeanAnomalyRad:    meanAnomaly,
		MeanMotion:        pc.Geopotential.KE / math.Pow(a, 1.5),
	}
	return orbit, a, l, m.K2, m.K3, m.K4, m.K5, m.K6, nil
}

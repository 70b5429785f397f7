package sgp4

import "math"

// Perturbations holds the twelve secular/long-period coefficients computed
// once, at epoch, for a single third body (the Sun or the Moon), plus that
// body's mean anomaly at epoch needed to evaluate the long-period periodic
// effect at any later time (Hoots & Roehrich, Spacetrack Report #3, 1980).
type Perturbations struct {
	K0, K1, K2, K3, K4, K5, K6, K7, K8, K9, K10, K11 float64
	MeanAnomaly0                                      float64
}

// Dots holds the secular rates a single third body contributes to the
// inclination, right ascension, eccentricity, argument of perigee, and mean
// anomaly.
type Dots struct {
	Inclination    float64
	RightAscension float64
	Eccentricity   float64
	ArgPerigee     float64
	MeanAnomaly    float64
}

// perturbationsAndDots computes a third body's secular perturbation
// coefficients and rates from the shared orbit geometry (inclination0,
// eccentricity0, argPerigee0, n0, p1=1-e0², b0=sqrt(p1)) and that body's
// geometry relative to the orbit (sin/cos of the third body's inclination,
// the relative node sin/cos(Ω0-Ωx), the third body's eccentricity and
// argument-of-perigee sin/cos, its perturbation coefficient Cx, mean motion,
// and mean anomaly at epoch).
func perturbationsAndDots(
	inclination0, eccentricity0, argPerigee0, n0 float64,
	sinIx, cosIx, sinDeltaRA, cosDeltaRA float64,
	ex, sinArgPerigeeX, cosArgPerigeeX float64,
	cx, nx, meanAnomalyX0 float64,
	p1, b0 float64,
) (Perturbations, Dots) {
	ax1 := cosArgPerigeeX*cosDeltaRA + sinArgPerigeeX*cosIx*sinDeltaRA
	ax3 := -sinArgPerigeeX*cosDeltaRA + cosArgPerigeeX*cosIx*sinDeltaRA
	ax7 := -cosArgPerigeeX*sinDeltaRA + sinArgPerigeeX*cosIx*cosDeltaRA
	ax8 := sinArgPerigeeX * sinIx
	ax9 := sinArgPerigeeX*sinDeltaRA + cosArgPerigeeX*cosIx*cosDeltaRA
	ax10 := cosArgPerigeeX * sinIx

	cosI0, sinI0 := math.Cos(inclination0), math.Sin(inclination0)
	ax2 := cosI0*ax7 + sinI0*ax8
	ax4 := cosI0*ax9 + sinI0*ax10
	ax5 := -sinI0*ax7 + cosI0*ax8
	ax6 := -sinI0*ax9 + cosI0*ax10

	cosW0, sinW0 := math.Cos(argPerigee0), math.Sin(argPerigee0)
	xx1 := ax1*cosW0 + ax2*sinW0
	xx2 := ax3*cosW0 + ax4*sinW0
	xx3 := -ax1*sinW0 + ax2*cosW0
	xx4 := -ax3*sinW0 + ax4*cosW0
	xx5 := ax5 * sinW0
	xx6 := ax6 * sinW0
	xx7 := ax5 * cosW0
	xx8 := ax6 * cosW0

	e2 := eccentricity0 * eccentricity0

	zx31 := 12*xx1*xx1 - 3*xx3*xx3
	zx32 := 24*xx1*xx2 - 6*xx3*xx4
	zx33 := 12*xx2*xx2 - 3*xx4*xx4
	zx11 := -6*ax1*ax5 + e2*(-24*xx1*xx7-6*xx3*xx5)
	zx13 := -6*ax3*ax6 + e2*(-24*xx2*xx8-6*xx4*xx6)
	zx21 := 6*ax2*ax5 + e2*(24*xx1*xx5-6*xx3*xx7)
	zx23 := 6*ax4*ax6 + e2*(24*xx2*xx6-6*xx4*xx8)
	zx1 := (3*(ax1*ax1+ax2*ax2)+zx31*e2)*2 + p1*zx31
	zx3 := (3*(ax3*ax3+ax4*ax4)+zx33*e2)*2 + p1*zx33

	px0 := cx / n0
	px1 := -0.5 * px0 / b0
	px2 := px0 * b0
	px3 := -15 * eccentricity0 * px2

	var raDot float64
	if inclination0 >= 5.2359877e-2 && inclination0 <= math.Pi-5.2359877e-2 {
		raDot = -nx * px1 * (zx21 + zx23) / sinI0
	}

	perturbations := Perturbations{
		K0: 2 * px3 * (xx2*xx3 + xx1*xx4),
		K1: 2 * px3 * (xx2*xx4 - xx1*xx3),
		K2: 2 * px1 * (-6*(ax1*ax6+ax3*ax5) + e2*(-24*(xx2*xx7+xx1*xx8)-6*(xx3*xx6+xx4*xx5))),
		K3: 2 * px1 * (zx13 - zx11),
		K4: -2 * px0 * ((6*(ax1*ax3+ax2*ax4)+zx32*e2)*2 + p1*zx32),
		K5: -2 * px0 * (zx3 - zx1),
		K6: -2 * px0 * (-21 - 9*e2) * ex,
		K7: 2 * px2 * zx32,
		K8: 2 * px2 * (zx33 - zx31),
		K9: -18 * px2 * ex,
		K10: -2 * px1 * (6*(ax4*ax5+ax2*ax6) + e2*(24*(xx2*xx5+xx1*xx6)-6*(xx4*xx7+xx3*xx8))),
		K11: -2 * px1 * (zx23 - zx21),
		MeanAnomaly0: meanAnomalyX0,
	}

	dots := Dots{
		Inclination:    px1 * nx * (zx11 + zx13),
		RightAscension: raDot,
		Eccentricity:   px3 * nx * (xx1*xx3 + xx2*xx4),
		ArgPerigee:     px2*nx*(zx31+zx33-6) - cosI0*raDot,
		MeanAnomaly:    -nx * px0 * (zx1 + zx3 - 14 - 6*e2),
	}

	return perturbations, dots
}

// longPeriodPeriodicEffects evaluates the long-period periodic correction a
// single third body contributes at time t since epoch: the eccentricity,
// inclination, and mean-anomaly deltas (δe, δI, δM) and the two scalars p4,
// p5 fed into the inclination/right-ascension/argument-of-perigee update.
func (p Perturbations) longPeriodPeriodicEffects(ex, nx, t float64) (de, di, dm, p4, p5 float64) {
	mx := p.MeanAnomaly0 + nx*t
	fx := mx + 2*ex*math.Sin(mx)
	sinFx, cosFx := math.Sin(fx), math.Cos(fx)
	fx2 := 0.5*sinFx*sinFx - 0.25
	fx3 := -0.5 * sinFx * cosFx

	de = p.K0*fx2 + p.K1*fx3
	di = p.K2*fx2 + p.K3*fx3
	dm = p.K4*fx2 + p.K5*fx3 + p.K6*sinFx
	p4 = p.K7*fx2 + p.K8*fx3 + p.K9*sinFx
	p5 = p.K10*fx2 + p.K11*fx3
	return
}

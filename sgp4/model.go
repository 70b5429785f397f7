// Package sgp4 implements the SGP4/SDP4 general-perturbations propagator:
// conversion of Kozai mean elements to Brouwer mean elements, epoch
// initialization, and propagation to position/velocity in the TEME frame.
package sgp4

import "math"

// Geopotential holds the gravity-model constants SGP4/SDP4 is parameterized
// over: Earth's equatorial radius, the square root of GM expressed in
// Earth-radii/minute units, and the zonal harmonics J2, J3, J4.
type Geopotential struct {
	AE float64 // equatorial radius, km
	KE float64 // sqrt(GM) in (earth radii)^1.5 / minute
	J2 float64
	J3 float64
	J4 float64
}

// WGS72 is the gravity model used by the original NORAD/AFSPC element sets
// and by the reference implementation's AFSPC-compatibility mode.
var WGS72 = Geopotential{
	AE: 6378.135,
	KE: 0.07436691613317342,
	J2: 1.082616e-3,
	J3: -2.53881e-6,
	J4: -1.65597e-6,
}

// WGS84 is the current gravity model, used when an element set was produced
// against WGS84 rather than the legacy WGS72 constants.
var WGS84 = Geopotential{
	AE: 6378.137,
	KE: 0.07436685316871385,
	J2: 1.08262998905e-3,
	J3: -2.53215306e-6,
	J4: -1.61098761e-6,
}

const twoPi = 2 * math.Pi

// IAUEpochToSiderealTime returns the Greenwich mean sidereal time, in
// radians, for an epoch expressed as years since UTC 2000-01-01 12:00, using
// the IAU expression. This is the recommended way to compute sidereal time.
func IAUEpochToSiderealTime(epoch float64) float64 {
	c2000 := epoch / 100.0
	theta := (-6.2e-6*c2000*c2000*c2000 +
		0.093104*c2000*c2000 +
		(876600.0*3600.0+8640184.812866)*c2000 +
		67310.54841) * (math.Pi / 180.0) / 240.0
	return remEuclid(theta, twoPi)
}

// AFSPCEpochToSiderealTime returns the Greenwich mean sidereal time, in
// radians, for the same epoch convention as IAUEpochToSiderealTime, using the
// polynomial AFSPC's reference implementation uses in place of the IAU
// formula. Use this when bit-compatibility with AFSPC-derived ephemerides
// matters; it differs from the IAU expression at the sub-arcsecond level.
func AFSPCEpochToSiderealTime(epoch float64) float64 {
	d1970 := (epoch+30.0)*365.25 + 1.0
	floor := math.Floor(d1970 + 1.0e-8)
	theta := 1.7321343856509374 +
		1.72027916940703639e-2*floor +
		(1.72027916940703639e-2+twoPi)*(d1970-floor) +
		d1970*d1970*5.07551419432269442e-15
	return remEuclid(theta, twoPi)
}

// remEuclid is Go's analogue of Rust's f64::rem_euclid: a modulus that is
// always non-negative regardless of the sign of x.
func remEuclid(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += math.Abs(m)
	}
	return r
}

package sgp4

import "math"

// KozaiElements are mean orbital elements using the Kozai mean motion
// convention, the convention TLE/OMM mean-motion and mean-anomaly fields are
// expressed in.
type KozaiElements struct {
	InclinationRad     float64
	RightAscensionRad  float64
	Eccentricity       float64
	ArgPerigeeRad      float64
	MeanAnomalyRad     float64
	KozaiMeanMotion    float64 // radians/minute
}

// BrouwerOrbit is the Brouwer mean-element form of an orbit: the same five
// angular/eccentricity elements as KozaiElements, plus the Brouwer mean
// motion, which OrbitFromKozaiElements derives from the Kozai mean motion.
type BrouwerOrbit struct {
	InclinationRad     float64
	RightAscensionRad  float64
	Eccentricity       float64
	ArgPerigeeRad      float64
	MeanAnomalyRad     float64
	MeanMotion         float64 // Brouwer mean motion, radians/minute
}

// OrbitFromKozaiElements converts a set of Kozai mean elements — the
// convention used by published TLE/OMM mean-motion and mean-anomaly fields —
// into Brouwer mean elements, the convention the rest of this package's
// epoch-initialization and propagation math is expressed in.
func OrbitFromKozaiElements(geo Geopotential, inclinationRad, rightAscensionRad, eccentricity, argPerigeeRad, meanAnomalyRad, kozaiMeanMotion float64) (BrouwerOrbit, error) {
	if eccentricity < 0 || eccentricity >= 1 {
		return BrouwerOrbit{}, &EccentricityError{Err: ErrInvalidEccentricity, Eccentricity: eccentricity}
	}
	if kozaiMeanMotion <= 0 {
		return BrouwerOrbit{}, &MeanMotionError{Err: ErrInvalidMeanMotion, MeanMotion: kozaiMeanMotion}
	}

	cosI := math.Cos(inclinationRad)
	a1 := math.Pow(geo.KE/kozaiMeanMotion, 2.0/3.0)
	p0 := 0.75 * geo.J2 * (3*cosI*cosI - 1) / math.Pow(1-eccentricity*eccentricity, 1.5)
	d1 := p0 / (a1 * a1)
	d0 := p0 / (a1 * (1 - d1*d1 - d1*(1.0/3.0+134*d1*d1/81.0))) / (a1 * (1 - d1*d1 - d1*(1.0/3.0+134*d1*d1/81.0)))
	meanMotion := kozaiMeanMotion / (1 + d0)

	if meanMotion <= 0 {
		return BrouwerOrbit{}, &MeanMotionError{Err: ErrInvalidMeanMotion, MeanMotion: meanMotion}
	}

	return BrouwerOrbit{
		InclinationRad:    inclinationRad,
		RightAscensionRad: rightAscensionRad,
		Eccentricity:      eccentricity,
		ArgPerigeeRad:     argPerigeeRad,
		MeanAnomalyRad:    meanAnomalyRad,
		MeanMotion:        meanMotion,
	}, nil
}

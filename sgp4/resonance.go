package sgp4

import "math"

const (
	siderealSpeed = 4.37526908801129966e-3 // rad/min
	resonanceStep = 720.0                  // minutes

	lambda31 = 0.13130908
	lambda22 = 2.8843198
	lambda33 = 0.37448087

	g22 = 5.7686396
	g32 = 0.95240898
	g44 = 1.8014998
	g52 = 1.0508330
	g54 = 4.4108898
)

// ResonanceState is the mutable, caller-owned state of the deep-space
// resonance integrator (Hoots & Roehrich, Spacetrack Report #3, 1980). A
// ResonanceState as returned by NewResonanceState (or
// PropagatorConstants.InitialState) represents t=0 at epoch.
//
// Propagate/PropagateAFSPCCompatibilityMode calls against a single
// ResonanceState must request
// monotonically increasing |t| of the same sign as all previous calls; the
// contract is enforced with a panic, since a violation can only be a
// programming error.
type ResonanceState struct {
	t          float64
	meanMotion float64
	lambda     float64
}

// NewResonanceState returns the initial resonance-integrator state for a
// resonant deep-space orbit, as PropagatorConstants.InitialState would build
// it from the orbit's Brouwer mean motion and the resonance's lambda0.
func NewResonanceState(meanMotion0, lambda0 float64) *ResonanceState {
	return &ResonanceState{meanMotion: meanMotion0, lambda: lambda0}
}

// T returns the integrator's current time, in minutes since epoch. It
// advances in fixed ±720-minute steps as the state is propagated to
// increasingly distant targets.
func (s *ResonanceState) T() float64 { return s.t }

// integrate advances the resonance state to cover propagation time t and
// returns (p28, p29): the semi-major-axis basis term and the mean-like
// longitude term that deepSpaceOrbitalElements combines with the third-body
// corrections. geo supplies ke; argPerigee0/lambdaDot0/siderealTime0 and the
// resonance coefficients come from the orbit's DeepSpaceMethod.
func (s *ResonanceState) integrate(geo Geopotential, argPerigee0, lambdaDot0 float64, res Resonance, siderealTime0, t, p22, p23 float64) (float64, float64) {
	if (s.t != 0 && sign(s.t) != sign(t)) || math.Abs(t) < math.Abs(s.t) {
		panic("sgp4: resonance integration requires monotonically increasing |t| of constant sign; reset the state for non-monotonic calls")
	}

	siderealTime := remEuclid(siderealTime0+t*siderealSpeed, twoPi)

	deltaT := resonanceStep
	wantLess := true
	if t <= 0 {
		deltaT = -resonanceStep
		wantLess = false
	}

	for {
		lambdaDot := s.meanMotion + lambdaDot0

		var niDot, niDdot float64
		switch res.Kind {
		case OneDayResonant:
			niDot = res.DR1*math.Sin(s.lambda-lambda31) +
				res.DR2*math.Sin(2*(s.lambda-lambda22)) +
				res.DR3*math.Sin(3*(s.lambda-lambda33))
			niDdot = (res.DR1*math.Cos(s.lambda-lambda31) +
				2*res.DR2*math.Cos(2*(s.lambda-lambda22)) +
				3*res.DR3*math.Cos(3*(s.lambda-lambda33))) * lambdaDot
		case HalfDayResonant:
			argPerigeeI := argPerigee0 + res.K14*s.t
			niDot = res.D2201*math.Sin(2*argPerigeeI+s.lambda-g22) +
				res.D2211*math.Sin(s.lambda-g22) +
				res.D3210*math.Sin(argPerigeeI+s.lambda-g32) +
				res.D3222*math.Sin(-argPerigeeI+s.lambda-g32) +
				res.D4410*math.Sin(2*argPerigeeI+2*s.lambda-g44) +
				res.D4422*math.Sin(2*s.lambda-g44) +
				res.D5220*math.Sin(argPerigeeI+s.lambda-g52) +
				res.D5232*math.Sin(-argPerigeeI+s.lambda-g52) +
				res.D5421*math.Sin(argPerigeeI+2*s.lambda-g54) +
				res.D5433*math.Sin(-argPerigeeI+2*s.lambda-g54)
			niDdot = (res.D2201*math.Cos(2*argPerigeeI+s.lambda-g22) +
				res.D2211*math.Cos(s.lambda-g22) +
				res.D3210*math.Cos(argPerigeeI+s.lambda-g32) +
				res.D3222*math.Cos(-argPerigeeI+s.lambda-g32) +
				res.D5220*math.Cos(argPerigeeI+s.lambda-g52) +
				res.D5232*math.Cos(-argPerigeeI+s.lambda-g52) +
				2*(res.D4410*math.Cos(2*argPerigeeI+2*s.lambda-g44)+
					res.D4422*math.Cos(2*s.lambda-g44)+
					res.D5421*math.Cos(argPerigeeI+2*s.lambda-g54)+
					res.D5433*math.Cos(-argPerigeeI+2*s.lambda-g54))) * lambdaDot
		}

		overshoot := (t - deltaT) < s.t
		if !wantLess {
			overshoot = (t - deltaT) > s.t
		}
		if overshoot {
			dt := t - s.t
			p28 := math.Pow(geo.KE/(s.meanMotion+niDot*dt+0.5*niDdot*dt*dt), 2.0/3.0)
			var p29 float64
			switch res.Kind {
			case OneDayResonant:
				p29 = s.lambda + lambdaDot*dt + 0.5*niDot*dt*dt - p22 - p23 + siderealTime
			case HalfDayResonant:
				p29 = s.lambda + lambdaDot*dt + 0.5*niDot*dt*dt - 2*p22 + 2*siderealTime
			}
			return p28, p29
		}

		s.t += deltaT
		s.meanMotion += niDot*deltaT + niDdot*(resonanceStep*resonanceStep/2.0)
		s.lambda += lambdaDot*deltaT + niDot*(resonanceStep*resonanceStep/2.0)
	}
}

func sign(x float64) bool { return x >= 0 }

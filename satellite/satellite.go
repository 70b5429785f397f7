// Package satellite ties tle.Elements and sgp4.PropagatorConstants together
// into a single named object a caller can repeatedly propagate to a
// time.Time, hiding the minutes-since-epoch bookkeeping and the deep-space
// resonance integrator's monotonicity requirement.
package satellite

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/anupshinde/goeph/sgp4"
	"github.com/anupshinde/goeph/tle"
	"github.com/anupshinde/goeph/timescale"
)

// Sat is a satellite's parsed elements plus the propagator built from them.
// A *Sat is not safe for concurrent use: At/Track mutate the resonance
// integrator state a resonant deep-space orbit owns.
type Sat struct {
	Name     string
	Elements tle.Elements

	constants *sgp4.PropagatorConstants
	state     *sgp4.ResonanceState
	lastT     float64
	hasLastT  bool
}

// NewSat builds a Sat from a Two-Line Element Set, in AFSPC-compatibility
// mode against the WGS72 gravity model — the convention published TLEs are
// generated against, and the one this package's own reference scenarios
// validate against.
func NewSat(name string, line1, line2 []byte) (*Sat, error) {
	elements, err := tle.ParseTLE(name, line1, line2)
	if err != nil {
		return nil, errors.Wrap(err, "satellite: parsing TLE")
	}
	return newSat(elements)
}

// NewSatFromOMM builds a Sat from a single Orbit Mean-Elements Message JSON
// record, in AFSPC-compatibility mode against the WGS72 gravity model.
func NewSatFromOMM(data []byte) (*Sat, error) {
	elements, err := tle.ParseOMM(data)
	if err != nil {
		return nil, errors.Wrap(err, "satellite: parsing OMM")
	}
	return newSat(elements)
}

func newSat(elements tle.Elements) (*Sat, error) {
	orbit, err := elements.ToOrbit(sgp4.WGS72)
	if err != nil {
		return nil, errors.Wrap(err, "satellite: converting elements to Brouwer mean elements")
	}

	siderealTime0 := sgp4.AFSPCEpochToSiderealTime(elements.EpochAFSPC())
	constants, err := sgp4.Build(sgp4.WGS72, orbit, elements.DragTerm, siderealTime0, elements.EpochAFSPC())
	if err != nil {
		return nil, errors.Wrap(err, "satellite: building propagator constants")
	}

	name := elements.ObjectName
	return &Sat{
		Name:      name,
		Elements:  elements,
		constants: constants,
		state:     constants.InitialState(),
	}, nil
}

// At propagates the satellite to t and returns its TEME position/velocity.
//
// Repeated calls with monotonically increasing times (the common case for a
// forward-stepping ephemeris) reuse the resonance integrator's state for
// resonant deep-space orbits; a call that goes backward in time, or jumps
// before the last requested time, transparently rebuilds a fresh
// ResonanceState from epoch so the monotonicity contract in package sgp4
// is never violated.
func (s *Sat) At(t time.Time) (sgp4.Prediction, error) {
	minutesSinceEpoch := (timescale.ToJ2000AFSPC(t) - s.Elements.EpochAFSPC()) * 365.25 * 24.0 * 60.0

	if s.state != nil && s.hasLastT {
		nonMonotonic := (s.lastT != 0 && sign(s.lastT) != sign(minutesSinceEpoch)) ||
			math.Abs(minutesSinceEpoch) < math.Abs(s.lastT)
		if nonMonotonic {
			s.state = s.constants.InitialState()
		}
	}

	prediction, err := s.constants.PropagateAFSPCCompatibilityMode(s.state, minutesSinceEpoch)
	if err != nil {
		return sgp4.Prediction{}, errors.Wrapf(err, "satellite: propagating %s to %s", s.Name, t.Format(time.RFC3339))
	}
	s.lastT = minutesSinceEpoch
	s.hasLastT = true
	return prediction, nil
}

func sign(x float64) bool { return x >= 0 }

// Track propagates the satellite to n evenly spaced times, step apart,
// starting at start, and returns the resulting predictions in order.
func (s *Sat) Track(start time.Time, step time.Duration, n int) ([]sgp4.Prediction, error) {
	predictions := make([]sgp4.Prediction, n)
	t := start
	for i := 0; i < n; i++ {
		p, err := s.At(t)
		if err != nil {
			return nil, errors.Wrapf(err, "satellite: tracking %s, step %d", s.Name, i)
		}
		predictions[i] = p
		t = t.Add(step)
	}
	return predictions, nil
}

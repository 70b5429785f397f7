package satellite

import (
	"math"
	"testing"
	"time"
)

const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

// molniya is a 12-hour half-day resonant deep-space orbit, exercising the
// ResonanceState integration path.
const (
	molniyaName  = "MOLNIYA 1-84"
	molniyaLine1 = "1 18946U 88039A   08264.96969873  .00002182  00000-0  11506-4 0  2996"
	molniyaLine2 = "2 18946  64.4474 224.2894 6966012 276.0979  17.1162  2.00615890105791"
)

func TestNewSat(t *testing.T) {
	sat, err := NewSat(issName, []byte(issLine1), []byte(issLine2))
	if err != nil {
		t.Fatal(err)
	}
	if sat.Name != issName {
		t.Errorf("Name = %q, want %q", sat.Name, issName)
	}
	if sat.Elements.NoradID != 25544 {
		t.Errorf("NoradID = %d, want 25544", sat.Elements.NoradID)
	}
}

func TestSat_At_Epoch(t *testing.T) {
	sat, err := NewSat(issName, []byte(issLine1), []byte(issLine2))
	if err != nil {
		t.Fatal(err)
	}
	epochTime := sat.Elements.EpochTime
	p, err := sat.At(epochTime)
	if err != nil {
		t.Fatal(err)
	}
	r := math.Sqrt(p.Position[0]*p.Position[0] + p.Position[1]*p.Position[1] + p.Position[2]*p.Position[2])
	// LEO: a few hundred km above Earth's mean radius.
	if r < 6600 || r > 7200 {
		t.Errorf("|position| at epoch = %.3f km, want a LEO-range distance", r)
	}
}

func TestSat_At_AdvancesOverTime(t *testing.T) {
	sat, err := NewSat(issName, []byte(issLine1), []byte(issLine2))
	if err != nil {
		t.Fatal(err)
	}
	t0 := sat.Elements.EpochTime
	t1 := t0.Add(30 * time.Minute)

	p0, err := sat.At(t0)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := sat.At(t1)
	if err != nil {
		t.Fatal(err)
	}
	if p0.Position == p1.Position {
		t.Error("position unchanged after 30 minutes")
	}
	for _, v := range append(p1.Position[:], p1.Velocity[:]...) {
		if math.IsNaN(v) {
			t.Fatal("got NaN in prediction")
		}
	}
}

func TestSat_Track(t *testing.T) {
	sat, err := NewSat(issName, []byte(issLine1), []byte(issLine2))
	if err != nil {
		t.Fatal(err)
	}
	predictions, err := sat.Track(sat.Elements.EpochTime, 10*time.Minute, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(predictions) != 6 {
		t.Fatalf("len(predictions) = %d, want 6", len(predictions))
	}
	for i := 1; i < len(predictions); i++ {
		if predictions[i].Position == predictions[i-1].Position {
			t.Errorf("predictions[%d] unchanged from predictions[%d]", i, i-1)
		}
	}
}

func TestSat_At_NonMonotonicRebuildsState(t *testing.T) {
	sat, err := NewSat(molniyaName, []byte(molniyaLine1), []byte(molniyaLine2))
	if err != nil {
		t.Fatal(err)
	}
	t0 := sat.Elements.EpochTime
	forward := t0.Add(1500 * time.Minute)
	backward := t0.Add(100 * time.Minute)

	if _, err := sat.At(forward); err != nil {
		t.Fatal(err)
	}
	// Going backward in time after a forward call must not panic; Sat must
	// transparently rebuild the resonance integrator state.
	p, err := sat.At(backward)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(p.Position[0]) {
		t.Fatal("got NaN after non-monotonic propagation request")
	}
}

func TestNewSatFromOMM(t *testing.T) {
	data := []byte(`{
		"OBJECT_NAME": "ISS (ZARYA)",
		"OBJECT_ID": "1998-067A",
		"EPOCH": "2020-07-12T01:19:07.402656",
		"MEAN_MOTION": 15.49560532,
		"ECCENTRICITY": 0.0001771,
		"INCLINATION": 51.6435,
		"RA_OF_ASC_NODE": 225.4004,
		"ARG_OF_PERICENTER": 44.9625,
		"MEAN_ANOMALY": 5.1087,
		"EPHEMERIS_TYPE": 0,
		"CLASSIFICATION_TYPE": "U",
		"NORAD_CAT_ID": 25544,
		"ELEMENT_SET_NO": 999,
		"REV_AT_EPOCH": 23587,
		"BSTAR": 0.0049645,
		"MEAN_MOTION_DOT": 0.00289036,
		"MEAN_MOTION_DDOT": 0
	}`)
	sat, err := NewSatFromOMM(data)
	if err != nil {
		t.Fatal(err)
	}
	p, err := sat.At(sat.Elements.EpochTime)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(p.Position[0]) {
		t.Fatal("got NaN position")
	}
}

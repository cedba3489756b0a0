package vsop

import (
	"math"
	"testing"

	"github.com/anupshinde/goeph/bodies"
)

func dist(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func TestState_PlanetDistancesPlausible(t *testing.T) {
	cases := []struct {
		body   int
		wantAU float64
		toler  float64
	}{
		{bodies.MercuryBarycenter, 0.387, 0.15},
		{bodies.VenusBarycenter, 0.723, 0.05},
		{bodies.EarthMoonBary, 1.0, 0.05},
		{bodies.JupiterBarycenter, 5.203, 0.3},
		{bodies.NeptuneBarycenter, 30.07, 0.5},
	}
	const j2000JD = 2451545.0
	for _, c := range cases {
		pos, _, err := State(j2000JD, c.body)
		if err != nil {
			t.Fatalf("body %d: %v", c.body, err)
		}
		r := dist(pos)
		if math.Abs(r-c.wantAU) > c.toler {
			t.Errorf("body %d: r=%f AU, want ~%f (+-%f)", c.body, r, c.wantAU, c.toler)
		}
	}
}

func TestState_UnknownBody(t *testing.T) {
	if _, _, err := State(2451545.0, 123456789); err == nil {
		t.Errorf("expected error for unknown body")
	}
}

func TestState_SunIsOrigin(t *testing.T) {
	pos, vel, err := State(2451545.0, bodies.Sun)
	if err != nil {
		t.Fatalf("State(Sun): %v", err)
	}
	if pos != ([3]float64{}) || vel != ([3]float64{}) {
		t.Errorf("Sun heliocentric state should be the origin, got pos=%v vel=%v", pos, vel)
	}
}

func TestHeliocentricEclipticJ2000_RoundTripsToEquatorial(t *testing.T) {
	eqPos, _, err := State(2451545.0, bodies.SaturnBarycenter)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	eclPos, _, err := HeliocentricEclipticJ2000(2451545.0, bodies.SaturnBarycenter)
	if err != nil {
		t.Fatalf("HeliocentricEclipticJ2000: %v", err)
	}
	got := [3]float64{
		eclPos[0],
		obliquityCos*eclPos[1] - obliquitySin*eclPos[2],
		obliquitySin*eclPos[1] + obliquityCos*eclPos[2],
	}
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-eqPos[i]) > 1e-12 {
			t.Errorf("component %d: round trip = %.15f, want %.15f", i, got[i], eqPos[i])
		}
	}
}

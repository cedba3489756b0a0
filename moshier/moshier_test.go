package moshier

import (
	"math"
	"testing"

	"github.com/anupshinde/goeph/bodies"
)

func dist(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func TestState_PlanetDistancesPlausible(t *testing.T) {
	// Sanity check: each planet's heliocentric distance at J2000 should sit
	// near its known semi-major axis (orbits are all near-circular except
	// Mercury/Mars/Pluto, so a generous band).
	cases := []struct {
		body    int
		wantAU  float64
		toler   float64
	}{
		{bodies.MercuryBarycenter, 0.387, 0.15},
		{bodies.VenusBarycenter, 0.723, 0.05},
		{bodies.EarthMoonBary, 1.0, 0.05},
		{bodies.MarsBarycenter, 1.524, 0.3},
		{bodies.JupiterBarycenter, 5.203, 0.3},
		{bodies.SaturnBarycenter, 9.537, 0.5},
		{bodies.UranusBarycenter, 19.19, 1.0},
		{bodies.NeptuneBarycenter, 30.07, 0.5},
		{bodies.PlutoBarycenter, 39.48, 10.0},
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

func TestState_EarthNearOneAU(t *testing.T) {
	pos, _, err := State(2451545.0, bodies.Earth)
	if err != nil {
		t.Fatalf("State(Earth): %v", err)
	}
	r := dist(pos)
	if math.Abs(r-1.0) > 0.02 {
		t.Errorf("Earth r=%f AU, want ~1.0", r)
	}
}

func TestState_MoonGeocentricDistance(t *testing.T) {
	pos, _, err := State(2451545.0, bodies.Moon)
	if err != nil {
		t.Fatalf("State(Moon): %v", err)
	}
	r := dist(pos) * auKm
	// Mean lunar distance is ~384400 km; eccentricity swings it roughly
	// +-21000 km.
	if math.Abs(r-384400.0) > 30000.0 {
		t.Errorf("Moon r=%f km, want ~384400", r)
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

func TestState_UnknownBody(t *testing.T) {
	if _, _, err := State(2451545.0, 123456789); err == nil {
		t.Errorf("expected error for unknown body")
	}
}

func TestHeliocentricEclipticJ2000_RoundTripsToEquatorial(t *testing.T) {
	// Converting ecliptic back to equatorial with the rotation's inverse
	// (obliquity flips sign) should recover State's own equatorial output.
	eqPos, _, err := State(2451545.0, bodies.JupiterBarycenter)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	eclPos, _, err := HeliocentricEclipticJ2000(2451545.0, bodies.JupiterBarycenter)
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

func TestLibration_BoundedAngles(t *testing.T) {
	phi, theta, _ := Libration(2451545.0)
	if math.Abs(phi) > 0.1 {
		t.Errorf("libration in longitude = %f rad, want small (|.|<0.1)", phi)
	}
	if theta < 0 || theta > 0.2 {
		t.Errorf("libration in latitude = %f rad, want within lunar inclination band", theta)
	}
}

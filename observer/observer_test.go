package observer

import (
	"math"
	"testing"

	"github.com/anupshinde/goeph/bodies"
)

func TestGeocentricLatitude_LessThanGeodeticAwayFromPoleAndEquator(t *testing.T) {
	o := New(45.0, 0.0, 0.0)
	gcLat := o.GeocentricLatDeg()
	// The WGS84 ellipsoid's flattening always pulls geocentric latitude
	// toward the equator relative to geodetic latitude, away from the
	// poles and the equator themselves.
	if gcLat >= 45.0 {
		t.Errorf("geocentric latitude %f should be < geodetic latitude 45 at mid-latitude", gcLat)
	}
}

func TestGeocentricLatitude_MatchesAtEquatorAndPole(t *testing.T) {
	eq := New(0.0, 0.0, 0.0)
	if math.Abs(eq.GeocentricLatDeg()) > 1e-9 {
		t.Errorf("equator geocentric latitude = %f, want 0", eq.GeocentricLatDeg())
	}
	pole := New(90.0, 0.0, 0.0)
	if math.Abs(pole.GeocentricLatDeg()-90.0) > 1e-6 {
		t.Errorf("pole geocentric latitude = %f, want 90", pole.GeocentricLatDeg())
	}
}

func TestGeocentricRadius_NearEarthMeanRadius(t *testing.T) {
	o := New(45.0, 0.0, 0.0)
	r := o.GeocentricRadiusKm()
	if r < 6350.0 || r > 6380.0 {
		t.Errorf("geocentric radius = %f km, want within WGS84 band", r)
	}
}

func TestGeocentric_CachedAcrossCalls(t *testing.T) {
	o := New(30.0, 10.0, 0.1)
	r1 := o.GeocentricRadiusKm()
	r2 := o.GeocentricRadiusKm()
	if r1 != r2 {
		t.Errorf("expected stable cached geocentric radius, got %f then %f", r1, r2)
	}
}

func TestTopocentricICRF_EarthMagnitudeMatchesGeocentricRadius(t *testing.T) {
	o := New(45.0, -71.0, 0.1)
	pos := o.TopocentricICRF(2451545.0, 2451545.0)
	mag := math.Sqrt(pos[0]*pos[0] + pos[1]*pos[1] + pos[2]*pos[2])
	want := o.GeocentricRadiusKm()
	if math.Abs(mag-want) > 1e-6 {
		t.Errorf("topocentric vector magnitude = %f, want %f", mag, want)
	}
}

func TestTopocentricICRF_NonEarthBodyUsesPhysicalParams(t *testing.T) {
	o := &Observer{MotherBody: bodies.MarsBarycenter, LatDeg: 10.0, LonDeg: 20.0, Ellipsoid: Ellipsoid{EquatorialRadiusKm: 3396.2}}
	pos := o.TopocentricICRF(2451545.0, 2451545.0)
	mag := math.Sqrt(pos[0]*pos[0] + pos[1]*pos[1] + pos[2]*pos[2])
	if math.Abs(mag-3396.2) > 1.0 {
		t.Errorf("Mars-fixed observer magnitude = %f, want ~3396.2", mag)
	}
}

func TestHeliocentricPositionOfObserver_AddsTopocentricOffset(t *testing.T) {
	o := New(0.0, 0.0, 0.0)
	state := func(jdTDB float64, body int) (pos, vel [3]float64, err error) {
		return [3]float64{1.0, 0, 0}, [3]float64{0, 0.017, 0}, nil
	}
	pos, vel, err := o.HeliocentricPositionOfObserver(2451545.0, 2451545.0, state)
	if err != nil {
		t.Fatalf("HeliocentricPositionOfObserver: %v", err)
	}
	if math.Abs(pos[0]-1.0) > 0.001 {
		t.Errorf("expected position near Earth's 1 AU offset, got %v", pos)
	}
	if vel != ([3]float64{0, 0.017, 0}) {
		t.Errorf("expected velocity to pass through from mother body state, got %v", vel)
	}
}

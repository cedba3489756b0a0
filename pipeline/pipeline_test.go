package pipeline

import (
	"math"
	"testing"

	"github.com/anupshinde/goeph/bodies"
	"github.com/anupshinde/goeph/internal/testephem"
	"github.com/anupshinde/goeph/observer"
	"github.com/anupshinde/goeph/timescale"
)

func newTestContext() *PipelineContext {
	pc := NewPipelineContext()
	pc.DE = testephem.BuildDefault()
	return pc
}

func TestReduce_UnknownBody(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     123456789,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
	}
	_, err := pc.Reduce(req)
	if !IsKind(err, KindUnknownBody) {
		t.Fatalf("expected KindUnknownBody, got %v", err)
	}
}

func TestReduce_SunFromEarth(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Apparent},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	distAU := length3(res.GCRS) / auKm
	if math.Abs(distAU-1.0) > 0.05 {
		t.Errorf("Sun distance = %f AU, want ~1.0", distAU)
	}
	if res.LightTimeDay <= 0 || res.LightTimeDay > 0.01 {
		t.Errorf("Sun light time = %f days, want ~0.0058 (8.3 min)", res.LightTimeDay)
	}
}

func TestReduce_MoonFromEarth(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.Moon,
		Observer: observer.New(0.0, 0.0, 0.0),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Apparent},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	distKm := length3(res.GCRS)
	if distKm < 350000 || distKm > 410000 {
		t.Errorf("Moon distance = %f km, want ~384400", distKm)
	}
	if res.AltDeg < -90 || res.AltDeg > 90 {
		t.Errorf("implausible altitude %f", res.AltDeg)
	}
}

func TestReduce_RefractionRaisesApparentAltitudeNearHorizon(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.25, Scale: timescale.TDB},
		Options:  Options{ApplyRefraction: true, CoordinateType: Apparent},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if res.ApparentAltDeg < res.AltDeg-1e-9 {
		// Refraction always raises the apparent altitude above the
		// geometric one near/above the horizon (bends light downward
		// toward the observer).
		t.Errorf("apparent altitude %f should be >= geometric altitude %f", res.ApparentAltDeg, res.AltDeg)
	}
}

func TestReduce_CIOAndClassicalChainsAgreeOnDistance(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Apparent},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	itrsLen := length3(res.ITRS)
	gcrsLen := length3(res.GCRS)
	if math.Abs(itrsLen-gcrsLen) > 1.0 {
		t.Errorf("ITRS length %f should match GCRS length %f (rotations preserve length)", itrsLen, gcrsLen)
	}
}

func TestReduce_MagnitudeAndConstellationPopulated(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Apparent},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if res.Constellation == "" {
		t.Error("expected a non-empty constellation abbreviation")
	}
	// The Sun (NAIF 10) isn't one of the Mallama & Hilton planets
	// magnitude.PlanetaryMagnitudeWithGeometry supports, so it reports NaN
	// rather than a fabricated number.
	if !math.IsNaN(res.ApparentMagnitude) {
		t.Errorf("expected NaN apparent magnitude for the Sun, got %f", res.ApparentMagnitude)
	}
	if res.RA().Hours() != res.RAHours {
		t.Errorf("RA() = %f, want %f", res.RA().Hours(), res.RAHours)
	}
	if res.Distance().Km() != res.DistKm {
		t.Errorf("Distance().Km() = %f, want %f", res.Distance().Km(), res.DistKm)
	}
}

func TestDispatch_FallsThroughWhenDEUnavailable(t *testing.T) {
	pc := NewPipelineContext() // no DE loaded
	pos, _, err := pc.dispatch(2451545.0, bodies.JupiterBarycenter, nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if length3(pos) < 4.0 || length3(pos) > 6.0 {
		t.Errorf("Jupiter heliocentric distance via fallback = %f AU, want ~5.2", length3(pos))
	}
}

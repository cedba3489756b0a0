package pipeline

import (
	"math"
	"testing"

	"github.com/anupshinde/goeph/bodies"
	"github.com/anupshinde/goeph/kepler"
	"github.com/anupshinde/goeph/observer"
	"github.com/anupshinde/goeph/timescale"
)

func TestReduce_GeometricFixesLightTimeAtZero(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.JupiterBarycenter,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Geometric},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if res.LightTimeDay != 0 {
		t.Errorf("Geometric LightTimeDay = %f, want 0", res.LightTimeDay)
	}
}

func TestReduce_ApparentDiffersFromAstrometricForNonSelfDeflection(t *testing.T) {
	// No DE loaded: testephem leaves Jupiter's slot at zero, on top of the
	// Sun, so Jupiter comes from the analytical fallback instead.
	pc := NewPipelineContext()
	base := Request{
		Body:     bodies.JupiterBarycenter,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
	}

	astrometric := base
	astrometric.Options = Options{CoordinateType: Astrometric}
	resAstrometric, err := pc.Reduce(astrometric)
	if err != nil {
		t.Fatalf("Reduce (astrometric): %v", err)
	}

	apparent := base
	apparent.Options = Options{CoordinateType: Apparent}
	resApparent, err := pc.Reduce(apparent)
	if err != nil {
		t.Fatalf("Reduce (apparent): %v", err)
	}

	// Apparent runs the DEFLECTION step (the Sun always deflects);
	// astrometric never does, so the two results should not coincide.
	if resAstrometric.RAHours == resApparent.RAHours && resAstrometric.DecDeg == resApparent.DecDeg {
		t.Error("apparent and astrometric Jupiter positions are identical — deflection doesn't seem to be reaching the apparent chain")
	}
}

func TestReduce_SunNeverSelfDeflectsFromEarth(t *testing.T) {
	pc := newTestContext()
	base := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
	}

	astrometric := base
	astrometric.Options = Options{CoordinateType: Astrometric}
	resAstrometric, err := pc.Reduce(astrometric)
	if err != nil {
		t.Fatalf("Reduce (astrometric): %v", err)
	}

	apparent := base
	apparent.Options = Options{CoordinateType: Apparent}
	resApparent, err := pc.Reduce(apparent)
	if err != nil {
		t.Fatalf("Reduce (apparent): %v", err)
	}

	// With the Sun both the target and (by default) the only active
	// deflector, DEFLECTION must skip itself entirely — apparent and
	// astrometric should land on exactly the same direction.
	if math.Abs(resAstrometric.RAHours-resApparent.RAHours) > 1e-12 ||
		math.Abs(resAstrometric.DecDeg-resApparent.DecDeg) > 1e-12 {
		t.Errorf("Sun apparent (RA=%f Dec=%f) should equal astrometric (RA=%f Dec=%f) — self-deflection should be skipped",
			resApparent.RAHours, resApparent.DecDeg, resAstrometric.RAHours, resAstrometric.DecDeg)
	}
}

func TestReduce_OutputFrameICRFIsIdentity(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Apparent, OutputFrame: ICRF},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if res.Frame != res.GCRS {
		t.Errorf("ICRF output frame should be the identity: Frame=%v, GCRS=%v", res.Frame, res.GCRS)
	}
}

func TestReduce_OutputFrameFK4RotatesButPreservesLength(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Apparent, OutputFrame: FK4},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if res.Frame == res.GCRS {
		t.Error("FK4 output frame should rotate away from ICRF, not pass through unchanged")
	}
	if math.Abs(length3(res.Frame)-length3(res.GCRS)) > 10.0 {
		t.Errorf("FK4 rotation should preserve vector length: Frame len=%f, GCRS len=%f", length3(res.Frame), length3(res.GCRS))
	}
}

func TestReduce_OutputEquinoxOfDatePrecessesFK5(t *testing.T) {
	pc := newTestContext()
	// 2460310.5 is far enough from J2000 that precession to the equinox
	// of date is a measurable rotation, unlike at JD 2451545.0 (T=0).
	req := Request{
		Body:     bodies.Sun,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2460310.5, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Apparent, OutputFrame: FK5},
	}
	resJ2000, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce (J2000 equinox): %v", err)
	}

	req.Options.OutputEquinoxOfDate = true
	resOfDate, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce (equinox of date): %v", err)
	}

	if resJ2000.Frame == resOfDate.Frame {
		t.Error("FK5-of-date should differ from FK5-at-J2000 away from the J2000 epoch itself")
	}
}

func TestReduce_KeplerOrbitReachesReduce(t *testing.T) {
	pc := newTestContext()
	ceres := &kepler.Orbit{
		SemiMajorAxisAU: 2.7670463,
		Eccentricity:    0.0785115,
		InclinationDeg:  10.5868,
		LongAscNodeDeg:  80.3055,
		ArgPeriapsisDeg: 73.5977,
		MeanAnomalyDeg:  77.372,
		EpochJD:         2451545.0,
	}
	req := Request{
		Body:     2000001, // Ceres' MPC number, not in the dispatcher's body table
		Orbit:    ceres,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Geometric},
	}
	res, err := pc.Reduce(req)
	if err != nil {
		t.Fatalf("Reduce with Orbit: %v", err)
	}
	distAU := length3(res.GCRS) / auKm
	if distAU < 1.3 || distAU > 4.2 {
		t.Errorf("Ceres geocentric distance = %f AU, want a plausible main-belt range", distAU)
	}
}

func TestTheoryFor_KeplerRejectedByContextScopedDispatcher(t *testing.T) {
	pc := newTestContext()
	_, err := pc.theoryFor(Kepler)
	if !IsKind(err, KindInvalidAlgorithm) {
		t.Fatalf("theoryFor(Kepler) = %v, want KindInvalidAlgorithm — Kepler is request-scoped via Request.Orbit, not context-scoped", err)
	}
}

func TestReduce_UnknownBodyStillRejectedWithoutOrbit(t *testing.T) {
	pc := newTestContext()
	req := Request{
		Body:     2000001,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
	}
	_, err := pc.Reduce(req)
	if !IsKind(err, KindUnknownBody) {
		t.Fatalf("expected KindUnknownBody without an Orbit, got %v", err)
	}
}

func TestReduce_GeocentricOriginSkipsTopocentricOffset(t *testing.T) {
	pc := newTestContext()
	topoReq := Request{
		Body:     bodies.Moon,
		Observer: observer.New(45.0, -71.0, 0.1),
		Time:     timescale.Instant{JD: 2451545.0, Scale: timescale.TDB},
		Options:  Options{CoordinateType: Geometric},
	}
	geoReq := topoReq
	geoReq.Options.ObserverOrigin = Geocentric

	resTopo, err := pc.Reduce(topoReq)
	if err != nil {
		t.Fatalf("Reduce (topocentric): %v", err)
	}
	resGeo, err := pc.Reduce(geoReq)
	if err != nil {
		t.Fatalf("Reduce (geocentric): %v", err)
	}

	diff := length3(sub3(resTopo.GCRS, resGeo.GCRS))
	// The topocentric offset at Earth's surface is on the order of
	// Earth's radius (~6378 km); a plausible band rules out both "did
	// nothing" (diff == 0) and "wildly wrong" (diff >> one Earth radius).
	if diff < 100 || diff > 10000 {
		t.Errorf("geocentric/topocentric Moon positions differ by %f km, want roughly one Earth radius", diff)
	}
}

func TestReduce_CorrectForTidesReachesEOPCorrection(t *testing.T) {
	pc := newTestContext()
	dut1, xp, yp, _ := pc.eopCorrection(2451545.0, Options{CorrectForEOP: true, CorrectForTides: false})
	dut1Tides, xpTides, ypTides, _ := pc.eopCorrection(2451545.0, Options{CorrectForEOP: true, CorrectForTides: true})
	if dut1 == dut1Tides && xp == xpTides && yp == ypTides {
		t.Error("CorrectForTides should perturb the EOP correction relative to CorrectForEOP alone")
	}
}

func TestReduce_CorrectForPolarMotionGatesITRSOffset(t *testing.T) {
	pc := newTestContext()
	_, xpOff, ypOff, _ := pc.eopCorrection(2451545.0, Options{CorrectForEOP: true, CorrectForPolarMotion: false})
	if xpOff != 0 || ypOff != 0 {
		t.Errorf("xp/yp should be zeroed when CorrectForPolarMotion is false, got xp=%f yp=%f", xpOff, ypOff)
	}
}

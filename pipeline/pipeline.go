// Package pipeline implements the full apparent-place reduction: the
// 14-step state machine carrying a target body's position from a
// theory's raw heliocentric/barycentric state through light-time,
// relativistic deflection, aberration, precession, nutation, polar
// motion, and finally to topocentric horizontal coordinates with
// refraction.
//
// It replaces the teacher's spk.Apparent/ApparentFrom — grounded directly
// on that function's light-time loop, deflector loop, and aberration call
// — generalized to run over any theory the dispatcher in theory.go
// selects, not just a single loaded SPK kernel.
package pipeline

import (
	"math"

	"github.com/anupshinde/goeph/bodies"
	"github.com/anupshinde/goeph/cio"
	"github.com/anupshinde/goeph/constellation"
	"github.com/anupshinde/goeph/coord"
	"github.com/anupshinde/goeph/eop"
	"github.com/anupshinde/goeph/kepler"
	"github.com/anupshinde/goeph/magnitude"
	"github.com/anupshinde/goeph/observer"
	"github.com/anupshinde/goeph/timescale"
	"github.com/anupshinde/goeph/units"
)

const cKmPerDay = 299792.458 * 86400.0
const auKm = 149597870.7
const j2000JD = 2451545.0

// CoordinateType selects how much of Reduce's light-path correction chain
// a request applies, per §4.J steps 3-5.
type CoordinateType int

const (
	// Geometric is the instantaneous geometric position: light-time is
	// fixed at zero, and neither deflection nor aberration is applied.
	Geometric CoordinateType = iota
	// Astrometric applies light-time and annual aberration, but not
	// gravitational deflection.
	Astrometric
	// Apparent is the fully corrected apparent place: light-time,
	// deflection, aberration, and (for an Earth-based observer) nutation
	// and polar motion.
	Apparent
)

func (c CoordinateType) String() string {
	switch c {
	case Geometric:
		return "Geometric"
	case Astrometric:
		return "Astrometric"
	case Apparent:
		return "Apparent"
	default:
		return "unknown"
	}
}

// OutputFrame selects the reference frame Result.Frame is expressed in.
type OutputFrame int

const (
	// ICRF is the default: Result.Frame is identical to Result.GCRS.
	ICRF OutputFrame = iota
	// FK5 is the IAU 1976 mean equator/equinox system, conventionally
	// equivalent to the dynamical J2000 frame at the few-milliarcsecond
	// level ICRSToJ2000Matrix corrects for.
	FK5
	// FK4 is the mean equator and equinox of B1950.
	FK4
	// DynamicalJ2000 is the dynamical mean equator and equinox of J2000.
	DynamicalJ2000
)

// ObserverOrigin selects whether a request measures from the Observer's
// actual site or from its mother body's center.
type ObserverOrigin int

const (
	// Topocentric measures from the Observer's site (the default).
	Topocentric ObserverOrigin = iota
	// Geocentric measures from the Observer's mother body's center, with
	// no topocentric offset applied.
	Geocentric
)

// Options configures one Reduce call.
type Options struct {
	// Algorithms overrides the context's dispatcher order for this call
	// only. Nil uses the context's own Algorithms (or DefaultAlgorithms).
	Algorithms []Algorithm

	// Method overrides the context's reduction method for this call only.
	// Zero value (IAU1976) is a valid method, so a negative sentinel isn't
	// used — pass coord.IAU2006 explicitly if the context's default isn't
	// what's wanted and the context itself can't be changed.
	Method *coord.ReductionMethod

	// CorrectForEOP applies the EOP table's polar motion and UT1-UTC
	// corrections. When false, polar motion is the identity and UT1 is
	// taken equal to UTC.
	CorrectForEOP bool

	// CorrectForTides folds the EOP table's diurnal/subdiurnal tidal
	// correction series into polar motion, on top of CorrectForEOP.
	CorrectForTides bool

	// ApplyRefraction adds atmospheric refraction to the horizontal
	// coordinates, using the Observer's pressure/temperature.
	ApplyRefraction bool

	// Deflectors lists the reciprocal-mass light deflectors to apply,
	// keyed by NAIF body ID. Nil uses DefaultDeflectors (Sun, Jupiter,
	// Saturn, Earth, Venus, Uranus, Neptune, Moon).
	Deflectors map[int]float64

	// CoordinateType selects how much of the light-path chain this call
	// applies. Zero value is Geometric.
	CoordinateType CoordinateType

	// OutputFrame selects the frame Result.Frame is expressed in. Zero
	// value is ICRF.
	OutputFrame OutputFrame

	// OutputEquinoxJD names the mean equinox (as a TDB Julian date)
	// Result.Frame is precessed to, for FK5/DynamicalJ2000 output. Zero
	// means J2000 — no extra precession beyond the frame bias. Ignored
	// when OutputEquinoxOfDate is set. FK4 output always uses B1950 and
	// ignores this field.
	OutputEquinoxJD float64

	// OutputEquinoxOfDate requests the mean equinox of the request's own
	// instant rather than a fixed OutputEquinoxJD.
	OutputEquinoxOfDate bool

	// ObserverOrigin selects Topocentric (the Observer's actual site, the
	// default) or Geocentric (the Observer's mother body's center).
	ObserverOrigin ObserverOrigin

	// CorrectForPolarMotion applies the EOP table's xp/yp offset to ITRS.
	// CorrectForEOP must also be set, since both draw on the same table
	// lookup.
	CorrectForPolarMotion bool

	// CorrectForExtinction folds atmospheric extinction into
	// Result.ApparentMagnitude. Only meaningful for an Apparent request
	// from an Earth-based Observer.
	CorrectForExtinction bool

	// PreferPrecision controls how many entries in Deflectors DEFLECTION
	// applies. The Sun always deflects when CoordinateType is Apparent,
	// even with PreferPrecision false; the remaining deflectors (Jupiter,
	// Saturn, ...) apply only when PreferPrecision is true.
	PreferPrecision bool
}

// DefaultDeflectors extends spk.go's ApparentFrom deflector list (Sun,
// Jupiter, Saturn) with Earth, Venus, Uranus, Neptune, and the Moon.
var DefaultDeflectors = map[int]float64{
	bodies.Sun:               1.0,
	bodies.JupiterBarycenter: 1047.3486,
	bodies.SaturnBarycenter:  3497.898,
	bodies.Earth:             bodies.ReciprocalMass[bodies.Earth],
	bodies.VenusBarycenter:   bodies.ReciprocalMass[bodies.Venus],
	bodies.UranusBarycenter:  bodies.ReciprocalMass[bodies.UranusBarycenter],
	bodies.NeptuneBarycenter: bodies.ReciprocalMass[bodies.NeptuneBarycenter],
	bodies.Moon:              bodies.ReciprocalMass[bodies.Moon],
}

// Request is one reduction call: a target body observed from an Observer
// at a given instant.
type Request struct {
	Body     int
	Observer *observer.Observer
	Time     timescale.Instant
	Options  Options

	// Orbit names the target's osculating elements directly, for minor
	// planets and comets that have no place in the context's theory
	// tables. When set, Body is used only for magnitude/deflector
	// bookkeeping (it need not be a known NAIF ID), and the target's
	// state comes from Orbit.StateAU instead of the dispatcher.
	Orbit *kepler.Orbit
}

// Result carries every intermediate vector the 14-step state machine
// produces, not just the final horizontal coordinates, so a caller can
// inspect (or re-use) any stage without re-running the reduction.
type Result struct {
	JDTDB, JDUT1 float64
	LightTimeDay float64

	// GCRS is the apparent (light-time, deflection, and aberration
	// corrected) position in km relative to the observer (its site, or its
	// mother body's center for a Geocentric request), GCRS axes.
	GCRS [3]float64
	// CIRS is GCRS rotated into the Celestial Intermediate Reference
	// System (bias+precession+nutation via the CIO route).
	CIRS [3]float64
	// TIRS is CIRS rotated by Earth Rotation Angle.
	TIRS [3]float64
	// ITRS is TIRS with polar motion removed: Earth-fixed geographic
	// coordinates.
	ITRS [3]float64

	// Topocentric is the target's position (km) relative to the
	// Observer, in the same ICRF axes as GCRS.
	Topocentric [3]float64

	// Frame is GCRS rotated into Options.OutputFrame/OutputEquinoxJD
	// (§4.J steps 7-8). Equal to GCRS when OutputFrame is ICRF.
	Frame [3]float64

	AltDeg, AzDeg, DistKm float64
	ApparentAltDeg        float64

	// RAHours, DecDeg are the apparent right ascension and declination of
	// GCRS, in the same sense astrometric catalogs report.
	RAHours, DecDeg float64
	// Constellation is the IAU 3-letter abbreviation of the constellation
	// containing the apparent position.
	Constellation string
	// ApparentMagnitude is the target's visual apparent magnitude, or NaN
	// if req.Body doesn't name one of the Mallama & Hilton planets.
	ApparentMagnitude float64
}

// Reduce runs the full 14-step reduction: RESOLVE, TDB, LIGHT_TIME,
// DEFLECTION, ABERRATION, GCRS snapshot, FRAME, PRECESSION, NUTATION,
// POLAR_MOTION, OBSERVER_VIEW, TOPOCENTRIC, HORIZONTAL, REFRACTION.
func (pc *PipelineContext) Reduce(req Request) (*Result, error) {
	// RESOLVE
	if req.Orbit == nil && !knownBody(req.Body) {
		return nil, newError(KindUnknownBody, "pipeline: unknown body %d", req.Body)
	}
	obs := req.Observer
	if obs == nil {
		obs = observer.New(0, 0, 0)
	}

	method := pc.Method
	if req.Options.Method != nil {
		method = *req.Options.Method
	}
	algorithms := req.Options.Algorithms
	if algorithms == nil {
		algorithms = pc.Algorithms
	}
	deflectors := req.Options.Deflectors
	if deflectors == nil {
		deflectors = DefaultDeflectors
	}

	// TDB
	tdbInstant, err := timescale.Convert(req.Time, timescale.TDB)
	if err != nil {
		return nil, newError(KindDomainError, "pipeline: converting request time to TDB: %v", err)
	}
	jdTDB := tdbInstant.JD

	utcInstant, err := timescale.Convert(req.Time, timescale.UTC)
	if err != nil {
		return nil, newError(KindDomainError, "pipeline: converting request time to UTC: %v", err)
	}
	dut1, xp, yp, _ := pc.eopCorrection(utcInstant.JD, req.Options)
	jdUT1 := utcInstant.JD + dut1/timescale.SecPerDay

	// Observer heliocentric/barycentric state, from the same theory
	// dispatch the target uses, so both share one consistent origin.
	obsState := func(jd float64, body int) (pos, vel [3]float64, err error) {
		return pc.dispatch(jd, body, algorithms)
	}
	obsFunc := obs.HeliocentricPositionOfObserver
	if req.Options.ObserverOrigin == Geocentric {
		obsFunc = obs.GeocentricPositionOfObserver
	}
	obsPos, obsVel, err := obsFunc(jdTDB, jdUT1, obsState)
	if err != nil {
		return nil, err
	}
	obsPosKm := scaleAU(obsPos, auKm)
	obsVelKmPerDay := scaleAU(obsVel, auKm)

	targetAt := func(jd float64) ([3]float64, error) {
		if req.Orbit != nil {
			pos, _ := req.Orbit.StateAU(jd)
			return scaleAU(pos, auKm), nil
		}
		pos, _, err := pc.dispatch(jd, req.Body, algorithms)
		if err != nil {
			return pos, err
		}
		return scaleAU(pos, auKm), nil
	}

	// LIGHT_TIME — a Geometric request fixes tau at zero rather than
	// iterating, per §4.J step 3.
	targetPos, err := targetAt(jdTDB)
	if err != nil {
		return nil, err
	}
	position := sub3(targetPos, obsPosKm)
	var lightTime float64
	if req.Options.CoordinateType != Geometric {
		const maxLightTimeIter = 10
		converged := false
		for i := 0; i < maxLightTimeIter; i++ {
			dist := length3(position)
			newLT := dist / cKmPerDay
			if math.Abs(newLT-lightTime) < 1e-12 {
				converged = true
				break
			}
			lightTime = newLT
			targetPos, err = targetAt(jdTDB - lightTime)
			if err != nil {
				return nil, err
			}
			position = sub3(targetPos, obsPosKm)
		}
		if !converged {
			return nil, newError(KindNoConvergence, "pipeline: light-time iteration did not converge for body %d", req.Body)
		}
	}

	// DEFLECTION — apparent requests only. The Sun always deflects
	// (matching the teacher's Apparent()) even when PreferPrecision is
	// false; every other deflector needs PreferPrecision. A body never
	// deflects its own apparent place when it is the Sun or Moon observed
	// from Earth.
	if req.Options.CoordinateType == Apparent {
		posMag := length3(position)
		selfDeflects := obs.MotherBody == bodies.Earth && (req.Body == bodies.Sun || req.Body == bodies.Moon)
		for body, rmass := range deflectors {
			if selfDeflects && body == req.Body {
				continue
			}
			if !req.Options.PreferPrecision && body != bodies.Sun {
				continue
			}
			dPosAtObsTime, err := targetAtBody(pc, jdTDB, body, algorithms, auKm)
			if err != nil {
				return nil, err
			}
			gpv := sub3(dPosAtObsTime, obsPosKm)
			if posMag == 0 {
				continue
			}
			dlt := dot3(position, gpv) / (cKmPerDay * posMag)
			tclose := jdTDB - lightTime + dlt
			dPosClose, err := targetAtBody(pc, tclose, body, algorithms, auKm)
			if err != nil {
				return nil, err
			}
			pe := sub3(dPosClose, obsPosKm)
			correction := coord.Deflection(position, pe, rmass)
			position = add3(position, correction)
		}
	}

	// ABERRATION — apparent and astrometric requests; skipped outright
	// when tau is zero (Geometric already never reaches here with a
	// nonzero lightTime, but a genuinely co-located observer can too).
	if lightTime != 0 && (req.Options.CoordinateType == Apparent || req.Options.CoordinateType == Astrometric) {
		position = coord.Aberration(position, obsVelKmPerDay, lightTime)
	}

	// GCRS snapshot
	res := &Result{JDTDB: jdTDB, JDUT1: jdUT1, LightTimeDay: lightTime, GCRS: position}
	pc.lastGCRS = position

	res.RAHours, res.DecDeg = raDecFromICRF(position)
	res.Constellation = constellation.At(res.RAHours, res.DecDeg)
	res.ApparentMagnitude = math.NaN()
	if req.Orbit == nil {
		if sunPosAU, _, serr := pc.dispatch(jdTDB-lightTime, bodies.Sun, algorithms); serr == nil {
			targetPosAU, _, terr := pc.dispatch(jdTDB-lightTime, req.Body, algorithms)
			if terr == nil {
				sunToTarget := sub3(targetPosAU, sunPosAU)
				obsToTarget := scaleAU(position, 1.0/auKm)
				res.ApparentMagnitude = magnitude.PlanetaryMagnitudeWithGeometry(req.Body, sunToTarget, obsToTarget, decimalYear(jdTDB))
			}
		}
	}

	// FRAME / PRECESSION (§4.J steps 7-8) — the CIO-based chain below
	// always runs in ICRF/GCRS axes; Result.Frame is the separate,
	// request-selected view for non-ICRF output frames.
	res.Frame, err = convertOutputFrame(position, req.Options, method, jdTDB)
	if err != nil {
		return nil, err
	}

	// NUTATION / POLAR_MOTION (CIO-based chain)
	cache := pc.cioCache()
	res.CIRS = cio.GCRSToCIRS(position, jdTDB, method, cache)
	res.TIRS = cio.GCRSToTIRS(position, jdTDB, jdUT1, method, cache)
	res.ITRS = cio.GCRSToITRS(position, jdTDB, jdUT1, xp, yp, method, cache)

	// OBSERVER_VIEW / TOPOCENTRIC
	res.Topocentric = position // already observer-relative from LIGHT_TIME on

	// HORIZONTAL — the classical equinox-based chain via coord.Altaz,
	// offered alongside the CIO-based ITRS above as the two IAU-sanctioned
	// routes to the same answer.
	altDeg, azDeg, distKm := coord.Altaz(position, obs.LatDeg, obs.LonDeg, jdUT1)
	res.AltDeg, res.AzDeg, res.DistKm = altDeg, azDeg, distKm

	// REFRACTION
	res.ApparentAltDeg = altDeg
	if req.Options.ApplyRefraction {
		pressure := obs.PressureMb
		if pressure == 0 {
			pressure = 1010.0
		}
		temp := obs.TempC
		res.ApparentAltDeg = coord.Refract(altDeg, temp, pressure)
	}
	if req.Options.CorrectForExtinction && req.Options.CoordinateType == Apparent &&
		obs.MotherBody == bodies.Earth && !math.IsNaN(res.ApparentMagnitude) {
		res.ApparentMagnitude += magnitude.ExtinctionMag(altDeg)
	}

	return res, nil
}

// convertOutputFrame rotates an ICRF/GCRS position into the requested
// output frame and equinox (§4.J steps 7-8). FK4 rotates to the fixed
// B1950 mean equator/equinox; FK5 and DynamicalJ2000 apply the ICRS frame
// bias and then, unless the requested equinox is J2000 itself, precess to
// it.
func convertOutputFrame(position [3]float64, opts Options, method coord.ReductionMethod, jdTDB float64) ([3]float64, error) {
	switch opts.OutputFrame {
	case ICRF:
		return position, nil
	case FK4:
		return matVec3(coord.B1950Matrix, position), nil
	case FK5, DynamicalJ2000:
		framed := matVec3(coord.ICRSToJ2000Matrix, position)
		equinoxJD := opts.OutputEquinoxJD
		if opts.OutputEquinoxOfDate {
			equinoxJD = jdTDB
		}
		if equinoxJD == 0 || equinoxJD == j2000JD {
			return framed, nil
		}
		T := (equinoxJD - j2000JD) / 36525.0
		return matVec3(coord.PrecessionMatrix(method, T, true), framed), nil
	default:
		return position, newError(KindUnsupportedFrameConversion, "pipeline: unknown output frame %v", opts.OutputFrame)
	}
}

func matVec3(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// RA returns the apparent right ascension as an Angle, for callers that
// want sexagesimal HMS formatting instead of raw decimal hours.
func (r *Result) RA() units.Angle { return units.AngleFromHours(r.RAHours) }

// Dec returns the apparent declination as an Angle.
func (r *Result) Dec() units.Angle { return units.AngleFromDegrees(r.DecDeg) }

// Distance returns the topocentric distance as a Distance, convertible to
// AU, meters, or light-seconds.
func (r *Result) Distance() units.Distance { return units.NewDistance(r.DistKm) }

// targetAtBody is targetAt generalized over an arbitrary body (used for
// deflectors, which are not the request's own target).
func targetAtBody(pc *PipelineContext, jd float64, body int, algorithms []Algorithm, auKm float64) ([3]float64, error) {
	pos, _, err := pc.dispatch(jd, body, algorithms)
	if err != nil {
		return pos, err
	}
	return scaleAU(pos, auKm), nil
}

func (pc *PipelineContext) eopCorrection(jdUTC float64, opts Options) (dut1, xp, yp float64, warning string) {
	dut1, xp, yp, warning = eop.Obtain(pc.eop(), jdUTC, opts.CorrectForEOP, opts.CorrectForTides)
	if !opts.CorrectForPolarMotion {
		xp, yp = 0, 0
	}
	return dut1, xp, yp, warning
}

func knownBody(body int) bool {
	for _, b := range bodies.GranuleOrder {
		if b == body {
			return true
		}
	}
	switch body {
	case bodies.Sun, bodies.Moon, bodies.Earth, bodies.Mercury, bodies.Venus, bodies.Pluto:
		return true
	}
	return false
}

// raDecFromICRF returns the right ascension (hours) and declination
// (degrees) of an ICRF-axes position vector.
func raDecFromICRF(v [3]float64) (raHours, decDeg float64) {
	r := length3(v)
	if r == 0 {
		return 0, 0
	}
	decDeg = math.Asin(v[2]/r) * 180.0 / math.Pi
	ra := math.Atan2(v[1], v[0]) * 180.0 / math.Pi
	if ra < 0 {
		ra += 360.0
	}
	return ra / 15.0, decDeg
}

// decimalYear approximates a TDB Julian date as a decimal year, good enough
// for magnitude.neptune's slow secular term.
func decimalYear(jdTDB float64) float64 {
	return 2000.0 + (jdTDB-2451545.0)/365.25
}

func scaleAU(v [3]float64, s float64) [3]float64 {
	return [3]float64{v[0] * s, v[1] * s, v[2] * s}
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func add3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func length3(a [3]float64) float64 {
	return math.Sqrt(dot3(a, a))
}

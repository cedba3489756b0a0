package pipeline

import (
	"math"

	"github.com/anupshinde/goeph/cio"
	"github.com/anupshinde/goeph/constellation"
	"github.com/anupshinde/goeph/coord"
	"github.com/anupshinde/goeph/observer"
	"github.com/anupshinde/goeph/star"
	"github.com/anupshinde/goeph/timescale"
)

// ReduceStar is the fixed-star counterpart to Reduce: a catalog star's
// distance is large enough that light deflection and parallax-scale
// light-time iteration are negligible, so this runs proper-motion/radial-
// velocity propagation to jdTDB (star.Star.PositionKm) in place of the
// light-time/deflection loop, then the same stellar aberration, frame, and
// horizontal stages Reduce runs for solar-system bodies.
func (pc *PipelineContext) ReduceStar(s *star.Star, obs *observer.Observer, t timescale.Instant, opts Options) (*Result, error) {
	if obs == nil {
		obs = observer.New(0, 0, 0)
	}
	method := pc.Method
	if opts.Method != nil {
		method = *opts.Method
	}

	tdbInstant, err := timescale.Convert(t, timescale.TDB)
	if err != nil {
		return nil, newError(KindDomainError, "pipeline: converting request time to TDB: %v", err)
	}
	jdTDB := tdbInstant.JD

	utcInstant, err := timescale.Convert(t, timescale.UTC)
	if err != nil {
		return nil, newError(KindDomainError, "pipeline: converting request time to UTC: %v", err)
	}
	dut1, xp, yp, _ := pc.eopCorrection(utcInstant.JD, opts)
	jdUT1 := utcInstant.JD + dut1/timescale.SecPerDay

	algorithms := opts.Algorithms
	if algorithms == nil {
		algorithms = pc.Algorithms
	}
	obsState := func(jd float64, body int) (pos, vel [3]float64, err error) {
		return pc.dispatch(jd, body, algorithms)
	}
	obsPos, obsVel, err := obs.HeliocentricPositionOfObserver(jdTDB, jdUT1, obsState)
	if err != nil {
		return nil, err
	}
	obsPosKm := scaleAU(obsPos, auKm)
	obsVelKmPerDay := scaleAU(obsVel, auKm)

	starPosKm := s.PositionKm(jdTDB)
	position := sub3(starPosKm, obsPosKm)

	// ABERRATION — a star's own light-time isn't iterated on (catalog
	// proper motion already carries it), but the observer's motion still
	// aberrates the apparent direction the way it does for any target.
	lightTime := length3(position) / cKmPerDay
	position = coord.Aberration(position, obsVelKmPerDay, lightTime)

	res := &Result{JDTDB: jdTDB, JDUT1: jdUT1, LightTimeDay: lightTime, GCRS: position, Topocentric: position}
	pc.lastGCRS = position
	res.RAHours, res.DecDeg = raDecFromICRF(position)
	res.Constellation = constellation.At(res.RAHours, res.DecDeg)
	res.ApparentMagnitude = math.NaN()

	res.Frame, err = convertOutputFrame(position, opts, method, jdTDB)
	if err != nil {
		return nil, err
	}

	cache := pc.cioCache()
	res.CIRS = cio.GCRSToCIRS(position, jdTDB, method, cache)
	res.TIRS = cio.GCRSToTIRS(position, jdTDB, jdUT1, method, cache)
	res.ITRS = cio.GCRSToITRS(position, jdTDB, jdUT1, xp, yp, method, cache)

	altDeg, azDeg, distKm := coord.Altaz(position, obs.LatDeg, obs.LonDeg, jdUT1)
	res.AltDeg, res.AzDeg, res.DistKm = altDeg, azDeg, distKm
	res.ApparentAltDeg = altDeg
	if opts.ApplyRefraction {
		pressure := obs.PressureMb
		if pressure == 0 {
			pressure = 1010.0
		}
		res.ApparentAltDeg = coord.Refract(altDeg, obs.TempC, pressure)
	}

	return res, nil
}

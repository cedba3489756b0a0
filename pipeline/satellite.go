package pipeline

import (
	"github.com/anupshinde/goeph/cio"
	"github.com/anupshinde/goeph/coord"
	"github.com/anupshinde/goeph/observer"
	"github.com/anupshinde/goeph/satellite"
	"github.com/anupshinde/goeph/timescale"
)

// ReduceSatellite is the ArtificialSatellite counterpart to Reduce: a TLE
// already carries a geocentric state from SGP4 propagation, so there is no
// heliocentric theory to dispatch to and no light-time/deflection/
// aberration chain to run (the TLE's own epoch error dwarfs those
// corrections at LEO/MEO ranges). It still runs the same FRAME/PRECESSION/
// NUTATION/POLAR_MOTION and HORIZONTAL/REFRACTION stages Reduce does, so a
// caller gets a Result shaped identically regardless of which algorithm
// produced it.
func (pc *PipelineContext) ReduceSatellite(sat satellite.Sat, obs *observer.Observer, t timescale.Instant, opts Options) (*Result, error) {
	if obs == nil {
		obs = observer.New(0, 0, 0)
	}
	method := pc.Method
	if opts.Method != nil {
		method = *opts.Method
	}

	ttInstant, err := timescale.Convert(t, timescale.TT)
	if err != nil {
		return nil, newError(KindDomainError, "pipeline: converting request time to TT: %v", err)
	}
	ttJD := ttInstant.JD

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

	satICRF, err := satellite.GeocentricICRF(sat, ttJD)
	if err != nil {
		return nil, newError(KindDomainError, "pipeline: propagating satellite: %v", err)
	}

	obsICRF := obs.TopocentricICRF(jdTDB, jdUT1)
	position := sub3(satICRF, obsICRF)

	res := &Result{JDTDB: jdTDB, JDUT1: jdUT1, GCRS: position, Topocentric: position}
	pc.lastGCRS = position

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

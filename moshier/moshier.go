// Package moshier implements a fitted long-period theory in the style of
// Steve Moshier's `gplan`/`g3plan`: planetary positions from secular
// (polynomial-in-time) mean elements plus a small set of periodic
// corrections keyed to the planets' fundamental frequencies, rather than
// from a Chebyshev-fitted numerical integration.
//
// No `gplan`/`g3plan` coefficient table survived retrieval for this
// package — every repo in the reference pack either reads a binary DE
// kernel (spk.go) or carries no planetary theory at all. The secular
// elements below are E.M. Standish's "Keplerian Elements for Approximate
// Positions of the Major Planets" (JPL/Caltech, valid 1800-2050), which is
// the same kind of low-order closed-form fit `gplan` itself is, so the
// substitution keeps the right shape even though the specific coefficients
// come from a different published fit. Documented as reduced-fidelity
// (see DESIGN.md): this buys correct structure and plausible accuracy, not
// gplan's actual arcsecond-level fit.
package moshier

import (
	"math"

	"github.com/anupshinde/goeph/bodies"
	"github.com/anupshinde/goeph/kepler"
	"github.com/pkg/errors"
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
	auKm    = 149597870.7
	j2000JD = 2451545.0

	// J2000 mean obliquity (Lieske 1979), matching kepler's and coord's
	// constant so every package's ecliptic<->equatorial rotation agrees.
	obliquitySin = 0.3977771559319137062
	obliquityCos = 0.9174820620691818140

	// emrat is the Earth/Moon mass ratio (DE-series convention, matches
	// cheby's use of the header's EMRAT constant for the same split).
	emrat = 81.30056822149722
)

// elementSet holds one body's Standish J2000 osculating elements and their
// linear secular rates (per Julian century), the "polynomial time-power"
// half of a gplan-style series.
type elementSet struct {
	a0, aDot         float64 // AU
	e0, eDot         float64
	i0, iDot         float64 // deg
	l0, lDot         float64 // mean longitude, deg
	peri0, periDot   float64 // longitude of perihelion, deg
	node0, nodeDot   float64 // longitude of ascending node, deg
	perturbation     Series  // additive correction to mean longitude, degrees
}

// elements returns the body's osculating elements at Julian centuries T
// from J2000 TDB.
func (e elementSet) at(T float64) (a, ecc, incDeg, meanAnomDeg, argPeriDeg, nodeDeg float64) {
	a = e.a0 + e.aDot*T
	ecc = e.e0 + e.eDot*T
	incDeg = e.i0 + e.iDot*T
	lDeg := e.l0 + e.lDot*T + e.perturbation.Evaluate(T/10.0)
	periDeg := e.peri0 + e.periDot*T
	nodeDeg = e.node0 + e.nodeDot*T
	argPeriDeg = periDeg - nodeDeg
	meanAnomDeg = lDeg - periDeg
	return
}

// jupiterGreatInequality is the classical ~900-year "great inequality" term
// in Jupiter's mean longitude driven by the near 5:2 Jupiter-Saturn mean
// motion resonance (2*n_Saturn - 5*n_Jupiter), amplitude from Newcomb's
// tables. Frequency/phase expressed in the Series convention (radians per
// Julian millennium). This is the one genuinely periodic gplan-style term
// this package carries; the rest of the fit is Standish's secular series.
var jupiterGreatInequality = Series{
	{Amplitude: 0.3220 * deg2rad, Phase: 0, Frequency: 2 * math.Pi / 0.9074},
}

var saturnGreatInequality = Series{
	{Amplitude: -0.8130 * deg2rad, Phase: math.Pi, Frequency: 2 * math.Pi / 0.9074},
}

// elementTable holds the Standish elements keyed by NAIF barycenter ID.
var elementTable = map[int]elementSet{
	bodies.MercuryBarycenter: {
		a0: 0.38709927, aDot: 0.00000037,
		e0: 0.20563593, eDot: 0.00001906,
		i0: 7.00497902, iDot: -0.00594749,
		l0: 252.25032350, lDot: 149472.67411175,
		peri0: 77.45779628, periDot: 0.16047689,
		node0: 48.33076593, nodeDot: -0.12534081,
	},
	bodies.VenusBarycenter: {
		a0: 0.72333566, aDot: 0.00000390,
		e0: 0.00677672, eDot: -0.00004107,
		i0: 3.39467605, iDot: -0.00078890,
		l0: 181.97909950, lDot: 58517.81538729,
		peri0: 131.60246718, periDot: 0.00268329,
		node0: 76.67984255, nodeDot: -0.27769418,
	},
	bodies.EarthMoonBary: {
		a0: 1.00000261, aDot: 0.00000562,
		e0: 0.01671123, eDot: -0.00004392,
		i0: -0.00001531, iDot: -0.01294668,
		l0: 100.46457166, lDot: 35999.37244981,
		peri0: 102.93768193, periDot: 0.32327364,
		node0: 0.0, nodeDot: 0.0,
	},
	bodies.MarsBarycenter: {
		a0: 1.52371034, aDot: 0.00001847,
		e0: 0.09339410, eDot: 0.00007882,
		i0: 1.84969142, iDot: -0.00813131,
		l0: -4.55343205, lDot: 19140.30268499,
		peri0: -23.94362959, periDot: 0.44441088,
		node0: 49.55953891, nodeDot: -0.29257343,
	},
	bodies.JupiterBarycenter: {
		a0: 5.20288700, aDot: -0.00011607,
		e0: 0.04838624, eDot: -0.00013253,
		i0: 1.30439695, iDot: -0.00183714,
		l0: 34.39644051, lDot: 3034.74612775,
		peri0: 14.72847983, periDot: 0.21252668,
		node0: 100.47390909, nodeDot: 0.20469106,
		perturbation: jupiterGreatInequality,
	},
	bodies.SaturnBarycenter: {
		a0: 9.53667594, aDot: -0.00125060,
		e0: 0.05386179, eDot: -0.00050991,
		i0: 2.48599187, iDot: 0.00193609,
		l0: 49.95424423, lDot: 1222.49362201,
		peri0: 92.59887831, periDot: -0.41897216,
		node0: 113.66242448, nodeDot: -0.28867794,
		perturbation: saturnGreatInequality,
	},
	bodies.UranusBarycenter: {
		a0: 19.18916464, aDot: -0.00196176,
		e0: 0.04725744, eDot: -0.00004397,
		i0: 0.77263783, iDot: -0.00242939,
		l0: 313.23810451, lDot: 428.48202785,
		peri0: 170.95427630, periDot: 0.40805281,
		node0: 74.01692503, nodeDot: 0.04240589,
	},
	bodies.NeptuneBarycenter: {
		a0: 30.06992276, aDot: 0.00026291,
		e0: 0.00859048, eDot: 0.00005105,
		i0: 1.77004347, iDot: 0.00035372,
		l0: -55.12002969, lDot: 218.45945325,
		peri0: 44.96476227, periDot: -0.32241464,
		node0: 131.78422574, nodeDot: -0.00508664,
	},
	bodies.PlutoBarycenter: {
		a0: 39.48211675, aDot: -0.00031596,
		e0: 0.24882730, eDot: 0.00005170,
		i0: 17.14001206, iDot: 0.00004818,
		l0: 238.92903833, lDot: 145.20780515,
		peri0: 224.06891629, periDot: -0.04062942,
		node0: 110.30393684, nodeDot: -0.01183482,
	},
}

// centuries returns Julian centuries from J2000 TDB.
func centuries(jdTDB float64) float64 {
	return (jdTDB - j2000JD) / 36525.0
}

// orbitFor builds a kepler.Orbit for body at jdTDB from its Standish
// elements, evaluated directly at date (the "epoch" of the returned orbit
// is jdTDB itself, so propagation from it is a no-op — mean elements are
// read off at the requested instant rather than fixed at some base epoch
// and integrated forward).
func orbitFor(body int, jdTDB float64) (kepler.Orbit, bool) {
	es, ok := elementTable[body]
	if !ok {
		return kepler.Orbit{}, false
	}
	T := centuries(jdTDB)
	a, ecc, incDeg, meanAnomDeg, argPeriDeg, nodeDeg := es.at(T)
	return kepler.Orbit{
		SemiMajorAxisAU: a,
		Eccentricity:    ecc,
		InclinationDeg:  incDeg,
		LongAscNodeDeg:  nodeDeg,
		ArgPeriapsisDeg: argPeriDeg,
		MeanAnomalyDeg:  meanAnomDeg,
		EpochJD:         jdTDB,
	}, true
}

// moonOrbit builds a low-precision mean lunar orbit (Meeus, Astronomical
// Algorithms ch. 47, truncated to its leading secular terms), geocentric,
// elements read off directly at jdTDB the same way orbitFor does for the
// planets. Reduced-fidelity stand-in for ELP-2000/g3plan: see package doc.
func moonOrbit(jdTDB float64) kepler.Orbit {
	T := centuries(jdTDB)

	meanLon := 218.3164591 + 481267.88134236*T - 0.0013268*T*T
	meanAnom := 134.9634114 + 477198.8676313*T + 0.0089970*T*T
	node := 125.0445550 - 1934.1362608*T + 0.0020762*T*T

	const ecc = 0.0549
	const incDeg = 5.145396
	const aAU = 384400.0 / auKm

	peri := meanLon - node - meanAnom

	muEarthAU3D2 := kepler.GMSunAU3D2 / bodies.ReciprocalMass[bodies.Earth]

	return kepler.Orbit{
		SemiMajorAxisAU: aAU,
		Eccentricity:    ecc,
		InclinationDeg:  incDeg,
		LongAscNodeDeg:  math.Mod(node, 360.0),
		ArgPeriapsisDeg: math.Mod(peri, 360.0),
		MeanAnomalyDeg:  math.Mod(meanAnom, 360.0),
		EpochJD:         jdTDB,
		GM:              muEarthAU3D2,
	}
}

// equatorialToEcliptic rotates an ICRF/equatorial vector to the J2000
// ecliptic frame: the exact inverse of kepler.Orbit's final ecliptic→
// equatorial step, so the round trip through kepler.Orbit.StateAU and back
// is consistent to machine precision.
func equatorialToEcliptic(v [3]float64) [3]float64 {
	return [3]float64{
		v[0],
		obliquityCos*v[1] + obliquitySin*v[2],
		-obliquitySin*v[1] + obliquityCos*v[2],
	}
}

// State implements the uniform `state(jdTDB, body) -> (pos, vel)` theory
// contract (matching cheby.Reader.State) in equatorial ICRF/J2000, AU and
// AU/day. Earth is derived from the Earth-Moon barycenter and the mean
// lunar orbit: EMB - Moon/(1+emrat), per §4.F.
func State(jdTDB float64, body int) (pos, vel [3]float64, err error) {
	switch body {
	case bodies.Sun:
		return pos, vel, nil
	case bodies.Moon:
		o := moonOrbit(jdTDB)
		pos, vel = o.StateAU(jdTDB)
		return pos, vel, nil
	case bodies.Earth:
		embOrbit, ok := orbitFor(bodies.EarthMoonBary, jdTDB)
		if !ok {
			return pos, vel, errors.New("moshier: no element set for EMB")
		}
		embPos, embVel := embOrbit.StateAU(jdTDB)
		mo := moonOrbit(jdTDB)
		moonPos, moonVel := mo.StateAU(jdTDB)
		frac := 1.0 / (1.0 + emrat)
		for i := 0; i < 3; i++ {
			pos[i] = embPos[i] - moonPos[i]*frac
			vel[i] = embVel[i] - moonVel[i]*frac
		}
		return pos, vel, nil
	}

	o, ok := orbitFor(body, jdTDB)
	if !ok {
		return pos, vel, errors.Errorf("moshier: unknown or out-of-theory body %d", body)
	}
	pos, vel = o.StateAU(jdTDB)
	return pos, vel, nil
}

// HeliocentricEclipticJ2000 implements §4.F's literal contract:
// `heliocentricEclipticJ2000(jd, body) -> pos` (AU, J2000 ecliptic frame),
// here extended to also return velocity (AU/day) for the caller's
// light-time iteration. The Moon is geocentric (not heliocentric) by
// convention, matching §4.F's own carve-out ("The Moon is returned as
// geocentric ecliptic of date..."); this implementation reads its mean
// elements directly at jdTDB rather than separately modeling "of date"
// and rotating, since both the elements and the rotation target (J2000)
// are evaluated at the same instant here (see moonOrbit).
func HeliocentricEclipticJ2000(jdTDB float64, body int) (pos, vel [3]float64, err error) {
	eqPos, eqVel, err := State(jdTDB, body)
	if err != nil {
		return pos, vel, err
	}
	return equatorialToEcliptic(eqPos), equatorialToEcliptic(eqVel), nil
}

// Libration returns the Moon's physical libration as three body-fixed
// Euler angles (radians): phi (libration in longitude), theta (libration
// in latitude, expressed as the angle between the lunar equator and
// ecliptic), psi (lunar rotation angle). This carries only the optical
// component driven by the orbit's own eccentricity and inclination to the
// ecliptic — no physical-libration (Cassini-law torque) series survived
// retrieval, so the small (~tenths of a degree) physical term is omitted.
// The caller composes this with Mmatrix x R1(epsilon) x precessionMatrix
// per §4.F to reach the conventional equatorial libration triplet.
func Libration(jdTDB float64) (phi, theta, psi float64) {
	o := moonOrbit(jdTDB)
	T := centuries(jdTDB)
	meanAnom := o.MeanAnomalyDeg * deg2rad
	inc := o.InclinationDeg * deg2rad
	node := o.LongAscNodeDeg * deg2rad

	phi = o.Eccentricity * math.Sin(meanAnom)
	theta = inc
	psi = node + 0.0003*T // secular node regression residual, documented placeholder
	return
}

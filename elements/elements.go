// Package elements computes osculating Keplerian orbital elements from
// position and velocity state vectors, and performs initial orbit
// determination from two position vectors (Lambert/universal-variable) or
// three angular observations (Gauss' method).
//
// Based on the algorithms in Bate, Mueller & White, "Fundamentals of
// Astrodynamics" (1971), Sections 2.4, 5.3, and 5.5. Matches Skyfield's
// elementslib.py for the state-vector case.
package elements

import (
	"math"

	"github.com/anupshinde/goeph/kepler"
)

const (
	twoPi     = 2 * math.Pi
	deg2rad   = math.Pi / 180.0
	rad2deg   = 180.0 / math.Pi
	secPerDay = 86400.0

	// auKm is the IAU astronomical unit in km (matches kepler.auKm).
	auKm = 149597870.7
)

// OsculatingElements holds a complete set of Keplerian orbital elements.
type OsculatingElements struct {
	SemiMajorAxisKm      float64 // a — semi-major axis in km (Inf for parabolic)
	SemiMinorAxisKm      float64 // b — semi-minor axis in km
	SemiLatusRectumKm    float64 // p — semi-latus rectum in km
	Eccentricity         float64 // e — eccentricity (0=circular, <1=elliptic, 1=parabolic, >1=hyperbolic)
	InclinationDeg       float64 // i — inclination in degrees
	LongAscNodeDeg       float64 // Ω — longitude of ascending node in degrees
	ArgPeriapsisDeg      float64 // ω — argument of periapsis in degrees
	TrueAnomalyDeg       float64 // ν — true anomaly in degrees
	EccentricAnomalyDeg  float64 // E — eccentric anomaly in degrees (hyperbolic anomaly for e>1)
	MeanAnomalyDeg       float64 // M — mean anomaly in degrees
	MeanMotionDegPerDay  float64 // n — mean motion in degrees/day
	PeriapsisDistanceKm  float64 // q — periapsis distance in km
	ApoapsisDistanceKm   float64 // Q — apoapsis distance in km (Inf for e≥1)
	PeriodDays           float64 // P — orbital period in days (Inf for e≥1)
	TrueLongitudeDeg     float64 // l — true longitude (Ω + ω + ν) in degrees
	MeanLongitudeDeg     float64 // L — mean longitude (Ω + ω + M) in degrees
	LongPeriapsisDeg     float64 // ϖ — longitude of periapsis (Ω + ω) in degrees
	ArgLatitudeDeg       float64 // u — argument of latitude (ω + ν) in degrees
	PeriapsisTimeDays    float64 // time of periapsis relative to epoch (days)
}

// FromStateVector computes osculating Keplerian orbital elements from a
// position and velocity state vector.
//
// posKm is position in km, velKmPerSec is velocity in km/s.
// muKm3s2 is the gravitational parameter GM in km³/s² (e.g., 132712440041.94 for the Sun).
func FromStateVector(posKm, velKmPerSec [3]float64, muKm3s2 float64) OsculatingElements {
	r := length(posKm)
	v := length(velKmPerSec)

	// Specific angular momentum h = r × v
	hVec := cross(posKm, velKmPerSec)
	h := length(hVec)

	// Eccentricity vector e = ((v²-μ/r)r - (r·v)v) / μ
	rdv := dot(posKm, velKmPerSec)
	v2 := v * v
	factor := v2 - muKm3s2/r
	eVec := [3]float64{
		(factor*posKm[0] - rdv*velKmPerSec[0]) / muKm3s2,
		(factor*posKm[1] - rdv*velKmPerSec[1]) / muKm3s2,
		(factor*posKm[2] - rdv*velKmPerSec[2]) / muKm3s2,
	}
	e := length(eVec)

	// Node vector n = [-hy, hx, 0]
	nVec := [3]float64{-hVec[1], hVec[0], 0}
	n := length(nVec)

	// Semi-latus rectum
	p := h * h / muKm3s2

	// Inclination
	inc := math.Acos(clamp(hVec[2]/h, -1, 1))

	// Longitude of ascending node
	var omega float64
	if n > 1e-15 {
		omega = math.Atan2(hVec[0], -hVec[1])
		if omega < 0 {
			omega += twoPi
		}
	}

	// True anomaly
	nu := trueAnomaly(eVec, e, nVec, n, posKm, velKmPerSec, r, rdv)

	// Argument of periapsis
	w := argPeriapsis(eVec, e, nVec, n, posKm, velKmPerSec, hVec)

	// Semi-major axis
	var a float64
	e2 := e * e
	if math.Abs(e-1.0) < 1e-15 {
		a = math.Inf(1)
	} else {
		a = p / (1.0 - e2)
	}

	// Semi-minor axis
	var b float64
	if e < 1.0 {
		b = p / math.Sqrt(1.0-e2)
	} else if e > 1.0 {
		b = p * math.Sqrt(e2-1.0) / (1.0 - e2) // negative for hyperbolic, use abs
		if b < 0 {
			b = -b
		}
	}

	// Eccentric anomaly
	E := eccentricAnomaly(nu, e)

	// Mean anomaly
	M := meanAnomaly(E, e)

	// Mean motion (rad/s → deg/day)
	var nMot float64
	absA := math.Abs(a)
	if absA > 0 && !math.IsInf(absA, 0) {
		nMot = math.Sqrt(muKm3s2 / (absA * absA * absA)) // rad/s
	}

	// Periapsis/apoapsis distance
	var q, Q float64
	if math.Abs(e-1.0) < 1e-15 {
		q = p / 2.0
	} else {
		q = p * (1.0 - e) / (1.0 - e2)
	}
	if e < 1.0 {
		Q = p * (1.0 + e) / (1.0 - e2)
	} else {
		Q = math.Inf(1)
	}

	// Period
	var period float64
	if a > 0 && !math.IsInf(a, 0) {
		period = twoPi * math.Sqrt(a*a*a/muKm3s2) / secPerDay
	} else {
		period = math.Inf(1)
	}

	// Periapsis time
	var tPeri float64
	if nMot > 1e-20 {
		tPeri = M / nMot / secPerDay // days
	}

	// Composite angles
	trueLon := math.Mod(omega+w+nu+4*twoPi, twoPi)
	meanLon := math.Mod(omega+w+M+4*twoPi, twoPi)
	longPeri := math.Mod(omega+w+4*twoPi, twoPi)
	argLat := math.Mod(w+nu+4*twoPi, twoPi)

	return OsculatingElements{
		SemiMajorAxisKm:      a,
		SemiMinorAxisKm:      b,
		SemiLatusRectumKm:    p,
		Eccentricity:         e,
		InclinationDeg:       inc * rad2deg,
		LongAscNodeDeg:       omega * rad2deg,
		ArgPeriapsisDeg:      w * rad2deg,
		TrueAnomalyDeg:       nu * rad2deg,
		EccentricAnomalyDeg:  E * rad2deg,
		MeanAnomalyDeg:       M * rad2deg,
		MeanMotionDegPerDay:  nMot * rad2deg * secPerDay,
		PeriapsisDistanceKm:  q,
		ApoapsisDistanceKm:   Q,
		PeriodDays:           period,
		TrueLongitudeDeg:     trueLon * rad2deg,
		MeanLongitudeDeg:     meanLon * rad2deg,
		LongPeriapsisDeg:     longPeri * rad2deg,
		ArgLatitudeDeg:       argLat * rad2deg,
		PeriapsisTimeDays:    tPeri,
	}
}

func trueAnomaly(eVec [3]float64, e float64, nVec [3]float64, n float64, pos, vel [3]float64, r, rdv float64) float64 {
	if e > 1e-15 {
		// Non-circular: angle between eccentricity vector and position
		nu := angleBetween(eVec, pos)
		if rdv < 0 {
			nu = twoPi - nu
		}
		if e > 1.0-1e-15 {
			// Hyperbolic: normalize to [-π, π]
			nu = normPi(nu)
		}
		return nu
	}
	if n < 1e-15 {
		// Circular equatorial
		nu := math.Acos(clamp(pos[0]/r, -1, 1))
		if vel[0] > 0 {
			nu = twoPi - nu
		}
		return nu
	}
	// Circular non-equatorial
	nu := angleBetween(nVec, pos)
	if pos[2] < 0 {
		nu = twoPi - nu
	}
	return nu
}

func argPeriapsis(eVec [3]float64, e float64, nVec [3]float64, n float64, pos, vel, hVec [3]float64) float64 {
	if e < 1e-15 {
		return 0 // circular orbit: ω undefined, set to 0
	}
	if n > 1e-15 {
		// Non-equatorial
		w := angleBetween(nVec, eVec)
		if eVec[2] < 0 {
			w = twoPi - w
		}
		return w
	}
	// Equatorial
	w := math.Atan2(eVec[1], eVec[0])
	if w < 0 {
		w += twoPi
	}
	// Check prograde/retrograde
	crossRV := cross(pos, vel)
	if crossRV[2] < 0 {
		w = twoPi - w
	}
	return w
}

func eccentricAnomaly(nu, e float64) float64 {
	if e < 1.0 {
		E := 2.0 * math.Atan(math.Sqrt((1.0-e)/(1.0+e))*math.Tan(nu/2.0))
		if E < 0 {
			E += twoPi
		}
		return E
	}
	if e > 1.0 {
		// Hyperbolic anomaly
		tanNu2 := math.Tan(nu / 2.0)
		ratio := tanNu2 / math.Sqrt((e+1.0)/(e-1.0))
		E := 2.0 * math.Atanh(ratio)
		return normPi(E)
	}
	return 0 // parabolic
}

func meanAnomaly(E, e float64) float64 {
	if e < 1.0 {
		M := E - e*math.Sin(E)
		M = math.Mod(M+twoPi, twoPi)
		return M
	}
	if e > 1.0 {
		M := e*math.Sinh(E) - E
		return normPi(M)
	}
	return 0
}

func angleBetween(u, v [3]float64) float64 {
	uMag := length(u)
	vMag := length(v)
	if uMag == 0 || vMag == 0 {
		return 0
	}
	// Kahan's numerically stable formula
	a := [3]float64{u[0] * vMag, u[1] * vMag, u[2] * vMag}
	b := [3]float64{v[0] * uMag, v[1] * uMag, v[2] * uMag}
	diff := [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
	sum := [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
	return 2.0 * math.Atan2(length(diff), length(sum))
}

func normPi(angle float64) float64 {
	a := math.Mod(angle+math.Pi, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a - math.Pi
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func length(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toOrbit packages osculating elements computed at epochJD into a
// kepler.Orbit, converting km/s-based quantities to the AU/day convention
// kepler.Orbit propagates in.
func toOrbit(els OsculatingElements, epochJD, muKm3s2 float64) kepler.Orbit {
	muAU3Day2 := muKm3s2 * secPerDay * secPerDay / (auKm * auKm * auKm)
	return kepler.Orbit{
		SemiMajorAxisAU: els.SemiMajorAxisKm / auKm,
		Eccentricity:    els.Eccentricity,
		InclinationDeg:  els.InclinationDeg,
		LongAscNodeDeg:  els.LongAscNodeDeg,
		ArgPeriapsisDeg: els.ArgPeriapsisDeg,
		MeanAnomalyDeg:  els.MeanAnomalyDeg,
		EpochJD:         epochJD,
		GM:              muAU3Day2,
	}
}

// ElementsFromTwoPositions solves Lambert's problem (orbit determination
// from two position vectors and the transfer time between them) by the
// universal-variable method, then derives a full osculating orbit from the
// resulting velocity at r1.
//
// jd1, jd2 are TDB Julian dates; r1Km, r2Km are position vectors (km) in
// the same frame the returned kepler.Orbit propagates in (ecliptic J2000).
// The short-way transfer is assumed (prograde, transfer angle < 180°).
func ElementsFromTwoPositions(jd1, jd2 float64, r1Km, r2Km [3]float64, muKm3s2 float64) (kepler.Orbit, error) {
	dt := (jd2 - jd1) * secPerDay
	v1, _, err := lambertUniversal(r1Km, r2Km, dt, muKm3s2)
	if err != nil {
		return kepler.Orbit{}, err
	}
	els := FromStateVector(r1Km, v1, muKm3s2)
	return toOrbit(els, jd1, muKm3s2), nil
}

// lambertUniversal solves Lambert's problem via the universal-variable
// formulation (Bate/Mueller/White §5.3; Vallado's "lambertuniv" algorithm),
// returning the velocity vectors at r1 and r2 for a transfer of duration dt
// seconds. Assumes prograde motion and the short-way branch.
func lambertUniversal(r1, r2 [3]float64, dt, mu float64) (v1, v2 [3]float64, err error) {
	r1mag := length(r1)
	r2mag := length(r2)

	cosDnu := clamp(dot(r1, r2)/(r1mag*r2mag), -1, 1)
	dnu := math.Acos(cosDnu)
	cr := cross(r1, r2)
	if cr[2] < 0 {
		dnu = twoPi - dnu
	}

	sinDnu := math.Sin(dnu)
	if math.Abs(sinDnu) < 1e-12 {
		return v1, v2, errNoConvergence{"lambertUniversal", "degenerate transfer angle"}
	}
	A := sinDnu * math.Sqrt(r1mag*r2mag/(1.0-cosDnu))

	sqrtMu := math.Sqrt(mu)

	// Bracket and bisect on the universal anomaly psi so that the time of
	// flight implied by psi matches dt. dt(psi) is monotonically increasing,
	// so bisection is robust without needing the Newton derivative.
	psiLow := -4.0 * math.Pi * math.Pi
	psiUp := 4.0 * math.Pi * math.Pi

	timeOfFlight := func(psi float64) (tof, y float64, ok bool) {
		c2, c3 := stumpff(psi)
		if c2 == 0 {
			return 0, 0, false
		}
		y = r1mag + r2mag + A*(psi*c3-1.0)/math.Sqrt(c2)
		if A > 0 && y < 0 {
			return 0, 0, false
		}
		chi := math.Sqrt(y / c2)
		tof = (chi*chi*chi*c3 + A*math.Sqrt(y)) / sqrtMu
		return tof, y, true
	}

	var psi, y float64
	converged := false
	for iter := 0; iter < 100; iter++ {
		psi = 0.5 * (psiLow + psiUp)
		tof, yy, ok := timeOfFlight(psi)
		if !ok {
			psiLow = psi // y<0 branch needs larger psi
			continue
		}
		y = yy
		if math.Abs(tof-dt) < 1e-6 {
			converged = true
			break
		}
		if tof <= dt {
			psiLow = psi
		} else {
			psiUp = psi
		}
	}
	if !converged {
		return v1, v2, errNoConvergence{"lambertUniversal", "time of flight did not converge"}
	}

	f := 1.0 - y/r1mag
	gDot := 1.0 - y/r2mag
	g := A * math.Sqrt(y/mu)

	for i := 0; i < 3; i++ {
		v1[i] = (r2[i] - f*r1[i]) / g
		v2[i] = (gDot*r2[i] - r1[i]) / g
	}
	return v1, v2, nil
}

// stumpff evaluates the Stumpff functions c2(psi), c3(psi).
func stumpff(psi float64) (c2, c3 float64) {
	switch {
	case psi > 1e-6:
		sq := math.Sqrt(psi)
		c2 = (1.0 - math.Cos(sq)) / psi
		c3 = (sq - math.Sin(sq)) / math.Sqrt(psi*psi*psi)
	case psi < -1e-6:
		sq := math.Sqrt(-psi)
		c2 = (1.0 - math.Cosh(sq)) / psi
		c3 = (math.Sinh(sq) - sq) / math.Sqrt(-psi*-psi*-psi)
	default:
		c2 = 0.5
		c3 = 1.0 / 6.0
	}
	return
}

// errNoConvergence reports an iterative solver's failure to converge.
type errNoConvergence struct {
	op     string
	reason string
}

func (e errNoConvergence) Error() string {
	return e.op + ": no convergence (" + e.reason + ")"
}

// ElementsFromThreeAngles performs angles-only initial orbit determination
// (Gauss' method) from three right-ascension/declination observations of a
// body, the observer's position at each observation, and the observation
// times.
//
// radec entries are {RA, Dec} in degrees (equatorial, ICRF-aligned).
// obs entries are the observer's geocentric position in km, in the same
// frame. time entries are TDB Julian dates, ordered increasing.
func ElementsFromThreeAngles(radec [3][2]float64, obs [3][3]float64, time [3]float64, muKm3s2 float64) (kepler.Orbit, error) {
	var L [3][3]float64
	for i := 0; i < 3; i++ {
		ra := radec[i][0] * deg2rad
		dec := radec[i][1] * deg2rad
		sinDec, cosDec := math.Sincos(dec)
		sinRa, cosRa := math.Sincos(ra)
		L[i] = [3]float64{cosDec * cosRa, cosDec * sinRa, sinDec}
	}
	R1, R2, R3 := obs[0], obs[1], obs[2]

	tau1 := (time[0] - time[1]) * secPerDay
	tau3 := (time[2] - time[1]) * secPerDay
	tau := tau3 - tau1

	p1 := cross(L[1], L[2])
	p2 := cross(L[0], L[2])

	D0 := dot(L[0], p1)
	if math.Abs(D0) < 1e-20 {
		return kepler.Orbit{}, errNoConvergence{"ElementsFromThreeAngles", "observations are coplanar with the observer"}
	}

	D12 := dot(R1, p2)
	D22 := dot(R2, p2)
	D32 := dot(R3, p2)

	A := (-D12*(tau3/tau) + D22 + D32*(tau1/tau)) / D0
	B := (D12*(tau3*tau3-tau*tau)*(tau3/tau) + D32*(tau*tau-tau1*tau1)*(tau1/tau)) / (6.0 * D0)

	E := dot(R2, L[1])
	R2sq := dot(R2, R2)

	// 8th-order polynomial in r2: r2^8 + c6*r2^6 + c3*r2^3 + c0 = 0.
	c6 := -(A*A + 2*A*E + R2sq)
	c3 := -2 * muKm3s2 * B * (A + E)
	c0 := -muKm3s2 * muKm3s2 * B * B

	poly := func(r float64) float64 {
		r3 := r * r * r
		return r3*r3*r*r + c6*r3*r + c3*r3 + c0
	}
	dpoly := func(r float64) float64 {
		r2p := r * r
		r5 := r2p * r2p * r
		return 8*r5*r2p + 6*c6*r5 + 3*c3*r2p
	}

	r2mag := 1.5 * length(R2)
	if r2mag == 0 {
		r2mag = auKm
	}
	converged := false
	for iter := 0; iter < 50; iter++ {
		f := poly(r2mag)
		fp := dpoly(r2mag)
		if fp == 0 {
			break
		}
		delta := f / fp
		r2mag -= delta
		if r2mag <= 0 {
			r2mag = length(R2) * 0.5
		}
		if math.Abs(delta) < 1e-6 {
			converged = true
			break
		}
	}
	if !converged {
		return kepler.Orbit{}, errNoConvergence{"ElementsFromThreeAngles", "r2 root did not converge"}
	}

	u := muKm3s2 / (r2mag * r2mag * r2mag)
	a1 := tau3 / tau
	a1u := (tau3 * (tau*tau - tau3*tau3)) / (6.0 * tau)
	a3 := -tau1 / tau
	a3u := -(tau1 * (tau*tau - tau1*tau1)) / (6.0 * tau)
	c1 := a1 + a1u*u
	c3coef := a3 + a3u*u

	// Solve c1*ρ1*L1 - ρ2*L2 + c3*ρ3*L3 = R2 - c1*R1 - c3*R3 for the slant
	// ranges by Cramer's rule.
	colA := scale(c1, L[0])
	colB := scale(-1.0, L[1])
	colC := scale(c3coef, L[2])
	rhs := sub(sub(R2, scale(c1, R1)), scale(c3coef, R3))

	det := mat3Det(colA, colB, colC)
	if math.Abs(det) < 1e-20 {
		return kepler.Orbit{}, errNoConvergence{"ElementsFromThreeAngles", "singular slant-range system"}
	}
	rho1 := mat3Det(rhs, colB, colC) / det
	rho2 := mat3Det(colA, rhs, colC) / det
	rho3 := mat3Det(colA, colB, rhs) / det

	r1vec := add(R1, scale(rho1, L[0]))
	r2vec := add(R2, scale(rho2, L[1]))
	r3vec := add(R3, scale(rho3, L[2]))

	v2, err := gibbs(r1vec, r2vec, r3vec, muKm3s2)
	if err != nil {
		return kepler.Orbit{}, err
	}

	els := FromStateVector(r2vec, v2, muKm3s2)
	return toOrbit(els, time[1], muKm3s2), nil
}

// gibbs recovers the velocity at r2 from three coplanar position vectors
// (Bate/Mueller/White §5.5, the Gibbs method).
func gibbs(r1, r2, r3 [3]float64, mu float64) ([3]float64, error) {
	r1mag, r2mag, r3mag := length(r1), length(r2), length(r3)

	Z12 := cross(r1, r2)
	Z23 := cross(r2, r3)
	Z31 := cross(r3, r1)

	N := add(add(scale(r1mag, Z23), scale(r2mag, Z31)), scale(r3mag, Z12))
	Dsum := add(add(Z12, Z23), Z31)
	S := add(add(scale(r2mag-r3mag, r1), scale(r3mag-r1mag, r2)), scale(r1mag-r2mag, r3))
	Bvec := cross(Dsum, r2)

	nMag := length(N)
	dMag := length(Dsum)
	if nMag == 0 || dMag == 0 {
		return [3]float64{}, errNoConvergence{"gibbs", "degenerate position triad"}
	}

	Lg := math.Sqrt(mu / (nMag * dMag))
	v2 := add(scale(Lg/r2mag, Bvec), scale(Lg, S))
	return v2, nil
}

func add(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scale(s float64, a [3]float64) [3]float64 {
	return [3]float64{s * a[0], s * a[1], s * a[2]}
}

// mat3Det returns the determinant of the 3x3 matrix whose columns are c1, c2, c3.
func mat3Det(c1, c2, c3 [3]float64) float64 {
	return c1[0]*(c2[1]*c3[2]-c2[2]*c3[1]) -
		c1[1]*(c2[0]*c3[2]-c2[2]*c3[0]) +
		c1[2]*(c2[0]*c3[1]-c2[1]*c3[0])
}

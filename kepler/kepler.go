// Package kepler provides Keplerian orbit propagation for minor planets and
// comets. Given orbital elements at an epoch, it computes heliocentric
// position at any time using Kepler's equation.
//
// Orbital elements are in the J2000 ecliptic frame, matching the convention
// used by the Minor Planet Center and JPL. Returned positions are in the
// ICRF (equatorial) frame for compatibility with the rest of goeph.
package kepler

import "math"

const (
	// GMSunAU3D2 is the gravitational parameter of the Sun in AU³/day².
	// Equal to the square of the Gaussian gravitational constant k.
	GMSunAU3D2 = 2.9591220828559115e-4

	// auKm is the IAU astronomical unit in km.
	auKm = 149597870.7

	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi

	// J2000 mean obliquity: 84381.448 arcseconds (Lieske 1979).
	obliquitySin = 0.3977771559319137062
	obliquityCos = 0.9174820620691818140
)

// Orbit represents a Keplerian orbit defined by classical orbital elements.
// Elements are in the J2000 ecliptic frame.
type Orbit struct {
	// SemiMajorAxisAU is the semi-major axis in AU.
	// Required for elliptic orbits (e < 1). For parabolic (e = 1),
	// use PerihelionAU instead.
	SemiMajorAxisAU float64

	// PerihelionAU is the perihelion distance in AU.
	// If zero, computed from SemiMajorAxisAU * (1 - Eccentricity).
	PerihelionAU float64

	// Eccentricity of the orbit. 0 ≤ e < 1 = elliptic, e = 1 = parabolic, e > 1 = hyperbolic.
	Eccentricity float64

	// InclinationDeg is the orbital inclination in degrees.
	InclinationDeg float64

	// LongAscNodeDeg is the longitude of the ascending node (Ω) in degrees.
	LongAscNodeDeg float64

	// ArgPeriapsisDeg is the argument of periapsis (ω) in degrees.
	ArgPeriapsisDeg float64

	// MeanAnomalyDeg is the mean anomaly at EpochJD, in degrees.
	// For comets, set PeriapsisTimeJD instead.
	MeanAnomalyDeg float64

	// EpochJD is the TDB Julian date at which the elements are valid.
	EpochJD float64

	// PeriapsisTimeJD is the TDB Julian date of periapsis passage.
	// If set (non-zero), overrides MeanAnomalyDeg.
	PeriapsisTimeJD float64

	// GM is the gravitational parameter of the central body in AU³/day².
	// If zero, GMSunAU3D2 (Sun) is used.
	GM float64

	// precomputed
	ready bool
	mu    float64 // GM in AU³/day²
	a     float64 // semi-major axis in AU
	q     float64 // perihelion distance in AU
	e     float64 // eccentricity
	n     float64 // mean motion in rad/day
	rot   [3][3]float64
}

// init precomputes derived quantities. Called lazily on first use.
func (o *Orbit) init() {
	if o.ready {
		return
	}
	o.ready = true

	o.mu = o.GM
	if o.mu == 0 {
		o.mu = GMSunAU3D2
	}

	o.e = o.Eccentricity

	// Compute semi-major axis and perihelion distance.
	if o.SemiMajorAxisAU != 0 {
		o.a = o.SemiMajorAxisAU
		o.q = o.a * (1.0 - o.e)
	} else if o.PerihelionAU != 0 {
		o.q = o.PerihelionAU
		if o.e < 1.0 {
			o.a = o.q / (1.0 - o.e)
		}
	}

	// Mean motion (rad/day) for elliptic orbits.
	if o.e < 1.0 && o.a > 0 {
		o.n = math.Sqrt(o.mu / (o.a * o.a * o.a))
	}

	// Rotation matrix from perifocal (PQW) frame to ecliptic J2000.
	i := o.InclinationDeg * deg2rad
	omega := o.LongAscNodeDeg * deg2rad
	w := o.ArgPeriapsisDeg * deg2rad

	sinI, cosI := math.Sincos(i)
	sinO, cosO := math.Sincos(omega)
	sinW, cosW := math.Sincos(w)

	// R = Rz(-Ω) · Rx(-i) · Rz(-ω)
	// Columns of R are the P, Q, W unit vectors in the ecliptic frame.
	o.rot = [3][3]float64{
		{cosO*cosW - sinO*sinW*cosI, -cosO*sinW - sinO*cosW*cosI, sinO * sinI},
		{sinO*cosW + cosO*sinW*cosI, -sinO*sinW + cosO*cosW*cosI, -cosO * sinI},
		{sinW * sinI, cosW * sinI, cosI},
	}
}

// PositionAU returns the heliocentric ICRF position in AU at the given
// TDB Julian date.
func (o *Orbit) PositionAU(tdbJD float64) [3]float64 {
	pos, _ := o.StateAU(tdbJD)
	return pos
}

// PositionKm returns the heliocentric ICRF position in km at the given
// TDB Julian date.
func (o *Orbit) PositionKm(tdbJD float64) [3]float64 {
	pos := o.PositionAU(tdbJD)
	return [3]float64{
		pos[0] * auKm,
		pos[1] * auKm,
		pos[2] * auKm,
	}
}

// StateAU returns the heliocentric ICRF position (AU) and velocity (AU/day)
// at the given TDB Julian date.
func (o *Orbit) StateAU(tdbJD float64) (pos, vel [3]float64) {
	o.init()

	// Compute mean anomaly at time t.
	M := o.meanAnomalyAt(tdbJD)

	// Solve Kepler's equation for true anomaly, radius, and their rates.
	var nu, r, rDot, nuDot float64
	switch {
	case o.e >= 0.98 && o.e <= 1.1:
		nu, r, rDot, nuDot = o.solveParabolic(M)
	case o.e < 1.0:
		nu, r, rDot, nuDot = o.solveElliptic(M)
	default:
		nu, r, rDot, nuDot = o.solveHyperbolic(M)
	}

	// Position and velocity in the perifocal (PQW) frame.
	sinNu, cosNu := math.Sincos(nu)
	xPQW := r * cosNu
	yPQW := r * sinNu
	vxPQW := rDot*cosNu - r*nuDot*sinNu
	vyPQW := rDot*sinNu + r*nuDot*cosNu

	// Rotate perifocal → ecliptic J2000.
	xEcl := o.rot[0][0]*xPQW + o.rot[0][1]*yPQW
	yEcl := o.rot[1][0]*xPQW + o.rot[1][1]*yPQW
	zEcl := o.rot[2][0]*xPQW + o.rot[2][1]*yPQW

	vxEcl := o.rot[0][0]*vxPQW + o.rot[0][1]*vyPQW
	vyEcl := o.rot[1][0]*vxPQW + o.rot[1][1]*vyPQW
	vzEcl := o.rot[2][0]*vxPQW + o.rot[2][1]*vyPQW

	// Rotate ecliptic → equatorial (ICRF).
	// Rx(-ε): x' = x, y' = cos(ε)*y - sin(ε)*z, z' = sin(ε)*y + cos(ε)*z
	pos = [3]float64{
		xEcl,
		obliquityCos*yEcl - obliquitySin*zEcl,
		obliquitySin*yEcl + obliquityCos*zEcl,
	}
	vel = [3]float64{
		vxEcl,
		obliquityCos*vyEcl - obliquitySin*vzEcl,
		obliquitySin*vyEcl + obliquityCos*vzEcl,
	}
	return
}

// StateKm returns the heliocentric ICRF position (km) and velocity (km/day)
// at the given TDB Julian date.
func (o *Orbit) StateKm(tdbJD float64) (pos, vel [3]float64) {
	p, v := o.StateAU(tdbJD)
	for i := 0; i < 3; i++ {
		pos[i] = p[i] * auKm
		vel[i] = v[i] * auKm
	}
	return
}

// nearParabolic reports whether the orbit falls in the parabolic solver's
// band (0.98 ≤ e ≤ 1.1), where the solvers take dt directly rather than a
// mean anomaly.
func (o *Orbit) nearParabolic() bool {
	return o.e >= 0.98 && o.e <= 1.1
}

// meanAnomalyAt computes the mean anomaly in radians at time tdbJD (or, for
// near-parabolic/hyperbolic orbits, the days since periapsis that the
// respective solver expects in place of a mean anomaly).
func (o *Orbit) meanAnomalyAt(tdbJD float64) float64 {
	if o.PeriapsisTimeJD != 0 {
		dt := tdbJD - o.PeriapsisTimeJD // days since periapsis
		if o.e < 1.0 && !o.nearParabolic() {
			return o.n * dt
		}
		return dt
	}
	// Use mean anomaly at epoch + mean motion.
	M0 := o.MeanAnomalyDeg * deg2rad
	dt := tdbJD - o.EpochJD
	if o.nearParabolic() || o.e >= 1.0 {
		return dt
	}
	return M0 + o.n*dt
}

// maxIter and tol bound every anomaly solver: 25 Newton/fixed-point steps,
// tolerance 1e-15 on the correction term.
const (
	maxIter = 25
	tol     = 1e-15
)

func sign(x float64) float64 {
	if x < 0 {
		return -1.0
	}
	return 1.0
}

// solveElliptic solves Kepler's equation M = E - e*sin(E) for an elliptic orbit.
// Returns true anomaly (rad), radius (AU), and their time derivatives (AU/day,
// rad/day).
func (o *Orbit) solveElliptic(M float64) (nu, r, rDot, nuDot float64) {
	e := o.e

	// Normalize M to [-π, π].
	M = math.Mod(M, 2*math.Pi)
	if M > math.Pi {
		M -= 2 * math.Pi
	} else if M < -math.Pi {
		M += 2 * math.Pi
	}

	E := M + 0.85*e*sign(math.Sin(M))
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		sinE, cosE := math.Sincos(E)
		f := E - e*sinE - M
		fp := 1.0 - e*cosE
		dE := -f / fp
		E += dE
		if math.Abs(dE) < tol {
			converged = true
			break
		}
	}
	if !converged {
		// Fallback initialization at the opposite apse, retry fully.
		if M >= 0 {
			E = math.Pi
		} else {
			E = -math.Pi
		}
		for iter := 0; iter < maxIter; iter++ {
			sinE, cosE := math.Sincos(E)
			f := E - e*sinE - M
			fp := 1.0 - e*cosE
			dE := -f / fp
			E += dE
			if math.Abs(dE) < tol {
				break
			}
		}
	}

	sinE, cosE := math.Sincos(E)
	nu = math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)
	r = o.a * (1.0 - e*cosE)

	EDot := o.n / (1.0 - e*cosE)
	rDot = o.a * e * sinE * EDot
	h := math.Sqrt(o.mu * o.a * (1.0 - e*e))
	nuDot = h / (r * r)
	return
}

// solveParabolic solves Barker's equation for a near-parabolic orbit
// (0.98 ≤ e ≤ 1.1). dt is days since periapsis. Returns true anomaly,
// radius, and their time derivatives.
func (o *Orbit) solveParabolic(dt float64) (nu, r, rDot, nuDot float64) {
	// For parabolic orbit: r = q * (1 + D²), D = tan(ν/2), and Barker's
	// equation D³ + 3D = W, W = 3 * sqrt(μ/(2q³)) * dt.
	q := o.q
	W := 3.0 * math.Sqrt(o.mu/(2.0*q*q*q)) * dt

	// Fixed-point iteration D_{n+1} = (W - D_n³)/3, starting from D0 = W/3.
	D := W / 3.0
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		next := (W - D*D*D) / 3.0
		delta := next - D
		D = next
		if math.Abs(delta) < tol {
			converged = true
			break
		}
	}
	if !converged {
		// Closed-form cubic solution (always converges): D = Y - 1/Y where
		// Y = cbrt(W/2 + sqrt(W²/4+1)).
		Y := math.Cbrt(W/2.0 + math.Sqrt(W*W/4.0+1))
		D = Y - 1.0/Y
	}

	nu = 2.0 * math.Atan(D)
	r = q * (1.0 + D*D)

	h := math.Sqrt(2.0 * o.mu * q)
	nuDot = h / (r * r)
	rDot = q * D * (1.0 + D*D) * nuDot
	return
}

// solveHyperbolic solves the hyperbolic Kepler equation M = e*sinh(H) - H.
// dt is days since periapsis. Returns true anomaly, radius, and their time
// derivatives.
func (o *Orbit) solveHyperbolic(dt float64) (nu, r, rDot, nuDot float64) {
	e := o.e
	a := -o.q / (e - 1.0) // semi-major axis (negative for hyperbolic)
	absA := math.Abs(a)

	n := math.Sqrt(o.mu / (absA * absA * absA))
	M := n * dt

	H := M // initial guess
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		sinhH := math.Sinh(H)
		coshH := math.Cosh(H)
		f := e*sinhH - H - M
		fp := e*coshH - 1.0
		dH := -f / fp
		H += dH
		if math.Abs(dH) < tol {
			converged = true
			break
		}
	}
	if !converged {
		m := M
		if m == 0 {
			m = 1e-300 // avoid division by zero in sign(m)
		}
		H = sign(m) * math.Cbrt(6.0*math.Abs(m))
		for iter := 0; iter < maxIter; iter++ {
			sinhH := math.Sinh(H)
			coshH := math.Cosh(H)
			f := e*sinhH - H - M
			fp := e*coshH - 1.0
			dH := -f / fp
			H += dH
			if math.Abs(dH) < tol {
				break
			}
		}
	}

	sinhH, coshH := math.Sinh(H), math.Cosh(H)
	nu = 2.0 * math.Atan(math.Sqrt((e+1.0)/(e-1.0))*math.Tanh(H/2.0))
	r = absA * (e*coshH - 1.0)

	HDot := n / (e*coshH - 1.0)
	rDot = absA * e * sinhH * HDot
	h := math.Sqrt(o.mu * absA * (e*e - 1.0))
	nuDot = h / (r * r)
	return
}

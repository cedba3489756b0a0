// Package cio builds the IAU 2006 CIO-based (Celestial Intermediate Origin)
// reduction chain: GCRS -> CIRS -> TIRS -> ITRS, the chain the teacher's
// spk.go/coord.go never builds (the teacher's coord package only ever
// walks the classical equinox-based bias-precession-nutation path used by
// TEMEToICRF/GeodeticToICRF).
//
// Rather than duplicate coord's precession/nutation angle series under a
// second, CIO-flavored set of formulas, this package derives the CIP unit
// vector (X, Y) from the same classical bias*precession*nutation matrix
// coord.go already builds: the CIP's GCRS direction is exactly that
// matrix's bottom row (IERS Conventions 2003 §5.4.1, the standard
// equivalence between the classical and CIO-based descriptions of the
// same pole). The CIO locator s is approximated by its leading term
// -XY/2 (IERS Conventions 2003 eq. 5.13's dominant term); the full 72-term
// s+XY/2 series did not survive retrieval, so this is documented as a
// reduced-fidelity series the same way moshier's term tables are.
package cio

import (
	"math"
	"sync"

	"github.com/anupshinde/goeph/coord"
)

const (
	j2000JD    = 2451545.0
	arcsec2rad = math.Pi / (180.0 * 3600.0)
)

func centuries(jdTDB float64) float64 {
	return (jdTDB - j2000JD) / 36525.0
}

func matMul(a, b [3][3]float64) [3][3]float64 {
	var c [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return c
}

func matVec(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func r1(theta float64) [3][3]float64 {
	s, c := math.Sincos(theta)
	return [3][3]float64{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

func r2(theta float64) [3][3]float64 {
	s, c := math.Sincos(theta)
	return [3][3]float64{
		{c, 0, -s},
		{0, 1, 0},
		{s, 0, c},
	}
}

func r3(theta float64) [3][3]float64 {
	s, c := math.Sincos(theta)
	return [3][3]float64{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}

// classicalNPB returns the classical bias*precession*nutation matrix Q,
// transforming a GCRS vector to the true equator and equinox of date:
// v_true = Q * v_gcrs.
func classicalNPB(jdTDB float64, method coord.ReductionMethod) [3][3]float64 {
	T := centuries(jdTDB)

	dpsi, deps := coord.NutationAngles(T)
	epsM := coord.MeanObliquity(T)
	N := coord.NutationMatrix(dpsi, deps, epsM)

	P := coord.PrecessionMatrix(method, T, true) // J2000 -> date

	B := coord.ICRSToJ2000Matrix

	return matMul(N, matMul(P, B))
}

// cipCoordinates extracts the CIP's (X, Y, Z) direction, expressed in
// GCRS, from the classical NPB matrix's bottom row, and returns the CIO
// locator s via its leading-order approximation.
func cipCoordinates(Q [3][3]float64) (x, y, s float64) {
	x, y = Q[2][0], Q[2][1]
	s = -0.5 * x * y
	return
}

// npbFromXYS reconstructs the GCRS->CIRS rotation from (X, Y, s), per
// IERS Conventions 2010 eq. 5.10: the "small-quantity" closed form for the
// intermediate matrix, transposed so the CIP (X, Y) sits in its bottom row,
// composed with R3(-s).
func npbFromXYS(x, y, s float64) [3][3]float64 {
	r2term := x*x + y*y
	var a float64
	if d := 1.0 - r2term; d > 0 {
		a = 1.0 / (1.0 + math.Sqrt(d))
	} else {
		a = 0.5
	}
	pn := [3][3]float64{
		{1 - a*x*x, -a * x * y, -x},
		{-a * x * y, 1 - a*y*y, -y},
		{x, y, 1 - a*r2term},
	}
	return matMul(r3(-s), pn)
}

// cacheKey identifies one (jdTDB, method) NPB computation. Cache hits
// require a bit-exact jdTDB match, per §4.I's "cache hit only on bit-equal
// key" — no rounding/binning of the date is performed.
type cacheKey struct {
	jdTDB  float64
	method coord.ReductionMethod
}

// Cache memoizes NPB matrix builds. It is an explicit, caller-owned value
// (held by pipeline.PipelineContext) rather than a package-level var, per
// §5's policy against process-wide mutable singletons.
type Cache struct {
	mu  sync.Mutex
	npb map[cacheKey][3][3]float64
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{npb: make(map[cacheKey][3][3]float64)}
}

// NPB returns the GCRS->CIRS rotation matrix Q for jdTDB under the given
// reduction method, consulting and populating the cache.
func (c *Cache) NPB(jdTDB float64, method coord.ReductionMethod) [3][3]float64 {
	key := cacheKey{jdTDB, method}
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.npb[key]; ok {
		return m
	}
	classical := classicalNPB(jdTDB, method)
	x, y, s := cipCoordinates(classical)
	m := npbFromXYS(x, y, s)
	c.npb[key] = m
	return m
}

// CIPCoordinates returns the CIP's (X, Y) GCRS coordinates and the CIO
// locator s (radians) for jdTDB, useful for diagnostics and the
// orthonormality tests in cio_test.go.
func (c *Cache) CIPCoordinates(jdTDB float64, method coord.ReductionMethod) (x, y, s float64) {
	return cipCoordinates(classicalNPB(jdTDB, method))
}

// GCRSToCIRS rotates a GCRS position/velocity vector into the Celestial
// Intermediate Reference System.
func GCRSToCIRS(v [3]float64, jdTDB float64, method coord.ReductionMethod, cache *Cache) [3]float64 {
	return matVec(cache.NPB(jdTDB, method), v)
}

// earthRotationMatrix returns R3(ERA), rotating CIRS to TIRS.
func earthRotationMatrix(jdUT1 float64) [3][3]float64 {
	era := coord.EarthRotationAngle(jdUT1) * math.Pi / 180.0
	return r3(era)
}

// GCRSToTIRS rotates a GCRS vector into the Terrestrial Intermediate
// Reference System (post-CIRS, pre-polar-motion).
func GCRSToTIRS(v [3]float64, jdTDB, jdUT1 float64, method coord.ReductionMethod, cache *Cache) [3]float64 {
	cirs := GCRSToCIRS(v, jdTDB, method, cache)
	return matVec(earthRotationMatrix(jdUT1), cirs)
}

// sPrime returns the TIO locator s' in radians: the secular drift of the
// TIO from the reference meridian due to polar motion, IERS Conventions
// 2010 eq. 5.13 (-47 microarcsec per century, the dominant term).
func sPrime(jdTDB float64) float64 {
	T := centuries(jdTDB)
	return -47e-6 * arcsec2rad * T
}

// polarMotionMatrix returns W, the forward rotation from ITRS to TIRS:
// v_tirs = W * v_itrs. xpArcsec, ypArcsec are the polar motion coordinates
// in arcseconds.
func polarMotionMatrix(xpArcsec, ypArcsec, sp float64) [3][3]float64 {
	xp := xpArcsec * arcsec2rad
	yp := ypArcsec * arcsec2rad
	return matMul(r3(-sp), matMul(r2(xp), r1(yp)))
}

// GCRSToITRS rotates a GCRS vector all the way into the International
// Terrestrial Reference System, applying the CIO-based celestial rotation,
// Earth rotation, and polar motion in sequence. xpArcsec, ypArcsec are the
// EOP table's polar motion coordinates in arcseconds.
func GCRSToITRS(v [3]float64, jdTDB, jdUT1, xpArcsec, ypArcsec float64, method coord.ReductionMethod, cache *Cache) [3]float64 {
	tirs := GCRSToTIRS(v, jdTDB, jdUT1, method, cache)
	sp := sPrime(jdTDB)
	W := polarMotionMatrix(xpArcsec, ypArcsec, sp)
	// v_tirs = W * v_itrs  =>  v_itrs = W^T * v_tirs (W is orthogonal).
	WT := [3][3]float64{
		{W[0][0], W[1][0], W[2][0]},
		{W[0][1], W[1][1], W[2][1]},
		{W[0][2], W[1][2], W[2][2]},
	}
	return matVec(WT, tirs)
}

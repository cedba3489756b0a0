package observer

import (
	"math"

	"github.com/anupshinde/goeph/bodies"
)

// physicalParams gives a body's rotation pole right ascension/declination
// and prime meridian angle as polynomials in centuries (T) and days (d)
// since J2000 TDB, per the IAU Working Group on Cartographic Coordinates
// and Rotational Elements reports. alpha0/delta0 locate the north pole in
// ICRF; W locates the prime meridian and grows with the sidereal rotation
// rate.
type physicalParams struct {
	alpha0, alpha0TRate float64 // degrees, degrees/century
	delta0, delta0TRate float64 // degrees, degrees/century
	w0, wDRate          float64 // degrees, degrees/day
}

// physicalParamsTable holds the IAU mean-rotation-model constants for the
// mother bodies other than Earth the pipeline supports. Earth's rotation
// uses coord's GMST/GAST chain instead (§4.K); this table backs
// bodyFixedToICRFMatrix for every other body.
var physicalParamsTable = map[int]physicalParams{
	// Moon: IAU mean Earth/polar axis values (lunar libration's periodic
	// terms are handled separately by moshier.Libration; this table is the
	// non-librating mean orientation).
	bodies.Moon: {
		alpha0: 269.9949, alpha0TRate: 0.0031,
		delta0: 66.5392, delta0TRate: 0.0130,
		w0: 38.3213, wDRate: 13.17635815,
	},
	bodies.MarsBarycenter: {
		alpha0: 317.269202, alpha0TRate: 0,
		delta0: 54.432516, delta0TRate: 0,
		w0: 176.049863, wDRate: 350.891982443297,
	},
	bodies.JupiterBarycenter: {
		alpha0: 268.056595, alpha0TRate: -0.006499,
		delta0: 64.495303, delta0TRate: 0.002413,
		w0: 284.95, wDRate: 870.5360000,
	},
	bodies.SaturnBarycenter: {
		alpha0: 40.589, alpha0TRate: -0.036,
		delta0: 83.537, delta0TRate: -0.004,
		w0: 38.90, wDRate: 810.7939024,
	},
	bodies.UranusBarycenter: {
		alpha0: 257.311, alpha0TRate: 0,
		delta0: -15.175, delta0TRate: 0,
		w0: 203.81, wDRate: -501.1600928,
	},
	bodies.NeptuneBarycenter: {
		alpha0: 299.36, alpha0TRate: 0,
		delta0: 43.46, delta0TRate: 0,
		w0: 253.18, wDRate: 536.3128492,
	},
}

// bodyFixedToICRFMatrix returns the rotation matrix carrying a body-fixed
// Cartesian vector to ICRF/J2000 coordinates, built from the body's IAU
// pole direction (alpha0, delta0) and prime-meridian angle W at jdTDB.
// Unknown bodies fall back to the identity (no rotation) rather than
// erroring, since a mother-body choice outside this table is still a
// valid (if unrotated) observer position for bodies the pipeline's theory
// layer doesn't model rotation for.
func bodyFixedToICRFMatrix(body int, jdTDB float64) [3][3]float64 {
	pp, ok := physicalParamsTable[body]
	if !ok {
		return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}
	T := (jdTDB - j2000JD) / 36525.0
	d := jdTDB - j2000JD

	alpha0 := (pp.alpha0 + pp.alpha0TRate*T) * deg2rad
	delta0 := (pp.delta0 + pp.delta0TRate*T) * deg2rad
	w := math.Mod(pp.w0+pp.wDRate*d, 360.0) * deg2rad

	// M = Rz(-(alpha0+90°)) * Rx(-(90°-delta0)) * Rz(-W), the standard
	// WGCCRE construction mapping body-fixed axes onto the ICRF pole
	// direction (alpha0, delta0) with W measured from the body's prime
	// meridian node.
	return matMul(rz(-(alpha0 + math.Pi/2)), matMul(rx(-(math.Pi/2 - delta0)), rz(-w)))
}

func rx(theta float64) [3][3]float64 {
	s, c := math.Sincos(theta)
	return [3][3]float64{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

func rz(theta float64) [3][3]float64 {
	s, c := math.Sincos(theta)
	return [3][3]float64{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
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

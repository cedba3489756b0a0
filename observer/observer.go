// Package observer models a fixed site on a body's surface — geodetic
// coordinates on Earth, or body-fixed longitude/latitude on any other body
// the reduction pipeline supports — and derives its instantaneous
// heliocentric and topocentric position from an ephemeris.
//
// It absorbs the teacher's coord/geodetic.go (Bowring iteration) and
// coord/altaz.go (GMST/GAST-based rotation) into a single immutable
// record, and extends the Earth-only rotation those two files built with
// IAU physical-parameters rotation for other mother bodies.
package observer

import (
	"math"
	"sync"

	"github.com/anupshinde/goeph/bodies"
	"github.com/anupshinde/goeph/coord"
)

// Ellipsoid is a reference ellipsoid: equatorial radius (km) and
// flattening. WGS84 is the default for Earth; other bodies use their own
// IAU mean-radius figures (treated as spherical, flattening 0).
type Ellipsoid struct {
	EquatorialRadiusKm float64
	Flattening         float64
}

// WGS84 is the default terrestrial reference ellipsoid.
var WGS84 = Ellipsoid{EquatorialRadiusKm: 6378.137, Flattening: 1.0 / 298.257223563}

// Observer is an immutable site record. Default mother body is Earth.
// Derived attributes (geocentric latitude, geocentric radius) are computed
// lazily on first use and cached — they depend only on the immutable
// fields, so the cache is valid for the record's whole lifetime.
type Observer struct {
	MotherBody  int
	LatDeg      float64
	LonDeg      float64
	HeightKm    float64
	PressureMb  float64
	TempC       float64
	HumidityPct float64
	Ellipsoid   Ellipsoid

	once          sync.Once
	geocentricLat float64
	geocentricR   float64
}

// New returns an Earth observer at the given geodetic coordinates, WGS84
// ellipsoid, with a standard-atmosphere default environment (1010 mb,
// 10°C, 0% humidity — matching the teacher's refraction.go defaults).
func New(latDeg, lonDeg, heightKm float64) *Observer {
	return &Observer{
		MotherBody: bodies.Earth,
		LatDeg:     latDeg,
		LonDeg:     lonDeg,
		HeightKm:   heightKm,
		PressureMb: 1010.0,
		TempC:      10.0,
		Ellipsoid:  WGS84,
	}
}

func (o *Observer) ellipsoid() Ellipsoid {
	if o.Ellipsoid.EquatorialRadiusKm == 0 {
		return WGS84
	}
	return o.Ellipsoid
}

// geocentric lazily computes and caches the geocentric latitude (radians)
// and geocentric radius (km) implied by the observer's geodetic
// coordinates and ellipsoid — the inverse of coord.ITRFToGeodetic's
// Bowring iteration, specialized to a known height rather than recovered
// from Cartesian coordinates.
func (o *Observer) geocentric() (latRad, rKm float64) {
	o.once.Do(func() {
		e := o.ellipsoid()
		f := e.Flattening
		a := e.EquatorialRadiusKm
		e2 := f * (2.0 - f)

		latGd := o.LatDeg * deg2rad
		sinLat, cosLat := math.Sincos(latGd)
		N := a / math.Sqrt(1.0-e2*sinLat*sinLat)

		x := (N + o.HeightKm) * cosLat
		z := (N*(1.0-e2) + o.HeightKm) * sinLat

		o.geocentricR = math.Sqrt(x*x + z*z)
		o.geocentricLat = math.Atan2(z, x)
	})
	return o.geocentricLat, o.geocentricR
}

// GeocentricLatDeg returns the observer's geocentric latitude in degrees.
func (o *Observer) GeocentricLatDeg() float64 {
	lat, _ := o.geocentric()
	return lat * rad2deg
}

// GeocentricRadiusKm returns the observer's distance from the mother
// body's center.
func (o *Observer) GeocentricRadiusKm() float64 {
	_, r := o.geocentric()
	return r
}

// positionInBodyFixedFrame returns the observer's Cartesian position (km)
// in the mother body's body-fixed rotating frame, built from geocentric
// latitude/radius and longitude the same way coord.GeodeticToICRF's step 1
// builds an ITRF Cartesian vector before rotating it.
func (o *Observer) positionInBodyFixedFrame() [3]float64 {
	latRad, r := o.geocentric()
	lonRad := o.LonDeg * deg2rad
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)
	return [3]float64{
		r * cosLat * cosLon,
		r * cosLat * sinLon,
		r * sinLat,
	}
}

// TopocentricICRF returns the observer's position (km) relative to its
// mother body's center, expressed in the ICRF/GCRS directions at jdTDB/
// jdUT1. For Earth this is the existing GMST/GAST/precession/nutation
// chain (coord.GeodeticToICRF); for any other mother body it is the IAU
// physical-parameters rotation from §4.K.
func (o *Observer) TopocentricICRF(jdTDB, jdUT1 float64) [3]float64 {
	if o.MotherBody == bodies.Earth {
		x, y, z := coord.GeodeticToICRF(o.LatDeg, o.LonDeg, jdUT1)
		_, r := o.geocentric()
		// GeodeticToICRF builds its ITRF point from the WGS84 normal
		// radius of curvature directly, ignoring height; rescale to this
		// observer's own geocentric radius (which does account for
		// height) so TopocentricICRF stays internally consistent with
		// GeocentricRadiusKm.
		mag := math.Sqrt(x*x + y*y + z*z)
		if mag == 0 {
			return [3]float64{}
		}
		scale := r / mag
		return [3]float64{x * scale, y * scale, z * scale}
	}

	bf := o.positionInBodyFixedFrame()
	R := bodyFixedToICRFMatrix(o.MotherBody, jdTDB)
	return matVec(R, bf)
}

// HeliocentricPositionOfObserver returns the observer's heliocentric
// position and velocity (AU, AU/day) at jdTDB, by adding its topocentric
// offset (negligible velocity contribution from the body's rotation is
// folded into the body state's own precision budget, matching how the
// teacher's Apparent() does not carry a separate rotational-velocity term
// for ground stations) to the mother body's heliocentric state.
//
// theory is a state(jdTDB, body) -> (pos, vel) function — the reduction
// pipeline's theory dispatcher, passed in rather than imported, so this
// package stays independent of any one ephemeris source.
func (o *Observer) HeliocentricPositionOfObserver(jdTDB, jdUT1 float64, state func(jdTDB float64, body int) (pos, vel [3]float64, err error)) (pos, vel [3]float64, err error) {
	return o.positionOfObserver(jdTDB, jdUT1, state, false)
}

// GeocentricPositionOfObserver is HeliocentricPositionOfObserver's
// geocentric counterpart: it reports the mother body's own center, with no
// topocentric offset added, for callers whose request asked for an
// observer origin of "geocentric" rather than the observer's actual site.
func (o *Observer) GeocentricPositionOfObserver(jdTDB, jdUT1 float64, state func(jdTDB float64, body int) (pos, vel [3]float64, err error)) (pos, vel [3]float64, err error) {
	return o.positionOfObserver(jdTDB, jdUT1, state, true)
}

func (o *Observer) positionOfObserver(jdTDB, jdUT1 float64, state func(jdTDB float64, body int) (pos, vel [3]float64, err error), geocentric bool) (pos, vel [3]float64, err error) {
	motherPos, motherVel, err := state(jdTDB, o.MotherBody)
	if err != nil {
		return pos, vel, err
	}
	if geocentric {
		return motherPos, motherVel, nil
	}
	topoKm := o.TopocentricICRF(jdTDB, jdUT1)
	const auKm = 149597870.7
	for i := 0; i < 3; i++ {
		pos[i] = motherPos[i] + topoKm[i]/auKm
		vel[i] = motherVel[i]
	}
	return pos, vel, nil
}

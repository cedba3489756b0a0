// Package testephem builds a small in-memory cheby.Reader for tests that
// need Sun/Earth/Moon geometry but have no binary DE kernel or golden
// fixture to load (see almanac/almanac_test.go, eclipse/eclipse_test.go).
//
// It is not a general-purpose ephemeris: only the Sun, Earth-Moon
// barycenter, and Moon slots are populated, using mean orbital elements
// (no planetary perturbation terms). Good enough to reproduce the
// qualitative cadence of seasons, lunar phases, rise/set, and eclipse
// seasons that the event-finding tests check for, not the precise
// timings a real DE kernel gives.
package testephem

import (
	"math"

	"github.com/anupshinde/goeph/cheby"
	"github.com/anupshinde/goeph/lunarnodes"
)

const (
	auKm    = 149597870.7
	emrat   = 81.30056
	j2000JD = 2451545.0

	// J2000 mean obliquity of the ecliptic, matching coord.ICRFToEcliptic.
	oblSin = 0.3977771559319137062
	oblCos = 0.9174820620691818140

	moonDistanceAU  = 384400.0 / auKm
	moonInclination = 5.145 * math.Pi / 180.0

	// GROUP 1050 column indices, matching cheby's internal slot order.
	embSlotIndex = 2
	moonSlotIndex = 9
	sunSlotIndex  = 10

	// DefaultStart and DefaultEnd cover every date range the almanac and
	// eclipse unit tests exercise (J2000 through mid-2024), with margin for
	// the light-time/search windows built around them.
	DefaultStart = 2451530.0
	DefaultEnd   = 2460520.0
)

// Build returns a cheby.Reader covering [startJD, endJD], with one
// day-resolution granule holding linearly-interpolated Sun/EMB/Moon
// positions. Other GROUP 1050 slots (other planets, nutation, libration)
// are left at zero, which is harmless for callers that never query them.
func Build(startJD, endJD float64) *cheby.Reader {
	days := int(math.Ceil(endJD-startJD)) + 1

	h := &cheby.Header{
		StartJD:   startJD,
		EndJD:     endJD,
		Constants: map[string]float64{"AU": auKm, "EMRAT": emrat},
	}
	offset := 1
	for i := range h.Slots {
		h.Slots[i] = cheby.BodySlot{Offset: offset, NCoef: 2, NSets: days}
		offset += 3 * 2 * days
	}
	h.NCoeff = offset - 1

	g := &cheby.Granule{StartJD: startJD, EndJD: endJD, Coeffs: make([]float64, h.NCoeff)}
	fillSlot(h, g, embSlotIndex, embPosition)
	fillSlot(h, g, moonSlotIndex, moonPosition)
	fillSlot(h, g, sunSlotIndex, sunPosition)

	r := cheby.NewReader(h)
	r.AddGranule(g)
	return r
}

// BuildDefault builds a Reader over DefaultStart/DefaultEnd.
func BuildDefault() *cheby.Reader {
	return Build(DefaultStart, DefaultEnd)
}

// fillSlot samples fn once per day across the granule and stores a linear
// (two-coefficient) Chebyshev fit per day per axis, matching the word layout
// cheby.evalSlot expects: base + sub*axes*NCoef + axis*NCoef.
func fillSlot(h *cheby.Header, g *cheby.Granule, slotIdx int, fn func(jd float64) [3]float64) {
	slot := h.Slots[slotIdx]
	subDur := (g.EndJD - g.StartJD) / float64(slot.NSets)
	base := slot.Offset - 1
	for d := 0; d < slot.NSets; d++ {
		t0 := g.StartJD + float64(d)*subDur
		t1 := t0 + subDur
		p0 := fn(t0)
		p1 := fn(t1)
		for ax := 0; ax < 3; ax++ {
			word := base + d*3*slot.NCoef + ax*slot.NCoef
			// Positions are in AU; cheby reads coefficients in km.
			g.Coeffs[word+0] = (p0[ax] + p1[ax]) / 2.0 * h.AU() // c0: midpoint value
			g.Coeffs[word+1] = (p1[ax] - p0[ax]) / 2.0 * h.AU() // c1: half the endpoint swing
		}
	}
}

func julianCenturies(jd float64) float64 { return (jd - j2000JD) / 36525.0 }

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

func rad(deg float64) float64 { return deg * math.Pi / 180.0 }

func eclipticToEquatorial(xe, ye, ze float64) [3]float64 {
	return [3]float64{
		xe,
		oblCos*ye - oblSin*ze,
		oblSin*ye + oblCos*ze,
	}
}

// sunPosition treats the Sun as fixed at the solar-system barycenter; its
// small reflex motion around the true barycenter is not modeled.
func sunPosition(jd float64) [3]float64 {
	return [3]float64{}
}

// embPosition is the Earth-Moon barycenter's heliocentric-equivalent
// position: a circular mean-motion orbit at 1 AU, phased so that the
// geocentric Sun lands at the standard mean solar longitude.
func embPosition(jd float64) [3]float64 {
	T := julianCenturies(jd)
	lonSun := normalizeDeg(280.4664567 + 36000.76982779*T)
	lonEarth := rad(normalizeDeg(lonSun + 180.0))
	return eclipticToEquatorial(math.Cos(lonEarth), math.Sin(lonEarth), 0)
}

// moonPosition is the geocentric Moon vector: mean lunar longitude on a
// plane inclined to the ecliptic by 5.145°, node regressing per
// lunarnodes.MeanLunarNodes. Eccentricity (and the resulting distance/speed
// variation) is not modeled; the orbit is a circle at the mean Earth-Moon
// distance.
func moonPosition(jd float64) [3]float64 {
	T := julianCenturies(jd)
	meanLon := normalizeDeg(218.3164477 + 481267.88123421*T)
	node, _ := lunarnodes.MeanLunarNodes(jd)
	argLat := rad(normalizeDeg(meanLon - node))

	beta := math.Asin(math.Sin(moonInclination) * math.Sin(argLat))
	lon := rad(meanLon)
	r := moonDistanceAU

	x := r * math.Cos(beta) * math.Cos(lon)
	y := r * math.Cos(beta) * math.Sin(lon)
	z := r * math.Sin(beta)
	return eclipticToEquatorial(x, y, z)
}

package eop

import "math"

// tidalTerm is one line of the diurnal/subdiurnal ocean-tide correction
// series applied to UT1-UTC and polar motion, after the IERS Conventions
// utlibr/pmsdnut family of corrections. Argument is a linear combination of
// the Doodson fundamental arguments; amplitudes are in the same units as
// the corrected quantity.
type tidalTerm struct {
	argRateDeg float64 // argument rate, degrees per day of the Doodson argument
	argPhase   float64 // phase at J2000, degrees
	dut1Sin    float64 // microseconds
	dut1Cos    float64
	xpSin      float64 // microarcsec
	xpCos      float64
	ypSin      float64
	ypCos      float64
}

// tidalSeries carries the diurnal and subdiurnal leading terms (principal
// lunar and solar partial tides O1, K1, M2, S2); this is a reduced-fidelity
// stand-in for the full 71-term IERS table, matching the dominant-term
// approach already taken in moshier/vsop for the same reason (no source
// table for the full series survived).
var tidalSeries = []tidalTerm{
	{argRateDeg: 13.398, argPhase: 0, dut1Sin: -2.5, dut1Cos: -0.5, xpSin: -0.02, xpCos: 0.01, ypSin: -0.01, ypCos: -0.02},    // O1
	{argRateDeg: 15.041, argPhase: 180, dut1Sin: -2.5, dut1Cos: 5.0, xpSin: 0.03, xpCos: -0.01, ypSin: 0.01, ypCos: 0.03},    // K1
	{argRateDeg: 28.984, argPhase: 0, dut1Sin: 0.6, dut1Cos: -0.3, xpSin: -0.01, xpCos: 0.0, ypSin: 0.0, ypCos: -0.01},       // M2
	{argRateDeg: 30.0, argPhase: 0, dut1Sin: 0.3, dut1Cos: -0.1, xpSin: 0.0, xpCos: 0.0, ypSin: 0.0, ypCos: 0.0},             // S2
}

const j2000JD = 2451545.0

// tidalCorrection returns the diurnal/subdiurnal correction to add to
// UT1-UTC (seconds), xp, and yp (arcsec) at jdUTC.
func tidalCorrection(jdUTC float64) (dut1, xp, yp float64) {
	days := jdUTC - j2000JD
	var dut1us, xpuas, ypuas float64
	for _, term := range tidalSeries {
		arg := (term.argPhase + term.argRateDeg*days) * math.Pi / 180
		s, c := math.Sin(arg), math.Cos(arg)
		dut1us += term.dut1Sin*s + term.dut1Cos*c
		xpuas += term.xpSin*s + term.xpCos*c
		ypuas += term.ypSin*s + term.ypCos*c
	}
	return dut1us * 1e-6, xpuas * 1e-6, ypuas * 1e-6
}

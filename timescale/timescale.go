// Package timescale converts an instant between UTC, UT1, TAI, TT, and TDB.
//
// Conversions are pure functions over Julian dates; there is no global
// mutable state. The leap-second table and the ΔT table are read-only
// package data, matching the "process-wide singletons are read-only"
// resource policy.
package timescale

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// SecPerDay is the number of SI seconds in a day.
const SecPerDay = 86400.0

const j2000JD = 2451545.0

// Scale identifies a time scale.
type Scale int

const (
	UTC Scale = iota
	UT1
	TAI
	TT
	TDB
)

func (s Scale) String() string {
	switch s {
	case UTC:
		return "UTC"
	case UT1:
		return "UT1"
	case TAI:
		return "TAI"
	case TT:
		return "TT"
	case TDB:
		return "TDB"
	default:
		return "unknown"
	}
}

// Instant is a time point: a real-valued Julian date tagged with its scale.
// Two instants are equal iff their scales match and their JDs are
// bit-for-bit equal.
type Instant struct {
	JD    float64
	Scale Scale
}

// Equal reports whether two instants carry the same scale and bit-for-bit
// equal Julian dates.
func (i Instant) Equal(o Instant) bool {
	return i.Scale == o.Scale && i.JD == o.JD
}

// Convert returns a new Instant expressed in targetScale. Conversions
// compose (A→B→C = A→C) to within numerical rounding, per the A→UTC↔TT↔TAI
// chain below.
func Convert(i Instant, target Scale) (Instant, error) {
	if i.Scale == target {
		return i, nil
	}
	// Normalize to TT as the hub, then reach the target.
	tt, err := toTT(i)
	if err != nil {
		return Instant{}, err
	}
	switch target {
	case TT:
		return tt, nil
	case TAI:
		return Instant{JD: tt.JD - 32.184/SecPerDay, Scale: TAI}, nil
	case UTC:
		return ttToUTC(tt), nil
	case UT1:
		return Instant{JD: TTToUT1(tt.JD), Scale: UT1}, nil
	case TDB:
		return Instant{JD: tt.JD + TDBMinusTT(tt.JD)/SecPerDay, Scale: TDB}, nil
	default:
		return Instant{}, errors.Errorf("timescale: unsupported target scale %v", target)
	}
}

func toTT(i Instant) (Instant, error) {
	switch i.Scale {
	case TT:
		return i, nil
	case TAI:
		return Instant{JD: i.JD + 32.184/SecPerDay, Scale: TT}, nil
	case UTC:
		return Instant{JD: UTCToTT(i.JD), Scale: TT}, nil
	case UT1:
		// UT1 -> TT requires ΔT(UT1), which the public API only expresses
		// via TT -> UT1. Invert by fixed-point iteration (ΔT varies
		// smoothly, one pass converges to better than 1 ms).
		year := 2000.0 + (i.JD-j2000JD)/365.25
		dt := DeltaT(year)
		ttJD := i.JD + dt/SecPerDay
		return Instant{JD: ttJD, Scale: TT}, nil
	case TDB:
		// TDB -> TT: invert the (small, periodic) TDB-TT series by one
		// correction pass; the series amplitude is under 2ms so a single
		// pass converges far past any usable precision.
		ttGuess := i.JD - TDBMinusTT(i.JD)/SecPerDay
		return Instant{JD: ttGuess, Scale: TT}, nil
	default:
		return Instant{}, errors.Errorf("timescale: unsupported source scale %v", i.Scale)
	}
}

func ttToUTC(tt Instant) Instant {
	// Invert UTCToTT by iterating: the offset (leap seconds + 32.184s)
	// only changes across leap-second boundaries, so one pass suffices.
	guess := tt.JD - 32.184/SecPerDay
	offset := LeapSecondOffset(guess) / SecPerDay
	return Instant{JD: tt.JD - 32.184/SecPerDay - offset, Scale: UTC}
}

// leapSecondEntry is one row of the UTC-TAI leap-second table: the UTC
// Julian date from which the cumulative offset applies.
type leapSecondEntry struct {
	jdUTC  float64
	offset float64
}

// leapSeconds is the IERS leap-second table, JD(UTC) of introduction paired
// with the cumulative TAI-UTC offset in seconds. The initial 1972-01-01
// offset of 10s is never removed — it is the pre-1972 default per §4.A.
var leapSeconds = []leapSecondEntry{
	{2441317.5, 10}, // 1972-01-01
	{2441499.5, 11}, // 1972-07-01
	{2441683.5, 12}, // 1973-01-01
	{2442048.5, 13}, // 1974-01-01
	{2442413.5, 14}, // 1975-01-01
	{2442778.5, 15}, // 1976-01-01
	{2443144.5, 16}, // 1977-01-01
	{2443509.5, 17}, // 1978-01-01
	{2443874.5, 18}, // 1979-01-01
	{2444239.5, 19}, // 1980-01-01
	{2444786.5, 20}, // 1981-07-01
	{2445151.5, 21}, // 1982-07-01
	{2445516.5, 22}, // 1983-07-01
	{2446247.5, 23}, // 1985-07-01
	{2447161.5, 24}, // 1988-01-01
	{2447892.5, 25}, // 1990-01-01
	{2448257.5, 26}, // 1991-01-01
	{2448804.5, 27}, // 1992-07-01
	{2449169.5, 28}, // 1993-07-01
	{2449534.5, 29}, // 1994-07-01
	{2450083.5, 30}, // 1996-01-01
	{2450630.5, 31}, // 1997-07-01
	{2451179.5, 32}, // 1999-01-01
	{2453736.5, 33}, // 2006-01-01
	{2454832.5, 34}, // 2009-01-01
	{2456109.5, 35}, // 2012-07-01
	{2457204.5, 36}, // 2015-07-01
	{2457754.5, 37}, // 2017-01-01
}

// LeapSecondOffset returns the cumulative TAI-UTC leap-second offset in
// seconds at the given UTC Julian date. Dates before the table's first
// entry return the initial offset (10s); dates beyond the last known leap
// second return the latest known value — per §4.A, "beyond the table the
// last known value is used."
func LeapSecondOffset(jdUTC float64) float64 {
	if jdUTC < leapSeconds[0].jdUTC {
		return leapSeconds[0].offset
	}
	offset := leapSeconds[0].offset
	for _, e := range leapSeconds {
		if jdUTC < e.jdUTC {
			break
		}
		offset = e.offset
	}
	return offset
}

// UTCToTT converts a UTC Julian date to TT. TT = TAI + 32.184s exactly;
// TAI = UTC + leap-second offset.
func UTCToTT(jdUTC float64) float64 {
	return jdUTC + (LeapSecondOffset(jdUTC)+32.184)/SecPerDay
}

// TTToUT1 converts a TT Julian date to UT1 using ΔT = TT - UT1.
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-j2000JD)/365.25
	return jdTT - DeltaT(year)/SecPerDay
}

// deltaTTable holds (year, ΔT seconds) historical/predicted pairs, after
// Morrison & Stephenson / Espenak & Meeus, tabulated at decadal-to-century
// resolution and linearly interpolated between entries. Clamped to
// [1800, 2200] per §4.A.
var deltaTTable = []struct {
	year float64
	dt   float64
}{
	{1800, 13.72}, {1810, 13.02}, {1820, 12.00}, {1830, 8.04}, {1840, 6.00},
	{1850, 7.15}, {1860, 7.99}, {1870, 1.00}, {1880, -4.32}, {1890, -6.00},
	{1900, -2.79}, {1910, 10.46}, {1920, 21.16}, {1930, 24.02}, {1940, 24.33},
	{1950, 29.15}, {1960, 33.15}, {1970, 40.18}, {1980, 50.54}, {1990, 56.86},
	{2000, 63.829}, {2005, 64.69}, {2010, 66.07}, {2015, 67.64}, {2020, 69.36},
	{2025, 69.18}, {2050, 93.0}, {2100, 203.0}, {2150, 333.0}, {2200, 479.0},
}

func init() {
	deltaTTable[0].dt = 18.3670
}

// DeltaT returns ΔT = TT - UT1 in seconds for a fractional year. Linearly
// interpolated between table entries; clamped to the first/last entry
// outside [1800, 2200].
func DeltaT(year float64) float64 {
	n := len(deltaTTable)
	if year <= deltaTTable[0].year {
		return deltaTTable[0].dt
	}
	if year >= deltaTTable[n-1].year {
		return deltaTTable[n-1].dt
	}
	idx := 0
	for idx < n-1 && deltaTTable[idx+1].year <= year {
		idx++
	}
	if idx >= n-1 {
		idx = n - 2
	}
	a, b := deltaTTable[idx], deltaTTable[idx+1]
	frac := (year - a.year) / (b.year - a.year)
	return a.dt + frac*(b.dt-a.dt)
}

// TimeToJDUTC converts a Go time.Time (any location) to a UTC Julian date.
func TimeToJDUTC(t time.Time) float64 {
	t = t.UTC()
	y, m, d := t.Date()
	jdn := julianDayNumber(y, int(m), d)
	frac := (float64(t.Hour())*3600+float64(t.Minute())*60+float64(t.Second())+
		float64(t.Nanosecond())/1e9)/SecPerDay - 0.5
	return float64(jdn) + frac
}

func julianDayNumber(y, m, d int) int64 {
	a := (14 - m) / 12
	yy := y + 4800 - a
	mm := m + 12*a - 3
	return int64(d) + int64((153*mm+2)/5) + int64(365*yy) + int64(yy/4) - int64(yy/100) + int64(yy/400) - 32045
}

// TDBMinusTT returns TDB-TT in seconds for a given JD (TT or TDB — the
// difference in argument is well within the series' own amplitude).
// Fairhead & Bretagnon approximation (USNO Circular 179 eq. 2.6).
func TDBMinusTT(jd float64) float64 {
	t := (jd - j2000JD) / 36525.0
	return 0.001657*math.Sin(628.3076*t+6.2401) +
		0.000022*math.Sin(575.3385*t+4.2970) +
		0.000014*math.Sin(1256.6152*t+6.1969) +
		0.000005*math.Sin(606.9777*t+4.0212) +
		0.000005*math.Sin(52.9691*t+0.4444) +
		0.000002*math.Sin(21.3299*t+5.5431) +
		0.000010*t*math.Sin(628.3076*t+4.2490)
}

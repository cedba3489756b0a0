// Package eop supplies Earth orientation parameters — polar motion (xp, yp)
// and UT1-UTC — for a UTC instant, plus the short-period diurnal/subdiurnal
// tidal correction series.
//
// The table is process-wide, read-only once loaded, and initialization is
// idempotent: Default() always returns the same *Table value, built once
// regardless of how many goroutines call it concurrently.
package eop

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Entry is one row of the EOP table: polar motion and UT1-UTC for a single
// UTC Julian day.
type Entry struct {
	JDUTC  float64
	XP, YP float64 // arcsec
	DUT1   float64 // UT1-UTC, seconds
	DPsi   float64 // nutation correction to longitude, arcsec (optional)
	DEps   float64 // nutation correction to obliquity, arcsec (optional)
}

// Table is a sorted, read-only series of Entry rows, interpolated linearly
// in UTC.
type Table struct {
	rows []Entry
}

// NewTable builds a Table from rows, which need not be pre-sorted.
func NewTable(rows []Entry) *Table {
	sorted := make([]Entry, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].JDUTC < sorted[j].JDUTC })
	return &Table{rows: sorted}
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide EOP table, built once from the bundled
// seed series on first call. Safe for concurrent use.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable(seedRows)
	})
	return defaultTable
}

// Result is the outcome of a table lookup: the interpolated values plus an
// optional warning when the query fell outside the table's covered range.
// Per the "no partial failure" policy, an out-of-range query is not an
// error — it clamps to the nearest endpoint and reports why.
type Result struct {
	DUT1, XP, YP float64
	Warning      string
}

// Lookup interpolates xp, yp, and UT1-UTC linearly in UTC for jdUTC. Queries
// before the first or after the last tabulated day return that endpoint's
// values with a non-empty Warning.
func (t *Table) Lookup(jdUTC float64) Result {
	n := len(t.rows)
	if n == 0 {
		return Result{Warning: "eop: table is empty"}
	}
	if jdUTC <= t.rows[0].JDUTC {
		e := t.rows[0]
		w := ""
		if jdUTC < e.JDUTC {
			w = errors.Errorf("eop: jd %.5f before table start %.5f, using first entry", jdUTC, e.JDUTC).Error()
		}
		return Result{DUT1: e.DUT1, XP: e.XP, YP: e.YP, Warning: w}
	}
	if jdUTC >= t.rows[n-1].JDUTC {
		e := t.rows[n-1]
		w := ""
		if jdUTC > e.JDUTC {
			w = errors.Errorf("eop: jd %.5f after table end %.5f, using last entry", jdUTC, e.JDUTC).Error()
		}
		return Result{DUT1: e.DUT1, XP: e.XP, YP: e.YP, Warning: w}
	}

	idx := sort.Search(n, func(i int) bool { return t.rows[i].JDUTC > jdUTC }) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n-1 {
		idx = n - 2
	}
	a, b := t.rows[idx], t.rows[idx+1]
	frac := (jdUTC - a.JDUTC) / (b.JDUTC - a.JDUTC)
	return Result{
		DUT1: lerp(a.DUT1, b.DUT1, frac),
		XP:   lerp(a.XP, b.XP, frac),
		YP:   lerp(a.YP, b.YP, frac),
	}
}

func lerp(a, b, frac float64) float64 {
	return a + frac*(b-a)
}

// Obtain implements `obtainEOP(jdUTC, flags) -> (UT1-UTC, xp, yp)`. It
// returns (0, 0, 0, "") unconditionally when correctForEOP is false. When
// correctForTides is set, the diurnal/subdiurnal tidal correction series is
// added to xp, yp, and UT1-UTC before returning.
func Obtain(t *Table, jdUTC float64, correctForEOP, correctForTides bool) (dut1, xp, yp float64, warning string) {
	if !correctForEOP {
		return 0, 0, 0, ""
	}
	r := t.Lookup(jdUTC)
	dut1, xp, yp = r.DUT1, r.XP, r.YP
	if correctForTides {
		tdut1, txp, typ := tidalCorrection(jdUTC)
		dut1 += tdut1
		xp += txp
		yp += typ
	}
	return dut1, xp, yp, r.Warning
}

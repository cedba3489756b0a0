package cheby

import (
	"math"

	"github.com/pkg/errors"

	"github.com/anupshinde/goeph/bodies"
)

const secPerDay = 86400.0

// chebyshev evaluates a Chebyshev polynomial using the Clenshaw algorithm.
// coeffs are the Chebyshev coefficients, s is the normalized time in [-1, 1].
// Kept verbatim from the teacher's spk.go.
func chebyshev(coeffs []float64, s float64) float64 {
	n := len(coeffs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return coeffs[0]
	}
	s2 := 2.0 * s
	w0 := coeffs[n-1]
	w1 := 0.0
	for i := n - 2; i >= 1; i-- {
		w0, w1 = coeffs[i]+s2*w0-w1, w0
	}
	return coeffs[0] + s*w0 - w1
}

// chebyshevDerivative evaluates the derivative of a Chebyshev polynomial
// series at normalized time s in [-1, 1], via the standard
// coefficient-to-derivative recurrence followed by Clenshaw evaluation.
// Kept verbatim from the teacher's spk.go.
func chebyshevDerivative(coeffs []float64, s float64) float64 {
	n := len(coeffs)
	if n < 2 {
		return 0
	}
	m := n - 1
	dc := make([]float64, m)
	for j := m - 1; j >= 1; j-- {
		var djp2 float64
		if j+2 < m {
			djp2 = dc[j+2]
		}
		dc[j] = djp2 + 2.0*float64(j+1)*coeffs[j+1]
	}
	var d2 float64
	if m > 2 {
		d2 = dc[2]
	}
	dc[0] = (d2 + 2.0*coeffs[1]) / 2.0
	return chebyshev(dc, s)
}

// evalSlot evaluates position (AU) and velocity (AU/day) for one GROUP-1050
// slot within a granule at jdTDB. axes is 3 for every body slot (Nutation's
// 2-axis and Libration's 3-Euler-angle slots are not read by this package).
func evalSlot(g *Granule, slot BodySlot, jdTDB float64, axes int) (pos, vel [3]float64) {
	subDur := subIntervalDuration(g, slot)
	sub := math.Floor((jdTDB - g.StartJD) / subDur)
	if sub < 0 {
		sub = 0
	}
	if int(sub) >= slot.NSets {
		sub = float64(slot.NSets - 1)
	}
	chebT := 2.0*(jdTDB-sub*subDur-g.StartJD)/subDur - 1.0
	if chebT < -1 {
		chebT = -1
	}
	if chebT > 1 {
		chebT = 1
	}

	base := slot.Offset - 1 + int(sub)*axes*slot.NCoef
	// §4.E step 4: "scale velocity by 2·nsets/intervalDur" == 2/subDur.
	velScale := 2.0 / subDur
	for ax := 0; ax < axes && ax < 3; ax++ {
		start := base + ax*slot.NCoef
		end := start + slot.NCoef
		if end > len(g.Coeffs) {
			continue
		}
		coeffs := g.Coeffs[start:end]
		pos[ax] = chebyshev(coeffs, chebT)
		vel[ax] = chebyshevDerivative(coeffs, chebT) * velScale
	}
	return
}

func subIntervalDuration(g *Granule, slot BodySlot) float64 {
	total := g.EndJD - g.StartJD
	return total / float64(slot.NSets)
}

// State implements §4.E's "essential contract": locate the granule covering
// jdTDB, locate body's sub-interval, evaluate the Chebyshev polynomial and
// its derivative, and apply the Earth/Pluto body-center adjustments. The
// Moon is returned geocentric, as stored. Position is AU, velocity AU/day,
// frame barycentric ICRS (dynamical J2000 for DE200 files; neither this
// package nor pipeline rotates that frame to FK5).
func (h *Header) State(g *Granule, jdTDB float64, body int) (pos, vel [3]float64, err error) {
	if jdTDB < g.StartJD || jdTDB > g.EndJD {
		return pos, vel, errors.Errorf("cheby: jd %.6f outside granule range [%.6f, %.6f]", jdTDB, g.StartJD, g.EndJD)
	}
	au := h.AU()
	if au == 0 {
		au = 149597870.7
	}

	switch body {
	case bodies.SSB:
		return pos, vel, nil
	case bodies.Earth:
		embSlot := h.Slots[2]
		moonSlot := h.Slots[9]
		embPos, embVel := evalSlot(g, embSlot, jdTDB, 3)
		moonPos, moonVel := evalSlot(g, moonSlot, jdTDB, 3)
		emrat := h.EMRAT()
		frac := 1.0 / (1.0 + emrat)
		for i := 0; i < 3; i++ {
			pos[i] = embPos[i] - moonPos[i]*frac
			vel[i] = embVel[i] - moonVel[i]*frac
		}
		return scale3(pos, 1.0/au), scale3(vel, 1.0/au), nil
	case bodies.Moon:
		slot := h.Slots[9]
		pos, vel = evalSlot(g, slot, jdTDB, 3)
		return scale3(pos, 1.0/au), scale3(vel, 1.0/au), nil
	}

	idx := slotForBody(body)
	if idx < 0 {
		return pos, vel, errors.Errorf("cheby: unknown target body %d", body)
	}
	slot := h.Slots[idx]
	pos, vel = evalSlot(g, slot, jdTDB, 3)
	pos, vel = scale3(pos, 1.0/au), scale3(vel, 1.0/au)

	if body == bodies.PlutoBarycenter || body == bodies.Pluto {
		// §9: "canonicalize to always-apply when body=Pluto and
		// algorithm=DE". No planetary-satellite sub-model coefficient
		// table survived retrieval (a bulk-data-supply concern, same
		// rationale as moshier's reduced series), so the barycenter-to
		// body-center offset is a documented zero placeholder rather
		// than a measured correction.
		off := plutoOffset(jdTDB)
		pos[0] += off[0]
		pos[1] += off[1]
		pos[2] += off[2]
	}
	return pos, vel, nil
}

// plutoOffset returns the Pluto-system-barycenter to Pluto-body-center
// offset vector in AU. Documented placeholder: see State's Pluto branch.
func plutoOffset(jdTDB float64) [3]float64 {
	return [3]float64{}
}

func scale3(v [3]float64, s float64) [3]float64 {
	return [3]float64{v[0] * s, v[1] * s, v[2] * s}
}

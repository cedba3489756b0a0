package cheby

import (
	"math"
	"strings"
	"testing"

	"github.com/anupshinde/goeph/bodies"
)

func TestParseFortranDouble(t *testing.T) {
	cases := map[string]float64{
		"1.234D+05":  123400,
		"1.234d+05":  123400,
		"-6.02D-02":  -0.0602,
		"149597870.7": 149597870.7,
	}
	for in, want := range cases {
		got, err := ParseFortranDouble(in)
		if err != nil {
			t.Fatalf("ParseFortranDouble(%q): %v", in, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("ParseFortranDouble(%q) = %v, want %v", in, got, want)
		}
	}
}

// syntheticHeader builds a minimal in-memory header: one sub-interval per
// body, order 2 (linear Chebyshev: pos = c0 + c1*t), so velocity can be
// checked analytically.
func syntheticHeader() *Header {
	h := &Header{
		NCoeff:    2 + NumGranuleBodies*3*2,
		Constants: map[string]float64{"AU": 149597870.7, "EMRAT": 81.30056},
	}
	offset := 3 // word 1,2 are start/end JD; coefficients start at word 3 (1-based)
	for i := range h.Slots {
		h.Slots[i] = BodySlot{Offset: offset, NCoef: 2, NSets: 1}
		offset += 3 * 2
	}
	return h
}

func TestParseHeaderRoundTrip(t *testing.T) {
	text := `KSIZE= 1018  NCOEFF= 1018
GROUP   1030
   2433282.50   2469807.50   32.00
GROUP   1040
2
   AU    EMRAT
GROUP   1041
2
  0.149597870700000000D+09  0.813005600000000044D+02
GROUP   1050
    3    171    231    309    342    366    387    405    423    441    753    819    899
   14     10     13     11      8      7      6      6      6     13     11     10     10
    4      2      2      1      1      1      1      1      1      8      2      4      4
`
	h, err := ParseHeader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.AU() != 149597870.7 {
		t.Errorf("AU = %v, want 149597870.7", h.AU())
	}
	if math.Abs(h.EMRAT()-81.300560000000004) > 1e-6 {
		t.Errorf("EMRAT = %v", h.EMRAT())
	}
	if h.StartJD != 2433282.50 || h.EndJD != 2469807.50 || h.IntervalDuration != 32.0 {
		t.Errorf("GROUP 1030 = %+v", h)
	}
	if h.Slots[10].Offset != 753 || h.Slots[10].NCoef != 11 || h.Slots[10].NSets != 2 {
		t.Errorf("Sun slot = %+v", h.Slots[10])
	}
}

func TestStateLinearSlot(t *testing.T) {
	h := syntheticHeader()
	g := &Granule{StartJD: 2451544.5, EndJD: 2451576.5, Coeffs: make([]float64, h.NCoeff)}

	// Sun slot: c0=1.0 AU, c1=0.5 AU (linear ramp across the interval),
	// stored in km as a DE file carries them.
	sunSlot := h.Slots[10]
	base := sunSlot.Offset - 1
	g.Coeffs[base+0] = 1.0 * h.AU()
	g.Coeffs[base+1] = 0.5 * h.AU()

	mid := (g.StartJD + g.EndJD) / 2
	pos, vel, err := h.State(g, mid, bodies.Sun)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	// At the midpoint, normalized time t=0, so pos.x = c0 = 1.0 AU.
	if math.Abs(pos[0]-1.0) > 1e-9 {
		t.Errorf("pos[0] = %v, want 1.0", pos[0])
	}
	// velocity = c1 * 2/subDur (subDur = interval since NSets=1)
	subDur := g.EndJD - g.StartJD
	wantVel := 0.5 * 2.0 / subDur
	if math.Abs(vel[0]-wantVel) > 1e-9 {
		t.Errorf("vel[0] = %v, want %v", vel[0], wantVel)
	}
}

func TestStateEarthFromEMBMinusMoon(t *testing.T) {
	h := syntheticHeader()
	g := &Granule{StartJD: 2451544.5, EndJD: 2451576.5, Coeffs: make([]float64, h.NCoeff)}

	embSlot := h.Slots[2]
	moonSlot := h.Slots[9]
	g.Coeffs[embSlot.Offset-1] = 1.0 * h.AU()   // 1 AU, stored in km
	g.Coeffs[moonSlot.Offset-1] = 0.002 * h.AU() // 0.002 AU, roughly lunar distance scale

	mid := (g.StartJD + g.EndJD) / 2
	earthPos, _, err := h.State(g, mid, bodies.Earth)
	if err != nil {
		t.Fatalf("State(Earth): %v", err)
	}
	emrat := h.EMRAT()
	want := 1.0 - 0.002/(1.0+emrat)
	if math.Abs(earthPos[0]-want) > 1e-9 {
		t.Errorf("Earth pos[0] = %v, want %v", earthPos[0], want)
	}
}

func TestStateSSBIsZero(t *testing.T) {
	h := syntheticHeader()
	g := &Granule{StartJD: 2451544.5, EndJD: 2451576.5, Coeffs: make([]float64, h.NCoeff)}
	pos, vel, err := h.State(g, g.StartJD+1, bodies.SSB)
	if err != nil {
		t.Fatalf("State(SSB): %v", err)
	}
	if pos != ([3]float64{}) || vel != ([3]float64{}) {
		t.Errorf("State(SSB) = %v, %v, want zero", pos, vel)
	}
}

func TestStateOutOfRange(t *testing.T) {
	h := syntheticHeader()
	g := &Granule{StartJD: 2451544.5, EndJD: 2451576.5, Coeffs: make([]float64, h.NCoeff)}
	if _, _, err := h.State(g, g.EndJD+10, bodies.Sun); err == nil {
		t.Error("expected DateOutOfRange-style error for jd beyond granule")
	}
}

func TestReaderLRUEviction(t *testing.T) {
	h := syntheticHeader()
	r := NewReader(h)
	g1 := &Granule{StartJD: 0, EndJD: 10, Coeffs: make([]float64, h.NCoeff)}
	g2 := &Granule{StartJD: 10, EndJD: 20, Coeffs: make([]float64, h.NCoeff)}
	g3 := &Granule{StartJD: 20, EndJD: 30, Coeffs: make([]float64, h.NCoeff)}
	r.AddGranule(g1)
	r.AddGranule(g2)
	r.AddGranule(g3) // should evict g1 (soft cap 2, g1 least recently touched)

	if _, err := r.granuleFor(5); err == nil {
		t.Error("expected g1 to have been evicted")
	}
	if _, err := r.granuleFor(25); err != nil {
		t.Errorf("expected g3 resident: %v", err)
	}
}

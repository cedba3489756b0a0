// Package cheby reads the ASCII JPL DE ephemeris text format (§6) and
// evaluates barycentric Chebyshev position/velocity series for the thirteen
// bodies a DE granule carries: Mercury, Venus, EMB, Mars, Jupiter, Saturn,
// Uranus, Neptune, Pluto, Moon (geocentric), Sun, Nutation, Libration.
//
// The reader/evaluator split mirrors the teacher's spk.go: Clenshaw
// recurrence for the polynomial itself and a derivative recurrence for
// velocity, unchanged in algorithm from the binary-SPK reader, now fed by
// parsed decimal text instead of binary float64 words. Per-body slot
// dispatch (which coefficient block belongs to which body, and how many
// axes it carries) follows the IPT-table pattern in mshafiee-jpleph's
// ephemeris.go, with the column layout fixed by GROUP 1050 instead of a
// binary header.
package cheby

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/anupshinde/goeph/bodies"
)

// NumGranuleBodies is the fixed number of GROUP 1050 columns: Mercury,
// Venus, EMB, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, Moon
// (geocentric), Sun, Nutation, Libration.
const NumGranuleBodies = 13

// BodySlot describes one GROUP 1050 column: the 1-based coefficient offset
// within a granule record, the Chebyshev order (coefficients per
// sub-interval per axis), and the number of sub-intervals per granule.
type BodySlot struct {
	Offset int // 1-based word offset into the granule's coefficient array
	NCoef  int // Chebyshev coefficients per axis per sub-interval
	NSets  int // sub-intervals per granule interval
}

// Header is the parsed ASCII DE header: KSIZE/NCOEFF sizing, the granule
// validity range and interval duration (GROUP 1030), named constants
// (GROUP 1040/1041, must include AU and EMRAT), and the per-body
// interpolation table (GROUP 1050).
type Header struct {
	KSize   int
	NCoeff  int
	StartJD float64
	EndJD   float64
	// IntervalDuration is the length in days of one granule's validity
	// interval (subdivided into each body's NSets sub-intervals).
	IntervalDuration float64
	Constants        map[string]float64
	Slots            [NumGranuleBodies]BodySlot
}

// AU returns the header's AU constant (km per astronomical unit).
func (h *Header) AU() float64 { return h.Constants["AU"] }

// EMRAT returns the header's Earth/Moon mass ratio constant.
func (h *Header) EMRAT() float64 { return h.Constants["EMRAT"] }

// Granule is one parsed interval record: its validity range and the raw
// coefficient words for every body slot, in GROUP-1050 column order.
type Granule struct {
	StartJD float64
	EndJD   float64
	Coeffs  []float64
}

// ParseHeader reads the ASCII header block: `KSIZE= k  NCOEFF= n`, `GROUP
// 1030` (start JD, end JD, interval duration), `GROUP 1040`/`1041` (constant
// names and values, same order), `GROUP 1050` (three rows of thirteen
// offset/order/nset integers).
func ParseHeader(r io.Reader) (*Header, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	h := &Header{Constants: make(map[string]float64)}
	var names []string

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "KSIZE"):
			ks, nc, err := parseKsizeLine(line)
			if err != nil {
				return nil, errors.Wrap(err, "cheby: parsing KSIZE line")
			}
			h.KSize, h.NCoeff = ks, nc
		case strings.HasPrefix(line, "GROUP") && strings.Contains(line, "1030"):
			vals, err := readDoubleRow(sc, 3)
			if err != nil {
				return nil, errors.Wrap(err, "cheby: parsing GROUP 1030")
			}
			h.StartJD, h.EndJD, h.IntervalDuration = vals[0], vals[1], vals[2]
		case strings.HasPrefix(line, "GROUP") && strings.Contains(line, "1040"):
			var err error
			names, err = readNameRow(sc)
			if err != nil {
				return nil, errors.Wrap(err, "cheby: parsing GROUP 1040")
			}
		case strings.HasPrefix(line, "GROUP") && strings.Contains(line, "1041"):
			// The first value is the constant count, repeating GROUP 1040's.
			vals, err := readDoubleRow(sc, len(names)+1)
			if err != nil {
				return nil, errors.Wrap(err, "cheby: parsing GROUP 1041")
			}
			for i, name := range names {
				h.Constants[name] = vals[i+1]
			}
		case strings.HasPrefix(line, "GROUP") && strings.Contains(line, "1050"):
			if err := readSlotTable(sc, h); err != nil {
				return nil, errors.Wrap(err, "cheby: parsing GROUP 1050")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "cheby: scanning header")
	}
	if _, ok := h.Constants["AU"]; !ok {
		return nil, errors.New("cheby: header missing mandatory AU constant")
	}
	if _, ok := h.Constants["EMRAT"]; !ok {
		return nil, errors.New("cheby: header missing mandatory EMRAT constant")
	}
	return h, nil
}

func parseKsizeLine(line string) (ksize, ncoeff int, err error) {
	fields := strings.Fields(strings.ReplaceAll(line, "=", " "))
	for i := 0; i < len(fields)-1; i++ {
		switch fields[i] {
		case "KSIZE":
			ksize, err = strconv.Atoi(fields[i+1])
		case "NCOEFF":
			ncoeff, err = strconv.Atoi(fields[i+1])
		}
		if err != nil {
			return 0, 0, err
		}
	}
	return ksize, ncoeff, nil
}

// readDoubleRow reads whitespace-separated Fortran-style doubles (`D`
// exponent marker) from however many subsequent non-blank lines are needed
// to collect want values.
func readDoubleRow(sc *bufio.Scanner, want int) ([]float64, error) {
	var out []float64
	for len(out) < want && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		for _, f := range strings.Fields(line) {
			v, err := ParseFortranDouble(f)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	if len(out) < want {
		return nil, errors.Errorf("cheby: expected %d values, got %d", want, len(out))
	}
	return out[:want], nil
}

func readNameRow(sc *bufio.Scanner) ([]string, error) {
	var names []string
	// First non-blank line carries the constant count.
	var count int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(strings.Fields(line)[0])
		if err != nil {
			return nil, err
		}
		count = n
		break
	}
	for len(names) < count && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		names = append(names, strings.Fields(line)...)
	}
	if len(names) < count {
		return nil, errors.Errorf("cheby: expected %d constant names, got %d", count, len(names))
	}
	return names[:count], nil
}

func readSlotTable(sc *bufio.Scanner, h *Header) error {
	var rows [3][]int
	for r := 0; r < 3; r++ {
		var row []int
		for len(row) < NumGranuleBodies && sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			for _, f := range strings.Fields(line) {
				v, err := strconv.Atoi(f)
				if err != nil {
					return err
				}
				row = append(row, v)
			}
		}
		if len(row) < NumGranuleBodies {
			return errors.Errorf("cheby: GROUP 1050 row %d wants %d columns, got %d", r+1, NumGranuleBodies, len(row))
		}
		rows[r] = row[:NumGranuleBodies]
	}
	for c := 0; c < NumGranuleBodies; c++ {
		h.Slots[c] = BodySlot{Offset: rows[0][c], NCoef: rows[1][c], NSets: rows[2][c]}
	}
	return nil
}

// ParseFortranDouble converts a Fortran-style literal using `D`/`d` as the
// exponent marker (e.g. "1.234D+05") into a float64. Plain `E`-exponent and
// exponent-free literals also parse normally.
func ParseFortranDouble(s string) (float64, error) {
	s = strings.ReplaceAll(s, "D", "E")
	s = strings.ReplaceAll(s, "d", "e")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "cheby: invalid double %q", s)
	}
	return v, nil
}

// ParseGranule reads one granule record: a line of (recordIndex,
// granuleSize) followed by NCOEFF doubles, three per line, whose first two
// fields are the granule's interval-start and interval-end JDs.
func ParseGranule(r io.Reader, h *Header) (*Granule, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// Skip the (recordIndex, granuleSize) line.
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			break
		}
	}
	vals, err := readDoubleRow(sc, h.NCoeff)
	if err != nil {
		return nil, errors.Wrap(err, "cheby: parsing granule coefficients")
	}
	if len(vals) < 2 {
		return nil, errors.New("cheby: granule record too short")
	}
	return &Granule{StartJD: vals[0], EndJD: vals[1], Coeffs: vals}, nil
}

// slotForBody maps a NAIF body ID to its GROUP 1050 column index, or -1 if
// the body has no granule slot (e.g. Earth, which is derived from EMB and
// Moon; SSB, whose state is identically zero).
func slotForBody(body int) int {
	switch body {
	case bodies.MercuryBarycenter:
		return 0
	case bodies.VenusBarycenter:
		return 1
	case bodies.EarthMoonBary:
		return 2
	case bodies.MarsBarycenter:
		return 3
	case bodies.JupiterBarycenter:
		return 4
	case bodies.SaturnBarycenter:
		return 5
	case bodies.UranusBarycenter:
		return 6
	case bodies.NeptuneBarycenter:
		return 7
	case bodies.PlutoBarycenter, bodies.Pluto:
		return 8
	case bodies.Moon:
		return 9
	case bodies.Sun:
		return 10
	default:
		return -1
	}
}

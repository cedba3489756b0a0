package cheby

import (
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/anupshinde/goeph/bodies"
	"github.com/anupshinde/goeph/coord"
)

const cKmPerDay = 299792.458 * secPerDay

// Reader is a random-access DE Chebyshev theory: a header plus the granules
// loaded so far, evicted LRU with a soft cap of two resident files per §5's
// resource policy ("eviction is LRU across files with a soft cap of two
// resident files" — here a "file" is one granule record, the natural unit
// of residency for the ASCII format).
type Reader struct {
	mu       sync.Mutex
	header   *Header
	granules []*Granule // sorted by StartJD
	order    []*Granule // MRU-first access order, for eviction
}

// softCap bounds the number of granules kept resident at once.
const softCap = 2

// NewReader builds a Reader from an already-parsed header. Granules are
// added with AddGranule as they are loaded (lazily, on first touch, per
// §5: "Chebyshev files are loaded lazily on first touch").
func NewReader(h *Header) *Reader {
	return &Reader{header: h}
}

// Header returns the reader's parsed header.
func (r *Reader) Header() *Header { return r.header }

// AddGranule registers a parsed granule with the reader, evicting the
// least-recently-used granule if the soft cap would be exceeded.
func (r *Reader) AddGranule(g *Granule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.granules = append(r.granules, g)
	sort.Slice(r.granules, func(i, j int) bool { return r.granules[i].StartJD < r.granules[j].StartJD })
	r.order = append([]*Granule{g}, r.order...)
	for len(r.order) > softCap {
		evict := r.order[len(r.order)-1]
		r.order = r.order[:len(r.order)-1]
		r.removeGranule(evict)
	}
}

func (r *Reader) removeGranule(g *Granule) {
	for i, cand := range r.granules {
		if cand == g {
			r.granules = append(r.granules[:i], r.granules[i+1:]...)
			return
		}
	}
}

// granuleFor returns the granule whose [StartJD, EndJD] interval contains
// jdTDB, touching it to the front of the LRU order. Returns an error if no
// loaded granule covers the date (§7 DateOutOfRange).
func (r *Reader) granuleFor(jdTDB float64) (*Granule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.granules {
		if jdTDB >= g.StartJD && jdTDB <= g.EndJD {
			r.touch(g)
			return g, nil
		}
	}
	return nil, errors.Errorf("cheby: no loaded granule covers jd %.6f", jdTDB)
}

func (r *Reader) touch(g *Granule) {
	for i, cand := range r.order {
		if cand == g {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.order = append([]*Granule{g}, r.order...)
}

// State returns the barycentric ICRS position (AU) and velocity (AU/day) of
// body at jdTDB; the Moon's state is geocentric, as the file stores it.
// Implements §4.E's `state(jdTDB, body) -> (pos, vel)`.
func (r *Reader) State(jdTDB float64, body int) (pos, vel [3]float64, err error) {
	g, err := r.granuleFor(jdTDB)
	if err != nil {
		return pos, vel, err
	}
	return r.header.State(g, jdTDB, body)
}

// bodyWrtSSB is State's position half, panicking callers tolerate via error
// return — kept as a small helper for the Apparent/GeocentricPosition
// compatibility surface below, grounded on spk.go's bodyWrtSSB.
func (r *Reader) bodyWrtSSB(body int, jdTDB float64) [3]float64 {
	pos, _, err := r.State(jdTDB, body)
	if err != nil {
		return [3]float64{}
	}
	if body == bodies.Moon {
		// State returns the Moon geocentric; add Earth's barycentric position.
		earth, _, err := r.State(jdTDB, bodies.Earth)
		if err != nil {
			return [3]float64{}
		}
		pos = add3km(pos, earth)
	}
	au := r.header.AU()
	return scale3(pos, au)
}

func (r *Reader) bodyVelWrtSSB(body int, jdTDB float64) [3]float64 {
	_, vel, err := r.State(jdTDB, body)
	if err != nil {
		return [3]float64{}
	}
	if body == bodies.Moon {
		_, earthVel, err := r.State(jdTDB, bodies.Earth)
		if err != nil {
			return [3]float64{}
		}
		vel = add3km(vel, earthVel)
	}
	au := r.header.AU()
	return scale3(vel, au)
}

// GeocentricPosition returns the geometric (no light-time) geocentric
// position of a body in km, ICRF frame — kept as the `spk.SPK` compatibility
// surface `almanac`/`eclipse` call against.
func (r *Reader) GeocentricPosition(body int, tdbJD float64) [3]float64 {
	earthPos := r.bodyWrtSSB(bodies.Earth, tdbJD)
	bodyPos := r.bodyWrtSSB(body, tdbJD)
	return sub3km(bodyPos, earthPos)
}

// observe is the internal light-time iteration, grounded on spk.go's
// observe(): iterate at most 10 times with a 1e-12 day convergence
// threshold (well under §4.J's 1e-6 s criterion).
func (r *Reader) observe(observer, body int, tdbJD float64) (pos [3]float64, lightTime float64) {
	obsPos := r.bodyWrtSSB(observer, tdbJD)
	bodyPos := r.bodyWrtSSB(body, tdbJD)
	pos = sub3km(bodyPos, obsPos)
	dist := length3km(pos)
	for i := 0; i < 10; i++ {
		newLT := dist / cKmPerDay
		if math.Abs(newLT-lightTime) < 1e-12 {
			break
		}
		lightTime = newLT
		bodyPos = r.bodyWrtSSB(body, tdbJD-lightTime)
		pos = sub3km(bodyPos, obsPos)
		dist = length3km(pos)
	}
	return
}

// Observe computes the astrometric (light-time corrected) geocentric
// position of a body in km, ICRF frame.
func (r *Reader) Observe(body int, tdbJD float64) [3]float64 {
	pos, _ := r.observe(bodies.Earth, body, tdbJD)
	return pos
}

// Apparent computes the apparent position of a body as seen from Earth at
// tdbJD: light-time, gravitational deflection (Sun, Jupiter, Saturn), and
// stellar aberration. Returns km, GCRS frame. Kept as the `spk.SPK.Apparent`
// compatibility surface for `almanac`/`eclipse`; the full 14-step chain
// (frame/equinox conversion, nutation, polar motion, topocentric, refraction)
// lives in package pipeline.
func (r *Reader) Apparent(body int, tdbJD float64) [3]float64 {
	return r.ApparentFrom(bodies.Earth, body, tdbJD)
}

// ApparentFrom computes the apparent position of target as seen from
// observer. See Apparent.
func (r *Reader) ApparentFrom(observer, target int, tdbJD float64) [3]float64 {
	obsPos := r.bodyWrtSSB(observer, tdbJD)
	obsVel := r.bodyVelWrtSSB(observer, tdbJD)

	position, lightTime := r.observe(observer, target, tdbJD)

	type deflector struct {
		body  int
		rmass float64
	}
	deflectors := [3]deflector{
		{bodies.Sun, 1.0},
		{bodies.JupiterBarycenter, bodies.ReciprocalMass[bodies.JupiterBarycenter]},
		{bodies.SaturnBarycenter, bodies.ReciprocalMass[bodies.SaturnBarycenter]},
	}
	posMag := length3km(position)
	for _, d := range deflectors {
		dPos := r.bodyWrtSSB(d.body, tdbJD)
		gpv := sub3km(dPos, obsPos)

		dlt := dotKm(position, gpv) / (cKmPerDay * posMag)
		tclose := tdbJD - lightTime + dlt

		dPos = r.bodyWrtSSB(d.body, tclose)
		pe := sub3km(dPos, obsPos)

		correction := coord.Deflection(position, pe, d.rmass)
		position = add3km(position, correction)
	}

	position = coord.Aberration(position, obsVel, lightTime)
	return position
}

func sub3km(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}
func add3km(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}
func dotKm(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
func length3km(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

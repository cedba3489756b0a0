package pipeline

import (
	"github.com/anupshinde/goeph/bodies"
	"github.com/anupshinde/goeph/moshier"
	"github.com/anupshinde/goeph/vsop"
)

// Algorithm names one entry in the theory dispatcher's ordered fallback
// list.
type Algorithm int

const (
	// DE consults the PipelineContext's loaded Chebyshev reader, the
	// highest-fidelity source when a file covers the requested date.
	DE Algorithm = iota
	// Moshier consults the fitted long-period series (§4.F).
	Moshier
	// VSOP consults the secondary analytical theory (§4.G).
	VSOP
	// ArtificialSatellite is handled entirely outside this dispatcher —
	// TLE propagation has no heliocentric state of its own — and exists
	// here only so Options.Algorithms can name it and get
	// ErrInvalidAlgorithm instead of silently falling through.
	ArtificialSatellite
	// Kepler resolves a target from its own osculating orbital elements
	// (Request.Orbit) rather than any context-level theory — a minor
	// planet or comet carries a different orbit on every request, unlike
	// DE/Moshier/VSOP which all answer for the whole body table from the
	// same context. Reduce special-cases it before ever reaching
	// dispatch; it is named here so Options.Algorithms can carry it and
	// theoryFor still has a well-defined (rejecting) answer if it's ever
	// passed to dispatch directly.
	Kepler
)

func (a Algorithm) String() string {
	switch a {
	case DE:
		return "DE"
	case Moshier:
		return "Moshier"
	case VSOP:
		return "VSOP"
	case ArtificialSatellite:
		return "ArtificialSatellite"
	case Kepler:
		return "Kepler"
	default:
		return "unknown"
	}
}

// DefaultAlgorithms is the dispatcher's default fallback order: prefer the
// numerically-integrated DE ephemeris, then the two analytical theories,
// matching §9's preference for the most precise available source with
// graceful analytical fallback.
var DefaultAlgorithms = []Algorithm{DE, Moshier, VSOP}

// stateFunc is the uniform theory contract every candidate in the
// dispatcher implements: state(jdTDB, body) -> (pos, vel), equatorial
// ICRF/J2000, AU and AU/day.
type stateFunc func(jdTDB float64, body int) (pos, vel [3]float64, err error)

// theoryFor resolves an Algorithm to a callable state function against
// this context's resources. Returns KindFileUnavailable for DE when no
// Reader is loaded, and KindInvalidAlgorithm for ArtificialSatellite (it
// is not a heliocentric-state theory).
func (pc *PipelineContext) theoryFor(alg Algorithm) (stateFunc, error) {
	switch alg {
	case DE:
		if pc.DE == nil {
			return nil, newError(KindFileUnavailable, "pipeline: no DE ephemeris loaded")
		}
		return func(jdTDB float64, body int) ([3]float64, [3]float64, error) {
			pos, vel, err := pc.DE.State(jdTDB, body)
			if err != nil {
				// cheby.Reader.State fails when no loaded granule covers
				// this date or the body has no slot in the file — the
				// dispatcher reports either as KindDateOutOfRange, the
				// signal to fall through to the next theory.
				return pos, vel, &Error{Kind: KindDateOutOfRange, Err: err}
			}
			return pos, vel, nil
		}, nil
	case Moshier:
		return moshier.State, nil
	case VSOP:
		return vsop.State, nil
	default:
		// ArtificialSatellite and Kepler both carry per-request state
		// (a TLE, an orbit) that this context-scoped signature has no
		// room for; Reduce resolves them before dispatch ever sees them.
		return nil, newError(KindInvalidAlgorithm, "pipeline: algorithm %v has no heliocentric state", alg)
	}
}

// dispatch tries each algorithm in order, falling through to the next
// candidate on KindDateOutOfRange/KindFileUnavailable (the two "this
// theory doesn't cover it, try another" failure modes) and returning
// immediately on any other error or on success.
func (pc *PipelineContext) dispatch(jdTDB float64, body int, order []Algorithm) (pos, vel [3]float64, err error) {
	if len(order) == 0 {
		order = DefaultAlgorithms
	}
	var lastErr error
	for _, alg := range order {
		theory, terr := pc.theoryFor(alg)
		if terr != nil {
			lastErr = terr
			continue
		}
		pos, vel, err = theory(jdTDB, body)
		if err == nil {
			if body == bodies.Moon {
				// Every theory returns the Moon geocentric; add Earth's
				// state so the Moon shares the other bodies' origin.
				earthPos, earthVel, eerr := pc.dispatch(jdTDB, bodies.Earth, order)
				if eerr != nil {
					return pos, vel, eerr
				}
				pos, vel = add3(pos, earthPos), add3(vel, earthVel)
			}
			return pos, vel, nil
		}
		lastErr = err
		if IsKind(err, KindDateOutOfRange) || IsKind(err, KindFileUnavailable) {
			continue
		}
		// Theory-local errors (e.g. moshier/vsop's "unknown body") are not
		// retryable across theories that all share the same body table,
		// so fail fast rather than exhausting the whole list silently.
		return pos, vel, err
	}
	if lastErr == nil {
		lastErr = newError(KindDateOutOfRange, "pipeline: no theory in %v covers jd %f", order, jdTDB)
	}
	return pos, vel, lastErr
}

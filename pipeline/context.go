package pipeline

import (
	"github.com/anupshinde/goeph/cheby"
	"github.com/anupshinde/goeph/cio"
	"github.com/anupshinde/goeph/coord"
	"github.com/anupshinde/goeph/eop"
)

// PipelineContext is the explicit, caller-owned value threaded through
// every reduction call: the loaded DE ephemeris, the EOP table, and the
// CIO NPB matrix cache. Per §5 these are fields on a value the caller
// constructs and passes around, not package-level singletons — the one
// partial exception is eop.Default(), which a caller may still choose not
// to use by supplying its own *eop.Table here.
type PipelineContext struct {
	// DE is the loaded Chebyshev ephemeris reader, or nil if none is
	// loaded (the dispatcher then skips straight to the analytical
	// theories).
	DE *cheby.Reader

	// EOP supplies polar motion and UT1-UTC. Defaults to eop.Default() if
	// left nil at first use.
	EOP *eop.Table

	// CIOCache memoizes NPB matrix builds across calls. Constructed
	// lazily if left nil at first use.
	CIOCache *cio.Cache

	// Method selects which precession/nutation angle series backs every
	// rotation this context performs.
	Method coord.ReductionMethod

	// Algorithms overrides DefaultAlgorithms for this context's theory
	// dispatcher. Nil means "use DefaultAlgorithms".
	Algorithms []Algorithm

	// lastGCRS is the most recently computed GCRS vector, published as
	// Result.GCRS but also retained here so a caller chaining Reduce
	// calls (e.g. for a time series) can inspect the previous result
	// without re-deriving it — mirrors the "last computed GCRS vector" a
	// singleton implementation would otherwise have kept as a package
	// var.
	lastGCRS [3]float64
}

// NewPipelineContext returns a PipelineContext with no DE ephemeris
// loaded, the default EOP table, a fresh CIO cache, and IAU2006 as the
// reduction method — the precision-first default a caller can override
// field by field.
func NewPipelineContext() *PipelineContext {
	return &PipelineContext{
		EOP:      eop.Default(),
		CIOCache: cio.NewCache(),
		Method:   coord.IAU2006,
	}
}

func (pc *PipelineContext) eop() *eop.Table {
	if pc.EOP == nil {
		pc.EOP = eop.Default()
	}
	return pc.EOP
}

func (pc *PipelineContext) cioCache() *cio.Cache {
	if pc.CIOCache == nil {
		pc.CIOCache = cio.NewCache()
	}
	return pc.CIOCache
}

// LastGCRS returns the GCRS vector computed by the most recent Reduce call
// on this context, and whether any call has succeeded yet.
func (pc *PipelineContext) LastGCRS() (v [3]float64, ok bool) {
	if pc.lastGCRS == ([3]float64{}) {
		return v, false
	}
	return pc.lastGCRS, true
}

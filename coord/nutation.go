package coord

// Only the 30-largest-term IAU 2000A luni-solar nutation series
// (nutationAnglesStandard in coord.go) is implemented: the full 678
// luni-solar + 687 planetary term series referenced a nutation_data.go
// coefficient file that was never part of this codebase, so there is no
// second precision mode to select between. The package-level
// NutationPrecision toggle this file used to expose has been removed along
// with it — reduction precision is now a property of ReductionMethod
// (reduction.go), threaded explicitly through PipelineContext rather than
// held in a process-wide mutable var.

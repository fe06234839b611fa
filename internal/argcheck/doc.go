// Package argcheck validates and sanitizes capability call arguments.
//
// Schemas from the schema package are compiled into immutable Validators
// that report every violation in one pass, normalizing values as they go
// (whole-number floats become int64 under integer nodes). A Cache keyed by
// schema content hash shares compiled validators across capabilities with
// structurally identical schemas.
//
// The Sanitizer screens raw input before validation: a depth-bounded walk
// rejects runaway nesting and flags strings matching SQL, script, and
// shell injection heuristics. Checker glues the two together and reports
// the outcome as a Result value; MustCheck is the error-returning variant.
package argcheck

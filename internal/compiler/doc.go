// Package compiler drives the declaration pipeline: frontend extraction,
// structural validation, schema building, and registry assembly.
//
// CompileUnit handles one source unit and accumulates per-declaration
// errors instead of stopping at the first. Assemble runs all units,
// registers the survivors, and then performs the checks that need the
// whole set: router member resolution and skill reference verification.
package compiler

// Package registry assembles compiled capabilities into the authoritative
// runtime set and routes invocations through it.
//
// Names are unique across all kinds; duplicates are rejected at Register
// time and the first registration stands. Lookups accept both declared
// snake_case names and derived camelCase call names, tolerate case and
// separator differences, and answer misses with ranked typo suggestions
// plus the full valid-name list. Hidden capabilities stay out of default
// listings but remain reachable by exact lookup.
//
// Routers group member operations behind one dispatching entry point;
// skills render gateway content, either manual text or an auto-assembled
// listing of the capabilities they name. The Dispatcher owns the
// invocation pipeline: lookup, then sanitization and validation in the
// configured order, then the bound handler. Results carry any non-fatal
// sanitization findings alongside the handler output.
package registry

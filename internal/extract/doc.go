// Package extract implements the declaration extraction frontend: turning
// the source text of one unit into raw capability declaration records.
//
// Extraction is deliberately unsemantic. A frontend recovers the record
// shape (kind, name, description, constraint trees, content fields) and the
// source position of each declaration, but passes no judgment on them —
// naming rules, required fields, and mutual-exclusivity are the structural
// validator's job. The one contract frontends do enforce is resilience: a
// malformed declaration yields a placeholder record with its parse problem
// attached, never a failed unit, so a single typo cannot hide every other
// diagnostic in the file.
//
// Frontends are pluggable via the Frontend interface. The built-in ones read
// YAML streams (one declaration per document) and JSON arrays; both are pure
// functions over the source text and never execute declaration content.
package extract

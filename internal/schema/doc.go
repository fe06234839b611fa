// Package schema builds the recursive schema model behind capability
// argument validation.
//
// Validated constraint trees from the declare package are converted into
// arena-allocated node trees. The arena gives every node a stable NodeID,
// which keeps named-reference sharing cheap and makes cycle detection a map
// lookup instead of a pointer chase. One Builder serves one compiled unit:
// all of the unit's schemas share an arena, so a schema declaration
// referenced from five operations is built once.
//
// The package also owns the two derived forms of a schema: the canonical
// content hash (Hash) that keys the compiled-validator cache, and the
// JSON-Schema-compatible export (JSONSchema) handed to MCP clients.
package schema

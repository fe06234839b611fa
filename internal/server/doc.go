// Package server exposes a compiled capability registry to MCP clients.
//
// The mapping is one MCP surface per capability kind: operations and
// routers are tools, templates are prompts, documents and skills are
// resources. Hidden capabilities are left out of the published tool set
// but remain reachable through the three meta tools (list_capabilities,
// describe_capability, call_capability), which give a client progressive
// disclosure over the whole registry.
//
// The server supports stdio, SSE, and streamable HTTP transports and can
// watch the declarations directory, recompiling and republishing on
// change without dropping in-flight calls.
package server

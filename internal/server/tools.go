package server

import (
	"context"
	"encoding/json"
	"fmt"

	"capstan/internal/extract"
	"capstan/internal/registry"
	"capstan/internal/schema"
	"capstan/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// buildTools converts the registry's visible operations and routers into
// MCP tools and appends the meta tools. Hidden capabilities are not
// published as tools; they stay reachable through the meta tools. Caller
// holds the lock.
func (s *Server) buildTools() []mcpserver.ServerTool {
	var tools []mcpserver.ServerTool

	for _, cap := range s.assembly.Registry.ListKind(extract.KindOperation, false) {
		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        cap.CallName,
				Description: cap.Description,
				InputSchema: toolInputSchema(cap),
			},
			Handler: s.createToolHandler(cap.Name),
		})
	}

	for _, cap := range s.assembly.Registry.ListKind(extract.KindRouter, false) {
		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        cap.CallName,
				Description: routerDescription(cap),
				InputSchema: routerInputSchema(cap),
			},
			Handler: s.createToolHandler(cap.Name),
		})
	}

	tools = append(tools, s.metaTools()...)
	return tools
}

// createToolHandler wraps dispatcher invocation in an MCP tool handler.
// The handler resolves against the live dispatcher on every call, so a
// reload takes effect without re-registering handlers.
func (s *Server) createToolHandler(capName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}

		invoked, err := s.Dispatcher().Invoke(ctx, capName, args)
		if err != nil {
			logging.Error("ToolHandler", err, "Invocation failed for %s", capName)
			return mcp.NewToolResultError(fmt.Sprintf("Invocation failed: %v", err)), nil
		}

		return invokedResult(invoked), nil
	}
}

// invokedResult converts a dispatcher result to MCP content, relaying any
// non-fatal sanitization warnings as additional text items.
func invokedResult(invoked *registry.InvokeResult) *mcp.CallToolResult {
	result := toolResult(invoked.Output)
	for _, warning := range invoked.Warnings {
		result.Content = append(result.Content, mcp.TextContent{
			Type: "text",
			Text: "warning: " + warning.Error(),
		})
	}
	return result
}

// toolResult converts a handler's return value to MCP content. Strings
// pass through; everything else is JSON.
func toolResult(result interface{}) *mcp.CallToolResult {
	switch v := result.(type) {
	case string:
		return mcp.NewToolResultText(v)
	case nil:
		return mcp.NewToolResultText("")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
		}
		return mcp.NewToolResultText(string(encoded))
	}
}

// toolInputSchema exports a capability's schema as the MCP input schema.
// Capabilities without parameters advertise an empty object.
func toolInputSchema(cap *registry.Capability) mcp.ToolInputSchema {
	if !cap.HasSchema {
		return mcp.ToolInputSchema{Type: "object", Properties: map[string]interface{}{}}
	}

	exported := cap.Schema.JSONSchema()
	properties, _ := exported["properties"].(map[string]interface{})
	if properties == nil {
		properties = map[string]interface{}{}
	}
	required, _ := exported["required"].([]string)

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// routerInputSchema is the dispatch envelope every router tool accepts:
// the member operation to call and its arguments.
func routerInputSchema(cap *registry.Capability) mcp.ToolInputSchema {
	members := make([]interface{}, 0, len(cap.Members))
	for _, member := range cap.Members {
		members = append(members, member)
	}

	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"operation": map[string]interface{}{
				"type":        "string",
				"description": "Member operation to call",
				"enum":        members,
			},
			"arguments": map[string]interface{}{
				"type":                 "object",
				"description":          "Arguments for the member operation",
				"additionalProperties": true,
			},
		},
		Required: []string{"operation"},
	}
}

// routerDescription extends the declared description with the member
// list, so a client can pick a member without a describe round trip.
func routerDescription(cap *registry.Capability) string {
	desc := cap.Description + " Member operations:"
	for _, member := range cap.Members {
		desc += " " + schema.CallName(member) + ","
	}
	return desc[:len(desc)-1] + "."
}

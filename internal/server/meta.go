package server

import (
	"context"
	"encoding/json"
	"fmt"

	"capstan/internal/extract"
	"capstan/internal/registry"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Meta tool names. These are the progressive-disclosure surface: a client
// that keeps only the meta tools in context can still discover, inspect,
// and call every capability, hidden ones included.
const (
	metaListCapabilities   = "list_capabilities"
	metaDescribeCapability = "describe_capability"
	metaCallCapability     = "call_capability"
)

// metaTools builds the three discovery tools. Caller holds the lock.
func (s *Server) metaTools() []mcpserver.ServerTool {
	return []mcpserver.ServerTool{
		{
			Tool: mcp.Tool{
				Name:        metaListCapabilities,
				Description: "List registered capabilities. Includes hidden capabilities when include_hidden is set.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"kind": map[string]interface{}{
							"type":        "string",
							"description": "Restrict the listing to one kind",
							"enum": []interface{}{
								extract.KindOperation, extract.KindRouter, extract.KindSkill,
								extract.KindDocument, extract.KindTemplate, extract.KindSchema,
							},
						},
						"include_hidden": map[string]interface{}{
							"type":        "boolean",
							"description": "Include hidden capabilities",
						},
					},
				},
			},
			Handler: s.handleListCapabilities,
		},
		{
			Tool: mcp.Tool{
				Name:        metaDescribeCapability,
				Description: "Describe one capability: kind, schema, members, and content metadata.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"name": map[string]interface{}{
							"type":        "string",
							"description": "Capability name (declared or call name)",
						},
					},
					Required: []string{"name"},
				},
			},
			Handler: s.handleDescribeCapability,
		},
		{
			Tool: mcp.Tool{
				Name:        metaCallCapability,
				Description: "Invoke a capability by name with arguments. Works for hidden capabilities too.",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"name": map[string]interface{}{
							"type":        "string",
							"description": "Capability name (declared or call name)",
						},
						"arguments": map[string]interface{}{
							"type":                 "object",
							"description":          "Arguments for the capability",
							"additionalProperties": true,
						},
					},
					Required: []string{"name"},
				},
			},
			Handler: s.handleCallCapability,
		},
	}
}

func (s *Server) handleListCapabilities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := requestArgs(req)
	kind, _ := args["kind"].(string)
	includeHidden, _ := args["include_hidden"].(bool)

	var caps []*registry.Capability
	if kind != "" {
		caps = s.Registry().ListKind(kind, includeHidden)
	} else {
		caps = s.Registry().List(includeHidden)
	}

	type entry struct {
		Name        string `json:"name"`
		CallName    string `json:"callName"`
		Kind        string `json:"kind"`
		Description string `json:"description"`
		Hidden      bool   `json:"hidden,omitempty"`
	}
	entries := make([]entry, 0, len(caps))
	for _, cap := range caps {
		entries = append(entries, entry{
			Name:        cap.Name,
			CallName:    cap.CallName,
			Kind:        cap.Kind,
			Description: cap.Description,
			Hidden:      cap.Hidden,
		})
	}

	encoded, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding listing: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

func (s *Server) handleDescribeCapability(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := requestArgs(req)
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	cap, err := s.Registry().Get(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	description := map[string]interface{}{
		"name":        cap.Name,
		"callName":    cap.CallName,
		"kind":        cap.Kind,
		"description": cap.Description,
		"hidden":      cap.Hidden,
		"source":      cap.Source,
	}
	if cap.HasSchema {
		description["schema"] = cap.Schema.JSONSchema()
		description["schemaHash"] = cap.Schema.HashString()
	}
	if len(cap.Members) > 0 {
		description["members"] = cap.Members
	}
	if cap.Kind == extract.KindSkill {
		content, contentErrs := s.Registry().SkillContent(cap)
		if len(contentErrs) == 0 {
			description["content"] = content
		}
	}
	if cap.URI != "" {
		description["uri"] = cap.URI
	}

	encoded, err := json.MarshalIndent(description, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding description: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

func (s *Server) handleCallCapability(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := requestArgs(req)
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	callArgs, _ := args["arguments"].(map[string]interface{})

	invoked, err := s.Dispatcher().Invoke(ctx, name, callArgs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invocation failed: %v", err)), nil
	}
	return invokedResult(invoked), nil
}

func requestArgs(req mcp.CallToolRequest) map[string]interface{} {
	if req.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	if args, ok := req.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

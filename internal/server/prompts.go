package server

import (
	"context"
	"fmt"

	"capstan/internal/extract"
	"capstan/internal/registry"
	"capstan/internal/schema"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// buildPrompts converts visible template capabilities into MCP prompts.
// Prompt arguments come from the template's schema when one is declared,
// otherwise from the variables the template text references. Caller holds
// the lock.
func (s *Server) buildPrompts() []mcpserver.ServerPrompt {
	var prompts []mcpserver.ServerPrompt

	for _, cap := range s.assembly.Registry.ListKind(extract.KindTemplate, false) {
		prompts = append(prompts, mcpserver.ServerPrompt{
			Prompt: mcp.Prompt{
				Name:        cap.CallName,
				Description: cap.Description,
				Arguments:   s.promptArguments(cap),
			},
			Handler: s.createPromptHandler(cap.Name),
		})
	}
	return prompts
}

func (s *Server) promptArguments(cap *registry.Capability) []mcp.PromptArgument {
	var args []mcp.PromptArgument

	if cap.HasSchema {
		root := cap.Schema.Arena.Node(cap.Schema.Root)
		if root.Type == schema.TypeObject {
			required := make(map[string]bool, len(root.Required))
			for _, name := range root.Required {
				required[name] = true
			}
			for _, name := range root.PropertyOrder {
				prop := cap.Schema.Arena.Node(root.Properties[name])
				args = append(args, mcp.PromptArgument{
					Name:        name,
					Description: prop.Description,
					Required:    required[name],
				})
			}
			return args
		}
	}

	for _, name := range s.engine.Vars(cap.Template) {
		args = append(args, mcp.PromptArgument{Name: name})
	}
	return args
}

// createPromptHandler renders the template against the prompt arguments.
// Like tool handlers, it resolves against the live registry on every call.
func (s *Server) createPromptHandler(capName string) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		cap, err := s.Registry().Get(capName)
		if err != nil {
			return nil, err
		}

		data := make(map[string]interface{}, len(req.Params.Arguments))
		for key, value := range req.Params.Arguments {
			data[key] = value
		}

		if v := s.Registry().Validator(cap.Name); v != nil {
			normalized, errs := v.Validate(data)
			if errs.HasErrors() {
				return nil, fmt.Errorf("prompt arguments invalid: %w", errs)
			}
			if m, ok := normalized.(map[string]interface{}); ok {
				data = m
			}
		}

		rendered, err := s.engine.Render(cap.Name, cap.Template, data)
		if err != nil {
			return nil, err
		}

		return &mcp.GetPromptResult{
			Description: cap.Description,
			Messages: []mcp.PromptMessage{
				{
					Role:    mcp.RoleUser,
					Content: mcp.TextContent{Type: "text", Text: rendered},
				},
			},
		}, nil
	}
}

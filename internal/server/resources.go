package server

import (
	"context"

	"capstan/internal/extract"
	"capstan/internal/registry"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// documentURIPrefix is the URI scheme for documents that do not declare
// their own URI.
const documentURIPrefix = "capstan://documents/"

// buildResources converts visible document capabilities into MCP
// resources. Caller holds the lock.
func (s *Server) buildResources() []mcpserver.ServerResource {
	var resources []mcpserver.ServerResource

	for _, cap := range s.assembly.Registry.ListKind(extract.KindDocument, false) {
		resources = append(resources, mcpserver.ServerResource{
			Resource: mcp.Resource{
				URI:         documentURI(cap),
				Name:        cap.CallName,
				Description: cap.Description,
				MIMEType:    "text/markdown",
			},
			Handler: s.createResourceHandler(cap.Name),
		})
	}

	// Skills publish their gateway content as resources too, so a client
	// can load a skill without the call round trip.
	for _, cap := range s.assembly.Registry.ListKind(extract.KindSkill, false) {
		resources = append(resources, mcpserver.ServerResource{
			Resource: mcp.Resource{
				URI:         "capstan://skills/" + cap.Name,
				Name:        cap.CallName,
				Description: cap.Description,
				MIMEType:    "text/markdown",
			},
			Handler: s.createSkillResourceHandler(cap.Name),
		})
	}
	return resources
}

func documentURI(cap *registry.Capability) string {
	if cap.URI != "" {
		return cap.URI
	}
	return documentURIPrefix + cap.Name
}

// createResourceHandler serves a document's content: static text, or a
// rendered template when the document declares one.
func (s *Server) createResourceHandler(capName string) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cap, err := s.Registry().Get(capName)
		if err != nil {
			return nil, err
		}

		text := cap.Content
		if text == "" && cap.Template != "" {
			rendered, renderErr := s.engine.Render(cap.Name, cap.Template, nil)
			if renderErr != nil {
				return nil, renderErr
			}
			text = rendered
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     text,
			},
		}, nil
	}
}

// createSkillResourceHandler serves a skill's gateway content, assembling
// auto content against the live registry.
func (s *Server) createSkillResourceHandler(capName string) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		cap, err := s.Registry().Get(capName)
		if err != nil {
			return nil, err
		}

		content, contentErrs := s.Registry().SkillContent(cap)
		if len(contentErrs) > 0 {
			return nil, contentErrs[0]
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		}, nil
	}
}

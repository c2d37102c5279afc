package moltbook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ProfileResourceURI is the resource exposing the authenticated agent's profile
const ProfileResourceURI = "moltbook://agents/me"

// Resource pairs an MCP resource with the gateway read behind it
type Resource struct {
	resource mcp.Resource
	read     func(ctx context.Context) (json.RawMessage, error)
}

// ProfileResource exposes the caller's Moltbook profile
func ProfileResource(g *Gateway) *Resource {
	return &Resource{
		resource: mcp.NewResource(ProfileResourceURI, "My Moltbook profile",
			mcp.WithResourceDescription("Profile of the agent owning the configured API key"),
			mcp.WithMIMEType("application/json"),
		),
		read: g.MyProfile,
	}
}

func (r *Resource) Resource() mcp.Resource {
	return r.resource
}

func (r *Resource) Handler(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	body, err := r.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.resource.URI, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      r.resource.URI,
			MIMEType: r.resource.MIMEType,
			Text:     string(body),
		},
	}, nil
}

// serverResource adapts r for server.MCPServer.AddResources
func (r *Resource) serverResource() server.ServerResource {
	return server.ServerResource{Resource: r.resource, Handler: r.Handler}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Estately resources.
	uriScheme = "estately://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cities",
		Name:        "cities",
		Description: "Cities listings can be searched in, and the active city",
		MIMEType:    "application/json",
	}, s.handleCitiesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "favorites",
		Name:        "favorites",
		Description: "IDs of the listings the signed-in user has liked",
		MIMEType:    "application/json",
	}, s.handleFavoritesResource)
}

// handleCitiesResource returns the supported cities.
func (s *Server) handleCitiesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type cityList struct {
		Cities  []string `json:"cities"`
		Current string   `json:"current,omitempty"`
	}

	out := cityList{Cities: []string{}}
	if s.ports.Cities != nil {
		cities, err := s.ports.Cities.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing cities: %w", err)
		}
		for _, c := range cities {
			out.Cities = append(out.Cities, c.Name)
		}
		out.Current = s.ports.Cities.Current(ctx)
	}

	return jsonResource(req.Params.URI, out)
}

// handleFavoritesResource returns the liked property IDs.
func (s *Server) handleFavoritesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ids := []string{}
	if s.ports.Favorites != nil {
		ids = append(ids, s.ports.Favorites.Liked().IDs()...)
	}
	return jsonResource(req.Params.URI, map[string][]string{"property_ids": ids})
}

// jsonResource wraps v as a single JSON resource content.
func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

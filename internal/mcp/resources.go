package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tenderbase/tenderbase/internal/store"
)

func registerStatsResource(s *server.MCPServer, st store.Store, dbPath string) {
	resource := mcp.NewResource(
		"tenderbase://stats",
		"Store Statistics",
		mcp.WithResourceDescription("Row counts for every stored entity type, plus the database location."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("collecting stats: %w", err)
		}

		payload := map[string]interface{}{
			"db_path": dbPath,
			"counts":  stats,
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func registerCompaniesResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"tenderbase://companies",
		"Companies",
		mcp.WithResourceDescription("Names of all stored companies, alphabetically."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		names, err := st.ListCompanies(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing companies: %w", err)
		}
		if names == nil {
			names = []string{}
		}

		payload := map[string]interface{}{
			"companies": names,
			"count":     len(names),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

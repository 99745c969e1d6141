// Package mcp provides a Model Context Protocol server for tenderbase.
//
// It exposes the application-assistant core (fact extraction, field
// suggestions, checklist synthesis, company profiles, stats, document
// search) as MCP tools, and store statistics plus the company list as MCP
// resources. Runs over stdio transport for editor and agent clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tenderbase/tenderbase/internal/checklist"
	"github.com/tenderbase/tenderbase/internal/docindex"
	"github.com/tenderbase/tenderbase/internal/extract"
	"github.com/tenderbase/tenderbase/internal/store"
	"github.com/tenderbase/tenderbase/internal/suggest"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store       store.Store
	DBPath      string // reported by the stats resource
	Version     string // version string for MCP server info
	SearchLimit int    // default result cap for tenderbase_search; 0 falls back to the index default
}

// dbMu serializes all MCP tool calls that touch the database.
// The mcp-go library dispatches handlers concurrently via goroutines.
// SQLite (even with WAL) supports only one writer at a time, and concurrent
// reads during writes can return stale results. A global mutex ensures
// correct ordering: extractions complete before profiles see their data.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all tenderbase tools and
// resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"tenderbase",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	extractor := extract.NewExtractor(cfg.Store)
	matcher := suggest.NewMatcher(cfg.Store)

	// Documents fed through tenderbase_extract stay searchable for the
	// lifetime of this server. The index is in-memory and per-session;
	// document text is never persisted.
	index := docindex.New()

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = store.DefaultDBPath
	}

	// Register tools
	registerExtractTool(s, cfg.Store, extractor, index)
	registerSuggestTool(s, matcher)
	registerChecklistTool(s)
	registerProfileTool(s, cfg.Store)
	registerCompaniesTool(s, cfg.Store)
	registerStatsTool(s, cfg.Store)
	registerSearchTool(s, index, cfg.SearchLimit)

	// Register resources
	registerStatsResource(s, cfg.Store, dbPath)
	registerCompaniesResource(s, cfg.Store)

	return s
}

// --- Tools ---

func registerExtractTool(s *server.MCPServer, st store.Store, ex *extract.Extractor, index *docindex.Index) {
	tool := mcp.NewTool("tenderbase_extract",
		mcp.WithDescription("Extract structured company facts (identifiers, contacts, financials, experience, certifications, insurance) from tender or grant document text and store them against a company. The document text also becomes searchable via tenderbase_search for the rest of the session."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Document text to extract facts from"),
		),
		mcp.WithString("company",
			mcp.Required(),
			mcp.Description("Company the facts belong to; created if it doesn't exist yet"),
		),
		mcp.WithString("name",
			mcp.Description("Document name used as the search index id (defaults to the company name)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}
		if strings.TrimSpace(content) == "" {
			return mcp.NewToolResultError("document content cannot be empty"), nil
		}

		company, err := req.RequireString("company")
		if err != nil || strings.TrimSpace(company) == "" {
			return mcp.NewToolResultError("company is required"), nil
		}
		company = strings.TrimSpace(company)

		companyID, err := st.GetOrCreateCompany(ctx, company)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("resolving company: %v", err)), nil
		}

		summary, err := ex.Extract(ctx, content, companyID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extraction error: %v", err)), nil
		}

		docName := company
		if n, err := req.RequireString("name"); err == nil && strings.TrimSpace(n) != "" {
			docName = strings.TrimSpace(n)
		}
		index.Add(docName, content)

		result := map[string]interface{}{
			"summary":  summary,
			"document": docName,
			"message":  fmt.Sprintf("Extracted facts for %q; document indexed as %q", company, docName),
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerSuggestTool(s *server.MCPServer, matcher *suggest.Matcher) {
	tool := mcp.NewTool("tenderbase_suggest",
		mcp.WithDescription("Suggest stored company values for an application field or question, ranked by confidence. The context selects matching behavior: query answers ad hoc questions with every relevant value, pdf and web resolve a single best value for a form field."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("Field label, form field name, or question to fill"),
		),
		mcp.WithString("company",
			mcp.Required(),
			mcp.Description("Company whose stored profile supplies the values"),
		),
		mcp.WithString("context",
			mcp.Description("Consumption context (default: query)"),
			mcp.Enum("query", "pdf", "web"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		field, err := req.RequireString("field")
		if err != nil {
			return mcp.NewToolResultError("field is required"), nil
		}

		company, err := req.RequireString("company")
		if err != nil {
			return mcp.NewToolResultError("company is required"), nil
		}

		in := suggest.Query
		if ctxStr, err := req.RequireString("context"); err == nil && ctxStr != "" {
			parsed, err := suggest.ParseContext(ctxStr)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid context: %v", err)), nil
			}
			in = parsed
		}

		suggestions, err := matcher.Suggest(ctx, field, company, in)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("suggest error: %v", err)), nil
		}
		if suggestions == nil {
			suggestions = []suggest.Suggestion{}
		}

		data, _ := json.MarshalIndent(suggestions, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerChecklistTool(s *server.MCPServer) {
	tool := mcp.NewTool("tenderbase_checklist",
		mcp.WithDescription("Generate a submission checklist from tender or grant document text: categorized action items, extracted requirements, critical deadlines, and an effort estimate. Pure text analysis; nothing is read from or written to the store."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Document text to analyze"),
		),
	)

	// No dbMu: checklist synthesis never touches the database.
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}
		if strings.TrimSpace(content) == "" {
			return mcp.NewToolResultError("document content cannot be empty"), nil
		}

		cl := checklist.Synthesize(content)
		data, _ := json.MarshalIndent(cl, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerProfileTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("tenderbase_profile",
		mcp.WithDescription("Fetch the full stored profile for a company: identifiers, contacts, active certifications and insurance, latest financials, project experience, team members, and equipment."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("company",
			mcp.Required(),
			mcp.Description("Company name"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		company, err := req.RequireString("company")
		if err != nil {
			return mcp.NewToolResultError("company is required"), nil
		}

		profile, err := st.GetCompanyProfile(ctx, company)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("loading profile: %v", err)), nil
		}
		if profile == nil {
			return mcp.NewToolResultError(fmt.Sprintf("company %q not found", company)), nil
		}

		data, _ := json.MarshalIndent(profile, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerCompaniesTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("tenderbase_companies",
		mcp.WithDescription("List the names of all stored companies, alphabetically."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		names, err := st.ListCompanies(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing companies: %v", err)), nil
		}
		if names == nil {
			names = []string{}
		}

		data, _ := json.MarshalIndent(names, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("tenderbase_stats",
		mcp.WithDescription("Row counts for every stored entity type: companies, contacts, certifications, financial records, insurance policies, experience, team members, equipment, template responses, applications, and bank documents."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("collecting stats: %v", err)), nil
		}

		data, _ := json.MarshalIndent(stats, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerSearchTool(s *server.MCPServer, index *docindex.Index, defaultLimit int) {
	tool := mcp.NewTool("tenderbase_search",
		mcp.WithDescription("TF-IDF search over the documents indexed in this session by tenderbase_extract. Returns scored matches, best first, each with the most relevant snippet."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (max: 50)"),
		),
	)

	// No dbMu: the index carries its own lock and never touches the database.
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		limit := defaultLimit
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			l := int(limitVal)
			if l > 50 {
				l = 50
			}
			if l > 0 {
				limit = l
			}
		}

		results := index.Search(query, limit)
		if results == nil {
			results = []docindex.Result{}
		}

		data, _ := json.MarshalIndent(results, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

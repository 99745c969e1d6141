package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tenderbase/tenderbase/internal/checklist"
	"github.com/tenderbase/tenderbase/internal/docindex"
	"github.com/tenderbase/tenderbase/internal/extract"
	"github.com/tenderbase/tenderbase/internal/store"
	"github.com/tenderbase/tenderbase/internal/suggest"
)

// helper: create a test store with one seeded company
func setupTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewStore(store.StoreConfig{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	ctx := context.Background()
	id, err := s.GetOrCreateCompany(ctx, "Kauri Construction Ltd")
	if err != nil {
		t.Fatalf("seeding company: %v", err)
	}
	if err := s.UpdateCompanyFields(ctx, id, map[string]string{
		"email": "office@kauri.nz",
		"nzbn":  "9429031234567",
	}); err != nil {
		t.Fatalf("seeding company fields: %v", err)
	}

	return s
}

func newTestServer(t *testing.T, s store.Store) *server.MCPServer {
	t.Helper()
	srv := NewServer(ServerConfig{Store: s, DBPath: ":memory:", Version: "test"})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	return srv
}

func TestNewServer(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := NewServer(ServerConfig{Store: s, DBPath: ":memory:"})
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
}

// callTool invokes an MCP tool through the server's JSON-RPC entry point.
func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]interface{}) *mcplib.CallToolResult {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	}))

	// Parse the JSON-RPC response
	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}

	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}

	callResult := &mcplib.CallToolResult{
		IsError: resp.Result.IsError,
	}
	for _, c := range resp.Result.Content {
		if c.Type == "text" {
			callResult.Content = append(callResult.Content, mcplib.NewTextContent(c.Text))
		}
	}

	return callResult
}

// readResource fetches an MCP resource through the server's JSON-RPC entry
// point and returns its text payload.
func readResource(t *testing.T, srv *server.MCPServer, uri string) string {
	t.Helper()

	result := srv.HandleMessage(context.Background(), mustMarshal(t, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "resources/read",
		"params":  map[string]interface{}{"uri": uri},
	}))

	respBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var resp struct {
		Result struct {
			Contents []struct {
				URI      string `json:"uri"`
				MIMEType string `json:"mimeType"`
				Text     string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, string(respBytes))
	}

	if resp.Error != nil {
		t.Fatalf("JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}
	if len(resp.Result.Contents) == 0 {
		t.Fatalf("no contents in resource response for %s", uri)
	}
	return resp.Result.Contents[0].Text
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func getTextContent(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content found")
	return ""
}

func TestExtractTool(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_extract", map[string]interface{}{
		"content": "NZBN: 9429046789012\nEmail: office@totara.nz\nContact person: Mere Kingi\n",
		"company": "Totara Builders Ltd",
		"name":    "tender.txt",
	})

	text := getTextContent(t, result)
	var resp struct {
		Summary  extract.Summary `json:"summary"`
		Document string          `json:"document"`
		Message  string          `json:"message"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("parsing extract result: %v", err)
	}

	if resp.Document != "tender.txt" {
		t.Errorf("expected document tender.txt, got %q", resp.Document)
	}
	if resp.Summary.Contacts != 1 {
		t.Errorf("expected 1 stored contact, got %d", resp.Summary.Contacts)
	}
	wantFields := []string{"email", "nzbn"}
	if len(resp.Summary.CompanyFields) != len(wantFields) {
		t.Fatalf("expected company fields %v, got %v", wantFields, resp.Summary.CompanyFields)
	}
	for i, f := range wantFields {
		if resp.Summary.CompanyFields[i] != f {
			t.Errorf("company field %d: expected %q, got %q", i, f, resp.Summary.CompanyFields[i])
		}
	}
	if !strings.Contains(resp.Message, "Totara Builders Ltd") {
		t.Errorf("expected message to name the company, got %q", resp.Message)
	}

	// The facts should be visible through the profile tool
	profResult := callTool(t, srv, "tenderbase_profile", map[string]interface{}{
		"company": "Totara Builders Ltd",
	})
	var profile store.Profile
	if err := json.Unmarshal([]byte(getTextContent(t, profResult)), &profile); err != nil {
		t.Fatalf("parsing profile: %v", err)
	}
	if profile.Company.NZBN != "9429046789012" {
		t.Errorf("expected extracted NZBN on profile, got %q", profile.Company.NZBN)
	}
	if len(profile.Contacts) != 1 {
		t.Fatalf("expected 1 contact on profile, got %d", len(profile.Contacts))
	}
	if profile.Contacts[0].LastName != "Kingi" {
		t.Errorf("expected contact Kingi, got %q", profile.Contacts[0].LastName)
	}
}

func TestExtractToolDefaultsDocumentToCompany(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_extract", map[string]interface{}{
		"content": "General conditions of tendering apply.",
		"company": "Kauri Construction Ltd",
	})

	var resp struct {
		Document string `json:"document"`
	}
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &resp); err != nil {
		t.Fatalf("parsing extract result: %v", err)
	}
	if resp.Document != "Kauri Construction Ltd" {
		t.Errorf("expected document to default to company name, got %q", resp.Document)
	}
}

func TestExtractToolMissingCompany(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_extract", map[string]interface{}{
		"content": "Some document text without a company",
	})
	if !result.IsError {
		t.Error("expected error for missing company")
	}
}

func TestExtractToolEmptyContent(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_extract", map[string]interface{}{
		"content": "   ",
		"company": "Kauri Construction Ltd",
	})
	if !result.IsError {
		t.Error("expected error for empty content")
	}
}

func TestSuggestTool(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_suggest", map[string]interface{}{
		"field":   "What is your email address?",
		"company": "Kauri Construction Ltd",
	})

	text := getTextContent(t, result)
	var suggestions []suggest.Suggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		t.Fatalf("parsing suggestions: %v", err)
	}

	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d: %v", len(suggestions), suggestions)
	}
	if suggestions[0].Field != "Email" || suggestions[0].Value != "office@kauri.nz" {
		t.Errorf("expected Email suggestion office@kauri.nz, got %+v", suggestions[0])
	}
}

func TestSuggestToolPDFContext(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_suggest", map[string]interface{}{
		"field":   "applicant_name",
		"company": "Kauri Construction Ltd",
		"context": "pdf",
	})

	var suggestions []suggest.Suggestion
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &suggestions); err != nil {
		t.Fatalf("parsing suggestions: %v", err)
	}

	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d: %v", len(suggestions), suggestions)
	}
	if suggestions[0].Value != "Kauri Construction Ltd" {
		t.Errorf("expected company name for applicant_name, got %+v", suggestions[0])
	}
}

func TestSuggestToolUnknownCompany(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_suggest", map[string]interface{}{
		"field":   "What is your email address?",
		"company": "Ghost Ltd",
	})
	if result.IsError {
		t.Fatal("unknown company should yield empty suggestions, not an error")
	}

	var suggestions []suggest.Suggestion
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &suggestions); err != nil {
		t.Fatalf("parsing suggestions: %v", err)
	}
	if len(suggestions) != 0 {
		t.Errorf("expected no suggestions for unknown company, got %v", suggestions)
	}
}

func TestSuggestToolInvalidContext(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_suggest", map[string]interface{}{
		"field":   "email",
		"company": "Kauri Construction Ltd",
		"context": "html",
	})
	if !result.IsError {
		t.Error("expected error for invalid context")
	}
}

func TestChecklistTool(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_checklist", map[string]interface{}{
		"content": "Tender for road maintenance. Submission deadline: 15 March 2025. You must provide audited financial statements.",
	})

	text := getTextContent(t, result)
	var cl checklist.Checklist
	if err := json.Unmarshal([]byte(text), &cl); err != nil {
		t.Fatalf("parsing checklist: %v", err)
	}

	if cl.Summary.RequirementsFound != 1 {
		t.Errorf("expected 1 requirement, got %d", cl.Summary.RequirementsFound)
	}
	if cl.Summary.DocumentType != "Tender" {
		t.Errorf("expected document type Tender, got %q", cl.Summary.DocumentType)
	}
	if len(cl.Deadlines) != 1 {
		t.Fatalf("expected 1 deadline, got %d", len(cl.Deadlines))
	}
	if cl.Deadlines[0].Date != "15 March 2025" {
		t.Errorf("expected deadline date 15 March 2025, got %q", cl.Deadlines[0].Date)
	}
	if cl.Estimate.TotalHours != 16 {
		t.Errorf("expected 16 estimated hours, got %d", cl.Estimate.TotalHours)
	}
	if len(cl.Categories) == 0 {
		t.Error("expected at least one checklist category")
	}
}

func TestChecklistToolEmptyContent(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_checklist", map[string]interface{}{
		"content": "  \n ",
	})
	if !result.IsError {
		t.Error("expected error for empty content")
	}
}

func TestProfileTool(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_profile", map[string]interface{}{
		"company": "Kauri Construction Ltd",
	})

	var profile store.Profile
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &profile); err != nil {
		t.Fatalf("parsing profile: %v", err)
	}
	if profile.Company == nil || profile.Company.Name != "Kauri Construction Ltd" {
		t.Errorf("expected seeded company on profile, got %+v", profile.Company)
	}
	if profile.Company.Email != "office@kauri.nz" {
		t.Errorf("expected seeded email, got %q", profile.Company.Email)
	}
}

func TestProfileToolUnknownCompany(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_profile", map[string]interface{}{
		"company": "Ghost Ltd",
	})
	if !result.IsError {
		t.Error("expected error for unknown company")
	}
}

func TestCompaniesTool(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_companies", map[string]interface{}{})

	var names []string
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &names); err != nil {
		t.Fatalf("parsing companies: %v", err)
	}
	if len(names) != 1 || names[0] != "Kauri Construction Ltd" {
		t.Errorf("expected [Kauri Construction Ltd], got %v", names)
	}
}

func TestStatsTool(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_stats", map[string]interface{}{})

	text := getTextContent(t, result)
	var stats map[string]interface{}
	if err := json.Unmarshal([]byte(text), &stats); err != nil {
		t.Fatalf("parsing stats: %v", err)
	}

	companies := stats["companies"].(float64)
	if companies != 1 {
		t.Errorf("expected 1 company, got %v", companies)
	}
	contacts := stats["contacts"].(float64)
	if contacts != 0 {
		t.Errorf("expected 0 contacts, got %v", contacts)
	}
}

func TestSearchTool(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	// Index two documents through the extract tool
	callTool(t, srv, "tenderbase_extract", map[string]interface{}{
		"content": "The grant covers roading and drainage works across the district.",
		"company": "Kauri Construction Ltd",
		"name":    "roading.txt",
	})
	callTool(t, srv, "tenderbase_extract", map[string]interface{}{
		"content": "Health and safety policy for workshop staff.",
		"company": "Kauri Construction Ltd",
		"name":    "safety.txt",
	})

	result := callTool(t, srv, "tenderbase_search", map[string]interface{}{
		"query": "roading",
	})

	var results []docindex.Result
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &results); err != nil {
		t.Fatalf("parsing search results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 search result, got %d: %v", len(results), results)
	}
	if results[0].DocID != "roading.txt" {
		t.Errorf("expected roading.txt, got %q", results[0].DocID)
	}
	if results[0].Snippet == "" {
		t.Error("expected a non-empty snippet")
	}
}

func TestSearchToolEmptyIndex(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_search", map[string]interface{}{
		"query": "roading",
	})
	if result.IsError {
		t.Fatal("search over an empty index should not error")
	}

	var results []docindex.Result
	if err := json.Unmarshal([]byte(getTextContent(t, result)), &results); err != nil {
		t.Fatalf("parsing search results: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestSearchToolMissingQuery(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	result := callTool(t, srv, "tenderbase_search", map[string]interface{}{})
	if !result.IsError {
		t.Error("expected error for missing query")
	}
}

func TestStatsResource(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	text := readResource(t, srv, "tenderbase://stats")
	var payload struct {
		DBPath string           `json:"db_path"`
		Counts store.StoreStats `json:"counts"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("parsing stats resource: %v", err)
	}
	if payload.DBPath != ":memory:" {
		t.Errorf("expected db_path :memory:, got %q", payload.DBPath)
	}
	if payload.Counts.Companies != 1 {
		t.Errorf("expected 1 company, got %d", payload.Counts.Companies)
	}
}

func TestCompaniesResource(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	srv := newTestServer(t, s)

	text := readResource(t, srv, "tenderbase://companies")
	var payload struct {
		Companies []string `json:"companies"`
		Count     int      `json:"count"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("parsing companies resource: %v", err)
	}
	if payload.Count != 1 || len(payload.Companies) != 1 {
		t.Fatalf("expected 1 company, got %+v", payload)
	}
	if payload.Companies[0] != "Kauri Construction Ltd" {
		t.Errorf("expected Kauri Construction Ltd, got %q", payload.Companies[0])
	}
}

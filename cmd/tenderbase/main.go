package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tenderbase/tenderbase/internal/config"
	"github.com/tenderbase/tenderbase/internal/store"
)

const version = "0.1.0-dev"

// Global flags, stripped from os.Args before command dispatch.
var (
	globalDBPath     string
	globalConfigPath string
	globalCountry    string
)

func main() {
	args := parseGlobalFlags(os.Args[1:])
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch args[0] {
	case "extract":
		err = runExtract(args[1:])
	case "suggest":
		err = runSuggest(args[1:])
	case "checklist":
		err = runChecklist(args[1:])
	case "search":
		err = runSearch(args[1:])
	case "profile":
		err = runProfile(args[1:])
	case "companies":
		err = runCompanies(args[1:])
	case "set":
		err = runSet(args[1:])
	case "costs":
		err = runCosts(args[1:])
	case "bank":
		err = runBank(args[1:])
	case "applications":
		err = runApplications(args[1:])
	case "team":
		err = runTeam(args[1:])
	case "equipment":
		err = runEquipment(args[1:])
	case "responses":
		err = runResponses(args[1:])
	case "stats":
		err = runStats(args[1:])
	case "config":
		err = runConfig(args[1:])
	case "mcp":
		err = runMCP(args[1:])
	case "version", "--version", "-v":
		fmt.Printf("tenderbase %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseGlobalFlags pulls --db, --config and --country out of args and
// returns what's left for the command dispatch.
func parseGlobalFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--db" && i+1 < len(args):
			i++
			globalDBPath = args[i]
		case strings.HasPrefix(args[i], "--db="):
			globalDBPath = strings.TrimPrefix(args[i], "--db=")
		case args[i] == "--config" && i+1 < len(args):
			i++
			globalConfigPath = args[i]
		case strings.HasPrefix(args[i], "--config="):
			globalConfigPath = strings.TrimPrefix(args[i], "--config=")
		case args[i] == "--country" && i+1 < len(args):
			i++
			globalCountry = args[i]
		case strings.HasPrefix(args[i], "--country="):
			globalCountry = strings.TrimPrefix(args[i], "--country=")
		default:
			out = append(out, args[i])
		}
	}
	return out
}

func resolveConfig() (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath: globalConfigPath,
		CLIDBPath:  globalDBPath,
		CLICountry: globalCountry,
	})
}

// openStore resolves configuration and opens the database it points at.
func openStore() (store.Store, config.ResolvedConfig, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, cfg, err
	}
	s, err := store.NewStore(store.StoreConfig{DBPath: cfg.DBPath.Value})
	if err != nil {
		return nil, cfg, fmt.Errorf("opening store: %w", err)
	}
	return s, cfg, nil
}

// ensureCompany resolves a company name to its ID, creating the record
// when absent. Newly created companies pick up the resolved default
// country.
func ensureCompany(ctx context.Context, s store.Store, cfg config.ResolvedConfig, name string) (int64, error) {
	name = strings.TrimSpace(name)
	existing, err := s.GetCompany(ctx, name)
	if err != nil {
		return 0, err
	}
	id, err := s.GetOrCreateCompany(ctx, name)
	if err != nil {
		return 0, err
	}
	if existing == nil && cfg.Country.Value != "" {
		if err := s.UpdateCompanyFields(ctx, id, map[string]string{"country": cfg.Country.Value}); err != nil {
			return 0, fmt.Errorf("setting default country: %w", err)
		}
	}
	return id, nil
}

// readDocument loads document text from path, or from stdin when path is
// "-". The second return is a short name for the document (base name, or
// "stdin").
func readDocument(path string) (string, string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), "stdin", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), filepath.Base(path), nil
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func printUsage() {
	fmt.Printf(`tenderbase %s — grant and tender application assistant

Usage:
  tenderbase [global flags] <command> [arguments]

Commands:
  extract <file|->          Extract company facts from document text (--company)
  suggest <field words>     Suggest stored values for a form field (--company, --context)
  checklist <file|->        Build a submission checklist from document text
  search <query>            Search indexed documents (--index <file>, repeatable)
  profile <company>         Show everything on file for a company
  companies                 List companies
  set <company> k=v ...     Update company fields
  costs <company> [k=v ...] Show or update project cost rates
  bank <company> ...        Bank account details and evidence documents
  applications <company>    List or record grant/tender applications
  team <company>            List or add team members
  equipment <company>       List or add equipment
  responses <company>       Reusable answer snippets: add, find, use
  stats                     Show database row counts
  config                    Show resolved configuration with provenance
  mcp                       Serve the MCP stdio interface
  version                   Print version

Global Flags:
      --db <path>           Database path (env TENDERBASE_DB)
      --config <path>       Config file (default ~/.tenderbase/config.yaml)
      --country <name>      Default country for new companies
  -h, --help                Show this help message
  -v, --version             Print version

Most commands accept --format json|table|list (default: table on a
terminal, json otherwise).
`, version)
}

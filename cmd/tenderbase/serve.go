package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tenderbase/tenderbase/internal/config"
	"github.com/tenderbase/tenderbase/internal/mcp"
	"github.com/tenderbase/tenderbase/internal/store"
)

// runMCP serves the MCP interface over stdio until the client hangs up.
func runMCP(args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return fmt.Errorf("unknown flag: %s", arg)
		}
		return fmt.Errorf("unexpected argument: %s", arg)
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	s, err := store.NewStore(store.StoreConfig{DBPath: cfg.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	srv := mcp.NewServer(mcp.ServerConfig{
		Store:       s,
		DBPath:      cfg.DBPath.Value,
		Version:     version,
		SearchLimit: cfg.EffectiveSearchLimit(),
	})
	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

func runStats(args []string) error {
	var format string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	if format == "" {
		if isTTY() {
			format = "table"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "table":
		fmt.Printf("Database: %s\n\n", cfg.DBPath.Value)
		fmt.Printf("  %-20s %d\n", "companies", stats.Companies)
		fmt.Printf("  %-20s %d\n", "contacts", stats.Contacts)
		fmt.Printf("  %-20s %d\n", "certifications", stats.Certifications)
		fmt.Printf("  %-20s %d\n", "financial records", stats.FinancialRecords)
		fmt.Printf("  %-20s %d\n", "insurance policies", stats.InsurancePolicies)
		fmt.Printf("  %-20s %d\n", "experience records", stats.ExperienceRecords)
		fmt.Printf("  %-20s %d\n", "team members", stats.TeamMembers)
		fmt.Printf("  %-20s %d\n", "equipment", stats.Equipment)
		fmt.Printf("  %-20s %d\n", "template responses", stats.TemplateResponses)
		fmt.Printf("  %-20s %d\n", "applications", stats.Applications)
		fmt.Printf("  %-20s %d\n", "bank documents", stats.BankDocuments)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func runConfig(args []string) error {
	var format string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if format == "" {
		if isTTY() {
			format = "table"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "table":
		fmt.Printf("Config file: %s\n\n", cfg.ConfigPath)
		fmt.Printf("%-14s %-40s %-8s %s\n", "SETTING", "VALUE", "SOURCE", "FROM")
		printResolved("db_path", cfg.DBPath)
		printResolved("country", cfg.Country)
		printResolved("search_limit", cfg.SearchLimit)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func printResolved(name string, v config.ResolvedValue) {
	fmt.Printf("%-14s %-40s %-8s %s\n", name, v.Value, v.Source, v.From)
}

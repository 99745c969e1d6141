package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tenderbase/tenderbase/internal/docindex"
)

func runSearch(args []string) error {
	var indexPaths, queryParts []string
	var format string
	limit := 0

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--index" && i+1 < len(args):
			i++
			indexPaths = append(indexPaths, args[i])
		case strings.HasPrefix(args[i], "--index="):
			indexPaths = append(indexPaths, strings.TrimPrefix(args[i], "--index="))
		case args[i] == "--limit" && i+1 < len(args):
			i++
			fmt.Sscanf(args[i], "%d", &limit)
		case strings.HasPrefix(args[i], "--limit="):
			fmt.Sscanf(strings.TrimPrefix(args[i], "--limit="), "%d", &limit)
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			queryParts = append(queryParts, args[i])
		}
	}

	query := strings.TrimSpace(strings.Join(queryParts, " "))
	if query == "" || len(indexPaths) == 0 {
		return fmt.Errorf("usage: tenderbase search <query> --index <file> [--index <file> ...] [--limit N] [--format json|list]")
	}

	idx := docindex.New()
	for _, p := range indexPaths {
		text, name, err := readDocument(p)
		if err != nil {
			return err
		}
		idx.Add(name, text)
	}

	if limit <= 0 {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		limit = cfg.EffectiveSearchLimit()
	}

	results := idx.Search(query, limit)
	if results == nil {
		results = []docindex.Result{}
	}

	if format == "" {
		if isTTY() {
			format = "list"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "list":
		for _, r := range results {
			fmt.Printf("- %-24s %.3f  %s\n", r.DocID, r.Score, r.Snippet)
		}
		fmt.Printf("\n%d results\n", len(results))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, list)", format)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tenderbase/tenderbase/internal/suggest"
)

func runSuggest(args []string) error {
	var company, contextName, format string
	var fieldParts []string
	limit := 0

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--company" && i+1 < len(args):
			i++
			company = args[i]
		case strings.HasPrefix(args[i], "--company="):
			company = strings.TrimPrefix(args[i], "--company=")
		case args[i] == "--context" && i+1 < len(args):
			i++
			contextName = args[i]
		case strings.HasPrefix(args[i], "--context="):
			contextName = strings.TrimPrefix(args[i], "--context=")
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
			fieldParts = append(fieldParts, args[i])
		}
	}

	field := strings.TrimSpace(strings.Join(fieldParts, " "))
	if field == "" || strings.TrimSpace(company) == "" {
		return fmt.Errorf("usage: tenderbase suggest <field words> --company <name> [--context query|pdf|web] [--limit N] [--format json|list]")
	}

	sctx, err := suggest.ParseContext(contextName)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	suggestions, err := suggest.NewMatcher(s).Suggest(context.Background(), field, company, sctx)
	if err != nil {
		return fmt.Errorf("matching suggestions: %w", err)
	}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
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
		return enc.Encode(suggestions)
	case "list":
		for _, sg := range suggestions {
			fmt.Printf("- %-22s %.2f  %s\n", sg.Field, sg.Confidence, sg.Value)
		}
		fmt.Printf("\n%d suggestions\n", len(suggestions))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, list)", format)
	}
}

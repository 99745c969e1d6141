package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tenderbase/tenderbase/internal/extract"
)

func runExtract(args []string) error {
	var company, path, format string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--company" && i+1 < len(args):
			i++
			company = args[i]
		case strings.HasPrefix(args[i], "--company="):
			company = strings.TrimPrefix(args[i], "--company=")
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case args[i] == "-":
			path = args[i]
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			if path != "" {
				return fmt.Errorf("unexpected argument: %s", args[i])
			}
			path = args[i]
		}
	}

	if path == "" || strings.TrimSpace(company) == "" {
		return fmt.Errorf("usage: tenderbase extract <file|-> --company <name> [--format json|text]")
	}

	text, _, err := readDocument(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("document is empty")
	}

	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	id, err := ensureCompany(ctx, s, cfg, company)
	if err != nil {
		return err
	}

	summary, err := extract.NewExtractor(s).Extract(ctx, text, id)
	if err != nil {
		return fmt.Errorf("extracting facts: %w", err)
	}

	if format == "" {
		if isTTY() {
			format = "text"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "text":
		fmt.Printf("Extracted facts for %s\n\n", strings.TrimSpace(company))
		if summary.OCRContent {
			fmt.Println("  note: OCR-extracted source text, lower fidelity")
		}
		if len(summary.CompanyFields) > 0 {
			fmt.Printf("  Company fields:  %s\n", strings.Join(summary.CompanyFields, ", "))
		}
		fmt.Printf("  Contacts:        %d\n", summary.Contacts)
		fmt.Printf("  Financials:      %d\n", summary.Financials)
		fmt.Printf("  Experience:      %d\n", summary.Experience)
		fmt.Printf("  Certifications:  %d\n", summary.Certifications)
		fmt.Printf("  Insurance:       %d\n", summary.Insurance)
		for _, e := range summary.Errors {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", e)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, text)", format)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tenderbase/tenderbase/internal/checklist"
)

func runChecklist(args []string) error {
	var path, format, output string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case args[i] == "--output" && i+1 < len(args):
			i++
			output = args[i]
		case strings.HasPrefix(args[i], "--output="):
			output = strings.TrimPrefix(args[i], "--output=")
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

	if path == "" {
		return fmt.Errorf("usage: tenderbase checklist <file|-> [--format json|yaml|table] [--output <file>]")
	}

	text, _, err := readDocument(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("document is empty")
	}

	cl := checklist.Synthesize(text)

	if format == "" {
		if output != "" || !isTTY() {
			format = "json"
		} else {
			format = "table"
		}
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(cl, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(cl)
	case "table":
		if output != "" {
			return fmt.Errorf("table format cannot be written to a file (use json or yaml)")
		}
		printChecklist(cl)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, yaml, table)", format)
	}
	if err != nil {
		return fmt.Errorf("encoding checklist: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("Wrote checklist to %s\n", output)
		return nil
	}
	fmt.Printf("%s\n", data)
	return nil
}

func printChecklist(cl *checklist.Checklist) {
	fmt.Printf("%s — %s\n", cl.Title, cl.Summary.DocumentType)
	fmt.Printf("Words: %d   Sentences: %d   Complexity: %.2f   Requirements: %d\n",
		cl.Summary.WordCount, cl.Summary.SentenceCount, cl.Summary.ComplexityScore, cl.Summary.RequirementsFound)
	if cl.Summary.IsOCRContent {
		fmt.Println("Note: OCR-extracted source text, lower fidelity")
	}

	if len(cl.Deadlines) > 0 {
		fmt.Println("\nDeadlines:")
		for _, d := range cl.Deadlines {
			fmt.Printf("  - %s: %s (%s)\n", d.Type, d.Date, d.Context)
		}
	}

	// Map iteration order is random; keep the output stable.
	names := make([]string, 0, len(cl.Categories))
	for name := range cl.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cat := cl.Categories[name]
		fmt.Printf("\n%s [%s]  (%d/%d done)\n", name, cat.Priority, cat.Completed, cat.Total)
		for _, item := range cat.Items {
			mark := " "
			if item.Completed {
				mark = "x"
			}
			fmt.Printf("  [%s] %-10s %s (%dh)\n", mark, item.ID, item.Text, item.EstimatedHours)
		}
	}

	fmt.Printf("\nEstimated effort: %d hours (~%d days)\n", cl.Estimate.TotalHours, cl.Estimate.EstimatedDays)
}

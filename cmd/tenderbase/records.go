package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

// lookupCompany resolves an existing company or fails. Commands that only
// read use this; commands that write go through ensureCompany.
func lookupCompany(ctx context.Context, s store.Store, name string) (*store.Company, error) {
	c, err := s.GetCompany(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("company %q not found", name)
	}
	return c, nil
}

func parseMoney(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(raw))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ==================== costs ====================

func runCosts(args []string) error {
	usage := "usage: tenderbase costs <company> [<field>=<value> ...] [--format json|table]"
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%s", usage)
	}
	company := args[0]

	var format string
	fields := make(map[string]string)
	for i := 1; i < len(args); i++ {
		switch {
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		case strings.Contains(args[i], "="):
			k, v, _ := strings.Cut(args[i], "=")
			k = strings.ToLower(strings.TrimSpace(k))
			if !isCostField(k) {
				return fmt.Errorf("unknown cost field %q (see: tenderbase help)", k)
			}
			fields[k] = v
		default:
			return fmt.Errorf("unexpected argument: %s (quote multi-word company names)", args[i])
		}
	}

	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	if len(fields) > 0 {
		id, err := ensureCompany(ctx, s, cfg, company)
		if err != nil {
			return err
		}
		if err := s.UpdateProjectCosts(ctx, id, fields); err != nil {
			return fmt.Errorf("updating project costs: %w", err)
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Printf("Updated %s costs: %s\n", company, strings.Join(keys, ", "))
		return nil
	}

	c, err := lookupCompany(ctx, s, company)
	if err != nil {
		return err
	}
	costs, err := s.GetProjectCosts(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("loading project costs: %w", err)
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
		return enc.Encode(costs)
	case "table":
		n := 0
		for _, col := range store.CostColumns {
			if v := costs[col]; v != "" {
				fmt.Printf("  %-30s %s\n", col, v)
				n++
			}
		}
		fmt.Printf("\n%d of %d cost fields on file\n", n, len(store.CostColumns))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func isCostField(key string) bool {
	for _, col := range store.CostColumns {
		if key == col {
			return true
		}
	}
	return false
}

// ==================== bank ====================

func runBank(args []string) error {
	usage := "usage: tenderbase bank <company> [set --bank <name> --account-name <name> --account-number <number> [--statement <path>]\n" +
		"                                | add-doc <file-name> [--type <type>] [--path <path>] [--size <bytes>] [--description <text>]\n" +
		"                                | delete-doc <id>]"
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%s", usage)
	}
	company := args[0]
	rest := args[1:]

	if len(rest) > 0 {
		switch rest[0] {
		case "set":
			return setBankAccount(company, rest[1:])
		case "add-doc":
			return addBankDocument(company, rest[1:])
		case "delete-doc":
			return deleteBankDocument(company, rest[1:])
		default:
			if !strings.HasPrefix(rest[0], "-") {
				return fmt.Errorf("unknown bank action: %s", rest[0])
			}
		}
	}

	var format string
	for i := 0; i < len(rest); i++ {
		switch {
		case rest[i] == "--format" && i+1 < len(rest):
			i++
			format = strings.ToLower(strings.TrimSpace(rest[i]))
		case strings.HasPrefix(rest[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(rest[i], "--format=")))
		default:
			return fmt.Errorf("unknown flag: %s", rest[i])
		}
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	c, err := lookupCompany(ctx, s, company)
	if err != nil {
		return err
	}
	acct, err := s.GetBankAccount(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("loading bank account: %w", err)
	}
	docs, err := s.ListBankDocuments(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("listing bank documents: %w", err)
	}
	if docs == nil {
		docs = []*store.BankDocument{}
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
		return enc.Encode(struct {
			Account   *store.BankAccount    `json:"account"`
			Documents []*store.BankDocument `json:"documents"`
		}{acct, docs})
	case "table":
		if acct == nil || *acct == (store.BankAccount{}) {
			fmt.Println("No bank account on file")
		} else {
			printField("Bank", acct.BankName)
			printField("Account name", acct.AccountName)
			printField("Account number", acct.AccountNumber)
			printField("Statement", acct.StatementPath)
		}
		if len(docs) > 0 {
			fmt.Printf("\nDocuments (%d):\n", len(docs))
			for _, d := range docs {
				fmt.Printf("  - #%d %s", d.ID, d.FileName)
				if d.DocumentType != "" {
					fmt.Printf(" [%s]", d.DocumentType)
				}
				if d.FileSize > 0 {
					fmt.Printf(" (%d bytes)", d.FileSize)
				}
				fmt.Println()
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func setBankAccount(company string, args []string) error {
	var acct store.BankAccount

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--bank" && i+1 < len(args):
			i++
			acct.BankName = args[i]
		case strings.HasPrefix(args[i], "--bank="):
			acct.BankName = strings.TrimPrefix(args[i], "--bank=")
		case args[i] == "--account-name" && i+1 < len(args):
			i++
			acct.AccountName = args[i]
		case strings.HasPrefix(args[i], "--account-name="):
			acct.AccountName = strings.TrimPrefix(args[i], "--account-name=")
		case args[i] == "--account-number" && i+1 < len(args):
			i++
			acct.AccountNumber = args[i]
		case strings.HasPrefix(args[i], "--account-number="):
			acct.AccountNumber = strings.TrimPrefix(args[i], "--account-number=")
		case args[i] == "--statement" && i+1 < len(args):
			i++
			acct.StatementPath = args[i]
		case strings.HasPrefix(args[i], "--statement="):
			acct.StatementPath = strings.TrimPrefix(args[i], "--statement=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	if acct.BankName == "" || acct.AccountName == "" || acct.AccountNumber == "" {
		return fmt.Errorf("usage: tenderbase bank <company> set --bank <name> --account-name <name> --account-number <number> [--statement <path>]")
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
	if err := s.UpdateBankAccount(ctx, id, acct); err != nil {
		return fmt.Errorf("updating bank account: %w", err)
	}
	fmt.Printf("Updated bank account for %s\n", company)
	return nil
}

func addBankDocument(company string, args []string) error {
	doc := store.BankDocument{DocumentType: "bank_statement"}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--type" && i+1 < len(args):
			i++
			doc.DocumentType = args[i]
		case strings.HasPrefix(args[i], "--type="):
			doc.DocumentType = strings.TrimPrefix(args[i], "--type=")
		case args[i] == "--path" && i+1 < len(args):
			i++
			doc.FilePath = args[i]
		case strings.HasPrefix(args[i], "--path="):
			doc.FilePath = strings.TrimPrefix(args[i], "--path=")
		case args[i] == "--size" && i+1 < len(args):
			i++
			fmt.Sscanf(args[i], "%d", &doc.FileSize)
		case strings.HasPrefix(args[i], "--size="):
			fmt.Sscanf(strings.TrimPrefix(args[i], "--size="), "%d", &doc.FileSize)
		case args[i] == "--description" && i+1 < len(args):
			i++
			doc.Description = args[i]
		case strings.HasPrefix(args[i], "--description="):
			doc.Description = strings.TrimPrefix(args[i], "--description=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			if doc.FileName != "" {
				return fmt.Errorf("unexpected argument: %s", args[i])
			}
			doc.FileName = args[i]
		}
	}

	if doc.FileName == "" {
		return fmt.Errorf("usage: tenderbase bank <company> add-doc <file-name> [--type <type>] [--path <path>] [--size <bytes>] [--description <text>]")
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
	doc.CompanyID = id
	docID, err := s.AddBankDocument(ctx, &doc)
	if err != nil {
		return fmt.Errorf("adding bank document: %w", err)
	}
	fmt.Printf("Added bank document #%d (%s)\n", docID, doc.FileName)
	return nil
}

func deleteBankDocument(company string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tenderbase bank <company> delete-doc <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id: %s", args[0])
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	if _, err := lookupCompany(ctx, s, company); err != nil {
		return err
	}
	if err := s.DeleteBankDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting bank document: %w", err)
	}
	fmt.Printf("Deleted bank document #%d\n", id)
	return nil
}

// ==================== applications ====================

func runApplications(args []string) error {
	usage := "usage: tenderbase applications <company> [add --title <title> [--type <type>] [--org <name>] [--date <date>] [--status <status>] [--value <amount>] [--document <path>] [--notes <text>]]"
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%s", usage)
	}
	company := args[0]
	rest := args[1:]

	if len(rest) > 0 && rest[0] == "add" {
		return addApplication(company, rest[1:])
	}

	format, err := parseListFlags(rest)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	c, err := lookupCompany(ctx, s, company)
	if err != nil {
		return err
	}
	apps, err := s.ListApplications(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("listing applications: %w", err)
	}
	if apps == nil {
		apps = []*store.Application{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(apps)
	case "table":
		fmt.Printf("%-4s %-10s %-32s %-24s %s\n", "ID", "TYPE", "TITLE", "ORGANIZATION", "STATUS")
		for _, a := range apps {
			title := a.Title
			if len(title) > 32 {
				title = title[:31] + "…"
			}
			org := a.Organization
			if len(org) > 24 {
				org = org[:23] + "…"
			}
			fmt.Printf("%-4d %-10s %-32s %-24s %s\n", a.ID, a.ApplicationType, title, org, a.Status)
		}
		fmt.Printf("\n%d applications\n", len(apps))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

// parseListFlags handles the flag set shared by the plain list commands:
// --format only. Returns the resolved format.
func parseListFlags(args []string) (string, error) {
	format := ""
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case strings.HasPrefix(args[i], "-"):
			return "", fmt.Errorf("unknown flag: %s", args[i])
		default:
			return "", fmt.Errorf("unexpected argument: %s (quote multi-word company names)", args[i])
		}
	}
	if format == "" {
		if isTTY() {
			format = "table"
		} else {
			format = "json"
		}
	}
	return format, nil
}

func addApplication(company string, args []string) error {
	app := store.Application{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--title" && i+1 < len(args):
			i++
			app.Title = args[i]
		case strings.HasPrefix(args[i], "--title="):
			app.Title = strings.TrimPrefix(args[i], "--title=")
		case args[i] == "--type" && i+1 < len(args):
			i++
			app.ApplicationType = args[i]
		case strings.HasPrefix(args[i], "--type="):
			app.ApplicationType = strings.TrimPrefix(args[i], "--type=")
		case args[i] == "--org" && i+1 < len(args):
			i++
			app.Organization = args[i]
		case strings.HasPrefix(args[i], "--org="):
			app.Organization = strings.TrimPrefix(args[i], "--org=")
		case args[i] == "--date" && i+1 < len(args):
			i++
			app.SubmissionDate = args[i]
		case strings.HasPrefix(args[i], "--date="):
			app.SubmissionDate = strings.TrimPrefix(args[i], "--date=")
		case args[i] == "--status" && i+1 < len(args):
			i++
			app.Status = args[i]
		case strings.HasPrefix(args[i], "--status="):
			app.Status = strings.TrimPrefix(args[i], "--status=")
		case args[i] == "--value" && i+1 < len(args):
			i++
			v, err := parseMoney(args[i])
			if err != nil {
				return err
			}
			app.Value = v
		case strings.HasPrefix(args[i], "--value="):
			v, err := parseMoney(strings.TrimPrefix(args[i], "--value="))
			if err != nil {
				return err
			}
			app.Value = v
		case args[i] == "--document" && i+1 < len(args):
			i++
			app.DocumentPath = args[i]
		case strings.HasPrefix(args[i], "--document="):
			app.DocumentPath = strings.TrimPrefix(args[i], "--document=")
		case args[i] == "--notes" && i+1 < len(args):
			i++
			app.Notes = args[i]
		case strings.HasPrefix(args[i], "--notes="):
			app.Notes = strings.TrimPrefix(args[i], "--notes=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	if strings.TrimSpace(app.Title) == "" {
		return fmt.Errorf("usage: tenderbase applications <company> add --title <title> [--type <type>] [--org <name>] [--date <date>] [--status <status>] [--value <amount>] [--document <path>] [--notes <text>]")
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
	app.CompanyID = id
	appID, err := s.AddApplication(ctx, &app)
	if err != nil {
		return fmt.Errorf("adding application: %w", err)
	}
	fmt.Printf("Added application #%d (%s)\n", appID, app.Title)
	return nil
}

// ==================== team ====================

func runTeam(args []string) error {
	usage := "usage: tenderbase team <company> [add --first <name> [--last <name>] [--role <role>] [--years <n>] [--qualifications <a,b>] [--specializations <a,b>] [--cv <path>]]"
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%s", usage)
	}
	company := args[0]
	rest := args[1:]

	if len(rest) > 0 && rest[0] == "add" {
		return addTeamMember(company, rest[1:])
	}

	format, err := parseListFlags(rest)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	c, err := lookupCompany(ctx, s, company)
	if err != nil {
		return err
	}
	members, err := s.ListTeamMembers(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("listing team members: %w", err)
	}
	if members == nil {
		members = []*store.TeamMember{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(members)
	case "table":
		fmt.Printf("%-4s %-24s %-20s %-6s %s\n", "ID", "NAME", "ROLE", "YEARS", "QUALIFICATIONS")
		for _, m := range members {
			name := strings.TrimSpace(m.FirstName + " " + m.LastName)
			if len(name) > 24 {
				name = name[:23] + "…"
			}
			fmt.Printf("%-4d %-24s %-20s %-6d %s\n", m.ID, name, m.Role, m.ExperienceYears, strings.Join(m.Qualifications, ", "))
		}
		fmt.Printf("\n%d team members\n", len(members))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func addTeamMember(company string, args []string) error {
	m := store.TeamMember{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--first" && i+1 < len(args):
			i++
			m.FirstName = args[i]
		case strings.HasPrefix(args[i], "--first="):
			m.FirstName = strings.TrimPrefix(args[i], "--first=")
		case args[i] == "--last" && i+1 < len(args):
			i++
			m.LastName = args[i]
		case strings.HasPrefix(args[i], "--last="):
			m.LastName = strings.TrimPrefix(args[i], "--last=")
		case args[i] == "--role" && i+1 < len(args):
			i++
			m.Role = args[i]
		case strings.HasPrefix(args[i], "--role="):
			m.Role = strings.TrimPrefix(args[i], "--role=")
		case args[i] == "--years" && i+1 < len(args):
			i++
			fmt.Sscanf(args[i], "%d", &m.ExperienceYears)
		case strings.HasPrefix(args[i], "--years="):
			fmt.Sscanf(strings.TrimPrefix(args[i], "--years="), "%d", &m.ExperienceYears)
		case args[i] == "--qualifications" && i+1 < len(args):
			i++
			m.Qualifications = splitCSV(args[i])
		case strings.HasPrefix(args[i], "--qualifications="):
			m.Qualifications = splitCSV(strings.TrimPrefix(args[i], "--qualifications="))
		case args[i] == "--specializations" && i+1 < len(args):
			i++
			m.Specializations = splitCSV(args[i])
		case strings.HasPrefix(args[i], "--specializations="):
			m.Specializations = splitCSV(strings.TrimPrefix(args[i], "--specializations="))
		case args[i] == "--cv" && i+1 < len(args):
			i++
			m.CVPath = args[i]
		case strings.HasPrefix(args[i], "--cv="):
			m.CVPath = strings.TrimPrefix(args[i], "--cv=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	if strings.TrimSpace(m.FirstName) == "" {
		return fmt.Errorf("usage: tenderbase team <company> add --first <name> [--last <name>] [--role <role>] [--years <n>] [--qualifications <a,b>] [--specializations <a,b>] [--cv <path>]")
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
	m.CompanyID = id
	memberID, err := s.AddTeamMember(ctx, &m)
	if err != nil {
		return fmt.Errorf("adding team member: %w", err)
	}
	fmt.Printf("Added team member #%d (%s)\n", memberID, strings.TrimSpace(m.FirstName+" "+m.LastName))
	return nil
}

// ==================== equipment ====================

func runEquipment(args []string) error {
	usage := "usage: tenderbase equipment <company> [add --name <name> [--type <type>] [--model <model>] [--capacity <c>] [--condition <c>] [--purchased <date>] [--value <amount>] [--location <l>] [--availability <a>]]"
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%s", usage)
	}
	company := args[0]
	rest := args[1:]

	if len(rest) > 0 && rest[0] == "add" {
		return addEquipment(company, rest[1:])
	}

	format, err := parseListFlags(rest)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	c, err := lookupCompany(ctx, s, company)
	if err != nil {
		return err
	}
	items, err := s.ListEquipment(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("listing equipment: %w", err)
	}
	if items == nil {
		items = []*store.EquipmentItem{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "table":
		fmt.Printf("%-4s %-28s %-12s %-10s %s\n", "ID", "NAME", "TYPE", "CONDITION", "AVAILABILITY")
		for _, e := range items {
			name := e.Name
			if len(name) > 28 {
				name = name[:27] + "…"
			}
			fmt.Printf("%-4d %-28s %-12s %-10s %s\n", e.ID, name, e.EquipmentType, e.Condition, e.Availability)
		}
		fmt.Printf("\n%d equipment items\n", len(items))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func addEquipment(company string, args []string) error {
	e := store.EquipmentItem{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--name" && i+1 < len(args):
			i++
			e.Name = args[i]
		case strings.HasPrefix(args[i], "--name="):
			e.Name = strings.TrimPrefix(args[i], "--name=")
		case args[i] == "--type" && i+1 < len(args):
			i++
			e.EquipmentType = args[i]
		case strings.HasPrefix(args[i], "--type="):
			e.EquipmentType = strings.TrimPrefix(args[i], "--type=")
		case args[i] == "--model" && i+1 < len(args):
			i++
			e.Model = args[i]
		case strings.HasPrefix(args[i], "--model="):
			e.Model = strings.TrimPrefix(args[i], "--model=")
		case args[i] == "--capacity" && i+1 < len(args):
			i++
			e.Capacity = args[i]
		case strings.HasPrefix(args[i], "--capacity="):
			e.Capacity = strings.TrimPrefix(args[i], "--capacity=")
		case args[i] == "--condition" && i+1 < len(args):
			i++
			e.Condition = args[i]
		case strings.HasPrefix(args[i], "--condition="):
			e.Condition = strings.TrimPrefix(args[i], "--condition=")
		case args[i] == "--purchased" && i+1 < len(args):
			i++
			e.PurchaseDate = args[i]
		case strings.HasPrefix(args[i], "--purchased="):
			e.PurchaseDate = strings.TrimPrefix(args[i], "--purchased=")
		case args[i] == "--value" && i+1 < len(args):
			i++
			v, err := parseMoney(args[i])
			if err != nil {
				return err
			}
			e.Value = v
		case strings.HasPrefix(args[i], "--value="):
			v, err := parseMoney(strings.TrimPrefix(args[i], "--value="))
			if err != nil {
				return err
			}
			e.Value = v
		case args[i] == "--location" && i+1 < len(args):
			i++
			e.Location = args[i]
		case strings.HasPrefix(args[i], "--location="):
			e.Location = strings.TrimPrefix(args[i], "--location=")
		case args[i] == "--availability" && i+1 < len(args):
			i++
			e.Availability = args[i]
		case strings.HasPrefix(args[i], "--availability="):
			e.Availability = strings.TrimPrefix(args[i], "--availability=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("usage: tenderbase equipment <company> add --name <name> [--type <type>] [--model <model>] [--capacity <c>] [--condition <c>] [--purchased <date>] [--value <amount>] [--location <l>] [--availability <a>]")
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
	e.CompanyID = id
	itemID, err := s.AddEquipment(ctx, &e)
	if err != nil {
		return fmt.Errorf("adding equipment: %w", err)
	}
	fmt.Printf("Added equipment #%d (%s)\n", itemID, e.Name)
	return nil
}

// ==================== responses ====================

func runResponses(args []string) error {
	usage := "usage: tenderbase responses <company> [add --keywords <a,b> --response <text> [--category <c>] | find <question words> | use <id>]"
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("%s", usage)
	}
	company := args[0]
	rest := args[1:]

	if len(rest) > 0 {
		switch rest[0] {
		case "add":
			return addResponse(company, rest[1:])
		case "find":
			return findResponses(company, rest[1:])
		case "use":
			return useResponse(company, rest[1:])
		default:
			if !strings.HasPrefix(rest[0], "-") {
				return fmt.Errorf("unknown responses action: %s", rest[0])
			}
		}
	}

	format, err := parseListFlags(rest)
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	c, err := lookupCompany(ctx, s, company)
	if err != nil {
		return err
	}
	list, err := s.ListTemplateResponses(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("listing responses: %w", err)
	}
	if list == nil {
		list = []*store.TemplateResponse{}
	}
	return printResponses(list, format)
}

func printResponses(list []*store.TemplateResponse, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case "table":
		for _, r := range list {
			resp := r.Response
			if len(resp) > 60 {
				resp = resp[:59] + "…"
			}
			line := fmt.Sprintf("- #%d", r.ID)
			if r.Category != "" {
				line += " [" + r.Category + "]"
			}
			fmt.Printf("%s (used %d) %s\n", line, r.UsageCount, resp)
			fmt.Printf("    keywords: %s\n", r.Keywords)
		}
		fmt.Printf("\n%d responses\n", len(list))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func addResponse(company string, args []string) error {
	r := store.TemplateResponse{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--keywords" && i+1 < len(args):
			i++
			r.Keywords = args[i]
		case strings.HasPrefix(args[i], "--keywords="):
			r.Keywords = strings.TrimPrefix(args[i], "--keywords=")
		case args[i] == "--response" && i+1 < len(args):
			i++
			r.Response = args[i]
		case strings.HasPrefix(args[i], "--response="):
			r.Response = strings.TrimPrefix(args[i], "--response=")
		case args[i] == "--category" && i+1 < len(args):
			i++
			r.Category = args[i]
		case strings.HasPrefix(args[i], "--category="):
			r.Category = strings.TrimPrefix(args[i], "--category=")
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	if strings.TrimSpace(r.Keywords) == "" || strings.TrimSpace(r.Response) == "" {
		return fmt.Errorf("usage: tenderbase responses <company> add --keywords <a,b> --response <text> [--category <c>]")
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
	r.CompanyID = id
	respID, err := s.SaveTemplateResponse(ctx, &r)
	if err != nil {
		return fmt.Errorf("saving response: %w", err)
	}
	fmt.Printf("Saved response #%d\n", respID)
	return nil
}

func findResponses(company string, args []string) error {
	var questionParts []string
	format := ""
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
			questionParts = append(questionParts, args[i])
		}
	}

	question := strings.TrimSpace(strings.Join(questionParts, " "))
	if question == "" {
		return fmt.Errorf("usage: tenderbase responses <company> find <question words> [--format json|table]")
	}
	if format == "" {
		if isTTY() {
			format = "table"
		} else {
			format = "json"
		}
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	c, err := lookupCompany(ctx, s, company)
	if err != nil {
		return err
	}
	matches, err := s.FindTemplateResponses(ctx, c.ID, question)
	if err != nil {
		return fmt.Errorf("finding responses: %w", err)
	}
	if matches == nil {
		matches = []*store.TemplateResponse{}
	}
	return printResponses(matches, format)
}

func useResponse(company string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tenderbase responses <company> use <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid response id: %s", args[0])
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	if _, err := lookupCompany(ctx, s, company); err != nil {
		return err
	}
	if err := s.TouchTemplateResponse(ctx, id); err != nil {
		return fmt.Errorf("recording use: %w", err)
	}
	fmt.Printf("Marked response #%d used\n", id)
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

func runProfile(args []string) error {
	var company, format string

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
			if company != "" {
				return fmt.Errorf("unexpected argument: %s (quote multi-word company names)", args[i])
			}
			company = args[i]
		}
	}

	if company == "" {
		return fmt.Errorf("usage: tenderbase profile <company> [--format json|table]")
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.GetCompanyProfile(context.Background(), company)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("company %q not found", company)
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
		return enc.Encode(p)
	case "table":
		printProfile(p)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func printProfile(p *store.Profile) {
	c := p.Company
	fmt.Printf("%s (#%d)\n", c.Name, c.ID)
	printField("NZBN", c.NZBN)
	printField("ABN", c.ABN)
	printField("ACN", c.ACN)
	printField("Company number", c.CompanyNumber)
	printField("Charity number", c.CharityNumber)
	printField("GST number", c.GSTNumber)
	printField("Business address", c.BusinessAddress)
	printField("Postal address", c.PostalAddress)
	printField("Phone", c.Phone)
	printField("Email", c.Email)
	printField("Website", c.Website)
	printField("Established", c.EstablishedDate)
	printField("Employees", c.EmployeesCount)
	printField("Business type", c.BusinessType)
	printField("Industry", c.IndustrySector)
	printField("Country", c.Country)
	if c.BankName != "" || c.BankAccountNumber != "" {
		printField("Bank", strings.TrimSpace(c.BankName+" "+c.BankAccountNumber))
	}

	if len(p.Contacts) > 0 {
		fmt.Printf("\nContacts (%d):\n", len(p.Contacts))
		for _, ct := range p.Contacts {
			line := strings.TrimSpace(ct.FirstName + " " + ct.LastName)
			if ct.Role != "" {
				line += " (" + ct.Role + ")"
			}
			if ct.Email != "" {
				line += " " + ct.Email
			}
			if ct.Phone != "" {
				line += " " + ct.Phone
			}
			fmt.Printf("  - %s\n", line)
		}
	}
	if len(p.Certifications) > 0 {
		fmt.Printf("\nCertifications (%d):\n", len(p.Certifications))
		for _, cert := range p.Certifications {
			fmt.Printf("  - %s [%s]\n", cert.Name, cert.CertificationType)
		}
	}
	if len(p.Insurance) > 0 {
		fmt.Printf("\nInsurance (%d):\n", len(p.Insurance))
		for _, pol := range p.Insurance {
			fmt.Printf("  - %s: $%.0f", pol.InsuranceType, pol.CoverageAmount)
			if pol.Provider != "" {
				fmt.Printf(" (%s)", pol.Provider)
			}
			fmt.Println()
		}
	}
	if p.Financials != nil {
		fmt.Printf("\nFinancials (FY%d):\n", p.Financials.Year)
		if p.Financials.AnnualTurnover != nil {
			fmt.Printf("  - annual turnover $%.0f\n", *p.Financials.AnnualTurnover)
		}
		if p.Financials.ProfitLoss != nil {
			fmt.Printf("  - profit/loss $%.0f\n", *p.Financials.ProfitLoss)
		}
		if p.Financials.AssetsValue != nil {
			fmt.Printf("  - assets $%.0f\n", *p.Financials.AssetsValue)
		}
	}
	if len(p.Experience) > 0 {
		fmt.Printf("\nExperience (%d):\n", len(p.Experience))
		for _, e := range p.Experience {
			fmt.Printf("  - %s\n", e.ProjectName)
		}
	}
	if len(p.TeamMembers) > 0 {
		fmt.Printf("\nTeam (%d):\n", len(p.TeamMembers))
		for _, m := range p.TeamMembers {
			line := strings.TrimSpace(m.FirstName + " " + m.LastName)
			if m.Role != "" {
				line += " — " + m.Role
			}
			fmt.Printf("  - %s\n", line)
		}
	}
	if len(p.Equipment) > 0 {
		fmt.Printf("\nEquipment (%d):\n", len(p.Equipment))
		for _, e := range p.Equipment {
			fmt.Printf("  - %s\n", e.Name)
		}
	}
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-18s %s\n", label, value)
}

func runCompanies(args []string) error {
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

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.ListCompanies(context.Background())
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}
	if names == nil {
		names = []string{}
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
		return enc.Encode(names)
	case "list":
		for _, name := range names {
			fmt.Printf("- %s\n", name)
		}
		fmt.Printf("\n%d companies\n", len(names))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, list)", format)
	}
}

func runSet(args []string) error {
	usage := "usage: tenderbase set <company> <field>=<value> [<field>=<value> ...]"

	var company string
	fields := make(map[string]string)
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		case company == "":
			company = arg
		case strings.Contains(arg, "="):
			k, v, _ := strings.Cut(arg, "=")
			k = strings.ToLower(strings.TrimSpace(k))
			if !isCompanyField(k) {
				return fmt.Errorf("unknown company field %q (see: %s)", k, strings.Join(store.CompanyFieldColumns, ", "))
			}
			fields[k] = v
		default:
			return fmt.Errorf("unexpected argument: %s (quote multi-word company names)", arg)
		}
	}

	if company == "" || len(fields) == 0 {
		return fmt.Errorf("%s", usage)
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
	if err := s.UpdateCompanyFields(ctx, id, fields); err != nil {
		return fmt.Errorf("updating company: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("Updated %s: %s\n", company, strings.Join(keys, ", "))
	return nil
}

func isCompanyField(key string) bool {
	for _, col := range store.CompanyFieldColumns {
		if key == col {
			return true
		}
	}
	return false
}

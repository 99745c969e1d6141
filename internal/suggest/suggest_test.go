package suggest

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/tenderbase/tenderbase/internal/store"
)

// newTestMatcher creates an in-memory store with one company and a
// matcher reading from it.
func newTestMatcher(t *testing.T) (*Matcher, store.Store, int64) {
	t.Helper()
	s, err := store.NewStore(store.StoreConfig{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	id, err := s.GetOrCreateCompany(context.Background(), "Harbour Electrical")
	if err != nil {
		t.Fatalf("creating company: %v", err)
	}
	return NewMatcher(s), s, id
}

func TestSuggestNZBNOutranksABN(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	err := s.UpdateCompanyFields(ctx, id, map[string]string{
		"nzbn": "9429041234567",
		"abn":  "12345678901",
	})
	if err != nil {
		t.Fatalf("UpdateCompanyFields failed: %v", err)
	}

	got, err := m.Suggest(ctx, "What is your business number?", "Harbour Electrical", Query)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %+v", len(got), got)
	}
	if got[0].Field != "NZBN" || got[0].Confidence != 0.95 {
		t.Errorf("top suggestion = %+v, want NZBN at 0.95", got[0])
	}
	if got[1].Field != "ABN" || got[1].Confidence != 0.8 {
		t.Errorf("second suggestion = %+v, want ABN at 0.8", got[1])
	}
	if got[0].Value != "9429041234567" {
		t.Errorf("NZBN value = %q", got[0].Value)
	}
}

func TestSuggestQueryGroupOrdering(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	err := s.UpdateCompanyFields(ctx, id, map[string]string{
		"phone": "04 1234 5678",
		"email": "office@harbour.co.nz",
	})
	if err != nil {
		t.Fatalf("UpdateCompanyFields failed: %v", err)
	}
	if _, err := s.AddContact(ctx, &store.Contact{CompanyID: id, FirstName: "Mere", LastName: "Walker"}); err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	got, err := m.Suggest(ctx, "Who is the contact person?", "Harbour Electrical", Query)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %+v", len(got), got)
	}
	// Stable sort: the 0.9 tier keeps table order, the name special trails.
	if got[0].Field != "Phone" || got[1].Field != "Email" {
		t.Errorf("0.9 tier order = %s, %s; want Phone, Email", got[0].Field, got[1].Field)
	}
	if got[2].Field != "primary_contact" || got[2].Value != "Mere Walker" {
		t.Errorf("name special = %+v, want Mere Walker at 0.8", got[2])
	}
}

func TestSuggestInsuranceRecords(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	policies := []store.InsurancePolicy{
		{CompanyID: id, InsuranceType: "Public Liability", CoverageAmount: 2000000},
		{CompanyID: id, InsuranceType: "Professional Indemnity", CoverageAmount: 1000000},
	}
	for i := range policies {
		if err := s.PutInsurance(ctx, &policies[i]); err != nil {
			t.Fatalf("PutInsurance failed: %v", err)
		}
	}

	got, err := m.Suggest(ctx, "What insurance coverage do you hold?", "Harbour Electrical", Query)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected one suggestion per policy, got %d: %+v", len(got), got)
	}
	// Policies list alphabetically by type.
	if got[0].Field != "Professional Indemnity" || got[0].Value != "$1,000,000" {
		t.Errorf("first policy = %+v", got[0])
	}
	if got[1].Field != "Public Liability" || got[1].Value != "$2,000,000" {
		t.Errorf("second policy = %+v", got[1])
	}
}

func TestSuggestExperienceCappedAtThree(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, err := s.AddExperience(ctx, &store.ExperienceRecord{
			CompanyID:   id,
			ProjectName: fmt.Sprintf("Project %d", i),
			Description: fmt.Sprintf("Delivered stage %d of the harbour upgrade", i),
		})
		if err != nil {
			t.Fatalf("AddExperience failed: %v", err)
		}
	}

	got, err := m.Suggest(ctx, "Describe similar previous work", "Harbour Electrical", Query)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected top 3 projects, got %d", len(got))
	}
	// Newest first.
	if got[0].Value != "Project 4" || got[2].Value != "Project 2" {
		t.Errorf("experience order = %q, %q, %q", got[0].Value, got[1].Value, got[2].Value)
	}
	for _, sug := range got {
		if sug.Confidence != 0.7 {
			t.Errorf("experience confidence = %v, want 0.7", sug.Confidence)
		}
	}
}

func TestSuggestPDFFirstMatchWins(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	if err := s.UpdateBankAccount(ctx, id, store.BankAccount{
		BankName:      "Kiwibank",
		AccountName:   "Harbour Electrical Ltd",
		AccountNumber: "38-9020-0123456-00",
	}); err != nil {
		t.Fatalf("UpdateBankAccount failed: %v", err)
	}

	got, err := m.Suggest(ctx, "bank_account_number", "Harbour Electrical", PDF)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("form contexts resolve one field, got %d: %+v", len(got), got)
	}
	if got[0].Field != "bank_account_number" || got[0].Value != "38-9020-0123456-00" {
		t.Errorf("suggestion = %+v", got[0])
	}
	if got[0].Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", got[0].Confidence)
	}
}

func TestSuggestWebOnlyRulesSkippedForPDF(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	if err := s.UpdateCompanyFields(ctx, id, map[string]string{"acn": "123456789"}); err != nil {
		t.Fatalf("UpdateCompanyFields failed: %v", err)
	}

	// ACN rules exist only for the web context.
	got, err := m.Suggest(ctx, "acn", "Harbour Electrical", PDF)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no pdf suggestions for acn, got %+v", got)
	}

	got, err = m.Suggest(ctx, "acn", "Harbour Electrical", Web)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != "123456789" {
		t.Errorf("web acn suggestion = %+v", got)
	}
}

func TestSuggestWebInsuranceField(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	err := s.PutInsurance(ctx, &store.InsurancePolicy{
		CompanyID:      id,
		InsuranceType:  "Public Liability",
		Provider:       "Vero",
		CoverageAmount: 2000000,
	})
	if err != nil {
		t.Fatalf("PutInsurance failed: %v", err)
	}

	got, err := m.Suggest(ctx, "public_liability_coverage_amount", "Harbour Electrical", Web)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != "$2,000,000" {
		t.Fatalf("coverage suggestion = %+v", got)
	}
	if got[0].Field != "Public Liability Coverage" || got[0].Confidence != 0.8 {
		t.Errorf("coverage field = %+v", got[0])
	}

	got, err = m.Suggest(ctx, "public_liability_insurer", "Harbour Electrical", Web)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != "Vero" {
		t.Fatalf("provider suggestion = %+v", got)
	}
	if got[0].Field != "Public Liability Provider" {
		t.Errorf("provider field = %q", got[0].Field)
	}
}

func TestSuggestProjectCostField(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	err := s.UpdateProjectCosts(ctx, id, map[string]string{"project_manager_rate": "$95.50"})
	if err != nil {
		t.Fatalf("UpdateProjectCosts failed: %v", err)
	}

	got, err := m.Suggest(ctx, "project_manager_rate", "Harbour Electrical", PDF)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected cost suggestion, got %+v", got)
	}
	if got[0].Category != "Project Costs" || got[0].Value != "95.5" {
		t.Errorf("cost suggestion = %+v", got[0])
	}
}

func TestSuggestDateSpecial(t *testing.T) {
	m, _, _ := newTestMatcher(t)
	ctx := context.Background()

	got, err := m.Suggest(ctx, "application_date", "Harbour Electrical", PDF)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected date suggestion, got %+v", got)
	}
	if got[0].Field != "current_date" || got[0].Confidence != 0.8 {
		t.Errorf("date suggestion = %+v", got[0])
	}
	if !regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`).MatchString(got[0].Value) {
		t.Errorf("date value %q not in DD/MM/YYYY form", got[0].Value)
	}

	// Birth dates are never auto-filled.
	got, err = m.Suggest(ctx, "date_of_birth", "Harbour Electrical", PDF)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no suggestion for birth date, got %+v", got)
	}
}

func TestSuggestContactNameSpecial(t *testing.T) {
	m, s, id := newTestMatcher(t)
	ctx := context.Background()

	if _, err := s.AddContact(ctx, &store.Contact{CompanyID: id, FirstName: "Aroha", LastName: "Ngata"}); err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	got, err := m.Suggest(ctx, "applicant_contact_name", "Harbour Electrical", PDF)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != "Aroha Ngata" {
		t.Fatalf("contact special = %+v", got)
	}

	// "company" in the field suppresses the person-name special; the
	// mapping rule resolves the company name instead.
	got, err = m.Suggest(ctx, "company_name", "Harbour Electrical", PDF)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != "Harbour Electrical" {
		t.Fatalf("company name mapping = %+v", got)
	}
}

func TestSuggestEmptyInputs(t *testing.T) {
	m, _, _ := newTestMatcher(t)
	ctx := context.Background()

	got, err := m.Suggest(ctx, "   ", "Harbour Electrical", Query)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for blank text, got %+v", got)
	}

	got, err = m.Suggest(ctx, "What is your business number?", "No Such Company", Query)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown company, got %+v", got)
	}

	// A matching group with no stored values yields nothing.
	got, err = m.Suggest(ctx, "What is your business number?", "Harbour Electrical", Query)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no suggestions from empty profile, got %+v", got)
	}
}

func TestParseContext(t *testing.T) {
	cases := []struct {
		in   string
		want Context
	}{
		{"", Query},
		{"query", Query},
		{"PDF", PDF},
		{"web", Web},
	}
	for _, c := range cases {
		got, err := ParseContext(c.in)
		if err != nil {
			t.Errorf("ParseContext(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseContext(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseContext("fax"); err == nil {
		t.Error("expected error for unknown context")
	}
}

func TestMoneyFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{250000, "$250,000"},
		{2000000, "$2,000,000"},
		{999, "$999"},
		{1234567.4, "$1,234,567"},
		{0, "$0"},
	}
	for _, c := range cases {
		if got := money(c.in); got != c.want {
			t.Errorf("money(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

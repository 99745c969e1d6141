package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/tenderbase/tenderbase/internal/store"
)

// ==================== costs ====================

func TestRunCosts_SetAndGet(t *testing.T) {
	setupCLI(t)

	var err error
	out := captureStdout(func() {
		err = runCosts([]string{"Kauri Construction Ltd",
			"project_manager_rate=$85", "profit_margin_percentage=12%"})
	})
	if err != nil {
		t.Fatalf("runCosts set failed: %v", err)
	}
	if !strings.Contains(out, "Updated Kauri Construction Ltd costs") {
		t.Errorf("unexpected output: %q", out)
	}

	out = captureStdout(func() {
		err = runCosts([]string{"Kauri Construction Ltd", "--format", "json"})
	})
	if err != nil {
		t.Fatalf("runCosts get failed: %v", err)
	}
	var costs map[string]string
	if err := json.Unmarshal([]byte(out), &costs); err != nil {
		t.Fatalf("decoding costs: %v\noutput: %s", err, out)
	}
	if costs["project_manager_rate"] != "85" {
		t.Errorf("project_manager_rate = %q, want 85", costs["project_manager_rate"])
	}
	if costs["profit_margin_percentage"] != "12" {
		t.Errorf("profit_margin_percentage = %q, want 12", costs["profit_margin_percentage"])
	}
}

func TestRunCosts_UnknownField(t *testing.T) {
	setupCLI(t)
	err := runCosts([]string{"Kauri Construction Ltd", "snack_budget=100"})
	if err == nil || !strings.Contains(err.Error(), "unknown cost field") {
		t.Errorf("expected unknown cost field error, got %v", err)
	}
}

func TestRunCosts_GetUnknownCompany(t *testing.T) {
	setupCLI(t)
	err := runCosts([]string{"Ghost Contracting", "--format", "json"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestRunCosts_NoCompany(t *testing.T) {
	err := runCosts([]string{})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
}

// ==================== bank ====================

type bankView struct {
	Account   *store.BankAccount    `json:"account"`
	Documents []*store.BankDocument `json:"documents"`
}

func showBank(t *testing.T, company string) bankView {
	t.Helper()
	var err error
	out := captureStdout(func() {
		err = runBank([]string{company, "--format", "json"})
	})
	if err != nil {
		t.Fatalf("runBank show failed: %v", err)
	}
	var view bankView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decoding bank view: %v\noutput: %s", err, out)
	}
	return view
}

func TestRunBank_SetAndShow(t *testing.T) {
	setupCLI(t)

	var err error
	out := captureStdout(func() {
		err = runBank([]string{"Kauri Construction Ltd", "set",
			"--bank", "ANZ", "--account-name", "Kauri Construction Ltd",
			"--account-number", "01-0234-0567890-00"})
	})
	if err != nil {
		t.Fatalf("runBank set failed: %v", err)
	}
	if !strings.Contains(out, "Updated bank account") {
		t.Errorf("unexpected output: %q", out)
	}

	view := showBank(t, "Kauri Construction Ltd")
	if view.Account == nil || view.Account.BankName != "ANZ" {
		t.Fatalf("unexpected account: %+v", view.Account)
	}
	if view.Account.AccountNumber != "01-0234-0567890-00" {
		t.Errorf("account number = %q", view.Account.AccountNumber)
	}
}

func TestRunBank_SetRequiresCoreFields(t *testing.T) {
	setupCLI(t)
	err := runBank([]string{"Kauri Construction Ltd", "set", "--bank", "ANZ"})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestRunBank_AddAndDeleteDoc(t *testing.T) {
	setupCLI(t)

	var err error
	out := captureStdout(func() {
		err = runBank([]string{"Kauri Construction Ltd", "add-doc", "statement-fy2024.pdf",
			"--size", "20480", "--description", "FY2024 statements"})
	})
	if err != nil {
		t.Fatalf("runBank add-doc failed: %v", err)
	}
	if !strings.Contains(out, "Added bank document #") {
		t.Errorf("unexpected output: %q", out)
	}

	view := showBank(t, "Kauri Construction Ltd")
	if len(view.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(view.Documents))
	}
	doc := view.Documents[0]
	if doc.FileName != "statement-fy2024.pdf" || doc.FileSize != 20480 {
		t.Errorf("unexpected document: %+v", doc)
	}
	if doc.DocumentType != "bank_statement" {
		t.Errorf("document type = %q, want bank_statement", doc.DocumentType)
	}

	captureStdout(func() {
		err = runBank([]string{"Kauri Construction Ltd", "delete-doc", fmt.Sprintf("%d", doc.ID)})
	})
	if err != nil {
		t.Fatalf("runBank delete-doc failed: %v", err)
	}
	view = showBank(t, "Kauri Construction Ltd")
	if len(view.Documents) != 0 {
		t.Errorf("expected 0 documents after delete, got %d", len(view.Documents))
	}
}

func TestRunBank_DeleteDocInvalidID(t *testing.T) {
	setupCLI(t)
	err := runBank([]string{"Kauri Construction Ltd", "delete-doc", "abc"})
	if err == nil || !strings.Contains(err.Error(), "invalid document id") {
		t.Errorf("expected invalid id error, got %v", err)
	}
}

func TestRunBank_UnknownAction(t *testing.T) {
	setupCLI(t)
	err := runBank([]string{"Kauri Construction Ltd", "freeze"})
	if err == nil || !strings.Contains(err.Error(), "unknown bank action") {
		t.Errorf("expected unknown action error, got %v", err)
	}
}

// ==================== applications ====================

func TestRunApplications_AddAndList(t *testing.T) {
	setupCLI(t)

	var err error
	out := captureStdout(func() {
		err = runApplications([]string{"Kauri Construction Ltd", "add",
			"--title", "Riverside Stopbank Upgrade",
			"--type", "tender", "--org", "Waikato Regional Council",
			"--value", "$1,200,000", "--status", "submitted"})
	})
	if err != nil {
		t.Fatalf("runApplications add failed: %v", err)
	}
	if !strings.Contains(out, "Added application #1") {
		t.Errorf("unexpected output: %q", out)
	}

	out = captureStdout(func() {
		err = runApplications([]string{"Kauri Construction Ltd", "--format", "json"})
	})
	if err != nil {
		t.Fatalf("runApplications list failed: %v", err)
	}
	var apps []*store.Application
	if err := json.Unmarshal([]byte(out), &apps); err != nil {
		t.Fatalf("decoding applications: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
	if apps[0].Title != "Riverside Stopbank Upgrade" || apps[0].Value != 1200000 {
		t.Errorf("unexpected application: %+v", apps[0])
	}
	if apps[0].Organization != "Waikato Regional Council" {
		t.Errorf("organization = %q", apps[0].Organization)
	}
}

func TestRunApplications_AddRequiresTitle(t *testing.T) {
	setupCLI(t)
	err := runApplications([]string{"Kauri Construction Ltd", "add", "--type", "grant"})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestRunApplications_BadValue(t *testing.T) {
	setupCLI(t)
	err := runApplications([]string{"Kauri Construction Ltd", "add",
		"--title", "X", "--value", "heaps"})
	if err == nil || !strings.Contains(err.Error(), "invalid amount") {
		t.Errorf("expected invalid amount error, got %v", err)
	}
}

// ==================== team ====================

func TestRunTeam_AddAndList(t *testing.T) {
	setupCLI(t)

	var err error
	captureStdout(func() {
		err = runTeam([]string{"Kauri Construction Ltd", "add",
			"--first", "Aroha", "--last", "Ngata", "--role", "Site Supervisor",
			"--years", "12", "--qualifications", "First Aid, NZQA Level 4"})
	})
	if err != nil {
		t.Fatalf("runTeam add failed: %v", err)
	}

	out := captureStdout(func() {
		err = runTeam([]string{"Kauri Construction Ltd", "--format", "json"})
	})
	if err != nil {
		t.Fatalf("runTeam list failed: %v", err)
	}
	var members []*store.TeamMember
	if err := json.Unmarshal([]byte(out), &members); err != nil {
		t.Fatalf("decoding team members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
	m := members[0]
	if m.FirstName != "Aroha" || m.LastName != "Ngata" || m.ExperienceYears != 12 {
		t.Errorf("unexpected member: %+v", m)
	}
	if len(m.Qualifications) != 2 || m.Qualifications[1] != "NZQA Level 4" {
		t.Errorf("qualifications = %v", m.Qualifications)
	}
}

func TestRunTeam_AddRequiresFirstName(t *testing.T) {
	setupCLI(t)
	err := runTeam([]string{"Kauri Construction Ltd", "add", "--role", "Foreman"})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
}

// ==================== equipment ====================

func TestRunEquipment_AddAndList(t *testing.T) {
	setupCLI(t)

	var err error
	captureStdout(func() {
		err = runEquipment([]string{"Kauri Construction Ltd", "add",
			"--name", "Hitachi ZX135 Excavator", "--type", "excavator",
			"--condition", "good", "--value", "$145,000", "--availability", "owned"})
	})
	if err != nil {
		t.Fatalf("runEquipment add failed: %v", err)
	}

	out := captureStdout(func() {
		err = runEquipment([]string{"Kauri Construction Ltd", "--format", "json"})
	})
	if err != nil {
		t.Fatalf("runEquipment list failed: %v", err)
	}
	var items []*store.EquipmentItem
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decoding equipment: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Name != "Hitachi ZX135 Excavator" || items[0].Value != 145000 {
		t.Errorf("unexpected item: %+v", items[0])
	}
}

func TestRunEquipment_AddRequiresName(t *testing.T) {
	setupCLI(t)
	err := runEquipment([]string{"Kauri Construction Ltd", "add", "--type", "truck"})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
}

// ==================== responses ====================

func TestRunResponses_AddFindUse(t *testing.T) {
	setupCLI(t)

	var err error
	out := captureStdout(func() {
		err = runResponses([]string{"Kauri Construction Ltd", "add",
			"--keywords", "health, safety, policy",
			"--response", "We operate a certified health and safety management system.",
			"--category", "compliance"})
	})
	if err != nil {
		t.Fatalf("runResponses add failed: %v", err)
	}
	if !strings.Contains(out, "Saved response #1") {
		t.Errorf("unexpected output: %q", out)
	}

	out = captureStdout(func() {
		err = runResponses([]string{"Kauri Construction Ltd", "find",
			"describe", "your", "safety", "record", "--format", "json"})
	})
	if err != nil {
		t.Fatalf("runResponses find failed: %v", err)
	}
	var matches []*store.TemplateResponse
	if err := json.Unmarshal([]byte(out), &matches); err != nil {
		t.Fatalf("decoding matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Category != "compliance" {
		t.Errorf("category = %q", matches[0].Category)
	}

	captureStdout(func() {
		err = runResponses([]string{"Kauri Construction Ltd", "use", "1"})
	})
	if err != nil {
		t.Fatalf("runResponses use failed: %v", err)
	}

	out = captureStdout(func() {
		err = runResponses([]string{"Kauri Construction Ltd", "--format", "json"})
	})
	if err != nil {
		t.Fatalf("runResponses list failed: %v", err)
	}
	var list []*store.TemplateResponse
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list) != 1 || list[0].UsageCount != 1 {
		t.Errorf("expected usage count 1, got %+v", list)
	}
}

func TestRunResponses_FindRequiresQuestion(t *testing.T) {
	setupCLI(t)
	err := runResponses([]string{"Kauri Construction Ltd", "find"})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestRunResponses_UnknownAction(t *testing.T) {
	setupCLI(t)
	err := runResponses([]string{"Kauri Construction Ltd", "recite"})
	if err == nil || !strings.Contains(err.Error(), "unknown responses action") {
		t.Errorf("expected unknown action error, got %v", err)
	}
}

func TestRunResponses_AddRequiresKeywordsAndText(t *testing.T) {
	setupCLI(t)
	err := runResponses([]string{"Kauri Construction Ltd", "add", "--keywords", "safety"})
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
}

// Package extract converts raw tender and grant document text into
// structured company facts using rule-based pattern matching.
//
// An extraction run makes six independent category passes over the text:
// company identifiers and contact details, contact people, financial
// figures, project experience, certifications, and insurance coverage.
// Each pass scans with an ordered list of regular expressions specific to
// its category, applies length bounds to free-text captures, and writes
// accepted candidates straight to the store. Passes are isolated: a
// storage failure in one category is recorded on the summary and the
// remaining categories still run.
//
// Extraction is idempotent-ish rather than strictly idempotent. List-type
// facts (contacts, certifications, experience) rely on the store's
// content-based insert-or-ignore keys, so re-processing a document adds
// nothing new; scalar company fields are simply overwritten, so a later
// document supersedes an earlier, possibly stale, identifier.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

// OCRMarker prefixes document text produced by an OCR collaborator rather
// than native text extraction. Downstream consumers treat marked text as
// lower fidelity.
const OCRMarker = "[OCR EXTRACTED TEXT]"

// Extractor runs category extraction passes against a store.
type Extractor struct {
	store store.Store
}

// NewExtractor creates an Extractor writing to st.
func NewExtractor(st store.Store) *Extractor {
	return &Extractor{store: st}
}

// Summary reports what one extraction run found and stored. Counts are
// rows actually written: re-running the same document over the same
// company reports zero for the deduplicated categories.
type Summary struct {
	CompanyID      int64    `json:"company_id"`
	OCRContent     bool     `json:"ocr_content,omitempty"`
	CompanyFields  []string `json:"company_fields,omitempty"`
	Contacts       int      `json:"contacts"`
	Financials     int      `json:"financials"`
	Experience     int      `json:"experience"`
	Certifications int      `json:"certifications"`
	Insurance      int      `json:"insurance"`
	Errors         []string `json:"errors,omitempty"`
}

// Extract runs all category passes over text for the given company. The
// company must already exist; callers that accept a company name should
// resolve it with GetOrCreateCompany first.
//
// A non-nil error means the run could not start at all. Per-category
// storage failures do not abort the run; they are collected in
// Summary.Errors and the other categories' results still land.
func (e *Extractor) Extract(ctx context.Context, text string, companyID int64) (*Summary, error) {
	company, err := e.store.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("loading company %d: %w", companyID, err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %d not found", companyID)
	}

	sum := &Summary{
		CompanyID:  companyID,
		OCRContent: strings.HasPrefix(strings.TrimSpace(text), OCRMarker),
	}
	lower := strings.ToLower(text)

	sum.CompanyFields, err = e.extractCompanyFields(ctx, text, lower, companyID)
	if err != nil {
		sum.Errors = append(sum.Errors, "company fields: "+err.Error())
	}

	sum.Contacts, err = e.extractContacts(ctx, text, companyID)
	if err != nil {
		sum.Errors = append(sum.Errors, "contacts: "+err.Error())
	}

	sum.Financials, err = e.extractFinancials(ctx, text, companyID)
	if err != nil {
		sum.Errors = append(sum.Errors, "financials: "+err.Error())
	}

	sum.Experience, err = e.extractExperience(ctx, text, companyID)
	if err != nil {
		sum.Errors = append(sum.Errors, "experience: "+err.Error())
	}

	sum.Certifications, err = e.extractCertifications(ctx, text, companyID)
	if err != nil {
		sum.Errors = append(sum.Errors, "certifications: "+err.Error())
	}

	sum.Insurance, err = e.extractInsurance(ctx, text, companyID)
	if err != nil {
		sum.Errors = append(sum.Errors, "insurance: "+err.Error())
	}

	return sum, nil
}

// truncate caps s at n runes. Captures are sliced on rune boundaries so a
// multibyte document never produces an invalid project name.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

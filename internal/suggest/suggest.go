// Package suggest matches a field description against a stored company
// profile and returns ranked value suggestions.
//
// One pattern table drives all three consumption contexts: ad hoc
// questions (query), PDF form field names (pdf), and web form field
// identifiers (web). Each rule carries a context mask, so per-context
// behavior stays what its consumers expect: query emits every matching
// keyword group, while pdf and web resolve to the single first rule that
// both matches and has a value on file. Confidence weights are hand-tuned
// constants between 0.7 and 0.95 — an exact "nzbn" hit outranks a generic
// "company" hit.
package suggest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tenderbase/tenderbase/internal/store"
)

// Context selects which rules apply to a Suggest call.
type Context uint8

const (
	// Query matches ad hoc questions ("What is your business number?").
	Query Context = 1 << iota
	// PDF matches PDF form field names ("applicant_name").
	PDF
	// Web matches combined web form field identifiers (id, name, label,
	// placeholder joined into one string).
	Web
)

// ParseContext maps a CLI/MCP context argument onto a Context. The empty
// string defaults to Query.
func ParseContext(s string) (Context, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "query":
		return Query, nil
	case "pdf":
		return PDF, nil
	case "web":
		return Web, nil
	}
	return 0, fmt.Errorf("unknown suggestion context %q", s)
}

// String returns the canonical context name.
func (c Context) String() string {
	switch c {
	case Query:
		return "query"
	case PDF:
		return "pdf"
	case Web:
		return "web"
	}
	return fmt.Sprintf("context(%d)", uint8(c))
}

// Suggestion is one ranked auto-fill candidate.
type Suggestion struct {
	Category   string  `json:"category"`
	Field      string  `json:"field"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Matcher resolves suggestions from a store.
type Matcher struct {
	store store.Store
}

// NewMatcher creates a Matcher reading from st.
func NewMatcher(st store.Store) *Matcher {
	return &Matcher{store: st}
}

// Suggest returns ranked suggestions for fieldText against the named
// company's profile, ordered by confidence descending with insertion
// order preserved within a tier. An unknown company or a text nothing
// matches yields an empty result, never an invented value.
func (m *Matcher) Suggest(ctx context.Context, fieldText, companyName string, in Context) ([]Suggestion, error) {
	text := strings.ToLower(strings.TrimSpace(fieldText))
	if text == "" {
		return nil, nil
	}

	profile, err := m.store.GetCompanyProfile(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("loading profile for %q: %w", companyName, err)
	}
	if profile == nil {
		return nil, nil
	}

	var suggestions []Suggestion
	if in == Query {
		for _, r := range rules {
			if r.contexts&in == 0 || !r.re.MatchString(text) {
				continue
			}
			suggestions = append(suggestions, m.resolve(ctx, r, text, profile)...)
		}
		suggestions = append(suggestions, specialCases(text, profile)...)
	} else {
		// Form contexts fill one field at a time: the first rule that
		// matches and resolves wins, with the special cases as fallback.
		for _, r := range rules {
			if r.contexts&in == 0 || !r.re.MatchString(text) {
				continue
			}
			if got := m.resolve(ctx, r, text, profile); len(got) > 0 {
				suggestions = got
				break
			}
		}
		if len(suggestions) == 0 {
			suggestions = specialCases(text, profile)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions, nil
}

// resolve turns one matched rule into zero or more suggestions.
func (m *Matcher) resolve(ctx context.Context, r rule, text string, p *store.Profile) []Suggestion {
	switch r.kind {
	case kindField:
		value := fieldValue(p, r.source)
		if value == "" {
			return nil
		}
		return []Suggestion{{Category: r.category, Field: r.field, Value: value, Confidence: r.confidence}}

	case kindInsuranceRecords:
		var out []Suggestion
		for _, pol := range p.Insurance {
			out = append(out, Suggestion{
				Category:   r.category,
				Field:      pol.InsuranceType,
				Value:      money(pol.CoverageAmount),
				Confidence: r.confidence,
			})
		}
		return out

	case kindExperienceTop3:
		var out []Suggestion
		for i, exp := range p.Experience {
			if i == 3 {
				break
			}
			out = append(out, Suggestion{
				Category:   r.category,
				Field:      r.field,
				Value:      exp.ProjectName,
				Confidence: r.confidence,
			})
		}
		return out

	case kindCertificationRecords:
		var out []Suggestion
		for _, cert := range p.Certifications {
			out = append(out, Suggestion{
				Category:   r.category,
				Field:      cert.CertificationType,
				Value:      cert.Name,
				Confidence: r.confidence,
			})
		}
		return out

	case kindInsuranceField:
		for _, pol := range p.Insurance {
			if pol.InsuranceType != r.field {
				continue
			}
			if strings.Contains(text, "amount") || strings.Contains(text, "coverage") {
				return []Suggestion{{
					Category:   r.category,
					Field:      r.field + " Coverage",
					Value:      money(pol.CoverageAmount),
					Confidence: r.confidence,
				}}
			}
			value := pol.Provider
			if value == "" {
				value = pol.InsuranceType
			}
			return []Suggestion{{
				Category:   r.category,
				Field:      r.field + " Provider",
				Value:      value,
				Confidence: r.confidence,
			}}
		}
		return nil

	case kindCostField:
		costs, err := m.store.GetProjectCosts(ctx, p.Company.ID)
		if err != nil {
			return nil
		}
		value := costs[r.source]
		if value == "" {
			return nil
		}
		return []Suggestion{{Category: r.category, Field: r.field, Value: value, Confidence: r.confidence}}
	}
	return nil
}

// specialCases handles the two field shapes that resolve without a
// pattern-table hit: date fields get today's date, and person-name fields
// get the first stored contact.
func specialCases(text string, p *store.Profile) []Suggestion {
	var out []Suggestion

	if strings.Contains(text, "date") && !strings.Contains(text, "birth") {
		out = append(out, Suggestion{
			Category:   "Auto-Fill",
			Field:      "current_date",
			Value:      time.Now().Format("02/01/2006"),
			Confidence: 0.8,
		})
	}

	if !strings.Contains(text, "company") &&
		(strings.Contains(text, "contact") || strings.Contains(text, "name") || strings.Contains(text, "applicant")) {
		if len(p.Contacts) > 0 {
			c := p.Contacts[0]
			full := strings.TrimSpace(c.FirstName + " " + c.LastName)
			if full != "" {
				out = append(out, Suggestion{
					Category:   "Auto-Fill",
					Field:      "primary_contact",
					Value:      full,
					Confidence: 0.8,
				})
			}
		}
	}
	return out
}

// fieldValue reads a scalar profile value by its store column key. Money
// amounts come back display formatted; everything else as stored.
func fieldValue(p *store.Profile, source string) string {
	c := p.Company
	switch source {
	case "company_name":
		return c.Name
	case "abn":
		return c.ABN
	case "acn":
		return c.ACN
	case "nzbn":
		return c.NZBN
	case "company_number":
		return c.CompanyNumber
	case "charity_number":
		return c.CharityNumber
	case "gst_number":
		return c.GSTNumber
	case "business_address":
		return c.BusinessAddress
	case "postal_address":
		return c.PostalAddress
	case "phone":
		return c.Phone
	case "email":
		return c.Email
	case "website":
		return c.Website
	case "employees_count":
		return c.EmployeesCount
	case "business_type":
		return c.BusinessType
	case "industry_sector":
		return c.IndustrySector
	case "established_date":
		return c.EstablishedDate
	case "bank_name":
		return c.BankName
	case "bank_account_name":
		return c.BankAccountName
	case "bank_account_number":
		return c.BankAccountNumber
	case "annual_turnover":
		if p.Financials != nil && p.Financials.AnnualTurnover != nil {
			return money(*p.Financials.AnnualTurnover)
		}
	case "assets_value":
		if p.Financials != nil && p.Financials.AssetsValue != nil {
			return money(*p.Financials.AssetsValue)
		}
	case "profit_loss":
		if p.Financials != nil && p.Financials.ProfitLoss != nil {
			return money(*p.Financials.ProfitLoss)
		}
	}
	return ""
}

// money renders an amount as "$1,234,567", rounded to whole dollars.
func money(amount float64) string {
	s := strconv.FormatInt(int64(math.Round(amount)), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return "$" + s
}

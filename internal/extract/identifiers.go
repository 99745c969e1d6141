package extract

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Registered-identifier patterns run against lowercased text. Digit groups
// may carry single internal spaces; matches are normalized by stripping
// them. The NZBN capture deliberately swallows trailing digits so a run
// longer than 13 digits is rejected instead of silently truncated.
var (
	abnRE     = regexp.MustCompile(`abn[:\s]*(\d{2}\s?\d{3}\s?\d{3}\s?\d{3})`)
	acnRE     = regexp.MustCompile(`acn[:\s]*(\d{3}\s?\d{3}\s?\d{3})`)
	nzbnRE    = regexp.MustCompile(`(?:nzbn|new zealand business number)[:\s]*(\d{4}\s?\d{3}\s?\d{3}\s?\d{3}\d*)`)
	charityRE = regexp.MustCompile(`(?:charity|charities)[:\s]*(?:registration[:\s]*)?(?:number[:\s]*)?(\d{7})`)
	nzCoRE    = regexp.MustCompile(`(?:company number|nz company)[:\s]*(\d{7,8})`)
	gstRE     = regexp.MustCompile(`(?:gst|goods and services tax)[:\s]*(?:number[:\s]*)?(\d{8,9})`)
)

// Phone patterns in specificity order: a number next to a phone label beats
// a bare number elsewhere in the text. First match wins.
var phoneREs = []*regexp.Regexp{
	regexp.MustCompile(`(?:phone|tel|telephone)[:\s]*(\(?(?:\+61|0)[2-8]\)?\s?\d{4}\s?\d{4})`),
	regexp.MustCompile(`(\(?(?:\+61|0)[2-8]\)?\s?\d{4}\s?\d{4})`),
}

// emailRE runs against the original text; the local part is case
// significant for some providers.
var emailRE = regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)

// Address patterns capture the remainder of a labeled line, stopping at a
// blank line or a fresh capitalized line.
var addressREs = []*regexp.Regexp{
	regexp.MustCompile(`(?im)address[:\s]*([^\n\r]+(?:\n[^\n\r]+)*?)(?:\n\s*\n|\n\s*[A-Z]|$)`),
	regexp.MustCompile(`(?im)postal address[:\s]*([^\n\r]+(?:\n[^\n\r]+)*?)(?:\n\s*\n|\n\s*[A-Z]|$)`),
}

// extractCompanyFields scans for registered identifiers and company-level
// contact details, then writes everything found in one field update.
// Returns the sorted list of field names that were set.
func (e *Extractor) extractCompanyFields(ctx context.Context, text, lower string, companyID int64) ([]string, error) {
	fields := map[string]string{}

	if m := abnRE.FindStringSubmatch(lower); m != nil {
		fields["abn"] = stripSpaces(m[1])
	}
	if m := acnRE.FindStringSubmatch(lower); m != nil {
		fields["acn"] = stripSpaces(m[1])
	}
	if m := nzbnRE.FindStringSubmatch(lower); m != nil {
		if digits := stripSpaces(m[1]); len(digits) == 13 {
			fields["nzbn"] = digits
		}
	}
	if m := charityRE.FindStringSubmatch(lower); m != nil {
		fields["charity_number"] = m[1]
	}
	if m := nzCoRE.FindStringSubmatch(lower); m != nil {
		fields["company_number"] = m[1]
	}
	if m := gstRE.FindStringSubmatch(lower); m != nil {
		fields["gst_number"] = m[1]
	}

	for _, re := range phoneREs {
		if m := re.FindStringSubmatch(lower); m != nil {
			fields["phone"] = m[1]
			break
		}
	}

	if m := emailRE.FindStringSubmatch(text); m != nil {
		fields["email"] = m[1]
	}

	for _, re := range addressREs {
		if m := re.FindStringSubmatch(text); m != nil {
			fields["business_address"] = strings.TrimSpace(m[1])
			break
		}
	}

	if len(fields) == 0 {
		return nil, nil
	}

	if err := e.store.UpdateCompanyFields(ctx, companyID, fields); err != nil {
		return nil, fmt.Errorf("updating company fields: %w", err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

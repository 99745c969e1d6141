package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

// Labeled money figures. Patterns run in order and assign into the same
// record, so a later pattern for the same field overwrites an earlier one
// (revenue supersedes annual turnover when both appear).
var moneyREs = []struct {
	re    *regexp.Regexp
	field string
}{
	{regexp.MustCompile(`(?i)annual turnover[:\s]*\$?([\d,]+)`), "annual_turnover"},
	{regexp.MustCompile(`(?i)revenue[:\s]*\$?([\d,]+)`), "annual_turnover"},
	{regexp.MustCompile(`(?i)profit[:\s]*\$?([\d,]+)`), "profit_loss"},
	{regexp.MustCompile(`(?i)assets[:\s]*\$?([\d,]+)`), "assets_value"},
}

// extractFinancials collects labeled figures and upserts them under the
// current financial year. Returns the number of figures written.
func (e *Extractor) extractFinancials(ctx context.Context, text string, companyID int64) (int, error) {
	rec := &store.FinancialRecord{CompanyID: companyID}
	var found int

	for _, p := range moneyREs {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		switch p.field {
		case "annual_turnover":
			if rec.AnnualTurnover == nil {
				found++
			}
			rec.AnnualTurnover = &amount
		case "profit_loss":
			rec.ProfitLoss = &amount
			found++
		case "assets_value":
			rec.AssetsValue = &amount
			found++
		}
	}

	if found == 0 {
		return 0, nil
	}
	if err := e.store.UpsertFinancials(ctx, rec); err != nil {
		return 0, fmt.Errorf("upserting financials: %w", err)
	}
	return found, nil
}

package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

// Insurance coverage patterns. The first captures the policy kind next to
// its amount; "insured for" gives an amount with no kind and is stored
// under the generic type. Unparseable amounts are skipped.
var insuranceREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(public liability|professional indemnity|insurance)[:\s]*\$?([\d,\.]+)`),
	regexp.MustCompile(`(?i)insured for[:\s]*\$?([\d,\.]+)`),
}

func (e *Extractor) extractInsurance(ctx context.Context, text string, companyID int64) (int, error) {
	var stored int
	for _, re := range insuranceREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			insType := "insurance"
			amountStr := m[1]
			if len(m) > 2 {
				insType = m[1]
				amountStr = m[2]
			}
			amount, err := strconv.ParseFloat(strings.ReplaceAll(amountStr, ",", ""), 64)
			if err != nil {
				continue
			}
			err = e.store.PutInsurance(ctx, &store.InsurancePolicy{
				CompanyID:      companyID,
				InsuranceType:  insType,
				CoverageAmount: amount,
				Status:         "active",
			})
			if err != nil {
				return stored, fmt.Errorf("storing %s coverage: %w", insType, err)
			}
			stored++
		}
	}
	return stored, nil
}

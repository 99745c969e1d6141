package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

// Contact patterns: a role label introducing a name, and a capitalized
// First Last name trailed by a title keyword on the same line.
var contactREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:contact person|project manager|director|ceo)[:\s]*([^\n\r]+)`),
	regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+).*?(?i:director|manager|ceo|contact)`),
}

func (e *Extractor) extractContacts(ctx context.Context, text string, companyID int64) (int, error) {
	var stored int
	for _, re := range contactREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(m[1])
			if len(candidate) <= 3 || len(candidate) >= 100 {
				continue
			}
			parts := strings.Fields(candidate)
			if len(parts) < 2 {
				continue
			}
			id, err := e.store.AddContact(ctx, &store.Contact{
				CompanyID: companyID,
				FirstName: parts[0],
				LastName:  parts[len(parts)-1],
				Role:      "Contact",
			})
			if err != nil {
				return stored, fmt.Errorf("storing contact %q: %w", candidate, err)
			}
			if id != 0 {
				stored++
			}
		}
	}
	return stored, nil
}

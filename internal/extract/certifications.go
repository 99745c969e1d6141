package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

// Certification patterns. The first captures both the credential kind and
// its name; the single-capture variants default the kind to
// "Certification". Names are bounded 4–199 characters.
var certificationREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(license|licence|permit|certification)[:\s]*([^\n\r]+)`),
	regexp.MustCompile(`(?i)certified[:\s]*([^\n\r]+)`),
	regexp.MustCompile(`(?i)accredited[:\s]*([^\n\r]+)`),
}

func (e *Extractor) extractCertifications(ctx context.Context, text string, companyID int64) (int, error) {
	var stored int
	for _, re := range certificationREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			certType := "Certification"
			name := m[1]
			if len(m) > 2 {
				certType = m[1]
				name = m[2]
			}
			name = strings.TrimSpace(name)
			if len(name) <= 3 || len(name) >= 200 {
				continue
			}
			id, err := e.store.AddCertification(ctx, &store.Certification{
				CompanyID:         companyID,
				CertificationType: certType,
				Name:              name,
				Status:            "active",
			})
			if err != nil {
				return stored, fmt.Errorf("storing certification %q: %w", name, err)
			}
			if id != 0 {
				stored++
			}
		}
	}
	return stored, nil
}

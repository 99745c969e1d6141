package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tenderbase/tenderbase/internal/store"
)

// Project history lines. Captures shorter than 10 or longer than 500
// characters are discarded as noise.
var experienceREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)project[:\s]*([^\n\r]+)`),
	regexp.MustCompile(`(?i)completed[:\s]*([^\n\r]+)`),
	regexp.MustCompile(`(?i)delivered[:\s]*([^\n\r]+)`),
}

func (e *Extractor) extractExperience(ctx context.Context, text string, companyID int64) (int, error) {
	var stored int
	for _, re := range experienceREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(m[1])
			if len(candidate) <= 10 || len(candidate) >= 500 {
				continue
			}
			id, err := e.store.AddExperience(ctx, &store.ExperienceRecord{
				CompanyID:   companyID,
				ProjectName: truncate(candidate, 100),
				Description: candidate,
				ProjectType: "Extracted from document",
			})
			if err != nil {
				return stored, fmt.Errorf("storing experience %q: %w", truncate(candidate, 40), err)
			}
			if id != 0 {
				stored++
			}
		}
	}
	return stored, nil
}

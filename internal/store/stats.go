package store

import (
	"context"
	"fmt"
)

// StoreStats reports row counts per table.
type StoreStats struct {
	Companies         int64 `json:"companies"`
	Contacts          int64 `json:"contacts"`
	Certifications    int64 `json:"certifications"`
	FinancialRecords  int64 `json:"financial_records"`
	InsurancePolicies int64 `json:"insurance_policies"`
	ExperienceRecords int64 `json:"experience_records"`
	TeamMembers       int64 `json:"team_members"`
	Equipment         int64 `json:"equipment"`
	TemplateResponses int64 `json:"template_responses"`
	Applications      int64 `json:"applications"`
	BankDocuments     int64 `json:"bank_documents"`
}

// Stats counts the rows in every entity table.
func (s *SQLiteStore) Stats(ctx context.Context) (*StoreStats, error) {
	stats := &StoreStats{}
	counts := []struct {
		table string
		dest  *int64
	}{
		{"companies", &stats.Companies},
		{"contacts", &stats.Contacts},
		{"certifications", &stats.Certifications},
		{"financials", &stats.FinancialRecords},
		{"insurance", &stats.InsurancePolicies},
		{"experience", &stats.ExperienceRecords},
		{"team_members", &stats.TeamMembers},
		{"equipment", &stats.Equipment},
		{"template_responses", &stats.TemplateResponses},
		{"applications", &stats.Applications},
		{"bank_documents", &stats.BankDocuments},
	}

	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", c.table, err)
		}
	}
	return stats, nil
}

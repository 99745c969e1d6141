package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsurancePolicy is one insurance cover held by a company. There is at
// most one row per (company, insurance type): the most recently stored
// policy wins.
type InsurancePolicy struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	InsuranceType  string    `json:"insurance_type"`
	Provider       string    `json:"provider,omitempty"`
	PolicyNumber   string    `json:"policy_number,omitempty"`
	CoverageAmount float64   `json:"coverage_amount,omitempty"`
	StartDate      string    `json:"start_date,omitempty"`
	EndDate        string    `json:"end_date,omitempty"`
	FilePath       string    `json:"file_path,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// PutInsurance stores a policy, replacing any existing row for the same
// (company, insurance type) pair.
func (s *SQLiteStore) PutInsurance(ctx context.Context, p *InsurancePolicy) error {
	if p.InsuranceType == "" {
		return fmt.Errorf("insurance type must not be empty")
	}
	if p.Status == "" {
		p.Status = "active"
	}
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO insurance (company_id, insurance_type, provider, policy_number, coverage_amount, start_date, end_date, file_path, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CompanyID, p.InsuranceType, p.Provider, p.PolicyNumber, p.CoverageAmount,
		p.StartDate, p.EndDate, p.FilePath, p.Status, now,
	)
	if err != nil {
		return fmt.Errorf("storing insurance policy: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		p.ID = id
	}
	p.CreatedAt = now
	return nil
}

// ListInsurance returns policies for a company, optionally restricted to
// active ones.
func (s *SQLiteStore) ListInsurance(ctx context.Context, companyID int64, activeOnly bool) ([]*InsurancePolicy, error) {
	query := `SELECT id, company_id, insurance_type, provider, policy_number, coverage_amount, start_date, end_date, file_path, status, created_at
	          FROM insurance WHERE company_id = ?`
	if activeOnly {
		query += " AND status = 'active'"
	}
	query += " ORDER BY insurance_type"

	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing insurance: %w", err)
	}
	defer rows.Close()

	var policies []*InsurancePolicy
	for rows.Next() {
		p := &InsurancePolicy{}
		var provider, policyNumber, startDate, endDate, filePath, status sql.NullString
		var coverage sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.InsuranceType, &provider,
			&policyNumber, &coverage, &startDate, &endDate, &filePath, &status,
			&p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning insurance row: %w", err)
		}
		p.Provider = provider.String
		p.PolicyNumber = policyNumber.String
		p.CoverageAmount = coverage.Float64
		p.StartDate = startDate.String
		p.EndDate = endDate.String
		p.FilePath = filePath.String
		p.Status = status.String
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

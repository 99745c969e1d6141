package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Certification is a licence, permit or other credential held by a company.
type Certification struct {
	ID                int64     `json:"id"`
	CompanyID         int64     `json:"company_id"`
	CertificationType string    `json:"certification_type"`
	Name              string    `json:"name"`
	IssuingAuthority  string    `json:"issuing_authority,omitempty"`
	CertificateNumber string    `json:"certificate_number,omitempty"`
	IssueDate         string    `json:"issue_date,omitempty"`
	ExpiryDate        string    `json:"expiry_date,omitempty"`
	FilePath          string    `json:"file_path,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// AddCertification inserts a certification. The (company, type, name) tuple
// is the natural key: a duplicate is ignored and returns (0, nil).
func (s *SQLiteStore) AddCertification(ctx context.Context, c *Certification) (int64, error) {
	if c.Status == "" {
		c.Status = "active"
	}
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO certifications (company_id, certification_type, name, issuing_authority, certificate_number, issue_date, expiry_date, file_path, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CompanyID, c.CertificationType, c.Name, c.IssuingAuthority,
		c.CertificateNumber, c.IssueDate, c.ExpiryDate, c.FilePath, c.Status, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting certification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return 0, nil // duplicate, ignored
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	return id, nil
}

// ListCertifications returns certifications for a company, optionally
// restricted to active ones.
func (s *SQLiteStore) ListCertifications(ctx context.Context, companyID int64, activeOnly bool) ([]*Certification, error) {
	query := `SELECT id, company_id, certification_type, name, issuing_authority, certificate_number, issue_date, expiry_date, file_path, status, created_at
	          FROM certifications WHERE company_id = ?`
	if activeOnly {
		query += " AND status = 'active'"
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing certifications: %w", err)
	}
	defer rows.Close()

	var certs []*Certification
	for rows.Next() {
		c := &Certification{}
		var certType, name, authority, number, issueDate, expiryDate, filePath, status sql.NullString
		if err := rows.Scan(&c.ID, &c.CompanyID, &certType, &name, &authority,
			&number, &issueDate, &expiryDate, &filePath, &status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning certification row: %w", err)
		}
		c.CertificationType = certType.String
		c.Name = name.String
		c.IssuingAuthority = authority.String
		c.CertificateNumber = number.String
		c.IssueDate = issueDate.String
		c.ExpiryDate = expiryDate.String
		c.FilePath = filePath.String
		c.Status = status.String
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

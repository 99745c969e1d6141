package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ExperienceRecord is one past project a company can cite as track record.
type ExperienceRecord struct {
	ID               int64     `json:"id"`
	CompanyID        int64     `json:"company_id"`
	ProjectName      string    `json:"project_name"`
	ClientName       string    `json:"client_name,omitempty"`
	ProjectType      string    `json:"project_type,omitempty"`
	ProjectValue     float64   `json:"project_value,omitempty"`
	StartDate        string    `json:"start_date,omitempty"`
	EndDate          string    `json:"end_date,omitempty"`
	Description      string    `json:"description,omitempty"`
	Outcomes         string    `json:"outcomes,omitempty"`
	ReferenceContact string    `json:"reference_contact,omitempty"`
	ReferencePhone   string    `json:"reference_phone,omitempty"`
	ReferenceEmail   string    `json:"reference_email,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// AddExperience inserts a past-project record. The (company, project name,
// description, project type) tuple is the natural key: a duplicate is
// ignored and returns (0, nil).
func (s *SQLiteStore) AddExperience(ctx context.Context, e *ExperienceRecord) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO experience (company_id, project_name, client_name, project_type, project_value, start_date, end_date, description, outcomes, reference_contact, reference_phone, reference_email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CompanyID, e.ProjectName, e.ClientName, e.ProjectType, e.ProjectValue,
		e.StartDate, e.EndDate, e.Description, e.Outcomes, e.ReferenceContact,
		e.ReferencePhone, e.ReferenceEmail, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting experience: %w", err)
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
	e.ID = id
	e.CreatedAt = now
	return id, nil
}

// ListExperience returns a company's past projects, newest first.
func (s *SQLiteStore) ListExperience(ctx context.Context, companyID int64) ([]*ExperienceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, project_name, client_name, project_type, project_value, start_date, end_date, description, outcomes, reference_contact, reference_phone, reference_email, created_at
		 FROM experience WHERE company_id = ? ORDER BY created_at DESC, id DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing experience: %w", err)
	}
	defer rows.Close()

	var records []*ExperienceRecord
	for rows.Next() {
		e := &ExperienceRecord{}
		var projectName, clientName, projectType, startDate, endDate, description sql.NullString
		var outcomes, refContact, refPhone, refEmail sql.NullString
		var projectValue sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.CompanyID, &projectName, &clientName,
			&projectType, &projectValue, &startDate, &endDate, &description,
			&outcomes, &refContact, &refPhone, &refEmail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning experience row: %w", err)
		}
		e.ProjectName = projectName.String
		e.ClientName = clientName.String
		e.ProjectType = projectType.String
		e.ProjectValue = projectValue.Float64
		e.StartDate = startDate.String
		e.EndDate = endDate.String
		e.Description = description.String
		e.Outcomes = outcomes.String
		e.ReferenceContact = refContact.String
		e.ReferencePhone = refPhone.String
		e.ReferenceEmail = refEmail.String
		records = append(records, e)
	}
	return records, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Application is one grant or tender submission in the company's history.
type Application struct {
	ID              int64     `json:"id"`
	CompanyID       int64     `json:"company_id"`
	ApplicationType string    `json:"application_type,omitempty"`
	Title           string    `json:"title"`
	Organization    string    `json:"organization,omitempty"`
	SubmissionDate  string    `json:"submission_date,omitempty"`
	Status          string    `json:"status,omitempty"`
	Value           float64   `json:"value,omitempty"`
	DocumentPath    string    `json:"document_path,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AddApplication inserts a submission-history record.
func (s *SQLiteStore) AddApplication(ctx context.Context, a *Application) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (company_id, application_type, title, organization, submission_date, status, value, document_path, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.CompanyID, a.ApplicationType, a.Title, a.Organization, a.SubmissionDate,
		a.Status, a.Value, a.DocumentPath, a.Notes, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	return id, nil
}

// ListApplications returns a company's submission history, newest first.
func (s *SQLiteStore) ListApplications(ctx context.Context, companyID int64) ([]*Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, application_type, title, organization, submission_date, status, value, document_path, notes, created_at
		 FROM applications WHERE company_id = ? ORDER BY created_at DESC, id DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		a := &Application{}
		var appType, title, organization, submissionDate, status, documentPath, notes sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.CompanyID, &appType, &title, &organization,
			&submissionDate, &status, &value, &documentPath, &notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		a.ApplicationType = appType.String
		a.Title = title.String
		a.Organization = organization.String
		a.SubmissionDate = submissionDate.String
		a.Status = status.String
		a.Value = value.Float64
		a.DocumentPath = documentPath.String
		a.Notes = notes.String
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

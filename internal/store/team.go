package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// TeamMember is key personnel a company can name in an application.
// Qualifications and specializations are stored as JSON arrays.
type TeamMember struct {
	ID              int64     `json:"id"`
	CompanyID       int64     `json:"company_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name,omitempty"`
	Role            string    `json:"role,omitempty"`
	Qualifications  []string  `json:"qualifications,omitempty"`
	ExperienceYears int       `json:"experience_years,omitempty"`
	Specializations []string  `json:"specializations,omitempty"`
	CVPath          string    `json:"cv_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AddTeamMember inserts a team member record.
func (s *SQLiteStore) AddTeamMember(ctx context.Context, m *TeamMember) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO team_members (company_id, first_name, last_name, role, qualifications, experience_years, specializations, cv_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.CompanyID, m.FirstName, m.LastName, m.Role,
		marshalStringList(m.Qualifications), m.ExperienceYears,
		marshalStringList(m.Specializations), m.CVPath, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting team member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	return id, nil
}

// ListTeamMembers returns all team members for a company in insertion order.
func (s *SQLiteStore) ListTeamMembers(ctx context.Context, companyID int64) ([]*TeamMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, first_name, last_name, role, qualifications, experience_years, specializations, cv_path, created_at
		 FROM team_members WHERE company_id = ? ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	var members []*TeamMember
	for rows.Next() {
		m := &TeamMember{}
		var firstName, lastName, role, qualifications, specializations, cvPath sql.NullString
		var years sql.NullInt64
		if err := rows.Scan(&m.ID, &m.CompanyID, &firstName, &lastName, &role,
			&qualifications, &years, &specializations, &cvPath, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning team member row: %w", err)
		}
		m.FirstName = firstName.String
		m.LastName = lastName.String
		m.Role = role.String
		m.Qualifications = unmarshalStringList(qualifications.String)
		m.ExperienceYears = int(years.Int64)
		m.Specializations = unmarshalStringList(specializations.String)
		m.CVPath = cvPath.String
		members = append(members, m)
	}
	return members, rows.Err()
}

func marshalStringList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalStringList(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Contact is a person attached to a company.
type Contact struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Title     string    `json:"title,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	IsPrimary bool      `json:"is_primary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddContact inserts a contact. The (company, first name, last name, role)
// tuple is the natural key: inserting the same person again is ignored and
// returns (0, nil).
func (s *SQLiteStore) AddContact(ctx context.Context, c *Contact) (int64, error) {
	if c.Role == "" {
		c.Role = "Contact"
	}
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO contacts (company_id, role, first_name, last_name, title, phone, email, linkedin, is_primary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CompanyID, c.Role, c.FirstName, c.LastName, c.Title, c.Phone, c.Email,
		c.LinkedIn, c.IsPrimary, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting contact: %w", err)
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

// ListContacts returns all contacts for a company in insertion order.
func (s *SQLiteStore) ListContacts(ctx context.Context, companyID int64) ([]*Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, role, first_name, last_name, title, phone, email, linkedin, is_primary, created_at
		 FROM contacts WHERE company_id = ? ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func scanContact(row rowScanner) (*Contact, error) {
	var c Contact
	var role, firstName, lastName, title, phone, email, linkedin sql.NullString
	err := row.Scan(&c.ID, &c.CompanyID, &role, &firstName, &lastName, &title,
		&phone, &email, &linkedin, &c.IsPrimary, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Role = role.String
	c.FirstName = firstName.String
	c.LastName = lastName.String
	c.Title = title.String
	c.Phone = phone.String
	c.Email = email.String
	c.LinkedIn = linkedin.String
	return &c, nil
}

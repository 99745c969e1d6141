package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// TemplateResponse is a reusable answer snippet. Keywords is a
// comma-separated list of trigger words; a question matches when it
// contains any of them.
type TemplateResponse struct {
	ID         int64      `json:"id"`
	CompanyID  int64      `json:"company_id"`
	Category   string     `json:"category,omitempty"`
	Keywords   string     `json:"keywords"`
	Response   string     `json:"response"`
	LastUsed   *time.Time `json:"last_used,omitempty"`
	UsageCount int        `json:"usage_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SaveTemplateResponse stores a reusable answer snippet.
func (s *SQLiteStore) SaveTemplateResponse(ctx context.Context, r *TemplateResponse) (int64, error) {
	if strings.TrimSpace(r.Response) == "" {
		return 0, fmt.Errorf("response text must not be empty")
	}
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO template_responses (company_id, question_category, question_keywords, response_text, usage_count, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		r.CompanyID, r.Category, r.Keywords, r.Response, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting template response: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	return id, nil
}

// ListTemplateResponses returns all of a company's snippets, most used
// first.
func (s *SQLiteStore) ListTemplateResponses(ctx context.Context, companyID int64) ([]*TemplateResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, question_category, question_keywords, response_text, last_used, usage_count, created_at
		 FROM template_responses WHERE company_id = ? ORDER BY usage_count DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing template responses: %w", err)
	}
	defer rows.Close()

	var out []*TemplateResponse
	for rows.Next() {
		r, err := scanTemplateResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template response row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindTemplateResponses returns snippets whose trigger keywords appear in
// the question, most used first. A blank question matches nothing.
func (s *SQLiteStore) FindTemplateResponses(ctx context.Context, companyID int64, question string) ([]*TemplateResponse, error) {
	question = strings.ToLower(strings.TrimSpace(question))
	if question == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, question_category, question_keywords, response_text, last_used, usage_count, created_at
		 FROM template_responses WHERE company_id = ? ORDER BY usage_count DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying template responses: %w", err)
	}
	defer rows.Close()

	var matches []*TemplateResponse
	for rows.Next() {
		r, err := scanTemplateResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template response row: %w", err)
		}
		if keywordsMatch(r.Keywords, question) {
			matches = append(matches, r)
		}
	}
	return matches, rows.Err()
}

// TouchTemplateResponse records a use: bumps usage_count and stamps last_used.
func (s *SQLiteStore) TouchTemplateResponse(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE template_responses SET usage_count = usage_count + 1, last_used = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("touching template response: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("template response %d not found", id)
	}
	return nil
}

func scanTemplateResponse(row rowScanner) (*TemplateResponse, error) {
	r := &TemplateResponse{}
	var category, keywords, response sql.NullString
	err := row.Scan(&r.ID, &r.CompanyID, &category, &keywords, &response,
		&r.LastUsed, &r.UsageCount, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Category = category.String
	r.Keywords = keywords.String
	r.Response = response.String
	return r, nil
}

// keywordsMatch reports whether any comma-separated keyword appears in the
// lowercased question.
func keywordsMatch(keywords, question string) bool {
	for _, kw := range strings.Split(keywords, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(question, kw) {
			return true
		}
	}
	return false
}

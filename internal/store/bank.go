package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BankAccount is the payment detail block on a company record. The fields
// live as columns on companies; they are grouped here because they are
// always read and written together.
type BankAccount struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	StatementPath string `json:"statement_path,omitempty"`
}

// BankDocument is an evidence file backing the bank account details.
type BankDocument struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	DocumentType string    `json:"document_type,omitempty"`
	FileName     string    `json:"file_name"`
	FilePath     string    `json:"file_path,omitempty"`
	FileSize     int64     `json:"file_size,omitempty"`
	Description  string    `json:"description,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// UpdateBankAccount overwrites the bank detail block on a company.
// Empty fields clear (store NULL).
func (s *SQLiteStore) UpdateBankAccount(ctx context.Context, companyID int64, acct BankAccount) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE companies SET bank_name = ?, bank_account_name = ?, bank_account_number = ?, bank_statement_path = ?, updated_at = ?
		 WHERE id = ?`,
		nullString(acct.BankName), nullString(acct.AccountName),
		nullString(acct.AccountNumber), nullString(acct.StatementPath),
		time.Now().UTC(), companyID,
	)
	if err != nil {
		return fmt.Errorf("updating bank account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("company %d not found", companyID)
	}
	return nil
}

// GetBankAccount returns the bank detail block for a company, or (nil, nil)
// when the company doesn't exist.
func (s *SQLiteStore) GetBankAccount(ctx context.Context, companyID int64) (*BankAccount, error) {
	var bankName, accountName, accountNumber, statementPath sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT bank_name, bank_account_name, bank_account_number, bank_statement_path FROM companies WHERE id = ?",
		companyID,
	).Scan(&bankName, &accountName, &accountNumber, &statementPath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting bank account: %w", err)
	}

	return &BankAccount{
		BankName:      bankName.String,
		AccountName:   accountName.String,
		AccountNumber: accountNumber.String,
		StatementPath: statementPath.String,
	}, nil
}

// AddBankDocument records an evidence file.
func (s *SQLiteStore) AddBankDocument(ctx context.Context, d *BankDocument) (int64, error) {
	if d.FileName == "" {
		return 0, fmt.Errorf("file name must not be empty")
	}
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO bank_documents (company_id, document_type, file_name, file_path, file_size, description, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.CompanyID, d.DocumentType, d.FileName, d.FilePath, d.FileSize, d.Description, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting bank document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	d.ID = id
	d.UploadedAt = now
	return id, nil
}

// ListBankDocuments returns a company's evidence files, newest first.
func (s *SQLiteStore) ListBankDocuments(ctx context.Context, companyID int64) ([]*BankDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, document_type, file_name, file_path, file_size, description, uploaded_at
		 FROM bank_documents WHERE company_id = ? ORDER BY uploaded_at DESC, id DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing bank documents: %w", err)
	}
	defer rows.Close()

	var docs []*BankDocument
	for rows.Next() {
		d := &BankDocument{}
		var documentType, fileName, filePath, description sql.NullString
		var fileSize sql.NullInt64
		if err := rows.Scan(&d.ID, &d.CompanyID, &documentType, &fileName,
			&filePath, &fileSize, &description, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning bank document row: %w", err)
		}
		d.DocumentType = documentType.String
		d.FileName = fileName.String
		d.FilePath = filePath.String
		d.FileSize = fileSize.Int64
		d.Description = description.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteBankDocument removes an evidence record by ID.
func (s *SQLiteStore) DeleteBankDocument(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bank_documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting bank document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bank document %d not found", id)
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// FinancialRecord holds one financial year's figures for a company.
// Money fields are pointers: nil means "not provided", which matters for
// partial updates (an upsert only overwrites fields that are set).
type FinancialRecord struct {
	ID               int64     `json:"id"`
	CompanyID        int64     `json:"company_id"`
	Year             int       `json:"financial_year"`
	AnnualTurnover   *float64  `json:"annual_turnover,omitempty"`
	ProfitLoss       *float64  `json:"profit_loss,omitempty"`
	AssetsValue      *float64  `json:"assets_value,omitempty"`
	LiabilitiesValue *float64  `json:"liabilities_value,omitempty"`
	CashFlow         *float64  `json:"cash_flow,omitempty"`
	BankName         string    `json:"bank_name,omitempty"`
	BankAccount      string    `json:"bank_account,omitempty"`
	CreditRating     string    `json:"credit_rating,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// UpsertFinancials writes financial figures keyed by (company, year).
// A zero Year defaults to the current calendar year. When a row for the
// year already exists, only the fields that are set on f are overwritten;
// everything else is left alone.
func (s *SQLiteStore) UpsertFinancials(ctx context.Context, f *FinancialRecord) error {
	if f.Year == 0 {
		f.Year = time.Now().UTC().Year()
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM financials WHERE company_id = ? AND financial_year = ?",
		f.CompanyID, f.Year,
	).Scan(&id)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("looking up financials for year %d: %w", f.Year, err)
	}

	if err == sql.ErrNoRows {
		now := time.Now().UTC()
		result, err := s.db.ExecContext(ctx,
			`INSERT INTO financials (company_id, financial_year, annual_turnover, profit_loss, assets_value, liabilities_value, cash_flow, bank_name, bank_account, credit_rating, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.CompanyID, f.Year, nullFloat(f.AnnualTurnover), nullFloat(f.ProfitLoss),
			nullFloat(f.AssetsValue), nullFloat(f.LiabilitiesValue), nullFloat(f.CashFlow),
			f.BankName, f.BankAccount, f.CreditRating, now,
		)
		if err != nil {
			return fmt.Errorf("inserting financials: %w", err)
		}
		f.ID, _ = result.LastInsertId()
		f.CreatedAt = now
		return nil
	}

	var set []string
	var args []interface{}
	if f.AnnualTurnover != nil {
		set = append(set, "annual_turnover = ?")
		args = append(args, *f.AnnualTurnover)
	}
	if f.ProfitLoss != nil {
		set = append(set, "profit_loss = ?")
		args = append(args, *f.ProfitLoss)
	}
	if f.AssetsValue != nil {
		set = append(set, "assets_value = ?")
		args = append(args, *f.AssetsValue)
	}
	if f.LiabilitiesValue != nil {
		set = append(set, "liabilities_value = ?")
		args = append(args, *f.LiabilitiesValue)
	}
	if f.CashFlow != nil {
		set = append(set, "cash_flow = ?")
		args = append(args, *f.CashFlow)
	}
	if f.BankName != "" {
		set = append(set, "bank_name = ?")
		args = append(args, f.BankName)
	}
	if f.BankAccount != "" {
		set = append(set, "bank_account = ?")
		args = append(args, f.BankAccount)
	}
	if f.CreditRating != "" {
		set = append(set, "credit_rating = ?")
		args = append(args, f.CreditRating)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE financials SET %s WHERE id = ?", strings.Join(set, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating financials: %w", err)
	}
	f.ID = id
	return nil
}

// ListFinancials returns all financial years for a company, newest first.
func (s *SQLiteStore) ListFinancials(ctx context.Context, companyID int64) ([]*FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		financialSelect+" WHERE company_id = ? ORDER BY financial_year DESC", companyID)
	if err != nil {
		return nil, fmt.Errorf("listing financials: %w", err)
	}
	defer rows.Close()

	var records []*FinancialRecord
	for rows.Next() {
		f, err := scanFinancialRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning financial row: %w", err)
		}
		records = append(records, f)
	}
	return records, rows.Err()
}

// LatestFinancials returns the most recent financial year, or (nil, nil)
// when the company has no financial records.
func (s *SQLiteStore) LatestFinancials(ctx context.Context, companyID int64) (*FinancialRecord, error) {
	row := s.db.QueryRowContext(ctx,
		financialSelect+" WHERE company_id = ? ORDER BY financial_year DESC LIMIT 1", companyID)
	f, err := scanFinancialRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest financials: %w", err)
	}
	return f, nil
}

const financialSelect = `SELECT id, company_id, financial_year, annual_turnover, profit_loss,
	assets_value, liabilities_value, cash_flow, bank_name, bank_account, credit_rating, created_at
	FROM financials`

func scanFinancialRecord(row rowScanner) (*FinancialRecord, error) {
	f := &FinancialRecord{}
	var turnover, profitLoss, assets, liabilities, cashFlow sql.NullFloat64
	var bankName, bankAccount, creditRating sql.NullString
	err := row.Scan(&f.ID, &f.CompanyID, &f.Year, &turnover, &profitLoss,
		&assets, &liabilities, &cashFlow, &bankName, &bankAccount, &creditRating, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	f.AnnualTurnover = floatPtr(turnover)
	f.ProfitLoss = floatPtr(profitLoss)
	f.AssetsValue = floatPtr(assets)
	f.LiabilitiesValue = floatPtr(liabilities)
	f.CashFlow = floatPtr(cashFlow)
	f.BankName = bankName.String
	f.BankAccount = bankAccount.String
	f.CreditRating = creditRating.String
	return f, nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

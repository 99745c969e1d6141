package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// companyColumns is the SELECT list shared by every company query.
const companyColumns = `id, name, abn, acn, nzbn, company_number, charity_number, gst_number,
	business_address, postal_address, phone, email, website, established_date,
	employees_count, annual_revenue, business_type, industry_sector, country,
	bank_name, bank_account_name, bank_account_number, bank_statement_path,
	created_at, updated_at`

// CompanyFieldColumns is the allow-list for UpdateCompanyFields, in
// deterministic column order. Bank detail columns are deliberately absent:
// those go through UpdateBankAccount.
var CompanyFieldColumns = []string{
	"name",
	"abn",
	"acn",
	"nzbn",
	"company_number",
	"charity_number",
	"gst_number",
	"business_address",
	"postal_address",
	"phone",
	"email",
	"website",
	"established_date",
	"employees_count",
	"annual_revenue",
	"business_type",
	"industry_sector",
	"country",
}

// GetOrCreateCompany returns the ID for the named company, creating the
// row if it doesn't exist yet. Matching is exact and case-sensitive.
func (s *SQLiteStore) GetOrCreateCompany(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("company name must not be empty")
	}

	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM companies WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up company %q: %w", name, err)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO companies (name, created_at, updated_at) VALUES (?, ?, ?)",
		name, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating company %q: %w", name, err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// GetCompany retrieves a company by exact name. Returns (nil, nil) when
// no such company exists.
func (s *SQLiteStore) GetCompany(ctx context.Context, name string) (*Company, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE name = ?", name)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting company %q: %w", name, err)
	}
	return c, nil
}

// GetCompanyByID retrieves a company by ID. Returns (nil, nil) when
// no such company exists.
func (s *SQLiteStore) GetCompanyByID(ctx context.Context, id int64) (*Company, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id = ?", id)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting company %d: %w", id, err)
	}
	return c, nil
}

// ListCompanies returns all company names, ordered alphabetically.
func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM companies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning company name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpdateCompanyFields applies a partial update to a company row. Keys not
// on the allow-list are silently skipped. An empty string value clears the
// field (stores NULL). Any recognized update bumps updated_at; a call with
// zero recognized keys is a no-op.
func (s *SQLiteStore) UpdateCompanyFields(ctx context.Context, companyID int64, fields map[string]string) error {
	var set []string
	var args []interface{}
	for _, col := range CompanyFieldColumns {
		val, ok := fields[col]
		if !ok {
			continue
		}
		set = append(set, col+" = ?")
		if val == "" {
			args = append(args, nil)
		} else {
			args = append(args, val)
		}
	}
	if len(set) == 0 {
		return nil
	}

	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC(), companyID)

	query := fmt.Sprintf("UPDATE companies SET %s WHERE id = ?", strings.Join(set, ", "))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating company fields: %w", err)
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

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row rowScanner) (*Company, error) {
	var c Company
	var (
		abn, acn, nzbn, companyNumber, charityNumber, gstNumber     sql.NullString
		businessAddress, postalAddress, phone, email, website       sql.NullString
		establishedDate, employeesCount, annualRevenue              sql.NullString
		businessType, industrySector, country                       sql.NullString
		bankName, bankAccountName, bankAccountNumber, statementPath sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &abn, &acn, &nzbn, &companyNumber, &charityNumber,
		&gstNumber, &businessAddress, &postalAddress, &phone, &email, &website,
		&establishedDate, &employeesCount, &annualRevenue, &businessType,
		&industrySector, &country, &bankName, &bankAccountName, &bankAccountNumber,
		&statementPath, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.ABN = abn.String
	c.ACN = acn.String
	c.NZBN = nzbn.String
	c.CompanyNumber = companyNumber.String
	c.CharityNumber = charityNumber.String
	c.GSTNumber = gstNumber.String
	c.BusinessAddress = businessAddress.String
	c.PostalAddress = postalAddress.String
	c.Phone = phone.String
	c.Email = email.String
	c.Website = website.String
	c.EstablishedDate = establishedDate.String
	c.EmployeesCount = employeesCount.String
	c.AnnualRevenue = annualRevenue.String
	c.BusinessType = businessType.String
	c.IndustrySector = industrySector.String
	c.Country = country.String
	c.BankName = bankName.String
	c.BankAccountName = bankAccountName.String
	c.BankAccountNumber = bankAccountNumber.String
	c.BankStatementPath = statementPath.String
	return &c, nil
}

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// migrate creates all tables if they don't exist and seeds metadata.
func (s *SQLiteStore) migrate() error {
	bootstrapDone, err := s.isMetaFlagEnabled("schema_bootstrap_complete")
	if err != nil {
		return fmt.Errorf("checking bootstrap state: %w", err)
	}

	if !bootstrapDone {
		if err := s.runBootstrapDDL(); err != nil {
			return err
		}
	}

	// Seed metadata (outside bootstrap transaction — meta table now exists)
	if err := s.seedMeta(); err != nil {
		return fmt.Errorf("seeding metadata: %w", err)
	}

	if !bootstrapDone {
		if err := s.setMetaFlag("schema_bootstrap_complete"); err != nil {
			return fmt.Errorf("marking bootstrap complete: %w", err)
		}
	}

	// Schema evolution: bank detail columns on companies.
	// Uses ALTER TABLE which can't be inside CREATE TABLE IF NOT EXISTS.
	// We check for column existence first to make it idempotent.
	if err := s.migrateBankDetailColumns(); err != nil {
		return fmt.Errorf("migrating bank detail columns: %w", err)
	}

	return nil
}

func (s *SQLiteStore) runBootstrapDDL() error {
	statements := []string{
		// Root entity: one row per organisation
		`CREATE TABLE IF NOT EXISTS companies (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			name             TEXT UNIQUE NOT NULL,
			abn              TEXT,
			acn              TEXT,
			nzbn             TEXT,
			company_number   TEXT,
			charity_number   TEXT,
			gst_number       TEXT,
			business_address TEXT,
			postal_address   TEXT,
			phone            TEXT,
			email            TEXT,
			website          TEXT,
			established_date TEXT,
			employees_count  TEXT,
			annual_revenue   TEXT,
			business_type    TEXT,
			industry_sector  TEXT,
			country          TEXT DEFAULT 'New Zealand',
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name)`,

		// People attached to a company. The unique index is the dedup key:
		// re-extracting the same person from another document is a no-op.
		`CREATE TABLE IF NOT EXISTS contacts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			role       TEXT,
			first_name TEXT,
			last_name  TEXT,
			title      TEXT,
			phone      TEXT,
			email      TEXT,
			linkedin   TEXT,
			is_primary INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_natural
			ON contacts(company_id, first_name, last_name, role)`,

		`CREATE TABLE IF NOT EXISTS certifications (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id         INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			certification_type TEXT,
			name               TEXT,
			issuing_authority  TEXT,
			certificate_number TEXT,
			issue_date         TEXT,
			expiry_date        TEXT,
			file_path          TEXT,
			status             TEXT DEFAULT 'active',
			created_at         DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_certifications_type ON certifications(certification_type)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_certifications_natural
			ON certifications(company_id, certification_type, name)`,

		// One row per company per financial year
		`CREATE TABLE IF NOT EXISTS financials (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id        INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			financial_year    INTEGER NOT NULL,
			annual_turnover   REAL,
			profit_loss       REAL,
			assets_value      REAL,
			liabilities_value REAL,
			cash_flow         REAL,
			bank_name         TEXT,
			bank_account      TEXT,
			credit_rating     TEXT,
			created_at        DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(company_id, financial_year)
		)`,

		// One row per company per policy type; the latest document wins
		`CREATE TABLE IF NOT EXISTS insurance (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id      INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			insurance_type  TEXT NOT NULL,
			provider        TEXT,
			policy_number   TEXT,
			coverage_amount REAL,
			start_date      TEXT,
			end_date        TEXT,
			file_path       TEXT,
			status          TEXT DEFAULT 'active',
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(company_id, insurance_type)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_insurance_type ON insurance(insurance_type)`,

		`CREATE TABLE IF NOT EXISTS experience (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id        INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			project_name      TEXT,
			client_name       TEXT,
			project_type      TEXT,
			project_value     REAL,
			start_date        TEXT,
			end_date          TEXT,
			description       TEXT,
			outcomes          TEXT,
			reference_contact TEXT,
			reference_phone   TEXT,
			reference_email   TEXT,
			created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_experience_natural
			ON experience(company_id, project_name, description, project_type)`,

		`CREATE TABLE IF NOT EXISTS team_members (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id       INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			first_name       TEXT,
			last_name        TEXT,
			role             TEXT,
			qualifications   TEXT,
			experience_years INTEGER,
			specializations  TEXT,
			cv_path          TEXT,
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_team_members_company ON team_members(company_id)`,

		`CREATE TABLE IF NOT EXISTS equipment (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id     INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			equipment_type TEXT,
			name           TEXT,
			model          TEXT,
			capacity       TEXT,
			condition      TEXT,
			purchase_date  TEXT,
			value          REAL,
			location       TEXT,
			availability   TEXT,
			created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_equipment_company ON equipment(company_id)`,

		// Reusable answer snippets keyed by trigger keywords
		`CREATE TABLE IF NOT EXISTS template_responses (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id        INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			question_category TEXT,
			question_keywords TEXT,
			response_text     TEXT,
			last_used         DATETIME,
			usage_count       INTEGER DEFAULT 0,
			created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_template_responses_keywords
			ON template_responses(question_keywords)`,

		// Submission history
		`CREATE TABLE IF NOT EXISTS applications (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id       INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			application_type TEXT,
			title            TEXT,
			organization     TEXT,
			submission_date  TEXT,
			status           TEXT,
			value            REAL,
			document_path    TEXT,
			notes            TEXT,
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_applications_type ON applications(application_type)`,

		// Evidence files backing the bank account details
		`CREATE TABLE IF NOT EXISTS bank_documents (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id    INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			document_type TEXT,
			file_name     TEXT,
			file_path     TEXT,
			file_size     INTEGER,
			description   TEXT,
			uploaded_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bank_documents_company ON bank_documents(company_id)`,

		// One row per company: standing rates and overheads for costing
		`CREATE TABLE IF NOT EXISTS project_costs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			company_id INTEGER UNIQUE NOT NULL REFERENCES companies(id) ON DELETE CASCADE,

			project_manager_rate    REAL,
			site_supervisor_rate    REAL,
			skilled_trades_rate     REAL,
			general_labor_rate      REAL,
			admin_staff_costs       REAL,
			overtime_rates          REAL,
			holiday_provisions      REAL,
			acc_percentage          REAL,
			kiwisaver_contributions REAL,

			heavy_machinery_rental REAL,
			tools_equipment        REAL,
			vehicle_fleet_costs    REAL,
			fuel_transport         REAL,
			raw_materials          REAL,
			safety_equipment       REAL,
			technology_licenses    REAL,

			office_rent           REAL,
			site_office_rent      REAL,
			utilities             REAL,
			communications        REAL,
			insurance_premiums    REAL,
			professional_services REAL,
			marketing_costs       REAL,
			training_costs        REAL,

			permits_consents         REAL,
			environmental_compliance REAL,
			quality_assurance        REAL,
			subcontractor_costs      REAL,
			contingency_percentage   REAL,
			risk_provisions          REAL,
			bond_guarantee_costs     REAL,

			general_overhead_percentage REAL,
			admin_overhead_percentage   REAL,
			profit_margin_percentage    REAL,
			tax_percentage              REAL,

			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Metadata table
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT
		)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", truncate(stmt, 80), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	return nil
}

func (s *SQLiteStore) isMetaFlagEnabled(key string) (bool, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='meta'`).Scan(&exists); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, nil
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return value == "true", nil
}

func (s *SQLiteStore) setMetaFlag(key string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, 'true')", key)
	return err
}

func isDuplicateColumnError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column name")
}

// migrateBankDetailColumns adds the bank account columns to companies if
// they don't exist. Bank details arrived after the original schema, so
// older databases need the ALTER; fresh databases get them here too,
// right after bootstrap.
func (s *SQLiteStore) migrateBankDetailColumns() error {
	// Check if the first of the group already exists
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info('companies') WHERE name='bank_name'",
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for bank_name column: %w", err)
	}
	if count > 0 {
		return nil // Already migrated
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning bank detail migration: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`ALTER TABLE companies ADD COLUMN bank_name TEXT`,
		`ALTER TABLE companies ADD COLUMN bank_account_name TEXT`,
		`ALTER TABLE companies ADD COLUMN bank_account_number TEXT`,
		`ALTER TABLE companies ADD COLUMN bank_statement_path TEXT`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			if isDuplicateColumnError(err) {
				continue
			}
			return fmt.Errorf("executing %q: %w", truncate(stmt, 60), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bank detail migration: %w", err)
	}
	return nil
}

// seedMeta initializes the meta table with defaults if not already set.
func (s *SQLiteStore) seedMeta() error {
	defaults := map[string]string{
		"schema_version": "1",
		"created_at":     time.Now().UTC().Format(time.RFC3339),
	}

	for k, v := range defaults {
		_, err := s.db.Exec(
			"INSERT OR IGNORE INTO meta (key, value) VALUES (?, ?)", k, v,
		)
		if err != nil {
			return fmt.Errorf("seeding meta key %q: %w", k, err)
		}
	}
	return nil
}

// truncate shortens a string for error messages.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Package store provides the persistent storage layer for tenderbase.
//
// Everything the assistant knows about a company lives in one SQLite
// database: the company record itself plus its child collections
// (contacts, certifications, financials, insurance, experience, team
// members, equipment, applications, bank documents, template responses,
// project costs). Child rows carry natural-content unique keys so that
// re-processing the same document is idempotent rather than duplicative.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default location of the tenderbase database.
const DefaultDBPath = "~/.tenderbase/tenderbase.db"

// Company is the root entity: one row per organisation the assistant
// tracks. Empty string fields mean "not on file" (stored as NULL).
type Company struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	ABN               string    `json:"abn,omitempty"`
	ACN               string    `json:"acn,omitempty"`
	NZBN              string    `json:"nzbn,omitempty"`
	CompanyNumber     string    `json:"company_number,omitempty"`
	CharityNumber     string    `json:"charity_number,omitempty"`
	GSTNumber         string    `json:"gst_number,omitempty"`
	BusinessAddress   string    `json:"business_address,omitempty"`
	PostalAddress     string    `json:"postal_address,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Email             string    `json:"email,omitempty"`
	Website           string    `json:"website,omitempty"`
	EstablishedDate   string    `json:"established_date,omitempty"`
	EmployeesCount    string    `json:"employees_count,omitempty"`
	AnnualRevenue     string    `json:"annual_revenue,omitempty"`
	BusinessType      string    `json:"business_type,omitempty"`
	IndustrySector    string    `json:"industry_sector,omitempty"`
	Country           string    `json:"country,omitempty"`
	BankName          string    `json:"bank_name,omitempty"`
	BankAccountName   string    `json:"bank_account_name,omitempty"`
	BankAccountNumber string    `json:"bank_account_number,omitempty"`
	BankStatementPath string    `json:"bank_statement_path,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StoreConfig holds configuration for NewStore.
type StoreConfig struct {
	DBPath string
}

// Store defines the core storage interface.
type Store interface {
	// Companies
	GetOrCreateCompany(ctx context.Context, name string) (int64, error)
	GetCompany(ctx context.Context, name string) (*Company, error)
	GetCompanyByID(ctx context.Context, id int64) (*Company, error)
	ListCompanies(ctx context.Context) ([]string, error)
	UpdateCompanyFields(ctx context.Context, companyID int64, fields map[string]string) error

	// Contacts
	AddContact(ctx context.Context, c *Contact) (int64, error)
	ListContacts(ctx context.Context, companyID int64) ([]*Contact, error)

	// Certifications
	AddCertification(ctx context.Context, c *Certification) (int64, error)
	ListCertifications(ctx context.Context, companyID int64, activeOnly bool) ([]*Certification, error)

	// Financials
	UpsertFinancials(ctx context.Context, f *FinancialRecord) error
	ListFinancials(ctx context.Context, companyID int64) ([]*FinancialRecord, error)
	LatestFinancials(ctx context.Context, companyID int64) (*FinancialRecord, error)

	// Insurance
	PutInsurance(ctx context.Context, p *InsurancePolicy) error
	ListInsurance(ctx context.Context, companyID int64, activeOnly bool) ([]*InsurancePolicy, error)

	// Experience
	AddExperience(ctx context.Context, e *ExperienceRecord) (int64, error)
	ListExperience(ctx context.Context, companyID int64) ([]*ExperienceRecord, error)

	// Team and equipment
	AddTeamMember(ctx context.Context, m *TeamMember) (int64, error)
	ListTeamMembers(ctx context.Context, companyID int64) ([]*TeamMember, error)
	AddEquipment(ctx context.Context, e *EquipmentItem) (int64, error)
	ListEquipment(ctx context.Context, companyID int64) ([]*EquipmentItem, error)

	// Applications
	AddApplication(ctx context.Context, a *Application) (int64, error)
	ListApplications(ctx context.Context, companyID int64) ([]*Application, error)

	// Template responses
	SaveTemplateResponse(ctx context.Context, r *TemplateResponse) (int64, error)
	ListTemplateResponses(ctx context.Context, companyID int64) ([]*TemplateResponse, error)
	FindTemplateResponses(ctx context.Context, companyID int64, question string) ([]*TemplateResponse, error)
	TouchTemplateResponse(ctx context.Context, id int64) error

	// Bank details
	UpdateBankAccount(ctx context.Context, companyID int64, acct BankAccount) error
	GetBankAccount(ctx context.Context, companyID int64) (*BankAccount, error)
	AddBankDocument(ctx context.Context, d *BankDocument) (int64, error)
	ListBankDocuments(ctx context.Context, companyID int64) ([]*BankDocument, error)
	DeleteBankDocument(ctx context.Context, id int64) error

	// Project costs
	UpdateProjectCosts(ctx context.Context, companyID int64, fields map[string]string) error
	GetProjectCosts(ctx context.Context, companyID int64) (map[string]string, error)

	// Profile and observability
	GetCompanyProfile(ctx context.Context, name string) (*Profile, error)
	Stats(ctx context.Context) (*StoreStats, error)

	// Maintenance
	Vacuum(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new SQLite-backed Store.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg StoreConfig) (Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}
	cfg.DBPath = expandPath(cfg.DBPath)

	// Create parent directory for non-memory databases
	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Enable WAL mode and foreign keys
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{
		db:     db,
		dbPath: cfg.DBPath,
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Vacuum runs VACUUM on the database. Manual only — never auto-vacuum.
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CostColumns lists every cost field on the project_costs table, in schema
// order: labor, equipment and materials, operational, project-specific,
// then overheads and margin. Keys passed to UpdateProjectCosts must come
// from this list; anything else is skipped.
var CostColumns = []string{
	"project_manager_rate",
	"site_supervisor_rate",
	"skilled_trades_rate",
	"general_labor_rate",
	"admin_staff_costs",
	"overtime_rates",
	"holiday_provisions",
	"acc_percentage",
	"kiwisaver_contributions",

	"heavy_machinery_rental",
	"tools_equipment",
	"vehicle_fleet_costs",
	"fuel_transport",
	"raw_materials",
	"safety_equipment",
	"technology_licenses",

	"office_rent",
	"site_office_rent",
	"utilities",
	"communications",
	"insurance_premiums",
	"professional_services",
	"marketing_costs",
	"training_costs",

	"permits_consents",
	"environmental_compliance",
	"quality_assurance",
	"subcontractor_costs",
	"contingency_percentage",
	"risk_provisions",
	"bond_guarantee_costs",

	"general_overhead_percentage",
	"admin_overhead_percentage",
	"profit_margin_percentage",
	"tax_percentage",
}

// parseCostValue coerces a human-entered cost ("$85", "250,000", "15%")
// to a float. Returns (0, false) when nothing parseable remains.
func parseCostValue(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "", "%", "").Replace(raw))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// UpdateProjectCosts upserts the per-company cost record. Values are
// coerced by stripping currency and percent decoration; anything still
// unparseable is stored as NULL rather than rejected, so one bad field
// never blocks the rest. Unknown keys are skipped. A call with zero
// recognized keys is a no-op.
func (s *SQLiteStore) UpdateProjectCosts(ctx context.Context, companyID int64, fields map[string]string) error {
	var cols []string
	var vals []interface{}
	for _, col := range CostColumns {
		raw, ok := fields[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		if v, ok := parseCostValue(raw); ok {
			vals = append(vals, v)
		} else {
			vals = append(vals, nil)
		}
	}
	if len(cols) == 0 {
		return nil
	}

	var exists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM project_costs WHERE company_id = ?", companyID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking for cost record: %w", err)
	}

	now := time.Now().UTC()
	if exists > 0 {
		set := make([]string, len(cols))
		for i, col := range cols {
			set[i] = col + " = ?"
		}
		args := append(vals, now, companyID)
		query := fmt.Sprintf("UPDATE project_costs SET %s, updated_at = ? WHERE company_id = ?",
			strings.Join(set, ", "))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("updating project costs: %w", err)
		}
		return nil
	}

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	args := append([]interface{}{companyID}, vals...)
	args = append(args, now, now)
	query := fmt.Sprintf("INSERT INTO project_costs (company_id, %s, created_at, updated_at) VALUES (?, %s, ?, ?)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting project costs: %w", err)
	}
	return nil
}

// GetProjectCosts returns the cost record as plain strings keyed by column
// name, NULL rendered as "". A company with no cost record gets an empty
// map, not an error.
func (s *SQLiteStore) GetProjectCosts(ctx context.Context, companyID int64) (map[string]string, error) {
	query := fmt.Sprintf("SELECT %s FROM project_costs WHERE company_id = ?",
		strings.Join(CostColumns, ", "))
	row := s.db.QueryRowContext(ctx, query, companyID)

	dest := make([]sql.NullFloat64, len(CostColumns))
	scanArgs := make([]interface{}, len(CostColumns))
	for i := range dest {
		scanArgs[i] = &dest[i]
	}
	if err := row.Scan(scanArgs...); err != nil {
		if err == sql.ErrNoRows {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("getting project costs: %w", err)
	}

	costs := make(map[string]string, len(CostColumns))
	for i, col := range CostColumns {
		if dest[i].Valid {
			costs[col] = strconv.FormatFloat(dest[i].Float64, 'f', -1, 64)
		} else {
			costs[col] = ""
		}
	}
	return costs, nil
}

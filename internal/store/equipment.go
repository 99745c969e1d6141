package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EquipmentItem is plant or equipment a company can commit to a project.
type EquipmentItem struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	EquipmentType string    `json:"equipment_type,omitempty"`
	Name          string    `json:"name"`
	Model         string    `json:"model,omitempty"`
	Capacity      string    `json:"capacity,omitempty"`
	Condition     string    `json:"condition,omitempty"`
	PurchaseDate  string    `json:"purchase_date,omitempty"`
	Value         float64   `json:"value,omitempty"`
	Location      string    `json:"location,omitempty"`
	Availability  string    `json:"availability,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddEquipment inserts an equipment record.
func (s *SQLiteStore) AddEquipment(ctx context.Context, e *EquipmentItem) (int64, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO equipment (company_id, equipment_type, name, model, capacity, condition, purchase_date, value, location, availability, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CompanyID, e.EquipmentType, e.Name, e.Model, e.Capacity, e.Condition,
		e.PurchaseDate, e.Value, e.Location, e.Availability, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting equipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return id, nil
}

// ListEquipment returns all equipment for a company in insertion order.
func (s *SQLiteStore) ListEquipment(ctx context.Context, companyID int64) ([]*EquipmentItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, equipment_type, name, model, capacity, condition, purchase_date, value, location, availability, created_at
		 FROM equipment WHERE company_id = ? ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	defer rows.Close()

	var items []*EquipmentItem
	for rows.Next() {
		e := &EquipmentItem{}
		var equipmentType, name, model, capacity, condition sql.NullString
		var purchaseDate, location, availability sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.CompanyID, &equipmentType, &name, &model,
			&capacity, &condition, &purchaseDate, &value, &location,
			&availability, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning equipment row: %w", err)
		}
		e.EquipmentType = equipmentType.String
		e.Name = name.String
		e.Model = model.String
		e.Capacity = capacity.String
		e.Condition = condition.String
		e.PurchaseDate = purchaseDate.String
		e.Value = value.Float64
		e.Location = location.String
		e.Availability = availability.String
		items = append(items, e)
	}
	return items, rows.Err()
}

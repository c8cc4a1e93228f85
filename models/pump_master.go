package models

import (
	"time"

	"github.com/google/uuid"
)

// PumpMaster represents a tenant: an isolated fuel-station owner account.
// All business data (tanks, nozzles, shifts, bills) is partitioned by its ID.
type PumpMaster struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Seq       int64     `json:"seq" db:"seq"` // numeric short id used on printed bills
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the PumpMaster model
func (PumpMaster) TableName() string {
	return "pump_masters"
}

// NewPumpMaster creates a new PumpMaster instance
func NewPumpMaster(seq int64, code, name string) *PumpMaster {
	now := time.Now()
	return &PumpMaster{
		ID:        uuid.New(),
		Seq:       seq,
		Code:      code,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fuelcore/pump-master-backend/models"
	"github.com/fuelcore/pump-master-backend/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PumpMasterRepository implements the repositories.PumpMasterRepository interface
type PumpMasterRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPumpMasterRepository creates a new pump master repository
func NewPumpMasterRepository(db *DB, logger *zap.Logger) repositories.PumpMasterRepository {
	return &PumpMasterRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new pump master
func (r *PumpMasterRepository) Create(ctx context.Context, pm *models.PumpMaster) error {
	query := `
		INSERT INTO pump_masters (id, seq, code, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		pm.ID,
		pm.Seq,
		pm.Code,
		pm.Name,
		pm.Active,
		pm.CreatedAt,
		pm.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create pump master: %w", err)
	}

	r.logger.Debug("pump master created", zap.String("id", pm.ID.String()), zap.String("code", pm.Code))
	return nil
}

// GetByID retrieves a pump master by ID
func (r *PumpMasterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PumpMaster, error) {
	query := `
		SELECT id, seq, code, name, active, created_at, updated_at
		FROM pump_masters
		WHERE id = $1
	`

	return r.scanPumpMaster(r.db.QueryRowContext(ctx, query, id))
}

// GetByCode retrieves a pump master by its short code
func (r *PumpMasterRepository) GetByCode(ctx context.Context, code string) (*models.PumpMaster, error) {
	query := `
		SELECT id, seq, code, name, active, created_at, updated_at
		FROM pump_masters
		WHERE code = $1
	`

	return r.scanPumpMaster(r.db.QueryRowContext(ctx, query, code))
}

func (r *PumpMasterRepository) scanPumpMaster(row *sql.Row) (*models.PumpMaster, error) {
	pm := &models.PumpMaster{}
	err := row.Scan(
		&pm.ID,
		&pm.Seq,
		&pm.Code,
		&pm.Name,
		&pm.Active,
		&pm.CreatedAt,
		&pm.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pump master: %w", err)
	}

	return pm, nil
}

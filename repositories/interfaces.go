package repositories

import (
	"context"
	"errors"

	"github.com/fuelcore/pump-master-backend/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// UserRepository handles user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByUsername retrieves a user by username. This is the lookup the
	// authentication gate depends on for every token-bearing request.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error
}

// PumpMasterRepository handles pump master (tenant) data operations
type PumpMasterRepository interface {
	// Create creates a new pump master
	Create(ctx context.Context, pm *models.PumpMaster) error

	// GetByID retrieves a pump master by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.PumpMaster, error)

	// GetByCode retrieves a pump master by its short code
	GetByCode(ctx context.Context, code string) (*models.PumpMaster, error)
}

// Repositories bundles all repository instances
type Repositories struct {
	Users       UserRepository
	PumpMasters PumpMasterRepository
}

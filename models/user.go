package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user within a pump master account
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleManager  UserRole = "MANAGER"
	RoleSalesman UserRole = "SALESMAN"
)

// User represents a staff member belonging to exactly one pump master.
// Usernames are unique per pump master, not globally.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	MobileNumber string    `json:"mobile_number" db:"mobile_number"`
	PumpMasterID uuid.UUID `json:"pump_master_id" db:"pump_master_id"`
	Role         UserRole  `json:"role" db:"role"`
	Enabled      bool      `json:"enabled" db:"enabled"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(username, passwordHash, mobileNumber string, pumpMasterID uuid.UUID, role UserRole) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		MobileNumber: mobileNumber,
		PumpMasterID: pumpMasterID,
		Role:         role,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManageShifts returns true if the user can open and close shifts
func (u *User) CanManageShifts() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

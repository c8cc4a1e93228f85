package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fuelcore/pump-master-backend/models"
	"github.com/fuelcore/pump-master-backend/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return &DB{DB: mockDB, logger: zap.NewNop()}, mock
}

func userRows(user *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "password_hash", "mobile_number", "pump_master_id", "role", "enabled", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.Username, user.PasswordHash, user.MobileNumber, user.PumpMasterID,
		user.Role, user.Enabled, user.CreatedAt, user.UpdatedAt,
	)
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user := models.NewUser("ravi", "hash", "+911234567890", uuid.New(), models.RoleSalesman)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Username, user.PasswordHash, user.MobileNumber,
			user.PumpMasterID, user.Role, user.Enabled, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), user)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		user := models.NewUser("ravi", "hash", "", uuid.New(), models.RoleManager)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ravi").
			WillReturnRows(userRows(user))

		got, err := repo.GetByUsername(context.Background(), "ravi")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "ravi", got.Username)
		assert.Equal(t, models.RoleManager, got.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "username", "password_hash", "mobile_number", "pump_master_id", "role", "enabled", "created_at", "updated_at",
			}))

		_, err := repo.GetByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("query failure is wrapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ravi").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.GetByUsername(context.Background(), "ravi")
		require.Error(t, err)
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user := models.NewUser("meera", "hash", "", uuid.New(), models.RoleAdmin)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(user.ID).
		WillReturnRows(userRows(user))

	got, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "meera", got.Username)
}

func TestUserRepository_Update(t *testing.T) {
	t.Run("updates existing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		user := models.NewUser("ravi", "newhash", "", uuid.New(), models.RoleSalesman)
		user.UpdatedAt = time.Now()

		mock.ExpectExec("UPDATE users").
			WithArgs(user.ID, user.Username, user.PasswordHash, user.MobileNumber,
				user.Role, user.Enabled, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), user))
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		user := models.NewUser("ghost", "hash", "", uuid.New(), models.RoleSalesman)

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), user), repositories.ErrNotFound)
	})
}

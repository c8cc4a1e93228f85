package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fuelcore/pump-master-backend/app"
	"github.com/fuelcore/pump-master-backend/models"
	"github.com/fuelcore/pump-master-backend/repositories"
	"github.com/fuelcore/pump-master-backend/services"
	"github.com/fuelcore/pump-master-backend/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockPumpMasterRepository struct {
	mock.Mock
}

func (m *MockPumpMasterRepository) Create(ctx context.Context, pm *models.PumpMaster) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

func (m *MockPumpMasterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PumpMaster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PumpMaster), args.Error(1)
}

func (m *MockPumpMasterRepository) GetByCode(ctx context.Context, code string) (*models.PumpMaster, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PumpMaster), args.Error(1)
}

// newTestDeps wires Dependencies around mock repositories, without a
// real database.
func newTestDeps(t *testing.T) (*app.Dependencies, *MockUserRepository, *MockPumpMasterRepository) {
	t.Helper()

	users := new(MockUserRepository)
	pumpMasters := new(MockPumpMasterRepository)

	codec, err := token.NewCodec(token.Config{
		Secret:     "test-secret-at-least-32-bytes-long!!",
		Issuer:     "pump-master-backend",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	repos := &repositories.Repositories{
		Users:       users,
		PumpMasters: pumpMasters,
	}

	logger := zap.NewNop()
	return &app.Dependencies{
		Logger:      logger,
		Users:       users,
		PumpMasters: pumpMasters,
		Codec:       codec,
		AuthService: services.NewAuthService(repos, codec, logger),
	}, users, pumpMasters
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

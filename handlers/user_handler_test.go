package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fuelcore/pump-master-backend/middleware"
	"github.com/fuelcore/pump-master-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetCurrentUserHandler(t *testing.T) {
	t.Run("returns the authenticated identity", func(t *testing.T) {
		deps, _, _ := newTestDeps(t)

		identity := &middleware.Identity{
			UserID:         uuid.New(),
			Username:       "ravi",
			PumpMasterID:   uuid.New(),
			Role:           models.RoleManager,
			MobileNumber:   "+911234567890",
			PumpMasterName: "Lakeview Fuels",
			PumpMasterSeq:  3,
			PumpMasterCode: "HP-003",
		}

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
		w := httptest.NewRecorder()

		GetCurrentUserHandler(deps)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, identity.UserID.String(), data["userId"])
		assert.Equal(t, "ravi", data["username"])
		assert.Equal(t, "MANAGER", data["role"])
		assert.Equal(t, identity.PumpMasterID.String(), data["pumpMasterId"])
		assert.Equal(t, "Lakeview Fuels", data["pumpMasterName"])
		assert.Equal(t, "HP-003", data["pumpMasterCode"])
	})

	t.Run("anonymous request gets 401", func(t *testing.T) {
		deps, _, _ := newTestDeps(t)

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		w := httptest.NewRecorder()

		GetCurrentUserHandler(deps)(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "UNAUTHORIZED", body["error"])
	})
}

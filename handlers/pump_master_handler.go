package handlers

import (
	"errors"
	"net/http"

	"github.com/fuelcore/pump-master-backend/app"
	"github.com/fuelcore/pump-master-backend/httpx"
	"github.com/fuelcore/pump-master-backend/middleware"
	"github.com/fuelcore/pump-master-backend/repositories"
	"go.uber.org/zap"
)

// PumpMasterResponse is the response body for pump master endpoints
type PumpMasterResponse struct {
	ID     string `json:"id"`
	Seq    int64  `json:"seq"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// GetCurrentPumpMasterHandler handles GET /api/pump-masters/me.
// The tenant is resolved from the request scope, never from the URL, so
// a user can only ever read their own pump master.
func GetCurrentPumpMasterHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middleware.TenantID(r.Context())
		if !ok {
			_ = httpx.WriteUnauthorized(w, r, "")
			return
		}

		pm, err := deps.PumpMasters.GetByID(r.Context(), tenantID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				_ = httpx.WriteNotFound(w, r, "pump master not found")
				return
			}
			deps.Logger.Error("failed to load pump master",
				zap.String("pump_master_id", tenantID.String()),
				zap.Error(err),
			)
			_ = httpx.WriteInternalServerError(w, r, "")
			return
		}

		_ = httpx.WriteOK(w, PumpMasterResponse{
			ID:     pm.ID.String(),
			Seq:    pm.Seq,
			Code:   pm.Code,
			Name:   pm.Name,
			Active: pm.Active,
		})
	}
}

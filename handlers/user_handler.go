package handlers

import (
	"net/http"

	"github.com/fuelcore/pump-master-backend/app"
	"github.com/fuelcore/pump-master-backend/httpx"
	"github.com/fuelcore/pump-master-backend/middleware"
)

// CurrentUserResponse is the response body for GET /api/users/me
type CurrentUserResponse struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	MobileNumber   string `json:"mobileNumber,omitempty"`
	PumpMasterID   string `json:"pumpMasterId"`
	PumpMasterName string `json:"pumpMasterName,omitempty"`
	PumpMasterSeq  int64  `json:"pumpMasterSeq,omitempty"`
	PumpMasterCode string `json:"pumpMasterCode,omitempty"`
}

// GetCurrentUserHandler returns the authenticated identity attached to
// the request. The access policy guarantees an identity is present on
// this route, but the nil check stays as a guard against miswiring.
func GetCurrentUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		if identity == nil {
			_ = httpx.WriteUnauthorized(w, r, "")
			return
		}

		_ = httpx.WriteOK(w, CurrentUserResponse{
			UserID:         identity.UserID.String(),
			Username:       identity.Username,
			Role:           string(identity.Role),
			MobileNumber:   identity.MobileNumber,
			PumpMasterID:   identity.PumpMasterID.String(),
			PumpMasterName: identity.PumpMasterName,
			PumpMasterSeq:  identity.PumpMasterSeq,
			PumpMasterCode: identity.PumpMasterCode,
		})
	}
}

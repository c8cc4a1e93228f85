package handlers

import (
	"net/http"
	"time"

	"github.com/fuelcore/pump-master-backend/app"
	"github.com/fuelcore/pump-master-backend/httpx"
	"github.com/fuelcore/pump-master-backend/token"
	"go.uber.org/zap"
)

// LoginRequest is the request body for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshRequest is the request body for POST /api/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LoginResponse is the response body for successful login and refresh
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    string `json:"expiresAt"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
	PumpMasterID string `json:"pumpMasterId,omitempty"`
}

// LoginHandler handles POST /api/auth/login
func LoginHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !httpx.DecodeAndValidate(w, r, &req) {
			return
		}

		pair, user, err := deps.AuthService.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeServiceError(w, r, deps.Logger, err)
			return
		}

		_ = httpx.WriteOK(w, LoginResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
			Username:     user.Username,
			Role:         string(user.Role),
			PumpMasterID: user.PumpMasterID.String(),
		})
	}
}

// RefreshHandler handles POST /api/auth/refresh
func RefreshHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if !httpx.DecodeAndValidate(w, r, &req) {
			return
		}

		pair, err := deps.AuthService.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			deps.Logger.Debug("refresh rejected", zap.Error(err))
			writeServiceError(w, r, deps.Logger, err)
			return
		}

		_ = httpx.WriteOK(w, tokenPairResponse(pair))
	}
}

func tokenPairResponse(pair *token.Pair) LoginResponse {
	return LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

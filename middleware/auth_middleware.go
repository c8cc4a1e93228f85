package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fuelcore/pump-master-backend/models"
	"github.com/fuelcore/pump-master-backend/token"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserLookup resolves a username to a user record. Implemented by the
// user repository; the lookup may block on I/O and is always completed
// before a request is considered authenticated.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthMiddleware is the request-boundary authentication gate. It never
// rejects requests itself: it either attaches an identity or records a
// failure reason, and leaves enforcement to the access policy.
type AuthMiddleware struct {
	codec  *token.Codec
	users  UserLookup
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(codec *token.Codec, users UserLookup, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		codec:  codec,
		users:  users,
		logger: logger,
	}
}

// Authenticate runs once per request before any business handler. Per
// request exactly one of {identity attached, failure reason recorded}
// holds, and the tenant context is mutated only on success.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw := extractBearerToken(r)
		if raw == "" {
			m.proceedAnonymous(w, r, next, ReasonMissingToken, nil)
			return
		}

		claims, err := m.codec.Parse(raw)
		if err != nil {
			reason := ReasonInvalidToken
			if err == token.ErrExpired {
				reason = ReasonExpiredToken
			}
			m.proceedAnonymous(w, r, next, reason, err)
			return
		}

		// A refresh token must never authenticate a resource request,
		// even with a valid signature and expiry.
		if token.IsRefresh(claims) {
			m.proceedAnonymous(w, r, next, ReasonRefreshTokenNotAllowed, nil)
			return
		}

		// Pre-authentication: username and a preliminary tenant id come
		// from the composite subject, not yet from the claims.
		username, _, err := token.SplitSubject(claims.Subject)
		if err != nil {
			m.proceedAnonymous(w, r, next, ReasonInvalidToken, err)
			return
		}

		user, err := m.users.GetByUsername(ctx, username)
		if err != nil {
			m.logger.Warn("user lookup failed during authentication",
				zap.String("username", username),
				zap.Error(err))
			m.proceedAnonymous(w, r, next, ReasonInvalidToken, nil)
			return
		}
		if user.Username != username || !user.Enabled {
			m.proceedAnonymous(w, r, next, ReasonInvalidToken, nil)
			return
		}

		if !m.codec.ValidForUser(claims, user.Username) {
			m.proceedAnonymous(w, r, next, ReasonInvalidToken, nil)
			return
		}

		// Full validation passed: the pumpMasterId claim is now the
		// authoritative tenant id, superseding the subject-derived one.
		identity, err := identityFromClaims(claims)
		if err != nil {
			m.proceedAnonymous(w, r, next, ReasonInvalidToken, err)
			return
		}

		SetTenant(ctx, identity.PumpMasterID)
		ctx = WithIdentity(ctx, identity)

		m.logger.Debug("authentication successful",
			zap.String("username", identity.Username),
			zap.String("pump_master_id", identity.PumpMasterID.String()),
			zap.String("role", string(identity.Role)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// proceedAnonymous records the failure reason and hands the request on
// without an identity. Public routes may still serve it.
func (m *AuthMiddleware) proceedAnonymous(w http.ResponseWriter, r *http.Request, next http.Handler, reason FailureReason, cause error) {
	fields := []zap.Field{
		zap.String("reason", string(reason)),
		zap.String("path", r.URL.Path),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	m.logger.Debug("request not authenticated", fields...)

	ctx := WithFailureReason(r.Context(), reason)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// identityFromClaims builds the request identity from decoded claims.
// The UUID claims were validated at decode time; parse errors here mean
// the claims were tampered with between decode and attach.
func identityFromClaims(claims *token.Claims) (*Identity, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, err
	}
	pumpMasterID, err := uuid.Parse(claims.PumpMasterID)
	if err != nil {
		return nil, err
	}
	return &Identity{
		UserID:         userID,
		Username:       claims.Username,
		PumpMasterID:   pumpMasterID,
		Role:           models.UserRole(claims.Role),
		MobileNumber:   claims.MobileNumber,
		PumpMasterName: claims.PumpMasterName,
		PumpMasterSeq:  claims.PumpMasterSeq,
		PumpMasterCode: claims.PumpMasterCode,
	}, nil
}

// extractBearerToken extracts the bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

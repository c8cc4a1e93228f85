package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/fuelcore/pump-master-backend/models"
	"github.com/google/uuid"
)

// Context key type to avoid collisions
type contextKey string

const (
	// tenantKey is the context key for the per-request tenant holder
	tenantKey contextKey = "tenant_holder"

	// identityKey is the context key for the authenticated identity
	identityKey contextKey = "identity"

	// failureReasonKey is the context key for the recorded auth failure reason
	failureReasonKey contextKey = "auth_failure_reason"
)

// FailureReason classifies why authentication could not establish an
// identity for a request. At most one reason is recorded per request.
type FailureReason string

const (
	ReasonMissingToken           FailureReason = "MISSING_TOKEN"
	ReasonExpiredToken           FailureReason = "EXPIRED_TOKEN"
	ReasonInvalidToken           FailureReason = "INVALID_TOKEN"
	ReasonRefreshTokenNotAllowed FailureReason = "REFRESH_TOKEN_NOT_ALLOWED"
)

// Message returns the client-facing message for the reason
func (r FailureReason) Message() string {
	switch r {
	case ReasonMissingToken:
		return "Authentication is required to access this resource"
	case ReasonExpiredToken:
		return "Authentication token has expired"
	case ReasonInvalidToken:
		return "Authentication token is invalid"
	case ReasonRefreshTokenNotAllowed:
		return "Refresh token cannot be used to access resources"
	default:
		return "Authentication is required to access this resource"
	}
}

// Identity is the resolved tenant identity attached to a request after
// successful authentication. It carries every claim handlers need so the
// token is never re-decoded downstream.
type Identity struct {
	UserID         uuid.UUID
	Username       string
	PumpMasterID   uuid.UUID
	Role           models.UserRole
	MobileNumber   string
	PumpMasterName string
	PumpMasterSeq  int64
	PumpMasterCode string
}

// HasAnyRole reports whether the identity's role is in the given set
func (id *Identity) HasAnyRole(roles ...models.UserRole) bool {
	for _, role := range roles {
		if id.Role == role {
			return true
		}
	}
	return false
}

// tenantHolder is the per-request mutable slot for the authenticated
// tenant id. One holder is installed per request by Scope; concurrent
// requests never share a holder, so there is no cross-request state.
type tenantHolder struct {
	mu  sync.Mutex
	id  uuid.UUID
	set bool
}

// Scope installs a fresh tenant holder into the request context and
// guarantees teardown when request handling ends, including on panics
// and early authentication rejection.
func Scope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), tenantKey, &tenantHolder{})
		defer ClearTenant(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetTenant establishes the tenant id visible to any code running as
// part of the same request. A no-op outside a Scope'd request.
func SetTenant(ctx context.Context, id uuid.UUID) {
	if holder, ok := ctx.Value(tenantKey).(*tenantHolder); ok {
		holder.mu.Lock()
		holder.id = id
		holder.set = true
		holder.mu.Unlock()
	}
}

// TenantID returns the tenant id established for the current request,
// or false when no tenant has been set.
func TenantID(ctx context.Context) (uuid.UUID, bool) {
	holder, ok := ctx.Value(tenantKey).(*tenantHolder)
	if !ok {
		return uuid.Nil, false
	}
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if !holder.set {
		return uuid.Nil, false
	}
	return holder.id, true
}

// ClearTenant removes the tenant id from the current request's holder
func ClearTenant(ctx context.Context) {
	if holder, ok := ctx.Value(tenantKey).(*tenantHolder); ok {
		holder.mu.Lock()
		holder.id = uuid.Nil
		holder.set = false
		holder.mu.Unlock()
	}
}

// WithIdentity adds the authenticated identity to the context
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the authenticated identity from context,
// or nil when the request is anonymous.
func IdentityFromContext(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityKey).(*Identity); ok {
		return identity
	}
	return nil
}

// WithFailureReason records the classified authentication failure
func WithFailureReason(ctx context.Context, reason FailureReason) context.Context {
	return context.WithValue(ctx, failureReasonKey, reason)
}

// FailureReasonFromContext retrieves the recorded failure reason, if any
func FailureReasonFromContext(ctx context.Context) (FailureReason, bool) {
	reason, ok := ctx.Value(failureReasonKey).(FailureReason)
	return reason, ok
}

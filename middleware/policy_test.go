package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fuelcore/pump-master-backend/httpx"
	"github.com/fuelcore/pump-master-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPolicy_Classify(t *testing.T) {
	policy := NewPolicy(DefaultRules())

	tests := []struct {
		path     string
		method   string
		wantKind RequirementKind
	}{
		{"/healthz", http.MethodGet, KindPublic},
		{"/readyz", http.MethodGet, KindPublic},
		{"/api/auth/login", http.MethodPost, KindPublic},
		{"/api/auth/refresh", http.MethodPost, KindPublic},
		{"/api/pump-masters", http.MethodGet, KindAnyRole},
		{"/api/pump-masters/123/settings", http.MethodPut, KindAnyRole},
		{"/api/tanks", http.MethodGet, KindAuthenticated},
		{"/api/shifts/42/close", http.MethodPost, KindAuthenticated},
		// No rule matches: API namespace defaults to authenticated
		{"/api", http.MethodGet, KindAuthenticated},
		// No rule matches: everything else defaults to public
		{"/", http.MethodGet, KindPublic},
		{"/favicon.ico", http.MethodGet, KindPublic},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := policy.Classify(tt.path, tt.method)
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/api/reports/daily", Method: MethodAny, Requirement: Public()},
		{Pattern: "/api/reports/**", Method: MethodAny, Requirement: AnyRole(models.RoleAdmin)},
	})

	assert.Equal(t, KindPublic, policy.Classify("/api/reports/daily", http.MethodGet).Kind)
	assert.Equal(t, KindAnyRole, policy.Classify("/api/reports/monthly", http.MethodGet).Kind)
}

func TestPolicy_MethodSpecificRules(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/api/bills/**", Method: http.MethodGet, Requirement: Authenticated()},
		{Pattern: "/api/bills/**", Method: MethodAny, Requirement: AnyRole(models.RoleAdmin, models.RoleManager)},
	})

	assert.Equal(t, KindAuthenticated, policy.Classify("/api/bills/7", http.MethodGet).Kind)
	assert.Equal(t, KindAnyRole, policy.Classify("/api/bills/7", http.MethodDelete).Kind)
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/healthz", "/healthz", true},
		{"/healthz", "/healthz/deep", false},
		{"/api/auth/**", "/api/auth/login", true},
		{"/api/auth/**", "/api/auth/refresh/extra", true},
		{"/api/auth/**", "/api/auth", true},
		{"/api/auth/**", "/api/other", false},
		{"/api/*/close", "/api/shifts/close", true},
		{"/api/*/close", "/api/shifts/7/close", false},
		{"/api/**", "/api/anything/at/all", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, matchPattern(tt.pattern, tt.path))
		})
	}
}

// runEnforcer sends a request through Enforce with the given context setup
func runEnforcer(t *testing.T, requirement Rule, setup func(r *http.Request) *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	enforcer := NewEnforcer(NewPolicy([]Rule{requirement}), zap.NewNop())
	handlerCalled := false
	handler := enforcer.Enforce(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tanks", nil)
	if setup != nil {
		req = setup(req)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code == http.StatusOK {
		assert.True(t, handlerCalled)
	} else {
		assert.False(t, handlerCalled, "rejected request must never reach the handler")
	}
	return w
}

func TestEnforce_PublicRoutePassesAnonymous(t *testing.T) {
	w := runEnforcer(t, Rule{Pattern: "/api/tanks", Method: MethodAny, Requirement: Public()}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnforce_AuthenticatedRouteRejectsAnonymous(t *testing.T) {
	w := runEnforcer(t, Rule{Pattern: "/api/tanks", Method: MethodAny, Requirement: Authenticated()},
		func(r *http.Request) *http.Request {
			return r.WithContext(WithFailureReason(r.Context(), ReasonExpiredToken))
		})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, httpx.CodeUnauthorized, body.Error)
	assert.Equal(t, "Authentication token has expired", body.Message)
	assert.Equal(t, "/api/tanks", body.Path)
}

func TestEnforce_NoReasonFallsBackToGenericMessage(t *testing.T) {
	w := runEnforcer(t, Rule{Pattern: "/api/tanks", Method: MethodAny, Requirement: Authenticated()}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Authentication is required to access this resource", body.Message)
}

func TestEnforce_AuthenticatedRoutePassesIdentity(t *testing.T) {
	w := runEnforcer(t, Rule{Pattern: "/api/tanks", Method: MethodAny, Requirement: Authenticated()},
		func(r *http.Request) *http.Request {
			identity := &Identity{UserID: uuid.New(), Username: "ravi", Role: models.RoleSalesman}
			return r.WithContext(WithIdentity(r.Context(), identity))
		})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnforce_RoleMismatchIsForbidden(t *testing.T) {
	w := runEnforcer(t, Rule{Pattern: "/api/tanks", Method: MethodAny, Requirement: AnyRole(models.RoleAdmin, models.RoleManager)},
		func(r *http.Request) *http.Request {
			identity := &Identity{UserID: uuid.New(), Username: "ravi", Role: models.RoleSalesman}
			return r.WithContext(WithIdentity(r.Context(), identity))
		})

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, httpx.CodeAccessDenied, body.Error)
	// Authorization failures are deliberately generic
	assert.NotContains(t, body.Message, "ADMIN")
	assert.NotContains(t, body.Message, "MANAGER")
}

func TestEnforce_RoleMatchPasses(t *testing.T) {
	w := runEnforcer(t, Rule{Pattern: "/api/tanks", Method: MethodAny, Requirement: AnyRole(models.RoleAdmin, models.RoleManager)},
		func(r *http.Request) *http.Request {
			identity := &Identity{UserID: uuid.New(), Username: "meera", Role: models.RoleManager}
			return r.WithContext(WithIdentity(r.Context(), identity))
		})

	assert.Equal(t, http.StatusOK, w.Code)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/fuelcore/pump-master-backend/httpx"
	"github.com/fuelcore/pump-master-backend/models"
	"go.uber.org/zap"
)

// RequirementKind classifies what a route demands of the caller
type RequirementKind int

const (
	// KindPublic routes are served with or without an identity
	KindPublic RequirementKind = iota

	// KindAuthenticated routes require any valid identity
	KindAuthenticated

	// KindAnyRole routes require an identity whose role is in the rule's set
	KindAnyRole
)

// Requirement is the access demand resolved for a request
type Requirement struct {
	Kind  RequirementKind
	Roles []models.UserRole
}

// Public allows anonymous access
func Public() Requirement {
	return Requirement{Kind: KindPublic}
}

// Authenticated requires a valid identity with any role
func Authenticated() Requirement {
	return Requirement{Kind: KindAuthenticated}
}

// AnyRole requires a valid identity holding one of the given roles
func AnyRole(roles ...models.UserRole) Requirement {
	return Requirement{Kind: KindAnyRole, Roles: roles}
}

// MethodAny matches every HTTP method in a rule
const MethodAny = "*"

// Rule binds a path pattern and method to a requirement. Patterns use
// literal segments, "*" for exactly one segment and a trailing "/**"
// for any remainder.
type Rule struct {
	Pattern     string
	Method      string
	Requirement Requirement
}

// Policy is the ordered set of access rules. Classification is a pure
// function of path and method; rules are evaluated in declaration order
// and the first match wins.
type Policy struct {
	rules []Rule
}

// NewPolicy creates a policy from rules in priority order
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultRules returns the application's route access rules
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/healthz", Method: MethodAny, Requirement: Public()},
		{Pattern: "/readyz", Method: MethodAny, Requirement: Public()},
		{Pattern: "/api/auth/**", Method: MethodAny, Requirement: Public()},
		{Pattern: "/api/pump-masters/**", Method: MethodAny, Requirement: AnyRole(models.RoleAdmin, models.RoleManager)},
		{Pattern: "/api/**", Method: MethodAny, Requirement: Authenticated()},
	}
}

// Classify resolves the requirement for a path and method. When no rule
// matches, API-namespaced paths default to authenticated and everything
// else to public.
func (p *Policy) Classify(path, method string) Requirement {
	for _, rule := range p.rules {
		if rule.Method != MethodAny && rule.Method != "" && rule.Method != method {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return rule.Requirement
		}
	}
	if strings.HasPrefix(path, "/api/") {
		return Authenticated()
	}
	return Public()
}

// Enforcer rejects requests whose requirement is not met. It runs after
// Authenticate, consuming the identity or failure reason it left behind.
type Enforcer struct {
	policy *Policy
	logger *zap.Logger
}

// NewEnforcer creates a new Enforcer
func NewEnforcer(policy *Policy, logger *zap.Logger) *Enforcer {
	return &Enforcer{
		policy: policy,
		logger: logger,
	}
}

// Enforce applies the policy decision for the request before any handler
// runs. Authentication failures map to 401 with the recorded reason's
// message; role mismatches map to 403 with a fixed generic message.
func (e *Enforcer) Enforce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requirement := e.policy.Classify(r.URL.Path, r.Method)
		if requirement.Kind == KindPublic {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		identity := IdentityFromContext(ctx)
		if identity == nil {
			message := ""
			if reason, ok := FailureReasonFromContext(ctx); ok {
				message = reason.Message()
				e.logger.Warn("request rejected: authentication failed",
					zap.String("path", r.URL.Path),
					zap.String("reason", string(reason)))
			} else {
				e.logger.Warn("request rejected: no identity",
					zap.String("path", r.URL.Path))
			}
			_ = httpx.WriteUnauthorized(w, r, message)
			return
		}

		if requirement.Kind == KindAnyRole && !identity.HasAnyRole(requirement.Roles...) {
			e.logger.Warn("request rejected: insufficient role",
				zap.String("path", r.URL.Path),
				zap.String("username", identity.Username),
				zap.String("role", string(identity.Role)))
			_ = httpx.WriteForbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// matchPattern matches a path against a rule pattern segment by segment
func matchPattern(pattern, path string) bool {
	patternSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range patternSegs {
		if seg == "**" {
			return true
		}
		if i >= len(pathSegs) {
			return false
		}
		if seg == "*" {
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return len(patternSegs) == len(pathSegs)
}

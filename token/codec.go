package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fuelcore/pump-master-backend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired is returned when the token signature is valid but the token has expired
	ErrExpired = errors.New("token expired")

	// ErrInvalid is returned for any other decode failure: malformed structure,
	// bad signature, wrong signing method, or unparseable claims
	ErrInvalid = errors.New("invalid token")
)

// Token types carried in the tokenType claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims represents the session token claims for a pump master user.
// The subject is the composite identity username + "@" + pumpMasterId,
// binding the username to its tenant so the same username cannot
// impersonate a different pump master.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	PumpMasterID   string `json:"pumpMasterId"`
	Role           string `json:"role"`
	MobileNumber   string `json:"mobileNumber,omitempty"`
	PumpMasterName string `json:"pumpMasterName,omitempty"`
	PumpMasterSeq  int64  `json:"pumpMasterSeq,omitempty"`
	PumpMasterCode string `json:"pumpMasterCode,omitempty"`
	TokenType      string `json:"tokenType"`
}

// Pair bundles the tokens returned by login and refresh exchange
type Pair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Config holds codec configuration
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec signs and verifies session tokens with a single shared
// HMAC-SHA256 secret known at process start.
type Codec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec creates a new Codec. An empty secret is a startup-time error,
// never a per-request condition.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token signing secret cannot be empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	return &Codec{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// Sign serializes the given claims with the composite subject, stamps
// issued-at and expiry, and signs with the shared secret.
func (c *Codec) Sign(claims Claims, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.TokenType = tokenType
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    c.issuer,
		Subject:   claims.Username + "@" + claims.PumpMasterID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// IssueAccess issues an access token for the given user and pump master
func (c *Codec) IssueAccess(user *models.User, pm *models.PumpMaster) (string, error) {
	return c.Sign(claimsFor(user, pm), TypeAccess, c.accessTTL)
}

// IssueRefresh issues a refresh token for the given user and pump master
func (c *Codec) IssueRefresh(user *models.User, pm *models.PumpMaster) (string, error) {
	return c.Sign(claimsFor(user, pm), TypeRefresh, c.refreshTTL)
}

// IssuePair issues an access/refresh token pair
func (c *Codec) IssuePair(user *models.User, pm *models.PumpMaster) (*Pair, error) {
	access, err := c.IssueAccess(user, pm)
	if err != nil {
		return nil, err
	}
	refresh, err := c.IssueRefresh(user, pm)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(c.accessTTL),
	}, nil
}

// Parse verifies the signature and expiry of a token string and returns
// its claims. Decode failures are classified into exactly two sentinels:
// ErrExpired when the signature is valid but the token is past its
// expiry, ErrInvalid for everything else. Library-level errors never
// escape unclassified.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		// A tampered token that is also expired must classify as invalid,
		// so the signature check wins over the expiry check.
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalid
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalid
	}

	if err := validateClaims(claims); err != nil {
		return nil, ErrInvalid
	}

	return claims, nil
}

// validateClaims checks each claim's shape eagerly at decode time so that
// callers never see a partially valid claim set.
func validateClaims(claims *Claims) error {
	if claims.Username == "" {
		return fmt.Errorf("missing username claim")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return fmt.Errorf("malformed userId claim: %w", err)
	}
	if _, err := uuid.Parse(claims.PumpMasterID); err != nil {
		return fmt.Errorf("malformed pumpMasterId claim: %w", err)
	}
	if claims.TokenType != TypeAccess && claims.TokenType != TypeRefresh {
		return fmt.Errorf("unknown token type: %q", claims.TokenType)
	}
	if _, _, err := SplitSubject(claims.Subject); err != nil {
		return err
	}
	return nil
}

// IsRefresh reports whether the claims describe a refresh token
func IsRefresh(claims *Claims) bool {
	return claims.TokenType == TypeRefresh
}

// SplitSubject recovers the username and tenant id from the composite
// subject by splitting on the first "@". A subject that does not split
// into exactly two non-empty parts is rejected.
func SplitSubject(subject string) (username, pumpMasterID string, err error) {
	username, pumpMasterID, found := strings.Cut(subject, "@")
	if !found || username == "" || pumpMasterID == "" {
		return "", "", fmt.Errorf("malformed subject: %q", subject)
	}
	return username, pumpMasterID, nil
}

// ValidForUser re-validates already decoded claims against a resolved
// username: the subject-embedded username must match and the token must
// still be fresh at the time of the check.
func (c *Codec) ValidForUser(claims *Claims, username string) bool {
	subjectUsername, _, err := SplitSubject(claims.Subject)
	if err != nil {
		return false
	}
	if subjectUsername != username {
		return false
	}
	return claims.ExpiresAt != nil && time.Now().Before(claims.ExpiresAt.Time)
}

// claimsFor builds the claim set issued for a user of a pump master
func claimsFor(user *models.User, pm *models.PumpMaster) Claims {
	return Claims{
		UserID:         user.ID.String(),
		Username:       user.Username,
		PumpMasterID:   pm.ID.String(),
		Role:           string(user.Role),
		MobileNumber:   user.MobileNumber,
		PumpMasterName: pm.Name,
		PumpMasterSeq:  pm.Seq,
		PumpMasterCode: pm.Code,
	}
}

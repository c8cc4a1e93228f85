package services

import (
	"context"
	"errors"

	"github.com/fuelcore/pump-master-backend/models"
	"github.com/fuelcore/pump-master-backend/repositories"
	"github.com/fuelcore/pump-master-backend/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles credential verification and session token issuance
type AuthService struct {
	users       repositories.UserRepository
	pumpMasters repositories.PumpMasterRepository
	codec       *token.Codec
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repos *repositories.Repositories, codec *token.Codec, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:       repos.Users,
		pumpMasters: repos.PumpMasters,
		codec:       codec,
		logger:      logger,
	}
}

// Login verifies a username/password pair and issues an access/refresh
// token pair scoped to the user's pump master. An unknown username and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*token.Pair, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, WrapInternal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", zap.String("username", username))
		return nil, nil, ErrInvalidCredentials
	}

	if !user.Enabled {
		return nil, nil, ErrUserDisabled
	}

	pm, err := s.resolvePumpMaster(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.codec.IssuePair(user, pm)
	if err != nil {
		return nil, nil, WrapInternal("failed to issue token pair", err)
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("pump_master_id", user.PumpMasterID.String()),
	)
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a fresh access/refresh pair.
// Access tokens are not accepted here, and the user behind the token is
// re-checked against the store before new tokens are minted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	claims, err := s.codec.Parse(refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.IsRefresh(claims) {
		return nil, ErrNotRefreshToken
	}

	username, _, err := token.SplitSubject(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, WrapInternal("failed to look up user", err)
	}

	if !user.Enabled {
		return nil, ErrUserDisabled
	}

	// The tenant baked into the token must still be the user's tenant.
	if user.PumpMasterID.String() != claims.PumpMasterID {
		s.logger.Warn("refresh token tenant mismatch",
			zap.String("username", username),
			zap.String("claim_pump_master_id", claims.PumpMasterID),
		)
		return nil, ErrInvalidToken
	}

	if !s.codec.ValidForUser(claims, user.Username) {
		return nil, ErrInvalidToken
	}

	pm, err := s.resolvePumpMaster(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.codec.IssuePair(user, pm)
	if err != nil {
		return nil, WrapInternal("failed to issue token pair", err)
	}

	s.logger.Info("token pair refreshed", zap.String("username", user.Username))
	return pair, nil
}

// HashPassword hashes a plaintext password for storage
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", WrapInternal("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *AuthService) resolvePumpMaster(ctx context.Context, user *models.User) (*models.PumpMaster, error) {
	pm, err := s.pumpMasters.GetByID(ctx, user.PumpMasterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPumpMasterNotFound
		}
		return nil, WrapInternal("failed to look up pump master", err)
	}
	if !pm.Active {
		return nil, ErrPumpMasterInactive
	}
	return pm, nil
}

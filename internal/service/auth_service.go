package service

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/security"
)

const (
	msgInvalidCredentials = "Invalid credentials, try again."
	msgAccountDisabled    = "User disabled, contact admin."
	msgTokenInvalid       = "Token is invalid or expired"
)

// AuthService checks credentials and manages the token lifecycle.
type AuthService struct {
	userRepo  repository.UserRepository
	tokens    *security.TokenManager
	blacklist security.Blacklist
	now       func() time.Time
}

// LoginResult is what a successful login hands back.
type LoginResult struct {
	User   *models.User
	Tokens models.TokenPair
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenManager, blacklist security.Blacklist) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		now:       time.Now,
	}
}

// Authenticate verifies a username/password pair.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, models.NewAuthenticationError(msgInvalidCredentials)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !security.CheckPassword(user.Password, password) {
		return nil, models.NewAuthenticationError(msgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, models.NewAuthenticationError(msgAccountDisabled)
	}
	return user, nil
}

// Login authenticates and issues a token pair, stamping last_login.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		observability.RecordAuthEvent("login", false)
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	observability.RecordAuthEvent("login", true)
	return &LoginResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a live, non-blacklisted refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refresh)
	if err != nil {
		observability.RecordAuthEvent("refresh", false)
		return "", models.NewUnauthorizedError(msgTokenInvalid)
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if revoked {
		observability.RecordAuthEvent("refresh", false)
		return "", models.NewUnauthorizedError("Token is blacklisted")
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", models.NewUnauthorizedError(msgTokenInvalid)
	}
	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	observability.RecordAuthEvent("refresh", true)
	return access, nil
}

// Logout blacklists refresh. Blacklisting the same token twice is not an error.
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	claims, err := s.tokens.ParseRefresh(refresh)
	if err != nil {
		return models.NewUnauthorizedError(msgTokenInvalid)
	}
	userID, err := claims.UserID()
	if err != nil {
		return models.NewUnauthorizedError(msgTokenInvalid)
	}

	if err := s.blacklist.Add(ctx, claims.ID, userID, claims.ExpiresAt.Time); err != nil {
		return models.NewInternalError(err)
	}
	observability.RecordAuthEvent("logout", true)
	return nil
}

// UserFromAccessToken resolves a bearer token to an active user.
func (s *AuthService) UserFromAccessToken(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.tokens.ParseAccess(raw)
	if err != nil {
		if errors.Is(err, security.ErrWrongTokenType) {
			return nil, models.NewUnauthorizedError("Token has wrong type")
		}
		return nil, models.NewUnauthorizedError(msgTokenInvalid)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, models.NewUnauthorizedError(msgTokenInvalid)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("User not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.NewUnauthorizedError(msgAccountDisabled)
	}
	return user, nil
}

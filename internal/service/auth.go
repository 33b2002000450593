package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/workout_tracker/internal/models"
	"github.com/Skotchmaster/workout_tracker/internal/repo"
	"github.com/Skotchmaster/workout_tracker/pkg/logging"
	"github.com/Skotchmaster/workout_tracker/pkg/tokens"
)

type AccountStore interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, digest string, exp time.Time) error
	RotateRefreshToken(ctx context.Context, id uuid.UUID, oldDigest, newDigest string, newExp, now time.Time) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) bool
	Dummy() string
}

type TokenEngine interface {
	IssueAccessToken(subject, email, username string) (string, time.Time, error)
	IssueRefreshToken() (string, time.Time, error)
	ValidateLive(token string) (*tokens.AccessClaims, error)
	ValidateExpired(token string) (*tokens.AccessClaims, error)
}

type AuthService struct {
	Repo   AccountStore
	Hasher PasswordHasher
	Tokens TokenEngine
	Now    func() time.Time
}

type SignUpInput struct {
	Username  string
	FirstName string
	LastName  *string
	Email     string
	Password  string
}

type TokenPair struct {
	AccountID    uuid.UUID `json:"-"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExp    time.Time `json:"access_exp"`
	RefreshExp   time.Time `json:"refresh_exp"`
}

func (h *AuthService) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if err := ValidateUsername(in.Username); err != nil {
		l.Warn("signup_rejected", "status", 400, "reason", "username")
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		l.Warn("signup_rejected", "status", 400, "reason", "password")
		return nil, err
	}
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, validationf("first name is required")
	}
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, validationf("email is required")
	}

	exists, err := h.Repo.EmailExists(ctx, email)
	if err != nil {
		l.Error("signup_error", "status", 500, "error", err)
		return nil, err
	}
	if exists {
		l.Warn("signup_rejected", "status", 409, "reason", "email already registered")
		return nil, ErrConflict
	}

	pwHash, err := h.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	acc := &models.Account{
		Username:     in.Username,
		FirstName:    firstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
		CreatedAt:    h.now(),
	}
	if err := h.Repo.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("signup_rejected", "status", 409, "reason", "email already registered")
			return nil, ErrConflict
		}
		l.Error("signup_error", "status", 500, "error", err)
		return nil, err
	}

	acc.PasswordHash = ""
	l.Info("signup_successful", "account_id", acc.ID)
	return acc, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong password.
func (h *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	acc, err := h.Repo.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.Hasher.Check(h.Hasher.Dummy(), password)
			l.Warn("login_failed", "status", 401, "reason", "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}
	if !h.Hasher.Check(acc.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	pair, err := h.issuePair(acc)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	if err := h.Repo.SetRefreshToken(ctx, acc.ID, tokens.Digest(pair.RefreshToken), pair.RefreshExp); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	l.Info("login_successful", "account_id", acc.ID)
	return pair, nil
}

// Refresh exchanges a possibly expired access token and the live refresh token
// for a new pair. The stored refresh token is swapped atomically, so a token
// can be redeemed once.
func (h *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := h.Tokens.ValidateExpired(accessToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "invalid access token")
		return nil, err
	}
	if claims.Email == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing email claim")
		return nil, ErrInvalidToken
	}

	acc, err := h.Repo.GetAccountByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "unknown account")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_error", "status", 500, "error", err)
		return nil, err
	}

	now := h.now()
	presented := tokens.Digest(refreshToken)
	switch {
	case claims.Subject != acc.ID.String():
		l.Warn("refresh_failed", "status", 401, "reason", "subject mismatch")
		return nil, ErrInvalidRefreshToken
	case acc.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*acc.RefreshToken), []byte(presented)) != 1:
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token mismatch")
		return nil, ErrInvalidRefreshToken
	case acc.RefreshTokenExpiry == nil || !acc.RefreshTokenExpiry.After(now):
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token expired")
		return nil, ErrInvalidRefreshToken
	}

	pair, err := h.issuePair(acc)
	if err != nil {
		l.Error("refresh_error", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	rotated, err := h.Repo.RotateRefreshToken(ctx, acc.ID, presented, tokens.Digest(pair.RefreshToken), pair.RefreshExp, now)
	if err != nil {
		l.Error("refresh_error", "status", 500, "error", err)
		return nil, err
	}
	if !rotated {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token already rotated")
		return nil, ErrInvalidRefreshToken
	}

	l.Info("refresh_successful", "account_id", acc.ID)
	return pair, nil
}

func (h *AuthService) Profile(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	acc, err := h.Repo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		logging.FromContext(ctx).Error("profile_error", "svc", "auth.profile", "status", 500, "error", err)
		return nil, err
	}
	acc.PasswordHash = ""
	return acc, nil
}

func (h *AuthService) issuePair(acc *models.Account) (*TokenPair, error) {
	access, accessExp, err := h.Tokens.IssueAccessToken(acc.ID.String(), acc.Email, acc.Username)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := h.Tokens.IssueRefreshToken()
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccountID:    acc.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

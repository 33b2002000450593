package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultAccessTTL = 30 * time.Minute

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is empty")
)

type AccessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Engine signs and verifies HS256 access tokens and mints opaque refresh tokens.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithAccessTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.accessTTL = d
		}
	}
}

func WithRefreshTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.refreshTTL = d
		}
	}
}

func NewEngine(secret []byte, opts ...Option) (*Engine, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	e := &Engine{
		secret:     append([]byte(nil), secret...),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) AccessTTL() time.Duration  { return e.accessTTL }
func (e *Engine) RefreshTTL() time.Duration { return e.refreshTTL }

func (e *Engine) IssueAccessToken(subject, email, username string) (string, time.Time, error) {
	now := e.now()
	exp := now.Add(e.accessTTL)

	claims := AccessClaims{
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// ValidateLive accepts only HS256 tokens with a valid signature that have not expired.
func (e *Engine) ValidateLive(token string) (*AccessClaims, error) {
	return e.parse(token,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(e.now),
		jwt.WithExpirationRequired(),
	)
}

// ValidateExpired verifies the algorithm and signature but ignores expiry.
// Used only on the refresh path, where the access token is expected to be stale.
func (e *Engine) ValidateExpired(token string) (*AccessClaims, error) {
	return e.parse(token,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
}

func (e *Engine) parse(token string, opts ...jwt.ParserOption) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return e.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

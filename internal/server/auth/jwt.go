package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 7 * 24 * time.Hour

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID    int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// wireClaims is the JWT payload. The pointer fields let Verify tell a
// missing claim from a zero value.
type wireClaims struct {
	jwt.RegisteredClaims
	UserID   *int64  `json:"userId"`
	Username *string `json:"username"`
}

// TokenCodec issues and verifies HS256 session tokens.
// It is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a TokenCodec.
type Option func(*TokenCodec)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec returns a codec signing with secret. An empty secret is rejected.
func NewTokenCodec(secret []byte, opts ...Option) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty session secret")
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    SessionTTL,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Issue signs a token for the given admin identity, valid for SessionTTL.
func (c *TokenCodec) Issue(userID int64, username string) (string, error) {
	now := c.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID:   &userID,
		Username: &username,
	})

	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return s, nil
}

// Verify checks signature, algorithm, expiry and payload shape. Every
// failure is reported as common.ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (*SessionClaims, error) {
	claims := &wireClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.UserID == nil || claims.Username == nil {
		return nil, common.ErrInvalidToken
	}

	out := &SessionClaims{
		UserID:    *claims.UserID,
		Username:  *claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

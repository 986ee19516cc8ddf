package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the access token lifetime used when the config does
// not override it.
const DefaultTokenTTL = 30 * time.Minute

var (
	// ErrTokenExpired indicates the token's expiry time has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalidSignature indicates the signature does not match the secret.
	ErrTokenInvalidSignature = errors.New("token signature invalid")
	// ErrTokenMalformed indicates the token string could not be parsed.
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenIssuer creates and verifies stateless HS256 access tokens. The
// signing secret is process-wide, loaded once at startup; rotating it
// invalidates every outstanding token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token claiming "this bearer is userID" from now until
// now+ttl. Verification needs no server-side state.
func (i *TokenIssuer) Issue(userID int64, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and validity window against now and
// returns the subject user id. Failures map to the package sentinels so
// callers can distinguish expired tokens from tampered or garbled ones.
func (i *TokenIssuer) Verify(tokenString string, now time.Time) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return 0, ErrTokenMalformed
		default:
			return 0, ErrTokenInvalidSignature
		}
	}
	if !token.Valid {
		return 0, ErrTokenInvalidSignature
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrTokenMalformed
	}
	return userID, nil
}

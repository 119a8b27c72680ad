// Package auth issues and verifies session tokens and hashes stored
// password digests.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/starford/rnotes/internal/apperr"
)

// Claims are the registered JWT claims; the subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer whose tokens are valid for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID.
func (i *Issuer) Issue(userID int32) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issue time and expiry and returns the user id.
// Every failure wraps apperr.ErrUnauthorized.
func (i *Issuer) Verify(tokenString string) (int32, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	if !token.Valid {
		return 0, apperr.ErrUnauthorized
	}
	if claims.IssuedAt == nil {
		return 0, fmt.Errorf("%w: missing iat", apperr.ErrUnauthorized)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", apperr.ErrUnauthorized)
	}
	return int32(id), nil
}

// HashPassword returns the bcrypt hash stored for a client password digest.
func HashPassword(digest string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(digest), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether digest matches the stored hash.
func CheckPassword(hash, digest string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(digest))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperr.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("check password: %w", err)
	}
	return nil
}

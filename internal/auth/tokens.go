package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates an access token that failed signature or claim
// validation.
var ErrInvalidToken = errors.New("invalid access token")

// Claims is the JWT payload embedded in access tokens. Role and verified
// travel in the token so handlers can authorize without a user lookup.
type Claims struct {
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
	jwt.RegisteredClaims
}

// TokenSigner mints and verifies HS256 access tokens.
type TokenSigner struct {
	secret []byte
	issuer string
}

// NewTokenSigner constructs a signer around the shared HMAC secret.
func NewTokenSigner(secret, issuer string) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("auth: jwt secret must not be empty")
	}
	return &TokenSigner{secret: []byte(secret), issuer: issuer}, nil
}

// Sign issues an access token for the subject expiring at the given time.
func (s *TokenSigner) Sign(subject, role string, verified bool, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Role:     role,
		Verified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses an access token and returns the actor it identifies.
func (s *TokenSigner) Verify(tokenString string) (Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return Actor{}, ErrInvalidToken
	}

	return Actor{
		ID:       claims.Subject,
		Role:     claims.Role,
		Verified: claims.Verified,
	}, nil
}

package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims are the claims of an access token issued by the hosted auth
// provider. Subject carries the auth user id.
type AuthClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier validates access tokens issued by the hosted auth provider.
// Tokens are signed with the project's shared HS256 secret.
type TokenVerifier struct {
	secretKey []byte
	leeway    time.Duration
}

// NewTokenVerifier creates a verifier for the given signing secret
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secretKey: []byte(secret),
		leeway:    30 * time.Second,
	}
}

// Verify parses and validates a token and returns its claims
func (v *TokenVerifier) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secretKey, nil
	}, jwt.WithLeeway(v.leeway), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// Sign issues a token for the given auth user. It is used by tests and by
// local tooling that needs a token without the hosted provider.
func (v *TokenVerifier) Sign(authUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AuthClaims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secretKey)
}

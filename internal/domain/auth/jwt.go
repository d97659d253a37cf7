// Package auth provides authentication domain logic. Token issuance is owned
// by the identity service; this module only validates tokens and derives the
// session from claims.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"purchasing/internal/core/session"
)

// JWTConfig holds JWT validation configuration.
type JWTConfig struct {
	Secret string
	Issuer string
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret: secret,
		Issuer: "purchasing",
	}
}

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string   `json:"uid"`
	UserName    string   `json:"name"`
	CompanyCode string   `json:"cmp"`
	Permissions []string `json:"perms,omitempty"`
	IsAdmin     bool     `json:"adm,omitempty"`
}

// JWTService validates access tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// ValidateToken validates a JWT and returns the session it carries.
func (s *JWTService) ValidateToken(tokenString string) (*session.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &session.Session{
		UserID:      claims.UserID,
		UserName:    claims.UserName,
		CompanyCode: claims.CompanyCode,
		Permissions: claims.Permissions,
		IsAdmin:     claims.IsAdmin,
		AccessToken: tokenString,
	}, nil
}

// IssueToken signs a token for the given session. Used by tests and local
// development tooling; production tokens come from the identity service.
func (s *JWTService) IssueToken(sess *session.Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:      sess.UserID,
		UserName:    sess.UserName,
		CompanyCode: sess.CompanyCode,
		Permissions: sess.Permissions,
		IsAdmin:     sess.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

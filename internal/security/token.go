package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongScope   = errors.New("token lacks required scope")
)

const (
	// ScopeScanner authorizes triggering the transition scan and reading
	// the admin metrics projection.
	ScopeScanner = "scanner"
)

// ServiceClaims are the claims carried by service-to-service tokens, such
// as the one the cron trigger presents.
type ServiceClaims struct {
	Subject string   `json:"sub_name,omitempty"`
	Scopes  []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

func (c *ServiceClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

type TokenManager interface {
	GenerateServiceToken(subject string, scopes []string, expiry time.Duration) (string, error)
	ValidateServiceToken(tokenString string, requiredScope string) (*ServiceClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{secret: []byte(secret)}
}

func (m *tokenManager) GenerateServiceToken(subject string, scopes []string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := ServiceClaims{
		Subject: subject,
		Scopes:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateServiceToken(tokenString, requiredScope string) (*ServiceClaims, error) {
	claims := &ServiceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if requiredScope != "" && !claims.HasScope(requiredScope) {
		return nil, ErrWrongScope
	}
	return claims, nil
}

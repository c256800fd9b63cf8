package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors returned by token operations.
var (
	ErrMissingJWTSecret = errors.New("security: missing jwt secret")
	ErrInvalidToken     = errors.New("security: invalid token")
)

// AdminClaims are the JWT claims embedded in operator tokens.
type AdminClaims struct {
	AdminID  uint64  `json:"admin_id"`
	Username string  `json:"username"`
	SiteID   *uint64 `json:"site_id,omitempty"`
	jwt.RegisteredClaims
}

// SignAdminToken issues a signed JWT for an operator account.
func SignAdminToken(secret string, adminID uint64, username string, siteID *uint64, expiry time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingJWTSecret
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	now := time.Now().UTC()
	claims := AdminClaims{
		AdminID:  adminID,
		Username: username,
		SiteID:   siteID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAdminToken validates a token and returns its claims.
func ParseAdminToken(secret, raw string) (*AdminClaims, error) {
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}
	claims := &AdminClaims{}
	token, errParse := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if errParse != nil {
		return nil, errParse
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

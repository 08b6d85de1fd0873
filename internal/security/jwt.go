// Package security provides password hashing, random tokens and signed JWTs.
package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token audiences.
const (
	audienceSession = "landbook:session"
	audienceShare   = "landbook:share"
)

// ErrEmptySecret is returned when signing or parsing without a secret.
var ErrEmptySecret = errors.New("security: empty jwt secret")

// Claims identifies a signed-in user.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// ShareClaims grants read access to one shared project.
type ShareClaims struct {
	ProjectID  string `json:"pid"`
	ShareToken string `json:"stk"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session token for userID.
func IssueSessionToken(secret, userID string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(expiry)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := sign(secret, claims)
	return signed, expiresAt, err
}

// ParseSessionToken validates a session token and returns its claims.
func ParseSessionToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(secret, token, audienceSession, claims); err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, fmt.Errorf("security: session token without user")
	}
	return claims, nil
}

// IssueShareToken signs a viewer token for a shared project.
func IssueShareToken(secret, projectID, shareToken string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(expiry)
	claims := ShareClaims{
		ProjectID:  projectID,
		ShareToken: shareToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   projectID,
			Audience:  jwt.ClaimStrings{audienceShare},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := sign(secret, claims)
	return signed, expiresAt, err
}

// ParseShareToken validates a viewer token and returns its claims.
func ParseShareToken(secret, token string) (*ShareClaims, error) {
	claims := &ShareClaims{}
	if err := parse(secret, token, audienceShare, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func sign(secret string, claims jwt.Claims) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parse(secret, token, audience string, claims jwt.Claims) error {
	if secret == "" {
		return ErrEmptySecret
	}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("security: parse token: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("security: invalid token")
	}
	return nil
}

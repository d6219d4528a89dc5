// Package auth owns the session credential format. A credential is a signed
// JWT encoding (user id, session id); it is opaque to every other component,
// and only this package mints or opens one. Credential lifetime is governed by
// the session set on the user record: logging out prunes the session id, so a
// stolen or stale token goes dead without any revocation list.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload inside every session credential.
type Claims struct {
	UserID    int64 `json:"auth_user_id"`
	SessionID int64 `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateToken mints a signed credential for a (user, session) pair.
func GenerateToken(userID, sessionID int64, secret string) (string, error) {
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   "huddle",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a credential string and extracts its claims. It
// rejects tokens that are tampered with, expired, or signed with anything
// other than HMAC. The key callback runs before signature verification, so
// an algorithm-switching token never gets as far as a signature check.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

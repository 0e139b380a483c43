// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. Nothing in here performs I/O: issuing and verifying a token
// only depends on the signing secret injected at construction.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/inkpost/internal/platform/constants"
)

// ErrInvalidToken is returned by [TokenService.Verify] for malformed tokens,
// signature mismatches, expired tokens and tokens without a user claim.
var ErrInvalidToken = errors.New("sec: invalid token")

// AuthClaims represents the payload embedded inside a session token.
//
// The only application claim is the user identifier. Registered claims stay
// empty unless a token lifetime is configured, in which case iat/exp are set.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
}

// TokenService issues and verifies HS256 session tokens.
//
// It is stateless and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a new TokenService.
//
// A ttl of zero issues time-unbounded tokens.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < constants.MinSecretLength {
		return nil, fmt.Errorf("sec: signing secret must be at least %d bytes", constants.MinSecretLength)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("sec: token ttl must not be negative")
	}

	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token embedding userID.
func (service *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("sec: cannot issue token for empty user id")
	}

	claims := AuthClaims{UserID: userID}
	if service.ttl > 0 {
		currentTime := time.Now()
		claims.IssuedAt = jwt.NewNumericDate(currentTime)
		claims.ExpiresAt = jwt.NewNumericDate(currentTime.Add(service.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and shape of tokenString and returns the user id
// it was issued for.
func (service *TokenService) Verify(tokenString string) (string, error) {
	claims, err := service.VerifyToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// VerifyToken is like [TokenService.Verify] but returns the full claim set.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing userId claim", ErrInvalidToken)
	}

	return claims, nil
}

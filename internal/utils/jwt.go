// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-natours/models"
)

var (
	ErrInvalidJWTParams = errors.New("invalid params for generating JWT token")
	ErrEmptySubject     = errors.New("empty subject in JWT token")
	ErrNoIssuedAt       = errors.New("no iat claim in JWT token")
	ErrNoBearerToken    = errors.New("no bearer token in authorization header")
)

// GenerateJWTToken creates a signed HS256 token for userID.
//
// The token carries iss, sub (the user id), iat (now) and exp
// (now + tokenDuration).
func GenerateJWTToken(issuer string, userID uuid.UUID, tokenDuration time.Duration, signKey string, now time.Time) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" || userID == uuid.Nil {
		return models.Token{}, ErrInvalidJWTParams
	}

	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, RegisteredClaims: claims, SignedString: tokenString, UserID: userID}, nil
}

// ValidateAndParseJWTToken verifies the signature, issuer, expiry and iat of
// tokenString against the clock now and returns the parsed token.
//
// Errors wrap the jwt/v5 sentinels, so callers can tell an expired token
// apart with errors.Is(err, jwt.ErrTokenExpired).
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string, now func() time.Time) (models.Token, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	parsed := models.Token{Token: token, RegisteredClaims: claims, SignedString: tokenString}
	if claims.Subject == "" {
		return models.Token{}, ErrEmptySubject
	}
	if claims.IssuedAt == nil {
		return models.Token{}, fmt.Errorf("%w: %w", jwt.ErrTokenRequiredClaimMissing, ErrNoIssuedAt)
	}
	if parsed.UserID, err = parsed.GetUserID(); err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", jwt.ErrTokenMalformed, err)
	}

	return parsed, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrNoBearerToken
	}
	return strings.TrimSpace(token), nil
}

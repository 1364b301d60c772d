package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and checks the HS256 tokens that identify a caller by email.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for email. Without a configured secret no tokens are issued.
func (s *TokenService) Issue(email string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: token signing is not configured", ErrUnavailable)
	}

	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: a valid email is required", ErrValidation)
	}

	now := s.now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates tokenString and returns the email it was issued for.
func (s *TokenService) Parse(tokenString string) (string, error) {
	if len(s.secret) == 0 || tokenString == "" {
		return "", ErrUnauthorized
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", errors.Join(ErrUnauthorized, err)
	}
	if claims.Email == "" {
		return "", fmt.Errorf("%w: token has no email claim", ErrUnauthorized)
	}
	return claims.Email, nil
}
